package services

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"
)

type ContentFetcher struct {
	client *http.Client
}

func NewContentFetcher() *ContentFetcher {
	return &ContentFetcher{
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchURL downloads a page and extracts its readable article text.
func (f *ContentFetcher) FetchURL(url string) (string, error) {
	log.Printf("[FETCHER] 🌐 Fetching content from URL: %s", url)

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("request build error: %w", err)
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch error: %w", err)
	}
	defer resp.Body.Close()

	log.Printf("[FETCHER] ✓ Response status %d, Content-Type: %s", resp.StatusCode, resp.Header.Get("Content-Type"))

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read error: %w", err)
	}

	content := f.extractText(string(body))
	log.Printf("[FETCHER] ✓ Extracted %d characters of text", len(content))

	if len(content) < 200 {
		log.Printf("[FETCHER] ⚠ Content very short (%d chars). Possibly an SPA or a page without static text.", len(content))
		return "", fmt.Errorf("insufficient text content on page (%d chars), try another link", len(content))
	}

	return content, nil
}

// Tags whose whole subtree is skipped.
var skipTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"iframe":   true,
	"svg":      true,
	"canvas":   true,
	"audio":    true,
	"video":    true,
}

// Block tags get a newline after them.
var blockTags = map[string]bool{
	"p": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"div": true, "section": true, "article": true, "main": true,
	"blockquote": true, "li": true, "dt": true, "dd": true,
	"tr": true, "td": true, "th": true, "br": true,
	"figcaption": true,
}

// Paragraph tags get a blank line after them.
var paraTags = map[string]bool{
	"p": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "figcaption": true,
}

func isJunkNode(n *html.Node) bool {
	for _, attr := range n.Attr {
		switch attr.Key {
		case "class", "id":
			val := strings.ToLower(attr.Val)
			if strings.Contains(val, "advertisement") ||
				strings.Contains(val, "ad-banner") ||
				strings.Contains(val, "popup") ||
				strings.Contains(val, "modal") ||
				strings.Contains(val, "cookie-banner") {
				return true
			}
		case "aria-hidden":
			if attr.Val == "true" {
				return true
			}
		}
	}
	return false
}

func (f *ContentFetcher) extractText(htmlStr string) string {
	doc, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		log.Printf("[FETCHER] ⚠ HTML parse error: %v", err)
		return ""
	}

	// Prefer the semantic article container; fall back to the whole page.
	if mainContent := f.findMainContent(doc); mainContent != nil {
		return f.extractFromNode(mainContent)
	}
	return f.extractFromNode(doc)
}

func (f *ContentFetcher) findMainContent(n *html.Node) *html.Node {
	if article := f.findTag(n, "article"); article != nil {
		return article
	}
	if main := f.findTag(n, "main"); main != nil {
		return main
	}
	return f.findByClass(n, []string{"content", "article", "post", "entry", "main-content", "post-content"})
}

func (f *ContentFetcher) findTag(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && strings.ToLower(n.Data) == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result := f.findTag(c, tag); result != nil {
			return result
		}
	}
	return nil
}

func (f *ContentFetcher) findByClass(n *html.Node, keywords []string) *html.Node {
	if n.Type == html.ElementNode {
		for _, attr := range n.Attr {
			if attr.Key == "class" || attr.Key == "id" {
				val := strings.ToLower(attr.Val)
				for _, keyword := range keywords {
					if strings.Contains(val, keyword) {
						return n
					}
				}
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result := f.findByClass(c, keywords); result != nil {
			return result
		}
	}
	return nil
}

func (f *ContentFetcher) extractFromNode(root *html.Node) string {
	var sb strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			tag := strings.ToLower(n.Data)

			if skipTags[tag] || isJunkNode(n) {
				return
			}

			if blockTags[tag] {
				s := sb.String()
				if len(s) > 0 && s[len(s)-1] != '\n' {
					sb.WriteByte('\n')
				}
			}

			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c)
			}

			if blockTags[tag] {
				if paraTags[tag] {
					sb.WriteString("\n\n")
				} else {
					s := sb.String()
					if len(s) == 0 || s[len(s)-1] != '\n' {
						sb.WriteByte('\n')
					}
				}
			}
			return
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				s := sb.String()
				if len(s) > 0 && s[len(s)-1] != '\n' && s[len(s)-1] != ' ' {
					sb.WriteByte(' ')
				}
				sb.WriteString(text)
			}
			return
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(root)

	spaceRe := regexp.MustCompile(`[ \t]+`)
	newlineRe := regexp.MustCompile(`\n{3,}`)

	rawLines := strings.Split(sb.String(), "\n")
	var cleanLines []string
	for _, line := range rawLines {
		line = strings.TrimSpace(line)
		line = spaceRe.ReplaceAllString(line, " ")
		if line != "" {
			cleanLines = append(cleanLines, line)
		}
	}

	text := strings.TrimSpace(newlineRe.ReplaceAllString(strings.Join(cleanLines, "\n"), "\n\n"))

	if len([]rune(text)) > 20000 {
		runes := []rune(text)
		log.Printf("[FETCHER] ⚠ Text too long (%d chars), truncating to 20000", len(runes))
		text = string(runes[:20000])
	}

	return text
}
