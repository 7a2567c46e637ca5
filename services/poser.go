package services

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"credinews/models"
)

// FacebookClient talks to the Graph API for poser (impersonator) detection.
type FacebookClient struct {
	AccessToken string
	baseURL     string
	client      *http.Client
}

func NewFacebookClient(accessToken string) *FacebookClient {
	return &FacebookClient{
		AccessToken: accessToken,
		baseURL:     "https://graph.facebook.com/v18.0",
		client:      &http.Client{Timeout: 15 * time.Second},
	}
}

type fbPageInfo struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	IsVerified    bool   `json:"is_verified"`
	FanCount      int    `json:"fan_count"`
	CreatedTime   string `json:"created_time"`
	FollowerCount int    `json:"followers_count"`
}

type fbPost struct {
	ID          string `json:"id"`
	Message     string `json:"message"`
	CreatedTime string `json:"created_time"`
	Shares      struct {
		Count int `json:"count"`
	} `json:"shares"`
	Reactions struct {
		Summary struct {
			TotalCount int `json:"total_count"`
		} `json:"summary"`
	} `json:"reactions"`
	Comments struct {
		Summary struct {
			TotalCount int `json:"total_count"`
		} `json:"summary"`
	} `json:"comments"`
}

type fbPostsPage struct {
	Data []fbPost `json:"data"`
}

func (c *FacebookClient) get(path string, params url.Values, out interface{}) error {
	params.Set("access_token", c.AccessToken)
	resp, err := c.client.Get(c.baseURL + path + "?" + params.Encode())
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("graph api status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

var fbPageRe = regexp.MustCompile(`facebook\.com/([^/?#]+)`)

// ExtractPageID pulls a page identifier out of a Facebook URL.
func ExtractPageID(rawURL string) string {
	m := fbPageRe.FindStringSubmatch(rawURL)
	if m == nil {
		return ""
	}
	return m[1]
}

// AnalyzeAccount scores a page for impersonation risk from its profile and
// recent activity. Returns nil when the Graph API is not configured or the
// page cannot be fetched; the pipeline degrades gracefully in both cases.
func (c *FacebookClient) AnalyzeAccount(pageID string) *models.PoserDetection {
	if c == nil || c.AccessToken == "" || pageID == "" {
		return nil
	}

	log.Printf("[POSER] 🔍 Analyzing account: %s", pageID)

	var info fbPageInfo
	err := c.get("/"+pageID, url.Values{
		"fields": {"id,name,is_verified,fan_count,followers_count,created_time"},
	}, &info)
	if err != nil {
		log.Printf("[POSER] ⚠ Page info unavailable: %v", err)
		return nil
	}

	var posts fbPostsPage
	err = c.get("/"+pageID+"/posts", url.Values{
		"fields": {"id,message,created_time,shares,reactions.summary(true),comments.summary(true)"},
		"limit":  {"100"},
	}, &posts)
	if err != nil {
		log.Printf("[POSER] ⚠ Posts unavailable: %v", err)
	}

	suspicion := 0
	var flags []string

	if !info.IsVerified {
		suspicion++
		flags = append(flags, "Not verified")
	}

	if info.CreatedTime != "" {
		if created, err := time.Parse("2006-01-02T15:04:05-0700", info.CreatedTime); err == nil {
			ageDays := int(time.Since(created).Hours() / 24)
			if ageDays < 30 {
				suspicion += 2
				flags = append(flags, "Very new account (< 30 days)")
			} else if ageDays < 90 {
				suspicion++
				flags = append(flags, "New account (< 90 days)")
			}
		}
	}

	recentPosts := 0
	totalEngagement := 0
	for _, post := range posts.Data {
		if created, err := time.Parse("2006-01-02T15:04:05-0700", post.CreatedTime); err == nil {
			if time.Since(created) <= 30*24*time.Hour {
				recentPosts++
			}
		}
		totalEngagement += post.Reactions.Summary.TotalCount +
			post.Comments.Summary.TotalCount + post.Shares.Count
	}

	postingFrequency := float64(recentPosts) / 30
	if postingFrequency > 10 {
		suspicion += 2
		flags = append(flags, "Extremely high posting frequency")
	} else if postingFrequency > 5 {
		suspicion++
		flags = append(flags, "High posting frequency")
	}

	if info.FanCount > 0 && len(posts.Data) > 0 {
		avgEngagement := float64(totalEngagement) / float64(len(posts.Data))
		ratio := avgEngagement / float64(info.FanCount)
		if ratio > 0.1 {
			suspicion++
			flags = append(flags, "Unusually high engagement ratio")
		} else if avgEngagement > 0 && ratio < 0.001 {
			suspicion++
			flags = append(flags, "Unusually low engagement ratio")
		}
	}

	riskLevel := "LOW"
	switch {
	case suspicion >= 4:
		riskLevel = "HIGH"
	case suspicion >= 2:
		riskLevel = "MEDIUM"
	}

	detection := &models.PoserDetection{
		IsPoser:    riskLevel == "HIGH",
		RiskScore:  math.Min(100, float64(suspicion)*15),
		RiskLevel:  riskLevel,
		IsVerified: info.IsVerified,
		Flags:      flags,
	}

	log.Printf("[POSER] ✓ %s risk=%s score=%.0f flags=%d", pageID, riskLevel, detection.RiskScore, len(flags))
	return detection
}
