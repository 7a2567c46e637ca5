package services

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleHTML = `<!DOCTYPE html>
<html><head><title>Test</title><style>body{color:red}</style>
<script>console.log("noise")</script></head>
<body>
<nav class="main-nav"><a href="/">Home</a></nav>
<div class="advertisement">Buy now!</div>
<article>
<h1>City Council Approves New Budget</h1>
<p>The city council approved the annual budget on Tuesday after a lengthy session.</p>
<p>Officials said the plan allocates additional funds to public transportation and parks,
according to the published report. Several members raised concerns about long-term debt,
but the measure passed with a comfortable majority after hours of debate and testimony
from residents, analysts and department heads across the city government.</p>
</article>
<footer>Copyright</footer>
</body></html>`

func TestExtractTextPrefersArticle(t *testing.T) {
	f := NewContentFetcher()
	text := f.extractText(articleHTML)

	assert.Contains(t, text, "City Council Approves New Budget")
	assert.Contains(t, text, "public transportation")
	assert.NotContains(t, text, "console.log", "script content must be stripped")
	assert.NotContains(t, text, "Buy now!", "ad containers must be stripped")
	assert.NotContains(t, text, "Home", "navigation outside the article is excluded")
}

func TestExtractTextParagraphBreaks(t *testing.T) {
	f := NewContentFetcher()
	text := f.extractText("<article><p>First paragraph.</p><p>Second paragraph.</p></article>")

	assert.Contains(t, text, "First paragraph.\nSecond paragraph.")
}

func TestExtractTextSkipsHiddenNodes(t *testing.T) {
	f := NewContentFetcher()
	text := f.extractText(`<article><p>visible</p><p aria-hidden="true">invisible</p></article>`)

	assert.Contains(t, text, "visible")
	assert.NotContains(t, text, "invisible")
}

func TestFetchURLRejectsShortContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>too short</p></body></html>"))
	}))
	defer srv.Close()

	f := NewContentFetcher()
	_, err := f.FetchURL(srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient text content")
}

func TestFetchURLExtractsArticle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Write([]byte(articleHTML))
	}))
	defer srv.Close()

	f := NewContentFetcher()
	text, err := f.FetchURL(srv.URL)
	require.NoError(t, err)
	assert.Contains(t, text, "City Council Approves New Budget")
}

func TestFetchURLNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewContentFetcher()
	_, err := f.FetchURL(srv.URL)
	assert.Error(t, err)
}

func TestExtractTextTruncatesVeryLongPages(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("<article>")
	for i := 0; i < 3000; i++ {
		sb.WriteString("<p>some repeated sentence body text</p>")
	}
	sb.WriteString("</article>")

	f := NewContentFetcher()
	text := f.extractText(sb.String())
	assert.LessOrEqual(t, len([]rune(text)), 20000)
}
