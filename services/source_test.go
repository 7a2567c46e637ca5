package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDomain(t *testing.T) {
	assert.Equal(t, "bbc.com", NormalizeDomain("https://www.bbc.com/news/article-123"))
	assert.Equal(t, "example.org", NormalizeDomain("http://example.org:8080/path"))
	assert.Equal(t, "reuters.com", NormalizeDomain("https://reuters.com"))
	assert.Equal(t, "not a url", NormalizeDomain("not a url"))
}

func TestAssessSourceKnownPublisher(t *testing.T) {
	src := AssessSource("https://www.bbc.com/news/world-123", "url")

	require.NotNil(t, src)
	assert.Equal(t, "bbc.com", src.Domain)
	assert.Equal(t, "High", src.Credibility)
	require.NotNil(t, src.ReputationScore)
	assert.InDelta(t, 90.0, *src.ReputationScore, 0.001)
}

func TestAssessSourceMidTierPublisher(t *testing.T) {
	src := AssessSource("https://www.rappler.com/nation/story", "url")
	assert.Equal(t, "Reliable", src.Credibility)
}

func TestAssessSourceUnreliable(t *testing.T) {
	src := AssessSource("https://fake-news-site.com/shocking", "url")
	assert.Equal(t, "Unreliable", src.Credibility)
	require.NotNil(t, src.ReputationScore)
	assert.InDelta(t, 10.0, *src.ReputationScore, 0.001)
}

func TestAssessSourceGovDomain(t *testing.T) {
	src := AssessSource("https://www.cdc.gov/advisory", "url")
	assert.Equal(t, "High", src.Credibility)
	assert.Contains(t, src.Indicators, "Government domain")
}

func TestAssessSourceFacebook(t *testing.T) {
	src := AssessSource("https://www.facebook.com/somepage/posts/1", "facebook")
	assert.Equal(t, "Low (social media)", src.Credibility)
	assert.Contains(t, src.Indicators, "Social media platform")
}

func TestAssessSourceUnknownDomain(t *testing.T) {
	src := AssessSource("https://random-blog-xyz.net/post", "url")
	assert.Equal(t, "Unknown", src.Credibility)
	assert.Nil(t, src.ReputationScore)
}

func TestAssessSourceTextInput(t *testing.T) {
	src := AssessSource("", "text")
	assert.Equal(t, "Unknown", src.Credibility)
	assert.Empty(t, src.Domain)
	assert.Contains(t, src.Indicators, "User-provided text, no publishing source")
}
