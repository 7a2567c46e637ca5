package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRatingExactMatches(t *testing.T) {
	cases := []struct {
		rating string
		score  float64
		label  string
	}{
		{"True", 1.0, "True"},
		{"FALSE", 0.0, "False"},
		{"Mostly True", 0.8, "Mostly True"},
		{"mostly false", 0.2, "Mostly False"},
		{"Half True", 0.5, "Mixed"},
		{"Satire", 0.1, "Satire"},
		{"Opinion", 0.4, "Opinion"},
		{"Unproven", 0.3, "Unverifiable"},
	}
	for _, tc := range cases {
		norm := NormalizeRating(tc.rating)
		assert.Equal(t, tc.score, norm.Score, "rating %q", tc.rating)
		assert.Equal(t, tc.label, norm.Label)
	}
}

func TestNormalizeRatingKeywordContainment(t *testing.T) {
	// Longest contained keyword wins: "mostly false" beats "false".
	norm := NormalizeRating("Rated Mostly False by our reviewers")
	assert.Equal(t, 0.2, norm.Score)
	assert.Equal(t, "Mostly False", norm.Label)

	norm = NormalizeRating("Debunked claim")
	assert.Equal(t, 0.0, norm.Score)
}

func TestNormalizeRatingUnknown(t *testing.T) {
	norm := NormalizeRating("Four Pinocchios")
	assert.Equal(t, 0.5, norm.Score)
	assert.Contains(t, norm.Label, "Unknown")
	assert.Equal(t, 0.3, norm.Confidence)

	norm = NormalizeRating("")
	assert.Equal(t, "Unknown", norm.Label)
	assert.Equal(t, 0.0, norm.Confidence)
}

func TestAggregateRatingsUnanimous(t *testing.T) {
	ratings := []RatingNorm{
		{Score: 0.0, Label: "False", Confidence: 0.9},
		{Score: 0.0, Label: "False", Confidence: 0.9},
		{Score: 0.0, Label: "False", Confidence: 0.9},
	}

	agg := AggregateRatings(ratings, 3)
	require.NotNil(t, agg)
	assert.Equal(t, 0.0, agg.OverallScore)
	assert.Equal(t, 1.0, agg.Agreement)
	assert.Equal(t, "Likely False", agg.Verdict)
	assert.Equal(t, 3, agg.EvidenceCount)
	assert.Equal(t, 3, agg.SourceDiversity)
}

func TestAggregateRatingsConflicting(t *testing.T) {
	ratings := []RatingNorm{
		{Score: 1.0, Confidence: 0.9},
		{Score: 0.0, Confidence: 0.9},
	}

	agg := AggregateRatings(ratings, 2)
	assert.Equal(t, 0.5, agg.OverallScore)
	assert.Equal(t, 0.0, agg.Agreement, "opposite verdicts zero the agreement")
	assert.Equal(t, "Mixed Evidence", agg.Verdict)
}

func TestAggregateConfidenceFormula(t *testing.T) {
	ratings := []RatingNorm{
		{Score: 0.8, Confidence: 0.8},
		{Score: 0.8, Confidence: 0.8},
	}
	agg := AggregateRatings(ratings, 2)

	// evidence 2/10*0.4 + diversity 2/5*0.3 + agreement 1.0*0.3
	assert.InDelta(t, 0.08+0.12+0.3, agg.Confidence, 1e-9)
}

func TestScoreToVerdictBands(t *testing.T) {
	assert.Equal(t, "Likely True", scoreToVerdict(0.85))
	assert.Equal(t, "Leaning True", scoreToVerdict(0.65))
	assert.Equal(t, "Mixed Evidence", scoreToVerdict(0.5))
	assert.Equal(t, "Leaning False", scoreToVerdict(0.25))
	assert.Equal(t, "Likely False", scoreToVerdict(0.1))
}

func TestExtractKeyPhrases(t *testing.T) {
	text := `President John Smith said "vaccines cause autism" during a rally in New York City yesterday.`
	phrases := ExtractKeyPhrases(text)

	require.NotEmpty(t, phrases)
	assert.Equal(t, "vaccines cause autism", phrases[0], "quoted statements come first")
	assert.Contains(t, phrases, "President John Smith")
	assert.Contains(t, phrases, "New York City")
	assert.LessOrEqual(t, len(phrases), 5)
}

func TestExtractKeyPhrasesDeduplicates(t *testing.T) {
	phrases := ExtractKeyPhrases(`"same claim" and again "same claim"`)
	count := 0
	for _, p := range phrases {
		if p == "same claim" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestCheckClaimsNilSafe(t *testing.T) {
	var c *GoogleFactCheckClient
	checks, agg := c.CheckClaims("anything at all")
	assert.Nil(t, checks)
	assert.Nil(t, agg)
}
