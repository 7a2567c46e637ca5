package services

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"credinews/models"
)

type GoogleFactCheckClient struct {
	APIKey string
	client *http.Client
}

func NewGoogleFactCheckClient(apiKey string) *GoogleFactCheckClient {
	return &GoogleFactCheckClient{
		APIKey: apiKey,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

type googleFactCheckResponse struct {
	Claims []struct {
		Text        string `json:"text"`
		Claimant    string `json:"claimant"`
		ClaimDate   string `json:"claimDate"`
		ClaimReview []struct {
			Publisher struct {
				Name string `json:"name"`
				Site string `json:"site"`
			} `json:"publisher"`
			Url           string `json:"url"`
			Title         string `json:"title"`
			ReviewDate    string `json:"reviewDate"`
			TextualRating string `json:"textualRating"`
			LanguageCode  string `json:"languageCode"`
		} `json:"claimReview"`
	} `json:"claims"`
}

// RatingNorm is a textual rating mapped onto a 0..1 truth scale.
type RatingNorm struct {
	Score      float64
	Label      string
	Confidence float64
}

// FactCheckAggregate summarizes all reviews found for one document.
type FactCheckAggregate struct {
	OverallScore    float64 `json:"overall_score"`
	Confidence      float64 `json:"confidence"`
	Verdict         string  `json:"verdict"`
	EvidenceCount   int     `json:"evidence_count"`
	SourceDiversity int     `json:"source_diversity"`
	Agreement       float64 `json:"agreement_level"`
}

// Search queries the Google Fact Check Tools API for one phrase.
func (c *GoogleFactCheckClient) Search(query string) ([]models.FactCheck, []RatingNorm, error) {
	if c.APIKey == "" {
		return nil, nil, nil
	}

	log.Printf("[FACT CHECK] 🔍 Searching claim reviews: %s", truncate(query, 80))

	apiURL := fmt.Sprintf(
		"https://factchecktools.googleapis.com/v1alpha1/claims:search?query=%s&pageSize=10&key=%s",
		url.QueryEscape(query), c.APIKey,
	)

	resp, err := c.client.Get(apiURL)
	if err != nil {
		log.Printf("[FACT CHECK] ❌ Network error: %v", err)
		return nil, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[FACT CHECK] ❌ API returned status: %d", resp.StatusCode)
		return nil, nil, fmt.Errorf("bad status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}

	var parsed googleFactCheckResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		log.Printf("[FACT CHECK] ❌ JSON parse error: %v", err)
		return nil, nil, err
	}

	var checks []models.FactCheck
	var ratings []RatingNorm
	for _, claim := range parsed.Claims {
		for _, review := range claim.ClaimReview {
			checks = append(checks, models.FactCheck{
				Claim:    claim.Text,
				Claimant: claim.Claimant,
				Rating:   review.TextualRating,
				URL:      review.Url,
			})
			ratings = append(ratings, NormalizeRating(review.TextualRating))
		}
	}

	return checks, ratings, nil
}

// CheckClaims extracts the key phrases of a document, runs them through the
// fact-check API, and aggregates all reviews into one component score.
func (c *GoogleFactCheckClient) CheckClaims(text string) ([]models.FactCheck, *FactCheckAggregate) {
	if c == nil || c.APIKey == "" {
		return nil, nil
	}

	phrases := ExtractKeyPhrases(text)
	if len(phrases) == 0 {
		return nil, nil
	}

	var allChecks []models.FactCheck
	var allRatings []RatingNorm
	publishers := map[string]bool{}

	for i, phrase := range phrases {
		if i >= 3 { // cap outbound queries per document
			break
		}
		checks, ratings, err := c.Search(phrase)
		if err != nil {
			continue
		}
		for _, check := range checks {
			allChecks = append(allChecks, check)
			publishers[check.Claimant] = true
		}
		allRatings = append(allRatings, ratings...)
	}

	if len(allRatings) == 0 {
		return allChecks, nil
	}

	agg := AggregateRatings(allRatings, len(publishers))
	log.Printf("[FACT CHECK] ✓ %d reviews from %d claimants, verdict: %s",
		agg.EvidenceCount, agg.SourceDiversity, agg.Verdict)
	return allChecks, agg
}

var ratingMappings = map[string]RatingNorm{
	"true":     {1.0, "True", 0.9},
	"correct":  {1.0, "True", 0.9},
	"accurate": {1.0, "True", 0.9},
	"verified": {1.0, "True", 0.9},

	"mostly true":      {0.8, "Mostly True", 0.8},
	"mostly correct":   {0.8, "Mostly True", 0.8},
	"largely accurate": {0.8, "Mostly True", 0.8},

	"mixture":        {0.5, "Mixed", 0.7},
	"half true":      {0.5, "Mixed", 0.7},
	"partially true": {0.5, "Mixed", 0.7},
	"some truth":     {0.5, "Mixed", 0.7},

	"mostly false":       {0.2, "Mostly False", 0.8},
	"mostly incorrect":   {0.2, "Mostly False", 0.8},
	"largely inaccurate": {0.2, "Mostly False", 0.8},

	"false":      {0.0, "False", 0.9},
	"incorrect":  {0.0, "False", 0.9},
	"inaccurate": {0.0, "False", 0.9},
	"debunked":   {0.0, "False", 0.9},
	"fake":       {0.0, "False", 0.9},
	"hoax":       {0.0, "False", 0.9},

	"unverifiable": {0.3, "Unverifiable", 0.6},
	"unproven":     {0.3, "Unverifiable", 0.6},
	"no evidence":  {0.3, "Unverifiable", 0.6},

	"satire":     {0.1, "Satire", 0.8},
	"opinion":    {0.4, "Opinion", 0.7},
	"commentary": {0.4, "Opinion", 0.7},
}

// NormalizeRating maps a publisher's free-text rating to the truth scale.
// Exact matches win; then the longest keyword contained in the rating.
func NormalizeRating(textual string) RatingNorm {
	if textual == "" {
		return RatingNorm{0.5, "Unknown", 0.0}
	}

	lower := strings.ToLower(strings.TrimSpace(textual))
	if norm, ok := ratingMappings[lower]; ok {
		return norm
	}

	best := ""
	for key := range ratingMappings {
		if (strings.Contains(lower, key) || strings.Contains(key, lower)) && len(key) > len(best) {
			best = key
		}
	}
	if best != "" {
		return ratingMappings[best]
	}

	return RatingNorm{0.5, "Unknown (" + textual + ")", 0.3}
}

// AggregateRatings folds normalized ratings into one confidence-weighted score.
func AggregateRatings(ratings []RatingNorm, sourceDiversity int) *FactCheckAggregate {
	var weightedSum, totalWeight float64
	for _, r := range ratings {
		weightedSum += r.Score * r.Confidence
		totalWeight += r.Confidence
	}

	overall := 0.5
	if totalWeight > 0 {
		overall = weightedSum / totalWeight
	}

	// Agreement: variance of scores scaled so 0.25 variance zeroes it out.
	agreement := 1.0
	if len(ratings) > 1 {
		scores := make([]float64, len(ratings))
		for i, r := range ratings {
			scores[i] = r.Score
		}
		agreement = 1 - variance(scores)*4
		if agreement < 0 {
			agreement = 0
		}
	}

	confidence := float64(len(ratings))/10*0.4 +
		float64(sourceDiversity)/5*0.3 +
		agreement*0.3
	if confidence > 1 {
		confidence = 1
	}

	return &FactCheckAggregate{
		OverallScore:    round3(overall),
		Confidence:      round3(confidence),
		Verdict:         scoreToVerdict(overall),
		EvidenceCount:   len(ratings),
		SourceDiversity: sourceDiversity,
		Agreement:       round3(agreement),
	}
}

func scoreToVerdict(score float64) string {
	switch {
	case score >= 0.8:
		return "Likely True"
	case score >= 0.6:
		return "Leaning True"
	case score >= 0.4:
		return "Mixed Evidence"
	case score >= 0.2:
		return "Leaning False"
	default:
		return "Likely False"
	}
}

var (
	quotedRe      = regexp.MustCompile(`"([^"]+)"`)
	capitalizedRe = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)+\b`)
)

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "is": true, "are": true, "was": true,
	"were": true, "be": true, "been": true, "have": true, "has": true,
	"had": true, "do": true, "does": true, "did": true, "will": true,
	"would": true, "could": true, "should": true, "this": true, "that": true,
}

// ExtractKeyPhrases picks the most checkable phrases from a document:
// quoted statements first, then multi-word proper nouns, then long keywords.
func ExtractKeyPhrases(text string) []string {
	var phrases []string
	seen := map[string]bool{}

	add := func(p string) {
		p = strings.TrimSpace(p)
		if len(p) > 3 && len(p) < 100 && !seen[p] {
			seen[p] = true
			phrases = append(phrases, p)
		}
	}

	for _, m := range quotedRe.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	for _, m := range capitalizedRe.FindAllString(text, -1) {
		add(m)
	}

	count := 0
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, `.,!?;:"'()`)
		if len(word) > 4 && !stopWords[word] {
			add(word)
			count++
			if count >= 5 {
				break
			}
		}
	}

	if len(phrases) > 5 {
		phrases = phrases[:5]
	}
	return phrases
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen])
}
