// Package dashboard holds the presentation layer of the CrediNews UI:
// a pure result-to-display transform, counter animation, chart lifecycle
// management and the background refresh loop. Everything here is
// renderer-agnostic; the effectful drawing step lives with the caller.
package dashboard

import (
	"fmt"
	"sort"
	"strings"

	"credinews/models"
)

// Badge classes understood by the style layer.
const (
	ClassPositive = "positive"
	ClassNegative = "negative"
	ClassWarning  = "warning"
	ClassNeutral  = "neutral"
)

// DisplayModel is the fully resolved presentation of one analysis result.
// Every field is plain data; no markup, no renderer handles.
type DisplayModel struct {
	CredibilityScore float64
	CredibilityTier  string
	Confidence       float64
	ConfidenceTier   string

	Badge      string
	BadgeClass string

	Verdict     string
	Explanation string
	Level       *models.LevelInfo

	Models     []ModelRow
	FactChecks []FactCheckRow
	Poser      *PoserRow
	Source     *SourceRow
}

type ModelRow struct {
	Key           string
	Label         string
	Prediction    string
	ConfidencePct float64
}

type FactCheckRow struct {
	Claim    string
	Claimant string
	Rating   string
	Class    string
	URL      string
}

type PoserRow struct {
	IsPoser    bool
	RiskScore  float64
	RiskTier   string
	IsVerified bool
	Flags      []string
}

type SourceRow struct {
	Domain     string
	Label      string
	Class      string
	Reputation *float64
}

// Render maps an analysis result to its display model. Pure transform:
// missing optional sections simply produce nil/empty fields.
func Render(result *models.AnalysisResult) DisplayModel {
	if result == nil {
		// No result to show yet; render a neutral placeholder rather
		// than a verdict.
		return DisplayModel{
			CredibilityTier: "low",
			ConfidenceTier:  "low",
			Badge:           "Unknown",
			BadgeClass:      ClassNeutral,
		}
	}

	dm := DisplayModel{
		CredibilityScore: result.CredibilityScore,
		CredibilityTier:  CredibilityTier(result.CredibilityScore),
		Confidence:       result.Confidence,
		ConfidenceTier:   ConfidenceTier(result.Confidence),
		Verdict:          result.Verdict,
		Explanation:      result.Explanation,
		Level:            result.LevelInfo,
	}

	if result.IsFake {
		dm.Badge, dm.BadgeClass = "Potentially Fake", ClassNegative
	} else {
		dm.Badge, dm.BadgeClass = "Likely Authentic", ClassPositive
	}

	dm.Models = modelRows(result.ModelResults)

	for _, fc := range result.FactChecks {
		dm.FactChecks = append(dm.FactChecks, FactCheckRow{
			Claim:    fc.Claim,
			Claimant: fc.Claimant,
			Rating:   fc.Rating,
			Class:    ClassifyRating(fc.Rating),
			URL:      fc.URL,
		})
	}

	if p := result.PoserDetection; p != nil {
		dm.Poser = &PoserRow{
			IsPoser:    p.IsPoser,
			RiskScore:  p.RiskScore,
			RiskTier:   riskTier(p.RiskScore),
			IsVerified: p.IsVerified,
			Flags:      p.Flags,
		}
	}

	if s := result.SourceAnalysis; s != nil {
		label, class := SourceBadge(s.Credibility)
		dm.Source = &SourceRow{
			Domain:     s.Domain,
			Label:      label,
			Class:      class,
			Reputation: s.ReputationScore,
		}
	}

	return dm
}

// CredibilityTier buckets a 0..100 score; boundaries are inclusive on the
// upper side, so exactly 70 is "high".
func CredibilityTier(score float64) string {
	switch {
	case score >= 70:
		return "high"
	case score >= 40:
		return "medium"
	default:
		return "low"
	}
}

// ConfidenceTier uses the 80/60 cutoffs.
func ConfidenceTier(confidence float64) string {
	switch {
	case confidence >= 80:
		return "high"
	case confidence >= 60:
		return "medium"
	default:
		return "low"
	}
}

// ClassifyRating buckets a free-text fact-check rating. Positive keywords
// are checked before negative ones; anything unmatched is a warning.
func ClassifyRating(rating string) string {
	lower := strings.ToLower(rating)
	if strings.Contains(lower, "true") || strings.Contains(lower, "correct") {
		return ClassPositive
	}
	if strings.Contains(lower, "false") || strings.Contains(lower, "incorrect") {
		return ClassNegative
	}
	return ClassWarning
}

// SourceBadge maps a free-text source credibility label to a badge.
// "unreliable" is matched before "reliable" because the latter is a
// substring of the former.
func SourceBadge(label string) (string, string) {
	if strings.TrimSpace(label) == "" {
		return "Unknown", ClassNeutral
	}

	lower := strings.ToLower(label)
	if strings.Contains(lower, "unreliable") {
		return label, ClassNegative
	}
	if strings.Contains(lower, "high") || strings.Contains(lower, "reliable") {
		return label, ClassPositive
	}
	if strings.Contains(lower, "low") {
		return label, ClassNegative
	}
	return label, ClassNeutral
}

var modelLabels = map[string]string{
	"logistic_regression": "Logistic Regression",
	"naive_bayes":         "Naive Bayes",
	"svm":                 "SVM",
	"rule_based":          "Rule Based",
	"ensemble":            "Ensemble",
}

// ModelLabel resolves a model identifier to its display name. Unknown
// identifiers pass through unchanged so new backend models render without
// a client update.
func ModelLabel(key string) string {
	if label, ok := modelLabels[key]; ok {
		return label
	}
	return key
}

func modelRows(results map[string]models.ModelResult) []ModelRow {
	if len(results) == 0 {
		return nil
	}

	rows := make([]ModelRow, 0, len(results))
	for key, r := range results {
		rows = append(rows, ModelRow{
			Key:           key,
			Label:         ModelLabel(key),
			Prediction:    r.Prediction,
			ConfidencePct: r.Confidence * 100,
		})
	}
	// Stable ordering so repeated renders of the same result are identical.
	sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })
	return rows
}

func riskTier(score float64) string {
	switch {
	case score >= 60:
		return "high"
	case score >= 30:
		return "medium"
	default:
		return "low"
	}
}

// FormatPct renders a percent-change value with its sign, matching the
// delta chips next to each dashboard counter.
func FormatPct(change float64) string {
	if change > 0 {
		return fmt.Sprintf("+%.1f%%", change)
	}
	return fmt.Sprintf("%.1f%%", change)
}
