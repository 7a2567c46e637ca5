package services

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"credinews/models"
)

// Component weights, summing to 1.0.
var scoreWeights = map[string]float64{
	"ml_prediction":       0.35,
	"factcheck_results":   0.30,
	"poser_detection":     0.15,
	"preprocessing_flags": 0.10,
	"source_credibility":  0.10,
}

// Assessment is the combined output of the credibility scorer,
// on the internal 0..1 scale.
type Assessment struct {
	FinalScore  float64
	Confidence  float64
	Verdict     string
	Explanation string
	Components  map[string]models.Component
}

// Scorer folds the pipeline components into one weighted credibility score.
type Scorer struct{}

func NewScorer() *Scorer {
	return &Scorer{}
}

// Score combines the component signals. Any component may be zero-valued;
// missing evidence degrades to a neutral score with zero confidence so it
// neither helps nor hurts.
func (s *Scorer) Score(
	ml models.ModelResult,
	pFake float64,
	factcheck *FactCheckAggregate,
	poser *models.PoserDetection,
	features Features,
	source *models.SourceAnalysis,
) Assessment {
	components := map[string]models.Component{
		"ml_prediction":       s.mlComponent(ml, pFake),
		"factcheck_results":   s.factcheckComponent(factcheck),
		"poser_detection":     s.poserComponent(poser),
		"preprocessing_flags": s.preprocessingComponent(features),
		"source_credibility":  s.sourceComponent(source),
	}

	var weighted float64
	for name, c := range components {
		weighted += c.Score * scoreWeights[name]
	}

	confidence := s.combineConfidence(components)
	verdict := s.verdict(weighted, confidence)

	return Assessment{
		FinalScore:  round3(weighted),
		Confidence:  round3(confidence),
		Verdict:     verdict,
		Explanation: s.explain(components, weighted, confidence),
		Components:  components,
	}
}

func (s *Scorer) mlComponent(ml models.ModelResult, pFake float64) models.Component {
	if ml.Prediction == "" {
		return models.Component{Score: 0.5, Confidence: 0, Details: "No ML prediction available"}
	}
	return models.Component{
		Score:      1 - pFake,
		Confidence: ml.Confidence,
		Details:    fmt.Sprintf("Ensemble prediction: %s (%.0f%% confidence)", ml.Prediction, ml.Confidence*100),
	}
}

func (s *Scorer) factcheckComponent(fc *FactCheckAggregate) models.Component {
	if fc == nil || fc.EvidenceCount == 0 {
		return models.Component{Score: 0.5, Confidence: 0, Details: "No fact check data available"}
	}
	return models.Component{
		Score:      fc.OverallScore,
		Confidence: fc.Confidence,
		Details:    fmt.Sprintf("Fact check verdict: %s (based on %d reviews)", fc.Verdict, fc.EvidenceCount),
	}
}

func (s *Scorer) poserComponent(p *models.PoserDetection) models.Component {
	if p == nil {
		// No account to analyze: mildly positive prior, no confidence.
		return models.Component{Score: 0.7, Confidence: 0, Details: "No poser analysis available"}
	}

	var score, confidence float64
	switch p.RiskLevel {
	case "LOW":
		score, confidence = 0.8, 0.7
	case "MEDIUM":
		score, confidence = 0.5, 0.6
	case "HIGH":
		score, confidence = 0.2, 0.8
	default:
		score, confidence = 0.5, 0.3
	}

	if p.IsVerified {
		score = math.Min(1.0, score+0.2)
		confidence = math.Min(1.0, confidence+0.1)
	}

	details := fmt.Sprintf("Account risk: %s (risk score %.0f)", p.RiskLevel, p.RiskScore)
	if len(p.Flags) > 0 {
		limit := len(p.Flags)
		if limit > 3 {
			limit = 3
		}
		details += ". Flags: " + strings.Join(p.Flags[:limit], ", ")
	}

	return models.Component{Score: score, Confidence: confidence, Details: details}
}

func (s *Scorer) preprocessingComponent(f Features) models.Component {
	score := 0.6 // neutral starting point
	confidence := 0.5

	score -= 0.1 * float64(len(f.IndicatorHits))
	if f.CapsWordRatio > 0.2 {
		score -= 0.1
	}
	if f.TokenCount < 10 {
		score -= 0.1
	} else if f.TokenCount > 1000 {
		score += 0.05
	}

	score = math.Max(0, math.Min(1, score))

	details := "Text analysis: no significant red flags"
	if len(f.Flags) > 0 {
		details = "Text analysis: " + strings.Join(f.Flags, ", ")
	}

	return models.Component{Score: score, Confidence: confidence, Details: details}
}

func (s *Scorer) sourceComponent(src *models.SourceAnalysis) models.Component {
	if src == nil {
		return models.Component{Score: 0.5, Confidence: 0, Details: "No source information available"}
	}

	score, confidence := 0.5, 0.3
	if src.ReputationScore != nil {
		score = *src.ReputationScore / 100
		confidence = 0.8
	}

	details := "Source: " + src.Credibility
	if src.Domain != "" {
		details += " (" + src.Domain + ")"
	}

	return models.Component{Score: score, Confidence: confidence, Details: details}
}

func (s *Scorer) combineConfidence(components map[string]models.Component) float64 {
	var weighted float64
	scores := make([]float64, 0, len(components))
	for name, c := range components {
		weighted += c.Confidence * scoreWeights[name]
		scores = append(scores, c.Score)
	}

	// Agreement bonus: components that point the same way reinforce
	// each other.
	if len(scores) > 1 && variance(scores) < 0.1 {
		weighted += 0.1
	}

	return math.Min(1.0, weighted)
}

func (s *Scorer) verdict(score, confidence float64) string {
	if confidence < 0.3 {
		return "Insufficient Evidence"
	}

	switch {
	case score >= 0.8:
		if confidence >= 0.7 {
			return "Highly Credible"
		}
		return "Likely Credible"
	case score >= 0.6:
		if confidence >= 0.6 {
			return "Mostly Credible"
		}
		return "Leaning Credible"
	case score >= 0.4:
		if confidence >= 0.5 {
			return "Mixed Evidence"
		}
		return "Uncertain"
	case score >= 0.2:
		if confidence >= 0.6 {
			return "Mostly Unreliable"
		}
		return "Leaning Unreliable"
	default:
		if confidence >= 0.7 {
			return "Highly Unreliable"
		}
		return "Likely Unreliable"
	}
}

func (s *Scorer) explain(components map[string]models.Component, score, confidence float64) string {
	parts := []string{
		fmt.Sprintf("Overall credibility score: %.2f (confidence: %.2f)", score, confidence),
		"",
		"Key factors:",
	}

	type named struct {
		name string
		c    models.Component
	}
	ranked := make([]named, 0, len(components))
	for name, c := range components {
		ranked = append(ranked, named{name, c})
	}
	// Most decisive components first: largest distance from neutral.
	sort.Slice(ranked, func(i, j int) bool {
		return math.Abs(ranked[i].c.Score-0.5) > math.Abs(ranked[j].c.Score-0.5)
	})

	for i, r := range ranked {
		if i >= 3 {
			break
		}
		impact := "neutral impact"
		if r.c.Score >= 0.7 {
			impact = "supports credibility"
		} else if r.c.Score <= 0.3 {
			impact = "raises concerns"
		}
		title := strings.Title(strings.ReplaceAll(r.name, "_", " "))
		parts = append(parts, fmt.Sprintf("• %s: %s (%s)", title, r.c.Details, impact))
	}

	if confidence < 0.5 {
		parts = append(parts, "", "Note: low confidence due to limited or conflicting evidence.")
	} else if confidence >= 0.8 {
		parts = append(parts, "", "Note: high confidence based on multiple consistent signals.")
	}

	return strings.Join(parts, "\n")
}

// LevelInfo returns the presentation band for a 0..1 score.
func LevelInfo(score float64) *models.LevelInfo {
	switch {
	case score >= 0.8:
		return &models.LevelInfo{
			Level:          "High",
			Color:          "#22C55E",
			Description:    "This content appears to be highly credible based on multiple verification methods.",
			Recommendation: "Safe to share and trust this information.",
		}
	case score >= 0.6:
		return &models.LevelInfo{
			Level:          "Medium-High",
			Color:          "#84CC16",
			Description:    "This content appears to be mostly credible with minor concerns.",
			Recommendation: "Generally trustworthy, but verify important details.",
		}
	case score >= 0.4:
		return &models.LevelInfo{
			Level:          "Medium",
			Color:          "#F59E0B",
			Description:    "This content has mixed credibility indicators.",
			Recommendation: "Exercise caution and seek additional verification.",
		}
	case score >= 0.2:
		return &models.LevelInfo{
			Level:          "Low",
			Color:          "#F97316",
			Description:    "This content shows several indicators of unreliability.",
			Recommendation: "Be very cautious and verify through reliable sources.",
		}
	default:
		return &models.LevelInfo{
			Level:          "Very Low",
			Color:          "#DC2626",
			Description:    "This content appears to be highly unreliable or potentially false.",
			Recommendation: "Do not share. Likely misinformation.",
		}
	}
}

func variance(xs []float64) float64 {
	var mean float64
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))

	var v float64
	for _, x := range xs {
		v += (x - mean) * (x - mean)
	}
	return v / float64(len(xs))
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
