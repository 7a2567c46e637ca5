package services

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	"credinews/models"
)

// Phrase-level red flags shared by the classifiers and the rule-based fallback.
var fakeIndicators = []string{
	"breaking:", "urgent:", "shocking:", "unbelievable:",
	"you won't believe", "doctors hate", "this one trick",
	"click here", "share if you agree", "share before they delete",
	"they don't want you to know", "miracle cure", "big pharma",
	"wake up", "mainstream media won't tell you",
}

// Token weights for the sensational vocabulary. Positive pushes toward
// "fake", negative toward "real".
var tokenWeights = map[string]float64{
	"shocking": 1.2, "exposed": 1.1, "secret": 0.9, "miracle": 1.2,
	"urgent": 1.0, "breaking": 0.8, "unbelievable": 1.1, "hoax": 0.9,
	"conspiracy": 1.0, "banned": 0.8, "hidden": 0.7, "truth": 0.5,
	"cure": 0.7, "exclusive": 0.6, "alert": 0.6, "warning": 0.5,

	"announced": -0.7, "published": -0.8, "according": -0.9,
	"researchers": -0.9, "university": -0.8, "official": -0.6,
	"department": -0.7, "report": -0.5, "study": -0.7, "data": -0.6,
	"percent": -0.6, "statement": -0.6, "confirmed": -0.4,
}

var wordRe = regexp.MustCompile(`[a-zA-Z']+`)

// Features is the preprocessed view of one document.
type Features struct {
	Tokens           []string
	TokenCount       int
	IndicatorHits    []string
	ExclamationCount int
	CapsWordRatio    float64
	Flags            []string
}

// ExtractFeatures tokenizes and flags a document for classification.
func ExtractFeatures(text string) Features {
	f := Features{}
	lower := strings.ToLower(text)

	for _, w := range wordRe.FindAllString(lower, -1) {
		f.Tokens = append(f.Tokens, w)
	}
	f.TokenCount = len(f.Tokens)

	for _, indicator := range fakeIndicators {
		if strings.Contains(lower, indicator) {
			f.IndicatorHits = append(f.IndicatorHits, indicator)
		}
	}

	f.ExclamationCount = strings.Count(text, "!")

	capsWords, totalWords := 0, 0
	for _, w := range strings.Fields(text) {
		letters := 0
		upper := 0
		for _, r := range w {
			if unicode.IsLetter(r) {
				letters++
				if unicode.IsUpper(r) {
					upper++
				}
			}
		}
		if letters >= 3 {
			totalWords++
			if upper == letters {
				capsWords++
			}
		}
	}
	if totalWords > 0 {
		f.CapsWordRatio = float64(capsWords) / float64(totalWords)
	}

	if len(f.IndicatorHits) > 0 {
		f.Flags = append(f.Flags, "sensational phrasing")
	}
	if f.CapsWordRatio > 0.2 {
		f.Flags = append(f.Flags, "excessive capitalization")
	}
	if f.ExclamationCount >= 3 {
		f.Flags = append(f.Flags, "excessive punctuation")
	}
	if f.TokenCount < 10 {
		f.Flags = append(f.Flags, "very short content")
	}

	return f
}

// Detector is the three-model ensemble with soft voting. Each member scores
// the same lexical features with a different emphasis, so disagreement is
// meaningful and surfaces in the per-model breakdown.
type Detector struct{}

func NewDetector() *Detector {
	return &Detector{}
}

// Predict classifies a document. It returns the ensemble vote, the
// per-model breakdown, and the ensemble probability of "fake".
func (d *Detector) Predict(text string) (models.ModelResult, map[string]models.ModelResult, float64) {
	f := ExtractFeatures(text)

	if f.TokenCount < 5 {
		// Not enough signal for the lexical models.
		fallback := d.ruleBasedFallback(f)
		return fallback, map[string]models.ModelResult{"rule_based": fallback}, probFake(fallback)
	}

	breakdown := map[string]models.ModelResult{
		"logistic_regression": d.logisticRegression(f),
		"naive_bayes":         d.naiveBayes(f),
		"svm":                 d.svm(f),
	}

	// Soft voting: average the members' P(fake).
	var sum float64
	for _, r := range breakdown {
		sum += probFake(r)
	}
	pFake := sum / float64(len(breakdown))

	ensemble := resultFromProb(pFake)
	return ensemble, breakdown, pFake
}

// logisticRegression weighs the sensational vocabulary through a sigmoid.
func (d *Detector) logisticRegression(f Features) models.ModelResult {
	var z float64
	for _, tok := range f.Tokens {
		z += tokenWeights[tok]
	}
	// Normalize by document length so long articles aren't penalized.
	z = z / math.Sqrt(float64(f.TokenCount))
	z += 1.5 * float64(len(f.IndicatorHits))
	z -= 0.3 // slight prior toward "real"

	return resultFromProb(sigmoid(z))
}

// naiveBayes accumulates independent per-feature log-likelihoods.
func (d *Detector) naiveBayes(f Features) models.ModelResult {
	logOdds := -0.2 // prior log-odds of fake
	for _, tok := range f.Tokens {
		if w, ok := tokenWeights[tok]; ok {
			logOdds += w * 0.8
		}
	}
	logOdds += 0.9 * float64(len(f.IndicatorHits))
	logOdds += 2.0 * f.CapsWordRatio
	if f.ExclamationCount > 0 {
		logOdds += 0.25 * math.Min(float64(f.ExclamationCount), 6)
	}

	return resultFromProb(sigmoid(logOdds))
}

// svm measures the margin from a hinge over the style features.
func (d *Detector) svm(f Features) models.ModelResult {
	margin := -0.4
	margin += 1.2 * float64(len(f.IndicatorHits))
	margin += 3.0 * f.CapsWordRatio
	margin += 0.15 * math.Min(float64(f.ExclamationCount), 8)

	var lexical float64
	for _, tok := range f.Tokens {
		lexical += tokenWeights[tok]
	}
	margin += 0.5 * lexical / math.Sqrt(float64(f.TokenCount))

	// Squash the margin; points near the boundary get low confidence.
	return resultFromProb(sigmoid(2 * margin))
}

// ruleBasedFallback mirrors the indicator-count heuristic used before the
// ensemble existed. Kept for short inputs.
func (d *Detector) ruleBasedFallback(f Features) models.ModelResult {
	hits := len(f.IndicatorHits)
	if hits >= 2 {
		return models.ModelResult{
			Prediction: "fake",
			Confidence: math.Min(0.7+float64(hits)*0.1, 0.95),
		}
	}
	return models.ModelResult{
		Prediction: "real",
		Confidence: math.Max(0.6-float64(hits)*0.1, 0.55),
	}
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

func resultFromProb(pFake float64) models.ModelResult {
	if pFake >= 0.5 {
		return models.ModelResult{Prediction: "fake", Confidence: pFake}
	}
	return models.ModelResult{Prediction: "real", Confidence: 1 - pFake}
}

func probFake(r models.ModelResult) float64 {
	if r.Prediction == "fake" {
		return r.Confidence
	}
	return 1 - r.Confidence
}
