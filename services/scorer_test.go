package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credinews/models"
)

func TestScoreWeightsSumToOne(t *testing.T) {
	var sum float64
	for _, w := range scoreWeights {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestScoreWithNoEvidenceIsNeutral(t *testing.T) {
	s := NewScorer()
	a := s.Score(models.ModelResult{}, 0.5, nil, nil, Features{TokenCount: 50}, nil)

	assert.InDelta(t, 0.5, a.FinalScore, 0.15)
	assert.Equal(t, "Insufficient Evidence", a.Verdict)
}

func TestScoreStrongRealSignal(t *testing.T) {
	s := NewScorer()
	ml := models.ModelResult{Prediction: "real", Confidence: 0.9}
	fc := &FactCheckAggregate{OverallScore: 0.9, Confidence: 0.8, Verdict: "Likely True", EvidenceCount: 5}
	rep := 90.0
	src := &models.SourceAnalysis{Domain: "reuters.com", Credibility: "High", ReputationScore: &rep}

	a := s.Score(ml, 0.1, fc, nil, Features{TokenCount: 200}, src)

	assert.Greater(t, a.FinalScore, 0.7)
	assert.Greater(t, a.Confidence, 0.5)
	assert.Contains(t, a.Verdict, "Credible")
	assert.NotContains(t, a.Verdict, "Unreliable")
}

func TestScoreStrongFakeSignal(t *testing.T) {
	s := NewScorer()
	ml := models.ModelResult{Prediction: "fake", Confidence: 0.95}
	fc := &FactCheckAggregate{OverallScore: 0.05, Confidence: 0.85, Verdict: "Likely False", EvidenceCount: 6}
	poser := &models.PoserDetection{IsPoser: true, RiskScore: 90, RiskLevel: "HIGH"}
	features := Features{TokenCount: 80, IndicatorHits: []string{"breaking:", "miracle cure"}, CapsWordRatio: 0.3}

	a := s.Score(ml, 0.95, fc, poser, features, nil)

	assert.Less(t, a.FinalScore, 0.35)
	assert.Contains(t, a.Verdict, "Unreliable")
}

func TestAgreementBonusRaisesConfidence(t *testing.T) {
	s := NewScorer()
	// All components near the same score: variance below 0.1.
	agreeing := map[string]models.Component{
		"ml_prediction":       {Score: 0.8, Confidence: 0.6},
		"factcheck_results":   {Score: 0.82, Confidence: 0.6},
		"poser_detection":     {Score: 0.78, Confidence: 0.6},
		"preprocessing_flags": {Score: 0.8, Confidence: 0.6},
		"source_credibility":  {Score: 0.79, Confidence: 0.6},
	}
	disagreeing := map[string]models.Component{
		"ml_prediction":       {Score: 0.9, Confidence: 0.6},
		"factcheck_results":   {Score: 0.1, Confidence: 0.6},
		"poser_detection":     {Score: 0.8, Confidence: 0.6},
		"preprocessing_flags": {Score: 0.2, Confidence: 0.6},
		"source_credibility":  {Score: 0.5, Confidence: 0.6},
	}

	withBonus := s.combineConfidence(agreeing)
	withoutBonus := s.combineConfidence(disagreeing)
	assert.InDelta(t, 0.1, withBonus-withoutBonus, 1e-9)
}

func TestPoserComponentVerifiedBonus(t *testing.T) {
	s := NewScorer()
	unverified := s.poserComponent(&models.PoserDetection{RiskLevel: "MEDIUM"})
	verified := s.poserComponent(&models.PoserDetection{RiskLevel: "MEDIUM", IsVerified: true})

	assert.InDelta(t, 0.2, verified.Score-unverified.Score, 1e-9)
	assert.Greater(t, verified.Confidence, unverified.Confidence)
}

func TestVerdictLadder(t *testing.T) {
	s := NewScorer()
	assert.Equal(t, "Insufficient Evidence", s.verdict(0.9, 0.2))
	assert.Equal(t, "Highly Credible", s.verdict(0.85, 0.8))
	assert.Equal(t, "Likely Credible", s.verdict(0.85, 0.5))
	assert.Equal(t, "Mixed Evidence", s.verdict(0.5, 0.6))
	assert.Equal(t, "Highly Unreliable", s.verdict(0.1, 0.8))
}

func TestLevelInfoBands(t *testing.T) {
	cases := []struct {
		score float64
		level string
		color string
	}{
		{0.9, "High", "#22C55E"},
		{0.7, "Medium-High", "#84CC16"},
		{0.5, "Medium", "#F59E0B"},
		{0.3, "Low", "#F97316"},
		{0.1, "Very Low", "#DC2626"},
	}
	for _, tc := range cases {
		info := LevelInfo(tc.score)
		require.NotNil(t, info)
		assert.Equal(t, tc.level, info.Level, "score %.1f", tc.score)
		assert.Equal(t, tc.color, info.Color)
		assert.NotEmpty(t, info.Recommendation)
	}
}

func TestExplanationNamesTopFactors(t *testing.T) {
	s := NewScorer()
	ml := models.ModelResult{Prediction: "fake", Confidence: 0.9}
	a := s.Score(ml, 0.9, nil, nil, Features{TokenCount: 50}, nil)

	assert.Contains(t, a.Explanation, "Overall credibility score")
	assert.Contains(t, a.Explanation, "Key factors:")
	assert.Contains(t, a.Explanation, "Ml Prediction")
}

func TestVariance(t *testing.T) {
	assert.InDelta(t, 0.0, variance([]float64{0.5, 0.5, 0.5}), 1e-9)
	assert.InDelta(t, 0.25, variance([]float64{0, 1}), 1e-9)
}
