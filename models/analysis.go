package models

// AnalysisRequest is the JSON body of POST /api/analyze.
// Type is "text" or "url"; file uploads arrive as multipart instead.
type AnalysisRequest struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	UserID  string `json:"user_id,omitempty"`
}

// AnalysisEnvelope wraps every analyze response.
type AnalysisEnvelope struct {
	Success  bool            `json:"success"`
	Analysis *AnalysisResult `json:"analysis,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// AnalysisResult is the full verdict for one piece of content.
// Top-level scores are on a 0..100 scale; per-model and per-component
// confidences are 0..1 fractions.
type AnalysisResult struct {
	ID               string                 `json:"analysis_id,omitempty"`
	CredibilityScore float64                `json:"credibility_score"`
	Confidence       float64                `json:"confidence"`
	IsFake           bool                   `json:"is_fake"`
	Verdict          string                 `json:"verdict"`
	Explanation      string                 `json:"explanation,omitempty"`
	ModelResults     map[string]ModelResult `json:"model_results,omitempty"`
	FactChecks       []FactCheck            `json:"fact_checks,omitempty"`
	PoserDetection   *PoserDetection        `json:"poser_detection,omitempty"`
	SourceAnalysis   *SourceAnalysis        `json:"source_analysis,omitempty"`
	ComponentScores  map[string]Component   `json:"component_scores,omitempty"`
	LevelInfo        *LevelInfo             `json:"credibility_level_info,omitempty"`
	InputType        string                 `json:"input_type,omitempty"`
	ProcessingTime   float64                `json:"processing_time,omitempty"`
	CreatedAt        string                 `json:"created_at,omitempty"`
	UserID           string                 `json:"-"`
}

// ModelResult is one classifier's vote inside the ensemble.
type ModelResult struct {
	Prediction string  `json:"prediction"` // "fake" | "real"
	Confidence float64 `json:"confidence"` // 0..1
}

// FactCheck is one external claim review, ordered most relevant first.
type FactCheck struct {
	Claim    string `json:"claim"`
	Claimant string `json:"claimant"`
	Rating   string `json:"rating"`
	URL      string `json:"url"`
}

// PoserDetection is the account-risk assessment for social-media sources.
type PoserDetection struct {
	IsPoser    bool     `json:"is_poser"`
	RiskScore  float64  `json:"risk_score"` // 0..100
	RiskLevel  string   `json:"risk_level"` // LOW | MEDIUM | HIGH
	IsVerified bool     `json:"is_verified"`
	Flags      []string `json:"flags,omitempty"`
}

// SourceAnalysis describes the publishing domain's reputation.
// ReputationScore is nil when the domain has never been analyzed before.
type SourceAnalysis struct {
	Domain          string   `json:"domain"`
	Credibility     string   `json:"credibility"` // free-text label, e.g. "High", "Unreliable"
	ReputationScore *float64 `json:"reputation_score,omitempty"`
	Indicators      []string `json:"credibility_indicators,omitempty"`
}

// Component is one weighted contribution to the final score.
type Component struct {
	Score      float64 `json:"score"`      // 0..1
	Confidence float64 `json:"confidence"` // 0..1
	Details    string  `json:"details,omitempty"`
}

// LevelInfo is the presentation metadata for a credibility band.
type LevelInfo struct {
	Level          string `json:"level"`
	Color          string `json:"color"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation"`
}
