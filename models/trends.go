package models

// TrendsEnvelope wraps every trends response.
type TrendsEnvelope struct {
	Success bool        `json:"success"`
	Data    *TrendsData `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// TrendsData is the dashboard payload for GET /api/trends.
// Counters come with percent change against the previous window of the
// same length so the UI can animate deltas.
type TrendsData struct {
	RangeDays int `json:"range_days"`

	TotalVerifications int     `json:"total_news_verifications"`
	FakeDetected       int     `json:"fake_detected"`
	AccuracyRate       float64 `json:"accuracy_rate"` // 0..100
	PosersDetected     int     `json:"posers_detected"`

	VerificationsChange float64 `json:"verifications_change_pct"`
	FakeChange          float64 `json:"fake_change_pct"`
	AccuracyChange      float64 `json:"accuracy_change_pct"`
	PosersChange        float64 `json:"posers_change_pct"`

	DetectionRateChart     ChartSeries `json:"detection_rate_chart"`
	CategoryChart          ChartSeries `json:"category_chart"`
	SourceCredibilityChart ChartSeries `json:"source_credibility_chart"`

	TrendingKeywords []Keyword        `json:"trending_keywords,omitempty"`
	FakeNewsPatterns []Pattern        `json:"fake_news_patterns,omitempty"`
	HighRiskSources  []RiskSource     `json:"high_risk_sources,omitempty"`
	MLPerformance    *MLPerformance   `json:"ml_performance,omitempty"`
	FactCheckStats   *FactCheckStats  `json:"fact_check_coverage,omitempty"`
	Geographic       []GeographicSlot `json:"geographic_distribution,omitempty"`
}

// ChartSeries is the label/value contract handed to the chart layer.
type ChartSeries struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// Empty reports whether the series carries no plottable data.
func (s ChartSeries) Empty() bool {
	return len(s.Labels) == 0 || len(s.Values) == 0
}

type Keyword struct {
	Word      string `json:"word"`
	Frequency int    `json:"frequency"`
}

type Pattern struct {
	Pattern string `json:"pattern"`
	Count   int    `json:"count"`
}

type RiskSource struct {
	Domain   string  `json:"domain"`
	AvgScore float64 `json:"avg_score"` // 0..100
	Analyses int     `json:"analyses"`
}

// MLPerformance metrics are [0,1] fractions per the dashboard contract.
type MLPerformance struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

type FactCheckStats struct {
	Checked   int     `json:"checked"`
	Unchecked int     `json:"unchecked"`
	Coverage  float64 `json:"coverage_pct"`
}

type GeographicSlot struct {
	Region string `json:"region"`
	Count  int    `json:"count"`
}

// Verification is one row of a user's analysis history.
type Verification struct {
	ID               string  `json:"id"`
	InputType        string  `json:"input_type"`
	Summary          string  `json:"summary"`
	CredibilityScore float64 `json:"credibility_score"`
	IsFake           bool    `json:"is_fake"`
	Verdict          string  `json:"verdict"`
	CreatedAt        string  `json:"created_at"`
}
