package services

import (
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"credinews/cache"
	"credinews/database"
	"credinews/models"
)

// ProgressFunc receives pipeline stage updates for streaming responses.
// pct is 0..100.
type ProgressFunc func(stage string, pct int)

// Engine runs the full analysis pipeline: content acquisition, the ML
// ensemble, fact checking, poser detection, source assessment, and the
// final weighted score.
type Engine struct {
	detector  *Detector
	scorer    *Scorer
	factcheck *GoogleFactCheckClient
	facebook  *FacebookClient
	fetcher   *ContentFetcher
}

func NewEngine(factcheck *GoogleFactCheckClient, facebook *FacebookClient) *Engine {
	return &Engine{
		detector:  NewDetector(),
		scorer:    NewScorer(),
		factcheck: factcheck,
		facebook:  facebook,
		fetcher:   NewContentFetcher(),
	}
}

// DetectInputType classifies raw input when the caller didn't say.
func DetectInputType(content string) string {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		if strings.Contains(trimmed, "facebook.com") {
			return "facebook"
		}
		return "url"
	}
	return "text"
}

// Analyze runs the pipeline for one piece of content. inputType is "text",
// "url" or "facebook"; pass "" to auto-detect. progress may be nil.
func (e *Engine) Analyze(inputType, content, userID string, progress ProgressFunc) (*models.AnalysisResult, error) {
	started := time.Now()

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("empty content")
	}
	if inputType == "" {
		inputType = DetectInputType(content)
	}

	report := func(stage string, pct int) {
		if progress != nil {
			progress(stage, pct)
		}
	}

	log.Printf("[ENGINE] 🔍 Starting analysis, type=%s, %d chars", inputType, len(content))
	report("started", 5)

	// Identical content gets the cached verdict instead of a re-run.
	cacheKey := "analysis:" + contentHash(inputType, content)
	if cached, err := cache.Get(cacheKey); err == nil && cached != "" {
		var result models.AnalysisResult
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			log.Printf("[ENGINE] ✓ Cache hit for %s", cacheKey)
			result.ID = newAnalysisID()
			result.UserID = userID
			result.CreatedAt = time.Now().UTC().Format(time.RFC3339)
			result.ProcessingTime = time.Since(started).Seconds()
			e.saveVerification(&result, content)
			report("complete", 100)
			return &result, nil
		}
	}

	// Stage 1: content acquisition.
	text := content
	sourceURL := ""
	var poser *models.PoserDetection

	switch inputType {
	case "url":
		report("fetching", 15)
		sourceURL = content
		fetched, err := e.fetcher.FetchURL(content)
		if err != nil {
			return nil, fmt.Errorf("could not extract article text: %w", err)
		}
		text = fetched
	case "facebook":
		report("fetching", 15)
		sourceURL = content
		if pageID := ExtractPageID(content); pageID != "" {
			poser = e.facebook.AnalyzeAccount(pageID)
		}
		// Page text is often behind a login wall; analysis continues on
		// whatever is reachable.
		if fetched, err := e.fetcher.FetchURL(content); err == nil {
			text = fetched
		}
	}

	// Stage 2: ML ensemble.
	report("ml_analysis", 35)
	features := ExtractFeatures(text)
	ensemble, breakdown, pFake := e.detector.Predict(text)
	log.Printf("[ENGINE] ✓ Ensemble: %s (%.2f), P(fake)=%.2f", ensemble.Prediction, ensemble.Confidence, pFake)

	// Stage 3: fact checking.
	report("fact_checking", 55)
	factChecks, factAgg := e.factcheck.CheckClaims(text)

	// Stage 4: source reputation.
	report("source_analysis", 70)
	source := AssessSource(sourceURL, inputType)

	// Stage 5: weighted credibility score.
	report("scoring", 85)
	assessment := e.scorer.Score(ensemble, pFake, factAgg, poser, features, source)

	result := &models.AnalysisResult{
		ID:               newAnalysisID(),
		CredibilityScore: round1(assessment.FinalScore * 100),
		Confidence:       round1(assessment.Confidence * 100),
		IsFake:           assessment.FinalScore < 0.4,
		Verdict:          assessment.Verdict,
		Explanation:      assessment.Explanation,
		ModelResults:     breakdown,
		FactChecks:       factChecks,
		PoserDetection:   poser,
		SourceAnalysis:   source,
		ComponentScores:  assessment.Components,
		LevelInfo:        LevelInfo(assessment.FinalScore),
		InputType:        inputType,
		ProcessingTime:   round3(time.Since(started).Seconds()),
		CreatedAt:        time.Now().UTC().Format(time.RFC3339),
		UserID:           userID,
	}

	e.saveVerification(result, text)

	if inputType == "url" || inputType == "facebook" {
		UpsertDomainStats(sourceURL, result.CredibilityScore)
	}

	if payload, err := json.Marshal(result); err == nil {
		cache.Set(cacheKey, string(payload), time.Hour)
	}

	log.Printf("[ENGINE] ✓ Analysis %s done in %.2fs: score=%.1f verdict=%q",
		result.ID, result.ProcessingTime, result.CredibilityScore, result.Verdict)
	report("complete", 100)
	return result, nil
}

// AnalyzeUpload extracts an uploaded document's text and analyzes it.
func (e *Engine) AnalyzeUpload(contentType string, data []byte, userID string, progress ProgressFunc) (*models.AnalysisResult, error) {
	if !AllowedUploadType(contentType) {
		return nil, fmt.Errorf("unsupported file type: %s", contentType)
	}

	text, err := ExtractUpload(contentType, data)
	if err != nil {
		return nil, err
	}
	if len(text) < 50 {
		return nil, fmt.Errorf("document contains too little text to analyze (%d chars)", len(text))
	}

	return e.Analyze("file", text, userID, progress)
}

// Simple keyword categorizer for the trends category chart.
var categoryKeywords = map[string][]string{
	"Politics":      {"election", "government", "president", "senate", "congress", "minister", "policy", "vote"},
	"Health":        {"vaccine", "virus", "doctor", "disease", "cure", "hospital", "medical", "health"},
	"Science":       {"study", "researchers", "university", "climate", "science", "experiment", "data"},
	"Business":      {"market", "economy", "stocks", "company", "investor", "bank", "price"},
	"Entertainment": {"celebrity", "movie", "actor", "singer", "concert", "viral"},
}

func Categorize(text string) string {
	lower := strings.ToLower(text)
	bestCategory, bestHits := "Other", 0
	for category, words := range categoryKeywords {
		hits := 0
		for _, w := range words {
			hits += strings.Count(lower, w)
		}
		if hits > bestHits {
			bestCategory, bestHits = category, hits
		}
	}
	return bestCategory
}

// TLD to coarse region, for the geographic distribution widget.
var regionTLDs = map[string]string{
	".ph": "Philippines", ".uk": "United Kingdom", ".de": "Germany",
	".fr": "France", ".in": "India", ".au": "Australia",
	".jp": "Japan", ".br": "Brazil", ".ru": "Russia", ".md": "Moldova",
}

func regionForDomain(domain string) string {
	if domain == "" {
		return ""
	}
	for tld, region := range regionTLDs {
		if strings.HasSuffix(domain, tld) {
			return region
		}
	}
	return "Global"
}

func (e *Engine) saveVerification(result *models.AnalysisResult, text string) {
	if database.DB == nil {
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		log.Printf("[ENGINE] ⚠ Result marshal failed: %v", err)
		return
	}

	domain := ""
	if result.SourceAnalysis != nil {
		domain = result.SourceAnalysis.Domain
	}

	_, err = database.DB.Exec(`
		INSERT INTO news_verifications
			(id, user_id, input_type, summary, domain, region,
			 credibility_score, confidence, is_fake, is_poser, fact_checked,
			 category, result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW())
		ON CONFLICT (id) DO NOTHING
	`,
		result.ID,
		nullable(result.UserID),
		result.InputType,
		summarize(text),
		nullable(domain),
		nullable(regionForDomain(domain)),
		result.CredibilityScore,
		result.Confidence,
		result.IsFake,
		result.PoserDetection != nil && result.PoserDetection.IsPoser,
		len(result.FactChecks) > 0,
		Categorize(text),
		string(payload),
	)
	if err != nil {
		log.Printf("[ENGINE] ⚠ Failed to save verification %s: %v", result.ID, err)
	}
}

// GetAnalysis loads a stored analysis by its identifier.
func GetAnalysis(id string) (*models.AnalysisResult, error) {
	if database.DB == nil {
		return nil, fmt.Errorf("database not configured")
	}

	var payload []byte
	err := database.DB.QueryRow(`
		SELECT result FROM news_verifications WHERE id = $1
	`, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("analysis not found")
	}
	if err != nil {
		return nil, err
	}

	var result models.AnalysisResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListVerifications returns a user's history, newest first.
func ListVerifications(userID string, limit int) ([]models.Verification, error) {
	if database.DB == nil {
		return nil, fmt.Errorf("database not configured")
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := database.DB.Query(`
		SELECT id, input_type, COALESCE(summary, ''), credibility_score, is_fake,
		       COALESCE(result->>'verdict', ''), created_at
		FROM news_verifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Verification
	for rows.Next() {
		var v models.Verification
		var createdAt time.Time
		if err := rows.Scan(&v.ID, &v.InputType, &v.Summary, &v.CredibilityScore, &v.IsFake, &v.Verdict, &createdAt); err != nil {
			return nil, err
		}
		v.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		out = append(out, v)
	}
	return out, rows.Err()
}

func contentHash(inputType, content string) string {
	sum := sha256.Sum256([]byte(inputType + "\x00" + content))
	return hex.EncodeToString(sum[:16])
}

func newAnalysisID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		sum := sha256.Sum256([]byte(time.Now().String()))
		copy(buf, sum[:8])
	}
	return "an_" + hex.EncodeToString(buf)
}

func summarize(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) > 200 {
		return string(runes[:200]) + "…"
	}
	return text
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func round1(x float64) float64 {
	return float64(int(x*10+0.5)) / 10
}
