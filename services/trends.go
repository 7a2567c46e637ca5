package services

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"credinews/cache"
	"credinews/database"
	"credinews/models"
)

const trendsCacheTTL = 5 * time.Minute

// BuildTrends assembles the full dashboard payload for the given window.
// Results are cached in Redis per window length; the daily rollup
// invalidates the cache.
func BuildTrends(rangeDays int) (*models.TrendsData, error) {
	if database.DB == nil {
		return nil, fmt.Errorf("database not configured")
	}
	if rangeDays <= 0 || rangeDays > 365 {
		rangeDays = 7
	}

	cacheKey := fmt.Sprintf("trends:%d", rangeDays)
	if cached, err := cache.Get(cacheKey); err == nil && cached != "" {
		var data models.TrendsData
		if err := json.Unmarshal([]byte(cached), &data); err == nil {
			return &data, nil
		}
	}

	log.Printf("[TRENDS] 🔍 Building trends for last %d days", rangeDays)

	data := &models.TrendsData{RangeDays: rangeDays}

	current, err := windowCounters(rangeDays, 0)
	if err != nil {
		return nil, err
	}
	previous, err := windowCounters(rangeDays, rangeDays)
	if err != nil {
		return nil, err
	}

	data.TotalVerifications = current.total
	data.FakeDetected = current.fake
	data.PosersDetected = current.posers
	data.AccuracyRate = current.accuracy

	data.VerificationsChange = pctChange(float64(previous.total), float64(current.total))
	data.FakeChange = pctChange(float64(previous.fake), float64(current.fake))
	data.AccuracyChange = pctChange(previous.accuracy, current.accuracy)
	data.PosersChange = pctChange(float64(previous.posers), float64(current.posers))

	if data.DetectionRateChart, err = detectionRateSeries(rangeDays); err != nil {
		return nil, err
	}
	if data.CategoryChart, err = categorySeries(rangeDays); err != nil {
		return nil, err
	}
	if data.SourceCredibilityChart, err = sourceCredibilitySeries(rangeDays); err != nil {
		return nil, err
	}

	data.TrendingKeywords = trendingKeywords(rangeDays, 10)
	data.FakeNewsPatterns = fakeNewsPatterns(rangeDays)
	data.HighRiskSources = highRiskSources(5)
	data.MLPerformance = mlPerformance(rangeDays)
	data.FactCheckStats = factCheckStats(current)
	data.Geographic = geographicDistribution(rangeDays)

	if payload, err := json.Marshal(data); err == nil {
		cache.Set(cacheKey, string(payload), trendsCacheTTL)
	}

	log.Printf("[TRENDS] ✓ %d verifications, %d fake, accuracy %.1f%%",
		data.TotalVerifications, data.FakeDetected, data.AccuracyRate)
	return data, nil
}

type counters struct {
	total    int
	fake     int
	posers   int
	checked  int
	accuracy float64
}

// windowCounters aggregates one window of rangeDays, shifted back by
// offsetDays (offset 0 is the current window, offset rangeDays the one
// before it).
func windowCounters(rangeDays, offsetDays int) (counters, error) {
	var c counters
	var avgConfidence *float64
	err := database.DB.QueryRow(`
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_fake),
		       COUNT(*) FILTER (WHERE is_poser),
		       COUNT(*) FILTER (WHERE fact_checked),
		       AVG(confidence)
		FROM news_verifications
		WHERE created_at >= NOW() - make_interval(days => $1)
		  AND created_at <  NOW() - make_interval(days => $2)
	`, rangeDays+offsetDays, offsetDays).Scan(&c.total, &c.fake, &c.posers, &c.checked, &avgConfidence)
	if err != nil {
		return c, err
	}
	if avgConfidence != nil {
		c.accuracy = round1(*avgConfidence)
	}
	return c, nil
}

func pctChange(prev, cur float64) float64 {
	if prev == 0 {
		if cur == 0 {
			return 0
		}
		return 100
	}
	return round1((cur - prev) / prev * 100)
}

// detectionRateSeries is the per-day share of fake verdicts, zero-filled
// for days without analyses so the X axis stays continuous.
func detectionRateSeries(rangeDays int) (models.ChartSeries, error) {
	rows, err := database.DB.Query(`
		SELECT created_at::date AS day,
		       COUNT(*),
		       COUNT(*) FILTER (WHERE is_fake)
		FROM news_verifications
		WHERE created_at >= NOW() - make_interval(days => $1)
		GROUP BY day
		ORDER BY day
	`, rangeDays)
	if err != nil {
		return models.ChartSeries{}, err
	}
	defer rows.Close()

	byDay := map[string]float64{}
	for rows.Next() {
		var day time.Time
		var total, fake int
		if err := rows.Scan(&day, &total, &fake); err != nil {
			return models.ChartSeries{}, err
		}
		if total > 0 {
			byDay[day.Format("2006-01-02")] = round1(float64(fake) / float64(total) * 100)
		}
	}
	if err := rows.Err(); err != nil {
		return models.ChartSeries{}, err
	}

	var series models.ChartSeries
	start := time.Now().UTC().AddDate(0, 0, -(rangeDays - 1))
	for i := 0; i < rangeDays; i++ {
		day := start.AddDate(0, 0, i)
		series.Labels = append(series.Labels, day.Format("Jan 02"))
		series.Values = append(series.Values, byDay[day.Format("2006-01-02")])
	}
	return series, nil
}

func categorySeries(rangeDays int) (models.ChartSeries, error) {
	rows, err := database.DB.Query(`
		SELECT COALESCE(category, 'Other'), COUNT(*)
		FROM news_verifications
		WHERE created_at >= NOW() - make_interval(days => $1)
		GROUP BY 1
		ORDER BY 2 DESC
	`, rangeDays)
	if err != nil {
		return models.ChartSeries{}, err
	}
	defer rows.Close()

	var series models.ChartSeries
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return models.ChartSeries{}, err
		}
		series.Labels = append(series.Labels, category)
		series.Values = append(series.Values, float64(count))
	}
	return series, rows.Err()
}

// sourceCredibilitySeries shows average scores for the most analyzed domains.
func sourceCredibilitySeries(rangeDays int) (models.ChartSeries, error) {
	rows, err := database.DB.Query(`
		SELECT domain, AVG(credibility_score), COUNT(*)
		FROM news_verifications
		WHERE domain IS NOT NULL
		  AND created_at >= NOW() - make_interval(days => $1)
		GROUP BY domain
		ORDER BY COUNT(*) DESC
		LIMIT 8
	`, rangeDays)
	if err != nil {
		return models.ChartSeries{}, err
	}
	defer rows.Close()

	var series models.ChartSeries
	for rows.Next() {
		var domain string
		var avg float64
		var count int
		if err := rows.Scan(&domain, &avg, &count); err != nil {
			return models.ChartSeries{}, err
		}
		series.Labels = append(series.Labels, domain)
		series.Values = append(series.Values, round1(avg))
	}
	return series, rows.Err()
}

func trendingKeywords(rangeDays, limit int) []models.Keyword {
	rows, err := database.DB.Query(`
		SELECT COALESCE(summary, '')
		FROM news_verifications
		WHERE created_at >= NOW() - make_interval(days => $1)
		ORDER BY created_at DESC
		LIMIT 500
	`, rangeDays)
	if err != nil {
		log.Printf("[TRENDS] ⚠ Keyword query failed: %v", err)
		return nil
	}
	defer rows.Close()

	freq := map[string]int{}
	for rows.Next() {
		var summary string
		if err := rows.Scan(&summary); err != nil {
			return nil
		}
		for _, word := range strings.Fields(strings.ToLower(summary)) {
			word = strings.Trim(word, `.,!?;:"'()«»…`)
			if len(word) > 4 && !stopWords[word] {
				freq[word]++
			}
		}
	}

	keywords := make([]models.Keyword, 0, len(freq))
	for word, count := range freq {
		if count >= 2 {
			keywords = append(keywords, models.Keyword{Word: word, Frequency: count})
		}
	}
	sort.Slice(keywords, func(i, j int) bool {
		if keywords[i].Frequency != keywords[j].Frequency {
			return keywords[i].Frequency > keywords[j].Frequency
		}
		return keywords[i].Word < keywords[j].Word
	})
	if len(keywords) > limit {
		keywords = keywords[:limit]
	}
	return keywords
}

// fakeNewsPatterns counts which red-flag phrases appear most in content
// that was flagged as fake.
func fakeNewsPatterns(rangeDays int) []models.Pattern {
	rows, err := database.DB.Query(`
		SELECT COALESCE(summary, '')
		FROM news_verifications
		WHERE is_fake
		  AND created_at >= NOW() - make_interval(days => $1)
		ORDER BY created_at DESC
		LIMIT 500
	`, rangeDays)
	if err != nil {
		log.Printf("[TRENDS] ⚠ Pattern query failed: %v", err)
		return nil
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var summary string
		if err := rows.Scan(&summary); err != nil {
			return nil
		}
		lower := strings.ToLower(summary)
		for _, indicator := range fakeIndicators {
			if strings.Contains(lower, indicator) {
				counts[indicator]++
			}
		}
	}

	patterns := make([]models.Pattern, 0, len(counts))
	for pattern, count := range counts {
		patterns = append(patterns, models.Pattern{Pattern: pattern, Count: count})
	}
	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].Count != patterns[j].Count {
			return patterns[i].Count > patterns[j].Count
		}
		return patterns[i].Pattern < patterns[j].Pattern
	})
	if len(patterns) > 5 {
		patterns = patterns[:5]
	}
	return patterns
}

func highRiskSources(limit int) []models.RiskSource {
	rows, err := database.DB.Query(`
		SELECT domain, avg_score, total_analyses
		FROM domain_stats
		WHERE avg_score < 40 AND total_analyses >= 2
		ORDER BY avg_score ASC
		LIMIT $1
	`, limit)
	if err != nil {
		log.Printf("[TRENDS] ⚠ High-risk source query failed: %v", err)
		return nil
	}
	defer rows.Close()

	var sources []models.RiskSource
	for rows.Next() {
		var s models.RiskSource
		if err := rows.Scan(&s.Domain, &s.AvgScore, &s.Analyses); err != nil {
			return nil
		}
		s.AvgScore = round1(s.AvgScore)
		sources = append(sources, s)
	}
	return sources
}

// mlPerformance derives metrics from ensemble self-agreement: how often
// each member voted with the final ensemble verdict. Without labeled
// ground truth this is the honest number we can report.
func mlPerformance(rangeDays int) *models.MLPerformance {
	rows, err := database.DB.Query(`
		SELECT result->'model_results', is_fake
		FROM news_verifications
		WHERE created_at >= NOW() - make_interval(days => $1)
		ORDER BY created_at DESC
		LIMIT 500
	`, rangeDays)
	if err != nil {
		log.Printf("[TRENDS] ⚠ ML performance query failed: %v", err)
		return nil
	}
	defer rows.Close()

	var truePos, falsePos, falseNeg, agree, votes int
	for rows.Next() {
		var payload []byte
		var isFake bool
		if err := rows.Scan(&payload, &isFake); err != nil {
			return nil
		}
		var results map[string]models.ModelResult
		if err := json.Unmarshal(payload, &results); err != nil {
			continue
		}
		for _, r := range results {
			votedFake := r.Prediction == "fake"
			votes++
			if votedFake == isFake {
				agree++
			}
			switch {
			case votedFake && isFake:
				truePos++
			case votedFake && !isFake:
				falsePos++
			case !votedFake && isFake:
				falseNeg++
			}
		}
	}

	if votes == 0 {
		return nil
	}

	perf := &models.MLPerformance{
		Accuracy: round3(float64(agree) / float64(votes)),
	}
	if truePos+falsePos > 0 {
		perf.Precision = round3(float64(truePos) / float64(truePos+falsePos))
	}
	if truePos+falseNeg > 0 {
		perf.Recall = round3(float64(truePos) / float64(truePos+falseNeg))
	}
	if perf.Precision+perf.Recall > 0 {
		perf.F1 = round3(2 * perf.Precision * perf.Recall / (perf.Precision + perf.Recall))
	}
	return perf
}

func factCheckStats(c counters) *models.FactCheckStats {
	stats := &models.FactCheckStats{
		Checked:   c.checked,
		Unchecked: c.total - c.checked,
	}
	if c.total > 0 {
		stats.Coverage = round1(float64(c.checked) / float64(c.total) * 100)
	}
	return stats
}

func geographicDistribution(rangeDays int) []models.GeographicSlot {
	rows, err := database.DB.Query(`
		SELECT region, COUNT(*)
		FROM news_verifications
		WHERE region IS NOT NULL
		  AND created_at >= NOW() - make_interval(days => $1)
		GROUP BY region
		ORDER BY COUNT(*) DESC
		LIMIT 10
	`, rangeDays)
	if err != nil {
		log.Printf("[TRENDS] ⚠ Geographic query failed: %v", err)
		return nil
	}
	defer rows.Close()

	var slots []models.GeographicSlot
	for rows.Next() {
		var s models.GeographicSlot
		if err := rows.Scan(&s.Region, &s.Count); err != nil {
			return nil
		}
		slots = append(slots, s)
	}
	return slots
}

// RollupDaily writes yesterday's counters into trend_days and drops the
// cached trends payloads so the next request sees fresh numbers.
func RollupDaily() {
	if database.DB == nil {
		return
	}

	log.Println("[TRENDS] 🕐 Running daily rollup")

	keywords := trendingKeywords(1, 10)
	keywordsJSON, _ := json.Marshal(keywords)

	_, err := database.DB.Exec(`
		INSERT INTO trend_days
			(day, verifications, fake_count, poser_count, checked_count, accuracy_rate, top_keywords, updated_at)
		SELECT CURRENT_DATE - 1,
		       COUNT(*),
		       COUNT(*) FILTER (WHERE is_fake),
		       COUNT(*) FILTER (WHERE is_poser),
		       COUNT(*) FILTER (WHERE fact_checked),
		       COALESCE(AVG(confidence), 0),
		       $1,
		       NOW()
		FROM news_verifications
		WHERE created_at::date = CURRENT_DATE - 1
		ON CONFLICT (day) DO UPDATE SET
			verifications = EXCLUDED.verifications,
			fake_count    = EXCLUDED.fake_count,
			poser_count   = EXCLUDED.poser_count,
			checked_count = EXCLUDED.checked_count,
			accuracy_rate = EXCLUDED.accuracy_rate,
			top_keywords  = EXCLUDED.top_keywords,
			updated_at    = NOW()
	`, string(keywordsJSON))
	if err != nil {
		log.Printf("[TRENDS] ❌ Rollup failed: %v", err)
		return
	}

	keys := make([]string, 0, 4)
	for _, days := range []int{1, 7, 30, 90} {
		keys = append(keys, fmt.Sprintf("trends:%d", days))
	}
	cache.Delete(keys...)

	log.Println("[TRENDS] ✓ Daily rollup complete")
}

// StartTrendsCron schedules the rollup shortly after midnight.
func StartTrendsCron() *cron.Cron {
	c := cron.New()
	if _, err := c.AddFunc("5 0 * * *", RollupDaily); err != nil {
		log.Printf("[TRENDS] ❌ Failed to schedule rollup: %v", err)
		return c
	}
	c.Start()
	log.Println("[TRENDS] ✓ Daily rollup scheduled at 00:05")
	return c
}
