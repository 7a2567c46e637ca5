package services

import (
	"log"
	"net/url"
	"strings"

	"credinews/database"
	"credinews/models"
)

// Baseline reputation for well-known publishers, 0..1 scale.
var reliableDomains = map[string]float64{
	"bbc.com":            0.9,
	"reuters.com":        0.9,
	"ap.org":             0.9,
	"cnn.com":            0.8,
	"nytimes.com":        0.8,
	"washingtonpost.com": 0.8,
	"theguardian.com":    0.8,
	"npr.org":            0.8,
	"abscbn.com":         0.7,
	"gmanetwork.com":     0.7,
	"inquirer.net":       0.7,
	"rappler.com":        0.7,
}

var unreliableDomains = map[string]float64{
	"fake-news-site.com":      0.1,
	"clickbait-news.com":      0.2,
	"conspiracy-theories.com": 0.1,
}

// NormalizeDomain extracts host from a URL and strips www. prefix and port.
func NormalizeDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	host := strings.ToLower(u.Host)
	host = strings.TrimPrefix(host, "www.")
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		host = host[:idx]
	}
	return host
}

// AssessSource builds the source reputation block for an analysis.
// The free-text credibility label is what the dashboard badge matcher consumes.
func AssessSource(rawURL, inputType string) *models.SourceAnalysis {
	src := &models.SourceAnalysis{Credibility: "Unknown"}

	if inputType == "text" {
		src.Indicators = append(src.Indicators, "User-provided text, no publishing source")
		return src
	}

	domain := NormalizeDomain(rawURL)
	src.Domain = domain

	baseline, label := baselineReputation(domain, inputType)
	src.Credibility = label
	if baseline >= 0 {
		score := baseline * 100
		src.ReputationScore = &score
	}

	switch {
	case strings.HasSuffix(domain, ".gov"):
		src.Indicators = append(src.Indicators, "Government domain")
	case strings.HasSuffix(domain, ".edu"):
		src.Indicators = append(src.Indicators, "Educational domain")
	case strings.Contains(domain, "facebook.com"):
		src.Indicators = append(src.Indicators, "Social media platform")
	}

	// Observed history beats the static table once we have it.
	if avg, n := lookupDomainStats(domain); n > 0 {
		score := avg
		src.ReputationScore = &score
		src.Indicators = append(src.Indicators, "Reputation from analysis history")
	}

	return src
}

func baselineReputation(domain, inputType string) (float64, string) {
	if score, ok := reliableDomains[domain]; ok {
		if score >= 0.85 {
			return score, "High"
		}
		return score, "Reliable"
	}
	if score, ok := unreliableDomains[domain]; ok {
		return score, "Unreliable"
	}
	if strings.HasSuffix(domain, ".gov") || strings.HasSuffix(domain, ".edu") {
		return 0.85, "High"
	}
	if strings.Contains(domain, "facebook.com") || inputType == "facebook" {
		return 0.4, "Low (social media)"
	}
	return -1, "Unknown"
}

func lookupDomainStats(domain string) (avgScore float64, total int) {
	if database.DB == nil || domain == "" {
		return 0, 0
	}
	err := database.DB.QueryRow(`
		SELECT avg_score, total_analyses FROM domain_stats WHERE domain = $1
	`, domain).Scan(&avgScore, &total)
	if err != nil {
		return 0, 0
	}
	return avgScore, total
}

// UpsertDomainStats updates domain reputation after each URL analysis.
// Score is on the 0..100 scale.
func UpsertDomainStats(rawURL string, score float64) {
	if database.DB == nil {
		return
	}
	domain := NormalizeDomain(rawURL)
	if domain == "" {
		return
	}
	_, err := database.DB.Exec(`
		INSERT INTO domain_stats (domain, total_analyses, sum_scores, avg_score, last_analyzed_at)
		VALUES ($1, 1, $2, $2, NOW())
		ON CONFLICT (domain) DO UPDATE SET
			total_analyses   = domain_stats.total_analyses + 1,
			sum_scores       = domain_stats.sum_scores + $2,
			avg_score        = (domain_stats.sum_scores + $2) / (domain_stats.total_analyses + 1),
			last_analyzed_at = NOW()
	`, domain, score)
	if err != nil {
		log.Printf("[DOMAIN] ⚠ Failed to update stats for %s: %v", domain, err)
	} else {
		log.Printf("[DOMAIN] ✓ Stats updated: %s score=%.1f", domain, score)
	}
}
