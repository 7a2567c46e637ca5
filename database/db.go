package database

import (
	"database/sql"
	"log"

	_ "github.com/lib/pq"
)

var DB *sql.DB

func InitDB(url string) {
	if url == "" {
		log.Println("⚠️ DB_URL not set, running without database")
		return
	}

	var err error
	DB, err = sql.Open("postgres", url)
	if err != nil {
		log.Fatalf("❌ Database connection error: %v", err)
	}

	err = DB.Ping()
	if err != nil {
		log.Fatalf("❌ Database unreachable: %v", err)
	}

	log.Println("✓ PostgreSQL connection established")

	// One row per completed analysis. Scores are stored denormalized next to
	// the JSONB payload so trend queries never have to unpack the document.
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS news_verifications (
			id                TEXT PRIMARY KEY,
			user_id           TEXT,
			input_type        TEXT NOT NULL,
			summary           TEXT,
			domain            TEXT,
			region            TEXT,
			credibility_score FLOAT NOT NULL,
			confidence        FLOAT NOT NULL,
			is_fake           BOOLEAN NOT NULL,
			is_poser          BOOLEAN NOT NULL DEFAULT FALSE,
			fact_checked      BOOLEAN NOT NULL DEFAULT FALSE,
			category          TEXT,
			result            JSONB NOT NULL,
			created_at        TIMESTAMPTZ DEFAULT NOW()
		)
	`)
	if err != nil {
		log.Fatalf("❌ Error creating news_verifications table: %v", err)
	}

	_, err = DB.Exec(`
		CREATE INDEX IF NOT EXISTS idx_verifications_created
		ON news_verifications (created_at)
	`)
	if err != nil {
		log.Fatalf("❌ Error creating verification index: %v", err)
	}

	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS domain_stats (
			domain TEXT PRIMARY KEY,
			total_analyses INTEGER DEFAULT 0,
			sum_scores     FLOAT   DEFAULT 0,
			avg_score      FLOAT   DEFAULT 0,
			last_analyzed_at TIMESTAMPTZ DEFAULT NOW()
		)
	`)
	if err != nil {
		log.Fatalf("❌ Error creating domain_stats table: %v", err)
	}

	// Daily rollup written by the trends cron job; one row per calendar day.
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS trend_days (
			day            DATE PRIMARY KEY,
			verifications  INTEGER DEFAULT 0,
			fake_count     INTEGER DEFAULT 0,
			poser_count    INTEGER DEFAULT 0,
			checked_count  INTEGER DEFAULT 0,
			accuracy_rate  FLOAT   DEFAULT 0,
			top_keywords   JSONB,
			updated_at     TIMESTAMPTZ DEFAULT NOW()
		)
	`)
	if err != nil {
		log.Fatalf("❌ Error creating trend_days table: %v", err)
	}
}
