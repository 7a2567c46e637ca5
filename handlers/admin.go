package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"credinews/config"
	"credinews/database"
	"credinews/logger"
)

type AdminHandler struct {
	cfg *config.Config
}

func NewAdminHandler(cfg *config.Config) *AdminHandler {
	return &AdminHandler{cfg: cfg}
}

// AuthMiddleware checks the admin token header.
func (h *AdminHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("X-Admin-Token")
		if token != h.cfg.AdminToken {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

type AdminStats struct {
	TotalVerifications int                `json:"total_verifications"`
	AverageScore       float64            `json:"average_score"`
	FakeCount          int                `json:"fake_count"`
	RealCount          int                `json:"real_count"`
	PoserCount         int                `json:"poser_count"`
	Recent             []AdminHistoryItem `json:"recent"`
}

type AdminHistoryItem struct {
	ID        string  `json:"id"`
	InputType string  `json:"input_type"`
	Domain    string  `json:"domain,omitempty"`
	Score     float64 `json:"score"`
	IsFake    bool    `json:"is_fake"`
	CreatedAt string  `json:"created_at"`
}

func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	if database.DB == nil {
		http.Error(w, "Database not available", http.StatusInternalServerError)
		return
	}

	stats := AdminStats{}

	err := database.DB.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(AVG(credibility_score), 0),
		       COUNT(*) FILTER (WHERE is_fake),
		       COUNT(*) FILTER (WHERE is_poser)
		FROM news_verifications
	`).Scan(&stats.TotalVerifications, &stats.AverageScore, &stats.FakeCount, &stats.PoserCount)
	if err != nil {
		log.Printf("[ADMIN] Error getting counters: %v", err)
	}
	stats.RealCount = stats.TotalVerifications - stats.FakeCount

	rows, err := database.DB.Query(`
		SELECT id, input_type, COALESCE(domain, ''), credibility_score, is_fake, created_at
		FROM news_verifications
		ORDER BY created_at DESC
		LIMIT 10
	`)
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			item := AdminHistoryItem{}
			var createdAt time.Time
			if err := rows.Scan(&item.ID, &item.InputType, &item.Domain, &item.Score, &item.IsFake, &createdAt); err != nil {
				continue
			}
			item.CreatedAt = createdAt.UTC().Format(time.RFC3339)
			stats.Recent = append(stats.Recent, item)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StreamLogs pushes the server log over a WebSocket to the admin console.
func (h *AdminHandler) StreamLogs(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token != h.cfg.AdminToken {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ADMIN] WebSocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	logsChan := logger.Instance.Subscribe()
	defer logger.Instance.Unsubscribe(logsChan)

	// Detect the client closing its side.
	done := make(chan struct{})
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				close(done)
				return
			}
		}
	}()

	for {
		select {
		case msg := <-logsChan:
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
