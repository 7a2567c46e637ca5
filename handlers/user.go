package handlers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"credinews/services"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// History serves GET /api/user/news-verifications?user_id=...&limit=N.
func (h *UserHandler) History(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false, "error": "'user_id' is required",
		})
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	verifications, err := services.ListVerifications(userID, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false, "error": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"verifications": verifications,
		"count":         len(verifications),
	})
}

// Export serves GET /api/user/export?user_id=...&format=json|csv
// as a downloadable history dump.
func (h *UserHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		http.Error(w, "'user_id' is required", http.StatusBadRequest)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	if format != "csv" && format != "json" {
		http.Error(w, "unknown format: "+format, http.StatusBadRequest)
		return
	}

	verifications, err := services.ListVerifications(userID, 200)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	stamp := time.Now().UTC().Format("2006-01-02")

	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="credinews-history-%s.csv"`, stamp))
		cw := csv.NewWriter(w)
		defer cw.Flush()
		cw.Write([]string{"id", "input_type", "summary", "credibility_score", "is_fake", "verdict", "created_at"})
		for _, v := range verifications {
			cw.Write([]string{
				v.ID, v.InputType, v.Summary,
				fmtFloat(v.CredibilityScore),
				strconv.FormatBool(v.IsFake),
				v.Verdict, v.CreatedAt,
			})
		}
	default:
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="credinews-history-%s.json"`, stamp))
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.Encode(verifications)
	}
}
