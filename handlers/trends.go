package handlers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"credinews/models"
	"credinews/services"
)

type TrendsHandler struct{}

func NewTrendsHandler() *TrendsHandler {
	return &TrendsHandler{}
}

func parseRangeDays(r *http.Request) int {
	days := 7
	if raw := r.URL.Query().Get("range"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 365 {
			days = n
		}
	}
	return days
}

// GetTrends serves GET /api/trends?range=N.
func (h *TrendsHandler) GetTrends(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, models.TrendsEnvelope{Success: false, Error: "method not allowed"})
		return
	}

	data, err := services.BuildTrends(parseRangeDays(r))
	if err != nil {
		log.Printf("[HANDLER] ❌ Trends failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.TrendsEnvelope{Success: false, Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, models.TrendsEnvelope{Success: true, Data: data})
}

// ExportTrends serves GET /api/trends/export?range=N&format=json|csv
// as a file download.
func (h *TrendsHandler) ExportTrends(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
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

	data, err := services.BuildTrends(parseRangeDays(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	stamp := time.Now().UTC().Format("2006-01-02")

	if format == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="credinews-trends-%s.csv"`, stamp))
		writeTrendsCSV(w, data)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="credinews-trends-%s.json"`, stamp))
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}

func writeTrendsCSV(w http.ResponseWriter, data *models.TrendsData) {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	cw.Write([]string{"metric", "value", "change_pct"})
	cw.Write([]string{"total_news_verifications", strconv.Itoa(data.TotalVerifications), fmtFloat(data.VerificationsChange)})
	cw.Write([]string{"fake_detected", strconv.Itoa(data.FakeDetected), fmtFloat(data.FakeChange)})
	cw.Write([]string{"accuracy_rate", fmtFloat(data.AccuracyRate), fmtFloat(data.AccuracyChange)})
	cw.Write([]string{"posers_detected", strconv.Itoa(data.PosersDetected), fmtFloat(data.PosersChange)})

	cw.Write(nil)
	cw.Write([]string{"day", "fake_detection_rate_pct"})
	for i, label := range data.DetectionRateChart.Labels {
		if i < len(data.DetectionRateChart.Values) {
			cw.Write([]string{label, fmtFloat(data.DetectionRateChart.Values[i])})
		}
	}

	cw.Write(nil)
	cw.Write([]string{"category", "count"})
	for i, label := range data.CategoryChart.Labels {
		if i < len(data.CategoryChart.Values) {
			cw.Write([]string{label, fmtFloat(data.CategoryChart.Values[i])})
		}
	}

	cw.Write(nil)
	cw.Write([]string{"domain", "avg_credibility_score"})
	for i, label := range data.SourceCredibilityChart.Labels {
		if i < len(data.SourceCredibilityChart.Values) {
			cw.Write([]string{label, fmtFloat(data.SourceCredibilityChart.Values[i])})
		}
	}
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
