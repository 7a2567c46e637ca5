package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"credinews/config"
	"credinews/models"
	"credinews/services"
)

type AnalyzerHandler struct {
	cfg    *config.Config
	engine *services.Engine
}

func NewAnalyzerHandler(cfg *config.Config, engine *services.Engine) *AnalyzerHandler {
	return &AnalyzerHandler{cfg: cfg, engine: engine}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeAnalysisError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.AnalysisEnvelope{Success: false, Error: msg})
}

// Analyze handles POST /api/analyze: JSON body for text/url input,
// multipart form for file uploads.
func (h *AnalyzerHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	log.Printf("\n========================================")
	log.Printf("[HANDLER] 📥 Request: %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)

	if r.Method != http.MethodPost {
		writeAnalysisError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var result *models.AnalysisResult
	var err error

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		result, err = h.analyzeUpload(w, r)
	} else {
		var req models.AnalysisRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeAnalysisError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(req.Content) == "" {
			writeAnalysisError(w, http.StatusBadRequest, "'content' is required")
			return
		}
		result, err = h.engine.Analyze(req.Type, req.Content, req.UserID, nil)
	}

	if err != nil {
		log.Printf("[HANDLER] ❌ Analysis failed: %v", err)
		writeAnalysisError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	log.Printf("[HANDLER] ✅ Done in %v", time.Since(startTime))
	writeJSON(w, http.StatusOK, models.AnalysisEnvelope{Success: true, Analysis: result})
}

func (h *AnalyzerHandler) analyzeUpload(w http.ResponseWriter, r *http.Request) (*models.AnalysisResult, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.cfg.MaxUploadBytes); err != nil {
		return nil, fmt.Errorf("file exceeds the %d MB upload limit", h.cfg.MaxUploadBytes>>20)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("'file' field is required")
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !services.AllowedUploadType(contentType) {
		return nil, fmt.Errorf("unsupported file type: %s", contentType)
	}

	log.Printf("[HANDLER] 📎 Upload: %s (%s, %d bytes)", header.Filename, contentType, header.Size)

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	return h.engine.AnalyzeUpload(contentType, data, r.FormValue("user_id"), nil)
}

// AnalyzeStream is the SSE variant of Analyze: progress events while the
// pipeline runs, then the full result.
func (h *AnalyzerHandler) AnalyzeStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		http.Error(w, "'content' is required", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	sendEvent := func(eventType, data string) {
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventType, data)
		flusher.Flush()
	}

	sendEvent("start", "🚀 Starting analysis...")

	progress := func(stage string, pct int) {
		payload, _ := json.Marshal(map[string]interface{}{"stage": stage, "pct": pct})
		sendEvent("progress", string(payload))
	}

	result, err := h.engine.Analyze(req.Type, req.Content, req.UserID, progress)
	if err != nil {
		sendEvent("error", "❌ "+err.Error())
		return
	}

	resultJSON, _ := json.Marshal(models.AnalysisEnvelope{Success: true, Analysis: result})
	sendEvent("result", string(resultJSON))
	sendEvent("done", "✅ Analysis complete")
}

// GetAnalysis serves GET /api/analysis/{id}.
func (h *AnalyzerHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/analysis/")
	if id == "" || strings.Contains(id, "/") {
		writeAnalysisError(w, http.StatusBadRequest, "invalid analysis id")
		return
	}

	result, err := services.GetAnalysis(id)
	if err != nil {
		writeAnalysisError(w, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, models.AnalysisEnvelope{Success: true, Analysis: result})
}

func (h *AnalyzerHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
