package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credinews/config"
	"credinews/models"
	"credinews/services"
)

func testHandler() *AnalyzerHandler {
	cfg := &config.Config{MaxUploadBytes: 5 * 1024 * 1024}
	engine := services.NewEngine(nil, nil)
	return NewAnalyzerHandler(cfg, engine)
}

func TestHealth(t *testing.T) {
	h := testHandler()
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestAnalyzeRejectsGet(t *testing.T) {
	h := testHandler()
	rec := httptest.NewRecorder()
	h.Analyze(rec, httptest.NewRequest(http.MethodGet, "/api/analyze", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	var envelope models.AnalysisEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.NotEmpty(t, envelope.Error)
}

func TestAnalyzeRejectsBadJSON(t *testing.T) {
	h := testHandler()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader("{not json"))
	h.Analyze(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeRejectsEmptyContent(t *testing.T) {
	h := testHandler()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze",
		strings.NewReader(`{"type":"text","content":"   "}`))
	h.Analyze(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeTextEndToEnd(t *testing.T) {
	h := testHandler()
	rec := httptest.NewRecorder()
	body := `{"type":"text","content":"Researchers at the university published a study according to the official report and the data showed a decline."}`
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
	h.Analyze(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope models.AnalysisEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	require.NotNil(t, envelope.Analysis)
	assert.Equal(t, "text", envelope.Analysis.InputType)
	assert.NotEmpty(t, envelope.Analysis.Verdict)
}

func TestAnalyzeUploadRejectsDisallowedType(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="pic.png"`)
	header.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	part.Write([]byte{0x89, 0x50, 0x4E, 0x47})
	mw.Close()

	h := testHandler()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	h.Analyze(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "unsupported file type")
}

func TestAnalyzeUploadPlainText(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="article.txt"`)
	header.Set("Content-Type", "text/plain")
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	part.Write([]byte("Officials from the department confirmed the findings in a statement published on Tuesday, according to researchers at the university."))
	mw.Close()

	h := testHandler()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	h.Analyze(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope models.AnalysisEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	require.NotNil(t, envelope.Analysis)
	assert.Equal(t, "file", envelope.Analysis.InputType)
}

func TestGetAnalysisRejectsBadID(t *testing.T) {
	h := testHandler()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/analysis/", nil)
	h.GetAnalysis(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeStreamEmitsEvents(t *testing.T) {
	h := testHandler()
	rec := httptest.NewRecorder()
	body := `{"type":"text","content":"The university published the report and officials confirmed the data according to the statement."}`
	req := httptest.NewRequest(http.MethodPost, "/api/analyze/stream", strings.NewReader(body))
	h.AnalyzeStream(rec, req)

	out := rec.Body.String()
	assert.Contains(t, out, "event: start")
	assert.Contains(t, out, "event: progress")
	assert.Contains(t, out, "event: result")
	assert.Contains(t, out, "event: done")
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
}
