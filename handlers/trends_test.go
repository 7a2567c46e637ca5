package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExportTrendsRejectsUnknownFormat(t *testing.T) {
	h := NewTrendsHandler()
	rec := httptest.NewRecorder()
	h.ExportTrends(rec, httptest.NewRequest(http.MethodGet, "/api/trends/export?format=xml", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown format")
}

func TestExportTrendsRejectsPost(t *testing.T) {
	h := NewTrendsHandler()
	rec := httptest.NewRecorder()
	h.ExportTrends(rec, httptest.NewRequest(http.MethodPost, "/api/trends/export", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestUserExportRejectsUnknownFormat(t *testing.T) {
	h := NewUserHandler()
	rec := httptest.NewRecorder()
	h.Export(rec, httptest.NewRequest(http.MethodGet, "/api/user/export?user_id=u1&format=xlsx", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown format")
}

func TestParseRangeDays(t *testing.T) {
	cases := []struct {
		query string
		want  int
	}{
		{"", 7},
		{"range=30", 30},
		{"range=0", 7},
		{"range=9999", 7},
		{"range=abc", 7},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodGet, "/api/trends?"+tc.query, nil)
		assert.Equal(t, tc.want, parseRangeDays(r), "query %q", tc.query)
	}
}
