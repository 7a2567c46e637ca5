package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"credinews/models"
)

// Client is the dashboard's view of the analysis API.
type Client struct {
	BaseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// Analyze submits content and returns the backend verdict.
func (c *Client) Analyze(inputType, content, userID string) (*models.AnalysisResult, error) {
	body, err := json.Marshal(models.AnalysisRequest{Type: inputType, Content: content, UserID: userID})
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Post(c.BaseURL+"/api/analyze", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	var envelope models.AnalysisEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("bad response: %w", err)
	}
	if !envelope.Success {
		return nil, fmt.Errorf("analysis failed: %s", envelope.Error)
	}
	return envelope.Analysis, nil
}

// FetchTrends loads the dashboard payload for the given window.
func (c *Client) FetchTrends(rangeDays int) (*models.TrendsData, error) {
	resp, err := c.client.Get(c.BaseURL + "/api/trends?range=" + strconv.Itoa(rangeDays))
	if err != nil {
		return nil, fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	var envelope models.TrendsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("bad response: %w", err)
	}
	if !envelope.Success {
		return nil, fmt.Errorf("trends failed: %s", envelope.Error)
	}
	return envelope.Data, nil
}

// GetAnalysis loads one stored analysis by identifier.
func (c *Client) GetAnalysis(id string) (*models.AnalysisResult, error) {
	resp, err := c.client.Get(c.BaseURL + "/api/analysis/" + url.PathEscape(id))
	if err != nil {
		return nil, fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	var envelope models.AnalysisEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("bad response: %w", err)
	}
	if !envelope.Success {
		return nil, fmt.Errorf("lookup failed: %s", envelope.Error)
	}
	return envelope.Analysis, nil
}

// History loads a user's recent verifications.
func (c *Client) History(userID string, limit int) ([]models.Verification, error) {
	endpoint := fmt.Sprintf("%s/api/user/news-verifications?user_id=%s&limit=%d",
		c.BaseURL, url.QueryEscape(userID), limit)
	resp, err := c.client.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	var payload struct {
		Success       bool                  `json:"success"`
		Verifications []models.Verification `json:"verifications"`
		Error         string                `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("bad response: %w", err)
	}
	if !payload.Success {
		return nil, fmt.Errorf("history failed: %s", payload.Error)
	}
	return payload.Verifications, nil
}

// ExportTrends downloads the trends export blob.
func (c *Client) ExportTrends(rangeDays int, format string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/api/trends/export?range=%d&format=%s",
		c.BaseURL, rangeDays, url.QueryEscape(format))
	resp, err := c.client.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("export failed: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
