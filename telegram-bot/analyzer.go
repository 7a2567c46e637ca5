package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"credinews/models"
)

type SSEEvent struct {
	Type string
	Data string
}

// StreamAnalyze posts to /api/analyze/stream and calls cb for each SSE event.
func StreamAnalyze(ctx context.Context, apiBase string, payload map[string]any, cb func(SSEEvent)) error {
	// Trim oversized text so the backend never rejects the request with 413.
	const maxRunes = 3500
	if text, ok := payload["content"].(string); ok {
		runes := []rune(text)
		if len(runes) > maxRunes {
			payload["content"] = string(runes[:maxRunes]) + "\n\n[...text truncated to 3500 characters for analysis...]"
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", apiBase+"/api/analyze/stream", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	client := &http.Client{Timeout: 180 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 64*1024)

	var eventType, eventData string
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event:"):
			eventType = strings.TrimSpace(line[6:])
		case strings.HasPrefix(line, "data:"):
			eventData = strings.TrimSpace(line[5:])
		case line == "" && eventType != "":
			cb(SSEEvent{Type: eventType, Data: eventData})
			eventType = ""
			eventData = ""
		}
	}
	return scanner.Err()
}

// ParseResult parses the JSON payload of the "result" SSE event.
func ParseResult(data string) (*models.AnalysisResult, error) {
	var envelope models.AnalysisEnvelope
	if err := json.Unmarshal([]byte(data), &envelope); err != nil {
		return nil, err
	}
	if !envelope.Success || envelope.Analysis == nil {
		return nil, fmt.Errorf("analysis failed: %s", envelope.Error)
	}
	return envelope.Analysis, nil
}
