package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dropgate-systems/dropgate/internal/models"
)

// postNotifications delivers a batch to the relay webhook and returns the
// decoded per-event outcomes.
func postNotifications(ctx context.Context, serverURL, token string, batch []*models.Notification) ([]map[string]string, error) {
	body, err := json.Marshal(batch)
	if err != nil {
		return nil, fmt.Errorf("encoding batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serverURL+"/api/events", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("posting events: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("relay returned %d: %s", resp.StatusCode, bytes.TrimSpace(respBody))
	}

	var parsed struct {
		Results []map[string]string `json:"results"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return parsed.Results, nil
}

func printResults(results []map[string]string) {
	for _, r := range results {
		fmt.Printf("  %-38s %s\n", r["id"], r["outcome"])
	}
}
