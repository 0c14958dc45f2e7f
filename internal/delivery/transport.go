package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"surveytrace/internal/telemetry"
)

// eventLogsPath is the collector's intake endpoint.
const eventLogsPath = "/api/event-logs"

// Submitter sends one event to the collector. Submit returns a non-nil
// error for any non-2xx response or transport failure.
type Submitter interface {
	Submit(ctx context.Context, ev telemetry.Event) error
}

// HTTPSubmitter posts events as JSON to a collector base URL.
type HTTPSubmitter struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSubmitter creates a submitter for the given collector base
// URL. A nil client uses http.DefaultClient; no per-request timeout is
// imposed beyond the client's own.
func NewHTTPSubmitter(baseURL string, client *http.Client) *HTTPSubmitter {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSubmitter{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// Submit posts ev to the collector. The response body is ignored on
// success.
func (s *HTTPSubmitter) Submit(ctx context.Context, ev telemetry.Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+eventLogsPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send event: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("collector returned status %d", resp.StatusCode)
	}
	return nil
}
