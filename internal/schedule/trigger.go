// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package schedule

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// FunctionKeyHeader carries the shared secret for the pipeline endpoint.
const FunctionKeyHeader = "x-functions-key"

// HTTPTrigger starts the pipeline by POSTing {brandId, templateId} to the
// orchestration endpoint. It waits for the response and does not retry.
type HTTPTrigger struct {
	url         string
	functionKey string
	client      *http.Client
}

// NewHTTPTrigger creates a trigger for the given endpoint URL. An empty
// functionKey sends no auth header.
func NewHTTPTrigger(url, functionKey string, timeout time.Duration) *HTTPTrigger {
	return &HTTPTrigger{
		url:         url,
		functionKey: functionKey,
		client:      &http.Client{Timeout: timeout},
	}
}

// Trigger sends one orchestration request.
func (t *HTTPTrigger) Trigger(ctx context.Context, brandID, templateID string) error {
	body, err := json.Marshal(map[string]string{
		"brandId":    brandID,
		"templateId": templateID,
	})
	if err != nil {
		return fmt.Errorf("marshal trigger body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create trigger request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if t.functionKey != "" {
		req.Header.Set(FunctionKeyHeader, t.functionKey)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("trigger %s: %w", t.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("trigger %s: status %d: %s", t.url, resp.StatusCode, bytes.TrimSpace(snippet))
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}
