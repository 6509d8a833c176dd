package gemini

// rest.go holds the shared plumbing for the endpoints we call over plain
// HTTP instead of the Go SDK. The SDK's media surface (Imagen predict, Veo
// long-running operations, TTS audio output) lags the REST API, so those
// clients are built directly on it.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// restBaseURL is the Gemini REST API base URL.
const restBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// apiError is the REST error envelope.
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("API error %d (%s): %s", e.Code, e.Status, e.Message)
}

// postJSON sends a JSON body to path (relative to the API base) and decodes
// the JSON response into out.
func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return c.doJSON(ctx, http.MethodPost, restBaseURL+path, bytes.NewReader(payload), out)
}

// getJSON fetches path (relative to the API base) and decodes into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, restBaseURL+path, nil, out)
}

func (c *Client) doJSON(ctx context.Context, method, url string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("x-goog-api-key", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", method, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var envelope struct {
			Error *apiError `json:"error"`
		}
		if jsonErr := json.Unmarshal(data, &envelope); jsonErr == nil && envelope.Error != nil {
			return envelope.Error
		}
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, truncate(string(data), 200))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// download fetches an absolute URL (e.g. a generated-file URI) with the API
// key attached and returns the raw bytes.
func (c *Client) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("download failed: HTTP %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
	return io.ReadAll(resp.Body)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
