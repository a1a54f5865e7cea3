package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ayusman/taala/internal/store"
)

// Uploader posts a completed analysis, with its normalized cycle timeline,
// to an external collection endpoint. One attempt per call; retry policy
// belongs to the caller.
type Uploader struct {
	endpoint  string
	client    *http.Client
	timeoutMs int
}

// Payload is the wire format for an exported analysis.
type Payload struct {
	Analysis *store.Analysis `json:"analysis"`
	Cycles   []store.Cycle   `json:"cycles"`
}

// NewUploader creates an Uploader targeting the given endpoint URL.
func NewUploader(endpoint string, timeoutMs int) *Uploader {
	if timeoutMs <= 0 {
		timeoutMs = 10000
	}
	return &Uploader{
		endpoint:  endpoint,
		client:    &http.Client{Timeout: time.Duration(timeoutMs) * time.Millisecond},
		timeoutMs: timeoutMs,
	}
}

// Enabled reports whether an endpoint is configured.
func (u *Uploader) Enabled() bool {
	return u.endpoint != ""
}

// Upload sends the analysis and its cycles as a single JSON document.
// A non-2xx status is an error.
func (u *Uploader) Upload(ctx context.Context, analysis *store.Analysis, cycles []store.Cycle) error {
	if u.endpoint == "" {
		return fmt.Errorf("no upload endpoint configured")
	}

	body, err := json.Marshal(Payload{Analysis: analysis, Cycles: cycles})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("upload rejected with status %d", resp.StatusCode)
	}
	return nil
}
