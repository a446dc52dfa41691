package counter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Reporter mirrors counter increments to a remote endpoint, fire-and-forget.
type Reporter struct {
	url     string
	client  *http.Client
	timeout time.Duration
	done    func()
}

type reportPayload struct {
	Inc int64 `json:"inc"`
}

// NewReporter returns nil when url is empty, which disables reporting.
func NewReporter(url string, timeout time.Duration, client *http.Client) *Reporter {
	if url == "" {
		return nil
	}
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Reporter{url: url, client: client, timeout: timeout}
}

// Report posts {"inc": delta} in the background. The response is discarded
// and failures are only logged.
func (r *Reporter) Report(delta int64) {
	if r == nil {
		return
	}
	go func() {
		if r.done != nil {
			defer r.done()
		}
		if err := r.send(delta); err != nil {
			slog.Debug("counter report failed", "url", r.url, "error", err)
		}
	}()
}

func (r *Reporter) send(delta int64) error {
	body, err := json.Marshal(reportPayload{Inc: delta})
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build report request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("post report: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("report endpoint returned %d", resp.StatusCode)
	}
	return nil
}
