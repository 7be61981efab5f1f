// Package upstream fetches the raw Call For Science CSV from its origin.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"callforscience/utils"
)

// ErrUnavailable wraps every failure to obtain the CSV: transport errors,
// non-2xx statuses and body read errors.
var ErrUnavailable = errors.New("csv unavailable")

// maxBodyBytes bounds the relayed body; the sheet is a few hundred rows.
// Anything larger is refused rather than truncated.
const maxBodyBytes = 16 << 20

// HTTPDoer is the interface for executing HTTP requests. *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher performs a single, uncached GET of the source CSV.
type Fetcher struct {
	client  HTTPDoer
	url     string
	maxBody int64
	logger  *utils.Logger
}

// NewFetcher creates a Fetcher for url. If client is nil, an http.Client with
// the given timeout is used.
func NewFetcher(client HTTPDoer, url string, timeout time.Duration, logger *utils.Logger) *Fetcher {
	if client == nil {
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Fetcher{client: client, url: url, maxBody: maxBodyBytes, logger: logger}
}

// URL returns the source address.
func (f *Fetcher) URL() string { return f.url }

// Fetch downloads the CSV text. It never retries.
func (f *Fetcher) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("upstream: build request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache, no-store")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream: %w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("upstream: %w: status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("upstream: %w: read body: %v", ErrUnavailable, err)
	}
	if int64(len(body)) > f.maxBody {
		return nil, fmt.Errorf("upstream: %w: body exceeds %d bytes", ErrUnavailable, f.maxBody)
	}

	f.logger.Debug("[upstream] Fetched %d bytes from %s in %v", len(body), f.url, time.Since(start))
	return body, nil
}
