package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/shared"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/infrastructure/config"
)

// Defaults applied when the configuration leaves a bound unset
const (
	DefaultTimeout  = 30 * time.Second
	DefaultMaxBytes = 10 << 20
)

// HTTPFetcher downloads partner feed documents
type HTTPFetcher struct {
	httpClient *http.Client
	maxBytes   int64
}

// NewHTTPFetcher creates a fetcher bounded by cfg
func NewHTTPFetcher(cfg config.FeedConfig) *HTTPFetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &HTTPFetcher{
		httpClient: &http.Client{Timeout: timeout},
		maxBytes:   maxBytes,
	}
}

// Fetch GETs url and returns the body. Transport failures, non-2xx responses
// and oversized bodies are reported as validation errors so the importer
// answers 400 instead of 500.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, shared.NewValidationError(fmt.Sprintf("failed to fetch feed: %v", err))
	}
	req.Header.Set("Accept", "application/yaml, text/yaml, text/plain, */*")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, shared.NewValidationError(fmt.Sprintf("failed to fetch feed: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, shared.NewValidationError(fmt.Sprintf("failed to fetch feed: HTTP %d", resp.StatusCode))
	}

	// One extra byte tells an exact-size body from an oversized one
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, shared.NewValidationError(fmt.Sprintf("failed to fetch feed: %v", err))
	}
	if int64(len(body)) > f.maxBytes {
		return nil, shared.NewValidationError(fmt.Sprintf("feed exceeds %d bytes", f.maxBytes))
	}
	return body, nil
}
