// Package assets downloads generated product photos for compositing.
package assets

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"covergen/internal/domain"
	"covergen/internal/infra"
)

// maxAssetBytes bounds a single download.
const maxAssetBytes = 32 << 20

// FetcherOptions configures a Fetcher.
type FetcherOptions struct {
	Timeout time.Duration
	// InsecureSkipVerify disables TLS certificate checks. Some CDNs used by the
	// image router serve mismatched certificates.
	InsecureSkipVerify bool
	HTTPClient         *http.Client
	Logger             *infra.Logger
}

// Fetcher retrieves image bytes over HTTP(S).
type Fetcher struct {
	httpClient *http.Client
	logger     *infra.Logger
}

// NewFetcher builds a Fetcher with a 60 second default timeout.
func NewFetcher(opts FetcherOptions) *Fetcher {
	logger := opts.Logger
	if logger == nil {
		logger = infra.DiscardLogger()
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if opts.InsecureSkipVerify {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // explicit opt-out
			logger.Warn().Msg("assets: tls certificate verification disabled")
		}
		client = &http.Client{Timeout: timeout, Transport: transport}
	}
	return &Fetcher{httpClient: client, logger: logger}
}

// Fetch downloads url. Timeouts, connection failures and non-2xx responses
// are reported as domain.ErrFetch.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("%w: empty url", domain.ErrFetch)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", domain.ErrFetch, err)
	}
	started := time.Now()
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: status %d from %s", domain.ErrFetch, resp.StatusCode, url)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", domain.ErrFetch, err)
	}
	f.logger.Debug().
		Str("url", url).
		Int("bytes", len(data)).
		Dur("elapsed", time.Since(started)).
		Msg("assets: fetched")
	return data, nil
}
