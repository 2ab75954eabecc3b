package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// HTTPProvider fetches objects over HTTP(S). The Content-Length header, when
// present, gives the size up front; chunked responses report SizeUnknown.
type HTTPProvider struct {
	client *http.Client
}

type HTTPConfig struct {
	// Timeout bounds the whole fetch, including the body read. Zero means no limit.
	Timeout time.Duration
}

func NewHTTPProvider(cfg HTTPConfig) *HTTPProvider {
	return &HTTPProvider{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (p *HTTPProvider) Fetch(ctx context.Context, ref string) (io.ReadCloser, int64, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return nil, 0, fmt.Errorf("parse source url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, 0, fmt.Errorf("unsupported source scheme %q", u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch source: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, 0, fmt.Errorf("fetch source: unexpected status %d", resp.StatusCode)
	}

	size := resp.ContentLength
	if size < 0 {
		size = SizeUnknown
	}
	return resp.Body, size, nil
}
