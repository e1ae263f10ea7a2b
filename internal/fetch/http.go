package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "stacv"

	// DefaultMaxBody bounds what is read from a single response.
	DefaultMaxBody = 32 << 20
)

// ErrTooLarge is returned for a response body longer than the fetcher accepts.
var ErrTooLarge = errors.New("response body too large")

type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	maxBody   int64
}

func NewHTTPFetcher(timeout time.Duration, userAgent string) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &HTTPFetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		maxBody:   DefaultMaxBody,
	}
}

func (h *HTTPFetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, &FetchError{URI: uri, Err: err}
	}
	req.Header.Set("User-Agent", h.userAgent)
	req.Header.Set("Accept", "application/schema+json, application/json;q=0.9, */*;q=0.1")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, &FetchError{URI: uri, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URI: uri, StatusCode: resp.StatusCode}
	}
	// One byte past the limit tells a body of exactly maxBody from a longer one.
	b, err := io.ReadAll(io.LimitReader(resp.Body, h.maxBody+1))
	if err != nil {
		return nil, &FetchError{URI: uri, Err: err}
	}
	if int64(len(b)) > h.maxBody {
		return nil, &FetchError{URI: uri, Err: fmt.Errorf("%w: more than %d bytes", ErrTooLarge, h.maxBody)}
	}
	return b, nil
}
