package resolve

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vabarbosa/simple-data-vis/pkg/buildinfo"
	"github.com/vabarbosa/simple-data-vis/pkg/cache"
	"github.com/vabarbosa/simple-data-vis/pkg/dataset"
	"github.com/vabarbosa/simple-data-vis/pkg/errors"
	"github.com/vabarbosa/simple-data-vis/pkg/observability"
)

const (
	httpTimeout = 10 * time.Second

	// maxBodySize bounds a data-source response.
	maxBodySize = 64 << 20

	// maxErrorBody bounds the response text kept on a StatusError.
	maxErrorBody = 1 << 10
)

// Client fetches JSON documents over HTTP. Responses can be cached; failed
// requests are never retried.
type Client struct {
	http    *http.Client
	cache   cache.Cache
	keyer   cache.Keyer
	ttl     time.Duration
	headers map[string]string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithCache stores successful responses in c for ttl.
func WithCache(c cache.Cache, ttl time.Duration) ClientOption {
	return func(cl *Client) {
		if c != nil {
			cl.cache = c
			cl.ttl = ttl
		}
	}
}

// WithKeyer sets the cache key scheme.
func WithKeyer(k cache.Keyer) ClientOption {
	return func(cl *Client) {
		if k != nil {
			cl.keyer = k
		}
	}
}

// WithHeaders adds headers sent with every request. They override the
// defaults for the same key.
func WithHeaders(h map[string]string) ClientOption {
	return func(cl *Client) {
		for k, v := range h {
			cl.headers[k] = v
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(cl *Client) {
		if hc != nil {
			cl.http = hc
		}
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(cl *Client) {
		if d > 0 {
			cl.http.Timeout = d
		}
	}
}

// NewClient creates a Client with a 10s timeout, JSON accept headers and no
// cache.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		http:  &http.Client{Timeout: httpTimeout},
		cache: cache.NewNullCache(),
		keyer: cache.NewDefaultKeyer(),
		headers: map[string]string{
			"Accept":     "application/json",
			"User-Agent": buildinfo.UserAgent(),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get fetches rawURL and decodes the JSON body. Objects keep their key
// order (see dataset.Decode).
func (c *Client) Get(ctx context.Context, rawURL string) (any, error) {
	key := c.keyer.ResponseKey(rawURL, c.headers)
	if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		if v, err := dataset.DecodeBytes(data); err == nil {
			observability.Cache().OnCacheHit(ctx, "response")
			return v, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "response")

	body, err := c.fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	v, err := dataset.DecodeBytes(body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidData, err, "parse response from %s", rawURL)
	}

	if c.ttl >= 0 {
		if err := c.cache.Set(ctx, key, body, c.ttl); err == nil {
			observability.Cache().OnCacheSet(ctx, "response", len(body))
		}
	}
	return v, nil
}

func (c *Client) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "invalid data source")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	host, path := requestTarget(req.URL)
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, http.MethodGet, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, http.MethodGet, host, path, err)
		if stderrors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "request timed out")
		}
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connection failed")
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, http.MethodGet, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "read response")
	}
	return body, nil
}

func checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	if code >= 200 && code < 300 {
		return nil
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	se := newStatusError(code, strings.TrimSpace(string(data)))
	switch {
	case code == http.StatusNotFound:
		return errors.Wrap(errors.ErrCodeNotFound, se, "")
	default:
		return errors.Wrap(errors.ErrCodeNetwork, se, "")
	}
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return stderrors.As(err, &t) && t.Timeout()
}

func requestTarget(u *url.URL) (host, path string) {
	if u == nil {
		return "", ""
	}
	return u.Host, u.Path
}
