package datasource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/matzehuels/astroplot/pkg/buildinfo"
	apperrors "github.com/matzehuels/astroplot/pkg/errors"
	"github.com/matzehuels/astroplot/pkg/httputil"
	"github.com/matzehuels/astroplot/pkg/observability"
)

const httpTimeout = 60 * time.Second

var (
	// ErrNotFound is returned when the server has no such file.
	ErrNotFound = errors.New("dataset not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// Client fetches datasets over HTTP.
type Client struct {
	http    *http.Client
	cache   *httputil.Cache
	headers map[string]string
	retry   httputil.RetryPolicy
}

// NewClient creates a Client caching under the "dataset:" namespace of
// cache and retrying transient failures under policy. A nil cache disables
// caching.
func NewClient(cache *httputil.Cache, policy httputil.RetryPolicy) *Client {
	if cache != nil {
		cache = cache.Namespace("dataset:")
	}
	return &Client{
		http:  &http.Client{Timeout: httpTimeout},
		cache: cache,
		// Some data servers reject Go's default user agent.
		headers: map[string]string{"User-Agent": buildinfo.UserAgent()},
		retry:   policy,
	}
}

// Fetch returns the body at rawURL, from the cache unless refresh is set.
func (c *Client) Fetch(ctx context.Context, rawURL string, refresh bool) ([]byte, error) {
	if err := apperrors.ValidateURL(rawURL); err != nil {
		return nil, err
	}
	var body []byte
	err := c.cached(ctx, rawURL, refresh, &body, func() error {
		b, err := c.get(ctx, rawURL)
		if err != nil {
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

// Open returns the contents of localPath, downloading rawURL into it first
// when the file is missing or refresh is set.
func (c *Client) Open(ctx context.Context, localPath, rawURL string, refresh bool) ([]byte, error) {
	if err := apperrors.ValidatePath(localPath); err != nil {
		return nil, err
	}
	if !refresh {
		data, err := os.ReadFile(localPath)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	data, err := c.Fetch(ctx, rawURL, refresh)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(localPath, data, 0o644); err != nil {
		return nil, err
	}
	return data, nil
}

// cached retrieves a value from cache or executes fetch and caches the
// result. If refresh is true, the cache is bypassed and fetch is always
// called.
func (c *Client) cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	if !refresh && c.cache != nil {
		if ok, _ := c.cache.Get(key, v); ok {
			return nil
		}
	}
	if err := httputil.Retry(ctx, c.retry, fetch); err != nil {
		return err
	}
	if c.cache != nil {
		_ = c.cache.Set(key, v)
	}
	return nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp, req.URL); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	return data, nil
}

func checkStatus(resp *http.Response, u *url.URL) error {
	code := resp.StatusCode
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, u)
	case code == http.StatusTooManyRequests:
		after, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		return &httputil.RetryableError{
			Err:   &apperrors.RateLimitedError{RetryAfter: after, URL: u.String()},
			After: time.Duration(after) * time.Second,
		}
	case code >= 500:
		return &httputil.RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
