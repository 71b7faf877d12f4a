package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"
)

// FetchError describes a failed page fetch. Timeouts are flagged so callers
// can report them distinctly from other network failures.
type FetchError struct {
	// URL is the URL whose fetch failed.
	URL string

	// Timeout is true when the per-fetch deadline was exceeded.
	Timeout bool

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("fetch %s: timeout", e.URL)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Response holds one fetched page before classification.
type Response struct {
	// StatusCode is the HTTP response status code.
	StatusCode int

	// ContentType is the raw Content-Type header value.
	ContentType string

	// Body is the decoded response body, read up to the fetcher's size limit.
	Body string

	// Headers contains the HTTP response headers.
	Headers http.Header
}

// Success reports whether the response carries a 2xx status.
func (r *Response) Success() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsHTML reports whether the content type indicates an HTML document.
func (r *Response) IsHTML() bool {
	ct := strings.ToLower(r.ContentType)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml+xml")
}

// Fetcher performs single timed HTTP GETs with a descriptive user agent,
// a response body size limit, and optional politeness rate limiting.
//
// Design decision: We require an external *http.Client because transport
// concerns (proxies, TLS config, test servers) belong to the caller; the
// fetcher only owns per-request behavior.
type Fetcher struct {
	client      *http.Client
	userAgent   string
	maxBodySize int64
	headers     map[string]string
	limiter     *rate.Limiter
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithUserAgent sets the User-Agent header for all requests.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithMaxBodySize sets the maximum response body size to read.
func WithMaxBodySize(size int64) FetcherOption {
	return func(f *Fetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithHeaders sets extra HTTP headers included in every request.
func WithHeaders(headers map[string]string) FetcherOption {
	return func(f *Fetcher) {
		f.headers = headers
	}
}

// WithRateLimit enables politeness rate limiting at the given requests per
// second. Zero or negative disables limiting.
func WithRateLimit(rps float64) FetcherOption {
	return func(f *Fetcher) {
		if rps > 0 {
			f.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// NewFetcher creates a Fetcher using the given HTTP client.
func NewFetcher(client *http.Client, opts ...FetcherOption) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}

	f := &Fetcher{
		client:      client,
		userAgent:   "SEOScan/1.0 (+https://github.com/seoscan/seoscan)",
		maxBodySize: 5 * 1024 * 1024,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch performs one GET with the given per-request timeout. Redirects are
// followed by the underlying client. Network failures and timeouts are
// returned as *FetchError; response classification (status, content type)
// is left to the caller.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string, timeout time.Duration) (*Response, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, &FetchError{URL: pageURL, Err: err}
		}
	}

	reqCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Err: err}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Timeout: isTimeout(err), Err: err}
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")

	// Decode the body to UTF-8 so the HTML parser sees sane input even for
	// legacy-encoded pages. Decoding failures fall back to the raw bytes.
	limited := io.LimitReader(resp.Body, f.maxBodySize)
	reader, convErr := charset.NewReader(limited, contentType)
	if convErr != nil {
		reader = limited
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Timeout: isTimeout(err), Err: err}
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Body:        string(body),
		Headers:     resp.Header.Clone(),
	}, nil
}

// isTimeout reports whether an error represents an exceeded deadline.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
