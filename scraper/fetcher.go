package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

const (
	// DefaultMaxBodyBytes caps how much of a response body is read
	DefaultMaxBodyBytes int64 = 10 << 20
	// DefaultUserAgent is sent with every fetch unless overridden
	DefaultUserAgent = "newsnotes/1.0 (+https://github.com/newsnotes)"
)

// Document is a fetched source document
type Document struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
	// Truncated is set when the body exceeded the fetcher's size cap
	Truncated bool
}

// FetchError reports a transport failure reaching a source document
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher retrieves a document over HTTP. It issues a single GET without
// retries; non-2xx responses are returned as documents, not errors.
type Fetcher struct {
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
	logger       *slog.Logger
}

// FetcherOption configures a Fetcher
type FetcherOption func(*Fetcher)

// WithHTTPClient replaces the default client
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) { f.client = c }
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithMaxBodyBytes caps the body size read from the response
func WithMaxBodyBytes(n int64) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBodyBytes = n
		}
	}
}

// WithLogger sets the logger used for status warnings
func WithLogger(l *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewFetcher creates a fetcher with transport defaults
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:       &http.Client{},
		userAgent:    DefaultUserAgent,
		maxBodyBytes: DefaultMaxBodyBytes,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch performs the GET. Only the context bounds the request.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes+1))
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("reading body: %w", err)}
	}
	truncated := int64(len(body)) > f.maxBodyBytes
	if truncated {
		body = body[:f.maxBodyBytes]
		f.logger.Warn("response body exceeds size cap, truncated",
			"url", url, "max_bytes", f.maxBodyBytes)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.logger.Warn("source returned non-2xx status, using body anyway",
			"url", url, "status", resp.StatusCode)
	}

	return &Document{
		URL:         url,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
		Truncated:   truncated,
	}, nil
}
