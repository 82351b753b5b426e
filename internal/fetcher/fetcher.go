package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"

	"github.com/nao1215/diwan/internal/config"
)

// ErrNotFound is returned by StaticFetcher for unknown URLs.
var ErrNotFound = errors.New("page not found")

// Fetcher retrieves a page and returns its parsed document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}

// HTTPStatusError is returned when the server answers outside the 2xx range.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

// Error implements the error interface.
func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("could not get response from url %s: status %d", e.URL, e.StatusCode)
}

// HTTPFetcher fetches pages over HTTP.
type HTTPFetcher struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	maxBodySize int64
	headers     map[string]string
	limiter     *rate.Limiter
	logger      *slog.Logger
}

// Option configures an HTTPFetcher.
type Option func(*HTTPFetcher)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *HTTPFetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *HTTPFetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithMaxBodySize limits the number of body bytes read per page.
func WithMaxBodySize(n int64) Option {
	return func(f *HTTPFetcher) {
		if n > 0 {
			f.maxBodySize = n
		}
	}
}

// WithHeaders adds extra request headers.
func WithHeaders(h map[string]string) Option {
	return func(f *HTTPFetcher) {
		for k, v := range h {
			f.headers[k] = v
		}
	}
}

// WithRateLimit throttles requests to rps per second.
// Zero or a negative value disables throttling.
func WithRateLimit(rps float64) Option {
	return func(f *HTTPFetcher) {
		if rps <= 0 {
			f.limiter = nil
			return
		}
		f.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *HTTPFetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// New creates an HTTPFetcher.
func New(opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		timeout:     config.DefaultTimeout,
		userAgent:   config.DefaultUserAgent,
		maxBodySize: config.DefaultMaxBodySize,
		headers:     make(map[string]string),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.client = &http.Client{Timeout: f.timeout}
	return f
}

// Fetch performs a GET request and parses the response body.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ar,en;q=0.5")
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	f.logger.Debug("fetched page",
		"url", url,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &HTTPStatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, f.maxBodySize), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", url, err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", url, err)
	}
	return doc, nil
}

// StaticFetcher serves HTML from memory.
// It is safe for concurrent use and counts the requests it serves.
type StaticFetcher struct {
	mu    sync.Mutex
	pages map[string]string
	hits  map[string]int
}

// NewStatic creates a StaticFetcher over url to HTML pages.
func NewStatic(pages map[string]string) *StaticFetcher {
	p := make(map[string]string, len(pages))
	for k, v := range pages {
		p[k] = v
	}
	return &StaticFetcher{pages: p, hits: make(map[string]int)}
}

// Set adds or replaces a page.
func (s *StaticFetcher) Set(url, html string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[url] = html
}

// Fetch returns the parsed page or an error wrapping ErrNotFound.
func (s *StaticFetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	html, ok := s.pages[url]
	s.hits[url]++
	s.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, url)
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// Hits returns how many times url was requested.
func (s *StaticFetcher) Hits(url string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[url]
}

// TotalHits returns the number of requests served.
func (s *StaticFetcher) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, h := range s.hits {
		n += h
	}
	return n
}
