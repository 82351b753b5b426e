package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nao1215/diwan/internal/config"
)

// TestHTTPFetcher tests fetching pages from a local server.
func TestHTTPFetcher(t *testing.T) {
	t.Parallel()

	t.Run("parses a 200 response", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(`<html><body><h2>المتنبي</h2></body></html>`))
		}))
		defer server.Close()

		doc, err := New().Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := doc.Find("h2").Text(); got != "المتنبي" {
			t.Errorf("expected h2 text, got %q", got)
		}
	})

	t.Run("accepts any 2xx status", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNonAuthoritativeInfo)
			_, _ = w.Write([]byte(`<html><body><p>ok</p></body></html>`))
		}))
		defer server.Close()

		if _, err := New().Fetch(context.Background(), server.URL); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("non 2xx returns HTTPStatusError", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer server.Close()

		_, err := New().Fetch(context.Background(), server.URL)
		var statusErr *HTTPStatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("expected HTTPStatusError, got %v", err)
		}
		if statusErr.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", statusErr.StatusCode)
		}
	})

	t.Run("sends user agent and extra headers", func(t *testing.T) {
		t.Parallel()

		headers := make(chan http.Header, 1)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			headers <- r.Header.Clone()
			_, _ = w.Write([]byte(`<html></html>`))
		}))
		defer server.Close()

		f := New(WithUserAgent("diwan-test"), WithHeaders(map[string]string{"X-Test": "1"}))
		if _, err := f.Fetch(context.Background(), server.URL); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		h := <-headers
		if gotUA := h.Get("User-Agent"); gotUA != "diwan-test" {
			t.Errorf("expected user agent diwan-test, got %q", gotUA)
		}
		if gotExtra := h.Get("X-Test"); gotExtra != "1" {
			t.Errorf("expected X-Test header, got %q", gotExtra)
		}
	})

	t.Run("decodes declared charset", func(t *testing.T) {
		t.Parallel()

		// "café" in ISO-8859-1
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
			_, _ = w.Write([]byte("<html><body><p>caf\xe9</p></body></html>"))
		}))
		defer server.Close()

		doc, err := New().Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := doc.Find("p").Text(); got != "café" {
			t.Errorf("expected decoded text, got %q", got)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html></html>`))
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		f := New(WithRateLimit(1), WithTimeout(time.Second))
		if _, err := f.Fetch(ctx, server.URL); err == nil {
			t.Error("expected error for cancelled context")
		}
	})

	t.Run("timeout applies whatever the option order", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer server.Close()

		f := New(WithTimeout(50*time.Millisecond), WithUserAgent("diwan-test"))
		if f.client.Timeout != 50*time.Millisecond {
			t.Errorf("expected client timeout 50ms, got %v", f.client.Timeout)
		}
		if _, err := f.Fetch(context.Background(), server.URL); err == nil {
			t.Error("expected timeout error")
		}

		if d := New().client.Timeout; d != config.DefaultTimeout {
			t.Errorf("expected default timeout %v, got %v", config.DefaultTimeout, d)
		}
	})
}

// TestStaticFetcher tests the in-memory fetcher.
func TestStaticFetcher(t *testing.T) {
	t.Parallel()

	f := NewStatic(map[string]string{"http://a": `<html><h2>x</h2></html>`})

	doc, err := f.Fetch(context.Background(), "http://a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Find("h2").Text() != "x" {
		t.Error("expected parsed document")
	}

	if _, err := f.Fetch(context.Background(), "http://b"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if f.Hits("http://a") != 1 || f.TotalHits() != 2 {
		t.Errorf("unexpected hit counts: a=%d total=%d", f.Hits("http://a"), f.TotalHits())
	}
}
