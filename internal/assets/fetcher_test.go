package assets

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"covergen/internal/domain"
)

func TestFetchReturnsBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer ts.Close()

	data, err := NewFetcher(FetcherOptions{}).Fetch(context.Background(), ts.URL+"/a.png")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("body = %q", data)
	}
}

func TestFetchNon2xx(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer ts.Close()

	_, err := NewFetcher(FetcherOptions{}).Fetch(context.Background(), ts.URL)
	if !errors.Is(err, domain.ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}
}

func TestFetchConnectionError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	_, err := NewFetcher(FetcherOptions{}).Fetch(context.Background(), url)
	if !errors.Is(err, domain.ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}
}

func TestFetchTimeout(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	_, err := NewFetcher(FetcherOptions{Timeout: 50 * time.Millisecond}).Fetch(context.Background(), ts.URL)
	if !errors.Is(err, domain.ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}
}

func TestFetchTLSVerification(t *testing.T) {
	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer ts.Close()

	if _, err := NewFetcher(FetcherOptions{}).Fetch(context.Background(), ts.URL); !errors.Is(err, domain.ErrFetch) {
		t.Fatalf("expected certificate error, got %v", err)
	}
	data, err := NewFetcher(FetcherOptions{InsecureSkipVerify: true}).Fetch(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("insecure fetch failed: %v", err)
	}
	if string(data) != "ok" {
		t.Fatalf("body = %q", data)
	}
}

func TestFetchEmptyURL(t *testing.T) {
	if _, err := NewFetcher(FetcherOptions{}).Fetch(context.Background(), " "); !errors.Is(err, domain.ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}
}
