package httpapi

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"covergen/internal/domain"
	"covergen/internal/http/handlers"
	"covergen/internal/preview"
	"covergen/internal/storage"
)

func noThumb(png []byte) ([]byte, string, error) {
	return png, "image/png", nil
}

func newTestServer(t *testing.T, seed bool) *httptest.Server {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if seed {
		ctx := context.Background()
		if _, err := store.WriteCover(ctx, "P001", []byte("\x89PNG-bytes")); err != nil {
			t.Fatalf("WriteCover: %v", err)
		}
		records := []domain.ResultRecord{{ProductID: "P001", Cover: "P001_cover.png", Title: "深睡神器", Tags: []string{"好物"}}}
		if err := store.WriteResults(ctx, records); err != nil {
			t.Fatalf("WriteResults: %v", err)
		}
	}
	app := handlers.NewApp(store, preview.NewBuilder(store, noThumb, nil), nil)
	ts := httptest.NewServer(NewRouter(app))
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, false)
	resp, body := get(t, ts.URL+"/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var payload map[string]string
	if err := json.Unmarshal([]byte(body), &payload); err != nil || payload["status"] != "ok" {
		t.Fatalf("unexpected body %q (%v)", body, err)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatalf("missing request id header")
	}
}

func TestViewerAndCover(t *testing.T) {
	ts := newTestServer(t, true)

	resp, body := get(t, ts.URL+"/")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "深睡神器") || !strings.Contains(body, "#好物") {
		t.Fatalf("viewer status=%d body=%q", resp.StatusCode, body)
	}

	resp, body = get(t, ts.URL+"/covers/P001_cover.png")
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/png" {
		t.Fatalf("cover status=%d type=%s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	if body != "\x89PNG-bytes" {
		t.Fatalf("cover body = %q", body)
	}
}

func TestCoverErrors(t *testing.T) {
	ts := newTestServer(t, true)
	cases := map[string]int{
		"/covers/P404_cover.png": http.StatusNotFound,
		"/covers/results.json":   http.StatusBadRequest,
	}
	for path, want := range cases {
		resp, _ := get(t, ts.URL+path)
		if resp.StatusCode != want {
			t.Fatalf("GET %s = %d, want %d", path, resp.StatusCode, want)
		}
	}
}

func TestViewerWithoutResults(t *testing.T) {
	ts := newTestServer(t, false)
	resp, _ := get(t, ts.URL+"/")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestCoversArchive(t *testing.T) {
	ts := newTestServer(t, true)
	resp, body := get(t, ts.URL+"/covers.zip")
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "application/zip" {
		t.Fatalf("status=%d type=%s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	zr, err := zip.NewReader(bytes.NewReader([]byte(body)), int64(len(body)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	if len(zr.File) != 1 || zr.File[0].Name != "P001_cover.png" {
		t.Fatalf("unexpected archive entries: %d", len(zr.File))
	}
}
