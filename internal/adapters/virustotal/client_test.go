package virustotal

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/phishhook/phishhook/internal/core"
)

const testURL = "https://phish.example/login"

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient("test-key", server.URL, 5*time.Second, zap.NewNop())
	return client, server
}

func TestLookupKnownURL(t *testing.T) {
	var gotPath, gotKey string
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-apikey")
		fmt.Fprint(w, `{"data":{"attributes":{"last_analysis_stats":{"malicious":3,"suspicious":1,"harmless":60,"undetected":10}}}}`)
	}))
	defer server.Close()

	stats, err := client.Lookup(context.Background(), testURL)
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}

	if stats["malicious"] != 3 || stats["suspicious"] != 1 {
		t.Errorf("stats = %v, want malicious=3 suspicious=1", stats)
	}
	wantPath := "/urls/" + base64.RawURLEncoding.EncodeToString([]byte(testURL))
	if gotPath != wantPath {
		t.Errorf("request path = %q, want %q", gotPath, wantPath)
	}
	if gotKey != "test-key" {
		t.Errorf("x-apikey = %q, want %q", gotKey, "test-key")
	}
}

func TestLookupUnknownURL(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := client.Lookup(context.Background(), testURL)
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("err = %v, want core.ErrNotFound", err)
	}
}

func TestLookupRateLimited(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := client.Lookup(context.Background(), testURL)
	if err == nil || errors.Is(err, core.ErrNotFound) {
		t.Errorf("err = %v, want a rate-limit error distinct from not-found", err)
	}
}

func TestLookupServerError(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	if _, err := client.Lookup(context.Background(), testURL); err == nil {
		t.Error("err = nil, want error for a 500 response")
	}
}

func TestLookupMissingStats(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"data":{"attributes":{}}}`)
	}))
	defer server.Close()

	stats, err := client.Lookup(context.Background(), testURL)
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if stats == nil {
		t.Error("stats = nil, want empty map when the report carries no counts")
	}
}

func TestSubmit(t *testing.T) {
	var gotMethod, gotURL, gotContentType string
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		if err := r.ParseForm(); err == nil {
			gotURL = r.PostForm.Get("url")
		}
		fmt.Fprint(w, `{"data":{"type":"analysis","id":"u-abc"}}`)
	}))
	defer server.Close()

	if err := client.Submit(context.Background(), testURL); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Errorf("method = %q, want POST", gotMethod)
	}
	if gotContentType != "application/x-www-form-urlencoded" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if gotURL != testURL {
		t.Errorf("submitted url = %q, want %q", gotURL, testURL)
	}
}

func TestSubmitRejected(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	if err := client.Submit(context.Background(), testURL); err == nil {
		t.Error("err = nil, want error for a 400 response")
	}
}
