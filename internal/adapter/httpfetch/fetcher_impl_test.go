package httpfetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/user/novelpack/pkg/metrics"
)

func TestFetcher_SendsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	id, err := NewIdentity("novelpack-test/1.0", "")
	if err != nil {
		t.Fatalf("NewIdentity: %v", err)
	}
	f := NewFetcher(id, metrics.New(), zap.NewNop())

	body, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if body != "<html>ok</html>" {
		t.Errorf("body = %q", body)
	}
	if gotUA != "novelpack-test/1.0" {
		t.Errorf("User-Agent = %q", gotUA)
	}
}

func TestFetcher_NonOKStatus(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "gone", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	id, _ := NewIdentity("ua", "")
	f := NewFetcher(id, metrics.New(), zap.NewNop())

	_, err := f.Fetch(context.Background(), srv.URL)
	if err == nil || !strings.Contains(err.Error(), "503") {
		t.Fatalf("err = %v, want status error", err)
	}
	if calls != 1 {
		t.Errorf("server called %d times, want exactly 1 (no retries)", calls)
	}
}

func TestNewIdentity_Proxy(t *testing.T) {
	if _, err := NewIdentity("ua", "::not a url"); err == nil {
		t.Error("expected error for invalid proxy url")
	}
	id, err := NewIdentity("ua", "http://proxy.local:3128")
	if err != nil {
		t.Fatalf("NewIdentity: %v", err)
	}
	req, _ := http.NewRequest(http.MethodGet, "http://novel.example.com/", nil)
	proxyURL, err := id.Transport().Proxy(req)
	if err != nil || proxyURL == nil || proxyURL.Host != "proxy.local:3128" {
		t.Errorf("proxy = %v, %v", proxyURL, err)
	}
}
