package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

const tocPage = `<html><body><div id="chapters">
<div class="volume-wrapper"><h3 class="volume-title">Volume 1</h3>
  <div class="body-web"><ul class="chapter-list">
    <li><a href="/c1">Intro</a></li>
    <li><a href="/c2">Ch 2</a></li>
  </ul></div></div>
</div></body></html>`

// novelSite serves a one-volume novel and counts requests.
func novelSite(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if !strings.HasPrefix(r.UserAgent(), "novelpack/") {
			http.Error(w, "bad agent", http.StatusForbidden)
			return
		}
		switch r.URL.Path {
		case "/toc":
			w.Write([]byte(tocPage))
		case "/c1":
			w.Write([]byte(`<div id="main-content"><p>one</p><a href="/c2">Next Chapter</a></div>`))
		case "/c2":
			w.Write([]byte(`<div id="main-content"><a href="/c1">Previous Chapter</a><p>two</p></div>`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_OnlineThenOfflineProduceIdenticalEPUB(t *testing.T) {
	srv, hits := novelSite(t)
	root := t.TempDir()
	out := filepath.Join(root, "volumes", "Volume 1.epub")

	code, stdout, stderr := execute(t, "run", srv.URL+"/toc", "--root", root)
	if code != 0 {
		t.Fatalf("online exit %d: %s", code, stderr)
	}
	if strings.TrimSpace(stdout) != out {
		t.Errorf("stdout = %q, want %q", stdout, out)
	}
	online, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("epub not written: %v", err)
	}
	if got := hits.Load(); got != 3 {
		t.Errorf("online run made %d requests, want 3", got)
	}

	if err := os.Remove(out); err != nil {
		t.Fatal(err)
	}
	code, _, stderr = execute(t, "run", "--offline", "--root", root)
	if code != 0 {
		t.Fatalf("offline exit %d: %s", code, stderr)
	}
	if got := hits.Load(); got != 3 {
		t.Errorf("offline run made network requests")
	}
	offline, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("offline epub not written: %v", err)
	}
	if !bytes.Equal(online, offline) {
		t.Error("offline rebuild differs from the online output")
	}
}

func TestRun_MetricsFile(t *testing.T) {
	srv, _ := novelSite(t)
	root := t.TempDir()
	metricsFile := filepath.Join(root, "metrics.prom")

	if code, _, stderr := execute(t, "run", srv.URL+"/toc", "--root", root, "--metrics-file", metricsFile); code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	data, err := os.ReadFile(metricsFile)
	if err != nil {
		t.Fatalf("metrics file not written: %v", err)
	}
	for _, want := range []string{
		`novelpack_chapters_total{source="network"} 2`,
		`novelpack_volumes_emitted_total{format="epub"} 1`,
		`novelpack_manifest_writes_total 1`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("metrics missing %s:\n%s", want, data)
		}
	}
}

func TestRun_ExitCodes(t *testing.T) {
	srv, _ := novelSite(t)
	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>maintenance</body></html>"))
	}))
	t.Cleanup(empty.Close)
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	t.Cleanup(down.Close)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"unknown format", []string{"run", srv.URL + "/toc", "--format", "mobi"}, 1},
		{"format without value", []string{"run", "--format"}, 1},
		{"bad volume index", []string{"run", srv.URL + "/toc", "abc"}, 1},
		{"volume index out of range", []string{"run", srv.URL + "/toc", "2"}, 1},
		{"too many args", []string{"run", srv.URL + "/toc", "1", "extra"}, 1},
		{"unknown command", []string{"scrape"}, 1},
		{"toc fetch fails", []string{"run", down.URL + "/toc"}, 2},
		{"no table of contents", []string{"run", empty.URL + "/toc"}, 0},
		{"offline without manifest", []string{"run", "--offline"}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			// Flags go after --root so a flag missing its value stays last.
			args := append([]string{tt.args[0], "--root", root}, tt.args[1:]...)
			code, _, stderr := execute(t, args...)
			if code != tt.want {
				t.Errorf("exit %d, want %d: %s", code, tt.want, stderr)
			}
			if entries, _ := os.ReadDir(filepath.Join(root, "volumes")); len(entries) != 0 {
				t.Errorf("output written on a failed run: %v", entries)
			}
		})
	}
}

func TestRun_RootNotFound(t *testing.T) {
	t.Chdir(t.TempDir())
	code, _, stderr := execute(t, "run", "--offline")
	if code != 3 {
		t.Errorf("exit %d, want 3: %s", code, stderr)
	}
}

func TestVersion(t *testing.T) {
	code, stdout, _ := execute(t, "version")
	if code != 0 || !strings.HasPrefix(stdout, "novelpack dev") {
		t.Errorf("exit %d, stdout %q", code, stdout)
	}
}
