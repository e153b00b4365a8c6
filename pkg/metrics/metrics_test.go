package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()
	m.IncChapter(SourceCache)
	m.IncChapter(SourceCache)
	m.IncChapter(SourceNetwork)
	m.IncVolume("epub")

	if got := testutil.ToFloat64(m.ChaptersTotal.WithLabelValues(SourceCache)); got != 2 {
		t.Errorf("cache chapters = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.ChaptersTotal.WithLabelValues(SourceNetwork)); got != 1 {
		t.Errorf("network chapters = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.VolumesEmitted.WithLabelValues("epub")); got != 1 {
		t.Errorf("epub volumes = %v, want 1", got)
	}
}

func TestMetrics_SeparateRegistries(t *testing.T) {
	// Two runs in one process must not collide on registration.
	a, b := New(), New()
	a.IncChapter(SourceFailed)
	if got := testutil.ToFloat64(b.ChaptersTotal.WithLabelValues(SourceFailed)); got != 0 {
		t.Errorf("registries share state: %v", got)
	}
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := New()
	m.IncVolume("pdf")
	path := filepath.Join(t.TempDir(), "novelpack.prom")

	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), `novelpack_volumes_emitted_total{format="pdf"} 1`) {
		t.Errorf("textfile missing counter:\n%s", data)
	}
}
