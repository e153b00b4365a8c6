package filesystem

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/user/novelpack/internal/entity"
)

func sampleManifest() *entity.CacheManifest {
	m := entity.NewCacheManifest("https://x/toc", time.Date(2026, 10, 15, 8, 30, 0, 0, time.UTC))
	m.Volumes.Set("Zeta", []entity.CachedChapterRef{{Index: 1, Name: "Z1", FileName: "1_Z1.txt"}})
	m.Volumes.Set("Alpha", []entity.CachedChapterRef{
		{Index: 1, Name: "A1", FileName: "1_A1.txt"},
		{Index: 2, Name: "A2", FileName: "2_A2.txt"},
	})
	return m
}

func TestManifestStore_RoundTripKeepsOrder(t *testing.T) {
	store := NewManifestStore(filepath.Join(t.TempDir(), "chapters", "manifest.json"))
	if err := store.Save(sampleManifest()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if keys := got.Volumes.Keys(); !reflect.DeepEqual(keys, []string{"Zeta", "Alpha"}) {
		t.Errorf("volume order = %v", keys)
	}
	alpha, _ := got.Volumes.Get("Alpha")
	if len(alpha) != 2 || alpha[1].FileName != "2_A2.txt" {
		t.Errorf("Alpha refs = %+v", alpha)
	}
	if got.TocURL != "https://x/toc" || !got.GeneratedUTC.Equal(sampleManifest().GeneratedUTC) {
		t.Errorf("header = %q %v", got.TocURL, got.GeneratedUTC)
	}
}

func TestManifestStore_FileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	if err := NewManifestStore(path).Save(sampleManifest()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	for _, want := range []string{`"tocUrl": "https://x/toc"`, `"generatedUtc": "2026-10-15T08:30:00Z"`, `"fileName": "1_Z1.txt"`, "\n  \"volumes\": {"} {
		if !strings.Contains(text, want) {
			t.Errorf("manifest missing %q:\n%s", want, text)
		}
	}
	if strings.Index(text, `"Zeta"`) > strings.Index(text, `"Alpha"`) {
		t.Errorf("volumes not written in insertion order:\n%s", text)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Errorf("not valid JSON: %v", err)
	}
}

func TestManifestStore_SaveOverwrites(t *testing.T) {
	store := NewManifestStore(filepath.Join(t.TempDir(), "manifest.json"))
	if err := store.Save(sampleManifest()); err != nil {
		t.Fatal(err)
	}
	smaller := entity.NewCacheManifest("https://x/toc", time.Now())
	smaller.Volumes.Set("Only", []entity.CachedChapterRef{{Index: 1, Name: "O", FileName: "1_O.txt"}})
	if err := store.Save(smaller); err != nil {
		t.Fatal(err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if keys := got.Volumes.Keys(); !reflect.DeepEqual(keys, []string{"Only"}) {
		t.Errorf("keys after overwrite = %v", keys)
	}
}

func TestManifestStore_LoadFailures(t *testing.T) {
	tests := []struct {
		name    string
		content *string
	}{
		{"missing", nil},
		{"malformed", ptr(`{"tocUrl": 5`)},
		{"wrong shape", ptr(`{"volumes": ["a", "b"]}`)},
		{"no volumes", ptr(`{"tocUrl": "x", "generatedUtc": "2026-01-01T00:00:00Z", "volumes": {}}`)},
		{"null volumes", ptr(`{"tocUrl": "x", "volumes": null}`)},
		{"zero index", ptr(`{"tocUrl": "x", "generatedUtc": "2026-01-01T00:00:00Z", "volumes": {"V": [{"index": 0, "name": "a", "fileName": "0_a.txt"}]}}`)},
		{"no file name", ptr(`{"tocUrl": "x", "generatedUtc": "2026-01-01T00:00:00Z", "volumes": {"V": [{"index": 1, "name": "a"}]}}`)},
		{"bad timestamp", ptr(`{"tocUrl": "x", "generatedUtc": "yesterday", "volumes": {"V": [{"index": 1, "name": "a", "fileName": "1_a.txt"}]}}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "manifest.json")
			if tt.content != nil {
				if err := os.WriteFile(path, []byte(*tt.content), 0o644); err != nil {
					t.Fatal(err)
				}
			}
			_, err := NewManifestStore(path).Load()
			if !errors.Is(err, entity.ErrConsistency) {
				t.Errorf("err = %v, want ErrConsistency", err)
			}
		})
	}
}

func ptr(s string) *string { return &s }
