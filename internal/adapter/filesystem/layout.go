package filesystem

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/user/novelpack/pkg/utils"
)

const (
	// ChaptersDirName holds cached chapter bodies and the manifest.
	ChaptersDirName = "chapters"
	// VolumesDirName holds the emitted documents.
	VolumesDirName = "volumes"
	// AssetsDirName holds optional inputs such as the cover image.
	AssetsDirName = "assets"
	// ManifestFileName is the manifest inside ChaptersDirName.
	ManifestFileName = "manifest.json"
	// CoverFileName is the optional cover inside AssetsDirName.
	CoverFileName = "cover.jpg"
)

// Layout resolves the project's directories under one root.
type Layout struct {
	root string
}

// NewLayout returns the layout rooted at root.
func NewLayout(root string) *Layout {
	return &Layout{root: root}
}

// Root returns the project root.
func (l *Layout) Root() string {
	return l.root
}

// ChaptersDir returns the chapter cache directory.
func (l *Layout) ChaptersDir() string {
	return filepath.Join(l.root, ChaptersDirName)
}

// ManifestPath returns the path of the cache manifest.
func (l *Layout) ManifestPath() string {
	return filepath.Join(l.ChaptersDir(), ManifestFileName)
}

// VolumesDir returns the output directory.
func (l *Layout) VolumesDir() string {
	return filepath.Join(l.root, VolumesDirName)
}

// VolumePath returns the output path for a volume title with the given extension (without dot).
func (l *Layout) VolumePath(title, ext string) string {
	return filepath.Join(l.VolumesDir(), fmt.Sprintf("%s.%s", utils.SanitizeFileName(title), ext))
}

// CoverPath returns the path of the optional cover image.
func (l *Layout) CoverPath() string {
	return filepath.Join(l.root, AssetsDirName, CoverFileName)
}

// ReadCover returns the cover image bytes, or nil when there is no cover.
func (l *Layout) ReadCover() ([]byte, error) {
	data, err := os.ReadFile(l.CoverPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cover: %w", err)
	}
	return data, nil
}

// EnsureExists creates the chapter and volume directories.
func (l *Layout) EnsureExists() error {
	for _, dir := range []string{l.ChaptersDir(), l.VolumesDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}
