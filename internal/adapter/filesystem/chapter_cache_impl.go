package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/user/novelpack/internal/entity"
	"github.com/user/novelpack/internal/parser"
	"github.com/user/novelpack/internal/repository"
	"github.com/user/novelpack/pkg/metrics"
	"github.com/user/novelpack/pkg/utils"
)

// ChapterCache stores one file per chapter under dir. A cached chapter is never fetched again.
type ChapterCache struct {
	dir         string
	fetcher     repository.PageFetcher
	mainContent string
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewChapterCache creates a chapter cache rooted at dir. fetcher may be nil for
// offline use, in which case only Read is available.
func NewChapterCache(dir string, fetcher repository.PageFetcher, mainContent string, m *metrics.Metrics, l *zap.Logger) *ChapterCache {
	return &ChapterCache{
		dir:         dir,
		fetcher:     fetcher,
		mainContent: mainContent,
		metrics:     m,
		logger:      l,
	}
}

// maxNameBytes keeps "{index}_{name}.txt" under the 255-byte file name limit of
// common filesystems.
const maxNameBytes = 200

// FileName returns the cache file name of the chapter at index with the given display name.
// The sanitized name is cut to maxNameBytes on a rune boundary.
func FileName(index int, name string) string {
	s := utils.SanitizeFileName(name)
	if len(s) > maxNameBytes {
		cut := maxNameBytes
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = strings.TrimSpace(s[:cut])
	}
	return fmt.Sprintf("%d_%s.txt", index, s)
}

// Resolve returns the cached chapter, or fetches, extracts and persists it on a miss.
// A fetch failure is cached as its placeholder and is not returned as an error;
// only disk failures are.
func (c *ChapterCache) Resolve(ctx context.Context, volume string, index int, name, sourceURL string) (entity.ChapterContent, entity.CachedChapterRef, error) {
	ref := entity.CachedChapterRef{Index: index, Name: name, FileName: FileName(index, name)}
	path := filepath.Join(c.dir, ref.FileName)

	data, err := os.ReadFile(path)
	if err == nil {
		c.metrics.IncChapter(metrics.SourceCache)
		c.logger.Debug("chapter cache hit", zap.String("volume", volume), zap.String("file", ref.FileName))
		return entity.ChapterContent{Name: name, BodyHTML: string(data)}, ref, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return entity.ChapterContent{}, ref, fmt.Errorf("failed to read cache file %s: %w", path, err)
	}
	if c.fetcher == nil {
		return entity.ChapterContent{}, ref, fmt.Errorf("%w: chapter %s is not cached and no fetcher is configured", entity.ErrConsistency, ref.FileName)
	}

	outcome := c.fetch(ctx, sourceURL)
	if err := ctx.Err(); err != nil {
		// An interrupted fetch is not a chapter failure and is not cached.
		return entity.ChapterContent{}, ref, err
	}
	if outcome.Failed() {
		c.metrics.IncChapter(metrics.SourceFailed)
		c.logger.Warn("chapter fetch failed, caching placeholder",
			zap.String("volume", volume), zap.Int("index", index), zap.String("url", sourceURL), zap.Error(outcome.Err))
	} else {
		c.metrics.IncChapter(metrics.SourceNetwork)
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return entity.ChapterContent{}, ref, fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(outcome.Content), 0o644); err != nil {
		return entity.ChapterContent{}, ref, fmt.Errorf("failed to write cache file %s: %w", path, err)
	}
	return entity.ChapterContent{Name: name, BodyHTML: outcome.Content}, ref, nil
}

// fetch downloads and extracts one chapter. It never returns an error: failures become
// a placeholder outcome.
func (c *ChapterCache) fetch(ctx context.Context, sourceURL string) entity.FetchOutcome {
	page, err := c.fetcher.Fetch(ctx, sourceURL)
	if err != nil {
		return entity.FetchOutcome{Content: parser.FailurePlaceholder(sourceURL, err), Err: err}
	}
	body, err := parser.ExtractChapterBody(page, c.mainContent)
	if err != nil {
		return entity.FetchOutcome{Content: parser.FailurePlaceholder(sourceURL, err), Err: err}
	}
	return entity.FetchOutcome{Content: body}
}

// Read returns the persisted chapter for ref. The file must exist.
func (c *ChapterCache) Read(ref entity.CachedChapterRef) (entity.ChapterContent, error) {
	path := filepath.Join(c.dir, ref.FileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return entity.ChapterContent{}, fmt.Errorf("%w: cache file %s referenced by the manifest is missing", entity.ErrConsistency, ref.FileName)
	}
	if err != nil {
		return entity.ChapterContent{}, fmt.Errorf("failed to read cache file %s: %w", path, err)
	}
	c.metrics.IncChapter(metrics.SourceCache)
	return entity.ChapterContent{Name: ref.Name, BodyHTML: string(data)}, nil
}
