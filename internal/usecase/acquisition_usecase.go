package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/user/novelpack/internal/entity"
	"github.com/user/novelpack/internal/parser"
	"github.com/user/novelpack/internal/repository"
	"github.com/user/novelpack/pkg/metrics"
)

// AllVolumes selects every volume.
const AllVolumes = "all"

// Acquirer produces the chapter map for one run, online or from the cache alone.
type Acquirer interface {
	Acquire(ctx context.Context, req AcquireRequest, progress entity.ProgressFunc) (*AcquireResult, error)
}

// AcquireRequest describes one run.
type AcquireRequest struct {
	Mode   entity.Mode
	TocURL string
	// Volume is "", "all" or a 1-based volume index.
	Volume string
}

// AcquireResult is the resolved content of the selected volumes and the manifest that
// describes it: the one just written (online) or the one read (offline).
type AcquireResult struct {
	Chapters *entity.ChapterMap
	Manifest *entity.CacheManifest
}

// AcquisitionConfig tunes the orchestrator.
type AcquisitionConfig struct {
	Selectors parser.TocSelectors
	// MergeManifest keeps volumes of the previous manifest that this run did not process.
	MergeManifest bool
	// Now stamps new manifests; time.Now when nil.
	Now func() time.Time
}

type acquisitionUseCase struct {
	fetcher   repository.PageFetcher
	cache     repository.ChapterCache
	manifests repository.ManifestStore
	cfg       AcquisitionConfig
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewAcquisitionUseCase creates the acquisition orchestrator. fetcher may be nil when
// only offline runs are made.
func NewAcquisitionUseCase(
	fetcher repository.PageFetcher,
	cache repository.ChapterCache,
	manifests repository.ManifestStore,
	cfg AcquisitionConfig,
	m *metrics.Metrics,
	l *zap.Logger,
) Acquirer {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &acquisitionUseCase{
		fetcher:   fetcher,
		cache:     cache,
		manifests: manifests,
		cfg:       cfg,
		metrics:   m,
		logger:    l,
	}
}

// Acquire runs the online or offline pipeline. Selector errors are reported before any
// chapter is read or fetched.
func (uc *acquisitionUseCase) Acquire(ctx context.Context, req AcquireRequest, progress entity.ProgressFunc) (*AcquireResult, error) {
	if err := validateSelector(req.Volume); err != nil {
		return nil, err
	}
	if progress == nil {
		progress = func(int, int) {}
	}
	if req.Mode == entity.ModeOffline {
		return uc.acquireOffline(ctx, req, progress)
	}
	return uc.acquireOnline(ctx, req, progress)
}

func (uc *acquisitionUseCase) acquireOnline(ctx context.Context, req AcquireRequest, progress entity.ProgressFunc) (*AcquireResult, error) {
	if uc.fetcher == nil {
		return nil, errors.New("online run without a page fetcher")
	}
	page, err := uc.fetcher.Fetch(ctx, req.TocURL)
	if err != nil {
		uc.metrics.TocFetchErrors.Inc()
		return nil, fmt.Errorf("%w: %w", entity.ErrNetwork, err)
	}
	toc, err := parser.ParseToc(page, req.TocURL, uc.cfg.Selectors)
	if err != nil {
		return nil, err
	}
	selected, err := SelectVolumes(toc.Keys(), req.Volume)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("table of contents parsed",
		zap.String("url", req.TocURL), zap.Int("volumes", toc.Len()), zap.Int("selected", len(selected)))

	chapters := entity.NewOrderedMap[[]entity.ChapterContent]()
	refs := entity.NewOrderedMap[[]entity.CachedChapterRef]()
	for _, title := range selected {
		links, _ := toc.Get(title)
		contents := make([]entity.ChapterContent, 0, len(links))
		volumeRefs := make([]entity.CachedChapterRef, 0, len(links))
		for i, link := range links {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			content, ref, err := uc.cache.Resolve(ctx, title, i+1, link.Name, link.URL)
			if err != nil {
				return nil, fmt.Errorf("volume %q chapter %d: %w", title, i+1, err)
			}
			contents = append(contents, content)
			volumeRefs = append(volumeRefs, ref)
			progress(i+1, len(links))
		}
		chapters.Set(title, contents)
		refs.Set(title, volumeRefs)
		uc.logger.Info("volume processed", zap.String("volume", title), zap.Int("chapters", len(contents)))
	}

	manifest := uc.buildManifest(req.TocURL, toc.Keys(), refs)
	if err := uc.manifests.Save(manifest); err != nil {
		return nil, err
	}
	uc.metrics.ManifestWrites.Inc()
	return &AcquireResult{Chapters: chapters, Manifest: manifest}, nil
}

// buildManifest returns the manifest for this run. By default it covers exactly the
// processed volumes. With MergeManifest, volumes of the previous manifest for the same
// table of contents are kept too: those still listed follow the live order and the rest
// are appended in their old order.
func (uc *acquisitionUseCase) buildManifest(tocURL string, tocOrder []string, processed *entity.OrderedMap[[]entity.CachedChapterRef]) *entity.CacheManifest {
	manifest := entity.NewCacheManifest(tocURL, uc.cfg.Now().UTC().Truncate(time.Second))
	if !uc.cfg.MergeManifest {
		for _, title := range processed.Keys() {
			refs, _ := processed.Get(title)
			manifest.Volumes.Set(title, refs)
		}
		return manifest
	}

	previous, err := uc.manifests.Load()
	if err != nil || previous.TocURL != tocURL {
		uc.logger.Debug("no previous manifest to merge", zap.Error(err))
		previous = entity.NewCacheManifest(tocURL, time.Time{})
	}
	for _, title := range tocOrder {
		if refs, ok := processed.Get(title); ok {
			manifest.Volumes.Set(title, refs)
		} else if refs, ok := previous.Volumes.Get(title); ok {
			manifest.Volumes.Set(title, refs)
		}
	}
	for _, title := range previous.Volumes.Keys() {
		if !manifest.Volumes.Has(title) {
			refs, _ := previous.Volumes.Get(title)
			manifest.Volumes.Set(title, refs)
		}
	}
	return manifest
}

func (uc *acquisitionUseCase) acquireOffline(ctx context.Context, req AcquireRequest, progress entity.ProgressFunc) (*AcquireResult, error) {
	manifest, err := uc.manifests.Load()
	if err != nil {
		return nil, err
	}
	selected, err := SelectVolumes(manifest.Volumes.Keys(), req.Volume)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("manifest loaded",
		zap.String("toc_url", manifest.TocURL), zap.Int("volumes", manifest.Volumes.Len()), zap.Int("selected", len(selected)))

	chapters := entity.NewOrderedMap[[]entity.ChapterContent]()
	for _, title := range selected {
		refs, _ := manifest.Volumes.Get(title)
		contents := make([]entity.ChapterContent, 0, len(refs))
		for i, ref := range refs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			content, err := uc.cache.Read(ref)
			if err != nil {
				return nil, fmt.Errorf("volume %q: %w", title, err)
			}
			contents = append(contents, content)
			progress(i+1, len(refs))
		}
		chapters.Set(title, contents)
		uc.logger.Info("volume loaded from cache", zap.String("volume", title), zap.Int("chapters", len(contents)))
	}
	return &AcquireResult{Chapters: chapters, Manifest: manifest}, nil
}

// SelectVolumes applies a volume selector to keys in order. "" and "all" select every key;
// otherwise the selector must be a 1-based index within range.
func SelectVolumes(keys []string, selector string) ([]string, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" || strings.EqualFold(selector, AllVolumes) {
		return append([]string(nil), keys...), nil
	}
	n, err := strconv.Atoi(selector)
	if err != nil || n < 1 || n > len(keys) {
		return nil, fmt.Errorf("%w: volume index %q is not between 1 and %d", entity.ErrUserInput, selector, len(keys))
	}
	return []string{keys[n-1]}, nil
}

// validateSelector rejects selectors that can never be valid, whatever the volume count.
func validateSelector(selector string) error {
	selector = strings.TrimSpace(selector)
	if selector == "" || strings.EqualFold(selector, AllVolumes) {
		return nil
	}
	if n, err := strconv.Atoi(selector); err != nil || n < 1 {
		return fmt.Errorf("%w: volume index %q must be a positive integer or %q", entity.ErrUserInput, selector, AllVolumes)
	}
	return nil
}
