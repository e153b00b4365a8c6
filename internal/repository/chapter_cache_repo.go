package repository

import (
	"context"

	"github.com/user/novelpack/internal/entity"
)

// ChapterCache defines the contract for the on-disk chapter store.
type ChapterCache interface {
	// Resolve returns the cached body for the chapter at index in volume,
	// fetching and persisting it first on a cache miss. The returned ref
	// names the file the content lives in.
	Resolve(ctx context.Context, volume string, index int, name, sourceURL string) (entity.ChapterContent, entity.CachedChapterRef, error)
	// Read returns the persisted body for ref. A missing file is an
	// entity.ErrConsistency error; there is no fallback.
	Read(ref entity.CachedChapterRef) (entity.ChapterContent, error)
}
