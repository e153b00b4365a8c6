package entity

import "time"

// CachedChapterRef points at one persisted chapter under the cache directory.
type CachedChapterRef struct {
	Index    int    `json:"index"`
	Name     string `json:"name"`
	FileName string `json:"fileName"`
}

// CacheManifest records what an online run cached. It is the only input of an offline run.
type CacheManifest struct {
	TocURL       string                          `json:"tocUrl"`
	GeneratedUTC time.Time                       `json:"generatedUtc"`
	Volumes      *OrderedMap[[]CachedChapterRef] `json:"volumes"`
}

// NewCacheManifest returns an empty manifest for tocURL stamped with generated in UTC.
func NewCacheManifest(tocURL string, generated time.Time) *CacheManifest {
	return &CacheManifest{
		TocURL:       tocURL,
		GeneratedUTC: generated.UTC(),
		Volumes:      NewOrderedMap[[]CachedChapterRef](),
	}
}
