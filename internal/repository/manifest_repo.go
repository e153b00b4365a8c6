package repository

import "github.com/user/novelpack/internal/entity"

// ManifestStore defines the contract for persisting the cache manifest.
type ManifestStore interface {
	// Load reads the manifest. A missing, unreadable or empty manifest is an entity.ErrConsistency error.
	Load() (*entity.CacheManifest, error)
	// Save overwrites the manifest with m.
	Save(m *entity.CacheManifest) error
}
