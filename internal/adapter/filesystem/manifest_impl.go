package filesystem

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/user/novelpack/internal/entity"
)

const manifestSchema = `{
  "type": "object",
  "required": ["tocUrl", "generatedUtc", "volumes"],
  "properties": {
    "tocUrl": {"type": "string"},
    "generatedUtc": {"type": "string"},
    "volumes": {
      "type": "object",
      "minProperties": 1,
      "additionalProperties": {
        "type": "array",
        "items": {
          "type": "object",
          "required": ["index", "name", "fileName"],
          "properties": {
            "index": {"type": "integer", "minimum": 1},
            "name": {"type": "string"},
            "fileName": {"type": "string", "minLength": 1}
          }
        }
      }
    }
  }
}`

var compiledManifestSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("manifest.schema.json", bytes.NewReader([]byte(manifestSchema))); err != nil {
		return nil, fmt.Errorf("failed to load manifest schema: %w", err)
	}
	return compiler.Compile("manifest.schema.json")
})

// validateManifest checks raw manifest JSON against manifestSchema.
func validateManifest(data []byte) error {
	schema, err := compiledManifestSchema()
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	return schema.Validate(doc)
}

// ManifestStore persists the cache manifest as pretty-printed JSON.
type ManifestStore struct {
	path string
}

// NewManifestStore creates a manifest store for the file at path.
func NewManifestStore(path string) *ManifestStore {
	return &ManifestStore{path: path}
}

// Path returns the manifest file path.
func (s *ManifestStore) Path() string {
	return s.path
}

// Load reads the manifest. Missing, malformed, schema-violating and empty manifests are
// consistency errors.
func (s *ManifestStore) Load() (*entity.CacheManifest, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: manifest %s not found; run online first", entity.ErrConsistency, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read manifest: %v", entity.ErrConsistency, err)
	}

	if err := validateManifest(data); err != nil {
		return nil, fmt.Errorf("%w: manifest %s is invalid: %v", entity.ErrConsistency, s.path, err)
	}
	var m entity.CacheManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: manifest %s is malformed: %v", entity.ErrConsistency, s.path, err)
	}
	if m.Volumes.Len() == 0 {
		return nil, fmt.Errorf("%w: manifest %s lists no volumes", entity.ErrConsistency, s.path)
	}
	return &m, nil
}

// Save overwrites the manifest file with m. The file is replaced with a single rename.
func (s *ManifestStore) Save(m *entity.CacheManifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".manifest-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp manifest: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace manifest: %w", err)
	}
	return nil
}
