package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/couchcryptid/county-unemployment-etl/internal/domain"
)

// Store persists the whole aggregate as a single JSON document.
// It implements pipeline.SeriesLoader.
type Store struct {
	path string
}

// NewStore creates a Store writing to path. Parent directories are created
// on first write.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the output file path.
func (s *Store) Path() string { return s.path }

// LoadSeries rewrites the output file with the full aggregate snapshot.
// The file is replaced by rename, so a crash mid-write leaves the previous
// complete document in place.
func (s *Store) LoadSeries(_ context.Context, _ domain.CountySeries, snapshot domain.Aggregate) error {
	return s.Write(snapshot)
}

// Write serializes agg and atomically replaces the output file.
func (s *Store) Write(agg domain.Aggregate) error {
	data, err := json.Marshal(agg)
	if err != nil {
		return fmt.Errorf("encode aggregate: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

// Load reads an aggregate written by Store.
func Load(path string) (domain.Aggregate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var agg domain.Aggregate
	if err := json.Unmarshal(data, &agg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if agg == nil {
		return nil, fmt.Errorf("decode %s: document is null", path)
	}
	return agg, nil
}
