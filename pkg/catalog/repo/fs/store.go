package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/webdevsint/coffee-lab-api/pkg/catalog"
)

// Store implements catalog.CollectionStore on the local filesystem. Each
// collection lives in one pretty-printed JSON array at <BaseDir>/<kind>.json,
// so the data directory stays inspectable and editable by hand.
type Store struct {
	mu      sync.RWMutex
	baseDir string
	logger  *slog.Logger
}

// Config options for the filesystem store
type Config struct {
	BaseDir string       // Directory holding one JSON file per collection
	Logger  *slog.Logger // Optional; defaults to slog.Default()
}

// New creates a filesystem-backed collection store, creating BaseDir if
// needed.
func New(cfg Config) (catalog.CollectionStore, error) {
	if cfg.BaseDir == "" {
		return nil, fmt.Errorf("base directory is required")
	}
	if err := os.MkdirAll(cfg.BaseDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating base directory: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{baseDir: cfg.BaseDir, logger: logger}, nil
}

func (s *Store) collectionPath(kind catalog.Kind) string {
	return filepath.Join(s.baseDir, kind.String()+".json")
}

// LoadAll reads the collection file. A missing file means the collection
// was never saved; a file that does not decode is logged and treated as
// empty rather than failing the operation.
func (s *Store) LoadAll(ctx context.Context, kind catalog.Kind) ([]catalog.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path := s.collectionPath(kind)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []catalog.Document{}, nil
		}
		return nil, fmt.Errorf("reading %s collection: %w", kind, err)
	}

	var docs []catalog.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		s.logger.Warn("collection file is not a JSON array, treating as empty",
			"kind", kind, "path", path, "error", err)
		return []catalog.Document{}, nil
	}
	if docs == nil {
		docs = []catalog.Document{}
	}
	return docs, nil
}

// SaveAll replaces the collection file wholesale. The write goes through a
// temp file and rename so a crash mid-write leaves the previous collection
// intact.
func (s *Store) SaveAll(ctx context.Context, kind catalog.Kind, docs []catalog.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if docs == nil {
		docs = []catalog.Document{}
	}
	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s collection: %w", kind, err)
	}

	tmp, err := os.CreateTemp(s.baseDir, kind.String()+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s collection: %w", kind, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s collection: %w", kind, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s collection: %w", kind, err)
	}
	if err := os.Rename(tmp.Name(), s.collectionPath(kind)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing %s collection: %w", kind, err)
	}
	return nil
}
