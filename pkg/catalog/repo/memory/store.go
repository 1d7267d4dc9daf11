package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/webdevsint/coffee-lab-api/pkg/catalog"
)

// Store implements catalog.CollectionStore in memory. Collections are held
// as serialized JSON rather than live maps, so every load decodes fresh
// documents exactly like the durable backends do and callers never alias
// shared state.
type Store struct {
	mu          sync.RWMutex
	collections map[catalog.Kind][]byte
}

// New creates a new in-memory collection store
func New() catalog.CollectionStore {
	return &Store{collections: make(map[catalog.Kind][]byte)}
}

func (s *Store) LoadAll(ctx context.Context, kind catalog.Kind) ([]catalog.Document, error) {
	s.mu.RLock()
	data, ok := s.collections[kind]
	s.mu.RUnlock()

	if !ok {
		return []catalog.Document{}, nil
	}
	var docs []catalog.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		// Unreachable for bytes produced by SaveAll; mirror the durable
		// backends and treat it as an empty collection.
		return []catalog.Document{}, nil
	}
	if docs == nil {
		docs = []catalog.Document{}
	}
	return docs, nil
}

func (s *Store) SaveAll(ctx context.Context, kind catalog.Kind, docs []catalog.Document) error {
	if docs == nil {
		docs = []catalog.Document{}
	}
	data, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("encoding %s collection: %w", kind, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[kind] = data
	return nil
}
