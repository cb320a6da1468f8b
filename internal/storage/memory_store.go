package storage

import (
	"context"
	"maps"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/rewear/backend/internal/filter"
)

const snapshotFile = "documents.json"

// MemoryStore keeps documents in process memory, in insertion order. When
// opened with a data directory it also writes every insert through to a
// JSON snapshot and reloads it on start.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]Record
	snapshot    *jsonSnapshot
	name        string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string][]Record),
		name:        "memory",
	}
}

// NewFileStore opens a MemoryStore backed by a snapshot in dataDir.
func NewFileStore(dataDir string) (*MemoryStore, error) {
	snap, err := newJSONSnapshot(dataDir, snapshotFile)
	if err != nil {
		return nil, err
	}

	s := NewMemoryStore()
	s.snapshot = snap
	s.name = filepath.Join(dataDir, snapshotFile)
	if err := snap.load(&s.collections); err != nil {
		return nil, err
	}
	if s.collections == nil {
		s.collections = make(map[string][]Record)
	}
	return s, nil
}

func (s *MemoryStore) CreateDocument(ctx context.Context, collection string, doc Document) (ID, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := Record{
		ID:     ID(uuid.New().String()),
		Fields: maps.Clone(doc),
	}
	prev := s.collections[collection]
	s.collections[collection] = append(prev, rec)

	if s.snapshot != nil {
		if err := s.snapshot.save(s.collections); err != nil {
			s.collections[collection] = prev
			if len(prev) == 0 {
				delete(s.collections, collection)
			}
			return "", err
		}
	}
	return rec.ID, nil
}

func (s *MemoryStore) GetDocuments(ctx context.Context, collection string, f filter.Expr, limit int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, 0)
	for _, rec := range s.collections[collection] {
		if !filter.Match(f, rec.Fields) {
			continue
		}
		out = append(out, Record{ID: rec.ID, Fields: maps.Clone(rec.Fields)})
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *MemoryStore) CollectionNames(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.collections))
	for name := range s.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemoryStore) Name() string {
	return s.name
}

func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}
