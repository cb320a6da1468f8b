package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rewear/backend/internal/filter"
	"github.com/rewear/backend/internal/storage"
)

func seed(t *testing.T, s storage.Store) []storage.ID {
	t.Helper()
	docs := []storage.Document{
		{"title": "Floral Dress", "category": "Dresses", "brand": "Zara"},
		{"title": "Blue Jacket", "category": "Outerwear", "description": "Washed denim"},
		{"title": "Skinny Jeans", "category": "Bottoms", "brand": "DENIM Co"},
	}
	ids := make([]storage.ID, 0, len(docs))
	for _, d := range docs {
		id, err := s.CreateDocument(context.Background(), "listing", d)
		if err != nil {
			t.Fatalf("CreateDocument: %v", err)
		}
		if id == "" {
			t.Fatal("CreateDocument returned empty id")
		}
		ids = append(ids, id)
	}
	return ids
}

func TestMemoryStoreGetDocuments(t *testing.T) {
	s := storage.NewMemoryStore()
	ids := seed(t, s)

	tests := []struct {
		name    string
		f       filter.Expr
		limit   int
		wantIDs []storage.ID
	}{
		{"all in insertion order", nil, 0, ids},
		{"limit", nil, 2, ids[:2]},
		{"equals", filter.Equals{Field: "category", Value: "Dresses"}, 0, ids[:1]},
		{
			"search",
			filter.Or{
				filter.Contains{Field: "title", Substring: "denim"},
				filter.Contains{Field: "description", Substring: "denim"},
				filter.Contains{Field: "brand", Substring: "denim"},
			},
			0,
			ids[1:],
		},
		{"no match", filter.Equals{Field: "category", Value: "Shoes"}, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := s.GetDocuments(context.Background(), "listing", tt.f, tt.limit)
			if err != nil {
				t.Fatalf("GetDocuments: %v", err)
			}
			if len(recs) != len(tt.wantIDs) {
				t.Fatalf("got %d records, want %d", len(recs), len(tt.wantIDs))
			}
			for i, rec := range recs {
				if rec.ID != tt.wantIDs[i] {
					t.Errorf("record %d id = %s, want %s", i, rec.ID, tt.wantIDs[i])
				}
			}
		})
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	s := storage.NewMemoryStore()
	seed(t, s)

	recs, _ := s.GetDocuments(context.Background(), "listing", nil, 1)
	recs[0].Fields["title"] = "mutated"

	again, _ := s.GetDocuments(context.Background(), "listing", nil, 1)
	if again[0].Fields["title"] != "Floral Dress" {
		t.Errorf("stored document was mutated through a read: %v", again[0].Fields["title"])
	}
}

func TestMemoryStoreUnknownCollection(t *testing.T) {
	s := storage.NewMemoryStore()
	recs, err := s.GetDocuments(context.Background(), "nope", nil, 0)
	if err != nil {
		t.Fatalf("GetDocuments: %v", err)
	}
	if recs == nil || len(recs) != 0 {
		t.Errorf("want empty non-nil slice, got %#v", recs)
	}
}

func TestMemoryStoreCollectionNames(t *testing.T) {
	s := storage.NewMemoryStore()
	ctx := context.Background()
	for _, c := range []string{"listing", "archive"} {
		if _, err := s.CreateDocument(ctx, c, storage.Document{"title": "x"}); err != nil {
			t.Fatalf("CreateDocument: %v", err)
		}
	}

	names, err := s.CollectionNames(ctx)
	if err != nil {
		t.Fatalf("CollectionNames: %v", err)
	}
	if len(names) != 2 || names[0] != "archive" || names[1] != "listing" {
		t.Errorf("CollectionNames = %v", names)
	}
}

func TestMemoryStoreCancelledContext(t *testing.T) {
	s := storage.NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.CreateDocument(ctx, "listing", storage.Document{}); err == nil {
		t.Error("CreateDocument: expected error on cancelled context")
	}
	if err := s.Ping(ctx); err == nil {
		t.Error("Ping: expected error on cancelled context")
	}
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := storage.NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ids := seed(t, s)

	if _, err := os.Stat(filepath.Join(dir, "documents.json")); err != nil {
		t.Fatalf("snapshot not written: %v", err)
	}

	reopened, err := storage.NewFileStore(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	recs, err := reopened.GetDocuments(context.Background(), "listing", filter.Equals{Field: "category", Value: "Outerwear"}, 0)
	if err != nil {
		t.Fatalf("GetDocuments: %v", err)
	}
	if len(recs) != 1 || recs[0].ID != ids[1] {
		t.Fatalf("reopened store returned %#v", recs)
	}
	if recs[0].Fields["title"] != "Blue Jacket" {
		t.Errorf("title = %v", recs[0].Fields["title"])
	}
}

func TestFileStoreRejectsCorruptSnapshot(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "documents.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := storage.NewFileStore(dir); err == nil {
		t.Error("expected error for corrupt snapshot")
	}
}

func TestOpen(t *testing.T) {
	log := zap.NewNop()

	s, err := storage.Open(context.Background(), storage.Options{Driver: "memory"}, log)
	if err != nil {
		t.Fatalf("Open memory: %v", err)
	}
	if s.Name() != "memory" {
		t.Errorf("Name = %q", s.Name())
	}

	if _, err := storage.Open(context.Background(), storage.Options{Driver: "memory", DataDir: t.TempDir()}, log); err != nil {
		t.Fatalf("Open file-backed memory: %v", err)
	}

	if _, err := storage.Open(context.Background(), storage.Options{Driver: "cassandra"}, log); err == nil {
		t.Error("expected error for unknown driver")
	}
}

func TestOpenLogsDatabaseName(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		opts storage.Options
		want string
	}{
		{"volatile", storage.Options{Driver: "memory"}, "memory"},
		{"file-backed", storage.Options{Driver: "memory", DataDir: dir}, filepath.Join(dir, "documents.json")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.InfoLevel)
			if _, err := storage.Open(context.Background(), tt.opts, zap.New(core)); err != nil {
				t.Fatalf("Open: %v", err)
			}
			entries := logs.FilterMessage("storage opened").All()
			if len(entries) != 1 {
				t.Fatalf("got %d log entries, want 1", len(entries))
			}
			fields := entries[0].ContextMap()
			if fields["database"] != tt.want || fields["driver"] != "memory" {
				t.Errorf("fields = %v", fields)
			}
		})
	}

	core, logs := observer.New(zap.InfoLevel)
	if _, err := storage.Open(context.Background(), storage.Options{Driver: "cassandra"}, zap.New(core)); err == nil {
		t.Fatal("expected error for unknown driver")
	}
	if logs.Len() != 0 {
		t.Errorf("failed open logged %d entries", logs.Len())
	}
}
