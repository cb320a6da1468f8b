package storage

import (
	"context"

	"github.com/rewear/backend/internal/filter"
)

// ID identifies a stored document. Backends convert their native key type
// (ObjectID, UUID) to it so callers never depend on the storage representation.
type ID string

func (id ID) String() string {
	return string(id)
}

// Document is a schemaless stored record, keyed by field name.
type Document map[string]any

// Record is a document as read back from a store, with its identifier split out.
type Record struct {
	ID     ID       `json:"id"`
	Fields Document `json:"fields"`
}

// Store is a document database with create and query primitives.
type Store interface {
	// CreateDocument inserts doc into collection and returns its new ID.
	CreateDocument(ctx context.Context, collection string, doc Document) (ID, error)
	// GetDocuments returns documents in collection matching f, in storage
	// order. A nil filter matches all; limit <= 0 means no limit.
	GetDocuments(ctx context.Context, collection string, f filter.Expr, limit int) ([]Record, error)
	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
	// CollectionNames lists the collections that currently hold documents.
	CollectionNames(ctx context.Context) ([]string, error)
	// Name identifies the database in use; Open logs it.
	Name() string
	Close(ctx context.Context) error
}
