package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

const defaultDatabaseName = "rewear"

type Options struct {
	Driver       string
	DatabaseURL  string
	DatabaseName string
	DataDir      string
	// Indexes lists collection -> fields to index where the backend supports it.
	Indexes map[string][]string
}

// Open connects to the backend named by opts.Driver ("mongo", "postgres" or "memory").
func Open(ctx context.Context, opts Options, log *zap.Logger) (Store, error) {
	s, err := open(ctx, opts, log)
	if err != nil {
		return nil, err
	}
	log.Info("storage opened", zap.String("driver", opts.Driver), zap.String("database", s.Name()))
	return s, nil
}

func open(ctx context.Context, opts Options, log *zap.Logger) (Store, error) {
	switch opts.Driver {
	case "mongo":
		name := opts.DatabaseName
		if name == "" {
			name = defaultDatabaseName
		}
		s, err := NewMongoStore(ctx, opts.DatabaseURL, name)
		if err != nil {
			return nil, err
		}
		// Best-effort indexes.
		for coll, fields := range opts.Indexes {
			if err := s.EnsureIndexes(ctx, coll, fields...); err != nil {
				log.Warn("index creation failed", zap.String("collection", coll), zap.Error(err))
			}
		}
		return s, nil
	case "postgres":
		s, err := NewPostgresStore(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "memory":
		if opts.DataDir == "" {
			return NewMemoryStore(), nil
		}
		s, err := NewFileStore(opts.DataDir)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("storage: unknown driver %q", opts.Driver)
}
