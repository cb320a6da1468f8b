package services

import (
	"context"

	"github.com/rewear/backend/internal/models"
	"github.com/rewear/backend/internal/storage"
)

const (
	maxDiagnosticCollections = 10
	maxDiagnosticMessage     = 50
)

type DiagnosticsService struct {
	store           storage.Store
	driver          string
	databaseURLSet  bool
	databaseNameSet bool
}

func NewDiagnosticsService(store storage.Store, driver string, databaseURLSet, databaseNameSet bool) *DiagnosticsService {
	return &DiagnosticsService{
		store:           store,
		driver:          driver,
		databaseURLSet:  databaseURLSet,
		databaseNameSet: databaseNameSet,
	}
}

// Check reports storage reachability. Failures are rendered into the
// result, never returned.
func (s *DiagnosticsService) Check(ctx context.Context) *models.Diagnostics {
	d := &models.Diagnostics{
		Backend:          "✅ Running",
		Database:         "❌ Not Available",
		ConnectionStatus: "Not Connected",
		Collections:      []string{},
		StorageDriver:    s.driver,
		DatabaseURL:      setFlag(s.databaseURLSet),
		DatabaseName:     setFlag(s.databaseNameSet),
	}

	if s.store == nil {
		d.Database = "⚠️  Available but not initialized"
		return d
	}

	if err := s.store.Ping(ctx); err != nil {
		d.Database = "❌ Error: " + truncate(err.Error(), maxDiagnosticMessage)
		return d
	}
	d.Database = "✅ Available"
	d.ConnectionStatus = "Connected"

	names, err := s.store.CollectionNames(ctx)
	if err != nil {
		d.Database = "⚠️  Connected but Error: " + truncate(err.Error(), maxDiagnosticMessage)
		return d
	}
	if names == nil {
		names = []string{}
	}
	if len(names) > maxDiagnosticCollections {
		names = names[:maxDiagnosticCollections]
	}
	d.Collections = names
	d.Database = "✅ Connected & Working"
	return d
}

func setFlag(set bool) string {
	if set {
		return "✅ Set"
	}
	return "❌ Not Set"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
