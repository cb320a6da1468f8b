package services

import (
	"github.com/rewear/backend/internal/models"
	"github.com/rewear/backend/internal/storage"
)

// normalizeListing maps a stored document onto the output shape. Fields that
// are missing or hold a value of the wrong type come back as null (optional
// fields) or the zero value (required fields); images default to [].
func normalizeListing(rec storage.Record) models.Listing {
	d := rec.Fields
	return models.Listing{
		ID:          rec.ID.String(),
		Title:       stringField(d, models.FieldTitle),
		Description: optionalString(d, models.FieldDescription),
		Price:       numberField(d, models.FieldPrice),
		Category:    stringField(d, models.FieldCategory),
		Size:        optionalString(d, models.FieldSize),
		Brand:       optionalString(d, models.FieldBrand),
		Condition:   optionalString(d, models.FieldCondition),
		Images:      stringList(d, models.FieldImages),
		Location:    optionalString(d, models.FieldLocation),
	}
}

func optionalString(d storage.Document, key string) *string {
	s, ok := d[key].(string)
	if !ok {
		return nil
	}
	return &s
}

func stringField(d storage.Document, key string) string {
	s, _ := d[key].(string)
	return s
}

func numberField(d storage.Document, key string) float64 {
	switch n := d[key].(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

// stringList accepts both []string (fresh inserts) and []any (decoded
// JSON/BSON arrays), dropping non-string elements.
func stringList(d storage.Document, key string) []string {
	out := make([]string, 0)
	switch v := d[key].(type) {
	case []string:
		out = append(out, v...)
	case []any:
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}
