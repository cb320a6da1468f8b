package filter_test

import (
	"reflect"
	"testing"

	"github.com/rewear/backend/internal/filter"
)

func ptr(s string) *string { return &s }

func TestBuilderBuild(t *testing.T) {
	search := []string{"title", "description", "brand"}
	denim := filter.Or{
		filter.Contains{Field: "title", Substring: "denim"},
		filter.Contains{Field: "description", Substring: "denim"},
		filter.Contains{Field: "brand", Substring: "denim"},
	}

	tests := []struct {
		name     string
		category *string
		q        *string
		want     filter.Expr
	}{
		{"nothing", nil, nil, nil},
		{"empty strings", ptr(""), ptr(""), nil},
		{"category only", ptr("Dresses"), nil, filter.Equals{Field: "category", Value: "Dresses"}},
		{"query only", nil, ptr("denim"), denim},
		{
			"both",
			ptr("Bottoms"), ptr("denim"),
			filter.And{filter.Equals{Field: "category", Value: "Bottoms"}, denim},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filter.NewBuilder().
				WhereEquals("category", tt.category).
				WhereSearch(tt.q, search...).
				Build()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Build() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestWhereSearchWithoutFields(t *testing.T) {
	if got := filter.NewBuilder().WhereSearch(ptr("x")).Build(); got != nil {
		t.Errorf("Build() = %#v, want nil", got)
	}
}

func TestMatch(t *testing.T) {
	doc := map[string]any{
		"title":       "Vintage Denim Jacket",
		"description": nil,
		"brand":       "Levi's",
		"category":    "Outerwear",
		"price":       25.0,
	}

	tests := []struct {
		name string
		expr filter.Expr
		want bool
	}{
		{"nil matches all", nil, true},
		{"equals hit", filter.Equals{Field: "category", Value: "Outerwear"}, true},
		{"equals is case sensitive", filter.Equals{Field: "category", Value: "outerwear"}, false},
		{"equals on non-string", filter.Equals{Field: "price", Value: "25"}, false},
		{"contains ignores case", filter.Contains{Field: "title", Substring: "DENIM"}, true},
		{"contains on null", filter.Contains{Field: "description", Substring: "denim"}, false},
		{"contains on missing", filter.Contains{Field: "size", Substring: "m"}, false},
		{"contains is literal", filter.Contains{Field: "brand", Substring: "levi.s"}, false},
		{"empty and", filter.And{}, true},
		{"empty or", filter.Or{}, false},
		{
			"and requires all",
			filter.And{
				filter.Equals{Field: "category", Value: "Outerwear"},
				filter.Contains{Field: "brand", Substring: "gucci"},
			},
			false,
		},
		{
			"or requires one",
			filter.Or{
				filter.Contains{Field: "description", Substring: "jacket"},
				filter.Contains{Field: "brand", Substring: "LEVI"},
			},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := filter.Match(tt.expr, doc); got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}
