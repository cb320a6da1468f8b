package models

import (
	stderrors "errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// ListingCollection is the document collection listings are stored in.
const ListingCollection = "listing"

// Stored document field names.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldCategory    = "category"
	FieldSize        = "size"
	FieldBrand       = "brand"
	FieldCondition   = "condition"
	FieldImages      = "images"
	FieldLocation    = "location"
	FieldCreatedAt   = "created_at"
	FieldUpdatedAt   = "updated_at"
)

// SearchFields are the fields the free-text query matches against.
var SearchFields = []string{FieldTitle, FieldDescription, FieldBrand}

// Listing is a second-hand clothing item as returned by the API. Optional
// fields missing from the stored document are rendered as null.
type Listing struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Size        *string  `json:"size"`
	Brand       *string  `json:"brand"`
	Condition   *string  `json:"condition"`
	Images      []string `json:"images"`
	Location    *string  `json:"location"`
}

// CreateListingFields are the JSON keys a create request may carry. Keys are
// matched exactly.
var CreateListingFields = []string{
	FieldTitle, FieldDescription, FieldPrice, FieldCategory, FieldSize,
	FieldBrand, FieldCondition, FieldImages, FieldLocation,
}

type CreateListingRequest struct {
	Title       string   `json:"title" validate:"required,notblank"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Category    string   `json:"category" validate:"required,notblank"`
	Size        *string  `json:"size"`
	Brand       *string  `json:"brand"`
	Condition   *string  `json:"condition"`
	Images      []string `json:"images" validate:"omitempty,dive,http_url"`
	Location    *string  `json:"location"`
}

// Validate returns a message per invalid field, keyed by JSON name. An empty
// map means the request is valid.
func (r *CreateListingRequest) Validate() map[string]string {
	errors := make(map[string]string)

	err := validate.Struct(r)
	if err == nil {
		return errors
	}
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		errors["request"] = err.Error()
		return errors
	}
	for _, fe := range verrs {
		field := fe.Field()
		if i := strings.IndexByte(field, '['); i >= 0 {
			field = field[:i]
		}
		if _, seen := errors[field]; !seen {
			errors[field] = validationMessage(field, fe.Tag())
		}
	}
	return errors
}

// ToDocument converts a validated request into the stored document shape.
// Optional fields that were not supplied are stored as null.
func (r *CreateListingRequest) ToDocument(now time.Time) map[string]any {
	images := r.Images
	if images == nil {
		images = []string{}
	}
	now = now.UTC()

	return map[string]any{
		FieldTitle:       r.Title,
		FieldDescription: nullable(r.Description),
		FieldPrice:       *r.Price,
		FieldCategory:    r.Category,
		FieldSize:        nullable(r.Size),
		FieldBrand:       nullable(r.Brand),
		FieldCondition:   nullable(r.Condition),
		FieldImages:      images,
		FieldLocation:    nullable(r.Location),
		FieldCreatedAt:   now,
		FieldUpdatedAt:   now,
	}
}

// ListingQuery holds the optional filters for listing search. Empty strings
// are treated the same as absent values.
type ListingQuery struct {
	Category *string
	Q        *string
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validationMessage(field, tag string) string {
	switch field + "." + tag {
	case "title.required", "title.notblank":
		return "Title is required"
	case "price.required":
		return "Price is required"
	case "price.gte":
		return "Price cannot be negative"
	case "category.required", "category.notblank":
		return "Category is required"
	case "images.http_url":
		return "Images must be absolute http(s) URLs"
	}
	return "Invalid value"
}
