// Package collection declares the schema of a documentation entry's
// frontmatter: a required title plus optional description, order, section and
// lastUpdated fields.
package collection

import (
	"fmt"
	"math"
	"sort"
	"time"

	"git.home.luguber.info/inful/docnorm/internal/foundation/errors"
)

// Frontmatter keys recognized by the schema.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldOrder       = "order"
	FieldSection     = "section"
	FieldLastUpdated = "lastUpdated"
)

// Entry is the validated frontmatter of one document.
type Entry struct {
	Order       *float64 `json:"order,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Section     string   `json:"section,omitempty"`
	LastUpdated string   `json:"lastUpdated,omitempty"`
}

// Decode validates fields against the schema. Unknown keys are ignored.
func Decode(fields map[string]any) (Entry, error) {
	var e Entry

	title, ok := fields[FieldTitle]
	if !ok || title == nil {
		return e, fieldError(FieldTitle, "is required")
	}
	s, ok := title.(string)
	if !ok {
		return e, fieldError(FieldTitle, fmt.Sprintf("must be a string, got %T", title))
	}
	e.Title = s

	var err error
	if e.Description, err = optionalString(fields, FieldDescription); err != nil {
		return e, err
	}
	if e.Section, err = optionalString(fields, FieldSection); err != nil {
		return e, err
	}
	if e.LastUpdated, err = optionalDate(fields, FieldLastUpdated); err != nil {
		return e, err
	}
	if e.Order, err = optionalNumber(fields, FieldOrder); err != nil {
		return e, err
	}
	return e, nil
}

// Sort orders entries by Order (entries without one last), then by Title.
func Sort(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool { return Less(entries[i], entries[j]) })
}

// Less is the ordering used by Sort.
func Less(a, b Entry) bool {
	switch {
	case a.Order != nil && b.Order != nil && *a.Order != *b.Order:
		return *a.Order < *b.Order
	case a.Order != nil && b.Order == nil:
		return true
	case a.Order == nil && b.Order != nil:
		return false
	}
	return a.Title < b.Title
}

func optionalString(fields map[string]any, key string) (string, error) {
	v, ok := fields[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fieldError(key, fmt.Sprintf("must be a string, got %T", v))
	}
	return s, nil
}

// optionalDate accepts a string, or a timestamp decoded by the YAML layer.
func optionalDate(fields map[string]any, key string) (string, error) {
	if t, ok := fields[key].(time.Time); ok {
		return t.Format(time.DateOnly), nil
	}
	return optionalString(fields, key)
}

// optionalNumber accepts any finite number, fractional values included.
func optionalNumber(fields map[string]any, key string) (*float64, error) {
	v, ok := fields[key]
	if !ok || v == nil {
		return nil, nil
	}
	var n float64
	switch vv := v.(type) {
	case int:
		n = float64(vv)
	case int64:
		n = float64(vv)
	case uint64:
		n = float64(vv)
	case float64:
		if math.IsNaN(vv) || math.IsInf(vv, 0) {
			return nil, fieldError(key, fmt.Sprintf("must be a finite number, got %v", vv))
		}
		n = vv
	default:
		return nil, fieldError(key, fmt.Sprintf("must be a number, got %T", v))
	}
	return &n, nil
}

func fieldError(field, problem string) error {
	return errors.ValidationError(fmt.Sprintf("frontmatter field %q %s", field, problem)).
		WithContext("field", field).
		Build()
}
