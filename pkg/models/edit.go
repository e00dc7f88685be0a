package models

import (
	"encoding/json"
	"reflect"

	"github.com/danielgtaylor/huma/v2"
)

// Field is a three-state JSON field for sparse edit payloads: it
// distinguishes "key absent" (Present=false, leave the column untouched),
// "key set to null" (Present=true, Valid=false, clear the column) and "key
// set to a value" (Present=true, Valid=true, overwrite the column).
// encoding/json only invokes UnmarshalJSON for keys that appear in the
// document, which is exactly what makes the absent case representable.
type Field[T any] struct {
	Present bool `json:"-"`
	Valid   bool `json:"-"`
	Value   T    `json:"-"`
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Present = true
	if string(data) == "null" {
		var zero T
		f.Value = zero
		f.Valid = false
		return nil
	}
	if err := json.Unmarshal(data, &f.Value); err != nil {
		return err
	}
	f.Valid = true
	return nil
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Schema returns the nullable schema of the wrapped type so the generated
// OpenAPI documents the field as the value type, not the wrapper struct.
// Referenced schemas cannot be marked Nullable directly, so those are
// wrapped in an anyOf with the null type instead.
func (f Field[T]) Schema(r huma.Registry) *huma.Schema {
	s := r.Schema(reflect.TypeFor[T](), true, "")
	if s.Ref != "" {
		return &huma.Schema{AnyOf: []*huma.Schema{s, {Type: "null"}}}
	}
	s.Nullable = true
	return s
}

// SetField builds a present field carrying a value.
func SetField[T any](v T) Field[T] {
	return Field[T]{Present: true, Valid: true, Value: v}
}

// NullField builds a present field carrying an explicit null.
func NullField[T any]() Field[T] {
	return Field[T]{Present: true}
}

// EditMetrics is the compound metrics block of an edit payload. The block is
// written as a unit: if the payload carries a metrics key at all, every
// sub-field is persisted, missing ones as NULL.
type EditMetrics struct {
	Performance *float64 `json:"performance,omitempty"`
	Reliability *float64 `json:"reliability,omitempty"`
	Latency     *int     `json:"latency,omitempty"`
}

// EditPayload is the sparse partial view of an AgentRecord submitted by the
// edit form. Only keys the user touched are present.
type EditPayload struct {
	Name                Field[string]      `json:"name,omitempty"`
	Description         Field[string]      `json:"description,omitempty"`
	DetailedDescription Field[string]      `json:"detailedDescription,omitempty"`
	Version             Field[string]      `json:"version,omitempty"`
	InputFormat         Field[string]      `json:"inputFormat,omitempty"`
	OutputFormat        Field[string]      `json:"outputFormat,omitempty"`
	DocumentationURL    Field[string]      `json:"documentationUrl,omitempty"`
	DemoURL             Field[string]      `json:"demoUrl,omitempty"`
	APIEndpoint         Field[string]      `json:"apiEndpoint,omitempty"`
	ExampleRequest      Field[string]      `json:"exampleRequest,omitempty"`
	ExampleResponse     Field[string]      `json:"exampleResponse,omitempty"`
	Logo                Field[string]      `json:"logo,omitempty"`
	Capabilities        Field[[]string]    `json:"capabilities,omitempty"`
	Tags                Field[[]string]    `json:"tags,omitempty"`
	Dependencies        Field[[]string]    `json:"dependencies,omitempty"`
	Metrics             Field[EditMetrics] `json:"metrics,omitempty"`
}

// WriteAssignment is one column assignment of a write payload. A nil Value
// writes SQL NULL.
type WriteAssignment struct {
	Column string
	Value  any
}

// WritePayload is the minimal set of column assignments an update should
// persist. Columns not mentioned are left untouched by the store. Assignment
// order is the order Set was called in, which keeps generated SQL stable.
type WritePayload struct {
	assignments []WriteAssignment
}

// Set records an assignment, replacing any earlier assignment to the same
// column.
func (w *WritePayload) Set(column string, value any) {
	for i := range w.assignments {
		if w.assignments[i].Column == column {
			w.assignments[i].Value = value
			return
		}
	}
	w.assignments = append(w.assignments, WriteAssignment{Column: column, Value: value})
}

// Empty reports whether no column was touched at all.
func (w *WritePayload) Empty() bool {
	return len(w.assignments) == 0
}

// Assignments returns the recorded assignments in insertion order.
func (w *WritePayload) Assignments() []WriteAssignment {
	return w.assignments
}

// Get looks up the value assigned to a column.
func (w *WritePayload) Get(column string) (any, bool) {
	for _, a := range w.assignments {
		if a.Column == column {
			return a.Value, true
		}
	}
	return nil, false
}

// Columns returns the touched column names in insertion order.
func (w *WritePayload) Columns() []string {
	cols := make([]string, len(w.assignments))
	for i, a := range w.assignments {
		cols[i] = a.Column
	}
	return cols
}
