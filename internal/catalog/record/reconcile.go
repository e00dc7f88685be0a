package record

import (
	"github.com/stoewer/go-strcase"

	"github.com/oneai-dev/oneai/pkg/models"
)

// Reconcile computes the minimal write payload for a sparse edit payload.
// The contract is presence-driven, not value-driven:
//
//   - a field absent from the payload is omitted entirely (column untouched),
//   - a field present as explicit null clears the column (SQL NULL),
//   - a field present with a value overwrites the column.
//
// Array columns are never nullable in storage, so an explicit null on an
// array field is coerced to an empty array. The metrics block is written as
// a unit: if the payload mentions metrics at all, every metric column is
// assigned, missing sub-fields as NULL.
//
// uploadedLogoURL, when non-empty, is the public URL of a freshly uploaded
// logo asset and takes precedence over any logo value in the edit payload.
// The caller stamps updated_at and persists the result; an empty payload
// means the update is a no-op and must skip persistence entirely.
func Reconcile(edits *models.EditPayload, uploadedLogoURL string) models.WritePayload {
	var w models.WritePayload
	if edits == nil {
		edits = &models.EditPayload{}
	}

	setScalar(&w, column("name"), edits.Name)
	setScalar(&w, column("description"), edits.Description)
	setScalar(&w, column("detailedDescription"), edits.DetailedDescription)
	setScalar(&w, column("version"), edits.Version)
	setScalar(&w, column("inputFormat"), edits.InputFormat)
	setScalar(&w, column("outputFormat"), edits.OutputFormat)
	setScalar(&w, column("documentationUrl"), edits.DocumentationURL)
	setScalar(&w, column("demoUrl"), edits.DemoURL)
	setScalar(&w, column("apiEndpoint"), edits.APIEndpoint)
	setScalar(&w, column("exampleRequest"), edits.ExampleRequest)
	setScalar(&w, column("exampleResponse"), edits.ExampleResponse)

	setArray(&w, "capabilities", edits.Capabilities)
	// The UI calls them tags; storage calls them categories.
	setArray(&w, "categories", edits.Tags)
	setArray(&w, "dependencies", edits.Dependencies)

	if edits.Metrics.Present {
		m := edits.Metrics.Value
		w.Set("performance_score", float64OrNil(m.Performance))
		w.Set("reliability_score", float64OrNil(m.Reliability))
		w.Set("latency", intOrNil(m.Latency))
	}

	switch {
	case uploadedLogoURL != "":
		w.Set("logo_url", uploadedLogoURL)
	case edits.Logo.Present:
		if edits.Logo.Valid {
			w.Set("logo_url", edits.Logo.Value)
		} else {
			w.Set("logo_url", nil)
		}
	}

	return w
}

// column derives the storage column for a directly-mapped scalar field from
// its JSON name.
func column(jsonName string) string {
	return strcase.SnakeCase(jsonName)
}

func setScalar[T any](w *models.WritePayload, col string, f models.Field[T]) {
	if !f.Present {
		return
	}
	if !f.Valid {
		w.Set(col, nil)
		return
	}
	w.Set(col, f.Value)
}

func setArray(w *models.WritePayload, col string, f models.Field[[]string]) {
	if !f.Present {
		return
	}
	if !f.Valid || f.Value == nil {
		w.Set(col, []string{})
		return
	}
	w.Set(col, f.Value)
}

func float64OrNil(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func intOrNil(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
