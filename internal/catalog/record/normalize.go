// Package record holds the two core routines of the catalog: normalization
// of storage rows into canonical records, and reconciliation of sparse edit
// payloads into minimal write payloads.
package record

import (
	"strings"
	"time"

	"github.com/oneai-dev/oneai/pkg/models"
)

// Normalize converts a storage-shaped row into a canonical AgentRecord.
// It is pure and total over its declared input shape: every nullable column
// is replaced by its defined empty sentinel, so the layers above never
// branch on nil-versus-missing.
func Normalize(row *models.BackendRow) *models.AgentRecord {
	return &models.AgentRecord{
		ID:                  row.ID,
		Name:                row.Name,
		Description:         row.Description,
		DetailedDescription: stringOrEmpty(row.DetailedDescription),
		Logo:                normalizeLogo(row.LogoURL),
		Capabilities:        sliceOrEmpty(row.Capabilities),
		InputFormat:         stringOrEmpty(row.InputFormat),
		OutputFormat:        stringOrEmpty(row.OutputFormat),
		Version:             row.Version,
		Creator:             creatorOrUnknown(row.CreatorID),
		CreatedAt:           row.CreatedAt,
		UpdatedAt:           row.UpdatedAt,
		Tags:                sliceOrEmpty(row.Categories),
		Metrics: models.AgentMetrics{
			Performance: row.PerformanceScore,
			Reliability: row.ReliabilityScore,
			Latency:     row.Latency,
		},
		Dependencies: sliceOrEmpty(row.Dependencies),
		// No usage-tracking table exists, so usage is synthesized on every
		// read: zero count, "last used" stamped now. Known gap.
		Usage: models.AgentUsage{
			Count:    0,
			LastUsed: time.Now().UTC(),
		},
		DocumentationURL: stringOrEmpty(row.DocumentationURL),
		DemoURL:          stringOrEmpty(row.DemoURL),
		APIEndpoint:      stringOrEmpty(row.APIEndpoint),
		ExampleRequest:   stringOrEmpty(row.ExampleRequest),
		ExampleResponse:  stringOrEmpty(row.ExampleResponse),
	}
}

// normalizeLogo resolves the shared logo column: an http(s) value passes
// through as an image URL, any other non-empty value passes through as a
// symbolic icon key, and an empty or NULL column falls back to the default
// icon.
func normalizeLogo(logoURL *string) string {
	if logoURL == nil || *logoURL == "" {
		return models.DefaultLogoIcon
	}
	if strings.HasPrefix(*logoURL, "http") {
		return *logoURL
	}
	return *logoURL
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func sliceOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func creatorOrUnknown(s *string) string {
	if s == nil || *s == "" {
		return models.UnknownCreator
	}
	return *s
}
