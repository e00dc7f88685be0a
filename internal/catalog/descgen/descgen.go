// Package descgen synthesizes detailed descriptions for catalog records
// from their registered metadata. Generation is best-effort: any provider
// failure falls back to a deterministic template, so record creation always
// makes progress.
package descgen

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Tagged generation errors. There is no retry policy: the first failure
// triggers the template fallback immediately.
var (
	ErrRateLimited       = errors.New("description generator rate limited")
	ErrTimeout           = errors.New("description generator timed out")
	ErrMalformedResponse = errors.New("description generator returned a malformed response")
)

// Prompt carries the record fields a description is synthesized from.
type Prompt struct {
	Name         string
	Description  string
	Capabilities []string
	Tags         []string
	InputFormat  string
	OutputFormat string
}

// Provider generates a detailed description for a prompt.
type Provider interface {
	Generate(ctx context.Context, prompt Prompt) (string, error)
}

// FallbackDescription builds the deterministic template description used
// whenever the provider fails or is not configured.
func FallbackDescription(p Prompt) string {
	primaryTag := "AI"
	if len(p.Tags) > 0 {
		primaryTag = p.Tags[0]
	}

	return fmt.Sprintf(
		"%s is an AI agent that %s. It specializes in %s tasks and offers capabilities including %s.\n\n"+
			"This agent accepts input in %s format and provides output in %s format. It can be integrated into various workflows to automate and enhance processes related to %s tasks.\n\n"+
			"%s is designed to be efficient, reliable, and easy to use, making it an excellent choice for organizations looking to leverage AI for their %s needs.",
		p.Name,
		strings.ToLower(p.Description),
		strings.Join(p.Tags, ", "),
		strings.Join(p.Capabilities, ", "),
		p.InputFormat,
		p.OutputFormat,
		primaryTag,
		p.Name,
		strings.Join(p.Tags, " and "),
	)
}

// TemplateProvider always answers with the deterministic template. Used when
// no inference endpoint is configured.
type TemplateProvider struct{}

// Generate implements Provider.
func (TemplateProvider) Generate(_ context.Context, prompt Prompt) (string, error) {
	return FallbackDescription(prompt), nil
}
