// Package seed carries the builtin category set, sample data imported on
// startup, and the placeholder records served when the store is unreachable.
package seed

import "github.com/oneai-dev/oneai/pkg/models"

// BuiltinCategories is the fixed category set of the catalog. Counts are
// zero here; the service annotates live counts on read.
var BuiltinCategories = []models.AgentCategory{
	{ID: "nlp", Name: "Natural Language Processing", Description: "Agents that understand and generate human language"},
	{ID: "computer-vision", Name: "Computer Vision", Description: "Agents that analyze and interpret visual data"},
	{ID: "data-analysis", Name: "Data Analysis", Description: "Agents that process and analyze structured data"},
	{ID: "code-generation", Name: "Code Generation", Description: "Agents that generate or analyze code"},
	{ID: "document-processing", Name: "Document Processing", Description: "Agents that work with documents and PDFs"},
	{ID: "recommendations", Name: "Recommendation Systems", Description: "Agents that provide personalized recommendations"},
}

// BuiltinCapabilities is the capability vocabulary offered by the
// registration form.
var BuiltinCapabilities = []string{
	"Text Generation",
	"Text Classification",
	"Named Entity Recognition",
	"Sentiment Analysis",
	"Image Recognition",
	"Object Detection",
	"Data Visualization",
	"Anomaly Detection",
	"Code Completion",
	"Document Parsing",
	"Document Classification",
	"Recommendation Generation",
}
