package seed

import (
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/oneai-dev/oneai/pkg/models"
)

// PlaceholderAgents fabricates one synthetic record per builtin category.
// These are served only when the store is unreachable, and always behind a
// degraded marker so the UI can show an offline indicator instead of
// passing fabricated data off as real.
func PlaceholderAgents() []models.AgentRecord {
	now := time.Now().UTC()
	performance, reliability, latency := 90.0, 95.0, 200

	agents := make([]models.AgentRecord, 0, len(BuiltinCategories))
	for i, category := range BuiltinCategories {
		agents = append(agents, models.AgentRecord{
			ID:           ulid.Make().String(),
			Name:         category.Name + " Agent",
			Description:  "A powerful agent for " + strings.ToLower(category.Name) + " tasks",
			Logo:         models.DefaultLogoIcon,
			Capabilities: []string{BuiltinCapabilities[i%len(BuiltinCapabilities)]},
			InputFormat:  "JSON or plain text",
			OutputFormat: "Structured JSON response",
			Version:      "1.0.0",
			Creator:      models.UnknownCreator,
			CreatedAt:    now,
			UpdatedAt:    now,
			Tags:         []string{category.ID},
			Metrics: models.AgentMetrics{
				Performance: &performance,
				Reliability: &reliability,
				Latency:     &latency,
			},
			Dependencies: []string{},
			Usage:        models.AgentUsage{Count: 0, LastUsed: now},
		})
	}
	return agents
}
