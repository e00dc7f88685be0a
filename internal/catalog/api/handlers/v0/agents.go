package v0

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/oneai-dev/oneai/internal/catalog/database"
	"github.com/oneai-dev/oneai/internal/catalog/service"
	"github.com/oneai-dev/oneai/pkg/models"
)

// ListAgentsInput represents the input for listing agents
type ListAgentsInput struct {
	Cursor         string  `query:"cursor" json:"cursor,omitempty" doc:"Pagination cursor" required:"false"`
	Limit          int     `query:"limit" json:"limit,omitempty" doc:"Number of items per page" default:"30" minimum:"1" maximum:"100" example:"50"`
	Search         string  `query:"search" json:"search,omitempty" doc:"Substring match over name and descriptions" required:"false" example:"sentiment"`
	Category       string  `query:"category" json:"category,omitempty" doc:"Filter by category id" required:"false" example:"nlp"`
	Capability     string  `query:"capability" json:"capability,omitempty" doc:"Filter by capability" required:"false" example:"summarization"`
	InputFormat    string  `query:"input_format" json:"input_format,omitempty" doc:"Filter by input format" required:"false" example:"text"`
	OutputFormat   string  `query:"output_format" json:"output_format,omitempty" doc:"Filter by output format" required:"false" example:"json"`
	MinPerformance float64 `query:"min_performance" json:"min_performance,omitempty" doc:"Minimum performance score (0-100)" required:"false" minimum:"0" maximum:"100"`
	UpdatedSince   string  `query:"updated_since" json:"updated_since,omitempty" doc:"Filter agents updated since timestamp (RFC3339 datetime)" required:"false" example:"2026-08-07T13:15:04.280Z"`
}

// AgentDetailInput represents the input for getting a single agent
type AgentDetailInput struct {
	ID string `path:"id" json:"id" doc:"Agent record id" example:"3f0c6f3e-9b1d-4a57-8a7e-2f4f6f1f2a10"`
}

// CreateAgentInput represents the input for registering an agent
type CreateAgentInput struct {
	Body models.CreateAgentRequest
}

// UpdateAgentBody is the sparse edit payload plus an optional logo upload.
// Keys absent from the payload leave the stored value untouched; explicit
// null clears it; a fresh upload takes precedence over the logo key.
type UpdateAgentBody struct {
	models.EditPayload
	LogoUpload *models.LogoUpload `json:"logoUpload,omitempty" doc:"Replacement logo image; wins over the logo key when present"`
}

// UpdateAgentInput represents the input for editing an agent
type UpdateAgentInput struct {
	ID   string `path:"id" json:"id" doc:"Agent record id"`
	Body UpdateAgentBody
}

// RegisterAgentsEndpoints registers all agent-related endpoints
func RegisterAgentsEndpoints(api huma.API, pathPrefix string, catalog service.CatalogService) {
	tags := []string{"agents"}

	// List agents
	huma.Register(api, huma.Operation{
		OperationID: "list-agents" + strings.ReplaceAll(pathPrefix, "/", "-"),
		Method:      http.MethodGet,
		Path:        pathPrefix + "/agents",
		Summary:     "List AI agents",
		Description: "Get a paginated list of AI agents from the catalog",
		Tags:        tags,
	}, func(ctx context.Context, input *ListAgentsInput) (*Response[models.AgentListResponse], error) {
		filter := &database.AgentFilter{}
		if input.Search != "" {
			filter.SubstringText = &input.Search
		}
		if input.Category != "" {
			filter.Categories = []string{input.Category}
		}
		if input.Capability != "" {
			filter.Capabilities = []string{input.Capability}
		}
		if input.InputFormat != "" {
			filter.InputFormat = &input.InputFormat
		}
		if input.OutputFormat != "" {
			filter.OutputFormat = &input.OutputFormat
		}
		if input.MinPerformance > 0 {
			filter.MinPerformance = &input.MinPerformance
		}
		if input.UpdatedSince != "" {
			updatedTime, err := time.Parse(time.RFC3339, input.UpdatedSince)
			if err != nil {
				return nil, huma.Error400BadRequest("Invalid updated_since format: expected RFC3339 timestamp (e.g., 2026-08-07T13:15:04.280Z)")
			}
			filter.UpdatedSince = &updatedTime
		}

		list, err := catalog.ListAgents(ctx, filter, input.Cursor, input.Limit)
		if err != nil {
			return nil, translateError(err, "Failed to get agents list")
		}
		return &Response[models.AgentListResponse]{Body: *list}, nil
	})

	// Get agent details
	huma.Register(api, huma.Operation{
		OperationID: "get-agent" + strings.ReplaceAll(pathPrefix, "/", "-"),
		Method:      http.MethodGet,
		Path:        pathPrefix + "/agents/{id}",
		Summary:     "Get AI agent details",
		Description: "Get detailed information about a single AI agent",
		Tags:        tags,
	}, func(ctx context.Context, input *AgentDetailInput) (*Response[models.AgentRecord], error) {
		agent, err := catalog.GetAgent(ctx, input.ID)
		if err != nil {
			return nil, translateError(err, "Failed to get agent details")
		}
		return &Response[models.AgentRecord]{Body: *agent}, nil
	})

	// Register agent
	huma.Register(api, huma.Operation{
		OperationID:   "create-agent" + strings.ReplaceAll(pathPrefix, "/", "-"),
		Method:        http.MethodPost,
		Path:          pathPrefix + "/agents",
		Summary:       "Register AI agent",
		Description:   "Register a new AI agent. A detailed description is synthesized when none is supplied.",
		Tags:          tags,
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *CreateAgentInput) (*Response[models.AgentRecord], error) {
		agent, err := catalog.CreateAgent(ctx, &input.Body)
		if err != nil {
			return nil, translateError(err, "Failed to register agent")
		}
		return &Response[models.AgentRecord]{Body: *agent}, nil
	})

	// Edit agent
	huma.Register(api, huma.Operation{
		OperationID: "update-agent" + strings.ReplaceAll(pathPrefix, "/", "-"),
		Method:      http.MethodPatch,
		Path:        pathPrefix + "/agents/{id}",
		Summary:     "Edit AI agent",
		Description: "Apply a sparse edit to an AI agent. Omitted keys are left untouched, explicit nulls clear the stored value.",
		Tags:        tags,
	}, func(ctx context.Context, input *UpdateAgentInput) (*Response[models.AgentRecord], error) {
		agent, err := catalog.UpdateAgent(ctx, input.ID, &input.Body.EditPayload, input.Body.LogoUpload)
		if err != nil {
			return nil, translateError(err, "Failed to update agent")
		}
		return &Response[models.AgentRecord]{Body: *agent}, nil
	})
}

// SearchAgentsInput represents the input for the discovery search endpoint
type SearchAgentsInput struct {
	Body models.AgentFilters
}

// RegisterSearchEndpoint registers the discovery search endpoint
func RegisterSearchEndpoint(api huma.API, pathPrefix string, catalog service.CatalogService) {
	huma.Register(api, huma.Operation{
		OperationID: "search-agents" + strings.ReplaceAll(pathPrefix, "/", "-"),
		Method:      http.MethodPost,
		Path:        pathPrefix + "/agents/search",
		Summary:     "Search AI agents",
		Description: "Search the catalog with the discovery view's combined criteria",
		Tags:        []string{"agents"},
	}, func(ctx context.Context, input *SearchAgentsInput) (*Response[models.AgentListResponse], error) {
		list, err := catalog.SearchAgents(ctx, &input.Body)
		if err != nil {
			return nil, translateError(err, "Failed to search agents")
		}
		return &Response[models.AgentListResponse]{Body: *list}, nil
	})
}
