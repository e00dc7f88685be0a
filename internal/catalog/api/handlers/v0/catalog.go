package v0

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/oneai-dev/oneai/internal/catalog/service"
	"github.com/oneai-dev/oneai/pkg/models"
)

// CategoryListBody is the body of the categories endpoint
type CategoryListBody struct {
	Categories []models.AgentCategory `json:"categories"`
}

// GenerateDescriptionsBody reports a backfill run
type GenerateDescriptionsBody struct {
	Updated int `json:"updated" doc:"Number of records that received a generated description"`
}

// RegisterCategoriesEndpoint registers the category list endpoint
func RegisterCategoriesEndpoint(api huma.API, pathPrefix string, catalog service.CatalogService) {
	huma.Register(api, huma.Operation{
		OperationID: "list-categories" + strings.ReplaceAll(pathPrefix, "/", "-"),
		Method:      http.MethodGet,
		Path:        pathPrefix + "/categories",
		Summary:     "List categories",
		Description: "Get the category taxonomy with live per-category record counts",
		Tags:        []string{"catalog"},
	}, func(ctx context.Context, _ *struct{}) (*Response[CategoryListBody], error) {
		categories, err := catalog.ListCategories(ctx)
		if err != nil {
			return nil, translateError(err, "Failed to get categories")
		}
		return &Response[CategoryListBody]{Body: CategoryListBody{Categories: categories}}, nil
	})
}

// RegisterStatsEndpoint registers the dashboard stats endpoint
func RegisterStatsEndpoint(api huma.API, pathPrefix string, catalog service.CatalogService) {
	huma.Register(api, huma.Operation{
		OperationID: "get-stats" + strings.ReplaceAll(pathPrefix, "/", "-"),
		Method:      http.MethodGet,
		Path:        pathPrefix + "/stats",
		Summary:     "Get catalog statistics",
		Description: "Get aggregate counters for the dashboard",
		Tags:        []string{"catalog"},
	}, func(ctx context.Context, _ *struct{}) (*Response[models.CatalogStats], error) {
		stats, err := catalog.Stats(ctx)
		if err != nil {
			return nil, translateError(err, "Failed to get catalog statistics")
		}
		return &Response[models.CatalogStats]{Body: *stats}, nil
	})
}

// RegisterAdminEndpoints registers administrative endpoints
func RegisterAdminEndpoints(api huma.API, pathPrefix string, catalog service.CatalogService) {
	huma.Register(api, huma.Operation{
		OperationID: "generate-descriptions" + strings.ReplaceAll(pathPrefix, "/", "-"),
		Method:      http.MethodPost,
		Path:        pathPrefix + "/admin/descriptions/generate",
		Summary:     "Backfill detailed descriptions",
		Description: "Generate detailed descriptions for every record that lacks one (requires elevated permissions)",
		Tags:        []string{"admin"},
	}, func(ctx context.Context, _ *struct{}) (*Response[GenerateDescriptionsBody], error) {
		updated, err := catalog.GenerateMissingDescriptions(ctx)
		if err != nil {
			return nil, translateError(err, "Failed to generate descriptions")
		}
		return &Response[GenerateDescriptionsBody]{Body: GenerateDescriptionsBody{Updated: updated}}, nil
	})
}
