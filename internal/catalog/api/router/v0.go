// Package router contains API routing logic
package router

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	v0 "github.com/oneai-dev/oneai/internal/catalog/api/handlers/v0"
	"github.com/oneai-dev/oneai/internal/catalog/config"
	"github.com/oneai-dev/oneai/internal/catalog/database"
	"github.com/oneai-dev/oneai/internal/catalog/service"
)

// RegisterRoutes registers all API routes for all versions
// This is the single entry point for all route registration
func RegisterRoutes(
	api huma.API,
	cfg *config.Config,
	catalog service.CatalogService,
	db database.Database,
	mux *http.ServeMux,
) {
	registerV0Routes(api, "/v0", cfg, catalog, db, mux)
}

func registerV0Routes(
	api huma.API,
	pathPrefix string,
	cfg *config.Config,
	catalog service.CatalogService,
	db database.Database,
	mux *http.ServeMux,
) {
	v0.RegisterHealthEndpoint(api, pathPrefix, cfg, db)
	v0.RegisterPingEndpoint(api, pathPrefix)

	v0.RegisterAgentsEndpoints(api, pathPrefix, catalog)
	v0.RegisterSearchEndpoint(api, pathPrefix, catalog)
	v0.RegisterCategoriesEndpoint(api, pathPrefix, catalog)
	v0.RegisterStatsEndpoint(api, pathPrefix, catalog)
	v0.RegisterActivityEndpoints(api, pathPrefix, catalog)
	v0.RegisterSettingsEndpoints(api, pathPrefix, catalog)
	v0.RegisterRecentlyViewedEndpoints(api, pathPrefix, catalog)
	v0.RegisterAdminEndpoints(api, pathPrefix, catalog)

	// SSE handler goes on the mux directly, huma does not model streams
	if mux != nil {
		v0.RegisterActivitySSEHandler(mux, pathPrefix, catalog)
	}
}
