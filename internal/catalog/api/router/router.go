// Package router contains API routing logic
package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/oneai-dev/oneai/internal/catalog/config"
	"github.com/oneai-dev/oneai/internal/catalog/database"
	"github.com/oneai-dev/oneai/internal/catalog/service"
	"github.com/oneai-dev/oneai/internal/catalog/telemetry"
)

// Middleware configuration options
type middlewareConfig struct {
	skipPaths map[string]bool
}

type MiddlewareOption func(*middlewareConfig)

// getRoutePath extracts the route pattern from the context
func getRoutePath(ctx huma.Context) string {
	if op := ctx.Operation().Path; op != "" {
		return ctx.Operation().Path
	}

	// Fallback to URL path (less ideal for metrics as it includes path parameters)
	return ctx.URL().Path
}

func MetricTelemetryMiddleware(metrics *telemetry.Metrics, options ...MiddlewareOption) func(huma.Context, func(huma.Context)) {
	config := &middlewareConfig{
		skipPaths: make(map[string]bool),
	}

	for _, opt := range options {
		opt(config)
	}

	return func(ctx huma.Context, next func(huma.Context)) {
		path := ctx.URL().Path

		// Skip instrumentation for specified paths, matching against both
		// the full path and its last segment
		pathParts := strings.Split(path, "/")
		pathToMatch := "/" + pathParts[len(pathParts)-1]
		if config.skipPaths[pathToMatch] || config.skipPaths[path] {
			next(ctx)
			return
		}

		start := time.Now()
		method := ctx.Method()
		routePath := getRoutePath(ctx)

		next(ctx)

		duration := time.Since(start).Seconds()
		statusCode := ctx.Status()

		attrs := []attribute.KeyValue{
			attribute.String("method", method),
			attribute.String("path", routePath),
			attribute.Int("status_code", statusCode),
		}

		metrics.Requests.Add(ctx.Context(), 1, metric.WithAttributes(attrs...))

		if statusCode >= 400 {
			metrics.ErrorCount.Add(ctx.Context(), 1, metric.WithAttributes(attrs...))
		}

		metrics.RequestDuration.Record(ctx.Context(), duration, metric.WithAttributes(attrs...))
	}
}

// WithSkipPaths allows skipping instrumentation for specific paths
func WithSkipPaths(paths ...string) MiddlewareOption {
	return func(c *middlewareConfig) {
		for _, path := range paths {
			c.skipPaths[path] = true
		}
	}
}

// handle404 returns a helpful 404 error with suggestions for common mistakes
func handle404(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(http.StatusNotFound)

	path := r.URL.Path
	detail := "Endpoint not found. See /docs for the API documentation."

	if !strings.HasPrefix(path, "/v0/") {
		detail = fmt.Sprintf(
			"Endpoint not found. Did you mean '%s'? See /docs for the API documentation.",
			"/v0"+path,
		)
	}

	errorBody := map[string]any{
		"title":  "Not Found",
		"status": 404,
		"detail": detail,
	}

	jsonData, err := json.Marshal(errorBody)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	_, err = w.Write(jsonData)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// NewHumaAPI creates a new Huma API with all routes registered
// Note: authz is handled at the service layer, not at the API layer.
func NewHumaAPI(cfg *config.Config, catalog service.CatalogService, db database.Database, mux *http.ServeMux, metrics *telemetry.Metrics) huma.API {
	humaConfig := huma.DefaultConfig("OneAI Catalog", cfg.Version)
	humaConfig.Info.Description = "A catalog service for discovering, registering and editing AI agents."
	// Disable $schema property in responses: https://github.com/danielgtaylor/huma/issues/230
	humaConfig.CreateHooks = []func(huma.Config) huma.Config{}

	api := humago.New(mux, humaConfig)

	api.OpenAPI().Tags = []*huma.Tag{
		{
			Name:        "agents",
			Description: "Operations for discovering, registering and editing AI agents",
		},
		{
			Name:        "catalog",
			Description: "Category taxonomy and aggregate statistics",
		},
		{
			Name:        "activity",
			Description: "Audit-trail of catalog mutations",
		},
		{
			Name:        "settings",
			Description: "User-facing state: settings blobs and the recently-viewed list",
		},
		{
			Name:        "admin",
			Description: "Administrative operations (requires elevated permissions)",
		},
		{
			Name:        "health",
			Description: "Health check endpoint for monitoring service availability",
		},
		{
			Name:        "ping",
			Description: "Simple ping endpoint for testing connectivity",
		},
	}

	if metrics != nil {
		api.UseMiddleware(MetricTelemetryMiddleware(metrics,
			WithSkipPaths("/health", "/metrics", "/ping", "/docs"),
		))

		// Add /metrics for Prometheus metrics using promhttp
		mux.Handle("/metrics", metrics.PrometheusHandler())
	}

	RegisterRoutes(api, cfg, catalog, db, mux)

	// Handle 404 for all unmatched routes
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			http.Redirect(w, r, "/docs", http.StatusTemporaryRedirect)
			return
		}
		handle404(w, r)
	})

	return api
}
