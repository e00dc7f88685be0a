package v0

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/oneai-dev/oneai/internal/catalog/config"
	"github.com/oneai-dev/oneai/internal/catalog/database"
)

// HealthBody represents the health check response
type HealthBody struct {
	Status  string `json:"status" example:"ok" enum:"ok,degraded"`
	Version string `json:"version,omitempty"`
}

// PingBody represents the ping response
type PingBody struct {
	Pong bool `json:"pong" example:"true"`
}

// RegisterHealthEndpoint registers the health check endpoint. The check
// reports degraded when the store is unreachable; the process itself is
// still serving (placeholder reads keep working).
func RegisterHealthEndpoint(api huma.API, pathPrefix string, cfg *config.Config, db database.Database) {
	huma.Register(api, huma.Operation{
		OperationID: "health-check" + strings.ReplaceAll(pathPrefix, "/", "-"),
		Method:      http.MethodGet,
		Path:        pathPrefix + "/health",
		Summary:     "Health check",
		Tags:        []string{"health"},
	}, func(ctx context.Context, _ *struct{}) (*Response[HealthBody], error) {
		status := "ok"

		checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if _, err := db.CountAgents(checkCtx, nil, nil); err != nil {
			status = "degraded"
		}

		return &Response[HealthBody]{
			Body: HealthBody{Status: status, Version: cfg.Version},
		}, nil
	})
}

// RegisterPingEndpoint registers the connectivity test endpoint
func RegisterPingEndpoint(api huma.API, pathPrefix string) {
	huma.Register(api, huma.Operation{
		OperationID: "ping" + strings.ReplaceAll(pathPrefix, "/", "-"),
		Method:      http.MethodGet,
		Path:        pathPrefix + "/ping",
		Summary:     "Ping",
		Tags:        []string{"ping"},
	}, func(_ context.Context, _ *struct{}) (*Response[PingBody], error) {
		return &Response[PingBody]{Body: PingBody{Pong: true}}, nil
	})
}
