package api

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/cors"

	"github.com/oneai-dev/oneai/internal/catalog/api/router"
	"github.com/oneai-dev/oneai/internal/catalog/config"
	"github.com/oneai-dev/oneai/internal/catalog/database"
	"github.com/oneai-dev/oneai/internal/catalog/service"
	"github.com/oneai-dev/oneai/internal/catalog/telemetry"
)

// TrailingSlashMiddleware redirects requests with trailing slashes to their canonical form
func TrailingSlashMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		isAPIRoute := strings.HasPrefix(r.URL.Path, "/v0/") ||
			r.URL.Path == "/health" ||
			r.URL.Path == "/ping" ||
			r.URL.Path == "/metrics" ||
			strings.HasPrefix(r.URL.Path, "/docs")

		if isAPIRoute && r.URL.Path != "/" && strings.HasSuffix(r.URL.Path, "/") {
			newURL := *r.URL
			newURL.Path = strings.TrimSuffix(r.URL.Path, "/")

			// 308 preserves the request method
			http.Redirect(w, r, newURL.String(), http.StatusPermanentRedirect)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Server represents the HTTP server
type Server struct {
	config  *config.Config
	catalog service.CatalogService
	humaAPI huma.API
	mux     *http.ServeMux
	server  *http.Server
}

// HumaAPI returns the Huma API instance, allowing registration of new routes
func (s *Server) HumaAPI() huma.API {
	return s.humaAPI
}

// Mux returns the HTTP ServeMux, allowing registration of custom HTTP handlers
func (s *Server) Mux() *http.ServeMux {
	return s.mux
}

// NewServer creates a new HTTP server
// Note: authz is handled at the service layer, not at the API layer.
func NewServer(cfg *config.Config, catalog service.CatalogService, db database.Database, metrics *telemetry.Metrics) *Server {
	mux := http.NewServeMux()

	humaAPI := router.NewHumaAPI(cfg, catalog, db, mux, metrics)

	// Permissive CORS for a public API
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Type", "Content-Length"},
		AllowCredentials: false, // Must be false when AllowedOrigins is "*"
		MaxAge:           86400, // 24 hours
	})

	// Order: TrailingSlash -> CORS -> Mux
	handler := TrailingSlashMiddleware(corsHandler.Handler(mux))

	return &Server{
		config:  cfg,
		catalog: catalog,
		humaAPI: humaAPI,
		mux:     mux,
		server: &http.Server{
			Addr:              cfg.ServerAddress,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start begins listening for incoming HTTP requests
func (s *Server) Start() error {
	log.Printf("HTTP server starting on %s", s.config.ServerAddress)
	log.Printf("API documentation at http://localhost%s/docs", s.config.ServerAddress)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
