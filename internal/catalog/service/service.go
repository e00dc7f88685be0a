package service

import (
	"context"

	"github.com/oneai-dev/oneai/internal/catalog/database"
	"github.com/oneai-dev/oneai/pkg/models"
)

// CatalogService defines the interface for catalog operations
type CatalogService interface {
	// ListAgents retrieves records newest-first with optional filtering
	ListAgents(ctx context.Context, filter *database.AgentFilter, cursor string, limit int) (*models.AgentListResponse, error)
	// SearchAgents retrieves records matching the discovery view's criteria
	SearchAgents(ctx context.Context, filters *models.AgentFilters) (*models.AgentListResponse, error)
	// GetAgent retrieves a single canonical record by id
	GetAgent(ctx context.Context, id string) (*models.AgentRecord, error)
	// CreateAgent registers a new record, synthesizing a detailed
	// description when none was supplied
	CreateAgent(ctx context.Context, req *models.CreateAgentRequest) (*models.AgentRecord, error)
	// UpdateAgent reconciles a sparse edit payload against the stored
	// record and returns the authoritative new state
	UpdateAgent(ctx context.Context, id string, edits *models.EditPayload, logo *models.LogoUpload) (*models.AgentRecord, error)
	// ListCategories returns the builtin category set with live counts
	ListCategories(ctx context.Context) ([]models.AgentCategory, error)
	// Stats aggregates the dashboard counters
	Stats(ctx context.Context) (*models.CatalogStats, error)
	// GenerateMissingDescriptions backfills detailed descriptions for
	// records that lack one, returning how many were updated
	GenerateMissingDescriptions(ctx context.Context) (int, error)

	// RecentActivities retrieves the newest audit-trail entries
	RecentActivities(ctx context.Context, limit int) ([]*models.Activity, error)

	// RecentlyViewed returns the recently-viewed list, newest first
	RecentlyViewed(ctx context.Context) ([]models.RecentlyViewedItem, error)
	// AddRecentlyViewed records a viewed record, deduplicating by id
	AddRecentlyViewed(ctx context.Context, item models.RecentlyViewedItem) error
	// ClearRecentlyViewed empties the recently-viewed list
	ClearRecentlyViewed(ctx context.Context) error

	// GetSetting reads a raw settings blob by key
	GetSetting(ctx context.Context, key string) ([]byte, error)
	// PutSetting upserts a raw settings blob
	PutSetting(ctx context.Context, key string, value []byte) error
}
