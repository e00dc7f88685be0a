package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/oneai-dev/oneai/internal/catalog/assets"
	"github.com/oneai-dev/oneai/internal/catalog/auth"
	"github.com/oneai-dev/oneai/internal/catalog/config"
	"github.com/oneai-dev/oneai/internal/catalog/database"
	"github.com/oneai-dev/oneai/internal/catalog/descgen"
	"github.com/oneai-dev/oneai/internal/catalog/kvstore"
	"github.com/oneai-dev/oneai/internal/catalog/record"
	"github.com/oneai-dev/oneai/internal/catalog/seed"
	"github.com/oneai-dev/oneai/pkg/models"
)

const (
	recentlyViewedKey = "oneai_recently_viewed"
	maxRecentlyViewed = 5

	defaultVersion = "1.0.0"
)

// catalogServiceImpl implements the CatalogService interface using our Database
type catalogServiceImpl struct {
	db        database.Database
	cfg       *config.Config
	assets    assets.Store
	generator descgen.Provider
	policy    auth.Policy
	kv        *kvstore.Store
}

// NewCatalogService creates a new catalog service. assetStore may be nil
// (logo uploads disabled); generator may be nil (template descriptions
// only); policy may be nil (default allow).
func NewCatalogService(
	db database.Database,
	cfg *config.Config,
	assetStore assets.Store,
	generator descgen.Provider,
	policy auth.Policy,
) CatalogService {
	if generator == nil {
		generator = descgen.TemplateProvider{}
	}
	if policy == nil {
		policy = auth.AllowAll{}
	}
	return &catalogServiceImpl{
		db:        db,
		cfg:       cfg,
		assets:    assetStore,
		generator: generator,
		policy:    policy,
		kv:        kvstore.New(db),
	}
}

// ListAgents returns catalog records with cursor-based pagination and
// optional filtering. When the store is unreachable, placeholder records are
// returned with the degraded marker set so the caller can show an offline
// indicator.
func (s *catalogServiceImpl) ListAgents(ctx context.Context, filter *database.AgentFilter, cursor string, limit int) (*models.AgentListResponse, error) {
	if limit <= 0 {
		limit = 30
	}

	rows, nextCursor, err := s.db.ListAgents(ctx, nil, filter, cursor, limit)
	if err != nil {
		if errors.Is(err, database.ErrConnection) {
			log.Printf("store unreachable, serving placeholder records: %v", err)
			return placeholderResponse(""), nil
		}
		return nil, err
	}

	agents := make([]models.AgentRecord, len(rows))
	for i, row := range rows {
		agents[i] = *record.Normalize(row)
	}
	return &models.AgentListResponse{
		Agents: agents,
		Metadata: models.AgentListMetadata{
			NextCursor: nextCursor,
			Count:      len(agents),
		},
	}, nil
}

// SearchAgents applies the discovery view's criteria. Shares the degraded
// fallback with ListAgents.
func (s *catalogServiceImpl) SearchAgents(ctx context.Context, filters *models.AgentFilters) (*models.AgentListResponse, error) {
	dbFilter := &database.AgentFilter{}
	if filters != nil {
		if filters.Search != "" {
			dbFilter.SubstringText = &filters.Search
		}
		dbFilter.Categories = filters.Categories
		dbFilter.Capabilities = filters.Capabilities
		if filters.InputFormat != "" {
			dbFilter.InputFormat = &filters.InputFormat
		}
		if filters.OutputFormat != "" {
			dbFilter.OutputFormat = &filters.OutputFormat
		}
		dbFilter.MinPerformance = filters.MinPerformance
	}

	rows, _, err := s.db.ListAgents(ctx, nil, dbFilter, "", 100)
	if err != nil {
		if errors.Is(err, database.ErrConnection) {
			search := ""
			if filters != nil {
				search = filters.Search
			}
			log.Printf("store unreachable, serving placeholder records: %v", err)
			return placeholderResponse(search), nil
		}
		return nil, err
	}

	agents := make([]models.AgentRecord, len(rows))
	for i, row := range rows {
		agents[i] = *record.Normalize(row)
	}
	return &models.AgentListResponse{
		Agents:   agents,
		Metadata: models.AgentListMetadata{Count: len(agents)},
	}, nil
}

func placeholderResponse(search string) *models.AgentListResponse {
	agents := seed.PlaceholderAgents()
	if search != "" {
		needle := strings.ToLower(search)
		filtered := agents[:0]
		for _, a := range agents {
			if strings.Contains(strings.ToLower(a.Name), needle) ||
				strings.Contains(strings.ToLower(a.Description), needle) {
				filtered = append(filtered, a)
			}
		}
		agents = filtered
	}
	return &models.AgentListResponse{
		Agents: agents,
		Metadata: models.AgentListMetadata{
			Count:    len(agents),
			Degraded: true,
		},
	}
}

// GetAgent retrieves a single canonical record by id
func (s *catalogServiceImpl) GetAgent(ctx context.Context, id string) (*models.AgentRecord, error) {
	row, err := s.db.GetAgentByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	return record.Normalize(row), nil
}

// CreateAgent registers a new record. Logo upload and description
// generation are both best-effort: their failure degrades the result but
// never aborts the registration.
func (s *catalogServiceImpl) CreateAgent(ctx context.Context, req *models.CreateAgentRequest) (*models.AgentRecord, error) {
	if err := s.policy.Allow(ctx, auth.ActionRegister, req.Name); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("%w: name and description are required", database.ErrInvalidInput)
	}

	version := req.Version
	if version == "" {
		version = defaultVersion
	}

	var logoURL *string
	if url := s.uploadLogo(ctx, req.Logo); url != "" {
		logoURL = &url
	}

	detailed := req.DetailedDescription
	if detailed == "" {
		detailed = s.generateDescription(ctx, descgen.Prompt{
			Name:         req.Name,
			Description:  req.Description,
			Capabilities: req.Capabilities,
			Tags:         req.Tags,
			InputFormat:  req.InputFormat,
			OutputFormat: req.OutputFormat,
		})
	}

	insert := &database.InsertAgent{
		Name:                req.Name,
		Description:         req.Description,
		DetailedDescription: ptrOrNil(detailed),
		Version:             version,
		LogoURL:             logoURL,
		InputFormat:         ptrOrNil(req.InputFormat),
		OutputFormat:        ptrOrNil(req.OutputFormat),
		CreatorID:           ptrOrNil(req.Creator),
		Capabilities:        req.Capabilities,
		Categories:          req.Tags,
		Dependencies:        req.Dependencies,
		DocumentationURL:    ptrOrNil(req.DocumentationURL),
		DemoURL:             ptrOrNil(req.DemoURL),
		APIEndpoint:         ptrOrNil(req.APIEndpoint),
		ExampleRequest:      ptrOrNil(req.ExampleRequest),
		ExampleResponse:     ptrOrNil(req.ExampleResponse),
	}
	if req.Metrics != nil {
		insert.PerformanceScore = req.Metrics.Performance
		insert.ReliabilityScore = req.Metrics.Reliability
		insert.Latency = req.Metrics.Latency
	}

	row, err := s.db.CreateAgent(ctx, nil, insert)
	if err != nil {
		return nil, err
	}

	created := record.Normalize(row)
	s.recordActivity(ctx, created.Creator, "registered", created.ID, created.Name)
	return created, nil
}

// UpdateAgent reconciles a sparse edit payload against the stored record.
// The write payload contains exactly the touched columns; an untouched
// payload skips persistence entirely and returns the current record.
func (s *catalogServiceImpl) UpdateAgent(ctx context.Context, id string, edits *models.EditPayload, logo *models.LogoUpload) (*models.AgentRecord, error) {
	if err := s.policy.Allow(ctx, auth.ActionEdit, id); err != nil {
		return nil, err
	}

	row, err := s.db.GetAgentByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	current := record.Normalize(row)

	// Upload happens before reconciliation so a fresh asset URL can win the
	// logo precedence. A failed upload degrades to whatever the edit
	// payload says about the logo.
	uploadedURL := s.uploadLogo(ctx, logo)

	payload := record.Reconcile(edits, uploadedURL)
	if payload.Empty() {
		return current, nil
	}
	payload.Set("updated_at", time.Now().UTC())

	if err := s.db.UpdateAgent(ctx, nil, id, payload); err != nil {
		return nil, err
	}

	// Re-fetch for the authoritative state. A miss here means the record
	// vanished between write and read.
	updatedRow, err := s.db.GetAgentByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, fmt.Errorf("record vanished during update: %w", err)
		}
		return nil, err
	}

	updated := record.Normalize(updatedRow)
	s.recordActivity(ctx, updated.Creator, "updated", updated.ID, updated.Name)
	return updated, nil
}

// uploadLogo pushes the asset to the binary store and returns its public
// URL, or "" when there is nothing to upload or the upload failed. Upload
// failure is logged and swallowed: a degraded logo never fails the write.
func (s *catalogServiceImpl) uploadLogo(ctx context.Context, logo *models.LogoUpload) string {
	if logo == nil || len(logo.Data) == 0 {
		return ""
	}
	if s.assets == nil {
		log.Printf("logo upload skipped: no asset store configured")
		return ""
	}
	url, err := s.assets.Upload(ctx, logo.Data, logo.ContentType, logo.Filename)
	if err != nil {
		log.Printf("logo upload failed, continuing without: %v", err)
		return ""
	}
	return url
}

// generateDescription asks the provider for a detailed description and
// falls back to the deterministic template on any failure.
func (s *catalogServiceImpl) generateDescription(ctx context.Context, prompt descgen.Prompt) string {
	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		log.Printf("description generation failed, using template: %v", err)
		return descgen.FallbackDescription(prompt)
	}
	return text
}

// ListCategories returns the builtin category set annotated with live
// counts. A count failure degrades to zero counts rather than erroring.
func (s *catalogServiceImpl) ListCategories(ctx context.Context) ([]models.AgentCategory, error) {
	counts, err := s.db.CategoryCounts(ctx, nil)
	if err != nil {
		if errors.Is(err, database.ErrConnection) {
			log.Printf("store unreachable, serving categories without counts: %v", err)
			counts = map[string]int{}
		} else {
			return nil, err
		}
	}

	categories := make([]models.AgentCategory, len(seed.BuiltinCategories))
	copy(categories, seed.BuiltinCategories)
	for i := range categories {
		categories[i].Count = counts[categories[i].ID]
	}
	return categories, nil
}

// Stats aggregates the dashboard counters
func (s *catalogServiceImpl) Stats(ctx context.Context) (*models.CatalogStats, error) {
	total, err := s.db.CountAgents(ctx, nil, nil)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	thisMonth, err := s.db.CountAgents(ctx, nil, &monthStart)
	if err != nil {
		return nil, err
	}

	counts, err := s.db.CategoryCounts(ctx, nil)
	if err != nil {
		return nil, err
	}

	missing := true
	missingRows, _, err := s.db.ListAgents(ctx, nil, &database.AgentFilter{MissingDescription: &missing}, "", 1000)
	if err != nil {
		return nil, err
	}

	return &models.CatalogStats{
		TotalAgents:        total,
		TotalCategories:    len(seed.BuiltinCategories),
		AgentsThisMonth:    thisMonth,
		MissingDescription: len(missingRows),
		AgentsPerCategory:  counts,
	}, nil
}

// GenerateMissingDescriptions backfills detailed descriptions for records
// that lack one. Per-record failures are logged and skipped.
func (s *catalogServiceImpl) GenerateMissingDescriptions(ctx context.Context) (int, error) {
	if err := s.policy.Allow(ctx, auth.ActionAdmin, "descriptions"); err != nil {
		return 0, err
	}

	missing := true
	rows, _, err := s.db.ListAgents(ctx, nil, &database.AgentFilter{MissingDescription: &missing}, "", 1000)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, row := range rows {
		rec := record.Normalize(row)
		description := s.generateDescription(ctx, descgen.Prompt{
			Name:         rec.Name,
			Description:  rec.Description,
			Capabilities: rec.Capabilities,
			Tags:         rec.Tags,
			InputFormat:  rec.InputFormat,
			OutputFormat: rec.OutputFormat,
		})
		if err := s.db.SetDetailedDescription(ctx, nil, rec.ID, description); err != nil {
			log.Printf("failed to backfill description for %s: %v", rec.ID, err)
			continue
		}
		updated++
	}
	return updated, nil
}

// recordActivity appends an audit-trail entry, best effort.
func (s *catalogServiceImpl) recordActivity(ctx context.Context, userName, action, subjectID, subjectName string) {
	activity := &models.Activity{
		UserID:      userName,
		UserName:    userName,
		Action:      action,
		SubjectID:   subjectID,
		SubjectName: subjectName,
	}
	if err := s.db.InsertActivity(ctx, nil, activity); err != nil {
		log.Printf("failed to record activity: %v", err)
	}
}

// RecentActivities retrieves the newest audit-trail entries
func (s *catalogServiceImpl) RecentActivities(ctx context.Context, limit int) ([]*models.Activity, error) {
	return s.db.ListRecentActivities(ctx, nil, limit)
}

// RecentlyViewed returns the recently-viewed list, newest first
func (s *catalogServiceImpl) RecentlyViewed(ctx context.Context) ([]models.RecentlyViewedItem, error) {
	var items []models.RecentlyViewedItem
	if err := s.kv.Get(ctx, recentlyViewedKey, &items); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return []models.RecentlyViewedItem{}, nil
		}
		return nil, err
	}
	return items, nil
}

// AddRecentlyViewed records a viewed record at the head of the list,
// deduplicating by id and capping the list length.
func (s *catalogServiceImpl) AddRecentlyViewed(ctx context.Context, item models.RecentlyViewedItem) error {
	if item.ID == "" {
		return fmt.Errorf("%w: missing record id", database.ErrInvalidInput)
	}
	if item.Timestamp.IsZero() {
		item.Timestamp = time.Now().UTC()
	}

	existing, err := s.RecentlyViewed(ctx)
	if err != nil {
		return err
	}

	updated := make([]models.RecentlyViewedItem, 0, maxRecentlyViewed)
	updated = append(updated, item)
	for _, it := range existing {
		if it.ID == item.ID {
			continue
		}
		updated = append(updated, it)
		if len(updated) == maxRecentlyViewed {
			break
		}
	}
	return s.kv.Put(ctx, recentlyViewedKey, updated)
}

// ClearRecentlyViewed empties the recently-viewed list
func (s *catalogServiceImpl) ClearRecentlyViewed(ctx context.Context) error {
	return s.kv.Put(ctx, recentlyViewedKey, []models.RecentlyViewedItem{})
}

// GetSetting reads a raw settings blob by key
func (s *catalogServiceImpl) GetSetting(ctx context.Context, key string) ([]byte, error) {
	return s.db.GetSetting(ctx, nil, key)
}

// PutSetting upserts a raw settings blob
func (s *catalogServiceImpl) PutSetting(ctx context.Context, key string, value []byte) error {
	return s.db.PutSetting(ctx, nil, key, value)
}

func ptrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
