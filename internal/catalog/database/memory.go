package database

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/oneai-dev/oneai/pkg/models"
)

// Memory is a map-backed implementation of the Database interface. It backs
// unit tests and the DATABASE_URL=noop mode where no PostgreSQL instance is
// available. Not durable.
type Memory struct {
	mu         sync.Mutex
	agents     []*models.BackendRow
	activities []*models.Activity
	settings   map[string][]byte

	// FailWith, when set, makes every operation return the given error.
	// Used to exercise degraded-mode behavior in tests.
	FailWith error
}

// NewMemory creates an empty in-memory database.
func NewMemory() *Memory {
	return &Memory{settings: make(map[string][]byte)}
}

func (db *Memory) fail() error {
	return db.FailWith
}

// CreateAgent inserts a new agent row and returns a copy of it as stored
func (db *Memory) CreateAgent(_ context.Context, _ pgx.Tx, agent *InsertAgent) (*models.BackendRow, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := db.fail(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	row := &models.BackendRow{
		ID:                  uuid.NewString(),
		Name:                agent.Name,
		Description:         agent.Description,
		DetailedDescription: agent.DetailedDescription,
		Version:             agent.Version,
		LogoURL:             agent.LogoURL,
		InputFormat:         agent.InputFormat,
		OutputFormat:        agent.OutputFormat,
		CreatorID:           agent.CreatorID,
		Capabilities:        agent.Capabilities,
		Categories:          agent.Categories,
		Dependencies:        agent.Dependencies,
		PerformanceScore:    agent.PerformanceScore,
		ReliabilityScore:    agent.ReliabilityScore,
		Latency:             agent.Latency,
		DocumentationURL:    agent.DocumentationURL,
		DemoURL:             agent.DemoURL,
		APIEndpoint:         agent.APIEndpoint,
		ExampleRequest:      agent.ExampleRequest,
		ExampleResponse:     agent.ExampleResponse,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	db.agents = append(db.agents, row)

	copied := *row
	return &copied, nil
}

// GetAgentByID retrieves a single agent row by id
func (db *Memory) GetAgentByID(_ context.Context, _ pgx.Tx, id string) (*models.BackendRow, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := db.fail(); err != nil {
		return nil, err
	}

	for _, row := range db.agents {
		if row.ID == id {
			copied := *row
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

// ListAgents retrieves agent rows newest-first with cursor pagination
func (db *Memory) ListAgents(_ context.Context, _ pgx.Tx, filter *AgentFilter, cursor string, limit int) ([]*models.BackendRow, string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := db.fail(); err != nil {
		return nil, "", err
	}
	if limit <= 0 {
		limit = 30
	}

	// Insertion order is creation order, so newest-first is reverse
	// insertion order.
	matched := make([]*models.BackendRow, 0, len(db.agents))
	for i := len(db.agents) - 1; i >= 0; i-- {
		if matchesFilter(db.agents[i], filter) {
			matched = append(matched, db.agents[i])
		}
	}

	start := 0
	if cursor != "" {
		for i, row := range matched {
			if row.ID == cursor {
				start = i + 1
				break
			}
		}
	}

	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	page := make([]*models.BackendRow, 0, end-start)
	for _, row := range matched[start:end] {
		copied := *row
		page = append(page, &copied)
	}

	nextCursor := ""
	if end < len(matched) && len(page) > 0 {
		nextCursor = page[len(page)-1].ID
	}
	return page, nextCursor, nil
}

func matchesFilter(row *models.BackendRow, filter *AgentFilter) bool {
	if filter == nil {
		return true
	}
	if filter.SubstringText != nil {
		needle := strings.ToLower(*filter.SubstringText)
		detailed := ""
		if row.DetailedDescription != nil {
			detailed = *row.DetailedDescription
		}
		if !strings.Contains(strings.ToLower(row.Name), needle) &&
			!strings.Contains(strings.ToLower(row.Description), needle) &&
			!strings.Contains(strings.ToLower(detailed), needle) {
			return false
		}
	}
	if !containsAll(row.Categories, filter.Categories) {
		return false
	}
	if !containsAll(row.Capabilities, filter.Capabilities) {
		return false
	}
	if filter.InputFormat != nil && (row.InputFormat == nil || *row.InputFormat != *filter.InputFormat) {
		return false
	}
	if filter.OutputFormat != nil && (row.OutputFormat == nil || *row.OutputFormat != *filter.OutputFormat) {
		return false
	}
	if filter.MinPerformance != nil && (row.PerformanceScore == nil || *row.PerformanceScore < *filter.MinPerformance) {
		return false
	}
	if filter.UpdatedSince != nil && !row.UpdatedAt.After(*filter.UpdatedSince) {
		return false
	}
	if filter.MissingDescription != nil && *filter.MissingDescription && row.DetailedDescription != nil {
		return false
	}
	return true
}

func containsAll(have, want []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// UpdateAgent applies a reconciled write payload to an existing row
func (db *Memory) UpdateAgent(_ context.Context, _ pgx.Tx, id string, payload models.WritePayload) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := db.fail(); err != nil {
		return err
	}
	if payload.Empty() {
		return nil
	}

	for _, row := range db.agents {
		if row.ID != id {
			continue
		}
		for _, a := range payload.Assignments() {
			if err := applyAssignment(row, a); err != nil {
				return err
			}
		}
		return nil
	}
	return ErrNotFound
}

// applyAssignment mirrors the column semantics of the Postgres UPDATE.
func applyAssignment(row *models.BackendRow, a models.WriteAssignment) error {
	switch a.Column {
	case "name":
		row.Name = stringValue(a.Value)
	case "description":
		row.Description = stringValue(a.Value)
	case "detailed_description":
		row.DetailedDescription = stringPtr(a.Value)
	case "version":
		row.Version = stringValue(a.Value)
	case "logo_url":
		row.LogoURL = stringPtr(a.Value)
	case "input_format":
		row.InputFormat = stringPtr(a.Value)
	case "output_format":
		row.OutputFormat = stringPtr(a.Value)
	case "creator_id":
		row.CreatorID = stringPtr(a.Value)
	case "capabilities":
		row.Capabilities = sliceValue(a.Value)
	case "categories":
		row.Categories = sliceValue(a.Value)
	case "dependencies":
		row.Dependencies = sliceValue(a.Value)
	case "performance_score":
		row.PerformanceScore = floatPtr(a.Value)
	case "reliability_score":
		row.ReliabilityScore = floatPtr(a.Value)
	case "latency":
		row.Latency = intPtr(a.Value)
	case "documentation_url":
		row.DocumentationURL = stringPtr(a.Value)
	case "demo_url":
		row.DemoURL = stringPtr(a.Value)
	case "api_endpoint":
		row.APIEndpoint = stringPtr(a.Value)
	case "example_request":
		row.ExampleRequest = stringPtr(a.Value)
	case "example_response":
		row.ExampleResponse = stringPtr(a.Value)
	case "updated_at":
		if t, ok := a.Value.(time.Time); ok {
			row.UpdatedAt = t
		}
	default:
		return fmt.Errorf("%w: unknown column %q", ErrInvalidInput, a.Column)
	}
	return nil
}

func stringValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func stringPtr(v any) *string {
	if s, ok := v.(string); ok {
		return &s
	}
	return nil
}

func sliceValue(v any) []string {
	if s, ok := v.([]string); ok {
		return s
	}
	return []string{}
}

func floatPtr(v any) *float64 {
	if f, ok := v.(float64); ok {
		return &f
	}
	return nil
}

func intPtr(v any) *int {
	if i, ok := v.(int); ok {
		return &i
	}
	return nil
}

// SetDetailedDescription backfills the detailed description of a row
func (db *Memory) SetDetailedDescription(_ context.Context, _ pgx.Tx, id string, description string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := db.fail(); err != nil {
		return err
	}

	for _, row := range db.agents {
		if row.ID == id {
			row.DetailedDescription = &description
			row.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return ErrNotFound
}

// CountAgents counts rows, optionally only those created since a time
func (db *Memory) CountAgents(_ context.Context, _ pgx.Tx, createdSince *time.Time) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := db.fail(); err != nil {
		return 0, err
	}

	if createdSince == nil {
		return len(db.agents), nil
	}
	count := 0
	for _, row := range db.agents {
		if !row.CreatedAt.Before(*createdSince) {
			count++
		}
	}
	return count, nil
}

// CategoryCounts returns how many rows carry each category
func (db *Memory) CategoryCounts(_ context.Context, _ pgx.Tx) (map[string]int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := db.fail(); err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, row := range db.agents {
		for _, category := range row.Categories {
			counts[category]++
		}
	}
	return counts, nil
}

// InsertActivity appends an audit-trail entry
func (db *Memory) InsertActivity(_ context.Context, _ pgx.Tx, activity *models.Activity) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := db.fail(); err != nil {
		return err
	}

	stored := *activity
	stored.ID = uuid.NewString()
	stored.CreatedAt = time.Now().UTC()
	db.activities = append(db.activities, &stored)
	return nil
}

// ListRecentActivities retrieves the newest audit-trail entries
func (db *Memory) ListRecentActivities(_ context.Context, _ pgx.Tx, limit int) ([]*models.Activity, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := db.fail(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}

	var results []*models.Activity
	for i := len(db.activities) - 1; i >= 0 && len(results) < limit; i-- {
		copied := *db.activities[i]
		results = append(results, &copied)
	}
	return results, nil
}

// GetSetting reads a raw settings value; ErrNotFound when absent
func (db *Memory) GetSetting(_ context.Context, _ pgx.Tx, key string) ([]byte, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := db.fail(); err != nil {
		return nil, err
	}

	value, ok := db.settings[key]
	if !ok {
		return nil, ErrNotFound
	}
	return value, nil
}

// PutSetting upserts a raw settings value
func (db *Memory) PutSetting(_ context.Context, _ pgx.Tx, key string, value []byte) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := db.fail(); err != nil {
		return err
	}

	db.settings[key] = value
	return nil
}

// InTransaction executes a function directly; the in-memory store has no
// transaction isolation.
func (db *Memory) InTransaction(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	if err := db.fail(); err != nil {
		return err
	}
	return fn(ctx, nil)
}

// Close is a no-op for the in-memory store
func (db *Memory) Close() error {
	return nil
}
