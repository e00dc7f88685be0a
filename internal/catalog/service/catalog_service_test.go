package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oneai-dev/oneai/internal/catalog/config"
	"github.com/oneai-dev/oneai/internal/catalog/database"
	"github.com/oneai-dev/oneai/internal/catalog/descgen"
	"github.com/oneai-dev/oneai/internal/catalog/service"
	"github.com/oneai-dev/oneai/pkg/models"
)

// failingProvider always fails, exercising the template fallback.
type failingProvider struct{ err error }

func (p failingProvider) Generate(context.Context, descgen.Prompt) (string, error) {
	return "", p.err
}

// fakeAssetStore records uploads and can be forced to fail.
type fakeAssetStore struct {
	url     string
	err     error
	uploads int
}

func (s *fakeAssetStore) Upload(_ context.Context, _ []byte, _ string, _ string) (string, error) {
	s.uploads++
	if s.err != nil {
		return "", s.err
	}
	return s.url, nil
}

func newTestService(t *testing.T, db database.Database) service.CatalogService {
	t.Helper()
	return service.NewCatalogService(db, &config.Config{Version: "test"}, nil, nil, nil)
}

func createAgent(t *testing.T, svc service.CatalogService, name string, tags []string) *models.AgentRecord {
	t.Helper()
	rec, err := svc.CreateAgent(context.Background(), &models.CreateAgentRequest{
		Name:        name,
		Description: "analyzes text sentiment",
		Tags:        tags,
	})
	require.NoError(t, err)
	return rec
}

func TestCreateAgentSynthesizesDescription(t *testing.T) {
	svc := newTestService(t, database.NewMemory())

	rec := createAgent(t, svc, "TextSage", []string{"nlp"})

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "1.0.0", rec.Version)
	assert.Equal(t, models.UnknownCreator, rec.Creator)
	assert.Equal(t, models.DefaultLogoIcon, rec.Logo)

	// No detailed description was supplied, so the deterministic template
	// kicks in.
	assert.Contains(t, rec.DetailedDescription, "TextSage is an AI agent that analyzes text sentiment.")
	assert.Contains(t, rec.DetailedDescription, "nlp tasks")
}

func TestCreateAgentGeneratorFailureFallsBackToTemplate(t *testing.T) {
	db := database.NewMemory()
	svc := service.NewCatalogService(db, &config.Config{}, nil,
		failingProvider{err: descgen.ErrRateLimited}, nil)

	rec, err := svc.CreateAgent(context.Background(), &models.CreateAgentRequest{
		Name:        "ChartMind",
		Description: "builds charts from data",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rec.DetailedDescription, "ChartMind is an AI agent"))
}

func TestCreateAgentValidation(t *testing.T) {
	svc := newTestService(t, database.NewMemory())

	_, err := svc.CreateAgent(context.Background(), &models.CreateAgentRequest{Name: "  "})
	assert.ErrorIs(t, err, database.ErrInvalidInput)
}

func TestCreateAgentLogoUploadFailureIsNonFatal(t *testing.T) {
	db := database.NewMemory()
	store := &fakeAssetStore{err: descgen.ErrTimeout}
	svc := service.NewCatalogService(db, &config.Config{}, store, nil, nil)

	rec, err := svc.CreateAgent(context.Background(), &models.CreateAgentRequest{
		Name:        "PixelScout",
		Description: "detects objects",
		Logo:        &models.LogoUpload{Filename: "logo.png", ContentType: "image/png", Data: []byte{1}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, store.uploads)
	assert.Equal(t, models.DefaultLogoIcon, rec.Logo)
}

func TestUpdateAgentAppliesSparseEdit(t *testing.T) {
	svc := newTestService(t, database.NewMemory())
	rec := createAgent(t, svc, "TextSage", []string{"nlp"})

	edits := &models.EditPayload{
		Name:                models.SetField("TextSage Pro"),
		DetailedDescription: models.NullField[string](),
		Tags:                models.NullField[[]string](),
	}

	updated, err := svc.UpdateAgent(context.Background(), rec.ID, edits, nil)
	require.NoError(t, err)

	assert.Equal(t, "TextSage Pro", updated.Name)
	assert.Equal(t, "", updated.DetailedDescription)
	assert.Equal(t, []string{}, updated.Tags)
	// Untouched fields survive.
	assert.Equal(t, "analyzes text sentiment", updated.Description)
	assert.True(t, updated.UpdatedAt.After(rec.UpdatedAt) || updated.UpdatedAt.Equal(rec.UpdatedAt))
}

func TestUpdateAgentEmptyEditSkipsPersistence(t *testing.T) {
	svc := newTestService(t, database.NewMemory())
	rec := createAgent(t, svc, "TextSage", nil)

	updated, err := svc.UpdateAgent(context.Background(), rec.ID, &models.EditPayload{}, nil)
	require.NoError(t, err)

	// No column was touched, so updated_at is not stamped.
	assert.Equal(t, rec.UpdatedAt, updated.UpdatedAt)
	assert.Equal(t, rec.Name, updated.Name)
}

func TestUpdateAgentNotFound(t *testing.T) {
	svc := newTestService(t, database.NewMemory())

	_, err := svc.UpdateAgent(context.Background(), "missing", &models.EditPayload{
		Name: models.SetField("x"),
	}, nil)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestUpdateAgentUploadedLogoWins(t *testing.T) {
	db := database.NewMemory()
	store := &fakeAssetStore{url: "https://cdn.example.com/fresh.png"}
	svc := service.NewCatalogService(db, &config.Config{}, store, nil, nil)

	rec, err := svc.CreateAgent(context.Background(), &models.CreateAgentRequest{
		Name:        "CodePilot",
		Description: "writes code",
	})
	require.NoError(t, err)

	edits := &models.EditPayload{Logo: models.SetField("sparkles")}
	logo := &models.LogoUpload{Filename: "fresh.png", ContentType: "image/png", Data: []byte{1}}

	updated, err := svc.UpdateAgent(context.Background(), rec.ID, edits, logo)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/fresh.png", updated.Logo)
}

func TestListAgentsDegradedFallback(t *testing.T) {
	db := database.NewMemory()
	db.FailWith = database.ErrConnection
	svc := newTestService(t, db)

	list, err := svc.ListAgents(context.Background(), nil, "", 30)
	require.NoError(t, err)

	assert.True(t, list.Metadata.Degraded)
	assert.NotEmpty(t, list.Agents)
	for _, a := range list.Agents {
		assert.NotEmpty(t, a.ID)
		assert.NotEmpty(t, a.Name)
	}
}

func TestListAgentsNonConnectionErrorPropagates(t *testing.T) {
	db := database.NewMemory()
	db.FailWith = database.ErrDatabase
	svc := newTestService(t, db)

	_, err := svc.ListAgents(context.Background(), nil, "", 30)
	assert.ErrorIs(t, err, database.ErrDatabase)
}

func TestSearchAgents(t *testing.T) {
	svc := newTestService(t, database.NewMemory())
	createAgent(t, svc, "TextSage", []string{"nlp"})
	createAgent(t, svc, "PixelScout", []string{"computer-vision"})

	list, err := svc.SearchAgents(context.Background(), &models.AgentFilters{Search: "pixel"})
	require.NoError(t, err)
	require.Len(t, list.Agents, 1)
	assert.Equal(t, "PixelScout", list.Agents[0].Name)
	assert.False(t, list.Metadata.Degraded)
}

func TestListCategoriesCounts(t *testing.T) {
	svc := newTestService(t, database.NewMemory())
	createAgent(t, svc, "TextSage", []string{"nlp"})
	createAgent(t, svc, "WordSmith", []string{"nlp"})

	categories, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, categories)

	byID := make(map[string]int)
	for _, c := range categories {
		byID[c.ID] = c.Count
	}
	assert.Equal(t, 2, byID["nlp"])
	assert.Equal(t, 0, byID["computer-vision"])
}

func TestStats(t *testing.T) {
	db := database.NewMemory()
	svc := newTestService(t, db)
	createAgent(t, svc, "TextSage", []string{"nlp"})

	// One record without a detailed description, inserted at the store
	// level so no template fills it in.
	_, err := db.CreateAgent(context.Background(), nil, &database.InsertAgent{
		Name:        "Bare",
		Description: "no details",
		Version:     "1.0.0",
	})
	require.NoError(t, err)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalAgents)
	assert.Equal(t, 2, stats.AgentsThisMonth)
	assert.Equal(t, 1, stats.MissingDescription)
	assert.Equal(t, 1, stats.AgentsPerCategory["nlp"])
	assert.Greater(t, stats.TotalCategories, 0)
}

func TestGenerateMissingDescriptions(t *testing.T) {
	db := database.NewMemory()
	svc := newTestService(t, db)

	_, err := db.CreateAgent(context.Background(), nil, &database.InsertAgent{
		Name:        "Bare",
		Description: "no details yet",
		Version:     "1.0.0",
	})
	require.NoError(t, err)

	updated, err := svc.GenerateMissingDescriptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	// A second run finds nothing left to fill.
	updated, err = svc.GenerateMissingDescriptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, updated)
}

func TestRecentlyViewedDedupAndCap(t *testing.T) {
	svc := newTestService(t, database.NewMemory())
	ctx := context.Background()

	now := time.Now().UTC()
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		require.NoError(t, svc.AddRecentlyViewed(ctx, models.RecentlyViewedItem{
			ID: id, Name: "Agent " + id, Timestamp: now,
		}))
	}

	items, err := svc.RecentlyViewed(ctx)
	require.NoError(t, err)
	require.Len(t, items, 5)
	assert.Equal(t, "f", items[0].ID)
	assert.Equal(t, "b", items[4].ID)

	// Re-viewing an existing entry moves it to the head without growing
	// the list.
	require.NoError(t, svc.AddRecentlyViewed(ctx, models.RecentlyViewedItem{ID: "d", Name: "Agent d"}))
	items, err = svc.RecentlyViewed(ctx)
	require.NoError(t, err)
	require.Len(t, items, 5)
	assert.Equal(t, "d", items[0].ID)

	require.NoError(t, svc.ClearRecentlyViewed(ctx))
	items, err = svc.RecentlyViewed(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestActivityRecordedOnMutations(t *testing.T) {
	svc := newTestService(t, database.NewMemory())
	rec := createAgent(t, svc, "TextSage", nil)

	_, err := svc.UpdateAgent(context.Background(), rec.ID, &models.EditPayload{
		Name: models.SetField("TextSage Pro"),
	}, nil)
	require.NoError(t, err)

	activities, err := svc.RecentActivities(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, activities, 2)
	assert.Equal(t, "updated", activities[0].Action)
	assert.Equal(t, "registered", activities[1].Action)
	assert.Equal(t, rec.ID, activities[0].SubjectID)
}
