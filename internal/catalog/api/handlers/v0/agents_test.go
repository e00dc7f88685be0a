package v0_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v0 "github.com/oneai-dev/oneai/internal/catalog/api/handlers/v0"
	"github.com/oneai-dev/oneai/internal/catalog/config"
	"github.com/oneai-dev/oneai/internal/catalog/database"
	"github.com/oneai-dev/oneai/internal/catalog/service"
	"github.com/oneai-dev/oneai/pkg/models"
)

func newTestAPI(t *testing.T, db database.Database) (*http.ServeMux, service.CatalogService) {
	t.Helper()

	catalogService := service.NewCatalogService(db, &config.Config{Version: "test"}, nil, nil, nil)

	mux := http.NewServeMux()
	api := humago.New(mux, huma.DefaultConfig("Test API", "1.0.0"))
	v0.RegisterAgentsEndpoints(api, "/v0", catalogService)
	v0.RegisterSearchEndpoint(api, "/v0", catalogService)
	v0.RegisterCategoriesEndpoint(api, "/v0", catalogService)
	v0.RegisterStatsEndpoint(api, "/v0", catalogService)
	v0.RegisterActivityEndpoints(api, "/v0", catalogService)
	v0.RegisterRecentlyViewedEndpoints(api, "/v0", catalogService)
	v0.RegisterAdminEndpoints(api, "/v0", catalogService)

	return mux, catalogService
}

func seedAgent(t *testing.T, svc service.CatalogService, name string, tags []string) *models.AgentRecord {
	t.Helper()
	rec, err := svc.CreateAgent(context.Background(), &models.CreateAgentRequest{
		Name:        name,
		Description: name + " test agent",
		Tags:        tags,
	})
	require.NoError(t, err)
	return rec
}

func TestListAgentsEndpoint(t *testing.T) {
	mux, svc := newTestAPI(t, database.NewMemory())
	seedAgent(t, svc, "TextSage", []string{"nlp"})
	seedAgent(t, svc, "PixelScout", []string{"computer-vision"})

	tests := []struct {
		name           string
		queryParams    string
		expectedStatus int
		expectedCount  int
		expectedError  string
	}{
		{
			name:           "list all agents",
			queryParams:    "",
			expectedStatus: http.StatusOK,
			expectedCount:  2,
		},
		{
			name:           "list with limit",
			queryParams:    "?limit=1",
			expectedStatus: http.StatusOK,
			expectedCount:  1,
		},
		{
			name:           "search agents",
			queryParams:    "?search=pixel",
			expectedStatus: http.StatusOK,
			expectedCount:  1,
		},
		{
			name:           "filter by category",
			queryParams:    "?category=nlp",
			expectedStatus: http.StatusOK,
			expectedCount:  1,
		},
		{
			name:           "invalid limit",
			queryParams:    "?limit=abc",
			expectedStatus: http.StatusUnprocessableEntity,
			expectedError:  "invalid",
		},
		{
			name:           "invalid updated_since",
			queryParams:    "?updated_since=yesterday",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "RFC3339",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v0/agents"+tt.queryParams, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus == http.StatusOK {
				var resp models.AgentListResponse
				err := json.NewDecoder(w.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Len(t, resp.Agents, tt.expectedCount)
				assert.Equal(t, tt.expectedCount, resp.Metadata.Count)

				for _, agent := range resp.Agents {
					assert.NotEmpty(t, agent.ID)
					assert.NotEmpty(t, agent.Name)
					assert.NotNil(t, agent.Capabilities)
					assert.NotNil(t, agent.Tags)
				}
			} else if tt.expectedError != "" {
				assert.Contains(t, strings.ToLower(w.Body.String()), strings.ToLower(tt.expectedError))
			}
		})
	}
}

func TestGetAgentEndpoint(t *testing.T) {
	mux, svc := newTestAPI(t, database.NewMemory())
	rec := seedAgent(t, svc, "TextSage", []string{"nlp"})

	req := httptest.NewRequest(http.MethodGet, "/v0/agents/"+rec.ID, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var got models.AgentRecord
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, "TextSage", got.Name)

	req = httptest.NewRequest(http.MethodGet, "/v0/agents/missing", nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateAgentEndpoint(t *testing.T) {
	mux, _ := newTestAPI(t, database.NewMemory())

	body := `{"name":"ChartMind","description":"builds charts","tags":["data-analysis"]}`
	req := httptest.NewRequest(http.MethodPost, "/v0/agents", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var got models.AgentRecord
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "1.0.0", got.Version)
	assert.NotEmpty(t, got.DetailedDescription)
}

func TestCreateAgentEndpointValidation(t *testing.T) {
	mux, _ := newTestAPI(t, database.NewMemory())

	// Missing required description.
	body := `{"name":"NoDescription"}`
	req := httptest.NewRequest(http.MethodPost, "/v0/agents", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestUpdateAgentEndpoint(t *testing.T) {
	mux, svc := newTestAPI(t, database.NewMemory())
	rec := seedAgent(t, svc, "TextSage", []string{"nlp"})

	t.Run("sparse edit with null and value", func(t *testing.T) {
		body := `{"name":"TextSage Pro","detailedDescription":null,"tags":null}`
		req := httptest.NewRequest(http.MethodPatch, "/v0/agents/"+rec.ID, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var got models.AgentRecord
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, "TextSage Pro", got.Name)
		assert.Empty(t, got.DetailedDescription)
		assert.Empty(t, got.Tags)
		// Untouched field survives the edit.
		assert.Equal(t, rec.Description, got.Description)
	})

	t.Run("array value with explicit metrics null", func(t *testing.T) {
		body := `{"capabilities":["summarize"],"metrics":null}`
		req := httptest.NewRequest(http.MethodPatch, "/v0/agents/"+rec.ID, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var got models.AgentRecord
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, []string{"summarize"}, got.Capabilities)
		assert.Nil(t, got.Metrics.Performance)
		assert.Nil(t, got.Metrics.Reliability)
		assert.Nil(t, got.Metrics.Latency)
	})

	t.Run("empty edit is a no-op", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPatch, "/v0/agents/"+rec.ID, strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown agent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPatch, "/v0/agents/missing", strings.NewReader(`{"name":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSearchAgentsEndpoint(t *testing.T) {
	mux, svc := newTestAPI(t, database.NewMemory())
	seedAgent(t, svc, "TextSage", []string{"nlp"})
	seedAgent(t, svc, "PixelScout", []string{"computer-vision"})

	body := `{"search":"pixel"}`
	req := httptest.NewRequest(http.MethodPost, "/v0/agents/search", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.AgentListResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Agents, 1)
	assert.Equal(t, "PixelScout", resp.Agents[0].Name)
}

func TestListAgentsDegradedEndpoint(t *testing.T) {
	db := database.NewMemory()
	db.FailWith = database.ErrConnection
	mux, _ := newTestAPI(t, db)

	req := httptest.NewRequest(http.MethodGet, "/v0/agents", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	// The store being down degrades the response, it does not fail it.
	require.Equal(t, http.StatusOK, w.Code)
	var resp models.AgentListResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Metadata.Degraded)
	assert.NotEmpty(t, resp.Agents)
}

func TestCategoriesEndpoint(t *testing.T) {
	mux, svc := newTestAPI(t, database.NewMemory())
	seedAgent(t, svc, "TextSage", []string{"nlp"})

	req := httptest.NewRequest(http.MethodGet, "/v0/categories", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp v0.CategoryListBody
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.NotEmpty(t, resp.Categories)

	found := false
	for _, c := range resp.Categories {
		if c.ID == "nlp" {
			found = true
			assert.Equal(t, 1, c.Count)
		}
	}
	assert.True(t, found)
}

func TestStatsEndpoint(t *testing.T) {
	mux, svc := newTestAPI(t, database.NewMemory())
	seedAgent(t, svc, "TextSage", []string{"nlp"})

	req := httptest.NewRequest(http.MethodGet, "/v0/stats", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var stats models.CatalogStats
	require.NoError(t, json.NewDecoder(w.Body).Decode(&stats))
	assert.Equal(t, 1, stats.TotalAgents)
	assert.Greater(t, stats.TotalCategories, 0)
}

func TestActivityEndpoint(t *testing.T) {
	mux, svc := newTestAPI(t, database.NewMemory())
	seedAgent(t, svc, "TextSage", nil)

	req := httptest.NewRequest(http.MethodGet, "/v0/activity", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp v0.ActivityListBody
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Activities, 1)
	assert.Equal(t, "registered", resp.Activities[0].Action)
}

func TestRecentlyViewedEndpoints(t *testing.T) {
	mux, _ := newTestAPI(t, database.NewMemory())

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v0/recently-viewed", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		return w
	}

	require.Equal(t, http.StatusCreated, post(`{"id":"a","name":"Agent A"}`).Code)
	require.Equal(t, http.StatusCreated, post(`{"id":"b","name":"Agent B"}`).Code)

	req := httptest.NewRequest(http.MethodGet, "/v0/recently-viewed", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp v0.RecentlyViewedBody
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "b", resp.Items[0].ID)

	req = httptest.NewRequest(http.MethodDelete, "/v0/recently-viewed", nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/v0/recently-viewed", nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Empty(t, resp.Items)
}

func TestGenerateDescriptionsEndpoint(t *testing.T) {
	db := database.NewMemory()
	mux, _ := newTestAPI(t, db)

	_, err := db.CreateAgent(context.Background(), nil, &database.InsertAgent{
		Name:        "Bare",
		Description: "no details",
		Version:     "1.0.0",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v0/admin/descriptions/generate", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp v0.GenerateDescriptionsBody
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 1, resp.Updated)
}
