package v0

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/oneai-dev/oneai/internal/catalog/service"
	"github.com/oneai-dev/oneai/pkg/models"
)

// SettingInput represents the input for reading a settings blob
type SettingInput struct {
	Key string `path:"key" json:"key" doc:"Settings key" example:"display_preferences"`
}

// PutSettingInput represents the input for writing a settings blob
type PutSettingInput struct {
	Key  string `path:"key" json:"key" doc:"Settings key"`
	Body json.RawMessage
}

// SettingBody wraps a raw settings value
type SettingBody struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// RegisterSettingsEndpoints registers the settings endpoints
func RegisterSettingsEndpoints(api huma.API, pathPrefix string, catalog service.CatalogService) {
	tags := []string{"settings"}

	huma.Register(api, huma.Operation{
		OperationID: "get-setting" + strings.ReplaceAll(pathPrefix, "/", "-"),
		Method:      http.MethodGet,
		Path:        pathPrefix + "/settings/{key}",
		Summary:     "Get a settings value",
		Tags:        tags,
	}, func(ctx context.Context, input *SettingInput) (*Response[SettingBody], error) {
		value, err := catalog.GetSetting(ctx, input.Key)
		if err != nil {
			return nil, translateError(err, "Failed to get setting")
		}
		return &Response[SettingBody]{Body: SettingBody{Key: input.Key, Value: value}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "put-setting" + strings.ReplaceAll(pathPrefix, "/", "-"),
		Method:      http.MethodPut,
		Path:        pathPrefix + "/settings/{key}",
		Summary:     "Store a settings value",
		Tags:        tags,
	}, func(ctx context.Context, input *PutSettingInput) (*Response[EmptyResponse], error) {
		if err := catalog.PutSetting(ctx, input.Key, input.Body); err != nil {
			return nil, translateError(err, "Failed to store setting")
		}
		return &Response[EmptyResponse]{Body: EmptyResponse{Message: "Setting stored"}}, nil
	})
}

// RecentlyViewedBody is the body of the recently-viewed list endpoint
type RecentlyViewedBody struct {
	Items []models.RecentlyViewedItem `json:"items"`
}

// AddRecentlyViewedInput represents the input for recording a viewed record
type AddRecentlyViewedInput struct {
	Body models.RecentlyViewedItem
}

// RegisterRecentlyViewedEndpoints registers the recently-viewed endpoints
func RegisterRecentlyViewedEndpoints(api huma.API, pathPrefix string, catalog service.CatalogService) {
	tags := []string{"settings"}

	huma.Register(api, huma.Operation{
		OperationID: "list-recently-viewed" + strings.ReplaceAll(pathPrefix, "/", "-"),
		Method:      http.MethodGet,
		Path:        pathPrefix + "/recently-viewed",
		Summary:     "List recently viewed agents",
		Tags:        tags,
	}, func(ctx context.Context, _ *struct{}) (*Response[RecentlyViewedBody], error) {
		items, err := catalog.RecentlyViewed(ctx)
		if err != nil {
			return nil, translateError(err, "Failed to get recently viewed list")
		}
		return &Response[RecentlyViewedBody]{Body: RecentlyViewedBody{Items: items}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "add-recently-viewed" + strings.ReplaceAll(pathPrefix, "/", "-"),
		Method:        http.MethodPost,
		Path:          pathPrefix + "/recently-viewed",
		Summary:       "Record an agent view",
		Description:   "Push an agent onto the recently-viewed list, deduplicating by id",
		Tags:          tags,
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *AddRecentlyViewedInput) (*Response[EmptyResponse], error) {
		if err := catalog.AddRecentlyViewed(ctx, input.Body); err != nil {
			return nil, translateError(err, "Failed to record view")
		}
		return &Response[EmptyResponse]{Body: EmptyResponse{Message: "View recorded"}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "clear-recently-viewed" + strings.ReplaceAll(pathPrefix, "/", "-"),
		Method:      http.MethodDelete,
		Path:        pathPrefix + "/recently-viewed",
		Summary:     "Clear the recently viewed list",
		Tags:        tags,
	}, func(ctx context.Context, _ *struct{}) (*Response[EmptyResponse], error) {
		if err := catalog.ClearRecentlyViewed(ctx); err != nil {
			return nil, translateError(err, "Failed to clear recently viewed list")
		}
		return &Response[EmptyResponse]{Body: EmptyResponse{Message: "Recently viewed list cleared"}}, nil
	})
}
