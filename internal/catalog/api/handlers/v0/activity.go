package v0

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/oneai-dev/oneai/internal/catalog/service"
	"github.com/oneai-dev/oneai/pkg/models"
)

// ActivityListInput represents the input for listing recent activities
type ActivityListInput struct {
	Limit int `query:"limit" json:"limit,omitempty" doc:"Number of entries" default:"20" minimum:"1" maximum:"100"`
}

// ActivityListBody is the body of the activity endpoint
type ActivityListBody struct {
	Activities []models.Activity `json:"activities"`
}

// RegisterActivityEndpoints registers the audit-trail endpoints
func RegisterActivityEndpoints(api huma.API, pathPrefix string, catalog service.CatalogService) {
	huma.Register(api, huma.Operation{
		OperationID: "list-activity" + strings.ReplaceAll(pathPrefix, "/", "-"),
		Method:      http.MethodGet,
		Path:        pathPrefix + "/activity",
		Summary:     "List recent activity",
		Description: "Get the newest audit-trail entries, newest first",
		Tags:        []string{"activity"},
	}, func(ctx context.Context, input *ActivityListInput) (*Response[ActivityListBody], error) {
		activities, err := catalog.RecentActivities(ctx, input.Limit)
		if err != nil {
			return nil, translateError(err, "Failed to get recent activity")
		}
		values := make([]models.Activity, len(activities))
		for i, a := range activities {
			values[i] = *a
		}
		return &Response[ActivityListBody]{Body: ActivityListBody{Activities: values}}, nil
	})
}

// activityPollInterval is how often the SSE stream checks for new entries.
const activityPollInterval = 3 * time.Second

// RegisterActivitySSEHandler registers the SSE streaming endpoint for the
// live activity feed. This is registered separately as it uses a raw HTTP
// handler instead of huma.
func RegisterActivitySSEHandler(mux *http.ServeMux, pathPrefix string, catalog service.CatalogService) {
	path := "GET " + pathPrefix + "/activity/stream"
	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		handleActivityStream(w, r, catalog)
	})
}

func handleActivityStream(w http.ResponseWriter, r *http.Request, catalog service.CatalogService) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	sendEvent := func(a *models.Activity) {
		data, err := json.Marshal(a)
		if err != nil {
			return
		}
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	}

	ctx := r.Context()

	// Replay the most recent entries so the feed is not empty on connect,
	// then poll for anything newer.
	seen := make(map[string]bool)
	recent, err := catalog.RecentActivities(ctx, 10)
	if err == nil {
		for i := len(recent) - 1; i >= 0; i-- {
			sendEvent(recent[i])
			seen[recent[i].ID] = true
		}
	}

	ticker := time.NewTicker(activityPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			activities, err := catalog.RecentActivities(ctx, 10)
			if err != nil {
				// Transient store failures just delay the feed.
				continue
			}
			for i := len(activities) - 1; i >= 0; i-- {
				if seen[activities[i].ID] {
					continue
				}
				sendEvent(activities[i])
				seen[activities[i].ID] = true
			}
			// Keep the connection alive through idle proxies.
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		}
	}
}
