package models

import "time"

// AgentCategory is one entry of the fixed category set, annotated with a
// live count of catalog records tagged with it.
type AgentCategory struct {
	ID          string `json:"id" example:"nlp"`
	Name        string `json:"name" example:"Natural Language Processing"`
	Description string `json:"description"`
	Count       int    `json:"count"`
}

// AgentFilters is the discriminated search criteria structure. Every filter
// the discovery view supports is an explicit optional field; there is no
// open-ended dictionary.
type AgentFilters struct {
	Search         string   `json:"search,omitempty" doc:"Substring match over name, description and detailed description"`
	Categories     []string `json:"categories,omitempty" doc:"Records must carry every listed category"`
	Capabilities   []string `json:"capabilities,omitempty" doc:"Records must carry every listed capability"`
	InputFormat    string   `json:"inputFormat,omitempty"`
	OutputFormat   string   `json:"outputFormat,omitempty"`
	MinPerformance *float64 `json:"minPerformance,omitempty" minimum:"0" maximum:"100"`
}

// Activity is one audit-trail entry recorded when a user creates or edits a
// record.
type Activity struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	UserName    string    `json:"userName"`
	Action      string    `json:"action" example:"registered"`
	SubjectID   string    `json:"subjectId"`
	SubjectName string    `json:"subjectName"`
	CreatedAt   time.Time `json:"createdAt"`
}

// RecentlyViewedItem is one entry of a user's recently-viewed list.
type RecentlyViewedItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// CatalogStats aggregates the dashboard counters.
type CatalogStats struct {
	TotalAgents        int            `json:"totalAgents"`
	TotalCategories    int            `json:"totalCategories"`
	AgentsThisMonth    int            `json:"agentsThisMonth"`
	MissingDescription int            `json:"missingDescription"`
	AgentsPerCategory  map[string]int `json:"agentsPerCategory"`
}
