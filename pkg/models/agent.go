package models

import "time"

// DefaultLogoIcon is the symbolic icon key used when a record has no stored logo.
const DefaultLogoIcon = "brain"

// UnknownCreator is the sentinel creator identifier for records without one.
const UnknownCreator = "Unknown"

// AgentRecord is the canonical, fully-defaulted shape of one catalog entry.
// Every read path goes through record.Normalize before an AgentRecord is
// handed out, so callers never see a missing scalar: strings default to "",
// arrays to empty slices. Metric pointers stay nil to mean "metric absent"
// (the UI hides the bar instead of rendering a misleading zero).
type AgentRecord struct {
	ID                  string       `json:"id" doc:"Opaque record identifier, immutable after creation"`
	Name                string       `json:"name"`
	Description         string       `json:"description" doc:"Short one-line description"`
	DetailedDescription string       `json:"detailedDescription" doc:"Long description, possibly synthesized"`
	Logo                string       `json:"logo" doc:"Either a symbolic icon key or an absolute image URL"`
	Capabilities        []string     `json:"capabilities"`
	InputFormat         string       `json:"inputFormat"`
	OutputFormat        string       `json:"outputFormat"`
	Version             string       `json:"version"`
	Creator             string       `json:"creator"`
	CreatedAt           time.Time    `json:"createdAt"`
	UpdatedAt           time.Time    `json:"updatedAt"`
	Tags                []string     `json:"tags" doc:"Category identifiers (stored as 'categories')"`
	Metrics             AgentMetrics `json:"metrics"`
	Dependencies        []string     `json:"dependencies"`
	Usage               AgentUsage   `json:"usage"`
	DocumentationURL    string       `json:"documentationUrl"`
	DemoURL             string       `json:"demoUrl"`
	APIEndpoint         string       `json:"apiEndpoint"`
	ExampleRequest      string       `json:"exampleRequest"`
	ExampleResponse     string       `json:"exampleResponse"`
}

// LogoIsURL reports whether the logo field carries an uploaded image URL
// rather than a symbolic icon key. The two share one field and are
// disambiguated by the scheme prefix, matching how rows are stored.
func (a *AgentRecord) LogoIsURL() bool {
	return len(a.Logo) >= 4 && a.Logo[:4] == "http"
}

// AgentMetrics carries the optional quality metrics of a record. A nil
// pointer means the metric was never reported, which is distinct from zero.
type AgentMetrics struct {
	Performance *float64 `json:"performance,omitempty" doc:"0-100 score"`
	Reliability *float64 `json:"reliability,omitempty" doc:"0-100 score"`
	Latency     *int     `json:"latency,omitempty" doc:"Typical latency in milliseconds"`
}

// AgentUsage is synthesized on every read: no usage-tracking table exists,
// so Count is always zero and LastUsed is the read time. Known gap.
type AgentUsage struct {
	Count    int       `json:"count"`
	LastUsed time.Time `json:"lastUsed"`
}

// BackendRow is the storage-shaped view of an agent record as scanned from
// the agents table. Nullable columns are pointer-typed; record.Normalize
// converts this into a canonical AgentRecord.
type BackendRow struct {
	ID                  string
	Name                string
	Description         string
	DetailedDescription *string
	LogoURL             *string
	Capabilities        []string
	InputFormat         *string
	OutputFormat        *string
	Version             string
	CreatorID           *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
	Categories          []string
	PerformanceScore    *float64
	ReliabilityScore    *float64
	Latency             *int
	Dependencies        []string
	DocumentationURL    *string
	DemoURL             *string
	APIEndpoint         *string
	ExampleRequest      *string
	ExampleResponse     *string
}

// LogoUpload carries raw logo image bytes supplied alongside a create or
// update request. Filename is only used to derive the object extension.
type LogoUpload struct {
	Filename    string `json:"filename" doc:"Original filename, used for the extension"`
	ContentType string `json:"contentType" example:"image/png"`
	Data        []byte `json:"data" doc:"Base64-encoded image bytes"`
}

// CreateAgentRequest is the registration payload. DetailedDescription is
// optional; when empty a description is synthesized from the other fields.
type CreateAgentRequest struct {
	Name                string        `json:"name" minLength:"1" maxLength:"200"`
	Description         string        `json:"description" minLength:"1" maxLength:"500"`
	DetailedDescription string        `json:"detailedDescription,omitempty"`
	Version             string        `json:"version,omitempty" default:"1.0.0"`
	Capabilities        []string      `json:"capabilities,omitempty"`
	Tags                []string      `json:"tags,omitempty"`
	InputFormat         string        `json:"inputFormat,omitempty"`
	OutputFormat        string        `json:"outputFormat,omitempty"`
	Creator             string        `json:"creator,omitempty"`
	Metrics             *AgentMetrics `json:"metrics,omitempty"`
	Dependencies        []string      `json:"dependencies,omitempty"`
	DocumentationURL    string        `json:"documentationUrl,omitempty" format:"uri"`
	DemoURL             string        `json:"demoUrl,omitempty" format:"uri"`
	APIEndpoint         string        `json:"apiEndpoint,omitempty"`
	ExampleRequest      string        `json:"exampleRequest,omitempty"`
	ExampleResponse     string        `json:"exampleResponse,omitempty"`
	Logo                *LogoUpload   `json:"logo,omitempty"`
}

// AgentListMetadata describes one page of a list response.
type AgentListMetadata struct {
	NextCursor string `json:"nextCursor,omitempty"`
	Count      int    `json:"count"`
	Degraded   bool   `json:"degraded,omitempty" doc:"True when the store was unreachable and placeholder records are shown"`
}

// AgentListResponse is the body of list and search endpoints.
type AgentListResponse struct {
	Agents   []AgentRecord     `json:"agents"`
	Metadata AgentListMetadata `json:"metadata"`
}
