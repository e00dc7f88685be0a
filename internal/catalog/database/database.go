// Package database defines the row-store interface of the catalog and its
// PostgreSQL and in-memory implementations.
package database

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oneai-dev/oneai/pkg/models"
)

// Common database errors. API handlers dispatch on these with errors.Is:
// ErrNotFound maps to 404, ErrInvalidInput and ErrAlreadyExists to 400, and
// ErrConnection to 503 with a retry suggestion.
var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrDatabase      = errors.New("database error")
	ErrConnection    = errors.New("database unreachable")
)

// AgentFilter defines filtering options for agent queries. Nil fields mean
// "no filter". Categories and Capabilities require containment of every
// listed value.
type AgentFilter struct {
	SubstringText      *string    // substring search over name, description and detailed description
	Categories         []string   // records must carry all listed categories
	Capabilities       []string   // records must carry all listed capabilities
	InputFormat        *string    // exact match on input format
	OutputFormat       *string    // exact match on output format
	MinPerformance     *float64   // minimum performance score, excludes records with no score
	UpdatedSince       *time.Time // for incremental sync filtering
	MissingDescription *bool      // records with a NULL detailed description
}

// InsertAgent carries the column values of a new agent row. ID and the
// timestamps are assigned by the store.
type InsertAgent struct {
	Name                string
	Description         string
	DetailedDescription *string
	Version             string
	LogoURL             *string
	InputFormat         *string
	OutputFormat        *string
	CreatorID           *string
	Capabilities        []string
	Categories          []string
	Dependencies        []string
	PerformanceScore    *float64
	ReliabilityScore    *float64
	Latency             *int
	DocumentationURL    *string
	DemoURL             *string
	APIEndpoint         *string
	ExampleRequest      *string
	ExampleResponse     *string
}

// Database defines the interface for catalog store operations. Row-shaped
// results are returned as BackendRow; normalization into canonical records
// happens at the service layer.
type Database interface {
	// CreateAgent inserts a new agent row and returns it as stored
	CreateAgent(ctx context.Context, tx pgx.Tx, agent *InsertAgent) (*models.BackendRow, error)
	// GetAgentByID retrieves a single agent row by id
	GetAgentByID(ctx context.Context, tx pgx.Tx, id string) (*models.BackendRow, error)
	// ListAgents retrieves agent rows newest-first with cursor pagination
	ListAgents(ctx context.Context, tx pgx.Tx, filter *AgentFilter, cursor string, limit int) ([]*models.BackendRow, string, error)
	// UpdateAgent applies a reconciled write payload to an existing row
	UpdateAgent(ctx context.Context, tx pgx.Tx, id string, payload models.WritePayload) error
	// SetDetailedDescription backfills the detailed description of a row
	SetDetailedDescription(ctx context.Context, tx pgx.Tx, id string, description string) error
	// CountAgents counts rows, optionally only those created since a time
	CountAgents(ctx context.Context, tx pgx.Tx, createdSince *time.Time) (int, error)
	// CategoryCounts returns how many rows carry each category
	CategoryCounts(ctx context.Context, tx pgx.Tx) (map[string]int, error)

	// InsertActivity appends an audit-trail entry
	InsertActivity(ctx context.Context, tx pgx.Tx, activity *models.Activity) error
	// ListRecentActivities retrieves the newest audit-trail entries
	ListRecentActivities(ctx context.Context, tx pgx.Tx, limit int) ([]*models.Activity, error)

	// GetSetting reads a raw settings value; ErrNotFound when absent
	GetSetting(ctx context.Context, tx pgx.Tx, key string) ([]byte, error)
	// PutSetting upserts a raw settings value
	PutSetting(ctx context.Context, tx pgx.Tx, key string, value []byte) error

	// InTransaction executes a function within a database transaction
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
	// Close closes the database connection
	Close() error
}

// InTransactionT is a generic helper that wraps InTransaction for functions
// returning a value. Go does not support generic methods on interfaces, so
// this lives as a package-level function.
func InTransactionT[T any](ctx context.Context, db Database, fn func(ctx context.Context, tx pgx.Tx) (T, error)) (T, error) {
	var result T
	var fnErr error

	err := db.InTransaction(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		result, fnErr = fn(txCtx, tx)
		return fnErr
	})

	if err != nil {
		var zero T
		return zero, err
	}

	return result, nil
}
