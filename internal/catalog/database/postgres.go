package database

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oneai-dev/oneai/pkg/models"
)

// PostgreSQL is an implementation of the Database interface using PostgreSQL
type PostgreSQL struct {
	pool *pgxpool.Pool
}

// Executor is an interface for executing queries (satisfied by both pgx.Tx and pgxpool.Pool)
type Executor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// getExecutor returns the appropriate executor (transaction or pool)
func (db *PostgreSQL) getExecutor(tx pgx.Tx) Executor {
	if tx != nil {
		return tx
	}
	return db.pool
}

// NewPostgreSQL creates a new instance of the PostgreSQL database
func NewPostgreSQL(ctx context.Context, connectionURI string) (*PostgreSQL, error) {
	config, err := pgxpool.ParseConfig(connectionURI)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PostgreSQL config: %w", err)
	}

	// Stability-focused pool defaults
	config.MaxConns = 30
	config.MinConns = 5
	config.MaxConnIdleTime = 30 * time.Minute
	config.MaxConnLifetime = 2 * time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create PostgreSQL pool: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}

	// Run migrations on a single connection from the pool
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection for migrations: %w", err)
	}
	defer conn.Release()

	if err := Migrate(ctx, conn.Conn()); err != nil {
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	return &PostgreSQL{pool: pool}, nil
}

const agentColumns = `id, name, description, detailed_description, version, logo_url,
        input_format, output_format, creator_id, capabilities, categories, dependencies,
        performance_score, reliability_score, latency, documentation_url, demo_url,
        api_endpoint, example_request, example_response, created_at, updated_at`

func scanAgentRow(row pgx.Row) (*models.BackendRow, error) {
	var r models.BackendRow
	err := row.Scan(
		&r.ID, &r.Name, &r.Description, &r.DetailedDescription, &r.Version, &r.LogoURL,
		&r.InputFormat, &r.OutputFormat, &r.CreatorID, &r.Capabilities, &r.Categories, &r.Dependencies,
		&r.PerformanceScore, &r.ReliabilityScore, &r.Latency, &r.DocumentationURL, &r.DemoURL,
		&r.APIEndpoint, &r.ExampleRequest, &r.ExampleResponse, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// classifyError maps low-level pgx errors onto the package's tagged errors so
// callers can distinguish a rejected write from a vanished record from a
// connectivity problem.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 23: integrity constraint violations
		if strings.HasPrefix(pgErr.Code, "23") {
			if pgErr.Code == "23505" {
				return fmt.Errorf("%w: %s", ErrAlreadyExists, pgErr.Message)
			}
			return fmt.Errorf("%w: %s", ErrInvalidInput, pgErr.Message)
		}
		// Class 08: connection exceptions
		if strings.HasPrefix(pgErr.Code, "08") {
			return fmt.Errorf("%w: %s", ErrConnection, pgErr.Message)
		}
		return fmt.Errorf("%w: %s", ErrDatabase, pgErr.Message)
	}
	if pgconn.Timeout(err) {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	// Dial failures (connection refused, DNS errors) surface as net errors
	// wrapped by pgconn, not as PgError values.
	var connectErr *pgconn.ConnectError
	var netErr net.Error
	var opErr *net.OpError
	if errors.As(err, &connectErr) || errors.As(err, &opErr) || errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return err
}

// CreateAgent inserts a new agent row and returns it as stored
func (db *PostgreSQL) CreateAgent(ctx context.Context, tx pgx.Tx, agent *InsertAgent) (*models.BackendRow, error) {
	query := fmt.Sprintf(`
        INSERT INTO agents (
            name, description, detailed_description, version, logo_url,
            input_format, output_format, creator_id, capabilities, categories, dependencies,
            performance_score, reliability_score, latency, documentation_url, demo_url,
            api_endpoint, example_request, example_response
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
        RETURNING %s
    `, agentColumns)

	row := db.getExecutor(tx).QueryRow(ctx, query,
		agent.Name, agent.Description, agent.DetailedDescription, agent.Version, agent.LogoURL,
		agent.InputFormat, agent.OutputFormat, agent.CreatorID,
		agent.Capabilities, agent.Categories, agent.Dependencies,
		agent.PerformanceScore, agent.ReliabilityScore, agent.Latency,
		agent.DocumentationURL, agent.DemoURL, agent.APIEndpoint,
		agent.ExampleRequest, agent.ExampleResponse,
	)

	result, err := scanAgentRow(row)
	if err != nil {
		return nil, classifyError(fmt.Errorf("failed to insert agent: %w", err))
	}
	return result, nil
}

// GetAgentByID retrieves a single agent row by id
func (db *PostgreSQL) GetAgentByID(ctx context.Context, tx pgx.Tx, id string) (*models.BackendRow, error) {
	query := fmt.Sprintf(`SELECT %s FROM agents WHERE id = $1`, agentColumns)

	result, err := scanAgentRow(db.getExecutor(tx).QueryRow(ctx, query, id))
	if err != nil {
		return nil, classifyError(err)
	}
	return result, nil
}

// ListAgents retrieves agent rows newest-first with cursor pagination
func (db *PostgreSQL) ListAgents(ctx context.Context, tx pgx.Tx, filter *AgentFilter, cursor string, limit int) ([]*models.BackendRow, string, error) {
	if limit <= 0 {
		limit = 30
	}

	if ctx.Err() != nil {
		return nil, "", ctx.Err()
	}

	var whereConditions []string
	args := []any{}
	argIndex := 1

	if filter != nil {
		if filter.SubstringText != nil {
			pattern := "%" + *filter.SubstringText + "%"
			whereConditions = append(whereConditions, fmt.Sprintf(
				"(name ILIKE $%d OR description ILIKE $%d OR detailed_description ILIKE $%d)",
				argIndex, argIndex+1, argIndex+2))
			args = append(args, pattern, pattern, pattern)
			argIndex += 3
		}
		if len(filter.Categories) > 0 {
			whereConditions = append(whereConditions, fmt.Sprintf("categories @> $%d", argIndex))
			args = append(args, filter.Categories)
			argIndex++
		}
		if len(filter.Capabilities) > 0 {
			whereConditions = append(whereConditions, fmt.Sprintf("capabilities @> $%d", argIndex))
			args = append(args, filter.Capabilities)
			argIndex++
		}
		if filter.InputFormat != nil {
			whereConditions = append(whereConditions, fmt.Sprintf("input_format = $%d", argIndex))
			args = append(args, *filter.InputFormat)
			argIndex++
		}
		if filter.OutputFormat != nil {
			whereConditions = append(whereConditions, fmt.Sprintf("output_format = $%d", argIndex))
			args = append(args, *filter.OutputFormat)
			argIndex++
		}
		if filter.MinPerformance != nil {
			whereConditions = append(whereConditions, fmt.Sprintf("performance_score >= $%d", argIndex))
			args = append(args, *filter.MinPerformance)
			argIndex++
		}
		if filter.UpdatedSince != nil {
			whereConditions = append(whereConditions, fmt.Sprintf("updated_at > $%d", argIndex))
			args = append(args, *filter.UpdatedSince)
			argIndex++
		}
		if filter.MissingDescription != nil && *filter.MissingDescription {
			whereConditions = append(whereConditions, "detailed_description IS NULL")
		}
	}

	if cursor != "" {
		cursorTime, cursorID, err := decodeCursor(cursor)
		if err != nil {
			return nil, "", fmt.Errorf("%w: bad cursor: %v", ErrInvalidInput, err)
		}
		whereConditions = append(whereConditions, fmt.Sprintf(
			"(created_at < $%d OR (created_at = $%d AND id < $%d))", argIndex, argIndex, argIndex+1))
		args = append(args, cursorTime, cursorID)
		argIndex += 2
	}

	whereClause := ""
	if len(whereConditions) > 0 {
		whereClause = "WHERE " + strings.Join(whereConditions, " AND ")
	}

	query := fmt.Sprintf(`
        SELECT %s
        FROM agents
        %s
        ORDER BY created_at DESC, id DESC
        LIMIT $%d
    `, agentColumns, whereClause, argIndex)
	args = append(args, limit)

	rows, err := db.getExecutor(tx).Query(ctx, query, args...)
	if err != nil {
		return nil, "", classifyError(fmt.Errorf("failed to query agents: %w", err))
	}
	defer rows.Close()

	var results []*models.BackendRow
	for rows.Next() {
		result, scanErr := scanAgentRow(rows)
		if scanErr != nil {
			return nil, "", fmt.Errorf("failed to scan agent row: %w", scanErr)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, "", classifyError(fmt.Errorf("error iterating rows: %w", err))
	}

	nextCursor := ""
	if len(results) == limit {
		last := results[len(results)-1]
		nextCursor = encodeCursor(last.CreatedAt, last.ID)
	}

	return results, nextCursor, nil
}

// UpdateAgent applies a reconciled write payload to an existing row. Only
// the columns the payload mentions are assigned; everything else keeps its
// stored value.
func (db *PostgreSQL) UpdateAgent(ctx context.Context, tx pgx.Tx, id string, payload models.WritePayload) error {
	assignments := payload.Assignments()
	if len(assignments) == 0 {
		return nil
	}

	setClauses := make([]string, 0, len(assignments))
	args := make([]any, 0, len(assignments)+1)
	argIndex := 1
	for _, a := range assignments {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", a.Column, argIndex))
		args = append(args, a.Value)
		argIndex++
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE agents SET %s WHERE id = $%d`, strings.Join(setClauses, ", "), argIndex)

	result, err := db.getExecutor(tx).Exec(ctx, query, args...)
	if err != nil {
		return classifyError(fmt.Errorf("failed to update agent: %w", err))
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetDetailedDescription backfills the detailed description of a row
func (db *PostgreSQL) SetDetailedDescription(ctx context.Context, tx pgx.Tx, id string, description string) error {
	query := `UPDATE agents SET detailed_description = $1, updated_at = now() WHERE id = $2`

	result, err := db.getExecutor(tx).Exec(ctx, query, description, id)
	if err != nil {
		return classifyError(fmt.Errorf("failed to set description: %w", err))
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountAgents counts rows, optionally only those created since a time
func (db *PostgreSQL) CountAgents(ctx context.Context, tx pgx.Tx, createdSince *time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM agents`
	args := []any{}
	if createdSince != nil {
		query += ` WHERE created_at >= $1`
		args = append(args, *createdSince)
	}

	var count int
	if err := db.getExecutor(tx).QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, classifyError(fmt.Errorf("failed to count agents: %w", err))
	}
	return count, nil
}

// CategoryCounts returns how many rows carry each category
func (db *PostgreSQL) CategoryCounts(ctx context.Context, tx pgx.Tx) (map[string]int, error) {
	query := `
        SELECT category, COUNT(*)
        FROM agents, unnest(categories) AS category
        GROUP BY category
    `

	rows, err := db.getExecutor(tx).Query(ctx, query)
	if err != nil {
		return nil, classifyError(fmt.Errorf("failed to query category counts: %w", err))
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		counts[category] = count
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError(err)
	}
	return counts, nil
}

// InsertActivity appends an audit-trail entry
func (db *PostgreSQL) InsertActivity(ctx context.Context, tx pgx.Tx, activity *models.Activity) error {
	query := `
        INSERT INTO activities (user_id, user_name, action, subject_id, subject_name)
        VALUES ($1, $2, $3, $4, $5)
    `

	_, err := db.getExecutor(tx).Exec(ctx, query,
		activity.UserID, activity.UserName, activity.Action, activity.SubjectID, activity.SubjectName)
	if err != nil {
		return classifyError(fmt.Errorf("failed to insert activity: %w", err))
	}
	return nil
}

// ListRecentActivities retrieves the newest audit-trail entries
func (db *PostgreSQL) ListRecentActivities(ctx context.Context, tx pgx.Tx, limit int) ([]*models.Activity, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
        SELECT id, user_id, user_name, action, subject_id, subject_name, created_at
        FROM activities
        ORDER BY created_at DESC
        LIMIT $1
    `

	rows, err := db.getExecutor(tx).Query(ctx, query, limit)
	if err != nil {
		return nil, classifyError(fmt.Errorf("failed to query activities: %w", err))
	}
	defer rows.Close()

	var results []*models.Activity
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(&a.ID, &a.UserID, &a.UserName, &a.Action, &a.SubjectID, &a.SubjectName, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		results = append(results, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError(err)
	}
	return results, nil
}

// GetSetting reads a raw settings value; ErrNotFound when absent
func (db *PostgreSQL) GetSetting(ctx context.Context, tx pgx.Tx, key string) ([]byte, error) {
	var value []byte
	err := db.getExecutor(tx).QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if err != nil {
		return nil, classifyError(err)
	}
	return value, nil
}

// PutSetting upserts a raw settings value
func (db *PostgreSQL) PutSetting(ctx context.Context, tx pgx.Tx, key string, value []byte) error {
	query := `
        INSERT INTO settings (key, value, updated_at)
        VALUES ($1, $2, now())
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
    `

	if _, err := db.getExecutor(tx).Exec(ctx, query, key, value); err != nil {
		return classifyError(fmt.Errorf("failed to put setting: %w", err))
	}
	return nil
}

// InTransaction executes a function within a database transaction
func (db *PostgreSQL) InTransaction(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return classifyError(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Close closes the database connection
func (db *PostgreSQL) Close() error {
	db.pool.Close()
	return nil
}

func encodeCursor(createdAt time.Time, id string) string {
	return createdAt.UTC().Format(time.RFC3339Nano) + "|" + id
}

func decodeCursor(cursor string) (time.Time, string, error) {
	parts := strings.SplitN(cursor, "|", 2)
	if len(parts) != 2 {
		return time.Time{}, "", errors.New("malformed cursor")
	}
	t, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return time.Time{}, "", err
	}
	return t, parts[1], nil
}
