package repository

import (
	"context"
	"fmt"
	"time"

	"concierge/internal/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// InteractionRepository records answered queries and overlay actions in PostgreSQL
type InteractionRepository struct {
	db *sqlx.DB
}

// NewInteractionRepository connects to PostgreSQL and ensures the log tables exist
func NewInteractionRepository(dsn string, maxConn, maxIdleConn int) (*InteractionRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	repo := &InteractionRepository{db: db}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := repo.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return repo, nil
}

// Close closes the database connection
func (r *InteractionRepository) Close() error {
	return r.db.Close()
}

// Ping checks the connection
func (r *InteractionRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

const schema = `
	CREATE TABLE IF NOT EXISTS query_logs (
		id                   BIGSERIAL PRIMARY KEY,
		session_id           TEXT NOT NULL,
		query                TEXT NOT NULL,
		narration            TEXT NOT NULL,
		returned_listing_ids JSONB NOT NULL DEFAULT '[]',
		failed               BOOLEAN NOT NULL DEFAULT FALSE,
		response_time_ms     BIGINT NOT NULL,
		created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_query_logs_session ON query_logs (session_id, created_at);

	CREATE TABLE IF NOT EXISTS action_logs (
		id          BIGSERIAL PRIMARY KEY,
		session_id  TEXT NOT NULL,
		listing_id  TEXT NOT NULL,
		action      TEXT NOT NULL,
		detail      TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_action_logs_listing ON action_logs (listing_id, action);
`

// EnsureSchema creates the log tables when missing
func (r *InteractionRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// LogQuery logs one assistant round trip
func (r *InteractionRepository) LogQuery(ctx context.Context, entry model.QueryLog) error {
	query := `
		INSERT INTO query_logs (session_id, query, narration, returned_listing_ids, failed, response_time_ms)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	ids := entry.ListingIDs
	if ids == nil {
		ids = model.JSONArray{}
	}
	_, err := r.db.ExecContext(ctx, query,
		entry.SessionID,
		entry.Query,
		entry.Narration,
		ids,
		entry.Failed,
		entry.ResponseTimeMs,
	)
	if err != nil {
		return fmt.Errorf("failed to log query: %w", err)
	}
	return nil
}

// LogAction logs one overlay action
func (r *InteractionRepository) LogAction(ctx context.Context, entry model.ActionLog) error {
	query := `
		INSERT INTO action_logs (session_id, listing_id, action, detail)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query, entry.SessionID, entry.ListingID, entry.Action, entry.Detail)
	if err != nil {
		return fmt.Errorf("failed to log action: %w", err)
	}
	return nil
}

// RecentQueries returns the latest logged queries of a session, newest first
func (r *InteractionRepository) RecentQueries(ctx context.Context, sessionID string, limit int) ([]model.QueryLog, error) {
	query := `
		SELECT session_id, query, narration, returned_listing_ids, failed, response_time_ms, created_at
		FROM query_logs
		WHERE session_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	var logs []model.QueryLog
	if err := r.db.SelectContext(ctx, &logs, query, sessionID, limit); err != nil {
		return nil, fmt.Errorf("failed to load queries: %w", err)
	}
	return logs, nil
}

// ActionCount is how often an action was taken on a listing
type ActionCount struct {
	ListingID string `db:"listing_id" json:"listing_id"`
	Action    string `db:"action" json:"action"`
	Count     int64  `db:"count" json:"count"`
}

// ActionCounts aggregates overlay actions per listing, most frequent first
func (r *InteractionRepository) ActionCounts(ctx context.Context, limit int) ([]ActionCount, error) {
	query := `
		SELECT listing_id, action, COUNT(*) AS count
		FROM action_logs
		GROUP BY listing_id, action
		ORDER BY count DESC, listing_id
		LIMIT $1
	`
	var counts []ActionCount
	if err := r.db.SelectContext(ctx, &counts, query, limit); err != nil {
		return nil, fmt.Errorf("failed to count actions: %w", err)
	}
	return counts, nil
}
