package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore is an append-only interaction log. Nothing on the request path
// reads it back.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	// a single connection keeps ":memory:" databases shared across calls
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS interactions (
        id TEXT PRIMARY KEY, -- UUID
        session_id TEXT,
        intent TEXT NOT NULL,
        source TEXT NOT NULL,
        status INTEGER NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE INDEX IF NOT EXISTS idx_interactions_created_at ON interactions (created_at);
    `
	_, err := s.db.Exec(schema)
	return err
}

// RecordInteraction stores it, assigning ID and CreatedAt when unset.
func (s *SQLiteStore) RecordInteraction(ctx context.Context, it *Interaction) error {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	if it.CreatedAt.IsZero() {
		it.CreatedAt = time.Now().UTC()
	}

	var session sql.NullString
	if it.SessionID != "" {
		session = sql.NullString{String: it.SessionID, Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO interactions (id, session_id, intent, source, status, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		it.ID, session, it.Intent, it.Source, it.Status, it.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert interaction: %w", err)
	}
	return nil
}

// CountByIntent summarises the log for operators. It is not used to answer
// chat requests.
func (s *SQLiteStore) CountByIntent(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT intent, COUNT(*) FROM interactions GROUP BY intent")
	if err != nil {
		return nil, fmt.Errorf("failed to query interactions: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var intent string
		var n int
		if err := rows.Scan(&intent, &n); err != nil {
			return nil, fmt.Errorf("failed to scan interaction row: %w", err)
		}
		counts[intent] = n
	}
	return counts, rows.Err()
}
