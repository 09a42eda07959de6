// Package storage persists chat turns in SQLite.
//
// The write path never caches: every read hits the database directly, so
// results are current as of the last committed write. Thread safety comes
// from sql.DB's connection pooling plus SQLite's own serialization.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/harperchat/backend/internal/model/chat"
)

// SqliteStore is the message store backing chat history and the memory
// service's read-only queries.
type SqliteStore struct {
	db *sql.DB
}

// OpenSqlite opens or creates the chat database at the given path,
// creating parent directories and the schema as needed.
func OpenSqlite(path string) (*SqliteStore, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open chat database: %w", err)
	}

	store := &SqliteStore{db: db}
	if err := store.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// NewInMemory creates an in-memory database, useful for testing.
func NewInMemory() (*SqliteStore, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory database: %w", err)
	}

	store := &SqliteStore{db: db}
	if err := store.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *SqliteStore) Close() error {
	return s.db.Close()
}

func (s *SqliteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS chats (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			sender TEXT NOT NULL,
			content TEXT NOT NULL,
			timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_chats_session
		ON chats(session_id, timestamp);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// SaveMessage appends one turn and returns its row id. The timestamp is
// assigned here rather than by the column default so that turns written
// within the same second still sort correctly.
func (s *SqliteStore) SaveMessage(ctx context.Context, sessionID, sender, content string) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO chats (session_id, sender, content, timestamp) VALUES (?, ?, ?, ?)",
		sessionID, sender, content, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to save message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted message id: %w", err)
	}
	return id, nil
}

// SessionMessages returns all turns for a session in ascending timestamp
// order. Unknown sessions yield an empty slice, not an error.
func (s *SqliteStore) SessionMessages(ctx context.Context, sessionID string) ([]chat.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, sender, content, timestamp
		FROM chats
		WHERE session_id = ?
		ORDER BY timestamp ASC, id ASC`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

// RecentMessages returns up to limit turns for a session, newest first.
func (s *SqliteStore) RecentMessages(ctx context.Context, sessionID string, limit int) ([]chat.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, sender, content, timestamp
		FROM chats
		WHERE session_id = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`,
		sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent messages: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

// SearchMessages returns up to limit turns whose content contains the query
// substring, newest first. Matching is case-insensitive for ASCII, which is
// what SQLite's LIKE provides.
func (s *SqliteStore) SearchMessages(ctx context.Context, sessionID, query string, limit int) ([]chat.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, sender, content, timestamp
		FROM chats
		WHERE session_id = ? AND content LIKE ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`,
		sessionID, "%"+query+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search messages: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

// Sessions lists distinct session ids, most recently active first.
func (s *SqliteStore) Sessions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id
		FROM chats
		GROUP BY session_id
		ORDER BY MAX(timestamp) DESC, MAX(id) DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []string{}
	for rows.Next() {
		var sessionID string
		if err := rows.Scan(&sessionID); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, sessionID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}

	return sessions, nil
}

// ClearSession deletes all turns for a session. Clearing an unknown or
// already-empty session succeeds silently.
func (s *SqliteStore) ClearSession(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM chats WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// SessionStats aggregates message counts and the first/last interaction
// times for a session.
func (s *SqliteStore) SessionStats(ctx context.Context, sessionID string) (*chat.Stats, error) {
	stats := &chat.Stats{}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN sender = 'user' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN sender = 'bot' THEN 1 ELSE 0 END), 0)
		FROM chats
		WHERE session_id = ?`,
		sessionID).Scan(&stats.TotalMessages, &stats.UserMessages, &stats.BotMessages)
	if err != nil {
		return nil, fmt.Errorf("failed to query session stats: %w", err)
	}

	if stats.TotalMessages == 0 {
		return stats, nil
	}

	first, err := s.boundaryTimestamp(ctx, sessionID, "ASC")
	if err != nil {
		return nil, err
	}
	last, err := s.boundaryTimestamp(ctx, sessionID, "DESC")
	if err != nil {
		return nil, err
	}

	stats.FirstInteraction = first
	stats.LastInteraction = last
	return stats, nil
}

// boundaryTimestamp fetches the oldest or newest turn time via an ordered
// single-row query. MIN/MAX would lose the column's declared type and come
// back as a raw string from the driver.
func (s *SqliteStore) boundaryTimestamp(ctx context.Context, sessionID, direction string) (*time.Time, error) {
	var ts time.Time
	err := s.db.QueryRowContext(ctx,
		"SELECT timestamp FROM chats WHERE session_id = ? ORDER BY timestamp "+direction+", id "+direction+" LIMIT 1",
		sessionID).Scan(&ts)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query boundary timestamp: %w", err)
	}
	return &ts, nil
}

func scanMessages(rows *sql.Rows) ([]chat.Message, error) {
	messages := []chat.Message{}
	for rows.Next() {
		var msg chat.Message
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.Sender, &msg.Content, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}

	return messages, nil
}
