package userdata

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/maumlog/maum/backend/internal/model/chat"
)

// SQLiteStore implements Store with one JSON blob row per username. A single
// upsert statement replaces the whole record, which keeps commits atomic.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS user_records (
		username   TEXT PRIMARY KEY,
		record     BLOB NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load returns the stored record, migrating any legacy field layout on the
// way out. Unknown users get the default empty record.
func (s *SQLiteStore) Load(ctx context.Context, username string) (chat.UserRecord, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT record FROM user_records WHERE username = ?`, username,
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return chat.EmptyRecord(), nil
	}
	if err != nil {
		return chat.UserRecord{}, fmt.Errorf("load record for %s: %w", username, err)
	}

	var record chat.UserRecord
	if err := json.Unmarshal(blob, &record); err != nil {
		return chat.UserRecord{}, fmt.Errorf("decode record for %s: %w", username, err)
	}
	return record.Migrated(), nil
}

// Save replaces the user's record in a single upsert statement.
func (s *SQLiteStore) Save(ctx context.Context, username string, record chat.UserRecord) error {
	blob, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record for %s: %w", username, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_records (username, record, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET
			record = excluded.record,
			updated_at = excluded.updated_at
	`, username, blob, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save record for %s: %w", username, err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
