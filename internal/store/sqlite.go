package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// SQLiteStore is a durable Store backed by a single-table SQLite database.
type SQLiteStore struct {
	db *sql.DB

	*Notifier
}

// OpenSQLiteStore opens or creates the override database at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve store db path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure store db dir: %w", err)
	}

	db, err := sql.Open("sqlite", absPath)
	if err != nil {
		return nil, fmt.Errorf("open store db: %w", err)
	}

	schema := `
CREATE TABLE IF NOT EXISTS overrides (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create store schema: %w", err)
	}

	return &SQLiteStore{db: db, Notifier: NewNotifier()}, nil
}

func (s *SQLiteStore) Get(key Key) (json.RawMessage, bool) {
	var value string
	err := s.db.QueryRow("SELECT value FROM overrides WHERE key = ?", key.String()).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		// Fail open: a backend read failure resolves as absent.
		log.Warn().Err(err).Str("key", key.String()).Msg("Store read failed, treating as absent")
		return nil, false
	}
	return json.RawMessage(value), true
}

func (s *SQLiteStore) Set(key Key, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value for %s: %w", key.String(), err)
	}

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO overrides (key, value)
		VALUES (?, ?)
	`, key.String(), string(raw))
	if err != nil {
		return fmt.Errorf("set override: %w", err)
	}

	s.Publish(key)
	return nil
}

func (s *SQLiteStore) Remove(key Key) error {
	res, err := s.db.Exec("DELETE FROM overrides WHERE key = ?", key.String())
	if err != nil {
		return fmt.Errorf("remove override: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		s.Publish(key)
	}
	return nil
}

func (s *SQLiteStore) Has(key Key) bool {
	var one int
	err := s.db.QueryRow("SELECT 1 FROM overrides WHERE key = ?", key.String()).Scan(&one)
	if err == sql.ErrNoRows {
		return false
	}
	if err != nil {
		log.Warn().Err(err).Str("key", key.String()).Msg("Store existence check failed, treating as absent")
		return false
	}
	return true
}

func (s *SQLiteStore) Keys(prefix string) []Key {
	rows, err := s.db.Query("SELECT key FROM overrides WHERE key LIKE ? || '%' ORDER BY key", prefix)
	if err != nil {
		log.Warn().Err(err).Str("prefix", prefix).Msg("Store key scan failed")
		return nil
	}
	defer rows.Close()

	var result []Key
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			log.Warn().Err(err).Msg("Store key scan row failed")
			continue
		}
		key, err := ParseKey(raw)
		if err != nil {
			log.Warn().Err(err).Msg("Skipping unparsable stored key")
			continue
		}
		result = append(result, key)
	}
	return result
}

func (s *SQLiteStore) Close() error {
	s.CloseAll()
	return s.db.Close()
}
