package settings

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps settings in a key/value table. A NULL value means the
// entry is explicitly unset.
type SQLiteStore struct {
	db       *sql.DB
	defaults Settings
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLiteStore(path string, defaults Settings) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &SQLiteStore{db: db, defaults: defaults}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (Settings, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return Settings{}, fmt.Errorf("query settings: %w", err)
	}
	defer rows.Close()

	entries := map[string]*string{}
	for rows.Next() {
		var key string
		var value sql.NullString
		if err := rows.Scan(&key, &value); err != nil {
			return Settings{}, fmt.Errorf("scan settings: %w", err)
		}
		if value.Valid {
			v := value.String
			entries[key] = &v
		} else {
			entries[key] = nil
		}
	}
	if err := rows.Err(); err != nil {
		return Settings{}, fmt.Errorf("iterate settings: %w", err)
	}

	return apply(s.defaults, entries), nil
}

func (s *SQLiteStore) SetAPIKey(ctx context.Context, key string) error {
	return s.set(ctx, keyAPIKey, key)
}

func (s *SQLiteStore) SetModel(ctx context.Context, model string) error {
	return s.set(ctx, keyModel, model)
}

func (s *SQLiteStore) set(ctx context.Context, key, value string) error {
	return s.upsert(ctx, key, sql.NullString{String: value, Valid: true})
}

func (s *SQLiteStore) upsert(ctx context.Context, key string, value sql.NullString) error {
	const query = `INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("store setting %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
