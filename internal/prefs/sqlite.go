package prefs

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"github.com/alnah/go-mdexport/internal/theme"
)

// Preference keys, one row each.
const (
	keyMarkdown = "markdown"
	keyTheme    = "theme"
	keyDarkMode = "darkMode"
)

const createTable = `CREATE TABLE IF NOT EXISTS prefs (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

// SQLiteStore keeps preferences as key/value rows in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and prepares the schema.
// ":memory:" opens a private in-memory database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}
	if path == ":memory:" {
		// Every new connection would see a fresh empty database.
		db.SetMaxOpenConns(1)
	}

	for _, stmt := range []string{
		"PRAGMA busy_timeout = 5000",
		createTable,
	} {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%w: %w", ErrStore, err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (Prefs, error) {
	query, args, err := sq.
		Select("key", "value").
		From("prefs").
		Where(sq.Eq{"key": []string{keyMarkdown, keyTheme, keyDarkMode}}).
		ToSql()
	if err != nil {
		return Prefs{}, fmt.Errorf("%w: %w", ErrStore, err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return Prefs{}, fmt.Errorf("%w: %w", ErrStore, err)
	}
	defer rows.Close()

	var p Prefs
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return Prefs{}, fmt.Errorf("%w: %w", ErrStore, err)
		}
		switch key {
		case keyMarkdown:
			p.Markdown = value
		case keyTheme:
			p.Theme = theme.Theme(value)
		case keyDarkMode:
			p.DarkMode = value == "true"
		}
	}
	if err := rows.Err(); err != nil {
		return Prefs{}, fmt.Errorf("%w: %w", ErrStore, err)
	}
	return p.normalize(), nil
}

func (s *SQLiteStore) Save(ctx context.Context, p Prefs) error {
	if err := p.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStore, err)
	}
	defer func() { _ = tx.Rollback() }()

	query, args, err := sq.
		Insert("prefs").
		Columns("key", "value").
		Values(keyMarkdown, p.Markdown).
		Values(keyTheme, string(p.Theme)).
		Values(keyDarkMode, strconv.FormatBool(p.DarkMode)).
		Suffix(`ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP`).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStore, err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %w", ErrStore, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrStore, err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ StoreCloser = (*SQLiteStore)(nil)
