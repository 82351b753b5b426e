package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/diwan/internal/model"
)

// DatabaseFile is the file name of a local document store.
const DatabaseFile = "diwan.db"

// schema holds one statement per entry; the libSQL remote protocol
// executes a single statement per call.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS poets (
		name TEXT PRIMARY KEY,
		doc TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS poems (
		poet TEXT NOT NULL,
		title TEXT NOT NULL,
		doc TEXT NOT NULL,
		digest TEXT,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (poet, title)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_poems_digest ON poems(digest)`,
}

// DocumentStore keeps one document per poet and one per poem.
type DocumentStore struct {
	db   *sql.DB
	name string
}

// Options configures a local DocumentStore.
type Options struct {
	// CreateIfNotExists creates the directory and database file if missing.
	CreateIfNotExists bool

	// EnableWAL enables write-ahead logging.
	EnableWAL bool
}

// DefaultOptions returns the default local store options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// OpenLocal opens the document store in dir/diwan.db.
func OpenLocal(ctx context.Context, dir string, opts Options) (*DocumentStore, error) {
	path := filepath.Join(dir, DatabaseFile)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("database not found at %s", path)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := path + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = path + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if opts.EnableWAL {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	return NewDocumentStore(ctx, db, path)
}

// NewDocumentStore wraps an open database and creates the tables.
// name is used in log and error messages.
func NewDocumentStore(ctx context.Context, db *sql.DB, name string) (*DocumentStore, error) {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create tables: %w", err)
		}
	}
	return &DocumentStore{db: db, name: name}, nil
}

// Name returns the display name of the store.
func (s *DocumentStore) Name() string {
	return s.name
}

// Close closes the database.
func (s *DocumentStore) Close() error {
	return s.db.Close()
}

// poetDoc is the shallow poet document: the poet entry minus its poems.
type poetDoc struct {
	Name string `json:"name"`
}

// SavePoet upserts the poet document and then one document per poem.
// Each write is independent, so a failure leaves earlier poems stored.
func (s *DocumentStore) SavePoet(ctx context.Context, name string, poet *model.Poet) error {
	doc, err := json.Marshal(poetDoc{Name: poet.Name})
	if err != nil {
		return fmt.Errorf("failed to encode poet %q: %w", name, err)
	}

	query := `
	INSERT INTO poets (name, doc) VALUES (?, ?)
	ON CONFLICT(name) DO UPDATE SET
		doc = excluded.doc,
		updated_at = CURRENT_TIMESTAMP
	`
	if _, err := s.db.ExecContext(ctx, query, name, string(doc)); err != nil {
		return fmt.Errorf("failed to save poet %q: %w", name, err)
	}

	for _, poem := range sortedPoems(poet) {
		if err := s.SavePoem(ctx, name, poem); err != nil {
			return err
		}
	}
	return nil
}

// SavePoem upserts one poem document under poet.
func (s *DocumentStore) SavePoem(ctx context.Context, poet string, poem *model.Poem) error {
	doc, err := json.Marshal(poem)
	if err != nil {
		return fmt.Errorf("failed to encode poem %q: %w", poem.Title, err)
	}

	query := `
	INSERT INTO poems (poet, title, doc, digest) VALUES (?, ?, ?, ?)
	ON CONFLICT(poet, title) DO UPDATE SET
		doc = excluded.doc,
		digest = excluded.digest,
		updated_at = CURRENT_TIMESTAMP
	`
	if _, err := s.db.ExecContext(ctx, query, poet, poem.Title, string(doc), poem.Digest()); err != nil {
		return fmt.Errorf("failed to save poem %q of %q: %w", poem.Title, poet, err)
	}
	return nil
}

// Save upserts every poet and poem of m.
func (s *DocumentStore) Save(ctx context.Context, m model.Mapping) error {
	for _, name := range m.Names() {
		if err := s.SavePoet(ctx, name, m[name]); err != nil {
			return err
		}
	}
	return nil
}

// Load rebuilds the whole mapping.
func (s *DocumentStore) Load(ctx context.Context) (model.Mapping, error) {
	m := make(model.Mapping)
	_, err := s.EachPoet(ctx, nil, func(p *model.Poet) error {
		m[p.Name] = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// PoetNames returns the stored poet names in order.
func (s *DocumentStore) PoetNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM poets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list poets: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan poet: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// HasPoet reports whether a poet document exists.
func (s *DocumentStore) HasPoet(ctx context.Context, name string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM poets WHERE name = ?`, name).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to look up poet %q: %w", name, err)
	}
	return n > 0, nil
}

// EachPoet streams the selected poets with their poems ordered by title.
// An empty names selects every poet. Names without a poet document are
// returned as missing.
func (s *DocumentStore) EachPoet(ctx context.Context, names []string, fn func(*model.Poet) error) ([]string, error) {
	if len(names) == 0 {
		all, err := s.PoetNames(ctx)
		if err != nil {
			return nil, err
		}
		names = all
	}

	var missing []string
	for _, name := range names {
		ok, err := s.HasPoet(ctx, name)
		if err != nil {
			return missing, err
		}
		if !ok {
			missing = append(missing, name)
			continue
		}

		poet, err := s.loadPoet(ctx, name)
		if err != nil {
			return missing, err
		}
		if err := fn(poet); err != nil {
			return missing, err
		}
	}
	return missing, nil
}

func (s *DocumentStore) loadPoet(ctx context.Context, name string) (*model.Poet, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT doc FROM poets WHERE name = ?`, name).Scan(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to load poet %q: %w", name, err)
	}
	var pd poetDoc
	if err := json.Unmarshal([]byte(doc), &pd); err != nil {
		return nil, fmt.Errorf("failed to decode poet %q: %w", name, err)
	}
	if pd.Name == "" {
		pd.Name = name
	}
	poet := model.NewPoet(pd.Name)

	rows, err := s.db.QueryContext(ctx, `SELECT title, doc FROM poems WHERE poet = ? ORDER BY title`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load poems of %q: %w", name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var title, doc string
		if err := rows.Scan(&title, &doc); err != nil {
			return nil, fmt.Errorf("failed to scan poem: %w", err)
		}
		var poem model.Poem
		if err := json.Unmarshal([]byte(doc), &poem); err != nil {
			return nil, fmt.Errorf("failed to decode poem %q of %q: %w", title, name, err)
		}
		poet.Poems[title] = &poem
	}
	return poet, rows.Err()
}

// Stats returns the number of stored poets, poems and distinct poem texts.
func (s *DocumentStore) Stats(ctx context.Context) (poets, poems, distinct int, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM poets),
			(SELECT COUNT(*) FROM poems),
			(SELECT COUNT(DISTINCT digest) FROM poems WHERE digest != '')
	`).Scan(&poets, &poems, &distinct)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return poets, poems, distinct, nil
}
