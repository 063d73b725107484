package fuzzywuzzy

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const normalizerMetaKey = "normalizer"

// Store persists a trained candidate table in a SQLite database. Rows are
// written in candidate insertion order and read back in rowid order, so the
// sentence/path pairing and the recognizer's tie-break order survive a
// round trip through disk.
type Store struct {
	db   *sql.DB
	path string
}

// OpenStore opens (creating if needed) the examples database at path.
func OpenStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create examples dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open examples db: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// WriteExamples replaces the stored table with the given candidate set and
// records the normalizer signature the set was trained with. The write is
// transactional; a failed training run leaves the previous table intact.
func (s *Store) WriteExamples(set *ExampleSet, normSignature string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin examples write: %w", err)
	}
	defer tx.Rollback()

	stmts := []string{
		`DROP TABLE IF EXISTS intents`,
		`CREATE TABLE intents (intent TEXT NOT NULL, sentence TEXT NOT NULL, path TEXT NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT NOT NULL)`,
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("prepare examples schema: %w", err)
		}
	}

	insert, err := tx.Prepare(`INSERT INTO intents (intent, sentence, path) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer insert.Close()

	for _, c := range set.Candidates(nil) {
		encoded, err := json.Marshal(c.Path)
		if err != nil {
			return fmt.Errorf("encode path for %q: %w", c.Text, err)
		}
		if _, err := insert.Exec(c.Intent, c.Text, string(encoded)); err != nil {
			return fmt.Errorf("insert example %q: %w", c.Text, err)
		}
	}

	if _, err := tx.Exec(
		`INSERT INTO meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		normalizerMetaKey, normSignature,
	); err != nil {
		return fmt.Errorf("record normalizer signature: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit examples write: %w", err)
	}
	return nil
}

// ReadExamples loads the stored candidate table in rowid order together
// with the normalizer signature it was trained with. Callers should compare
// the signature against their query-time normalizer; a mismatch degrades
// match quality silently if ignored.
func (s *Store) ReadExamples() (*ExampleSet, string, error) {
	set := NewExampleSet()

	rows, err := s.db.Query(`SELECT intent, sentence, path FROM intents ORDER BY rowid`)
	if err != nil {
		return nil, "", fmt.Errorf("query examples: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var intent, sentence, encoded string
		if err := rows.Scan(&intent, &sentence, &encoded); err != nil {
			return nil, "", fmt.Errorf("scan example row: %w", err)
		}
		var path []int
		if err := json.Unmarshal([]byte(encoded), &path); err != nil {
			return nil, "", fmt.Errorf("decode path for %q: %w", sentence, err)
		}
		set.Add(intent, sentence, path)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("read examples: %w", err)
	}

	var signature string
	err = s.db.QueryRow(`SELECT value FROM meta WHERE key = ?`, normalizerMetaKey).Scan(&signature)
	if err != nil && err != sql.ErrNoRows {
		return nil, "", fmt.Errorf("read normalizer signature: %w", err)
	}
	return set, signature, nil
}
