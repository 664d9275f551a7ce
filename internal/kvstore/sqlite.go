package kvstore

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"nexumdb/internal/keyspace"
)

// sqliteStore is the durable Store implementation. It uses
// modernc.org/sqlite (pure Go, no cgo) purely as an ordered byte-keyed
// page store: a single table of (key BLOB PRIMARY KEY, value BLOB)
// rows gives us exactly the "ordered byte map with prefix scan and
// batched writes" contract the rest of the engine is built against,
// without hand-rolling a B-tree on disk. The SQL surface above this
// file (catalog, executor, evaluator) never sees a SQL statement of
// its own making its way down here.
type sqliteStore struct {
	db *sql.DB
}

const schemaDDL = `CREATE TABLE IF NOT EXISTS kv (
	key BLOB PRIMARY KEY,
	value BLOB NOT NULL
) WITHOUT ROWID`

// Open opens (creating if necessary) a durable Store at path.
func Open(path string) (Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	db.SetMaxOpenConns(1) // modernc.org/sqlite is not safe for concurrent writers on one handle
	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return nil, &OpenError{Path: path, Err: err}
	}
	return &sqliteStore{db: db}, nil
}

// OpenMemory opens a durable-API, non-persisted sqlite database: a
// shared-cache in-memory instance, so every handle OpenMemory returns
// within one process sees the same data while any of them is open.
// The CLI's default memory mode uses NewMemory, not this. Unlike
// NewMemory's plain map, this exercises
// the same code path as the on-disk store (and its SQL underneath),
// which is useful for tests that want to catch SQL-layer bugs without
// touching the filesystem.
func OpenMemory() (Store, error) {
	return Open("file::memory:?cache=shared")
}

// OpenError is returned when the underlying sqlite handle could not be
// opened or initialized.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open store at %q: %v", e.Path, e.Err)
}
func (e *OpenError) Unwrap() error { return e.Err }

func (s *sqliteStore) Get(key []byte) ([]byte, bool, error) {
	var v []byte
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get: %w", err)
	}
	return v, true, nil
}

func (s *sqliteStore) Set(key, value []byte) error {
	if _, err := s.db.Exec(`INSERT INTO kv(key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value); err != nil {
		return fmt.Errorf("set: %w", err)
	}
	return nil
}

func (s *sqliteStore) Delete(key []byte) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

func (s *sqliteStore) ScanPrefix(prefix []byte) ([]KV, error) {
	lo, hi := keyspace.PrefixBounds(prefix)
	var rows *sql.Rows
	var err error
	if hi == nil {
		rows, err = s.db.Query(`SELECT key, value FROM kv WHERE key >= ? ORDER BY key`, lo)
	} else {
		rows, err = s.db.Query(`SELECT key, value FROM kv WHERE key >= ? AND key < ? ORDER BY key`, lo, hi)
	}
	if err != nil {
		return nil, fmt.Errorf("scan prefix: %w", err)
	}
	defer rows.Close()

	var out []KV
	for rows.Next() {
		var k, v []byte
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan prefix: %w", err)
		}
		out = append(out, KV{Key: k, Value: v})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan prefix: %w", err)
	}
	return out, nil
}

func (s *sqliteStore) BatchSet(pairs []KV) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("batch set: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO kv(key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("batch set: %w", err)
	}
	for _, kv := range pairs {
		if _, err := stmt.Exec(kv.Key, kv.Value); err != nil {
			stmt.Close()
			tx.Rollback()
			return fmt.Errorf("batch set: %w", err)
		}
	}
	stmt.Close()
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("batch set: %w", err)
	}
	return nil
}

func (s *sqliteStore) Flush() error {
	_, err := s.db.Exec(`PRAGMA wal_checkpoint(TRUNCATE)`)
	return err
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}
