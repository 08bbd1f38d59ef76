/*
Package sqlite provides a SQLite-backed implementation of the document store.

PURPOSE:
  Persists the tracker's collections in a single SQLite database. Documents
  are stored as JSON bodies keyed by (collection, id), which keeps the store
  schemaless the way the session layer expects while still getting ordered
  queries and durable writes.

TABLE:
  documents(collection, id, body, created_at, updated_at)
  Primary key (collection, id). created_at/updated_at are RFC 3339 strings,
  also mirrored into the JSON body so reads see the stamped fields.

MERGE SEMANTICS:
  Update reads the stored body, overlays the incoming fields, and writes the
  result back. Partial documents therefore merge rather than replace.

CONCURRENCY:
  Uses sync.Mutex for write serialization plus WAL mode, so readers are not
  blocked by the single writer.

USAGE:
  st, err := sqlite.New("./data/tracker.db")
  if err != nil {
      log.Fatal(err)
  }
  defer st.Close()

SEE ALSO:
  - ledger/store.go: Interface definition
  - ledger/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/finance-tracker/ledger"
)

// Store implements ledger.Store on SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// New opens (and migrates) a store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		collection TEXT NOT NULL,
		id         TEXT NOT NULL,
		body       TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (collection, id)
	);

	CREATE INDEX IF NOT EXISTS idx_documents_created
		ON documents(collection, created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Create(ctx context.Context, c ledger.Collection, doc ledger.Document) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, _ := doc[ledger.FieldID].(string)
	if id == "" {
		id = uuid.NewString()
	}
	stamp := time.Now().UTC().Format(time.RFC3339Nano)

	body := make(ledger.Document, len(doc)+3)
	for k, v := range doc {
		body[k] = v
	}
	body[ledger.FieldID] = id
	body[ledger.FieldCreatedAt] = stamp
	body[ledger.FieldUpdatedAt] = stamp

	raw, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("create %s/%s: encode: %w", c, id, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, body, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		string(c), id, string(raw), stamp, stamp)
	if err != nil {
		return "", fmt.Errorf("create %s/%s: %w", c, id, err)
	}
	return id, nil
}

func (s *Store) Update(ctx context.Context, c ledger.Collection, id string, fields ledger.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE collection = ? AND id = ?`,
		string(c), id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update %s/%s: document not found", c, id)
	}
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", c, id, err)
	}

	var body ledger.Document
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		return fmt.Errorf("update %s/%s: decode: %w", c, id, err)
	}
	for k, v := range fields {
		if k == ledger.FieldID {
			continue
		}
		body[k] = v
	}
	stamp := time.Now().UTC().Format(time.RFC3339Nano)
	body[ledger.FieldUpdatedAt] = stamp

	merged, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("update %s/%s: encode: %w", c, id, err)
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE documents SET body = ?, updated_at = ? WHERE collection = ? AND id = ?`,
		string(merged), stamp, string(c), id)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", c, id, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, c ledger.Collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`,
		string(c), id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", c, id, err)
	}
	return nil
}

func (s *Store) QueryAll(ctx context.Context, c ledger.Collection, order ...ledger.QueryOrder) ([]ledger.Document, error) {
	query := `SELECT body FROM documents WHERE collection = ? ORDER BY created_at ASC`
	if len(order) > 0 {
		col := "created_at"
		if order[0].Field == ledger.FieldUpdatedAt {
			col = "updated_at"
		}
		dir := "ASC"
		if order[0].Descending {
			dir = "DESC"
		}
		query = fmt.Sprintf(`SELECT body FROM documents WHERE collection = ? ORDER BY %s %s`, col, dir)
	}

	rows, err := s.db.QueryContext(ctx, query, string(c))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", c, err)
	}
	defer rows.Close()

	var docs []ledger.Document
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("query %s: scan: %w", c, err)
		}
		var doc ledger.Document
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return nil, fmt.Errorf("query %s: decode: %w", c, err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Compile-time check.
var _ ledger.Store = (*Store)(nil)
