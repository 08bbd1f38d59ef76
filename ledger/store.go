/*
store.go - Document store interface

PURPOSE:
  Defines the contract between the session layer and the external document
  store. Documents live in named collections, carry a string id, and are
  stamped with server-side creation/update timestamps. Different
  implementations can use SQLite or in-memory storage.

COLLECTIONS:
  transactions, cards, users. No other wire protocol or file format exists.

EXTERNALLY-ASSIGNED IDS:
  Create honors a non-empty "id" field on the incoming document, which lets
  callers generate ids client-side and link documents (installment siblings
  to their anchor) before anything is written. Without one, the store
  assigns a fresh id.

TIMESTAMPS:
  Implementations stamp "createdAt" on Create and "updatedAt" on Create and
  Update, as RFC 3339 strings. QueryAll can order descending by either.

IMPLEMENTATIONS:
  - ledger/store/memory.go: In-memory, for tests and dev
  - store/sqlite/sqlite.go: SQLite-backed, for production

SEE ALSO:
  - tracker: the session layer issuing these calls
*/
package ledger

import "context"

// Collection names a document collection.
type Collection string

const (
	CollectionTransactions Collection = "transactions"
	CollectionCards        Collection = "cards"
	CollectionUsers        Collection = "users"
)

// Document is a schemaless record as stored. Values are JSON-compatible:
// strings, float64 numbers, bools, nested maps.
type Document map[string]any

// FieldID is the reserved id key on documents.
const FieldID = "id"

// Timestamp fields stamped by the store.
const (
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

// QueryOrder orders QueryAll results by a timestamp field.
type QueryOrder struct {
	Field      string
	Descending bool
}

// OrderByCreatedDesc orders newest-created documents first.
func OrderByCreatedDesc() QueryOrder {
	return QueryOrder{Field: FieldCreatedAt, Descending: true}
}

// Store is the external system of record. All methods are synchronous
// requests; a failed call surfaces as an error with no retry or rollback
// performed here.
type Store interface {
	// Create persists a new document and returns its id. A non-empty "id"
	// field on doc is honored; otherwise the store assigns one. Stamps
	// createdAt/updatedAt.
	Create(ctx context.Context, c Collection, doc Document) (string, error)

	// Update merges fields into an existing document and stamps updatedAt.
	Update(ctx context.Context, c Collection, id string, fields Document) error

	// Delete removes a document. Deleting an absent id is not an error.
	Delete(ctx context.Context, c Collection, id string) error

	// QueryAll returns every document in the collection, optionally ordered.
	QueryAll(ctx context.Context, c Collection, order ...QueryOrder) ([]Document, error)
}
