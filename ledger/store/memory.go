// Package store provides Store implementations.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/warp/finance-tracker/ledger"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu          sync.RWMutex
	collections map[ledger.Collection]map[string]ledger.Document
	now         func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		collections: make(map[ledger.Collection]map[string]ledger.Document),
		now:         time.Now,
	}
}

// SetClock replaces the timestamp source. Tests use this for deterministic
// createdAt ordering.
func (m *Memory) SetClock(now func() time.Time) { m.now = now }

func (m *Memory) Create(_ context.Context, c ledger.Collection, doc ledger.Document) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, _ := doc[ledger.FieldID].(string)
	if id == "" {
		id = uuid.NewString()
	}

	stored := cloneDoc(doc)
	stored[ledger.FieldID] = id
	stamp := m.now().UTC().Format(time.RFC3339Nano)
	stored[ledger.FieldCreatedAt] = stamp
	stored[ledger.FieldUpdatedAt] = stamp

	if m.collections[c] == nil {
		m.collections[c] = make(map[string]ledger.Document)
	}
	m.collections[c][id] = stored
	return id, nil
}

func (m *Memory) Update(_ context.Context, c ledger.Collection, id string, fields ledger.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.collections[c][id]
	if !ok {
		return &NotFoundError{Collection: c, ID: id}
	}
	for k, v := range cloneDoc(fields) {
		if k == ledger.FieldID {
			continue
		}
		doc[k] = v
	}
	doc[ledger.FieldUpdatedAt] = m.now().UTC().Format(time.RFC3339Nano)
	return nil
}

func (m *Memory) Delete(_ context.Context, c ledger.Collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.collections[c], id)
	return nil
}

func (m *Memory) QueryAll(_ context.Context, c ledger.Collection, order ...ledger.QueryOrder) ([]ledger.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := make([]ledger.Document, 0, len(m.collections[c]))
	for _, doc := range m.collections[c] {
		docs = append(docs, cloneDoc(doc))
	}

	// Stable default: creation order, oldest first.
	sortBy := ledger.QueryOrder{Field: ledger.FieldCreatedAt}
	if len(order) > 0 {
		sortBy = order[0]
	}
	sort.SliceStable(docs, func(i, j int) bool {
		a, _ := docs[i][sortBy.Field].(string)
		b, _ := docs[j][sortBy.Field].(string)
		if sortBy.Descending {
			return a > b
		}
		return a < b
	})
	return docs, nil
}

// Len reports the number of documents in a collection.
func (m *Memory) Len(c ledger.Collection) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.collections[c])
}

func cloneDoc(doc ledger.Document) ledger.Document {
	out := make(ledger.Document, len(doc))
	for k, v := range doc {
		if nested, ok := v.(map[string]any); ok {
			v = map[string]any(cloneDoc(nested))
		}
		out[k] = v
	}
	return out
}

// NotFoundError reports an update against a missing document.
type NotFoundError struct {
	Collection ledger.Collection
	ID         string
}

func (e *NotFoundError) Error() string {
	return "document not found: " + string(e.Collection) + "/" + e.ID
}

// Compile-time check.
var _ ledger.Store = (*Memory)(nil)
