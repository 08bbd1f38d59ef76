/*
store.go - Store backend factory

PURPOSE:
  Builds the document store the server runs on. The tracker only depends on
  the ledger.Store interface; this package picks the concrete backend from
  configuration so cmd/server stays free of driver imports.

BACKENDS:
  memory   In-process store, nothing survives a restart. Good for demos
           and tests.
  sqlite   Single-file SQLite database. The default for real use.
*/
package factory

import (
	"fmt"

	"github.com/warp/finance-tracker/ledger"
	memstore "github.com/warp/finance-tracker/ledger/store"
	"github.com/warp/finance-tracker/store/sqlite"
)

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// NewStore builds the configured backend. The returned closer releases the
// backend's resources and is safe to call on every path, including memory.
func NewStore(backend, dbPath string) (ledger.Store, func() error, error) {
	switch backend {
	case BackendMemory:
		return memstore.NewMemory(), func() error { return nil }, nil
	case BackendSQLite:
		s, err := sqlite.New(dbPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
