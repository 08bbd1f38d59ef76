package tracker

import (
	"errors"
	"fmt"

	"github.com/warp/finance-tracker/ledger"
)

// ErrReloadRequired is returned by write operations after a partial
// multi-step write failure. The cache can no longer be trusted; the caller
// must Load from the store before writing again.
var ErrReloadRequired = errors.New("cache out of sync with store, reload required")

// StoreError wraps a failed store call with the operation and collection it
// belonged to. For multi-step writes Op names the step that failed, so the
// log shows how far the sequence got.
type StoreError struct {
	Op         string
	Collection ledger.Collection
	Err        error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
