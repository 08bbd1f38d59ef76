/*
errors.go - Centralized error types for the ledger core

PURPOSE:
  All error types in one place. Callers wrap these with additional context.

ERROR CATEGORIES:
  1. Validation errors - Missing or invalid user-supplied fields. Recoverable;
     surfaced to the user naming the offending field, no state change.
  2. Invalid-input errors - Malformed arguments to billing-cycle arithmetic.
     Programmer error; should not occur with validated callers.
  3. Not-found errors - References to cards/transactions that don't exist.

USAGE:
  var vErr *ledger.ValidationError
  if errors.As(err, &vErr) {
      // highlight vErr.Field in the form
  }
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrClosingDayRange is returned when a card closing day falls outside 1-31.
	ErrClosingDayRange = errors.New("closing day outside 1-31")

	// ErrInstallmentTotal is returned when an installment count is below 1.
	ErrInstallmentTotal = errors.New("installment total below 1")

	// ErrInstallmentIndex is returned when an installment index falls outside
	// [1, total].
	ErrInstallmentIndex = errors.New("installment index outside 1..total")

	// ErrCardNotFound is returned when a referenced card id does not exist.
	ErrCardNotFound = errors.New("card not found")

	// ErrTransactionNotFound is returned when a referenced transaction id does
	// not exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrUserNotFound is returned when a referenced user id does not exist.
	ErrUserNotFound = errors.New("user not found")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// ValidationError names the draft field that blocked submission.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s is required", e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func missingField(field string) error {
	return &ValidationError{Field: field}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsValidation reports whether the error is a user-recoverable validation
// failure (as opposed to a programming or store error).
func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// IsNotFound reports whether the error indicates a missing entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCardNotFound) ||
		errors.Is(err, ErrTransactionNotFound) ||
		errors.Is(err, ErrUserNotFound)
}

// IsInvalidInput reports whether the error came from malformed billing-cycle
// arguments.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrClosingDayRange) ||
		errors.Is(err, ErrInstallmentTotal) ||
		errors.Is(err, ErrInstallmentIndex)
}
