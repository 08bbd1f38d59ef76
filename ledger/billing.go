/*
billing.go - Billing-cycle date arithmetic

PURPOSE:
  Maps a purchase date, a card's closing day and an installment index to the
  calendar date the installment is booked against.

THE RULE:
  A card statement closes on the card's closing day. A purchase made AFTER
  the closing day belongs to the next statement, so its first installment is
  booked one month out; a purchase made on or before the closing day is
  booked in its own month. Installment i then lands i-1 months after the
  first one.

MONTH ROLLOVER:
  The day-of-month of every installment equals the purchase day, carried
  through native calendar arithmetic. Buying on Jan 31 with a 3-month split
  produces entries that roll into early March where February is too short;
  the day is NOT clamped to the end of the month. See Date.AddMonths.
*/
package ledger

import "fmt"

// InstallmentDate computes the booking date for installment index (1-based)
// of a purchase split into total installments on a card closing on
// closingDay.
//
// Fails with an invalid-input sentinel when closingDay is outside 1-31,
// total is below 1, or index is outside [1, total].
func InstallmentDate(purchase Date, closingDay, index, total int) (Date, error) {
	if closingDay < 1 || closingDay > 31 {
		return Date{}, fmt.Errorf("installment date: closing day %d: %w", closingDay, ErrClosingDayRange)
	}
	if total < 1 {
		return Date{}, fmt.Errorf("installment date: total %d: %w", total, ErrInstallmentTotal)
	}
	if index < 1 || index > total {
		return Date{}, fmt.Errorf("installment date: index %d of %d: %w", index, total, ErrInstallmentIndex)
	}

	// Past the cutoff: the whole schedule shifts one month forward.
	offset := index - 1
	if purchase.Day() > closingDay {
		offset = index
	}
	return purchase.AddMonths(offset), nil
}
