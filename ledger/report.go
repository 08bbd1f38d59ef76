/*
report.go - Period aggregation, card usage and invoice reports

PURPOSE:
  Read-side queries over a transaction snapshot, all scoped to a Period
  (calendar month).

FILTER ASYMMETRY:
  CardUsage counts expense-type rows only; InvoiceReport intentionally does
  NOT filter by type, because an invoice may include adjustments booked as
  income-type entries. Keep the two filters separate.
*/
package ledger

import "fmt"

// =============================================================================
// PERIOD TOTALS
// =============================================================================

// PeriodTotals sums the value of every transaction of the given type booked
// inside the period. Drives the dashboard income/expense cards.
func PeriodTotals(txs []Transaction, t TransactionType, p Period) Amount {
	total := ZeroAmount()
	for _, tx := range txs {
		if tx.Type == t && p.Contains(tx.Date) {
			total = total.Add(tx.Value)
		}
	}
	return total
}

// UserPeriodTotals is PeriodTotals restricted to a single payer. Drives the
// per-user expense comparison.
func UserPeriodTotals(txs []Transaction, t TransactionType, user UserID, p Period) Amount {
	total := ZeroAmount()
	for _, tx := range txs {
		if tx.Type == t && tx.PayerUserID == user && p.Contains(tx.Date) {
			total = total.Add(tx.Value)
		}
	}
	return total
}

// =============================================================================
// CARD USAGE
// =============================================================================

// Usage is a card's statement position for one period. Available may go
// negative and UsagePercent past 100; being over limit is a legitimate
// signal, not an error.
type Usage struct {
	Spent        Amount
	Available    Amount
	UsagePercent float64
}

// CardUsage sums the period's expense-type transactions on the card against
// its limit.
func CardUsage(card Card, txs []Transaction, p Period) Usage {
	spent := ZeroAmount()
	for _, tx := range txs {
		if tx.CardID == card.ID && tx.Type == TypeExpense && p.Contains(tx.Date) {
			spent = spent.Add(tx.Value)
		}
	}

	u := Usage{
		Spent:     spent,
		Available: card.Limit.Sub(spent),
	}
	if card.Limit.IsPositive() {
		u.UsagePercent = spent.Float64() / card.Limit.Float64() * 100
	}
	return u
}

// =============================================================================
// INVOICE REPORT
// =============================================================================

// InvoiceGroup is the slice of an invoice owed by one person.
type InvoiceGroup struct {
	UserID       UserID
	Transactions []Transaction
	Total        Amount
}

// Invoice is a per-card statement for one period, grouped by the person
// responsible for each installment.
type Invoice struct {
	Card       Card
	Period     Period
	Lines      []Transaction
	Groups     []InvoiceGroup
	GrandTotal Amount
}

// BuildInvoice filters the card's transactions for the period and groups
// them by CardUserID, falling back to PayerUserID where no card user was
// chosen. Group order follows first appearance.
//
// Returns a ValidationError when no card id was selected and ErrCardNotFound
// (with an empty report) when the id matches no card.
func BuildInvoice(s State, cardID CardID, p Period) (Invoice, error) {
	if cardID == "" {
		return Invoice{}, &ValidationError{Field: "card", Reason: "select a card"}
	}
	card, ok := s.CardByID(cardID)
	if !ok {
		return Invoice{}, fmt.Errorf("invoice report: card %q: %w", cardID, ErrCardNotFound)
	}

	inv := Invoice{Card: card, Period: p, GrandTotal: ZeroAmount()}
	groupIdx := make(map[UserID]int)

	for _, tx := range SortByDateDesc(s.Transactions) {
		if tx.CardID != cardID || !p.Contains(tx.Date) {
			continue
		}
		inv.Lines = append(inv.Lines, tx)
		inv.GrandTotal = inv.GrandTotal.Add(tx.Value)

		payer := tx.CardUserID
		if payer == "" {
			payer = tx.PayerUserID
		}
		i, ok := groupIdx[payer]
		if !ok {
			i = len(inv.Groups)
			groupIdx[payer] = i
			inv.Groups = append(inv.Groups, InvoiceGroup{UserID: payer, Total: ZeroAmount()})
		}
		inv.Groups[i].Transactions = append(inv.Groups[i].Transactions, tx)
		inv.Groups[i].Total = inv.Groups[i].Total.Add(tx.Value)
	}
	return inv, nil
}
