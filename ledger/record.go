/*
record.go - Draft validation and installment generation

PURPOSE:
  Expands a drafted transaction into the rows to persist. A cash or debit
  entry, or a credit-card purchase paid in full, becomes a single row. A
  credit-card purchase split into N installments becomes N rows, each dated
  by the card's billing cycle (see billing.go) and each carrying 1/N of the
  drafted value.

GROUP LINKAGE:
  Row ids are generated client-side (uuid), so the anchor's id is known
  before anything is written. Sibling rows carry ParentTransactionID from the
  start and the caller may issue every create of a group concurrently once
  the deletes have completed.

EDITS:
  Editing any row of an installment group regenerates the entire group from
  the edited draft: the Mutation lists every existing group row for deletion
  alongside the freshly generated rows. Deletions must complete before the
  replacement rows are written.

DIVISION:
  The per-installment value is value/total with no cent-level reconciliation.
  100/3 yields three rows of 33.33...; the rows do not sum back to exactly
  100. Views display the drift as-is rather than silently re-adding a
  remainder to one row.

SEE ALSO:
  - billing.go: InstallmentDate
  - report.go: Aggregation over the produced rows
*/
package ledger

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// =============================================================================
// DRAFT - A transaction as submitted from the entry form
// =============================================================================

type Draft struct {
	Type          TransactionType
	Description   string
	Category      Category
	PaymentMethod PaymentMethod
	Value         Amount
	Date          Date
	PayerUserID   UserID

	// Credit-card fields, meaningful only when PaymentMethod requires a card.
	CardID     CardID
	CardUserID UserID

	// Split selects installment payment; Installments is the total count and
	// must be at least 2 when Split is set.
	Split        bool
	Installments int
}

// =============================================================================
// MUTATION - Store writes the caller must perform
// =============================================================================

// Mutation describes the writes produced by a record operation. ToDelete
// rows must be removed before ToCreate rows are written, so an interrupted
// edit cannot leave both the old and the new group behind.
type Mutation struct {
	ToCreate []Transaction
	ToDelete []TransactionID
}

// IDGenerator produces ids for freshly generated rows. Production uses
// UUIDs; tests inject deterministic sequences.
type IDGenerator func() TransactionID

// UUIDs is the default IDGenerator.
func UUIDs() TransactionID { return TransactionID(uuid.NewString()) }

// =============================================================================
// RECORD TRANSACTION
// =============================================================================

// RecordTransaction validates the draft against the snapshot and expands it
// into the rows to persist. existingGroupID, when non-empty, marks an edit
// of the installment group keyed by that id: every current member of the
// group is scheduled for deletion and the group is regenerated from the
// draft.
func RecordTransaction(s State, d Draft, existingGroupID TransactionID, newID IDGenerator) (Mutation, error) {
	if newID == nil {
		newID = UUIDs
	}
	if err := validateDraft(d); err != nil {
		return Mutation{}, err
	}

	// A row references a card only when paid by credit-card. Stray card
	// fields left over from a payment-method switch are dropped here so they
	// never reach card usage or invoice aggregates.
	if !d.PaymentMethod.RequiresCard() {
		d.CardID = ""
		d.CardUserID = ""
	}

	var card Card
	if d.PaymentMethod.RequiresCard() {
		var ok bool
		card, ok = s.CardByID(d.CardID)
		if !ok {
			return Mutation{}, fmt.Errorf("record transaction: card %q: %w", d.CardID, ErrCardNotFound)
		}
	}

	var m Mutation
	if existingGroupID != "" {
		for _, t := range InstallmentGroup(s.Transactions, existingGroupID) {
			m.ToDelete = append(m.ToDelete, t.ID)
		}
	}

	if !d.Split {
		m.ToCreate = []Transaction{singleRow(d, card, newID())}
		return m, nil
	}

	rows, err := installmentRows(d, card, newID)
	if err != nil {
		return Mutation{}, err
	}
	m.ToCreate = rows
	return m, nil
}

func validateDraft(d Draft) error {
	switch {
	case !d.Type.Valid():
		return missingField("type")
	case strings.TrimSpace(d.Description) == "":
		return missingField("description")
	case !d.Category.Valid():
		return missingField("category")
	case !d.PaymentMethod.Valid():
		return missingField("paymentMethod")
	case !d.Value.IsPositive():
		return &ValidationError{Field: "value", Reason: "value must be positive"}
	case d.Date.IsZero():
		return missingField("date")
	case d.PayerUserID == "":
		return missingField("payerUserId")
	}
	if d.PaymentMethod.RequiresCard() && d.CardID == "" {
		return missingField("cardId")
	}
	if d.Split && !d.PaymentMethod.RequiresCard() {
		return &ValidationError{Field: "installments", Reason: "installment payment requires a credit card"}
	}
	if d.Split && d.Installments < 2 {
		return &ValidationError{Field: "installments", Reason: "installment payment needs at least 2 installments"}
	}
	return nil
}

func singleRow(d Draft, card Card, id TransactionID) Transaction {
	return Transaction{
		ID:            id,
		Type:          d.Type,
		Description:   d.Description,
		Category:      d.Category,
		PaymentMethod: d.PaymentMethod,
		Value:         d.Value,
		Date:          d.Date,
		PayerUserID:   d.PayerUserID,
		CardID:        d.CardID,
		CardName:      card.Name,
		CardUserID:    d.CardUserID,
	}
}

func installmentRows(d Draft, card Card, newID IDGenerator) ([]Transaction, error) {
	total := d.Installments
	each := d.Value.Div(total)

	rows := make([]Transaction, 0, total)
	var anchorID TransactionID
	for i := 1; i <= total; i++ {
		date, err := InstallmentDate(d.Date, card.ClosingDay, i, total)
		if err != nil {
			return nil, fmt.Errorf("record transaction: %w", err)
		}

		row := singleRow(d, card, newID())
		row.Value = each
		row.Date = date
		row.Installment = &Installment{
			Total:   total,
			Current: i,
			Label:   fmt.Sprintf("%d/%d", i, total),
		}
		if i == 1 {
			anchorID = row.ID
		} else {
			row.ParentTransactionID = anchorID
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// =============================================================================
// CARD CASCADE DELETE
// =============================================================================

// CardCascade describes the deletions removing a card: every transaction
// referencing the card first, then the card itself.
type CardCascade struct {
	DeleteTransactions []TransactionID
	DeleteCard         CardID
}

// DeleteCardCascade computes the cascade for removing the given card.
func DeleteCardCascade(s State, id CardID) (CardCascade, error) {
	if _, ok := s.CardByID(id); !ok {
		return CardCascade{}, fmt.Errorf("delete card: %q: %w", id, ErrCardNotFound)
	}
	cascade := CardCascade{DeleteCard: id}
	for _, t := range s.Transactions {
		if t.CardID == id {
			cascade.DeleteTransactions = append(cascade.DeleteTransactions, t.ID)
		}
	}
	return cascade, nil
}
