package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/warp/finance-tracker/ledger"
)

func TestEntryForm_OpenCloseLifecycle(t *testing.T) {
	var f ledger.EntryForm
	assert.False(t, f.IsOpen())
	assert.Nil(t, f.RequiredFields())

	f.OpenCreate()
	assert.True(t, f.IsOpen())
	assert.Equal(t, ledger.FormCreate, f.Mode)

	f.Close()
	assert.False(t, f.IsOpen())
	assert.Empty(t, f.EditingID)
}

func TestEntryForm_OpenEdit_PrefillsFromTransaction(t *testing.T) {
	tx := ledger.Transaction{
		ID:            "tx-1",
		PaymentMethod: ledger.MethodCreditCard,
		Installment:   &ledger.Installment{Total: 3, Current: 1, Label: "1/3"},
	}

	var f ledger.EntryForm
	f.OpenEdit(tx)

	assert.Equal(t, ledger.FormEdit, f.Mode)
	assert.Equal(t, ledger.TransactionID("tx-1"), f.EditingID)
	assert.Equal(t, ledger.MethodCreditCard, f.Method)
	assert.Equal(t, ledger.PayInInstallments, f.Choice)
}

func TestEntryForm_RequiredFields_FollowPaymentSubState(t *testing.T) {
	// Cash-like methods never require card fields; credit-card adds the card,
	// and choosing installments adds the count.

	var f ledger.EntryForm
	f.OpenCreate()

	f.SetPaymentMethod(ledger.MethodPix)
	assert.NotContains(t, f.RequiredFields(), ledger.FieldCard)
	assert.NotContains(t, f.RequiredFields(), ledger.FieldInstallments)

	f.SetPaymentMethod(ledger.MethodCreditCard)
	assert.Contains(t, f.RequiredFields(), ledger.FieldCard)
	assert.NotContains(t, f.RequiredFields(), ledger.FieldInstallments)

	f.SetInstallmentChoice(ledger.PayInInstallments)
	assert.Contains(t, f.RequiredFields(), ledger.FieldInstallments)
}

func TestEntryForm_LeavingCreditCard_ResetsInstallmentChoice(t *testing.T) {
	var f ledger.EntryForm
	f.OpenCreate()
	f.SetPaymentMethod(ledger.MethodCreditCard)
	f.SetInstallmentChoice(ledger.PayInInstallments)

	f.SetPaymentMethod(ledger.MethodDebit)
	assert.Equal(t, ledger.PayInFull, f.Choice)

	// The choice does not stick while credit-card is inactive.
	f.SetInstallmentChoice(ledger.PayInInstallments)
	assert.Equal(t, ledger.PayInFull, f.Choice)
}
