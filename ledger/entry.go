/*
entry.go - Transaction entry form state machine

PURPOSE:
  Models the transaction entry dialog as a tagged state machine instead of
  scattered visibility flags. The machine decides which draft fields are
  semantically required. It never touches stored data; only submit does,
  through RecordTransaction.

STATES:
  Closed -> Open(create) | Open(edit)
  Within Open, the payment method selects the cash-like or credit-card
  sub-state, and within credit-card the full/installment choice toggles the
  installment-count requirement.
*/
package ledger

// FormMode is the top-level state of the entry form.
type FormMode int

const (
	FormClosed FormMode = iota
	FormCreate
	FormEdit
)

// InstallmentChoice selects full payment or an installment split for
// credit-card purchases.
type InstallmentChoice int

const (
	PayInFull InstallmentChoice = iota
	PayInInstallments
)

// Field names a draft field the form may require.
type Field string

const (
	FieldType          Field = "type"
	FieldDescription   Field = "description"
	FieldCategory      Field = "category"
	FieldPaymentMethod Field = "paymentMethod"
	FieldValue         Field = "value"
	FieldDate          Field = "date"
	FieldPayerUser     Field = "payerUserId"
	FieldCard          Field = "cardId"
	FieldCardUser      Field = "cardUserId"
	FieldInstallments  Field = "installments"
)

// EntryForm tracks the dialog state between opening and submit.
type EntryForm struct {
	Mode      FormMode
	EditingID TransactionID
	Method    PaymentMethod
	Choice    InstallmentChoice
}

// OpenCreate opens the form for a new transaction.
func (f *EntryForm) OpenCreate() {
	*f = EntryForm{Mode: FormCreate}
}

// OpenEdit opens the form pre-filled from an existing transaction.
func (f *EntryForm) OpenEdit(t Transaction) {
	*f = EntryForm{Mode: FormEdit, EditingID: t.ID, Method: t.PaymentMethod}
	if t.IsInstallment() {
		f.Choice = PayInInstallments
	}
}

// Close discards the form state.
func (f *EntryForm) Close() {
	*f = EntryForm{}
}

// SetPaymentMethod switches the payment sub-state. Leaving credit-card
// resets the installment choice.
func (f *EntryForm) SetPaymentMethod(m PaymentMethod) {
	f.Method = m
	if !m.RequiresCard() {
		f.Choice = PayInFull
	}
}

// SetInstallmentChoice switches between full and installment payment. The
// choice only sticks while the credit-card sub-state is active.
func (f *EntryForm) SetInstallmentChoice(c InstallmentChoice) {
	if f.Method.RequiresCard() {
		f.Choice = c
	}
}

// IsOpen reports whether the form is visible.
func (f EntryForm) IsOpen() bool { return f.Mode != FormClosed }

// RequiredFields derives the set of required draft fields from the current
// sub-state. A closed form requires nothing.
func (f EntryForm) RequiredFields() []Field {
	if !f.IsOpen() {
		return nil
	}
	fields := []Field{
		FieldType, FieldDescription, FieldCategory,
		FieldPaymentMethod, FieldValue, FieldDate, FieldPayerUser,
	}
	if f.Method.RequiresCard() {
		fields = append(fields, FieldCard)
		if f.Choice == PayInInstallments {
			fields = append(fields, FieldInstallments)
		}
	}
	return fields
}
