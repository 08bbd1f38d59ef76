/*
Package ledger implements the core rules of the finance tracker.

PURPOSE:
  This package contains the domain types and pure operations for recording
  income/expense transactions, expanding credit-card purchases into dated
  installment schedules, and computing period-scoped aggregates (dashboard
  totals, card usage, invoice reports).

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A monetary quantity in the ledger's single currency
  - Transaction: An entry booked against a calendar date
  - Installment: The position of an entry inside a split purchase
  - Card/User: Credit cards with billing cycles, and the people paying

DESIGN PRINCIPLES:
  1. Pure operations: State goes in, a Mutation comes out. The caller owns
     persistence timing and the in-memory cache.
  2. Precision: Uses decimal.Decimal for money arithmetic.
  3. Replacement over edit: Transactions are immutable once created; an edit
     of an installment purchase regenerates the whole group.

SEE ALSO:
  - billing.go: Billing-cycle date arithmetic
  - record.go: Draft validation and installment generation
  - report.go: Period aggregation and invoice reports
  - store.go: Document-store interface the caller persists through
*/
package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Monetary value
// =============================================================================

type Amount struct {
	Value decimal.Decimal
}

func NewAmount(value float64) Amount          { return Amount{Value: decimal.NewFromFloat(value)} }
func NewAmountFromInt(value int) Amount       { return Amount{Value: decimal.NewFromInt(int64(value))} }
func ZeroAmount() Amount                      { return Amount{Value: decimal.Zero} }

func (a Amount) Add(b Amount) Amount          { return Amount{Value: a.Value.Add(b.Value)} }
func (a Amount) Sub(b Amount) Amount          { return Amount{Value: a.Value.Sub(b.Value)} }
func (a Amount) Div(n int) Amount             { return Amount{Value: a.Value.Div(decimal.NewFromInt(int64(n)))} }
func (a Amount) Neg() Amount                  { return Amount{Value: a.Value.Neg()} }
func (a Amount) IsPositive() bool             { return a.Value.IsPositive() }
func (a Amount) IsNegative() bool             { return a.Value.IsNegative() }
func (a Amount) IsZero() bool                 { return a.Value.IsZero() }
func (a Amount) Equal(b Amount) bool          { return a.Value.Equal(b.Value) }
func (a Amount) GreaterThan(b Amount) bool    { return a.Value.GreaterThan(b.Value) }
func (a Amount) Float64() float64             { f, _ := a.Value.Float64(); return f }
func (a Amount) String() string               { return a.Value.String() }

// =============================================================================
// IDENTIFIERS
// =============================================================================

type TransactionID string
type CardID string
type UserID string

// =============================================================================
// ENUMERATIONS
// =============================================================================

type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

type Category string

const (
	CategoryFood          Category = "food"
	CategoryTransport     Category = "transport"
	CategoryShopping      Category = "shopping"
	CategoryBills         Category = "bills"
	CategoryEntertainment Category = "entertainment"
	CategoryHealth        Category = "health"
	CategoryEducation     Category = "education"
	CategorySalary        Category = "salary"
	CategoryInvestments   Category = "investments"
	CategoryOther         Category = "other"
)

var categories = map[Category]bool{
	CategoryFood: true, CategoryTransport: true, CategoryShopping: true,
	CategoryBills: true, CategoryEntertainment: true, CategoryHealth: true,
	CategoryEducation: true, CategorySalary: true, CategoryInvestments: true,
	CategoryOther: true,
}

func (c Category) Valid() bool { return categories[c] }

type PaymentMethod string

const (
	MethodCash       PaymentMethod = "cash"
	MethodDebit      PaymentMethod = "debit"
	MethodCreditCard PaymentMethod = "credit-card"
	MethodPix        PaymentMethod = "pix"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodDebit, MethodCreditCard, MethodPix:
		return true
	}
	return false
}

// RequiresCard reports whether this payment method needs a card selection.
func (m PaymentMethod) RequiresCard() bool { return m == MethodCreditCard }

// =============================================================================
// TRANSACTION - Immutable ledger entry
// =============================================================================

// Installment is the position of a transaction inside a split purchase.
type Installment struct {
	Total   int    // number of installments in the group (>= 2)
	Current int    // 1-based position of this entry
	Label   string // "current/total", shown as-is in views
}

// Transaction is a booked ledger entry. Entries are replaced wholesale on
// edit, never patched field by field, except for single (non-installment)
// rows which the session layer may merge-update in place.
type Transaction struct {
	ID            TransactionID
	Type          TransactionType
	Description   string
	Category      Category
	PaymentMethod PaymentMethod
	Value         Amount
	Date          Date
	PayerUserID   UserID

	// Credit-card fields. CardName is a denormalized copy of the card's name
	// at write time, so rows stay readable after a card rename.
	CardID     CardID
	CardName   string
	CardUserID UserID // person paying the card installment; falls back to PayerUserID

	// Installment linkage. The first-created row of a group (Current == 1) is
	// the anchor; its own id is the group key. Siblings point back at it.
	Installment         *Installment
	ParentTransactionID TransactionID

	CreatedAt time.Time
	UpdatedAt time.Time
}

// GroupKey returns the id identifying this transaction's installment group:
// the parent's id for sibling rows, the row's own id otherwise.
func (t Transaction) GroupKey() TransactionID {
	if t.ParentTransactionID != "" {
		return t.ParentTransactionID
	}
	return t.ID
}

// IsInstallment reports whether the transaction belongs to a split purchase.
func (t Transaction) IsInstallment() bool { return t.Installment != nil }

// =============================================================================
// CARD
// =============================================================================

// Card is a credit card with a billing cycle. ClosingDay is the day-of-month
// after which a purchase is attributed to the following statement period.
// DueDate is informational only.
type Card struct {
	ID         CardID
	Name       string
	Limit      Amount
	ClosingDay int // 1-31
	DueDate    int // 1-31

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateCard checks card fields before persisting.
func ValidateCard(c Card) error {
	if strings.TrimSpace(c.Name) == "" {
		return &ValidationError{Field: "name", Reason: "name is required"}
	}
	if c.Limit.IsNegative() {
		return &ValidationError{Field: "limit", Reason: "limit must not be negative"}
	}
	if c.ClosingDay < 1 || c.ClosingDay > 31 {
		return &ValidationError{Field: "closingDay", Reason: "closing day must be between 1 and 31"}
	}
	if c.DueDate < 1 || c.DueDate > 31 {
		return &ValidationError{Field: "dueDate", Reason: "due date must be between 1 and 31"}
	}
	return nil
}

// =============================================================================
// USER
// =============================================================================

type User struct {
	ID     UserID
	Name   string
	Email  string
	Avatar string // short uppercase initials

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateUser checks user fields before persisting.
func ValidateUser(u User) error {
	if strings.TrimSpace(u.Name) == "" {
		return &ValidationError{Field: "name", Reason: "name is required"}
	}
	return nil
}

// AvatarFor resolves a user's display avatar: explicit initials uppercased,
// else the first letter of the name.
func AvatarFor(name, avatar string) string {
	avatar = strings.TrimSpace(avatar)
	if avatar != "" {
		return strings.ToUpper(avatar)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.ToUpper(string([]rune(name)[0]))
}
