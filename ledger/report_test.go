package ledger_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/finance-tracker/ledger"
)

func expense(id string, value int, date ledger.Date) ledger.Transaction {
	return ledger.Transaction{
		ID:            ledger.TransactionID(id),
		Type:          ledger.TypeExpense,
		Description:   id,
		Category:      ledger.CategoryOther,
		PaymentMethod: ledger.MethodCash,
		Value:         ledger.NewAmountFromInt(value),
		Date:          date,
		PayerUserID:   "user-1",
	}
}

func income(id string, value int, date ledger.Date) ledger.Transaction {
	tx := expense(id, value, date)
	tx.Type = ledger.TypeIncome
	tx.Category = ledger.CategorySalary
	return tx
}

func onCard(tx ledger.Transaction, cardUser ledger.UserID) ledger.Transaction {
	tx.PaymentMethod = ledger.MethodCreditCard
	tx.CardID = "card-1"
	tx.CardName = "Main Card"
	tx.CardUserID = cardUser
	return tx
}

// =============================================================================
// PERIOD TOTALS
// =============================================================================

func TestPeriodTotals_FiltersByTypeAndMonth(t *testing.T) {
	// GIVEN: Expenses and income across February and March
	// WHEN: Summing March expenses
	// THEN: Only March expense rows count

	march := ledger.NewPeriod(time.March, 2025)
	txs := []ledger.Transaction{
		expense("a", 50, ledger.NewDate(2025, time.March, 5)),
		expense("b", 30, ledger.NewDate(2025, time.March, 28)),
		expense("c", 99, ledger.NewDate(2025, time.February, 28)),
		income("d", 500, ledger.NewDate(2025, time.March, 1)),
	}

	got := ledger.PeriodTotals(txs, ledger.TypeExpense, march)
	assert.True(t, got.Equal(ledger.NewAmountFromInt(80)), "got %s", got)

	got = ledger.PeriodTotals(txs, ledger.TypeIncome, march)
	assert.True(t, got.Equal(ledger.NewAmountFromInt(500)), "got %s", got)
}

func TestPeriodTotals_EmptyLedger_IsZero(t *testing.T) {
	got := ledger.PeriodTotals(nil, ledger.TypeExpense, ledger.NewPeriod(time.March, 2025))
	assert.True(t, got.IsZero())
}

func TestUserPeriodTotals_RestrictsToPayer(t *testing.T) {
	march := ledger.NewPeriod(time.March, 2025)
	other := expense("b", 70, ledger.NewDate(2025, time.March, 6))
	other.PayerUserID = "user-2"
	txs := []ledger.Transaction{
		expense("a", 50, ledger.NewDate(2025, time.March, 5)),
		other,
	}

	got := ledger.UserPeriodTotals(txs, ledger.TypeExpense, "user-2", march)
	assert.True(t, got.Equal(ledger.NewAmountFromInt(70)), "got %s", got)
}

// =============================================================================
// CARD USAGE
// =============================================================================

func TestCardUsage_CountsExpensesOnly(t *testing.T) {
	// GIVEN: A card with expense rows, an income-type adjustment and an
	//        off-card expense in the same month
	// WHEN: Computing the card's usage
	// THEN: Only the card's expense rows count against the limit

	march := ledger.NewPeriod(time.March, 2025)
	card := testCard() // limit 2000
	txs := []ledger.Transaction{
		onCard(expense("a", 300, ledger.NewDate(2025, time.March, 5)), "user-1"),
		onCard(expense("b", 200, ledger.NewDate(2025, time.March, 12)), "user-1"),
		onCard(income("refund", 100, ledger.NewDate(2025, time.March, 13)), "user-1"),
		expense("cash", 400, ledger.NewDate(2025, time.March, 14)),
		onCard(expense("old", 999, ledger.NewDate(2025, time.February, 5)), "user-1"),
	}

	u := ledger.CardUsage(card, txs, march)

	assert.True(t, u.Spent.Equal(ledger.NewAmountFromInt(500)), "spent %s", u.Spent)
	assert.True(t, u.Available.Equal(ledger.NewAmountFromInt(1500)), "available %s", u.Available)
	assert.InDelta(t, 25, u.UsagePercent, 0.001)
}

func TestCardUsage_OverLimit_IsReportedNotRejected(t *testing.T) {
	// Spending past the limit yields negative availability and a percentage
	// above 100. No error: the card being over limit is information.

	march := ledger.NewPeriod(time.March, 2025)
	card := testCard()
	txs := []ledger.Transaction{
		onCard(expense("big", 2500, ledger.NewDate(2025, time.March, 5)), "user-1"),
	}

	u := ledger.CardUsage(card, txs, march)

	assert.True(t, u.Available.IsNegative())
	assert.InDelta(t, 125, u.UsagePercent, 0.001)
}

func TestCardUsage_ZeroLimit_NoDivisionByZero(t *testing.T) {
	card := testCard()
	card.Limit = ledger.ZeroAmount()

	u := ledger.CardUsage(card, nil, ledger.NewPeriod(time.March, 2025))
	assert.Zero(t, u.UsagePercent)
}

// =============================================================================
// INVOICE REPORT
// =============================================================================

func TestBuildInvoice_NoTypeFilter_GroupsByCardUser(t *testing.T) {
	// GIVEN: Card rows for two card users plus an income-type adjustment
	// WHEN: Building the March invoice
	// THEN: Every card row of the month appears, income included, grouped by
	//       cardUserId

	march := ledger.NewPeriod(time.March, 2025)
	s := testState(
		onCard(expense("a", 100, ledger.NewDate(2025, time.March, 5)), "user-1"),
		onCard(expense("b", 60, ledger.NewDate(2025, time.March, 8)), "user-2"),
		onCard(income("adj", 20, ledger.NewDate(2025, time.March, 9)), "user-1"),
		onCard(expense("feb", 999, ledger.NewDate(2025, time.February, 8)), "user-1"),
		expense("cash", 50, ledger.NewDate(2025, time.March, 10)),
	)

	inv, err := ledger.BuildInvoice(s, "card-1", march)
	require.NoError(t, err)

	assert.Len(t, inv.Lines, 3)
	assert.True(t, inv.GrandTotal.Equal(ledger.NewAmountFromInt(180)), "grand total %s", inv.GrandTotal)

	require.Len(t, inv.Groups, 2)
	byUser := map[ledger.UserID]ledger.InvoiceGroup{}
	for _, g := range inv.Groups {
		byUser[g.UserID] = g
	}
	assert.True(t, byUser["user-1"].Total.Equal(ledger.NewAmountFromInt(120)))
	assert.True(t, byUser["user-2"].Total.Equal(ledger.NewAmountFromInt(60)))
}

func TestBuildInvoice_MissingCardUser_FallsBackToPayer(t *testing.T) {
	// A row with no cardUserId lands in the payer's group.

	march := ledger.NewPeriod(time.March, 2025)
	tx := onCard(expense("a", 100, ledger.NewDate(2025, time.March, 5)), "")
	tx.PayerUserID = "user-2"
	s := testState(tx)

	inv, err := ledger.BuildInvoice(s, "card-1", march)
	require.NoError(t, err)

	require.Len(t, inv.Groups, 1)
	assert.Equal(t, ledger.UserID("user-2"), inv.Groups[0].UserID)
}

func TestBuildInvoice_LinesSortedNewestFirst(t *testing.T) {
	march := ledger.NewPeriod(time.March, 2025)
	s := testState(
		onCard(expense("early", 10, ledger.NewDate(2025, time.March, 2)), "user-1"),
		onCard(expense("late", 20, ledger.NewDate(2025, time.March, 20)), "user-1"),
	)

	inv, err := ledger.BuildInvoice(s, "card-1", march)
	require.NoError(t, err)

	require.Len(t, inv.Lines, 2)
	assert.Equal(t, ledger.TransactionID("late"), inv.Lines[0].ID)
}

func TestBuildInvoice_NoCardSelected(t *testing.T) {
	_, err := ledger.BuildInvoice(testState(), "", ledger.NewPeriod(time.March, 2025))

	var vErr *ledger.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "card", vErr.Field)
}

func TestBuildInvoice_UnknownCard(t *testing.T) {
	_, err := ledger.BuildInvoice(testState(), "nope", ledger.NewPeriod(time.March, 2025))
	assert.True(t, errors.Is(err, ledger.ErrCardNotFound))
}

func TestBuildInvoice_EmptyMonth_EmptyReport(t *testing.T) {
	inv, err := ledger.BuildInvoice(testState(), "card-1", ledger.NewPeriod(time.December, 2025))
	require.NoError(t, err)

	assert.Empty(t, inv.Lines)
	assert.Empty(t, inv.Groups)
	assert.True(t, inv.GrandTotal.IsZero())
}
