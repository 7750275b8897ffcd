package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ctfiler/internal/coa"
	"ctfiler/internal/statements"
	"ctfiler/internal/trialbalance"
	"ctfiler/pkg/models"
)

func tbEntry(t *testing.T, s State, account string) models.TrialBalanceEntry {
	t.Helper()
	for _, e := range s.TrialBalance {
		if e.Account == account {
			return e
		}
	}
	t.Fatalf("account %q not in trial balance", account)
	return models.TrialBalanceEntry{}
}

func TestRecalculateEndToEnd(t *testing.T) {
	s := NewState()
	s.OpeningBalances = []models.TrialBalanceEntry{
		{Account: "Bank Accounts", Debit: 10000},
	}
	s.Transactions = []models.Transaction{
		{Description: "invoice receipt", Credit: 2000, Category: coa.Resolve("Sales Revenue", nil)},
	}

	s = Recalculate(s)

	assert.Equal(t, 12000.0, tbEntry(t, s, "Bank Accounts").Debit)
	assert.Equal(t, 2000.0, tbEntry(t, s, "Sales Revenue").Credit)

	totals := tbEntry(t, s, models.TotalsAccount)
	assert.Equal(t, 12000.0, totals.Debit)
	assert.Equal(t, 12000.0, totals.Credit)
	assert.True(t, trialbalance.Balanced(s.TrialBalance))

	assert.Equal(t, 2000.0, s.ProfitLoss.Values[statements.Revenue].CurrentYear)
	assert.Equal(t, 12000.0, s.BalanceSheet.Values[statements.CashBankBalances].CurrentYear)
}

func TestRecalculateIdempotent(t *testing.T) {
	s := NewState()
	s.Transactions = []models.Transaction{
		{Description: "rent", Debit: 3000, Category: coa.Resolve("rent expense", nil)},
	}
	s.Breakdowns["Rent Expense"] = []models.BreakdownEntry{
		{Description: "Deposit refund", Credit: 500},
	}

	once := Recalculate(s)
	twice := Recalculate(once)
	assert.Equal(t, once.TrialBalance, twice.TrialBalance)
	assert.Equal(t, once.ProfitLoss.Values, twice.ProfitLoss.Values)
	assert.Equal(t, once.BalanceSheet.Values, twice.BalanceSheet.Values)
}

func TestRecalculateRefreshesUnpinnedLines(t *testing.T) {
	s := NewState()
	s.Transactions = []models.Transaction{
		{Description: "sale", Credit: 1000, Category: coa.Resolve("Sales Revenue", nil)},
	}
	s = Recalculate(s)
	assert.Equal(t, 1000.0, s.ProfitLoss.Values[statements.Revenue].CurrentYear)

	s.Transactions = append(s.Transactions, models.Transaction{
		Description: "sale 2", Credit: 500, Category: coa.Resolve("Sales Revenue", nil),
	})
	s = Recalculate(s)
	assert.Equal(t, 1500.0, s.ProfitLoss.Values[statements.Revenue].CurrentYear)
}

func TestRecalculateClearsRemovedLines(t *testing.T) {
	s := NewState()
	s.Transactions = []models.Transaction{
		{Description: "sale", Credit: 2000, Category: coa.Resolve("Sales Revenue", nil)},
	}
	s = Recalculate(s)
	assert.Equal(t, 2000.0, s.ProfitLoss.Values[statements.Revenue].CurrentYear)
	assert.Equal(t, 2000.0, s.BalanceSheet.Values[statements.CashBankBalances].CurrentYear)

	// Deleting the only contributor drops its lines back to zero; the
	// subtotals and the tax base must not carry the old figure.
	s = DeleteTransaction(s, 0)
	s = Recalculate(s)

	assert.Equal(t, 0.0, s.ProfitLoss.Values[statements.Revenue].CurrentYear)
	assert.Equal(t, 0.0, s.ProfitLoss.Values[statements.GrossProfit].CurrentYear)
	assert.Equal(t, 0.0, s.ProfitLoss.Values[statements.ProfitLossYear].CurrentYear)
	assert.Equal(t, 0.0, s.BalanceSheet.Values[statements.CashBankBalances].CurrentYear)
	assert.Empty(t, s.ProfitLoss.Notes[statements.Revenue])
}

func TestRecalculateKeepsManualEdits(t *testing.T) {
	s := NewState()
	s.Transactions = []models.Transaction{
		{Description: "sale", Credit: 1000, Category: coa.Resolve("Sales Revenue", nil)},
		{Description: "materials", Debit: 400, Category: coa.Resolve("Cost of Goods Sold", nil)},
	}
	s = Recalculate(s)

	s.ProfitLoss = statements.ApplyCellEdit(s.ProfitLoss, s.PLManual, statements.Revenue, statements.CurrentYear, 5000)
	s.Transactions[1].Debit = 600
	s = Recalculate(s)

	assert.Equal(t, 5000.0, s.ProfitLoss.Values[statements.Revenue].CurrentYear)
	assert.Equal(t, 600.0, s.ProfitLoss.Values[statements.CostOfRevenue].CurrentYear)
	assert.Equal(t, 4400.0, s.ProfitLoss.Values[statements.GrossProfit].CurrentYear)
}

func TestRecalculateKeepsTrialBalanceCellEdits(t *testing.T) {
	s := NewState()
	s.Transactions = []models.Transaction{
		{Description: "rent", Debit: 3000, Category: coa.Resolve("rent expense", nil)},
	}
	s = Recalculate(s)

	s = EditTrialBalanceCell(s, "Rent Expense", true, 3500)
	assert.Equal(t, 3500.0, tbEntry(t, s, "Rent Expense").Debit)

	// The override survives later recomputes.
	s = Recalculate(s)
	assert.Equal(t, 3500.0, tbEntry(t, s, "Rent Expense").Debit)
}

func TestApplyCategoriesReResolves(t *testing.T) {
	s := NewState()
	s.Transactions = []models.Transaction{
		{Description: "office rent", Debit: 2000, Category: models.Uncategorized},
		{Description: "unknown", Debit: 50, Category: models.Uncategorized},
	}

	s = ApplyCategories(s, []models.Transaction{
		{Category: "rent expense"},
		{Category: "zzz made up by model"},
	})

	assert.Equal(t, "Expenses | Operating Expenses | Rent Expense", s.Transactions[0].Category)
	assert.Equal(t, models.Uncategorized, s.Transactions[1].Category)
	assert.Equal(t, 1, UncategorizedCount(s))
}

func TestAddCustomCategory(t *testing.T) {
	s := NewState()
	s = AddCustomCategory(s, "Expenses | Office Supplies")
	s = AddCustomCategory(s, "expenses | office supplies")
	require.Len(t, s.CustomCategories, 1)

	got := coa.Resolve("office supplies", s.CustomCategories)
	assert.Equal(t, "Expenses | Office Supplies", got)
}

func TestTransactionOps(t *testing.T) {
	s := NewState()
	s.Transactions = []models.Transaction{
		{Description: "a", Debit: 10},
		{Description: "b", Credit: 20},
	}

	s = SwapTransactionSides(s, 0)
	assert.Equal(t, 0.0, s.Transactions[0].Debit)
	assert.Equal(t, 10.0, s.Transactions[0].Credit)

	s = DeleteTransaction(s, 0)
	require.Len(t, s.Transactions, 1)
	assert.Equal(t, "b", s.Transactions[0].Description)

	s = ApplyExchangeRate(s, 3.6725)
	assert.InDelta(t, 73.45, s.Transactions[0].Credit, 0.01)
	require.NotNil(t, s.Transactions[0].OriginalCredit)
	assert.Equal(t, 20.0, *s.Transactions[0].OriginalCredit)
}
