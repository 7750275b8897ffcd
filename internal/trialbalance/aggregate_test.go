package trialbalance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ctfiler/pkg/models"
)

func entryFor(t *testing.T, entries []models.TrialBalanceEntry, account string) models.TrialBalanceEntry {
	t.Helper()
	for _, e := range entries {
		if e.Account == account {
			return e
		}
	}
	t.Fatalf("account %q not found", account)
	return models.TrialBalanceEntry{}
}

func TestRecomputeBreakdownNetting(t *testing.T) {
	entries := []models.TrialBalanceEntry{
		{Account: "Rent Expense", Debit: 100, Credit: 0},
	}
	breakdowns := map[string][]models.BreakdownEntry{
		"Rent Expense": {
			{Description: "Deposit refund", Credit: 30},
		},
	}

	out := Recompute(entries, breakdowns)

	rent := entryFor(t, out, "Rent Expense")
	assert.Equal(t, 70.0, rent.Debit)
	assert.Equal(t, 0.0, rent.Credit)
	require.NotNil(t, rent.BaseDebit)
	assert.Equal(t, 100.0, *rent.BaseDebit)
}

func TestRecomputeNetFlipsSide(t *testing.T) {
	entries := []models.TrialBalanceEntry{
		{Account: "Accounts Receivable", Debit: 50},
	}
	breakdowns := map[string][]models.BreakdownEntry{
		"Accounts Receivable": {
			{Description: "Customer overpayment", Credit: 120},
		},
	}

	out := Recompute(entries, breakdowns)

	ar := entryFor(t, out, "Accounts Receivable")
	assert.Equal(t, 0.0, ar.Debit)
	assert.Equal(t, 70.0, ar.Credit)
}

func TestRecomputeIdempotent(t *testing.T) {
	base := 100.0
	entries := []models.TrialBalanceEntry{
		{Account: "Rent Expense", Debit: 100, BaseDebit: &base},
		{Account: "Sales Revenue", Credit: 250},
	}
	breakdowns := map[string][]models.BreakdownEntry{
		"Rent Expense": {{Description: "Refund", Credit: 30}},
	}

	once := Recompute(entries, breakdowns)
	twice := Recompute(once, breakdowns)
	assert.Equal(t, once, twice)
}

func TestRecomputeTotalsRow(t *testing.T) {
	entries := []models.TrialBalanceEntry{
		{Account: "Bank Accounts", Debit: 300},
		{Account: "Sales Revenue", Credit: 300},
	}

	out := Recompute(entries, nil)

	last := out[len(out)-1]
	assert.True(t, last.IsTotals())
	assert.Equal(t, 300.0, last.Debit)
	assert.Equal(t, 300.0, last.Credit)

	// A stale totals row on the input must be discarded, not doubled.
	out = Recompute(out, nil)
	count := 0
	for _, e := range out {
		if e.IsTotals() {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestRecomputeRemovedNotesRevertToBase(t *testing.T) {
	entries := []models.TrialBalanceEntry{
		{Account: "Rent Expense", Debit: 100},
	}
	withNotes := Recompute(entries, map[string][]models.BreakdownEntry{
		"Rent Expense": {{Description: "Refund", Credit: 30}},
	})
	assert.Equal(t, 70.0, entryFor(t, withNotes, "Rent Expense").Debit)

	reverted := Recompute(withNotes, nil)
	assert.Equal(t, 100.0, entryFor(t, reverted, "Rent Expense").Debit)
}

func TestRecomputeNoteOnlyAccount(t *testing.T) {
	out := Recompute(nil, map[string][]models.BreakdownEntry{
		"Accrued Expenses": {{Description: "Audit fee accrual", Credit: 1500}},
	})

	acc := entryFor(t, out, "Accrued Expenses")
	assert.Equal(t, 1500.0, acc.Credit)
	require.NotNil(t, acc.BaseDebit)
	assert.Equal(t, 0.0, *acc.BaseDebit)
}

func TestRecomputeNoteOnlyOrderDeterministic(t *testing.T) {
	bd := map[string][]models.BreakdownEntry{
		"Gratuity Provision": {{Description: "Year accrual", Credit: 900}},
		"Audit Fees":         {{Description: "Audit fee accrual", Credit: 1500}},
		"Depreciation":       {{Description: "Annual charge", Debit: 700}},
		"Bad Debts":          {{Description: "Write-off", Debit: 250}},
	}

	first := Recompute(nil, bd)
	second := Recompute(nil, bd)
	assert.Equal(t, first, second)

	names := make([]string, 0, len(first))
	for _, e := range first {
		if !e.IsTotals() {
			names = append(names, e.Account)
		}
	}
	assert.Equal(t, []string{"Audit Fees", "Bad Debts", "Depreciation", "Gratuity Provision"}, names)
}

func TestRecomputeRoundsToWholeUnits(t *testing.T) {
	entries := []models.TrialBalanceEntry{
		{Account: "Utilities", Debit: 100.4},
	}
	out := Recompute(entries, map[string][]models.BreakdownEntry{
		"Utilities": {{Description: "Split", Credit: 0.2}},
	})
	assert.Equal(t, 100.0, entryFor(t, out, "Utilities").Debit)
}

func TestBuildPostsMirrorAgainstBank(t *testing.T) {
	txns := []models.Transaction{
		{
			Date:        time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			Description: "office rent",
			Debit:       2000,
			Category:    "Expenses | Operating Expenses | Rent Expense",
		},
		{
			Date:        time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
			Description: "customer receipt",
			Credit:      5000,
			Category:    "Income | Sales Revenue",
		},
	}

	entries := Build(nil, txns)

	rent := entryFor(t, entries, "Rent Expense")
	assert.Equal(t, 2000.0, rent.Debit)

	sales := entryFor(t, entries, "Sales Revenue")
	assert.Equal(t, 5000.0, sales.Credit)

	bank := entryFor(t, entries, bankAccount)
	// 5000 in less 2000 out.
	assert.Equal(t, 3000.0, bank.Debit)
	assert.Equal(t, 0.0, bank.Credit)
}

func TestBuildSkipsUncategorized(t *testing.T) {
	txns := []models.Transaction{
		{Description: "mystery", Debit: 999, Category: models.Uncategorized},
	}
	entries := Build(nil, txns)
	for _, e := range entries {
		assert.NotEqual(t, 999.0, e.Debit)
		assert.NotEqual(t, 999.0, e.Credit)
	}
}

func TestBuildOpeningOffset(t *testing.T) {
	opening := []models.TrialBalanceEntry{
		{Account: bankAccount, Debit: 10000},
	}
	entries := Build(opening, nil)

	offset := entryFor(t, entries, openingOffsetAccount)
	assert.Equal(t, 10000.0, offset.Credit)
	assert.True(t, Balanced(entries))
}

func TestApplyCellEdit(t *testing.T) {
	entries := []models.TrialBalanceEntry{
		{Account: "Rent Expense", Debit: 100},
		{Account: "Sales Revenue", Credit: 100},
	}
	out := ApplyCellEdit(entries, "Rent Expense", true, 150, nil)

	rent := entryFor(t, out, "Rent Expense")
	assert.Equal(t, 150.0, rent.Debit)
	require.NotNil(t, rent.BaseDebit)
	assert.Equal(t, 150.0, *rent.BaseDebit)

	totals := out[len(out)-1]
	assert.True(t, totals.IsTotals())
	assert.Equal(t, 150.0, totals.Debit)
}

func TestApplyCellEditNewAccount(t *testing.T) {
	out := ApplyCellEdit(nil, "Insurance", true, 800, nil)
	ins := entryFor(t, out, "Insurance")
	assert.Equal(t, 800.0, ins.Debit)
}

func TestVarianceAndBalanced(t *testing.T) {
	entries := []models.TrialBalanceEntry{
		{Account: "Bank Accounts", Debit: 100},
		{Account: "Sales Revenue", Credit: 70},
		{Account: models.TotalsAccount, Debit: 100, Credit: 70},
	}
	assert.InDelta(t, 30.0, Variance(entries), 1e-9)
	assert.False(t, Balanced(entries))

	entries[1].Credit = 100
	assert.True(t, Balanced(entries))
}

func TestPruneBreakdowns(t *testing.T) {
	in := map[string][]models.BreakdownEntry{
		"Rent Expense": {
			{Description: "Refund", Credit: 30},
			{},
		},
		"Utilities": {{}},
	}
	out := PruneBreakdowns(in)
	assert.Len(t, out["Rent Expense"], 1)
	_, ok := out["Utilities"]
	assert.False(t, ok)
}
