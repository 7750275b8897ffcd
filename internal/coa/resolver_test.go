package coa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ctfiler/pkg/models"
)

func TestResolve_CanonicalPathsRoundTrip(t *testing.T) {
	// Every path the chart itself produces must resolve back to itself.
	ForEachLeaf(func(main, sub, leaf string) bool {
		p := Path(main, sub, leaf)
		assert.Equal(t, p, Resolve(p, nil), "path %q should be stable", p)
		return true
	})
}

func TestResolve_EmptyInput(t *testing.T) {
	assert.Equal(t, models.Uncategorized, Resolve("", nil))
	assert.Equal(t, models.Uncategorized, Resolve("   ", nil))
	assert.Equal(t, models.Uncategorized, Resolve("| |", nil))
}

func TestResolve_UnknownInput(t *testing.T) {
	assert.Equal(t, models.Uncategorized, Resolve("zzz-nonexistent-category-xyz", nil))
}

func TestResolve_CustomExactMatch(t *testing.T) {
	custom := []string{"Expenses | Office Supplies"}
	got := Resolve("expenses | office supplies", custom)
	assert.Equal(t, "Expenses | Office Supplies", got)
}

func TestResolve_CustomLeafContainment(t *testing.T) {
	custom := []string{"Expenses | Office Supplies"}
	got := Resolve("office supplies", custom)
	assert.Equal(t, "Expenses | Office Supplies", got)
}

func TestResolve_CustomPrecedesChartOnExactPath(t *testing.T) {
	// A custom path always wins normalized-equal input, whatever the chart holds.
	custom := []string{"Expenses | Operating Expenses | Rent Expense"}
	got := Resolve("expenses / operating expenses / rent expense", custom)
	assert.Equal(t, custom[0], got)
}

func TestResolve_LeafOnly(t *testing.T) {
	got := Resolve("bank accounts", nil)
	assert.Equal(t, "Assets | Current Assets | Bank Accounts", got)
}

func TestResolve_LeafWithAlternateSeparators(t *testing.T) {
	for _, in := range []string{
		"Income > Sales Revenue",
		"Income / Sales Revenue",
		"income|sales revenue",
	} {
		assert.Equal(t, "Income | Sales Revenue", Resolve(in, nil), "input %q", in)
	}
}

func TestResolve_NoisyInput(t *testing.T) {
	// Dashes, quotes, ampersands and casing from AI output.
	assert.Equal(t, "Expenses | Operating Expenses | Salaries and Wages",
		Resolve("Salaries & Wages", nil))
	assert.Equal(t, "Equity | Owner's Current Account",
		Resolve("owners current account", nil))
	assert.Equal(t, "Assets | Non-Current Assets | Property, Plant and Equipment",
		Resolve("“Property, Plant & Equipment”", nil))
}

func TestResolve_MainPrefixStripped(t *testing.T) {
	assert.Equal(t, "Expenses | Operating Expenses | Rent Expense",
		Resolve("expenses - rent expense", nil))
	assert.Equal(t, "Assets | Current Assets | Inventory",
		Resolve("Assets: Inventory", nil))
}

func TestResolve_Containment(t *testing.T) {
	// Partial names fall through to substring matching, first hit in chart order.
	assert.Equal(t, "Expenses | Operating Expenses | Depreciation Expense",
		Resolve("depreciation expense account", nil))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "salaries and wages", Normalize("  Salaries  &  Wages "))
	assert.Equal(t, "a - b", Normalize("A – B"))
	assert.Equal(t, "owners account", Normalize("Owner’s  Account"))
}

func TestParsePath(t *testing.T) {
	p, ok := ParsePath("Assets | Current Assets | Bank Accounts")
	require.True(t, ok)
	assert.Equal(t, CategoryPath{Main: "Assets", Sub: "Current Assets", Leaf: "Bank Accounts"}, p)
	assert.Equal(t, "Assets | Current Assets | Bank Accounts", p.String())

	p, ok = ParsePath("Income > Sales Revenue")
	require.True(t, ok)
	assert.Equal(t, CategoryPath{Main: "Income", Leaf: "Sales Revenue"}, p)

	_, ok = ParsePath("")
	assert.False(t, ok)
}

func TestMainOf(t *testing.T) {
	main, ok := MainOf("Sales Revenue")
	require.True(t, ok)
	assert.Equal(t, Income, main)

	_, ok = MainOf("No Such Account")
	assert.False(t, ok)
}
