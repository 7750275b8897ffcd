package statements

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ctfiler/internal/coa"
	"ctfiler/pkg/models"
)

func sampleTB() []models.TrialBalanceEntry {
	return []models.TrialBalanceEntry{
		{Account: "Bank Accounts", Debit: 12000},
		{Account: "Sales Revenue", Credit: 20000},
		{Account: "Cost of Goods Sold", Debit: 8000},
		{Account: "Rent Expense", Debit: 3000},
		{Account: "Depreciation Expense", Debit: 500},
		{Account: "Interest Income", Credit: 200},
		{Account: "Corporate Tax Expense", Debit: 700},
		{Account: "Accounts Payable", Credit: 1500},
		{Account: "Share Capital", Credit: 2000},
		{Account: models.TotalsAccount, Debit: 24200, Credit: 23700},
	}
}

func TestMapToProfitAndLoss(t *testing.T) {
	st := MapToProfitAndLoss(sampleTB(), nil)

	assert.Equal(t, 20000.0, st.Values[Revenue].CurrentYear)
	assert.Equal(t, 8000.0, st.Values[CostOfRevenue].CurrentYear)
	assert.Equal(t, 3000.0, st.Values[AdministrativeExpenses].CurrentYear)
	assert.Equal(t, 500.0, st.Values[DepreciationPPE].CurrentYear)
	assert.Equal(t, 200.0, st.Values[OtherIncome].CurrentYear)
	assert.Equal(t, 700.0, st.Values[ProvisionsCorporateTax].CurrentYear)

	// Balance-sheet accounts never leak onto the P&L.
	_, ok := st.Values[CashBankBalances]
	assert.False(t, ok)
	for id := range st.Values {
		assert.NotContains(t, []string{TradePayables, ShareCapital}, id)
	}
}

func TestPnLSubtotalConsistency(t *testing.T) {
	st := MapToProfitAndLoss(sampleTB(), nil)

	v := st.Values
	assert.Equal(t, v[Revenue].CurrentYear-v[CostOfRevenue].CurrentYear, v[GrossProfit].CurrentYear)
	assert.Equal(t, v[ProfitLossYear].CurrentYear-v[ProvisionsCorporateTax].CurrentYear, v[ProfitAfterTax].CurrentYear)
	assert.Equal(t, 12000.0, v[GrossProfit].CurrentYear)
	// The tax provision is deducted after profit for the year:
	// 12000 + 200 - 3000 - 500 = 8700.
	assert.Equal(t, 8700.0, v[ProfitLossYear].CurrentYear)
	assert.Equal(t, 8000.0, v[ProfitAfterTax].CurrentYear)
	assert.Equal(t, v[ProfitAfterTax].CurrentYear, v[TotalComprehensiveIncome].CurrentYear)
}

func TestMapToProfitAndLossNotesTraceAccounts(t *testing.T) {
	st := MapToProfitAndLoss(sampleTB(), nil)

	notes := st.Notes[Revenue]
	require.Len(t, notes, 1)
	assert.Equal(t, "Sales Revenue", notes[0].Description)
	assert.Equal(t, 20000.0, notes[0].CurrentYearAmount)
}

func TestMapToBalanceSheet(t *testing.T) {
	st := MapToBalanceSheet(sampleTB(), nil)

	v := st.Values
	assert.Equal(t, 12000.0, v[CashBankBalances].CurrentYear)
	assert.Equal(t, 1500.0, v[TradePayables].CurrentYear)
	assert.Equal(t, 2000.0, v[ShareCapital].CurrentYear)

	assert.Equal(t, 12000.0, v[TotalCurrentAssets].CurrentYear)
	assert.Equal(t, v[TotalCurrentAssets].CurrentYear+v[TotalNonCurrentAssets].CurrentYear, v[TotalAssets].CurrentYear)
	assert.Equal(t, 1500.0, v[TotalLiabilities].CurrentYear)
	assert.Equal(t, 2000.0, v[TotalEquity].CurrentYear)
	assert.Equal(t, 3500.0, v[TotalEquityLiabilities].CurrentYear)

	// P&L accounts never leak onto the balance sheet.
	_, ok := v[Revenue]
	assert.False(t, ok)
}

func TestBSSubtotalsBothYears(t *testing.T) {
	values := map[string]models.LineItemValue{
		PropertyPlantEquipment: {CurrentYear: 8000, PreviousYear: 9000},
		Inventories:            {CurrentYear: 1200, PreviousYear: 1000},
		CashBankBalances:       {CurrentYear: 3000, PreviousYear: 2500},
		ShareCapital:           {CurrentYear: 5000, PreviousYear: 5000},
		TradePayables:          {CurrentYear: 700, PreviousYear: 400},
	}

	RecomputeBSSubtotals(values, nil)

	assert.Equal(t, models.LineItemValue{CurrentYear: 8000, PreviousYear: 9000}, values[TotalNonCurrentAssets])
	assert.Equal(t, models.LineItemValue{CurrentYear: 4200, PreviousYear: 3500}, values[TotalCurrentAssets])
	assert.Equal(t, models.LineItemValue{CurrentYear: 12200, PreviousYear: 12500}, values[TotalAssets])
	assert.Equal(t, models.LineItemValue{CurrentYear: 700, PreviousYear: 400}, values[TotalCurrentLiabilities])
	assert.Equal(t, models.LineItemValue{CurrentYear: 5700, PreviousYear: 5400}, values[TotalEquityLiabilities])
}

func TestClassifyOrderSensitivity(t *testing.T) {
	id, ok := classify(coa.Liabilities, "VAT Payable")
	require.True(t, ok)
	assert.Equal(t, VATPayable, id)

	id, _ = classify(coa.Liabilities, "Corporate Tax Payable")
	assert.Equal(t, CorporateTaxPayable, id)

	id, _ = classify(coa.Liabilities, "Accounts Payable")
	assert.Equal(t, TradePayables, id)

	id, _ = classify(coa.Liabilities, "Long Term Loans")
	assert.Equal(t, LongTermBorrowings, id)

	id, _ = classify(coa.Liabilities, "Short Term Loans")
	assert.Equal(t, ShortTermBorrowings, id)

	id, _ = classify(coa.Expenses, "Amortization Expense")
	assert.Equal(t, AmortizationIntangibles, id)
}

func TestClassifyCoversWholeChart(t *testing.T) {
	known := map[string]bool{}
	for _, id := range PnLLeafIDs {
		known[id] = true
	}
	for _, id := range BSLeafIDs {
		known[id] = true
	}
	coa.ForEachLeaf(func(main, _, leaf string) bool {
		id, ok := classify(main, leaf)
		assert.True(t, ok, "no statement line for %q under %q", leaf, main)
		assert.True(t, known[id], "classify(%q, %q) returned a subtotal or unknown line %q", main, leaf, id)
		return true
	})
}

func TestAutoPopulateRespectsManualEdits(t *testing.T) {
	manual := EditSet{}
	st := NewStatement()
	st = ApplyCellEdit(st, manual, Revenue, CurrentYear, 5000)

	computed := NewStatement()
	computed.Values[Revenue] = models.LineItemValue{CurrentYear: 20000}
	computed.Values[CostOfRevenue] = models.LineItemValue{CurrentYear: 4000}

	st = AutoPopulate(st, computed, manual)
	RecomputePnLSubtotals(st.Values)

	assert.Equal(t, 5000.0, st.Values[Revenue].CurrentYear)
	assert.Equal(t, 4000.0, st.Values[CostOfRevenue].CurrentYear)
	assert.Equal(t, 1000.0, st.Values[GrossProfit].CurrentYear)
}

func TestAutoPopulateSkipsNonZeroValues(t *testing.T) {
	st := NewStatement()
	st.Values[OtherIncome] = models.LineItemValue{CurrentYear: 300}

	computed := NewStatement()
	computed.Values[OtherIncome] = models.LineItemValue{CurrentYear: 999}
	computed.Values[Revenue] = models.LineItemValue{CurrentYear: 100}

	out := AutoPopulate(st, computed, nil)
	assert.Equal(t, 300.0, out.Values[OtherIncome].CurrentYear)
	assert.Equal(t, 100.0, out.Values[Revenue].CurrentYear)
}

func TestCellEditAppendsManualAdjustmentNote(t *testing.T) {
	manual := EditSet{}
	st := NewStatement()
	st.Notes[DepreciationPPE] = []models.WorkingNoteEntry{
		{Description: "Vehicles", CurrentYearAmount: 500},
		{Description: "Office equipment", CurrentYearAmount: 300},
	}
	st.Values[DepreciationPPE] = models.LineItemValue{CurrentYear: 800}

	st = ApplyCellEdit(st, manual, DepreciationPPE, CurrentYear, 950)

	notes := st.Notes[DepreciationPPE]
	require.Len(t, notes, 3)
	assert.Equal(t, models.ManualAdjustmentDescription, notes[2].Description)
	assert.Equal(t, 150.0, notes[2].CurrentYearAmount)
	assert.Equal(t, 0.0, notes[2].PreviousYearAmount)

	assert.Equal(t, 950.0, sumNotes(notes, CurrentYear))
	assert.True(t, manual.Has(DepreciationPPE))

	// Editing to the value the notes already sum to adds nothing.
	st = ApplyCellEdit(st, manual, DepreciationPPE, CurrentYear, 950)
	assert.Len(t, st.Notes[DepreciationPPE], 3)
}

func TestCellEditWithoutNotesAddsNoNote(t *testing.T) {
	manual := EditSet{}
	st := NewStatement()
	st = ApplyCellEdit(st, manual, Revenue, PreviousYear, 1234.5)
	assert.Empty(t, st.Notes[Revenue])
	assert.Equal(t, 1234.5, st.Values[Revenue].PreviousYear)
}

func TestNoteEditWritesBackSums(t *testing.T) {
	manual := EditSet{}
	st := NewStatement()

	st = ApplyNoteEdit(st, manual, FinanceCosts, []models.WorkingNoteEntry{
		{Description: "Bank interest", CurrentYearAmount: 120, PreviousYearAmount: 90},
		{Description: "Loan arrangement fee", CurrentYearAmount: 80},
	})

	assert.Equal(t, 200.0, st.Values[FinanceCosts].CurrentYear)
	assert.Equal(t, 90.0, st.Values[FinanceCosts].PreviousYear)
	assert.True(t, manual.Has(FinanceCosts))
	// Write-back marked the id manual, so no adjustment loop is possible.
	require.Len(t, st.Notes[FinanceCosts], 2)
}

func TestBSTotalsOverridable(t *testing.T) {
	manual := EditSet{}
	values := map[string]models.LineItemValue{
		CashBankBalances: {CurrentYear: 1000},
	}
	RecomputeBSSubtotals(values, manual)
	assert.Equal(t, 1000.0, values[TotalAssets].CurrentYear)

	manual.Mark(TotalAssets)
	values[TotalAssets] = models.LineItemValue{CurrentYear: 9999}
	values[CashBankBalances] = models.LineItemValue{CurrentYear: 2000}
	RecomputeBSSubtotals(values, manual)

	assert.Equal(t, 9999.0, values[TotalAssets].CurrentYear)
	assert.Equal(t, 2000.0, values[TotalCurrentAssets].CurrentYear)
}
