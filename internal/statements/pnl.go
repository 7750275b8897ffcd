package statements

import (
	"ctfiler/internal/coa"
	"ctfiler/internal/money"
	"ctfiler/internal/trialbalance"
	"ctfiler/pkg/models"
)

// Statement holds one financial statement's figures keyed by line-item id,
// with the working notes that trace each figure back to source accounts.
type Statement struct {
	Values map[string]models.LineItemValue
	Notes  map[string][]models.WorkingNoteEntry
}

// NewStatement returns an empty statement with initialized maps.
func NewStatement() Statement {
	return Statement{
		Values: make(map[string]models.LineItemValue),
		Notes:  make(map[string][]models.WorkingNoteEntry),
	}
}

// Clone deep-copies the statement so recompute passes never mutate shared
// state in place.
func (s Statement) Clone() Statement {
	out := NewStatement()
	for id, v := range s.Values {
		out.Values[id] = v
	}
	for id, notes := range s.Notes {
		out.Notes[id] = append([]models.WorkingNoteEntry(nil), notes...)
	}
	return out
}

// MapToProfitAndLoss accumulates the trial balance into P&L line items.
// Only Income and Expenses buckets contribute; balance sheet sections are
// skipped so nothing is counted on both statements. Income contributes
// credit minus debit, expenses debit minus credit, both as positive
// conventional figures when the account sits on its natural side.
func MapToProfitAndLoss(tb []models.TrialBalanceEntry, customRows []trialbalance.CustomRow) Statement {
	st := NewStatement()
	for _, e := range tb {
		if e.IsTotals() {
			continue
		}
		b := trialbalance.ResolveBucket(e.Account, customRows)
		if b.Section != coa.Income && b.Section != coa.Expenses {
			continue
		}
		id, ok := classify(b.Section, e.Account)
		if !ok {
			continue
		}
		amount := e.Debit - e.Credit
		if b.Section == coa.Income {
			amount = e.Credit - e.Debit
		}
		accumulate(&st, id, e.Account, amount)
	}
	RecomputePnLSubtotals(st.Values)
	return st
}

func accumulate(st *Statement, id, account string, amount float64) {
	v := st.Values[id]
	v.CurrentYear = money.Round2(v.CurrentYear + amount)
	st.Values[id] = v
	st.Notes[id] = append(st.Notes[id], models.WorkingNoteEntry{
		Description:       account,
		CurrentYearAmount: money.Round2(amount),
	})
}

// RecomputePnLSubtotals recalculates every derived P&L line in dependency
// order, for both years. P&L subtotals are never user-addressable; they
// always reflect their formula.
func RecomputePnLSubtotals(values map[string]models.LineItemValue) {
	get := func(id string) models.LineItemValue { return values[id] }
	set := func(id string, cur, prev float64) {
		values[id] = models.LineItemValue{
			CurrentYear:  money.Round2(cur),
			PreviousYear: money.Round2(prev),
		}
	}

	rev, cost := get(Revenue), get(CostOfRevenue)
	set(GrossProfit, rev.CurrentYear-cost.CurrentYear, rev.PreviousYear-cost.PreviousYear)

	gp := get(GrossProfit)
	plCur := gp.CurrentYear + get(OtherIncome).CurrentYear + get(ShareProfitsAssociates).CurrentYear -
		get(AdministrativeExpenses).CurrentYear - get(SellingDistributionExpenses).CurrentYear -
		get(DepreciationPPE).CurrentYear - get(AmortizationIntangibles).CurrentYear -
		get(FinanceCosts).CurrentYear - get(ForeignExchangeLoss).CurrentYear
	plPrev := gp.PreviousYear + get(OtherIncome).PreviousYear + get(ShareProfitsAssociates).PreviousYear -
		get(AdministrativeExpenses).PreviousYear - get(SellingDistributionExpenses).PreviousYear -
		get(DepreciationPPE).PreviousYear - get(AmortizationIntangibles).PreviousYear -
		get(FinanceCosts).PreviousYear - get(ForeignExchangeLoss).PreviousYear
	set(ProfitLossYear, plCur, plPrev)

	pl, tax := get(ProfitLossYear), get(ProvisionsCorporateTax)
	set(ProfitAfterTax, pl.CurrentYear-tax.CurrentYear, pl.PreviousYear-tax.PreviousYear)

	pat, reval := get(ProfitAfterTax), get(GainLossRevaluationProperty)
	set(TotalComprehensiveIncome, pat.CurrentYear+reval.CurrentYear, pat.PreviousYear+reval.PreviousYear)
}
