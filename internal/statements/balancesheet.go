package statements

import (
	"ctfiler/internal/coa"
	"ctfiler/internal/money"
	"ctfiler/internal/trialbalance"
	"ctfiler/pkg/models"
)

// MapToBalanceSheet accumulates the trial balance into balance sheet line
// items. Assets contribute debit minus credit, liabilities and equity credit
// minus debit; Income and Expenses buckets are skipped.
func MapToBalanceSheet(tb []models.TrialBalanceEntry, customRows []trialbalance.CustomRow) Statement {
	st := NewStatement()
	for _, e := range tb {
		if e.IsTotals() {
			continue
		}
		b := trialbalance.ResolveBucket(e.Account, customRows)
		if b.Section != coa.Assets && b.Section != coa.Liabilities && b.Section != coa.Equity {
			continue
		}
		id, ok := classify(b.Section, e.Account)
		if !ok {
			continue
		}
		amount := e.Debit - e.Credit
		if b.Section != coa.Assets {
			amount = e.Credit - e.Debit
		}
		accumulate(&st, id, e.Account, amount)
	}
	RecomputeBSSubtotals(st.Values, nil)
	return st
}

// RecomputeBSSubtotals recalculates the balance sheet totals in dependency
// order. Balance sheet totals are themselves addressable rows: ids in the
// manual set keep their overridden value instead of their formula.
func RecomputeBSSubtotals(values map[string]models.LineItemValue, manual EditSet) {
	sum := func(ids ...string) models.LineItemValue {
		var total models.LineItemValue
		for _, id := range ids {
			v := values[id]
			total.CurrentYear += v.CurrentYear
			total.PreviousYear += v.PreviousYear
		}
		return total
	}
	set := func(id string, total models.LineItemValue) {
		if manual.Has(id) {
			return
		}
		values[id] = models.LineItemValue{
			CurrentYear:  money.Round2(total.CurrentYear),
			PreviousYear: money.Round2(total.PreviousYear),
		}
	}

	set(TotalNonCurrentAssets, sum(PropertyPlantEquipment, IntangibleAssets, InvestmentsAssociates))
	set(TotalCurrentAssets, sum(Inventories, TradeReceivables, PrepaymentsOtherReceivables, CashBankBalances))
	set(TotalAssets, sum(TotalNonCurrentAssets, TotalCurrentAssets))

	set(TotalEquity, sum(ShareCapital, RetainedEarnings, RevaluationReserve, OwnerCurrentAccount))
	set(TotalNonCurrentLiabilities, sum(LongTermBorrowings, ProvisionsEndOfService))
	set(TotalCurrentLiabilities, sum(TradePayables, AccruedLiabilities, VATPayable, CorporateTaxPayable, ShortTermBorrowings))
	set(TotalLiabilities, sum(TotalNonCurrentLiabilities, TotalCurrentLiabilities))
	set(TotalEquityLiabilities, sum(TotalEquity, TotalLiabilities))
}
