package models

// TotalsAccount is the synthetic row name carrying the trial balance column
// sums. It is always regenerated after a mutation, never hand-edited.
const TotalsAccount = "Totals"

// TrialBalanceEntry is one account row in the trial balance. Debit and Credit
// hold the presented net figure (one side zero, whole currency units).
// BaseDebit/BaseCredit hold the bank-statement-derived figure before any
// working-note adjustment; nil means no base was ever recorded.
type TrialBalanceEntry struct {
	Account    string   `json:"account"`
	Debit      float64  `json:"debit"`
	Credit     float64  `json:"credit"`
	BaseDebit  *float64 `json:"base_debit,omitempty"`
	BaseCredit *float64 `json:"base_credit,omitempty"`
}

// IsTotals reports whether this is the synthetic totals row.
func (e TrialBalanceEntry) IsTotals() bool {
	return e.Account == TotalsAccount
}

// BreakdownEntry is a single working-note line attached to one trial balance
// account. Entries with an empty description and zero amounts are pruned on
// save.
type BreakdownEntry struct {
	Description string  `json:"description"`
	Debit       float64 `json:"debit"`
	Credit      float64 `json:"credit"`
}

// IsEmpty reports whether the entry carries no information.
func (b BreakdownEntry) IsEmpty() bool {
	return b.Description == "" && b.Debit == 0 && b.Credit == 0
}
