// Package workflow owns the filing session: the mutable state accumulated
// across wizard steps, the dependency-ordered recompute over it, and the
// checkpoint store that persists a snapshot at each step boundary.
package workflow

import (
	"ctfiler/internal/coa"
	"ctfiler/internal/statements"
	"ctfiler/internal/trialbalance"
	"ctfiler/pkg/models"
)

// Step numbers of the filing wizard, in order.
const (
	StepImport = iota + 1
	StepCategorize
	StepTrialBalance
	StepStatements
	StepReport
)

// State is the whole in-memory filing session. Every recompute takes a State
// and returns a new one; callers never see a partially updated session.
type State struct {
	Transactions     []models.Transaction               `json:"transactions"`
	CustomCategories []string                           `json:"custom_categories"`
	CustomRows       []trialbalance.CustomRow           `json:"custom_rows"`
	OpeningBalances  []models.TrialBalanceEntry         `json:"opening_balances"`
	TrialBalance     []models.TrialBalanceEntry         `json:"trial_balance"`
	Breakdowns       map[string][]models.BreakdownEntry `json:"breakdowns"`
	TBOverrides      map[string]CellOverride            `json:"tb_overrides"`

	ProfitLoss   statements.Statement `json:"profit_loss"`
	BalanceSheet statements.Statement `json:"balance_sheet"`
	PLManual     statements.EditSet   `json:"pl_manual"`
	BSManual     statements.EditSet   `json:"bs_manual"`

	VATTotals *models.VATTotals `json:"vat_totals,omitempty"`
}

// CellOverride is a user-typed trial balance figure for one account. A set
// pointer replaces the built figure for that side on every recompute.
type CellOverride struct {
	Debit  *float64 `json:"debit,omitempty"`
	Credit *float64 `json:"credit,omitempty"`
}

// NewState returns an empty session.
func NewState() State {
	return State{
		Breakdowns:   map[string][]models.BreakdownEntry{},
		TBOverrides:  map[string]CellOverride{},
		ProfitLoss:   statements.NewStatement(),
		BalanceSheet: statements.NewStatement(),
		PLManual:     statements.EditSet{},
		BSManual:     statements.EditSet{},
	}
}

// Clone deep-copies the session.
func (s State) Clone() State {
	out := s
	out.Transactions = append([]models.Transaction(nil), s.Transactions...)
	out.CustomCategories = append([]string(nil), s.CustomCategories...)
	out.CustomRows = append([]trialbalance.CustomRow(nil), s.CustomRows...)
	out.OpeningBalances = append([]models.TrialBalanceEntry(nil), s.OpeningBalances...)
	out.TrialBalance = append([]models.TrialBalanceEntry(nil), s.TrialBalance...)
	out.Breakdowns = make(map[string][]models.BreakdownEntry, len(s.Breakdowns))
	for k, v := range s.Breakdowns {
		out.Breakdowns[k] = append([]models.BreakdownEntry(nil), v...)
	}
	out.TBOverrides = make(map[string]CellOverride, len(s.TBOverrides))
	for k, v := range s.TBOverrides {
		out.TBOverrides[k] = v
	}
	out.ProfitLoss = s.ProfitLoss.Clone()
	out.BalanceSheet = s.BalanceSheet.Clone()
	out.PLManual = s.PLManual.Clone()
	out.BSManual = s.BSManual.Clone()
	if s.VATTotals != nil {
		v := *s.VATTotals
		out.VATTotals = &v
	}
	return out
}

// Recalculate runs the full dependency chain over the session: working notes
// fold into the trial balance, the trial balance maps onto both statements,
// computed figures auto-populate around manual edits, and subtotals settle
// last. Calling it again on its own output changes nothing.
func Recalculate(s State) State {
	out := s.Clone()

	out.Breakdowns = trialbalance.PruneBreakdowns(out.Breakdowns)

	base := trialbalance.Build(out.OpeningBalances, out.Transactions)
	for account, ov := range out.TBOverrides {
		if ov.Debit != nil {
			base = trialbalance.ApplyCellEdit(base, account, true, *ov.Debit, nil)
		}
		if ov.Credit != nil {
			base = trialbalance.ApplyCellEdit(base, account, false, *ov.Credit, nil)
		}
	}
	out.TrialBalance = trialbalance.Recompute(base, out.Breakdowns)

	pl := statements.MapToProfitAndLoss(out.TrialBalance, out.CustomRows)
	bs := statements.MapToBalanceSheet(out.TrialBalance, out.CustomRows)

	// Lines the trial balance feeds refresh on every pass unless the user
	// pinned them; clearing first lets the soft populate rule overwrite.
	// The full leaf-id sets are cleared, not just the freshly mapped ids:
	// a line whose last contributing account disappeared must drop to zero.
	clearComputed(&out.ProfitLoss, statements.PnLLeafIDs, out.PLManual)
	clearComputed(&out.BalanceSheet, statements.BSLeafIDs, out.BSManual)
	out.ProfitLoss = statements.AutoPopulate(out.ProfitLoss, pl, out.PLManual)
	out.BalanceSheet = statements.AutoPopulate(out.BalanceSheet, bs, out.BSManual)

	statements.RecomputePnLSubtotals(out.ProfitLoss.Values)
	statements.RecomputeBSSubtotals(out.BalanceSheet.Values, out.BSManual)
	return out
}

func clearComputed(st *statements.Statement, ids []string, manual statements.EditSet) {
	for _, id := range ids {
		if manual.Has(id) {
			continue
		}
		st.Values[id] = models.LineItemValue{}
		delete(st.Notes, id)
	}
}

// EditTrialBalanceCell records a direct edit of one account's debit or
// credit. The typed figure overrides the built one on this and every later
// recompute.
func EditTrialBalanceCell(s State, account string, debit bool, value float64) State {
	out := s.Clone()
	ov := out.TBOverrides[account]
	if debit {
		ov.Debit = &value
	} else {
		ov.Credit = &value
	}
	out.TBOverrides[account] = ov
	return Recalculate(out)
}

// ApplyCategories merges categorized transactions back into the session.
// Every incoming category is re-resolved against the registry before it is
// trusted; upstream output is never assumed canonical. Transactions are
// matched by position, so callers pass back the same slice they were given.
func ApplyCategories(s State, categorized []models.Transaction) State {
	out := s.Clone()
	for i := range out.Transactions {
		if i >= len(categorized) {
			break
		}
		out.Transactions[i].Category = coa.Resolve(categorized[i].Category, out.CustomCategories)
	}
	return out
}

// UncategorizedCount reports how many transactions still block the
// categorization gate.
func UncategorizedCount(s State) int {
	n := 0
	for _, t := range s.Transactions {
		if !t.IsCategorized() {
			n++
		}
	}
	return n
}

// AddCustomCategory registers a user-defined category path after normalizing
// it through the resolver's parser. Duplicates are ignored.
func AddCustomCategory(s State, path string) State {
	out := s.Clone()
	p, ok := coa.ParsePath(path)
	if !ok {
		return out
	}
	canonical := p.String()
	for _, existing := range out.CustomCategories {
		if coa.Normalize(existing) == coa.Normalize(canonical) {
			return out
		}
	}
	out.CustomCategories = append(out.CustomCategories, canonical)
	return out
}

// DeleteTransaction removes one transaction by index.
func DeleteTransaction(s State, i int) State {
	out := s.Clone()
	if i < 0 || i >= len(out.Transactions) {
		return out
	}
	out.Transactions = append(out.Transactions[:i], out.Transactions[i+1:]...)
	return out
}

// SwapTransactionSides flips one transaction's debit and credit.
func SwapTransactionSides(s State, i int) State {
	out := s.Clone()
	if i >= 0 && i < len(out.Transactions) {
		out.Transactions[i].SwapSides()
	}
	return out
}

// ApplyExchangeRate converts every transaction to AED at the given rate,
// snapshotting original amounts the first time.
func ApplyExchangeRate(s State, rate float64) State {
	out := s.Clone()
	for i := range out.Transactions {
		out.Transactions[i].ApplyRate(rate)
	}
	return out
}
