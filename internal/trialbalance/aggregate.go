package trialbalance

import (
	"sort"

	"ctfiler/internal/coa"
	"ctfiler/internal/money"
	"ctfiler/pkg/models"
)

// bankAccount is the statement-side account movements post against.
const bankAccount = "Bank Accounts"

// openingOffsetAccount absorbs a one-sided set of opening balances so the
// sheet still balances.
const openingOffsetAccount = "Opening Balance Equity"

// Build combines opening balances and categorized transaction movements into
// trial balance entries. Each categorized transaction posts twice: its own
// debit/credit against the leaf account of its category path, and the mirror
// side against the bank account. Uncategorized transactions are skipped; the
// categorization step gates on them upstream.
func Build(opening []models.TrialBalanceEntry, txns []models.Transaction) []models.TrialBalanceEntry {
	type sums struct{ debit, credit float64 }
	totals := make(map[string]*sums)
	var order []string

	add := func(account string, debit, credit float64) {
		s, ok := totals[account]
		if !ok {
			s = &sums{}
			totals[account] = s
			order = append(order, account)
		}
		s.debit += debit
		s.credit += credit
	}

	openingNet := 0.0
	for _, e := range opening {
		if e.IsTotals() {
			continue
		}
		add(e.Account, e.Debit, e.Credit)
		openingNet += e.Debit - e.Credit
	}
	// One-sided opening balances get an equity offset so the columns can meet.
	if !money.WithinTolerance(openingNet) {
		if openingNet > 0 {
			add(openingOffsetAccount, 0, openingNet)
		} else {
			add(openingOffsetAccount, -openingNet, 0)
		}
	}

	for _, t := range txns {
		if !t.IsCategorized() {
			continue
		}
		account := leafOf(t.Category)
		add(account, t.Debit, t.Credit)
		add(bankAccount, t.Credit, t.Debit)
	}

	entries := make([]models.TrialBalanceEntry, 0, len(order))
	for _, account := range order {
		s := totals[account]
		e := models.TrialBalanceEntry{Account: account}
		applyNet(&e, s.debit, s.credit)
		d, c := e.Debit, e.Credit
		e.BaseDebit, e.BaseCredit = &d, &c
		entries = append(entries, e)
	}
	return entries
}

// leafOf extracts the account name from a category path.
func leafOf(category string) string {
	if p, ok := coa.ParsePath(category); ok {
		return p.Leaf
	}
	return category
}

// Recompute folds working-note breakdowns into the trial balance and
// regenerates the totals row. It is pure and idempotent: the base figures are
// never mutated, so repeated calls with unchanged inputs yield identical
// output.
func Recompute(entries []models.TrialBalanceEntry, breakdowns map[string][]models.BreakdownEntry) []models.TrialBalanceEntry {
	out := make([]models.TrialBalanceEntry, 0, len(entries)+1)
	seen := make(map[string]bool, len(entries))

	for _, e := range entries {
		if e.IsTotals() {
			continue
		}
		seen[e.Account] = true
		out = append(out, recomputeEntry(e, breakdowns[e.Account]))
	}

	// Working notes can describe accounts with no statement-derived entry at
	// all; those exist purely through their notes. Sorted so unchanged
	// inputs always produce the same row order.
	noteOnly := make([]string, 0, len(breakdowns))
	for account := range breakdowns {
		if !seen[account] {
			noteOnly = append(noteOnly, account)
		}
	}
	sort.Strings(noteOnly)
	for _, account := range noteOnly {
		bdD, bdC := sumBreakdown(breakdowns[account])
		if money.WithinTolerance(bdD - bdC) {
			continue
		}
		zero := 0.0
		e := models.TrialBalanceEntry{Account: account, BaseDebit: &zero, BaseCredit: &zero}
		applyNet(&e, bdD, bdC)
		out = append(out, e)
	}

	return append(out, totalsRow(out))
}

func recomputeEntry(e models.TrialBalanceEntry, notes []models.BreakdownEntry) models.TrialBalanceEntry {
	if len(notes) == 0 {
		// Removing every note reverts the account to its statement figure.
		if e.BaseDebit != nil || e.BaseCredit != nil {
			e.Debit = deref(e.BaseDebit)
			e.Credit = deref(e.BaseCredit)
		}
		return e
	}
	// First breakdown for this account: the current figures become the base.
	if e.BaseDebit == nil && e.BaseCredit == nil {
		d, c := e.Debit, e.Credit
		e.BaseDebit, e.BaseCredit = &d, &c
	}
	bdD, bdC := sumBreakdown(notes)
	applyNet(&e, deref(e.BaseDebit)+bdD, deref(e.BaseCredit)+bdC)
	return e
}

// applyNet collapses gross debit/credit into the single net presentation
// figure, rounded to whole currency units and sign-split.
func applyNet(e *models.TrialBalanceEntry, debit, credit float64) {
	net := money.RoundWhole(debit - credit)
	if net >= 0 {
		e.Debit, e.Credit = net, 0
	} else {
		e.Debit, e.Credit = 0, -net
	}
}

func sumBreakdown(notes []models.BreakdownEntry) (debit, credit float64) {
	for _, n := range notes {
		debit += n.Debit
		credit += n.Credit
	}
	return debit, credit
}

func totalsRow(entries []models.TrialBalanceEntry) models.TrialBalanceEntry {
	t := models.TrialBalanceEntry{Account: models.TotalsAccount}
	for _, e := range entries {
		t.Debit += e.Debit
		t.Credit += e.Credit
	}
	return t
}

// ApplyCellEdit records a direct edit of one account's debit or credit cell.
// Manual top-level edits bypass the notes: both the presented figure and its
// base are set to the typed value, then totals are regenerated for the whole
// sheet via Recompute.
func ApplyCellEdit(entries []models.TrialBalanceEntry, account string, debit bool, value float64, breakdowns map[string][]models.BreakdownEntry) []models.TrialBalanceEntry {
	out := make([]models.TrialBalanceEntry, 0, len(entries))
	found := false
	for _, e := range entries {
		if e.IsTotals() {
			continue
		}
		if e.Account == account {
			found = true
			e = editEntry(e, debit, value)
		}
		out = append(out, e)
	}
	if !found {
		e := models.TrialBalanceEntry{Account: account}
		e = editEntry(e, debit, value)
		out = append(out, e)
	}
	return Recompute(out, breakdowns)
}

func editEntry(e models.TrialBalanceEntry, debit bool, value float64) models.TrialBalanceEntry {
	value = money.RoundWhole(value)
	if debit {
		e.Debit = value
		e.BaseDebit = &value
		if e.BaseCredit == nil {
			c := e.Credit
			e.BaseCredit = &c
		}
	} else {
		e.Credit = value
		e.BaseCredit = &value
		if e.BaseDebit == nil {
			d := e.Debit
			e.BaseDebit = &d
		}
	}
	return e
}

// Variance returns debit total minus credit total over the non-totals rows.
func Variance(entries []models.TrialBalanceEntry) float64 {
	var debit, credit float64
	for _, e := range entries {
		if e.IsTotals() {
			continue
		}
		debit += e.Debit
		credit += e.Credit
	}
	return debit - credit
}

// Balanced is the hard gate in front of statement generation: downstream
// statements must not be produced while it reports false.
func Balanced(entries []models.TrialBalanceEntry) bool {
	return money.WithinTolerance(Variance(entries))
}

// PruneBreakdowns drops note lines with no description and no amounts,
// returning a fresh map. Accounts left with no notes are removed entirely.
func PruneBreakdowns(breakdowns map[string][]models.BreakdownEntry) map[string][]models.BreakdownEntry {
	out := make(map[string][]models.BreakdownEntry, len(breakdowns))
	for account, notes := range breakdowns {
		var kept []models.BreakdownEntry
		for _, n := range notes {
			if !n.IsEmpty() {
				kept = append(kept, n)
			}
		}
		if len(kept) > 0 {
			out[account] = kept
		}
	}
	return out
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
