package models

import "time"

// Uncategorized is the sentinel category for transactions that could not be
// resolved onto the chart of accounts. It is a value, not an error: the
// categorization step blocks until no transaction carries it.
const Uncategorized = "UNCATEGORIZED"

// Transaction is a single bank-statement row after import. Amounts are in AED
// once a conversion rate has been applied; the Original* fields snapshot the
// pre-conversion values the first time a rate is entered.
type Transaction struct {
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Debit       float64   `json:"debit"`
	Credit      float64   `json:"credit"`
	Category    string    `json:"category"`
	SourceFile  string    `json:"source_file"`
	Currency    string    `json:"currency"`

	OriginalDebit    *float64 `json:"original_debit,omitempty"`
	OriginalCredit   *float64 `json:"original_credit,omitempty"`
	OriginalCurrency string   `json:"original_currency,omitempty"`
}

// IsCategorized reports whether the transaction carries a resolved category.
func (t Transaction) IsCategorized() bool {
	return t.Category != "" && t.Category != Uncategorized
}

// SwapSides exchanges the debit and credit amounts in place. Used to correct
// statements imported with the columns reversed.
func (t *Transaction) SwapSides() {
	t.Debit, t.Credit = t.Credit, t.Debit
	if t.OriginalDebit != nil || t.OriginalCredit != nil {
		t.OriginalDebit, t.OriginalCredit = t.OriginalCredit, t.OriginalDebit
	}
}

// ApplyRate converts the transaction amounts to AED at the given rate. The
// original amounts and currency are snapshotted on the first call only, so a
// corrected rate re-converts from the originals rather than compounding.
func (t *Transaction) ApplyRate(rate float64) {
	if rate <= 0 {
		return
	}
	if t.OriginalDebit == nil && t.OriginalCredit == nil {
		d, c := t.Debit, t.Credit
		t.OriginalDebit = &d
		t.OriginalCredit = &c
		t.OriginalCurrency = t.Currency
	}
	t.Debit = *t.OriginalDebit * rate
	t.Credit = *t.OriginalCredit * rate
	t.Currency = "AED"
}
