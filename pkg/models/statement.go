package models

// ManualAdjustmentDescription names the synthetic working note appended when a
// user-entered line total disagrees with the sum of its notes.
const ManualAdjustmentDescription = "Manual Adjustment"

// LineItemValue is one P&L or balance sheet cell, keyed externally by a fixed
// line-item id. Statement values carry two decimal places.
type LineItemValue struct {
	CurrentYear  float64 `json:"current_year"`
	PreviousYear float64 `json:"previous_year"`
}

// IsZero reports whether both years are zero. Zero cells are fair game for
// auto-population.
func (v LineItemValue) IsZero() bool {
	return v.CurrentYear == 0 && v.PreviousYear == 0
}

// WorkingNoteEntry is one note line under a statement line item. The sum of
// CurrentYearAmount across a line's notes must reconcile to the line's
// CurrentYear value, with a Manual Adjustment entry absorbing any difference.
type WorkingNoteEntry struct {
	Description        string  `json:"description"`
	CurrentYearAmount  float64 `json:"current_year_amount"`
	PreviousYearAmount float64 `json:"previous_year_amount"`
	Currency           string  `json:"currency"`
}

// VATBreakdown holds the extracted sales or purchases side of a VAT return.
type VATBreakdown struct {
	ZeroRated     float64 `json:"zero_rated"`
	StandardRated float64 `json:"standard_rated"`
	VATAmount     float64 `json:"vat_amount"`
	Total         float64 `json:"total"`
}

// VATTotals is the numbers-only contract returned by the document extraction
// service. The core never parses the source document itself.
type VATTotals struct {
	PeriodFrom    string       `json:"period_from"`
	PeriodTo      string       `json:"period_to"`
	Sales         VATBreakdown `json:"sales"`
	Purchases     VATBreakdown `json:"purchases"`
	NetVATPayable float64      `json:"net_vat_payable"`
}
