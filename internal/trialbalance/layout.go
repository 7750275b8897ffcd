// Package trialbalance builds the trial balance view: it maps accounts onto
// the statutory display layout and nets opening balances, categorized
// movements and working-note breakdowns into per-account figures.
package trialbalance

import "ctfiler/internal/coa"

// Bucket is the statutory display position of an account: the section and
// subsection it is rendered under. This layout is a different taxonomy from
// the chart of accounts used for transaction tagging; accounts must resolve
// under both.
type Bucket struct {
	Section   string
	Subheader string
	Label     string
}

// CustomRow is a user-added display row tagged with its target position.
type CustomRow struct {
	Label     string `json:"label"`
	Section   string `json:"section"`
	Subheader string `json:"subheader"`
}

type layoutBlock struct {
	Section   string
	Subheader string
	Rows      []string
}

// statutoryLayout is the canonical ordered statutory display structure used
// for whole-sheet rendering and totals.
var statutoryLayout = []layoutBlock{
	{coa.Assets, "Cash and Cash Equivalents", []string{
		"Cash on Hand", "Bank Accounts",
	}},
	{coa.Assets, "Receivables and Prepayments", []string{
		"Accounts Receivable", "VAT Receivable", "Prepaid Expenses",
	}},
	{coa.Assets, "Inventories", []string{
		"Inventory",
	}},
	{coa.Assets, "Non-Current Assets", []string{
		"Property, Plant and Equipment", "Accumulated Depreciation",
		"Intangible Assets", "Long Term Investments",
	}},
	{coa.Liabilities, "Payables and Accruals", []string{
		"Accounts Payable", "Accrued Expenses", "VAT Payable", "Corporate Tax Payable",
	}},
	{coa.Liabilities, "Borrowings", []string{
		"Short Term Loans", "Long Term Loans",
	}},
	{coa.Liabilities, "Provisions", []string{
		"End of Service Benefits Provision",
	}},
	{coa.Equity, "Capital and Reserves", []string{
		"Share Capital", "Retained Earnings", "Owner's Current Account",
		"Opening Balance Equity", "Revaluation Reserve",
	}},
	{coa.Income, "Operating Income", []string{
		"Sales Revenue", "Service Revenue",
	}},
	{coa.Income, "Other Income", []string{
		"Interest Income", "Gain on Disposal of Assets",
		"Share of Profit of Associates", "Other Income",
	}},
	{coa.Expenses, "Cost of Sales", []string{
		"Cost of Goods Sold", "Direct Labour", "Freight and Shipping",
	}},
	{coa.Expenses, "Operating Expenses", []string{
		"Salaries and Wages", "Rent Expense", "Utilities",
		"Telephone and Internet", "Stationery and Printing",
		"Marketing and Advertising", "Travel Expenses", "Insurance",
		"License and Government Fees", "Professional Fees",
		"Repairs and Maintenance", "Depreciation Expense",
		"Amortization Expense", "Miscellaneous Expenses",
	}},
	{coa.Expenses, "Non-Operating Expenses", []string{
		"Interest Expense", "Bank Charges", "Foreign Exchange Loss",
		"Corporate Tax Expense",
	}},
}

// legacyNames maps account names from older imports onto the statutory row
// they are shown under.
var legacyNames = map[string]string{
	"cash":            "Cash on Hand",
	"bank":            "Bank Accounts",
	"debtors":         "Accounts Receivable",
	"trade debtors":   "Accounts Receivable",
	"creditors":       "Accounts Payable",
	"trade creditors": "Accounts Payable",
	"stock":           "Inventory",
	"fixed assets":    "Property, Plant and Equipment",
	"sales":           "Sales Revenue",
	"capital":         "Share Capital",
	"gratuity":        "End of Service Benefits Provision",
	"wages":           "Salaries and Wages",
	"rent":            "Rent Expense",
	"vat control":     "VAT Payable",
	"loan":            "Long Term Loans",
}

// sectionAliases folds legacy section names onto the five canonical sections.
var sectionAliases = map[string]string{
	"revenues": coa.Income,
	"revenue":  coa.Income,
}

// ResolveBucket places an account under its statutory section and subheader.
// Lookup order: exact layout row, legacy-name table, user-added custom rows,
// then the chart of accounts main category, defaulting to Expenses.
func ResolveBucket(account string, customRows []CustomRow) Bucket {
	norm := coa.Normalize(account)

	if b, ok := layoutLookup(norm); ok {
		return b
	}
	if mapped, ok := legacyNames[norm]; ok {
		if b, ok := layoutLookup(coa.Normalize(mapped)); ok {
			return b
		}
	}
	for _, row := range customRows {
		if coa.Normalize(row.Label) == norm {
			return Bucket{
				Section:   canonicalSection(row.Section),
				Subheader: row.Subheader,
				Label:     row.Label,
			}
		}
	}
	if main, ok := coa.MainOf(account); ok {
		return Bucket{Section: canonicalSection(main), Subheader: "Other", Label: account}
	}
	return Bucket{Section: coa.Expenses, Subheader: "Other", Label: account}
}

func layoutLookup(norm string) (Bucket, bool) {
	for _, block := range statutoryLayout {
		for _, row := range block.Rows {
			if coa.Normalize(row) == norm {
				return Bucket{Section: block.Section, Subheader: block.Subheader, Label: row}, true
			}
		}
	}
	return Bucket{}, false
}

func canonicalSection(section string) string {
	if alias, ok := sectionAliases[coa.Normalize(section)]; ok {
		return alias
	}
	for _, mc := range coa.MainCategories {
		if coa.Normalize(mc) == coa.Normalize(section) {
			return mc
		}
	}
	return section
}
