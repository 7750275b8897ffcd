// Package coa holds the fixed chart of accounts used for transaction tagging
// and the resolver that normalizes free-text category strings onto it.
package coa

import "strings"

// PathSeparator joins the segments of a canonical category path.
const PathSeparator = " | "

// Main category names, in the fixed iteration order used by every lookup.
const (
	Assets      = "Assets"
	Liabilities = "Liabilities"
	Equity      = "Equity"
	Income      = "Income"
	Expenses    = "Expenses"
)

// MainCategories lists the five main categories in canonical order.
var MainCategories = []string{Assets, Liabilities, Equity, Income, Expenses}

// Group is an optional sub-group of accounts. A group with an empty name holds
// accounts that sit directly under the main category.
type Group struct {
	Name     string
	Accounts []string
}

// MainCategory is one top-level section of the chart.
type MainCategory struct {
	Name   string
	Groups []Group
}

// Chart is the fixed three-level taxonomy. Immutable at runtime; declaration
// order is the canonical iteration order.
var Chart = []MainCategory{
	{Name: Assets, Groups: []Group{
		{Name: "Current Assets", Accounts: []string{
			"Cash on Hand",
			"Bank Accounts",
			"Accounts Receivable",
			"Inventory",
			"Prepaid Expenses",
			"VAT Receivable",
		}},
		{Name: "Non-Current Assets", Accounts: []string{
			"Property, Plant and Equipment",
			"Accumulated Depreciation",
			"Intangible Assets",
			"Long Term Investments",
		}},
	}},
	{Name: Liabilities, Groups: []Group{
		{Name: "Current Liabilities", Accounts: []string{
			"Accounts Payable",
			"Accrued Expenses",
			"VAT Payable",
			"Corporate Tax Payable",
			"Short Term Loans",
		}},
		{Name: "Non-Current Liabilities", Accounts: []string{
			"Long Term Loans",
			"End of Service Benefits Provision",
		}},
	}},
	{Name: Equity, Groups: []Group{
		{Accounts: []string{
			"Share Capital",
			"Retained Earnings",
			"Owner's Current Account",
			"Opening Balance Equity",
			"Revaluation Reserve",
		}},
	}},
	{Name: Income, Groups: []Group{
		{Accounts: []string{
			"Sales Revenue",
			"Service Revenue",
			"Interest Income",
			"Gain on Disposal of Assets",
			"Share of Profit of Associates",
			"Other Income",
		}},
	}},
	{Name: Expenses, Groups: []Group{
		{Name: "Cost of Sales", Accounts: []string{
			"Cost of Goods Sold",
			"Direct Labour",
			"Freight and Shipping",
		}},
		{Name: "Operating Expenses", Accounts: []string{
			"Salaries and Wages",
			"Rent Expense",
			"Utilities",
			"Telephone and Internet",
			"Stationery and Printing",
			"Marketing and Advertising",
			"Travel Expenses",
			"Insurance",
			"License and Government Fees",
			"Professional Fees",
			"Repairs and Maintenance",
			"Depreciation Expense",
			"Amortization Expense",
			"Miscellaneous Expenses",
		}},
		{Name: "Non-Operating Expenses", Accounts: []string{
			"Interest Expense",
			"Bank Charges",
			"Foreign Exchange Loss",
			"Corporate Tax Expense",
		}},
	}},
}

// Path assembles a canonical category path from its segments. The sub-group
// segment is omitted when empty.
func Path(main, sub, leaf string) string {
	if sub == "" {
		return main + PathSeparator + leaf
	}
	return main + PathSeparator + sub + PathSeparator + leaf
}

// ForEachLeaf visits every account leaf in canonical order. The walk stops
// early when fn returns false.
func ForEachLeaf(fn func(main, sub, leaf string) bool) {
	for _, mc := range Chart {
		for _, g := range mc.Groups {
			for _, acct := range g.Accounts {
				if !fn(mc.Name, g.Name, acct) {
					return
				}
			}
		}
	}
}

// MainOf returns the main category owning the given account name, matched on
// normalized equality. The second return is false when no leaf matches.
func MainOf(account string) (string, bool) {
	want := Normalize(account)
	found := ""
	ForEachLeaf(func(main, _, leaf string) bool {
		if Normalize(leaf) == want {
			found = main
			return false
		}
		return true
	})
	return found, found != ""
}

// CategoryPath is the parsed form of a resolved category string. Comparisons
// on parsed paths are structural rather than string-normalized.
type CategoryPath struct {
	Main string
	Sub  string
	Leaf string
}

// ParsePath splits a canonical path string into its segments. Inputs using
// ">" or "/" as separators are accepted. Returns false for empty input.
func ParsePath(s string) (CategoryPath, bool) {
	parts := SplitPath(s)
	switch len(parts) {
	case 0:
		return CategoryPath{}, false
	case 1:
		return CategoryPath{Leaf: parts[0]}, true
	case 2:
		return CategoryPath{Main: parts[0], Leaf: parts[1]}, true
	default:
		return CategoryPath{Main: parts[0], Sub: parts[1], Leaf: parts[len(parts)-1]}, true
	}
}

// String reassembles the canonical path form.
func (p CategoryPath) String() string {
	if p.Main == "" {
		return p.Leaf
	}
	return Path(p.Main, p.Sub, p.Leaf)
}

// SplitPath splits a category string on any accepted separator, trimming each
// segment and dropping empties.
func SplitPath(s string) []string {
	r := strings.NewReplacer(">", "|", "/", "|")
	var parts []string
	for _, seg := range strings.Split(r.Replace(s), "|") {
		seg = strings.TrimSpace(seg)
		if seg != "" {
			parts = append(parts, seg)
		}
	}
	return parts
}
