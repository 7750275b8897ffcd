// Package statements maps the trial balance into the profit and loss
// statement and the balance sheet, and reconciles manual edits with
// auto-populated figures and working notes.
package statements

import (
	"strings"

	"ctfiler/internal/coa"
)

// Profit and loss line-item ids.
const (
	Revenue                     = "revenue"
	CostOfRevenue               = "cost_of_revenue"
	GrossProfit                 = "gross_profit"
	OtherIncome                 = "other_income"
	ShareProfitsAssociates      = "share_profits_associates"
	AdministrativeExpenses      = "administrative_expenses"
	SellingDistributionExpenses = "selling_distribution_expenses"
	DepreciationPPE             = "depreciation_ppe"
	AmortizationIntangibles     = "amortization_intangibles"
	FinanceCosts                = "finance_costs"
	ForeignExchangeLoss         = "foreign_exchange_loss"
	ProfitLossYear              = "profit_loss_year"
	ProvisionsCorporateTax      = "provisions_corporate_tax"
	ProfitAfterTax              = "profit_after_tax"
	GainLossRevaluationProperty = "gain_loss_revaluation_property"
	TotalComprehensiveIncome    = "total_comprehensive_income"
)

// Balance sheet line-item ids.
const (
	PropertyPlantEquipment      = "property_plant_equipment"
	IntangibleAssets            = "intangible_assets"
	InvestmentsAssociates       = "investments_associates"
	TotalNonCurrentAssets       = "total_non_current_assets"
	Inventories                 = "inventories"
	TradeReceivables            = "trade_receivables"
	PrepaymentsOtherReceivables = "prepayments_other_receivables"
	CashBankBalances            = "cash_bank_balances"
	TotalCurrentAssets          = "total_current_assets"
	TotalAssets                 = "total_assets"
	ShareCapital                = "share_capital"
	RetainedEarnings            = "retained_earnings"
	RevaluationReserve          = "revaluation_reserve"
	OwnerCurrentAccount         = "owner_current_account"
	TotalEquity                 = "total_equity"
	LongTermBorrowings          = "long_term_borrowings"
	ProvisionsEndOfService      = "provisions_end_of_service"
	TotalNonCurrentLiabilities  = "total_non_current_liabilities"
	TradePayables               = "trade_payables"
	AccruedLiabilities          = "accrued_liabilities"
	VATPayable                  = "vat_payable"
	CorporateTaxPayable         = "corporate_tax_payable"
	ShortTermBorrowings         = "short_term_borrowings"
	TotalCurrentLiabilities     = "total_current_liabilities"
	TotalLiabilities            = "total_liabilities"
	TotalEquityLiabilities      = "total_equity_liabilities"
)

// keywordRule assigns a line-item id to the first account name containing any
// of its keywords. Rules are order-sensitive: specific names must be listed
// before the generic words they contain (e.g. "vat" before "payable").
type keywordRule struct {
	id       string
	keywords []string
}

func (r keywordRule) matches(name string) bool {
	for _, kw := range r.keywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

var incomeRules = []keywordRule{
	{ShareProfitsAssociates, []string{"share of profit", "associate"}},
	{Revenue, []string{"sales", "revenue"}},
}

var expenseRules = []keywordRule{
	{CostOfRevenue, []string{"cost of goods", "cost of sales", "direct labour", "direct labor", "freight", "shipping"}},
	{AmortizationIntangibles, []string{"amortization", "amortisation"}},
	{DepreciationPPE, []string{"depreciation"}},
	{ForeignExchangeLoss, []string{"foreign exchange", "exchange loss"}},
	{ProvisionsCorporateTax, []string{"corporate tax", "income tax"}},
	{FinanceCosts, []string{"interest", "bank charge", "finance"}},
	{SellingDistributionExpenses, []string{"marketing", "advertis", "selling", "distribution", "travel"}},
}

var assetRules = []keywordRule{
	{PropertyPlantEquipment, []string{"accumulated depreciation", "property", "plant", "equipment", "fixed asset"}},
	{IntangibleAssets, []string{"intangible", "goodwill"}},
	{InvestmentsAssociates, []string{"investment", "associate"}},
	{Inventories, []string{"inventory", "stock"}},
	{PrepaymentsOtherReceivables, []string{"vat", "prepaid", "prepayment", "deposit", "advance"}},
	{TradeReceivables, []string{"receivable", "debtor"}},
	{CashBankBalances, []string{"cash", "bank"}},
}

var liabilityRules = []keywordRule{
	{VATPayable, []string{"vat"}},
	{CorporateTaxPayable, []string{"corporate tax", "income tax"}},
	{ProvisionsEndOfService, []string{"end of service", "gratuity", "provision"}},
	{AccruedLiabilities, []string{"accrued", "accrual"}},
	{TradePayables, []string{"payable", "creditor"}},
	{LongTermBorrowings, []string{"long term loan", "long term borrowing"}},
	{ShortTermBorrowings, []string{"loan", "borrowing", "overdraft"}},
}

var equityRules = []keywordRule{
	{RevaluationReserve, []string{"revaluation"}},
	{ShareCapital, []string{"share capital", "capital"}},
	{OwnerCurrentAccount, []string{"owner", "current account", "drawing"}},
	{RetainedEarnings, []string{"retained", "opening balance"}},
}

// sectionDefaults catches accounts no rule names. Defaults are per section so
// a stray asset can never land on a P&L line.
var sectionDefaults = map[string]string{
	coa.Income:      OtherIncome,
	coa.Expenses:    AdministrativeExpenses,
	coa.Assets:      PrepaymentsOtherReceivables,
	coa.Liabilities: AccruedLiabilities,
	coa.Equity:      RetainedEarnings,
}

var sectionRules = map[string][]keywordRule{
	coa.Income:      incomeRules,
	coa.Expenses:    expenseRules,
	coa.Assets:      assetRules,
	coa.Liabilities: liabilityRules,
	coa.Equity:      equityRules,
}

// classify returns the line-item id for an account within its bucket section.
// The second return is false for sections the statement does not consume.
func classify(section, account string) (string, bool) {
	rules, ok := sectionRules[section]
	if !ok {
		return "", false
	}
	name := coa.Normalize(account)
	for _, r := range rules {
		if r.matches(name) {
			return r.id, true
		}
	}
	return sectionDefaults[section], true
}

// PnLLeafIDs are the accumulating P&L lines, as opposed to computed
// subtotals. Every id classify can return for an Income or Expenses account
// is in this list.
var PnLLeafIDs = []string{
	Revenue, CostOfRevenue, OtherIncome, ShareProfitsAssociates,
	AdministrativeExpenses, SellingDistributionExpenses,
	DepreciationPPE, AmortizationIntangibles,
	FinanceCosts, ForeignExchangeLoss, ProvisionsCorporateTax,
	GainLossRevaluationProperty,
}

// BSLeafIDs are the accumulating balance sheet lines.
var BSLeafIDs = []string{
	PropertyPlantEquipment, IntangibleAssets, InvestmentsAssociates,
	Inventories, TradeReceivables, PrepaymentsOtherReceivables, CashBankBalances,
	ShareCapital, RetainedEarnings, RevaluationReserve, OwnerCurrentAccount,
	LongTermBorrowings, ProvisionsEndOfService,
	TradePayables, AccruedLiabilities, VATPayable, CorporateTaxPayable,
	ShortTermBorrowings,
}
