// Package report assembles the corporate tax return: the tax computation on
// the P&L result, the statutory questionnaire, and the flattened row views
// handed to exporters.
package report

import (
	"strconv"

	"ctfiler/internal/money"
	"ctfiler/internal/statements"
	"ctfiler/internal/trialbalance"
	"ctfiler/internal/workflow"
	"ctfiler/pkg/models"
)

// UAE corporate tax parameters: income up to the threshold is taxed at zero,
// the excess at the standard rate.
const (
	TaxFreeThreshold = 375000.0
	StandardRate     = 0.09
)

// ComputeTax derives the corporate tax position from accounting net profit.
// A small business relief election zeroes the charge.
func ComputeTax(netProfit float64, smallBusinessRelief bool) models.TaxComputation {
	c := models.TaxComputation{
		AccountingNetProfit: money.Round2(netProfit),
		TaxableIncome:       money.Round2(netProfit),
	}
	if c.TaxableIncome <= 0 {
		return c
	}
	if c.TaxableIncome <= TaxFreeThreshold {
		c.ZeroRatedPortion = c.TaxableIncome
	} else {
		c.ZeroRatedPortion = TaxFreeThreshold
		c.TaxedPortion = money.Round2(c.TaxableIncome - TaxFreeThreshold)
	}
	if smallBusinessRelief {
		c.TaxedPortion = 0
		return c
	}
	c.TaxPayable = money.Round2(c.TaxedPortion * StandardRate)
	return c
}

// Assemble builds the full return from the session and the questionnaire.
// Net profit is taken before the tax provision line, so a provision already
// booked does not shrink its own base.
func Assemble(s workflow.State, answers models.QuestionnaireAnswers) models.CTReturn {
	v := s.ProfitLoss.Values
	netProfit := v[statements.ProfitLossYear].CurrentYear
	return models.CTReturn{
		Questionnaire: answers,
		Computation:   ComputeTax(netProfit, answers.SmallBusinessRelief),
		VAT:           s.VATTotals,
	}
}

func amount(v float64) string {
	return strconv.FormatFloat(money.Round2(v), 'f', 2, 64)
}

func whole(v float64) string {
	return strconv.FormatFloat(v, 'f', 0, 64)
}

// TrialBalanceRows flattens the trial balance for export, in statutory
// bucket order with the totals row last.
func TrialBalanceRows(s workflow.State) []models.ExportRow {
	rows := make([]models.ExportRow, 0, len(s.TrialBalance)+1)
	rows = append(rows, models.ExportRow{
		Section: "Trial Balance",
		Label:   "Account",
		Values:  []string{"Debit", "Credit"},
	})
	var totals *models.TrialBalanceEntry
	for i, e := range s.TrialBalance {
		if e.IsTotals() {
			totals = &s.TrialBalance[i]
			continue
		}
		b := trialBucket(s, e.Account)
		rows = append(rows, models.ExportRow{
			Section: b,
			Label:   e.Account,
			Values:  []string{whole(e.Debit), whole(e.Credit)},
		})
	}
	if totals != nil {
		rows = append(rows, models.ExportRow{
			Section: "Trial Balance",
			Label:   models.TotalsAccount,
			Values:  []string{whole(totals.Debit), whole(totals.Credit)},
		})
	}
	return rows
}

func trialBucket(s workflow.State, account string) string {
	b := trialbalance.ResolveBucket(account, s.CustomRows)
	return b.Section + " / " + b.Subheader
}

type line struct {
	id    string
	label string
}

// pnlLines is the display order of the profit and loss statement.
var pnlLines = []line{
	{statements.Revenue, "Revenue"},
	{statements.CostOfRevenue, "Cost of revenue"},
	{statements.GrossProfit, "Gross profit"},
	{statements.OtherIncome, "Other income"},
	{statements.ShareProfitsAssociates, "Share of profits of associates"},
	{statements.AdministrativeExpenses, "Administrative expenses"},
	{statements.SellingDistributionExpenses, "Selling and distribution expenses"},
	{statements.DepreciationPPE, "Depreciation of property, plant and equipment"},
	{statements.AmortizationIntangibles, "Amortization of intangible assets"},
	{statements.FinanceCosts, "Finance costs"},
	{statements.ForeignExchangeLoss, "Foreign exchange loss"},
	{statements.ProfitLossYear, "Profit for the year"},
	{statements.ProvisionsCorporateTax, "Provision for corporate tax"},
	{statements.ProfitAfterTax, "Profit after tax"},
	{statements.GainLossRevaluationProperty, "Gain/(loss) on revaluation of property"},
	{statements.TotalComprehensiveIncome, "Total comprehensive income"},
}

// bsLines is the display order of the balance sheet.
var bsLines = []line{
	{statements.PropertyPlantEquipment, "Property, plant and equipment"},
	{statements.IntangibleAssets, "Intangible assets"},
	{statements.InvestmentsAssociates, "Investments in associates"},
	{statements.TotalNonCurrentAssets, "Total non-current assets"},
	{statements.Inventories, "Inventories"},
	{statements.TradeReceivables, "Trade receivables"},
	{statements.PrepaymentsOtherReceivables, "Prepayments and other receivables"},
	{statements.CashBankBalances, "Cash and bank balances"},
	{statements.TotalCurrentAssets, "Total current assets"},
	{statements.TotalAssets, "Total assets"},
	{statements.ShareCapital, "Share capital"},
	{statements.RetainedEarnings, "Retained earnings"},
	{statements.RevaluationReserve, "Revaluation reserve"},
	{statements.OwnerCurrentAccount, "Owner's current account"},
	{statements.TotalEquity, "Total equity"},
	{statements.LongTermBorrowings, "Long term borrowings"},
	{statements.ProvisionsEndOfService, "Provision for end of service benefits"},
	{statements.TotalNonCurrentLiabilities, "Total non-current liabilities"},
	{statements.TradePayables, "Trade payables"},
	{statements.AccruedLiabilities, "Accrued and other liabilities"},
	{statements.VATPayable, "VAT payable"},
	{statements.CorporateTaxPayable, "Corporate tax payable"},
	{statements.ShortTermBorrowings, "Short term borrowings"},
	{statements.TotalCurrentLiabilities, "Total current liabilities"},
	{statements.TotalLiabilities, "Total liabilities"},
	{statements.TotalEquityLiabilities, "Total equity and liabilities"},
}

// ProfitLossRows flattens the P&L for export, two year columns per line.
func ProfitLossRows(s workflow.State) []models.ExportRow {
	return statementRows("Profit and Loss", s.ProfitLoss, pnlLines)
}

// BalanceSheetRows flattens the balance sheet for export.
func BalanceSheetRows(s workflow.State) []models.ExportRow {
	return statementRows("Balance Sheet", s.BalanceSheet, bsLines)
}

func statementRows(section string, st statements.Statement, lines []line) []models.ExportRow {
	rows := []models.ExportRow{{
		Section: section,
		Label:   "Line item",
		Values:  []string{"Current year", "Previous year"},
	}}
	for _, line := range lines {
		v := st.Values[line.id]
		rows = append(rows, models.ExportRow{
			Section: section,
			Label:   line.label,
			Values:  []string{amount(v.CurrentYear), amount(v.PreviousYear)},
		})
	}
	return rows
}

// ReturnRows flattens the assembled return for export.
func ReturnRows(ret models.CTReturn) []models.ExportRow {
	yn := func(b bool) string {
		if b {
			return "Yes"
		}
		return "No"
	}
	q := ret.Questionnaire
	c := ret.Computation
	rows := []models.ExportRow{
		{Section: "Declarations", Label: "Tax registration number", Values: []string{q.TaxRegistrationNumber}},
		{Section: "Declarations", Label: "Business activity", Values: []string{q.BusinessActivity}},
		{Section: "Declarations", Label: "Financial year", Values: []string{q.FinancialYearStart, q.FinancialYearEnd}},
		{Section: "Declarations", Label: "Free zone person", Values: []string{yn(q.FreeZonePerson)}},
		{Section: "Declarations", Label: "Qualifying free zone person", Values: []string{yn(q.QualifyingFreeZone)}},
		{Section: "Declarations", Label: "Small business relief elected", Values: []string{yn(q.SmallBusinessRelief)}},
		{Section: "Declarations", Label: "Related party dealings", Values: []string{yn(q.RelatedPartyDealings)}},
		{Section: "Declarations", Label: "Foreign permanent establishment", Values: []string{yn(q.ForeignPermanentEstab)}},
		{Section: "Declarations", Label: "Audited financial statements", Values: []string{yn(q.AuditedStatements)}},
		{Section: "Tax Computation", Label: "Accounting net profit", Values: []string{amount(c.AccountingNetProfit)}},
		{Section: "Tax Computation", Label: "Taxable income", Values: []string{amount(c.TaxableIncome)}},
		{Section: "Tax Computation", Label: "Taxed at 0%", Values: []string{amount(c.ZeroRatedPortion)}},
		{Section: "Tax Computation", Label: "Taxed at 9%", Values: []string{amount(c.TaxedPortion)}},
		{Section: "Tax Computation", Label: "Corporate tax payable", Values: []string{amount(c.TaxPayable)}},
	}
	if ret.VAT != nil {
		rows = append(rows,
			models.ExportRow{Section: "VAT", Label: "Period", Values: []string{ret.VAT.PeriodFrom, ret.VAT.PeriodTo}},
			models.ExportRow{Section: "VAT", Label: "Sales (standard rated)", Values: []string{amount(ret.VAT.Sales.StandardRated)}},
			models.ExportRow{Section: "VAT", Label: "Sales (zero rated)", Values: []string{amount(ret.VAT.Sales.ZeroRated)}},
			models.ExportRow{Section: "VAT", Label: "Purchases (standard rated)", Values: []string{amount(ret.VAT.Purchases.StandardRated)}},
			models.ExportRow{Section: "VAT", Label: "Net VAT payable", Values: []string{amount(ret.VAT.NetVATPayable)}},
		)
	}
	return rows
}
