package models

// QuestionnaireAnswers captures the statutory yes/no declarations collected
// before the return is assembled.
type QuestionnaireAnswers struct {
	FreeZonePerson         bool   `json:"free_zone_person"`
	QualifyingFreeZone     bool   `json:"qualifying_free_zone"`
	SmallBusinessRelief    bool   `json:"small_business_relief"`
	RelatedPartyDealings   bool   `json:"related_party_dealings"`
	ForeignPermanentEstab  bool   `json:"foreign_permanent_estab"`
	AuditedStatements      bool   `json:"audited_statements"`
	AccountingBasisAccrual bool   `json:"accounting_basis_accrual"`
	BusinessActivity       string `json:"business_activity"`
	TaxRegistrationNumber  string `json:"tax_registration_number"`
	FinancialYearStart     string `json:"financial_year_start"`
	FinancialYearEnd       string `json:"financial_year_end"`
}

// TaxComputation is the corporate tax calculation derived from the P&L.
type TaxComputation struct {
	AccountingNetProfit float64 `json:"accounting_net_profit"`
	TaxableIncome       float64 `json:"taxable_income"`
	ZeroRatedPortion    float64 `json:"zero_rated_portion"`
	TaxedPortion        float64 `json:"taxed_portion"`
	TaxPayable          float64 `json:"tax_payable"`
}

// ExportRow is one flattened spreadsheet row handed to an exporter. The core
// defines the values, never the output format.
type ExportRow struct {
	Section string   `json:"section"`
	Label   string   `json:"label"`
	Values  []string `json:"values"`
}

// CTReturn is the assembled corporate tax return.
type CTReturn struct {
	Questionnaire QuestionnaireAnswers `json:"questionnaire"`
	Computation   TaxComputation       `json:"computation"`
	VAT           *VATTotals           `json:"vat,omitempty"`
}
