package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ctfiler/internal/extract"
	"ctfiler/internal/logger"
	"ctfiler/internal/report"
	"ctfiler/internal/trialbalance"
	"ctfiler/internal/workflow"
	"ctfiler/pkg/models"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Compute corporate tax and assemble the return",
	Long: `Compute the UAE corporate tax position from the profit and loss
statement (0% up to AED 375,000, 9% above) and assemble the return together
with the statutory questionnaire answers.

A filed VAT return PDF can be attached; its totals are extracted with Google
Document AI (falling back to Vision OCR) and carried into the return.`,
	Example: `  # Assemble the return
  ctfiler report --trn 100123456700003 --activity "General Trading"

  # Attach a filed VAT return
  ctfiler report --trn 100123456700003 --vat-return q1-vat.pdf

  # Elect small business relief
  ctfiler report --trn 100123456700003 --small-business-relief`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().String("db", "", "Workflow checkpoint database path")
	reportCmd.Flags().String("trn", "", "Tax registration number")
	reportCmd.Flags().String("activity", "", "Main business activity")
	reportCmd.Flags().String("year-start", "", "Financial year start (YYYY-MM-DD)")
	reportCmd.Flags().String("year-end", "", "Financial year end (YYYY-MM-DD)")
	reportCmd.Flags().Bool("free-zone", false, "Registered in a free zone")
	reportCmd.Flags().Bool("qualifying-free-zone", false, "Qualifying free zone person")
	reportCmd.Flags().Bool("small-business-relief", false, "Elect small business relief")
	reportCmd.Flags().Bool("related-party", false, "Had related party dealings")
	reportCmd.Flags().Bool("foreign-pe", false, "Has a foreign permanent establishment")
	reportCmd.Flags().Bool("audited", false, "Financial statements are audited")
	reportCmd.Flags().String("vat-return", "", "Filed VAT return PDF to attach")
	reportCmd.Flags().Int("timeout", 120, "Extraction timeout in seconds")
}

func runReport(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("report-cmd")

	dbPath, _ := cmd.Flags().GetString("db")
	vatPath, _ := cmd.Flags().GetString("vat-return")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	ctx := cmd.Context()
	store, state, _, err := loadSession(ctx, dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	state = workflow.Recalculate(state)
	if !trialbalance.Balanced(state.TrialBalance) {
		return fmt.Errorf("trial balance is out of balance; fix it before reporting")
	}

	if vatPath != "" {
		totals, err := extractVATTotals(cmd, vatPath, timeoutSecs)
		if err != nil {
			// A failed extraction never touches prior state.
			return fmt.Errorf("VAT return extraction failed: %w", err)
		}
		state.VATTotals = totals
		log.Info().
			Str("file", vatPath).
			Str("period_from", totals.PeriodFrom).
			Str("period_to", totals.PeriodTo).
			Msg("VAT totals attached to return")
	}

	answers := questionnaireFromFlags(cmd)
	ret := report.Assemble(state, answers)

	if err := workflow.Checkpoint(ctx, store, "report", workflow.StepReport, state, workflow.StatusCompleted); err != nil {
		return err
	}

	printRows(report.ReturnRows(ret))
	return nil
}

func questionnaireFromFlags(cmd *cobra.Command) models.QuestionnaireAnswers {
	str := func(name string) string { v, _ := cmd.Flags().GetString(name); return v }
	b := func(name string) bool { v, _ := cmd.Flags().GetBool(name); return v }

	answers := models.QuestionnaireAnswers{
		TaxRegistrationNumber:  strings.TrimSpace(str("trn")),
		BusinessActivity:       str("activity"),
		FinancialYearStart:     str("year-start"),
		FinancialYearEnd:       str("year-end"),
		FreeZonePerson:         b("free-zone"),
		QualifyingFreeZone:     b("qualifying-free-zone"),
		SmallBusinessRelief:    b("small-business-relief"),
		RelatedPartyDealings:   b("related-party"),
		ForeignPermanentEstab:  b("foreign-pe"),
		AuditedStatements:      b("audited"),
		AccountingBasisAccrual: true,
	}
	if answers.FinancialYearEnd == "" && answers.FinancialYearStart == "" {
		year := time.Now().Year() - 1
		answers.FinancialYearStart = fmt.Sprintf("%d-01-01", year)
		answers.FinancialYearEnd = fmt.Sprintf("%d-12-31", year)
	}
	return answers
}

func extractVATTotals(cmd *cobra.Command, path string, timeoutSecs int) (*models.VATTotals, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open VAT return: %w", err)
	}
	defer f.Close()

	service, err := extract.NewService(cmd.Context())
	if err != nil {
		return nil, err
	}

	ctx, cancel := contextWithTimeout(cmd, timeoutSecs)
	defer cancel()

	mimeType := "application/pdf"
	if strings.EqualFold(filepath.Ext(path), ".png") {
		mimeType = "image/png"
	}
	return service.ExtractTotals(ctx, f, mimeType)
}
