package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ctfiler/internal/logger"
	"ctfiler/internal/report"
	"ctfiler/internal/sheets"
	"ctfiler/internal/workflow"
	"ctfiler/pkg/models"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the filing to a Google Sheet",
	Long: `Write the trial balance, profit and loss statement, balance sheet and
assembled return to a Google Sheet, one tab per report.

Required environment variables:
  GOOGLE_SHEET_URL - Target spreadsheet URL (or pass --sheet-url)
  GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS - Service account`,
	Example: `  # Export everything to the configured sheet
  ctfiler export

  # Export to an explicit sheet
  ctfiler export --sheet-url https://docs.google.com/spreadsheets/d/abc123/edit`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().String("db", "", "Workflow checkpoint database path")
	exportCmd.Flags().String("sheet-url", "", "Google Sheet URL (default: GOOGLE_SHEET_URL)")
	exportCmd.Flags().String("trn", "", "Tax registration number for the return tab")
}

func runExport(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("export-cmd")

	dbPath, _ := cmd.Flags().GetString("db")
	sheetURL, _ := cmd.Flags().GetString("sheet-url")
	trn, _ := cmd.Flags().GetString("trn")
	if sheetURL == "" {
		sheetURL = os.Getenv("GOOGLE_SHEET_URL")
	}
	if sheetURL == "" {
		return fmt.Errorf("no sheet URL; set GOOGLE_SHEET_URL or pass --sheet-url")
	}

	ctx := cmd.Context()
	store, state, _, err := loadSession(ctx, dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	state = workflow.Recalculate(state)

	exporter, err := sheets.NewService(ctx, sheetURL)
	if err != nil {
		return err
	}

	ret := report.Assemble(state, models.QuestionnaireAnswers{TaxRegistrationNumber: trn})

	tabs := []struct {
		title string
		rows  []models.ExportRow
	}{
		{"Trial Balance", report.TrialBalanceRows(state)},
		{"Profit and Loss", report.ProfitLossRows(state)},
		{"Balance Sheet", report.BalanceSheetRows(state)},
		{"CT Return", report.ReturnRows(ret)},
	}
	for _, tab := range tabs {
		if err := exporter.Export(ctx, tab.title, tab.rows); err != nil {
			return fmt.Errorf("failed to export %q: %w", tab.title, err)
		}
		log.Info().Str("tab", tab.title).Int("rows", len(tab.rows)).Msg("Tab exported")
	}

	fmt.Println("Filing exported to Google Sheet.")
	return nil
}
