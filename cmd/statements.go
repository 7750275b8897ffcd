package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ctfiler/internal/report"
	"ctfiler/internal/trialbalance"
	"ctfiler/internal/workflow"
)

var statementsCmd = &cobra.Command{
	Use:   "statements",
	Short: "Generate the profit and loss statement and balance sheet",
	Long: `Map the balanced trial balance onto the profit and loss statement and
the balance sheet. Lines previously edited by hand keep their values; computed
subtotals settle afterwards.`,
	Example: `  # Generate both statements from the stored session
  ctfiler statements`,
	Args: cobra.NoArgs,
	RunE: runStatements,
}

func init() {
	rootCmd.AddCommand(statementsCmd)

	statementsCmd.Flags().String("db", "", "Workflow checkpoint database path")
}

func runStatements(cmd *cobra.Command, args []string) error {
	dbPath, _ := cmd.Flags().GetString("db")

	ctx := cmd.Context()
	store, state, _, err := loadSession(ctx, dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	state = workflow.Recalculate(state)

	if !trialbalance.Balanced(state.TrialBalance) {
		variance := trialbalance.Variance(state.TrialBalance)
		return fmt.Errorf("trial balance is out of balance by %.2f; statements are blocked", variance)
	}

	if err := workflow.Checkpoint(ctx, store, "statements", workflow.StepStatements, state, workflow.StatusCompleted); err != nil {
		return err
	}

	printRows(report.ProfitLossRows(state))
	fmt.Println()
	printRows(report.BalanceSheetRows(state))
	return nil
}
