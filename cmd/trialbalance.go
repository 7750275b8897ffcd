package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ctfiler/internal/logger"
	"ctfiler/internal/trialbalance"
	"ctfiler/internal/workflow"
	"ctfiler/pkg/models"
)

var trialBalanceCmd = &cobra.Command{
	Use:   "trialbalance",
	Short: "Build and display the trial balance",
	Long: `Combine opening balances and categorized transactions into the trial
balance, fold in any working-note breakdowns, and check the balance gate.
Statements cannot be generated while the debit and credit columns disagree.`,
	Example: `  # Build the trial balance from the stored session
  ctfiler trialbalance

  # Load opening balances first
  ctfiler trialbalance --opening opening.json

  # Override one account's debit figure
  ctfiler trialbalance --edit "Rent Expense" --debit 3500`,
	Args: cobra.NoArgs,
	RunE: runTrialBalance,
}

func init() {
	rootCmd.AddCommand(trialBalanceCmd)

	trialBalanceCmd.Flags().String("db", "", "Workflow checkpoint database path")
	trialBalanceCmd.Flags().String("opening", "", "Opening balances JSON file")
	trialBalanceCmd.Flags().String("edit", "", "Account to edit")
	trialBalanceCmd.Flags().Float64("debit", -1, "Debit value for --edit")
	trialBalanceCmd.Flags().Float64("credit", -1, "Credit value for --edit")
}

func runTrialBalance(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("trialbalance-cmd")

	dbPath, _ := cmd.Flags().GetString("db")
	openingPath, _ := cmd.Flags().GetString("opening")
	editAccount, _ := cmd.Flags().GetString("edit")
	debit, _ := cmd.Flags().GetFloat64("debit")
	credit, _ := cmd.Flags().GetFloat64("credit")

	ctx := cmd.Context()
	store, state, _, err := loadSession(ctx, dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if remaining := workflow.UncategorizedCount(state); remaining > 0 {
		return fmt.Errorf("%d transaction(s) are UNCATEGORIZED; run categorize first", remaining)
	}

	if openingPath != "" {
		opening, err := readOpeningBalances(openingPath)
		if err != nil {
			return err
		}
		state.OpeningBalances = opening
		log.Info().Str("file", openingPath).Int("accounts", len(opening)).Msg("Opening balances loaded")
	}

	state = workflow.Recalculate(state)

	if editAccount != "" {
		if debit >= 0 {
			state = workflow.EditTrialBalanceCell(state, editAccount, true, debit)
		}
		if credit >= 0 {
			state = workflow.EditTrialBalanceCell(state, editAccount, false, credit)
		}
	}

	variance := trialbalance.Variance(state.TrialBalance)
	balanced := trialbalance.Balanced(state.TrialBalance)

	status := workflow.StatusCompleted
	if !balanced {
		status = workflow.StatusInProgress
	}
	if err := workflow.Checkpoint(ctx, store, "trial_balance", workflow.StepTrialBalance, state, status); err != nil {
		return err
	}

	for _, e := range state.TrialBalance {
		fmt.Printf("%-40s %12.0f %12.0f\n", e.Account, e.Debit, e.Credit)
	}
	if balanced {
		fmt.Println("\nTrial balance is balanced.")
	} else {
		fmt.Printf("\nTrial balance is OUT OF BALANCE by %.2f; fix it before generating statements.\n", variance)
	}
	return nil
}

func readOpeningBalances(path string) ([]models.TrialBalanceEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read opening balances file: %w", err)
	}
	var entries []models.TrialBalanceEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse opening balances file: %w", err)
	}
	return entries, nil
}
