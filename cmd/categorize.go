package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"ctfiler/internal/categorize"
	"ctfiler/internal/logger"
	"ctfiler/internal/workflow"
	"ctfiler/pkg/models"
)

var categorizeCmd = &cobra.Command{
	Use:   "categorize [transactions.json]",
	Short: "Categorize imported transactions onto the chart of accounts",
	Long: `Load bank transactions and assign each a chart-of-accounts category
using ChatGPT. Every suggestion is re-resolved against the registry; anything
unresolvable stays UNCATEGORIZED and blocks the next step.

With a file argument the transactions are imported first; without one the
previously checkpointed session is categorized again.

Required environment variables:
  OPENAI_API_KEY - OpenAI API key for categorization`,
	Example: `  # Import and categorize a statement export
  ctfiler categorize statement.json

  # Retry categorization on the stored session
  ctfiler categorize

  # Register a custom category before categorizing
  ctfiler categorize statement.json --custom "Expenses | Office Supplies"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCategorize,
}

func init() {
	rootCmd.AddCommand(categorizeCmd)

	categorizeCmd.Flags().String("db", "", "Workflow checkpoint database path")
	categorizeCmd.Flags().StringSlice("custom", nil, "Custom category paths to allow")
	categorizeCmd.Flags().Int("timeout", 120, "Categorization timeout in seconds")
	categorizeCmd.Flags().Float64("rate", 0, "Exchange rate to AED for foreign-currency statements")
}

func runCategorize(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("categorize-cmd")

	dbPath, _ := cmd.Flags().GetString("db")
	customPaths, _ := cmd.Flags().GetStringSlice("custom")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")
	rate, _ := cmd.Flags().GetFloat64("rate")

	ctx := cmd.Context()
	store, state, _, err := loadSession(ctx, dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if len(args) == 1 {
		transactions, err := readTransactions(args[0])
		if err != nil {
			return err
		}
		state.Transactions = transactions
		log.Info().
			Str("file", args[0]).
			Int("transactions", len(transactions)).
			Msg("Transactions imported")

		if err := workflow.Checkpoint(ctx, store, "import", workflow.StepImport, state, workflow.StatusCompleted); err != nil {
			return err
		}
	}
	if len(state.Transactions) == 0 {
		return fmt.Errorf("no transactions to categorize; pass a transactions file")
	}

	for _, p := range customPaths {
		state = workflow.AddCustomCategory(state, p)
	}
	if rate > 0 {
		state = workflow.ApplyExchangeRate(state, rate)
	}

	service, err := categorize.NewService(state.CustomCategories)
	if err != nil {
		return err
	}

	callCtx, cancel := context.WithTimeout(ctx, time.Duration(timeoutSecs)*time.Second)
	defer cancel()

	categorized, err := service.Categorize(callCtx, state.Transactions)
	if err != nil {
		// Failed calls leave the session untouched; the user retries.
		return fmt.Errorf("categorization failed: %w", err)
	}

	state = workflow.ApplyCategories(state, categorized)
	state = workflow.Recalculate(state)

	remaining := workflow.UncategorizedCount(state)
	status := workflow.StatusCompleted
	if remaining > 0 {
		status = workflow.StatusInProgress
	}
	if err := workflow.Checkpoint(ctx, store, "categorize", workflow.StepCategorize, state, status); err != nil {
		return err
	}

	for i, t := range state.Transactions {
		fmt.Printf("%3d  %-40.40s  %s\n", i, t.Description, t.Category)
	}
	if remaining > 0 {
		fmt.Printf("\n%d transaction(s) remain UNCATEGORIZED; categorize them before continuing.\n", remaining)
	} else {
		fmt.Println("\nAll transactions categorized.")
	}
	return nil
}

func readTransactions(path string) ([]models.Transaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read transactions file: %w", err)
	}
	var transactions []models.Transaction
	if err := json.Unmarshal(data, &transactions); err != nil {
		return nil, fmt.Errorf("failed to parse transactions file: %w", err)
	}
	for i := range transactions {
		if transactions[i].Category == "" {
			transactions[i].Category = models.Uncategorized
		}
		if transactions[i].SourceFile == "" {
			transactions[i].SourceFile = path
		}
	}
	return transactions, nil
}
