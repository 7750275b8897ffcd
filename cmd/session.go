package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"ctfiler/internal/workflow"
	"ctfiler/pkg/models"
)

// contextWithTimeout derives a bounded context for one external call.
func contextWithTimeout(cmd *cobra.Command, seconds int) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), time.Duration(seconds)*time.Second)
}

// printRows writes flattened report rows to stdout.
func printRows(rows []models.ExportRow) {
	for _, r := range rows {
		fmt.Printf("%-34s %-46s", r.Section, r.Label)
		for _, v := range r.Values {
			fmt.Printf(" %14s", v)
		}
		fmt.Println()
	}
}

// workflowDBPath resolves the checkpoint database location: --db flag first,
// then WORKFLOW_DB_PATH, then the default next to the binary.
func workflowDBPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("WORKFLOW_DB_PATH"); env != "" {
		return env
	}
	return "ctfiler.db"
}

// loadSession opens the checkpoint store and restores the latest completed
// session, or starts a fresh one when no checkpoint exists.
func loadSession(ctx context.Context, dbPath string) (*workflow.Store, workflow.State, int, error) {
	store, err := workflow.OpenStore(workflowDBPath(dbPath))
	if err != nil {
		return nil, workflow.State{}, 0, fmt.Errorf("failed to open workflow store: %w", err)
	}

	state, step, err := workflow.Hydrate(ctx, store)
	if err != nil {
		if errors.Is(err, workflow.ErrNoCheckpoint) {
			return store, workflow.NewState(), 0, nil
		}
		store.Close()
		return nil, workflow.State{}, 0, fmt.Errorf("failed to restore session: %w", err)
	}
	return store, state, step, nil
}
