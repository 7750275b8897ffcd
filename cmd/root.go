package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ctfiler/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "ctfiler",
	Short: "ctfiler - UAE corporate tax filing from bank statements",
	Long: `ctfiler turns imported bank transactions into a UAE corporate tax
filing: AI-assisted categorization onto a fixed chart of accounts, a trial
balance with working notes, profit and loss and balance sheet statements, and
the final computation and return export.

Session state is checkpointed at each step, so commands can be run in order
across invocations.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("ctfiler executed")

		fmt.Println("Welcome to ctfiler!")
		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
