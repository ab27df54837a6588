package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "statusdeck",
	Short: "Project-status reporting from schedule exports",
	Long: `statusdeck ingests MS Project XML schedule exports, reconciles them
against persisted project state (preserving user-entered notes and
resources), detects schedule slips for review, and maintains a
per-project change ledger.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("data-dir", "", "Data directory (overrides STATUSDECK_DATA_DIR)")
}
