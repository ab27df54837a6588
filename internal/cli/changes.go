package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var changesCmd = &cobra.Command{
	Use:   "changes <project-code>",
	Short: "List a project's change ledger",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}

		project, err := st.Get(args[0])
		if err != nil {
			return err
		}
		if len(project.Changes) == 0 {
			fmt.Println("No recorded changes.")
			return nil
		}

		for _, c := range project.Changes {
			fmt.Printf("%s\n", c.ChangeID)
			if c.MilestoneName != "" {
				fmt.Printf("  milestone: %s\n", c.MilestoneName)
			}
			fmt.Printf("  recorded:  %s\n", c.Date)
			fmt.Printf("  slip:      %s -> %s\n", c.OldDate, c.NewDate)
			fmt.Printf("  reason:    %s\n", c.Reason)
			fmt.Printf("  impact:    %s\n", c.Impact)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(changesCmd)
}
