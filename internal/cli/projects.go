package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List persisted projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}

		projects, err := st.LoadAll()
		if err != nil {
			return err
		}
		if len(projects) == 0 {
			fmt.Println("No projects.")
			return nil
		}

		fmt.Printf("%-12s %-30s %-12s %10s %6s\n", "CODE", "NAME", "STATUS", "TARGET", "DONE%")
		for _, p := range projects {
			fmt.Printf("%-12s %-30s %-12s %10s %5d%%\n",
				p.ProjectCode, truncate(p.ProjectName, 30), p.Status, p.TargetCompletion, p.CompletionPercentage)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(projectsCmd)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
