package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/statusdeck/statusdeck/internal/reconcile"
)

var dedupeDryRun bool

var dedupeCmd = &cobra.Command{
	Use:   "dedupe <project-code>",
	Short: "Remove duplicate milestones from a persisted project",
	Long: `Dedupe corrects a defect state: duplicate milestone names inside one
persisted project. The first occurrence of each name is kept. Normal
reconciliation runs this automatically; the command exists for records
written before deduplication, or edited by hand.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}

		code := args[0]
		lock := st.Lock(code)
		lock.Lock()
		defer lock.Unlock()

		project, err := st.Get(code)
		if err != nil {
			return err
		}

		result := reconcile.Dedupe(project.Milestones)
		if result.RemovedCount() == 0 {
			fmt.Printf("%s: no duplicates (%d milestones)\n", code, len(project.Milestones))
			return nil
		}

		for _, m := range result.Removed {
			fmt.Printf("removing duplicate: %s (%s, %d%%)\n", m.Name, m.TargetDate, m.CompletionPercentage)
		}

		if dedupeDryRun {
			fmt.Printf("Dry run: %d duplicates found, nothing written.\n", result.RemovedCount())
			return nil
		}

		project.Milestones = result.Milestones
		if err := st.Save(project); err != nil {
			return err
		}
		fmt.Printf("%s: removed %d duplicates, %d milestones remain\n",
			code, result.RemovedCount(), len(project.Milestones))
		return nil
	},
}

func init() {
	dedupeCmd.Flags().BoolVar(&dedupeDryRun, "dry-run", false, "Report duplicates without writing")
	rootCmd.AddCommand(dedupeCmd)
}
