package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var catCmd = &cobra.Command{
	Use:   "cat <project-code>",
	Short: "Print a project's persisted record as YAML",
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

		data, err := yaml.Marshal(project)
		if err != nil {
			return fmt.Errorf("failed to marshal project: %w", err)
		}
		fmt.Print(string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catCmd)
}
