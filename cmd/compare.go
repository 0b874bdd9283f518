package cmd

import (
	"fmt"

	"sublime-migrate/core/output"
	"sublime-migrate/core/utils"
	"sublime-migrate/feature/compare"

	"github.com/spf13/cobra"
)

var compareResources string

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare the configuration of the source and destination instances",
	Long: `Pairs actions, lists, exclusions, feeds and rules of both instances by
name and reports what is missing on either side and what differs in content.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		env, err := rt.pair()
		if err != nil {
			return rt.fail(err)
		}

		report, err := compare.NewService(env).Run(cmd.Context(), utils.SplitCSV(compareResources))
		if err != nil {
			return rt.fail(err)
		}

		message := "Instances match"
		if n := report.Differences(); n > 0 {
			message = fmt.Sprintf("Found %d differences", n)
		}
		return rt.finish(output.Succeeded(message, report, ""))
	},
}

func init() {
	RootCmd.AddCommand(compareCmd)
	compareCmd.Flags().StringVar(&compareResources, "resources", "", "Comma-separated resource types to compare (default: all)")
}
