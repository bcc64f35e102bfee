package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var runDryRun bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the screen once and send the report",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, runDryRun)
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := a.runner.Run(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), report.Message)
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "log the report instead of sending it")
	rootCmd.AddCommand(runCmd)
}
