package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zxiong/pulp/control"
)

var startCmd = &cobra.Command{
	Use:   "start [service...]",
	Short: "Start the Pulp daemons",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runControl(control.Start, args)
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
