package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zxiong/pulp/control"
)

var stopCmd = &cobra.Command{
	Use:   "stop [service...]",
	Short: "Stop the Pulp daemons",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runControl(control.Stop, args)
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)
}
