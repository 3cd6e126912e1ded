package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zxiong/pulp/control"
)

var statusCmd = &cobra.Command{
	Use:   "status [service...]",
	Short: "Report the status of the Pulp daemons",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runControl(control.GetStatus, args)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
