package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zxiong/pulp/control"
)

var restartCmd = &cobra.Command{
	Use:   "restart [service...]",
	Short: "Restart the Pulp daemons",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runControl(control.Restart, args)
	},
}

var tryRestartCmd = &cobra.Command{
	Use:   "try-restart [service...]",
	Short: "Restart the Pulp daemons that are currently running",
	Long: `try-restart restarts only the services that are currently running.
Stopped services are left alone, matching the init system's
'try-restart' (condrestart) semantics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runControl(control.TryRestart, args)
	},
}

var forceReloadCmd = &cobra.Command{
	Use:   "force-reload [service...]",
	Short: "Make the Pulp daemons reload their configuration",
	Long: `force-reload delivers SIGHUP to each service so it re-reads its
configuration, restarting it if the init system has to.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runControl(control.ForceReload, args)
	},
}

func init() {
	rootCmd.AddCommand(restartCmd)
	rootCmd.AddCommand(tryRestartCmd)
	rootCmd.AddCommand(forceReloadCmd)
}
