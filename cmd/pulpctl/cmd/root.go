package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	exePathOverride string
	dataDir         string
)

var rootCmd = &cobra.Command{
	Use:   "pulpctl",
	Short: "Manage the Pulp daemon family",
	Long: `pulpctl manages the Pulp daemons (resource manager, task workers,
task scheduler, content streamer, and consumer agent) through the
host's init system.

Commands accept service names as arguments. Without arguments they
operate on the whole family, with the worker template expanded using
PULP_CONCURRENCY from /etc/default/pulp_workers.

Use "pulpctl [command] --help" for more information about a specific
command.`,
	SilenceUsage: true,
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&exePathOverride, "exe-path", "",
		"path to the daemon executable recorded in init artifacts (default /usr/bin/<service>)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "/var/lib/pulp/pulpctl",
		"directory holding pulpctl's local state (service notes and scratchpads)")
}
