package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zxiong/pulp/control"
	"github.com/zxiong/pulp/services"
)

var (
	installRunAs    string
	installStartNow bool
)

var installCmd = &cobra.Command{
	Use:   "install [service...]",
	Short: "Install init artifacts for the Pulp daemons",
	Long: `install writes an init.d script (System V) or a unit file (systemd)
for each service and registers it to start at boot. The generated
artifacts declare the Pulp dependency metadata and source the
service's /etc/default file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		resolved, err := resolveServices(args)
		if err != nil {
			return err
		}

		startType := control.StartOnLoad
		if installStartNow {
			startType = control.StartImmediately
		}

		for _, definition := range resolved {
			err := installService(definition, startType)
			if err != nil {
				return err
			}

			fmt.Printf("%s: installed\n", definition.ID)
		}

		return nil
	},
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall [service...]",
	Short: "Stop the Pulp daemons and remove their init artifacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runControl(control.Uninstall, args)
	},
}

func installService(definition services.Definition, startType control.StartType) error {
	config := control.ForDefinition(definition, exePathFor(definition))
	config.RunAs = installRunAs
	config.StartType = startType

	controller, err := control.NewController(config)
	if err != nil {
		return err
	}

	_, err = control.Execute(control.Install, controller)

	return err
}

func init() {
	installCmd.Flags().StringVar(&installRunAs, "run-as", "", "user to run the daemons as (default root)")
	installCmd.Flags().BoolVar(&installStartNow, "start-now", false, "start each daemon right after installing it")

	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
}
