package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zxiong/pulp/control"
	"github.com/zxiong/pulp/defaults"
	"github.com/zxiong/pulp/services"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload daemons when their /etc/default files change",
	Long: `watch observes the family's /etc/default files and delivers a
force-reload to each service whose file changes. A change to the
workers file reloads every worker instance. Runs until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := make(map[string]string)
		for _, definition := range services.Family() {
			paths[definition.ID] = definition.DefaultsPath
		}

		watcher, err := defaults.NewWatcher(paths)
		if err != nil {
			return err
		}
		defer watcher.Close()

		interrupts := make(chan os.Signal, 1)
		signal.Notify(interrupts, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(interrupts)

		slog.Info("watching defaults files", "services", len(paths))

		for {
			select {
			case serviceID, ok := <-watcher.Changes():
				if !ok {
					return nil
				}

				slog.Info("defaults file changed", "service", serviceID)
				reloadChanged(serviceID)
			case err, ok := <-watcher.Errors():
				if ok && err != nil {
					slog.Error("watcher error", "error", err)
				}
			case <-interrupts:
				return nil
			}
		}
	},
}

func reloadChanged(serviceID string) {
	err := runControl(control.ForceReload, []string{serviceID})
	if err != nil {
		slog.Error("failed to reload", "service", serviceID, "error", err)
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
