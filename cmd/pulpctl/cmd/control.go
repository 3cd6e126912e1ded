package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/zxiong/pulp/control"
	"github.com/zxiong/pulp/defaults"
	"github.com/zxiong/pulp/notes"
	"github.com/zxiong/pulp/services"
)

// resolveServices maps command line arguments to service definitions.
// Without arguments the whole family is returned, with the worker
// template expanded per the defaults file.
func resolveServices(args []string) ([]services.Definition, error) {
	if len(args) == 0 {
		return expandFamily()
	}

	result := make([]services.Definition, 0, len(args))
	for _, id := range args {
		if id == services.Workers {
			workers, err := expandWorkers()
			if err != nil {
				return nil, err
			}
			result = append(result, workers...)
			continue
		}

		definition, err := services.Lookup(id)
		if err != nil {
			return nil, err
		}
		result = append(result, definition)
	}

	return result, nil
}

func expandFamily() ([]services.Definition, error) {
	var result []services.Definition
	for _, definition := range services.Family() {
		if !definition.Scaled {
			result = append(result, definition)
			continue
		}

		workers, err := expandWorkers()
		if err != nil {
			return nil, err
		}
		result = append(result, workers...)
	}

	return result, nil
}

func expandWorkers() ([]services.Definition, error) {
	workersDefinition, err := services.Lookup(services.Workers)
	if err != nil {
		return nil, err
	}

	config, err := defaults.Load(workersDefinition.DefaultsPath)
	if err != nil {
		return nil, err
	}

	return services.WorkerInstances(config.EffectiveConcurrency()), nil
}

func exePathFor(definition services.Definition) string {
	if len(exePathOverride) > 0 {
		return exePathOverride
	}

	return "/usr/bin/" + definition.ID
}

func controllerFor(definition services.Definition) (control.Controller, error) {
	config := control.ForDefinition(definition, exePathFor(definition))
	config.StartType = control.StartOnLoad

	return control.NewController(config)
}

// runControl executes one control command against each of the given
// services, reporting per-service results. It returns an error when
// any service failed.
func runControl(command control.Command, args []string) error {
	resolved, err := resolveServices(args)
	if err != nil {
		return err
	}

	failures := 0
	for _, definition := range resolved {
		controller, err := controllerFor(definition)
		if err != nil {
			return err
		}

		output, err := control.Execute(command, controller)
		if err != nil {
			slog.Error("command failed", "service", definition.ID, "command", string(command), "error", err)
			failures++
			continue
		}

		if len(output) > 0 {
			fmt.Printf("%s: %s\n", definition.ID, output)
		} else {
			fmt.Printf("%s: %s ok\n", definition.ID, string(command))
		}

		recordCommand(definition.ID, command)
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d services failed", failures, len(resolved))
	}

	return nil
}

// recordCommand stores the time of the last successful state change in
// the service's scratchpad. Recording is best effort: a missing or
// unwritable data directory must not fail the control command itself.
func recordCommand(serviceID string, command control.Command) {
	if command == control.GetStatus {
		return
	}

	store, err := notes.Open(dataDir)
	if err != nil {
		slog.Debug("skipping scratchpad update", "error", err)
		return
	}
	defer store.Close()

	scratchpad := store.Scratchpad(notes.ServiceOwner(serviceID))
	err = scratchpad.Set("last_"+string(command), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		slog.Debug("skipping scratchpad update", "error", err)
	}
}
