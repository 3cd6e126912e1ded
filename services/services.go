// Package services describes the Pulp daemon family: the services that
// together make up a Pulp installation, and the init-system metadata
// each one carries (defaults file, pid file, LSB dependencies,
// runlevels).
package services

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
)

// Well-known service IDs.
const (
	ResourceManager = "pulp_resource_manager"
	Workers         = "pulp_workers"
	CeleryBeat      = "pulp_celerybeat"
	Streamer        = "pulp_streamer"
	Agent           = "goferd"

	// workerIDPrefix names a single scaled worker instance, for
	// example 'pulp_worker-0'.
	workerIDPrefix = "pulp_worker-"
)

// Definition describes one member of the Pulp daemon family.
type Definition struct {
	// ID is the init-system facing service name, for example
	// 'pulp_resource_manager'.
	ID string

	// Description is the one-line blurb used in init artifacts.
	Description string

	// DefaultsPath is the environment file sourced by the service's
	// init script, for example '/etc/default/pulp_resource_manager'.
	// The file is optional on disk.
	DefaultsPath string

	// PidFilePath is where the running service records its pid.
	PidFilePath string

	// RequiredFacilities are the LSB facilities the service
	// requires at start and stop.
	RequiredFacilities []string

	// ShouldStartAfter are the LSB soft dependencies: services that
	// should be started first when present on the host.
	ShouldStartAfter []string

	// StartRunlevels and StopRunlevels are the default runlevels
	// the service starts and stops in.
	StartRunlevels []string
	StopRunlevels  []string

	// Scaled marks a service template that expands into numbered
	// instances (the workers).
	Scaled bool
}

var (
	requiredFacilities = []string{"$network", "$local_fs", "$remote_fs"}
	softDependencies   = []string{"mongod", "qpidd", "rabbitmq-server"}
	startRunlevels     = []string{"3", "4", "5"}
	stopRunlevels      = []string{"0", "1", "2", "6"}
)

var family = []Definition{
	newDefinition(ResourceManager, "Pulp resource manager", false),
	newDefinition(Workers, "Pulp task workers", true),
	newDefinition(CeleryBeat, "Pulp task scheduler", false),
	newDefinition(Streamer, "Pulp lazy content streamer", false),
	newDefinition(Agent, "Pulp consumer agent", false),
}

func newDefinition(id string, description string, scaled bool) Definition {
	return Definition{
		ID:                 id,
		Description:        description,
		DefaultsPath:       fmt.Sprintf("/etc/default/%s", id),
		PidFilePath:        fmt.Sprintf("/var/run/%s.pid", id),
		RequiredFacilities: requiredFacilities,
		ShouldStartAfter:   softDependencies,
		StartRunlevels:     startRunlevels,
		StopRunlevels:      stopRunlevels,
		Scaled:             scaled,
	}
}

// Family returns the Pulp daemon family in start order. The resource
// manager comes first so workers always find it running.
func Family() []Definition {
	result := make([]Definition, len(family))
	copy(result, family)

	return result
}

// Lookup finds a service definition by ID. Scaled worker instance IDs
// (such as 'pulp_worker-3') resolve to per-instance definitions.
func Lookup(id string) (Definition, error) {
	for _, definition := range family {
		if definition.ID == id {
			return definition, nil
		}
	}

	// Worker instance IDs are matched strictly so a typo such as
	// 'pulp_worker-3x' never targets a different instance.
	if rest, isWorker := strings.CutPrefix(id, workerIDPrefix); isWorker {
		instance, err := strconv.Atoi(rest)
		if err == nil && instance >= 0 && rest == strconv.Itoa(instance) {
			return workerInstance(instance), nil
		}
	}

	return Definition{}, fmt.Errorf("unknown pulp service '%s'", id)
}

// WorkerInstances expands the worker service template into n numbered
// instance definitions. When n is not positive, one worker per CPU is
// assumed.
func WorkerInstances(n int) []Definition {
	if n <= 0 {
		n = runtime.NumCPU()
	}

	result := make([]Definition, 0, n)
	for i := 0; i < n; i++ {
		result = append(result, workerInstance(i))
	}

	return result
}

func workerInstance(i int) Definition {
	definition := newDefinition(workerIDPrefix+strconv.Itoa(i), fmt.Sprintf("Pulp task worker #%d", i), false)

	// All worker instances share the 'pulp_workers' defaults file.
	definition.DefaultsPath = fmt.Sprintf("/etc/default/%s", Workers)

	return definition
}
