// Package defaults loads the environment files under /etc/default that
// the generated init scripts source before starting a service.
package defaults

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables recognized in the defaults files.
const (
	ConcurrencyVar      = "PULP_CONCURRENCY"
	MaxTasksPerChildVar = "PULP_MAX_TASKS_PER_CHILD"
)

// Config holds the parsed contents of a service's defaults file.
type Config struct {
	// Concurrency is the number of worker instances to run. Zero
	// means the file did not set it; EffectiveConcurrency applies
	// the CPU-count fallback.
	Concurrency int

	// MaxTasksPerChild limits how many tasks a worker performs
	// before being replaced. Zero means unlimited.
	MaxTasksPerChild int

	// Env holds every variable defined in the file, including ones
	// this package does not interpret. The init script sources the
	// whole file, so the toolkit preserves it verbatim.
	Env map[string]string
}

// Load parses the defaults file at the given path. A missing file is
// not an error: init scripts treat these files as optional, so an
// absent file yields a zero-value Config.
func Load(path string) (Config, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{Env: map[string]string{}}, nil
		}

		return Config{}, fmt.Errorf("failed to parse defaults file %s: %w", path, err)
	}

	config := Config{Env: env}

	config.Concurrency, err = positiveIntVar(env, ConcurrencyVar)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	config.MaxTasksPerChild, err = positiveIntVar(env, MaxTasksPerChildVar)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	return config, nil
}

// EffectiveConcurrency returns the configured worker count, falling
// back to the host's CPU count when the defaults file does not set one.
func (o Config) EffectiveConcurrency() int {
	if o.Concurrency > 0 {
		return o.Concurrency
	}

	return runtime.NumCPU()
}

func positiveIntVar(env map[string]string, name string) (int, error) {
	raw, ok := env[name]
	if !ok || raw == "" {
		return 0, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, raw)
	}

	return value, nil
}
