package pulp

import (
	"fmt"
)

// PidFileVar is the shell variable that holds the pid file path in
// generated init.d scripts. The System V Daemonizer locates the pid
// file by scanning the script for this variable.
const PidFileVar = "PIDFILE"

// Daemonizer runs an Application as a daemon using init-system
// specific logic.
type Daemonizer interface {
	// RunUntilExit blocks and runs the Application until the init
	// system asks the daemon to stop (SIGINT or SIGTERM).
	//
	// Gotchas: on System V machines, the calling process may be
	// replaced by a forked copy of itself when it was started by an
	// init.d script. Do not open resources that must survive the
	// fork before calling this method.
	RunUntilExit(Application) error
}

// Application is implemented by programs that wish to run as one of
// the pulp daemons.
type Application interface {
	// Start starts the application's work. It must not block.
	Start() error

	// Stop stops the application's work.
	Stop() error
}

// Reloader is optionally implemented by Applications that can reload
// their configuration without restarting. The Daemonizer calls Reload
// when the daemon receives SIGHUP, which is what the init system's
// 'force-reload' command delivers.
type Reloader interface {
	Reload() error
}

// LogConfig configures the daemon's logging behavior.
type LogConfig struct {
	// UseNativeLogger configures the standard 'log' package to write
	// to the destination the init system collects (stderr).
	UseNativeLogger bool

	// NativeLogFlags customizes the 'log' package's flags when
	// UseNativeLogger is enabled. systemd already timestamps log
	// lines, so flags default to 0 there.
	NativeLogFlags int
}

// DefaultPidFilePath returns the conventional pid file path for a
// service. Example: '/var/run/pulp_resource_manager.pid'.
func DefaultPidFilePath(serviceID string) string {
	return fmt.Sprintf("/var/run/%s.pid", serviceID)
}
