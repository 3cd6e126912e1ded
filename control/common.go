package control

import (
	"fmt"
	"strings"

	"github.com/zxiong/pulp"
	"github.com/zxiong/pulp/services"
)

const (
	Unknown      Status = "unknown"
	Running      Status = "running"
	Stopped      Status = "stopped"
	StoppedDead  Status = "stopped_dead"
	NotInstalled Status = "not_installed"

	GetStatus   Command = "status"
	Start       Command = "start"
	Stop        Command = "stop"
	Restart     Command = "restart"
	TryRestart  Command = "try-restart"
	ForceReload Command = "force-reload"
	Install     Command = "install"
	Uninstall   Command = "uninstall"

	// StartImmediately means the daemon starts right after it is
	// installed, and also whenever the operating system loads it
	// (the StartOnLoad behavior).
	StartImmediately StartType = "start_immediately"

	// StartOnLoad means the daemon starts whenever the operating
	// system loads it (at boot for system daemons), but not
	// directly after installation.
	StartOnLoad StartType = "start_on_load"

	// ManualStart means the daemon must always be started by hand.
	ManualStart StartType = "manual"
)

// Status represents the status of a daemon as reported by the
// init system.
type Status string

func (o Status) String() string {
	return string(o)
}

// Command represents a command that can be issued to a daemon
// Controller. The names match the verbs the init script accepts.
type Command string

func (o Command) string() string {
	return string(o)
}

// StartType represents how the daemon will start once its installation
// is finished.
type StartType string

// Controller is an interface for controlling the state of a daemon.
//
// Be advised: changing the state of a system daemon requires super
// user privileges.
type Controller interface {
	// Status returns the current status of the daemon.
	Status() (Status, error)

	// Install writes the daemon's init artifacts and registers it
	// with the init system according to the configured StartType.
	Install() error

	// Uninstall stops the daemon and removes its init artifacts.
	Uninstall() error

	// Start starts the daemon.
	Start() error

	// Stop stops the daemon.
	Stop() error

	// Restart stops the daemon (if running) and starts it.
	Restart() error

	// TryRestart restarts the daemon only if it is currently
	// running. A stopped daemon is left alone.
	TryRestart() error

	// ForceReload makes the daemon reload its configuration
	// (SIGHUP), restarting it if the init system must.
	ForceReload() error
}

// ControllerConfig configures a daemon Controller.
type ControllerConfig struct {
	// ServiceID is the init-system facing service name (for
	// example, 'pulp_resource_manager'). It must contain no spaces
	// or special characters.
	ServiceID string

	// Description is a short blurb describing the service.
	Description string

	// ExePath is the path to the daemon's executable.
	ExePath string

	// Arguments are the command line arguments passed to the
	// daemon's executable on startup.
	Arguments []string

	// RunAs is the user to run the daemon as. Defaults to root.
	RunAs string

	// StartType specifies the daemon's start up behavior.
	// If left unset, the daemon must be started manually.
	StartType StartType

	// DefaultsFilePath is the environment file the init system
	// loads before starting the daemon (for example,
	// '/etc/default/pulp_resource_manager'). The file is optional
	// on disk. Leave empty to skip it.
	DefaultsFilePath string

	// PidFilePath is where the pid of the running daemon is
	// recorded. Defaults to '/var/run/<ServiceID>.pid'.
	PidFilePath string

	// RequiredFacilities are the LSB facilities the service
	// requires (for example, '$network').
	RequiredFacilities []string

	// ShouldStartAfter are soft dependencies: services that should
	// start first when present on the host (for example, 'mongod').
	ShouldStartAfter []string

	// StartRunlevels and StopRunlevels are the runlevels the
	// service starts and stops in.
	StartRunlevels []string
	StopRunlevels  []string

	// LogConfig configures where the init system sends the
	// daemon's log output.
	LogConfig pulp.LogConfig
}

// ForDefinition builds a ControllerConfig from a member of the Pulp
// service family.
func ForDefinition(definition services.Definition, exePath string, arguments ...string) ControllerConfig {
	return ControllerConfig{
		ServiceID:          definition.ID,
		Description:        definition.Description,
		ExePath:            exePath,
		Arguments:          arguments,
		DefaultsFilePath:   definition.DefaultsPath,
		PidFilePath:        definition.PidFilePath,
		RequiredFacilities: definition.RequiredFacilities,
		ShouldStartAfter:   definition.ShouldStartAfter,
		StartRunlevels:     definition.StartRunlevels,
		StopRunlevels:      definition.StopRunlevels,
	}
}

func (o ControllerConfig) Validate() error {
	if len(o.ServiceID) == 0 {
		return fmt.Errorf("service id must be provided to controller config")
	}

	if strings.ContainsAny(o.ServiceID, " \t/") {
		return fmt.Errorf("service id '%s' contains illegal characters", o.ServiceID)
	}

	if len(o.ExePath) == 0 {
		return fmt.Errorf("executable path must be provided to controller config")
	}

	return nil
}

func (o ControllerConfig) pidFilePath() string {
	if len(o.PidFilePath) > 0 {
		return o.PidFilePath
	}

	return pulp.DefaultPidFilePath(o.ServiceID)
}

func (o ControllerConfig) argumentsAsString() string {
	if len(o.Arguments) == 0 {
		return ""
	}

	return strings.Join(o.Arguments, " ")
}

// SupportedCommandsString returns a printable string that represents a
// list of supported daemon control commands.
func SupportedCommandsString() string {
	return fmt.Sprintf("'%s'", strings.Join(SupportedCommands(), "', '"))
}

// SupportedCommands returns a slice of supported daemon control
// commands.
func SupportedCommands() []string {
	return []string{
		GetStatus.string(),
		Start.string(),
		Stop.string(),
		Restart.string(),
		TryRestart.string(),
		ForceReload.string(),
		Install.string(),
		Uninstall.string(),
	}
}

// Execute executes a control command using the provided daemon
// controller. This helper turns raw user input (a command line
// argument, for example) into a Controller execution. It returns any
// information associated with the execution (e.g., the status of
// the daemon).
func Execute(command Command, controller Controller) (output string, err error) {
	switch command {
	case GetStatus:
		status, err := controller.Status()
		if err != nil {
			return "", fmt.Errorf("failed to get daemon status - %s", err.Error())
		}

		return status.String(), nil
	case Start:
		err := controller.Start()
		if err != nil {
			return "", fmt.Errorf("failed to start daemon - %s", err.Error())
		}
	case Stop:
		err := controller.Stop()
		if err != nil {
			return "", fmt.Errorf("failed to stop daemon - %s", err.Error())
		}
	case Restart:
		err := controller.Restart()
		if err != nil {
			return "", fmt.Errorf("failed to restart daemon - %s", err.Error())
		}
	case TryRestart:
		err := controller.TryRestart()
		if err != nil {
			return "", fmt.Errorf("failed to conditionally restart daemon - %s", err.Error())
		}
	case ForceReload:
		err := controller.ForceReload()
		if err != nil {
			return "", fmt.Errorf("failed to reload daemon - %s", err.Error())
		}
	case Install:
		err := controller.Install()
		if err != nil {
			return "", fmt.Errorf("failed to install daemon - %s", err.Error())
		}
	case Uninstall:
		err := controller.Uninstall()
		if err != nil {
			return "", fmt.Errorf("failed to uninstall daemon - %s", err.Error())
		}
	default:
		return "", UnknownCommandError{command: command}
	}

	return "", nil
}

// UnknownCommandError is returned by Execute when the command is not
// one of the supported control commands.
type UnknownCommandError struct {
	command Command
}

func (o UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown daemon command '%s' - supported commands are %s",
		o.command.string(), SupportedCommandsString())
}
