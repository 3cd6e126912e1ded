package control

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/coreos/go-systemd/v22/unit"
	"github.com/zxiong/pulp/internal/osutil"
)

const daemonReloadCommand = "daemon-reload"

// lsbFacilityTargets maps the LSB facilities named in init-info
// headers to their systemd target equivalents.
var lsbFacilityTargets = map[string]string{
	"$network":   "network.target",
	"$local_fs":  "local-fs.target",
	"$remote_fs": "remote-fs.target",
	"$syslog":    "syslog.target",
}

type systemdController struct {
	systemctlPath string
	serviceID     string
	unitFilePath  string
	unitContents  []byte
	startType     StartType
}

func (o *systemdController) Status() (Status, error) {
	unitInfo, statErr := os.Stat(o.unitFilePath)
	if statErr != nil || unitInfo.IsDir() {
		return NotInstalled, nil
	}

	_, exitCode, statusErr := osutil.RunDaemonCli(o.systemctlPath, "status", o.serviceID)
	if statusErr != nil {
		switch exitCode {
		case 3:
			return Stopped, nil
		case 1:
			return StoppedDead, nil
		}
	}

	if exitCode == 0 {
		return Running, nil
	}

	return Unknown, nil
}

func (o *systemdController) Install() error {
	err := os.WriteFile(o.unitFilePath, o.unitContents, 0644)
	if err != nil {
		return fmt.Errorf("failed to write systemd unit file - %s", err.Error())
	}

	_, _, err = osutil.RunDaemonCli(o.systemctlPath, daemonReloadCommand)
	if err != nil {
		return err
	}

	switch o.startType {
	case StartImmediately:
		err := o.Start()
		if err != nil {
			return err
		}
		fallthrough
	case StartOnLoad:
		_, _, err := osutil.RunDaemonCli(o.systemctlPath, "enable", o.serviceID)
		if err != nil {
			return err
		}
	case ManualStart:
	}

	return nil
}

func (o *systemdController) Uninstall() error {
	// Try to stop the daemon. Ignore any errors because it might be
	// stopped already, or the stop failed (which there is nothing
	// we can do about).
	o.Stop()

	err := os.Remove(o.unitFilePath)
	if err != nil {
		return err
	}

	_, _, err = osutil.RunDaemonCli(o.systemctlPath, daemonReloadCommand)
	if err != nil {
		return err
	}

	return nil
}

func (o *systemdController) Start() error {
	_, _, err := osutil.RunDaemonCli(o.systemctlPath, "start", o.serviceID)
	if err != nil {
		return err
	}

	return nil
}

func (o *systemdController) Stop() error {
	_, _, err := osutil.RunDaemonCli(o.systemctlPath, "stop", o.serviceID)
	if err != nil {
		return err
	}

	return nil
}

func (o *systemdController) Restart() error {
	_, _, err := osutil.RunDaemonCli(o.systemctlPath, "restart", o.serviceID)
	if err != nil {
		return err
	}

	return nil
}

func (o *systemdController) TryRestart() error {
	_, _, err := osutil.RunDaemonCli(o.systemctlPath, "try-restart", o.serviceID)
	if err != nil {
		return err
	}

	return nil
}

func (o *systemdController) ForceReload() error {
	_, _, err := osutil.RunDaemonCli(o.systemctlPath, "reload-or-restart", o.serviceID)
	if err != nil {
		return err
	}

	return nil
}

// renderUnit serializes the systemd unit for the controller config.
// LSB facilities become After dependencies on the equivalent targets;
// soft dependencies become Wants+After on '<name>.service'. The
// defaults file is loaded with an optional EnvironmentFile.
func renderUnit(config ControllerConfig) ([]byte, error) {
	unitOptions := []*unit.UnitOption{
		unit.NewUnitOption("Unit", "Description", config.Description),
	}

	for _, facility := range config.RequiredFacilities {
		target, known := lsbFacilityTargets[facility]
		if !known {
			return nil, fmt.Errorf("no systemd target is known for LSB facility '%s'", facility)
		}
		unitOptions = append(unitOptions, unit.NewUnitOption("Unit", "After", target))
	}

	for _, dependency := range config.ShouldStartAfter {
		dependencyUnit := dependency + ".service"
		unitOptions = append(unitOptions,
			unit.NewUnitOption("Unit", "Wants", dependencyUnit),
			unit.NewUnitOption("Unit", "After", dependencyUnit))
	}

	execStart := config.ExePath
	if arguments := config.argumentsAsString(); len(arguments) > 0 {
		execStart += " " + arguments
	}

	unitOptions = append(unitOptions,
		unit.NewUnitOption("Service", "Type", "simple"),
		unit.NewUnitOption("Service", "ExecStart", execStart),
		unit.NewUnitOption("Service", "ExecReload", "/bin/kill -HUP $MAINPID"),
		unit.NewUnitOption("Service", "Restart", "on-failure"))

	if len(config.DefaultsFilePath) > 0 {
		// The leading '-' makes a missing defaults file non-fatal,
		// matching the init.d script behavior.
		unitOptions = append(unitOptions,
			unit.NewUnitOption("Service", "EnvironmentFile", "-"+config.DefaultsFilePath))
	}

	if len(config.RunAs) > 0 {
		unitOptions = append(unitOptions, unit.NewUnitOption("Service", "User", config.RunAs))
	}

	unitOptions = append(unitOptions,
		unit.NewUnitOption("Install", "WantedBy", "multi-user.target"))

	unitContents, err := io.ReadAll(unit.Serialize(unitOptions))
	if err != nil {
		return nil, fmt.Errorf("failed to read from unit reader - %s", err.Error())
	}

	return unitContents, nil
}

func newSystemdController(config ControllerConfig, systemctlPath string) (*systemdController, error) {
	err := config.Validate()
	if err != nil {
		return nil, err
	}

	unitContents, err := renderUnit(config)
	if err != nil {
		return nil, err
	}

	serviceID := config.ServiceID
	if !strings.HasSuffix(serviceID, ".service") {
		serviceID += ".service"
	}

	return &systemdController{
		systemctlPath: systemctlPath,
		serviceID:     serviceID,
		unitFilePath:  fmt.Sprintf("/etc/systemd/system/%s", serviceID),
		unitContents:  unitContents,
		startType:     config.StartType,
	}, nil
}
