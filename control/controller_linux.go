package control

import (
	"fmt"

	"github.com/zxiong/pulp/internal/osutil"
)

// NewController returns a Controller for the running init system.
// systemd is preferred; System V is used as the fallback.
func NewController(controllerConfig ControllerConfig) (Controller, error) {
	if systemctlPath, isSystemd := osutil.IsSystemd(); isSystemd {
		return newSystemdController(controllerConfig, systemctlPath)
	}

	servicePath, isRedHat, notVReason, isSystemv := osutil.IsSystemv()
	if isSystemv {
		return newSystemvController(controllerConfig, servicePath, isRedHat)
	}

	return nil, fmt.Errorf("failed to find a supported init system - %s", notVReason)
}
