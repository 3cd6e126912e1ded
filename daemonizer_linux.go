package pulp

import (
	"github.com/zxiong/pulp/internal/osutil"
)

// NewDaemonizer returns a Daemonizer for the running init system.
// systemd is preferred; System V is used as the fallback.
func NewDaemonizer(logConfig LogConfig) Daemonizer {
	if _, isSystemd := osutil.IsSystemd(); isSystemd {
		return newSystemdDaemonizer(logConfig)
	}

	return newSystemvDaemonizer(logConfig)
}
