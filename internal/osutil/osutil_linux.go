package osutil

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

const (
	systemctlExeName = "systemctl"
	serviceExeName   = "service"
	chkconfigExeName = "chkconfig"
	updatercdExeName = "update-rc.d"

	redhatReleaseFilePath = "/etc/redhat-release"
)

var (
	systemctlExeDirPaths = []string{"/bin", "/usr/bin"}
	serviceExeDirPaths   = []string{"/sbin", "/usr/sbin"}
	chkconfigExeDirPaths = []string{"/sbin", "/usr/sbin"}
	updatercdExeDirPaths = []string{"/usr/sbin", "/sbin"}
)

// IsSystemd returns the path to the 'systemctl' executable and true when
// the running system is managed by systemd.
func IsSystemd() (string, bool) {
	systemctlPath, err := searchForExeInPaths(systemctlExeName, systemctlExeDirPaths)
	if err != nil {
		return "", false
	}

	// 'systemctl' exits non-zero when systemd is not PID 1 (for
	// example, inside a container that only has the binary).
	_, _, err = RunDaemonCli(systemctlPath, "is-system-running")
	if err != nil && !strings.Contains(err.Error(), "degraded") {
		return "", false
	}

	return systemctlPath, true
}

// IsSystemv returns the path to the 'service' executable, whether the
// system is a RedHat derivative, and true when System V tooling is
// available.
func IsSystemv() (servicePath string, isRedHat bool, notVReason string, isSystemv bool) {
	servicePath, err := searchForExeInPaths(serviceExeName, serviceExeDirPaths)
	if err != nil {
		return "", false, fmt.Sprintf("failed to locate the 'service' executable - %s", err.Error()), false
	}

	info, statErr := os.Stat(redhatReleaseFilePath)
	isRedHat = statErr == nil && !info.IsDir()

	return servicePath, isRedHat, "", true
}

// ChkconfigPath returns the path to the 'chkconfig' executable
// (RedHat derivatives).
func ChkconfigPath() (string, error) {
	return searchForExeInPaths(chkconfigExeName, chkconfigExeDirPaths)
}

// UpdatercdPath returns the path to the 'update-rc.d' executable
// (Debian derivatives).
func UpdatercdPath() (string, error) {
	return searchForExeInPaths(updatercdExeName, updatercdExeDirPaths)
}

// RunDaemonCli executes a daemon management command line tool, returning
// its trimmed combined output and exit code.
func RunDaemonCli(exePath string, args ...string) (string, int, error) {
	s := exec.Command(exePath, args...)
	output, err := s.CombinedOutput()
	trimmedOutput := strings.TrimSpace(string(output))
	if err != nil {
		return trimmedOutput, s.ProcessState.ExitCode(),
			fmt.Errorf("failed to execute '%s %s' - %s - output: %s",
				exePath, strings.Join(args, " "), err.Error(), trimmedOutput)
	}

	return trimmedOutput, s.ProcessState.ExitCode(), nil
}

func searchForExeInPaths(exeName string, dirPaths []string) (string, error) {
	for _, dirPath := range dirPaths {
		exePath := dirPath + "/" + exeName
		info, err := os.Stat(exePath)
		if err == nil && !info.IsDir() {
			return exePath, nil
		}
	}

	exePath, err := exec.LookPath(exeName)
	if err != nil {
		return "", fmt.Errorf("failed to locate '%s' in %v or PATH", exeName, dirPaths)
	}

	return exePath, nil
}
