package osutil

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

const pidFilePerm = 0644

// ReadPidFile parses the process ID stored in the file at the
// specified path.
func ReadPidFile(filePath string) (int, error) {
	contents, err := os.ReadFile(filePath)
	if err != nil {
		return 0, err
	}

	trimmed := strings.TrimSpace(string(contents))
	if len(trimmed) == 0 {
		return 0, fmt.Errorf("pid file '%s' is empty", filePath)
	}

	pid, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("failed to parse pid file '%s' - %s", filePath, err.Error())
	}

	if pid <= 0 {
		return 0, fmt.Errorf("pid file '%s' contains non-positive pid %d", filePath, pid)
	}

	return pid, nil
}

// WritePidFile stores a process ID in the file at the specified path.
func WritePidFile(filePath string, pid int) error {
	return os.WriteFile(filePath, []byte(strconv.Itoa(pid)+"\n"), pidFilePerm)
}

// IsPidAlive returns true when a process with the specified ID exists.
func IsPidAlive(pid int) bool {
	// Signal 0 performs permission and existence checks without
	// delivering anything.
	err := unix.Kill(pid, 0)
	if err == nil || err == unix.EPERM {
		return true
	}

	return false
}

// SignalReload delivers SIGHUP to the specified process.
func SignalReload(pid int) error {
	err := unix.Kill(pid, unix.SIGHUP)
	if err != nil {
		return fmt.Errorf("failed to signal pid %d - %s", pid, err.Error())
	}

	return nil
}
