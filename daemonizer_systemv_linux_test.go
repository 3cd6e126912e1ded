package pulp

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPidFilePathFromInitdScript(t *testing.T) {
	scriptPath := filepath.Join(t.TempDir(), "pulp_resource_manager")

	script := `#!/bin/sh
# chkconfig: 345 85 15
PROG=pulp_resource_manager
` + PidFileVar + `='/var/run/pulp_resource_manager.pid'
. /etc/rc.d/init.d/functions
`

	err := os.WriteFile(scriptPath, []byte(script), 0755)
	if err != nil {
		t.Fatalf("failed to write init script - %s", err.Error())
	}

	pidFilePath, err := pidFilePathFromInitdScript(scriptPath)
	if err != nil {
		t.Fatalf("failed to find pid file path - %s", err.Error())
	}

	if pidFilePath != "/var/run/pulp_resource_manager.pid" {
		t.Errorf("unexpected pid file path: '%s'", pidFilePath)
	}
}

func TestPidFilePathFromInitdScriptMissingVar(t *testing.T) {
	scriptPath := filepath.Join(t.TempDir(), "goferd")

	err := os.WriteFile(scriptPath, []byte("#!/bin/sh\nexit 0\n"), 0755)
	if err != nil {
		t.Fatalf("failed to write init script - %s", err.Error())
	}

	_, err = pidFilePathFromInitdScript(scriptPath)
	if err == nil {
		t.Fatal("expected an error when the pid file variable is absent")
	}
}

func TestDefaultPidFilePath(t *testing.T) {
	result := DefaultPidFilePath("pulp_streamer")
	if result != "/var/run/pulp_streamer.pid" {
		t.Errorf("unexpected pid file path: '%s'", result)
	}
}
