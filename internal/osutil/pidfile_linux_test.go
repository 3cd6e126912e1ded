package osutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadPidFile(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "pulp_resource_manager.pid")

	err := WritePidFile(filePath, 4242)
	if err != nil {
		t.Fatalf("failed to write pid file - %s", err.Error())
	}

	pid, err := ReadPidFile(filePath)
	if err != nil {
		t.Fatalf("failed to read pid file - %s", err.Error())
	}

	if pid != 4242 {
		t.Errorf("expected pid 4242, got %d", pid)
	}
}

func TestReadPidFileTrailingWhitespace(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "goferd.pid")

	err := os.WriteFile(filePath, []byte("  1337\n\n"), 0644)
	if err != nil {
		t.Fatalf("failed to write pid file - %s", err.Error())
	}

	pid, err := ReadPidFile(filePath)
	if err != nil {
		t.Fatalf("failed to read pid file - %s", err.Error())
	}

	if pid != 1337 {
		t.Errorf("expected pid 1337, got %d", pid)
	}
}

func TestReadPidFileEmpty(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "empty.pid")

	err := os.WriteFile(filePath, []byte("\n"), 0644)
	if err != nil {
		t.Fatalf("failed to write pid file - %s", err.Error())
	}

	_, err = ReadPidFile(filePath)
	if err == nil {
		t.Fatal("expected an error for an empty pid file")
	}
}

func TestReadPidFileGarbage(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "garbage.pid")

	err := os.WriteFile(filePath, []byte("not-a-pid"), 0644)
	if err != nil {
		t.Fatalf("failed to write pid file - %s", err.Error())
	}

	_, err = ReadPidFile(filePath)
	if err == nil {
		t.Fatal("expected an error for a malformed pid file")
	}
}

func TestIsPidAlive(t *testing.T) {
	if !IsPidAlive(os.Getpid()) {
		t.Error("expected the current process to be alive")
	}
}
