package defaults

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcherReportsChangedService(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pulp_resource_manager")
	require.NoError(t, os.WriteFile(path, []byte("PULP_CONCURRENCY=1\n"), 0644))

	watcher, err := NewWatcher(map[string]string{
		"pulp_resource_manager": path,
	})
	require.NoError(t, err)
	defer watcher.Close()

	require.NoError(t, os.WriteFile(path, []byte("PULP_CONCURRENCY=2\n"), 0644))

	select {
	case serviceID := <-watcher.Changes():
		require.Equal(t, "pulp_resource_manager", serviceID)
	case err := <-watcher.Errors():
		t.Fatalf("watcher failed: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a change notification")
	}
}

func TestWatcherIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "pulp_workers")
	unrelated := filepath.Join(dir, "httpd")
	require.NoError(t, os.WriteFile(watched, nil, 0644))

	watcher, err := NewWatcher(map[string]string{
		"pulp_workers": watched,
	})
	require.NoError(t, err)
	defer watcher.Close()

	require.NoError(t, os.WriteFile(unrelated, []byte("ignored\n"), 0644))

	select {
	case serviceID := <-watcher.Changes():
		t.Fatalf("unexpected change notification for %q", serviceID)
	case <-time.After(250 * time.Millisecond):
	}
}
