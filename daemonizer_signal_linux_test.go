package pulp

import (
	"sync/atomic"
	"syscall"
	"testing"
	"time"
)

type countingApplication struct {
	started int32
	stopped int32
	reloads int32
}

func (o *countingApplication) Start() error {
	atomic.AddInt32(&o.started, 1)
	return nil
}

func (o *countingApplication) Stop() error {
	atomic.AddInt32(&o.stopped, 1)
	return nil
}

func (o *countingApplication) Reload() error {
	atomic.AddInt32(&o.reloads, 1)
	return nil
}

func TestRunUntilSignaledReloadsOnSighup(t *testing.T) {
	app := &countingApplication{}
	done := make(chan error, 1)

	go func() {
		done <- runUntilSignaled(app)
	}()

	// Give the goroutine time to register its signal handler.
	waitFor(t, func() bool { return atomic.LoadInt32(&app.started) == 1 })
	time.Sleep(50 * time.Millisecond)

	err := syscall.Kill(syscall.Getpid(), syscall.SIGHUP)
	if err != nil {
		t.Fatalf("failed to send SIGHUP - %s", err.Error())
	}

	waitFor(t, func() bool { return atomic.LoadInt32(&app.reloads) == 1 })

	err = syscall.Kill(syscall.Getpid(), syscall.SIGTERM)
	if err != nil {
		t.Fatalf("failed to send SIGTERM - %s", err.Error())
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run failed - %s", err.Error())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the application to stop")
	}

	if atomic.LoadInt32(&app.stopped) != 1 {
		t.Error("expected the application to be stopped exactly once")
	}
}

func waitFor(t *testing.T, condition func() bool) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatal("timed out waiting for condition")
}
