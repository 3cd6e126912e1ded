// Package pulp provides tooling for running and managing the Pulp
// daemon family on Linux hosts.
//
// Supported init systems
//
// 	- systemd
// 	- System V (init.d) (if systemd is unavailable)
//
// Usage
//
// The top-level package provides the following interfaces:
// 	- Daemonizer
// 	- Application
//
// Daemonizer is used to turn your process into a daemon. Implementations
// use init-system specific logic to properly detach and run your code.
// This is facilitated by the Application interface: implement it in your
// program and hand it to the Daemonizer. An Application that also
// implements Reloader will have its configuration reloaded when the init
// system delivers a 'force-reload' (SIGHUP).
//
// The 'control' subpackage manages the state of an installed daemon
// (status, start, stop, restart, try-restart, force-reload, install,
// uninstall). The 'services' subpackage describes the Pulp service
// family (resource manager, workers, beat scheduler, streamer, agent).
package pulp
