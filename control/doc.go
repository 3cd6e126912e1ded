// Package control provides functionality for managing the state of an
// installed pulp daemon.
//
// The Controller is used to control the state of a daemon through the
// init system: query its status, start, stop, restart, try-restart,
// force-reload, and install or uninstall its init artifacts. A
// Controller is configured using the ControllerConfig struct, usually
// derived from a services.Definition with ForDefinition.
//
// The generated init artifacts carry the Pulp dependency metadata:
// required LSB facilities, soft dependencies on the message broker and
// database daemons, and the default runlevels. They also source the
// service's /etc/default file before starting it.
package control
