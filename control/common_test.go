package control

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zxiong/pulp/services"
)

type recordingController struct {
	status Status
	err    error
	calls  []string
}

func (o *recordingController) record(call string) error {
	o.calls = append(o.calls, call)
	return o.err
}

func (o *recordingController) Status() (Status, error) {
	o.calls = append(o.calls, "status")
	return o.status, o.err
}

func (o *recordingController) Install() error     { return o.record("install") }
func (o *recordingController) Uninstall() error   { return o.record("uninstall") }
func (o *recordingController) Start() error       { return o.record("start") }
func (o *recordingController) Stop() error        { return o.record("stop") }
func (o *recordingController) Restart() error     { return o.record("restart") }
func (o *recordingController) TryRestart() error  { return o.record("try-restart") }
func (o *recordingController) ForceReload() error { return o.record("force-reload") }

func TestExecuteStatus(t *testing.T) {
	controller := &recordingController{status: Running}

	output, err := Execute(GetStatus, controller)
	require.NoError(t, err)

	assert.Equal(t, "running", output)
	assert.Equal(t, []string{"status"}, controller.calls)
}

func TestExecuteDispatch(t *testing.T) {
	for _, command := range []Command{Start, Stop, Restart, TryRestart, ForceReload, Install, Uninstall} {
		controller := &recordingController{}

		output, err := Execute(command, controller)
		require.NoError(t, err, "command %q", command)

		assert.Empty(t, output)
		assert.Equal(t, []string{command.string()}, controller.calls, "command %q", command)
	}
}

func TestExecutePropagatesFailures(t *testing.T) {
	controller := &recordingController{err: errors.New("broker is down")}

	_, err := Execute(Start, controller)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker is down")
}

func TestExecuteUnknownCommand(t *testing.T) {
	_, err := Execute(Command("explode"), &recordingController{})
	require.Error(t, err)

	var unknownErr UnknownCommandError
	assert.ErrorAs(t, err, &unknownErr)
	assert.Contains(t, err.Error(), "explode")
}

func TestSupportedCommands(t *testing.T) {
	assert.Equal(t, []string{
		"status", "start", "stop", "restart",
		"try-restart", "force-reload", "install", "uninstall",
	}, SupportedCommands())
}

func TestForDefinition(t *testing.T) {
	definition, err := services.Lookup(services.ResourceManager)
	require.NoError(t, err)

	config := ForDefinition(definition, "/usr/bin/pulp-resource-manager", "--verbose")

	assert.Equal(t, "pulp_resource_manager", config.ServiceID)
	assert.Equal(t, "/usr/bin/pulp-resource-manager", config.ExePath)
	assert.Equal(t, []string{"--verbose"}, config.Arguments)
	assert.Equal(t, "/etc/default/pulp_resource_manager", config.DefaultsFilePath)
	assert.Equal(t, "/var/run/pulp_resource_manager.pid", config.PidFilePath)
	require.NoError(t, config.Validate())
}

func TestControllerConfigValidate(t *testing.T) {
	err := ControllerConfig{ExePath: "/usr/bin/true"}.Validate()
	assert.Error(t, err, "missing service id should be rejected")

	err = ControllerConfig{ServiceID: "pulp_streamer"}.Validate()
	assert.Error(t, err, "missing exe path should be rejected")

	err = ControllerConfig{ServiceID: "pulp streamer", ExePath: "/usr/bin/true"}.Validate()
	assert.Error(t, err, "service id with a space should be rejected")
}
