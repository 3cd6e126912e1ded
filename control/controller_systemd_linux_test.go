package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderUnit(t *testing.T) {
	config := resourceManagerConfig(t)
	config.RunAs = "apache"

	contents, err := renderUnit(config)
	require.NoError(t, err)
	rendered := string(contents)

	assert.Contains(t, rendered, "Description=Pulp resource manager\n")
	assert.Contains(t, rendered, "After=network.target\n")
	assert.Contains(t, rendered, "After=local-fs.target\n")
	assert.Contains(t, rendered, "After=remote-fs.target\n")
	assert.Contains(t, rendered, "Wants=mongod.service\n")
	assert.Contains(t, rendered, "Wants=qpidd.service\n")
	assert.Contains(t, rendered, "Wants=rabbitmq-server.service\n")
	assert.Contains(t, rendered, "After=rabbitmq-server.service\n")
	assert.Contains(t, rendered, "ExecStart=/usr/bin/pulp-resource-manager\n")
	assert.Contains(t, rendered, "ExecReload=/bin/kill -HUP $MAINPID\n")
	assert.Contains(t, rendered, "EnvironmentFile=-/etc/default/pulp_resource_manager\n")
	assert.Contains(t, rendered, "User=apache\n")
	assert.Contains(t, rendered, "WantedBy=multi-user.target\n")
}

func TestRenderUnitWithArguments(t *testing.T) {
	config := resourceManagerConfig(t)
	config.Arguments = []string{"--heartbeat-interval", "30"}

	contents, err := renderUnit(config)
	require.NoError(t, err)

	assert.Contains(t, string(contents), "ExecStart=/usr/bin/pulp-resource-manager --heartbeat-interval 30\n")
}

func TestRenderUnitUnknownFacility(t *testing.T) {
	config := resourceManagerConfig(t)
	config.RequiredFacilities = []string{"$time"}

	_, err := renderUnit(config)
	assert.Error(t, err)
}

func TestRenderUnitNoRunAs(t *testing.T) {
	contents, err := renderUnit(resourceManagerConfig(t))
	require.NoError(t, err)

	assert.NotContains(t, string(contents), "User=")
}
