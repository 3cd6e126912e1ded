package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zxiong/pulp/services"
)

func TestResolveServicesByName(t *testing.T) {
	resolved, err := resolveServices([]string{services.Streamer, services.Agent})
	require.NoError(t, err)
	require.Len(t, resolved, 2)

	assert.Equal(t, services.Streamer, resolved[0].ID)
	assert.Equal(t, services.Agent, resolved[1].ID)
}

func TestResolveServicesUnknown(t *testing.T) {
	_, err := resolveServices([]string{"httpd"})
	assert.Error(t, err)
}

func TestResolveServicesExpandsWorkers(t *testing.T) {
	resolved, err := resolveServices([]string{services.Workers})
	require.NoError(t, err)
	require.NotEmpty(t, resolved)

	for _, definition := range resolved {
		assert.True(t, strings.HasPrefix(definition.ID, "pulp_worker-"), "unexpected service %q", definition.ID)
	}
}

func TestResolveServicesWholeFamily(t *testing.T) {
	resolved, err := resolveServices(nil)
	require.NoError(t, err)

	ids := make(map[string]bool, len(resolved))
	workers := 0
	for _, definition := range resolved {
		ids[definition.ID] = true
		if strings.HasPrefix(definition.ID, "pulp_worker-") {
			workers++
		}

		assert.NotEqual(t, services.Workers, definition.ID, "the worker template must be expanded")
	}

	assert.True(t, ids[services.ResourceManager])
	assert.True(t, ids[services.CeleryBeat])
	assert.True(t, ids[services.Streamer])
	assert.True(t, ids[services.Agent])
	assert.NotZero(t, workers)
}

func TestExePathFor(t *testing.T) {
	definition, err := services.Lookup(services.ResourceManager)
	require.NoError(t, err)

	assert.Equal(t, "/usr/bin/pulp_resource_manager", exePathFor(definition))

	exePathOverride = "/opt/pulp/bin/manager"
	defer func() { exePathOverride = "" }()

	assert.Equal(t, "/opt/pulp/bin/manager", exePathFor(definition))
}
