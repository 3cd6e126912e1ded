package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFamilyOrder(t *testing.T) {
	family := Family()
	require.Len(t, family, 5)

	assert.Equal(t, ResourceManager, family[0].ID)
	assert.Equal(t, Workers, family[1].ID)
	assert.Equal(t, CeleryBeat, family[2].ID)
	assert.Equal(t, Streamer, family[3].ID)
	assert.Equal(t, Agent, family[4].ID)
}

func TestFamilyIsACopy(t *testing.T) {
	family := Family()
	family[0].ID = "mangled"

	assert.Equal(t, ResourceManager, Family()[0].ID)
}

func TestDefinitionMetadata(t *testing.T) {
	definition, err := Lookup(ResourceManager)
	require.NoError(t, err)

	assert.Equal(t, "/etc/default/pulp_resource_manager", definition.DefaultsPath)
	assert.Equal(t, "/var/run/pulp_resource_manager.pid", definition.PidFilePath)
	assert.Equal(t, []string{"$network", "$local_fs", "$remote_fs"}, definition.RequiredFacilities)
	assert.Equal(t, []string{"mongod", "qpidd", "rabbitmq-server"}, definition.ShouldStartAfter)
	assert.Equal(t, []string{"3", "4", "5"}, definition.StartRunlevels)
	assert.Equal(t, []string{"0", "1", "2", "6"}, definition.StopRunlevels)
	assert.False(t, definition.Scaled)
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("httpd")
	assert.Error(t, err)
}

func TestLookupWorkerInstance(t *testing.T) {
	definition, err := Lookup("pulp_worker-3")
	require.NoError(t, err)

	assert.Equal(t, "pulp_worker-3", definition.ID)
	assert.Equal(t, "/etc/default/pulp_workers", definition.DefaultsPath)
	assert.Equal(t, "/var/run/pulp_worker-3.pid", definition.PidFilePath)
}

func TestWorkerInstances(t *testing.T) {
	workers := WorkerInstances(3)
	require.Len(t, workers, 3)

	assert.Equal(t, "pulp_worker-0", workers[0].ID)
	assert.Equal(t, "pulp_worker-2", workers[2].ID)

	for _, worker := range workers {
		assert.Equal(t, "/etc/default/pulp_workers", worker.DefaultsPath)
		assert.False(t, worker.Scaled)
	}
}

func TestWorkerInstancesDefaultsToCPUCount(t *testing.T) {
	assert.NotEmpty(t, WorkerInstances(0))
	assert.NotEmpty(t, WorkerInstances(-1))
}

func TestLookupRejectsMalformedWorkerIDs(t *testing.T) {
	for _, id := range []string{
		"pulp_worker-3x",
		"pulp_worker-",
		"pulp_worker--1",
		"pulp_worker-03",
		"pulp_worker-+2",
	} {
		_, err := Lookup(id)
		assert.Error(t, err, "id %q should be rejected", id)
	}
}
