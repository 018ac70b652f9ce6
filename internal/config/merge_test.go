package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeServers_LocalPriorityKeepsLocalOnConflict(t *testing.T) {
	local := map[string]*ServerConfig{"fs": {Name: "fs", Command: "local-cmd"}}
	remote := map[string]*ServerConfig{
		"fs":   {Name: "fs", Command: "remote-cmd"},
		"new":  {Name: "new", Command: "remote-only"},
	}
	merged := mergeServers(local, remote, MergeLocalPriority)
	assert.Equal(t, "local-cmd", merged["fs"].Command)
	assert.Equal(t, "remote-only", merged["new"].Command)
}

func TestMergeServers_RemotePriorityOverwrites(t *testing.T) {
	local := map[string]*ServerConfig{"fs": {Name: "fs", Command: "local-cmd"}}
	remote := map[string]*ServerConfig{"fs": {Name: "fs", Command: "remote-cmd"}}
	merged := mergeServers(local, remote, MergeRemotePriority)
	assert.Equal(t, "remote-cmd", merged["fs"].Command)
}

func TestMergeServers_DeepMergeKeepsLocalFieldsMergesMaps(t *testing.T) {
	local := map[string]*ServerConfig{
		"fs": {
			Name:    "fs",
			Command: "local-cmd",
			Env:     map[string]string{"A": "local-a", "B": "local-b"},
		},
	}
	remote := map[string]*ServerConfig{
		"fs": {
			Name:    "fs",
			Command: "remote-cmd",
			Env:     map[string]string{"B": "remote-b", "C": "remote-c"},
		},
	}
	merged := mergeServers(local, remote, MergeDeep)

	assert.Equal(t, "local-cmd", merged["fs"].Command, "non-map fields come from local")
	assert.Equal(t, "local-a", merged["fs"].Env["A"])
	assert.Equal(t, "local-b", merged["fs"].Env["B"], "local wins on conflict")
	assert.Equal(t, "remote-c", merged["fs"].Env["C"], "remote-only keys are carried over")
}

func TestMergeServers_DeepMergeAddsRemoteOnlyEntries(t *testing.T) {
	local := map[string]*ServerConfig{}
	remote := map[string]*ServerConfig{"fs": {Name: "fs", Command: "remote-cmd"}}
	merged := mergeServers(local, remote, MergeDeep)
	assert.Contains(t, merged, "fs")
}
