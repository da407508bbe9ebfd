package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	limits, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), limits)
}

func TestLoadOverridesFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "limits.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_call_depth: 64\ndeterministic: true\nrandom_seed: 7\n"), 0o644))

	limits, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 64, limits.MaxCallDepth)
	assert.True(t, limits.Deterministic)
	assert.Equal(t, int64(7), limits.RandomSeed)
}

func TestLoadMissingFileIsAnError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
