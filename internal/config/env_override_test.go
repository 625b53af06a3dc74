package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvOverrides_LegacyVariables(t *testing.T) {
	t.Setenv("PDA1ACKNOWLEDGEMENTSCHEMA", "legacy/schema.json")
	t.Setenv("PDA1DATASET", "legacy/dataset.json")
	t.Setenv("OUTPUTJSON", "legacy/out.json")
	t.Setenv("ZLIBBED", "legacy/out.zlib")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "legacy/schema.json", cfg.Schema)
	assert.Equal(t, "legacy/dataset.json", cfg.Dataset)
	assert.Equal(t, "legacy/out.json", cfg.Output.Path)
	assert.Equal(t, "legacy/out.zlib", cfg.Output.DeflatePath)
}

func TestEnvOverrides_PrefixedVariablesWin(t *testing.T) {
	t.Setenv("PDA1ACKNOWLEDGEMENTSCHEMA", "legacy/schema.json")
	t.Setenv("SYNTHDOC_SCHEMA", "new/schema.json")
	t.Setenv("SYNTHDOC_SEED", "1234")
	t.Setenv("SYNTHDOC_LOG_LEVEL", "debug")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "new/schema.json", cfg.Schema)
	assert.Equal(t, uint64(1234), cfg.Generation.Seed)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestEnvOverrides_BadSeed(t *testing.T) {
	t.Setenv("SYNTHDOC_SEED", "-1")
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
