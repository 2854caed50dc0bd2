package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "healthdash.toml")
	require.NoError(t, os.WriteFile(path, []byte(
		"port = 9000\nmoving_avg_days = 14\nformat = \"parquet\"\n"), 0o644))

	t.Setenv("HEALTHDASH_PORT", "9100")

	cfg, err := Load(path)
	require.NoError(t, err)
	// Env wins over file, file wins over defaults.
	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, 14, cfg.MovingAvgDays)
	assert.Equal(t, "parquet", cfg.Format)
	assert.Equal(t, "out", cfg.OutDir)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "healthdash.toml")
	require.NoError(t, os.WriteFile(path, []byte("port = = 1"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}
