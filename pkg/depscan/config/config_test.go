package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultIgnorePatterns, cfg.IgnorePatterns)
	assert.Equal(t, DefaultIgnoreFile, cfg.IgnoreFile)
	assert.True(t, cfg.ReadIgnoreFile)
	assert.False(t, cfg.SkipMissing)
	assert.False(t, cfg.IgnoreBinPackages)
	assert.Equal(t, 0, cfg.Workers)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DEPSCAN_WORKERS", "4")
	t.Setenv("DEPSCAN_OUTPUT", "json")
	t.Setenv("DEPSCAN_SKIP_MISSING", "true")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "json", cfg.Output)
	assert.True(t, cfg.SkipMissing)
}

func TestLoadHonorsExplicitSettings(t *testing.T) {
	v := viper.New()
	v.Set("ignore_patterns", []string{"vendor"})
	v.Set("ignore_bin_packages", true)

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, []string{"vendor"}, cfg.IgnorePatterns)
	assert.True(t, cfg.IgnoreBinPackages)
	// Untouched keys still fall back to defaults.
	assert.Equal(t, DefaultOutput, cfg.Output)
}
