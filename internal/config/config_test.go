package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 20*time.Second, cfg.Pipeline.ProviderTimeout())
	assert.Equal(t, 300*time.Second, cfg.Pipeline.RunTimeout())
	assert.Equal(t, 45, cfg.Pipeline.EstimatedCompletionSecs)
	assert.Equal(t, 10, cfg.Batch.MaxCompanies)
	assert.Equal(t, "sonar-pro", cfg.Websearch.Model)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	raw, err := yaml.Marshal(map[string]any{
		"server": map[string]any{"port": 9191},
		"pipeline": map[string]any{
			"provider_timeout_secs": 5,
			"jitter_seed":           99,
		},
		"fmp": map[string]any{"key": "file-key"},
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), raw, 0o644))
	chdir(t, dir)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Pipeline.ProviderTimeout())
	assert.Equal(t, int64(99), cfg.Pipeline.JitterSeed)
	assert.Equal(t, "file-key", cfg.FMP.Key)
}

func TestLoad_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	raw, err := yaml.Marshal(map[string]any{
		"server": map[string]any{"port": 6161},
	})
	require.NoError(t, err)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 6161, cfg.Server.Port)
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_EnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("VENDORRISK_SERVER_PORT", "7070")
	t.Setenv("VENDORRISK_ANTHROPIC_KEY", "env-key")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "env-key", cfg.Anthropic.Key)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	require.Error(t, cfg.Validate())

	cfg.FMP.Key = "k"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic.key")

	cfg.Anthropic.Key = "k"
	assert.NoError(t, cfg.Validate())
}

func TestInitLogger_BadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "shout", Format: "json"})
	require.Error(t, err)
}
