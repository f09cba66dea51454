package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sriram-PR/pydocs-scraper/pkg/utils"
)

func TestLoad_ValidFile(t *testing.T) {
	content := `
base_dir: "/tmp/pydocs"
results_dir: "csv"
num_workers: 3
respect_robots_txt: true
delay_per_host: 500ms
http_client_settings:
  timeout: 10s
`
	cfgPath := filepath.Join(t.TempDir(), "pydocs.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0644))

	cfg, err := Load(cfgPath, false)

	require.NoError(t, err)
	assert.Equal(t, "/tmp/pydocs", cfg.BaseDir)
	assert.Equal(t, "csv", cfg.ResultsDir)
	assert.Equal(t, 3, cfg.NumWorkers)
	assert.True(t, cfg.RespectRobotsTxt)
	assert.Equal(t, "500ms", cfg.DelayPerHost.String())
	assert.Equal(t, "10s", cfg.HTTPClientSettings.Timeout.String())
}

func TestLoad_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.yaml")

	t.Run("allowed", func(t *testing.T) {
		cfg, err := Load(missing, true)
		require.NoError(t, err)
		assert.Equal(t, AppConfig{}, *cfg)
	})

	t.Run("required", func(t *testing.T) {
		_, err := Load(missing, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read config")
	})
}

func TestLoad_InvalidYAML(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("{{invalid yaml"), 0644))

	_, err := Load(cfgPath, true)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
	assert.True(t, errors.Is(err, utils.ErrConfigValidation))
}

func TestResolveDir(t *testing.T) {
	cfg := AppConfig{BaseDir: "/base"}

	assert.Equal(t, filepath.Join("/base", "results"), cfg.ResolveDir("results"))
	assert.Equal(t, "/abs/results", cfg.ResolveDir("/abs//results/"))
}

func TestEnsureDir_CreatesOnDemand(t *testing.T) {
	cfg := AppConfig{BaseDir: t.TempDir()}

	dir, err := cfg.EnsureDir(filepath.Join("nested", "downloads"))

	require.NoError(t, err)
	info, statErr := os.Stat(dir)
	require.NoError(t, statErr)
	assert.True(t, info.IsDir())

	// Second call is a no-op on an existing directory
	again, err := cfg.EnsureDir(filepath.Join("nested", "downloads"))
	require.NoError(t, err)
	assert.Equal(t, dir, again)
}

func TestGetEffectiveWorkers(t *testing.T) {
	assert.Equal(t, 1, (&AppConfig{}).GetEffectiveWorkers())
	assert.Equal(t, 1, (&AppConfig{NumWorkers: -2}).GetEffectiveWorkers())
	assert.Equal(t, 6, (&AppConfig{NumWorkers: 6}).GetEffectiveWorkers())
}

func TestGetEffectiveLogPath(t *testing.T) {
	cfg := AppConfig{BaseDir: "/base", LogDir: "logs", LogFile: "parser.log"}
	assert.Equal(t, filepath.Join("/base", "logs", "parser.log"), cfg.GetEffectiveLogPath())
}
