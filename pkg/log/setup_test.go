package log

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sriram-PR/pydocs-scraper/pkg/config"
)

func testConfig(t *testing.T, level string) *config.AppConfig {
	t.Helper()
	cfg := &config.AppConfig{BaseDir: t.TempDir(), LogLevel: level}
	_, err := cfg.Validate()
	require.NoError(t, err)
	return cfg
}

func TestSetup_WritesConsoleAndFile(t *testing.T) {
	cfg := testConfig(t, "info")
	console := &bytes.Buffer{}

	log, closer, err := Setup(cfg, console)
	require.NoError(t, err)

	log.Info("Parser started")
	require.NoError(t, closer.Close())

	assert.Contains(t, console.String(), "Parser started")
	data, err := os.ReadFile(filepath.Join(cfg.BaseDir, "logs", "parser.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Parser started")
	assert.Contains(t, string(data), "level=info")
}

func TestSetup_AppliesLevel(t *testing.T) {
	cfg := testConfig(t, "warn")

	log, closer, err := Setup(cfg, &bytes.Buffer{})
	require.NoError(t, err)
	defer closer.Close()

	assert.Equal(t, logrus.WarnLevel, log.GetLevel())
}

func TestSetup_InvalidLevelFallsBack(t *testing.T) {
	cfg := &config.AppConfig{BaseDir: t.TempDir(), LogDir: "logs", LogFile: "parser.log", LogLevel: "shouty"}
	console := &bytes.Buffer{}

	log, closer, err := Setup(cfg, console)
	require.NoError(t, err)
	defer closer.Close()

	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.Contains(t, console.String(), "Invalid log level 'shouty'")
}
