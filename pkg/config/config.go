package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Sriram-PR/pydocs-scraper/pkg/utils"
)

// Upstream documents scraped by the extractors
const (
	DefaultMainDocURL = "https://docs.python.org/3/"
	DefaultPEPURL     = "https://peps.python.org/"
	DefaultPEPListURL = "https://peps.python.org/numerical/"
)

// Version is reported by the version command and the default User-Agent
const Version = "0.4.0"

// DateTimeFormat is used for CSV result names and log timestamps (YYYY-MM-DD_HH-MM-SS)
const DateTimeFormat = "2006-01-02_15-04-05"

// AppConfig holds the global application configuration
type AppConfig struct {
	BaseDir       string `yaml:"base_dir"`                  // Anchor for every relative directory below
	LogDir        string `yaml:"log_dir,omitempty"`         // Rotating log file directory
	LogFile       string `yaml:"log_file,omitempty"`        // Log file name inside LogDir
	LogMaxSizeMB  int    `yaml:"log_max_size_mb,omitempty"` // Rotate after this many megabytes
	LogMaxBackups int    `yaml:"log_max_backups,omitempty"`
	LogLevel      string `yaml:"log_level,omitempty"`
	DownloadDir   string `yaml:"download_dir,omitempty"`
	ResultsDir    string `yaml:"results_dir,omitempty"`
	CacheDir      string `yaml:"cache_dir,omitempty"` // Badger response cache location

	MainDocURL string `yaml:"main_doc_url,omitempty"`
	PEPURL     string `yaml:"pep_url,omitempty"`
	PEPListURL string `yaml:"pep_list_url,omitempty"`

	UserAgent          string           `yaml:"user_agent,omitempty"`
	DelayPerHost       time.Duration    `yaml:"delay_per_host,omitempty"` // Politeness delay between uncached requests to one host
	NumWorkers         int              `yaml:"num_workers,omitempty"`    // Detail pages fetched concurrently (1 = sequential)
	RespectRobotsTxt   bool             `yaml:"respect_robots_txt,omitempty"`
	HTTPClientSettings HTTPClientConfig `yaml:"http_client_settings,omitempty"`
}

// HTTPClientConfig holds settings for the shared HTTP client
type HTTPClientConfig struct {
	Timeout               time.Duration `yaml:"timeout,omitempty"`                 // Overall request timeout
	MaxIdleConns          int           `yaml:"max_idle_conns,omitempty"`          // Max total idle connections
	MaxIdleConnsPerHost   int           `yaml:"max_idle_conns_per_host,omitempty"` // Max idle connections per host
	IdleConnTimeout       time.Duration `yaml:"idle_conn_timeout,omitempty"`       // Timeout for idle connections
	TLSHandshakeTimeout   time.Duration `yaml:"tls_handshake_timeout,omitempty"`   // Timeout for TLS handshake
	ExpectContinueTimeout time.Duration `yaml:"expect_continue_timeout,omitempty"` // Timeout for 100-continue
	ForceAttemptHTTP2     *bool         `yaml:"force_attempt_http2,omitempty"`     // nil=default, true=force, false=disable
	DialerTimeout         time.Duration `yaml:"dialer_timeout,omitempty"`          // Connection dial timeout
	DialerKeepAlive       time.Duration `yaml:"dialer_keep_alive,omitempty"`       // TCP keep-alive interval
}

// Load reads a YAML config file. When allowMissing is set and the file does not
// exist, an empty config is returned so Validate can fill in defaults.
func Load(path string, allowMissing bool) (*AppConfig, error) {
	var cfg AppConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if allowMissing && errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w: %w", utils.ErrConfigValidation, err)
	}
	return &cfg, nil
}

// ResolveDir anchors a relative directory on BaseDir; absolute paths are returned cleaned.
func (c *AppConfig) ResolveDir(dir string) string {
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(c.BaseDir, dir)
}

// EnsureDir resolves dir against BaseDir and creates it if absent.
func (c *AppConfig) EnsureDir(dir string) (string, error) {
	resolved := c.ResolveDir(dir)
	if err := os.MkdirAll(resolved, 0755); err != nil {
		return "", fmt.Errorf("%w: create directory '%s': %w", utils.ErrFilesystem, resolved, err)
	}
	return resolved, nil
}

// GetEffectiveLogPath returns the full path of the rotating log file
func (c *AppConfig) GetEffectiveLogPath() string {
	return filepath.Join(c.ResolveDir(c.LogDir), c.LogFile)
}

// GetEffectiveWorkers clamps NumWorkers to at least one
func (c *AppConfig) GetEffectiveWorkers() int {
	if c.NumWorkers < 1 {
		return 1
	}
	return c.NumWorkers
}
