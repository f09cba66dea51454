package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Validate checks AppConfig fields and applies sensible defaults.
// Returns collected warnings and any fatal error.
// Modifies receiver in place to apply defaults.
func (c *AppConfig) Validate() (warnings []string, err error) {
	if c.BaseDir == "" {
		c.BaseDir = "."
	}
	if c.LogDir == "" {
		c.LogDir = "logs"
	}
	if c.LogFile == "" {
		c.LogFile = "parser.log"
	}
	if c.LogMaxSizeMB <= 0 {
		c.LogMaxSizeMB = 1
	}
	if c.LogMaxBackups <= 0 {
		c.LogMaxBackups = 5
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	} else if _, errLevel := logrus.ParseLevel(c.LogLevel); errLevel != nil {
		warnings = append(warnings, fmt.Sprintf("log_level '%s' is invalid, defaulting to 'info'", c.LogLevel))
		c.LogLevel = "info"
	}
	if c.DownloadDir == "" {
		c.DownloadDir = "downloads"
	}
	if c.ResultsDir == "" {
		c.ResultsDir = "results"
	}
	if c.CacheDir == "" {
		c.CacheDir = ".cache"
	}

	// Upstream URLs must be absolute; a bad override falls back to the default
	c.MainDocURL, warnings = validateBaseURL("main_doc_url", c.MainDocURL, DefaultMainDocURL, warnings)
	c.PEPURL, warnings = validateBaseURL("pep_url", c.PEPURL, DefaultPEPURL, warnings)
	c.PEPListURL, warnings = validateBaseURL("pep_list_url", c.PEPListURL, DefaultPEPListURL, warnings)

	if c.UserAgent == "" {
		c.UserAgent = "pydocs-scraper/" + Version
	}

	if c.DelayPerHost < 0 {
		warnings = append(warnings, "delay_per_host cannot be negative, disabling delay")
		c.DelayPerHost = 0
	}

	if c.NumWorkers <= 0 {
		c.NumWorkers = 1
	}

	c.validateHTTPClientSettings()

	return warnings, nil // AppConfig validation never fails fatally
}

func validateBaseURL(field, value, fallback string, warnings []string) (string, []string) {
	if value == "" {
		return fallback, warnings
	}
	u, err := url.Parse(value)
	if err != nil || !u.IsAbs() || u.Host == "" {
		warnings = append(warnings, fmt.Sprintf("%s '%s' is not an absolute URL, defaulting to '%s'", field, value, fallback))
		return fallback, warnings
	}
	// urljoin-style resolution needs a trailing slash on directory URLs
	if !strings.HasSuffix(u.Path, "/") {
		warnings = append(warnings, fmt.Sprintf("%s '%s' has no trailing slash, relative links resolve against its parent", field, value))
	}
	return value, warnings
}

// validateHTTPClientSettings applies defaults to HTTP client settings.
func (c *AppConfig) validateHTTPClientSettings() {
	h := &c.HTTPClientSettings
	if h.Timeout <= 0 {
		h.Timeout = 45 * time.Second
	}
	if h.MaxIdleConns <= 0 {
		h.MaxIdleConns = 100
	}
	if h.MaxIdleConnsPerHost <= 0 {
		h.MaxIdleConnsPerHost = 2
	}
	if h.IdleConnTimeout <= 0 {
		h.IdleConnTimeout = 90 * time.Second
	}
	if h.TLSHandshakeTimeout <= 0 {
		h.TLSHandshakeTimeout = 10 * time.Second
	}
	if h.ExpectContinueTimeout <= 0 {
		h.ExpectContinueTimeout = 1 * time.Second
	}
	if h.DialerTimeout <= 0 {
		h.DialerTimeout = 15 * time.Second
	}
	if h.DialerKeepAlive <= 0 {
		h.DialerKeepAlive = 30 * time.Second
	}
}
