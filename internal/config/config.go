package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	// DefaultAPIBase is the documented REST API root
	DefaultAPIBase = "https://qiita.com/api/v2"
	// DefaultSiteBase is the public site root used by the internal query
	// handshake and the HTML scrape
	DefaultSiteBase = "https://qiita.com"
	// DefaultUserAgent is a browser identification; the public listing
	// pages reject the default Go client string
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0"
	// DefaultMaxPages caps any single pagination run
	DefaultMaxPages = 50

	tokenEnvVar = "QIITA_ACCESS_TOKEN"
)

// Config holds application configuration
type Config struct {
	AccessToken string
	APIBase     string
	SiteBase    string
	UserAgent   string
	MaxPages    int
	AuditDBPath string
}

// NewConfig creates a new configuration with defaults. A .env file in the
// working directory is honored, then the process environment; an explicit
// token set later via WithToken wins over both.
func NewConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		AccessToken: os.Getenv(tokenEnvVar),
		APIBase:     DefaultAPIBase,
		SiteBase:    DefaultSiteBase,
		UserAgent:   DefaultUserAgent,
		MaxPages:    DefaultMaxPages,
		AuditDBPath: getDefaultAuditDBPath(),
	}
}

// WithToken sets an explicit access token
func (c *Config) WithToken(token string) *Config {
	if token != "" {
		c.AccessToken = token
	}
	return c
}

// WithAuditDBPath sets a custom audit database path
func (c *Config) WithAuditDBPath(path string) *Config {
	if path != "" {
		c.AuditDBPath = path
	}
	return c
}

// HasToken reports whether a bearer credential is available
func (c *Config) HasToken() bool {
	return c.AccessToken != ""
}

func getDefaultAuditDBPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "qiita-list.db"
	}
	return filepath.Join(homeDir, ".qiita-list", "audit.db")
}
