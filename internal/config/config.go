// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Default configuration values.
const (
	DefaultHost              = "0.0.0.0"
	DefaultPort              = 8080
	DefaultLogLevel          = "INFO"
	DefaultDataDir           = "data"
	DefaultMemoryCacheSize   = 256
	DefaultUniProtBaseURL    = "https://rest.uniprot.org/uniprotkb"
	DefaultUniProtTimeout    = 10 * time.Second
	DefaultUniProtMaxRetries = 3
	DefaultInitialDelay      = 500 * time.Millisecond
	DefaultBackoffFactor     = 2.0
	DefaultRankParallelism   = 4
)

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// UniProtConfig configures access to the UniProt REST service.
type UniProtConfig struct {
	baseURL       string
	timeout       time.Duration
	maxRetries    int
	initialDelay  time.Duration
	backoffFactor float64
}

// NewUniProtConfig creates a UniProtConfig with defaults.
func NewUniProtConfig() UniProtConfig {
	return UniProtConfig{
		baseURL:       DefaultUniProtBaseURL,
		timeout:       DefaultUniProtTimeout,
		maxRetries:    DefaultUniProtMaxRetries,
		initialDelay:  DefaultInitialDelay,
		backoffFactor: DefaultBackoffFactor,
	}
}

func (u UniProtConfig) BaseURL() string { return u.baseURL }
func (u UniProtConfig) Timeout() time.Duration { return u.timeout }
func (u UniProtConfig) MaxRetries() int { return u.maxRetries }
func (u UniProtConfig) InitialDelay() time.Duration { return u.initialDelay }
func (u UniProtConfig) BackoffFactor() float64 { return u.backoffFactor }

// WithBaseURL returns a copy pointing at another service root.
func (u UniProtConfig) WithBaseURL(url string) UniProtConfig {
	u.baseURL = strings.TrimRight(url, "/")
	return u
}

// WithRetries returns a copy with a different retry policy.
func (u UniProtConfig) WithRetries(maxRetries int, initialDelay time.Duration) UniProtConfig {
	u.maxRetries = maxRetries
	u.initialDelay = initialDelay
	return u
}

// AppConfig is the validated application configuration.
type AppConfig struct {
	host            string
	port            int
	dataDir         string
	dbURL           string
	cacheMaxAge     time.Duration
	memoryCacheSize int
	rankParallelism int
	logLevel        string
	logFormat       LogFormat
	corsOrigins     []string
	uniprot         UniProtConfig
}

// NewAppConfig creates an AppConfig with defaults.
func NewAppConfig() AppConfig {
	return AppConfig{
		host:            DefaultHost,
		port:            DefaultPort,
		dataDir:         DefaultDataDir,
		memoryCacheSize: DefaultMemoryCacheSize,
		rankParallelism: DefaultRankParallelism,
		logLevel:        DefaultLogLevel,
		logFormat:       LogFormatPretty,
		uniprot:         NewUniProtConfig(),
	}
}

func (c AppConfig) Host() string { return c.host }
func (c AppConfig) Port() int { return c.port }
func (c AppConfig) DataDir() string { return c.dataDir }
func (c AppConfig) DBURL() string { return c.dbURL }
func (c AppConfig) CacheMaxAge() time.Duration { return c.cacheMaxAge }
func (c AppConfig) MemoryCacheSize() int { return c.memoryCacheSize }
func (c AppConfig) RankParallelism() int { return c.rankParallelism }
func (c AppConfig) LogLevel() string { return c.logLevel }
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }
func (c AppConfig) CORSOrigins() []string        { return c.corsOrigins }
func (c AppConfig) UniProt() UniProtConfig { return c.uniprot }

// Addr returns host:port for the HTTP server.
func (c AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.host, c.port)
}

// UsesDatabase reports whether documents are cached in a database rather
// than as files under the data directory.
func (c AppConfig) UsesDatabase() bool {
	return c.dbURL != ""
}

// EnsureDataDir creates the data directory if it does not exist.
func (c AppConfig) EnsureDataDir() error {
	return os.MkdirAll(c.dataDir, 0o755)
}

// WithHost returns a copy with a different bind host.
func (c AppConfig) WithHost(host string) AppConfig {
	c.host = host
	return c
}

// WithPort returns a copy with a different port.
func (c AppConfig) WithPort(port int) AppConfig {
	c.port = port
	return c
}

// WithDataDir returns a copy with a different data directory.
func (c AppConfig) WithDataDir(dir string) AppConfig {
	c.dataDir = filepath.Clean(dir)
	return c
}

// WithDBURL returns a copy caching documents in the given database.
func (c AppConfig) WithDBURL(url string) AppConfig {
	c.dbURL = url
	return c
}

// WithUniProt returns a copy with different UniProt settings.
func (c AppConfig) WithUniProt(u UniProtConfig) AppConfig {
	c.uniprot = u
	return c
}
