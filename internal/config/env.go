package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration.
type EnvConfig struct {
	// Host is the server host to bind to.
	// Env: HOST (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// Port is the server port to listen on.
	// Env: PORT (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// DataDir holds cached UniProt documents as <accession>.rdf.
	// Env: DATA_DIR (default: data)
	DataDir string `envconfig:"DATA_DIR" default:"data"`

	// DBURL switches the document cache to a database.
	// Env: DB_URL (sqlite:///path or postgres://...)
	DBURL string `envconfig:"DB_URL"`

	// CacheMaxAge is how long a cached document stays fresh, in seconds.
	// Zero keeps documents forever.
	// Env: CACHE_MAX_AGE (default: 0)
	CacheMaxAge float64 `envconfig:"CACHE_MAX_AGE" default:"0"`

	// MemoryCacheSize bounds the number of parsed entries kept in memory.
	// Env: MEMORY_CACHE_SIZE (default: 256)
	MemoryCacheSize int `envconfig:"MEMORY_CACHE_SIZE" default:"256"`

	// RankParallelism bounds concurrent candidate loads when ranking.
	// Env: RANK_PARALLELISM (default: 4)
	RankParallelism int `envconfig:"RANK_PARALLELISM" default:"4"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// CORSOrigins is a comma-separated list of allowed origins.
	// Env: CORS_ORIGINS
	CORSOrigins string `envconfig:"CORS_ORIGINS"`

	// UniProt configures document downloads.
	UniProt UniProtEnv `envconfig:"UNIPROT"`
}

// UniProtEnv holds environment configuration for the UniProt service.
type UniProtEnv struct {
	// BaseURL is the service root; documents live at {BaseURL}/{id}.rdf.
	// Env: UNIPROT_BASE_URL
	BaseURL string `envconfig:"BASE_URL" default:"https://rest.uniprot.org/uniprotkb"`

	// Timeout is the request timeout in seconds.
	// Env: UNIPROT_TIMEOUT (default: 10)
	Timeout float64 `envconfig:"TIMEOUT" default:"10"`

	// MaxRetries is the maximum number of retries.
	// Env: UNIPROT_MAX_RETRIES (default: 3)
	MaxRetries int `envconfig:"MAX_RETRIES" default:"3"`

	// InitialDelay is the initial retry delay in seconds.
	// Env: UNIPROT_INITIAL_DELAY (default: 0.5)
	InitialDelay float64 `envconfig:"INITIAL_DELAY" default:"0.5"`

	// BackoffFactor multiplies the delay after each retry.
	// Env: UNIPROT_BACKOFF_FACTOR (default: 2.0)
	BackoffFactor float64 `envconfig:"BACKOFF_FACTOR" default:"2.0"`
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// Normalize fills in values that envconfig leaves empty or out of range.
func (e EnvConfig) Normalize() EnvConfig {
	if e.DataDir == "" {
		e.DataDir = DefaultDataDir
	}
	if e.MemoryCacheSize <= 0 {
		e.MemoryCacheSize = DefaultMemoryCacheSize
	}
	if e.RankParallelism <= 0 {
		e.RankParallelism = DefaultRankParallelism
	}
	if e.UniProt.MaxRetries < 0 {
		e.UniProt.MaxRetries = 0
	}
	if e.UniProt.BackoffFactor < 1 {
		e.UniProt.BackoffFactor = DefaultBackoffFactor
	}
	e.LogFormat = strings.ToLower(e.LogFormat)
	return e
}

// ToAppConfig converts EnvConfig to AppConfig.
func (e EnvConfig) ToAppConfig() AppConfig {
	cfg := NewAppConfig()
	cfg.host = e.Host
	cfg.port = e.Port
	cfg.dataDir = filepath.Clean(e.DataDir)
	cfg.dbURL = e.DBURL
	cfg.cacheMaxAge = seconds(e.CacheMaxAge)
	cfg.memoryCacheSize = e.MemoryCacheSize
	cfg.rankParallelism = e.RankParallelism
	cfg.logLevel = e.LogLevel
	if e.LogFormat == string(LogFormatJSON) {
		cfg.logFormat = LogFormatJSON
	}
	for _, origin := range strings.Split(e.CORSOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.corsOrigins = append(cfg.corsOrigins, origin)
		}
	}
	cfg.uniprot = UniProtConfig{
		baseURL:       strings.TrimRight(e.UniProt.BaseURL, "/"),
		timeout:       seconds(e.UniProt.Timeout),
		maxRetries:    e.UniProt.MaxRetries,
		initialDelay:  seconds(e.UniProt.InitialDelay),
		backoffFactor: e.UniProt.BackoffFactor,
	}
	return cfg
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
