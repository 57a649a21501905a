// Package config loads the gateway's configuration: the enumerated
// table from spec.md §6, nothing more. It layers built-in defaults,
// an optional YAML file, and environment variable overrides, in that
// order, following the teacher's own defaults->file->env->validate
// shape (internal/config/config.go in the teacher tree) — but scoped
// to the handful of fields spec.md actually names, not the teacher's
// full multi-subsystem config surface (explicitly out of scope as a
// "config loading" feature; this is the minimal ambient loader a
// runnable binary still needs).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/subscale/rest-gateway/internal/chain"
	"github.com/subscale/rest-gateway/internal/constants"
	"gopkg.in/yaml.v3"
)

// ChainURL pairs an auxiliary chain's RPC endpoint with its role, for
// the multiChainUrls configuration entry.
type ChainURL struct {
	URL       string    `yaml:"url"`
	ChainType chain.Type `yaml:"chainType"`
}

// Config is the full set of configuration spec.md §6 enumerates.
type Config struct {
	BindHost string `yaml:"bindHost"`
	Port     int    `yaml:"port"`

	RequestLimit     int           `yaml:"requestLimit"`
	KeepAliveTimeout time.Duration `yaml:"keepAliveTimeout"`

	PrimaryChainURL string     `yaml:"primaryChainUrl"`
	MultiChainURLs  []ChainURL `yaml:"multiChainUrls"`

	BlockFetchConcurrency int `yaml:"blockFetchConcurrency"`

	// Passthrough-only fields: the core never interprets these.
	// LogLevel and LogJSON configure the logger at startup; LogFile and
	// MetricsEnabled are loaded but not read by anything else.
	LogLevel      string `yaml:"logLevel"`
	LogJSON       bool   `yaml:"logJson"`
	LogFile       string `yaml:"logFile"`
	MetricsEnabled bool  `yaml:"metricsEnabled"`
}

// Default returns the configuration's built-in defaults.
func Default() *Config {
	return &Config{
		BindHost:              constants.DefaultBindHost,
		Port:                  constants.DefaultPort,
		RequestLimit:          constants.DefaultRequestLimitBytes,
		KeepAliveTimeout:      constants.DefaultKeepAliveTimeout,
		BlockFetchConcurrency: constants.DefaultBlockFetchConcurrency,
		LogLevel:              "info",
		LogJSON:               true,
	}
}

// LoadFromFile merges a YAML file's fields into c. An empty path skips
// the file layer; a path that cannot be read (including one that does
// not exist) or parsed is an error.
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// env variable names, one per enumerated field.
const (
	envBindHost              = "GATEWAY_BIND_HOST"
	envPort                  = "GATEWAY_PORT"
	envRequestLimit          = "GATEWAY_REQUEST_LIMIT"
	envKeepAliveTimeout      = "GATEWAY_KEEPALIVE_TIMEOUT"
	envPrimaryChainURL       = "GATEWAY_PRIMARY_CHAIN_URL"
	envMultiChainURLs        = "GATEWAY_MULTICHAIN_URLS" // "url=type,url=type,..."
	envBlockFetchConcurrency = "GATEWAY_BLOCK_FETCH_CONCURRENCY"
	envLogLevel              = "GATEWAY_LOG_LEVEL"
	envLogJSON               = "GATEWAY_LOG_JSON"
	envLogFile               = "GATEWAY_LOG_FILE"
	envMetricsEnabled        = "GATEWAY_METRICS_ENABLED"
)

// LoadFromEnv overrides c's fields from environment variables, taking
// precedence over anything loaded from a file.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv(envBindHost); v != "" {
		c.BindHost = v
	}
	if v := os.Getenv(envPort); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", envPort, err)
		}
		c.Port = n
	}
	if v := os.Getenv(envRequestLimit); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", envRequestLimit, err)
		}
		c.RequestLimit = n
	}
	if v := os.Getenv(envKeepAliveTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", envKeepAliveTimeout, err)
		}
		c.KeepAliveTimeout = d
	}
	if v := os.Getenv(envPrimaryChainURL); v != "" {
		c.PrimaryChainURL = v
	}
	if v := os.Getenv(envMultiChainURLs); v != "" {
		urls, err := parseMultiChainURLs(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", envMultiChainURLs, err)
		}
		c.MultiChainURLs = urls
	}
	if v := os.Getenv(envBlockFetchConcurrency); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", envBlockFetchConcurrency, err)
		}
		c.BlockFetchConcurrency = n
	}
	if v := os.Getenv(envLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(envLogJSON); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", envLogJSON, err)
		}
		c.LogJSON = b
	}
	if v := os.Getenv(envLogFile); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv(envMetricsEnabled); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", envMetricsEnabled, err)
		}
		c.MetricsEnabled = b
	}
	return nil
}

func parseMultiChainURLs(v string) ([]ChainURL, error) {
	parts := strings.Split(v, ",")
	out := make([]ChainURL, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("entry %q must be url=chainType", p)
		}
		out = append(out, ChainURL{URL: kv[0], ChainType: chain.Type(kv[1])})
	}
	return out, nil
}

// Validate checks the loaded configuration against the bounds spec.md
// §6 specifies for each field.
func (c *Config) Validate() error {
	if c.BindHost == "" {
		return fmt.Errorf("bindHost cannot be empty")
	}
	if c.Port < constants.MinPort || c.Port > constants.MaxPort {
		return fmt.Errorf("port must be between %d and %d", constants.MinPort, constants.MaxPort)
	}
	if c.RequestLimit <= 0 {
		return fmt.Errorf("requestLimit must be positive")
	}
	if c.KeepAliveTimeout <= 0 {
		return fmt.Errorf("keepAliveTimeout must be positive")
	}
	if c.PrimaryChainURL == "" {
		return fmt.Errorf("primaryChainUrl is required")
	}
	if c.BlockFetchConcurrency < constants.MinBlockFetchConcurrency || c.BlockFetchConcurrency > constants.MaxBlockFetchConcurrency {
		return fmt.Errorf("blockFetchConcurrency must be between %d and %d", constants.MinBlockFetchConcurrency, constants.MaxBlockFetchConcurrency)
	}
	for _, cu := range c.MultiChainURLs {
		if cu.URL == "" {
			return fmt.Errorf("multiChainUrls entry missing url")
		}
	}
	return nil
}

// Load is the layered loader: defaults -> file -> env -> validate,
// mirroring the teacher's internal/config.Load.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if err := cfg.LoadFromFile(configFile); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Address returns the bindHost:port string for net.Listen / http.Server.Addr.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.BindHost, c.Port)
}
