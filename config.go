package translit

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Cache backends accepted in CacheConfig.Backend.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config holds the transliteration settings supplied by the host.
type Config struct {
	Enabled      bool        `yaml:"enabled"`
	CustomRules  string      `yaml:"custom_rules"`
	AllowedChars string      `yaml:"allowed_chars"`
	Converters   []string    `yaml:"converters"` // Conversion chain by name (empty = rules, transcode, table)
	LogLevel     string      `yaml:"log_level"`
	Cache        CacheConfig `yaml:"cache"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend   string `yaml:"backend"`    // "memory" (default) or "redis"
	RedisURL  string `yaml:"redis_url"`  // Redis connection URL (e.g., "redis://localhost:6379")
	TTL       int    `yaml:"ttl"`        // TTL in seconds (0 = no expiration)
	KeyPrefix string `yaml:"key_prefix"` // Prefix for Redis keys
}

// DefaultConfig returns the configuration used when the host supplies none.
func DefaultConfig() *Config {
	return &Config{
		Enabled:      true,
		CustomRules:  DefaultRules,
		AllowedChars: DefaultAllowedChars,
		LogLevel:     "info",
		Cache: CacheConfig{
			Backend:   CacheBackendMemory,
			KeyPrefix: "translit:",
		},
	}
}

// LoadConfig reads a YAML configuration file. Keys missing from the file
// keep their default values.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	return ParseConfig(f)
}

// ParseConfig decodes a YAML configuration from r on top of DefaultConfig.
func ParseConfig(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.NewDecoder(r).Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for inconsistent values.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Cache.Backend) {
	case "", CacheBackendMemory:
	case CacheBackendRedis:
		if c.Cache.RedisURL == "" {
			return &ConfigError{Field: "cache.redis_url", Message: "required for redis backend"}
		}
	default:
		return &ConfigError{Field: "cache.backend", Message: fmt.Sprintf("unknown backend %q", c.Cache.Backend)}
	}
	if c.Cache.TTL < 0 {
		return &ConfigError{Field: "cache.ttl", Message: "must not be negative"}
	}
	return nil
}

// Rules returns the configured rule identifier, or DefaultRules.
func (c *Config) Rules() string {
	if c == nil {
		return DefaultRules
	}
	return ResolveRules(c.CustomRules, "")
}

// Allowed returns the configured allow-list fragment, or DefaultAllowedChars.
func (c *Config) Allowed() string {
	if c == nil || c.AllowedChars == "" {
		return DefaultAllowedChars
	}
	return c.AllowedChars
}
