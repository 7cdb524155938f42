package filter

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ZaguanLabs/translit"
	"github.com/ZaguanLabs/translit/cache"
	"github.com/ZaguanLabs/translit/converter"
	"github.com/ZaguanLabs/translit/processor"
)

// NewCache builds the cache backend selected by cfg.
func NewCache(cfg translit.CacheConfig) (translit.Cache, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", translit.CacheBackendMemory:
		return cache.NewInMemoryCache(cfg.TTL), nil
	case translit.CacheBackendRedis:
		c, err := cache.NewRedisCache(cache.RedisConfig{
			URL:       cfg.RedisURL,
			TTL:       cfg.TTL,
			KeyPrefix: cfg.KeyPrefix,
		})
		if err != nil {
			return nil, &translit.CacheError{Message: "connecting to redis", Cause: err}
		}
		return c, nil
	default:
		return nil, &translit.ConfigError{Field: "cache.backend", Message: fmt.Sprintf("unknown backend %q", cfg.Backend)}
	}
}

// NewEngine builds an engine from cfg: the configured converter chain, the
// configured cache backend, the configured rules as default and an HTML
// processor. Extra options are applied last.
func NewEngine(cfg *translit.Config, logger *slog.Logger, opts ...translit.EngineOption) (*translit.Engine, error) {
	if cfg == nil {
		cfg = translit.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	chain, err := converter.Chain(cfg.Converters)
	if err != nil {
		return nil, &translit.ConfigError{Field: "converters", Message: err.Error()}
	}

	c, err := NewCache(cfg.Cache)
	if err != nil {
		return nil, err
	}

	base := []translit.EngineOption{
		translit.WithCache(c),
		translit.WithConverters(chain...),
		translit.WithDefaultRules(cfg.Rules()),
		translit.WithLogger(logger),
		translit.WithProcessor(processor.NewHTMLProcessor()),
	}
	return translit.NewEngine(append(base, opts...)...), nil
}
