package data

import (
	"portfolio-metrics/internal/config"

	"github.com/rs/zerolog"
)

// NewClientFromConfig builds a provider client from the provider section of the
// configuration. env is the server environment; the cache is never used in production.
func NewClientFromConfig(cfg config.ProviderConfig, env string, log zerolog.Logger) *Client {
	opts := []ClientOption{
		WithBaseURL(cfg.BaseURL),
		WithSubmitPath(cfg.SubmitPath),
		WithTimeout(cfg.Timeout),
		WithLogger(log),
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		opts = append(opts, WithRateLimit(cfg.RateLimit, burst))
	}
	if cache := NewCacheIfEnabled(cfg.Cache, env, cfg.CacheTTL); cache != nil {
		log.Warn().Dur("ttl", cfg.CacheTTL).Msg("provider response cache enabled (development only)")
		opts = append(opts, WithCache(cache))
	}
	return NewClient(cfg.APIKey, opts...)
}
