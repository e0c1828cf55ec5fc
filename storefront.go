// Package storefront is the top-level entry point: it assembles the API
// client, external fallback provider, and session manager from one
// configuration. Applications that need finer control import the
// subpackages directly:
//   - github.com/industrialmart/storefront-go/core - config, cache, logging
//   - github.com/industrialmart/storefront-go/client - API facade
//   - github.com/industrialmart/storefront-go/session - auth session state
package storefront

import (
	"context"

	"github.com/industrialmart/storefront-go/client"
	"github.com/industrialmart/storefront-go/core"
	"github.com/industrialmart/storefront-go/fallback"
	"github.com/industrialmart/storefront-go/session"
	"github.com/industrialmart/storefront-go/telemetry"
)

// Re-export the types callers touch most
type (
	Config   = core.Config
	Option   = core.Option
	Logger   = core.Logger
	Product  = client.Product
	Category = client.Category
	User     = client.User
	Inquiry  = client.Inquiry
)

// Storefront bundles the assembled components
type Storefront struct {
	Config   *core.Config
	Client   *client.Client
	Fallback *fallback.Provider
	Session  *session.Manager
	Logger   core.Logger

	telemetry *telemetry.Provider
}

// New assembles a ready-to-use storefront client stack. Redis backs the
// response cache and the remember-me preference when a Redis URL is
// configured; otherwise both stay in-memory.
func New(opts ...core.Option) (*Storefront, error) {
	cfg, err := core.NewConfig(opts...)
	if err != nil {
		return nil, err
	}

	logger := core.NewStructuredLogger("storefront", cfg.Logging)

	var cache core.Cache
	var prefs session.PreferenceStore
	if cfg.RedisURL != "" {
		redisCache, err := core.NewRedisCache(cfg.RedisURL, "")
		if err != nil {
			return nil, err
		}
		redisCache.SetLogger(logger)
		cache = redisCache

		prefs, err = session.NewRedisPreferenceStore(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
	} else {
		memCache := core.NewMemoryCache()
		memCache.SetLogger(logger)
		cache = memCache
		prefs = session.NewMemoryPreferenceStore()
	}

	var tel core.Telemetry = &core.NoOpTelemetry{}
	var provider *telemetry.Provider
	if cfg.Telemetry.Enabled {
		provider, err = telemetry.NewProvider(cfg.Telemetry)
		if err != nil {
			return nil, err
		}
		tel = provider
	}

	fb := fallback.New(cfg, fallback.WithLogger(logger))

	apiClient, err := client.New(cfg,
		client.WithLogger(logger),
		client.WithTelemetry(tel),
		client.WithCache(cache),
		client.WithFallback(fb),
	)
	if err != nil {
		return nil, err
	}

	sess := session.NewManager(apiClient.Auth,
		session.WithLogger(logger),
		session.WithPreferenceStore(prefs),
	)

	// An expired session reported by any request signs the user out, even
	// when the read itself degrades to an empty result
	apiClient.OnAuthError(sess.ObserveError)

	return &Storefront{
		Config:    cfg,
		Client:    apiClient,
		Fallback:  fb,
		Session:   sess,
		Logger:    logger,
		telemetry: provider,
	}, nil
}

// Shutdown flushes telemetry. Safe to call when telemetry is disabled.
func (s *Storefront) Shutdown(ctx context.Context) error {
	if s.telemetry == nil {
		return nil
	}
	return s.telemetry.Shutdown(ctx)
}
