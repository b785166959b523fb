// Chirpcast - Feed-Triggered Tweet Delivery
// Copyright 2026 Chirpcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chirpcast/chirpcast

// Package main is the entry point for the Chirpcast server.
//
// Chirpcast bridges feed-monitoring services and Twitter: users sign in
// with their Twitter account, register trigger templates, and wire the
// resulting webhook URL into a datastream trigger. When the feed service
// fires the trigger, Chirpcast renders the template against the event
// payload and posts the result as the user.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: environment variables and config file (Koanf v2)
//  2. Storage: BadgerDB trigger/user store
//  3. Counters: Redis-backed delivery counters, or Badger fallback
//  4. Twitter client: OAuth 1.0a signing with a circuit breaker
//  5. Authentication: session manager, Twitter sign-in flow, stats Basic Auth
//  6. Supervisor tree: HTTP server plus maintenance loops (suture)
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): environment variables, config file, built-in defaults.
// Required settings:
//   - TWITTER_CONSUMER_KEY / TWITTER_CONSUMER_SECRET: app credentials
//   - SECURITY_SESSION_SECRET: 32+ character secret for session tokens
//
// Optional:
//   - SECURITY_ADMIN_USERNAME / SECURITY_ADMIN_PASSWORD: enable /stats
//   - REDIS_ENABLED / REDIS_ADDR: shared counters across processes
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM: it stops
// accepting new connections, waits for in-flight deliveries to complete
// (10s timeout), then closes the store.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chirpcast/chirpcast/internal/api"
	"github.com/chirpcast/chirpcast/internal/auth"
	"github.com/chirpcast/chirpcast/internal/config"
	"github.com/chirpcast/chirpcast/internal/counter"
	"github.com/chirpcast/chirpcast/internal/logging"
	"github.com/chirpcast/chirpcast/internal/store"
	"github.com/chirpcast/chirpcast/internal/supervisor"
	"github.com/chirpcast/chirpcast/internal/supervisor/services"
	"github.com/chirpcast/chirpcast/internal/trigger"
	"github.com/chirpcast/chirpcast/internal/twitter"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("db_path", cfg.Database.Path).
		Bool("redis_counters", cfg.Redis.Enabled).
		Msg("Starting Chirpcast")

	st, err := store.Open(store.Options{
		Path:     cfg.Database.Path,
		InMemory: cfg.Database.InMemory,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open trigger store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing trigger store")
		}
	}()
	logging.Info().Msg("Trigger store opened")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	counters, err := buildCounterStore(ctx, cfg, st)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize delivery counters")
	}

	twitterClient := twitter.NewClient(twitter.Config{
		ConsumerKey:    cfg.Twitter.ConsumerKey,
		ConsumerSecret: cfg.Twitter.ConsumerSecret,
		APIBaseURL:     cfg.Twitter.APIBaseURL,
		Timeout:        cfg.Twitter.Timeout,
	})

	engine := trigger.NewEngine(twitterClient, counters, cfg.Feed.BaseURL)

	sessions, err := auth.NewSessionManager(cfg.Security.SessionSecret, cfg.Security.SessionTimeout, cfg.Security.CookieSecure)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize session manager")
	}

	callbackURL := cfg.Server.BaseURL + "/auth/twitter/callback"
	oauthFlow := auth.NewOAuthFlow(cfg.Twitter.ConsumerKey, cfg.Twitter.ConsumerSecret, callbackURL)

	// Basic Auth for /stats is optional; without admin credentials the
	// endpoint is simply not registered.
	var basicAuth *auth.BasicAuthManager
	if cfg.Security.AdminUsername != "" && cfg.Security.AdminPassword != "" {
		basicAuth, err = auth.NewBasicAuthManager(cfg.Security.AdminUsername, cfg.Security.AdminPassword)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize Basic Auth manager")
		}
		logging.Info().Msg("Stats endpoint protected with Basic Auth")
	} else {
		logging.Warn().Msg("Admin credentials not set, /stats endpoint disabled")
	}

	handler := api.NewHandler(cfg, st, counters, engine, twitterClient, sessions, oauthFlow)
	mw := api.NewRouterMiddleware(
		cfg.Security.CORSOrigins,
		cfg.Security.RateLimitReqs,
		cfg.Security.RateLimitWindow,
		cfg.Security.RateLimitDisabled,
	)
	router := api.NewRouter(handler, mw, sessions, basicAuth)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// Bridge zerolog to slog for sutureslog compatibility
	slogLogger := logging.NewSlogLogger()

	tree, err := supervisor.NewTree(slogLogger, supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddMaintenanceService(services.NewBadgerGCService(st, cfg.Database.GCInterval))
	tree.AddMaintenanceService(services.NewOAuthCleanupService(oauthFlow, 5*time.Minute))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

// buildCounterStore selects the delivery counter backend. Redis wins when
// enabled so counters can be shared across processes; otherwise counters
// live in the same Badger database as the triggers.
func buildCounterStore(ctx context.Context, cfg *config.Config, st *store.Store) (counter.Store, error) {
	if cfg.Redis.Enabled {
		rs, err := counter.NewRedisStore(ctx, counter.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		logging.Info().Str("addr", cfg.Redis.Addr).Msg("Using Redis delivery counters")
		return rs, nil
	}
	logging.Info().Msg("Using Badger delivery counters")
	return counter.NewBadgerStore(st.DB()), nil
}
