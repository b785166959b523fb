// Chirpcast - Feed-Triggered Tweet Delivery
// Copyright 2026 Chirpcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chirpcast/chirpcast

// Package config provides layered configuration for Chirpcast using Koanf v2.
//
// Precedence: environment variables > YAML config file > built-in defaults.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config is the root configuration for the Chirpcast server.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Twitter  TwitterConfig  `koanf:"twitter"`
	Feed     FeedConfig     `koanf:"feed"`
	Database DatabaseConfig `koanf:"database"`
	Redis    RedisConfig    `koanf:"redis"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Timeout     time.Duration `koanf:"timeout"`
	BaseURL     string        `koanf:"base_url"` // public URL, used for the OAuth callback
	Environment string        `koanf:"environment"`
}

// TwitterConfig holds the application-level Twitter API credentials and
// client settings. The consumer pair is configured once per process; each
// posting call additionally supplies the trigger owner's token pair.
type TwitterConfig struct {
	ConsumerKey    string        `koanf:"consumer_key"`
	ConsumerSecret string        `koanf:"consumer_secret"`
	APIBaseURL     string        `koanf:"api_base_url"`
	Timeout        time.Duration `koanf:"timeout"`
}

// FeedConfig holds settings about the feed-monitoring service.
type FeedConfig struct {
	// BaseURL is prepended to /feeds/<id> when rendering {feed_url}.
	BaseURL string `koanf:"base_url"`
}

// DatabaseConfig holds BadgerDB settings for the trigger/user store.
type DatabaseConfig struct {
	Path       string        `koanf:"path"`
	InMemory   bool          `koanf:"in_memory"` // ephemeral store, used in development
	GCInterval time.Duration `koanf:"gc_interval"`
}

// RedisConfig holds the optional Redis connection for the shared delivery
// counters. When disabled, counters fall back to the Badger-backed store.
type RedisConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Addr     string `koanf:"addr"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// SecurityConfig holds authentication and abuse-protection settings.
type SecurityConfig struct {
	// AdminUsername/AdminPassword protect the /stats endpoint (Basic Auth).
	AdminUsername string `koanf:"admin_username"`
	AdminPassword string `koanf:"admin_password"`

	// SessionSecret signs the session tokens issued after the Twitter
	// OAuth dance. Required outside development.
	SessionSecret  string        `koanf:"session_secret"`
	SessionTimeout time.Duration `koanf:"session_timeout"`
	CookieSecure   bool          `koanf:"cookie_secure"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	CORSOrigins []string `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateTwitter(); err != nil {
		return err
	}
	if err := c.validateFeed(); err != nil {
		return err
	}
	if err := c.validateRedis(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", c.Server.Timeout)
	}
	if c.Server.BaseURL != "" {
		if err := validateHTTPURL(c.Server.BaseURL, "SERVER_BASE_URL"); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateTwitter() error {
	if c.Twitter.ConsumerKey == "" {
		return fmt.Errorf("TWITTER_CONSUMER_KEY is required")
	}
	if c.Twitter.ConsumerSecret == "" {
		return fmt.Errorf("TWITTER_CONSUMER_SECRET is required")
	}
	if err := validateHTTPURL(c.Twitter.APIBaseURL, "TWITTER_API_BASE_URL"); err != nil {
		return err
	}
	if c.Twitter.Timeout <= 0 {
		return fmt.Errorf("TWITTER_TIMEOUT must be positive, got %s", c.Twitter.Timeout)
	}
	return nil
}

func (c *Config) validateFeed() error {
	return validateHTTPURL(c.Feed.BaseURL, "FEED_BASE_URL")
}

func (c *Config) validateRedis() error {
	if !c.Redis.Enabled {
		return nil
	}
	if c.Redis.Addr == "" {
		return fmt.Errorf("REDIS_ADDR is required when REDIS_ENABLED=true")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	// Admin credentials are optional; /stats is disabled without them.
	if (c.Security.AdminUsername == "") != (c.Security.AdminPassword == "") {
		return fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD must be set together")
	}
	if c.IsProduction() {
		if c.Security.SessionSecret == "" {
			return fmt.Errorf("SESSION_SECRET is required in production")
		}
		if len(c.Security.SessionSecret) < 32 {
			return fmt.Errorf("SESSION_SECRET must be at least 32 characters in production")
		}
	}
	if c.Security.SessionTimeout <= 0 {
		return fmt.Errorf("SESSION_TIMEOUT must be positive, got %s", c.Security.SessionTimeout)
	}
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs <= 0 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.Security.RateLimitWindow)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "", "trace", "debug", "info", "warn", "warning", "error", "fatal", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT %q must be json or console", c.Logging.Format)
	}
	return nil
}

// validateHTTPURL checks that the value parses as an absolute http(s) URL.
func validateHTTPURL(raw, name string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", name)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", name, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%s is missing a host", name)
	}
	return nil
}
