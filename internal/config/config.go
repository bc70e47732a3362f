// Retrospectus - YouTube Watch History Analytics and Yearly Rewind
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/retrospectus

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration loaded from environment variables and config files.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml) for persistent settings
//  3. Environment Variables: Override any setting via environment variables
//
// Configuration Categories:
//
//  1. Data Sources:
//     - YouTube: Data API v3 connection for video metadata enrichment
//
//  2. Analytics:
//     - Pipeline: Session segmentation and binge detection tuning
//
//  3. Infrastructure:
//     - Server: HTTP server configuration (port, host, timeout)
//     - API: Request body limits
//     - Security: Rate limiting and CORS
//
//  4. Observability:
//     - Logging: Log levels and output formats
//
// Example - Load configuration from environment:
//
//	cfg, err := config.LoadWithKoanf()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	// cfg.YouTube.APIKey, cfg.Server.Port, etc. are now populated
//
// Thread Safety:
// Config is immutable after LoadWithKoanf() and safe for concurrent read access
// from multiple goroutines.
type Config struct {
	YouTube  YouTubeConfig  `koanf:"youtube"`
	Pipeline PipelineConfig `koanf:"pipeline"`
	Server   ServerConfig   `koanf:"server"`
	API      APIConfig      `koanf:"api"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// YouTubeConfig holds YouTube Data API v3 connection settings.
// The API key is required; enrichment cannot run without it.
//
// Environment Variables:
//   - YOUTUBE_API_KEY: Data API v3 key (required)
//   - YOUTUBE_BASE_URL: API base URL override, mainly for testing
//   - YOUTUBE_BATCH_SIZE: Video ids per videos.list call (default: 50, API maximum)
//   - YOUTUBE_TIMEOUT: Per-request timeout (default: 30s)
//   - YOUTUBE_RATE_LIMIT: Max requests per second (default: 10)
//   - YOUTUBE_CONCURRENCY: Parallel batch requests (default: 4)
type YouTubeConfig struct {
	APIKey      string        `koanf:"api_key"`
	BaseURL     string        `koanf:"base_url"`
	BatchSize   int           `koanf:"batch_size"`
	Timeout     time.Duration `koanf:"timeout"`
	RateLimit   float64       `koanf:"rate_limit"`
	Concurrency int           `koanf:"concurrency"`
}

// PipelineConfig holds analytics pipeline tuning parameters.
//
// Environment Variables:
//   - SESSION_GAP_MINUTES: Inter-event gap that starts a new session (default: 30)
//   - COMPLETION_THRESHOLD: Watch ratio counted as a completed view (default: 0.9)
type PipelineConfig struct {
	SessionGapMinutes   int         `koanf:"session_gap_minutes"`
	CompletionThreshold float64     `koanf:"completion_threshold"`
	Binge               BingeConfig `koanf:"binge"`
}

// BingeConfig holds isolation-forest binge detection parameters.
// Defaults reproduce the reference behavior: 100 trees over subsamples of
// up to 256 sessions, flagging the top 10% outliers, deterministic under
// a fixed seed.
//
// Environment Variables:
//   - BINGE_TREES: Number of isolation trees (default: 100)
//   - BINGE_SAMPLE_SIZE: Subsample size per tree (default: 256)
//   - BINGE_CONTAMINATION: Expected outlier fraction (default: 0.1)
//   - BINGE_SEED: RNG seed for reproducible results (default: 42)
//   - BINGE_MIN_SESSIONS: Minimum sessions before detection runs (default: 5)
type BingeConfig struct {
	Trees         int     `koanf:"trees"`
	SampleSize    int     `koanf:"sample_size"`
	Contamination float64 `koanf:"contamination"`
	Seed          int64   `koanf:"seed"`
	MinSessions   int     `koanf:"min_sessions"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - HTTP_PORT: Listen port (default: 8080)
//   - HTTP_HOST: Listen host (default: 0.0.0.0)
//   - HTTP_TIMEOUT: Read/write timeout (default: 60s)
//   - ENVIRONMENT: development or production (default: development)
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// APIConfig holds API request limits. Takeout exports for a heavy year can
// reach tens of megabytes, so the default body cap is generous.
//
// Environment Variables:
//   - API_MAX_BODY_BYTES: Max accepted request body size (default: 100MB)
type APIConfig struct {
	MaxBodyBytes int64 `koanf:"max_body_bytes"`
}

// SecurityConfig holds rate limiting and CORS settings.
//
// Environment Variables:
//   - RATE_LIMIT_REQUESTS: Requests allowed per window (default: 100)
//   - RATE_LIMIT_WINDOW: Rate limit window (default: 1m)
//   - DISABLE_RATE_LIMIT: Disable rate limiting entirely (default: false)
//   - CORS_ORIGINS: Comma-separated allowed origins (default: *)
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
//
// Environment Variables:
//   - LOG_LEVEL: debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: Include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for missing or malformed values.
// Called automatically by LoadWithKoanf.
func (c *Config) Validate() error {
	if c.YouTube.APIKey == "" {
		return fmt.Errorf("youtube.api_key is required (set YOUTUBE_API_KEY)")
	}
	if c.YouTube.BatchSize < 1 || c.YouTube.BatchSize > 50 {
		return fmt.Errorf("youtube.batch_size must be between 1 and 50, got %d", c.YouTube.BatchSize)
	}
	if c.YouTube.Timeout <= 0 {
		return fmt.Errorf("youtube.timeout must be positive, got %s", c.YouTube.Timeout)
	}
	if c.YouTube.RateLimit <= 0 {
		return fmt.Errorf("youtube.rate_limit must be positive, got %f", c.YouTube.RateLimit)
	}
	if c.YouTube.Concurrency < 1 {
		return fmt.Errorf("youtube.concurrency must be at least 1, got %d", c.YouTube.Concurrency)
	}

	if c.Pipeline.SessionGapMinutes <= 0 {
		return fmt.Errorf("pipeline.session_gap_minutes must be positive, got %d", c.Pipeline.SessionGapMinutes)
	}
	if c.Pipeline.CompletionThreshold <= 0 || c.Pipeline.CompletionThreshold > 1 {
		return fmt.Errorf("pipeline.completion_threshold must be in (0, 1], got %f", c.Pipeline.CompletionThreshold)
	}
	if c.Pipeline.Binge.Trees < 1 {
		return fmt.Errorf("pipeline.binge.trees must be at least 1, got %d", c.Pipeline.Binge.Trees)
	}
	if c.Pipeline.Binge.SampleSize < 2 {
		return fmt.Errorf("pipeline.binge.sample_size must be at least 2, got %d", c.Pipeline.Binge.SampleSize)
	}
	if c.Pipeline.Binge.Contamination <= 0 || c.Pipeline.Binge.Contamination >= 0.5 {
		return fmt.Errorf("pipeline.binge.contamination must be in (0, 0.5), got %f", c.Pipeline.Binge.Contamination)
	}
	if c.Pipeline.Binge.MinSessions < 1 {
		return fmt.Errorf("pipeline.binge.min_sessions must be at least 1, got %d", c.Pipeline.Binge.MinSessions)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}

	if c.API.MaxBodyBytes < 1 {
		return fmt.Errorf("api.max_body_bytes must be positive, got %d", c.API.MaxBodyBytes)
	}

	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("security.rate_limit_reqs must be at least 1, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("security.rate_limit_window must be positive, got %s", c.Security.RateLimitWindow)
		}
	}

	return nil
}

// Addr returns the host:port address the HTTP server should bind to.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SessionGap returns the session segmentation gap as a duration.
func (c *PipelineConfig) SessionGap() time.Duration {
	return time.Duration(c.SessionGapMinutes) * time.Minute
}
