// Retrospectus - YouTube Watch History Analytics and Yearly Rewind
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/retrospectus

package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.YouTube.APIKey = "test-key"
	return cfg
}

func TestValidateAcceptsDefaults(t *testing.T) {
	t.Parallel()

	if err := validConfig().Validate(); err != nil {
		t.Errorf("expected valid config, got: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing api key",
			mutate:  func(c *Config) { c.YouTube.APIKey = "" },
			wantErr: "youtube.api_key",
		},
		{
			name:    "batch size zero",
			mutate:  func(c *Config) { c.YouTube.BatchSize = 0 },
			wantErr: "youtube.batch_size",
		},
		{
			name:    "batch size over api limit",
			mutate:  func(c *Config) { c.YouTube.BatchSize = 51 },
			wantErr: "youtube.batch_size",
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.YouTube.Timeout = -1 },
			wantErr: "youtube.timeout",
		},
		{
			name:    "zero rate limit",
			mutate:  func(c *Config) { c.YouTube.RateLimit = 0 },
			wantErr: "youtube.rate_limit",
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.YouTube.Concurrency = 0 },
			wantErr: "youtube.concurrency",
		},
		{
			name:    "zero session gap",
			mutate:  func(c *Config) { c.Pipeline.SessionGapMinutes = 0 },
			wantErr: "session_gap_minutes",
		},
		{
			name:    "completion threshold above one",
			mutate:  func(c *Config) { c.Pipeline.CompletionThreshold = 1.5 },
			wantErr: "completion_threshold",
		},
		{
			name:    "completion threshold zero",
			mutate:  func(c *Config) { c.Pipeline.CompletionThreshold = 0 },
			wantErr: "completion_threshold",
		},
		{
			name:    "zero trees",
			mutate:  func(c *Config) { c.Pipeline.Binge.Trees = 0 },
			wantErr: "binge.trees",
		},
		{
			name:    "sample size one",
			mutate:  func(c *Config) { c.Pipeline.Binge.SampleSize = 1 },
			wantErr: "binge.sample_size",
		},
		{
			name:    "contamination half",
			mutate:  func(c *Config) { c.Pipeline.Binge.Contamination = 0.5 },
			wantErr: "binge.contamination",
		},
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "server.port",
		},
		{
			name:    "port too high",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "server.port",
		},
		{
			name:    "zero body limit",
			mutate:  func(c *Config) { c.API.MaxBodyBytes = 0 },
			wantErr: "max_body_bytes",
		},
		{
			name:    "rate limit zero requests",
			mutate:  func(c *Config) { c.Security.RateLimitReqs = 0 },
			wantErr: "rate_limit_reqs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %q, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateRateLimitDisabledSkipsChecks(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Security.RateLimitDisabled = true
	cfg.Security.RateLimitReqs = 0
	cfg.Security.RateLimitWindow = 0

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected rate limit checks skipped when disabled, got: %v", err)
	}
}
