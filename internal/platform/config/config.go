// Copyright (c) 2026 GameShelf. All rights reserved.

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (stores, GitHub client) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the GameShelf API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Key-Value Cache (Redis) — write-through cache in front of the
	// git-hosted games document.
	RedisURL string `env:"REDIS_URL,required"`

	// Session signing and operator login
	SessionSecret     string `env:"SESSION_SECRET,required"`
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH,required"`

	// Backing repository (git-hosted JSON document + cover images)
	GitHubToken  string `env:"GITHUB_TOKEN"`
	GitHubOwner  string `env:"GITHUB_OWNER"`
	GitHubRepo   string `env:"GITHUB_REPO"`
	GitHubBranch string `env:"GITHUB_BRANCH" envDefault:"main"`

	// GamesPath is the path of the games JSON document inside the repository.
	GamesPath string `env:"GAMES_PATH" envDefault:"data/games.json"`

	// CoverWorkflow is the Actions workflow file dispatched after a raw
	// cover upload to perform image optimization.
	CoverWorkflow string `env:"COVER_WORKFLOW" envDefault:"optimize-covers.yml"`

	// Development-only filesystem substitutes
	LocalGamesPath string `env:"LOCAL_GAMES_PATH" envDefault:"./data/games-local.json"`
	SyncQueuePath  string `env:"SYNC_QUEUE_PATH"  envDefault:"./data/pending-sync.json"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// HasGitHub reports whether a backing repository is configured. Without it the
// server falls back to the local filesystem store.
func (c *Config) HasGitHub() bool {
	return c.GitHubToken != "" && c.GitHubOwner != "" && c.GitHubRepo != ""
}
