package config

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Load reads configuration from the environment, with an optional .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file, using process environment")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, err
	}
	return cfg, nil
}

// PlaylistPath is the playlist document location under the data directory.
func (c *Config) PlaylistPath() string {
	return filepath.Join(c.DataDir, "playlists.json")
}

// DBPath is the settings database location under the data directory.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "zavork.db")
}

// SnapshotPath is the sheet monitor's snapshot location.
func (c *Config) SnapshotPath() string {
	return filepath.Join(c.DataDir, "sheet_snapshot.json")
}
