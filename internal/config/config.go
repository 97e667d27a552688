// Package config loads application configuration from environment
// variables, with an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	Port     string
	LogLevel string

	// LibraryRoot is the directory holding the video collection; scene
	// paths are stored relative to it.
	LibraryRoot string
	// CoverDir is where uploaded cover images are written.
	CoverDir string
	// MigrationsPath holds the numbered .sql files (PostgreSQL only).
	MigrationsPath string

	Database DatabaseConfig
}

// DatabaseConfig selects the backing database. SQLite is the default;
// PostgreSQL is used when Type is "postgres".
type DatabaseConfig struct {
	Type       string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	SQLitePath string
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LibraryRoot:    getEnv("LIBRARY_ROOT", "./library"),
		CoverDir:       getEnv("COVER_DIR", "./covers"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
		Database: DatabaseConfig{
			Type:       getEnv("DB_TYPE", "sqlite"),
			SQLitePath: getEnv("DB_PATH", "./scenedex.db"),
			Host:       getEnv("DB_HOST", "localhost"),
			User:       getEnv("DB_USER", "scenedex"),
			Password:   getEnv("DB_PASSWORD", "scenedex_dev"),
			Name:       getEnv("DB_NAME", "scenedex"),
		},
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	cfg.Database.Port = dbPort

	switch cfg.Database.Type {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Database.Type)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
