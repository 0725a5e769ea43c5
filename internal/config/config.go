package config

import (
	"os"
	"strconv"

	"symtrace/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Paths    PathConfig
	Analysis AnalysisConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	APIPort string
	GinMode string
}

// DatabaseConfig holds database connection settings. Persistence is
// optional; an empty URL runs the app without a repository backend.
type DatabaseConfig struct {
	URL     string
	SSLMode string
}

// PathConfig holds file system paths to bundled resources
type PathConfig struct {
	DictionaryFile string
	LexiconFile    string
}

// AnalysisConfig holds defaults for the statistical battery
type AnalysisConfig struct {
	ShortThreshold  int
	PermutationN    int
	PermutationSeed int64
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			APIPort: getEnvOrDefault("API_PORT", "8081"),
			GinMode: getEnvOrDefault("GIN_MODE", "debug"),
		},
		Database: DatabaseConfig{
			URL:     os.Getenv("DATABASE_URL"),
			SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
		},
		Paths: PathConfig{
			DictionaryFile: getEnvOrDefault("DICTIONARY_FILE", "resources/connectors.json"),
			LexiconFile:    getEnvOrDefault("LEXICON_FILE", "resources/elisions.txt"),
		},
		Analysis: AnalysisConfig{
			ShortThreshold:  getEnvIntOrDefault("SHORT_SEGMENT_THRESHOLD", 10),
			PermutationN:    getEnvIntOrDefault("PERMUTATION_N", 1000),
			PermutationSeed: int64(getEnvIntOrDefault("PERMUTATION_SEED", 42)),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// HasDatabase reports whether a persistence backend is configured.
func (c *Config) HasDatabase() bool {
	return c.Database.URL != ""
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Paths.DictionaryFile == "" {
		return errors.ConfigInvalid("dictionary file path is required")
	}
	if config.Analysis.PermutationN <= 0 {
		return errors.ConfigInvalid("permutation count must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
