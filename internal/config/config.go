package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port            string
	ShutdownTimeout time.Duration

	// Personality classifier
	ModelCachePath  string // empty disables on-disk parameter caching
	TrainingSamples int
	TrainingSeed    int64

	// Dashboard
	DashboardInsightAccounts int
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8081"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		ModelCachePath:  getEnv("MODEL_CACHE_PATH", "./data/personality.db"),
		TrainingSamples: getEnvInt("TRAINING_SAMPLES", 1000),
		TrainingSeed:    int64(getEnvInt("TRAINING_SEED", 42)),

		DashboardInsightAccounts: getEnvInt("DASHBOARD_INSIGHT_ACCOUNTS", 5),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.ShutdownTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be at least 1 second", c.ShutdownTimeout))
	}

	if c.TrainingSamples < 100 {
		errors = append(errors, fmt.Sprintf("invalid training samples %d: must be at least 100", c.TrainingSamples))
	} else if c.TrainingSamples > 100000 {
		errors = append(errors, fmt.Sprintf("invalid training samples %d: must be at most 100000", c.TrainingSamples))
	}

	if c.DashboardInsightAccounts < 1 {
		errors = append(errors, fmt.Sprintf("invalid dashboard insight accounts %d: must be at least 1", c.DashboardInsightAccounts))
	}

	if c.ModelCachePath != "" {
		dir := filepath.Dir(c.ModelCachePath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create model cache directory '%s': %v", dir, err))
				}
			}
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
