// Package config holds the runtime defaults and the environment-backed
// settings of the audit service.
package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	DefaultHTTPAddr      = ":8143"
	DefaultSweepSchedule = "*/1 * * * *"
	DefaultMaxUploadMB   = 32

	// DefaultContamination is the expected outlier share per batch.
	DefaultContamination = 0.05
	// DefaultSeed fixes the detector randomness for reproducible runs.
	DefaultSeed = 42
)

// Config carries the settings shared by every service. Per-service options
// (listen address, inbox folder, schedules) come from services.yaml or their
// own environment variables.
type Config struct {
	Contamination float64
	Seed          int64
	SynonymsFile  string
	LogLevel      string
}

// Load reads the shared settings from the environment. Malformed numeric
// values are rejected rather than silently replaced.
func Load() (*Config, error) {
	cfg := &Config{
		Contamination: DefaultContamination,
		Seed:          DefaultSeed,
		SynonymsFile:  os.Getenv("AUDIT_SYNONYMS_FILE"),
		LogLevel:      Env("LOG_LEVEL", "info"),
	}

	if raw := os.Getenv("AUDIT_CONTAMINATION"); raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid AUDIT_CONTAMINATION %q: %w", raw, err)
		}
		if f <= 0 || f >= 1 {
			return nil, fmt.Errorf("AUDIT_CONTAMINATION %v out of range (0, 1)", f)
		}
		cfg.Contamination = f
	}

	if raw := os.Getenv("AUDIT_SEED"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid AUDIT_SEED %q: %w", raw, err)
		}
		cfg.Seed = n
	}

	return cfg, nil
}

// Env returns the value of an environment variable or the fallback when the
// variable is unset or empty.
func Env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
