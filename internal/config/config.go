package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Database  DatabaseConfig
	Extractor ExtractorConfig
	Matching  MatchingConfig
	Legacy    LegacyConfig
}

type DatabaseConfig struct {
	URL          string // PostgreSQL connection URL
	MaxOpenConns int    // Maximum open connections (default 25)
	MaxIdleConns int    // Maximum idle connections (default 5)
}

type ExtractorConfig struct {
	URL     string        // face encoding service URL (default http://localhost:8000)
	Timeout time.Duration // per-request timeout (default 15s)
}

type MatchingConfig struct {
	// Dim is the encoding dimensionality. Must match the deployed
	// schema; 128 is the reference face_recognition model.
	Dim int
	// Threshold is the maximum Euclidean distance at which a candidate
	// is accepted. Acceptable false-accept/false-reject rates vary by
	// deployment, so this is never hardcoded.
	Threshold float64
	// HNSWEnabled turns on the approximate index accelerator.
	HNSWEnabled bool
}

type LegacyConfig struct {
	DatabaseURL string // MySQL DSN of the original attendance_system DB
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable and parses it as a positive float.
// Returns the default value if the env var is unset, empty, or invalid.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return f
	}
	return defaultVal
}

// envBool reads an environment variable as a boolean flag.
func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

func Load() *Config {
	return &Config{
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Extractor: ExtractorConfig{
			URL:     os.Getenv("EXTRACTOR_URL"),
			Timeout: time.Duration(envInt("EXTRACTOR_TIMEOUT_SECONDS", 15)) * time.Second,
		},
		Matching: MatchingConfig{
			Dim:         envInt("ENCODING_DIM", 128),
			Threshold:   envFloat("MATCH_THRESHOLD", 0.6),
			HNSWEnabled: envBool("HNSW_ENABLED"),
		},
		Legacy: LegacyConfig{
			DatabaseURL: os.Getenv("LEGACY_DATABASE_URL"),
		},
	}
}
