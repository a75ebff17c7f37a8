package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Database.MaxOpenConns != 25 {
		t.Errorf("expected 25 max open conns, got %d", cfg.Database.MaxOpenConns)
	}
	if cfg.Database.MaxIdleConns != 5 {
		t.Errorf("expected 5 max idle conns, got %d", cfg.Database.MaxIdleConns)
	}
	if cfg.Extractor.Timeout != 15*time.Second {
		t.Errorf("expected 15s extractor timeout, got %v", cfg.Extractor.Timeout)
	}
	if cfg.Matching.Dim != 128 {
		t.Errorf("expected encoding dim 128, got %d", cfg.Matching.Dim)
	}
	if cfg.Matching.Threshold != 0.6 {
		t.Errorf("expected threshold 0.6, got %v", cfg.Matching.Threshold)
	}
	if cfg.Matching.HNSWEnabled {
		t.Error("expected HNSW disabled by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/attendance")
	t.Setenv("DATABASE_MAX_OPEN_CONNS", "50")
	t.Setenv("ENCODING_DIM", "512")
	t.Setenv("MATCH_THRESHOLD", "0.45")
	t.Setenv("HNSW_ENABLED", "true")
	t.Setenv("LEGACY_DATABASE_URL", "user:pass@tcp(localhost:3306)/attendance_system")

	cfg := Load()

	if cfg.Database.URL != "postgres://localhost/attendance" {
		t.Errorf("unexpected database URL %q", cfg.Database.URL)
	}
	if cfg.Database.MaxOpenConns != 50 {
		t.Errorf("expected 50 max open conns, got %d", cfg.Database.MaxOpenConns)
	}
	if cfg.Matching.Dim != 512 {
		t.Errorf("expected dim 512, got %d", cfg.Matching.Dim)
	}
	if cfg.Matching.Threshold != 0.45 {
		t.Errorf("expected threshold 0.45, got %v", cfg.Matching.Threshold)
	}
	if !cfg.Matching.HNSWEnabled {
		t.Error("expected HNSW enabled")
	}
	if cfg.Legacy.DatabaseURL == "" {
		t.Error("expected legacy DSN set")
	}
}

func TestEnvInt_Invalid(t *testing.T) {
	t.Setenv("DATABASE_MAX_OPEN_CONNS", "not-a-number")
	if got := envInt("DATABASE_MAX_OPEN_CONNS", 25); got != 25 {
		t.Errorf("invalid value must fall back to default, got %d", got)
	}

	t.Setenv("DATABASE_MAX_OPEN_CONNS", "-3")
	if got := envInt("DATABASE_MAX_OPEN_CONNS", 25); got != 25 {
		t.Errorf("non-positive value must fall back to default, got %d", got)
	}
}

func TestEnvFloat_Invalid(t *testing.T) {
	t.Setenv("MATCH_THRESHOLD", "wide")
	if got := envFloat("MATCH_THRESHOLD", 0.6); got != 0.6 {
		t.Errorf("invalid value must fall back to default, got %v", got)
	}
}
