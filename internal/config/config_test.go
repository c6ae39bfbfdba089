package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUDIT_CONTAMINATION", "")
	t.Setenv("AUDIT_SEED", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Contamination != DefaultContamination {
		t.Errorf("contamination = %v, want %v", cfg.Contamination, DefaultContamination)
	}
	if cfg.Seed != DefaultSeed {
		t.Errorf("seed = %v, want %v", cfg.Seed, DefaultSeed)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("log level = %q, want info", cfg.LogLevel)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("AUDIT_CONTAMINATION", "0.1")
	t.Setenv("AUDIT_SEED", "7")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Contamination != 0.1 || cfg.Seed != 7 || cfg.LogLevel != "debug" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"contamination not a number", "AUDIT_CONTAMINATION", "lots"},
		{"contamination too high", "AUDIT_CONTAMINATION", "1.5"},
		{"contamination zero", "AUDIT_CONTAMINATION", "0"},
		{"seed not an int", "AUDIT_SEED", "4.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load accepted %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestEnvFallback(t *testing.T) {
	t.Setenv("AUDIT_HTTP_ADDR", "")
	if got := Env("AUDIT_HTTP_ADDR", DefaultHTTPAddr); got != DefaultHTTPAddr {
		t.Errorf("Env = %q, want fallback %q", got, DefaultHTTPAddr)
	}
	t.Setenv("AUDIT_HTTP_ADDR", ":9000")
	if got := Env("AUDIT_HTTP_ADDR", DefaultHTTPAddr); got != ":9000" {
		t.Errorf("Env = %q, want :9000", got)
	}
}
