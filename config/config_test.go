package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadEnvWithoutFile(t *testing.T) {
	if err := LoadEnv(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestValidateEnv(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		dbURL   string
		wantErr bool
	}{
		{"all set", "test-secret", "sqlite://glowup.db", false},
		{"missing JWT_SECRET", "", "sqlite://glowup.db", true},
		{"missing DATABASE_URL", "test-secret", "", true},
		{"missing both", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", tt.secret)
			t.Setenv("DATABASE_URL", tt.dbURL)

			err := ValidateEnv()
			if (err != nil) != tt.wantErr {
				t.Errorf("expected error=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestGetEnvExisting(t *testing.T) {
	t.Setenv("TEST_GET_ENV_KEY", "test-value")

	if result := GetEnv("TEST_GET_ENV_KEY", "default"); result != "test-value" {
		t.Errorf("expected 'test-value', got '%s'", result)
	}
}

func TestGetEnvMissing(t *testing.T) {
	os.Unsetenv("TEST_GET_ENV_MISSING")

	if result := GetEnv("TEST_GET_ENV_MISSING", "fallback"); result != "fallback" {
		t.Errorf("expected 'fallback', got '%s'", result)
	}
}

func TestGetEnvIntAndDuration(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_BAD_INT", "forty")
	t.Setenv("TEST_DURATION", "250ms")

	if n := GetEnvInt("TEST_INT", 1); n != 42 {
		t.Errorf("expected 42, got %d", n)
	}
	if n := GetEnvInt("TEST_BAD_INT", 7); n != 7 {
		t.Errorf("expected fallback 7, got %d", n)
	}
	if d := GetEnvDuration("TEST_DURATION", time.Second); d != 250*time.Millisecond {
		t.Errorf("expected 250ms, got %s", d)
	}
	if d := GetEnvDuration("TEST_DURATION_MISSING", time.Second); d != time.Second {
		t.Errorf("expected fallback 1s, got %s", d)
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "LOG_LEVEL", "CORS_ORIGINS", "FRONTEND_URL", "GEOCODER_TIMEOUT", "GEOCODER_ATTEMPTS", "APP_TIMEZONE"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.GeocoderTimeout != 10*time.Second || cfg.GeocoderAttempts != 3 {
		t.Errorf("unexpected geocoder settings %s/%d", cfg.GeocoderTimeout, cfg.GeocoderAttempts)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:3000" {
		t.Errorf("expected localhost CORS default, got %v", cfg.CORSOrigins)
	}
	if loc, err := cfg.Location(); err != nil || loc != time.Local {
		t.Errorf("expected local timezone, got %v (%v)", loc, err)
	}
}

func TestLoadCORSOriginsAndTimezone(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "https://glowup.app, https://admin.glowup.app,")
	t.Setenv("APP_TIMEZONE", "Asia/Kolkata")

	cfg := Load()
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://admin.glowup.app" {
		t.Errorf("expected 2 trimmed origins, got %v", cfg.CORSOrigins)
	}
	loc, err := cfg.Location()
	if err != nil || loc.String() != "Asia/Kolkata" {
		t.Errorf("expected Asia/Kolkata, got %v (%v)", loc, err)
	}

	cfg.Timezone = "Mars/Olympus"
	if _, err := cfg.Location(); err == nil {
		t.Error("expected an error for an unknown timezone")
	}
}
