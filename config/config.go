package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the runtime configuration of the service.
type Config struct {
	Port        string
	DatabaseURL string
	LogLevel    string
	Timezone    string

	CORSOrigins []string

	GeocoderURL       string
	GeocoderUserAgent string
	GeocoderTimeout   time.Duration
	GeocoderAttempts  int

	FirebaseBucket string

	// Requests per minute allowed on the auth endpoints, per client IP.
	AuthRateLimit int
}

func LoadEnv() error {
	// A missing .env is fine; production sets variables directly.
	if err := godotenv.Load(); err != nil {
		return nil
	}
	return nil
}

// ValidateEnv checks that critical environment variables are set.
// Returns an error if any critical variable is missing.
func ValidateEnv() error {
	var missing []string

	if os.Getenv("JWT_SECRET") == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if os.Getenv("DATABASE_URL") == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return fmt.Errorf("critical environment variables not set: %v", missing)
	}

	// Non-critical variables - log warnings but don't fail
	if os.Getenv("FIREBASE_STORAGE_BUCKET") == "" {
		log.Println("WARNING: FIREBASE_STORAGE_BUCKET not set - photos and payment screenshots are kept inline")
	}
	if os.Getenv("FRONTEND_URL") == "" {
		log.Println("WARNING: FRONTEND_URL not set - CORS may not work correctly")
	}
	if os.Getenv("SMTP_HOST") == "" {
		log.Println("WARNING: SMTP_HOST not set - email notifications will not work")
	}
	if os.Getenv("GEOCODER_USER_AGENT") == "" {
		log.Println("WARNING: GEOCODER_USER_AGENT not set - public Nominatim may reject requests")
	}

	return nil
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetEnvInt parses key as an integer, falling back on a missing or bad value.
func GetEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("WARNING: %s=%q is not an integer, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

// GetEnvDuration parses key with time.ParseDuration.
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("WARNING: %s=%q is not a duration, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

// Load reads the configuration from the environment.
func Load() Config {
	cfg := Config{
		Port:              GetEnv("PORT", "8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		LogLevel:          GetEnv("LOG_LEVEL", "INFO"),
		Timezone:          os.Getenv("APP_TIMEZONE"),
		GeocoderURL:       GetEnv("GEOCODER_URL", "https://nominatim.openstreetmap.org"),
		GeocoderUserAgent: GetEnv("GEOCODER_USER_AGENT", "GlowUp/1.0"),
		GeocoderTimeout:   GetEnvDuration("GEOCODER_TIMEOUT", 10*time.Second),
		GeocoderAttempts:  GetEnvInt("GEOCODER_ATTEMPTS", 3),
		FirebaseBucket:    os.Getenv("FIREBASE_STORAGE_BUCKET"),
		AuthRateLimit:     GetEnvInt("AUTH_RATE_LIMIT", 10),
	}

	for _, o := range strings.Split(GetEnv("CORS_ORIGINS", os.Getenv("FRONTEND_URL")), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"http://localhost:3000"}
		log.Println("WARNING: No CORS origins configured, defaulting to http://localhost:3000")
	}
	return cfg
}

// Location resolves the configured timezone, defaulting to the host's.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}
