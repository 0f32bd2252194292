package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Port          int
	Development   bool
	LogLevel      string
	JWTSecret     string
	DatabaseURL   string
	EncryptionKey string
	CORSOrigins   []string
	AdminEmail    string
	AdminPassword string

	// Base URL of the web front-end, used for default payment redirects.
	AppBaseURL string
	// Public base URL of this API, used to build webhook callbacks.
	APIBaseURL string

	MollieTestMode bool

	ResendAPIKey string
	EmailFrom    string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	port, _ := strconv.Atoi(getEnv("PORT", "4001"))

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	dbURL := getEnv("DATABASE_URL", "")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	encKey := getEnv("ENCRYPTION_KEY", "")
	if encKey == "" {
		return nil, fmt.Errorf("ENCRYPTION_KEY is required (must be exactly 32 bytes)")
	}
	if len(encKey) != 32 {
		return nil, fmt.Errorf("ENCRYPTION_KEY must be exactly 32 bytes, got %d", len(encKey))
	}

	// The Mollie client reads MOLLIE_API_TOKEN from the environment itself;
	// we only verify it is present.
	if getEnv("MOLLIE_API_TOKEN", "") == "" {
		return nil, fmt.Errorf("MOLLIE_API_TOKEN is required")
	}

	resendKey := getEnv("RESEND_API_KEY", "")
	if resendKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY is required")
	}

	origins := strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000,https://tripflow.app"), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	return &Config{
		Port:           port,
		Development:    getEnv("APP_ENV", "production") == "development",
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		JWTSecret:      jwtSecret,
		DatabaseURL:    dbURL,
		EncryptionKey:  encKey,
		CORSOrigins:    origins,
		AdminEmail:     getEnv("ADMIN_EMAIL", "admin@tripflow.app"),
		AdminPassword:  getEnv("ADMIN_PASSWORD", "admin123"),
		AppBaseURL:     getEnv("APP_BASE_URL", "http://localhost:3000"),
		APIBaseURL:     getEnv("API_BASE_URL", fmt.Sprintf("http://localhost:%d", port)),
		MollieTestMode: getEnv("MOLLIE_TEST_MODE", "true") == "true",
		ResendAPIKey:   resendKey,
		EmailFrom:      getEnv("EMAIL_FROM", "TripFlow <reports@tripflow.app>"),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
