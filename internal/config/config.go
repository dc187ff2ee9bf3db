package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	ServerPort     string
	GinMode        string
	LogLevel       string
	LogFormat      string
	DatabaseURL    string
	MaxDBConns     int32
	RedisURL       string
	JWTSecret      string
	JWTExpiry      time.Duration
	BcryptCost     int
	AdminUsername  string
	AdminPassword  string
	AdminPassHash  string
	UploadDir      string
	MaxUploadBytes int64
	ReportCacheTTL time.Duration
	ReportFontPath string
	LoginRateLimit int
	// AllowedOrigins controls HTTP CORS and WebSocket origin validation.
	// Empty slice means all origins are permitted (dev default).
	AllowedOrigins []string
}

// Load reads configuration from environment variables with local development
// defaults. A .env file is loaded when present.
func Load() *Config {
	_ = godotenv.Load()

	origins := getEnv("ALLOWED_ORIGINS", getEnv("FRONTEND_URL", "http://localhost:3000"))

	return &Config{
		ServerPort:     getEnv("SERVER_PORT", getEnv("PORT", "5000")),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "pretty"),
		DatabaseURL:    getEnv("DATABASE_URL", buildDatabaseURL()),
		MaxDBConns:     int32(getEnvInt("MAX_DB_CONNS", 10)),
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379/0"),
		JWTSecret:      getEnv("JWT_SECRET", "unach_secret_key_2024"),
		JWTExpiry:      time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 24)) * time.Hour,
		BcryptCost:     getEnvInt("BCRYPT_COST", 10),
		AdminUsername:  getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:  getEnv("ADMIN_PASSWORD", "admin123"),
		AdminPassHash:  getEnv("ADMIN_PASSWORD_HASH", ""),
		UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_SIZE_MB", 5)) * 1024 * 1024,
		ReportCacheTTL: time.Duration(getEnvInt("REPORT_CACHE_TTL_SECONDS", 60)) * time.Second,
		ReportFontPath: getEnv("REPORT_FONT_PATH", "./assets/fonts/DejaVuSans.ttf"),
		LoginRateLimit: getEnvInt("LOGIN_RATE_LIMIT", 30),
		AllowedOrigins: parseOrigins(origins),
	}
}

// buildDatabaseURL assembles a connection URL from the libpq-style PG*
// variables when DATABASE_URL is not set.
func buildDatabaseURL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(getEnv("PGUSER", "postgres"), getEnv("PGPASSWORD", "postgres")),
		Host:   fmt.Sprintf("%s:%s", getEnv("PGHOST", "localhost"), getEnv("PGPORT", "5432")),
		Path:   getEnv("PGDATABASE", "escueladb"),
	}
	q := u.Query()
	q.Set("sslmode", getEnv("PGSSLMODE", "disable"))
	u.RawQuery = q.Encode()
	return u.String()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty or "*".
func parseOrigins(raw string) []string {
	if raw == "" || raw == "*" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
