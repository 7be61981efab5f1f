package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultSourceURL is the published Call For Science sheet.
const DefaultSourceURL = "https://raw.githubusercontent.com/davisvelardecamaqui/CallForScience/main/CallForScienceAPP.csv"

// Config holds all application configuration loaded from environment variables.
type Config struct {
	SourceURL    string
	FetchTimeout time.Duration
	// FetchAttempts only applies to the CLI commands; the HTTP proxy never retries.
	FetchAttempts int

	HTTPAddr       string
	CacheSMaxAge   int
	AllowedOrigins []string

	DefaultLang     string
	DefaultPageSize int

	LogLevel string

	ChromeBin          string
	SnapshotOutputPath string
	ExportOutputPath   string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	addr := getEnv("HTTP_ADDR", "")
	if addr == "" {
		addr = ":" + getEnv("PORT", "8080")
	}

	return &Config{
		SourceURL:     getEnv("CSV_SOURCE_URL", DefaultSourceURL),
		FetchTimeout:  time.Duration(getEnvInt("FETCH_TIMEOUT_SECONDS", 15)) * time.Second,
		FetchAttempts: getEnvInt("FETCH_ATTEMPTS", 1),

		HTTPAddr:       addr,
		CacheSMaxAge:   getEnvInt("CACHE_SMAXAGE_SECONDS", 600),
		AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),

		DefaultLang:     getEnv("DEFAULT_LANG", "es"),
		DefaultPageSize: getEnvInt("DEFAULT_PAGE_SIZE", 20),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		ChromeBin:          getEnv("CHROME_BIN", ""),
		SnapshotOutputPath: getEnv("SNAPSHOT_OUTPUT_PATH", "./output/snapshot.png"),
		ExportOutputPath:   getEnv("EXPORT_OUTPUT_PATH", "./output/listings.csv"),
	}
}

// Debug reports whether debug logging was requested.
func (c *Config) Debug() bool {
	return strings.EqualFold(c.LogLevel, "debug")
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt reads a non-negative integer; anything else yields fallback.
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err == nil && n >= 0 {
			return n
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
