// Package config loads application configuration from environment
// variables. The .env file, if any, is read by godotenv in main before
// Load runs.
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. Strings for identifiers and secrets, ints
// and durations for the values used as such.
type Config struct {
	Env            string        // application environment (e.g. "dev", "prod")
	Port           string        // HTTP port to listen on
	DBUser         string        // database username
	DBPass         string        // database password (optional)
	DBHost         string        // database host address
	DBPort         string        // database port number
	DBName         string        // database name
	JWTSecret      string        // secret used to sign JWTs
	AccessTTLMin   int           // access token time-to-live in minutes
	RefreshTTLDays int           // refresh token time-to-live in days
	BcryptCost     int           // bcrypt cost for password hashing
	StorageRoot    string        // directory root of the document object store
	StorageSecret  string        // secret used to sign download URLs
	SignedURLTTL   time.Duration // validity window of signed download URLs
	DownloadTries  int           // fetch attempts before giving up on a download
	DownloadDelay  time.Duration // base delay between fetch attempts (grows linearly)
}

// Load reads configuration values from environment variables and
// returns a Config. Required variables are enforced by must(); missing
// values cause the program to exit with a fatal log message. Download
// and signed-URL tunables are optional with sensible defaults
// (3 attempts, 1s base delay, 5 minute URLs).
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"), // empty allowed
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),
		StorageRoot:    getenv("STORAGE_ROOT", "data/documents"),
		StorageSecret:  must("STORAGE_SECRET"),
		SignedURLTTL:   parseDur(getenv("SIGNED_URL_TTL", "5m")),
		DownloadTries:  atoiDefault(getenv("DOWNLOAD_RETRIES", "3"), 3),
		DownloadDelay:  parseDur(getenv("DOWNLOAD_RETRY_DELAY", "1s")),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and
// exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an
// integer. If conversion fails, the application logs a fatal error and
// exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func atoiDefault(s string, def int) int {
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return def
}
