package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration loaded from environment variables
// Provide sane defaults for local development.
type Config struct {
	AppName string
	Env     string // development, staging, production
	Port    string
	GinMode string

	// OpenAPI document info
	APITitle   string
	APIVersion string

	// Documentation and socket endpoints
	DocPath string
	UIPath  string
	WSPath  string

	// Max inbound websocket message size in bytes
	WSReadLimit int64

	// CORS
	CORSAllowedOrigins string // comma-separated

	// HTTP access log toggle
	HTTPLogEnabled bool

	// Rate limiting (Redis backed, off by default)
	RateLimitEnabled   bool
	RateLimitPerMinute int
	RedisAddr          string
	RedisPassword      string
	RedisDB            int

	ShutdownTimeout time.Duration
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %v, using default %v", key, err, def)
			return def
		}
		return b
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid int for %s: %v, using default %d", key, err, def)
			return def
		}
		return i
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using default %v", key, err, def)
			return def
		}
		return d
	}
	return def
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		AppName: getenv("APP_NAME", "codenames-api"),
		Env:     getenv("APP_ENV", "development"),
		Port:    getenv("PORT", "3000"),
		GinMode: getenv("GIN_MODE", "release"),

		APITitle:   getenv("API_TITLE", "Codenames API"),
		APIVersion: getenv("API_VERSION", "1.0.0"),

		DocPath: getenv("DOC_PATH", "/doc"),
		UIPath:  getenv("UI_PATH", "/ui"),
		WSPath:  getenv("WS_PATH", "/ws"),

		WSReadLimit: int64(getint("WS_READ_LIMIT", 64*1024)),

		CORSAllowedOrigins: getenv("CORS_ALLOWED_ORIGINS", ""),

		HTTPLogEnabled: getbool("HTTP_LOG_ENABLED", false),

		RateLimitEnabled:   getbool("RATE_LIMIT_ENABLED", false),
		RateLimitPerMinute: getint("RATE_LIMIT_PER_MINUTE", 120),
		RedisAddr:          getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getenv("REDIS_PASSWORD", ""),
		RedisDB:            getint("REDIS_DB", 0),

		ShutdownTimeout: getdur("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// CORSOrigins returns the allowed origins as slice
func (c *Config) CORSOrigins() []string {
	parts := strings.Split(c.CORSAllowedOrigins, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}

// BaseURL is the address printed on startup
func (c *Config) BaseURL() string {
	return "http://localhost:" + c.Port
}
