// Package config loads all environment variables for the agreement assistant.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the assistant service.
type Config struct {
	// Server
	APIHost string
	APIPort string

	// Agreements
	AgreementsDir        string
	CatalogFile          string
	RemoteFetchTimeoutMS int
	MaxDocumentBytes     int64
	MaxContextChars      int

	// LLM
	LLMProvider     string
	LLMModel        string
	AnthropicAPIKey string
	LLMBaseURL      string
	LLMMaxTokens    int
	LLMTemperature  float64
	LLMTimeoutMS    int

	// Conversation
	DefaultStyle  string
	SessionTTLMin int

	// AuthEnabled controls whether JWT auth is enforced
	AuthEnabled bool

	// JWTSecret is the HMAC-SHA256 signing key for JWT tokens
	JWTSecret string

	// JWTExpiryHours is the JWT token lifetime in hours (default 24)
	JWTExpiryHours int

	// AccessPasswordHash is the bcrypt hash of the shared staff password
	AccessPasswordHash string

	// AdminPasswordHash is the bcrypt hash of the admin password (optional)
	AdminPasswordHash string

	// Logging and diagnostics
	LogLevel     string
	LogFile      string
	DebugEnabled bool
	WebDir       string

	// Timeouts
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		APIHost: envOr("API_HOST", "0.0.0.0"),
		APIPort: envOr("API_PORT", "8000"),

		AgreementsDir:        envOr("AGREEMENTS_DIR", "agreements"),
		CatalogFile:          os.Getenv("CATALOG_FILE"),
		RemoteFetchTimeoutMS: envInt("REMOTE_FETCH_TIMEOUT_MS", 10000),
		MaxDocumentBytes:     int64(envInt("MAX_DOCUMENT_BYTES", 32<<20)),
		MaxContextChars:      envInt("MAX_CONTEXT_CHARS", 0),

		LLMProvider:     envOr("LLM_PROVIDER", "anthropic"),
		LLMModel:        envOr("LLM_MODEL", "claude-3-5-sonnet-20241022"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		LLMBaseURL:      os.Getenv("LLM_BASE_URL"),
		LLMMaxTokens:    envInt("LLM_MAX_TOKENS", 1500),
		LLMTemperature:  envFloat("LLM_TEMPERATURE", 0.1),
		LLMTimeoutMS:    envInt("LLM_TIMEOUT_MS", 120000),

		DefaultStyle:  envOr("DEFAULT_STYLE", "management"),
		SessionTTLMin: envInt("SESSION_TTL_MIN", 240),

		AuthEnabled:        envBool("AUTH_ENABLED", false),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		JWTExpiryHours:     envInt("JWT_EXPIRY_HOURS", 24),
		AccessPasswordHash: os.Getenv("ACCESS_PASSWORD_HASH"),
		AdminPasswordHash:  os.Getenv("ADMIN_PASSWORD_HASH"),

		LogLevel:     envOr("LOG_LEVEL", "info"),
		LogFile:      os.Getenv("LOG_FILE"),
		DebugEnabled: envBool("DEBUG_ENABLED", false),
		WebDir:       envOr("WEB_DIR", "/web"),

		ReadTimeout:  10 * time.Second,
		WriteTimeout: 180 * time.Second, // Long enough for a full-agreement completion
		IdleTimeout:  60 * time.Second,
	}

	if cfg.AnthropicAPIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is required")
	}
	if cfg.AuthEnabled {
		if cfg.JWTSecret == "" {
			return nil, fmt.Errorf("JWT_SECRET is required when AUTH_ENABLED=true")
		}
		if cfg.AccessPasswordHash == "" {
			return nil, fmt.Errorf("ACCESS_PASSWORD_HASH is required when AUTH_ENABLED=true")
		}
	}
	if cfg.LLMTemperature < 0 || cfg.LLMTemperature > 1 {
		return nil, fmt.Errorf("LLM_TEMPERATURE must be between 0 and 1, got %g", cfg.LLMTemperature)
	}

	return cfg, nil
}

// LoadEnvFile loads variables from a .env file into the process environment.
// Variables already set are left alone, and a missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Addr returns the listen address as "host:port".
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.APIHost, c.APIPort)
}

// RemoteFetchTimeout returns the remote agreement fetch timeout as a time.Duration.
func (c *Config) RemoteFetchTimeout() time.Duration {
	return time.Duration(c.RemoteFetchTimeoutMS) * time.Millisecond
}

// LLMTimeout returns the completion request timeout as a time.Duration.
func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLMTimeoutMS) * time.Millisecond
}

// SessionTTL returns how long an idle session is kept.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMin) * time.Minute
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
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

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
