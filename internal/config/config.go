package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Gemini    GeminiConfig
	Storage   StorageConfig
	Document  DocumentConfig
	Inference InferenceConfig
	Session   SessionConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type GeminiConfig struct {
	APIKey     string
	KeySource  string
	Model      string
	APIVersion string
}

type StorageConfig struct {
	MaxFileSize int64
}

type DocumentConfig struct {
	MaxPages  int
	RenderDPI int
}

type InferenceConfig struct {
	RetryMaxAttempts  int
	RetryDelay        time.Duration
	CacheSize         int
	RequestsPerMinute int
}

type SessionConfig struct {
	HistoryLimit    int
	HistoryTruncate int
	TTL             time.Duration
	SweepInterval   time.Duration
}

// Load reads the environment (and .env when present). The API key is looked
// up in the environment first and in the OS keychain second; call Validate
// before using the result.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	apiKey, source := ResolveAPIKey()

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Gemini: GeminiConfig{
			APIKey:     apiKey,
			KeySource:  source,
			Model:      getEnv("GEMINI_MODEL", "gemini-flash-latest"),
			APIVersion: getEnv("GEMINI_API_VERSION", "v1"),
		},
		Storage: StorageConfig{
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Document: DocumentConfig{
			MaxPages:  getEnvAsInt("MAX_PAGES", 3),
			RenderDPI: getEnvAsInt("RENDER_DPI", 72),
		},
		Inference: InferenceConfig{
			RetryMaxAttempts:  getEnvAsInt("RETRY_MAX_ATTEMPTS", 3),
			RetryDelay:        getEnvAsDuration("RETRY_DELAY", "2s"),
			CacheSize:         getEnvAsInt("CACHE_SIZE", 64),
			RequestsPerMinute: getEnvAsInt("REQUESTS_PER_MINUTE", 0),
		},
		Session: SessionConfig{
			HistoryLimit:    getEnvAsInt("HISTORY_LIMIT", 5),
			HistoryTruncate: getEnvAsInt("HISTORY_TRUNCATE", 500),
			TTL:             getEnvAsDuration("SESSION_TTL", "24h"),
			SweepInterval:   getEnvAsDuration("SESSION_SWEEP_INTERVAL", "10m"),
		},
	}
}

// Validate reports the first fatal configuration problem as a
// *ConfigurationError.
func (c *Config) Validate() error {
	if c.Gemini.APIKey == "" {
		return &ConfigurationError{
			Key:     "GEMINI_API_KEY",
			Message: "API key not found in environment (GEMINI_API_KEY, GOOGLE_API_KEY) or OS keychain",
		}
	}
	if c.Gemini.Model == "" {
		return &ConfigurationError{Key: "GEMINI_MODEL", Message: "model name is empty"}
	}
	if c.Document.MaxPages <= 0 {
		return &ConfigurationError{Key: "MAX_PAGES", Message: "must be positive"}
	}
	if c.Document.RenderDPI <= 0 {
		return &ConfigurationError{Key: "RENDER_DPI", Message: "must be positive"}
	}
	if c.Inference.RetryMaxAttempts <= 0 {
		return &ConfigurationError{Key: "RETRY_MAX_ATTEMPTS", Message: "must be positive"}
	}
	if c.Inference.RetryDelay < 0 {
		return &ConfigurationError{Key: "RETRY_DELAY", Message: "must not be negative"}
	}
	if c.Inference.CacheSize < 0 {
		return &ConfigurationError{Key: "CACHE_SIZE", Message: "must not be negative"}
	}
	if c.Inference.RequestsPerMinute < 0 {
		return &ConfigurationError{Key: "REQUESTS_PER_MINUTE", Message: "must not be negative"}
	}
	if c.Storage.MaxFileSize <= 0 {
		return &ConfigurationError{Key: "MAX_FILE_SIZE", Message: "must be positive"}
	}
	if c.Session.HistoryLimit <= 0 {
		return &ConfigurationError{Key: "HISTORY_LIMIT", Message: "must be positive"}
	}
	if c.Session.HistoryTruncate <= 0 {
		return &ConfigurationError{Key: "HISTORY_TRUNCATE", Message: "must be positive"}
	}
	if c.Session.TTL > 0 && c.Session.SweepInterval <= 0 {
		return &ConfigurationError{Key: "SESSION_SWEEP_INTERVAL", Message: "must be positive when SESSION_TTL is set"}
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
