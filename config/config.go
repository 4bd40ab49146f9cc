package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server settings
	ServerPort   string        `json:"server_port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
	Debug        bool          `json:"debug"`

	// Application paths
	LogDir string `json:"log_dir"`

	// Auth settings
	Auth AuthConfig `json:"auth"`

	// Redis connection settings
	Redis RedisConfig `json:"redis"`

	// Cache settings
	Cache CacheConfig `json:"cache"`

	// Rate limiting
	RateLimit RateLimitConfig `json:"rate_limit"`

	// Fallback transcription
	Transcribe TranscribeConfig `json:"transcribe"`

	// Middleware settings
	Middleware MiddlewareConfig `json:"middleware"`

	// CORS Configuration
	CORS CORSConfig `json:"cors"`

	// Application version
	Version string `json:"version"`

	// Request and shutdown timeouts
	RequestTimeout  time.Duration `json:"request_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
}

type AuthConfig struct {
	// HeaderName is the request header carrying the API key.
	HeaderName string `json:"header_name"`
	APIKey     string `json:"-"`
}

type RedisConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	DB       int    `json:"db"`
	Password string `json:"-"`
}

// Addr returns the host:port dial address.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type CacheConfig struct {
	// TTL applies to both transcript and channel-listing entries.
	TTL time.Duration `json:"ttl"`
}

type RateLimitConfig struct {
	Enabled bool          `json:"enabled"`
	Window  time.Duration `json:"window"`

	// MaxRequests maps provider name to its per-window ceiling.
	// Providers not listed fall back to DefaultMaxRequests.
	MaxRequests        map[string]int `json:"max_requests"`
	DefaultMaxRequests int            `json:"default_max_requests"`
}

type TranscribeConfig struct {
	// Enabled wires audio-fallback transcription into the pipeline.
	// Off by default; captions absence then surfaces directly.
	Enabled bool   `json:"enabled"`
	APIKey  string `json:"-"`
	BaseURL string `json:"base_url"`
	Model   string `json:"model"`

	Timeout time.Duration `json:"timeout"`
}

type MiddlewareConfig struct {
	EnableRecover   bool `json:"enable_recover"`
	EnableRequestID bool `json:"enable_request_id"`
	EnableLogger    bool `json:"enable_logger"`
	EnableTimeout   bool `json:"enable_timeout"`
	EnableCORS      bool `json:"enable_cors"`
}

type CORSConfig struct {
	AllowedOrigins   []string `json:"allowed_origins"`
	AllowedMethods   []string `json:"allowed_methods"`
	AllowedHeaders   []string `json:"allowed_headers"`
	ExposedHeaders   []string `json:"exposed_headers"`
	AllowCredentials bool     `json:"allow_credentials"`
	MaxAge           int      `json:"max_age"`
}

// Default configurations
func defaultDevMiddleware() MiddlewareConfig {
	return MiddlewareConfig{
		EnableRecover:   true,
		EnableRequestID: true,
		EnableLogger:    true,
		EnableTimeout:   false, // Disabled for easier debugging
		EnableCORS:      true,
	}
}

func defaultProdMiddleware() MiddlewareConfig {
	return MiddlewareConfig{
		EnableRecover:   true,
		EnableRequestID: true,
		EnableLogger:    true,
		EnableTimeout:   true,
		EnableCORS:      true,
	}
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		// Server settings
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		ReadTimeout:  getEnvAsDuration("READ_TIMEOUT", 15*time.Second),
		WriteTimeout: getEnvAsDuration("WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:  getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
		Debug:        getEnvAsBool("DEBUG", false),

		LogDir: getEnv("LOG_DIR", "/var/log/transcript-gateway"),

		Version: getEnv("VERSION", "1.0.0"),

		RequestTimeout:  getEnvAsDuration("REQUEST_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		Auth: AuthConfig{
			HeaderName: getEnv("API_KEY_NAME", "X-API-Key"),
			APIKey:     os.Getenv("API_KEY"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Password: os.Getenv("REDIS_PASSWORD"),
		},

		Cache: CacheConfig{
			TTL: getEnvAsDuration("CACHE_TTL", time.Hour),
		},

		RateLimit: RateLimitConfig{
			Enabled: getEnvAsBool("RATE_LIMIT_ENABLED", true),
			Window:  getEnvAsDuration("RATE_LIMIT_WINDOW", time.Hour),
			MaxRequests: map[string]int{
				"youtube": getEnvAsInt("RATE_LIMIT_YOUTUBE", 100),
				"tiktok":  getEnvAsInt("RATE_LIMIT_TIKTOK", 50),
				"reels":   getEnvAsInt("RATE_LIMIT_REELS", 30),
			},
			DefaultMaxRequests: getEnvAsInt("RATE_LIMIT_DEFAULT", 100),
		},

		Transcribe: TranscribeConfig{
			Enabled: getEnvAsBool("TRANSCRIBE_FALLBACK_ENABLED", false),
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			BaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:   getEnv("WHISPER_MODEL", "whisper-1"),
			Timeout: getEnvAsDuration("TRANSCRIBE_TIMEOUT", 5*time.Minute),
		},

		CORS: CORSConfig{
			AllowedOrigins: getEnvAsStringSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsStringSlice(
				"CORS_ALLOWED_METHODS",
				[]string{"GET", "POST", "OPTIONS"},
			),
			AllowedHeaders: getEnvAsStringSlice(
				"CORS_ALLOWED_HEADERS",
				[]string{"Content-Type", "X-API-Key"},
			),
			ExposedHeaders:   getEnvAsStringSlice("CORS_EXPOSED_HEADERS", []string{}),
			AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", false),
			MaxAge:           getEnvAsInt("CORS_MAX_AGE", 86400),
		},

		Middleware: defaultDevMiddleware(),
	}

	if os.Getenv("ENV") == "production" {
		cfg.Middleware = defaultProdMiddleware()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Auth.APIKey == "" {
		return fmt.Errorf("API_KEY is required")
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive")
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("write timeout must be positive")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache TTL must be positive")
	}
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate limit window must be positive")
	}
	if c.RateLimit.DefaultMaxRequests <= 0 {
		return fmt.Errorf("default rate limit ceiling must be positive")
	}
	return nil
}

// Helper functions for reading environment variables
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsStringSlice(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists {
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}
