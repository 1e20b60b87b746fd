package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Upload    UploadConfig    `mapstructure:"upload"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	Environment    string        `mapstructure:"environment"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
}

// GeminiConfig holds Gemini API configuration. APIKey has no default and must be supplied.
type GeminiConfig struct {
	APIKey            string        `mapstructure:"api_key"`
	Model             string        `mapstructure:"model"`
	VisionModel       string        `mapstructure:"vision_model"`
	Temperature       float32       `mapstructure:"temperature"`
	MaxOutputTokens   int32         `mapstructure:"max_output_tokens"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	MaxRetries        int           `mapstructure:"max_retries"`
	TextTimeout       time.Duration `mapstructure:"text_timeout"`
	ImageTimeout      time.Duration `mapstructure:"image_timeout"`
}

// CatalogConfig describes where the product catalog is read from
type CatalogConfig struct {
	Source          string        `mapstructure:"source"` // "file" or "minio"
	Path            string        `mapstructure:"path"`
	PriceVariant    string        `mapstructure:"price_variant"`
	MatchLimit      int           `mapstructure:"match_limit"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	Minio           MinioConfig   `mapstructure:"minio"`
}

// MinioConfig locates the catalog object in S3-compatible storage
type MinioConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	Bucket    string `mapstructure:"bucket"`
	Key       string `mapstructure:"key"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds per-client rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
	Burst int `mapstructure:"burst"`
}

// UploadConfig restricts image uploads
type UploadConfig struct {
	MaxBytes     int64    `mapstructure:"max_bytes"`
	AllowedTypes []string `mapstructure:"allowed_types"`
}

// LogConfig controls logger output
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// IsProduction reports whether the server runs in production mode
func (c ServerConfig) IsProduction() bool {
	return c.Environment == "production"
}

// Load loads configuration from the .env file, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/shopbot/")

	// SHOPBOT_GEMINI_API_KEY maps to gemini.api_key
	v.SetEnvPrefix("SHOPBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Keys without defaults are only unmarshalled when bound explicitly.
	for _, key := range []string{
		"gemini.api_key",
		"cache.redis_url",
		"catalog.minio.endpoint",
		"catalog.minio.bucket",
		"catalog.minio.key",
		"catalog.minio.access_key",
		"catalog.minio.secret_key",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", key, err)
		}
	}

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env if present. Variables already set in the environment win.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return godotenv.Load(".env")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "45s")

	// Gemini defaults
	v.SetDefault("gemini.model", "gemini-1.5-flash")
	v.SetDefault("gemini.vision_model", "gemini-1.5-flash")
	v.SetDefault("gemini.temperature", 0.7)
	v.SetDefault("gemini.max_output_tokens", 1024)
	v.SetDefault("gemini.requests_per_second", 5)
	v.SetDefault("gemini.max_retries", 2)
	v.SetDefault("gemini.text_timeout", "15s")
	v.SetDefault("gemini.image_timeout", "30s")

	// Catalog defaults
	v.SetDefault("catalog.source", "file")
	v.SetDefault("catalog.path", "data/catalog.json")
	v.SetDefault("catalog.price_variant", "250")
	v.SetDefault("catalog.match_limit", 10)
	v.SetDefault("catalog.refresh_interval", "0s")
	v.SetDefault("catalog.minio.use_ssl", false)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", "24h")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 60)
	v.SetDefault("ratelimit.burst", 10)

	// Upload defaults
	v.SetDefault("upload.max_bytes", 5*1024*1024)
	v.SetDefault("upload.allowed_types", []string{"image/jpeg", "image/png", "image/gif", "image/webp"})

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Gemini.APIKey == "" {
		return fmt.Errorf("Gemini API key is required (set SHOPBOT_GEMINI_API_KEY)")
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" {
		if config.Cache.RedisURL == "" {
			return fmt.Errorf("Redis URL is required when cache type is 'redis'")
		}
		u, err := url.Parse(config.Cache.RedisURL)
		if err != nil || (u.Scheme != "redis" && u.Scheme != "rediss") {
			return fmt.Errorf("Redis URL must use the redis:// or rediss:// scheme, got: %s", config.Cache.RedisURL)
		}
	}

	switch config.Catalog.Source {
	case "file":
		if config.Catalog.Path == "" {
			return fmt.Errorf("catalog path is required when catalog source is 'file'")
		}
	case "minio":
		m := config.Catalog.Minio
		if m.Endpoint == "" || m.Bucket == "" || m.Key == "" {
			return fmt.Errorf("catalog minio endpoint, bucket and key are required when catalog source is 'minio'")
		}
	default:
		return fmt.Errorf("catalog source must be 'file' or 'minio', got: %s", config.Catalog.Source)
	}

	if config.Catalog.PriceVariant == "" {
		return fmt.Errorf("catalog price variant must not be empty")
	}

	if config.Upload.MaxBytes <= 0 {
		return fmt.Errorf("upload max_bytes must be positive, got: %d", config.Upload.MaxBytes)
	}

	if config.Log.Format != "" && config.Log.Format != "json" && config.Log.Format != "console" {
		return fmt.Errorf("log format must be 'json' or 'console', got: %s", config.Log.Format)
	}

	return nil
}
