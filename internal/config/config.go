package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
// (optionally seeded from a .env file)
type Config struct {
	Server        ServerConfig
	Auth          AuthConfig
	Store         StoreConfig
	Mongo         MongoConfig
	Redis         RedisConfig
	Storage       StorageConfig
	Telegram      TelegramConfig
	AMQP          AMQPConfig
	Order         OrderConfig
	Effects       EffectsConfig
	PublicBaseURL string
	LogLevel      string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
	AllowedOrigins  []string
}

type AuthConfig struct {
	OwnerKeys map[string]string // API key -> restaurant ID for dashboard access
}

type StoreConfig struct {
	Driver string // memory or mongo
}

type MongoConfig struct {
	URI      string
	Database string
}

// RedisConfig holds the cart session store settings. An empty URL keeps carts in memory.
type RedisConfig struct {
	URL        string
	KeyPrefix  string
	CartTTLMin int
}

func (c RedisConfig) Enabled() bool { return c.URL != "" }

func (c RedisConfig) CartTTL() time.Duration {
	return time.Duration(c.CartTTLMin) * time.Minute
}

// StorageConfig points at an S3-compatible bucket for menu images
type StorageConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
}

func (c StorageConfig) Enabled() bool { return c.Endpoint != "" || c.Bucket != "" }

type TelegramConfig struct {
	Token  string
	ChatID int64
}

func (c TelegramConfig) Enabled() bool { return c.Token != "" }

type AMQPConfig struct {
	URL      string
	Exchange string
}

func (c AMQPConfig) Enabled() bool { return c.URL != "" }

type OrderConfig struct {
	RequirePersist bool // fail checkout when the order cannot be saved
}

type EffectsConfig struct {
	TimeoutSeconds int
}

func (c EffectsConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	_ = godotenv.Load()

	ownerKeys, err := parseOwnerKeys(getEnv("OWNER_KEYS", "ownertest:demo-restaurant"))
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
			AllowedOrigins:  getEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),
		},
		Auth: AuthConfig{
			OwnerKeys: ownerKeys,
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getEnv("STORE_DRIVER", StoreMemory)),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", ""),
			Database: getEnv("MONGO_DATABASE", "menuwal"),
		},
		Redis: RedisConfig{
			URL:        getEnv("REDIS_URL", ""),
			KeyPrefix:  getEnv("REDIS_PREFIX", "menuwal"),
			CartTTLMin: getEnvAsInt("CART_TTL_MINUTES", 120),
		},
		Storage: StorageConfig{
			Endpoint:      getEnv("R2_ENDPOINT", ""),
			AccessKey:     getEnv("R2_ACCESS_KEY", ""),
			SecretKey:     getEnv("R2_SECRET_KEY", ""),
			Bucket:        getEnv("R2_BUCKET_NAME", ""),
			PublicBaseURL: getEnv("R2_PUBLIC_BASE_URL", ""),
		},
		Telegram: TelegramConfig{
			Token:  getEnv("TELEGRAM_BOT_TOKEN", ""),
			ChatID: getEnvAsInt64("TELEGRAM_CHAT_ID", 0),
		},
		AMQP: AMQPConfig{
			URL:      getEnv("AMQP_URL", ""),
			Exchange: getEnv("AMQP_EXCHANGE", "menuwal.orders"),
		},
		Order: OrderConfig{
			RequirePersist: getEnvAsBool("ORDER_REQUIRE_PERSIST", false),
		},
		Effects: EffectsConfig{
			TimeoutSeconds: getEnvAsInt("EFFECT_TIMEOUT", 5),
		},
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "https://menuwal.online"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if len(c.Auth.OwnerKeys) == 0 {
		return fmt.Errorf("at least one owner key must be configured")
	}

	switch c.Store.Driver {
	case StoreMemory:
	case StoreMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI is required when STORE_DRIVER=mongo")
		}
	default:
		return fmt.Errorf("invalid store driver: %s (must be memory or mongo)", c.Store.Driver)
	}

	if c.Redis.CartTTLMin <= 0 {
		return fmt.Errorf("CART_TTL_MINUTES must be positive")
	}

	if c.Storage.Enabled() && (c.Storage.Endpoint == "" || c.Storage.Bucket == "" || c.Storage.PublicBaseURL == "") {
		return fmt.Errorf("R2_ENDPOINT, R2_BUCKET_NAME and R2_PUBLIC_BASE_URL must be set together")
	}

	if c.Telegram.Enabled() && c.Telegram.ChatID == 0 {
		return fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_BOT_TOKEN is set")
	}

	if c.Effects.TimeoutSeconds <= 0 {
		return fmt.Errorf("EFFECT_TIMEOUT must be positive")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// parseOwnerKeys reads "key:restaurantId" pairs separated by commas
func parseOwnerKeys(raw string) (map[string]string, error) {
	keys := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, restaurantID, ok := strings.Cut(pair, ":")
		key, restaurantID = strings.TrimSpace(key), strings.TrimSpace(restaurantID)
		if !ok || key == "" || restaurantID == "" {
			return nil, fmt.Errorf("OWNER_KEYS entry %q must be key:restaurantId", pair)
		}
		keys[key] = restaurantID
	}
	return keys, nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
