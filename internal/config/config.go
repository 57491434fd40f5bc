// Package config handles application configuration from environment variables
// and an optional YAML file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port      string `yaml:"port"`
	Env       string `yaml:"env"` // "development", "staging", "production"
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"` // "text", "json", "pretty"

	// RNGSeed makes every random stream reproducible when non-zero.
	RNGSeed int64 `yaml:"rng_seed"`

	Feed   FeedConfig   `yaml:"feed"`
	Chat   ChatConfig   `yaml:"chat"`
	Models ModelsConfig `yaml:"models"`

	// ReputationSnapshotInterval is how often wallet profiles are
	// snapshotted for trend views; zero disables the worker.
	ReputationSnapshotInterval time.Duration `yaml:"reputation_snapshot_interval"`

	Kafka  KafkaConfig  `yaml:"kafka"`
	Redis  RedisConfig  `yaml:"redis"`

	// Observability
	OTLPEndpoint string `yaml:"otlp_endpoint"` // empty disables tracing

	// Security
	RateLimitRPM   int      `yaml:"rate_limit_rpm"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// FeedConfig controls the live transaction feed.
type FeedConfig struct {
	MinInterval time.Duration `yaml:"min_interval"`
	MaxInterval time.Duration `yaml:"max_interval"`
	Autostart   bool          `yaml:"autostart"`
}

// ChatConfig controls the assistant.
type ChatConfig struct {
	MinDelay   time.Duration `yaml:"min_delay"`
	MaxDelay   time.Duration `yaml:"max_delay"`
	Translator string        `yaml:"translator"` // "keyword" or "none"
}

// ModelsConfig controls the model performance simulation.
type ModelsConfig struct {
	DriftInterval   time.Duration `yaml:"drift_interval"`
	RetrainDuration time.Duration `yaml:"retrain_duration"`
}

// KafkaConfig enables the Kafka event sink when Brokers is non-empty.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// RedisConfig enables the Redis pub/sub sink when URL is set.
type RedisConfig struct {
	URL     string `yaml:"url"`
	Channel string `yaml:"channel"`
}

const (
	DefaultPort            = "8080"
	DefaultEnv             = "development"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
	DefaultFeedMinInterval = 2 * time.Second
	DefaultFeedMaxInterval = 5 * time.Second
	DefaultChatMinDelay    = time.Second
	DefaultChatMaxDelay    = 2 * time.Second
	DefaultTranslator      = "keyword"
	DefaultDriftInterval   = 5 * time.Second
	DefaultRetrainDuration = 8 * time.Second
	DefaultSnapshotEvery   = 30 * time.Second
	DefaultKafkaTopic      = "andromeda.events"
	DefaultRedisChannel    = "andromeda:events"
	DefaultRateLimitRPM    = 600
)

// Default returns a configuration with every default applied.
func Default() *Config {
	return &Config{
		Port:      DefaultPort,
		Env:       DefaultEnv,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
		Feed: FeedConfig{
			MinInterval: DefaultFeedMinInterval,
			MaxInterval: DefaultFeedMaxInterval,
			Autostart:   true,
		},
		Chat: ChatConfig{
			MinDelay:   DefaultChatMinDelay,
			MaxDelay:   DefaultChatMaxDelay,
			Translator: DefaultTranslator,
		},
		Models: ModelsConfig{
			DriftInterval:   DefaultDriftInterval,
			RetrainDuration: DefaultRetrainDuration,
		},
		ReputationSnapshotInterval: DefaultSnapshotEvery,
		Kafka:                      KafkaConfig{Topic: DefaultKafkaTopic},
		Redis:                      RedisConfig{Channel: DefaultRedisChannel},
		RateLimitRPM:               DefaultRateLimitRPM,
	}
}

// Load reads configuration in three layers: defaults, the YAML file named by
// CONFIG_FILE (if any), then environment variables.
// It loads .env file if present (for local development)
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.Env = getEnv("ENV", c.Env)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)
	c.RNGSeed = getEnvInt64("RNG_SEED", c.RNGSeed)

	c.Feed.MinInterval = getEnvDuration("FEED_MIN_INTERVAL", c.Feed.MinInterval)
	c.Feed.MaxInterval = getEnvDuration("FEED_MAX_INTERVAL", c.Feed.MaxInterval)
	c.Feed.Autostart = getEnvBool("FEED_AUTOSTART", c.Feed.Autostart)

	c.Chat.MinDelay = getEnvDuration("CHAT_MIN_DELAY", c.Chat.MinDelay)
	c.Chat.MaxDelay = getEnvDuration("CHAT_MAX_DELAY", c.Chat.MaxDelay)
	c.Chat.Translator = getEnv("CHAT_TRANSLATOR", c.Chat.Translator)

	c.Models.DriftInterval = getEnvDuration("MODEL_DRIFT_INTERVAL", c.Models.DriftInterval)
	c.Models.RetrainDuration = getEnvDuration("MODEL_RETRAIN_DURATION", c.Models.RetrainDuration)

	c.ReputationSnapshotInterval = getEnvDuration("REPUTATION_SNAPSHOT_INTERVAL", c.ReputationSnapshotInterval)

	c.Kafka.Brokers = getEnvList("KAFKA_BROKERS", c.Kafka.Brokers)
	c.Kafka.Topic = getEnv("KAFKA_TOPIC", c.Kafka.Topic)
	c.Redis.URL = getEnv("REDIS_URL", c.Redis.URL)
	c.Redis.Channel = getEnv("REDIS_CHANNEL", c.Redis.Channel)

	c.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", c.OTLPEndpoint)
	c.RateLimitRPM = int(getEnvInt64("RATE_LIMIT_RPM", int64(c.RateLimitRPM)))
	c.AllowedOrigins = getEnvList("ALLOWED_ORIGINS", c.AllowedOrigins)
}

// Validate checks that the configuration is internally consistent
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Feed.MinInterval <= 0 || c.Feed.MaxInterval < c.Feed.MinInterval {
		return fmt.Errorf("feed interval window is invalid: min=%s max=%s", c.Feed.MinInterval, c.Feed.MaxInterval)
	}
	if c.Chat.MinDelay < 0 || c.Chat.MaxDelay < c.Chat.MinDelay {
		return fmt.Errorf("chat delay window is invalid: min=%s max=%s", c.Chat.MinDelay, c.Chat.MaxDelay)
	}
	switch c.Chat.Translator {
	case "keyword", "none":
	default:
		return fmt.Errorf("CHAT_TRANSLATOR must be \"keyword\" or \"none\", got %q", c.Chat.Translator)
	}
	if c.Models.DriftInterval <= 0 {
		return fmt.Errorf("MODEL_DRIFT_INTERVAL must be positive")
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return fmt.Errorf("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}
	if c.Redis.URL != "" && c.Redis.Channel == "" {
		return fmt.Errorf("REDIS_CHANNEL is required when REDIS_URL is set")
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
