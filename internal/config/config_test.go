package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper to set env vars and clean up after
func setEnv(t *testing.T, key, value string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	os.Setenv(key, value)
	t.Cleanup(func() {
		if !had {
			os.Unsetenv(key)
		} else {
			os.Setenv(key, old)
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, "CONFIG_FILE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultFeedMinInterval, cfg.Feed.MinInterval)
	assert.Equal(t, DefaultFeedMaxInterval, cfg.Feed.MaxInterval)
	assert.Equal(t, DefaultChatMinDelay, cfg.Chat.MinDelay)
	assert.Equal(t, DefaultRetrainDuration, cfg.Models.RetrainDuration)
	assert.Equal(t, DefaultKafkaTopic, cfg.Kafka.Topic)
}

func TestLoad_EnvOverrides(t *testing.T) {
	setEnv(t, "CONFIG_FILE", "")
	setEnv(t, "PORT", "9090")
	setEnv(t, "RNG_SEED", "42")
	setEnv(t, "FEED_MIN_INTERVAL", "100ms")
	setEnv(t, "FEED_MAX_INTERVAL", "300ms")
	setEnv(t, "FEED_AUTOSTART", "false")
	setEnv(t, "KAFKA_BROKERS", "k1:9092, k2:9092")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, int64(42), cfg.RNGSeed)
	assert.Equal(t, 100*time.Millisecond, cfg.Feed.MinInterval)
	assert.Equal(t, 300*time.Millisecond, cfg.Feed.MaxInterval)
	assert.False(t, cfg.Feed.Autostart)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}

func TestLoad_YAMLFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "andromeda.yaml")
	content := `
port: "7070"
log_format: pretty
feed:
  min_interval: 1s
  max_interval: 3s
  autostart: true
chat:
  translator: none
redis:
  url: ${TEST_REDIS_URL}
  channel: alerts
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	setEnv(t, "CONFIG_FILE", path)
	setEnv(t, "TEST_REDIS_URL", "redis://localhost:6379/0")
	setEnv(t, "LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "json", cfg.LogFormat, "env wins over file")
	assert.Equal(t, time.Second, cfg.Feed.MinInterval)
	assert.Equal(t, 3*time.Second, cfg.Feed.MaxInterval)
	assert.Equal(t, "none", cfg.Chat.Translator)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, "alerts", cfg.Redis.Channel)
}

func TestLoad_MissingFile(t *testing.T) {
	setEnv(t, "CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "defaults",
			mutate:  func(*Config) {},
			wantErr: "",
		},
		{
			name:    "inverted feed window",
			mutate:  func(c *Config) { c.Feed.MinInterval, c.Feed.MaxInterval = 5*time.Second, 2*time.Second },
			wantErr: "feed interval window",
		},
		{
			name:    "negative chat delay",
			mutate:  func(c *Config) { c.Chat.MinDelay = -time.Second },
			wantErr: "chat delay window",
		},
		{
			name:    "zero chat delay allowed",
			mutate:  func(c *Config) { c.Chat.MinDelay, c.Chat.MaxDelay = 0, 0 },
			wantErr: "",
		},
		{
			name:    "unknown translator",
			mutate:  func(c *Config) { c.Chat.Translator = "llm" },
			wantErr: "CHAT_TRANSLATOR",
		},
		{
			name:    "kafka without topic",
			mutate:  func(c *Config) { c.Kafka.Brokers, c.Kafka.Topic = []string{"k:9092"}, "" },
			wantErr: "KAFKA_TOPIC",
		},
		{
			name:    "empty port",
			mutate:  func(c *Config) { c.Port = "" },
			wantErr: "PORT is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	cfg := &Config{Env: "development"}
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())

	cfg.Env = "production"
	assert.False(t, cfg.IsDevelopment())
	assert.True(t, cfg.IsProduction())
}

func TestGetEnvHelpers(t *testing.T) {
	setEnv(t, "TEST_INT", "42")
	setEnv(t, "TEST_INVALID", "not_a_number")
	setEnv(t, "TEST_DUR", "250ms")
	setEnv(t, "TEST_BOOL", "true")

	assert.Equal(t, int64(42), getEnvInt64("TEST_INT", 0))
	assert.Equal(t, int64(99), getEnvInt64("TEST_INVALID", 99))
	assert.Equal(t, 250*time.Millisecond, getEnvDuration("TEST_DUR", time.Second))
	assert.Equal(t, time.Second, getEnvDuration("TEST_INVALID", time.Second))
	assert.True(t, getEnvBool("TEST_BOOL", false))
	assert.Equal(t, "default", getEnv("NONEXISTENT_VAR", "default"))
	assert.Nil(t, getEnvList("NONEXISTENT_VAR", nil))
}
