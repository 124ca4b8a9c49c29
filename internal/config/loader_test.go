package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notifier/internal/constants"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeoutSeconds)
	assert.Equal(t, "kafka", cfg.Broker.Type)
	assert.Equal(t, constants.DefaultQueueName, cfg.Broker.Queue)
	assert.Empty(t, cfg.Broker.ConnectionString)
	assert.True(t, cfg.Scheduler.Enabled)
	assert.Equal(t, constants.DefaultScheduleInterval, cfg.Scheduler.Interval)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, constants.DefaultEnvironment, cfg.Service.Environment)
	assert.False(t, cfg.CircuitBreaker.Enabled)
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestLoadConfigDefaultsAreNotConfigured(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	// Queue settings are optional at load time.
	assert.False(t, cfg.Broker.Configured())
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9090
broker:
  type: nats
  connection_string: nats://localhost:4222
  queue: custom-queue
scheduler:
  interval: 30s
logging:
  level: debug
service:
  environment: production
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "nats", cfg.Broker.Type)
	assert.Equal(t, "nats://localhost:4222", cfg.Broker.ConnectionString)
	assert.Equal(t, "custom-queue", cfg.Broker.Queue)
	assert.True(t, cfg.Broker.Configured())
	assert.Equal(t, 30*time.Second, cfg.Scheduler.Interval)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "production", cfg.Service.Environment)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
broker:
  connection_string: file-host:9092
  queue: file-queue
`)

	t.Setenv("QUEUE_CONNECTION_STRING", "env-host:9092")
	t.Setenv("QUEUE_NAME", "env-queue")
	t.Setenv("SCHEDULER_ENABLED", "false")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "env-host:9092", cfg.Broker.ConnectionString)
	assert.Equal(t, "env-queue", cfg.Broker.Queue)
	assert.False(t, cfg.Scheduler.Enabled)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{
			name:    "port out of range",
			content: "server:\n  port: 70000\n",
			field:   "server.port",
		},
		{
			name:    "unsupported broker type",
			content: "broker:\n  type: rabbitmq\n",
			field:   "broker.type",
		},
		{
			name:    "non-positive interval",
			content: "scheduler:\n  interval: 0s\n",
			field:   "scheduler.interval",
		},
		{
			name:    "unknown log level",
			content: "logging:\n  level: loud\n",
			field:   "logging.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.content)
			_, err := LoadConfig(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidateStaticCollectsMultipleErrors(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{Port: 0},
		Broker: BrokerConfig{Type: "kafka"},
		Scheduler: SchedulerConfig{
			Interval: constants.DefaultScheduleInterval,
		},
		Logging: LoggingConfig{Level: "loud"},
	}

	err := ValidateStatic(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
	assert.Contains(t, err.Error(), "logging.level")
}

func TestValidateStaticAllowsMissingQueueSettings(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{
			Port:                8080,
			ReadTimeoutSeconds:  10 * time.Second,
			WriteTimeoutSeconds: 10 * time.Second,
		},
		Broker:    BrokerConfig{Type: "kafka"},
		Scheduler: SchedulerConfig{Interval: 10 * time.Second},
		Logging:   LoggingConfig{Level: "info"},
	}

	assert.NoError(t, ValidateStatic(cfg))
}
