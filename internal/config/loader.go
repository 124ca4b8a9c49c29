package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"notifier/internal/constants"
)

// LoadConfig reads an optional YAML file, then applies environment
// overrides. An empty configFile is valid: queue settings are commonly
// supplied through the environment alone.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigType("yaml")
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvVariables(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateStatic(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout_seconds", 10*time.Second)
	v.SetDefault("server.write_timeout_seconds", 10*time.Second)

	v.SetDefault("broker.type", "kafka")
	v.SetDefault("broker.queue", constants.DefaultQueueName)

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.interval", constants.DefaultScheduleInterval)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("service.environment", constants.DefaultEnvironment)

	v.SetDefault("circuit_breaker.enabled", false)
	v.SetDefault("rate_limit.enabled", false)
}

func bindEnvVariables(v *viper.Viper) {
	v.BindEnv("broker.type", "BROKER_TYPE")
	v.BindEnv("broker.connection_string", "QUEUE_CONNECTION_STRING")
	v.BindEnv("broker.queue", "QUEUE_NAME")

	v.BindEnv("scheduler.enabled", "SCHEDULER_ENABLED")
	v.BindEnv("scheduler.interval", "SCHEDULER_INTERVAL")

	v.BindEnv("server.port", "SERVER_PORT")
	v.BindEnv("server.read_timeout_seconds", "SERVER_READ_TIMEOUT_SECONDS")
	v.BindEnv("server.write_timeout_seconds", "SERVER_WRITE_TIMEOUT_SECONDS")

	v.BindEnv("logging.level", "LOGGING_LEVEL")
	v.BindEnv("logging.format", "LOGGING_FORMAT")

	v.BindEnv("service.environment", "SERVICE_ENVIRONMENT")
}
