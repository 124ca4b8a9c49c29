package config

import (
	"strings"
	"time"
)

type Config struct {
	Server         ServerConfig         `mapstructure:"server"`
	Broker         BrokerConfig         `mapstructure:"broker"`
	Scheduler      SchedulerConfig      `mapstructure:"scheduler"`
	Logging        LoggingConfig        `mapstructure:"logging"`
	Service        ServiceConfig        `mapstructure:"service"`
	RateLimit      RateLimitConfig      `mapstructure:"rate_limit"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

type ServerConfig struct {
	Port                int           `mapstructure:"port"`
	ReadTimeoutSeconds  time.Duration `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds time.Duration `mapstructure:"write_timeout_seconds"`
}

// BrokerConfig identifies the durable queue. ConnectionString and Queue
// may legitimately be empty at startup; the health surface reports the
// gap instead of the process refusing to boot.
type BrokerConfig struct {
	Type             string `mapstructure:"type"`
	ConnectionString string `mapstructure:"connection_string"`
	Queue            string `mapstructure:"queue"`
}

// Configured reports whether both the connection string and the queue
// name were supplied.
func (c BrokerConfig) Configured() bool {
	return c.ConnectionString != "" && c.Queue != ""
}

// Endpoints splits the connection string into individual broker
// addresses (comma-separated for Kafka, a single URL for NATS).
func (c BrokerConfig) Endpoints() []string {
	if c.ConnectionString == "" {
		return nil
	}
	parts := strings.Split(c.ConnectionString, ",")
	endpoints := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			endpoints = append(endpoints, trimmed)
		}
	}
	return endpoints
}

type SchedulerConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ServiceConfig struct {
	Environment string `mapstructure:"environment"`
}

type RateLimitConfig struct {
	Enabled         bool    `mapstructure:"enabled"`
	RPS             float64 `mapstructure:"rps"`
	Burst           int     `mapstructure:"burst"`
	CleanupInterval int     `mapstructure:"cleanup_interval"`
	MaxAge          int     `mapstructure:"max_age"`
}

type CircuitBreakerConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
	MinRequests  uint32        `mapstructure:"min_requests"`
}

func Load(configFile string) (*Config, error) {
	return LoadConfig(configFile)
}
