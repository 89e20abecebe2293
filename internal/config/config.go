package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	NATS    NATSConfig    `mapstructure:"nats"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Lease   LeaseConfig   `mapstructure:"lease"`
	Probe   ProbeConfig   `mapstructure:"probe"`
	Queue   QueueConfig   `mapstructure:"queue"`
	DLQ     DLQConfig     `mapstructure:"dlq"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type LeaseConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type ProbeConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type QueueConfig struct {
	Subject string `mapstructure:"subject"`
}

type DLQConfig struct {
	Backend  string `mapstructure:"backend"`
	BasePath string `mapstructure:"base_path"`
}

type AuthConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Secret  string `mapstructure:"secret"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.port", 8092)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("lease.ttl", "60s")
	v.SetDefault("probe.enabled", true)
	v.SetDefault("probe.timeout", "10s")
	v.SetDefault("queue.subject", "relay.files.created")
	v.SetDefault("dlq.backend", "jetstream")
	v.SetDefault("dlq.base_path", "/var/lib/dropgate/dlq")
	v.SetDefault("auth.enabled", false)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Read config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/dropgate")
	}

	// Environment variables override
	v.SetEnvPrefix("DROPGATE")
	v.AutomaticEnv()

	// The destination queue is commonly set per deployment rather than in
	// the config file.
	v.BindEnv("queue.subject", "DROPGATE_QUEUE_SUBJECT", "QUEUE")

	// Read config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
