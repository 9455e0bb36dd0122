package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
)

// Config holds configuration for the marketplace module.
type Config struct {
	MongoDBURI   string `env:"MONGODB_URI,required"`
	DatabaseName string `env:"DATABASE_NAME" envDefault:"estatehub"`

	// Redis backs the property resolution index. Disabled when the host is
	// empty; resolution then always hits MongoDB.
	RedisHost     string `env:"REDIS_HOST" envDefault:""`
	RedisPort     string `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
}

// LoadConfig loads marketplace configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to load marketplace configuration: %w", err)
	}
	return cfg, nil
}

// RedisEnabled reports whether a Redis host is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

// RedisAddr returns the host:port address for the Redis client.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}
