package server

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// envPrefix namespaces the server environment, e.g. HOVERFX_PORT.
const envPrefix = "hoverfx"

// Config is the server configuration, read from the environment. Empty
// backend addresses select the in-memory implementations.
type Config struct {
	Port           int           `envconfig:"PORT" default:"8080"`
	Addr           string        `envconfig:"ADDR"`
	RedisAddr      string        `envconfig:"REDIS_ADDR"`
	MongoURI       string        `envconfig:"MONGO_URI"`
	MongoDB        string        `envconfig:"MONGO_DB" default:"hoverfx"`
	CacheTTL       time.Duration `envconfig:"CACHE_TTL" default:"24h"`
	CacheSize      int           `envconfig:"CACHE_SIZE" default:"1024"`
	SessionTTL     time.Duration `envconfig:"SESSION_TTL" default:"30m"`
	AllowedOrigins []string      `envconfig:"ALLOWED_ORIGINS" default:"*"`
	MaxBodyBytes   int64         `envconfig:"MAX_BODY_BYTES" default:"4194304"`
}

// LoadConfig reads the HOVERFX_* environment.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("load server config: %w", err)
	}
	return &cfg, nil
}

// ListenAddr returns Addr, or ":Port" when Addr is empty.
func (c *Config) ListenAddr() string {
	if c.Addr != "" {
		return c.Addr
	}
	return fmt.Sprintf(":%d", c.Port)
}
