package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// SnowflakeNode distinguishes ID-generating instances; each running
	// process needs a distinct value.
	SnowflakeNode int64 `env:"SNOWFLAKE_NODE, default=1"`

	Mongo  MongoConfig
	Redis  RedisConfig
	Cache  CacheConfig
	Notify NotifyConfig
}

type MongoConfig struct {
	URI         string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database    string `env:"MONGO_DB,  default=user_directory"`
	MaxPoolSize uint64 `env:"MONGO_MAX_POOL, default=32"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type CacheConfig struct {
	// ActiveUsersTTL bounds staleness of the cached active-user listing.
	ActiveUsersTTL time.Duration `env:"CACHE_ACTIVE_USERS_TTL, default=5m"`
	// RoleLevelTTL bounds staleness of memoized role hierarchy levels.
	RoleLevelTTL time.Duration `env:"CACHE_ROLE_LEVEL_TTL, default=60s"`
}

type NotifyConfig struct {
	Workers int `env:"NOTIFY_WORKERS, default=8"`
	// StartupBatch runs the admin batch workflow once at boot: list active
	// users and notify the first ten admins among them.
	StartupBatch bool `env:"NOTIFY_STARTUP_BATCH, default=false"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
