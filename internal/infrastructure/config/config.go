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

	// TokenTTL bounds the JWT lifetime; IdleTimeout bounds the inactivity
	// window, which is usually much shorter.
	TokenTTL     time.Duration `env:"TOKEN_TTL,             default=24h"`
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT,          default=5m"`
	ReapInterval time.Duration `env:"SESSION_REAP_INTERVAL, default=30s"`

	// Redirect targets handed to denied requests. The client owns the
	// actual pages; these paths are configuration, not behaviour.
	LoginPath            string `env:"LOGIN_PATH,              default=/login"`
	UnauthorizedPath     string `env:"UNAUTHORIZED_PATH,       default=/unauthorized"`
	UserUnauthorizedPath string `env:"USER_UNAUTHORIZED_PATH,  default=/user/unauthorized"`

	NotifyWorkers int `env:"NOTIFY_WORKERS, default=4"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=hospital_remittance"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
