package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWT   JWTConfig
	Mongo MongoConfig
	Redis RedisConfig
	Login LoginConfig
}

type JWTConfig struct {
	Secret            string `env:"JWT_SECRET"`
	Issuer            string `env:"JWT_ISSUER,   default=employee-mgmt"`
	Audience          string `env:"JWT_AUDIENCE, default=employee-mgmt-clients"`
	ExpirationMinutes int    `env:"JWT_EXPIRATION_MINUTES, default=60"`
}

// TokenTTL returns the configured token lifetime as a duration.
func (c JWTConfig) TokenTTL() time.Duration {
	return time.Duration(c.ExpirationMinutes) * time.Minute
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=employee_management"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD, default="`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type LoginConfig struct {
	MaxAttempts   int `env:"LOGIN_MAX_ATTEMPTS,          default=10"`
	WindowSeconds int `env:"LOGIN_ATTEMPT_WINDOW_SECONDS, default=60"`
}

// Window returns the rate limiting window as a duration.
func (c LoginConfig) Window() time.Duration {
	return time.Duration(c.WindowSeconds) * time.Second
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
