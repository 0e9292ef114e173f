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

	JWT       JWTConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	SMTP      SMTPConfig
	RateLimit RateLimitConfig
}

type JWTConfig struct {
	Secret string `env:"JWT_SECRET"`
	// TokenTTL bounds session token validity; enforced by the verifier.
	TokenTTL time.Duration `env:"JWT_EXPIRE, default=720h"`
	// CookieTTL bounds the session cookie lifetime.
	CookieTTL time.Duration `env:"JWT_COOKIE_EXPIRE, default=720h"`
	// ResetTTL bounds password reset token validity.
	ResetTTL time.Duration `env:"RESET_TOKEN_EXPIRE, default=10m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=bootcamp_directory"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST, default=localhost"`
	Port     int    `env:"SMTP_PORT, default=587"`
	Username string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM, default=noreply@bootcampdirectory.dev"`
}

type RateLimitConfig struct {
	// Max attempts per window on the credential endpoints, keyed by client IP.
	Max    int           `env:"RATE_LIMIT_MAX,    default=10"`
	Window time.Duration `env:"RATE_LIMIT_WINDOW, default=1m"`
}

// Production reports whether the service runs in a production-like
// deployment; it controls the Secure attribute on the session cookie.
func (c *Config) Production() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
