package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/sethvargo/go-envconfig"
)

const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// CORSAllowedOrigins is a list separated by "," or ";".
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS, default=http://localhost:3000;http://localhost:8000;https://restaurant-allergy-manager.onrender.com"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Auth    AuthConfig
	IDs     IDConfig
	Workers WorkerConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=restaurant_allergy"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type AuthConfig struct {
	SessionBackend   string `env:"SESSION_BACKEND,       default=memory"`
	AdminEmails      string `env:"ADMIN_EMAILS"`
	AllowAdminSignup bool   `env:"ALLOW_ADMIN_SIGNUP,    default=false"`
	VerifyPassword   bool   `env:"VERIFY_LOGIN_PASSWORD, default=true"`
}

type IDConfig struct {
	Length      int `env:"ID_LENGTH,       default=5"`
	MaxAttempts int `env:"ID_MAX_ATTEMPTS, default=5"`
}

type WorkerConfig struct {
	Audit int `env:"AUDIT_WORKERS, default=4"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Auth.SessionBackend {
	case SessionBackendMemory:
	case SessionBackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("SESSION_BACKEND=redis requires REDIS_ADDR")
		}
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q", c.Auth.SessionBackend)
	}
	return nil
}

// IsDevelopment reports whether human-friendly logging should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "dev" || c.Env == "local"
}

// AllowedOrigins splits CORSAllowedOrigins. Both "," and ";" separate entries.
func (c *Config) AllowedOrigins() []string {
	return splitList(c.CORSAllowedOrigins)
}

// AdminEmailList splits ADMIN_EMAILS.
func (c *AuthConfig) AdminEmailList() []string {
	return splitList(c.AdminEmails)
}

func splitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
