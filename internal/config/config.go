package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Environments recognised by APP_ENV.
const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

// Config holds application level configuration loaded from environment variables
// and, when CONFIG_PATH is set, a YAML file.
type Config struct {
	Env         string `yaml:"env" env:"APP_ENV" env-default:"production"`
	ServerPort  string `yaml:"server_port" env:"SERVER_PORT" env-default:"8080"`
	AppURL      string `yaml:"app_url" env:"APP_URL" env-default:"http://localhost:8080"`
	SwaggerHost string `yaml:"swagger_host" env:"SWAGGER_HOST"`
	LogFormat   string `yaml:"log_format" env:"LOG_FORMAT" env-default:"json"`
	ResetDB     bool   `yaml:"reset_db" env:"RESET_DB" env-default:"false"`

	DB      Database `yaml:"db"`
	Redis   Redis    `yaml:"redis"`
	Auth    Auth     `yaml:"auth"`
	Session Session  `yaml:"session"`
	SMTP    SMTP     `yaml:"smtp"`
}

// Database selects the GORM dialect and connection string.
type Database struct {
	Driver string `yaml:"driver" env:"DB_DRIVER" env-default:"mysql"`
	DSN    string `yaml:"dsn" env:"DB_DSN" env-default:"user:password@tcp(localhost:3306)/vibeboxing?charset=utf8mb4&parseTime=True&loc=Local"`
}

// Redis is optional; an empty address disables caching and the redis session backend.
type Redis struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// Auth configures token signing.
type Auth struct {
	JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET" env-default:"change-me"`
}

// Session configures the cookie-backed session fallback.
type Session struct {
	Backend    string        `yaml:"backend" env:"SESSION_BACKEND" env-default:"memory"`
	CookieName string        `yaml:"cookie_name" env:"SESSION_COOKIE" env-default:"vibeboxing.sid"`
	TTL        time.Duration `yaml:"ttl" env:"SESSION_TTL" env-default:"720h"`
}

// SMTP configures outbound password reset mail. An empty host disables delivery.
type SMTP struct {
	Host     string `yaml:"host" env:"SMTP_HOST"`
	Port     int    `yaml:"port" env:"SMTP_PORT" env-default:"465"`
	User     string `yaml:"user" env:"SMTP_USER"`
	Password string `yaml:"password" env:"SMTP_PASS"`
	From     string `yaml:"from" env:"SMTP_FROM" env-default:"VibeBoxing <no-reply@vibeboxing.local>"`
}

// IsProduction reports whether production-only safeguards apply.
func (c *Config) IsProduction() bool {
	return c.Env != EnvDevelopment
}

// Load builds Config from CONFIG_PATH (if set) and the environment.
func Load() (*Config, error) {
	var cfg Config

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	switch c.Session.Backend {
	case "memory":
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("SESSION_BACKEND=redis requires REDIS_ADDR")
		}
	default:
		return fmt.Errorf("unsupported SESSION_BACKEND %q", c.Session.Backend)
	}
	if c.IsProduction() && c.Auth.JWTSecret == "change-me" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	return nil
}
