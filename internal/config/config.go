package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env      string         `mapstructure:"app_env" validate:"required,oneof=development production test"`
	LogLevel string         `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port" validate:"required,min=1,max=65535"`
	ClientOrigin string        `mapstructure:"client_origin" validate:"required"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" validate:"required"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" validate:"required"`
}

type DatabaseConfig struct {
	URL          string `mapstructure:"url"`
	Host         string `mapstructure:"host"`
	Port         string `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Name         string `mapstructure:"name"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"min=1"`
}

// AuthConfig is handed to the token issuer at construction time.
type AuthConfig struct {
	AccessSecret  string        `mapstructure:"access_secret" validate:"required,min=16"`
	RefreshSecret string        `mapstructure:"refresh_secret" validate:"required,min=16"`
	AccessTTL     time.Duration `mapstructure:"access_ttl" validate:"required"`
	RefreshTTL    time.Duration `mapstructure:"refresh_ttl" validate:"required"`
	BcryptCost    int           `mapstructure:"bcrypt_cost" validate:"min=4,max=31"`
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// DSN prefers DATABASE_URL and otherwise assembles one from the POSTGRES_* parts.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + d.Port,
		Path:     d.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// envKeys maps nested config keys to the environment variables that feed them.
var envKeys = map[string]string{
	"app_env":                 "APP_ENV",
	"log_level":               "LOG_LEVEL",
	"server.port":             "PORT",
	"server.client_origin":    "CLIENT_ORIGIN",
	"server.read_timeout":     "SERVER_READ_TIMEOUT",
	"server.write_timeout":    "SERVER_WRITE_TIMEOUT",
	"database.url":            "DATABASE_URL",
	"database.host":           "POSTGRES_HOST",
	"database.port":           "POSTGRES_PORT",
	"database.user":           "POSTGRES_USER",
	"database.password":       "POSTGRES_PASSWORD",
	"database.name":           "POSTGRES_DB",
	"database.max_open_conns": "DB_MAX_OPEN_CONNS",
	"auth.access_secret":      "JWT_SECRET",
	"auth.refresh_secret":     "REFRESH_TOKEN_SECRET",
	"auth.access_ttl":         "ACCESS_TOKEN_TTL",
	"auth.refresh_ttl":        "REFRESH_TOKEN_TTL",
	"auth.bcrypt_cost":        "BCRYPT_COST",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.client_origin", "*")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("auth.access_ttl", 15*time.Minute)
	v.SetDefault("auth.refresh_ttl", 7*24*time.Hour)
	v.SetDefault("auth.bcrypt_cost", 10)
}

func read() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

func (d DatabaseConfig) validate() error {
	if err := validator.New().Struct(d); err != nil {
		return fmt.Errorf("invalid database config: %w", err)
	}
	if d.URL == "" && (d.User == "" || d.Name == "") {
		return fmt.Errorf("invalid database config: DATABASE_URL or POSTGRES_USER and POSTGRES_DB must be set")
	}
	return nil
}

// Load reads an optional .env file, then the environment, and validates the
// result.
func Load() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.Database.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadTooling is Load for command line tools. They talk to the database
// directly and never sign tokens, so the auth secrets are not required.
func LoadTooling() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}
	if err := cfg.Database.validate(); err != nil {
		return nil, err
	}
	if err := validator.New().Var(cfg.Auth.BcryptCost, "min=4,max=31"); err != nil {
		return nil, fmt.Errorf("invalid config: BCRYPT_COST: %w", err)
	}
	return cfg, nil
}
