package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string       `envconfig:"APP_ENV" default:"development"`
	Server      ServerConfig `envconfig:"SERVER"`
	DB          DBConfig     `envconfig:"POSTGRES"`
	JWT         JWTConfig    `envconfig:"JWT"`
	Log         LogConfig    `envconfig:"LOG"`
	Sentry      SentryConfig `envconfig:"SENTRY"`
	Seed        SeedConfig   `envconfig:"SEED"`
}

type ServerConfig struct {
	Port            string        `default:"8000"`
	ReadTimeout     time.Duration `split_words:"true" default:"15s"`
	WriteTimeout    time.Duration `split_words:"true" default:"15s"`
	IdleTimeout     time.Duration `split_words:"true" default:"60s"`
	ShutdownTimeout time.Duration `split_words:"true" default:"5s"`
}

type DBConfig struct {
	Host            string
	Port            int `default:"5432"`
	User            string
	Password        string
	Name            string        `envconfig:"DB"`
	SSLMode         string        `envconfig:"SSLMODE" default:"disable"`
	MaxOpenConns    int           `split_words:"true" default:"25"`
	MaxIdleConns    int           `split_words:"true" default:"25"`
	ConnMaxLifetime time.Duration `split_words:"true" default:"5m"`
}

// DSN builds the key/value connection string understood by pgx.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// JWTConfig is read from JWT_SECRET_KEY / JWT_ACCESS_TOKEN_EXPIRE_MINUTES,
// falling back to the unprefixed SECRET_KEY / ACCESS_TOKEN_EXPIRE_MINUTES.
type JWTConfig struct {
	SecretKey            string `envconfig:"SECRET_KEY"`
	AccessTokenExpiresIn int    `envconfig:"ACCESS_TOKEN_EXPIRE_MINUTES" default:"30"`
}

// TTL is the lifetime of an access token.
func (c JWTConfig) TTL() time.Duration {
	return time.Duration(c.AccessTokenExpiresIn) * time.Minute
}

type LogConfig struct {
	Level  string `default:"info"`
	Format string `default:"json"`
}

type SentryConfig struct {
	DSN string
}

// SeedConfig describes an optional user created at startup when missing.
type SeedConfig struct {
	Username string
	Password string
	UserID   string `split_words:"true"`
}

func (c SeedConfig) Enabled() bool {
	return c.Username != "" && c.Password != ""
}

// LoadConfig reads the process environment. Call godotenv.Load beforehand to
// pick up a local .env file.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.JWT.SecretKey == "" {
		errs = append(errs, errors.New("SECRET_KEY is required"))
	}
	if c.JWT.AccessTokenExpiresIn <= 0 {
		errs = append(errs, fmt.Errorf("invalid ACCESS_TOKEN_EXPIRE_MINUTES: %d", c.JWT.AccessTokenExpiresIn))
	}
	if c.DB.Host == "" {
		errs = append(errs, errors.New("POSTGRES_HOST is required"))
	}
	if c.DB.User == "" {
		errs = append(errs, errors.New("POSTGRES_USER is required"))
	}
	if c.DB.Name == "" {
		errs = append(errs, errors.New("POSTGRES_DB is required"))
	}
	if (c.Seed.Username == "") != (c.Seed.Password == "") {
		errs = append(errs, errors.New("SEED_USERNAME and SEED_PASSWORD are required together"))
	}

	return errors.Join(errs...)
}
