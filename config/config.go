/*
Package config loads server configuration.

PRECEDENCE (highest first):
  1. Environment variables, PAYROLL_ prefix, dots as underscores
     (PAYROLL_SERVER_PORT, PAYROLL_DB_DRIVER, PAYROLL_REDIS_ADDR, ...)
  2. .env file in the working directory (loaded into the environment)
  3. YAML config file (-config flag, or ./config.yaml / ./config/config.yaml)
  4. Defaults below

An empty redis.addr selects the in-memory summary cache. An empty
payroll.award_file selects the built-in SCHADS award.
*/
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	DB      DBConfig      `mapstructure:"db"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Log     LogConfig     `mapstructure:"log"`
	Payroll PayrollConfig `mapstructure:"payroll"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DBConfig selects the employee/shift backend.
type DBConfig struct {
	Driver     string `mapstructure:"driver"` // sqlite | postgres
	SQLitePath string `mapstructure:"sqlite_path"`
	URL        string `mapstructure:"url"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json | console
}

type PayrollConfig struct {
	AwardFile string `mapstructure:"award_file"`
	Timezone  string `mapstructure:"timezone"`
	Workers   int    `mapstructure:"workers"`
}

// Location resolves Timezone; empty means nil (use shift offsets as given).
func (p PayrollConfig) Location() (*time.Location, error) {
	if p.Timezone == "" {
		return nil, nil
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return nil, fmt.Errorf("payroll.timezone: %w", err)
	}
	return loc, nil
}

// Load reads configuration from path (optional), .env and the environment.
func Load(path string) (*Config, error) {
	// a missing .env is normal
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"http://localhost:5173", "http://localhost:8080"})
	v.SetDefault("server.shutdown_timeout", "30s")

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.sqlite_path", "payroll.db")
	v.SetDefault("db.url", "")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "5m")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("payroll.award_file", "")
	v.SetDefault("payroll.timezone", "")
	v.SetDefault("payroll.workers", 4)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("PAYROLL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid config: server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	switch c.DB.Driver {
	case "sqlite":
		if c.DB.SQLitePath == "" {
			return errors.New("invalid config: db.sqlite_path is required for the sqlite driver")
		}
	case "postgres":
		if c.DB.URL == "" {
			return errors.New("invalid config: db.url is required for the postgres driver")
		}
	default:
		return fmt.Errorf("invalid config: db.driver must be sqlite or postgres, got %q", c.DB.Driver)
	}
	if c.Payroll.Workers < 1 {
		return fmt.Errorf("invalid config: payroll.workers must be at least 1, got %d", c.Payroll.Workers)
	}
	if c.Redis.TTL < 0 {
		return errors.New("invalid config: redis.ttl must not be negative")
	}
	if _, err := c.Payroll.Location(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
