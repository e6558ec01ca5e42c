package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/billbook/billbook/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `mapstructure:"deployment" validate:"required"`
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Logging    LoggingConfig    `mapstructure:"logging" validate:"required"`
	Postgres   PostgresConfig   `mapstructure:"postgres" validate:"required"`
	Auth       AuthConfig       `mapstructure:"auth" validate:"required"`
	Invoice    InvoiceConfig    `mapstructure:"invoice" validate:"required"`
	Cache      CacheConfig      `mapstructure:"cache"`
}

type DeploymentConfig struct {
	Mode types.RunMode `mapstructure:"mode" validate:"required"`
}

type ServerConfig struct {
	Address string `mapstructure:"address" validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `mapstructure:"level" validate:"required"`
}

type PostgresConfig struct {
	Host                   string `mapstructure:"host" validate:"required"`
	Port                   int    `mapstructure:"port" validate:"required"`
	User                   string `mapstructure:"user" validate:"required"`
	Password               string `mapstructure:"password"`
	DBName                 string `mapstructure:"dbname" validate:"required"`
	SSLMode                string `mapstructure:"sslmode"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes"`
	// ConnectRetries bounds the startup ping retries before giving up
	ConnectRetries uint64 `mapstructure:"connect_retries"`
}

type AuthConfig struct {
	Secret   string        `mapstructure:"secret" validate:"required"`
	TokenTTL time.Duration `mapstructure:"token_ttl" validate:"required"`
	// LoginRatePerMinute throttles login attempts per client IP
	LoginRatePerMinute int `mapstructure:"login_rate_per_minute" validate:"gte=1"`
	LoginBurst         int `mapstructure:"login_burst" validate:"gte=1"`
}

type InvoiceConfig struct {
	// DefaultPrefix is used when the counter row carries an empty prefix
	DefaultPrefix     string `mapstructure:"default_prefix" validate:"required"`
	NumberPadding     int    `mapstructure:"number_padding" validate:"gte=1,lte=18"`
	ClientSearchLimit int    `mapstructure:"client_search_limit" validate:"gte=1"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

func NewConfig() (*Configuration, error) {
	// a missing .env is fine, the environment may already be populated
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/billbook")

	v.SetEnvPrefix("BILLBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Error reading config file: %v\n", err)
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	defaults := GetDefaultConfig()
	v.SetDefault("deployment.mode", defaults.Deployment.Mode)
	v.SetDefault("server.address", defaults.Server.Address)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("postgres.host", defaults.Postgres.Host)
	v.SetDefault("postgres.port", defaults.Postgres.Port)
	v.SetDefault("postgres.user", defaults.Postgres.User)
	v.SetDefault("postgres.password", defaults.Postgres.Password)
	v.SetDefault("postgres.dbname", defaults.Postgres.DBName)
	v.SetDefault("postgres.sslmode", defaults.Postgres.SSLMode)
	v.SetDefault("postgres.max_open_conns", defaults.Postgres.MaxOpenConns)
	v.SetDefault("postgres.max_idle_conns", defaults.Postgres.MaxIdleConns)
	v.SetDefault("postgres.conn_max_lifetime_minutes", defaults.Postgres.ConnMaxLifetimeMinutes)
	v.SetDefault("postgres.connect_retries", defaults.Postgres.ConnectRetries)
	v.SetDefault("auth.token_ttl", defaults.Auth.TokenTTL)
	v.SetDefault("auth.login_rate_per_minute", defaults.Auth.LoginRatePerMinute)
	v.SetDefault("auth.login_burst", defaults.Auth.LoginBurst)
	v.SetDefault("invoice.default_prefix", defaults.Invoice.DefaultPrefix)
	v.SetDefault("invoice.number_padding", defaults.Invoice.NumberPadding)
	v.SetDefault("invoice.client_search_limit", defaults.Invoice.ClientSearchLimit)
	v.SetDefault("cache.enabled", defaults.Cache.Enabled)
	v.SetDefault("cache.ttl", defaults.Cache.TTL)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development
// This is useful for running scripts or tests
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Postgres: PostgresConfig{
			Host:                   "localhost",
			Port:                   5432,
			User:                   "billbook",
			Password:               "billbook",
			DBName:                 "billbook",
			SSLMode:                "disable",
			MaxOpenConns:           10,
			MaxIdleConns:           5,
			ConnMaxLifetimeMinutes: 30,
			ConnectRetries:         5,
		},
		Auth: AuthConfig{
			TokenTTL:           time.Hour,
			LoginRatePerMinute: 10,
			LoginBurst:         5,
		},
		Invoice: InvoiceConfig{
			DefaultPrefix:     "INV",
			NumberPadding:     5,
			ClientSearchLimit: 10,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     10 * time.Minute,
		},
	}
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}
