package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Services  ServicesConfig  `mapstructure:"services"`
	Billing   BillingConfig   `mapstructure:"billing"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Health    HealthConfig    `mapstructure:"health"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"SERVER_PORT"`
	Host         string        `mapstructure:"SERVER_HOST"`
	Env          string        `mapstructure:"ENV"`
	ReadTimeout  time.Duration `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"SERVER_WRITE_TIMEOUT"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"DATABASE_URL"`
	MaxOpenConns    int           `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `mapstructure:"DATABASE_CONN_MAX_LIFETIME"`
}

type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type SchedulerConfig struct {
	BillingHour int    `mapstructure:"SCHEDULER_BILLING_HOUR"`
	Timezone    string `mapstructure:"SCHEDULER_TIMEZONE"`
}

// ServicesConfig points at the remote consumption and payment services.
type ServicesConfig struct {
	ConsumptionURL string        `mapstructure:"CONSUMPTION_SERVICE_URL"`
	PaymentURL     string        `mapstructure:"PAYMENT_SERVICE_URL"`
	Timeout        time.Duration `mapstructure:"SERVICES_TIMEOUT"`
}

type BillingConfig struct {
	PenaltyMonthlyRate string `mapstructure:"PENALTY_MONTHLY_RATE"`
	WorkerCount        int    `mapstructure:"BILLING_WORKER_COUNT"`
	LockTTL            string `mapstructure:"BILLING_LOCK_TTL"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

type HealthConfig struct {
	Timeout string `mapstructure:"HEALTH_CHECK_TIMEOUT"`
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("SERVER_READ_TIMEOUT", "15s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "15s")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DATABASE_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("SCHEDULER_BILLING_HOUR", 23)
	viper.SetDefault("SCHEDULER_TIMEZONE", "America/Lima")
	viper.SetDefault("SERVICES_TIMEOUT", "10s")
	viper.SetDefault("PENALTY_MONTHLY_RATE", "0.15")
	viper.SetDefault("BILLING_WORKER_COUNT", 8)
	viper.SetDefault("BILLING_LOCK_TTL", "2m")
	viper.SetDefault("HEALTH_CHECK_TIMEOUT", "5s")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read from .env file (optional)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./deployments")

	// Don't fail if .env file doesn't exist
	_ = viper.ReadInConfig()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Scheduler.BillingHour < 0 || c.Scheduler.BillingHour > 23 {
		return fmt.Errorf("SCHEDULER_BILLING_HOUR must be between 0 and 23")
	}

	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("SCHEDULER_TIMEZONE must be a valid timezone: %w", err)
	}

	if c.Billing.WorkerCount <= 0 {
		return fmt.Errorf("BILLING_WORKER_COUNT must be greater than 0")
	}

	rate, err := decimal.NewFromString(c.Billing.PenaltyMonthlyRate)
	if err != nil {
		return fmt.Errorf("PENALTY_MONTHLY_RATE must be a valid decimal: %w", err)
	}
	if rate.IsNegative() {
		return fmt.Errorf("PENALTY_MONTHLY_RATE must not be negative")
	}

	if _, err := time.ParseDuration(c.Billing.LockTTL); err != nil {
		return fmt.Errorf("BILLING_LOCK_TTL must be a valid duration: %w", err)
	}

	if _, err := time.ParseDuration(c.Health.Timeout); err != nil {
		return fmt.Errorf("HEALTH_CHECK_TIMEOUT must be a valid duration: %w", err)
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// GetPenaltyMonthlyRate returns the overdue penalty rate as decimal
func (c *Config) GetPenaltyMonthlyRate() decimal.Decimal {
	rate, _ := decimal.NewFromString(c.Billing.PenaltyMonthlyRate)
	return rate
}

// GetBillingLockTTL returns the per-card billing lock TTL as duration
func (c *Config) GetBillingLockTTL() time.Duration {
	ttl, _ := time.ParseDuration(c.Billing.LockTTL)
	return ttl
}

// GetHealthTimeout returns the health check timeout as duration
func (c *Config) GetHealthTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.Health.Timeout)
	return timeout
}

// GetSchedulerLocation returns the scheduler timezone, already validated on load
func (c *Config) GetSchedulerLocation() *time.Location {
	loc, _ := time.LoadLocation(c.Scheduler.Timezone)
	return loc
}
