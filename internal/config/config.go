package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the food court services
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Orders   OrdersConfig   `yaml:"orders"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host           string        `yaml:"host" envconfig:"DATABASE_HOST"`
	Port           int           `yaml:"port" envconfig:"DATABASE_PORT"`
	User           string        `yaml:"user" envconfig:"DATABASE_USER"`
	Password       string        `yaml:"password" envconfig:"DATABASE_PASSWORD"`
	Database       string        `yaml:"database" envconfig:"DATABASE_NAME"`
	MaxConns       int32         `yaml:"max_conns" envconfig:"DATABASE_MAX_CONNS"`
	ConnectRetries int           `yaml:"connect_retries" envconfig:"DATABASE_CONNECT_RETRIES"`
	CommitTimeout  time.Duration `yaml:"commit_timeout" envconfig:"DATABASE_COMMIT_TIMEOUT"`
}

// RabbitMQConfig holds RabbitMQ connection configuration
type RabbitMQConfig struct {
	Host     string `yaml:"host" envconfig:"RABBITMQ_HOST"`
	Port     int    `yaml:"port" envconfig:"RABBITMQ_PORT"`
	User     string `yaml:"user" envconfig:"RABBITMQ_USER"`
	Password string `yaml:"password" envconfig:"RABBITMQ_PASSWORD"`
	VHost    string `yaml:"vhost" envconfig:"RABBITMQ_VHOST"`
}

// OrdersConfig holds order intake and feed settings
type OrdersConfig struct {
	NotificationWindow time.Duration `yaml:"notification_window" envconfig:"ORDERS_NOTIFICATION_WINDOW"`
	Currency           string        `yaml:"currency" envconfig:"ORDERS_CURRENCY"`
}

// Default returns the configuration used when a key is absent from both
// the file and the environment.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:           "localhost",
			Port:           5432,
			User:           "foodcourt",
			Database:       "foodcourt",
			MaxConns:       25,
			ConnectRetries: 5,
			CommitTimeout:  5 * time.Second,
		},
		RabbitMQ: RabbitMQConfig{
			Host:  "localhost",
			Port:  5672,
			User:  "guest",
			VHost: "/",
		},
		Orders: OrdersConfig{
			NotificationWindow: 24 * time.Hour,
			Currency:           "INR",
		},
	}
}

// Load reads configuration from a YAML file and applies environment overrides.
// A missing file is not an error: defaults and environment are used instead.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.CommitTimeout <= 0 {
		return fmt.Errorf("database.commit_timeout must be positive")
	}
	if c.Orders.NotificationWindow <= 0 {
		return fmt.Errorf("orders.notification_window must be positive")
	}
	return nil
}

// DatabaseURL returns a PostgreSQL connection URL
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Database)
}

// MigrationURL returns the same database address in the scheme the pgx/v5
// migrate driver registers.
func (c *Config) MigrationURL() string {
	return fmt.Sprintf("pgx5://%s:%s@%s:%d/%s?sslmode=disable",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Database)
}

// RabbitMQURL returns an AMQP connection URL
func (c *Config) RabbitMQURL() string {
	vhost := c.RabbitMQ.VHost
	if vhost == "/" {
		vhost = ""
	}
	return fmt.Sprintf("amqp://%s:%s@%s:%d/%s",
		c.RabbitMQ.User, c.RabbitMQ.Password, c.RabbitMQ.Host, c.RabbitMQ.Port, vhost)
}
