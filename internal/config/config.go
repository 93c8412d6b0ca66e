package config

import (
	"fmt"
	"os"
	"time"

	"vacancybot/internal/domain"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Storage backends
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	BotToken        string         `yaml:"bot_token" envconfig:"BOT_TOKEN"`
	LogLevel        string         `yaml:"log_level" envconfig:"LOG_LEVEL"`
	Storage         string         `yaml:"storage" envconfig:"STORAGE"`
	DefaultLanguage string         `yaml:"default_language" envconfig:"DEFAULT_LANGUAGE"`
	LongPollTimeout time.Duration  `yaml:"long_poll_timeout" envconfig:"LONG_POLL_TIMEOUT"`
	Database        DatabaseConfig `yaml:"database" ignored:"true"`
}

// DatabaseConfig holds database connection settings, read from DB_* variables
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

// Load reads configuration from an optional YAML file named by CONFIG_PATH,
// then from environment variables, which take precedence.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	cfg := &Config{}
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	// untagged fields so that HOST or USER never stand in for DB_HOST or DB_USER
	if err := envconfig.Process("DB", &cfg.Database); err != nil {
		return nil, fmt.Errorf("read database environment: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	setDefault(&c.LogLevel, "info")
	setDefault(&c.Storage, StoragePostgres)
	setDefault(&c.DefaultLanguage, string(domain.DefaultLanguage))
	setDefault(&c.Database.Host, "localhost")
	setDefault(&c.Database.Port, "5432")
	setDefault(&c.Database.Name, "vacancybot")
	setDefault(&c.Database.User, "vacancybot")
	setDefault(&c.Database.SSLMode, "disable")
	if c.LongPollTimeout <= 0 {
		c.LongPollTimeout = 10 * time.Second
	}
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

// Validate checks required fields and enumerated values
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if _, ok := domain.ParseLanguage(c.DefaultLanguage); !ok {
		return fmt.Errorf("DEFAULT_LANGUAGE %q is not supported", c.DefaultLanguage)
	}

	switch c.Storage {
	case StorageMemory:
	case StoragePostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	default:
		return fmt.Errorf("STORAGE must be %q or %q, got %q", StoragePostgres, StorageMemory, c.Storage)
	}
	return nil
}

// Level returns the configured log level
func (c *Config) Level() zapcore.Level {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
