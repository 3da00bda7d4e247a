// Package config loads hoorag configuration from YAML with environment
// variable overrides. Secrets (API keys, passwords) come only from the
// environment.
package config

import (
	"fmt"
	"net/url"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultPath is the configuration file consulted by Load.
const DefaultPath = "config.yaml"

// Config holds all configuration for hoorag-based applications.
// Environment variables always override YAML values for fields that support
// both.
type Config struct {
	// Env selects logger behavior; "local" gets development output.
	Env string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`

	// Generation provider endpoints
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Anthropic AnthropicConfig `yaml:"anthropic"`

	// Embedding model used by the built-in retrievers
	Embedding EmbeddingConfig `yaml:"embedding"`

	// Optional retriever backends
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
}

// OpenAIConfig holds OpenAI provider configuration.
type OpenAIConfig struct {
	// APIKey is a secret and is never read from YAML.
	APIKey  string `yaml:"-" env:"OPENAI_API_KEY"`
	BaseURL string `yaml:"base_url" env:"OPENAI_BASE_URL" env-default:""`
	Model   string `yaml:"model" env:"OPENAI_MODEL" env-default:"gpt-4o"`
}

// AnthropicConfig holds Anthropic provider configuration.
type AnthropicConfig struct {
	// APIKey is a secret and is never read from YAML.
	APIKey string `yaml:"-" env:"ANTHROPIC_API_KEY"`
	Model  string `yaml:"model" env:"ANTHROPIC_MODEL" env-default:"claude-sonnet-4-5-20250929"`
}

// EmbeddingConfig holds embedding model configuration for retrievers.
type EmbeddingConfig struct {
	Model string `yaml:"model" env:"EMBEDDING_MODEL" env-default:"text-embedding-3-small"`
}

// DatabaseConfig holds PostgreSQL configuration for the pgvector retriever.
type DatabaseConfig struct {
	Host     string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User     string `yaml:"user" env:"PGUSER" env-default:"postgres"`
	Password string `yaml:"-" env:"PGPASSWORD" env-default:""`
	Database string `yaml:"database" env:"PGDATABASE" env-default:"hoorag"`
	SSLMode  string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// URL builds a connection string from the database configuration.
func (c *DatabaseConfig) URL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   c.Database,
	}
	q := u.Query()
	q.Set("sslmode", c.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// RedisConfig holds Redis configuration for the caching retriever.
type RedisConfig struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:""`
	Port     int    `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"-" env:"REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// Load reads configuration from config.yaml in the working directory, with
// environment overrides. A missing file is not an error; the environment
// alone is used.
func Load() (*Config, error) {
	return LoadFrom(DefaultPath)
}

// LoadFrom reads configuration from the given YAML path, with environment
// overrides. A missing file falls back to environment-only loading.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
		return cfg, nil
	}

	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return cfg, nil
}
