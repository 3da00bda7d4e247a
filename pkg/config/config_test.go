package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENVIRONMENT", "OPENAI_API_KEY", "OPENAI_BASE_URL", "OPENAI_MODEL",
		"ANTHROPIC_API_KEY", "ANTHROPIC_MODEL", "EMBEDDING_MODEL",
		"PGHOST", "PGPORT", "PGUSER", "PGPASSWORD", "PGDATABASE", "PGSSLMODE",
		"REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadFrom_MissingFileUsesEnvDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))

	require.NoError(t, err)
	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestLoadFrom_YAMLWithEnvOverride(t *testing.T) {
	clearConfigEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
env: production
openai:
  model: gpt-4-turbo
database:
  host: db.internal
  database: ragstore
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	t.Setenv("OPENAI_MODEL", "gpt-4o-mini")

	cfg, err := LoadFrom(path)

	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model, "environment must override YAML")
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "ragstore", cfg.Database.Database)
}

func TestLoadFrom_SecretsComeFromEnvOnly(t *testing.T) {
	clearConfigEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("openai:\n  model: gpt-4o\n"), 0o600))

	t.Setenv("OPENAI_API_KEY", "sk-from-env")

	cfg, err := LoadFrom(path)

	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", cfg.OpenAI.APIKey)
}

func TestDatabaseConfig_URL(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5433,
		User:     "rag",
		Password: "p@ss word",
		Database: "hoorag",
		SSLMode:  "disable",
	}

	u := cfg.URL()

	assert.Contains(t, u, "postgres://")
	assert.Contains(t, u, "localhost:5433")
	assert.Contains(t, u, "/hoorag")
	assert.Contains(t, u, "sslmode=disable")
	assert.NotContains(t, u, "p@ss word", "password must be URL-escaped")
}
