package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, ProviderMock, cfg.Provider)
	assert.Equal(t, 3, cfg.TopK)
	assert.Equal(t, 800, cfg.ChunkSize)
	assert.Equal(t, 100, cfg.ChunkOverlap)
	assert.Equal(t, 10, cfg.MaxFiles)
	assert.InDelta(t, 0.2, cfg.Temperature, 1e-9)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NotNil(t, cfg.Logger())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("RAGMESH_PROVIDER", "OpenAI")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("RAGMESH_TOP_K", "5")
	t.Setenv("RAGMESH_STREAM", "true")
	t.Setenv("RAGMESH_LOG_FORMAT", "json")

	cfg, err := Load(noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.Equal(t, 5, cfg.TopK)
	assert.True(t, cfg.Stream)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadDotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("RAGMESH_INGEST_CONCURRENCY=7\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("RAGMESH_INGEST_CONCURRENCY") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.IngestConcurrency)
}

func TestLoadInvalidValues(t *testing.T) {
	t.Setenv("RAGMESH_TOP_K", "abc")
	t.Setenv("RAGMESH_STREAM", "maybe")

	_, err := Load(noEnvFile(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `RAGMESH_TOP_K="abc" is not a valid integer`)
	assert.Contains(t, err.Error(), `RAGMESH_STREAM="maybe" is not a valid boolean`)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Provider: ProviderMock, Temperature: 0.2, MaxTokens: 1, TopK: 3,
			ChunkSize: 10, ChunkOverlap: 2, IngestConcurrency: 1, MaxFiles: 10,
			LogLevel: "info", LogFormat: "text",
		}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"unknown provider", func(c *Config) { c.Provider = "ollama" }, "RAGMESH_PROVIDER"},
		{"openai without key", func(c *Config) { c.Provider = ProviderOpenAI }, "OPENAI_API_KEY"},
		{"anthropic without key", func(c *Config) { c.Provider = ProviderAnthropic }, "ANTHROPIC_API_KEY"},
		{"temperature", func(c *Config) { c.Temperature = 3 }, "RAGMESH_TEMPERATURE"},
		{"top k", func(c *Config) { c.TopK = 0 }, "RAGMESH_TOP_K"},
		{"overlap", func(c *Config) { c.ChunkOverlap = 10 }, "RAGMESH_CHUNK_OVERLAP"},
		{"concurrency", func(c *Config) { c.IngestConcurrency = 0 }, "RAGMESH_INGEST_CONCURRENCY"},
		{"max files", func(c *Config) { c.MaxFiles = -1 }, "RAGMESH_MAX_FILES"},
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "RAGMESH_LOG_LEVEL"},
		{"log format", func(c *Config) { c.LogFormat = "xml" }, "RAGMESH_LOG_FORMAT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
