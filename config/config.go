// Package config loads and validates the ragmesh CLI configuration from
// environment variables. A .env file in the working directory is loaded
// first when present; variables already set in the environment win.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/hupe1980/ragmesh/logging"
)

// Provider names accepted in RAGMESH_PROVIDER.
const (
	ProviderMock      = "mock"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config holds all application configuration.
type Config struct {
	// Model settings.
	Provider    string // "mock", "openai" or "anthropic"
	Model       string // provider model name; empty selects the adapter default
	Temperature float64
	MaxTokens   int
	Stream      bool
	// MaxModelCalls caps model calls per session; 0 means unlimited.
	MaxModelCalls int

	// Provider credentials.
	OpenAIAPIKey    string
	AnthropicAPIKey string

	// Pipeline settings.
	TopK              int
	ChunkSize         int
	ChunkOverlap      int
	IngestConcurrency int
	MaxFiles          int

	// Operational settings.
	LogLevel  string
	LogFormat string // "json" or "text"
}

// Load reads configuration from the given .env files (".env" when none are
// given) and the environment, then validates it. Missing .env files are
// ignored.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	var errs []error
	num := func(key string, def int) int {
		v, err := envInt(key, def)
		errs = append(errs, err)
		return v
	}

	temperature, err := envFloat("RAGMESH_TEMPERATURE", 0.2)
	errs = append(errs, err)
	stream, err := envBool("RAGMESH_STREAM", false)
	errs = append(errs, err)

	cfg := Config{
		Provider:          strings.ToLower(envStr("RAGMESH_PROVIDER", ProviderMock)),
		Model:             envStr("RAGMESH_MODEL", ""),
		Temperature:       temperature,
		MaxTokens:         num("RAGMESH_MAX_TOKENS", 1024),
		Stream:            stream,
		MaxModelCalls:     num("RAGMESH_MAX_MODEL_CALLS", 0),
		OpenAIAPIKey:      envStr("OPENAI_API_KEY", ""),
		AnthropicAPIKey:   envStr("ANTHROPIC_API_KEY", ""),
		TopK:              num("RAGMESH_TOP_K", 3),
		ChunkSize:         num("RAGMESH_CHUNK_SIZE", 800),
		ChunkOverlap:      num("RAGMESH_CHUNK_OVERLAP", 100),
		IngestConcurrency: num("RAGMESH_INGEST_CONCURRENCY", 4),
		MaxFiles:          num("RAGMESH_MAX_FILES", 10),
		LogLevel:          strings.ToLower(envStr("RAGMESH_LOG_LEVEL", "info")),
		LogFormat:         strings.ToLower(envStr("RAGMESH_LOG_FORMAT", "text")),
	}
	if err := errors.Join(errs...); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration is consistent.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderMock:
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("config: OPENAI_API_KEY is required for provider %q", c.Provider)
		}
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("config: ANTHROPIC_API_KEY is required for provider %q", c.Provider)
		}
	default:
		return fmt.Errorf("config: RAGMESH_PROVIDER %q is not one of mock, openai, anthropic", c.Provider)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("config: RAGMESH_TEMPERATURE must be between 0 and 2")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("config: RAGMESH_MAX_TOKENS must be positive")
	}
	if c.MaxModelCalls < 0 {
		return fmt.Errorf("config: RAGMESH_MAX_MODEL_CALLS must not be negative")
	}
	if c.TopK <= 0 {
		return fmt.Errorf("config: RAGMESH_TOP_K must be positive")
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("config: RAGMESH_CHUNK_SIZE must be positive")
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("config: RAGMESH_CHUNK_OVERLAP must be in [0, RAGMESH_CHUNK_SIZE)")
	}
	if c.IngestConcurrency <= 0 {
		return fmt.Errorf("config: RAGMESH_INGEST_CONCURRENCY must be positive")
	}
	if c.MaxFiles < 0 {
		return fmt.Errorf("config: RAGMESH_MAX_FILES must not be negative")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: RAGMESH_LOG_LEVEL: %w", err)
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("config: RAGMESH_LOG_FORMAT must be json or text")
	}
	return nil
}

// Logger builds the structured logger described by the configuration.
func (c Config) Logger() *logging.StructuredLogger {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		level = logging.LogLevelInfo
	}
	return logging.NewSlogLogger(level, c.LogFormat, false).WithComponent("ragmesh")
}

func envStr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a valid integer", key, v)
	}
	return n, nil
}

func envFloat(key string, defaultVal float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a valid number", key, v)
	}
	return f, nil
}

func envBool(key string, defaultVal bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s=%q is not a valid boolean", key, v)
	}
	return b, nil
}
