// Package clisession builds a ragmesh.Session from CLI configuration and
// renders conversation turns for terminal output.
package clisession

import (
	"fmt"
	"io"
	"strings"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/hupe1980/ragmesh"
	"github.com/hupe1980/ragmesh/config"
	"github.com/hupe1980/ragmesh/core"
	"github.com/hupe1980/ragmesh/intake"
	"github.com/hupe1980/ragmesh/logging"
	"github.com/hupe1980/ragmesh/model"
	"github.com/hupe1980/ragmesh/model/anthropic"
	"github.com/hupe1980/ragmesh/model/openai"
)

// NewModel returns the response model selected by cfg.Provider.
func NewModel(cfg config.Config) (model.Model, error) {
	switch cfg.Provider {
	case config.ProviderMock:
		return model.NewMockModel("mock", "mock"), nil
	case config.ProviderOpenAI:
		return openai.NewModel(func(o *openai.Options) {
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
			o.Temperature = cfg.Temperature
			o.MaxCompletionTokens = int64(cfg.MaxTokens)
			o.APIKey = cfg.OpenAIAPIKey
		}), nil
	case config.ProviderAnthropic:
		return anthropic.NewModel(func(o *anthropic.Options) {
			if cfg.Model != "" {
				o.Model = anthropicsdk.Model(cfg.Model)
			}
			o.Temperature = cfg.Temperature
			o.MaxTokens = int64(cfg.MaxTokens)
			o.APIKey = cfg.AnthropicAPIKey
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// New builds a session wired to the configured model, tuning and logger.
func New(cfg config.Config, logger logging.Logger) (*ragmesh.Session, error) {
	m, err := NewModel(cfg)
	if err != nil {
		return nil, err
	}
	return ragmesh.New(func(o *ragmesh.Options) {
		o.Model = m
		o.TopK = cfg.TopK
		o.ChunkSize = cfg.ChunkSize
		o.ChunkOverlap = cfg.ChunkOverlap
		o.IngestConcurrency = cfg.IngestConcurrency
		o.MaxFiles = cfg.MaxFiles
		o.Stream = cfg.Stream
		o.MaxModelCalls = cfg.MaxModelCalls
		o.Logger = logger
	})
}

// PrintTurn writes a turn, its sources and trace in a compact text form.
func PrintTurn(w io.Writer, turn core.Turn) {
	fmt.Fprintf(w, "[%s] %s\n", turn.Role, turn.Content)
	if turn.HasSources() {
		fmt.Fprintf(w, "  sources: %s\n", strings.Join(turn.Sources, ", "))
	}
	for _, s := range turn.Trace {
		line := fmt.Sprintf("  %-9s %-9s %s", s.Agent, s.Status, s.Action)
		if s.Details != "" {
			line += " (" + s.Details + ")"
		}
		fmt.Fprintln(w, line)
	}
}

// PrintRejections reports files the intake refused.
func PrintRejections(w io.Writer, res intake.Result) {
	for _, r := range res.Rejected {
		fmt.Fprintf(w, "skipped %s: %v\n", r.File.Name, r.Err)
	}
}
