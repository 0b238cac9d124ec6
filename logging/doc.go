// Package logging provides a minimal logging interface and adapters for ragmesh.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn,
// Error) that the pipeline controller, stores and agents use for observability.
// This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - StructuredLogger with run/component context and stage helpers
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	sess := ragmesh.New(func(o *ragmesh.Options) { o.Logger = logger })
//
// Arguments after the message are slog-style key/value pairs.
package logging
