package pipeline

import (
	"context"
	"sync"

	"github.com/hupe1980/ragmesh/core"
	"github.com/hupe1980/ragmesh/logging"
)

// CallbackType defines the lifecycle points of a stage where callbacks run.
type CallbackType string

const (
	// CallbackBeforeStage is triggered after a step is marked running and
	// before the collaborator is called. An error fails the stage.
	CallbackBeforeStage CallbackType = "before_stage"

	// CallbackAfterStage is triggered after a stage completed. Errors are
	// logged; the completed step is not changed.
	CallbackAfterStage CallbackType = "after_stage"

	// CallbackOnError is triggered when a stage fails.
	CallbackOnError CallbackType = "on_error"
)

// StageContext describes the stage a callback is invoked for.
type StageContext struct {
	RunID        string
	Query        string
	Agent        core.AgentID
	Step         core.TraceStep
	Err          error
	CallbackType CallbackType
}

// Callback defines the interface for stage lifecycle hooks. Callbacks run
// synchronously on the pipeline goroutine and should return quickly.
type Callback interface {
	Type() CallbackType
	Execute(ctx context.Context, sc *StageContext) error
}

// FunctionCallback wraps a function as a callback implementation.
//
// Example:
//
//	cb := NewFunctionCallback(CallbackBeforeStage, func(ctx context.Context, sc *StageContext) error {
//	    log.Printf("starting %s", sc.Agent)
//	    return nil
//	})
type FunctionCallback struct {
	callbackType CallbackType
	fn           func(ctx context.Context, sc *StageContext) error
}

// NewFunctionCallback creates a new function-based callback.
func NewFunctionCallback(callbackType CallbackType, fn func(ctx context.Context, sc *StageContext) error) *FunctionCallback {
	return &FunctionCallback{callbackType: callbackType, fn: fn}
}

// Type returns the callback type this function handles.
func (c *FunctionCallback) Type() CallbackType { return c.callbackType }

// Execute calls the wrapped function.
func (c *FunctionCallback) Execute(ctx context.Context, sc *StageContext) error {
	return c.fn(ctx, sc)
}

// CallbackManager holds callbacks per type and runs them in registration
// order. The first error stops the remaining callbacks of that type. It is
// safe for concurrent registration and execution.
type CallbackManager struct {
	mu        sync.RWMutex
	callbacks map[CallbackType][]Callback
}

// NewCallbackManager creates an empty callback manager.
func NewCallbackManager() *CallbackManager {
	return &CallbackManager{callbacks: make(map[CallbackType][]Callback)}
}

// RegisterCallback adds a callback for its type.
func (cm *CallbackManager) RegisterCallback(callback Callback) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	t := callback.Type()
	cm.callbacks[t] = append(cm.callbacks[t], callback)
}

// ExecuteCallbacks runs all callbacks registered for callbackType. A nil
// manager runs nothing.
func (cm *CallbackManager) ExecuteCallbacks(ctx context.Context, callbackType CallbackType, sc *StageContext) error {
	if cm == nil {
		return nil
	}
	cm.mu.RLock()
	callbacks := append([]Callback(nil), cm.callbacks[callbackType]...)
	cm.mu.RUnlock()

	sc.CallbackType = callbackType
	for _, cb := range callbacks {
		if err := cb.Execute(ctx, sc); err != nil {
			return err
		}
	}
	return nil
}

// LoggingCallback writes one debug record per stage event.
type LoggingCallback struct {
	callbackType CallbackType
	logger       logging.Logger
}

// NewLoggingCallback creates a logging callback for callbackType.
func NewLoggingCallback(callbackType CallbackType, logger logging.Logger) *LoggingCallback {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &LoggingCallback{callbackType: callbackType, logger: logger}
}

// Type returns the callback type this logger handles.
func (c *LoggingCallback) Type() CallbackType { return c.callbackType }

// Execute logs the stage event.
func (c *LoggingCallback) Execute(_ context.Context, sc *StageContext) error {
	args := []any{"callback", string(sc.CallbackType), "run_id", sc.RunID, "agent", string(sc.Agent), "status", string(sc.Step.Status)}
	if sc.Err != nil {
		args = append(args, "error", sc.Err.Error())
	}
	c.logger.Debug("stage callback", args...)
	return nil
}
