package pipeline

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/ragmesh/core"
	"github.com/hupe1980/ragmesh/internal/testutil"
	"github.com/hupe1980/ragmesh/logging"
)

func TestCallbackManager_Order(t *testing.T) {
	cm := NewCallbackManager()
	var calls []string
	cm.RegisterCallback(NewFunctionCallback(CallbackBeforeStage, func(context.Context, *StageContext) error {
		calls = append(calls, "a")
		return nil
	}))
	cm.RegisterCallback(NewFunctionCallback(CallbackBeforeStage, func(context.Context, *StageContext) error {
		calls = append(calls, "b")
		return errors.New("stop")
	}))
	cm.RegisterCallback(NewFunctionCallback(CallbackBeforeStage, func(context.Context, *StageContext) error {
		calls = append(calls, "c")
		return nil
	}))

	sc := &StageContext{Agent: core.AgentIngestion}
	err := cm.ExecuteCallbacks(context.Background(), CallbackBeforeStage, sc)
	assert.EqualError(t, err, "stop")
	assert.Equal(t, []string{"a", "b"}, calls)
	assert.Equal(t, CallbackBeforeStage, sc.CallbackType)

	assert.NoError(t, cm.ExecuteCallbacks(context.Background(), CallbackOnError, sc))

	var nilManager *CallbackManager
	assert.NoError(t, nilManager.ExecuteCallbacks(context.Background(), CallbackAfterStage, sc))
}

func TestController_Callbacks(t *testing.T) {
	f := newFixture("policy.pdf")
	cm := NewCallbackManager()

	var events []string
	record := func(_ context.Context, sc *StageContext) error {
		events = append(events, string(sc.CallbackType)+":"+string(sc.Agent)+":"+string(sc.Step.Status))
		return nil
	}
	cm.RegisterCallback(NewFunctionCallback(CallbackBeforeStage, record))
	cm.RegisterCallback(NewFunctionCallback(CallbackAfterStage, record))
	cm.RegisterCallback(NewFunctionCallback(CallbackOnError, record))

	boom := errors.New("boom")
	c := f.controller(testutil.StaticIngestor(1), testutil.FailingRetriever(boom), testutil.StaticGenerator("x"),
		func(o *Options) { o.Callbacks = cm })

	_, err := c.Submit(context.Background(), "q")
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{
		"before_stage:ingestion:running",
		"after_stage:ingestion:completed",
		"before_stage:retrieval:running",
		"on_error:retrieval:error",
	}, events)
}

func TestController_BeforeStageErrorFailsStage(t *testing.T) {
	f := newFixture()
	cm := NewCallbackManager()
	veto := errors.New("quota exceeded")
	cm.RegisterCallback(NewFunctionCallback(CallbackBeforeStage, func(_ context.Context, sc *StageContext) error {
		if sc.Agent == core.AgentResponse {
			return veto
		}
		return nil
	}))

	generated := false
	gen := core.GeneratorFunc(func(context.Context, string, []core.Chunk) (core.Generation, error) {
		generated = true
		return core.Generation{Text: "x"}, nil
	})
	c := f.controller(testutil.StaticIngestor(0), testutil.StaticRetriever(), gen, func(o *Options) { o.Callbacks = cm })

	run, err := c.Submit(context.Background(), "q")
	assert.ErrorIs(t, err, veto)
	assert.False(t, generated)
	assert.Equal(t, core.StatusError, run.Trace[2].Status)
}

func TestController_StructuredLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(&logging.LoggerConfig{Level: logging.LogLevelDebug, Format: "json", Output: &buf})

	f := newFixture("policy.pdf")
	c := f.controller(testutil.StaticIngestor(1), testutil.StaticRetriever(policyChunk()), testutil.StaticGenerator("ok"),
		func(o *Options) {
			o.Logger = logger
			o.Callbacks = NewCallbackManager()
			o.Callbacks.RegisterCallback(NewLoggingCallback(CallbackAfterStage, logger))
		})

	_, err := c.Submit(context.Background(), "q")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Pipeline run started")
	assert.Contains(t, out, "Stage execution completed")
	assert.Contains(t, out, "Pipeline run completed")
	assert.Contains(t, out, "stage callback")
}
