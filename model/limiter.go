package model

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrCallLimit is returned once a LimitedModel has used up its calls.
var ErrCallLimit = errors.New("model call limit exceeded")

// LimitedModel enforces a maximum number of Generate calls on the wrapped
// model. Calls over the limit fail without reaching the model.
type LimitedModel struct {
	Model

	max   int
	count int
	mu    sync.Mutex
}

// WithCallLimit wraps m so that at most max calls reach it. A max of zero
// allows unlimited calls.
func WithCallLimit(m Model, max int) *LimitedModel {
	return &LimitedModel{Model: m, max: max}
}

// Generate implements Model.
func (l *LimitedModel) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	if err := l.increment(); err != nil {
		respCh := make(chan Response)
		errCh := make(chan error, 1)
		errCh <- err
		close(respCh)
		close(errCh)
		return respCh, errCh
	}
	return l.Model.Generate(ctx, req)
}

func (l *LimitedModel) increment() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.max > 0 && l.count >= l.max {
		return fmt.Errorf("%w: %d", ErrCallLimit, l.max)
	}
	l.count++
	return nil
}

// Count returns the number of calls that reached the wrapped model.
func (l *LimitedModel) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.count
}

// Remaining returns the calls left, or -1 when unlimited.
func (l *LimitedModel) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.max == 0 {
		return -1
	}
	return l.max - l.count
}
