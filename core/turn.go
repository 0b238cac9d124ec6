package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a turn. The set is closed.
type Role string

const (
	// RoleUser marks a question submitted by the user.
	RoleUser Role = "user"
	// RoleAssistant marks an answer produced by the pipeline.
	RoleAssistant Role = "assistant"
	// RoleSystem marks a notice such as an upload acknowledgement.
	RoleSystem Role = "system"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	default:
		return false
	}
}

// Turn is one entry of the conversation. A Turn is a value; stores keep and
// return deep copies so that a turn never changes after creation.
//
// Contract:
//   - ID is a UUIDv7, unique and increasing in creation order
//   - Content is non-empty for user and assistant turns
//   - Sources and Trace are only set on assistant turns
type Turn struct {
	ID        string      `json:"id"`
	Role      Role        `json:"role"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
	Sources   []string    `json:"sources,omitempty"`
	Trace     []TraceStep `json:"trace,omitempty"`
}

// TurnOption customizes a turn built by NewTurn.
type TurnOption func(t *Turn)

// WithSources attaches the document identifiers used to answer.
func WithSources(sources ...string) TurnOption {
	return func(t *Turn) {
		if len(sources) == 0 {
			return
		}
		t.Sources = append([]string(nil), sources...)
	}
}

// WithTrace attaches the execution trace of the run that produced the turn.
func WithTrace(trace []TraceStep) TurnOption {
	return func(t *Turn) { t.Trace = cloneTrace(trace) }
}

// NewTurn creates a validated turn with a fresh id and creation timestamp.
func NewTurn(role Role, content string, optFns ...TurnOption) (Turn, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return Turn{}, fmt.Errorf("generate turn id: %w", err)
	}
	t := Turn{
		ID:        id.String(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	for _, fn := range optFns {
		fn(&t)
	}
	if err := t.Validate(); err != nil {
		return Turn{}, err
	}
	return t, nil
}

// Validate checks the turn invariants.
func (t Turn) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidTurn)
	}
	if !t.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidTurn, t.Role)
	}
	if t.Role != RoleSystem && strings.TrimSpace(t.Content) == "" {
		return fmt.Errorf("%w: empty %s content", ErrInvalidTurn, t.Role)
	}
	if t.Role != RoleAssistant && (len(t.Sources) > 0 || len(t.Trace) > 0) {
		return fmt.Errorf("%w: sources and trace are reserved for assistant turns", ErrInvalidTurn)
	}
	if err := ValidateTrace(t.Trace); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTurn, err)
	}
	return nil
}

// HasSources reports whether the turn cites any document. Absent and empty
// sources are equivalent.
func (t Turn) HasSources() bool { return len(t.Sources) > 0 }

// Clone returns a deep copy of the turn.
func (t Turn) Clone() Turn {
	cp := t
	if t.Sources != nil {
		cp.Sources = append([]string(nil), t.Sources...)
	}
	cp.Trace = cloneTrace(t.Trace)
	return cp
}
