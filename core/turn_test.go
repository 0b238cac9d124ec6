package core

import (
	"errors"
	"testing"
)

func TestNewTurn_AssignsIDAndTimestamp(t *testing.T) {
	a, err := NewTurn(RoleUser, "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := NewTurn(RoleUser, "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ID == "" || a.CreatedAt.IsZero() {
		t.Fatalf("NewTurn did not initialize fields: %+v", a)
	}
	if a.ID == b.ID {
		t.Fatal("turn ids must be unique")
	}
	if !(a.ID < b.ID) {
		t.Fatalf("turn ids must increase in creation order: %s >= %s", a.ID, b.ID)
	}
}

func TestNewTurn_Validation(t *testing.T) {
	cases := []struct {
		name string
		role Role
		text string
		opts []TurnOption
	}{
		{"unknown role", Role("tool"), "x", nil},
		{"empty user", RoleUser, "  ", nil},
		{"empty assistant", RoleAssistant, "", nil},
		{"sources on user", RoleUser, "q", []TurnOption{WithSources("a.pdf")}},
		{"trace on system", RoleSystem, "note", []TurnOption{WithTrace([]TraceStep{{Agent: AgentIngestion, Status: StatusCompleted}})}},
		{"trace out of order", RoleAssistant, "a", []TurnOption{WithTrace([]TraceStep{
			{Agent: AgentRetrieval, Status: StatusCompleted},
			{Agent: AgentIngestion, Status: StatusCompleted},
		})}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTurn(tc.role, tc.text, tc.opts...)
			if !errors.Is(err, ErrInvalidTurn) {
				t.Fatalf("expected ErrInvalidTurn, got %v", err)
			}
		})
	}

	if _, err := NewTurn(RoleSystem, ""); err != nil {
		t.Fatalf("system turns may be empty: %v", err)
	}
}

func TestTurn_CloneIsDeep(t *testing.T) {
	turn, err := NewTurn(RoleAssistant, "answer",
		WithSources("a.pdf", "b.md"),
		WithTrace([]TraceStep{{Agent: AgentIngestion, Status: StatusCompleted}}),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cp := turn.Clone()
	cp.Sources[0] = "changed"
	cp.Trace[0].Status = StatusError
	if turn.Sources[0] != "a.pdf" || turn.Trace[0].Status != StatusCompleted {
		t.Fatalf("clone shares memory with original: %+v", turn)
	}
}

func TestTurn_HasSources(t *testing.T) {
	withNone, _ := NewTurn(RoleAssistant, "a", WithSources())
	if withNone.HasSources() || withNone.Sources != nil {
		t.Fatal("empty sources should be treated as absent")
	}
	withOne, _ := NewTurn(RoleAssistant, "a", WithSources("x.txt"))
	if !withOne.HasSources() {
		t.Fatal("expected sources")
	}
}
