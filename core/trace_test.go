package core

import (
	"errors"
	"testing"
)

func TestStepStatus_CanTransition(t *testing.T) {
	allowed := map[[2]StepStatus]bool{
		{StatusPending, StatusRunning}:   true,
		{StatusPending, StatusCompleted}: true,
		{StatusPending, StatusError}:     true,
		{StatusRunning, StatusCompleted}: true,
		{StatusRunning, StatusError}:     true,
	}
	all := []StepStatus{StatusPending, StatusRunning, StatusCompleted, StatusError}
	for _, from := range all {
		for _, to := range all {
			if got := from.CanTransition(to); got != allowed[[2]StepStatus{from, to}] {
				t.Errorf("%s -> %s: got %v", from, to, got)
			}
		}
	}
}

func TestValidateTrace(t *testing.T) {
	ok := []TraceStep{
		{Agent: AgentIngestion, Status: StatusCompleted},
		{Agent: AgentRetrieval, Status: StatusError},
	}
	if err := ValidateTrace(ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dup := []TraceStep{
		{Agent: AgentIngestion, Status: StatusCompleted},
		{Agent: AgentIngestion, Status: StatusCompleted},
	}
	if err := ValidateTrace(dup); err == nil {
		t.Fatal("expected error for repeated agent")
	}
	if err := ValidateTrace([]TraceStep{{Agent: "other", Status: StatusPending}}); err == nil {
		t.Fatal("expected error for unknown agent")
	}
}

func TestStageError(t *testing.T) {
	cause := errors.New("index offline")
	var err error = &StageError{Agent: AgentRetrieval, Cause: cause}
	if !errors.Is(err, ErrStageFailed) {
		t.Error("StageError should match ErrStageFailed")
	}
	if !errors.Is(err, cause) {
		t.Error("StageError should unwrap to its cause")
	}
	var se *StageError
	if !errors.As(err, &se) || se.Agent != AgentRetrieval {
		t.Fatalf("errors.As failed: %v", err)
	}
	if err.Error() != "retrieval stage failed: index offline" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestRetrieval_Sources(t *testing.T) {
	r := Retrieval{Chunks: []Chunk{
		{SourceID: "b.md"}, {SourceID: "a.pdf"}, {SourceID: "b.md"}, {SourceID: ""},
	}}
	got := r.Sources()
	if len(got) != 2 || got[0] != "b.md" || got[1] != "a.pdf" {
		t.Fatalf("unexpected sources %v", got)
	}
	if (Retrieval{}).Sources() != nil {
		t.Fatal("expected nil sources for empty retrieval")
	}
}

func TestExtensionOf(t *testing.T) {
	cases := map[string]Extension{
		"policy.PDF":     ExtPDF,
		"notes.md":       ExtMD,
		"archive.tar.gz": Extension("gz"),
		"README":         Extension(""),
	}
	for name, want := range cases {
		if got := ExtensionOf(name); got != want {
			t.Errorf("%s: got %q want %q", name, got, want)
		}
	}
	for _, ext := range SupportedExtensions() {
		if !ext.Supported() {
			t.Errorf("%s should be supported", ext)
		}
	}
	if Extension("exe").Supported() {
		t.Error("exe must not be supported")
	}
}
