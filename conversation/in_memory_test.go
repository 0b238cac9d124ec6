package conversation

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/ragmesh/core"
	"github.com/hupe1980/ragmesh/internal/testutil"
)

// Interface compliance (compile-time assertion)
var _ core.ConversationLog = (*InMemoryLog)(nil)

func mustTurn(t *testing.T, role core.Role, content string, opts ...core.TurnOption) core.Turn {
	t.Helper()
	turn, err := core.NewTurn(role, content, opts...)
	require.NoError(t, err)
	return turn
}

func TestInMemoryLog_PreservesInsertionOrder(t *testing.T) {
	log := NewInMemoryLog()
	var want []string
	for i := 0; i < 20; i++ {
		role := core.RoleUser
		if i%3 == 0 {
			role = core.RoleSystem
		}
		turn := mustTurn(t, role, fmt.Sprintf("turn-%d", i))
		require.NoError(t, log.Append(turn))
		want = append(want, turn.ID)
	}

	all := log.All()
	require.Len(t, all, len(want))
	assert.Equal(t, len(want), log.Len())
	for i, turn := range all {
		assert.Equal(t, want[i], turn.ID)
	}
	assert.Equal(t, 7, log.CountByRole(core.RoleSystem))
}

func TestInMemoryLog_RejectsInvalidTurn(t *testing.T) {
	log := NewInMemoryLog()
	err := log.Append(core.Turn{ID: "x", Role: core.Role("bot"), Content: "hi"})
	assert.ErrorIs(t, err, core.ErrInvalidTurn)
	assert.Equal(t, 0, log.Len())
}

func TestInMemoryLog_ReturnsCopies(t *testing.T) {
	log := NewInMemoryLog()
	turn := testutil.NewTurnBuilder(core.RoleAssistant, "answer").
		Sources("policy.pdf").
		CompletedTrace().
		Build(t)
	require.NoError(t, log.Append(turn))

	// mutating the caller's value after append must not leak into the log
	turn.Sources[0] = "mutated.pdf"

	all := log.All()
	all[0].Content = "changed"
	all[0].Trace[0].Status = core.StatusError

	last, ok := log.Last()
	require.True(t, ok)
	assert.Equal(t, "answer", last.Content)
	assert.Equal(t, []string{"policy.pdf"}, last.Sources)
	assert.Equal(t, core.StatusCompleted, last.Trace[0].Status)
}

func TestInMemoryLog_LastOnEmpty(t *testing.T) {
	_, ok := NewInMemoryLog().Last()
	assert.False(t, ok)
}

func TestInMemoryLog_Subscribe(t *testing.T) {
	log := NewInMemoryLog()
	ch, cancel := log.Subscribe(4)
	defer cancel()

	turn := mustTurn(t, core.RoleUser, "What is the refund policy?")
	require.NoError(t, log.Append(turn))

	got := <-ch
	assert.Equal(t, turn.ID, got.ID)
	assert.Equal(t, turn.Content, got.Content)
}

func TestInMemoryLog_ConcurrentAppend(t *testing.T) {
	log := NewInMemoryLog()
	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			turn, err := core.NewTurn(core.RoleUser, fmt.Sprintf("q%d", i))
			if err != nil {
				t.Errorf("new turn: %v", err)
				return
			}
			if err := log.Append(turn); err != nil {
				t.Errorf("append: %v", err)
			}
			_ = log.All()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 25, log.Len())
}

func TestInMemoryLog_SubscriberOrderMatchesLog(t *testing.T) {
	const writers, perWriter = 16, 50

	for round := 0; round < 20; round++ {
		log := NewInMemoryLog()
		ch, cancel := log.Subscribe(writers * perWriter)

		var wg sync.WaitGroup
		for w := 0; w < writers; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				for i := 0; i < perWriter; i++ {
					turn, err := core.NewTurn(core.RoleUser, fmt.Sprintf("w%d-%d", w, i))
					if err != nil {
						t.Errorf("new turn: %v", err)
						return
					}
					if err := log.Append(turn); err != nil {
						t.Errorf("append: %v", err)
					}
				}
			}(w)
		}
		wg.Wait()
		cancel()

		var received []string
		for turn := range ch {
			received = append(received, turn.ID)
		}
		stored := make([]string, 0, log.Len())
		for _, turn := range log.All() {
			stored = append(stored, turn.ID)
		}
		require.Equal(t, stored, received, "round %d", round)
	}
}
