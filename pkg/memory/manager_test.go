package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(maxTurns int) *Manager {
	return NewManager(NewMemoryStore(), nil, maxTurns, time.Hour, nil)
}

func TestAppendTurnAndContext(t *testing.T) {
	m := newTestManager(4)
	ctx := context.Background()

	turn, err := m.AppendTurn(ctx, "t1", "s1", "hello", "hi there, how can I help?", false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), turn.Seq)

	snap, err := m.Context(ctx, "t1", "s1")
	require.NoError(t, err)
	assert.Empty(t, snap.Summary)
	require.Len(t, snap.Turns, 1)
	assert.Equal(t, "hello", snap.Turns[0].UserMessage)
}

func TestSequenceMonotonicAcrossFold(t *testing.T) {
	m := newTestManager(2)
	ctx := context.Background()

	var lastSeq int64
	for i := 0; i < 10; i++ {
		turn, err := m.AppendTurn(ctx, "t1", "s1", fmt.Sprintf("msg %d", i), "reply", false)
		require.NoError(t, err)
		assert.Greater(t, turn.Seq, lastSeq, "sequence numbers must strictly increase")
		lastSeq = turn.Seq
	}
	assert.Equal(t, int64(10), lastSeq)
}

func TestFoldKeepsWindowBounded(t *testing.T) {
	m := newTestManager(3)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		_, err := m.AppendTurn(ctx, "t1", "s1", fmt.Sprintf("question %d", i), fmt.Sprintf("answer %d", i), false)
		require.NoError(t, err)
	}

	snap, err := m.Context(ctx, "t1", "s1")
	require.NoError(t, err)
	assert.Len(t, snap.Turns, 3, "raw window must stay at maxTurns after every append")

	// Every folded turn must be represented by the summary; none vanish.
	for i := 0; i < 4; i++ {
		assert.Contains(t, snap.Summary, fmt.Sprintf("question %d", i))
	}
	// Retained turns are the newest ones and are not in the summary's fold list.
	assert.Equal(t, "question 4", snap.Turns[0].UserMessage)
	assert.Equal(t, "question 6", snap.Turns[2].UserMessage)
}

type recordingSummarizer struct {
	calls int
	fail  bool
}

func (r *recordingSummarizer) Summarize(_ context.Context, previous string, folded []Turn) (string, error) {
	r.calls++
	if r.fail {
		return "", errors.New("llm unavailable")
	}
	return previous + fmt.Sprintf(" [folded %d]", len(folded)), nil
}

func TestSummarizerFailureFallsBackToNaiveFold(t *testing.T) {
	sum := &recordingSummarizer{fail: true}
	m := NewManager(NewMemoryStore(), sum, 1, time.Hour, nil)
	ctx := context.Background()

	_, err := m.AppendTurn(ctx, "t1", "s1", "first question", "first answer", false)
	require.NoError(t, err)
	_, err = m.AppendTurn(ctx, "t1", "s1", "second question", "second answer", false)
	require.NoError(t, err)

	snap, err := m.Context(ctx, "t1", "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, sum.calls)
	assert.Contains(t, snap.Summary, "first question",
		"naive fold must still record the folded turn when the summarizer fails")
}

func TestPurgeRemovesEverything(t *testing.T) {
	m := newTestManager(2)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := m.AppendTurn(ctx, "t1", "s1", "q", "a", false)
		require.NoError(t, err)
	}
	require.NoError(t, m.Purge(ctx, "t1", "s1"))

	snap, err := m.Context(ctx, "t1", "s1")
	require.NoError(t, err)
	assert.Empty(t, snap.Summary)
	assert.Empty(t, snap.Turns)

	// A fresh session restarts numbering; the old session is gone entirely.
	turn, err := m.AppendTurn(ctx, "t1", "s1", "q", "a", false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), turn.Seq)
}

func TestConcurrentAppendsSerializePerSession(t *testing.T) {
	m := newTestManager(100)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := m.AppendTurn(ctx, "t1", "s1", fmt.Sprintf("m%d", i), "r", false)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	snap, err := m.Context(ctx, "t1", "s1")
	require.NoError(t, err)
	require.Len(t, snap.Turns, 50)

	seen := make(map[int64]bool)
	for _, turn := range snap.Turns {
		assert.False(t, seen[turn.Seq], "sequence %d reused", turn.Seq)
		seen[turn.Seq] = true
	}
}

func TestReaderNeverSeesTornState(t *testing.T) {
	m := newTestManager(2)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 30; i++ {
			_, _ = m.AppendTurn(ctx, "t1", "s1", fmt.Sprintf("q%d", i), "a", false)
		}
	}()

	for {
		select {
		case <-done:
			return
		default:
		}
		snap, err := m.Context(ctx, "t1", "s1")
		require.NoError(t, err)
		require.LessOrEqual(t, len(snap.Turns), 2,
			"a reader must never observe more raw turns than the window allows")
		if len(snap.Turns) == 2 && !strings.Contains(snap.Summary, "q0") && snap.Turns[0].Seq > 1 {
			t.Fatalf("turns were trimmed but the summary does not cover them yet: seq=%d summary=%q",
				snap.Turns[0].Seq, snap.Summary)
		}
	}
}
