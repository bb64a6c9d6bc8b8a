package persist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/narswright/nars-kernel/internal/narsese"
	"github.com/narswright/nars-kernel/internal/reasoner"
	"github.com/narswright/nars-kernel/internal/term"
)

func newTestReasoner(t *testing.T) *reasoner.Reasoner {
	t.Helper()
	r, err := reasoner.New(reasoner.DefaultHyperparams())
	require.NoError(t, err)
	return r
}

func enqueue(t *testing.T, r *reasoner.Reasoner, src string) {
	t.Helper()
	parsed, err := narsese.ParseSentence(src, r.NextStampSerial(), r.Tick())
	require.NoError(t, err)
	tsk := term.NewTask(parsed.Sentence, parsed.Budget)
	require.NoError(t, r.Enqueue(tsk))
}

func TestMemoryBackendRoundTrip(t *testing.T) {
	r := newTestReasoner(t)
	enqueue(t, r, "<bird --> animal>.")
	enqueue(t, r, "<robin --> bird>.")
	for i := 0; i < 5; i++ {
		r.Cycle()
	}
	r.DrainOutput()

	snap := Capture(r)
	assert.NotEmpty(t, snap.Concepts)

	backend := OpenMemory()
	require.NoError(t, backend.Save(snap))
	loaded, err := backend.Load()
	require.NoError(t, err)
	assert.Equal(t, snap.Tick, loaded.Tick)
	assert.Equal(t, len(snap.Concepts), len(loaded.Concepts))

	r2 := newTestReasoner(t)
	require.NoError(t, Restore(r2, loaded))
	assert.Equal(t, snap.Tick, r2.Tick())
	assert.Equal(t, snap.StampSerial, r2.StampSerial())
	assert.Equal(t, len(snap.Concepts), len(r2.Concepts()))
}

func TestMemoryBackendLoadBeforeSaveReturnsZeroValue(t *testing.T) {
	backend := OpenMemory()
	snap, err := backend.Load()
	require.NoError(t, err)
	assert.Zero(t, snap.Tick)
	assert.Empty(t, snap.Tasks)
}

func TestSQLiteBackendRoundTrip(t *testing.T) {
	backend, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer backend.Close()

	r := newTestReasoner(t)
	enqueue(t, r, "<bird --> animal>.")
	enqueue(t, r, "<robin --> bird>.")
	for i := 0; i < 5; i++ {
		r.Cycle()
	}
	r.DrainOutput()

	snap := Capture(r)
	require.NoError(t, backend.Save(snap))

	loaded, err := backend.Load()
	require.NoError(t, err)
	assert.Equal(t, snap.Tick, loaded.Tick)
	assert.Equal(t, snap.StampSerial, loaded.StampSerial)
	assert.Equal(t, len(snap.Tasks), len(loaded.Tasks))
	assert.Equal(t, len(snap.Concepts), len(loaded.Concepts))

	r2 := newTestReasoner(t)
	require.NoError(t, Restore(r2, loaded))
	assert.Equal(t, snap.Tick, r2.Tick())
	assert.Equal(t, len(snap.Concepts), len(r2.Concepts()))
}

func TestSQLiteBackendLoadEmptyReturnsDefaults(t *testing.T) {
	backend, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer backend.Close()

	snap, err := backend.Load()
	require.NoError(t, err)
	assert.Zero(t, snap.Tick)
	assert.Equal(t, reasoner.DefaultHyperparams(), snap.Hyperparams)
}

// TestCaptureCoalescesSharedParentTask exercises the recorder's uuid-keyed
// memoisation: a derived task reachable both as a novel-task and via another
// task's ParentTask must serialize to one Tasks entry, not two.
func TestCaptureCoalescesSharedParentTask(t *testing.T) {
	r := newTestReasoner(t)
	enqueue(t, r, "<bird --> animal>.")
	enqueue(t, r, "<robin --> bird>.")
	for i := 0; i < 10; i++ {
		r.Cycle()
	}
	r.DrainOutput()

	snap := Capture(r)
	seen := map[string]bool{}
	for _, tr := range snap.Tasks {
		assert.False(t, seen[tr.SerialID], "serial id %s recorded twice", tr.SerialID)
		seen[tr.SerialID] = true
	}
}
