package bag

import (
	"fmt"
	"testing"

	"github.com/narswright/nars-kernel/internal/sf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testItem struct {
	key string
	b   sf.Budget
}

func (t testItem) Key() string       { return t.key }
func (t testItem) Budget() sf.Budget { return t.b }
func (t testItem) WithBudget(b sf.Budget) testItem {
	t.b = b
	return t
}

func newItem(key string, priority float64) testItem {
	return testItem{key: key, b: sf.MustBudget(priority, 0.5, 0.5)}
}

func TestPutInAndTakeOutRoundTrip(t *testing.T) {
	b := New[testItem](10, 1.0, 0.1)
	_, evicted := b.PutIn(newItem("a", 0.9))
	assert.False(t, evicted)
	assert.True(t, b.CheckInvariants())

	item, ok := b.TakeOut()
	require.True(t, ok)
	assert.Equal(t, "a", item.Key())
	assert.True(t, b.CheckInvariants())
}

func TestPutInMergesOnDuplicateKey(t *testing.T) {
	b := New[testItem](10, 1.0, 0.1)
	b.PutIn(newItem("a", 0.2))
	b.PutIn(newItem("a", 0.9))
	item, ok := b.Get("a")
	require.True(t, ok)
	assert.InDelta(t, 0.9, item.Budget().Priority.Float(), 0.01)
	assert.Equal(t, 1, b.Len())
}

func TestCapacityEvictsLowestNonEmptyLevel(t *testing.T) {
	b := New[testItem](2, 1.0, 0.1)
	b.PutIn(newItem("low", 0.01))
	b.PutIn(newItem("mid", 0.5))
	evicted, had := b.PutIn(newItem("high", 0.99))
	require.True(t, had)
	assert.Equal(t, "low", evicted.Key())
	assert.Equal(t, 2, b.Len())
}

func TestCapacityRejectsWhenNewItemIsLowestPriority(t *testing.T) {
	b := New[testItem](2, 1.0, 0.1)
	b.PutIn(newItem("a", 0.9))
	b.PutIn(newItem("b", 0.9))
	rejected, had := b.PutIn(newItem("lowest", 0.001))
	require.True(t, had)
	assert.Equal(t, "lowest", rejected.Key())
	assert.Equal(t, 2, b.Len())
	_, ok := b.Get("lowest")
	assert.False(t, ok)
}

func TestInvariantsHoldAfterManyOperations(t *testing.T) {
	b := New[testItem](50, 1.0, 0.1)
	for i := 0; i < 200; i++ {
		b.PutIn(newItem(fmt.Sprintf("k%d", i), float64(i%100)/100.0))
		if i%3 == 0 {
			if item, ok := b.TakeOut(); ok {
				b.PutBack(item)
			}
		}
		require.True(t, b.CheckInvariants())
	}
}

func TestSelectionFairnessAcrossEqualPriorityItems(t *testing.T) {
	b := New[testItem](10, 1.0, 0.1)
	keys := []string{"a", "b", "c"}
	for _, k := range keys {
		b.PutIn(newItem(k, 1.0))
	}
	counts := map[string]int{}
	const n = 3000
	for i := 0; i < n; i++ {
		item, ok := b.TakeOut()
		require.True(t, ok)
		counts[item.Key()]++
		b.PutBack(item)
	}
	for _, k := range keys {
		assert.Greater(t, counts[k], 0, "every equal-priority item must be selected with non-zero frequency")
	}
}

func TestForgettingMonotonicallyDecaysPriority(t *testing.T) {
	item := newItem("x", 1.0)
	prev := item.Budget().Priority.Float()
	for i := 0; i < 50; i++ {
		decayed := item.Budget().Forget(1.0, 0.1)
		assert.LessOrEqual(t, decayed.Priority.Float(), prev+1e-9)
		item = item.WithBudget(decayed)
		prev = decayed.Priority.Float()
	}
}

func TestPickOutRemovesByKey(t *testing.T) {
	b := New[testItem](10, 1.0, 0.1)
	b.PutIn(newItem("a", 0.5))
	item, ok := b.PickOut("a")
	require.True(t, ok)
	assert.Equal(t, "a", item.Key())
	assert.Equal(t, 0, b.Len())
	assert.True(t, b.CheckInvariants())
}
