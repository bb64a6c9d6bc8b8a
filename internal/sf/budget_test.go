package sf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBudgetSummaryIsGeometricMean(t *testing.T) {
	b := MustBudget(1.0, 1.0, 1.0)
	assert.True(t, b.Summary().Equal(One))
}

func TestBudgetAboveThreshold(t *testing.T) {
	b := MustBudget(0.9, 0.9, 0.9)
	assert.True(t, b.AboveThreshold(MustNew(0.5)))
	assert.False(t, b.AboveThreshold(One))
}

func TestBudgetMergeIsComponentwiseMax(t *testing.T) {
	a := MustBudget(0.2, 0.9, 0.1)
	b := MustBudget(0.8, 0.1, 0.3)
	m := a.Merge(b)
	assert.InDelta(t, 0.8, m.Priority.Float(), 0.001)
	assert.InDelta(t, 0.9, m.Durability.Float(), 0.001)
	assert.InDelta(t, 0.3, m.Quality.Float(), 0.001)
}

func TestBudgetForgetNeverIncreasesPriority(t *testing.T) {
	b := MustBudget(0.9, 0.5, 0.3)
	prev := b.Priority.Float()
	for i := 0; i < 20; i++ {
		b = b.Forget(1.0, 0.1)
		assert.LessOrEqual(t, b.Priority.Float(), prev+1e-9)
		prev = b.Priority.Float()
	}
}

func TestBudgetDistributeAmongShrinksPriority(t *testing.T) {
	b := MustBudget(1.0, 0.5, 0.5)
	d := b.DistributeAmong(4)
	assert.InDelta(t, 0.5, d.Priority.Float(), 0.01)
	assert.Equal(t, b.Durability, d.Durability)
}
