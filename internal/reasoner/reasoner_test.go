package reasoner

import (
	"strings"
	"testing"

	"github.com/narswright/nars-kernel/internal/sf"
	"github.com/narswright/nars-kernel/internal/stamp"
	"github.com/narswright/nars-kernel/internal/term"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReasoner(t *testing.T) *Reasoner {
	t.Helper()
	r, err := New(DefaultHyperparams())
	require.NoError(t, err)
	return r
}

func judgementTask(r *Reasoner, content *term.Term, f, c float64) *term.Task {
	s := term.NewJudgement(content, sf.MustTruth(f, c), stampNew(r), true)
	return term.NewTask(s, sf.MustBudget(0.9, 0.9, 0.9))
}

func questionTask(r *Reasoner, content *term.Term) *term.Task {
	s := term.NewQuestion(content, stampNew(r))
	return term.NewTask(s, sf.MustBudget(0.9, 0.9, 0.9))
}

func stampNew(r *Reasoner) stamp.Stamp { return stamp.New(r.NextStampSerial(), r.Tick()) }

func containsOutEventWith(events []Event, substr string) bool {
	for _, e := range events {
		if e.Kind == Out && strings.Contains(e.Sentence, substr) {
			return true
		}
	}
	return false
}

func containsAnswerEventWith(events []Event, substr string) bool {
	for _, e := range events {
		if e.Kind == Answer && strings.Contains(e.Sentence, substr) {
			return true
		}
	}
	return false
}

func TestScenarioDeduction(t *testing.T) {
	r := newTestReasoner(t)
	a, b, c := term.NewWord("A"), term.NewWord("B"), term.NewWord("C")
	ab, _ := term.NewCompound(term.Inheritance, a, b)
	bc, _ := term.NewCompound(term.Inheritance, b, c)

	require.NoError(t, r.Enqueue(judgementTask(r, ab, 0.9, 0.9)))
	r.Cycle()
	require.NoError(t, r.Enqueue(judgementTask(r, bc, 0.9, 0.9)))

	var events []Event
	for i := 0; i < 10; i++ {
		r.Cycle()
		events = append(events, r.DrainOutput()...)
	}
	assert.True(t, containsOutEventWith(events, "A --> C"), "expected OUT containing <A --> C>, got %+v", events)
}

func TestScenarioStampOverlapSuppression(t *testing.T) {
	r := newTestReasoner(t)
	a, b := term.NewWord("A"), term.NewWord("B")
	ab, _ := term.NewCompound(term.Inheritance, a, b)

	task1 := judgementTask(r, ab, 0.9, 0.9)
	require.NoError(t, r.Enqueue(task1))
	r.Cycle()

	task2 := judgementTask(r, ab, 0.9, 0.9)
	task2.Sentence.Stamp = task1.Sentence.Stamp // force identical stamp: same-input re-input
	require.NoError(t, r.Enqueue(task2))
	r.Cycle()

	assert.True(t, task2.Budget.Priority.Equal(sf.Zero))
}

func TestScenarioConditionalDeductionWithVariable(t *testing.T) {
	r := newTestReasoner(t)
	x := term.NewVar(term.VarIndependent, 1)
	a, b, c := term.NewWord("A"), term.NewWord("B"), term.NewWord("C")
	xa, _ := term.NewCompound(term.Inheritance, x, a)
	xb, _ := term.NewCompound(term.Inheritance, x, b)
	impl, _ := term.NewCompound(term.Implication, xa, xb)
	ca, _ := term.NewCompound(term.Inheritance, c, a)

	require.NoError(t, r.Enqueue(judgementTask(r, impl, 0.9, 0.9)))
	r.Cycle()
	require.NoError(t, r.Enqueue(judgementTask(r, ca, 0.9, 0.9)))

	var events []Event
	for i := 0; i < 10; i++ {
		r.Cycle()
		events = append(events, r.DrainOutput()...)
	}
	assert.True(t, containsOutEventWith(events, "C --> B"), "expected OUT containing <C --> B>, got %+v", events)
}

func TestSummaryReportsConceptCount(t *testing.T) {
	r := newTestReasoner(t)
	a, b := term.NewWord("A"), term.NewWord("B")
	ab, _ := term.NewCompound(term.Inheritance, a, b)
	require.NoError(t, r.Enqueue(judgementTask(r, ab, 0.9, 0.9)))
	r.Cycle()
	s := r.Summary()
	assert.Greater(t, s.ConceptCount, 0)
}

func TestResetZeroesCounters(t *testing.T) {
	r := newTestReasoner(t)
	a, b := term.NewWord("A"), term.NewWord("B")
	ab, _ := term.NewCompound(term.Inheritance, a, b)
	require.NoError(t, r.Enqueue(judgementTask(r, ab, 0.9, 0.9)))
	r.Cycle()
	r.Reset()
	assert.Equal(t, uint64(0), r.Tick())
	assert.Equal(t, 0, r.Summary().ConceptCount)
}
