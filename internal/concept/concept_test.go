package concept

import (
	"testing"

	"github.com/narswright/nars-kernel/internal/sf"
	"github.com/narswright/nars-kernel/internal/stamp"
	"github.com/narswright/nars-kernel/internal/term"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLimits() Limits {
	return Limits{MaxBeliefs: 10, MaxQuestions: 5, TermLinkBagSize: 20, TaskLinkBagSize: 20, ForgetRate: 1.0, RelativeThresh: 0.1, TermLinkRecord: RecordLength}
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	m := NewMemory(10, 1.0, 0.1, testLimits(), sf.MustBudget(0.5, 0.5, 0.5))
	a := term.NewWord("A")
	c1, _, _ := m.GetOrCreate(a)
	c2, _, _ := m.GetOrCreate(a)
	assert.Same(t, c1, c2)
}

func TestDirectProcessDuplicateJudgementZeroesPriority(t *testing.T) {
	limits := testLimits()
	content := term.NewWord("A")
	c := New(content, sf.MustBudget(0.5, 0.5, 0.5), limits)

	st := stamp.Stamp{Base: []uint64{1}}
	first := term.NewTask(term.NewJudgement(content, sf.MustTruth(0.9, 0.9), st, true), sf.MustBudget(0.5, 0.5, 0.5))
	c.DirectProcess(first, 1, 8, sf.MustNew(0.01))

	dup := term.NewTask(term.NewJudgement(content, sf.MustTruth(0.9, 0.9), st, true), sf.MustBudget(0.5, 0.5, 0.5))
	result := c.DirectProcess(dup, 2, 8, sf.MustNew(0.01))
	assert.True(t, result.Duplicate)
	assert.True(t, dup.Budget.Priority.Equal(sf.Zero))
}

func TestDirectProcessRevisesNonOverlappingBeliefs(t *testing.T) {
	limits := testLimits()
	content := term.NewWord("A")
	c := New(content, sf.MustBudget(0.5, 0.5, 0.5), limits)

	first := term.NewTask(term.NewJudgement(content, sf.MustTruth(1.0, 0.9), stamp.Stamp{Base: []uint64{1}}, true), sf.MustBudget(0.5, 0.5, 0.5))
	c.DirectProcess(first, 1, 8, sf.MustNew(0.01))

	second := term.NewTask(term.NewJudgement(content, sf.MustTruth(0.0, 0.9), stamp.Stamp{Base: []uint64{2}}, true), sf.MustBudget(0.5, 0.5, 0.5))
	result := c.DirectProcess(second, 2, 8, sf.MustNew(0.01))

	require.NotNil(t, result.Derived)
	assert.InDelta(t, 0.5, result.Derived.Sentence.Truth.Frequency.Float(), 0.01)
	assert.Greater(t, result.Derived.Sentence.Truth.Confidence.Float(), 0.9)
}

func TestDirectProcessAnswersPendingQuestion(t *testing.T) {
	limits := testLimits()
	content := term.NewWord("A")
	c := New(content, sf.MustBudget(0.5, 0.5, 0.5), limits)

	q := term.NewTask(term.NewQuestion(content, stamp.Stamp{Base: []uint64{1}}), sf.MustBudget(0.5, 0.5, 0.5))
	qResult := c.DirectProcess(q, 1, 8, sf.MustNew(0.01))
	assert.Empty(t, qResult.Answers)

	j := term.NewTask(term.NewJudgement(content, sf.MustTruth(0.9, 0.9), stamp.Stamp{Base: []uint64{2}}, true), sf.MustBudget(0.5, 0.5, 0.5))
	jResult := c.DirectProcess(j, 2, 8, sf.MustNew(0.01))
	require.Len(t, jResult.Answers, 1)
	assert.Equal(t, q, jResult.Answers[0].Task)
	assert.NotNil(t, q.BestSolution)
}

func TestBeliefsStayCappedAndSortedByRank(t *testing.T) {
	limits := testLimits()
	limits.MaxBeliefs = 2
	a := term.NewWord("A")
	b := term.NewWord("B")
	cc := term.NewWord("C")
	abTerm, _ := term.NewCompound(term.Inheritance, a, b)
	bcTerm, _ := term.NewCompound(term.Inheritance, b, cc)
	c := New(abTerm, sf.MustBudget(0.5, 0.5, 0.5), limits)

	c.insertBelief(term.NewJudgement(abTerm, sf.MustTruth(0.9, 0.5), stamp.Stamp{Base: []uint64{1}}, true))
	c.insertBelief(term.NewJudgement(bcTerm, sf.MustTruth(0.9, 0.9), stamp.Stamp{Base: []uint64{2}}, true))
	c.insertBelief(term.NewJudgement(abTerm, sf.MustTruth(0.9, 0.7), stamp.Stamp{Base: []uint64{3}}, true))

	assert.Len(t, c.Beliefs, 2)
	assert.True(t, c.Beliefs[0].Rank().GTE(c.Beliefs[1].Rank()))
}

func TestLinkToTaskCreatesSelfAndComponentLinks(t *testing.T) {
	limits := testLimits()
	a := term.NewWord("A")
	b := term.NewWord("B")
	ab, _ := term.NewCompound(term.Inheritance, a, b)

	cAB := New(ab, sf.MustBudget(0.5, 0.5, 0.5), limits)
	cA := New(a, sf.MustBudget(0.5, 0.5, 0.5), limits)

	task := term.NewTask(term.NewJudgement(ab, sf.MustTruth(0.9, 0.9), stamp.Stamp{Base: []uint64{1}}, true), sf.MustBudget(0.9, 0.9, 0.9))

	find := func(sub *term.Term) (*Concept, bool) {
		if sub.Equal(a) {
			return cA, true
		}
		return nil, false
	}
	var linked [][2]string
	LinkToTask(cAB, task, find, RecordLength, func(from, to string) {
		linked = append(linked, [2]string{from, to})
	})

	assert.Equal(t, 1, cAB.TaskLinks.Len())
	assert.Equal(t, 1, cA.TaskLinks.Len())
	assert.Equal(t, 1, cA.TermLinks.Len())
	assert.Equal(t, [][2]string{{cAB.Key(), cA.Key()}}, linked)
}
