package term

import (
	"testing"

	"github.com/narswright/nars-kernel/internal/sf"
	"github.com/narswright/nars-kernel/internal/stamp"
	"github.com/stretchr/testify/assert"
)

func TestSentenceKeyIgnoresStampAndFinePrecision(t *testing.T) {
	c := NewWord("A")
	s1 := NewJudgement(c, sf.MustTruth(0.9001, 0.9001), stamp.Stamp{Base: []uint64{1}}, true)
	s2 := NewJudgement(c, sf.MustTruth(0.9002, 0.8999), stamp.Stamp{Base: []uint64{2, 3}}, true)
	assert.Equal(t, s1.Key(), s2.Key())
}

func TestRankPrefersShorterStampAndHigherConfidence(t *testing.T) {
	c := NewWord("A")
	short := NewJudgement(c, sf.MustTruth(0.9, 0.9), stamp.Stamp{Base: []uint64{1}}, true)
	long := NewJudgement(c, sf.MustTruth(0.9, 0.9), stamp.Stamp{Base: []uint64{1, 2, 3, 4}}, true)
	assert.True(t, short.Rank().GTE(long.Rank()))
}

func TestSolutionQualityUsesExpectationForQueryVar(t *testing.T) {
	x := NewVar(VarQuery, 1)
	a := NewWord("A")
	qContent, _ := NewCompound(Inheritance, x, a)
	q := NewQuestion(qContent, stamp.Stamp{})

	belief := NewJudgement(a, sf.MustTruth(1.0, 1.0), stamp.Stamp{Base: []uint64{1}}, true)
	quality := belief.SolutionQuality(q)
	assert.InDelta(t, belief.Truth.Expectation(), quality.Float(), 0.001)
}
