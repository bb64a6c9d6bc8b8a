package sf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRevisionIncreasesConfidence(t *testing.T) {
	a := MustTruth(1.0, 0.9)
	b := MustTruth(0.0, 0.9)
	r := Revision(a, b)
	assert.InDelta(t, 0.5, r.Frequency.Float(), 0.01)
	assert.Greater(t, r.Confidence.Float(), a.Confidence.Float())
	assert.Greater(t, r.Confidence.Float(), b.Confidence.Float())
}

func TestDeductionStrongSyllogism(t *testing.T) {
	ab := MustTruth(0.9, 0.9)
	bc := MustTruth(0.9, 0.9)
	d := Deduction(ab, bc)
	assert.InDelta(t, 0.81, d.Frequency.Float(), 0.01)
}

func TestExpectation(t *testing.T) {
	tv := MustTruth(1.0, 1.0)
	assert.InDelta(t, 1.0, tv.Expectation(), 0.001)
	tv2 := MustTruth(0.5, 0.0)
	assert.InDelta(t, 0.5, tv2.Expectation(), 0.001)
}

func TestNegationFlipsFrequency(t *testing.T) {
	tv := MustTruth(0.2, 0.8)
	n := Negation(tv)
	assert.InDelta(t, 0.8, n.Frequency.Float(), 0.001)
	assert.InDelta(t, 0.8, n.Confidence.Float(), 0.001)
}

func TestAbductionInductionMirror(t *testing.T) {
	t1 := MustTruth(0.9, 0.9)
	t2 := MustTruth(0.8, 0.8)
	ab := Abduction(t1, t2)
	in := Induction(t2, t1)
	assert.Equal(t, ab.Frequency, in.Frequency)
	assert.Equal(t, ab.Confidence, in.Confidence)
}
