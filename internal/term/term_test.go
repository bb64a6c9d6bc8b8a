package term

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicNamesAndComplexity(t *testing.T) {
	a := NewWord("A")
	assert.Equal(t, "A", a.Name())
	assert.Equal(t, 1, a.Complexity())

	p := NewPlaceholder()
	assert.Equal(t, 0, p.Complexity())
}

func TestCommutativeCompoundSortsAndDedups(t *testing.T) {
	a := NewWord("A")
	b := NewWord("B")
	t1, err := NewCompound(IntersectionExt, b, a, a)
	require.NoError(t, err)
	t2, err := NewCompound(IntersectionExt, a, b)
	require.NoError(t, err)
	assert.True(t, t1.Equal(t2), "dedup+sort should make {B,A,A} == {A,B}")
}

func TestInheritanceIsStatement(t *testing.T) {
	a := NewWord("A")
	b := NewWord("B")
	inh, err := NewCompound(Inheritance, a, b)
	require.NoError(t, err)
	assert.True(t, inh.IsStatement())
	assert.False(t, inh.IsCommutative())
}

func TestImagePlaceholderZeroDegeneratesToProduct(t *testing.T) {
	a, b := NewWord("A"), NewWord("B")
	img, err := NewImage(ImageExt, 0, a, b)
	require.NoError(t, err)
	assert.Equal(t, Product, img.Kind)
}

func TestSubtermAndReplace(t *testing.T) {
	a, b, c := NewWord("A"), NewWord("B"), NewWord("C")
	inh, err := NewCompound(Inheritance, a, b)
	require.NoError(t, err)
	assert.Equal(t, a.Name(), inh.Subterm([]int{0}).Name())

	replaced, err := inh.Replace([]int{1}, c)
	require.NoError(t, err)
	assert.Equal(t, c.Name(), replaced.Subterm([]int{1}).Name())
}

func TestCanonicaliseIsIdempotentAndAlphaEquivalent(t *testing.T) {
	x := NewVar(VarIndependent, 5)
	y := NewVar(VarIndependent, 9)
	a := NewWord("A")

	t1, err := NewCompound(Inheritance, x, a)
	require.NoError(t, err)
	t2, err := NewCompound(Inheritance, y, a)
	require.NoError(t, err)

	c1 := Canonicalise(t1)
	c2 := Canonicalise(t2)
	assert.True(t, c1.Equal(c2), "alpha-equivalent terms must canonicalise equal")

	cc1 := Canonicalise(c1)
	assert.True(t, cc1.Equal(c1), "canonicalise must be idempotent")
}

func TestInvalidStatementSelfInheritanceIsConstructible(t *testing.T) {
	// Term construction itself does not reject <A-->A>; invalid_statement
	// checks are a reasoner-level rule-table concern (spec.md §4.F), not a
	// term-model invariant.
	a := NewWord("A")
	inh, err := NewCompound(Inheritance, a, a)
	require.NoError(t, err)
	assert.Equal(t, a.Name(), inh.Subterm([]int{0}).Name())
	assert.Equal(t, a.Name(), inh.Subterm([]int{1}).Name())
}
