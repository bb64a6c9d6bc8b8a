package stamp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlapDetection(t *testing.T) {
	a := Stamp{Base: []uint64{1, 2}}
	b := Stamp{Base: []uint64{2, 3}}
	assert.True(t, a.Overlap(b))

	c := Stamp{Base: []uint64{4, 5}}
	assert.False(t, a.Overlap(c))
}

func TestFromMergeRejectsOverlap(t *testing.T) {
	a := Stamp{Base: []uint64{1}}
	b := Stamp{Base: []uint64{1}}
	_, ok := FromMerge(a, b, 10, MaxLength)
	assert.False(t, ok)
}

func TestFromMergeInterleaveLongerFirst(t *testing.T) {
	a := Stamp{Base: []uint64{1, 2, 3}}
	b := Stamp{Base: []uint64{4}}
	merged, ok := FromMerge(a, b, 10, MaxLength)
	require.True(t, ok)
	assert.Equal(t, []uint64{1, 4, 2, 3}, merged.Base)
	assert.Equal(t, uint64(10), merged.CreationTime)
}

func TestFromMergeTieBreakSecondLeads(t *testing.T) {
	a := Stamp{Base: []uint64{1}}
	b := Stamp{Base: []uint64{2}}
	merged, ok := FromMerge(a, b, 10, MaxLength)
	require.True(t, ok)
	assert.Equal(t, []uint64{2, 1}, merged.Base)
}

func TestFromMergeTruncatesKeepingNewestEnd(t *testing.T) {
	a := Stamp{Base: []uint64{1, 2, 3, 4, 5}}
	b := Stamp{Base: []uint64{6, 7, 8, 9, 10}}
	merged, ok := FromMerge(a, b, 99, 4)
	require.True(t, ok)
	assert.Len(t, merged.Base, 4)
	full := []uint64{6, 1, 7, 2, 8, 3, 9, 4, 10, 5}
	assert.Equal(t, full[len(full)-4:], merged.Base)
}

func TestEqualIsMultisetEquality(t *testing.T) {
	a := Stamp{Base: []uint64{1, 2}, CreationTime: 5}
	b := Stamp{Base: []uint64{2, 1}, CreationTime: 99}
	assert.True(t, a.Equal(b))
}
