// Package stamp implements evidential stamps: the per-sentence evidence
// base used to detect circular derivation (NAL's evidential-overlap rule).
package stamp

import "sort"

// MaxLength is the default cap on an evidential base's length
// (hyperparameter MaxStampLength in internal/config, default 8).
const MaxLength = 8

// Stamp is an ordered evidential base plus the tick at which it was created.
// The base is conceptually a multiset of tick-serial IDs; order only matters
// for the merge/truncate policy below, never for equality.
type Stamp struct {
	Base         []uint64
	CreationTime uint64
}

// New creates the stamp for a freshly input sentence: a singleton base
// containing the current evidential-serial counter's value.
func New(serial, now uint64) Stamp {
	return Stamp{Base: []uint64{serial}, CreationTime: now}
}

// Overlap reports whether a and b share any tick ID, i.e. whether combining
// them would constitute circular evidential reasoning.
func (a Stamp) Overlap(b Stamp) bool {
	seen := make(map[uint64]struct{}, len(a.Base))
	for _, id := range a.Base {
		seen[id] = struct{}{}
	}
	for _, id := range b.Base {
		if _, ok := seen[id]; ok {
			return true
		}
	}
	return false
}

// Equal reports multiset equality of the two bases; creation time is not
// part of stamp identity.
func (a Stamp) Equal(b Stamp) bool {
	if len(a.Base) != len(b.Base) {
		return false
	}
	counts := make(map[uint64]int, len(a.Base))
	for _, id := range a.Base {
		counts[id]++
	}
	for _, id := range b.Base {
		counts[id]--
	}
	for _, c := range counts {
		if c != 0 {
			return false
		}
	}
	return true
}

// Key returns a hashable representation of the base (sorted, since stamp
// identity is multiset equality regardless of interleave order).
func (a Stamp) Key() string {
	sorted := append([]uint64(nil), a.Base...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	b := make([]byte, 0, len(sorted)*9)
	for _, id := range sorted {
		for id > 0 {
			b = append(b, byte('0'+id%10))
			id /= 10
		}
		b = append(b, ',')
	}
	return string(b)
}

// FromMerge combines two non-overlapping stamps by interleaving their bases,
// longer-first alternating, truncating to maxLen keeping the newest end. It
// returns ok=false if a and b overlap, signalling an evidential cycle that
// the caller must silently abort on (no derivation, no error).
//
// Tie-break on equal-length bases: the second argument (b) leads the
// interleave. This resolves an ambiguity spec.md leaves open; see
// DESIGN.md's Open Questions for the original implementation's test cases
// this was inferred from.
func FromMerge(a, b Stamp, now uint64, maxLen int) (Stamp, bool) {
	if a.Overlap(b) {
		return Stamp{}, false
	}

	// The longer base leads the interleave; on a length tie, b leads.
	longer, shorter := a.Base, b.Base
	if len(b.Base) >= len(a.Base) {
		longer, shorter = b.Base, a.Base
	}

	merged := make([]uint64, 0, len(longer)+len(shorter))
	i := 0
	for ; i < len(shorter); i++ {
		merged = append(merged, longer[i], shorter[i])
	}
	merged = append(merged, longer[i:]...)

	if len(merged) > maxLen {
		merged = merged[len(merged)-maxLen:]
	}

	return Stamp{Base: merged, CreationTime: now}, true
}
