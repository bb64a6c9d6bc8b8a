package concept

import (
	"time"

	"github.com/narswright/nars-kernel/pkg/cache"
)

// RecordLength is TERM_LINK_RECORD_LENGTH, the default bounded size of a
// task-link's recent-term-link record (spec.md §4.E).
const RecordLength = 10

// RecordTTL bounds how long a term-link key counts as "recently used" by a
// task-link before it becomes novel again.
const RecordTTL = 5 * time.Minute

// novelty wraps the generic LRU cache as the bounded, per-entry-TTL record
// of recently-used term-link keys spec.md §4.E requires. Each task-link
// owns one.
type novelty struct {
	seen *cache.LRU[string, struct{}]
}

func newNovelty(recordLen int) *novelty {
	if recordLen <= 0 {
		recordLen = RecordLength
	}
	return &novelty{
		seen: cache.New[string, struct{}](&cache.Config{MaxEntries: recordLen, TTL: RecordTTL}),
	}
}

// check reports whether termLinkKey is novel (not recently used); a
// non-novel check refreshes the record entry, a novel check inserts it, per
// spec.md §4.E: "On return of a non-novel check, refresh the record entry;
// on true, insert."
func (n *novelty) check(termLinkKey string, now int64) bool {
	if _, ok := n.seen.Get(termLinkKey); ok {
		n.seen.Set(termLinkKey, struct{}{})
		return false
	}
	n.seen.Set(termLinkKey, struct{}{})
	return true
}
