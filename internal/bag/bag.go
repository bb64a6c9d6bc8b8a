// Package bag implements the budgeted, probabilistic multilevel priority
// queue substrate (spec.md §3/§4.D) used for the reasoner's concept memory,
// novel-task buffer and every concept's task-link/term-link stores.
package bag

import "github.com/narswright/nars-kernel/internal/sf"

// Level is the default number of priority levels (BAG_LEVEL hyperparameter).
const Level = 100

// dormantThreshold is THRESHOLD in spec.md §4.D: levels below it are
// "dormant" (yield one item per visit); at or above, "active" (yield a
// burst equal to the level's occupancy).
const dormantThreshold = 10

// Item is anything a Bag can hold: a budgeted entity keyed by a stable
// string identity (task key, concept key, link key).
type Item interface {
	Key() string
	Budget() sf.Budget
}

// Bag is a fixed-capacity budgeted priority container. It is not
// safe for concurrent use without external synchronization; the reasoner's
// single-threaded work cycle (spec.md §5) is its only caller.
type Bag[I Item] struct {
	capacity int

	levels   [Level][]I // FIFO buckets
	index    map[string]int // key -> level
	mass     int

	distributor []int // precomputed triangular-weight level sequence
	distPos     int

	currentLevel   int
	currentCounter int

	forgetRate        float64
	relativeThreshold float64
}

// New constructs an empty Bag with the given capacity and forgetting
// parameters (forgetRate r, relativeThreshold = BUDGET_THRESHOLD/BAG_LEVEL
// as named by put_back in spec.md §4.D).
func New[I Item](capacity int, forgetRate, relativeThreshold float64) *Bag[I] {
	b := &Bag[I]{
		capacity:          capacity,
		index:             make(map[string]int),
		forgetRate:        forgetRate,
		relativeThreshold: relativeThreshold,
		currentLevel:      -1,
	}
	b.distributor = buildDistributor(Level)
	return b
}

// buildDistributor returns the precomputed length-L*(L+1)/2 array of level
// indices where level k appears k+1 times (spec.md §9 design note): a
// deterministic triangular-weight sequence, advanced by index mod length.
func buildDistributor(l int) []int {
	seq := make([]int, 0, l*(l+1)/2)
	for k := 0; k < l; k++ {
		for n := 0; n <= k; n++ {
			seq = append(seq, k)
		}
	}
	return seq
}

func levelOf(priority sf.SF) int {
	lvl := int(priority.Float()*Level + 0.999999999)
	if lvl > 0 {
		lvl--
	}
	if lvl < 0 {
		lvl = 0
	}
	if lvl >= Level {
		lvl = Level - 1
	}
	return lvl
}

// Len returns the total number of items currently held.
func (b *Bag[I]) Len() int { return len(b.index) }

// Mass returns Σ(level+1) over non-empty items, maintained incrementally.
func (b *Bag[I]) Mass() int { return b.mass }

func (b *Bag[I]) findByKey(key string) (I, int, bool) {
	lvl, ok := b.index[key]
	if !ok {
		var zero I
		return zero, 0, false
	}
	for _, it := range b.levels[lvl] {
		if it.Key() == key {
			return it, lvl, true
		}
	}
	var zero I
	return zero, 0, false
}

func (b *Bag[I]) removeFromLevel(key string, lvl int) {
	bucket := b.levels[lvl]
	for i, it := range bucket {
		if it.Key() == key {
			b.levels[lvl] = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	delete(b.index, key)
}

// PutIn inserts item, merging budgets (componentwise max) if its key is
// already present, and returns the evicted or rejected item, if any
// (spec.md §4.D put_in).
func (b *Bag[I]) PutIn(item I) (evicted I, hadEviction bool) {
	if existing, lvl, ok := b.findByKey(item.Key()); ok {
		merged := existing.Budget().Merge(item.Budget())
		b.removeFromLevel(item.Key(), lvl)
		b.mass -= lvl + 1
		item = withBudget(item, merged)
	}

	inLevel := levelOf(item.Budget().Priority)
	b.mass += inLevel + 1

	if len(b.index) >= b.capacity {
		outLevel := b.lowestNonEmptyLevel()
		if outLevel >= 0 && outLevel > inLevel {
			// roll back and reject the new item itself
			b.mass -= inLevel + 1
			return item, true
		}
		if outLevel >= 0 {
			overflow := b.levels[outLevel][0]
			b.levels[outLevel] = b.levels[outLevel][1:]
			delete(b.index, overflow.Key())
			b.mass -= outLevel + 1
			b.levels[inLevel] = append(b.levels[inLevel], item)
			b.index[item.Key()] = inLevel
			return overflow, true
		}
	}

	b.levels[inLevel] = append(b.levels[inLevel], item)
	b.index[item.Key()] = inLevel
	var zero I
	return zero, false
}

func (b *Bag[I]) lowestNonEmptyLevel() int {
	for k := 0; k < Level; k++ {
		if len(b.levels[k]) > 0 {
			return k
		}
	}
	return -1
}

// PutBack applies budget.forget then PutIn, the idiom used whenever an item
// taken out for processing is returned without being consumed (spec.md
// §4.D put_back).
func (b *Bag[I]) PutBack(item I) (evicted I, hadEviction bool) {
	forgotten := item.Budget().Forget(b.forgetRate, b.relativeThreshold)
	return b.PutIn(withBudget(item, forgotten))
}

// TakeOut removes and returns one item chosen by the probabilistic
// distributor, advancing the dormant/active counter per spec.md §4.D.
func (b *Bag[I]) TakeOut() (I, bool) {
	if len(b.index) == 0 {
		var zero I
		return zero, false
	}
	if b.currentLevel < 0 || len(b.levels[b.currentLevel]) == 0 || b.currentCounter <= 0 {
		b.advanceLevel()
	}
	bucket := b.levels[b.currentLevel]
	item := bucket[0]
	b.levels[b.currentLevel] = bucket[1:]
	delete(b.index, item.Key())
	b.mass -= b.currentLevel + 1
	b.currentCounter--
	return item, true
}

func (b *Bag[I]) advanceLevel() {
	for {
		lvl := b.distributor[b.distPos]
		b.distPos = (b.distPos + 1) % len(b.distributor)
		if len(b.levels[lvl]) > 0 {
			b.currentLevel = lvl
			if lvl < dormantThreshold {
				b.currentCounter = 1
			} else {
				b.currentCounter = len(b.levels[lvl])
			}
			return
		}
	}
}

// Peek returns the same choice TakeOut would make, without removing the
// item or advancing the level/counter state.
func (b *Bag[I]) Peek() (I, bool) {
	if len(b.index) == 0 {
		var zero I
		return zero, false
	}
	lvl := b.currentLevel
	if lvl < 0 || len(b.levels[lvl]) == 0 || b.currentCounter <= 0 {
		// the level advanceLevel would select next, without moving distPos
		lvl = -1
		for i := 0; i < len(b.distributor) && lvl < 0; i++ {
			if cand := b.distributor[(b.distPos+i)%len(b.distributor)]; len(b.levels[cand]) > 0 {
				lvl = cand
			}
		}
	}
	if lvl < 0 {
		var zero I
		return zero, false
	}
	return b.levels[lvl][0], true
}

// PickOut removes and returns the item with the given key, if present.
func (b *Bag[I]) PickOut(key string) (I, bool) {
	item, lvl, ok := b.findByKey(key)
	if !ok {
		var zero I
		return zero, false
	}
	b.removeFromLevel(key, lvl)
	b.mass -= lvl + 1
	return item, true
}

// Get returns the item with the given key without removing it.
func (b *Bag[I]) Get(key string) (I, bool) {
	item, _, ok := b.findByKey(key)
	return item, ok
}

// CheckInvariants verifies the bag's structural invariants (spec.md §4.D,
// §8): name-map size equals sum of level sizes; mass equals
// Σ(level+1)*count. Intended for use under test / debug builds.
func (b *Bag[I]) CheckInvariants() bool {
	total := 0
	mass := 0
	for lvl, bucket := range b.levels {
		total += len(bucket)
		mass += (lvl + 1) * len(bucket)
	}
	return total == len(b.index) && mass == b.mass && len(b.index) <= b.capacity
}

// AveragePriority reports the mean priority across all held items,
// surfaced through INF summary (supplemented from the original
// implementation's bag average_priority, see SPEC_FULL.md §4).
func (b *Bag[I]) AveragePriority() float64 {
	if len(b.index) == 0 {
		return 0
	}
	sum := 0.0
	for _, bucket := range b.levels {
		for _, it := range bucket {
			sum += it.Budget().Priority.Float()
		}
	}
	return sum / float64(len(b.index))
}

// Items returns every held item, in no particular order. Used by
// internal/persist to flatten a bag into a snapshot; not used by any
// reasoning-path code, which always goes through TakeOut/PutIn/PickOut.
func (b *Bag[I]) Items() []I {
	out := make([]I, 0, len(b.index))
	for _, bucket := range b.levels {
		out = append(out, bucket...)
	}
	return out
}

// LevelHistogram reports per-level occupancy counts for the non-empty
// levels, the basis of INF summary's extended introspection payload
// (SPEC_FULL.md §4, grounded on the original's bag_to_display).
func (b *Bag[I]) LevelHistogram() map[int]int {
	h := make(map[int]int)
	for lvl, bucket := range b.levels {
		if len(bucket) > 0 {
			h[lvl] = len(bucket)
		}
	}
	return h
}

// withBudget is implemented per concrete Item type via the Rebudgetable
// interface; bag-internal merge/forget operations need to produce an item
// carrying a new budget without knowing the concrete type's other fields.
type Rebudgetable[I any] interface {
	WithBudget(sf.Budget) I
}

func withBudget[I Item](item I, b sf.Budget) I {
	if r, ok := any(item).(Rebudgetable[I]); ok {
		return r.WithBudget(b)
	}
	return item
}
