package concept

import (
	"github.com/narswright/nars-kernel/internal/bag"
	"github.com/narswright/nars-kernel/internal/sf"
	"github.com/narswright/nars-kernel/internal/term"
)

// Memory is the reasoner's concept bag: the "memory bag" of spec.md §4.F
// reasoner state, keyed by concept term name.
type Memory struct {
	bag     *bag.Bag[*Concept]
	limits  Limits
	initial sf.Budget
	graph   *GraphView
}

// NewMemory constructs the concept memory bag with the given capacity,
// per-concept limits, and the initial budget assigned to freshly created
// concepts (spec.md §4.E get_or_create).
func NewMemory(capacity int, forgetRate, relativeThresh float64, limits Limits, initial sf.Budget) *Memory {
	return &Memory{
		bag:     bag.New[*Concept](capacity, forgetRate, relativeThresh),
		limits:  limits,
		initial: initial,
		graph:   NewGraphView(),
	}
}

// GetOrCreate returns the concept for t, constructing and inserting one if
// absent. It reports the evicted concept, if the insertion caused an
// eviction (spec.md §4.E get_or_create step 2; its content is discarded);
// when the bag rejects the fresh concept itself, that concept is the one
// reported.
func (m *Memory) GetOrCreate(t *term.Term) (c *Concept, evicted *Concept, hadEviction bool) {
	if existing, ok := m.bag.Get(t.Name()); ok {
		return existing, nil, false
	}
	fresh := New(t, m.initial, m.limits)
	ev, had := m.bag.PutIn(fresh)
	m.graph.AddConcept(fresh.Key())
	if had {
		m.graph.RemoveConcept(ev.Key())
	}
	return fresh, ev, had
}

// RecordLink mirrors a just-created task-link or term-link edge between two
// concepts into the graph index, for Reasoner.ReachableConcepts
// (SPEC_FULL.md §3).
func (m *Memory) RecordLink(from, to string) { m.graph.AddLink(from, to) }

// Graph exposes the memory's read-mostly graph index.
func (m *Memory) Graph() *GraphView { return m.graph }

// Get returns the concept for key without creating one.
func (m *Memory) Get(key string) (*Concept, bool) { return m.bag.Get(key) }

// Reinsert stores c back into the memory bag under its current budget
// (used after Activate merges an incoming budget in-place, and for the
// take_out/put_back idiom during concept-fire).
func (m *Memory) Reinsert(c *Concept) { m.bag.PutIn(c) }

// TakeOut removes one concept via the bag's probabilistic distributor
// (spec.md §4.F step 4.a).
func (m *Memory) TakeOut() (*Concept, bool) { return m.bag.TakeOut() }

// PutBack re-inserts a concept after a forgetting decay (spec.md §4.F
// step 4.b: "put_back C immediately so it remains selectable").
func (m *Memory) PutBack(c *Concept) { m.bag.PutBack(c) }

// Concepts returns every concept currently held, for snapshot
// serialization (internal/persist).
func (m *Memory) Concepts() []*Concept { return m.bag.Items() }

// Len, Mass and AveragePriority expose the underlying bag's bookkeeping for
// INF summary reporting.
func (m *Memory) Len() int                    { return m.bag.Len() }
func (m *Memory) Mass() int                   { return m.bag.Mass() }
func (m *Memory) AveragePriority() float64     { return m.bag.AveragePriority() }
func (m *Memory) LevelHistogram() map[int]int  { return m.bag.LevelHistogram() }
func (m *Memory) CheckInvariants() bool        { return m.bag.CheckInvariants() }
