package reasoner

import (
	"fmt"

	"github.com/narswright/nars-kernel/internal/bag"
	"github.com/narswright/nars-kernel/internal/concept"
	"github.com/narswright/nars-kernel/internal/sf"
	"github.com/narswright/nars-kernel/internal/stamp"
	"github.com/narswright/nars-kernel/internal/term"
)

// Reasoner owns all kernel state and runs the work cycle (spec.md §4.F,
// §5): it is a value-constructible type, not global mutable state — the
// host runtime owns exactly one (spec.md §9 design note).
type Reasoner struct {
	hp Hyperparams

	memory     *concept.Memory
	novelTasks *bag.Bag[taskItem]
	input      []*term.Task

	tick         uint64
	stampSerial  uint64
	silenceFloor sf.SF

	output []Event
}

// New constructs a Reasoner, validating hyperparameters as the
// ConstructionError boundary (spec.md §7).
func New(hp Hyperparams) (*Reasoner, error) {
	if err := hp.Validate(); err != nil {
		return nil, err
	}
	limits := concept.Limits{
		MaxBeliefs:      hp.MaxBeliefLength,
		MaxQuestions:    hp.MaxQuestionLength,
		TermLinkBagSize: hp.ConceptBagSize,
		TaskLinkBagSize: hp.ConceptBagSize,
		ForgetRate:      hp.ForgetRate,
		RelativeThresh:  hp.BudgetThreshold / float64(hp.BagLevel),
		TermLinkRecord:  hp.TermLinkRecordLength,
	}
	initialBudget := sf.MustBudget(0.5, 0.5, 0.5)
	r := &Reasoner{
		hp:           hp,
		memory:       concept.NewMemory(hp.ConceptBagSize, hp.ForgetRate, hp.BudgetThreshold/float64(hp.BagLevel), limits, initialBudget),
		novelTasks:   bag.New[taskItem](hp.NovelTaskBagSize, hp.ForgetRate, hp.BudgetThreshold/float64(hp.BagLevel)),
		silenceFloor: sf.Zero,
	}
	return r, nil
}

// Reset re-initialises all kernel state; tick and stamp-serial counters
// return to zero (spec.md §6 RES command).
func (r *Reasoner) Reset() {
	hp := r.hp
	limits := concept.Limits{
		MaxBeliefs:      hp.MaxBeliefLength,
		MaxQuestions:    hp.MaxQuestionLength,
		TermLinkBagSize: hp.ConceptBagSize,
		TaskLinkBagSize: hp.ConceptBagSize,
		ForgetRate:      hp.ForgetRate,
		RelativeThresh:  hp.BudgetThreshold / float64(hp.BagLevel),
		TermLinkRecord:  hp.TermLinkRecordLength,
	}
	r.memory = concept.NewMemory(hp.ConceptBagSize, hp.ForgetRate, hp.BudgetThreshold/float64(hp.BagLevel), limits, sf.MustBudget(0.5, 0.5, 0.5))
	r.novelTasks = bag.New[taskItem](hp.NovelTaskBagSize, hp.ForgetRate, hp.BudgetThreshold/float64(hp.BagLevel))
	r.input = nil
	r.tick = 0
	r.stampSerial = 0
	r.output = nil
}

// SetSilenceFloor implements the VOL command: outputs with budget summary
// below floor are suppressed (except errors/comments).
func (r *Reasoner) SetSilenceFloor(pct int) {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	r.silenceFloor = sf.MustNew(float64(pct) / 100.0)
}

// Enqueue pushes one input task into the FIFO buffer (spec.md §5: "Input
// commands queue into the input FIFO atomically").
func (r *Reasoner) Enqueue(t *term.Task) error {
	if len(r.input) >= r.hp.TaskBufferSize {
		return fmt.Errorf("reasoner: input buffer at capacity (%d)", r.hp.TaskBufferSize)
	}
	r.input = append(r.input, t)
	return nil
}

// NextStampSerial returns the next monotonically increasing evidential
// serial, consuming it.
func (r *Reasoner) NextStampSerial() uint64 {
	r.stampSerial++
	return r.stampSerial
}

// Tick returns the current tick counter.
func (r *Reasoner) Tick() uint64 { return r.tick }

// StampSerial returns the current stamp-serial counter without consuming
// it, for snapshot serialization.
func (r *Reasoner) StampSerial() uint64 { return r.stampSerial }

// DrainOutput returns and clears the accumulated output events, the
// "shared queue the host drains between cycles" of spec.md §5.
func (r *Reasoner) DrainOutput() []Event {
	out := r.output
	r.output = nil
	return out
}

func (r *Reasoner) emit(e Event) { r.output = append(r.output, e) }

// Hyperparams returns the reasoner's construction-time hyperparameters, for
// snapshot serialization (internal/persist).
func (r *Reasoner) Hyperparams() Hyperparams { return r.hp }

// InputTasks returns the current input FIFO buffer's contents, for snapshot
// serialization. The slice is a copy; mutating it does not affect r.
func (r *Reasoner) InputTasks() []*term.Task {
	return append([]*term.Task(nil), r.input...)
}

// NovelTasks returns every task currently held in the novel-task bag, for
// snapshot serialization.
func (r *Reasoner) NovelTasks() []*term.Task {
	items := r.novelTasks.Items()
	out := make([]*term.Task, len(items))
	for i, it := range items {
		out[i] = it.Task
	}
	return out
}

// Concepts returns every concept currently held in memory, for snapshot
// serialization.
func (r *Reasoner) Concepts() []*concept.Concept { return r.memory.Concepts() }

// Restore repopulates a freshly constructed Reasoner's tick/serial counters
// and re-enqueues snapshot-restored input and novel tasks (spec.md §6 state
// snapshot format). Concept beliefs are not replayed task-by-task (that
// would re-run inference); instead the caller re-inserts concepts directly
// via RestoreConcept before resuming cycles.
func (r *Reasoner) Restore(tick, stampSerial uint64, input, novel []*term.Task) {
	r.tick = tick
	r.stampSerial = stampSerial
	r.input = append([]*term.Task(nil), input...)
	for _, t := range novel {
		r.novelTasks.PutIn(taskItem{t})
	}
}

// RestoreConcept re-inserts a concept reconstructed from a snapshot
// directly into memory, bypassing GetOrCreate's fresh-concept path.
func (r *Reasoner) RestoreConcept(c *concept.Concept) { r.memory.Reinsert(c) }

// Summary reports reasoner-wide bookkeeping for the INF host command,
// including the extended per-level histogram supplemented from the
// original implementation (SPEC_FULL.md §4).
type Summary struct {
	ConceptCount     int
	ConceptMass      int
	AveragePriority  float64
	NovelTaskCount   int
	InputBufferLen   int
	Tick             uint64
	StampSerial      uint64
	LevelHistogram   map[int]int
	GraphOrder       int // concepts created and not evicted, per the concept.GraphView index
}

func (r *Reasoner) Summary() Summary {
	return Summary{
		ConceptCount:    r.memory.Len(),
		ConceptMass:     r.memory.Mass(),
		AveragePriority: r.memory.AveragePriority(),
		NovelTaskCount:  r.novelTasks.Len(),
		InputBufferLen:  len(r.input),
		Tick:            r.tick,
		StampSerial:     r.stampSerial,
		LevelHistogram:  r.memory.LevelHistogram(),
		GraphOrder:      r.memory.Graph().Order(),
	}
}

// ReachableConcepts reports how many concepts are reachable from key by
// following task-link/term-link edges, via the concept.GraphView index
// (SPEC_FULL.md §3); INF summary does not report it.
func (r *Reasoner) ReachableConcepts(key string) int {
	return r.memory.Graph().ReachableCount(key)
}

// findConcept is the LinkTarget callback passed to concept.LinkToTask. It
// acquires (creating if necessary) the concept for a sub-term: NAL's
// concept-mediated chaining requires every structurally-reachable term to
// eventually have a concept, so that a later task sharing that term links
// through it (standard OpenNARS term-link-template behaviour; spec.md's
// "if S has its own concept Cs" is read here as "ensure S has one", since
// link_to_task is exactly the acquisition point — see DESIGN.md).
func (r *Reasoner) findConcept(sub *term.Term) (*concept.Concept, bool) {
	c, evicted, _ := r.memory.GetOrCreate(sub)
	if evicted != nil {
		r.emit(commentEvent(fmt.Sprintf("concept evicted: %s", evicted.Term)))
	}
	r.memory.Reinsert(c)
	return c, true
}

// Cycle runs exactly one work cycle (spec.md §4.F): process new tasks,
// then (if nothing resulted) one novel task, then (if still nothing) fire
// one concept.
func (r *Reasoner) Cycle() {
	r.tick++
	r.emit(commentEvent(fmt.Sprintf("cycle %d", r.tick)))

	producedResult := r.processNewTasks()

	if !producedResult {
		producedResult = r.processOneNovelTask()
	}

	if !producedResult {
		r.fireOneConcept()
	}
}

func (r *Reasoner) processNewTasks() bool {
	n := len(r.input)
	produced := false
	for i := 0; i < n; i++ {
		t := r.input[0]
		r.input = r.input[1:]

		_, conceptExists := r.memory.Get(t.Sentence.Content.Name())
		if t.IsInput || conceptExists {
			if r.immediateProcess(t) {
				produced = true
			}
			continue
		}

		if t.Sentence.Punct == term.Judgement && t.Sentence.Truth.Expectation() > r.hp.CreationExpectation {
			r.novelTasks.PutIn(taskItem{t})
		} else {
			r.emit(commentEvent(fmt.Sprintf("neglected: %s", t.Sentence)))
		}
	}
	return produced
}

func (r *Reasoner) processOneNovelTask() bool {
	item, ok := r.novelTasks.TakeOut()
	if !ok {
		return false
	}
	return r.immediateProcess(item.Task)
}

// immediateProcess creates/activates the task's concept and directly
// processes it (spec.md §4.F step 2), reporting whether a derivation or
// answer resulted.
func (r *Reasoner) immediateProcess(t *term.Task) bool {
	c, evicted, _ := r.memory.GetOrCreate(t.Sentence.Content)
	if evicted != nil {
		r.emit(commentEvent(fmt.Sprintf("concept evicted: %s", evicted.Term)))
	}
	c.Activate(t.Budget)

	result := c.DirectProcess(t, r.tick, r.hp.MaxStampLength, sf.MustNew(r.hp.BudgetThreshold))
	r.memory.Reinsert(c)

	produced := false
	if result.Duplicate {
		return false
	}
	if result.Derived != nil {
		r.emitDerivation(result.Derived)
		produced = true
	}
	for _, ans := range result.Answers {
		if ans.Task.IsInput && sf.MustNew(ans.Candidate.SolutionQuality(ans.Task.Sentence).Float()).GTE(r.silenceFloor) {
			r.emit(answerEvent(ans.Candidate, ans.Task.Key()))
		}
		produced = true
	}

	concept.LinkToTask(c, t, r.findConcept, r.hp.TermLinkRecordLength, r.memory.RecordLink)
	return produced
}

// emitDerivation applies the BUDGET_THRESHOLD/silence-floor gate and either
// pushes the derived task to the input buffer with an OUT event, or drops
// it with a neglected/ignored COMMENT (spec.md §4.F double/single-premise
// task emission).
func (r *Reasoner) emitDerivation(t *term.Task) {
	if !t.Budget.AboveThreshold(sf.MustNew(r.hp.BudgetThreshold)) {
		r.emit(commentEvent(fmt.Sprintf("neglected derivation: %s", t.Sentence)))
		return
	}
	if err := r.Enqueue(t); err != nil {
		r.emit(commentEvent(fmt.Sprintf("ignored derivation (buffer full): %s", t.Sentence)))
		return
	}
	if t.Budget.Summary().GTE(r.silenceFloor) {
		r.emit(outEvent(t.Sentence))
	}
}

// fireOneConcept implements spec.md §4.F step 4: select a concept, select
// a task-link, select up to MAX_REASONED_TERM_LINK novel term-links, and
// invoke the rule-table dispatcher for each pairing.
func (r *Reasoner) fireOneConcept() {
	c, ok := r.memory.TakeOut()
	if !ok {
		return
	}
	r.memory.PutBack(c)

	tl, ok := c.TaskLinks.TakeOut()
	if !ok {
		return
	}

	for i := 0; i < r.hp.MaxReasonedTermLink; i++ {
		l, ok := r.selectNovelTermLink(c, tl)
		if !ok {
			break
		}
		r.reasonPair(c, tl, l)
		c.TermLinks.PutIn(l)
	}
	c.TaskLinks.PutIn(tl)
}

func (r *Reasoner) selectNovelTermLink(c *concept.Concept, tl *concept.TaskLink) (*concept.TermLink, bool) {
	for attempts := 0; attempts < c.TermLinks.Len(); attempts++ {
		l, ok := c.TermLinks.TakeOut()
		if !ok {
			return nil, false
		}
		if tl.Novel(l.Key(), int64(r.tick)) {
			return l, true
		}
		c.TermLinks.PutIn(l)
	}
	return nil, false
}

// reasonPair sets up the derivation context for one (task-link, term-link)
// pairing and invokes the rule table (spec.md §4.F step 4.e).
func (r *Reasoner) reasonPair(c *concept.Concept, tl *concept.TaskLink, l *concept.TermLink) {
	task := tl.Target
	targetConcept, ok := r.memory.Get(l.Target.Name())
	if !ok {
		return
	}
	belief, ok := targetConcept.BestBeliefNotOverlapping(task.Sentence.Stamp)
	if !ok {
		return
	}

	derived, ok := Reason(task.Sentence, belief)
	if !ok {
		return
	}

	merged, ok := stamp.FromMerge(task.Sentence.Stamp, belief.Stamp, r.tick, r.hp.MaxStampLength)
	if !ok {
		return // evidential cycle: silently abort (spec.md §4.F, §7 InvalidDerivation)
	}
	derived.Stamp = merged

	derivedBudget := DerivedBudget(task.Budget, tl.Budget(), l.Budget())
	newTask := term.NewDerivedTask(derived, derivedBudget, task, &belief)
	r.emitDerivation(newTask)
}
