// Package persist implements spec.md §6's "state snapshot format": a
// serialisable rendering of a Reasoner's full state (hyperparameters,
// tick, stamp-serial, input buffer, novel-task bag, memory bag) behind a
// pluggable Backend, selected by internal/config's Storage section
// (SPEC_FULL.md §3). Three backends are provided: an in-memory store and
// a SQLite-backed row store (this package), and a Neo4j-backed
// property-graph store (internal/persist/graphstore).
package persist

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/narswright/nars-kernel/internal/concept"
	"github.com/narswright/nars-kernel/internal/narsese"
	"github.com/narswright/nars-kernel/internal/reasoner"
	"github.com/narswright/nars-kernel/internal/sf"
	"github.com/narswright/nars-kernel/internal/stamp"
	"github.com/narswright/nars-kernel/internal/term"
)

// TaskRecord is one task flattened for serialization. SerialID/ParentID
// are stable per-load ids minted by google/uuid at snapshot-write time
// (runtime task identity remains the tick-based stamp serial; these ids
// exist only to let deserialisation coalesce shared parent-task
// references back into a single pointer, per spec.md §6).
type TaskRecord struct {
	SerialID     string
	ParentID     string // "" if an input task (no parent)
	ParentBelief string // parent belief rendered as Narsese text, "" if single-premise
	Sentence     string // full Narsese rendering (content+punct+truth)
	StampBase    []uint64
	StampTime    uint64
	Priority     float64
	Durability   float64
	Quality      float64
	IsInput      bool
}

// BeliefRecord is one concept belief flattened for serialization.
type BeliefRecord struct {
	Content    string // bare term rendering
	Frequency  float64
	Confidence float64
	StampBase  []uint64
	StampTime  uint64
	Revisable  bool
}

// ConceptRecord is one concept flattened for serialization; task-link and
// term-link bags are not replayed (see DESIGN.md) — they rebuild
// structurally as derived tasks flow back through the restored concepts.
type ConceptRecord struct {
	Term       string
	Priority   float64
	Durability float64
	Quality    float64
	Beliefs    []BeliefRecord
}

// Snapshot is the full serialisable reasoner state, in the declaration
// order spec.md §6 names: hyperparameters, tick, stamp-serial, input
// buffer, novel-task bag, memory bag. Tasks is the shared pool every
// Input/NovelTasks entry (and every ParentID) references by SerialID, so
// that a task shared as both an input-buffer entry and another task's
// parent is written once and coalesced on restore.
type Snapshot struct {
	Hyperparams reasoner.Hyperparams
	Tick        uint64
	StampSerial uint64
	Tasks       []TaskRecord
	Input       []string // SerialIDs into Tasks
	NovelTasks  []string // SerialIDs into Tasks
	Concepts    []ConceptRecord
}

// Backend persists and restores a Snapshot. Implementations: memoryBackend
// and sqliteBackend (this package), graphstore.Backend (Neo4j).
type Backend interface {
	Save(Snapshot) error
	Load() (Snapshot, error)
	Close() error
}

// Capture flattens a live Reasoner into a Snapshot.
func Capture(r *reasoner.Reasoner) Snapshot {
	s := Snapshot{
		Hyperparams: r.Hyperparams(),
		Tick:        r.Tick(),
		StampSerial: r.StampSerial(),
	}
	rec := &recorder{ids: map[*term.Task]string{}}
	for _, t := range r.InputTasks() {
		s.Input = append(s.Input, rec.recordTask(&s, t))
	}
	for _, t := range r.NovelTasks() {
		s.NovelTasks = append(s.NovelTasks, rec.recordTask(&s, t))
	}
	for _, c := range r.Concepts() {
		s.Concepts = append(s.Concepts, conceptToRecord(c))
	}
	return s
}

// recorder assigns each distinct *term.Task a stable uuid and records it
// into the snapshot's shared Tasks pool exactly once, so the same pointer
// reached via two different paths (e.g. a task's ParentTask and the
// input buffer) serializes to one record referenced twice.
type recorder struct {
	ids map[*term.Task]string
}

func (rc *recorder) recordTask(s *Snapshot, t *term.Task) string {
	if id, ok := rc.ids[t]; ok {
		return id
	}
	id := uuid.New().String()
	rc.ids[t] = id

	var parentID string
	if t.ParentTask != nil {
		parentID = rc.recordTask(s, t.ParentTask)
	}

	tr := TaskRecord{
		SerialID:   id,
		ParentID:   parentID,
		Sentence:   narsese.Format(t.Sentence),
		StampBase:  append([]uint64(nil), t.Sentence.Stamp.Base...),
		StampTime:  t.Sentence.Stamp.CreationTime,
		Priority:   t.Budget.Priority.Float(),
		Durability: t.Budget.Durability.Float(),
		Quality:    t.Budget.Quality.Float(),
		IsInput:    t.IsInput,
	}
	if t.ParentBelief != nil {
		tr.ParentBelief = narsese.Format(*t.ParentBelief)
	}
	s.Tasks = append(s.Tasks, tr)
	return id
}

func conceptToRecord(c *concept.Concept) ConceptRecord {
	b := c.Budget()
	rec := ConceptRecord{
		Term:       c.Term.String(),
		Priority:   b.Priority.Float(),
		Durability: b.Durability.Float(),
		Quality:    b.Quality.Float(),
	}
	for _, belief := range c.Beliefs {
		rec.Beliefs = append(rec.Beliefs, BeliefRecord{
			Content:    belief.Content.String(),
			Frequency:  belief.Truth.Frequency.Float(),
			Confidence: belief.Truth.Confidence.Float(),
			StampBase:  append([]uint64(nil), belief.Stamp.Base...),
			StampTime:  belief.Stamp.CreationTime,
			Revisable:  belief.Revisable,
		})
	}
	return rec
}

// Restore rebuilds r's state from s. r must be freshly constructed (via
// reasoner.New) so its bags start empty; restored concepts take their
// per-concept limits from s.Hyperparams.
func Restore(r *reasoner.Reasoner, s Snapshot) error {
	built := map[string]*term.Task{}
	byID := map[string]TaskRecord{}
	for _, tr := range s.Tasks {
		byID[tr.SerialID] = tr
	}
	var build func(id string) (*term.Task, error)
	build = func(id string) (*term.Task, error) {
		if t, ok := built[id]; ok {
			return t, nil
		}
		tr, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("persist: dangling task reference %q", id)
		}
		t, err := recordToTask(tr)
		if err != nil {
			return nil, err
		}
		built[id] = t
		if tr.ParentID != "" {
			parent, err := build(tr.ParentID)
			if err != nil {
				return nil, err
			}
			t.ParentTask = parent
		}
		return t, nil
	}

	resolve := func(ids []string) ([]*term.Task, error) {
		out := make([]*term.Task, 0, len(ids))
		for _, id := range ids {
			t, err := build(id)
			if err != nil {
				return nil, err
			}
			out = append(out, t)
		}
		return out, nil
	}

	input, err := resolve(s.Input)
	if err != nil {
		return fmt.Errorf("persist: restoring input buffer: %w", err)
	}
	novel, err := resolve(s.NovelTasks)
	if err != nil {
		return fmt.Errorf("persist: restoring novel tasks: %w", err)
	}
	r.Restore(s.Tick, s.StampSerial, input, novel)

	limits := concept.Limits{
		MaxBeliefs:      s.Hyperparams.MaxBeliefLength,
		MaxQuestions:    s.Hyperparams.MaxQuestionLength,
		TermLinkBagSize: s.Hyperparams.ConceptBagSize,
		TaskLinkBagSize: s.Hyperparams.ConceptBagSize,
		ForgetRate:      s.Hyperparams.ForgetRate,
		RelativeThresh:  s.Hyperparams.BudgetThreshold / float64(s.Hyperparams.BagLevel),
		TermLinkRecord:  s.Hyperparams.TermLinkRecordLength,
	}
	for _, cr := range s.Concepts {
		c, err := recordToConcept(cr, limits)
		if err != nil {
			return fmt.Errorf("persist: restoring concept %q: %w", cr.Term, err)
		}
		r.RestoreConcept(c)
	}
	return nil
}

func recordToTask(rec TaskRecord) (*term.Task, error) {
	parsed, err := narsese.ParseSentence(rec.Sentence, 0, rec.StampTime)
	if err != nil {
		return nil, fmt.Errorf("parsing sentence %q: %w", rec.Sentence, err)
	}
	sentence := parsed.Sentence
	sentence.Stamp = stamp.Stamp{Base: append([]uint64(nil), rec.StampBase...), CreationTime: rec.StampTime}
	budget := sf.MustBudget(rec.Priority, rec.Durability, rec.Quality)

	t := term.NewTask(sentence, budget)
	t.IsInput = rec.IsInput
	if rec.ParentBelief != "" {
		pb, err := narsese.ParseSentence(rec.ParentBelief, 0, rec.StampTime)
		if err != nil {
			return nil, fmt.Errorf("parsing parent belief %q: %w", rec.ParentBelief, err)
		}
		t.ParentBelief = &pb.Sentence
	}
	return t, nil
}

func recordToConcept(rec ConceptRecord, limits concept.Limits) (*concept.Concept, error) {
	t, err := narsese.ParseTerm(rec.Term)
	if err != nil {
		return nil, fmt.Errorf("parsing term %q: %w", rec.Term, err)
	}
	budget := sf.MustBudget(rec.Priority, rec.Durability, rec.Quality)
	c := concept.New(t, budget, limits)

	for _, br := range rec.Beliefs {
		content, err := narsese.ParseTerm(br.Content)
		if err != nil {
			return nil, fmt.Errorf("parsing belief content %q: %w", br.Content, err)
		}
		st := stamp.Stamp{Base: append([]uint64(nil), br.StampBase...), CreationTime: br.StampTime}
		tv := sf.MustTruth(br.Frequency, br.Confidence)
		belief := term.NewJudgement(content, tv, st, br.Revisable)
		c.Beliefs = append(c.Beliefs, belief)
	}
	return c, nil
}
