package term

import "github.com/narswright/nars-kernel/internal/sf"

// Task is the kernel's unit of work: a sentence plus its budget and
// derivation provenance. Tasks are held by pointer everywhere (parent links
// form a DAG of shared references, never copies) per spec.md §3/§9.
type Task struct {
	Sentence     Sentence
	Budget       sf.Budget
	ParentTask   *Task
	ParentBelief *Sentence
	BestSolution *Sentence
	IsInput      bool
}

// NewTask constructs an input task (no parents).
func NewTask(s Sentence, b sf.Budget) *Task {
	return &Task{Sentence: s, Budget: b, IsInput: true}
}

// NewDerivedTask constructs a task derived from a parent task and (for
// two-premise derivations) a parent belief.
func NewDerivedTask(s Sentence, b sf.Budget, parent *Task, parentBelief *Sentence) *Task {
	return &Task{Sentence: s, Budget: b, ParentTask: parent, ParentBelief: parentBelief}
}

// Key identifies the task for task-link/novelty bookkeeping: its sentence's
// belief-table key.
func (t *Task) Key() string { return t.Sentence.Key() }
