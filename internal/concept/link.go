package concept

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/narswright/nars-kernel/internal/sf"
	"github.com/narswright/nars-kernel/internal/term"
)

// TaskLinkType classifies a task-link by where the task's term sits
// relative to the owning concept's term (spec.md §3 task-link).
type TaskLinkType int

const (
	Self TaskLinkType = iota
	Component
	Compound
	ComponentStatement
	CompoundStatement
	ComponentCondition
	CompoundCondition
)

// TermLinkType is the analogous 7-variant classification for term-links.
type TermLinkType = TaskLinkType

func pathString(path []int) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ".")
}

// TaskLink points from a concept to a task, at an index path within the
// task's term, with its own budget and novelty record.
type TaskLink struct {
	TaskKey   string
	Target    *term.Task
	Type      TaskLinkType
	IndexPath []int
	budget    sf.Budget
	novelty   *novelty
}

func newTaskLink(target *term.Task, typ TaskLinkType, path []int, b sf.Budget, recordLen int) *TaskLink {
	return &TaskLink{
		TaskKey:   target.Key(),
		Target:    target,
		Type:      typ,
		IndexPath: path,
		budget:    b,
		novelty:   newNovelty(recordLen),
	}
}

// Key is "<task-key>_<type>_<index-path>" per spec.md §3.
func (l *TaskLink) Key() string {
	return fmt.Sprintf("%s_%d_%s", l.TaskKey, l.Type, pathString(l.IndexPath))
}

func (l *TaskLink) Budget() sf.Budget { return l.budget }

func (l *TaskLink) WithBudget(b sf.Budget) *TaskLink {
	cp := *l
	cp.budget = b
	return &cp
}

// Novel reports whether termLinkKey has not been recently used by this
// task-link, per the bounded TTL record (spec.md §4.E novelty filter).
func (l *TaskLink) Novel(termLinkKey string, now int64) bool {
	return l.novelty.check(termLinkKey, now)
}

// TermLink points from a concept to a term belonging to another concept.
type TermLink struct {
	TermKey   string
	Target    *term.Term
	Type      TermLinkType
	IndexPath []int
	budget    sf.Budget
}

func newTermLink(target *term.Term, typ TermLinkType, path []int, b sf.Budget) *TermLink {
	return &TermLink{TermKey: target.Name(), Target: target, Type: typ, IndexPath: path, budget: b}
}

// Key is "<term-key>_<type>_<index-path>" per spec.md §3.
func (l *TermLink) Key() string {
	return fmt.Sprintf("%s_%d_%s", l.TermKey, l.Type, pathString(l.IndexPath))
}

func (l *TermLink) Budget() sf.Budget { return l.budget }

func (l *TermLink) WithBudget(b sf.Budget) *TermLink {
	cp := *l
	cp.budget = b
	return &cp
}

// classifyLink determines a link's type from the shape of the outer term,
// the containing component's position, and whether the component is the
// condition of a conditional implication (spec.md §4.E link_to_task). outer
// is the concept's own term; sub is the descendant at path; parentIsCond
// reports whether sub is itself the antecedent of a `(&&,...) ==> P` or
// `Cond ==> P` implication inside outer, at any depth.
func classifyLink(outer, sub *term.Term, path []int, parentIsCond bool) TaskLinkType {
	if len(path) == 0 {
		return Self
	}
	outerIsStatement := outer.IsStatement()
	subIsCompound := sub.IsCompound()

	switch {
	case parentIsCond && outerIsStatement && subIsCompound:
		return CompoundCondition
	case parentIsCond && outerIsStatement:
		return ComponentCondition
	case outerIsStatement && subIsCompound:
		return CompoundStatement
	case outerIsStatement:
		return ComponentStatement
	case subIsCompound:
		return Compound
	default:
		return Component
	}
}
