package concept

import (
	"github.com/narswright/nars-kernel/internal/sf"
	"github.com/narswright/nars-kernel/internal/term"
)

// subtermSite is one (path, subterm) pair visited while walking a term for
// link creation.
type subtermSite struct {
	path         []int
	sub          *term.Term
	parentIsCond bool
}

// collectSites walks t depth-first, recording every proper sub-term and
// whether that sub-term is itself the antecedent of an implication, at any
// depth, whose antecedent is a conjunction or a statement (the
// "conditional" shape spec.md §4.E names: `(&&, ...) ==> P` or
// `Cond ==> P`).
func collectSites(t *term.Term) []subtermSite {
	var sites []subtermSite
	var walk func(cur *term.Term, path []int, parentIsCond bool)
	walk = func(cur *term.Term, path []int, parentIsCond bool) {
		if len(path) > 0 {
			sites = append(sites, subtermSite{path: append([]int(nil), path...), sub: cur, parentIsCond: parentIsCond})
		}
		isCondParent := cur.Kind == term.Implication && len(cur.Children) > 0 &&
			(cur.Children[0].Kind == term.Conjunction || cur.Children[0].IsStatement())
		for i, child := range cur.Children {
			childIsCond := isCondParent && i == 0
			walk(child, append(path, i), childIsCond)
		}
	}
	walk(t, nil, false)
	return sites
}

// LinkTarget is a callback the reasoner supplies so linking can obtain the
// concept for a given sub-term; linking itself creates no concept, but the
// callback may (the reasoner's findConcept creates any that is missing).
// Sub-terms for which it reports false get no link.
type LinkTarget func(sub *term.Term) (*Concept, bool)

// LinkToTask implements spec.md §4.E link_to_task: given a just-accepted
// task t with term T inside concept c, creates a Self task-link plus, for
// every sub-term for which findConcept returns a concept, a Component*/Compound*
// task-link into that concept and a reciprocal term-link back to c.
// Budgets are distributed across the whole batch via DistributeAmong.
// onLink, if non-nil, is notified of every concept-to-concept edge created
// (c's key, then the sub-concept's key), so a caller can mirror the link
// graph into a secondary index (internal/concept.Memory's GraphView).
func LinkToTask(c *Concept, t *term.Task, findConcept LinkTarget, recordLen int, onLink func(from, to string)) {
	sites := collectSites(t.Sentence.Content)
	n := 1 // the Self link always counts
	var targets []subtermSite
	for _, s := range sites {
		if cs, ok := findConcept(s.sub); ok && cs != c {
			targets = append(targets, s)
			_ = cs
		}
	}
	n += len(targets)
	batchBudget := t.Budget.DistributeAmong(n)

	selfLink := newTaskLink(t, Self, nil, batchBudget, recordLen)
	c.TaskLinks.PutIn(selfLink)

	for _, s := range targets {
		cs, _ := findConcept(s.sub)
		typ := classifyLink(t.Sentence.Content, s.sub, s.path, s.parentIsCond)

		tl := newTaskLink(t, typ, s.path, batchBudget, recordLen)
		cs.TaskLinks.PutIn(tl)

		backLink := newTermLink(c.Term, typ, s.path, batchBudget)
		cs.TermLinks.PutIn(backLink)

		if onLink != nil {
			onLink(c.Key(), cs.Key())
		}
	}
}

// DistributeBudget exposes sf.Budget.DistributeAmong for callers outside
// this package that need the identical splitting rule (e.g. tests).
func DistributeBudget(b sf.Budget, n int) sf.Budget { return b.DistributeAmong(n) }
