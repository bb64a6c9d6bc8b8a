// Package concept implements the concept/task-link/term-link graph that
// localises inference (spec.md §3/§4.E): concept acquisition, activation,
// direct processing of judgements and questions, link creation and the
// novelty filter.
package concept

import (
	"sort"

	"github.com/narswright/nars-kernel/internal/bag"
	"github.com/narswright/nars-kernel/internal/sf"
	"github.com/narswright/nars-kernel/internal/stamp"
	"github.com/narswright/nars-kernel/internal/term"
)

// Limits bundles the capacity hyperparameters a Concept needs at
// construction (mirrors internal/config's Reasoner section).
type Limits struct {
	MaxBeliefs      int
	MaxQuestions    int
	TermLinkBagSize int
	TaskLinkBagSize int
	ForgetRate      float64
	RelativeThresh  float64
	TermLinkRecord  int
}

// Concept owns, for a single term, its beliefs, questions, and the
// task-link/term-link bags that localise inference to it (spec.md §3).
// Questions are held as task pointers (not copies) so try_solution's
// best_solution/budget updates persist on the original input question.
type Concept struct {
	Term   *term.Term
	budget sf.Budget

	TermLinks *bag.Bag[*TermLink]
	TaskLinks *bag.Bag[*TaskLink]

	Beliefs   []term.Sentence
	Questions []*term.Task

	limits Limits
}

// New constructs a concept for t with the kernel's initial concept budget
// (spec.md §4.E get_or_create step 2).
func New(t *term.Term, initial sf.Budget, limits Limits) *Concept {
	return &Concept{
		Term:      t,
		budget:    initial,
		TermLinks: bag.New[*TermLink](limits.TermLinkBagSize, limits.ForgetRate, limits.RelativeThresh),
		TaskLinks: bag.New[*TaskLink](limits.TaskLinkBagSize, limits.ForgetRate, limits.RelativeThresh),
		limits:    limits,
	}
}

// Key is the Concept's bag identity: t.Name().
func (c *Concept) Key() string       { return c.Term.Name() }
func (c *Concept) Budget() sf.Budget { return c.budget }

func (c *Concept) WithBudget(b sf.Budget) *Concept {
	c.budget = b
	return c
}

// Activate merges an incoming budget into the concept's own (componentwise
// max, sf.Budget.Merge) per spec.md §4.E Activation.
func (c *Concept) Activate(incoming sf.Budget) {
	c.budget = c.budget.Merge(incoming)
}

// Answer records one try_solution success: the question task that now has
// a (possibly updated) best solution, and the candidate belief that
// produced it. The reasoner decides, from VOL/silence-floor state and
// t.IsInput, whether to emit an ANSWER output.
type Answer struct {
	Task      *term.Task
	Candidate term.Sentence
}

// DirectResult reports what direct processing of a task produced: at most
// one derived task (from revision) and zero or more answers (a fresh
// judgement can resolve any number of pending questions).
type DirectResult struct {
	Derived   *term.Task
	Answers   []Answer
	Duplicate bool
}

// DirectProcess runs spec.md §4.E's direct-processing algorithm for task T
// (already activated into this concept) and updates the concept's belief
// or question lists in place.
func (c *Concept) DirectProcess(t *term.Task, now uint64, maxStampLen int, budgetThreshold sf.SF) DirectResult {
	if t.Sentence.Punct == term.Question {
		return c.directProcessQuestion(t)
	}
	return c.directProcessJudgement(t, now, maxStampLen, budgetThreshold)
}

func (c *Concept) directProcessJudgement(t *term.Task, now uint64, maxStampLen int, budgetThreshold sf.SF) DirectResult {
	j := t.Sentence

	best, bestIdx := c.bestBeliefOfContent(j.Content)

	if bestIdx >= 0 && best.Stamp.Equal(j.Stamp) {
		t.Budget = t.Budget.DecPriority(sf.Zero)
		return DirectResult{Duplicate: true}
	}

	var derived *term.Task
	if bestIdx >= 0 && revisable(j, best) && !j.Stamp.Overlap(best.Stamp) {
		if merged, ok := stamp.FromMerge(j.Stamp, best.Stamp, now, maxStampLen); ok {
			rt := sf.Revision(j.Truth, best.Truth)
			sentence := term.NewJudgement(j.Content, rt, merged, j.Revisable && best.Revisable)
			derivedBelief := best
			derived = term.NewDerivedTask(sentence, t.Budget, t, &derivedBelief)
		}
	}

	result := DirectResult{Derived: derived}
	if t.Budget.AboveThreshold(budgetThreshold) {
		result.Answers = c.answerPendingQuestions(j)
		c.insertBelief(j)
	}
	return result
}

// answerPendingQuestions tries j against every pending question in C
// (spec.md §4.E step 4.E.3 "try to answer every pending question Q in C
// using J").
func (c *Concept) answerPendingQuestions(j term.Sentence) []Answer {
	var answers []Answer
	for _, q := range c.Questions {
		if TrySolution(j, q) {
			answers = append(answers, Answer{Task: q, Candidate: j})
		}
	}
	return answers
}

func (c *Concept) directProcessQuestion(t *term.Task) DirectResult {
	q := t.Sentence
	for _, existing := range c.Questions {
		if existing.Sentence.Content.Equal(q.Content) {
			return DirectResult{}
		}
	}

	result := DirectResult{}
	if best, idx := c.bestBeliefForQuestion(q); idx >= 0 {
		if TrySolution(best, t) {
			result.Answers = []Answer{{Task: t, Candidate: best}}
		}
	}

	c.Questions = append(c.Questions, t)
	if len(c.Questions) > c.limits.MaxQuestions {
		c.Questions = c.Questions[1:]
	}
	return result
}

func (c *Concept) bestBeliefOfContent(content *term.Term) (term.Sentence, int) {
	bestIdx := -1
	var best term.Sentence
	var bestRank sf.SF
	for i, b := range c.Beliefs {
		if !b.Content.Equal(content) {
			continue
		}
		if bestIdx < 0 || b.Rank().GTE(bestRank) {
			best, bestIdx, bestRank = b, i, b.Rank()
		}
	}
	return best, bestIdx
}

func (c *Concept) bestBeliefForQuestion(q term.Sentence) (term.Sentence, int) {
	bestIdx := -1
	var best term.Sentence
	var bestQuality sf.SF
	for i, b := range c.Beliefs {
		quality := b.SolutionQuality(q)
		if bestIdx < 0 || quality.GTE(bestQuality) {
			best, bestIdx, bestQuality = b, i, quality
		}
	}
	return best, bestIdx
}

// TrySolution implements spec.md §4.F try_solution: updates q's best
// solution if candidate outranks the previous one and reports whether it
// did (the caller decides, from VOL/silence-floor state, whether an ANSWER
// output should be emitted). Feedback per spec.md §4.F: the question task's
// priority grows by the solution quality.
func TrySolution(candidate term.Sentence, q *term.Task) bool {
	quality := candidate.SolutionQuality(q.Sentence)
	if q.BestSolution != nil && quality.Compare(q.BestSolution.SolutionQuality(q.Sentence)) <= 0 {
		return false
	}
	cp := candidate
	q.BestSolution = &cp
	q.Budget = q.Budget.IncPriority(quality)
	return true
}

func revisable(a, b term.Sentence) bool {
	return a.Revisable && b.Revisable
}

// insertBelief inserts j preserving descending-rank order, capped at
// limits.MaxBeliefs (spec.md §3 Concept, §8 invariant).
func (c *Concept) insertBelief(j term.Sentence) {
	c.Beliefs = append(c.Beliefs, j)
	sort.SliceStable(c.Beliefs, func(i, k int) bool {
		return c.Beliefs[i].Rank().Compare(c.Beliefs[k].Rank()) > 0
	})
	if len(c.Beliefs) > c.limits.MaxBeliefs {
		c.Beliefs = c.Beliefs[:c.limits.MaxBeliefs]
	}
}

// BestBeliefNotOverlapping returns the highest-rank belief whose stamp does
// not overlap excl, used when firing selects the current belief for a
// term-link target concept (spec.md §4.F step 4.e).
func (c *Concept) BestBeliefNotOverlapping(excl stamp.Stamp) (term.Sentence, bool) {
	bestIdx := -1
	var best term.Sentence
	var bestRank sf.SF
	for i, b := range c.Beliefs {
		if b.Stamp.Overlap(excl) {
			continue
		}
		if bestIdx < 0 || b.Rank().GTE(bestRank) {
			best, bestIdx, bestRank = b, i, b.Rank()
		}
	}
	return best, bestIdx >= 0
}
