package reasoner

import (
	"github.com/narswright/nars-kernel/internal/sf"
	"github.com/narswright/nars-kernel/internal/term"
)

// Reason is the rule-table dispatcher (spec.md §4.F): given the current
// task's sentence and the selected belief, it picks one of the syllogistic
// rules based on the shape of their content terms and
// returns the derived sentence (stamp unset — the caller merges stamps).
// ok is false when no rule in the table applies, or the derived term would
// be invalid (spec.md §4.F "Checks content validity").
//
// This implements the syllogistic core (deduction/induction/abduction,
// conditional detachment with variable substitution) and question-driven
// backward derivation needed to cover spec.md §8's end-to-end scenarios.
// The full rule table (compositional set rules, variable introduction,
// structural transforms) is not exhaustively reproduced; see DESIGN.md for
// the scoping decision.
func Reason(task, belief term.Sentence) (term.Sentence, bool) {
	if task.Punct == term.Question {
		return reasonBackward(task, belief)
	}
	if !task.HasTruth || !belief.HasTruth {
		return term.Sentence{}, false
	}

	if derived, tv, ok := conditionalDetachment(task, belief); ok {
		return finishJudgement(derived, tv, task, belief), true
	}

	tc, bc := task.Content, belief.Content
	if !tc.IsStatement() || !bc.IsStatement() || tc.Kind != term.Inheritance || bc.Kind != term.Inheritance {
		return term.Sentence{}, false
	}
	ta, tb := tc.Children[0], tc.Children[1]
	ba, bb := bc.Children[0], bc.Children[1]

	switch {
	case tb.Equal(ba) && !invalidStatement(ta, bb):
		derived, err := term.NewCompound(term.Inheritance, ta, bb)
		if err != nil {
			return term.Sentence{}, false
		}
		return finishJudgement(derived, sf.Deduction(task.Truth, belief.Truth), task, belief), true
	case ta.Equal(bb) && !invalidStatement(ba, tb):
		derived, err := term.NewCompound(term.Inheritance, ba, tb)
		if err != nil {
			return term.Sentence{}, false
		}
		return finishJudgement(derived, sf.Deduction(belief.Truth, task.Truth), task, belief), true
	case tb.Equal(bb) && !invalidStatement(ta, ba):
		derived, err := term.NewCompound(term.Inheritance, ta, ba)
		if err != nil {
			return term.Sentence{}, false
		}
		return finishJudgement(derived, sf.Induction(task.Truth, belief.Truth), task, belief), true
	case ta.Equal(ba) && !invalidStatement(tb, bb):
		derived, err := term.NewCompound(term.Inheritance, tb, bb)
		if err != nil {
			return term.Sentence{}, false
		}
		return finishJudgement(derived, sf.Abduction(task.Truth, belief.Truth), task, belief), true
	}

	return term.Sentence{}, false
}

// invalidStatement rejects the tautologies spec.md §4.F names: <A-->A> and
// a statement whose subject is a direct component of its predicate or vice
// versa (<A-->[A]>).
func invalidStatement(a, b *term.Term) bool {
	if a.Equal(b) {
		return true
	}
	for _, c := range b.Children {
		if c.Equal(a) {
			return true
		}
	}
	for _, c := range a.Children {
		if c.Equal(b) {
			return true
		}
	}
	return false
}

func finishJudgement(content *term.Term, tv sf.Truth, task, belief term.Sentence) term.Sentence {
	return term.Sentence{
		Content:   content,
		Punct:     term.Judgement,
		Truth:     tv,
		HasTruth:  true,
		Revisable: task.Revisable && belief.Revisable,
	}
}

// conditionalDetachment implements spec.md §4.F's "conditional deduction
// with variable": from belief <<$x-->A> ==> <$x-->B>> and task <C-->A>,
// derive <C-->B> by unifying the antecedent's variable with C.
func conditionalDetachment(task, belief term.Sentence) (*term.Term, sf.Truth, bool) {
	impl := belief.Content
	cand := task.Content
	if impl.Kind != term.Implication {
		impl, cand = task.Content, belief.Content
	}
	if impl.Kind != term.Implication || len(impl.Children) != 2 {
		return nil, sf.Truth{}, false
	}
	ant, cons := impl.Children[0], impl.Children[1]
	if ant.Kind != term.Inheritance || cons.Kind != term.Inheritance {
		return nil, sf.Truth{}, false
	}
	antVar, antPred := ant.Children[0], ant.Children[1]
	if !antVar.IsVariable() {
		return nil, sf.Truth{}, false
	}
	if cand.Kind != term.Inheritance || !cand.Children[1].Equal(antPred) {
		return nil, sf.Truth{}, false
	}
	binding := cand.Children[0]

	consSubj, consPred := cons.Children[0], cons.Children[1]
	if !consSubj.Equal(antVar) {
		return nil, sf.Truth{}, false
	}
	derived, err := term.NewCompound(term.Inheritance, binding, consPred)
	if err != nil {
		return nil, sf.Truth{}, false
	}

	var antTruth, candTruth sf.Truth
	if impl.Equal(belief.Content) {
		antTruth, candTruth = belief.Truth, task.Truth
	} else {
		antTruth, candTruth = task.Truth, belief.Truth
	}
	return derived, sf.Deduction(candTruth, antTruth), true
}

// reasonBackward handles a question task paired against a judgement
// belief: when both share the statement's predicate and the question's
// subject is a variable, derive the sub-question <question subject -->
// belief subject> (spec.md §4.F step 4.e "current task = TL.target... invoke the
// rule-table dispatcher"; §8 scenario 3 backward deduction). No truth
// value is computed for structural backward derivation (spec.md §4.F
// "leaves None for backward/question derivation").
func reasonBackward(task, belief term.Sentence) (term.Sentence, bool) {
	if !belief.HasTruth {
		return term.Sentence{}, false
	}
	tc, bc := task.Content, belief.Content
	if tc.Kind != term.Inheritance || bc.Kind != term.Inheritance {
		return term.Sentence{}, false
	}
	tSubj, tPred := tc.Children[0], tc.Children[1]
	bSubj, bPred := bc.Children[0], bc.Children[1]

	if tPred.Equal(bPred) && tSubj.IsVariable() && !invalidStatement(tSubj, bSubj) {
		derived, err := term.NewCompound(term.Inheritance, tSubj, bSubj)
		if err != nil {
			return term.Sentence{}, false
		}
		return term.Sentence{Content: derived, Punct: term.Question, Revisable: true}, true
	}
	return term.Sentence{}, false
}

// DerivedBudget computes the derived task's budget from the current
// task-link and term-link budgets, following the forward-rule variant of
// spec.md §4.F: geometric mean of the task's, task-link's and term-link's
// priorities, durability/quality carried from the task-link.
func DerivedBudget(taskBudget, tlBudget, tlinkBudget sf.Budget) sf.Budget {
	priority := sf.GeometricMean(taskBudget.Priority, tlBudget.Priority, tlinkBudget.Priority)
	return sf.Budget{Priority: priority, Durability: tlBudget.Durability, Quality: tlBudget.Quality}
}
