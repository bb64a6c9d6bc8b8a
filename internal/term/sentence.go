package term

import (
	"fmt"

	"github.com/narswright/nars-kernel/internal/sf"
	"github.com/narswright/nars-kernel/internal/stamp"
)

// Punctuation is the sentence's speech-act kind.
type Punctuation int

const (
	Judgement Punctuation = iota
	Question
	Goal
)

func (p Punctuation) String() string {
	switch p {
	case Judgement:
		return "."
	case Question:
		return "?"
	case Goal:
		return "!"
	}
	return "?"
}

// Sentence pairs a term with its speech act, evidence and (for judgements
// and goals) truth value (spec.md §3).
type Sentence struct {
	Content     *Term
	Punct       Punctuation
	Stamp       stamp.Stamp
	Truth       sf.Truth // zero value unused for Question
	HasTruth    bool
	Revisable   bool
}

// NewJudgement constructs a judgement sentence.
func NewJudgement(content *Term, tv sf.Truth, st stamp.Stamp, revisable bool) Sentence {
	return Sentence{Content: content, Punct: Judgement, Stamp: st, Truth: tv, HasTruth: true, Revisable: revisable}
}

// NewQuestion constructs a question sentence (no truth).
func NewQuestion(content *Term, st stamp.Stamp) Sentence {
	return Sentence{Content: content, Punct: Question, Stamp: st}
}

// NewGoal constructs a goal sentence.
func NewGoal(content *Term, tv sf.Truth, st stamp.Stamp, revisable bool) Sentence {
	return Sentence{Content: content, Punct: Goal, Stamp: st, Truth: tv, HasTruth: true, Revisable: revisable}
}

// Key is the belief-table identity key: content, punctuation and truth
// rounded to two decimal places (spec.md §3) — sentences differing only in
// stamp or exact truth precision beyond 2dp are the same belief-table slot.
func (s Sentence) Key() string {
	if !s.HasTruth {
		return fmt.Sprintf("%s|%s", s.Content.Name(), s.Punct)
	}
	return fmt.Sprintf("%s|%s|%s;%s", s.Content.Name(), s.Punct, s.Truth.Frequency.Brief(), s.Truth.Confidence.Brief())
}

// Rank is the belief-list ordering key: confidence OR'd with
// 1/(|stamp.base|+1), favouring both high confidence and short evidential
// bases (spec.md §3).
func (s Sentence) Rank() sf.SF {
	lengthFactor := sf.MustNew(1.0 / float64(len(s.Stamp.Base)+1))
	return s.Truth.Confidence.Or(lengthFactor)
}

// SolutionQuality scores s as a candidate answer to question q: the truth
// expectation if q's content contains a query variable, else the
// confidence (spec.md §4.F try_solution).
func (s Sentence) SolutionQuality(q Sentence) sf.SF {
	if q.Content.ContainsQueryVar() {
		return sf.MustNew(s.Truth.Expectation())
	}
	return s.Truth.Confidence
}

func (s Sentence) String() string {
	if !s.HasTruth {
		return fmt.Sprintf("%s%s", s.Content, s.Punct)
	}
	return fmt.Sprintf("%s%s %%%s;%s%%", s.Content, s.Punct, s.Truth.Frequency.Brief(), s.Truth.Confidence.Brief())
}
