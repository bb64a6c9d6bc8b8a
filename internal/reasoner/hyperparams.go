// Package reasoner implements the top-level work cycle: draining input
// tasks, processing the novel-task buffer, firing one concept per cycle,
// dispatching the rule table, and emitting output events (spec.md §4.F).
package reasoner

import "fmt"

// Hyperparams bundles every tunable named throughout spec.md §4, mirrored
// by internal/config's Reasoner section.
type Hyperparams struct {
	BagLevel             int
	BagThreshold         int
	ConceptBagSize       int
	NovelTaskBagSize     int
	TaskBufferSize       int
	MaxStampLength       int
	MaxBeliefLength      int
	MaxQuestionLength    int
	TermLinkRecordLength int
	MaxReasonedTermLink  int
	EvidentialHorizon    float64
	ForgetRate           float64
	CreationExpectation  float64
	BudgetThreshold      float64
	SilenceFloor         float64
}

// DefaultHyperparams returns the kernel's documented defaults (spec.md
// §3/§4, e.g. MAX_STAMP_LENGTH=8, TERM_LINK_RECORD_LENGTH=10,
// MAX_REASONED_TERM_LINK=3, CREATION_EXPECTATION=0.66,
// BUDGET_THRESHOLD=0.01).
func DefaultHyperparams() Hyperparams {
	return Hyperparams{
		BagLevel:             100,
		BagThreshold:         10,
		ConceptBagSize:       1000,
		NovelTaskBagSize:     100,
		TaskBufferSize:       100,
		MaxStampLength:       8,
		MaxBeliefLength:      7,
		MaxQuestionLength:    5,
		TermLinkRecordLength: 10,
		MaxReasonedTermLink:  3,
		EvidentialHorizon:    1.0,
		ForgetRate:           1.0,
		CreationExpectation:  0.66,
		BudgetThreshold:      0.01,
		SilenceFloor:         0.0,
	}
}

// Validate is the kernel's ConstructionError boundary (spec.md §7):
// hyperparameters out of valid range are rejected before a Reasoner is
// built.
func (h Hyperparams) Validate() error {
	checks := []struct {
		name string
		ok   bool
	}{
		{"BagLevel", h.BagLevel > 0},
		{"ConceptBagSize", h.ConceptBagSize > 0},
		{"NovelTaskBagSize", h.NovelTaskBagSize > 0},
		{"TaskBufferSize", h.TaskBufferSize > 0},
		{"MaxStampLength", h.MaxStampLength > 0},
		{"MaxBeliefLength", h.MaxBeliefLength > 0},
		{"MaxQuestionLength", h.MaxQuestionLength > 0},
		{"TermLinkRecordLength", h.TermLinkRecordLength > 0},
		{"MaxReasonedTermLink", h.MaxReasonedTermLink > 0},
		{"EvidentialHorizon", h.EvidentialHorizon > 0},
		{"ForgetRate", h.ForgetRate > 0},
		{"CreationExpectation", h.CreationExpectation >= 0 && h.CreationExpectation <= 1},
		{"BudgetThreshold", h.BudgetThreshold >= 0 && h.BudgetThreshold <= 1},
		{"SilenceFloor", h.SilenceFloor >= 0 && h.SilenceFloor <= 1},
	}
	for _, c := range checks {
		if !c.ok {
			return fmt.Errorf("reasoner: construction error: hyperparameter %s out of valid range", c.name)
		}
	}
	return nil
}
