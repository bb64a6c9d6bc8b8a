package sf

import "math"

// Budget is the priority/durability/quality triple attached to every task,
// concept and link. All three components are always valid short-floats by
// construction.
type Budget struct {
	Priority   SF
	Durability SF
	Quality    SF
}

// NewBudget constructs a Budget from three floats, validating each.
func NewBudget(p, d, q float64) (Budget, error) {
	pp, err := New(p)
	if err != nil {
		return Budget{}, err
	}
	dd, err := New(d)
	if err != nil {
		return Budget{}, err
	}
	qq, err := New(q)
	if err != nil {
		return Budget{}, err
	}
	return Budget{Priority: pp, Durability: dd, Quality: qq}, nil
}

// MustBudget is NewBudget but panics on error.
func MustBudget(p, d, q float64) Budget {
	b, err := NewBudget(p, d, q)
	if err != nil {
		panic(err)
	}
	return b
}

// Summary is the geometric mean of the three components, the single number
// used for threshold comparisons (bag level placement uses Priority alone).
func (b Budget) Summary() SF {
	return GeometricMean(b.Priority, b.Durability, b.Quality)
}

// AboveThreshold reports whether the budget's summary meets or exceeds tau.
func (b Budget) AboveThreshold(tau SF) bool {
	return b.Summary().GTE(tau)
}

// Merge returns the componentwise maximum of b and other, used whenever two
// items referring to the same key are combined (bag re-insertion, concept
// activation, duplicate-task merging).
func (b Budget) Merge(other Budget) Budget {
	return Budget{
		Priority:   b.Priority.Max(other.Priority),
		Durability: b.Durability.Max(other.Durability),
		Quality:    b.Quality.Max(other.Quality),
	}
}

// IncPriority/DecPriority/IncDurability/DecDurability/IncQuality/DecQuality
// implement the OR/AND-based "grow"/"shrink" idiom used by direct processing
// (duplicate detection zeroes priority via DecPriority(Zero); solution
// feedback grows priority via IncPriority(quality)).
func (b Budget) IncPriority(v SF) Budget   { b.Priority = b.Priority.Or(v); return b }
func (b Budget) DecPriority(v SF) Budget   { b.Priority = b.Priority.And(v); return b }
func (b Budget) IncDurability(v SF) Budget { b.Durability = b.Durability.Or(v); return b }
func (b Budget) DecDurability(v SF) Budget { b.Durability = b.Durability.And(v); return b }
func (b Budget) IncQuality(v SF) Budget    { b.Quality = b.Quality.Or(v); return b }
func (b Budget) DecQuality(v SF) Budget    { b.Quality = b.Quality.And(v); return b }

// Forget decays priority toward quality*relativeThreshold, preserving
// durability and quality. High durability resists decay; high quality
// raises the asymptotic floor. This is BudgetFunctions.forget from the
// original implementation, reproduced exactly (§4.A).
func (b Budget) Forget(forgetRate, relativeThreshold float64) Budget {
	quality := b.Quality.Float() * relativeThreshold
	p := b.Priority.Float() - quality
	if p > 0 {
		quality += p * math.Pow(b.Durability.Float(), 1.0/(forgetRate*p))
	}
	b.Priority = MustNew(clamp01(quality))
	return b
}

// Activate combines an incoming budget with b: OR for priority, arithmetic
// mean for durability, quality untouched (the original implementation's
// activate). Concept activation uses Merge instead.
func (b Budget) Activate(incoming Budget) Budget {
	b.Priority = b.Priority.Or(incoming.Priority)
	b.Durability = ArithmeticMean(b.Durability, incoming.Durability)
	return b
}

// DistributeAmong returns the budget to use for each of n links created in
// one batch from a single parent budget: priority shrinks by sqrt(n),
// durability and quality are unchanged (§4.E link_to_task).
func (b Budget) DistributeAmong(n int) Budget {
	if n <= 1 {
		return b
	}
	return Budget{
		Priority:   MustNew(clamp01(b.Priority.Float() / math.Sqrt(float64(n)))),
		Durability: b.Durability,
		Quality:    b.Quality,
	}
}
