package sf

// Truth is a NAL truth value: a frequency/confidence pair plus an "analytic"
// flag marking truth derived by a structural (non-evidential) rule.
// Revision does not consult the flag. Truth values are immutable once
// derived.
type Truth struct {
	Frequency  SF
	Confidence SF
	Analytic   bool
}

// NewTruth constructs a Truth value, validating both components.
func NewTruth(f, c float64) (Truth, error) {
	ff, err := New(f)
	if err != nil {
		return Truth{}, err
	}
	cc, err := New(c)
	if err != nil {
		return Truth{}, err
	}
	return Truth{Frequency: ff, Confidence: cc}, nil
}

// MustTruth is NewTruth but panics on error.
func MustTruth(f, c float64) Truth {
	t, err := NewTruth(f, c)
	if err != nil {
		panic(err)
	}
	return t
}

// Expectation returns c*(f-1/2)+1/2, the kernel's single-number estimate of
// "how likely is this true", used for answer ranking and novel-task intake.
func (t Truth) Expectation() float64 {
	return t.Confidence.Float()*(t.Frequency.Float()-0.5) + 0.5
}

// and is the variadic short-float AND (product), used throughout the
// NAL 1.5.8 truth-function formulas below.
func and(vs ...SF) SF {
	r := One
	for _, v := range vs {
		r = r.Mul(v)
	}
	return r
}

// or is the variadic short-float OR, likewise used by the truth functions.
func or(vs ...SF) SF {
	r := Zero
	for _, v := range vs {
		r = r.Or(v)
	}
	return r
}

const defaultHorizon = 1.0

// w2cDefault applies W2C with the kernel's default evidential horizon of 1,
// matching OpenNARS's default k=1 used inside the truth-function table
// (distinct from the reasoner's configurable EvidentialHorizon, which these
// formulas do not read).
func w2cDefault(w SF) SF {
	return W2C(w.Float(), defaultHorizon)
}

// Revision combines two non-overlapping judgements of identical content into
// a single, more confident belief (§4.F direct processing, §8 scenario 4).
func Revision(a, b Truth) Truth {
	w1 := C2W(a.Confidence, defaultHorizon)
	w2 := C2W(b.Confidence, defaultHorizon)
	w := w1 + w2
	f := (w1*a.Frequency.Float() + w2*b.Frequency.Float()) / w
	c := w / (w + defaultHorizon)
	return Truth{
		Frequency:  MustNew(clamp01(f)),
		Confidence: MustNew(clamp01(c)),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Deduction: strong syllogism, <A-->B>,<B-->C> |- <A-->C>.
func Deduction(t1, t2 Truth) Truth {
	f := and(t1.Frequency, t2.Frequency)
	c := and(f, t1.Confidence, t2.Confidence)
	return Truth{Frequency: f, Confidence: c}
}

// Analogy: <A-->B>,<B<->C> |- <A-->C>, weighted toward the similarity's
// frequency.
func Analogy(t1, t2 Truth) Truth {
	f := and(t1.Frequency, t2.Frequency)
	c := and(t2.Frequency, t1.Confidence, t2.Confidence)
	return Truth{Frequency: f, Confidence: c}
}

// Resemblance: <A<->B>,<B<->C> |- <A<->C>.
func Resemblance(t1, t2 Truth) Truth {
	f := and(t1.Frequency, t2.Frequency)
	c := and(or(t1.Frequency, t2.Frequency), t1.Confidence, t2.Confidence)
	return Truth{Frequency: f, Confidence: c}
}

// Abduction: <A-->B>,<A-->C> |- <C-->B>, weak (evidence-limited) inference.
func Abduction(t1, t2 Truth) Truth {
	w := and(t1.Frequency, t1.Confidence, t2.Confidence)
	c := w2cDefault(w)
	return Truth{Frequency: t2.Frequency, Confidence: c}
}

// Induction: <A-->B>,<C-->B> |- <A-->C>; the mirror image of Abduction.
func Induction(t1, t2 Truth) Truth {
	return Abduction(t2, t1)
}

// Exemplification: <A-->B>,<B-->C> |- <C-->A>, the weakest syllogism.
func Exemplification(t1, t2 Truth) Truth {
	w := and(t1.Frequency, t2.Frequency, t1.Confidence, t2.Confidence)
	return Truth{Frequency: One, Confidence: w2cDefault(w)}
}

// Comparison: <A-->B>,<A-->C> |- <B<->C>.
func Comparison(t1, t2 Truth) Truth {
	f0 := or(t1.Frequency, t2.Frequency)
	var f SF
	if f0.Equal(Zero) {
		f = Zero
	} else {
		f = and(t1.Frequency, t2.Frequency).Div(f0)
	}
	w := and(f0, t1.Confidence, t2.Confidence)
	return Truth{Frequency: f, Confidence: w2cDefault(w)}
}

// Negation: --S has truth (1-f, c) of S.
func Negation(t Truth) Truth {
	return Truth{Frequency: t.Frequency.Not(), Confidence: t.Confidence}
}

// Conversion: from <S-->P> derive <P-->S> (weak, structural).
func Conversion(t Truth) Truth {
	w := and(t.Frequency, t.Confidence)
	return Truth{Frequency: One, Confidence: w2cDefault(w)}
}

// Contraposition: from <S==>P> derive <(--,P)==>(--,S)>.
func Contraposition(t Truth) Truth {
	w := and(t.Frequency.Not(), t.Confidence)
	return Truth{Frequency: Zero, Confidence: w2cDefault(w)}
}

// Intersection: extensional/intensional set intersection truth.
func Intersection(t1, t2 Truth) Truth {
	return Truth{Frequency: and(t1.Frequency, t2.Frequency), Confidence: and(t1.Confidence, t2.Confidence)}
}

// Union: extensional/intensional set union truth.
func Union(t1, t2 Truth) Truth {
	return Truth{Frequency: or(t1.Frequency, t2.Frequency), Confidence: and(t1.Confidence, t2.Confidence)}
}

// Difference: extensional/intensional set difference truth.
func Difference(t1, t2 Truth) Truth {
	return Truth{Frequency: and(t1.Frequency, t2.Frequency.Not()), Confidence: and(t1.Confidence, t2.Confidence)}
}

// ReduceConjunction: eliminate a known-true conjunct, combining the
// conjunction's truth with the component's truth via deduction's shape.
func ReduceConjunction(compound, component Truth) Truth {
	return Deduction(compound, component)
}

// ReduceDisjunction: eliminate a known-false disjunct; mirrors
// ReduceConjunction under negation.
func ReduceDisjunction(compound, component Truth) Truth {
	return Negation(Deduction(Negation(compound), component))
}

// AnalyticTruth marks a Truth as structurally (non-evidentially) derived.
// Revision treats marked and unmarked truth values alike.
func AnalyticTruth(t Truth) Truth {
	t.Analytic = true
	return t
}
