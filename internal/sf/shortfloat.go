// Package sf implements fixed-point short-floats and the truth/budget value
// types built on top of them.
//
// A ShortFloat is a value in [0, 1] with four-decimal precision, stored
// internally as an integer in 0..=10000 so that repeated arithmetic during a
// reasoning cycle never accumulates floating-point drift. All arithmetic
// saturates at construction time; out-of-range floats are rejected by New
// and accepted (clamped) only by the unchecked constructors used internally
// by derivation code that has already validated its inputs.
package sf

import (
	"fmt"
	"math"
)

// shortMax is the integer corresponding to 1.0.
const shortMax = 10000

// SF is a short-float: a fixed-point real in [0, 1] with four-decimal
// precision. The zero value is 0.0.
type SF struct {
	v uint32 // 0..=10000
}

// Zero, Half and One are the short-float constants used throughout the
// kernel (e.g. as default truth/budget components).
var (
	Zero = SF{0}
	Half = SF{shortMax / 2}
	One  = SF{shortMax}
)

// New constructs a short-float from a float64 in [0, 1]. It returns an error
// if the value is out of range, matching the kernel's policy that invalid
// truth/budget construction is a caller bug, not something to silently clamp.
func New(v float64) (SF, error) {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return SF{}, fmt.Errorf("sf: value %v out of range [0,1]", v)
	}
	return SF{v: uint32(math.Round(v * shortMax))}, nil
}

// MustNew is New but panics on error; for constants and tests.
func MustNew(v float64) SF {
	s, err := New(v)
	if err != nil {
		panic(err)
	}
	return s
}

// NewUnchecked constructs a short-float from a value already known to be a
// valid 0..=10000 short integer, e.g. the result of an SF arithmetic
// operation closed over the valid range.
func NewUnchecked(short uint32) SF {
	if short > shortMax {
		short = shortMax
	}
	return SF{v: short}
}

// Float returns the value as a float64.
func (s SF) Float() float64 { return float64(s.v) / shortMax }

// Short returns the raw 0..=10000 integer representation.
func (s SF) Short() uint32 { return s.v }

// IsValid reports whether the short-float's raw value is in range. Since SF
// is normally only constructed through New/NewUnchecked this is always true
// for values produced by this package; it exists as the kernel-facing
// invariant check named in spec (budget validity).
func (s SF) IsValid() bool { return s.v <= shortMax }

// Add returns s + o, saturating at 1.0.
func (s SF) Add(o SF) SF {
	sum := s.v + o.v
	if sum > shortMax {
		sum = shortMax
	}
	return SF{v: sum}
}

// Sub returns s - o, saturating at 0.0 (never negative).
func (s SF) Sub(o SF) SF {
	if o.v > s.v {
		return SF{v: 0}
	}
	return SF{v: s.v - o.v}
}

// Mul returns s * o (logical AND).
func (s SF) Mul(o SF) SF {
	return SF{v: uint32((uint64(s.v) * uint64(o.v)) / shortMax)}
}

// Div returns s / o, saturating at 1.0. Panics if o is zero; callers in
// this kernel only divide by confidences/weights known to be non-zero.
func (s SF) Div(o SF) SF {
	if o.v == 0 {
		panic("sf: division by zero")
	}
	q := (uint64(s.v) * shortMax) / uint64(o.v)
	if q > shortMax {
		q = shortMax
	}
	return SF{v: uint32(q)}
}

// Not returns the logical complement 1 - s.
func (s SF) Not() SF { return SF{v: shortMax - s.v} }

// And is logical AND (multiplication).
func (s SF) And(o SF) SF { return s.Mul(o) }

// Or is logical OR: a + b - ab.
func (s SF) Or(o SF) SF {
	prod := (uint64(s.v) * uint64(o.v)) / shortMax
	return SF{v: uint32(uint64(s.v) + uint64(o.v) - prod)}
}

// Max returns the greater of s and o (used by merge semantics).
func (s SF) Max(o SF) SF {
	if o.v > s.v {
		return o
	}
	return s
}

// Root returns s^(1/n), used by geometric mean.
func (s SF) Root(n int) SF {
	return MustNew(math.Pow(s.Float(), 1.0/float64(n)))
}

// Compare returns -1, 0, 1 for s<o, s==o, s>o.
func (s SF) Compare(o SF) int {
	switch {
	case s.v < o.v:
		return -1
	case s.v > o.v:
		return 1
	default:
		return 0
	}
}

// Equal reports exact equality of the underlying fixed-point value.
func (s SF) Equal(o SF) bool { return s.v == o.v }

// GTE reports s >= o.
func (s SF) GTE(o SF) bool { return s.v >= o.v }

// W2C converts an evidence weight w into a confidence value using the
// global evidential horizon H: c = w/(w+H).
func W2C(w, horizon float64) SF {
	return MustNew(w / (w + horizon))
}

// C2W is the inverse of W2C: w = H*c/(1-c).
func C2W(c SF, horizon float64) float64 {
	cf := c.Float()
	if cf >= 1 {
		return math.Inf(1)
	}
	return horizon * cf / (1 - cf)
}

// String renders the short-float in full four-decimal form, e.g. "0.1024"
// or "1.0000". This mirrors the original implementation's full-precision
// display form.
func (s SF) String() string {
	if s.v == shortMax {
		return "1.0000"
	}
	return fmt.Sprintf("0.%04d", s.v)
}

// Brief renders the short-float rounded to two decimal places, e.g. "0.10".
// Values that round up to 1.0 are displayed as "1.00".
func (s SF) Brief() string {
	rounded := s.v + 50
	if rounded >= shortMax {
		return "1.00"
	}
	return fmt.Sprintf("0.%02d", rounded/100)
}

// GeometricMean computes the geometric mean of a set of short-floats, used
// by Budget.Summary.
func GeometricMean(values ...SF) SF {
	product := 1.0
	for _, v := range values {
		product *= v.Float()
	}
	return MustNew(math.Pow(product, 1.0/float64(len(values))))
}

// ArithmeticMean computes the arithmetic mean, used by concept activation's
// durability averaging.
func ArithmeticMean(values ...SF) SF {
	sum := 0.0
	for _, v := range values {
		sum += v.Float()
	}
	return MustNew(sum / float64(len(values)))
}
