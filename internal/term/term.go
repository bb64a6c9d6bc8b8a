// Package term implements the structural/semantic term and sentence model
// the reasoning kernel indexes and compares by: atomic words and variables,
// compound connectives, canonicalisation (commutative sorting, variable
// renumbering) and the structural operations the kernel consumes (§4.C).
package term

import (
	"fmt"
	"sort"
	"strings"
)

// Kind tags every term variant, atomic and compound.
type Kind int

const (
	Word Kind = iota
	Placeholder
	VarIndependent
	VarDependent
	VarQuery
	Interval

	Negation
	SetExt
	SetInt
	IntersectionExt
	IntersectionInt
	DifferenceExt
	DifferenceInt
	Product
	ImageExt
	ImageInt
	Conjunction
	Disjunction
	SequentialConjunction
	ParallelConjunction
	Inheritance
	Similarity
	Implication
	Equivalence
)

var kindNames = map[Kind]string{
	Word: "word", Placeholder: "_", VarIndependent: "$", VarDependent: "#", VarQuery: "?",
	Interval: "interval", Negation: "--", SetExt: "{}", SetInt: "[]",
	IntersectionExt: "&", IntersectionInt: "|", DifferenceExt: "-", DifferenceInt: "~",
	Product: "*", ImageExt: "/", ImageInt: "\\", Conjunction: "&&", Disjunction: "||",
	SequentialConjunction: "&/", ParallelConjunction: "&|", Inheritance: "-->",
	Similarity: "<->", Implication: "==>", Equivalence: "<=>",
}

// commutative is the set of connectives whose children are stored in
// canonical sorted order with duplicates removed (spec.md §3).
var commutative = map[Kind]bool{
	SetExt: true, SetInt: true, IntersectionExt: true, IntersectionInt: true,
	Similarity: true, Equivalence: true, Conjunction: true, Disjunction: true,
	ParallelConjunction: true,
}

var statementKinds = map[Kind]bool{
	Inheritance: true, Similarity: true, Implication: true, Equivalence: true,
}

// Term is a recursively defined structural object. Atomic terms carry Word
// (a literal name) or VarID (a post-normalisation numeric id); compound
// terms carry Children and, for images, PlaceholderIndex.
type Term struct {
	Kind             Kind
	Word             string
	VarID            int
	PlaceholderIndex int // images only; >=1
	Children         []*Term

	name string // memoised canonical key, set by the constructors
}

// NewWord constructs an atomic word term.
func NewWord(w string) *Term {
	t := &Term{Kind: Word, Word: w}
	t.name = w
	return t
}

// NewPlaceholder constructs the image placeholder atom "_".
func NewPlaceholder() *Term {
	return &Term{Kind: Placeholder, name: "_"}
}

// NewVar constructs a variable atom of the given kind (VarIndependent,
// VarDependent or VarQuery) with an already-normalised numeric id.
func NewVar(kind Kind, id int) *Term {
	t := &Term{Kind: kind, VarID: id}
	t.name = fmt.Sprintf("%s%d", kindNames[kind], id)
	return t
}

// NewCompound constructs a compound term from its connective and children,
// applying canonical sorting/dedup for commutative connectives. The result
// is normalised (name computed) but variable renumbering, which requires
// whole-term context, is applied separately by Canonicalise.
func NewCompound(kind Kind, children ...*Term) (*Term, error) {
	if len(children) == 0 {
		return nil, fmt.Errorf("term: compound %s has no children", kindNames[kind])
	}
	cs := append([]*Term(nil), children...)
	if commutative[kind] {
		cs = dedupSort(cs)
		if len(cs) == 0 {
			return nil, fmt.Errorf("term: compound %s is empty after dedup", kindNames[kind])
		}
	}
	t := &Term{Kind: kind, Children: cs}
	t.name = computeName(kind, 0, cs)
	return t, nil
}

// NewImage constructs an image term with an explicit placeholder index
// (>=1; index 0 degenerates to a Product per spec.md §3).
func NewImage(kind Kind, placeholderIndex int, children ...*Term) (*Term, error) {
	if placeholderIndex == 0 {
		return NewCompound(Product, children...)
	}
	if placeholderIndex < 1 || placeholderIndex > len(children)+1 {
		return nil, fmt.Errorf("term: image placeholder index %d out of range", placeholderIndex)
	}
	t := &Term{Kind: kind, Children: append([]*Term(nil), children...), PlaceholderIndex: placeholderIndex}
	t.name = computeName(kind, placeholderIndex, t.Children)
	return t, nil
}

func dedupSort(cs []*Term) []*Term {
	sort.Slice(cs, func(i, j int) bool { return cs[i].Name() < cs[j].Name() })
	out := cs[:0:0]
	var prev string
	for i, c := range cs {
		if i == 0 || c.Name() != prev {
			out = append(out, c)
		}
		prev = c.Name()
	}
	return out
}

func computeName(kind Kind, placeholderIdx int, children []*Term) string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(kindNames[kind])
	if placeholderIdx > 0 {
		fmt.Fprintf(&b, "/%d", placeholderIdx)
	}
	for _, c := range children {
		b.WriteByte(',')
		b.WriteString(c.Name())
	}
	b.WriteByte(')')
	return b.String()
}

// Name is the canonical structural/semantic string key used for equality,
// hashing and concept lookup.
func (t *Term) Name() string { return t.name }

// Equal is structural equality on canonical names.
func (t *Term) Equal(o *Term) bool { return t.name == o.name }

// IsCompound reports whether t has children (i.e. is not an atom).
func (t *Term) IsCompound() bool { return len(t.Children) > 0 }

// IsStatement reports whether t is one of the four copula kinds.
func (t *Term) IsStatement() bool { return statementKinds[t.Kind] }

// IsCommutative reports whether t's connective stores children unordered.
func (t *Term) IsCommutative() bool { return commutative[t.Kind] }

// IsVariable reports whether t is any of the three variable atom kinds.
func (t *Term) IsVariable() bool {
	return t.Kind == VarIndependent || t.Kind == VarDependent || t.Kind == VarQuery
}

// ContainsQueryVar reports whether t or any descendant is a query variable.
func (t *Term) ContainsQueryVar() bool {
	if t.Kind == VarQuery {
		return true
	}
	for _, c := range t.Children {
		if c.ContainsQueryVar() {
			return true
		}
	}
	return false
}

// Complexity is 1 for atoms (incl. variables), 0 for the placeholder, and
// 1+Σcomplexity(child) for compounds (spec.md §3).
func (t *Term) Complexity() int {
	if t.Kind == Placeholder {
		return 0
	}
	if len(t.Children) == 0 {
		return 1
	}
	sum := 1
	for _, c := range t.Children {
		sum += c.Complexity()
	}
	return sum
}

// Subterm returns the descendant at the given index path (empty path
// returns t itself), or nil if the path is invalid.
func (t *Term) Subterm(path []int) *Term {
	cur := t
	for _, i := range path {
		if i < 0 || i >= len(cur.Children) {
			return nil
		}
		cur = cur.Children[i]
	}
	return cur
}

// Replace returns a new term with the subterm at path replaced by repl,
// recomputing names (and re-sorting, for commutative connectives) along the
// path back to the root.
func (t *Term) Replace(path []int, repl *Term) (*Term, error) {
	if len(path) == 0 {
		return repl, nil
	}
	i := path[0]
	if i < 0 || i >= len(t.Children) {
		return nil, fmt.Errorf("term: replace index %d out of range", i)
	}
	child, err := t.Children[i].Replace(path[1:], repl)
	if err != nil {
		return nil, err
	}
	newChildren := append([]*Term(nil), t.Children...)
	newChildren[i] = child
	if t.PlaceholderIndex > 0 {
		return NewImage(t.Kind, t.PlaceholderIndex, newChildren...)
	}
	return NewCompound(t.Kind, newChildren...)
}

// String renders the term in a Narsese-like surface form for diagnostics
// and output payloads; it is not the parser's inverse for every edge case.
func (t *Term) String() string {
	switch t.Kind {
	case Word:
		return t.Word
	case Placeholder:
		return "_"
	case VarIndependent, VarDependent, VarQuery:
		return fmt.Sprintf("%s%d", kindNames[t.Kind], t.VarID)
	case Interval:
		return fmt.Sprintf("+%d", t.VarID)
	}
	if t.IsStatement() {
		return fmt.Sprintf("<%s %s %s>", t.Children[0], kindNames[t.Kind], t.Children[1])
	}
	parts := make([]string, len(t.Children))
	for i, c := range t.Children {
		parts[i] = c.String()
	}
	switch t.Kind {
	case SetExt:
		return "{" + strings.Join(parts, ",") + "}"
	case SetInt:
		return "[" + strings.Join(parts, ",") + "]"
	case Negation:
		return "(--," + strings.Join(parts, ",") + ")"
	}
	return "(" + kindNames[t.Kind] + "," + strings.Join(parts, ",") + ")"
}
