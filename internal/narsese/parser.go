package narsese

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/narswright/nars-kernel/internal/sf"
	"github.com/narswright/nars-kernel/internal/stamp"
	"github.com/narswright/nars-kernel/internal/term"
)

var opKind = map[string]term.Kind{
	"&": term.IntersectionExt, "|": term.IntersectionInt,
	"-": term.DifferenceExt, "~": term.DifferenceInt,
	"*": term.Product, "/": term.ImageExt, "\\": term.ImageInt,
	"&&": term.Conjunction, "||": term.Disjunction, "--": term.Negation,
}

var copulaKind = map[string]term.Kind{
	"-->": term.Inheritance, "<->": term.Similarity,
	"==>": term.Implication, "<=>": term.Equivalence,
}

// Parsed is one fully parsed Narsese sentence plus its default budget
// (assigned per kind, spec.md §6 NSE), ready to wrap in an input Task.
type Parsed struct {
	Sentence term.Sentence
	Budget   sf.Budget
}

// ParseSentence parses one Narsese sentence (spec.md §6): a term,
// punctuation, optional tense marker, optional truth value, optional
// budget override. The stamp's serial/creation-time come from the caller
// (the reasoner's monotonic counters), since the surface syntax carries no
// serial of its own for fresh input.
func ParseSentence(src string, serial, now uint64) (Parsed, error) {
	toks, err := lex(strings.TrimSpace(src))
	if err != nil {
		return Parsed{}, fmt.Errorf("narsese: %w", err)
	}
	p := &parser{toks: toks}

	t, err := p.parseTerm()
	if err != nil {
		return Parsed{}, fmt.Errorf("narsese: %w", err)
	}
	t = term.Canonicalise(t)

	if p.cur().kind != tokPunct {
		return Parsed{}, fmt.Errorf("narsese: expected punctuation, got %q", p.cur().text)
	}
	punctTok := p.cur().text
	p.advance()

	if p.cur().kind == tokTense {
		p.advance()
	}

	var tv sf.Truth
	hasTruth := false
	if p.cur().kind == tokTruth {
		tv, err = parseTruth(p.cur().text)
		if err != nil {
			return Parsed{}, err
		}
		hasTruth = true
		p.advance()
	}

	budget := defaultBudget(punctTok, hasTruth, tv)
	if p.cur().kind == tokBudget {
		b, err := parseBudget(p.cur().text)
		if err != nil {
			return Parsed{}, err
		}
		budget = b
		p.advance()
	}

	st := stamp.New(serial, now)

	var sentence term.Sentence
	switch punctTok {
	case ".":
		if !hasTruth {
			tv = sf.MustTruth(1.0, 0.9)
		}
		sentence = term.NewJudgement(t, tv, st, true)
	case "?":
		sentence = term.NewQuestion(t, st)
	case "!":
		if !hasTruth {
			tv = sf.MustTruth(1.0, 0.9)
		}
		sentence = term.NewGoal(t, tv, st, true)
	default:
		return Parsed{}, fmt.Errorf("narsese: unknown punctuation %q", punctTok)
	}

	return Parsed{Sentence: sentence, Budget: budget}, nil
}

func defaultBudget(punct string, hasTruth bool, tv sf.Truth) sf.Budget {
	switch punct {
	case ".":
		q := sf.Half
		if hasTruth {
			q = sf.MustNew(1.0 - tv.Expectation())
		}
		return sf.Budget{Priority: sf.MustNew(0.8), Durability: sf.MustNew(0.8), Quality: q}
	case "?":
		return sf.Budget{Priority: sf.MustNew(0.9), Durability: sf.MustNew(0.9), Quality: sf.MustNew(0.9)}
	default:
		return sf.MustBudget(0.8, 0.8, 0.8)
	}
}

func parseTruth(s string) (sf.Truth, error) {
	parts := strings.Split(s, ";")
	if len(parts) != 2 {
		return sf.Truth{}, fmt.Errorf("narsese: malformed truth value %q", s)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return sf.Truth{}, fmt.Errorf("narsese: %w", err)
	}
	c, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return sf.Truth{}, fmt.Errorf("narsese: %w", err)
	}
	return sf.NewTruth(f, c)
}

func parseBudget(s string) (sf.Budget, error) {
	parts := strings.Split(s, ";")
	if len(parts) < 2 || len(parts) > 3 {
		return sf.Budget{}, fmt.Errorf("narsese: malformed budget %q", s)
	}
	vals := make([]float64, 3)
	vals[2] = 0.5 // quality defaults to 0.5 if omitted
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return sf.Budget{}, fmt.Errorf("narsese: %w", err)
		}
		vals[i] = v
	}
	return sf.NewBudget(vals[0], vals[1], vals[2])
}

type parser struct {
	toks   []token
	pos    int
	varIDs map[string]int
}

// ParseTerm parses a bare term with no punctuation, truth or budget —
// used by internal/persist to reconstruct terms from their string
// rendering on snapshot restore.
func ParseTerm(src string) (*term.Term, error) {
	toks, err := lex(strings.TrimSpace(src))
	if err != nil {
		return nil, fmt.Errorf("narsese: %w", err)
	}
	p := &parser{toks: toks}
	t, err := p.parseTerm()
	if err != nil {
		return nil, fmt.Errorf("narsese: %w", err)
	}
	if p.cur().kind != tokEOF {
		return nil, fmt.Errorf("narsese: unexpected trailing token %q", p.cur().text)
	}
	return term.Canonicalise(t), nil
}

func (p *parser) cur() token { return p.toks[p.pos] }
func (p *parser) advance()   { p.pos++ }

func (p *parser) expect(k tokenKind) (token, error) {
	if p.cur().kind != k {
		return token{}, fmt.Errorf("unexpected token %q", p.cur().text)
	}
	t := p.cur()
	p.advance()
	return t, nil
}

// parseTerm dispatches on the lookahead token to one of: statement `<S cop
// P>`, compound `(op,...)`, set `{...}`/`[...]`, or an atom.
func (p *parser) parseTerm() (*term.Term, error) {
	switch p.cur().kind {
	case tokLAngle:
		return p.parseStatement()
	case tokLParen:
		return p.parseCompound()
	case tokLBrace:
		return p.parseSet(tokLBrace, tokRBrace, term.SetExt)
	case tokLBracket:
		return p.parseSet(tokLBracket, tokRBracket, term.SetInt)
	case tokWord:
		w := p.cur().text
		p.advance()
		return term.NewWord(w), nil
	case tokVarIndependent:
		id := p.internVar(term.VarIndependent, p.cur().text)
		p.advance()
		return term.NewVar(term.VarIndependent, id), nil
	case tokVarDependent:
		id := p.internVar(term.VarDependent, p.cur().text)
		p.advance()
		return term.NewVar(term.VarDependent, id), nil
	case tokVarQuery:
		id := p.internVar(term.VarQuery, p.cur().text)
		p.advance()
		return term.NewVar(term.VarQuery, id), nil
	case tokPlaceholder:
		p.advance()
		return term.NewPlaceholder(), nil
	case tokOp:
		if p.cur().text == "--" {
			p.advance()
			inner, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			return term.NewCompound(term.Negation, inner)
		}
	}
	return nil, fmt.Errorf("unexpected token %q while parsing term", p.cur().text)
}

// internVar gives every surface variable token a stable numeric id in
// first-seen order within one ParseSentence call, before Canonicalise
// renumbers per spec.md §3's "first-seen order within the whole term"
// rule; the two renumbering passes compose safely since Canonicalise is
// idempotent on already-canonical ids.
func (p *parser) internVar(kind term.Kind, name string) int {
	if p.varIDs == nil {
		p.varIDs = map[string]int{}
	}
	key := fmt.Sprintf("%d:%s", kind, name)
	if id, ok := p.varIDs[key]; ok {
		return id
	}
	id := len(p.varIDs) + 1
	p.varIDs[key] = id
	return id
}

func (p *parser) parseStatement() (*term.Term, error) {
	if _, err := p.expect(tokLAngle); err != nil {
		return nil, err
	}
	subj, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	cop := p.cur()
	if cop.kind != tokCopula {
		return nil, fmt.Errorf("expected copula, got %q", cop.text)
	}
	p.advance()
	pred, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRAngle); err != nil {
		return nil, err
	}
	kind, ok := copulaKind[cop.text]
	if !ok {
		return nil, fmt.Errorf("unknown copula %q", cop.text)
	}
	return term.NewCompound(kind, subj, pred)
}

func (p *parser) parseCompound() (*term.Term, error) {
	if _, err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	opTok := p.cur()
	if opTok.kind != tokOp {
		return nil, fmt.Errorf("expected connective inside (), got %q", opTok.text)
	}
	p.advance()
	kind, ok := opKind[opTok.text]
	if !ok {
		return nil, fmt.Errorf("unknown connective %q", opTok.text)
	}

	var children []*term.Term
	for p.cur().kind == tokComma {
		p.advance()
		child, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	if kind == term.ImageExt || kind == term.ImageInt {
		idx, rest := extractPlaceholderIndex(children)
		return term.NewImage(kind, idx, rest...)
	}
	return term.NewCompound(kind, children...)
}

// extractPlaceholderIndex finds the placeholder atom's 1-based position
// among an image's operand list and removes it, per spec.md §3 "images
// carry a placeholder index >= 1".
func extractPlaceholderIndex(children []*term.Term) (int, []*term.Term) {
	for i, c := range children {
		if c.Kind == term.Placeholder {
			rest := append([]*term.Term(nil), children[:i]...)
			rest = append(rest, children[i+1:]...)
			return i + 1, rest
		}
	}
	return 0, children
}

func (p *parser) parseSet(open, closeTok tokenKind, kind term.Kind) (*term.Term, error) {
	if _, err := p.expect(open); err != nil {
		return nil, err
	}
	var children []*term.Term
	first, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	children = append(children, first)
	for p.cur().kind == tokComma {
		p.advance()
		c, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		children = append(children, c)
	}
	if _, err := p.expect(closeTok); err != nil {
		return nil, err
	}
	return term.NewCompound(kind, children...)
}
