// Package narsese implements the ASCII surface syntax (spec.md §6): atoms,
// compounds, set brackets, statement brackets, punctuation, stamps,
// budgets and truth values. Parsing/formatting are explicitly external
// collaborators to the reasoning kernel (spec.md §1), consumed only
// through internal/term's construction API.
package narsese

import (
	"fmt"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokWord tokenKind = iota
	tokVarIndependent
	tokVarDependent
	tokVarQuery
	tokPlaceholder
	tokLParen
	tokRParen
	tokLBrace
	tokRBrace
	tokLBracket
	tokRBracket
	tokLAngle
	tokRAngle
	tokComma
	tokOp
	tokCopula
	tokPunct
	tokTense
	tokBudget
	tokTruth
	tokEOF
)

type token struct {
	kind tokenKind
	text string
}

// lex tokenises s. It is a small hand-rolled scanner, grounded on the
// teacher's style of using the standard library directly for text
// processing rather than a parser-combinator library (none of the example
// repos pull one in for a format this small).
func lex(s string) ([]token, error) {
	var toks []token
	i := 0
	n := len(s)
	for i < n {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '(':
			toks = append(toks, token{tokLParen, "("})
			i++
		case c == ')':
			toks = append(toks, token{tokRParen, ")"})
			i++
		case c == '{':
			toks = append(toks, token{tokLBrace, "{"})
			i++
		case c == '}':
			toks = append(toks, token{tokRBrace, "}"})
			i++
		case c == '[':
			toks = append(toks, token{tokLBracket, "["})
			i++
		case c == ']':
			toks = append(toks, token{tokRBracket, "]"})
			i++
		case c == ',':
			toks = append(toks, token{tokComma, ","})
			i++
		case c == '<':
			if strings.HasPrefix(s[i:], "<->") {
				toks = append(toks, token{tokCopula, "<->"})
				i += 3
			} else if strings.HasPrefix(s[i:], "<=>") {
				toks = append(toks, token{tokCopula, "<=>"})
				i += 3
			} else {
				toks = append(toks, token{tokLAngle, "<"})
				i++
			}
		case c == '>':
			toks = append(toks, token{tokRAngle, ">"})
			i++
		case strings.HasPrefix(s[i:], "-->"):
			toks = append(toks, token{tokCopula, "-->"})
			i += 3
		case strings.HasPrefix(s[i:], "==>"):
			toks = append(toks, token{tokCopula, "==>"})
			i += 3
		case strings.HasPrefix(s[i:], "&&"):
			toks = append(toks, token{tokOp, "&&"})
			i += 2
		case strings.HasPrefix(s[i:], "||"):
			toks = append(toks, token{tokOp, "||"})
			i += 2
		case strings.HasPrefix(s[i:], "--") && !isIdentStart(peekAt(s, i+2)):
			toks = append(toks, token{tokOp, "--"})
			i += 2
		case c == '&' || c == '|' || c == '-' || c == '~' || c == '*' || c == '/' || c == '\\':
			toks = append(toks, token{tokOp, string(c)})
			i++
		case strings.HasPrefix(s[i:], ":|:"):
			toks = append(toks, token{tokTense, ":|:"})
			i += 3
		case c == '?' && isIdentStart(peekAt(s, i+1)):
			start := i + 1
			k := start
			for k < n && isIdentPart(s[k]) {
				k++
			}
			toks = append(toks, token{tokVarQuery, s[start:k]})
			i = k
		case c == '.' || c == '?' || c == '!':
			toks = append(toks, token{tokPunct, string(c)})
			i++
		case c == '$' && i+1 < n && isIdentStart(s[i+1]):
			// "$name" is an independent variable, even when a budget
			// "$...$" follows later on the same line
			start := i + 1
			k := start
			for k < n && isIdentPart(s[k]) {
				k++
			}
			toks = append(toks, token{tokVarIndependent, s[start:k]})
			i = k
		case c == '$':
			j := strings.IndexByte(s[i+1:], '$')
			if j < 0 {
				// standalone "$" prefixes an independent variable name
				start := i + 1
				k := start
				for k < n && isIdentPart(s[k]) {
					k++
				}
				toks = append(toks, token{tokVarIndependent, s[start:k]})
				i = k
				continue
			}
			toks = append(toks, token{tokBudget, s[i+1 : i+1+j]})
			i += j + 2
		case c == '%':
			j := strings.IndexByte(s[i+1:], '%')
			if j < 0 {
				return nil, fmt.Errorf("narsese: unterminated truth value at %d", i)
			}
			toks = append(toks, token{tokTruth, s[i+1 : i+1+j]})
			i += j + 2
		case c == '#':
			start := i + 1
			k := start
			for k < n && isIdentPart(s[k]) {
				k++
			}
			toks = append(toks, token{tokVarDependent, s[start:k]})
			i = k
		case c == '_':
			toks = append(toks, token{tokPlaceholder, "_"})
			i++
		case isIdentStart(c):
			start := i
			for i < n && isIdentPart(s[i]) {
				i++
			}
			toks = append(toks, token{tokWord, s[start:i]})
		default:
			return nil, fmt.Errorf("narsese: unexpected character %q at %d", c, i)
		}
	}
	toks = append(toks, token{tokEOF, ""})
	return toks, nil
}

func peekAt(s string, i int) byte {
	if i < 0 || i >= len(s) {
		return 0
	}
	return s[i]
}

func isIdentStart(c byte) bool {
	return unicode.IsLetter(rune(c)) || c == '_'
}

func isIdentPart(c byte) bool {
	return unicode.IsLetter(rune(c)) || unicode.IsDigit(rune(c)) || c == '_'
}
