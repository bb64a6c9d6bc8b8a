package narsese

import "github.com/narswright/nars-kernel/internal/term"

// Format renders a sentence in the surface syntax spec.md §6 defines for
// kernel output (OUT/ANSWER/EXE events). term.Sentence.String already
// produces this exact form; Format exists so internal/host depends on the
// narsese package for both directions of the wire protocol rather than
// reaching into internal/term for output.
func Format(s term.Sentence) string {
	return s.String()
}
