package reasoner

import "github.com/narswright/nars-kernel/internal/term"

// EventKind is the output taxonomy of spec.md §6: IN, OUT, ANSWER, EXE,
// ERROR, COMMENT.
type EventKind int

const (
	In EventKind = iota
	Out
	Answer
	Exe
	Error
	Comment
)

func (k EventKind) String() string {
	switch k {
	case In:
		return "IN"
	case Out:
		return "OUT"
	case Answer:
		return "ANSWER"
	case Exe:
		return "EXE"
	case Error:
		return "ERROR"
	case Comment:
		return "COMMENT"
	}
	return "?"
}

// Event is one entry on the output queue, drained by the host between
// cycles (spec.md §5 "Output is a shared queue the host drains between
// cycles").
type Event struct {
	Kind     EventKind
	Sentence string // Narsese rendering, for IN/OUT/ANSWER/EXE
	TaskKey  string // for ANSWER, the originating question's task key
	Text     string // for COMMENT/ERROR, a diagnostic message
}

func inEvent(s term.Sentence) Event    { return Event{Kind: In, Sentence: s.String()} }
func outEvent(s term.Sentence) Event   { return Event{Kind: Out, Sentence: s.String()} }
func commentEvent(text string) Event   { return Event{Kind: Comment, Text: text} }
func errorEvent(text string) Event     { return Event{Kind: Error, Text: text} }
func answerEvent(s term.Sentence, taskKey string) Event {
	return Event{Kind: Answer, Sentence: s.String(), TaskKey: taskKey}
}
