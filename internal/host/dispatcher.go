// Package host implements the external command surface of spec.md §6: NSE,
// CYC, VOL, RES, INF summary. It is the thin adapter layer spec.md keeps
// external to the reasoning kernel — both the line-oriented stdio protocol
// (Stdio) and the MCP tool surface (internal/host/mcptools) drive the same
// Dispatcher.
package host

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/narswright/nars-kernel/internal/narsese"
	"github.com/narswright/nars-kernel/internal/reasoner"
	"github.com/narswright/nars-kernel/internal/sf"
	"github.com/narswright/nars-kernel/internal/term"
)

// Dispatcher owns one Reasoner and translates host commands into calls
// against it, rendering results as the Narsese-ish lines spec.md §6
// describes for each output kind.
type Dispatcher struct {
	r *reasoner.Reasoner
}

// New wraps an already-constructed Reasoner (config.Load -> reasoner.New is
// the ConstructionError boundary; Dispatcher itself never fails to construct).
func New(r *reasoner.Reasoner) *Dispatcher {
	return &Dispatcher{r: r}
}

// Line dispatches one command line and returns the output lines it produced
// (including the drained event queue rendered per spec.md §6's taxonomy).
// A dispatch-time ParseError is rendered as a single ERROR line rather than
// returned as a Go error, matching spec.md §7's "reported as ERROR; no
// state change" policy for malformed input.
func (d *Dispatcher) Line(line string) []string {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToUpper(cmd) {
	case "NSE":
		return d.nse(rest)
	case "CYC":
		return d.cyc(rest)
	case "VOL":
		return d.vol(rest)
	case "RES":
		d.r.Reset()
		return d.drain()
	case "INF":
		if strings.EqualFold(strings.TrimSpace(rest), "summary") {
			return []string{"COMMENT " + d.summaryLine()}
		}
		return []string{fmt.Sprintf("ERROR unknown INF subcommand %q", rest)}
	default:
		return []string{fmt.Sprintf("ERROR unknown command %q", cmd)}
	}
}

func (d *Dispatcher) nse(src string) []string {
	// the serial is only consumed once the task is accepted, so a rejected
	// line leaves the reasoner's state unchanged
	parsed, err := narsese.ParseSentence(src, d.r.StampSerial()+1, d.r.Tick())
	if err != nil {
		return []string{fmt.Sprintf("ERROR %s", err)}
	}
	task := term.NewTask(parsed.Sentence, parsed.Budget)
	if err := d.r.Enqueue(task); err != nil {
		return []string{fmt.Sprintf("ERROR %s", err)}
	}
	d.r.NextStampSerial()
	lines := []string{"IN " + narsese.Format(parsed.Sentence)}
	return append(lines, d.drain()...)
}

func (d *Dispatcher) cyc(arg string) []string {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n <= 0 {
		return []string{fmt.Sprintf("ERROR CYC requires a positive integer, got %q", arg)}
	}
	for i := 0; i < n; i++ {
		d.r.Cycle()
	}
	return d.drain()
}

func (d *Dispatcher) vol(arg string) []string {
	pct, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || pct < 0 || pct > 100 {
		return []string{fmt.Sprintf("ERROR VOL requires 0-100, got %q", arg)}
	}
	d.r.SetSilenceFloor(pct)
	return nil
}

func (d *Dispatcher) drain() []string {
	events := d.r.DrainOutput()
	lines := make([]string, 0, len(events))
	for _, e := range events {
		lines = append(lines, renderEvent(e))
	}
	return lines
}

func renderEvent(e reasoner.Event) string {
	switch e.Kind {
	case reasoner.Answer:
		return fmt.Sprintf("ANSWER %s (for %s)", e.Sentence, e.TaskKey)
	case reasoner.Comment:
		return "COMMENT " + e.Text
	case reasoner.Error:
		return "ERROR " + e.Text
	default:
		return e.Kind.String() + " " + e.Sentence
	}
}

func (d *Dispatcher) summaryLine() string {
	s := d.r.Summary()
	return fmt.Sprintf(
		"concepts=%d mass=%d avg_priority=%.4f novel_tasks=%d input_buffer=%d tick=%d stamp_serial=%d graph_order=%d levels=%v",
		s.ConceptCount, s.ConceptMass, s.AveragePriority, s.NovelTaskCount, s.InputBufferLen, s.Tick, s.StampSerial, s.GraphOrder, s.LevelHistogram,
	)
}

// SummaryAboveThreshold reports whether the reasoner's mean concept
// priority currently meets or exceeds sf t, without exposing the full
// Summary type across the package boundary.
func (d *Dispatcher) SummaryAboveThreshold(t sf.SF) bool {
	return sf.MustNew(d.r.Summary().AveragePriority).GTE(t)
}
