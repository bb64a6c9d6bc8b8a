// Package mcptools exposes the host command surface of spec.md §6 as MCP
// tools, alongside (not instead of) the line-oriented stdio protocol
// (internal/host.Stdio) — both adapters drive the same host.Dispatcher
// (SPEC_FULL.md §3). Grounded on the teacher's RegisterTools/mcp.AddTool
// pattern for wiring github.com/modelcontextprotocol/go-sdk.
package mcptools

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/narswright/nars-kernel/internal/host"
)

// Register adds the five host commands to server as MCP tools, each
// delegating to d.Line and folding the resulting output lines into the
// tool's text result.
func Register(server *mcp.Server, d *host.Dispatcher) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "narsese-input",
		Description: "Parse a Narsese judgement, question or goal and enqueue it as an input task.",
	}, narseseInputHandler(d))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "run-cycles",
		Description: "Run n reasoner work cycles and return the resulting output events.",
	}, runCyclesHandler(d))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set-volume",
		Description: "Set the output silence floor as a percentage (0-100).",
	}, setVolumeHandler(d))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "reset",
		Description: "Reset all kernel state; tick and stamp-serial counters return to zero.",
	}, resetHandler(d))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "inspect",
		Description: "Report reasoner-wide bookkeeping: concept/mass/priority/tick summary.",
	}, inspectHandler(d))
}

// NarseseInputInput is narsese-input's argument: one surface-syntax
// sentence, exactly the NSE command's payload.
type NarseseInputInput struct {
	Sentence string `json:"sentence" jsonschema:"the Narsese sentence to parse and enqueue"`
}

// LinesOutput is the shared result shape for every tool below: the
// dispatched output lines, rendered in spec.md §6's IN/OUT/ANSWER/ERROR/
// COMMENT taxonomy.
type LinesOutput struct {
	Lines []string `json:"lines"`
}

func narseseInputHandler(d *host.Dispatcher) func(context.Context, *mcp.CallToolRequest, NarseseInputInput) (*mcp.CallToolResult, LinesOutput, error) {
	return func(_ context.Context, _ *mcp.CallToolRequest, in NarseseInputInput) (*mcp.CallToolResult, LinesOutput, error) {
		lines := d.Line("NSE " + in.Sentence)
		return textResult(lines), LinesOutput{Lines: lines}, nil
	}
}

// RunCyclesInput is run-cycles' argument: the number of work cycles to run.
type RunCyclesInput struct {
	Count int `json:"count" jsonschema:"number of work cycles to run"`
}

func runCyclesHandler(d *host.Dispatcher) func(context.Context, *mcp.CallToolRequest, RunCyclesInput) (*mcp.CallToolResult, LinesOutput, error) {
	return func(_ context.Context, _ *mcp.CallToolRequest, in RunCyclesInput) (*mcp.CallToolResult, LinesOutput, error) {
		lines := d.Line("CYC " + itoa(in.Count))
		return textResult(lines), LinesOutput{Lines: lines}, nil
	}
}

// SetVolumeInput is set-volume's argument: the new silence-floor percentage.
type SetVolumeInput struct {
	Percent int `json:"percent" jsonschema:"silence floor percentage, 0-100"`
}

func setVolumeHandler(d *host.Dispatcher) func(context.Context, *mcp.CallToolRequest, SetVolumeInput) (*mcp.CallToolResult, LinesOutput, error) {
	return func(_ context.Context, _ *mcp.CallToolRequest, in SetVolumeInput) (*mcp.CallToolResult, LinesOutput, error) {
		lines := d.Line("VOL " + itoa(in.Percent))
		return textResult(lines), LinesOutput{Lines: lines}, nil
	}
}

// ResetInput is reset's argument: empty, reset takes no parameters.
type ResetInput struct{}

func resetHandler(d *host.Dispatcher) func(context.Context, *mcp.CallToolRequest, ResetInput) (*mcp.CallToolResult, LinesOutput, error) {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ ResetInput) (*mcp.CallToolResult, LinesOutput, error) {
		lines := d.Line("RES")
		return textResult(lines), LinesOutput{Lines: lines}, nil
	}
}

// InspectInput is inspect's argument: empty, inspect always reports the
// full summary (spec.md §6 names only "INF summary").
type InspectInput struct{}

func inspectHandler(d *host.Dispatcher) func(context.Context, *mcp.CallToolRequest, InspectInput) (*mcp.CallToolResult, LinesOutput, error) {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ InspectInput) (*mcp.CallToolResult, LinesOutput, error) {
		lines := d.Line("INF summary")
		return textResult(lines), LinesOutput{Lines: lines}, nil
	}
}

func textResult(lines []string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: strings.Join(lines, "\n")}},
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
