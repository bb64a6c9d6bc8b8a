package host

import (
	"strings"
	"testing"

	"github.com/narswright/nars-kernel/internal/reasoner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	r, err := reasoner.New(reasoner.DefaultHyperparams())
	require.NoError(t, err)
	return New(r)
}

func containsPrefix(lines []string, prefix string) bool {
	for _, l := range lines {
		if strings.HasPrefix(l, prefix) {
			return true
		}
	}
	return false
}

func TestDispatcherEndToEndDeduction(t *testing.T) {
	d := newTestDispatcher(t)

	lines := d.Line("NSE <A --> B>. %0.9;0.9%")
	assert.True(t, containsPrefix(lines, "IN <A --> B>."))

	lines = d.Line("NSE <B --> C>. %0.9;0.9%")
	assert.True(t, containsPrefix(lines, "IN <B --> C>."))

	lines = d.Line("CYC 20")
	assert.True(t, containsAny(lines, "A --> C"), "expected a derivation containing A --> C, got %+v", lines)
}

func containsAny(lines []string, substr string) bool {
	for _, l := range lines {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

func TestDispatcherNSEParseErrorReportedNotPanicked(t *testing.T) {
	d := newTestDispatcher(t)
	lines := d.Line("NSE <A --> B>. @")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "ERROR"))
}

func TestDispatcherVOLRejectsOutOfRange(t *testing.T) {
	d := newTestDispatcher(t)
	lines := d.Line("VOL 150")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "ERROR"))
}

func TestDispatcherCYCRejectsNonPositive(t *testing.T) {
	d := newTestDispatcher(t)
	lines := d.Line("CYC 0")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "ERROR"))
}

func TestDispatcherRESResetsTick(t *testing.T) {
	d := newTestDispatcher(t)
	d.Line("NSE <A --> B>.")
	d.Line("CYC 1")
	d.Line("RES")
	lines := d.Line("INF summary")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "tick=0")
}

func TestDispatcherINFSummaryReportsState(t *testing.T) {
	d := newTestDispatcher(t)
	d.Line("NSE <A --> B>.")
	lines := d.Line("INF summary")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "concepts=")
}

func TestDispatcherUnknownCommand(t *testing.T) {
	d := newTestDispatcher(t)
	lines := d.Line("FOO bar")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "unknown command")
}

func TestStdioRunsLineProtocol(t *testing.T) {
	d := newTestDispatcher(t)
	in := strings.NewReader("NSE <A --> B>.\nINF summary\n")
	var out strings.Builder
	require.NoError(t, Stdio(d, in, &out))
	assert.Contains(t, out.String(), "IN <A --> B>.")
	assert.Contains(t, out.String(), "concepts=")
}
