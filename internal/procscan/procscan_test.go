package procscan

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/winslot/internal/config"
	"github.com/1broseidon/winslot/internal/platform"
)

const chromeBin = "/Applications/Google Chrome.app/Contents/MacOS/Google Chrome"

var webPorts = []int{8080, 8081}

func psLine(pid, command string) string {
	return "dev  " + pid + "  1.2  0.8 36000000 120000 ??  S  9:14AM  0:03.10 " + command
}

var sampleListing = strings.Join([]string{
	"USER   PID  %CPU %MEM      VSZ    RSS   TT  STAT STARTED      TIME COMMAND",
	psLine("501", chromeBin+" --user-data-dir=/tmp/flutter_tools.abc/chrome --remote-debugging-port=63932 --disable-extensions http://localhost:8080"),
	psLine("502", chromeBin+" --user-data-dir=/tmp/flutter_tools.def/chrome --remote-debugging-port=63990 --disable-extensions http://localhost:8081"),
	psLine("600", "/usr/bin/ssh-agent -l"),
	psLine("601", chromeBin+" Helper (Renderer) --type=renderer"),
}, "\n")

type fakeRunner struct {
	out   platform.CommandResult
	err   error
	calls [][]string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (platform.CommandResult, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.out, f.err
}

func TestParseDebugPorts(t *testing.T) {
	got := ParseDebugPorts(sampleListing, webPorts, config.SlotMatchSubstring)
	assert.Equal(t, map[string]DebugPortInfo{
		"8080": {Slot: "8080", DebugPort: 63932, PID: 501},
		"8081": {Slot: "8081", DebugPort: 63990, PID: 502},
	}, got)

	got = ParseDebugPorts(sampleListing, webPorts, config.SlotMatchURL)
	assert.Len(t, got, 2)
	assert.Equal(t, 63990, got["8081"].DebugPort)
}

func TestParseDebugPorts_NoMarkerYieldsEmptyMap(t *testing.T) {
	listing := strings.Join([]string{
		psLine("10", "/sbin/launchd"),
		psLine("11", "node server.js --port 8080"),
	}, "\n")

	got := ParseDebugPorts(listing, webPorts, config.SlotMatchSubstring)
	require.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, ParseDebugPorts("", webPorts, config.SlotMatchSubstring))
}

func TestParseDebugPorts_SubstringCollision(t *testing.T) {
	// The debug port itself contains "8080" although the page is on 8081.
	line := psLine("700", chromeBin+" --remote-debugging-port=58080 http://localhost:8081")

	substring := ParseDebugPorts(line, webPorts, config.SlotMatchSubstring)
	assert.Contains(t, substring, "8080")
	assert.NotContains(t, substring, "8081")

	exact := ParseDebugPorts(line, webPorts, config.SlotMatchURL)
	assert.Equal(t, map[string]DebugPortInfo{"8081": {Slot: "8081", DebugPort: 58080, PID: 700}}, exact)
}

func TestParseDebugPorts_URLModeRejectsLongerPort(t *testing.T) {
	line := psLine("701", chromeBin+" --remote-debugging-port=9222 http://localhost:80801")
	assert.Empty(t, ParseDebugPorts(line, webPorts, config.SlotMatchURL))
}

func TestParseDebugPorts_SkipsMalformedLines(t *testing.T) {
	listing := strings.Join([]string{
		"chrome --remote-debugging-port=9222 localhost:8080",
		psLine("abc", "chrome --remote-debugging-port=9222 localhost:8080"),
		psLine("702", "chrome --remote-debugging-port= localhost:8080"),
		psLine("703", "chrome --remote-debugging-port=zero localhost:8080"),
	}, "\n")
	assert.Empty(t, ParseDebugPorts(listing, webPorts, config.SlotMatchSubstring))
}

func TestParseMainPID(t *testing.T) {
	pid, ok := ParseMainPID(sampleListing, config.DefaultLaunchMarker, "localhost:8081")
	require.True(t, ok)
	assert.Equal(t, 502, pid)

	_, ok = ParseMainPID(sampleListing, config.DefaultLaunchMarker, "localhost:9000")
	assert.False(t, ok)
}

func TestScanner_DebugPorts(t *testing.T) {
	runner := &fakeRunner{out: platform.CommandResult{Stdout: sampleListing}}
	s := NewScanner(runner, config.SlotMatchSubstring, config.DefaultLaunchMarker)

	got, err := s.DebugPorts(context.Background(), webPorts)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, [][]string{{"ps", "auxww"}}, runner.calls)

	pid, ok, err := s.FindMainPID(context.Background(), "localhost:8080")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 501, pid)
}

func TestScanner_Failures(t *testing.T) {
	runner := &fakeRunner{err: errors.New("exec: \"ps\": executable file not found in $PATH")}
	s := NewScanner(runner, config.SlotMatchSubstring, config.DefaultLaunchMarker)

	got, err := s.DebugPorts(context.Background(), webPorts)
	require.Error(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	runner = &fakeRunner{out: platform.CommandResult{ExitCode: 1, Stderr: "ps: illegal option"}}
	s = NewScanner(runner, config.SlotMatchSubstring, config.DefaultLaunchMarker)
	_, _, err = s.FindMainPID(context.Background(), "localhost:8080")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "illegal option")
}
