package platform

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// MacBackend drives Chrome and System Events through osascript.
type MacBackend struct {
	runner       Runner
	browserApp   string
	titleMarkers []string
}

var _ Backend = (*MacBackend)(nil)

// NewMacBackend creates a backend for browserApp. titleMarkers are the
// substrings that identify the app's windows by title.
func NewMacBackend(runner Runner, browserApp string, titleMarkers []string) *MacBackend {
	return &MacBackend{
		runner:       runner,
		browserApp:   browserApp,
		titleMarkers: append([]string(nil), titleMarkers...),
	}
}

func (b *MacBackend) osascript(ctx context.Context, script string) (CommandResult, error) {
	return b.runner.Run(ctx, "osascript", "-e", script)
}

// RepositionMatching implements the batch strategy.
func (b *MacBackend) RepositionMatching(ctx context.Context, slots []BatchSlot) (int, Result) {
	out, err := b.osascript(ctx, batchScript(b.browserApp, b.titleMarkers, slots))
	if res, failed := resultFromRun(out, err); failed {
		return 0, res
	}
	count, convErr := strconv.Atoi(out.Stdout)
	if convErr != nil {
		return 0, Error(fmt.Sprintf("unexpected batch output %q", out.Stdout))
	}
	if count == 0 {
		return 0, NotFound("no window title matches " + strings.Join(b.titleMarkers, ", "))
	}
	return count, Success()
}

// MoveByTabURL implements the tab URL strategy.
func (b *MacBackend) MoveByTabURL(ctx context.Context, urlFragment string, bounds Bounds) Result {
	out, err := b.osascript(ctx, tabURLScript(b.browserApp, urlFragment, bounds))
	if res, failed := resultFromRun(out, err); failed {
		return res
	}
	if out.Stdout == scriptSuccess {
		return Success()
	}
	return NotFound(fmt.Sprintf("no tab with URL containing %q (%s)", urlFragment, out.Stdout))
}

// MoveByTitle implements the title fallback strategy.
func (b *MacBackend) MoveByTitle(ctx context.Context, bounds Bounds) Result {
	out, err := b.osascript(ctx, titleScript(b.browserApp, b.titleMarkers, bounds.Rect()))
	if res, failed := resultFromRun(out, err); failed {
		return res
	}
	switch {
	case out.Stdout == scriptSuccess:
		return Success()
	case strings.HasPrefix(out.Stdout, scriptErrorTag):
		return Error(strings.TrimPrefix(out.Stdout, scriptErrorTag))
	default:
		return NotFound("no window title matches " + strings.Join(b.titleMarkers, ", "))
	}
}

// SetFrameByPID sets window 1 of the process with the given unix id.
func (b *MacBackend) SetFrameByPID(ctx context.Context, pid int, frame Rect) Result {
	out, err := b.osascript(ctx, pidFrameScript(pid, frame))
	if res, failed := resultFromRun(out, err); failed {
		return res
	}
	return Success()
}

// SetFrameByProcess sets window 1 of the named process.
func (b *MacBackend) SetFrameByProcess(ctx context.Context, process string, frame Rect) Result {
	out, err := b.osascript(ctx, processFrameScript(process, frame))
	if res, failed := resultFromRun(out, err); failed {
		return res
	}
	return Success()
}

// ListWindows returns all browser windows with their bounds.
func (b *MacBackend) ListWindows(ctx context.Context) ([]Window, error) {
	out, err := b.osascript(ctx, listWindowsScript(b.browserApp))
	if err != nil {
		return nil, err
	}
	if out.ExitCode != 0 {
		return nil, fmt.Errorf("osascript exited with status %d: %s", out.ExitCode, out.Stderr)
	}
	return parseWindowList(out.Stdout)
}
