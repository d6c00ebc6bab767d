// Package reposition moves the configured windows into place by trying a
// fixed sequence of strategies per target until one succeeds.
package reposition

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/1broseidon/winslot/internal/config"
	"github.com/1broseidon/winslot/internal/devtools"
	"github.com/1broseidon/winslot/internal/platform"
	"github.com/1broseidon/winslot/internal/procscan"
	"github.com/1broseidon/winslot/internal/progress"
)

// ProcessScanner finds browser processes in the live process list.
type ProcessScanner interface {
	DebugPorts(ctx context.Context, webPorts []int) (map[string]procscan.DebugPortInfo, error)
	FindMainPID(ctx context.Context, urlSuffix string) (int, bool, error)
}

// PageSource reads page metadata from a debug port.
type PageSource interface {
	FirstPage(ctx context.Context, debugPort int) (devtools.Page, bool, error)
}

// Repositioner runs the strategy cascade for every configured target.
type Repositioner struct {
	cfg     *config.Config
	backend platform.Backend
	procs   ProcessScanner
	pages   PageSource
	logger  *slog.Logger
	out     *progress.Printer
}

// New creates a repositioner. A nil logger discards logs and a nil printer
// prints nothing.
func New(cfg *config.Config, backend platform.Backend, procs ProcessScanner, pages PageSource, logger *slog.Logger, out *progress.Printer) *Repositioner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Repositioner{
		cfg:     cfg,
		backend: backend,
		procs:   procs,
		pages:   pages,
		logger:  logger,
		out:     out,
	}
}

// Run repositions all targets and verifies the result. It never fails:
// every problem is recorded in the report and printed.
func (r *Repositioner) Run(ctx context.Context) Report {
	var report Report
	browsers := r.cfg.BrowserTargets()

	r.out.Step("Repositioning %d app windows", len(browsers))
	if len(browsers) > 0 {
		report.Targets = append(report.Targets, r.placeBrowsers(ctx, browsers, &report)...)
	}

	if editor, ok := r.cfg.EditorTarget(); ok {
		report.Targets = append(report.Targets, r.placeEditor(ctx, editor))
	}

	windows, err := r.Verify(ctx)
	report.Windows = windows
	if err != nil {
		report.VerifyError = err.Error()
	}

	r.out.OK("Repositioning finished: %s", report.Summary())
	r.logger.Info("run finished",
		"placed", report.Placed(),
		"targets", len(report.Targets),
		"batch_count", report.BatchCount)
	return report
}

func (r *Repositioner) placeBrowsers(ctx context.Context, targets []config.Target, report *Report) []TargetReport {
	reports := make([]TargetReport, len(targets))
	for i, t := range targets {
		reports[i].Label = t.Label
	}

	slots := make([]platform.BatchSlot, len(targets))
	for i, t := range targets {
		slots[i] = platform.BatchSlot{Bounds: t.WindowBounds(), TitleLabel: t.TitleLabel}
	}

	r.out.Step("Trying batch reposition by window title")
	count, res := r.backend.RepositionMatching(ctx, slots)
	report.BatchCount = count
	report.BatchResult = res
	r.logger.Debug("batch strategy", "count", count, "result", res.String())

	if count > 0 {
		r.out.OK("Batch reposition handled %d window(s)", count)
		for i := range reports {
			if i < count {
				reports[i].record(StrategyBatch, platform.Success())
				r.out.Detail("%s -> %s, title %q", targets[i].Label, targets[i].WindowBounds(), targets[i].TitleLabel)
				continue
			}
			reports[i].record(StrategyBatch, platform.NotFound(fmt.Sprintf("batch matched only %d window(s)", count)))
			r.out.Warn("%s: no matching window left for this slot", targets[i].Label)
		}
		return reports
	}

	r.out.Warn("Batch reposition failed (%s), falling back per window", res)
	ports := r.discover(ctx, targets)
	for i, t := range targets {
		if info, ok := ports[t.SlotKey()]; ok {
			reports[i].DebugPort = &info
		}
		r.cascade(ctx, t, &reports[i])
	}
	return reports
}

// discover scans for debug ports. An empty result only means the metadata
// lookup is skipped.
func (r *Repositioner) discover(ctx context.Context, targets []config.Target) map[string]procscan.DebugPortInfo {
	webPorts := make([]int, 0, len(targets))
	for _, t := range targets {
		webPorts = append(webPorts, t.WebPort)
	}
	ports, err := r.procs.DebugPorts(ctx, webPorts)
	if err != nil {
		r.logger.Warn("debug port discovery failed", "error", err)
		r.out.Warn("Could not list processes: %v", err)
		return map[string]procscan.DebugPortInfo{}
	}
	if len(ports) == 0 {
		r.out.Warn("No remote debugging ports found")
	}
	for slot, info := range ports {
		r.logger.Debug("debug port found", "slot", slot, "debug_port", info.DebugPort, "pid", info.PID)
	}
	return ports
}

// cascade runs tab URL, title and pid strategies for one browser target.
func (r *Repositioner) cascade(ctx context.Context, t config.Target, tr *TargetReport) {
	bounds := t.WindowBounds()
	if tr.DebugPort != nil {
		r.out.Step("Repositioning %s (pid %d, debug port %d)", t.Label, tr.DebugPort.PID, tr.DebugPort.DebugPort)
		r.describePage(ctx, tr)
	} else {
		r.out.Step("Repositioning %s", t.Label)
	}

	res := tr.record(StrategyTabURL, r.backend.MoveByTabURL(ctx, t.URLFragment(), bounds))
	r.out.Detail("tab URL: %s", res)

	switch res.Kind {
	case platform.KindSuccess:
		r.finish(t, tr)
		return
	case platform.KindNotFound:
		res = tr.record(StrategyTitle, r.backend.MoveByTitle(ctx, bounds))
		r.out.Detail("window title: %s", res)
		if res.OK() {
			r.finish(t, tr)
			return
		}
	}

	tr.record(StrategyPID, r.moveByMainPID(ctx, t))
	r.out.Detail("main process frame: %s", tr.Final())
	r.finish(t, tr)
}

func (r *Repositioner) moveByMainPID(ctx context.Context, t config.Target) platform.Result {
	pid, ok, err := r.procs.FindMainPID(ctx, t.URLFragment())
	if err != nil {
		return platform.Exception(err.Error())
	}
	if !ok {
		return platform.NotFound("no browser process opened " + t.URLFragment())
	}
	frame := t.WindowBounds().Rect()
	r.logger.Debug("moving by main pid", "target", t.Label, "pid", pid, "frame", frame.String())
	return r.backend.SetFrameByPID(ctx, pid, frame)
}

func (r *Repositioner) describePage(ctx context.Context, tr *TargetReport) {
	if r.pages == nil {
		return
	}
	page, ok, err := r.pages.FirstPage(ctx, tr.DebugPort.DebugPort)
	if err != nil {
		r.logger.Debug("page metadata unavailable", "target", tr.Label, "error", err)
		return
	}
	if !ok {
		return
	}
	tr.Page = &page
	r.out.Detail("title: %s", page.Title)
	r.out.Detail("url: %s", page.URL)
}

func (r *Repositioner) finish(t config.Target, tr *TargetReport) {
	final := tr.Final()
	if final.OK() {
		r.out.OK("%s placed at %s", t.Label, t.WindowBounds())
		return
	}
	r.out.Fail("%s: all strategies exhausted (%s)", t.Label, final)
	r.logger.Warn("target not placed", "target", t.Label, "result", final.String())
}

func (r *Repositioner) placeEditor(ctx context.Context, t config.Target) TargetReport {
	tr := TargetReport{Label: t.Label}
	frame := t.Frame()
	r.out.Step("Repositioning %s window (%s)", t.Process, t.Label)
	res := tr.record(StrategyEditor, r.backend.SetFrameByProcess(ctx, t.Process, frame))
	if res.OK() {
		r.out.OK("%s placed at %s", t.Label, frame)
	} else {
		r.out.Fail("%s: %s", t.Label, res)
		r.logger.Warn("editor not placed", "process", t.Process, "result", res.String())
	}
	return tr
}

// Verify lists the browser windows and prints their bounds.
func (r *Repositioner) Verify(ctx context.Context) ([]platform.Window, error) {
	r.out.Step("Verifying final positions")
	windows, err := r.backend.ListWindows(ctx)
	if err != nil {
		r.out.Warn("Could not read window positions: %v", err)
		r.logger.Warn("verification failed", "error", err)
		return nil, err
	}
	for _, w := range windows {
		r.out.Detail("window %d: %q %s", w.Index, w.Title, w.Bounds)
		r.logger.Debug("window bounds", "index", w.Index, "title", w.Title, "bounds", w.Bounds.String())
	}
	return windows, nil
}
