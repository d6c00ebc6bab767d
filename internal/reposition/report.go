package reposition

import (
	"fmt"

	"github.com/1broseidon/winslot/internal/devtools"
	"github.com/1broseidon/winslot/internal/platform"
	"github.com/1broseidon/winslot/internal/procscan"
)

// Strategy names one way of moving a window.
type Strategy string

const (
	StrategyBatch  Strategy = "batch"
	StrategyTabURL Strategy = "tab_url"
	StrategyTitle  Strategy = "title"
	StrategyPID    Strategy = "pid_frame"
	StrategyEditor Strategy = "editor"
)

// Attempt records one strategy invocation for a target.
type Attempt struct {
	Strategy Strategy
	Result   platform.Result
}

// TargetReport collects everything that happened to one target.
type TargetReport struct {
	Label     string
	Attempts  []Attempt
	DebugPort *procscan.DebugPortInfo
	Page      *devtools.Page
}

// Final returns the result of the last attempt.
func (t TargetReport) Final() platform.Result {
	if len(t.Attempts) == 0 {
		return platform.NotFound("no strategy attempted")
	}
	return t.Attempts[len(t.Attempts)-1].Result
}

// Placed reports whether some strategy succeeded.
func (t TargetReport) Placed() bool {
	return t.Final().OK()
}

// Strategies returns the attempted strategies in order.
func (t TargetReport) Strategies() []Strategy {
	out := make([]Strategy, 0, len(t.Attempts))
	for _, a := range t.Attempts {
		out = append(out, a.Strategy)
	}
	return out
}

func (t *TargetReport) record(s Strategy, res platform.Result) platform.Result {
	t.Attempts = append(t.Attempts, Attempt{Strategy: s, Result: res})
	return res
}

// Report is the outcome of one run.
type Report struct {
	BatchCount  int
	BatchResult platform.Result
	Targets     []TargetReport
	Windows     []platform.Window
	VerifyError string
}

// Target looks up a target report by label.
func (r Report) Target(label string) (TargetReport, bool) {
	for _, t := range r.Targets {
		if t.Label == label {
			return t, true
		}
	}
	return TargetReport{}, false
}

// Placed counts targets that ended in success.
func (r Report) Placed() int {
	n := 0
	for _, t := range r.Targets {
		if t.Placed() {
			n++
		}
	}
	return n
}

// Summary is a one-line description of the run.
func (r Report) Summary() string {
	return fmt.Sprintf("placed %d/%d windows (batch handled %d)", r.Placed(), len(r.Targets), r.BatchCount)
}
