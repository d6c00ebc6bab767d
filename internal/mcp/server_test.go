package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/winslot/internal/devtools"
	"github.com/1broseidon/winslot/internal/platform"
	"github.com/1broseidon/winslot/internal/procscan"
	"github.com/1broseidon/winslot/internal/reposition"
)

type fakeRepositioner struct {
	report    reposition.Report
	windows   []platform.Window
	verifyErr error
	runs      int
}

func (f *fakeRepositioner) Run(context.Context) reposition.Report {
	f.runs++
	return f.report
}

func (f *fakeRepositioner) Verify(context.Context) ([]platform.Window, error) {
	return f.windows, f.verifyErr
}

type fakeProcs struct {
	ports    map[string]procscan.DebugPortInfo
	err      error
	webPorts []int
}

func (f *fakeProcs) DebugPorts(_ context.Context, webPorts []int) (map[string]procscan.DebugPortInfo, error) {
	f.webPorts = webPorts
	return f.ports, f.err
}

func (f *fakeProcs) FindMainPID(context.Context, string) (int, bool, error) {
	return 0, false, nil
}

type fakePages struct {
	pages map[int]devtools.Page
	errs  map[int]error
}

func (f *fakePages) FirstPage(_ context.Context, port int) (devtools.Page, bool, error) {
	if err, ok := f.errs[port]; ok {
		return devtools.Page{}, false, err
	}
	p, ok := f.pages[port]
	return p, ok, nil
}

func TestNewServerRegistersTools(t *testing.T) {
	s := NewServer(Deps{
		Repositioner: &fakeRepositioner{},
		Processes:    &fakeProcs{},
		WebPorts:     []int{8080, 8081},
	})
	require.NotNil(t, s.mcpServer)
	assert.Equal(t, []int{8080, 8081}, s.webPorts)
}

func TestHandleReposition(t *testing.T) {
	report := reposition.Report{
		BatchCount:  0,
		BatchResult: platform.NotFound("no windows matched"),
		Targets: []reposition.TargetReport{
			{
				Label: "port8080",
				Attempts: []reposition.Attempt{
					{Strategy: reposition.StrategyBatch, Result: platform.NotFound("no windows matched")},
					{Strategy: reposition.StrategyTabURL, Result: platform.Success()},
				},
				DebugPort: &procscan.DebugPortInfo{Slot: "8080", DebugPort: 9222, PID: 501},
				Page:      &devtools.Page{Title: "App", URL: "http://localhost:8080/"},
			},
			{
				Label: "editor",
				Attempts: []reposition.Attempt{
					{Strategy: reposition.StrategyEditor, Result: platform.Error("Cursor got an error")},
				},
			},
		},
		Windows: []platform.Window{
			{Index: 1, Title: "App", Bounds: platform.Bounds{Left: -69, Top: 38, Right: 431, Bottom: 893}},
		},
	}
	repo := &fakeRepositioner{report: report}
	s := NewServer(Deps{Repositioner: repo, Processes: &fakeProcs{}})

	_, out, err := s.handleReposition(context.Background(), nil, RepositionInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.runs)

	assert.Equal(t, report.Summary(), out.Summary)
	assert.Equal(t, "not_found", out.BatchResult)
	require.Len(t, out.Targets, 2)

	browser := out.Targets[0]
	assert.True(t, browser.Placed)
	assert.Equal(t, "success", browser.Result)
	assert.Equal(t, 9222, browser.DebugPort)
	assert.Equal(t, 501, browser.PID)
	assert.Equal(t, "App", browser.PageTitle)
	assert.Equal(t, []AttemptInfo{
		{Strategy: "batch", Result: "not_found", Detail: "no windows matched"},
		{Strategy: "tab_url", Result: "success"},
	}, browser.Attempts)

	editor := out.Targets[1]
	assert.False(t, editor.Placed)
	assert.Equal(t, "error", editor.Result)
	assert.Zero(t, editor.DebugPort)

	require.Len(t, out.Windows, 1)
	assert.Equal(t, WindowInfo{Index: 1, Title: "App", Left: -69, Top: 38, Right: 431, Bottom: 893}, out.Windows[0])
}

func TestHandleDiscover(t *testing.T) {
	procs := &fakeProcs{ports: map[string]procscan.DebugPortInfo{
		"8081": {Slot: "8081", DebugPort: 9223, PID: 602},
		"8080": {Slot: "8080", DebugPort: 9222, PID: 501},
	}}
	pages := &fakePages{
		pages: map[int]devtools.Page{9222: {Title: "iPhone", URL: "http://localhost:8080/"}},
		errs:  map[int]error{9223: errors.New("connection refused")},
	}
	s := NewServer(Deps{
		Repositioner: &fakeRepositioner{},
		Processes:    procs,
		Pages:        pages,
		WebPorts:     []int{8080, 8081},
	})

	_, out, err := s.handleDiscover(context.Background(), nil, DiscoverInput{WithPages: true})
	require.NoError(t, err)
	assert.Equal(t, []int{8080, 8081}, procs.webPorts)
	assert.Equal(t, []SlotInfo{
		{Slot: "8080", DebugPort: 9222, PID: 501, PageTitle: "iPhone", PageURL: "http://localhost:8080/"},
		{Slot: "8081", DebugPort: 9223, PID: 602, PageError: "connection refused"},
	}, out.Slots)

	_, out, err = s.handleDiscover(context.Background(), nil, DiscoverInput{})
	require.NoError(t, err)
	require.Len(t, out.Slots, 2)
	assert.Empty(t, out.Slots[0].PageTitle)
}

func TestHandleDiscoverScanError(t *testing.T) {
	s := NewServer(Deps{
		Repositioner: &fakeRepositioner{},
		Processes:    &fakeProcs{err: errors.New("ps: not found")},
	})
	_, _, err := s.handleDiscover(context.Background(), nil, DiscoverInput{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ps: not found")
}

func TestHandleListWindows(t *testing.T) {
	repo := &fakeRepositioner{windows: []platform.Window{
		{Index: 1, Title: "a", Bounds: platform.Bounds{Left: 1, Top: 2, Right: 3, Bottom: 4}},
		{Index: 2, Title: "b", Bounds: platform.Bounds{Left: 5, Top: 6, Right: 7, Bottom: 8}},
	}}
	s := NewServer(Deps{Repositioner: repo, Processes: &fakeProcs{}})

	_, out, err := s.handleListWindows(context.Background(), nil, ListWindowsInput{})
	require.NoError(t, err)
	require.Len(t, out.Windows, 2)
	assert.Equal(t, "b", out.Windows[1].Title)
	assert.Equal(t, 8, out.Windows[1].Bottom)

	repo.windows = nil
	_, out, err = s.handleListWindows(context.Background(), nil, ListWindowsInput{})
	require.NoError(t, err)
	assert.NotNil(t, out.Windows)
	assert.Empty(t, out.Windows)

	repo.verifyErr = errors.New("osascript timed out")
	_, _, err = s.handleListWindows(context.Background(), nil, ListWindowsInput{})
	assert.ErrorContains(t, err, "osascript timed out")
}
