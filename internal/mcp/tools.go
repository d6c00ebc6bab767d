package mcp

import (
	"context"
	"fmt"
	"sort"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/winslot/internal/platform"
	"github.com/1broseidon/winslot/internal/reposition"
)

func (s *Server) handleReposition(ctx context.Context, _ *mcpsdk.CallToolRequest, _ RepositionInput) (*mcpsdk.CallToolResult, RepositionOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := s.repo.Run(ctx)
	s.logger.Info("reposition_windows finished", "summary", report.Summary())
	return nil, repositionOutput(report), nil
}

func (s *Server) handleDiscover(ctx context.Context, _ *mcpsdk.CallToolRequest, args DiscoverInput) (*mcpsdk.CallToolResult, DiscoverOutput, error) {
	ports, err := s.procs.DebugPorts(ctx, s.webPorts)
	if err != nil {
		return nil, DiscoverOutput{}, fmt.Errorf("failed to scan processes: %w", err)
	}

	slots := make([]SlotInfo, 0, len(ports))
	for slot, info := range ports {
		si := SlotInfo{Slot: slot, DebugPort: info.DebugPort, PID: info.PID}
		if args.WithPages && s.pages != nil {
			page, ok, err := s.pages.FirstPage(ctx, info.DebugPort)
			switch {
			case err != nil:
				si.PageError = err.Error()
			case ok:
				si.PageTitle = page.Title
				si.PageURL = page.URL
			}
		}
		slots = append(slots, si)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Slot < slots[j].Slot })
	return nil, DiscoverOutput{Slots: slots}, nil
}

func (s *Server) handleListWindows(ctx context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	windows, err := s.repo.Verify(ctx)
	if err != nil {
		return nil, ListWindowsOutput{}, fmt.Errorf("failed to list windows: %w", err)
	}
	return nil, ListWindowsOutput{Windows: windowInfos(windows)}, nil
}

func repositionOutput(report reposition.Report) RepositionOutput {
	out := RepositionOutput{
		Summary:     report.Summary(),
		BatchCount:  report.BatchCount,
		BatchResult: report.BatchResult.Kind.String(),
		Targets:     make([]TargetInfo, 0, len(report.Targets)),
		Windows:     windowInfos(report.Windows),
		VerifyError: report.VerifyError,
	}
	for _, t := range report.Targets {
		out.Targets = append(out.Targets, targetInfo(t))
	}
	return out
}

func targetInfo(t reposition.TargetReport) TargetInfo {
	info := TargetInfo{
		Label:    t.Label,
		Placed:   t.Placed(),
		Result:   t.Final().Kind.String(),
		Attempts: make([]AttemptInfo, 0, len(t.Attempts)),
	}
	for _, a := range t.Attempts {
		info.Attempts = append(info.Attempts, AttemptInfo{
			Strategy: string(a.Strategy),
			Result:   a.Result.Kind.String(),
			Detail:   a.Result.Detail,
		})
	}
	if t.DebugPort != nil {
		info.DebugPort = t.DebugPort.DebugPort
		info.PID = t.DebugPort.PID
	}
	if t.Page != nil {
		info.PageTitle = t.Page.Title
		info.PageURL = t.Page.URL
	}
	return info
}

func windowInfos(windows []platform.Window) []WindowInfo {
	out := make([]WindowInfo, 0, len(windows))
	for _, w := range windows {
		out = append(out, WindowInfo{
			Index:  w.Index,
			Title:  w.Title,
			Left:   w.Bounds.Left,
			Top:    w.Bounds.Top,
			Right:  w.Bounds.Right,
			Bottom: w.Bounds.Bottom,
		})
	}
	return out
}
