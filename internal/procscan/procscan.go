// Package procscan reads the live process list to find browser instances
// started with a remote debugging port.
package procscan

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/1broseidon/winslot/internal/config"
	"github.com/1broseidon/winslot/internal/platform"
)

const debugPortFlag = "remote-debugging-port="

var localhostPortRe = regexp.MustCompile(`localhost:(\d+)`)

// DebugPortInfo describes the browser process serving one slot.
type DebugPortInfo struct {
	Slot      string `json:"slot"`
	DebugPort int    `json:"debug_port"`
	PID       int    `json:"pid"`
}

// Scanner lists processes with ps and classifies them into slots.
type Scanner struct {
	runner       platform.Runner
	mode         config.SlotMatch
	launchMarker string
}

// NewScanner creates a scanner. launchMarker identifies the browser's main
// process command line when looking up a PID by URL.
func NewScanner(runner platform.Runner, mode config.SlotMatch, launchMarker string) *Scanner {
	return &Scanner{runner: runner, mode: mode, launchMarker: launchMarker}
}

func (s *Scanner) listing(ctx context.Context) (string, error) {
	out, err := s.runner.Run(ctx, "ps", "auxww")
	if err != nil {
		return "", err
	}
	if out.ExitCode != 0 {
		return "", fmt.Errorf("ps exited with status %d: %s", out.ExitCode, out.Stderr)
	}
	return out.Stdout, nil
}

// DebugPorts returns the debug port and pid per slot key ("8080"). Slots
// without a matching process are absent from the map.
func (s *Scanner) DebugPorts(ctx context.Context, webPorts []int) (map[string]DebugPortInfo, error) {
	listing, err := s.listing(ctx)
	if err != nil {
		return map[string]DebugPortInfo{}, err
	}
	return ParseDebugPorts(listing, webPorts, s.mode), nil
}

// FindMainPID returns the pid of the first process whose command line holds
// both the launch marker and urlSuffix.
func (s *Scanner) FindMainPID(ctx context.Context, urlSuffix string) (int, bool, error) {
	listing, err := s.listing(ctx)
	if err != nil {
		return 0, false, err
	}
	pid, ok := ParseMainPID(listing, s.launchMarker, urlSuffix)
	return pid, ok, nil
}

// ParseDebugPorts classifies ps output lines carrying a debug port flag.
//
// In substring mode a line belongs to the first web port whose digits appear
// anywhere on it, so a debug port or pid containing "8080" also matches.
// Later lines overwrite earlier ones for the same slot.
func ParseDebugPorts(listing string, webPorts []int, mode config.SlotMatch) map[string]DebugPortInfo {
	found := make(map[string]DebugPortInfo)
	for _, line := range strings.Split(listing, "\n") {
		if !strings.Contains(line, debugPortFlag) {
			continue
		}
		pid, ok := pidColumn(line)
		if !ok {
			continue
		}
		port, ok := debugPortValue(line)
		if !ok {
			continue
		}
		slot, ok := classify(line, webPorts, mode)
		if !ok {
			continue
		}
		found[slot] = DebugPortInfo{Slot: slot, DebugPort: port, PID: pid}
	}
	return found
}

// ParseMainPID scans ps output for the first line holding both marker and urlSuffix.
func ParseMainPID(listing, marker, urlSuffix string) (int, bool) {
	for _, line := range strings.Split(listing, "\n") {
		if !strings.Contains(line, marker) || !strings.Contains(line, urlSuffix) {
			continue
		}
		if pid, ok := pidColumn(line); ok {
			return pid, true
		}
	}
	return 0, false
}

func classify(line string, webPorts []int, mode config.SlotMatch) (string, bool) {
	for _, p := range webPorts {
		key := strconv.Itoa(p)
		switch mode {
		case config.SlotMatchURL:
			for _, m := range localhostPortRe.FindAllStringSubmatch(line, -1) {
				if m[1] == key {
					return key, true
				}
			}
		default:
			if strings.Contains(line, key) {
				return key, true
			}
		}
	}
	return "", false
}

// pidColumn returns the second whitespace-separated field of a ps aux line.
func pidColumn(line string) (int, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, false
	}
	pid, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, false
	}
	return pid, true
}

func debugPortValue(line string) (int, bool) {
	_, rest, ok := strings.Cut(line, debugPortFlag)
	if !ok {
		return 0, false
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return 0, false
	}
	port, err := strconv.Atoi(fields[0])
	if err != nil || port <= 0 {
		return 0, false
	}
	return port, true
}
