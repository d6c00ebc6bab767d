package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/1broseidon/winslot/internal/platform"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// TargetKind selects which strategy chain applies to a target.
type TargetKind string

const (
	TargetBrowser TargetKind = "browser"
	TargetEditor  TargetKind = "editor"
)

// SlotMatch selects how process lines are classified into browser slots.
type SlotMatch string

const (
	// SlotMatchSubstring matches the literal web port anywhere on the line.
	SlotMatchSubstring SlotMatch = "substring"
	// SlotMatchURL requires "localhost:<port>" not followed by another digit.
	SlotMatchURL SlotMatch = "url"
)

// Default geometry and names.
const (
	DefaultBrowserApp   = "Google Chrome"
	DefaultDisplayName  = "The Final Burger"
	DefaultLaunchMarker = "Google Chrome --user-data-dir="
	DefaultEditor       = "Cursor"

	DefaultAutomationTimeout = 10 * time.Second
	DefaultMetadataTimeout   = 5 * time.Second
)

// Browser describes the browser application hosting the web app.
type Browser struct {
	App          string   `yaml:"app"`
	DisplayName  string   `yaml:"display_name"`
	LaunchMarker string   `yaml:"launch_marker"`
	TitleMarkers []string `yaml:"title_markers,omitempty"` // default: localhost + display_name
}

// Target is one window slot. Browser targets use Bounds (left, top, right,
// bottom); editor targets use Position and Size.
type Target struct {
	Label      string     `yaml:"label"`
	Kind       TargetKind `yaml:"kind"`
	WebPort    int        `yaml:"web_port,omitempty"`
	Device     string     `yaml:"device,omitempty"`
	TitleLabel string     `yaml:"title_label,omitempty"` // default: "<device> - <browser.display_name>"
	Bounds     []int      `yaml:"bounds,omitempty"`
	Process    string     `yaml:"process,omitempty"`
	Position   []int      `yaml:"position,omitempty"`
	Size       []int      `yaml:"size,omitempty"`
}

// Config is the effective winslot configuration.
type Config struct {
	Browser           Browser       `yaml:"browser"`
	Targets           []Target      `yaml:"targets"`
	SlotMatch         SlotMatch     `yaml:"slot_match"`
	AutomationTimeout time.Duration `yaml:"automation_timeout"`
	MetadataTimeout   time.Duration `yaml:"metadata_timeout"`
	LogLevel          string        `yaml:"log_level"`
	Notify            bool          `yaml:"notify"`
}

// DefaultConfig returns the built-in layout: two app windows side by side
// with the editor to their right.
func DefaultConfig() *Config {
	cfg := defaults()
	cfg.fillTitleLabels()
	return cfg
}

// defaults leaves title labels unset so they follow a configured
// display_name.
func defaults() *Config {
	return &Config{
		Browser: Browser{
			App:          DefaultBrowserApp,
			DisplayName:  DefaultDisplayName,
			LaunchMarker: DefaultLaunchMarker,
		},
		Targets: []Target{
			{
				Label:   "port8080",
				Kind:    TargetBrowser,
				WebPort: 8080,
				Device:  "iPhone",
				Bounds:  []int{-69, 38, 431, 893},
			},
			{
				Label:   "port8081",
				Kind:    TargetBrowser,
				WebPort: 8081,
				Device:  "Android",
				Bounds:  []int{350, 38, 850, 893},
			},
			{
				Label:    "editor",
				Kind:     TargetEditor,
				Process:  DefaultEditor,
				Position: []int{851, 38},
				Size:     []int{661, 855},
			},
		},
		SlotMatch:         SlotMatchSubstring,
		AutomationTimeout: DefaultAutomationTimeout,
		MetadataTimeout:   DefaultMetadataTimeout,
		LogLevel:          "info",
	}
}

func (c *Config) fillTitleLabels() {
	for i := range c.Targets {
		t := &c.Targets[i]
		if t.Kind != TargetBrowser || t.TitleLabel != "" {
			continue
		}
		switch {
		case t.Device != "" && c.Browser.DisplayName != "":
			t.TitleLabel = t.Device + " - " + c.Browser.DisplayName
		case t.Device != "":
			t.TitleLabel = t.Device
		default:
			t.TitleLabel = c.Browser.DisplayName
		}
	}
}

// TitleMarkers returns the substrings identifying app windows by title.
func (c *Config) TitleMarkers() []string {
	if len(c.Browser.TitleMarkers) > 0 {
		return c.Browser.TitleMarkers
	}
	markers := []string{"localhost"}
	if c.Browser.DisplayName != "" {
		markers = append(markers, c.Browser.DisplayName)
	}
	return markers
}

// BrowserTargets returns browser targets in configured order.
func (c *Config) BrowserTargets() []Target {
	var out []Target
	for _, t := range c.Targets {
		if t.Kind == TargetBrowser {
			out = append(out, t)
		}
	}
	return out
}

// EditorTarget returns the editor target, if configured.
func (c *Config) EditorTarget() (Target, bool) {
	for _, t := range c.Targets {
		if t.Kind == TargetEditor {
			return t, true
		}
	}
	return Target{}, false
}

// SlotKey is the web port as used for slot lookups ("8080").
func (t Target) SlotKey() string {
	return fmt.Sprintf("%d", t.WebPort)
}

// URLFragment is the string a tab URL must contain ("localhost:8080").
func (t Target) URLFragment() string {
	return fmt.Sprintf("localhost:%d", t.WebPort)
}

// WindowBounds returns the corner bounds of a browser target.
func (t Target) WindowBounds() platform.Bounds {
	if len(t.Bounds) != 4 {
		return platform.Bounds{}
	}
	return platform.Bounds{Left: t.Bounds[0], Top: t.Bounds[1], Right: t.Bounds[2], Bottom: t.Bounds[3]}
}

// Frame returns the position/size frame of a target.
func (t Target) Frame() platform.Rect {
	if t.Kind == TargetBrowser {
		return t.WindowBounds().Rect()
	}
	if len(t.Position) != 2 || len(t.Size) != 2 {
		return platform.Rect{}
	}
	return platform.Rect{X: t.Position[0], Y: t.Position[1], Width: t.Size[0], Height: t.Size[1]}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Browser.App) == "" {
		return fmt.Errorf("%w: browser.app is required", ErrInvalidConfig)
	}
	for i, m := range c.Browser.TitleMarkers {
		if strings.TrimSpace(m) == "" {
			return fmt.Errorf("%w: browser.title_markers[%d] is empty", ErrInvalidConfig, i)
		}
	}
	if len(c.TitleMarkers()) == 0 {
		return fmt.Errorf("%w: at least one title marker is required", ErrInvalidConfig)
	}

	switch c.SlotMatch {
	case SlotMatchSubstring, SlotMatchURL:
	default:
		return fmt.Errorf("%w: slot_match must be %q or %q, got %q", ErrInvalidConfig, SlotMatchSubstring, SlotMatchURL, c.SlotMatch)
	}

	if c.AutomationTimeout < 0 {
		return fmt.Errorf("%w: automation_timeout must not be negative", ErrInvalidConfig)
	}
	if c.MetadataTimeout <= 0 || c.MetadataTimeout > DefaultMetadataTimeout {
		return fmt.Errorf("%w: metadata_timeout must be in (0, %s]", ErrInvalidConfig, DefaultMetadataTimeout)
	}

	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log_level must be one of debug, info, warn, error", ErrInvalidConfig)
	}

	if len(c.Targets) == 0 {
		return fmt.Errorf("%w: at least one target is required", ErrInvalidConfig)
	}

	labels := make(map[string]struct{}, len(c.Targets))
	ports := make(map[int]string)
	editors := 0
	for i, t := range c.Targets {
		if strings.TrimSpace(t.Label) == "" {
			return fmt.Errorf("%w: targets[%d].label is required", ErrInvalidConfig, i)
		}
		if _, dup := labels[t.Label]; dup {
			return fmt.Errorf("%w: duplicate target label %q", ErrInvalidConfig, t.Label)
		}
		labels[t.Label] = struct{}{}

		if err := validateTarget(t); err != nil {
			return err
		}

		switch t.Kind {
		case TargetBrowser:
			if other, dup := ports[t.WebPort]; dup {
				return fmt.Errorf("%w: targets %q and %q share web_port %d", ErrInvalidConfig, other, t.Label, t.WebPort)
			}
			ports[t.WebPort] = t.Label
		case TargetEditor:
			editors++
		}
	}
	if editors > 1 {
		return fmt.Errorf("%w: at most one editor target is supported", ErrInvalidConfig)
	}
	return nil
}

func validateTarget(t Target) error {
	switch t.Kind {
	case TargetBrowser:
		if t.WebPort <= 0 || t.WebPort > 65535 {
			return fmt.Errorf("%w: target %q: web_port must be in 1-65535", ErrInvalidConfig, t.Label)
		}
		if len(t.Bounds) != 4 {
			return fmt.Errorf("%w: target %q: bounds must be [left, top, right, bottom]", ErrInvalidConfig, t.Label)
		}
		b := t.WindowBounds()
		if b.Right <= b.Left || b.Bottom <= b.Top {
			return fmt.Errorf("%w: target %q: bounds %s have no area", ErrInvalidConfig, t.Label, b)
		}
	case TargetEditor:
		if strings.TrimSpace(t.Process) == "" {
			return fmt.Errorf("%w: target %q: process is required", ErrInvalidConfig, t.Label)
		}
		if len(t.Position) != 2 || len(t.Size) != 2 {
			return fmt.Errorf("%w: target %q: position must be [x, y] and size [width, height]", ErrInvalidConfig, t.Label)
		}
		if t.Size[0] <= 0 || t.Size[1] <= 0 {
			return fmt.Errorf("%w: target %q: size must be positive", ErrInvalidConfig, t.Label)
		}
	default:
		return fmt.Errorf("%w: target %q: kind must be %q or %q", ErrInvalidConfig, t.Label, TargetBrowser, TargetEditor)
	}
	return nil
}
