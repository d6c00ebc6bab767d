package mcp

// RepositionInput is the input for the reposition_windows tool.
type RepositionInput struct{}

// AttemptInfo describes one strategy invocation.
type AttemptInfo struct {
	Strategy string `json:"strategy"`
	Result   string `json:"result"`
	Detail   string `json:"detail,omitempty"`
}

// TargetInfo describes what happened to one configured window.
type TargetInfo struct {
	Label     string        `json:"label"`
	Placed    bool          `json:"placed"`
	Result    string        `json:"result"`
	Attempts  []AttemptInfo `json:"attempts"`
	DebugPort int           `json:"debug_port,omitempty"`
	PID       int           `json:"pid,omitempty"`
	PageTitle string        `json:"page_title,omitempty"`
	PageURL   string        `json:"page_url,omitempty"`
}

// WindowInfo describes one browser window as seen after a run.
type WindowInfo struct {
	Index  int    `json:"index"`
	Title  string `json:"title"`
	Left   int    `json:"left"`
	Top    int    `json:"top"`
	Right  int    `json:"right"`
	Bottom int    `json:"bottom"`
}

// RepositionOutput is the output for the reposition_windows tool.
type RepositionOutput struct {
	Summary     string       `json:"summary"`
	BatchCount  int          `json:"batch_count"`
	BatchResult string       `json:"batch_result"`
	Targets     []TargetInfo `json:"targets"`
	Windows     []WindowInfo `json:"windows,omitempty"`
	VerifyError string       `json:"verify_error,omitempty"`
}

// DiscoverInput is the input for the discover_debug_ports tool.
type DiscoverInput struct {
	WithPages bool `json:"with_pages,omitempty" jsonschema:"When true, fetch the first page title and URL from each debug port (default: false)"`
}

// SlotInfo describes the debug port found for one web port slot.
type SlotInfo struct {
	Slot      string `json:"slot"`
	DebugPort int    `json:"debug_port"`
	PID       int    `json:"pid"`
	PageTitle string `json:"page_title,omitempty"`
	PageURL   string `json:"page_url,omitempty"`
	PageError string `json:"page_error,omitempty"`
}

// DiscoverOutput is the output for the discover_debug_ports tool.
type DiscoverOutput struct {
	Slots []SlotInfo `json:"slots"`
}

// ListWindowsInput is the input for the list_browser_windows tool.
type ListWindowsInput struct{}

// ListWindowsOutput is the output for the list_browser_windows tool.
type ListWindowsOutput struct {
	Windows []WindowInfo `json:"windows"`
}
