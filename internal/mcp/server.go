// Package mcp exposes window repositioning as MCP tools over stdio.
package mcp

import (
	"context"
	"log/slog"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/winslot/internal/platform"
	"github.com/1broseidon/winslot/internal/reposition"
)

const (
	ServerName    = "winslot"
	ServerVersion = "0.1.0"
)

// Repositioner runs the strategy cascade and reads back window bounds.
type Repositioner interface {
	Run(ctx context.Context) reposition.Report
	Verify(ctx context.Context) ([]platform.Window, error)
}

// Deps are the collaborators the tools call into.
type Deps struct {
	Repositioner Repositioner
	Processes    reposition.ProcessScanner
	Pages        reposition.PageSource
	WebPorts     []int
	Logger       *slog.Logger
}

// Server is the MCP server for window repositioning.
type Server struct {
	mcpServer *mcpsdk.Server
	repo      Repositioner
	procs     reposition.ProcessScanner
	pages     reposition.PageSource
	webPorts  []int
	logger    *slog.Logger

	// mu keeps tool calls that touch windows from interleaving.
	mu sync.Mutex
}

// NewServer creates an MCP server with all tools registered.
func NewServer(deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		repo:     deps.Repositioner,
		procs:    deps.Processes,
		pages:    deps.Pages,
		webPorts: append([]int(nil), deps.WebPorts...),
		logger:   logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("mcp server starting", "name", ServerName, "version", ServerVersion)
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "reposition_windows",
		Description: "Move the two browser app windows and the editor window into their configured positions. Tries a batch move by window title first, then falls back per window to tab URL, front window title and main process frame. Returns the strategies attempted per window and the final browser window bounds.",
	}, s.handleReposition)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "discover_debug_ports",
		Description: "Scan running browser processes for remote debugging ports and map them to the configured web port slots (for example 8080). Optionally fetch the first page title and URL from each debug port.",
	}, s.handleDiscover)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_browser_windows",
		Description: "List every browser window with its title and bounds as {left, top, right, bottom}.",
	}, s.handleListWindows)
}
