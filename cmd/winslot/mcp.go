package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/1broseidon/winslot/internal/mcp"
)

func newMCPCommand(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Model Context Protocol server",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		Long: `Start the MCP server on stdio. Designed to be launched by an MCP client,
which talks to it over stdin and stdout. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// stdout carries the protocol, so progress lines are dropped.
			a, err := flags.setup(io.Discard, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			server := mcp.NewServer(mcp.Deps{
				Repositioner: a.repositioner(),
				Processes:    a.scanner,
				Pages:        a.pages,
				WebPorts:     a.webPorts(),
				Logger:       a.logger,
			})
			return server.Run(cmd.Context())
		},
	})

	return cmd
}
