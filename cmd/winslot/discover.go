package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newDiscoverCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "discover",
		Short: "Show browser debug ports and the page each one serves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := flags.setup(cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			a.out.Step("Scanning processes for remote debugging ports")
			ports, err := a.scanner.DebugPorts(ctx, a.webPorts())
			if err != nil {
				return fmt.Errorf("failed to scan processes: %w", err)
			}
			if len(ports) == 0 {
				a.out.Warn("No remote debugging ports found")
				return nil
			}

			slots := make([]string, 0, len(ports))
			for slot := range ports {
				slots = append(slots, slot)
			}
			sort.Strings(slots)

			for _, slot := range slots {
				info := ports[slot]
				a.out.OK("localhost:%s: debug port %d (pid %d)", slot, info.DebugPort, info.PID)
				page, ok, err := a.pages.FirstPage(ctx, info.DebugPort)
				switch {
				case err != nil:
					a.out.Warn("page metadata unavailable: %v", err)
				case !ok:
					a.out.Detail("no pages open")
				default:
					a.out.Detail("title: %s", page.Title)
					a.out.Detail("url: %s", page.URL)
				}
			}
			return nil
		},
	}
}

func newVerifyCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Print the current bounds of every browser window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := flags.setup(cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			_, err = a.repositioner().Verify(cmd.Context())
			return err
		},
	}
}
