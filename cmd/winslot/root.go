package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/1broseidon/winslot/internal/config"
	"github.com/1broseidon/winslot/internal/devtools"
	"github.com/1broseidon/winslot/internal/notify"
	"github.com/1broseidon/winslot/internal/platform"
	"github.com/1broseidon/winslot/internal/procscan"
	"github.com/1broseidon/winslot/internal/progress"
	"github.com/1broseidon/winslot/internal/reposition"
)

// globalFlags are bound to the root command's persistent flags.
type globalFlags struct {
	configPath string
	verbose    bool
}

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "winslot",
		Short: "Put the app preview windows and the editor back in their slots",
		Long: `winslot moves the two browser windows serving localhost:8080 and
localhost:8081 and the editor window to fixed positions on screen.

Each browser window is tried with a batch move by title first, then by tab
URL, front window title and finally the main browser process. The editor is
moved once by process name. Run without arguments to reposition everything.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := flags.setup(cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			report := a.repositioner().Run(cmd.Context())
			if err := notify.New(a.cfg.Notify).Summary(report.Summary()); err != nil {
				a.logger.Warn("desktop notification failed", "error", err)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Config file path (default: ~/.config/winslot/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newDiscoverCommand(flags))
	rootCmd.AddCommand(newVerifyCommand(flags))
	rootCmd.AddCommand(newConfigCommand(flags))
	rootCmd.AddCommand(newMCPCommand(flags))

	return rootCmd
}

// app holds the wired collaborators for one invocation.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	out     *progress.Printer
	backend *platform.MacBackend
	scanner *procscan.Scanner
	pages   *devtools.Client
}

func (f *globalFlags) resolvePath() (string, error) {
	if f.configPath != "" {
		return f.configPath, nil
	}
	return config.DefaultConfigPath()
}

func (f *globalFlags) load() (*config.LoadResult, string, error) {
	path, err := f.resolvePath()
	if err != nil {
		return nil, "", err
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, path, fmt.Errorf("failed to load config: %w", err)
	}
	return res, path, nil
}

// setup loads the configuration and wires the macOS backend. Progress lines
// go to out and logs go to logw.
func (f *globalFlags) setup(out, logw io.Writer) (*app, error) {
	res, _, err := f.load()
	if err != nil {
		return nil, err
	}
	cfg := res.Config
	logger := newLogger(logw, cfg.LogLevel, f.verbose)
	if res.File != "" {
		logger.Debug("config loaded", "file", res.File)
	}

	runner := platform.ExecRunner{Timeout: cfg.AutomationTimeout}
	return &app{
		cfg:     cfg,
		logger:  logger,
		out:     progress.New(out),
		backend: platform.NewMacBackend(runner, cfg.Browser.App, cfg.TitleMarkers()),
		scanner: procscan.NewScanner(runner, cfg.SlotMatch, cfg.Browser.LaunchMarker),
		pages:   devtools.NewClient(cfg.MetadataTimeout),
	}, nil
}

func (a *app) repositioner() *reposition.Repositioner {
	return reposition.New(a.cfg, a.backend, a.scanner, a.pages, a.logger, a.out)
}

func (a *app) webPorts() []int {
	targets := a.cfg.BrowserTargets()
	ports := make([]int, 0, len(targets))
	for _, t := range targets {
		ports = append(ports, t.WebPort)
	}
	return ports
}

func newLogger(w io.Writer, level string, verbose bool) *slog.Logger {
	lvl := parseLevel(level)
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: lvl,
	}))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
