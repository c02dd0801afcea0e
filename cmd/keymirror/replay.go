package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"pkt.systems/keymirror"
	"pkt.systems/keymirror/internal/appconfig"
	"pkt.systems/keymirror/internal/format"
	"pkt.systems/keymirror/schema"
	"pkt.systems/pslog"
)

type replayFlags struct {
	cfgPath string
	server  string
	save    bool
	restore bool
	quiet   bool
	events  bool
}

func newReplayCmd() *cobra.Command {
	var flags replayFlags
	cmd := &cobra.Command{
		Use:   "replay [files...]",
		Short: "Apply JSON-lines change notifications and print the resulting tabs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd, args, flags)
		},
	}
	cmd.Flags().StringVarP(&flags.cfgPath, "config", "c", "", "config path (default ~/.keymirror/config.yaml)")
	cmd.Flags().StringVar(&flags.server, "server", "", "only apply notifications for this server")
	cmd.Flags().BoolVar(&flags.save, "save", false, "save the workspace to the state dir when done")
	cmd.Flags().BoolVar(&flags.restore, "restore", false, "restore the saved workspace before replaying")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "do not print the tab summary")
	cmd.Flags().BoolVar(&flags.events, "events", false, "print tab and content events as they happen")
	return cmd
}

func runReplay(cmd *cobra.Command, args []string, flags replayFlags) error {
	cfg, err := appconfig.Load(flags.cfgPath)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := configLogger(ctx, cmd.ErrOrStderr(), cfg.Logging)
	ctx = pslog.ContextWithLogger(ctx, logger)

	var server schema.ServerName
	if flags.server != "" {
		server, err = schema.NormalizeServerName(flags.server)
		if err != nil {
			return fmt.Errorf("--server: %w", err)
		}
	}

	restore := flags.restore || cfg.Workspace.Restore
	opts := []keymirror.MirrorOption{}
	if flags.save || restore {
		opts = append(opts, keymirror.WithPersistence())
	}
	renderer := format.NewPlainRenderer()
	deps := keymirror.MirrorDeps{Logger: logger}
	if flags.events {
		deps.EventSink = &eventPrinter{w: cmd.OutOrStdout(), renderer: renderer}
	}
	mirror, err := keymirror.New(keymirror.MirrorConfig{
		Registry:  cfg.RegistryConfig(),
		Profiles:  cfg.ProfileMap(),
		StateDir:  cfg.StateDir,
		Workspace: cfg.Workspace.Name,
	}, deps, opts...)
	if err != nil {
		return err
	}
	if restore {
		ok, err := mirror.Restore()
		if err != nil {
			return err
		}
		logger.Debug("replay workspace restore", "workspace", cfg.Workspace.Name, "found", ok)
	}

	replayOpts := keymirror.ReplayOptions{Server: server, StopOnError: cfg.Replay.StopOnError}
	var total keymirror.ReplayStats
	if len(args) == 0 {
		replayOpts.Source = "stdin"
		stats, err := mirror.Replay(ctx, cmd.InOrStdin(), replayOpts)
		total = addStats(total, stats)
		if err != nil {
			return err
		}
	}
	for _, path := range args {
		stats, err := replayFile(ctx, mirror, path, replayOpts)
		total = addStats(total, stats)
		if err != nil {
			return err
		}
	}
	logger.Info("replay complete",
		"notes", total.Notes,
		"applied", total.Applied,
		"unchanged", total.Unchanged,
		"filtered", total.Filtered,
		"malformed", total.Malformed,
	)

	if !flags.quiet {
		if err := writeLines(cmd.OutOrStdout(), renderer.FormatTabs(mirror.Registry().Tabs())); err != nil {
			return err
		}
	}
	if flags.save {
		path, err := mirror.Save()
		if err != nil {
			return err
		}
		logger.Info("replay workspace saved", "path", path)
	}
	return nil
}

func replayFile(ctx context.Context, mirror *keymirror.Mirror, path string, opts keymirror.ReplayOptions) (keymirror.ReplayStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return keymirror.ReplayStats{}, err
	}
	defer func() { _ = f.Close() }()
	opts.Source = path
	return mirror.Replay(ctx, f, opts)
}

func addStats(a, b keymirror.ReplayStats) keymirror.ReplayStats {
	a.Notes += b.Notes
	a.Applied += b.Applied
	a.Unchanged += b.Unchanged
	a.Filtered += b.Filtered
	a.Malformed += b.Malformed
	return a
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// eventPrinter writes registry events in the order the registry emits them.
type eventPrinter struct {
	w        io.Writer
	renderer *format.PlainRenderer
}

func (p *eventPrinter) OnTabEvent(event schema.TabEvent) {
	_ = writeLines(p.w, p.renderer.FormatTabEvent(event))
}

func (p *eventPrinter) OnContentEvent(event schema.ContentEvent) {
	_ = writeLines(p.w, p.renderer.FormatContentEvent(event))
}
