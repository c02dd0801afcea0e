package main

import (
	"context"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pkt.systems/keymirror/internal/appconfig"
	"pkt.systems/psi"
	"pkt.systems/pslog"
)

func main() {
	psi.Run(submain)
}

func submain(ctx context.Context) int {
	logger := pslog.LoggerFromEnv(
		pslog.WithEnvWriter(os.Stderr),
		pslog.WithEnvOptions(pslog.Options{Mode: pslog.ModeConsole}),
	)
	ctx = pslog.ContextWithLogger(ctx, logger)
	log.SetOutput(pslog.LogLogger(logger).Writer())
	log.SetFlags(0)

	root := newRootCmd()
	root.SetArgs(os.Args[1:])

	if err := root.ExecuteContext(ctx); err != nil {
		pslog.Ctx(ctx).With("err", err).Error("keymirror command failed")
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "keymirror",
		Short:         "Mirror remote key contents into tabs from change notifications",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.AddCommand(newReplayCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// configLogger returns a logger honoring the config file. LOG_* environment
// settings win when present.
func configLogger(ctx context.Context, w io.Writer, cfg appconfig.LoggingConfig) pslog.Logger {
	if os.Getenv("LOG_LEVEL") != "" || os.Getenv("LOG_MODE") != "" {
		return pslog.Ctx(ctx)
	}
	opts := pslog.Options{Mode: pslog.ModeConsole}
	if cfg.Structured {
		opts.Mode = pslog.ModeStructured
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Level)) {
	case "trace":
		opts.MinLevel = pslog.TraceLevel
	case "debug":
		opts.MinLevel = pslog.DebugLevel
	case "warn":
		opts.MinLevel = pslog.WarnLevel
	case "error":
		opts.MinLevel = pslog.ErrorLevel
	default:
		opts.MinLevel = pslog.InfoLevel
	}
	return pslog.NewWithOptions(w, opts)
}
