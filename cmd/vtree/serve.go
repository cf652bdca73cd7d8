package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/vango-dev/vtree/internal/config"
	"github.com/vango-dev/vtree/pkg/mirror"
	"github.com/vango-dev/vtree/pkg/vdom"
)

func serveCmd() *cobra.Command {
	var (
		addr    string
		dir     string
		initial string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a live mirror of the document",
		Long: `Start the mirror server. Trees posted to /render are reconciled into
the document and every surface operation is streamed to websocket
clients on /ws.

Configuration is read from vtree.json in the config directory.
VTREE_ADDR overrides the listen address.

Examples:
  vtree serve
  vtree serve --addr=:8080 --tree=page.yaml`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(dir)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Serve.Addr = addr
			}
			logger, err := newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return runServe(cmd, cfg, logger, initial)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (default from config)")
	cmd.Flags().StringVarP(&dir, "config", "c", ".", "Directory containing "+config.ConfigFileName)
	cmd.Flags().StringVarP(&initial, "tree", "t", "", "Tree file to render before serving")

	return cmd
}

func runServe(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, initial string) error {
	srv, err := mirror.New(cfg,
		mirror.WithLogger(logger),
		mirror.WithHandlers(serveHandlers(logger)),
	)
	if err != nil {
		return err
	}

	if initial != "" {
		tree, err := loadTree(initial)
		if err != nil {
			return err
		}
		if _, err := srv.Render(cmd.Context(), tree); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	color.New(color.FgGreen).Fprint(out, "✓ ")
	fmt.Fprintf(out, "mirror listening on http://%s\n", cfg.Serve.Addr)
	return srv.Run(ctx)
}

// serveHandlers are the handler names posted trees may reference. Each one
// logs the event it receives.
func serveHandlers(logger *slog.Logger) map[string]vdom.Handler {
	logEvent := func(e vdom.Event) {
		logger.Info("event", "type", e.Type, "target", uint64(e.Target), "value", e.Value)
	}
	return map[string]vdom.Handler{
		"log":  logEvent,
		"noop": func(vdom.Event) {},
	}
}

// newLogger builds the process logger from the log section of cfg.
func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if cfg.Log.Format == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h), nil
}
