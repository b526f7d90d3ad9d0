package cli

import (
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alfakih7/nova-cli-agent/internal/observability"
	"github.com/alfakih7/nova-cli-agent/internal/ui"
	"github.com/alfakih7/nova-cli-agent/internal/version"
)

// NewChatCmd starts the interactive session. The bare `nova` invocation
// runs the same loop.
func NewChatCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive assistant session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, opts)
		},
	}
}

func runChat(cmd *cobra.Command, opts *Options) error {
	a, err := buildApp(cmd, opts, true)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
	defer stop()

	// First Ctrl-C prints a hint so a stray interrupt does not kill the
	// session; the second one forces an exit.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)
	var interrupts atomic.Int32
	go func() {
		for range sigCh {
			if interrupts.Add(1) == 1 {
				fmt.Fprintln(cmd.OutOrStdout(), "\nPress Ctrl-C again to exit, or type 'exit'.")
				continue
			}
			os.Exit(130)
		}
	}()

	if a.cfg.Metrics.Addr != "" {
		srv := observability.NewMetricsServer(a.cfg.Metrics.Addr, a.metrics, a.logger)
		go func() {
			if err := srv.Run(ctx); err != nil {
				a.logger.Warn("metrics listener stopped", zap.Error(err))
			}
		}()
	}

	renderer := ui.NewRenderer()
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderer.Title(fmt.Sprintf("NOVA %s – your coding assistant", version.Version)))
	fmt.Fprintln(out, renderer.Notice("Describe what you want in plain language. Type 'exit' to quit, 'agent mode' to skip confirmations."))

	if err := a.dispatcher.Loop(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
