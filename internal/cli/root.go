// Package cli wires the command tree: the interactive chat session as the
// primary entry point, plus direct one-shot verbs for scripted use.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfakih7/nova-cli-agent/internal/config"
	"github.com/alfakih7/nova-cli-agent/internal/version"
)

// Options holds global CLI options.
type Options struct {
	ConfigPath string
}

// NewRootCmd constructs the base CLI command tree.
func NewRootCmd() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:           "nova",
		Short:         "NOVA – conversational coding assistant",
		Version:       version.Full(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Bare invocation starts the interactive session.
			return runChat(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "Path to config file (default: config.yaml in . or configs/)")

	cmd.AddCommand(NewChatCmd(opts))
	cmd.AddCommand(NewAnalyzeCmd(opts))
	cmd.AddCommand(NewGenerateCmd(opts))
	cmd.AddCommand(NewExplainCmd(opts))
	cmd.AddCommand(NewRunCmd(opts))
	cmd.AddCommand(NewSearchCmd(opts))
	cmd.AddCommand(NewDoctorCmd(opts))
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig wraps config loading with shared options.
func loadConfig(opts *Options) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
