package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/alfakih7/nova-cli-agent/internal/intent"
)

// The direct verbs run a single toolkit operation without the intent
// parser, for scripted and one-shot use. Confirmations still read from
// stdin unless the config starts the session in agent mode.

// NewAnalyzeCmd analyzes a source file: local diagnostics, code metrics,
// and an AI review.
func NewAnalyzeCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <file>",
		Short: "Analyze a source file for issues and metrics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDirect(cmd, opts, intent.Descriptor{
				Intent:     "analyze",
				Parameters: map[string]string{"filename": args[0]},
			})
		},
	}
}

// NewGenerateCmd generates code from a description, optionally writing it
// to a file.
func NewGenerateCmd(opts *Options) *cobra.Command {
	var filename string
	var language string

	cmd := &cobra.Command{
		Use:   "generate \"<description>\"",
		Short: "Generate code from a natural-language description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := map[string]string{"description": args[0]}
			if filename != "" {
				params["filename"] = filename
			}
			if language != "" {
				params["language"] = language
			}
			return runDirect(cmd, opts, intent.Descriptor{
				Intent:     "generate",
				Parameters: params,
			})
		},
	}

	cmd.Flags().StringVarP(&filename, "output", "o", "", "Write the generated code to this file")
	cmd.Flags().StringVarP(&language, "language", "l", "", "Target language (default: Go)")
	return cmd
}

// NewExplainCmd explains a programming concept.
func NewExplainCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "explain <topic>...",
		Short: "Explain a programming concept",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDirect(cmd, opts, intent.Descriptor{
				Intent:     "explain",
				Parameters: map[string]string{"topic": strings.Join(args, " ")},
			})
		},
	}
}

// NewRunCmd executes a source file with its interpreter.
func NewRunCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "run <file>",
		Short: "Run a source file and capture its output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDirect(cmd, opts, intent.Descriptor{
				Intent:     "run",
				Parameters: map[string]string{"filename": args[0]},
			})
		},
	}
}

// NewSearchCmd runs a web search.
func NewSearchCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>...",
		Short: "Search the web and summarize the results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDirect(cmd, opts, intent.Descriptor{
				Intent:     "web_search",
				Parameters: map[string]string{"query": strings.Join(args, " ")},
			})
		},
	}
}

func runDirect(cmd *cobra.Command, opts *Options, desc intent.Descriptor) error {
	a, err := buildApp(cmd, opts, false)
	if err != nil {
		return err
	}
	defer a.close()

	a.dispatcher.Execute(cmd.Context(), desc)
	return nil
}
