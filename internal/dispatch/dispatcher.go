// Package dispatch implements the conversational dispatcher: the read-eval
// loop that owns session state, resolves intents, applies the
// confirmation/agent-mode policy, and invokes the action toolkit.
package dispatch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/alfakih7/nova-cli-agent/internal/intent"
	"github.com/alfakih7/nova-cli-agent/internal/keystore"
	"github.com/alfakih7/nova-cli-agent/internal/llm"
	"github.com/alfakih7/nova-cli-agent/internal/observability"
	"github.com/alfakih7/nova-cli-agent/internal/toolkit"
	"github.com/alfakih7/nova-cli-agent/internal/ui"
)

var (
	agentOnPhrases  = []string{"agent mode", "enable agent mode", "turn on agent mode", "autonomous mode"}
	agentOffPhrases = []string{"exit agent mode", "disable agent mode", "turn off agent mode", "interactive mode"}
	quitPhrases     = []string{"exit", "quit", "bye", "goodbye"}
)

// Options wires the dispatcher's collaborators.
type Options struct {
	Session  *Session
	Resolver *intent.Resolver
	Toolkit  *toolkit.Toolkit
	Keystore *keystore.Store
	Renderer *ui.Renderer
	Metrics  *observability.Metrics
	Logger   *zap.Logger
	WorkDir  string
	In       io.Reader
	Out      io.Writer
}

// Dispatcher drives one interactive session.
type Dispatcher struct {
	session  *Session
	resolver *intent.Resolver
	tools    *toolkit.Toolkit
	keystore *keystore.Store
	renderer *ui.Renderer
	metrics  *observability.Metrics
	logger   *zap.Logger
	workDir  string
	in       *bufio.Reader
	out      io.Writer
}

// New constructs a Dispatcher and installs the confirmation policy matching
// the session's starting mode.
func New(opts Options) *Dispatcher {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Renderer == nil {
		opts.Renderer = ui.NewRenderer()
	}

	d := &Dispatcher{
		session:  opts.Session,
		resolver: opts.Resolver,
		tools:    opts.Toolkit,
		keystore: opts.Keystore,
		renderer: opts.Renderer,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
		workDir:  opts.WorkDir,
		in:       bufio.NewReader(opts.In),
		out:      opts.Out,
	}
	d.installConfirmer()
	return d
}

// Loop reads utterances until a quit phrase or end of input. Context
// cancellation between turns also ends the loop.
func (d *Dispatcher) Loop(ctx context.Context) error {
	d.printStartupListing()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Fprint(d.out, "\nYou: ")
		line, err := d.in.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				fmt.Fprintln(d.out, d.renderer.Notice("Goodbye!"))
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}

		if quit := d.HandleUtterance(ctx, line); quit {
			fmt.Fprintln(d.out, d.renderer.Notice("Goodbye!"))
			return nil
		}
	}
}

// HandleUtterance processes one utterance end to end and reports whether
// the session should end.
func (d *Dispatcher) HandleUtterance(ctx context.Context, utterance string) bool {
	text := strings.TrimSpace(utterance)
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)

	for _, phrase := range quitPhrases {
		if lower == phrase {
			return true
		}
	}

	// Mode toggles are intercepted before intent resolution and never
	// reach the gateway.
	for _, phrase := range agentOnPhrases {
		if lower == phrase {
			d.setMode(ModeAgent)
			return false
		}
	}
	for _, phrase := range agentOffPhrases {
		if lower == phrase {
			d.setMode(ModeInteractive)
			return false
		}
	}

	d.metrics.RecordTurn()
	d.session.AppendTurn(llm.RoleUser, text)

	desc := d.resolver.Resolve(ctx, text, d.session.ContextString(d.workDir))
	d.logger.Debug("resolved intent",
		zap.String("intent", desc.Intent),
		zap.Bool("needs_confirmation", desc.NeedsConfirmation),
	)

	if desc.Response != "" {
		fmt.Fprintln(d.out, d.renderer.Markdown(desc.Response))
	}

	if desc.NeedsConfirmation {
		if d.session.Mode == ModeAgent {
			fmt.Fprintln(d.out, d.renderer.Notice("Agent Mode: Proceeding automatically..."))
		} else if !d.confirm("Proceed?") {
			fmt.Fprintln(d.out, d.renderer.Notice("Cancelled."))
			d.session.AppendTurn(llm.RoleAssistant, "Cancelled at user request.")
			return false
		}
	}

	d.Execute(ctx, desc)
	if desc.Response != "" {
		d.session.AppendTurn(llm.RoleAssistant, desc.Response)
	}
	return false
}

func (d *Dispatcher) setMode(mode Mode) {
	if d.session.Mode == mode {
		fmt.Fprintln(d.out, d.renderer.Notice(fmt.Sprintf("Already in %s mode.", mode)))
		return
	}
	d.session.Mode = mode
	d.installConfirmer()
	if mode == ModeAgent {
		fmt.Fprintln(d.out, d.renderer.AgentModeBanner())
	} else {
		fmt.Fprintln(d.out, d.renderer.InteractiveModeBanner())
	}
}

// installConfirmer points the toolkit's confirmation policy at the terminal
// in interactive mode and at an always-yes policy in agent mode.
func (d *Dispatcher) installConfirmer() {
	if d.tools == nil {
		return
	}
	if d.session.Mode == ModeAgent {
		d.tools.SetConfirmer(func(string) bool {
			fmt.Fprintln(d.out, d.renderer.Notice("Agent Mode: Proceeding automatically..."))
			return true
		})
		return
	}
	d.tools.SetConfirmer(d.confirm)
}

// confirm blocks for an explicit yes/no answer.
func (d *Dispatcher) confirm(promptText string) bool {
	fmt.Fprintf(d.out, "%s [y/N]: ", promptText)
	line, err := d.in.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// printStartupListing shows the working directory contents before the first
// prompt, directories first, hidden entries skipped.
func (d *Dispatcher) printStartupListing() {
	res := d.tools.ListFiles(d.workDir, "", false)
	if !res.Success {
		return
	}
	listing, ok := res.Data.(toolkit.Listing)
	if !ok {
		return
	}

	var b strings.Builder
	for _, e := range listing.Directories {
		fmt.Fprintf(&b, "  %s/\n", e.Name)
	}
	for _, e := range listing.Files {
		fmt.Fprintf(&b, "  %s (%s)\n", e.Name, e.Size)
	}
	fmt.Fprintln(d.out, d.renderer.Panel(fmt.Sprintf("Working directory: %s", d.workDir), strings.TrimRight(b.String(), "\n")))
}
