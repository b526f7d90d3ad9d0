package dispatch

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alfakih7/nova-cli-agent/internal/config"
	"github.com/alfakih7/nova-cli-agent/internal/intent"
	"github.com/alfakih7/nova-cli-agent/internal/llm"
	llmmock "github.com/alfakih7/nova-cli-agent/internal/llm/mock"
	"github.com/alfakih7/nova-cli-agent/internal/toolkit"
)

type fixture struct {
	dispatcher *Dispatcher
	session    *Session
	out        *bytes.Buffer
}

// newFixture wires a dispatcher whose gateway always yields completion.
func newFixture(t *testing.T, completion string, input string, workDir string) *fixture {
	t.Helper()

	chatFn := func(ctx context.Context, req llm.ChatRequest) (llm.ChatResponse, error) {
		if completion == "" {
			t.Fatal("gateway must not be called for this utterance")
		}
		return llm.ChatResponse{Message: llm.ChatMessage{Role: llm.RoleAssistant, Content: completion}}, nil
	}

	reg := llm.NewRegistry()
	reg.RegisterProvider("mock", &llmmock.Provider{ChatFn: chatFn})
	reg.RegisterRoute("default", llm.ModelRoute{Provider: "mock", Model: "m"}, true)

	tools, err := toolkit.New(toolkit.Options{Registry: reg, AllowExec: true})
	require.NoError(t, err)

	session := NewSession(config.SessionConfig{HistoryTurns: 20, ContextBytes: 4096, Mode: "interactive"})
	out := &bytes.Buffer{}

	d := New(Options{
		Session:  session,
		Resolver: intent.NewResolver(reg, nil, nil),
		Toolkit:  tools,
		WorkDir:  workDir,
		In:       strings.NewReader(input),
		Out:      out,
	})
	return &fixture{dispatcher: d, session: session, out: out}
}

func TestModeTogglesBypassResolution(t *testing.T) {
	f := newFixture(t, "", "", t.TempDir())

	quit := f.dispatcher.HandleUtterance(context.Background(), "agent mode")
	require.False(t, quit)
	require.Equal(t, ModeAgent, f.session.Mode)
	require.Contains(t, f.out.String(), "AGENT MODE ACTIVATED")

	f.dispatcher.HandleUtterance(context.Background(), "exit agent mode")
	require.Equal(t, ModeInteractive, f.session.Mode)
	require.Contains(t, f.out.String(), "INTERACTIVE MODE ACTIVATED")
}

func TestModeToggleWhenAlreadyInMode(t *testing.T) {
	f := newFixture(t, "", "", t.TempDir())

	f.dispatcher.HandleUtterance(context.Background(), "interactive mode")
	require.Contains(t, f.out.String(), "Already in interactive mode")
}

func TestQuitPhrases(t *testing.T) {
	for _, phrase := range []string{"exit", "quit", "bye", "goodbye", "  EXIT  "} {
		f := newFixture(t, "", "", t.TempDir())
		require.True(t, f.dispatcher.HandleUtterance(context.Background(), phrase), "phrase %q should quit", phrase)
	}
}

func TestEmptyUtteranceSkipped(t *testing.T) {
	f := newFixture(t, "", "", t.TempDir())
	require.False(t, f.dispatcher.HandleUtterance(context.Background(), "   \n"))
	require.Empty(t, f.session.History())
}

func TestConfirmationDeclinedCancels(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "precious.txt")
	require.NoError(t, os.WriteFile(target, []byte("keep me"), 0o644))

	completion := `{"intent":"delete_file","parameters":{"filename":"` + target + `"},"response":"Deleting.","needs_confirmation":true}`
	f := newFixture(t, completion, "n\n", dir)

	f.dispatcher.HandleUtterance(context.Background(), "delete precious.txt")
	require.Contains(t, f.out.String(), "Cancelled.")
	require.FileExists(t, target)
}

func TestAgentModeProceedsAutomatically(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "doomed.txt")
	require.NoError(t, os.WriteFile(target, []byte("bye"), 0o644))

	completion := `{"intent":"delete_file","parameters":{"filename":"` + target + `"},"response":"Deleting.","needs_confirmation":true}`
	f := newFixture(t, completion, "", dir)
	f.session.Mode = ModeAgent
	f.dispatcher.installConfirmer()

	f.dispatcher.HandleUtterance(context.Background(), "delete doomed.txt")
	require.Contains(t, f.out.String(), "Proceeding automatically")
	require.NoFileExists(t, target)
	require.FileExists(t, target+toolkit.BackupSuffix)
}

func TestChatResponseRenderedOnce(t *testing.T) {
	completion := `{"intent":"chat","parameters":{},"response":"Hello! How can I help?"}`
	f := newFixture(t, completion, "", t.TempDir())

	f.dispatcher.HandleUtterance(context.Background(), "hi")
	require.Equal(t, 1, strings.Count(f.out.String(), "How can I help?"))

	// Both sides of the exchange land in history.
	hist := f.session.History()
	require.Len(t, hist, 2)
	require.Equal(t, llm.RoleUser, hist[0].Role)
	require.Equal(t, llm.RoleAssistant, hist[1].Role)
}

func TestLoopEndsOnQuit(t *testing.T) {
	f := newFixture(t, "", "exit\n", t.TempDir())

	require.NoError(t, f.dispatcher.Loop(context.Background()))
	require.Contains(t, f.out.String(), "Goodbye!")
}

func TestLoopEndsOnEOF(t *testing.T) {
	f := newFixture(t, "", "", t.TempDir())

	require.NoError(t, f.dispatcher.Loop(context.Background()))
	require.Contains(t, f.out.String(), "Goodbye!")
}
