package dispatch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alfakih7/nova-cli-agent/internal/config"
	"github.com/alfakih7/nova-cli-agent/internal/llm"
)

func TestSessionHistoryRing(t *testing.T) {
	s := NewSession(config.SessionConfig{HistoryTurns: 2, ContextBytes: 4096, Mode: "interactive"})

	for i := 0; i < 5; i++ {
		s.AppendTurn(llm.RoleUser, "question")
		s.AppendTurn(llm.RoleAssistant, "answer")
	}

	// Two turns means at most four retained messages.
	require.Len(t, s.History(), 4)
}

func TestSessionStartsInConfiguredMode(t *testing.T) {
	s := NewSession(config.SessionConfig{HistoryTurns: 20, Mode: "agent"})
	require.Equal(t, ModeAgent, s.Mode)

	s = NewSession(config.SessionConfig{HistoryTurns: 20, Mode: "interactive"})
	require.Equal(t, ModeInteractive, s.Mode)
}

func TestSessionRecordsWithSetSemantics(t *testing.T) {
	s := NewSession(config.SessionConfig{HistoryTurns: 20})

	s.RecordAnalyzed("a.go")
	s.RecordAnalyzed("b.go")
	s.RecordAnalyzed("a.go")
	require.Equal(t, []string{"a.go", "b.go"}, s.AnalyzedFiles())

	s.RecordGenerated("new.go")
	s.RecordGenerated("new.go")
	require.Equal(t, []string{"new.go"}, s.GeneratedFiles())
}

func TestContextStringContents(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("x"), 0o644))

	s := NewSession(config.SessionConfig{HistoryTurns: 20, ContextBytes: 4096, Mode: "interactive"})
	s.SetCurrentFile("main.go", "package main")
	s.AppendTurn(llm.RoleUser, "what does this do")

	ctx := s.ContextString(dir)
	require.Contains(t, ctx, dir)
	require.Contains(t, ctx, "main.go")
	require.NotContains(t, ctx, ".hidden")
	require.Contains(t, ctx, "mode: interactive")
	require.Contains(t, ctx, "what does this do")
}

func TestContextStringTruncated(t *testing.T) {
	s := NewSession(config.SessionConfig{HistoryTurns: 20, ContextBytes: 64, Mode: "interactive"})
	s.AppendTurn(llm.RoleUser, strings.Repeat("long ", 100))

	out := s.ContextString(t.TempDir())
	require.LessOrEqual(t, len(out), 64)
}
