package dispatch

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/alfakih7/nova-cli-agent/internal/config"
	"github.com/alfakih7/nova-cli-agent/internal/llm"
)

// Mode governs the confirmation policy.
type Mode string

const (
	ModeInteractive Mode = "interactive"
	ModeAgent       Mode = "agent"
)

// Session is the dispatcher's mutable state for one run. It is only ever
// touched from the read-eval loop, so no locking is needed; a multi-session
// variant would need per-session isolation.
type Session struct {
	CurrentFile string
	FileContent string
	Mode        Mode

	historyTurns int
	contextBytes int
	history      []llm.ChatMessage

	analyzedSet    map[string]bool
	analyzedFiles  []string
	generatedSet   map[string]bool
	generatedFiles []string

	FixesApplied   int
	SuccessfulRuns int
}

// NewSession builds session state from configuration.
func NewSession(cfg config.SessionConfig) *Session {
	mode := ModeInteractive
	if strings.EqualFold(cfg.Mode, string(ModeAgent)) {
		mode = ModeAgent
	}
	return &Session{
		Mode:         mode,
		historyTurns: cfg.HistoryTurns,
		contextBytes: cfg.ContextBytes,
		analyzedSet:  make(map[string]bool),
		generatedSet: make(map[string]bool),
	}
}

// AppendTurn records a conversation turn, dropping the oldest once the
// ring cap is reached.
func (s *Session) AppendTurn(role llm.Role, text string) {
	s.history = append(s.history, llm.ChatMessage{Role: role, Content: text})
	max := s.historyTurns * 2
	if max > 0 && len(s.history) > max {
		s.history = s.history[len(s.history)-max:]
	}
}

// History returns the retained conversation turns.
func (s *Session) History() []llm.ChatMessage {
	return s.history
}

// SetCurrentFile focuses the session on a file and caches its content.
func (s *Session) SetCurrentFile(path, content string) {
	s.CurrentFile = path
	s.FileContent = content
}

// RecordAnalyzed adds a path to the analyzed list with set semantics,
// keeping insertion order for display.
func (s *Session) RecordAnalyzed(path string) {
	if path == "" || s.analyzedSet[path] {
		return
	}
	s.analyzedSet[path] = true
	s.analyzedFiles = append(s.analyzedFiles, path)
}

// RecordGenerated adds a path to the generated list with set semantics.
func (s *Session) RecordGenerated(path string) {
	if path == "" || s.generatedSet[path] {
		return
	}
	s.generatedSet[path] = true
	s.generatedFiles = append(s.generatedFiles, path)
}

// AnalyzedFiles returns analyzed paths in insertion order.
func (s *Session) AnalyzedFiles() []string {
	return s.analyzedFiles
}

// GeneratedFiles returns generated paths in insertion order.
func (s *Session) GeneratedFiles() []string {
	return s.generatedFiles
}

// ContextString summarizes the session for the intent parser: working
// directory, a capped listing of visible files, the focus file, and the
// last few turns truncated to the configured byte budget.
func (s *Session) ContextString(workDir string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "working directory: %s\n", workDir)

	entries, err := os.ReadDir(workDir)
	if err == nil {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if strings.HasPrefix(e.Name(), ".") {
				continue
			}
			names = append(names, e.Name())
		}
		sort.Strings(names)
		if len(names) > 30 {
			names = names[:30]
		}
		fmt.Fprintf(&b, "visible files: %s\n", strings.Join(names, ", "))
	}

	if s.CurrentFile != "" {
		fmt.Fprintf(&b, "current file: %s\n", s.CurrentFile)
	}
	fmt.Fprintf(&b, "mode: %s\n", s.Mode)

	if len(s.history) > 0 {
		recent := s.history
		if len(recent) > 6 {
			recent = recent[len(recent)-6:]
		}
		b.WriteString("recent conversation:\n")
		for _, m := range recent {
			fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
		}
	}

	out := b.String()
	if s.contextBytes > 0 && len(out) > s.contextBytes {
		out = out[:s.contextBytes]
	}
	return out
}
