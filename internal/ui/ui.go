// Package ui renders assistant output for the terminal: markdown bodies,
// styled notices, panels, and unified diffs. Rendering is cosmetic only;
// every function returns a string and mutates nothing.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/pmezard/go-difflib/difflib"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF5F87"))
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB454"))
	agentStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF00FF"))
	addStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	removeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1)
)

// Renderer formats assistant output.
type Renderer struct {
	markdown *glamour.TermRenderer
}

// NewRenderer constructs a Renderer. Markdown rendering degrades to raw
// text when the terminal renderer cannot be initialized.
func NewRenderer() *Renderer {
	md, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		md = nil
	}
	return &Renderer{markdown: md}
}

// Markdown renders a markdown body for the terminal.
func (r *Renderer) Markdown(body string) string {
	if r.markdown == nil {
		return body
	}
	out, err := r.markdown.Render(body)
	if err != nil {
		return body
	}
	return out
}

// Title renders a heading.
func (r *Renderer) Title(text string) string {
	return titleStyle.Render(text)
}

// Success renders a success note.
func (r *Renderer) Success(text string) string {
	return successStyle.Render(text)
}

// Error renders a failure note.
func (r *Renderer) Error(text string) string {
	return errorStyle.Render("Error: " + text)
}

// Notice renders an informational note.
func (r *Renderer) Notice(text string) string {
	return noticeStyle.Render(text)
}

// Panel renders a bordered box with a title line.
func (r *Renderer) Panel(title, body string) string {
	content := body
	if title != "" {
		content = titleStyle.Render(title) + "\n" + body
	}
	return panelStyle.Render(content)
}

// AgentModeBanner announces the switch to autonomous execution.
func (r *Renderer) AgentModeBanner() string {
	return r.Panel(agentStyle.Render("AGENT MODE ACTIVATED"),
		"I will now work autonomously without asking for confirmations.\n"+
			"I'll execute tasks and show you the results.\n\n"+
			"Say 'exit agent mode' to return to interactive mode.")
}

// InteractiveModeBanner announces the switch back to confirmation-gated
// execution.
func (r *Renderer) InteractiveModeBanner() string {
	return r.Panel(titleStyle.Render("INTERACTIVE MODE ACTIVATED"),
		"I'm back to interactive mode.\nI'll ask for confirmations when needed.")
}

// Diff colorizes a unified diff.
func (r *Renderer) Diff(diffText string) string {
	lines := strings.Split(diffText, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
			lines[i] = addStyle.Render(line)
		case strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
			lines[i] = removeStyle.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

// UnifiedDiff computes a unified diff between two texts.
func UnifiedDiff(original, modified string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(modified),
		FromFile: "(original)",
		ToFile:   "(modified)",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("compute diff: %w", err)
	}
	return text, nil
}
