package ui

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnifiedDiff(t *testing.T) {
	diff, err := UnifiedDiff("a\nb\nc\n", "a\nB\nc\n")
	require.NoError(t, err)
	require.Contains(t, diff, "--- (original)")
	require.Contains(t, diff, "+++ (modified)")
	require.Contains(t, diff, "-b")
	require.Contains(t, diff, "+B")
}

func TestUnifiedDiffIdentical(t *testing.T) {
	diff, err := UnifiedDiff("same\n", "same\n")
	require.NoError(t, err)
	require.Empty(t, diff)
}

func TestMarkdownFallsBackToRawText(t *testing.T) {
	r := &Renderer{markdown: nil}
	require.Equal(t, "# heading", r.Markdown("# heading"))
}

func TestPanelIncludesTitleAndBody(t *testing.T) {
	r := NewRenderer()
	out := r.Panel("Working directory", "main.go (1 KB)")
	require.Contains(t, out, "Working directory")
	require.Contains(t, out, "main.go")
}

func TestErrorPrefix(t *testing.T) {
	r := NewRenderer()
	require.Contains(t, r.Error("boom"), "Error: boom")
}

func TestDiffPreservesHeaders(t *testing.T) {
	r := NewRenderer()
	in := "--- (original)\n+++ (modified)\n-old\n+new\n"
	out := r.Diff(in)
	require.Contains(t, out, "--- (original)")
	require.Contains(t, out, "+++ (modified)")
	require.Contains(t, out, "old")
	require.Contains(t, out, "new")
}
