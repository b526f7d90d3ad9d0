package dispatch

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/alfakih7/nova-cli-agent/internal/toolkit"
)

const (
	relevanceMaxFiles  = 50
	relevanceMaxBytes  = 32 * 1024
	relevanceThreshold = 0.2
	snippetMaxLines    = 30
	snippetMaxBytes    = 1500
)

var wordRe = regexp.MustCompile(`[a-z0-9_]+`)

// relevantSnippet scans the visible source files in dir and returns the
// path and leading content of the one whose tokens best overlap the
// question. It backs chat context when no file is focused; an empty path
// means nothing scored above the threshold.
func relevantSnippet(dir, question string) (string, string) {
	qTokens := tokens(question)
	if len(qTokens) == 0 {
		return "", ""
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", ""
	}

	var bestPath, bestContent string
	var bestScore float64
	seen := 0
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if toolkit.LanguageForFilename(e.Name()) == "" {
			continue
		}
		if seen++; seen > relevanceMaxFiles {
			break
		}

		raw, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		if len(raw) > relevanceMaxBytes {
			raw = raw[:relevanceMaxBytes]
		}
		content := string(raw)

		score := overlap(qTokens, tokens(content))
		if score > bestScore {
			bestScore, bestPath, bestContent = score, e.Name(), content
		}
	}

	if bestScore < relevanceThreshold {
		return "", ""
	}
	return bestPath, snippet(bestContent)
}

// overlap is the fraction of distinct question tokens present in the
// document.
func overlap(question, doc []string) float64 {
	if len(question) == 0 || len(doc) == 0 {
		return 0
	}
	inDoc := make(map[string]struct{}, len(doc))
	for _, t := range doc {
		inDoc[t] = struct{}{}
	}
	distinct := make(map[string]struct{}, len(question))
	matched := 0
	for _, q := range question {
		if _, dup := distinct[q]; dup {
			continue
		}
		distinct[q] = struct{}{}
		if _, ok := inDoc[q]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(distinct))
}

func tokens(s string) []string {
	return wordRe.FindAllString(strings.ToLower(s), -1)
}

// snippet keeps the head of a file, bounded by lines and bytes.
func snippet(content string) string {
	lines := strings.Split(content, "\n")
	if len(lines) > snippetMaxLines {
		lines = lines[:snippetMaxLines]
	}
	out := strings.Join(lines, "\n")
	if len(out) > snippetMaxBytes {
		out = out[:snippetMaxBytes]
	}
	return out
}
