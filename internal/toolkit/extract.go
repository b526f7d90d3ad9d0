package toolkit

import "strings"

// ExtractCodeBlock returns the contents of the first fenced code block in
// completion text. A leading language tag line matching lang (or any single
// word) is stripped. When no fence is present the full text is returned
// verbatim, so callers always get something usable.
func ExtractCodeBlock(text, lang string) string {
	start := strings.Index(text, "```")
	if start < 0 {
		return strings.TrimSpace(text)
	}

	rest := text[start+3:]
	end := strings.Index(rest, "```")
	if end < 0 {
		return strings.TrimSpace(text)
	}
	block := rest[:end]

	// Drop the fence's info string line when present.
	if nl := strings.Index(block, "\n"); nl >= 0 {
		first := strings.TrimSpace(block[:nl])
		if first == "" || isLanguageTag(first, lang) {
			block = block[nl+1:]
		}
	}

	return strings.TrimRight(block, "\n")
}

func isLanguageTag(tag, lang string) bool {
	tag = strings.ToLower(tag)
	if lang != "" && tag == strings.ToLower(lang) {
		return true
	}
	// A bare single word with no spaces is treated as an info string.
	return !strings.ContainsAny(tag, " \t")
}
