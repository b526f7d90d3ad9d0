// Package intent turns free-form user utterances into structured action
// descriptors via the completion gateway's intent-parser role.
package intent

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Descriptor is the parsed output of intent resolution.
type Descriptor struct {
	Intent            string            `json:"intent"`
	Parameters        map[string]string `json:"parameters"`
	Response          string            `json:"response"`
	NeedsConfirmation bool              `json:"needs_confirmation"`
}

// Param returns a named parameter or empty string.
func (d Descriptor) Param(key string) string {
	return d.Parameters[key]
}

// knownIntents is the fixed enumerated set a descriptor may carry.
var knownIntents = map[string]bool{
	"analyze": true, "generate": true, "explain": true, "fix": true,
	"run": true, "chat": true, "refactor": true, "security": true,
	"optimize": true, "predict_bugs": true, "history": true, "show": true,
	"read_file": true, "modify_file": true, "list_files": true,
	"delete_api_key": true, "web_search": true, "create_file": true,
	"edit_file": true, "delete_file": true, "execute_command": true,
	"use_tool": true,
}

// Known reports whether name is a recognized intent.
func Known(name string) bool {
	return knownIntents[name]
}

// wireDescriptor tolerates loosely typed parameter values in model output.
type wireDescriptor struct {
	Intent            string                 `json:"intent"`
	Parameters        map[string]interface{} `json:"parameters"`
	Response          string                 `json:"response"`
	NeedsConfirmation bool                   `json:"needs_confirmation"`
}

// Decode extracts the first fenced block from completion text (preferring
// one tagged json) and decodes it as a Descriptor. With no fence present
// the whole text is tried. Any decode failure is returned as an error for
// the caller's fallback-to-chat policy.
func Decode(text string) (Descriptor, error) {
	candidate := fencedBlock(text)

	var wire wireDescriptor
	if err := json.Unmarshal([]byte(candidate), &wire); err != nil {
		return Descriptor{}, fmt.Errorf("decode descriptor: %w", err)
	}
	if wire.Intent == "" {
		return Descriptor{}, fmt.Errorf("decode descriptor: missing intent")
	}

	params := make(map[string]string, len(wire.Parameters))
	for k, v := range wire.Parameters {
		switch val := v.(type) {
		case string:
			params[k] = val
		case nil:
			// skip
		default:
			params[k] = fmt.Sprint(val)
		}
	}

	return Descriptor{
		Intent:            wire.Intent,
		Parameters:        params,
		Response:          wire.Response,
		NeedsConfirmation: wire.NeedsConfirmation,
	}, nil
}

// fencedBlock returns the contents of the first fenced block, preferring a
// json-tagged fence, or the trimmed input when no fence exists.
func fencedBlock(text string) string {
	for _, marker := range []string{"```json", "```"} {
		start := strings.Index(text, marker)
		if start < 0 {
			continue
		}
		rest := text[start+len(marker):]
		end := strings.Index(rest, "```")
		if end < 0 {
			continue
		}
		return strings.TrimSpace(rest[:end])
	}
	return strings.TrimSpace(text)
}
