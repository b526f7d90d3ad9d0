package toolkit

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Schema describes one invocable tool for the use_tool intent.
type Schema struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Parameters  []SchemaField `json:"parameters"`
}

// SchemaField describes a single parameter.
type SchemaField struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Schemas returns descriptors for the tools reachable by name.
func (t *Toolkit) Schemas() []Schema {
	s := []Schema{
		{
			Name:        "read_file",
			Description: "Read a file, optionally a 1-based inclusive line range",
			Parameters: []SchemaField{
				{Name: "filename", Type: "string", Required: true},
				{Name: "start_line", Type: "integer"},
				{Name: "end_line", Type: "integer"},
			},
		},
		{
			Name:        "create_file",
			Description: "Create a file from content or a generated description",
			Parameters: []SchemaField{
				{Name: "filename", Type: "string", Required: true},
				{Name: "content", Type: "string"},
				{Name: "description", Type: "string"},
				{Name: "language", Type: "string"},
			},
		},
		{
			Name:        "edit_file",
			Description: "Edit a file per a free-text description of the change",
			Parameters: []SchemaField{
				{Name: "filename", Type: "string", Required: true},
				{Name: "changes", Type: "string", Required: true},
			},
		},
		{
			Name:        "delete_file",
			Description: "Delete a file, keeping a backup sibling",
			Parameters: []SchemaField{
				{Name: "filename", Type: "string", Required: true},
			},
		},
		{
			Name:        "list_files",
			Description: "List directory entries matching a glob pattern",
			Parameters: []SchemaField{
				{Name: "directory", Type: "string"},
				{Name: "pattern", Type: "string"},
				{Name: "show_hidden", Type: "boolean"},
			},
		},
		{
			Name:        "execute_command",
			Description: "Run a shell command with a timeout",
			Parameters: []SchemaField{
				{Name: "command", Type: "string", Required: true},
				{Name: "working_dir", Type: "string"},
				{Name: "timeout_seconds", Type: "integer"},
			},
		},
		{
			Name:        "run_file",
			Description: "Execute a source file via its interpreter",
			Parameters: []SchemaField{
				{Name: "filename", Type: "string", Required: true},
			},
		},
		{
			Name:        "web_search",
			Description: "Search the web and summarize the results",
			Parameters: []SchemaField{
				{Name: "query", Type: "string", Required: true},
				{Name: "include_news", Type: "boolean"},
			},
		},
	}
	sort.Slice(s, func(i, j int) bool { return s[i].Name < s[j].Name })
	return s
}

// Invoke dispatches a named tool call with string-typed arguments, the
// escape hatch behind the use_tool intent.
func (t *Toolkit) Invoke(ctx context.Context, name string, args map[string]string) Result {
	get := func(key string) string { return args[key] }
	getInt := func(key string) int {
		n, _ := strconv.Atoi(args[key])
		return n
	}
	getBool := func(key string) bool {
		b, _ := strconv.ParseBool(args[key])
		return b
	}

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "read_file":
		return t.ReadFile(get("filename"), getInt("start_line"), getInt("end_line"))
	case "create_file":
		return t.CreateFile(ctx, get("filename"), get("content"), get("description"), get("language"))
	case "edit_file":
		return t.EditFile(ctx, get("filename"), get("changes"), 0, nil)
	case "delete_file":
		return t.DeleteFile(ctx, get("filename"))
	case "list_files":
		return t.ListFiles(get("directory"), get("pattern"), getBool("show_hidden"))
	case "execute_command":
		return t.ExecuteCommand(ctx, get("command"), get("working_dir"), time.Duration(getInt("timeout_seconds"))*time.Second)
	case "run_file":
		return t.RunFile(ctx, get("filename"))
	case "web_search":
		return t.WebSearch(ctx, get("query"), getBool("include_news"))
	default:
		names := make([]string, 0)
		for _, s := range t.Schemas() {
			names = append(names, s.Name)
		}
		return Fail("unknown tool %q (available: %s)", name, strings.Join(names, ", "))
	}
}
