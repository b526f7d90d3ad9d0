package toolkit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// BackupSuffix is appended to a file's path to form its backup sibling.
// Every mutating operation uses this one suffix.
const BackupSuffix = ".bak"

// languageForExt maps file extensions to the language names used in
// generation prompts.
var languageForExt = map[string]string{
	".go":   "go",
	".py":   "python",
	".js":   "javascript",
	".ts":   "typescript",
	".rb":   "ruby",
	".sh":   "shell",
	".html": "html",
	".css":  "css",
	".json": "json",
	".yaml": "yaml",
	".yml":  "yaml",
	".sql":  "sql",
	".md":   "markdown",
	".txt":  "text",
}

// LanguageForFilename infers a prompt language from a filename extension.
func LanguageForFilename(filename string) string {
	if lang, ok := languageForExt[strings.ToLower(filepath.Ext(filename))]; ok {
		return lang
	}
	return ""
}

// CreateFile writes a new file. With empty content and a description, the
// content is generated first using a language inferred from the extension.
// Overwriting an existing file requires confirmation and backs up the
// original before the write.
func (t *Toolkit) CreateFile(ctx context.Context, filename, content, description, language string) Result {
	if filename == "" {
		return t.record("create_file", Fail("no filename provided"))
	}

	if content == "" && description != "" {
		if language == "" {
			language = LanguageForFilename(filename)
		}
		gen := t.GenerateCode(ctx, description, language)
		if !gen.Success {
			return t.record("create_file", gen)
		}
		content, _ = gen.Data.(string)
	}

	if dir := filepath.Dir(filename); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return t.record("create_file", Fail("create directories: %v", err))
		}
	}

	if _, err := os.Stat(filename); err == nil {
		if !t.confirm(fmt.Sprintf("File %s already exists. Overwrite it?", filename)) {
			return t.record("create_file", Declined(fmt.Sprintf("Cancelled. %s left untouched.", filename)))
		}
		if err := copyFile(filename, filename+BackupSuffix); err != nil {
			return t.record("create_file", Fail("backup before overwrite: %v", err))
		}
	}

	if err := os.WriteFile(filename, []byte(content), 0o644); err != nil {
		return t.record("create_file", Fail("write file: %v", err))
	}

	return t.record("create_file", OK(map[string]string{
		"filename": filename,
		"content":  content,
		"language": language,
	}, fmt.Sprintf("Created %s", filename)))
}

// EditFile mutates an existing file. Three mutually exclusive modes are
// chosen by which parameters are set, in this precedence: searchReplace,
// then lineNumber (1-based, replacing one line with changes), then a
// free-text changes description sent to the gateway as a full-file rewrite.
// The pre-edit content is always backed up first; the backup is kept on
// success and removed when the edit is cancelled or a no-op.
func (t *Toolkit) EditFile(ctx context.Context, filename, changes string, lineNumber int, searchReplace map[string]string) Result {
	if filename == "" {
		return t.record("edit_file", Fail("no filename provided"))
	}

	raw, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return t.record("edit_file", Fail("file not found: %s", filename))
		}
		return t.record("edit_file", Fail("read file: %v", err))
	}
	original := string(raw)

	backup := filename + BackupSuffix
	if err := os.WriteFile(backup, raw, 0o644); err != nil {
		return t.record("edit_file", Fail("write backup: %v", err))
	}
	discardBackup := func() { os.Remove(backup) }

	var (
		newContent string
		warnings   []string
	)
	switch {
	case len(searchReplace) > 0:
		newContent = original
		keys := make([]string, 0, len(searchReplace))
		for k := range searchReplace {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, find := range keys {
			if !strings.Contains(newContent, find) {
				warnings = append(warnings, fmt.Sprintf("pattern not found, skipped: %q", find))
				continue
			}
			newContent = strings.ReplaceAll(newContent, find, searchReplace[find])
		}
	case lineNumber > 0:
		lines := strings.Split(original, "\n")
		if lineNumber > len(lines) {
			discardBackup()
			return t.record("edit_file", Fail("line %d is out of range (file has %d lines)", lineNumber, len(lines)))
		}
		lines[lineNumber-1] = changes
		newContent = strings.Join(lines, "\n")
	case changes != "":
		newContent, err = t.ModifyFileContent(ctx, original, changes)
		if err != nil {
			discardBackup()
			return t.record("edit_file", Fail("generate edit: %v", err))
		}
	default:
		discardBackup()
		return t.record("edit_file", Fail("no edit specified: provide search/replace pairs, a line number, or a description"))
	}

	if newContent == original {
		discardBackup()
		return t.record("edit_file", OK(nil, "No changes were necessary."))
	}

	diff, err := unifiedDiff(original, newContent)
	if err != nil {
		discardBackup()
		return t.record("edit_file", Fail("compute diff: %v", err))
	}

	if !t.confirm(fmt.Sprintf("Apply these changes to %s?\n\n%s", filename, diff)) {
		discardBackup()
		return t.record("edit_file", Declined(fmt.Sprintf("Edit cancelled. %s unchanged.", filename)))
	}

	if err := os.WriteFile(filename, []byte(newContent), 0o644); err != nil {
		return t.record("edit_file", Fail("write file: %v", err))
	}

	msg := fmt.Sprintf("Updated %s (backup at %s)", filename, backup)
	if len(warnings) > 0 {
		msg += "\n" + strings.Join(warnings, "\n")
	}
	return t.record("edit_file", OK(map[string]string{
		"filename": filename,
		"content":  newContent,
		"diff":     diff,
		"backup":   backup,
	}, msg))
}

// ApplyContent replaces a file's content wholesale, following the same
// backup/diff/confirm protocol as EditFile. Used by the dispatcher's
// fix/refactor/security/optimize apply paths.
func (t *Toolkit) ApplyContent(filename, newContent string) Result {
	raw, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return t.record("apply", Fail("file not found: %s", filename))
		}
		return t.record("apply", Fail("read file: %v", err))
	}
	original := string(raw)

	if newContent == original {
		return t.record("apply", OK(nil, "No changes were necessary."))
	}

	backup := filename + BackupSuffix
	if err := os.WriteFile(backup, raw, 0o644); err != nil {
		return t.record("apply", Fail("write backup: %v", err))
	}

	diff, err := unifiedDiff(original, newContent)
	if err != nil {
		os.Remove(backup)
		return t.record("apply", Fail("compute diff: %v", err))
	}

	if !t.confirm(fmt.Sprintf("Apply these changes to %s?\n\n%s", filename, diff)) {
		os.Remove(backup)
		return t.record("apply", Declined(fmt.Sprintf("Changes discarded. %s unchanged.", filename)))
	}

	if err := os.WriteFile(filename, []byte(newContent), 0o644); err != nil {
		return t.record("apply", Fail("write file: %v", err))
	}

	return t.record("apply", OK(map[string]string{
		"filename": filename,
		"content":  newContent,
		"diff":     diff,
		"backup":   backup,
	}, fmt.Sprintf("Updated %s (backup at %s)", filename, backup)))
}

// DeleteFile removes a file after confirmation, keeping a backup sibling.
func (t *Toolkit) DeleteFile(ctx context.Context, filename string) Result {
	if filename == "" {
		return t.record("delete_file", Fail("no filename provided"))
	}

	if _, err := os.Stat(filename); err != nil {
		if os.IsNotExist(err) {
			return t.record("delete_file", Fail("file not found: %s", filename))
		}
		return t.record("delete_file", Fail("stat file: %v", err))
	}

	if !t.confirm(fmt.Sprintf("Delete %s? A backup will be kept at %s%s.", filename, filename, BackupSuffix)) {
		return t.record("delete_file", Declined(fmt.Sprintf("Deletion cancelled. %s unchanged.", filename)))
	}

	if err := copyFile(filename, filename+BackupSuffix); err != nil {
		return t.record("delete_file", Fail("backup before delete: %v", err))
	}
	if err := os.Remove(filename); err != nil {
		return t.record("delete_file", Fail("delete file: %v", err))
	}

	return t.record("delete_file", OK(map[string]string{
		"filename": filename,
		"backup":   filename + BackupSuffix,
	}, fmt.Sprintf("Deleted %s (backup at %s%s)", filename, filename, BackupSuffix)))
}

// ReadFile returns a file's content, optionally sliced to a 1-based
// inclusive line range.
func (t *Toolkit) ReadFile(filename string, startLine, endLine int) Result {
	if filename == "" {
		return t.record("read_file", Fail("no filename provided"))
	}

	raw, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return t.record("read_file", Fail("file not found: %s", filename))
		}
		return t.record("read_file", Fail("read file: %v", err))
	}
	content := string(raw)

	if startLine > 0 || endLine > 0 {
		lines := strings.Split(content, "\n")
		if startLine <= 0 {
			startLine = 1
		}
		if endLine <= 0 || endLine > len(lines) {
			endLine = len(lines)
		}
		if startLine > len(lines) || startLine > endLine {
			return t.record("read_file", Fail("invalid line range %d-%d (file has %d lines)", startLine, endLine, len(lines)))
		}
		content = strings.Join(lines[startLine-1:endLine], "\n")
	}

	return t.record("read_file", OK(map[string]string{
		"filename": filename,
		"content":  content,
	}, fmt.Sprintf("Read %s", filename)))
}

// Entry describes one directory listing item.
type Entry struct {
	Name  string `json:"name"`
	Size  string `json:"size,omitempty"`
	IsDir bool   `json:"is_dir"`
}

// Listing splits matched entries into directories and files.
type Listing struct {
	Directory   string  `json:"directory"`
	Directories []Entry `json:"directories"`
	Files       []Entry `json:"files"`
}

// ListFiles glob-matches directory entries, hiding dot-prefixed names
// unless requested.
func (t *Toolkit) ListFiles(directory, pattern string, showHidden bool) Result {
	if directory == "" {
		directory = "."
	}
	if pattern == "" {
		pattern = "*"
	}

	if info, err := os.Stat(directory); err != nil || !info.IsDir() {
		return t.record("list_files", Fail("directory not found: %s", directory))
	}

	matches, err := filepath.Glob(filepath.Join(directory, pattern))
	if err != nil {
		return t.record("list_files", Fail("bad pattern %q: %v", pattern, err))
	}
	sort.Strings(matches)

	listing := Listing{Directory: directory, Directories: []Entry{}, Files: []Entry{}}
	for _, match := range matches {
		name := filepath.Base(match)
		if !showHidden && strings.HasPrefix(name, ".") {
			continue
		}
		info, err := os.Stat(match)
		if err != nil {
			continue
		}
		if info.IsDir() {
			listing.Directories = append(listing.Directories, Entry{Name: name, IsDir: true})
		} else {
			listing.Files = append(listing.Files, Entry{Name: name, Size: formatSize(info.Size())})
		}
	}

	total := len(listing.Directories) + len(listing.Files)
	return t.record("list_files", OK(listing, fmt.Sprintf("%d entries in %s", total, directory)))
}

func unifiedDiff(original, modified string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(modified),
		FromFile: "(original)",
		ToFile:   "(modified)",
		Context:  3,
	})
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}

func formatSize(n int64) string {
	const unit = 1024
	switch {
	case n < unit:
		return fmt.Sprintf("%d B", n)
	case n < unit*unit:
		return fmt.Sprintf("%.1f KB", float64(n)/unit)
	case n < unit*unit*unit:
		return fmt.Sprintf("%.1f MB", float64(n)/(unit*unit))
	default:
		return fmt.Sprintf("%.1f GB", float64(n)/(unit*unit*unit))
	}
}
