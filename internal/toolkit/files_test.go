package toolkit

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCreateFileWithContent(t *testing.T) {
	tk := newTestToolkit(t, nil)
	path := filepath.Join(t.TempDir(), "sub", "hello.txt")

	res := tk.CreateFile(context.Background(), path, "hi there", "", "")
	require.True(t, res.Success)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "hi there", string(raw))
}

func TestCreateFileGeneratesFromDescription(t *testing.T) {
	tk := newTestToolkit(t, respond("```go\npackage main\n```"))
	path := filepath.Join(t.TempDir(), "main.go")

	res := tk.CreateFile(context.Background(), path, "", "a minimal program", "")
	require.True(t, res.Success)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "package main", string(raw))

	data, ok := res.Data.(map[string]string)
	require.True(t, ok)
	require.Equal(t, "go", data["language"])
}

func TestCreateFileOverwriteDeclinedLeavesOriginal(t *testing.T) {
	tk := newTestToolkit(t, nil)
	tk.SetConfirmer(func(string) bool { return false })
	path := writeFile(t, t.TempDir(), "keep.txt", "original")

	res := tk.CreateFile(context.Background(), path, "new content", "", "")
	require.False(t, res.Success)
	require.Empty(t, res.Error)
	require.NotEmpty(t, res.Message)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "original", string(raw))
	require.NoFileExists(t, path+BackupSuffix)
}

func TestCreateFileOverwriteKeepsBackup(t *testing.T) {
	tk := newTestToolkit(t, nil)
	path := writeFile(t, t.TempDir(), "over.txt", "old")

	res := tk.CreateFile(context.Background(), path, "new", "", "")
	require.True(t, res.Success)

	backup, err := os.ReadFile(path + BackupSuffix)
	require.NoError(t, err)
	require.Equal(t, "old", string(backup))
}

func TestEditFileSearchReplace(t *testing.T) {
	tk := newTestToolkit(t, nil)
	path := writeFile(t, t.TempDir(), "a.txt", "alpha beta alpha\n")

	res := tk.EditFile(context.Background(), path, "", 0, map[string]string{"alpha": "gamma"})
	require.True(t, res.Success)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "gamma beta gamma\n", string(raw))

	// The backup holds the pre-edit content.
	backup, err := os.ReadFile(path + BackupSuffix)
	require.NoError(t, err)
	require.Equal(t, "alpha beta alpha\n", string(backup))
}

func TestEditFileSearchReplaceMissingPatternWarns(t *testing.T) {
	tk := newTestToolkit(t, nil)
	path := writeFile(t, t.TempDir(), "a.txt", "alpha\n")

	res := tk.EditFile(context.Background(), path, "", 0, map[string]string{
		"alpha":   "beta",
		"missing": "never",
	})
	require.True(t, res.Success)
	require.Contains(t, res.Message, "pattern not found")
}

func TestEditFileLineNumber(t *testing.T) {
	tk := newTestToolkit(t, nil)
	path := writeFile(t, t.TempDir(), "a.txt", "one\ntwo\nthree\n")

	res := tk.EditFile(context.Background(), path, "TWO", 2, nil)
	require.True(t, res.Success)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "one\nTWO\nthree\n", string(raw))
}

func TestEditFileLineOutOfRange(t *testing.T) {
	tk := newTestToolkit(t, nil)
	path := writeFile(t, t.TempDir(), "a.txt", "one\n")

	res := tk.EditFile(context.Background(), path, "X", 99, nil)
	require.False(t, res.Success)
	require.Contains(t, res.Error, "out of range")
	require.NoFileExists(t, path+BackupSuffix)
}

func TestEditFileNoChangeDiscardsBackup(t *testing.T) {
	tk := newTestToolkit(t, nil)
	path := writeFile(t, t.TempDir(), "a.txt", "same\n")

	res := tk.EditFile(context.Background(), path, "", 0, map[string]string{"same": "same"})
	require.True(t, res.Success)
	require.Contains(t, res.Message, "No changes")
	require.NoFileExists(t, path+BackupSuffix)
}

func TestEditFileDeclinedDiscardsBackup(t *testing.T) {
	tk := newTestToolkit(t, nil)
	tk.SetConfirmer(func(string) bool { return false })
	path := writeFile(t, t.TempDir(), "a.txt", "before\n")

	res := tk.EditFile(context.Background(), path, "", 0, map[string]string{"before": "after"})
	require.False(t, res.Success)
	require.Empty(t, res.Error)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "before\n", string(raw))
	require.NoFileExists(t, path+BackupSuffix)
}

func TestEditFileFreeTextUsesGateway(t *testing.T) {
	tk := newTestToolkit(t, respond("```\nrewritten\n```"))
	path := writeFile(t, t.TempDir(), "a.txt", "original\n")

	res := tk.EditFile(context.Background(), path, "rewrite it", 0, nil)
	require.True(t, res.Success)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "rewritten", string(raw))
}

func TestEditFileMissing(t *testing.T) {
	tk := newTestToolkit(t, nil)

	res := tk.EditFile(context.Background(), filepath.Join(t.TempDir(), "nope.txt"), "x", 1, nil)
	require.False(t, res.Success)
	require.Contains(t, res.Error, "not found")
}

func TestApplyContentBackupAndDiff(t *testing.T) {
	tk := newTestToolkit(t, nil)
	path := writeFile(t, t.TempDir(), "a.go", "package old\n")

	res := tk.ApplyContent(path, "package new\n")
	require.True(t, res.Success)

	data, ok := res.Data.(map[string]string)
	require.True(t, ok)
	require.Contains(t, data["diff"], "-package old")
	require.Contains(t, data["diff"], "+package new")

	backup, err := os.ReadFile(path + BackupSuffix)
	require.NoError(t, err)
	require.Equal(t, "package old\n", string(backup))
}

func TestApplyContentNoOpWritesNoBackup(t *testing.T) {
	tk := newTestToolkit(t, nil)
	path := writeFile(t, t.TempDir(), "a.go", "package same\n")

	res := tk.ApplyContent(path, "package same\n")
	require.True(t, res.Success)
	require.NoFileExists(t, path+BackupSuffix)
}

func TestDeleteFileKeepsBackup(t *testing.T) {
	tk := newTestToolkit(t, nil)
	path := writeFile(t, t.TempDir(), "gone.txt", "bye")

	res := tk.DeleteFile(context.Background(), path)
	require.True(t, res.Success)
	require.NoFileExists(t, path)

	backup, err := os.ReadFile(path + BackupSuffix)
	require.NoError(t, err)
	require.Equal(t, "bye", string(backup))
}

func TestDeleteFileDeclined(t *testing.T) {
	tk := newTestToolkit(t, nil)
	tk.SetConfirmer(func(string) bool { return false })
	path := writeFile(t, t.TempDir(), "stay.txt", "here")

	res := tk.DeleteFile(context.Background(), path)
	require.False(t, res.Success)
	require.Empty(t, res.Error)
	require.FileExists(t, path)
}

func TestReadFileRange(t *testing.T) {
	tk := newTestToolkit(t, nil)
	path := writeFile(t, t.TempDir(), "a.txt", "l1\nl2\nl3\nl4\n")

	res := tk.ReadFile(path, 2, 3)
	require.True(t, res.Success)

	data := res.Data.(map[string]string)
	require.Equal(t, "l2\nl3", data["content"])
}

func TestReadFileBadRange(t *testing.T) {
	tk := newTestToolkit(t, nil)
	path := writeFile(t, t.TempDir(), "a.txt", "only\n")

	res := tk.ReadFile(path, 9, 12)
	require.False(t, res.Success)
}

func TestListFilesHidesDotEntries(t *testing.T) {
	tk := newTestToolkit(t, nil)
	dir := t.TempDir()
	writeFile(t, dir, "visible.txt", "v")
	writeFile(t, dir, ".hidden", "h")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))

	res := tk.ListFiles(dir, "", false)
	require.True(t, res.Success)

	listing := res.Data.(Listing)
	require.Len(t, listing.Files, 1)
	require.Equal(t, "visible.txt", listing.Files[0].Name)
	require.Len(t, listing.Directories, 1)

	res = tk.ListFiles(dir, "", true)
	listing = res.Data.(Listing)
	require.Len(t, listing.Files, 2)
}

func TestListFilesPattern(t *testing.T) {
	tk := newTestToolkit(t, nil)
	dir := t.TempDir()
	writeFile(t, dir, "a.go", "x")
	writeFile(t, dir, "b.txt", "x")

	res := tk.ListFiles(dir, "*.go", false)
	require.True(t, res.Success)

	listing := res.Data.(Listing)
	require.Len(t, listing.Files, 1)
	require.Equal(t, "a.go", listing.Files[0].Name)
}

func TestFormatSize(t *testing.T) {
	require.Equal(t, "512 B", formatSize(512))
	require.Equal(t, "1.5 KB", formatSize(1536))
	require.Equal(t, "2.0 MB", formatSize(2*1024*1024))
}
