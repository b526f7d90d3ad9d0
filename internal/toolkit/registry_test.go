package toolkit

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSchemasSortedAndComplete(t *testing.T) {
	tk := newTestToolkit(t, nil)
	schemas := tk.Schemas()

	names := make([]string, 0, len(schemas))
	for _, s := range schemas {
		names = append(names, s.Name)
	}
	require.Equal(t, []string{
		"create_file", "delete_file", "edit_file", "execute_command",
		"list_files", "read_file", "run_file", "web_search",
	}, names)
}

func TestInvokeReadFileCoercesInts(t *testing.T) {
	tk := newTestToolkit(t, nil)
	path := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\nc\n"), 0o644))

	res := tk.Invoke(context.Background(), "read_file", map[string]string{
		"filename":   path,
		"start_line": "2",
		"end_line":   "2",
	})
	require.True(t, res.Success)
	require.Equal(t, "b", res.Data.(map[string]string)["content"])
}

func TestInvokeUnknownToolListsAvailable(t *testing.T) {
	tk := newTestToolkit(t, nil)

	res := tk.Invoke(context.Background(), "teleport", nil)
	require.False(t, res.Success)
	require.Contains(t, res.Error, "teleport")
	require.Contains(t, res.Error, "read_file")
}

func TestInvokeExecuteCommand(t *testing.T) {
	tk := newTestToolkit(t, nil)

	res := tk.Invoke(context.Background(), "execute_command", map[string]string{
		"command": "echo via-tool",
	})
	require.True(t, res.Success)
	require.Contains(t, res.Data.(ExecOutput).Stdout, "via-tool")
}
