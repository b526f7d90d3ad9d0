package keystore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return &Store{
		path:      filepath.Join(t.TempDir(), appDir, credentialsFile),
		machineID: machineID(),
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.Save("sk-test-123"))
	require.True(t, s.Exists())
	require.Equal(t, "sk-test-123", s.Load())
}

func TestSaveObfuscatesOnDisk(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.Save("sk-test-123"))

	raw, err := os.ReadFile(s.path)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "sk-test-123")

	var ff fileFormat
	require.NoError(t, json.Unmarshal(raw, &ff))
	require.NotEmpty(t, ff.APIKey)

	info, err := os.Stat(s.path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadMissingFileReturnsEmpty(t *testing.T) {
	s := testStore(t)
	require.Empty(t, s.Load())
}

func TestLoadCorruptFileReturnsEmpty(t *testing.T) {
	s := testStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.path), 0o700))
	require.NoError(t, os.WriteFile(s.path, []byte("not json"), 0o600))

	require.Empty(t, s.Load())
}

func TestDeleteTolerationMissing(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.Delete())

	require.NoError(t, s.Save("key"))
	require.NoError(t, s.Delete())
	require.False(t, s.Exists())
}

func TestSaveRejectsEmptyKey(t *testing.T) {
	s := testStore(t)
	require.Error(t, s.Save(""))
}

func TestXorCycleRoundTrip(t *testing.T) {
	key := []byte("machine")
	data := []byte("credential material")

	require.Equal(t, data, xorCycle(xorCycle(data, key), key))
	require.Equal(t, data, xorCycle(data, nil))
}
