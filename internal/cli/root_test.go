package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alfakih7/nova-cli-agent/internal/version"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, version.Version)
}

func TestDoctorWithExampleConfig(t *testing.T) {
	out, err := execute(t, "doctor", "--config", "../../configs/config.example.yaml")
	require.NoError(t, err)
	require.Contains(t, out, "Config OK")
	require.Contains(t, out, "(default)")
}

func TestDoctorMissingConfigFails(t *testing.T) {
	_, err := execute(t, "doctor", "--config", "does-not-exist.yaml")
	require.Error(t, err)
}
