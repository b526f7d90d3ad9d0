package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	configYAML := `
version: "1"
providers:
  sambanova:
    type: openai
    base_url: https://api.sambanova.ai
    timeout: 30s
routes:
  default:
    provider: sambanova
    model: Meta-Llama-3.1-8B-Instruct
    temperature: 0.5
    default: true
  coder:
    provider: sambanova
    model: Meta-Llama-3.1-70B-Instruct
session:
  history_turns: 10
  mode: agent
tools:
  denied_commands: ["shutdown"]
`

	require.NoError(t, os.WriteFile(cfgPath, []byte(configYAML), 0o644))

	cfg, err := Load(cfgPath)
	require.NoError(t, err)
	require.Equal(t, "sambanova", cfg.Routes["default"].Provider)
	require.Equal(t, "Meta-Llama-3.1-70B-Instruct", cfg.Routes["coder"].Model)
	require.Equal(t, 10, cfg.Session.HistoryTurns)
	require.Equal(t, "agent", cfg.Session.Mode)
	require.Equal(t, []string{"shutdown"}, cfg.Tools.DeniedCommands)

	// Untouched sections keep their defaults.
	require.Equal(t, 4096, cfg.Session.ContextBytes)
	require.Equal(t, 30, cfg.Tools.ExecTimeoutSeconds)
}

func TestLoadMinimalFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("version: \"1\"\n"), 0o644))

	cfg, err := Load(cfgPath)
	require.NoError(t, err)
	require.Equal(t, "openai", cfg.Providers["sambanova"].Type)
	require.Equal(t, "Meta-Llama-3.1-8B-Instruct", cfg.Routes["default"].Model)
	require.True(t, cfg.Routes["default"].Default)
	require.Equal(t, "interactive", cfg.Session.Mode)
	require.Equal(t, 5, cfg.Search.MaxResults)
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("version: \"1\"\n"), 0o644))

	t.Setenv("NOVA_SESSION_HISTORY_TURNS", "7")
	t.Setenv("NOVA_LOGGING_LEVEL", "debug")

	cfg, err := Load(cfgPath)
	require.NoError(t, err)
	require.Equal(t, 7, cfg.Session.HistoryTurns)
	require.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidateFailsOnUnknownProvider(t *testing.T) {
	cfg := validConfig()
	cfg.Routes["default"] = RouteConfig{Provider: "missing", Default: true}

	require.Error(t, cfg.Validate())
}

func TestValidateFailsOnBadMode(t *testing.T) {
	cfg := validConfig()
	cfg.Session.Mode = "yolo"

	require.Error(t, cfg.Validate())
}

func TestValidateFailsOnTemperatureRange(t *testing.T) {
	cfg := validConfig()
	r := cfg.Routes["default"]
	r.Temperature = 3.5
	cfg.Routes["default"] = r

	require.Error(t, cfg.Validate())
}

func TestValidateRequiresDefaultRoute(t *testing.T) {
	cfg := validConfig()
	r := cfg.Routes["default"]
	r.Default = false
	cfg.Routes["default"] = r

	require.Error(t, cfg.Validate())
}

func validConfig() *Config {
	return &Config{
		Providers: map[string]ProviderConfig{
			"sambanova": {Type: "openai"},
		},
		Routes: map[string]RouteConfig{
			"default": {Provider: "sambanova", Model: "m", Temperature: 0.7, TopP: 0.9, Default: true},
		},
		Session: SessionConfig{HistoryTurns: 20, ContextBytes: 4096, Mode: "interactive"},
		Tools:   ToolsConfig{ExecTimeoutSeconds: 30, RunTimeoutSeconds: 60},
		Search:  SearchConfig{MaxResults: 5, MinIntervalSeconds: 1},
	}
}
