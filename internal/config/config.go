// Package config loads and validates the assistant configuration from YAML
// files and environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config describes the top-level application configuration loaded from YAML and ENV.
type Config struct {
	Version   string                    `mapstructure:"version"`
	Providers map[string]ProviderConfig `mapstructure:"providers"`
	Routes    map[string]RouteConfig    `mapstructure:"routes"`
	Session   SessionConfig             `mapstructure:"session"`
	Tools     ToolsConfig               `mapstructure:"tools"`
	Search    SearchConfig              `mapstructure:"search"`
	Logging   LoggingConfig             `mapstructure:"logging"`
	Metrics   MetricsConfig             `mapstructure:"metrics"`
}

// ProviderConfig represents a completion gateway such as SambaNova, OpenAI,
// or a local Ollama daemon.
type ProviderConfig struct {
	Type    string        `mapstructure:"type"`     // openai, sambanova, ollama, custom
	BaseURL string        `mapstructure:"base_url"` // API base URL
	APIKey  string        `mapstructure:"api_key"`  // optional; the keystore fills this when empty
	Timeout time.Duration `mapstructure:"timeout"`  // request timeout
}

// RouteConfig binds a logical route name ("default", "intent", "coder") to a
// provider entry and model parameters.
type RouteConfig struct {
	Provider    string  `mapstructure:"provider"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	TopP        float64 `mapstructure:"top_p"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Default     bool    `mapstructure:"default"`
}

// SessionConfig controls conversation state kept between turns.
type SessionConfig struct {
	HistoryTurns int    `mapstructure:"history_turns"` // retained conversation turns
	ContextBytes int    `mapstructure:"context_bytes"` // context string budget per request
	Mode         string `mapstructure:"mode"`          // interactive or agent
}

// ToolsConfig configures the action toolkit.
type ToolsConfig struct {
	AllowExec          bool     `mapstructure:"allow_exec"`
	ExecTimeoutSeconds int      `mapstructure:"exec_timeout_seconds"`
	RunTimeoutSeconds  int      `mapstructure:"run_timeout_seconds"`
	DeniedCommands     []string `mapstructure:"denied_commands"` // appended to the built-in denylist
}

// SearchConfig configures the web search collaborator.
type SearchConfig struct {
	APIKey             string `mapstructure:"api_key"`
	MaxResults         int    `mapstructure:"max_results"`
	MinIntervalSeconds int    `mapstructure:"min_interval_seconds"`
}

// LoggingConfig controls logger behaviour.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // console or json
}

// MetricsConfig controls the optional Prometheus listener. Collectors are
// always registered in-process; the HTTP endpoint only exists when Addr is set.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// Load reads configuration from the provided path or defaults to config.yaml
// in the working directory or configs/. A missing config file is not an
// error: the defaults describe a working SambaNova setup and environment
// variables (prefix: NOVA_, dots replaced with underscores) fill the rest.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("NOVA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("configs")
	} else {
		v.SetConfigFile(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults populates a working SambaNova configuration so the assistant
// runs with nothing but an API key in the environment.
func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("providers.sambanova.type", "openai")
	v.SetDefault("providers.sambanova.base_url", "https://api.sambanova.ai")
	v.SetDefault("providers.sambanova.timeout", "60s")

	v.SetDefault("routes.default.provider", "sambanova")
	v.SetDefault("routes.default.model", "Meta-Llama-3.1-8B-Instruct")
	v.SetDefault("routes.default.temperature", 0.7)
	v.SetDefault("routes.default.top_p", 0.9)
	v.SetDefault("routes.default.max_tokens", 2048)
	v.SetDefault("routes.default.default", true)

	v.SetDefault("session.history_turns", 20)
	v.SetDefault("session.context_bytes", 4096)
	v.SetDefault("session.mode", "interactive")

	v.SetDefault("tools.allow_exec", true)
	v.SetDefault("tools.exec_timeout_seconds", 30)
	v.SetDefault("tools.run_timeout_seconds", 60)

	v.SetDefault("search.max_results", 5)
	v.SetDefault("search.min_interval_seconds", 1)

	v.SetDefault("metrics.addr", "")
}

// Validate performs basic sanity checks on configuration values.
func (c *Config) Validate() error {
	if len(c.Providers) == 0 {
		return errors.New("at least one provider must be configured")
	}

	if len(c.Routes) == 0 {
		return errors.New("at least one route must be defined")
	}

	for name, p := range c.Providers {
		if p.Type == "" {
			return fmt.Errorf("provider %q must define type", name)
		}
	}

	var defaultFound bool
	for name, r := range c.Routes {
		if r.Provider == "" {
			return fmt.Errorf("route %q must reference a provider", name)
		}

		if _, ok := c.Providers[r.Provider]; !ok {
			return fmt.Errorf("route %q references unknown provider %q", name, r.Provider)
		}

		if r.Temperature < 0 || r.Temperature > 2 {
			return fmt.Errorf("route %q temperature must be within [0,2]", name)
		}

		if r.TopP < 0 || r.TopP > 1 {
			return fmt.Errorf("route %q top_p must be within [0,1]", name)
		}

		if r.MaxTokens < 0 {
			return fmt.Errorf("route %q max_tokens cannot be negative", name)
		}

		if r.Default {
			defaultFound = true
		}
	}

	if !defaultFound {
		return errors.New("at least one route should be marked as default")
	}

	switch strings.ToLower(strings.TrimSpace(c.Session.Mode)) {
	case "interactive", "agent":
	default:
		return fmt.Errorf("session.mode must be interactive or agent, got %q", c.Session.Mode)
	}

	if c.Session.HistoryTurns <= 0 {
		return errors.New("session.history_turns must be > 0")
	}
	if c.Session.ContextBytes < 0 {
		return errors.New("session.context_bytes must be >= 0")
	}

	if c.Tools.ExecTimeoutSeconds <= 0 {
		return errors.New("tools.exec_timeout_seconds must be > 0")
	}
	if c.Tools.RunTimeoutSeconds <= 0 {
		return errors.New("tools.run_timeout_seconds must be > 0")
	}

	if c.Search.MaxResults <= 0 {
		return errors.New("search.max_results must be > 0")
	}
	if c.Search.MinIntervalSeconds < 0 {
		return errors.New("search.min_interval_seconds must be >= 0")
	}

	return nil
}
