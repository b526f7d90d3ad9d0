// Package configbuilder wires configuration into an llm.Registry.
package configbuilder

import (
	"fmt"

	"github.com/alfakih7/nova-cli-agent/internal/config"
	"github.com/alfakih7/nova-cli-agent/internal/llm"
	llmollama "github.com/alfakih7/nova-cli-agent/internal/llm/providers/ollama"
	llmopenai "github.com/alfakih7/nova-cli-agent/internal/llm/providers/openai"
)

// BuildRegistryFromConfig constructs a registry and providers from config.
// apiKey overrides the per-provider api_key when non-empty; it carries the
// credential resolved from the environment or the keystore at startup.
func BuildRegistryFromConfig(cfg *config.Config, apiKey string) (*llm.Registry, error) {
	reg := llm.NewRegistry()

	for name, pCfg := range cfg.Providers {
		key := pCfg.APIKey
		if apiKey != "" {
			key = apiKey
		}
		p, err := buildProvider(name, pCfg, key)
		if err != nil {
			return nil, err
		}
		reg.RegisterProvider(name, p)
	}

	for name, rCfg := range cfg.Routes {
		reg.RegisterRoute(name, llm.ModelRoute{
			Provider:    rCfg.Provider,
			Model:       rCfg.Model,
			Temperature: rCfg.Temperature,
			TopP:        rCfg.TopP,
			MaxTokens:   rCfg.MaxTokens,
		}, rCfg.Default)
	}

	if _, _, err := reg.Resolve(""); err != nil {
		return nil, err
	}

	return reg, nil
}

func buildProvider(name string, cfg config.ProviderConfig, apiKey string) (llm.Provider, error) {
	switch cfg.Type {
	case "openai", "sambanova", "openrouter", "custom":
		return llmopenai.NewProvider(name, cfg.BaseURL, apiKey, cfg.Timeout), nil
	case "ollama":
		return llmollama.NewProvider(name, cfg.BaseURL, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown provider type %q for provider %s", cfg.Type, name)
	}
}
