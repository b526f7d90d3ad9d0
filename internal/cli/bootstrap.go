package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alfakih7/nova-cli-agent/internal/config"
	"github.com/alfakih7/nova-cli-agent/internal/dispatch"
	"github.com/alfakih7/nova-cli-agent/internal/intent"
	"github.com/alfakih7/nova-cli-agent/internal/keystore"
	"github.com/alfakih7/nova-cli-agent/internal/llm/configbuilder"
	"github.com/alfakih7/nova-cli-agent/internal/logging"
	"github.com/alfakih7/nova-cli-agent/internal/observability"
	"github.com/alfakih7/nova-cli-agent/internal/runner"
	"github.com/alfakih7/nova-cli-agent/internal/search"
	"github.com/alfakih7/nova-cli-agent/internal/toolkit"
)

// app holds the assembled collaborators for one CLI invocation.
type app struct {
	cfg        *config.Config
	logger     *zap.Logger
	metrics    *observability.Metrics
	store      *keystore.Store
	dispatcher *dispatch.Dispatcher
	session    *dispatch.Session
}

// buildApp assembles the full stack: config, logging, credentials, the
// model registry, metrics, search, the runner, the toolkit, the intent
// resolver, and the dispatcher. promptForKey controls whether a missing
// API key falls through to an interactive prompt.
func buildApp(cmd *cobra.Command, opts *Options, promptForKey bool) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	store, storeErr := keystore.New()
	if storeErr != nil {
		logger.Warn("credential store unavailable", zap.Error(storeErr))
	}

	apiKey, err := resolveAPIKey(cfg, store, promptForKey)
	if err != nil {
		return nil, err
	}

	registry, err := configbuilder.BuildRegistryFromConfig(cfg, apiKey)
	if err != nil {
		return nil, fmt.Errorf("build model registry: %w", err)
	}

	metrics := observability.NewMetrics()

	searchKey := cfg.Search.APIKey
	if searchKey == "" {
		searchKey = os.Getenv("TAVILY_API_KEY")
	}
	searcher := search.NewClient(
		searchKey,
		cfg.Search.MaxResults,
		time.Duration(cfg.Search.MinIntervalSeconds)*time.Second,
		logger,
	)

	run := runner.New(time.Duration(cfg.Tools.RunTimeoutSeconds)*time.Second, logger)

	tools, err := toolkit.New(toolkit.Options{
		Registry:    registry,
		Runner:      run,
		Search:      searcher,
		Metrics:     metrics,
		Logger:      logger,
		AllowExec:   cfg.Tools.AllowExec,
		ExecTimeout: time.Duration(cfg.Tools.ExecTimeoutSeconds) * time.Second,
		Denied:      cfg.Tools.DeniedCommands,
	})
	if err != nil {
		return nil, err
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("working directory: %w", err)
	}

	session := dispatch.NewSession(cfg.Session)
	dispatcher := dispatch.New(dispatch.Options{
		Session:  session,
		Resolver: intent.NewResolver(registry, metrics, logger),
		Toolkit:  tools,
		Keystore: store,
		Metrics:  metrics,
		Logger:   logger,
		WorkDir:  workDir,
		In:       cmd.InOrStdin(),
		Out:      cmd.OutOrStdout(),
	})

	return &app{
		cfg:        cfg,
		logger:     logger,
		metrics:    metrics,
		store:      store,
		dispatcher: dispatcher,
		session:    session,
	}, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}

// resolveAPIKey finds the gateway credential: environment first, then the
// config file, then the credential store, then an interactive prompt.
// A local provider such as ollama needs no key, so an empty result is only
// an error when the default route's provider requires one.
func resolveAPIKey(cfg *config.Config, store *keystore.Store, promptForKey bool) (string, error) {
	for _, env := range []string{"NOVA_API_KEY", "SAMBANOVA_API_KEY"} {
		if key := os.Getenv(env); key != "" {
			return key, nil
		}
	}

	providerName, providerType := defaultProvider(cfg)
	if p, ok := cfg.Providers[providerName]; ok && p.APIKey != "" {
		return p.APIKey, nil
	}

	if store != nil {
		if key := store.Load(); key != "" {
			return key, nil
		}
	}

	if providerType == "ollama" {
		return "", nil
	}

	if promptForKey && store != nil {
		key, err := store.PromptForKey(providerName)
		if err != nil {
			return "", fmt.Errorf("read API key: %w", err)
		}
		if key != "" {
			return key, nil
		}
	}

	return "", fmt.Errorf("no API key found: set NOVA_API_KEY or add providers.%s.api_key to the config", providerName)
}

// defaultProvider returns the name and type of the provider backing the
// default route.
func defaultProvider(cfg *config.Config) (string, string) {
	for _, r := range cfg.Routes {
		if r.Default {
			if p, ok := cfg.Providers[r.Provider]; ok {
				return r.Provider, p.Type
			}
			return r.Provider, ""
		}
	}
	return "", ""
}
