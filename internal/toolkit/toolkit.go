// Package toolkit implements the action registry behind the dispatcher:
// one independently invocable operation per intent, each returning a
// uniform Result envelope. Operations compose the prompt catalog, the
// completion gateway, local diagnostics, and file/process I/O.
package toolkit

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/alfakih7/nova-cli-agent/internal/llm"
	"github.com/alfakih7/nova-cli-agent/internal/observability"
	"github.com/alfakih7/nova-cli-agent/internal/runner"
	"github.com/alfakih7/nova-cli-agent/internal/search"
)

// Route names used when resolving models for different task kinds. Both
// fall back to the default route when not configured.
const (
	RouteDefault = ""
	RouteIntent  = "intent"
	RouteCoder   = "coder"
)

// Confirmer decides whether a proposed mutation proceeds. The dispatcher
// injects a terminal yes/no prompt in interactive mode and an always-yes
// policy in agent mode.
type Confirmer func(prompt string) bool

// Options wires the toolkit's collaborators.
type Options struct {
	Registry    *llm.Registry
	Runner      *runner.Runner
	Search      *search.Client
	Metrics     *observability.Metrics
	Logger      *zap.Logger
	Confirm     Confirmer
	AllowExec   bool
	ExecTimeout time.Duration
	Denied      []string // appended to the built-in command denylist
}

// Toolkit exposes the assistant's operations.
type Toolkit struct {
	registry    *llm.Registry
	runner      *runner.Runner
	search      *search.Client
	metrics     *observability.Metrics
	logger      *zap.Logger
	confirm     Confirmer
	allowExec   bool
	execTimeout time.Duration
	denied      []string
}

// New constructs a Toolkit.
func New(opts Options) (*Toolkit, error) {
	if opts.Registry == nil {
		return nil, fmt.Errorf("toolkit requires a model registry")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Confirm == nil {
		opts.Confirm = func(string) bool { return true }
	}
	if opts.ExecTimeout == 0 {
		opts.ExecTimeout = 30 * time.Second
	}

	return &Toolkit{
		registry:    opts.Registry,
		runner:      opts.Runner,
		search:      opts.Search,
		metrics:     opts.Metrics,
		logger:      opts.Logger,
		confirm:     opts.Confirm,
		allowExec:   opts.AllowExec,
		execTimeout: opts.ExecTimeout,
		denied:      opts.Denied,
	}, nil
}

// SetConfirmer swaps the confirmation policy, used when the session mode
// changes.
func (t *Toolkit) SetConfirmer(c Confirmer) {
	if c == nil {
		c = func(string) bool { return true }
	}
	t.confirm = c
}

// complete sends one (system, user) prompt pair through the gateway on the
// named route and returns the completion text.
func (t *Toolkit) complete(ctx context.Context, routeName, systemPrompt, userPrompt string) (string, error) {
	provider, route, err := t.registry.Resolve(routeName)
	if err != nil {
		return "", fmt.Errorf("resolve route: %w", err)
	}

	messages := make([]llm.ChatMessage, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, llm.ChatMessage{Role: llm.RoleSystem, Content: systemPrompt})
	}
	messages = append(messages, llm.ChatMessage{Role: llm.RoleUser, Content: userPrompt})

	start := time.Now()
	resp, err := provider.Chat(ctx, llm.ChatRequest{
		Model:       route.Model,
		Messages:    messages,
		MaxTokens:   route.MaxTokens,
		Temperature: route.Temperature,
		TopP:        route.TopP,
	})
	elapsed := time.Since(start)

	if err != nil {
		t.metrics.RecordGatewayRequest(route.Name, string(llm.Classify(err)), elapsed)
		t.logger.Warn("gateway request failed",
			zap.String("route", route.Name),
			zap.Error(err),
		)
		return "", err
	}

	t.metrics.RecordGatewayRequest(route.Name, "ok", elapsed)
	return resp.Message.Content, nil
}

// completeHistory sends a full message history through the gateway, used by
// chat so prior turns carry over.
func (t *Toolkit) completeHistory(ctx context.Context, routeName string, messages []llm.ChatMessage) (string, error) {
	provider, route, err := t.registry.Resolve(routeName)
	if err != nil {
		return "", fmt.Errorf("resolve route: %w", err)
	}

	start := time.Now()
	resp, err := provider.Chat(ctx, llm.ChatRequest{
		Model:       route.Model,
		Messages:    messages,
		MaxTokens:   route.MaxTokens,
		Temperature: route.Temperature,
		TopP:        route.TopP,
	})
	elapsed := time.Since(start)

	if err != nil {
		t.metrics.RecordGatewayRequest(route.Name, string(llm.Classify(err)), elapsed)
		return "", err
	}

	t.metrics.RecordGatewayRequest(route.Name, "ok", elapsed)
	return resp.Message.Content, nil
}

func (t *Toolkit) record(tool string, res Result) Result {
	t.metrics.RecordToolRun(tool, res.Success)
	if !res.Success && res.Error != "" {
		t.logger.Debug("tool failed", zap.String("tool", tool), zap.String("error", res.Error))
	}
	return res
}
