package toolkit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alfakih7/nova-cli-agent/internal/llm"
	llmmock "github.com/alfakih7/nova-cli-agent/internal/llm/mock"
	"github.com/alfakih7/nova-cli-agent/internal/runner"
	"github.com/alfakih7/nova-cli-agent/internal/search"
)

// newTestToolkit builds a toolkit backed by a scripted gateway response.
func newTestToolkit(t *testing.T, chatFn func(ctx context.Context, req llm.ChatRequest) (llm.ChatResponse, error)) *Toolkit {
	t.Helper()

	reg := llm.NewRegistry()
	reg.RegisterProvider("mock", &llmmock.Provider{NameValue: "mock", ChatFn: chatFn})
	reg.RegisterRoute("default", llm.ModelRoute{Provider: "mock", Model: "test-model"}, true)

	tk, err := New(Options{
		Registry:  reg,
		AllowExec: true,
	})
	require.NoError(t, err)
	return tk
}

func respond(text string) func(ctx context.Context, req llm.ChatRequest) (llm.ChatResponse, error) {
	return func(ctx context.Context, req llm.ChatRequest) (llm.ChatResponse, error) {
		return llm.ChatResponse{
			Message: llm.ChatMessage{Role: llm.RoleAssistant, Content: text},
		}, nil
	}
}

func withRunner(t *testing.T, tk *Toolkit) *Toolkit {
	t.Helper()
	tk.runner = runner.New(5*time.Second, nil)
	return tk
}

func withSearch(tk *Toolkit, c *search.Client) *Toolkit {
	tk.search = c
	return tk
}
