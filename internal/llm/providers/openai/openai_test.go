package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alfakih7/nova-cli-agent/internal/llm"
)

func TestChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "Meta-Llama-3.1-8B-Instruct", req.Model)
		require.Len(t, req.Messages, 2)
		require.Equal(t, "system", req.Messages[0].Role)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{
					"index":         0,
					"finish_reason": "stop",
					"message":       map[string]string{"role": "assistant", "content": "hello"},
				},
			},
			"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 2, "total_tokens": 12},
		})
	}))
	defer srv.Close()

	p := NewProvider("sambanova", srv.URL, "secret", 0)
	resp, err := p.Chat(context.Background(), llm.ChatRequest{
		Model: "Meta-Llama-3.1-8B-Instruct",
		Messages: []llm.ChatMessage{
			{Role: llm.RoleSystem, Content: "be helpful"},
			{Role: llm.RoleUser, Content: "hi"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "hello", resp.Message.Content)
	require.Equal(t, llm.RoleAssistant, resp.Message.Role)
	require.Equal(t, "stop", resp.FinishReason)
	require.Equal(t, 12, resp.Usage.TotalTokens)
	require.Equal(t, "sambanova", resp.ProviderName)
}

func TestChatErrorStatusIncludesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid api key"}`))
	}))
	defer srv.Close()

	p := NewProvider("sambanova", srv.URL, "bad", 0)
	_, err := p.Chat(context.Background(), llm.ChatRequest{
		Model:    "m",
		Messages: []llm.ChatMessage{{Role: llm.RoleUser, Content: "hi"}},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "status 401")
	require.Equal(t, llm.FailureAuth, llm.Classify(err))
}

func TestChatRequiresModel(t *testing.T) {
	p := NewProvider("sambanova", "http://127.0.0.1:0", "k", 0)
	_, err := p.Chat(context.Background(), llm.ChatRequest{})
	require.Error(t, err)
}

func TestStreamEmitsSingleChunk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"finish_reason": "stop", "message": map[string]string{"role": "assistant", "content": "chunked"}},
			},
		})
	}))
	defer srv.Close()

	p := NewProvider("sambanova", srv.URL, "k", 0)
	ch, errCh := p.Stream(context.Background(), llm.ChatRequest{
		Model:    "m",
		Messages: []llm.ChatMessage{{Role: llm.RoleUser, Content: "hi"}},
	})

	var got string
	for c := range ch {
		got += c.Content
	}
	require.NoError(t, <-errCh)
	require.Equal(t, "chunked", got)
}
