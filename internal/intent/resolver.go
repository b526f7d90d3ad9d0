package intent

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/alfakih7/nova-cli-agent/internal/llm"
	"github.com/alfakih7/nova-cli-agent/internal/observability"
	"github.com/alfakih7/nova-cli-agent/internal/prompt"
)

// routeName is the logical model route used for intent parsing. It falls
// back to the default route when operators have not configured one.
const routeName = "intent"

const apologyResponse = "Sorry, I had trouble reaching the model just now. Could you try that again?"

// Resolver classifies utterances into action descriptors.
type Resolver struct {
	registry *llm.Registry
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewResolver constructs a Resolver.
func NewResolver(registry *llm.Registry, metrics *observability.Metrics, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{registry: registry, metrics: metrics, logger: logger}
}

// Resolve sends the utterance and session context to the gateway and parses
// the reply. It never fails: a gateway error yields a chat descriptor with
// an apology, an unparseable completion yields a chat descriptor carrying
// the raw completion text, and an unrecognized intent value is normalized
// to chat. The dispatcher always gets something to act on.
func (r *Resolver) Resolve(ctx context.Context, utterance, sessionContext string) Descriptor {
	userPrompt := fmt.Sprintf("user input: %s\n\ncontext: %s", utterance, sessionContext)

	provider, route, err := r.registry.Resolve(routeName)
	if err != nil {
		r.logger.Error("no route for intent parsing", zap.Error(err))
		return chatFallback(apologyResponse)
	}

	start := time.Now()
	resp, err := provider.Chat(ctx, llm.ChatRequest{
		Model: route.Model,
		Messages: []llm.ChatMessage{
			{Role: llm.RoleSystem, Content: prompt.System(prompt.SystemIntentParser)},
			{Role: llm.RoleUser, Content: userPrompt},
		},
		MaxTokens:   route.MaxTokens,
		Temperature: route.Temperature,
		TopP:        route.TopP,
	})
	elapsed := time.Since(start)

	if err != nil {
		r.metrics.RecordGatewayRequest(route.Name, string(llm.Classify(err)), elapsed)
		r.logger.Warn("intent resolution gateway call failed", zap.Error(err))
		return chatFallback(apologyResponse)
	}
	r.metrics.RecordGatewayRequest(route.Name, "ok", elapsed)

	desc, err := Decode(resp.Message.Content)
	if err != nil {
		// Unparseable model output is not an error to the user: treat the
		// whole completion as a chat reply.
		r.logger.Debug("intent decode failed, falling back to chat", zap.Error(err))
		r.metrics.RecordIntent("chat")
		return chatFallback(resp.Message.Content)
	}

	if !Known(desc.Intent) {
		r.logger.Debug("unrecognized intent, falling back to chat", zap.String("intent", desc.Intent))
		response := desc.Response
		if response == "" {
			response = "I'm not sure how to do that, but let's talk it through."
		}
		r.metrics.RecordIntent("chat")
		return chatFallback(response)
	}

	r.metrics.RecordIntent(desc.Intent)
	return desc
}

func chatFallback(response string) Descriptor {
	return Descriptor{
		Intent:     "chat",
		Parameters: map[string]string{},
		Response:   response,
	}
}
