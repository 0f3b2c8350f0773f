package llm

import "context"

// Client is the interface the agent loop uses to talk to a chat
// completion provider. Implementations are stateless between calls;
// the full transcript and tool catalog travel on every request.
type Client interface {
	// Chat sends one completion request and returns the response.
	// Failures are reported as *UpstreamError and are not retried.
	Chat(ctx context.Context, messages []Message, tools []map[string]any) (*ChatResponse, error)
}
