// Package llm provides the chat completion client used by the agent loop.
package llm

// Message roles, as understood by the chat completions wire format.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message represents a chat message on the completion wire.
//
// Assistant messages may carry ToolCalls instead of (or alongside)
// Content. Tool messages answer a specific assistant tool call and must
// carry the matching ToolCallID; a transcript sent to the provider must
// never contain an unanswered tool call.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"` // tool role only
	Name       string     `json:"name,omitempty"`         // tool role only
}

// ToolCall is a structured tool invocation request from the model.
// The ID is provider-assigned and request-scoped; the tool result
// message echoes it back for correlation.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type,omitempty"` // always "function"
	Function FunctionCall `json:"function"`
}

// FunctionCall names the tool and carries its arguments as raw JSON.
// Arguments are not decoded here; the tool registry validates them
// against the tool's own schema at dispatch time.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ChatResponse is the provider-neutral result of one completion call.
type ChatResponse struct {
	Message      Message
	FinishReason string
	Model        string

	// Token usage, when the provider reports it.
	InputTokens  int
	OutputTokens int
}

// HasToolCalls reports whether the model requested tool invocations
// before it can produce a final answer.
func (r *ChatResponse) HasToolCalls() bool {
	return len(r.Message.ToolCalls) > 0
}
