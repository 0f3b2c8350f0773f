package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/modeexpress/shopbot/internal/httpkit"
)

const chatCompletionsPath = "/v1/chat/completions"

// requestTimeout bounds a single completion round-trip. The turn fails
// if the provider does not answer within this window.
const requestTimeout = 30 * time.Second

// MistralClient speaks the Mistral chat completions API
// (OpenAI-compatible wire format).
type MistralClient struct {
	baseURL    string
	apiKey     string
	model      string
	maxTokens  int
	httpClient *http.Client
	logger     *slog.Logger
}

// MistralConfig configures a MistralClient.
type MistralConfig struct {
	BaseURL   string // e.g., "https://api.mistral.ai"
	APIKey    string
	Model     string // e.g., "mistral-large-latest"
	MaxTokens int
}

// NewMistralClient creates a Mistral completion client.
func NewMistralClient(cfg MistralConfig, logger *slog.Logger) *MistralClient {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.mistral.ai"
	}
	if cfg.Model == "" {
		cfg.Model = "mistral-large-latest"
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 600
	}
	return &MistralClient{
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		logger:    logger.With("provider", "mistral"),
		httpClient: httpkit.NewClient(
			httpkit.WithTimeout(requestTimeout),
		),
	}
}

// Mistral request/response wire types

type mistralRequest struct {
	Model       string           `json:"model"`
	Messages    []Message        `json:"messages"`
	Temperature float64          `json:"temperature"`
	MaxTokens   int              `json:"max_tokens"`
	Tools       []map[string]any `json:"tools,omitempty"`
	ToolChoice  string           `json:"tool_choice,omitempty"`
}

type mistralResponse struct {
	ID      string          `json:"id"`
	Model   string          `json:"model"`
	Choices []mistralChoice `json:"choices"`
	Usage   mistralUsage    `json:"usage"`
}

type mistralChoice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

type mistralUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// Chat sends one completion request. Temperature is pinned to 0 for
// deterministic answers; the tool catalog rides along on every call
// with tool_choice "auto" (the provider keeps no session state).
func (c *MistralClient) Chat(ctx context.Context, messages []Message, tools []map[string]any) (*ChatResponse, error) {
	req := mistralRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: 0,
		MaxTokens:   c.maxTokens,
	}
	if len(tools) > 0 {
		req.Tools = tools
		req.ToolChoice = "auto"
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatCompletionsPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody := httpkit.ReadErrorBody(resp.Body, 512)
		return nil, &UpstreamError{Status: resp.StatusCode, Body: errBody}
	}

	var wire mistralResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, &UpstreamError{Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(wire.Choices) == 0 {
		return nil, &UpstreamError{Err: fmt.Errorf("response contains no choices")}
	}

	choice := wire.Choices[0]
	c.logger.Debug("completion received",
		"model", wire.Model,
		"finish_reason", choice.FinishReason,
		"tool_calls", len(choice.Message.ToolCalls),
		"duration", time.Since(start),
	)

	return &ChatResponse{
		Message:      choice.Message,
		FinishReason: choice.FinishReason,
		Model:        wire.Model,
		InputTokens:  wire.Usage.PromptTokens,
		OutputTokens: wire.Usage.CompletionTokens,
	}, nil
}
