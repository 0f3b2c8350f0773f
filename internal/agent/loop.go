// Package agent implements the core orchestration loop: one bounded
// conversation turn from user question to final answer, driving the
// completion client and dispatching its tool requests.
package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/modeexpress/shopbot/internal/llm"
	"github.com/modeexpress/shopbot/internal/prompts"
	"github.com/modeexpress/shopbot/internal/session"
	"github.com/modeexpress/shopbot/internal/tools"
)

// maxIterations caps completion calls per turn. The model could in
// principle chain tool calls forever; the cap bounds both latency and
// upstream spend. On exhaustion the turn is abandoned without touching
// session history, so a retried question starts from the same state.
const maxIterations = 5

// Retriever is the retrieval gateway contract: it never fails, it
// degrades to a no-context sentinel.
type Retriever interface {
	Retrieve(ctx context.Context, query string) string
}

// Loop is the orchestration loop. Safe for concurrent use: per-session
// serialization comes from the session store, everything else here is
// immutable after construction.
type Loop struct {
	logger    *slog.Logger
	client    llm.Client
	registry  *tools.Registry
	retriever Retriever
	sessions  *session.Store
	catalog   []map[string]any
}

// New creates an orchestration loop. The tool registry must be fully
// populated; its catalog is snapshotted here.
func New(logger *slog.Logger, client llm.Client, registry *tools.Registry, retriever Retriever, sessions *session.Store) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		logger:    logger,
		client:    client,
		registry:  registry,
		retriever: retriever,
		sessions:  sessions,
		catalog:   registry.Catalog(),
	}
}

// Turn runs one complete question-to-answer cycle for a session.
//
// The turn builds a transcript from the system prompt (with retrieved
// FAQ context), the trailing window of session history, and the new
// user message, then loops: call the completion service; dispatch any
// requested tools and feed their results back; stop on a final answer.
// Only a final answer mutates the persisted history (user + assistant,
// capped). A completion failure aborts the turn with the error; budget
// exhaustion returns the fixed fallback text. Both leave history
// untouched.
func (l *Loop) Turn(ctx context.Context, sessionID, userText string) (string, error) {
	sess := l.sessions.Acquire(sessionID)
	defer sess.Release()

	l.logger.Info("turn started", "session", sessionID, "history", sess.Len())

	faqContext := l.retriever.Retrieve(ctx, userText)

	userMsg := llm.Message{Role: llm.RoleUser, Content: userText}
	transcript := make([]llm.Message, 0, session.Window+2)
	transcript = append(transcript, llm.Message{Role: llm.RoleSystem, Content: prompts.System(faqContext)})
	transcript = append(transcript, sess.Window(session.Window)...)
	transcript = append(transcript, userMsg)

	for iteration := 1; iteration <= maxIterations; iteration++ {
		resp, err := l.client.Chat(ctx, transcript, l.catalog)
		if err != nil {
			l.logger.Error("completion failed", "session", sessionID, "iteration", iteration, "error", err)
			return "", fmt.Errorf("completion: %w", err)
		}

		if resp.HasToolCalls() {
			// Keep the assistant message with its tool_calls, then
			// answer every call in order before the next completion:
			// the transcript must never carry a dangling tool call.
			transcript = append(transcript, resp.Message)
			for _, call := range resp.Message.ToolCalls {
				result := l.registry.Dispatch(ctx, call.Function.Name, call.Function.Arguments)
				l.logger.Debug("tool dispatched",
					"session", sessionID,
					"tool", call.Function.Name,
					"call_id", call.ID,
				)
				transcript = append(transcript, llm.Message{
					Role:       llm.RoleTool,
					Content:    result,
					ToolCallID: call.ID,
					Name:       call.Function.Name,
				})
			}
			continue
		}

		answer := resp.Message.Content
		if answer == "" {
			answer = prompts.EmptyAnswer
		}

		sess.Append(userMsg, llm.Message{Role: llm.RoleAssistant, Content: answer})
		l.logger.Info("turn completed",
			"session", sessionID,
			"iterations", iteration,
			"history", sess.Len(),
		)
		return answer, nil
	}

	l.logger.Warn("iteration budget exhausted", "session", sessionID, "budget", maxIterations)
	return prompts.Fallback, nil
}

// Reset clears a session's history; the session is recreated lazily on
// its next turn.
func (l *Loop) Reset(sessionID string) {
	l.sessions.Reset(sessionID)
}
