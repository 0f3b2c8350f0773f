// Package api implements the customer-facing HTTP API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/modeexpress/shopbot/internal/buildinfo"
	"github.com/modeexpress/shopbot/internal/llm"
	"github.com/modeexpress/shopbot/internal/session"
)

// DefaultSessionID is used when a chat request omits session_id. It is
// an explicit API-layer default; the agent core always receives an
// explicit session key.
const DefaultSessionID = "default"

// Agent is the slice of the orchestration loop the API needs.
type Agent interface {
	Turn(ctx context.Context, sessionID, userText string) (string, error)
	Reset(sessionID string)
}

// writeJSON encodes v as JSON to w, logging any errors at debug level.
// Errors here typically mean the client disconnected mid-response.
func writeJSON(w http.ResponseWriter, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("failed to write JSON response", "error", err)
	}
}

// Server is the HTTP API server.
type Server struct {
	address  string
	port     int
	agent    Agent
	sessions *session.Store
	model    string
	logger   *slog.Logger
	server   *http.Server
}

// NewServer creates a new API server. The session store is used for
// introspection endpoints only; all mutation goes through the agent.
func NewServer(address string, port int, agent Agent, sessions *session.Store, model string, logger *slog.Logger) *Server {
	return &Server{
		address:  address,
		port:     port,
		agent:    agent,
		sessions: sessions,
		model:    model,
		logger:   logger,
	}
}

// Start begins serving HTTP requests. It blocks until the listener
// fails or Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("POST /chat", s.handleChat) // legacy alias
	mux.HandleFunc("POST /api/reset", s.handleReset)
	mux.HandleFunc("POST /reset", s.handleReset) // legacy alias
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /sessions", s.handleSessions)
	mux.HandleFunc("GET /", s.handleRoot)

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.address, s.port),
		Handler:      s.withLogging(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second, // a turn can span several upstream calls
	}

	addr := s.address
	if addr == "" {
		addr = "0.0.0.0"
	}
	s.logger.Info("starting API server", "address", addr, "port", s.port)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
			"request_id", requestID,
		)
	})
}

// ChatRequest is the inbound chat payload.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse is the chat reply payload.
type ChatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

// ResetRequest names the session to clear.
type ResetRequest struct {
	SessionID string `json:"session_id,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "corps de requête invalide")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.errorResponse(w, http.StatusBadRequest, "Message vide.")
		return
	}
	if req.SessionID == "" {
		req.SessionID = DefaultSessionID
	}

	answer, err := s.agent.Turn(r.Context(), req.SessionID, req.Message)
	if err != nil {
		var upstream *llm.UpstreamError
		if errors.As(err, &upstream) {
			s.logger.Error("turn failed upstream", "session", req.SessionID, "error", err)
			s.errorResponse(w, http.StatusBadGateway,
				"Le service de réponse est momentanément indisponible. Réessayez dans quelques instants.")
			return
		}
		s.logger.Error("turn failed", "session", req.SessionID, "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "Une erreur interne s'est produite.")
		return
	}

	writeJSON(w, ChatResponse{Response: answer, SessionID: req.SessionID}, s.logger)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "corps de requête invalide")
		return
	}
	if req.SessionID == "" {
		req.SessionID = DefaultSessionID
	}

	s.agent.Reset(req.SessionID)
	writeJSON(w, map[string]string{
		"message": fmt.Sprintf("Session '%s' réinitialisée.", req.SessionID),
	}, s.logger)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status":          "ok",
		"model":           s.model,
		"active_sessions": s.sessions.Count(),
	}, s.logger)
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"active_sessions": s.sessions.Count(),
		"session_ids":     s.sessions.IDs(),
	}, s.logger)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{
		"name":    "ShopBot",
		"version": buildinfo.Version,
		"status":  "ok",
	}, s.logger)
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"detail": detail}); err != nil {
		s.logger.Debug("failed to write error response", "error", err)
	}
}
