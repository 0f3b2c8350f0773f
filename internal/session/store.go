// Package session provides the keyed conversation history consumed and
// extended by the agent loop.
//
// Every turn on a session runs under that session's own mutex, held
// from transcript assembly through commit. Concurrent turns on one
// session id are serialized; turns on distinct sessions do not contend.
// This closes the interleaving race a bare shared map would have
// (duplicated or lost turns, tool-call/result mismatches leaking across
// turns).
package session

import (
	"sort"
	"sync"

	"github.com/modeexpress/shopbot/internal/llm"
)

// History limits.
const (
	// HistoryCap is the persisted per-session message limit; older
	// messages are dropped first.
	HistoryCap = 20

	// Window is how many trailing history messages a turn includes in
	// its outgoing transcript.
	Window = 10
)

// Session is one keyed conversation history. A handle returned by
// [Store.Acquire] is exclusively owned until Release; callers must not
// retain it afterward.
type Session struct {
	mu      sync.Mutex
	id      string
	history []llm.Message
}

// ID returns the session key.
func (s *Session) ID() string {
	return s.id
}

// Release ends the caller's exclusive ownership of the session.
func (s *Session) Release() {
	s.mu.Unlock()
}

// Window returns a copy of the most recent n history messages.
func (s *Session) Window(n int) []llm.Message {
	start := len(s.history) - n
	if start < 0 {
		start = 0
	}
	out := make([]llm.Message, len(s.history)-start)
	copy(out, s.history[start:])
	return out
}

// Append adds messages to the persisted history and enforces
// HistoryCap by dropping the oldest entries.
func (s *Session) Append(msgs ...llm.Message) {
	s.history = append(s.history, msgs...)
	if excess := len(s.history) - HistoryCap; excess > 0 {
		s.history = append([]llm.Message(nil), s.history[excess:]...)
	}
}

// Len returns the persisted history length.
func (s *Session) Len() int {
	return len(s.history)
}

// History returns a copy of the full persisted history.
func (s *Session) History() []llm.Message {
	out := make([]llm.Message, len(s.history))
	copy(out, s.history)
	return out
}

// Store maps session ids to sessions. Sessions are created lazily on
// first reference and live for the process lifetime.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Acquire returns the session for id, creating it if needed, with its
// mutex held. The caller owns the session until Release and must hold
// it for the whole turn, not just the history append.
func (st *Store) Acquire(id string) *Session {
	st.mu.Lock()
	s, ok := st.sessions[id]
	if !ok {
		s = &Session{id: id}
		st.sessions[id] = s
	}
	st.mu.Unlock()

	s.mu.Lock()
	return s
}

// Reset clears the session's history. It serializes against any
// in-flight turn on the same session, so a turn never observes a
// half-cleared history.
func (st *Store) Reset(id string) {
	st.mu.Lock()
	s, ok := st.sessions[id]
	st.mu.Unlock()
	if !ok {
		return
	}

	s.mu.Lock()
	s.history = nil
	s.mu.Unlock()
}

// Count returns the number of sessions created so far.
func (st *Store) Count() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// IDs returns all session ids, sorted.
func (st *Store) IDs() []string {
	st.mu.Lock()
	defer st.mu.Unlock()

	ids := make([]string, 0, len(st.sessions))
	for id := range st.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
