package chat

import (
	"log"
	"sync"
	"time"

	"livimmo-live/internal/models"
	"livimmo-live/internal/questions"
)

// SinkFactory builds the message sink for a newly opened session
type SinkFactory func(sessionID int64) Sink

// Hub tracks the live Session instances of the process. Sessions are
// created on demand and every pending bot reply is cancelled on Shutdown.
type Hub struct {
	bank    *questions.Bank
	delay   time.Duration
	sinkFor SinkFactory

	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewHub creates a hub. The sink factory is attached afterwards via
// SetSinkFactory, once the persistence and SSE collaborators exist.
func NewHub(bank *questions.Bank, delay time.Duration) *Hub {
	return &Hub{
		bank:     bank,
		delay:    delay,
		sessions: make(map[int64]*Session),
	}
}

// SetSinkFactory sets the factory building the message sink of newly
// opened sessions. Must be called before any session is opened.
func (h *Hub) SetSinkFactory(sinkFor SinkFactory) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sinkFor = sinkFor
}

// Open creates and registers the live session for id, seeded with the
// supplied history. An already-open session is returned as is.
func (h *Hub) Open(id int64, history []models.ChatMessage) *Session {
	h.mu.Lock()
	defer h.mu.Unlock()

	if s, ok := h.sessions[id]; ok {
		return s
	}

	var sink Sink
	if h.sinkFor != nil {
		sink = h.sinkFor(id)
	}
	s := NewSession(id, h.bank, history, h.delay, sink)
	h.sessions[id] = s
	log.Printf("[Chat] Session opened session_id=%d history=%d", id, len(history))
	return s
}

// Get returns the live session for id, if any
func (h *Hub) Get(id int64) (*Session, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.sessions[id]
	return s, ok
}

// Close closes and unregisters the session for id
func (h *Hub) Close(id int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.sessions[id]; ok {
		s.Close()
		delete(h.sessions, id)
	}
}

// SessionCount returns the number of open sessions
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Shutdown closes every open session
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, s := range h.sessions {
		s.Close()
		delete(h.sessions, id)
	}
	log.Printf("[Chat] Hub shutdown complete")
}
