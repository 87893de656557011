package api

import (
	"encoding/json"
	"log"
	"sync"
)

// Event is one server-sent event
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// EventBroadcaster tracks SSE clients per chat session and fans events
// out to them. Deferred bot replies reach clients through here.
type EventBroadcaster struct {
	mu      sync.RWMutex
	clients map[int64]map[chan Event]struct{} // sessionID -> clients
}

// NewEventBroadcaster creates an empty broadcaster
func NewEventBroadcaster() *EventBroadcaster {
	return &EventBroadcaster{
		clients: make(map[int64]map[chan Event]struct{}),
	}
}

// Subscribe adds a client listening to a session's events
func (b *EventBroadcaster) Subscribe(sessionID int64) chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, 10)

	if b.clients[sessionID] == nil {
		b.clients[sessionID] = make(map[chan Event]struct{})
	}
	b.clients[sessionID][ch] = struct{}{}

	log.Printf("[SSE] Client subscribed session_id=%d total_clients=%d",
		sessionID, len(b.clients[sessionID]))

	return ch
}

// Unsubscribe removes a client and closes its channel
func (b *EventBroadcaster) Unsubscribe(sessionID int64, ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if clients, ok := b.clients[sessionID]; ok {
		delete(clients, ch)
		close(ch)
		if len(clients) == 0 {
			delete(b.clients, sessionID)
		}
	}

	log.Printf("[SSE] Client unsubscribed session_id=%d", sessionID)
}

// Broadcast sends an event to every client of a session
func (b *EventBroadcaster) Broadcast(sessionID int64, event Event) {
	b.mu.RLock()
	clients := b.clients[sessionID]
	b.mu.RUnlock()

	if len(clients) == 0 {
		return
	}

	log.Printf("[SSE] Broadcasting event type=%s session_id=%d clients=%d",
		event.Type, sessionID, len(clients))

	for ch := range clients {
		select {
		case ch <- event:
		default:
			// client channel full, skip
			log.Printf("[SSE] Client channel full, skipping event")
		}
	}
}

// BroadcastMessage broadcasts a new chat message event
func (b *EventBroadcaster) BroadcastMessage(sessionID int64, message any) {
	b.Broadcast(sessionID, Event{
		Type: "message",
		Data: message,
	})
}

// BroadcastSessionClosed broadcasts a session-closed event
func (b *EventBroadcaster) BroadcastSessionClosed(sessionID int64) {
	b.Broadcast(sessionID, Event{
		Type: "session_closed",
		Data: map[string]any{"session_id": sessionID},
	})
}

// ClientCount returns the number of clients subscribed to a session
func (b *EventBroadcaster) ClientCount(sessionID int64) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients[sessionID])
}

// FormatSSE renders an event in SSE wire format
func FormatSSE(event Event) ([]byte, error) {
	data, err := json.Marshal(event.Data)
	if err != nil {
		return nil, err
	}
	return []byte("event: " + event.Type + "\ndata: " + string(data) + "\n\n"), nil
}
