package api

import (
	"log"
	"net/http"
	"strconv"
)

// SessionEventsHandler serves SSE connections for chat sessions
type SessionEventsHandler struct {
	broadcaster *EventBroadcaster
}

// NewSessionEventsHandler creates a new handler
func NewSessionEventsHandler(broadcaster *EventBroadcaster) *SessionEventsHandler {
	return &SessionEventsHandler{
		broadcaster: broadcaster,
	}
}

// HandleEvents handles GET /api/sessions/{id}/events
func (h *SessionEventsHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	sessionID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		log.Printf("[SSE] Invalid session ID err=%v", err)
		http.Error(w, "Invalid session ID", http.StatusBadRequest)
		return
	}

	log.Printf("[SSE] New connection request session_id=%d", sessionID)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Printf("[SSE] Streaming not supported")
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	eventCh := h.broadcaster.Subscribe(sessionID)
	defer h.broadcaster.Unsubscribe(sessionID, eventCh)

	_, err = w.Write([]byte("event: connected\ndata: {}\n\n"))
	if err != nil {
		log.Printf("[SSE] Failed to send connected event err=%v", err)
		return
	}
	flusher.Flush()

	log.Printf("[SSE] Client connected session_id=%d", sessionID)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			log.Printf("[SSE] Client disconnected session_id=%d", sessionID)
			return
		case event, ok := <-eventCh:
			if !ok {
				log.Printf("[SSE] Event channel closed session_id=%d", sessionID)
				return
			}
			data, err := FormatSSE(event)
			if err != nil {
				log.Printf("[SSE] Failed to format event err=%v", err)
				continue
			}
			if _, err := w.Write(data); err != nil {
				log.Printf("[SSE] Failed to write event err=%v", err)
				return
			}
			flusher.Flush()
		}
	}
}
