package api

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"livimmo-live/internal/chat"
	"livimmo-live/internal/db"
	"livimmo-live/internal/questions"
)

// SessionHandler handles chat-session HTTP requests
type SessionHandler struct {
	db          *db.DB
	hub         *chat.Hub
	bank        *questions.Bank
	broadcaster *EventBroadcaster
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(database *db.DB, hub *chat.Hub, bank *questions.Bank) *SessionHandler {
	return &SessionHandler{
		db:   database,
		hub:  hub,
		bank: bank,
	}
}

// SetBroadcaster sets the SSE broadcaster for session lifecycle events
func (h *SessionHandler) SetBroadcaster(b *EventBroadcaster) {
	h.broadcaster = b
}

// CreateSessionRequest is the request body for creating a session
type CreateSessionRequest struct {
	Title      string `json:"title"`
	PropertyID *int64 `json:"property_id,omitempty"`
}

// SessionResponse is a session in API responses
type SessionResponse struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	PropertyID *int64 `json:"property_id,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// Create handles POST /api/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	log.Printf("[API] Create session started")

	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[API] Create session failed: invalid request body err=%v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Title == "" {
		log.Printf("[API] Create session failed: title is required")
		http.Error(w, "Title is required", http.StatusBadRequest)
		return
	}

	sess, err := h.db.CreateSession(req.Title, req.PropertyID)
	if err != nil {
		log.Printf("[API] Failed to create session in DB err=%v", err)
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	// Open the live session so the welcome message is in place
	h.hub.Open(sess.ID, nil)

	log.Printf("[API] Create session completed session_id=%d title=%q", sess.ID, sess.Title)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(SessionResponse{
		ID:         sess.ID,
		Title:      sess.Title,
		PropertyID: sess.PropertyID,
		CreatedAt:  sess.CreatedAt.Format(time.RFC3339),
	})
}

// List handles GET /api/sessions
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.db.GetAllSessions()
	if err != nil {
		http.Error(w, "Failed to get sessions", http.StatusInternalServerError)
		return
	}

	response := make([]SessionResponse, len(sessions))
	for i, sess := range sessions {
		response[i] = SessionResponse{
			ID:         sess.ID,
			Title:      sess.Title,
			PropertyID: sess.PropertyID,
			CreatedAt:  sess.CreatedAt.Format(time.RFC3339),
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// Get handles GET /api/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid session ID", http.StatusBadRequest)
		return
	}

	sess, err := h.db.GetSession(id)
	if err == sql.ErrNoRows {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to get session", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SessionResponse{
		ID:         sess.ID,
		Title:      sess.Title,
		PropertyID: sess.PropertyID,
		CreatedAt:  sess.CreatedAt.Format(time.RFC3339),
	})
}

// Delete handles DELETE /api/sessions/{id}. Closing a session cancels
// its pending bot replies.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log.Printf("[API] Delete session started")

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		log.Printf("[API] Delete session failed: invalid session ID err=%v", err)
		http.Error(w, "Invalid session ID", http.StatusBadRequest)
		return
	}

	h.hub.Close(id)
	if h.broadcaster != nil {
		h.broadcaster.BroadcastSessionClosed(id)
	}

	if err := h.db.DeleteSession(id); err == sql.ErrNoRows {
		log.Printf("[API] Delete session failed: session not found session_id=%d", id)
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	} else if err != nil {
		log.Printf("[API] Delete session failed: DB error err=%v", err)
		http.Error(w, "Failed to delete session", http.StatusInternalServerError)
		return
	}

	log.Printf("[API] Delete session completed session_id=%d", id)
	w.WriteHeader(http.StatusNoContent)
}

// SendMessageRequest is the request body for a free-form user message
type SendMessageRequest struct {
	Content string `json:"content"`
}

// SelectFollowUpRequest is the request body for a follow-up prompt click
type SelectFollowUpRequest struct {
	QuestionID string `json:"question_id"`
}

// SendMessage handles POST /api/sessions/{id}/messages. A scripted bot
// reply follows after the fixed delay, delivered over SSE.
func (h *SessionHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	log.Printf("[API] SendMessage started")

	sess, ok := h.liveSession(w, r)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[API] SendMessage failed: invalid request body err=%v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	msg, appended := sess.AppendUserMessage(req.Content)
	if !appended {
		// Whitespace input is silently ignored, not an error
		log.Printf("[API] SendMessage ignored empty content session_id=%d", sess.ID())
		w.WriteHeader(http.StatusNoContent)
		return
	}

	log.Printf("[API] SendMessage completed session_id=%d message_id=%s", sess.ID(), msg.ID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(msg)
}

// SelectFollowUp handles POST /api/sessions/{id}/follow-ups
func (h *SessionHandler) SelectFollowUp(w http.ResponseWriter, r *http.Request) {
	log.Printf("[API] SelectFollowUp started")

	sess, ok := h.liveSession(w, r)
	if !ok {
		return
	}

	var req SelectFollowUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[API] SelectFollowUp failed: invalid request body err=%v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	prompt, found := h.bank.Lookup(req.QuestionID)
	if !found {
		log.Printf("[API] SelectFollowUp failed: unknown question question_id=%q", req.QuestionID)
		http.Error(w, "Unknown question", http.StatusNotFound)
		return
	}

	msg, appended := sess.SelectFollowUp(prompt)
	if !appended {
		http.Error(w, "Session closed", http.StatusConflict)
		return
	}

	log.Printf("[API] SelectFollowUp completed session_id=%d question_id=%s message_id=%s",
		sess.ID(), prompt.ID, msg.ID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(msg)
}

// GetMessages handles GET /api/sessions/{id}/messages
func (h *SessionHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.liveSession(w, r)
	if !ok {
		return
	}

	messages := sess.Messages()
	log.Printf("[API] GetMessages completed session_id=%d count=%d", sess.ID(), len(messages))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(messages)
}

// liveSession resolves the live chat session for the request, reopening
// it from stored history when needed. Writes the error response itself.
func (h *SessionHandler) liveSession(w http.ResponseWriter, r *http.Request) (*chat.Session, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid session ID", http.StatusBadRequest)
		return nil, false
	}

	if sess, found := h.hub.Get(id); found {
		return sess, true
	}

	// Not open in this process: verify it exists and rehydrate
	if _, err := h.db.GetSession(id); err == sql.ErrNoRows {
		http.Error(w, "Session not found", http.StatusNotFound)
		return nil, false
	} else if err != nil {
		http.Error(w, "Failed to get session", http.StatusInternalServerError)
		return nil, false
	}

	history, err := h.db.GetMessages(id)
	if err != nil {
		log.Printf("[API] Failed to load session history session_id=%d err=%v", id, err)
		http.Error(w, "Failed to load session history", http.StatusInternalServerError)
		return nil, false
	}

	return h.hub.Open(id, history), true
}
