package api

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"livimmo-live/internal/chat"
	"livimmo-live/internal/db"
	"livimmo-live/internal/models"
	"livimmo-live/internal/questions"
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Flush implements http.Flusher interface for SSE support
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Router holds the HTTP multiplexer and dependencies
type Router struct {
	mux             *http.ServeMux
	sessionHandler  *SessionHandler
	liveHandler     *LiveHandler
	propertyHandler *PropertyHandler
	scheduleHandler *ScheduleHandler
	eventsHandler   *SessionEventsHandler
	broadcaster     *EventBroadcaster
	staticDir       string
}

// NewRouter creates a new router with all routes configured. It also
// wires the session hub's message sink: every appended chat message is
// persisted and broadcast over SSE.
func NewRouter(database *db.DB, bank *questions.Bank, hub *chat.Hub, staticDir, mapsAPIKey string) *Router {
	broadcaster := NewEventBroadcaster()

	hub.SetSinkFactory(func(sessionID int64) chat.Sink {
		return func(msg models.ChatMessage) {
			if err := database.SaveMessage(msg); err != nil {
				log.Printf("[API] Failed to persist message session_id=%d message_id=%s err=%v",
					sessionID, msg.ID, err)
			}
			broadcaster.BroadcastMessage(sessionID, msg)
		}
	})

	sessionHandler := NewSessionHandler(database, hub, bank)
	sessionHandler.SetBroadcaster(broadcaster)

	r := &Router{
		mux:             http.NewServeMux(),
		sessionHandler:  sessionHandler,
		liveHandler:     NewLiveHandler(database),
		propertyHandler: NewPropertyHandler(database, mapsAPIKey),
		scheduleHandler: NewScheduleHandler(database),
		eventsHandler:   NewSessionEventsHandler(broadcaster),
		broadcaster:     broadcaster,
		staticDir:       staticDir,
	}
	r.setupRoutes()
	return r
}

// setupRoutes configures all HTTP routes
func (r *Router) setupRoutes() {
	// Health check
	r.mux.HandleFunc("GET /health", HealthHandler)

	// Chat session routes
	r.mux.HandleFunc("GET /api/sessions", r.sessionHandler.List)
	r.mux.HandleFunc("POST /api/sessions", r.sessionHandler.Create)
	r.mux.HandleFunc("GET /api/sessions/{id}", r.sessionHandler.Get)
	r.mux.HandleFunc("DELETE /api/sessions/{id}", r.sessionHandler.Delete)

	// Message routes
	r.mux.HandleFunc("GET /api/sessions/{id}/messages", r.sessionHandler.GetMessages)
	r.mux.HandleFunc("POST /api/sessions/{id}/messages", r.sessionHandler.SendMessage)
	r.mux.HandleFunc("POST /api/sessions/{id}/follow-ups", r.sessionHandler.SelectFollowUp)

	// SSE events route
	r.mux.HandleFunc("GET /api/sessions/{id}/events", r.eventsHandler.HandleEvents)

	// Live feed routes
	r.mux.HandleFunc("GET /api/lives", r.liveHandler.List)
	r.mux.HandleFunc("PUT /api/lives", r.liveHandler.Ingest)
	r.mux.HandleFunc("GET /api/lives/carousel", r.liveHandler.Carousel)

	// Property feed routes
	r.mux.HandleFunc("GET /api/properties", r.propertyHandler.List)
	r.mux.HandleFunc("PUT /api/properties", r.propertyHandler.Ingest)
	r.mux.HandleFunc("GET /api/properties/map", r.propertyHandler.MapView)
	r.mux.HandleFunc("GET /api/properties/{id}/card", r.propertyHandler.Card)

	// Live scheduling routes
	r.mux.HandleFunc("GET /api/scheduled-lives", r.scheduleHandler.List)
	r.mux.HandleFunc("POST /api/scheduled-lives", r.scheduleHandler.Create)
	r.mux.HandleFunc("PUT /api/scheduled-lives/{id}", r.scheduleHandler.Update)
	r.mux.HandleFunc("DELETE /api/scheduled-lives/{id}", r.scheduleHandler.Delete)

	// Static file serving (for frontend)
	if r.staticDir != "" {
		r.mux.HandleFunc("GET /", r.serveStatic)
	}
}

// serveStatic serves static files from the static directory
func (r *Router) serveStatic(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Path
	if path == "/" {
		path = "/index.html"
	}

	filePath := filepath.Join(r.staticDir, path)

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		// Serve index.html for SPA routing
		filePath = filepath.Join(r.staticDir, "index.html")
	}

	http.ServeFile(w, req, filePath)
}

// ServeHTTP implements the http.Handler interface
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	start := time.Now()

	// Add CORS headers for development
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if req.Method == "OPTIONS" {
		log.Printf("[HTTP] CORS preflight method=OPTIONS path=%s", req.URL.Path)
		w.WriteHeader(http.StatusOK)
		return
	}

	// Skip logging for static files, health checks, and SSE endpoints
	shouldLog := strings.HasPrefix(req.URL.Path, "/api/") && !strings.HasSuffix(req.URL.Path, "/events")

	if shouldLog {
		log.Printf("[HTTP] Request started method=%s path=%s", req.Method, req.URL.Path)
	}

	wrapped := newResponseWriter(w)
	r.mux.ServeHTTP(wrapped, req)

	if shouldLog {
		log.Printf("[HTTP] Request completed method=%s path=%s status=%d duration=%v",
			req.Method, req.URL.Path, wrapped.statusCode, time.Since(start))
	}
}

// GetBroadcaster returns the event broadcaster
func (r *Router) GetBroadcaster() *EventBroadcaster {
	return r.broadcaster
}
