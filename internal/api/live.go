package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"livimmo-live/internal/db"
	"livimmo-live/internal/live"
	"livimmo-live/internal/models"
)

// LiveHandler serves the live feed and the carousel view
type LiveHandler struct {
	db *db.DB
}

// NewLiveHandler creates a new live handler
func NewLiveHandler(database *db.DB) *LiveHandler {
	return &LiveHandler{db: database}
}

// Ingest handles PUT /api/lives: replaces the stored live feed
func (h *LiveHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	log.Printf("[API] Ingest lives started")

	var lives []models.LiveItem
	if err := json.NewDecoder(r.Body).Decode(&lives); err != nil {
		log.Printf("[API] Ingest lives failed: invalid request body err=%v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.db.ReplaceLives(lives); err != nil {
		log.Printf("[API] Ingest lives failed: DB error err=%v", err)
		http.Error(w, "Failed to store lives", http.StatusInternalServerError)
		return
	}

	log.Printf("[API] Ingest lives completed count=%d", len(lives))
	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /api/lives
func (h *LiveHandler) List(w http.ResponseWriter, r *http.Request) {
	lives, err := h.db.GetAllLives()
	if err != nil {
		http.Error(w, "Failed to get lives", http.StatusInternalServerError)
		return
	}
	if lives == nil {
		lives = []models.LiveItem{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lives)
}

// Carousel handles GET /api/lives/carousel?current={id}: the rendered
// slide set with the current live marked
func (h *LiveHandler) Carousel(w http.ResponseWriter, r *http.Request) {
	lives, err := h.db.GetAllLives()
	if err != nil {
		http.Error(w, "Failed to get lives", http.StatusInternalServerError)
		return
	}

	var currentID int64
	if raw := r.URL.Query().Get("current"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, "Invalid current ID", http.StatusBadRequest)
			return
		}
		currentID = id
	}

	carousel := live.NewCarousel(lives, currentID, nil, nil)
	slides := carousel.Render()
	if slides == nil {
		slides = []live.Slide{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(slides)
}
