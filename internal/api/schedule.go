package api

import (
	"database/sql"
	"encoding/json"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"

	"livimmo-live/internal/db"
	"livimmo-live/internal/models"
)

// ScheduleHandler handles the live-scheduling management panel
type ScheduleHandler struct {
	db *db.DB
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(database *db.DB) *ScheduleHandler {
	return &ScheduleHandler{db: database}
}

// ScheduledLiveRequest is the request body for creating or updating a
// scheduled live
type ScheduledLiveRequest struct {
	Title   string `json:"title"`
	Date    string `json:"date"`
	Channel string `json:"channel"`
}

func (r ScheduledLiveRequest) parse() (string, time.Time, models.Channel, string) {
	if r.Title == "" {
		return "", time.Time{}, "", "Title is required"
	}
	date, err := time.Parse(time.RFC3339, r.Date)
	if err != nil {
		return "", time.Time{}, "", "Date must be RFC3339"
	}
	channel := models.Channel(r.Channel)
	if !models.ValidChannel(channel) {
		return "", time.Time{}, "", "Unknown channel"
	}
	return r.Title, date, channel, ""
}

// List handles GET /api/scheduled-lives
func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	lives, err := h.db.GetScheduledLives()
	if err != nil {
		http.Error(w, "Failed to get scheduled lives", http.StatusInternalServerError)
		return
	}
	if lives == nil {
		lives = []models.ScheduledLive{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lives)
}

// Create handles POST /api/scheduled-lives
func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	log.Printf("[API] Create scheduled live started")

	var req ScheduledLiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[API] Create scheduled live failed: invalid request body err=%v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	title, date, channel, problem := req.parse()
	if problem != "" {
		log.Printf("[API] Create scheduled live failed: %s", problem)
		http.Error(w, problem, http.StatusBadRequest)
		return
	}

	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	liveEntry := models.ScheduledLive{
		ID:      ulid.MustNew(ulid.Now(), entropy).String(),
		Title:   title,
		Date:    date,
		Channel: channel,
	}

	if err := h.db.CreateScheduledLive(liveEntry); err != nil {
		log.Printf("[API] Create scheduled live failed: DB error err=%v", err)
		http.Error(w, "Failed to create scheduled live", http.StatusInternalServerError)
		return
	}

	log.Printf("[API] Create scheduled live completed id=%s title=%q channel=%s",
		liveEntry.ID, liveEntry.Title, liveEntry.Channel)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(liveEntry)
}

// Update handles PUT /api/scheduled-lives/{id}
func (h *ScheduleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req ScheduledLiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	title, date, channel, problem := req.parse()
	if problem != "" {
		http.Error(w, problem, http.StatusBadRequest)
		return
	}

	err := h.db.UpdateScheduledLive(id, title, date, channel)
	if err == sql.ErrNoRows {
		http.Error(w, "Scheduled live not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("[API] Update scheduled live failed: DB error id=%s err=%v", id, err)
		http.Error(w, "Failed to update scheduled live", http.StatusInternalServerError)
		return
	}

	log.Printf("[API] Update scheduled live completed id=%s", id)
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/scheduled-lives/{id}
func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := h.db.DeleteScheduledLive(id)
	if err == sql.ErrNoRows {
		http.Error(w, "Scheduled live not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("[API] Delete scheduled live failed: DB error id=%s err=%v", id, err)
		http.Error(w, "Failed to delete scheduled live", http.StatusInternalServerError)
		return
	}

	log.Printf("[API] Delete scheduled live completed id=%s", id)
	w.WriteHeader(http.StatusNoContent)
}
