package api

import (
	"encoding/json"
	"log"
	"math/rand"
	"net/http"
	"strconv"

	"livimmo-live/internal/card"
	"livimmo-live/internal/db"
	"livimmo-live/internal/geo"
	"livimmo-live/internal/models"
)

// PropertyHandler serves the property feed, the synced map/list view,
// and composed property cards
type PropertyHandler struct {
	db         *db.DB
	mapsAPIKey string
}

// NewPropertyHandler creates a new property handler
func NewPropertyHandler(database *db.DB, mapsAPIKey string) *PropertyHandler {
	return &PropertyHandler{
		db:         database,
		mapsAPIKey: mapsAPIKey,
	}
}

// Ingest handles PUT /api/properties: replaces the stored snapshot with
// the feed supplied in the body
func (h *PropertyHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	log.Printf("[API] Ingest properties started")

	var props []models.PropertySummary
	if err := json.NewDecoder(r.Body).Decode(&props); err != nil {
		log.Printf("[API] Ingest properties failed: invalid request body err=%v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.db.ReplaceProperties(props); err != nil {
		log.Printf("[API] Ingest properties failed: DB error err=%v", err)
		http.Error(w, "Failed to store properties", http.StatusInternalServerError)
		return
	}

	log.Printf("[API] Ingest properties completed count=%d", len(props))
	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /api/properties
func (h *PropertyHandler) List(w http.ResponseWriter, r *http.Request) {
	props, err := h.db.GetAllProperties()
	if err != nil {
		http.Error(w, "Failed to get properties", http.StatusInternalServerError)
		return
	}
	if props == nil {
		props = []models.PropertySummary{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(props)
}

// MapViewResponse bundles the mapping widget config with the list rows
// that share its selection
type MapViewResponse struct {
	Map  geo.MapView   `json:"map"`
	List []geo.ListRow `json:"list"`
}

// MapView handles GET /api/properties/map?selected={id}. The selected
// query parameter carries the client's selection; ids not in the current
// set are treated as no selection.
func (h *PropertyHandler) MapView(w http.ResponseWriter, r *http.Request) {
	props, err := h.db.GetAllProperties()
	if err != nil {
		http.Error(w, "Failed to get properties", http.StatusInternalServerError)
		return
	}

	sel := geo.NewSelection()
	if raw := r.URL.Query().Get("selected"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, "Invalid selected ID", http.StatusBadRequest)
			return
		}
		sel.Select(id)
	}

	response := MapViewResponse{
		Map:  geo.BuildMapView(h.mapsAPIKey, props, sel),
		List: geo.BuildListRows(props, sel),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// Card handles GET /api/properties/{id}/card. Counter overrides come
// from query parameters; a seed parameter makes the decorative tag draw
// reproducible.
func (h *PropertyHandler) Card(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid property ID", http.StatusBadRequest)
		return
	}

	props, err := h.db.GetAllProperties()
	if err != nil {
		http.Error(w, "Failed to get properties", http.StatusInternalServerError)
		return
	}

	var prop *models.PropertySummary
	for i := range props {
		if props[i].ID == id {
			prop = &props[i]
			break
		}
	}
	if prop == nil {
		http.Error(w, "Property not found", http.StatusNotFound)
		return
	}

	opts := card.Options{}
	q := r.URL.Query()
	if v, ok := intParam(q.Get("viewers")); ok {
		opts.Viewers = &v
	}
	if v, ok := intParam(q.Get("remaining_seats")); ok {
		opts.RemainingSeats = &v
	}
	if v, ok := intParam(q.Get("offers")); ok {
		opts.Offers = &v
	}
	if raw := q.Get("registered"); raw != "" {
		registered := raw == "true"
		opts.UserRegistered = &registered
	}

	var rng *rand.Rand
	if raw := q.Get("seed"); raw != "" {
		if seed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			rng = rand.New(rand.NewSource(seed))
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(card.Compose(*prop, opts, rng))
}

func intParam(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
