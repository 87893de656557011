// Package geo keeps a map view and a scrollable property list in sync
// around a single selected-property id, and builds the configuration
// handed to the external mapping widget.
package geo

import (
	"fmt"
	"net/url"

	"livimmo-live/internal/models"
)

const (
	// defaultZoom is the initial viewport zoom of the map widget
	defaultZoom = 6

	// liveMarkerColor marks properties with a live in progress
	liveMarkerColor = "#ef4444"
	// idleMarkerColor marks all other properties
	idleMarkerColor = "#6b7280"

	markerSize = 32
)

// DefaultCenter is the viewport center used when no property is available
var DefaultCenter = models.Coordinates{Lat: 31.7917, Lng: -7.0926}

// Marker is one map marker definition for the mapping widget
type Marker struct {
	PropertyID int64              `json:"property_id"`
	Position   models.Coordinates `json:"position"`
	IconURI    string             `json:"icon_uri"`
	IconSize   int                `json:"icon_size"`
	Live       bool               `json:"live"`
}

// MapView is the full configuration handed to the mapping widget
type MapView struct {
	APIKey   string             `json:"api_key"`
	Center   models.Coordinates `json:"center"`
	Zoom     int                `json:"zoom"`
	Markers  []Marker           `json:"markers"`
	Selected *int64             `json:"selected,omitempty"`
}

// ListRow is one rendered entry of the scrollable property list
type ListRow struct {
	Property models.PropertySummary `json:"property"`
	Selected bool                   `json:"selected"`
}

// Center returns the arithmetic mean of all property coordinates, or
// DefaultCenter when the set is empty
func Center(props []models.PropertySummary) models.Coordinates {
	if len(props) == 0 {
		return DefaultCenter
	}
	var lat, lng float64
	for _, p := range props {
		lat += p.Coordinates.Lat
		lng += p.Coordinates.Lng
	}
	n := float64(len(props))
	return models.Coordinates{Lat: lat / n, Lng: lng / n}
}

// MarkerIcon returns the marker icon as an SVG data URI. The icon is a
// camera glyph colored by the property's live state.
func MarkerIcon(isLive bool) string {
	color := idleMarkerColor
	if isLive {
		color = liveMarkerColor
	}
	svg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="24" height="24" viewBox="0 0 24 24" fill="none" stroke="%s" stroke-width="2" stroke-linecap="round" stroke-linejoin="round"><path d="M14.5 4h-5L7 7H4a2 2 0 0 0-2 2v9a2 2 0 0 0 2 2h16a2 2 0 0 0 2-2V9a2 2 0 0 0-2-2h-3l-2.5-3z"/><circle cx="12" cy="13" r="3"/></svg>`, color)
	return "data:image/svg+xml," + url.PathEscape(svg)
}

// BuildMapView assembles the mapping widget configuration for props.
// A selection not present in props is treated as no selection.
func BuildMapView(apiKey string, props []models.PropertySummary, sel *Selection) MapView {
	view := MapView{
		APIKey:  apiKey,
		Center:  Center(props),
		Zoom:    defaultZoom,
		Markers: make([]Marker, len(props)),
	}
	for i, p := range props {
		view.Markers[i] = Marker{
			PropertyID: p.ID,
			Position:   p.Coordinates,
			IconURI:    MarkerIcon(p.IsLiveNow),
			IconSize:   markerSize,
			Live:       p.IsLiveNow,
		}
	}
	if id, ok := selectedIn(props, sel); ok {
		view.Selected = &id
	}
	return view
}

// BuildListRows renders the property list with the selected row marked
func BuildListRows(props []models.PropertySummary, sel *Selection) []ListRow {
	selID, selOK := selectedIn(props, sel)
	rows := make([]ListRow, len(props))
	for i, p := range props {
		rows[i] = ListRow{Property: p, Selected: selOK && p.ID == selID}
	}
	return rows
}

func selectedIn(props []models.PropertySummary, sel *Selection) (int64, bool) {
	if sel == nil {
		return 0, false
	}
	id, ok := sel.Current()
	if !ok {
		return 0, false
	}
	for _, p := range props {
		if p.ID == id {
			return id, true
		}
	}
	return 0, false
}
