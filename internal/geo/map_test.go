package geo

import (
	"strings"
	"testing"

	"livimmo-live/internal/models"
)

func propAt(id int64, lat, lng float64, live bool) models.PropertySummary {
	return models.PropertySummary{
		ID:          id,
		Coordinates: models.Coordinates{Lat: lat, Lng: lng},
		IsLiveNow:   live,
	}
}

func TestCenter_MeanOfCoordinates(t *testing.T) {
	props := []models.PropertySummary{
		propAt(1, 10, 10, false),
		propAt(2, 20, 20, false),
	}

	center := Center(props)
	if center.Lat != 15 || center.Lng != 15 {
		t.Errorf("expected center (15,15), got (%v,%v)", center.Lat, center.Lng)
	}
}

func TestCenter_EmptyFallsBackToDefault(t *testing.T) {
	center := Center(nil)
	if center != DefaultCenter {
		t.Errorf("expected default center %+v, got %+v", DefaultCenter, center)
	}
	if DefaultCenter.Lat != 31.7917 || DefaultCenter.Lng != -7.0926 {
		t.Errorf("unexpected default center %+v", DefaultCenter)
	}
}

func TestMarkerIcon_ColorByLiveState(t *testing.T) {
	liveIcon := MarkerIcon(true)
	idleIcon := MarkerIcon(false)

	if !strings.HasPrefix(liveIcon, "data:image/svg+xml,") {
		t.Errorf("expected an SVG data URI, got %q", liveIcon[:30])
	}
	if !strings.Contains(liveIcon, "%23ef4444") {
		t.Error("live marker should use the alert color")
	}
	if !strings.Contains(idleIcon, "%236b7280") {
		t.Error("idle marker should use the neutral color")
	}
	if liveIcon == idleIcon {
		t.Error("live and idle icons must differ")
	}
}

func TestBuildMapView(t *testing.T) {
	props := []models.PropertySummary{
		propAt(1, 10, 10, true),
		propAt(2, 20, 20, false),
	}
	sel := NewSelection()
	sel.Select(2)

	view := BuildMapView("key-123", props, sel)

	if view.APIKey != "key-123" {
		t.Errorf("unexpected api key %q", view.APIKey)
	}
	if view.Zoom != 6 {
		t.Errorf("expected zoom 6, got %d", view.Zoom)
	}
	if view.Center.Lat != 15 || view.Center.Lng != 15 {
		t.Errorf("unexpected center %+v", view.Center)
	}
	if len(view.Markers) != 2 {
		t.Fatalf("expected 2 markers, got %d", len(view.Markers))
	}
	if !view.Markers[0].Live || view.Markers[1].Live {
		t.Error("marker live flags do not match property state")
	}
	if view.Selected == nil || *view.Selected != 2 {
		t.Errorf("expected selected id 2, got %v", view.Selected)
	}
}

func TestBuildMapView_SelectionOutsideSetIgnored(t *testing.T) {
	props := []models.PropertySummary{propAt(1, 10, 10, false)}
	sel := NewSelection()
	sel.Select(99)

	view := BuildMapView("", props, sel)
	if view.Selected != nil {
		t.Errorf("expected no selection, got %v", *view.Selected)
	}
}

func TestBuildListRows_SelectedRowMarked(t *testing.T) {
	props := []models.PropertySummary{
		propAt(1, 0, 0, false),
		propAt(2, 0, 0, false),
	}
	sel := NewSelection()
	sel.Select(1)

	rows := BuildListRows(props, sel)
	if !rows[0].Selected || rows[1].Selected {
		t.Errorf("expected only row 1 selected, got %v/%v", rows[0].Selected, rows[1].Selected)
	}

	sel.Clear()
	rows = BuildListRows(props, sel)
	for _, r := range rows {
		if r.Selected {
			t.Errorf("expected no row selected after clear, row %d is", r.Property.ID)
		}
	}
}
