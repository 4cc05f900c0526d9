package game

import (
	"encoding/json"
	"fmt"

	"github.com/Garsondee/Star-Map/internal/logging"
)

const saveVersion = 1

// FormatError reports a view state document that could not be restored.
type FormatError struct {
	Err error
}

func (e *FormatError) Error() string { return "malformed map view state: " + e.Err.Error() }
func (e *FormatError) Unwrap() error { return e.Err }

type savedPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// saveDocument is the persisted view state. Every field is optional on
// restore; a missing field keeps the default.
type saveDocument struct {
	Version        int                   `json:"version"`
	Zoom           *float64              `json:"zoom,omitempty"`
	Center         *savedPoint           `json:"center,omitempty"`
	SystemNames    *bool                 `json:"system_names,omitempty"`
	SelectedSystem *SystemID             `json:"selected_system,omitempty"`
	SelectedFleet  *FleetID              `json:"selected_fleet,omitempty"`
	Backgrounds    map[string]savedPoint `json:"backgrounds,omitempty"`
}

// SaveGameData encodes the view state that should survive a save and load.
func (w *MapWnd) SaveGameData() ([]byte, error) {
	zoom := w.viewport.ZoomFactor()
	c := w.viewport.Center()
	names := w.showNames
	doc := saveDocument{
		Version:     saveVersion,
		Zoom:        &zoom,
		Center:      &savedPoint{X: c.X, Y: c.Y},
		SystemNames: &names,
	}
	if w.selectedSystem != InvalidSystemID {
		id := w.selectedSystem
		doc.SelectedSystem = &id
	}
	if w.selectedFleet != InvalidFleetID {
		id := w.selectedFleet
		doc.SelectedFleet = &id
	}
	if layers := w.parallax.Layers(); len(layers) > 0 {
		doc.Backgrounds = make(map[string]savedPoint, len(layers))
		for _, l := range layers {
			doc.Backgrounds[l.Name] = savedPoint{X: l.Pos.X, Y: l.Pos.Y}
		}
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode map view state: %w", err)
	}
	return data, nil
}

// RestoreFromSaveData applies a document written by SaveGameData. Missing
// fields fall back to defaults. A malformed document leaves the viewport at
// its defaults and returns a *FormatError.
func (w *MapWnd) RestoreFromSaveData(data []byte) error {
	var doc saveDocument
	err := json.Unmarshal(data, &doc)
	if err == nil {
		err = doc.validate()
	}
	if err != nil {
		w.track(w.viewport.Reset)
		w.parallax.Reset()
		if w.metrics != nil {
			w.metrics.RestoreFailed()
		}
		w.refreshMetrics()
		w.log.Warn("restore map view state", logging.Err(err))
		return &FormatError{Err: err}
	}

	w.viewport.Reset()
	if doc.Zoom != nil {
		w.viewport.SetZoom(*doc.Zoom)
	}
	if doc.Center != nil {
		w.viewport.CenterOn(Vec2{X: doc.Center.X, Y: doc.Center.Y})
	}
	w.parallax.Reset()
	if doc.Backgrounds != nil {
		w.parallax.restore(doc.Backgrounds)
	}
	w.showNames = doc.SystemNames == nil || *doc.SystemNames
	w.lines.ClearProjectedMovement()
	w.selectedSystem = InvalidSystemID
	w.selectedFleet = InvalidFleetID
	if doc.SelectedSystem != nil {
		w.SelectSystem(*doc.SelectedSystem)
	} else {
		w.sidePanel.Hide()
	}
	if doc.SelectedFleet != nil {
		w.SelectFleet(*doc.SelectedFleet)
	}
	w.refreshMetrics()
	return nil
}

func (d saveDocument) validate() error {
	if d.Version > saveVersion {
		return fmt.Errorf("unsupported version %d", d.Version)
	}
	if d.Zoom != nil && *d.Zoom <= 0 {
		return fmt.Errorf("zoom %v out of domain", *d.Zoom)
	}
	return nil
}
