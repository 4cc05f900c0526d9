package game

import (
	"fmt"
	"math"
)

// ViewportConfig holds the limits a Viewport enforces. Every Viewport owns its
// own copy, so tests and multiple windows never share zoom limits.
type ViewportConfig struct {
	MinZoom     float64
	MaxZoom     float64
	ZoomStep    float64 // factor applied per unit of Zoom delta
	InitialZoom float64

	MapSize  Vec2 // map extent in map units
	ViewSize Vec2 // viewport size in screen pixels

	// Margin is how far (screen pixels) the map edge may be dragged inside
	// the viewport before correction pulls it back.
	Margin float64
	// DragThreshold is the cumulative pointer travel (screen pixels) after
	// which a press counts as a drag rather than a click.
	DragThreshold float64
}

// DefaultViewportConfig mirrors the battlefield camera limits: 0.5x to 4x with
// a 1.25 keyboard step.
func DefaultViewportConfig() ViewportConfig {
	return ViewportConfig{
		MinZoom:       0.5,
		MaxZoom:       4.0,
		ZoomStep:      1.25,
		InitialZoom:   1.0,
		MapSize:       Vec2{2048, 2048},
		ViewSize:      Vec2{1280, 720},
		Margin:        64,
		DragThreshold: 4,
	}
}

// Validate reports configuration errors that would make the viewport
// ill-defined.
func (c ViewportConfig) Validate() error {
	switch {
	case c.MinZoom <= 0:
		return fmt.Errorf("viewport: min zoom must be > 0, got %v", c.MinZoom)
	case c.MaxZoom < c.MinZoom:
		return fmt.Errorf("viewport: max zoom %v below min zoom %v", c.MaxZoom, c.MinZoom)
	case c.ZoomStep <= 1:
		return fmt.Errorf("viewport: zoom step must be > 1, got %v", c.ZoomStep)
	case c.MapSize.X <= 0 || c.MapSize.Y <= 0:
		return fmt.Errorf("viewport: map size must be positive, got %vx%v", c.MapSize.X, c.MapSize.Y)
	case c.ViewSize.X <= 0 || c.ViewSize.Y <= 0:
		return fmt.Errorf("viewport: view size must be positive, got %vx%v", c.ViewSize.X, c.ViewSize.Y)
	case c.Margin < 0 || c.DragThreshold < 0:
		return fmt.Errorf("viewport: margin and drag threshold must be >= 0")
	}
	return nil
}

// Viewport owns the zoom factor and pan position of the map.
//
// The pan position is the map-space point shown at the centre of the view:
//
//	screen = (map - center) * zoom + view/2
//	map    = (screen - view/2) / zoom + center
type Viewport struct {
	cfg    ViewportConfig
	zoom   float64
	center Vec2

	// Drag state: active between button-down and button-up; dragged flips
	// once travel exceeds the threshold and survives until ConsumeClick.
	dragActive bool
	dragged    bool
	dragLast   Vec2
	dragTravel float64
}

// NewViewport creates a viewport centred on the map at the initial zoom.
func NewViewport(cfg ViewportConfig) *Viewport {
	v := &Viewport{cfg: cfg}
	v.Reset()
	return v
}

// Reset restores the initial zoom and centres the map.
func (v *Viewport) Reset() {
	v.zoom = v.clampZoom(v.cfg.InitialZoom)
	v.center = v.cfg.MapSize.Scale(0.5)
	v.dragActive = false
	v.dragged = false
	v.dragTravel = 0
	v.CorrectMapPosition()
}

func (v *Viewport) ZoomFactor() float64    { return v.zoom }
func (v *Viewport) Center() Vec2           { return v.center }
func (v *Viewport) Config() ViewportConfig { return v.cfg }

// ZoomLimits returns the [min, max] range this viewport clamps to.
func (v *Viewport) ZoomLimits() (float64, float64) { return v.cfg.MinZoom, v.cfg.MaxZoom }

func (v *Viewport) clampZoom(z float64) float64 {
	if math.IsNaN(z) || z < v.cfg.MinZoom {
		return v.cfg.MinZoom
	}
	if z > v.cfg.MaxZoom {
		return v.cfg.MaxZoom
	}
	return z
}

// Zoom multiplies the zoom factor by ZoomStep^delta and clamps it, keeping the
// map point at the viewport centre stationary. Out-of-range requests clamp.
func (v *Viewport) Zoom(delta float64) {
	v.ZoomAt(delta, v.cfg.ViewSize.Scale(0.5))
}

// ZoomAt zooms like Zoom but keeps the map point under screenPt stationary.
func (v *Viewport) ZoomAt(delta float64, screenPt Vec2) {
	v.zoomTo(v.zoom*math.Pow(v.cfg.ZoomStep, delta), screenPt)
}

// SetZoom assigns a zoom factor (clamped) about the viewport centre.
func (v *Viewport) SetZoom(z float64) {
	v.zoomTo(z, v.cfg.ViewSize.Scale(0.5))
}

func (v *Viewport) zoomTo(z float64, screenPt Vec2) {
	anchor := v.ScreenToMap(screenPt)
	v.zoom = v.clampZoom(z)
	// Solve map = (screen - view/2)/zoom + center for center.
	v.center = anchor.Sub(screenPt.Sub(v.cfg.ViewSize.Scale(0.5)).Scale(1 / v.zoom))
	v.CorrectMapPosition()
}

// Pan moves the map by a screen-space displacement (the map follows the
// cursor) and returns the displacement actually applied after correction.
func (v *Viewport) Pan(d Vec2) Vec2 {
	before := v.MapToScreen(Vec2{})
	v.center = v.center.Sub(d.Scale(1 / v.zoom))
	v.CorrectMapPosition()
	return v.MapToScreen(Vec2{}).Sub(before)
}

// CenterOn places map point p at the viewport centre, corrected.
func (v *Viewport) CenterOn(p Vec2) {
	v.center = p
	v.CorrectMapPosition()
}

// Resize changes the viewport size in screen pixels.
func (v *Viewport) Resize(size Vec2) {
	if size.X <= 0 || size.Y <= 0 {
		return
	}
	v.cfg.ViewSize = size
	v.CorrectMapPosition()
}

// CorrectMapPosition clamps the centre so the visible region always overlaps
// the map. While the map is larger than the view its edge may come at most
// Margin pixels inside the view; once it is smaller the whole map stays
// visible. A NaN centre falls back to the middle of the map.
func (v *Viewport) CorrectMapPosition() {
	v.center.X = correctAxis(v.center.X, v.cfg.MapSize.X, v.cfg.ViewSize.X, v.cfg.Margin, v.zoom)
	v.center.Y = correctAxis(v.center.Y, v.cfg.MapSize.Y, v.cfg.ViewSize.Y, v.cfg.Margin, v.zoom)
}

func correctAxis(c, mapLen, viewLen, margin, zoom float64) float64 {
	half := viewLen / 2 / zoom
	m := math.Min(margin, viewLen/2) / zoom
	lo, hi := half-m, mapLen-half+m
	if lo > hi {
		lo, hi = mapLen-half, half
	}
	if math.IsNaN(c) {
		return mapLen / 2
	}
	if c < lo {
		return lo
	}
	if c > hi {
		return hi
	}
	return c
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// ScreenToMap converts a screen point to map coordinates.
func (v *Viewport) ScreenToMap(p Vec2) Vec2 {
	return p.Sub(v.cfg.ViewSize.Scale(0.5)).Scale(1 / v.zoom).Add(v.center)
}

// MapToScreen converts a map point to screen coordinates.
func (v *Viewport) MapToScreen(p Vec2) Vec2 {
	return p.Sub(v.center).Scale(v.zoom).Add(v.cfg.ViewSize.Scale(0.5))
}

// VisibleRect returns the map-space rectangle currently on screen as
// (min, max) corners.
func (v *Viewport) VisibleRect() (Vec2, Vec2) {
	return v.ScreenToMap(Vec2{}), v.ScreenToMap(v.cfg.ViewSize)
}

// BeginDrag starts a press at screen point p.
func (v *Viewport) BeginDrag(p Vec2) {
	v.dragActive = true
	v.dragged = false
	v.dragLast = p
	v.dragTravel = 0
}

// DragTo pans by the pointer movement since the last drag event and returns
// the displacement applied. It is a no-op unless a press is active.
func (v *Viewport) DragTo(p Vec2) Vec2 {
	if !v.dragActive {
		return Vec2{}
	}
	move := p.Sub(v.dragLast)
	v.dragLast = p
	v.dragTravel += math.Sqrt(move.Len2())
	if v.dragTravel > v.cfg.DragThreshold {
		v.dragged = true
	}
	return v.Pan(move)
}

// EndDrag ends the active press. The dragged flag is kept for ConsumeClick.
func (v *Viewport) EndDrag() {
	v.dragActive = false
}

func (v *Viewport) Dragging() bool { return v.dragActive }
func (v *Viewport) Dragged() bool  { return v.dragged }

// ConsumeClick reports whether the last press should be treated as a click
// (no drag happened) and clears the dragged flag.
func (v *Viewport) ConsumeClick() bool {
	click := !v.dragged
	v.dragged = false
	return click
}
