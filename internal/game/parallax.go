package game

// BackgroundLayer is one decorative starfield layer. Rate 0 keeps it fixed on
// screen, rate 1 moves it in lock-step with the map.
type BackgroundLayer struct {
	Name string
	Rate float64
	Pos  Vec2
}

// DefaultBackgroundLayers returns the three starfield layers, farthest first.
// The farthest drifts at a third of map speed, the nearest tracks the map.
func DefaultBackgroundLayers() []BackgroundLayer {
	return []BackgroundLayer{
		{Name: "far-stars", Rate: 1.0 / 3.0},
		{Name: "mid-stars", Rate: 1.0 / 2.0},
		{Name: "near-stars", Rate: 1.0},
	}
}

// ParallaxTracker scrolls background layers in response to viewport movement.
// Wrapping and tiling are left to the renderer.
type ParallaxTracker struct {
	initial []BackgroundLayer
	layers  []BackgroundLayer
}

// NewParallaxTracker copies layers; the copy is also the Reset state.
func NewParallaxTracker(layers []BackgroundLayer) *ParallaxTracker {
	p := &ParallaxTracker{initial: append([]BackgroundLayer(nil), layers...)}
	p.Reset()
	return p
}

// OnViewportMoved shifts every layer by d scaled by its own rate.
func (p *ParallaxTracker) OnViewportMoved(d Vec2) {
	if d.X == 0 && d.Y == 0 {
		return
	}
	for i := range p.layers {
		l := &p.layers[i]
		l.Pos = l.Pos.Add(d.Scale(l.Rate))
	}
}

// Layers returns a copy of the current layer state.
func (p *ParallaxTracker) Layers() []BackgroundLayer {
	return append([]BackgroundLayer(nil), p.layers...)
}

// Reset puts every layer back at its initial position.
func (p *ParallaxTracker) Reset() {
	p.layers = append(p.layers[:0], p.initial...)
}

// restore sets the positions of the named layers. Unknown names are ignored.
func (p *ParallaxTracker) restore(pos map[string]savedPoint) {
	for i := range p.layers {
		if sp, ok := pos[p.layers[i].Name]; ok {
			p.layers[i].Pos = Vec2{X: sp.X, Y: sp.Y}
		}
	}
}
