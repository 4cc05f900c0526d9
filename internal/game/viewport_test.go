package game

import (
	"math"
	"math/rand"
	"testing"
)

func testViewportConfig() ViewportConfig {
	return ViewportConfig{
		MinZoom:       0.5,
		MaxZoom:       2.0,
		ZoomStep:      1.5,
		InitialZoom:   1.0,
		MapSize:       Vec2{4000, 4000},
		ViewSize:      Vec2{800, 600},
		Margin:        50,
		DragThreshold: 4,
	}
}

func near(a, b Vec2, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}

func TestViewport_ZoomScenarioClampsAtMax(t *testing.T) {
	v := NewViewport(testViewportConfig())
	v.Zoom(1)
	if math.Abs(v.ZoomFactor()-1.5) > 1e-12 {
		t.Fatalf("one step from 1.0 should give 1.5, got %.4f", v.ZoomFactor())
	}
	v.Zoom(1)
	if v.ZoomFactor() != 2.0 {
		t.Fatalf("second step should clamp at 2.0, got %.4f", v.ZoomFactor())
	}
	for i := 0; i < 5; i++ {
		v.Zoom(1)
	}
	if v.ZoomFactor() != 2.0 {
		t.Fatalf("further zoom-in should stay at 2.0, got %.4f", v.ZoomFactor())
	}
}

func TestViewport_ZoomAlwaysInRange(t *testing.T) {
	v := NewViewport(testViewportConfig())
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		switch rng.Intn(4) {
		case 0:
			v.SetZoom(rng.Float64()*10 - 2)
		case 1:
			v.ZoomAt(rng.Float64()*8-4, Vec2{rng.Float64() * 800, rng.Float64() * 600})
		default:
			v.Zoom(rng.Float64()*6 - 3)
		}
		if z := v.ZoomFactor(); z < 0.5 || z > 2.0 {
			t.Fatalf("step %d: zoom %.4f escaped [0.5, 2.0]", i, z)
		}
	}
	v.Zoom(math.NaN())
	if v.ZoomFactor() != 0.5 {
		t.Fatalf("NaN zoom should clamp to min, got %v", v.ZoomFactor())
	}
}

func TestViewport_ScreenMapRoundTrip(t *testing.T) {
	v := NewViewport(testViewportConfig())
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 200; i++ {
		v.SetZoom(0.5 + rng.Float64()*1.5)
		v.CenterOn(Vec2{rng.Float64() * 4000, rng.Float64() * 4000})
		p := Vec2{rng.Float64()*8000 - 2000, rng.Float64()*8000 - 2000}
		if got := v.ScreenToMap(v.MapToScreen(p)); !near(got, p, 1e-6) {
			t.Fatalf("round trip of %v gave %v", p, got)
		}
	}
}

func visibleIntersectsMap(v *Viewport) bool {
	lo, hi := v.VisibleRect()
	size := v.Config().MapSize
	return lo.X <= size.X && hi.X >= 0 && lo.Y <= size.Y && hi.Y >= 0
}

func TestViewport_CorrectionKeepsMapVisible(t *testing.T) {
	v := NewViewport(testViewportConfig())
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 1000; i++ {
		switch rng.Intn(3) {
		case 0:
			v.Pan(Vec2{rng.Float64()*1e5 - 5e4, rng.Float64()*1e5 - 5e4})
		case 1:
			v.CenterOn(Vec2{rng.Float64()*1e6 - 5e5, rng.Float64()*1e6 - 5e5})
		default:
			v.Zoom(rng.Float64()*4 - 2)
		}
		if !visibleIntersectsMap(v) {
			lo, hi := v.VisibleRect()
			t.Fatalf("step %d: visible %v-%v misses the map", i, lo, hi)
		}
	}
}

func TestViewport_NaNCentreIsCorrected(t *testing.T) {
	nan := math.NaN()
	v := NewViewport(testViewportConfig())
	v.CenterOn(Vec2{nan, nan})
	if c := v.Center(); !near(c, Vec2{2000, 2000}, 1e-9) {
		t.Fatalf("NaN centre should fall back to the map middle, got %v", c)
	}
	if !visibleIntersectsMap(v) {
		lo, hi := v.VisibleRect()
		t.Fatalf("visible %v-%v misses the map", lo, hi)
	}

	v.CenterOn(Vec2{1000, 1500})
	v.Pan(Vec2{X: nan})
	if c := v.Center(); math.IsNaN(c.X) || math.IsNaN(c.Y) {
		t.Fatalf("pan by NaN left centre %v", c)
	}
	if c := v.Center(); c.Y != 1500 {
		t.Fatalf("finite axis should be untouched, centre %v", c)
	}

	v.CenterOn(Vec2{math.Inf(1), math.Inf(-1)})
	if !visibleIntersectsMap(v) {
		lo, hi := v.VisibleRect()
		t.Fatalf("infinite centre: visible %v-%v misses the map", lo, hi)
	}
}

func TestViewport_SmallMapStaysWhollyVisible(t *testing.T) {
	cfg := testViewportConfig()
	cfg.MapSize = Vec2{200, 100}
	v := NewViewport(cfg)
	v.Pan(Vec2{5000, -5000})
	lo, hi := v.VisibleRect()
	if lo.X > 0 || lo.Y > 0 || hi.X < 200 || hi.Y < 100 {
		t.Fatalf("map smaller than the view should stay fully visible, visible %v-%v", lo, hi)
	}
}

func TestViewport_ZoomKeepsCentreStationary(t *testing.T) {
	v := NewViewport(testViewportConfig())
	v.CenterOn(Vec2{1500, 2200})
	before := v.ScreenToMap(Vec2{400, 300})
	v.Zoom(1)
	after := v.ScreenToMap(Vec2{400, 300})
	if !near(before, after, 1e-9) {
		t.Fatalf("centre point moved from %v to %v", before, after)
	}
}

func TestViewport_ZoomAtKeepsCursorPoint(t *testing.T) {
	v := NewViewport(testViewportConfig())
	v.CenterOn(Vec2{2000, 2000})
	cursor := Vec2{650, 120}
	before := v.ScreenToMap(cursor)
	v.ZoomAt(1, cursor)
	if after := v.ScreenToMap(cursor); !near(before, after, 1e-9) {
		t.Fatalf("point under cursor moved from %v to %v", before, after)
	}
}

func TestViewport_PanFollowsCursor(t *testing.T) {
	v := NewViewport(testViewportConfig())
	p := Vec2{2000, 2000}
	before := v.MapToScreen(p)
	applied := v.Pan(Vec2{10, -5})
	if !near(applied, Vec2{10, -5}, 1e-9) {
		t.Fatalf("pan away from edges should apply fully, got %v", applied)
	}
	if got := v.MapToScreen(p).Sub(before); !near(got, Vec2{10, -5}, 1e-9) {
		t.Fatalf("map point should move with the pan, moved %v", got)
	}
}

func TestViewport_PanAtEdgeIsCorrected(t *testing.T) {
	v := NewViewport(testViewportConfig())
	v.CenterOn(Vec2{0, 0})
	applied := v.Pan(Vec2{1000, 0})
	if applied.X != 0 {
		t.Fatalf("pan past the left edge should be absorbed, applied %v", applied)
	}
	// The map edge sits at most Margin pixels inside the view.
	if x := v.MapToScreen(Vec2{0, 0}).X; math.Abs(x-50) > 1e-9 {
		t.Fatalf("left map edge should sit at the 50px margin, at %.2f", x)
	}
}

func TestViewport_DragVersusClick(t *testing.T) {
	v := NewViewport(testViewportConfig())

	v.BeginDrag(Vec2{100, 100})
	v.DragTo(Vec2{101, 101})
	v.EndDrag()
	if !v.ConsumeClick() {
		t.Fatal("movement under the threshold should still count as a click")
	}

	v.BeginDrag(Vec2{100, 100})
	v.DragTo(Vec2{102, 100})
	if v.Dragged() {
		t.Fatal("2px of travel should not count as a drag")
	}
	v.DragTo(Vec2{106, 100})
	if !v.Dragged() {
		t.Fatal("6px of travel should count as a drag")
	}
	v.EndDrag()
	if v.ConsumeClick() {
		t.Fatal("a drag must not produce a click")
	}
	if !v.ConsumeClick() {
		t.Fatal("ConsumeClick should reset the dragged flag")
	}
}

func TestViewport_DragToWithoutPressIsNoop(t *testing.T) {
	v := NewViewport(testViewportConfig())
	c := v.Center()
	if d := v.DragTo(Vec2{500, 500}); d != (Vec2{}) || v.Center() != c {
		t.Fatalf("DragTo without BeginDrag moved the view by %v", d)
	}
}

func TestViewport_ResizeIgnoresEmpty(t *testing.T) {
	v := NewViewport(testViewportConfig())
	v.Resize(Vec2{0, 300})
	if v.Config().ViewSize != (Vec2{800, 600}) {
		t.Fatalf("zero-width resize should be ignored, view is %v", v.Config().ViewSize)
	}
	v.Resize(Vec2{1024, 768})
	if v.Config().ViewSize != (Vec2{1024, 768}) {
		t.Fatalf("resize not applied, view is %v", v.Config().ViewSize)
	}
}

func TestViewport_ResetRestoresInitial(t *testing.T) {
	v := NewViewport(testViewportConfig())
	v.Zoom(2)
	v.Pan(Vec2{300, 300})
	v.Reset()
	if v.ZoomFactor() != 1.0 || v.Center() != (Vec2{2000, 2000}) {
		t.Fatalf("reset gave zoom %.2f centre %v", v.ZoomFactor(), v.Center())
	}
}

func TestViewportConfig_Validate(t *testing.T) {
	if err := DefaultViewportConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	bad := []func(*ViewportConfig){
		func(c *ViewportConfig) { c.MinZoom = 0 },
		func(c *ViewportConfig) { c.MaxZoom = 0.1 },
		func(c *ViewportConfig) { c.ZoomStep = 1 },
		func(c *ViewportConfig) { c.MapSize = Vec2{0, 10} },
		func(c *ViewportConfig) { c.ViewSize = Vec2{10, -1} },
		func(c *ViewportConfig) { c.Margin = -1 },
	}
	for i, mutate := range bad {
		c := testViewportConfig()
		mutate(&c)
		if c.Validate() == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}
