package game

import (
	"errors"
	"image/color"
	"sort"
)

// fakeUniverse is a hand-built Universe for tests.
type fakeUniverse struct {
	systems map[SystemID]System
	fleets  map[FleetID]Fleet
	home    SystemID
	size    Vec2
}

func newFakeUniverse() *fakeUniverse {
	return &fakeUniverse{
		systems: make(map[SystemID]System),
		fleets:  make(map[FleetID]Fleet),
		home:    InvalidSystemID,
		size:    Vec2{4000, 4000},
	}
}

func (u *fakeUniverse) addSystem(id SystemID, x, y float64, owned bool, lanes ...SystemID) {
	u.systems[id] = System{ID: id, Name: "S" + string(rune('A'+int(id))), Pos: Vec2{x, y}, Owned: owned, Lanes: lanes}
}

func (u *fakeUniverse) addFleet(id FleetID, pos Vec2, owned bool, route ...SystemID) {
	u.fleets[id] = Fleet{ID: id, Pos: pos, Owned: owned, Route: route, Color: color.RGBA{R: 200, A: 255}}
}

func (u *fakeUniverse) System(id SystemID) (System, bool) {
	s, ok := u.systems[id]
	return s, ok
}

func (u *fakeUniverse) Fleet(id FleetID) (Fleet, bool) {
	f, ok := u.fleets[id]
	return f, ok
}

func (u *fakeUniverse) Systems() []System {
	out := make([]System, 0, len(u.systems))
	for _, s := range u.systems {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (u *fakeUniverse) Fleets() []Fleet {
	out := make([]Fleet, 0, len(u.fleets))
	for _, f := range u.fleets {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (u *fakeUniverse) HomeSystem() (SystemID, bool) { return u.home, u.home != InvalidSystemID }
func (u *fakeUniverse) Size() Vec2                   { return u.size }

// fakePopup records how often it was closed.
type fakePopup struct {
	visible bool
	closes  int
	onClose func()
}

func (p *fakePopup) Close() {
	p.closes++
	p.visible = false
	if p.onClose != nil {
		p.onClose()
	}
}
func (p *fakePopup) Show()         { p.visible = true }
func (p *fakePopup) Hide()         { p.visible = false }
func (p *fakePopup) Visible() bool { return p.visible }

// fakeChat is a ChatTransport with a test-controlled incoming channel.
type fakeChat struct {
	sent []string
	in   chan string
	fail bool
}

func newFakeChat() *fakeChat { return &fakeChat{in: make(chan string, 16)} }

func (c *fakeChat) Send(text string) error {
	if c.fail {
		return errors.New("offline")
	}
	c.sent = append(c.sent, text)
	return nil
}

func (c *fakeChat) Incoming() <-chan string { return c.in }

// fakeMetrics counts recorder calls.
type fakeMetrics struct {
	zoom          float64
	popups        int
	starlanes     int
	paths         int
	signals       map[string]int
	popupsClosed  int
	restoreFailed int
}

func newFakeMetrics() *fakeMetrics { return &fakeMetrics{signals: make(map[string]int)} }

func (m *fakeMetrics) SetZoom(z float64) { m.zoom = z }
func (m *fakeMetrics) SetCounts(popups, starlanes, paths int) {
	m.popups, m.starlanes, m.paths = popups, starlanes, paths
}
func (m *fakeMetrics) SignalEmitted(name string) { m.signals[name]++ }
func (m *fakeMetrics) PopupClosed()              { m.popupsClosed++ }
func (m *fakeMetrics) RestoreFailed()            { m.restoreFailed++ }

// fakeNavigator plots straight to the destination and accepts every order.
type fakeNavigator struct {
	u      *fakeUniverse
	orders int
	reject bool
}

func (n *fakeNavigator) PlotRoute(fleet FleetID, dest SystemID) ([]SystemID, bool) {
	if _, ok := n.u.fleets[fleet]; !ok {
		return nil, false
	}
	if _, ok := n.u.systems[dest]; !ok {
		return nil, false
	}
	return []SystemID{dest}, true
}

func (n *fakeNavigator) OrderMove(fleet FleetID, route []SystemID) bool {
	if n.reject {
		return false
	}
	f := n.u.fleets[fleet]
	f.Route = append([]SystemID(nil), route...)
	n.u.fleets[fleet] = f
	n.orders++
	return true
}
