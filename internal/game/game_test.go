package game

import (
	"strings"
	"testing"
)

func newTestGame(t *testing.T) *Game {
	t.Helper()
	cfg := DefaultConfig()
	g, err := New(Options{Config: cfg, Seed: 9, Systems: 30, Clipboard: &MemoryClipboard{}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func TestGame_StartsOnHome(t *testing.T) {
	g := newTestGame(t)
	w := g.Window()
	home, _ := g.universe.HomeSystem()
	if w.Turn() != 1 || w.SelectedSystem() != home {
		t.Fatalf("turn %d selected %d, want turn 1 on home %d", w.Turn(), w.SelectedSystem(), home)
	}
	if lanes, _ := w.MovementLines().Counts(); lanes == 0 {
		t.Fatal("starlanes not loaded")
	}
}

func TestGame_EndTurnPostsArrivalPopup(t *testing.T) {
	g := newTestGame(t)
	w := g.Window()
	home, _ := g.universe.HomeSystem()
	dest := g.universe.systems[home].Lanes[0]
	fleet := g.universe.AddFleet("Scout", home, true)
	if !g.universe.OrderMove(fleet, []SystemID{dest}) {
		t.Fatal("order rejected")
	}
	w.InitTurn(w.Turn())

	w.EndTurn()
	if w.Turn() != 2 {
		t.Fatalf("turn = %d, want 2", w.Turn())
	}
	if _, ok := w.MovementLines().Path(fleet); ok {
		t.Fatal("arrived fleet should have no path")
	}
	var scout *MessagePopup
	for _, p := range w.Popups() {
		if mp, ok := p.(*MessagePopup); ok && mp.Title == "Scout" {
			scout = mp
		}
	}
	if scout == nil || !strings.Contains(scout.Text, "arrived at") {
		t.Fatalf("no arrival popup among %d popups", len(w.Popups()))
	}
}

func TestGame_ClickDismissesPopup(t *testing.T) {
	g := newTestGame(t)
	w := g.Window()
	p := NewMessagePopup("Note", "hello")
	p.OnClose = func(p *MessagePopup) { w.RemovePopup(p) }
	w.RegisterPopup(p)

	lo, hi := popupRect(0, w.Viewport().Config().ViewSize)
	mid := lo.Add(hi).Scale(0.5)
	if !w.HandleEvent(InputEvent{Kind: EventLClick, Pt: mid}) {
		t.Fatal("click on popup should be consumed")
	}
	if p.Closed() != 1 || len(w.Popups()) != 0 {
		t.Fatalf("closed %d times, %d popups left", p.Closed(), len(w.Popups()))
	}
}

func TestGame_LayoutResizesViewport(t *testing.T) {
	g := newTestGame(t)
	if w, h := g.Layout(1024, 768); w != 1024 || h != 768 {
		t.Fatalf("layout = %dx%d", w, h)
	}
	if got := g.Window().Viewport().Config().ViewSize; got != (Vec2{1024, 768}) {
		t.Fatalf("view size = %+v", got)
	}
}
