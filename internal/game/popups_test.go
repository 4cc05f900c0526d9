package game

import "testing"

func TestPopups_RegisterTwiceClosesOnce(t *testing.T) {
	pm := NewPopupManager()
	p := &fakePopup{visible: true}
	if !pm.RegisterPopup(p) {
		t.Fatal("first registration should succeed")
	}
	if pm.RegisterPopup(p) {
		t.Fatal("second registration should be a no-op")
	}
	if n := pm.CloseAllPopups(); n != 1 {
		t.Fatalf("expected 1 popup closed, got %d", n)
	}
	if p.closes != 1 {
		t.Fatalf("popup closed %d times, want exactly once", p.closes)
	}
	if pm.Len() != 0 {
		t.Fatalf("list should be empty after CloseAllPopups, has %d", pm.Len())
	}
}

func TestPopups_CloseReentersRemove(t *testing.T) {
	pm := NewPopupManager()
	a := &fakePopup{visible: true}
	b := &fakePopup{visible: true}
	a.onClose = func() { pm.RemovePopup(a); pm.RemovePopup(b) }
	b.onClose = func() { pm.RemovePopup(b) }
	pm.RegisterPopup(a)
	pm.RegisterPopup(b)

	pm.CloseAllPopups()
	if a.closes != 1 || b.closes != 1 {
		t.Fatalf("each popup should close once, got a=%d b=%d", a.closes, b.closes)
	}
}

func TestPopups_CloseNewestFirst(t *testing.T) {
	pm := NewPopupManager()
	var order []int
	for i := 0; i < 3; i++ {
		i := i
		pm.RegisterPopup(&fakePopup{onClose: func() { order = append(order, i) }})
	}
	pm.CloseAllPopups()
	if len(order) != 3 || order[0] != 2 || order[2] != 0 {
		t.Fatalf("expected close order [2 1 0], got %v", order)
	}
}

func TestPopups_HideShowRestoresExactSet(t *testing.T) {
	pm := NewPopupManager()
	shown := &fakePopup{visible: true}
	hidden := &fakePopup{visible: false}
	pm.RegisterPopup(shown)
	pm.RegisterPopup(hidden)

	pm.HideAllPopups()
	if shown.Visible() {
		t.Fatal("HideAllPopups should hide visible popups")
	}
	pm.ShowAllPopups()
	if !shown.Visible() {
		t.Fatal("previously visible popup should come back")
	}
	if hidden.Visible() {
		t.Fatal("previously hidden popup must stay hidden")
	}
}

func TestPopups_ShowSkipsRemoved(t *testing.T) {
	pm := NewPopupManager()
	p := &fakePopup{visible: true}
	pm.RegisterPopup(p)
	pm.HideAllPopups()
	pm.RemovePopup(p)
	pm.ShowAllPopups()
	if p.Visible() {
		t.Fatal("a popup removed while hidden should not be re-shown")
	}
}

func TestPopups_NilRejected(t *testing.T) {
	pm := NewPopupManager()
	if pm.RegisterPopup(nil) {
		t.Fatal("nil popup should be rejected")
	}
	if pm.RemovePopup(&fakePopup{}) {
		t.Fatal("removing an unknown popup should report false")
	}
}
