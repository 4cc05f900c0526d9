package game

// Popup is an overlay window whose lifetime the map window tracks so it can
// be bulk-closed at turn boundaries. Implementations must be comparable
// (pointer types); identity is interface equality.
type Popup interface {
	Close()
	Show()
	Hide()
	Visible() bool
}

// PopupManager holds the active popups in activation order.
type PopupManager struct {
	popups []Popup
	// hidden is the set HideAllPopups made invisible; nil when nothing is
	// hidden on the map window's behalf.
	hidden map[Popup]struct{}
}

func NewPopupManager() *PopupManager {
	return &PopupManager{}
}

func (pm *PopupManager) index(p Popup) int {
	for i, q := range pm.popups {
		if q == p {
			return i
		}
	}
	return -1
}

// RegisterPopup adds p to the end of the list. Registering twice is a no-op.
func (pm *PopupManager) RegisterPopup(p Popup) bool {
	if p == nil || pm.index(p) >= 0 {
		return false
	}
	pm.popups = append(pm.popups, p)
	return true
}

// RemovePopup drops p from the list without closing it.
func (pm *PopupManager) RemovePopup(p Popup) bool {
	i := pm.index(p)
	if i < 0 {
		return false
	}
	pm.popups = append(pm.popups[:i], pm.popups[i+1:]...)
	delete(pm.hidden, p)
	return true
}

// CloseAllPopups unregisters every popup and closes each exactly once, newest
// first. A popup whose Close calls back into RemovePopup is fine. Returns the
// number closed.
func (pm *PopupManager) CloseAllPopups() int {
	closing := pm.popups
	pm.popups = nil
	pm.hidden = nil
	for i := len(closing) - 1; i >= 0; i-- {
		closing[i].Close()
	}
	return len(closing)
}

// HideAllPopups hides every visible popup and remembers which ones were
// visible. Repeated calls add to the remembered set.
func (pm *PopupManager) HideAllPopups() {
	if pm.hidden == nil {
		pm.hidden = make(map[Popup]struct{})
	}
	for _, p := range pm.popups {
		if p.Visible() {
			pm.hidden[p] = struct{}{}
			p.Hide()
		}
	}
}

// ShowAllPopups re-shows exactly the popups HideAllPopups hid that are still
// registered.
func (pm *PopupManager) ShowAllPopups() {
	for _, p := range pm.popups {
		if _, ok := pm.hidden[p]; ok {
			p.Show()
		}
	}
	pm.hidden = nil
}

// Popups returns the registered popups in activation order.
func (pm *PopupManager) Popups() []Popup {
	return append([]Popup(nil), pm.popups...)
}

func (pm *PopupManager) Len() int { return len(pm.popups) }
