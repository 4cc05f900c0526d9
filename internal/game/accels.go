package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// KeyMods is a bitmask of held modifier keys.
type KeyMods uint8

const (
	ModShift KeyMods = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Accel identifies a keyboard accelerator.
type Accel struct {
	Key  ebiten.Key
	Mods KeyMods
}

// alphaNumKeys are the keys a text field consumes.
var alphaNumKeys = map[ebiten.Key]bool{
	ebiten.KeyA: true, ebiten.KeyB: true, ebiten.KeyC: true, ebiten.KeyD: true,
	ebiten.KeyE: true, ebiten.KeyF: true, ebiten.KeyG: true, ebiten.KeyH: true,
	ebiten.KeyI: true, ebiten.KeyJ: true, ebiten.KeyK: true, ebiten.KeyL: true,
	ebiten.KeyM: true, ebiten.KeyN: true, ebiten.KeyO: true, ebiten.KeyP: true,
	ebiten.KeyQ: true, ebiten.KeyR: true, ebiten.KeyS: true, ebiten.KeyT: true,
	ebiten.KeyU: true, ebiten.KeyV: true, ebiten.KeyW: true, ebiten.KeyX: true,
	ebiten.KeyY: true, ebiten.KeyZ: true,
	ebiten.KeyDigit0: true, ebiten.KeyDigit1: true, ebiten.KeyDigit2: true,
	ebiten.KeyDigit3: true, ebiten.KeyDigit4: true, ebiten.KeyDigit5: true,
	ebiten.KeyDigit6: true, ebiten.KeyDigit7: true, ebiten.KeyDigit8: true,
	ebiten.KeyDigit9: true,
	ebiten.KeyComma: true, ebiten.KeyPeriod: true, ebiten.KeyMinus: true,
	ebiten.KeyEqual: true, ebiten.KeySlash: true, ebiten.KeySpace: true,
}

// isAlphaNum reports whether a would type into a text field: a printable key
// with no modifier other than shift.
func (a Accel) isAlphaNum() bool {
	return alphaNumKeys[a.Key] && a.Mods&^ModShift == 0
}

// AcceleratorTable maps accelerators to actions. Bindings are fixed at
// construction; enabling and disabling never alter them.
type AcceleratorTable struct {
	bindings   map[Accel]func() bool
	order      []Accel
	active     bool
	suppressed map[Accel]struct{}
	stack      []map[Accel]struct{}
}

// NewAcceleratorTable creates an empty, active table.
func NewAcceleratorTable() *AcceleratorTable {
	return &AcceleratorTable{
		bindings:   make(map[Accel]func() bool),
		active:     true,
		suppressed: make(map[Accel]struct{}),
	}
}

// Bind registers action for (key, mods). A later Bind for the same
// accelerator replaces the action.
func (t *AcceleratorTable) Bind(key ebiten.Key, mods KeyMods, action func() bool) {
	a := Accel{Key: key, Mods: mods}
	if _, ok := t.bindings[a]; !ok {
		t.order = append(t.order, a)
	}
	t.bindings[a] = action
}

// Bindings returns all bound accelerators in registration order.
func (t *AcceleratorTable) Bindings() []Accel {
	return append([]Accel(nil), t.order...)
}

// Dispatch runs the action bound to (key, mods) unless the table is removed
// or the accelerator is suppressed. Returns whether an action handled it.
func (t *AcceleratorTable) Dispatch(key ebiten.Key, mods KeyMods) bool {
	if !t.active {
		return false
	}
	a := Accel{Key: key, Mods: mods}
	action, ok := t.bindings[a]
	if !ok {
		return false
	}
	if _, off := t.suppressed[a]; off {
		return false
	}
	return action()
}

// SetAccelerators enables dispatch of the whole table.
func (t *AcceleratorTable) SetAccelerators() { t.active = true }

// RemoveAccelerators disables dispatch of the whole table.
func (t *AcceleratorTable) RemoveAccelerators() { t.active = false }

func (t *AcceleratorTable) Active() bool { return t.active }

// DisableAlphaNumAccels saves the current suppressed set and suppresses every
// accelerator a text field would swallow. Calls nest; each must be matched by
// EnableAlphaNumAccels.
func (t *AcceleratorTable) DisableAlphaNumAccels() {
	saved := make(map[Accel]struct{}, len(t.suppressed))
	for a := range t.suppressed {
		saved[a] = struct{}{}
	}
	t.stack = append(t.stack, saved)
	for _, a := range t.order {
		if a.isAlphaNum() {
			t.suppressed[a] = struct{}{}
		}
	}
}

// EnableAlphaNumAccels restores the suppressed set saved by the matching
// DisableAlphaNumAccels. Returns false when there is nothing to restore.
func (t *AcceleratorTable) EnableAlphaNumAccels() bool {
	if len(t.stack) == 0 {
		return false
	}
	last := len(t.stack) - 1
	t.suppressed = t.stack[last]
	t.stack[last] = nil
	t.stack = t.stack[:last]
	return true
}

// Suppressed returns the currently suppressed accelerators in registration
// order.
func (t *AcceleratorTable) Suppressed() []Accel {
	var out []Accel
	for _, a := range t.order {
		if _, ok := t.suppressed[a]; ok {
			out = append(out, a)
		}
	}
	return out
}

// DisableDepth is the number of unmatched DisableAlphaNumAccels calls.
func (t *AcceleratorTable) DisableDepth() int { return len(t.stack) }

// ResetSuppression clears the suppressed set and the disable stack.
func (t *AcceleratorTable) ResetSuppression() {
	clear(t.suppressed)
	t.stack = nil
}
