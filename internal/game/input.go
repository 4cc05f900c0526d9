package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// A second left click within doubleClickFrames updates and doubleClickSlop
// pixels of the first is a double click.
const (
	doubleClickFrames = 18
	doubleClickSlop   = 4
)

// inputFrame is the raw input state of one frame.
type inputFrame struct {
	cursor       Vec2
	leftPressed  bool // went down this frame
	leftHeld     bool
	leftReleased bool // went up this frame
	rightPressed bool
	wheel        float64
	keys         []ebiten.Key // went down this frame
	mods         KeyMods
	chars        []rune
}

// InputPoller turns ebiten's polled input into map window events.
type InputPoller struct {
	last    Vec2
	started bool
	keys    []ebiten.Key
	chars   []rune

	frame   int
	clickAt int // frame of the last single click, 0 when none
	clickPt Vec2
}

// Poll reads this frame's input and returns its events in the order they
// must be handled.
func (p *InputPoller) Poll() []InputEvent {
	return p.translate(p.readFrame())
}

func (p *InputPoller) readFrame() inputFrame {
	mx, my := ebiten.CursorPosition()
	_, wy := ebiten.Wheel()
	p.keys = inpututil.AppendJustPressedKeys(p.keys[:0])
	p.chars = ebiten.AppendInputChars(p.chars[:0])
	return inputFrame{
		cursor:       Vec2{X: float64(mx), Y: float64(my)},
		leftPressed:  inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		leftHeld:     ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		leftReleased: inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
		rightPressed: inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight),
		wheel:        wy,
		keys:         p.keys,
		mods:         readModifiers(ebiten.IsKeyPressed),
		chars:        p.chars,
	}
}

func (p *InputPoller) translate(f inputFrame) []InputEvent {
	var events []InputEvent
	p.frame++
	move := Vec2{}
	if p.started {
		move = f.cursor.Sub(p.last)
	}
	p.last, p.started = f.cursor, true

	switch {
	case f.leftPressed:
		events = append(events, InputEvent{Kind: EventLButtonDown, Pt: f.cursor})
	case f.leftHeld && move != (Vec2{}):
		events = append(events, InputEvent{Kind: EventLDrag, Pt: f.cursor, Move: move})
	case !f.leftHeld && move != (Vec2{}):
		events = append(events, InputEvent{Kind: EventMouseMove, Pt: f.cursor, Move: move})
	}
	if f.leftReleased {
		events = append(events,
			InputEvent{Kind: EventLButtonUp, Pt: f.cursor},
			InputEvent{Kind: EventLClick, Pt: f.cursor},
		)
		if p.isDoubleClick(f.cursor) {
			events = append(events, InputEvent{Kind: EventLDoubleClick, Pt: f.cursor})
			p.clickAt = 0
		} else {
			p.clickAt, p.clickPt = p.frame, f.cursor
		}
	}
	if f.rightPressed {
		events = append(events, InputEvent{Kind: EventRClick, Pt: f.cursor})
	}
	if f.wheel != 0 {
		events = append(events, InputEvent{Kind: EventMouseWheel, Pt: f.cursor, Wheel: f.wheel})
	}
	for _, k := range f.keys {
		if isModifierKey(k) {
			continue
		}
		events = append(events, InputEvent{Kind: EventKeyPress, Pt: f.cursor, Key: k, Mods: f.mods})
	}
	if len(f.chars) > 0 {
		events = append(events, InputEvent{Kind: EventTextInput, Pt: f.cursor, Text: string(f.chars)})
	}
	return events
}

func (p *InputPoller) isDoubleClick(pt Vec2) bool {
	if p.clickAt == 0 || p.frame-p.clickAt > doubleClickFrames {
		return false
	}
	return pt.Sub(p.clickPt).Len2() <= doubleClickSlop*doubleClickSlop
}

// readModifiers collects the held modifier keys.
func readModifiers(pressed func(ebiten.Key) bool) KeyMods {
	var mods KeyMods
	if pressed(ebiten.KeyShift) || pressed(ebiten.KeyShiftLeft) || pressed(ebiten.KeyShiftRight) {
		mods |= ModShift
	}
	if pressed(ebiten.KeyControl) || pressed(ebiten.KeyControlLeft) || pressed(ebiten.KeyControlRight) {
		mods |= ModCtrl
	}
	if pressed(ebiten.KeyAlt) || pressed(ebiten.KeyAltLeft) || pressed(ebiten.KeyAltRight) {
		mods |= ModAlt
	}
	if pressed(ebiten.KeyMeta) || pressed(ebiten.KeyMetaLeft) || pressed(ebiten.KeyMetaRight) {
		mods |= ModMeta
	}
	return mods
}

func isModifierKey(k ebiten.Key) bool {
	switch k {
	case ebiten.KeyShift, ebiten.KeyShiftLeft, ebiten.KeyShiftRight,
		ebiten.KeyControl, ebiten.KeyControlLeft, ebiten.KeyControlRight,
		ebiten.KeyAlt, ebiten.KeyAltLeft, ebiten.KeyAltRight,
		ebiten.KeyMeta, ebiten.KeyMetaLeft, ebiten.KeyMetaRight:
		return true
	}
	return false
}
