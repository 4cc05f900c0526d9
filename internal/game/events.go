package game

import "github.com/hajimehoshi/ebiten/v2"

// EventKind enumerates the input events the map window handles.
type EventKind int

const (
	EventLButtonDown EventKind = iota
	EventLDrag
	EventLButtonUp
	EventLClick
	EventRClick
	EventMouseMove
	EventMouseWheel
	EventKeyPress
	EventTextInput
	EventLDoubleClick
	eventKindCount
)

var eventKindNames = [eventKindCount]string{
	EventLButtonDown: "lbutton_down",
	EventLDrag:       "ldrag",
	EventLButtonUp:   "lbutton_up",
	EventLClick:      "lclick",
	EventRClick:      "rclick",
	EventMouseMove:   "mouse_move",
	EventMouseWheel:  "mouse_wheel",
	EventKeyPress:    "key_press",
	EventTextInput:    "text_input",
	EventLDoubleClick: "ldouble_click",
}

func (k EventKind) String() string {
	if k < 0 || k >= eventKindCount {
		return "unknown"
	}
	return eventKindNames[k]
}

// InputEvent is one input event in screen coordinates. Only the fields
// relevant to Kind are set.
type InputEvent struct {
	Kind  EventKind
	Pt    Vec2       // cursor position
	Move  Vec2       // EventLDrag: movement since the previous event
	Wheel float64    // EventMouseWheel: notches, positive zooms in
	Key   ebiten.Key // EventKeyPress
	Mods  KeyMods    // EventKeyPress
	Text  string     // EventTextInput
}

// EventFilter lets an overlay intercept events before the map sees them.
// Returning true consumes the event.
type EventFilter func(ev InputEvent) bool

// FilterHandle removes an installed filter.
type FilterHandle struct {
	id uint32
	w  *MapWnd
}

// Remove uninstalls the filter. Safe to call more than once.
func (h FilterHandle) Remove() {
	if h.w == nil {
		return
	}
	for i, f := range h.w.filters {
		if f.id == h.id {
			h.w.filters = append(h.w.filters[:i:i], h.w.filters[i+1:]...)
			return
		}
	}
}

type installedFilter struct {
	id uint32
	fn EventFilter
}

type eventHandler func(w *MapWnd, ev InputEvent) bool

// eventHandlers is the dispatch table from event kind to handler.
var eventHandlers = [eventKindCount]eventHandler{
	EventLButtonDown: (*MapWnd).lButtonDown,
	EventLDrag:       (*MapWnd).lDrag,
	EventLButtonUp:   (*MapWnd).lButtonUp,
	EventLClick:      (*MapWnd).lClick,
	EventRClick:      (*MapWnd).rClick,
	EventMouseMove:   (*MapWnd).mouseMove,
	EventMouseWheel:  (*MapWnd).mouseWheel,
	EventKeyPress:    (*MapWnd).keyPress,
	EventTextInput:    (*MapWnd).textInput,
	EventLDoubleClick: (*MapWnd).lDoubleClick,
}

// PushEventFilter installs fn above every existing filter. The newest filter
// sees events first.
func (w *MapWnd) PushEventFilter(fn EventFilter) FilterHandle {
	w.nextFilterID++
	id := w.nextFilterID
	w.filters = append(w.filters, installedFilter{id: id, fn: fn})
	return FilterHandle{id: id, w: w}
}

// HandleEvent runs ev through the overlay filters and then the dispatch
// table. Returns whether anything consumed it.
func (w *MapWnd) HandleEvent(ev InputEvent) bool {
	filters := w.filters
	for i := len(filters) - 1; i >= 0; i-- {
		if filters[i].fn(ev) {
			return true
		}
	}
	if ev.Kind < 0 || ev.Kind >= eventKindCount {
		return false
	}
	h := eventHandlers[ev.Kind]
	if h == nil {
		return false
	}
	return h(w, ev)
}
