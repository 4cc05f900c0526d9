package game

// Signal is an ordered list of subscriber callbacks for one event kind.
// Emission is synchronous and follows registration order.
type Signal[T any] struct {
	name     string
	handlers []signalHandler[T]
	nextID   uint32
	onEmit   func(name string)
}

type signalHandler[T any] struct {
	id uint32
	fn func(T)
}

// SignalHandle allows removing a connected callback.
type SignalHandle struct {
	id     uint32
	remove func(uint32)
}

// Disconnect unregisters the callback. Safe to call more than once.
func (h SignalHandle) Disconnect() {
	if h.remove != nil {
		h.remove(h.id)
	}
}

// NewSignal creates a named signal. The name labels emission metrics.
func NewSignal[T any](name string) *Signal[T] {
	return &Signal[T]{name: name}
}

func (s *Signal[T]) Name() string { return s.name }

// Connect appends fn to the subscriber list.
func (s *Signal[T]) Connect(fn func(T)) SignalHandle {
	s.nextID++
	id := s.nextID
	s.handlers = append(s.handlers, signalHandler[T]{id: id, fn: fn})
	return SignalHandle{id: id, remove: s.disconnect}
}

func (s *Signal[T]) disconnect(id uint32) {
	for i := range s.handlers {
		if s.handlers[i].id == id {
			s.handlers = append(s.handlers[:i:i], s.handlers[i+1:]...)
			return
		}
	}
}

// Emit calls every subscriber with v. Subscribers connected or disconnected
// during emission take effect from the next Emit.
func (s *Signal[T]) Emit(v T) {
	if s.onEmit != nil {
		s.onEmit(s.name)
	}
	for _, h := range s.handlers {
		h.fn(v)
	}
}

// Len returns the number of connected subscribers.
func (s *Signal[T]) Len() int { return len(s.handlers) }
