package game

import "testing"

func TestSignal_EmitsInRegistrationOrder(t *testing.T) {
	sig := NewSignal[SystemID]("test")
	var order []string
	var got []SystemID
	sig.Connect(func(id SystemID) { order = append(order, "a"); got = append(got, id) })
	sig.Connect(func(id SystemID) { order = append(order, "b"); got = append(got, id) })

	sig.Emit(7)
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("expected [a b], got %v", order)
	}
	if got[0] != 7 || got[1] != 7 {
		t.Fatalf("both subscribers should receive 7, got %v", got)
	}
}

func TestSignal_Disconnect(t *testing.T) {
	sig := NewSignal[SystemID]("test")
	calls := 0
	h := sig.Connect(func(SystemID) { calls++ })
	sig.Emit(1)
	h.Disconnect()
	h.Disconnect()
	sig.Emit(2)
	if calls != 1 {
		t.Fatalf("disconnected subscriber should not fire again, calls=%d", calls)
	}
	if sig.Len() != 0 {
		t.Fatalf("expected 0 subscribers, got %d", sig.Len())
	}
}

func TestSignal_DisconnectDuringEmit(t *testing.T) {
	sig := NewSignal[SystemID]("test")
	var h SignalHandle
	calls := 0
	h = sig.Connect(func(SystemID) { h.Disconnect() })
	sig.Connect(func(SystemID) { calls++ })

	sig.Emit(1)
	if calls != 1 {
		t.Fatalf("second subscriber should still fire in the same emission, calls=%d", calls)
	}
	sig.Emit(2)
	if calls != 2 || sig.Len() != 1 {
		t.Fatalf("expected 2 calls and 1 subscriber, got calls=%d len=%d", calls, sig.Len())
	}
}
