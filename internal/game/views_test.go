package game

import "testing"

func TestViews_EnterLeavesPrevious(t *testing.T) {
	var log []string
	vm := NewViewMachine(ViewHooks{
		Enter: func(s ViewState) { log = append(log, "enter "+s.String()) },
		Leave: func(s ViewState) { log = append(log, "leave "+s.String()) },
	})
	vm.Enter(ViewProduction)
	vm.Enter(ViewResearch)
	vm.Enter(ViewNormal)

	want := []string{"enter production", "leave production", "enter research", "leave research"}
	if len(log) != len(want) {
		t.Fatalf("expected %v, got %v", want, log)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("step %d: expected %q, got %q", i, want[i], log[i])
		}
	}
}

func TestViews_ReenterRejected(t *testing.T) {
	enters := 0
	vm := NewViewMachine(ViewHooks{Enter: func(ViewState) { enters++ }})
	if !vm.Enter(ViewMenuOpen) {
		t.Fatal("first enter should succeed")
	}
	if vm.Enter(ViewMenuOpen) {
		t.Fatal("entering the current state should be rejected")
	}
	if enters != 1 {
		t.Fatalf("enter hook ran %d times", enters)
	}
}

func TestViews_ToggleAndExit(t *testing.T) {
	vm := NewViewMachine(ViewHooks{})
	vm.Toggle(ViewResearch)
	if vm.State() != ViewResearch {
		t.Fatalf("toggle should enter research, state %s", vm.State())
	}
	vm.Toggle(ViewResearch)
	if vm.State() != ViewNormal {
		t.Fatalf("second toggle should return to normal, state %s", vm.State())
	}
	vm.Enter(ViewProduction)
	if vm.Exit(ViewResearch) {
		t.Fatal("exiting an inactive state should be a no-op")
	}
	if !vm.Exit(ViewProduction) || vm.State() != ViewNormal {
		t.Fatal("exit should return to normal")
	}
}
