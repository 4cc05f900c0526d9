package game

// ViewState is the exclusive mode of the map window.
type ViewState int

const (
	ViewNormal ViewState = iota
	ViewMenuOpen
	ViewProduction
	ViewResearch
)

func (v ViewState) String() string {
	switch v {
	case ViewNormal:
		return "normal"
	case ViewMenuOpen:
		return "menu"
	case ViewProduction:
		return "production"
	case ViewResearch:
		return "research"
	default:
		return "unknown"
	}
}

// ViewHooks are the side effects of entering and leaving each state.
type ViewHooks struct {
	Enter func(ViewState)
	Leave func(ViewState)
}

// ViewMachine enforces that at most one exclusive view is active: entering a
// state always leaves the current one first.
type ViewMachine struct {
	state ViewState
	hooks ViewHooks
}

func NewViewMachine(hooks ViewHooks) *ViewMachine {
	return &ViewMachine{hooks: hooks}
}

func (vm *ViewMachine) State() ViewState { return vm.state }

// Enter switches to s. Entering the current state is rejected and returns
// false; this is what keeps the menu from opening inside itself.
func (vm *ViewMachine) Enter(s ViewState) bool {
	if s == vm.state {
		return false
	}
	prev := vm.state
	vm.state = s
	if prev != ViewNormal && vm.hooks.Leave != nil {
		vm.hooks.Leave(prev)
	}
	if s != ViewNormal && vm.hooks.Enter != nil {
		vm.hooks.Enter(s)
	}
	return true
}

// Toggle enters s, or returns to Normal if s is already active.
func (vm *ViewMachine) Toggle(s ViewState) {
	if vm.state == s {
		vm.Enter(ViewNormal)
		return
	}
	vm.Enter(s)
}

// Exit returns to Normal from s. It is a no-op if s is not active.
func (vm *ViewMachine) Exit(s ViewState) bool {
	if vm.state != s || s == ViewNormal {
		return false
	}
	return vm.Enter(ViewNormal)
}
