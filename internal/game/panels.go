package game

// BasicPanel is a Panel that only tracks its visibility. Renderers draw it
// from Title and Visible.
type BasicPanel struct {
	Title   string
	visible bool
	shows   int
}

func NewBasicPanel(title string) *BasicPanel { return &BasicPanel{Title: title} }

func (p *BasicPanel) Show() {
	p.visible = true
	p.shows++
}

func (p *BasicPanel) Hide()         { p.visible = false }
func (p *BasicPanel) Visible() bool { return p.visible }

// Shows counts calls to Show.
func (p *BasicPanel) Shows() int { return p.shows }

// BasicSidePanel is the system detail panel.
type BasicSidePanel struct {
	BasicPanel
	system SystemID
}

func NewBasicSidePanel() *BasicSidePanel {
	return &BasicSidePanel{BasicPanel: BasicPanel{Title: "System"}, system: InvalidSystemID}
}

func (p *BasicSidePanel) SetSystem(id SystemID) { p.system = id }
func (p *BasicSidePanel) System() SystemID      { return p.system }

// BasicProductionScreen remembers the system it was opened on.
type BasicProductionScreen struct {
	BasicPanel
	system SystemID
}

func NewBasicProductionScreen() *BasicProductionScreen {
	return &BasicProductionScreen{BasicPanel: BasicPanel{Title: "Production"}, system: InvalidSystemID}
}

func (p *BasicProductionScreen) SetSystem(id SystemID) { p.system = id }
func (p *BasicProductionScreen) System() SystemID      { return p.system }

// BasicResearchScreen remembers the last tech it was asked to show.
type BasicResearchScreen struct {
	BasicPanel
	tech string
}

func NewBasicResearchScreen() *BasicResearchScreen {
	return &BasicResearchScreen{BasicPanel: BasicPanel{Title: "Research"}}
}

func (p *BasicResearchScreen) CenterOnTech(name string) { p.tech = name }
func (p *BasicResearchScreen) Tech() string             { return p.tech }

// BasicMenu counts how often it was opened.
type BasicMenu struct {
	opened  int
	visible bool
}

func (m *BasicMenu) Show() {
	m.opened++
	m.visible = true
}

func (m *BasicMenu) Hide()         { m.visible = false }
func (m *BasicMenu) Visible() bool { return m.visible }
func (m *BasicMenu) Opened() int   { return m.opened }

// MessagePopup is a closable text popup.
type MessagePopup struct {
	Title   string
	Text    string
	visible bool
	closed  int

	// OnClose runs after the popup is closed, typically unregistering it.
	OnClose func(*MessagePopup)
}

// NewMessagePopup creates a visible popup.
func NewMessagePopup(title, text string) *MessagePopup {
	return &MessagePopup{Title: title, Text: text, visible: true}
}

func (p *MessagePopup) Close() {
	p.visible = false
	p.closed++
	if p.OnClose != nil {
		p.OnClose(p)
	}
}

func (p *MessagePopup) Show()         { p.visible = true }
func (p *MessagePopup) Hide()         { p.visible = false }
func (p *MessagePopup) Visible() bool { return p.visible }

// Closed counts calls to Close.
func (p *MessagePopup) Closed() int { return p.closed }
