package game

import "image/color"

// SystemID and FleetID are opaque keys into the universe. The map window never
// holds the objects themselves, only these keys, and re-resolves them every
// time it needs a position.
type (
	SystemID int
	FleetID  int
)

const (
	InvalidSystemID SystemID = -1
	InvalidFleetID  FleetID  = -1
)

// Vec2 is a 2D point or displacement.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }
func (v Vec2) Len2() float64        { return v.X*v.X + v.Y*v.Y }

// System is a star system as seen by the map.
type System struct {
	ID    SystemID
	Name  string
	Pos   Vec2
	Owned bool // owned by the local player
	Lanes []SystemID
}

// Fleet is a fleet as seen by the map. Route is its current travel route,
// empty when stationary.
type Fleet struct {
	ID    FleetID
	Name  string
	Pos   Vec2
	Route []SystemID
	Color color.RGBA
	Owned bool
}

// Universe resolves identities. Lookups may fail at any time: objects get
// destroyed between turns and the map must tolerate that.
type Universe interface {
	System(id SystemID) (System, bool)
	Fleet(id FleetID) (Fleet, bool)
	Systems() []System
	Fleets() []Fleet
	HomeSystem() (SystemID, bool)
	Size() Vec2 // map extent in map units
}

// ResourceKind is one of the empire resource pools shown on the toolbar.
type ResourceKind int

const (
	ResourceFood ResourceKind = iota
	ResourceMineral
	ResourceTrade
	ResourceResearch
	ResourcePopulation
	ResourceIndustry
	resourceKindCount
)

var resourceKindNames = [resourceKindCount]string{
	ResourceFood:       "food",
	ResourceMineral:    "mineral",
	ResourceTrade:      "trade",
	ResourceResearch:   "research",
	ResourcePopulation: "population",
	ResourceIndustry:   "industry",
}

func (k ResourceKind) String() string {
	if k < 0 || k >= resourceKindCount {
		return "unknown"
	}
	return resourceKindNames[k]
}

// ResourcePool is a stockpile and how much it changes per turn.
type ResourcePool struct {
	Stockpile  float64
	Production float64
}

// ResourceSource reports the local empire's resource pools. A universe
// that tracks resources may implement it.
type ResourceSource interface {
	ResourcePool(kind ResourceKind) (ResourcePool, bool)
}

// Panel is an auxiliary screen the map window shows and hides.
type Panel interface {
	Show()
	Hide()
	Visible() bool
}

// SidePanel shows details of one system.
type SidePanel interface {
	Panel
	SetSystem(id SystemID)
}

// ProductionScreen is a production panel that can open on one system.
// A Production dependency that implements it is told which system was
// double-clicked.
type ProductionScreen interface {
	Panel
	SetSystem(id SystemID)
}

// ResearchScreen is the research overlay.
type ResearchScreen interface {
	Panel
	CenterOnTech(name string)
}

// Menu is the in-game menu. Show opens it; the menu reports back through
// MapWnd.CloseMenu when dismissed. Hide is called when the window leaves the
// menu state for any other reason.
type Menu interface {
	Show()
	Hide()
}

// ChatTransport carries player chat. Incoming must never block the caller;
// the map drains it once per frame.
type ChatTransport interface {
	Send(text string) error
	Incoming() <-chan string
}
