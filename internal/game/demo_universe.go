package game

import (
	"fmt"
	"image/color"
	"math/rand"
	"sort"
)

const (
	demoMinSpacing = 90.0 // minimum distance between generated systems
	demoLanesPer   = 3    // nearest neighbours each system links to
)

var demoSyllables = []string{
	"al", "bar", "cen", "dor", "el", "fa", "gor", "hel", "ix", "jun",
	"kor", "lum", "mar", "nev", "or", "pra", "qua", "ris", "sol", "tau",
	"ul", "vex", "wen", "xi", "yor", "zed",
}

var demoFleetColors = []color.RGBA{
	{R: 90, G: 200, B: 255, A: 255},
	{R: 255, G: 140, B: 60, A: 255},
	{R: 160, G: 255, B: 120, A: 255},
	{R: 230, G: 90, B: 200, A: 255},
}

// demoYield is what one owned system adds to each pool per turn.
var demoYield = [resourceKindCount]float64{
	ResourceFood:       3,
	ResourceMineral:    2,
	ResourceTrade:      1.5,
	ResourceResearch:   2.5,
	ResourcePopulation: 0.5,
	ResourceIndustry:   4,
}

type demoFleet struct {
	Fleet
	at SystemID // last system reached
}

// DemoUniverse is a generated universe for cmd/starmap and the headless
// report. It also plots and accepts move orders.
type DemoUniverse struct {
	size    Vec2
	systems []System // indexed by SystemID
	fleets  map[FleetID]*demoFleet
	home    SystemID
	nextID  FleetID
	rng     *rand.Rand
	pools   [resourceKindCount]ResourcePool
}

// NewDemoUniverse places n systems in a size.X by size.Y map, links each to
// its nearest neighbours and spawns a few fleets. The same seed always
// produces the same universe.
func NewDemoUniverse(seed int64, n int, size Vec2) *DemoUniverse {
	u := &DemoUniverse{
		size:   size,
		fleets: make(map[FleetID]*demoFleet),
		home:   InvalidSystemID,
		rng:    rand.New(rand.NewSource(seed)),
	}
	u.placeSystems(n)
	u.linkSystems()
	u.spawnFleets()
	u.updateProduction()
	return u
}

func (u *DemoUniverse) placeSystems(n int) {
	const margin = 60.0
	for attempts := 0; len(u.systems) < n && attempts < n*50; attempts++ {
		p := Vec2{
			X: margin + u.rng.Float64()*(u.size.X-2*margin),
			Y: margin + u.rng.Float64()*(u.size.Y-2*margin),
		}
		if u.tooClose(p) {
			continue
		}
		id := SystemID(len(u.systems))
		u.systems = append(u.systems, System{ID: id, Name: u.systemName(), Pos: p})
	}
	if len(u.systems) == 0 {
		return
	}
	u.home = SystemID(u.rng.Intn(len(u.systems)))
	u.systems[u.home].Owned = true
	for _, id := range u.nearest(u.home, 3) {
		u.systems[id].Owned = true
	}
}

func (u *DemoUniverse) tooClose(p Vec2) bool {
	for _, s := range u.systems {
		if s.Pos.Sub(p).Len2() < demoMinSpacing*demoMinSpacing {
			return true
		}
	}
	return false
}

func (u *DemoUniverse) systemName() string {
	n := 2 + u.rng.Intn(2)
	name := ""
	for i := 0; i < n; i++ {
		name += demoSyllables[u.rng.Intn(len(demoSyllables))]
	}
	return string(name[0]-'a'+'A') + name[1:]
}

// nearest returns up to k systems closest to id, closest first.
func (u *DemoUniverse) nearest(id SystemID, k int) []SystemID {
	origin := u.systems[id].Pos
	ids := make([]SystemID, 0, len(u.systems)-1)
	for _, s := range u.systems {
		if s.ID != id {
			ids = append(ids, s.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		return u.systems[ids[i]].Pos.Sub(origin).Len2() < u.systems[ids[j]].Pos.Sub(origin).Len2()
	})
	if len(ids) > k {
		ids = ids[:k]
	}
	return ids
}

func (u *DemoUniverse) linkSystems() {
	for i := range u.systems {
		a := SystemID(i)
		for _, b := range u.nearest(a, demoLanesPer) {
			if u.adjacent(a, b) {
				continue
			}
			u.systems[a].Lanes = append(u.systems[a].Lanes, b)
			u.systems[b].Lanes = append(u.systems[b].Lanes, a)
		}
	}
}

func (u *DemoUniverse) spawnFleets() {
	if len(u.systems) == 0 {
		return
	}
	for i := 0; i < 6; i++ {
		owned := i < 4
		at := u.home
		if !owned || i > 1 {
			at = SystemID(u.rng.Intn(len(u.systems)))
		}
		u.AddFleet(fmt.Sprintf("Fleet %d", i+1), at, owned)
	}
}

// AddFleet creates a stationary fleet at a system.
func (u *DemoUniverse) AddFleet(name string, at SystemID, owned bool) FleetID {
	u.nextID++
	id := u.nextID
	u.fleets[id] = &demoFleet{
		Fleet: Fleet{
			ID:    id,
			Name:  name,
			Pos:   u.systems[at].Pos,
			Color: demoFleetColors[int(id)%len(demoFleetColors)],
			Owned: owned,
		},
		at: at,
	}
	return id
}

// DestroyFleet removes a fleet. Later lookups of id fail.
func (u *DemoUniverse) DestroyFleet(id FleetID) bool {
	if _, ok := u.fleets[id]; !ok {
		return false
	}
	delete(u.fleets, id)
	return true
}

// AdvanceTurn moves every fleet one jump along its route. Foreign fleets
// that are idle pick a random destination. Returns the fleets that arrived
// at their final system this turn.
func (u *DemoUniverse) AdvanceTurn() []FleetID {
	var arrived []FleetID
	for _, id := range u.fleetIDs() {
		f := u.fleets[id]
		if len(f.Route) == 0 {
			if !f.Owned {
				dest := SystemID(u.rng.Intn(len(u.systems)))
				if route, ok := u.route(f.at, dest); ok {
					f.Route = route
				}
			}
			continue
		}
		f.at = f.Route[0]
		f.Pos = u.systems[f.at].Pos
		f.Route = f.Route[1:]
		if len(f.Route) == 0 {
			f.Route = nil
			arrived = append(arrived, id)
		}
	}
	for k := range u.pools {
		u.pools[k].Stockpile += u.pools[k].Production
	}
	u.updateProduction()
	return arrived
}

func (u *DemoUniverse) updateProduction() {
	owned := 0
	for _, s := range u.systems {
		if s.Owned {
			owned++
		}
	}
	for k := range u.pools {
		u.pools[k].Production = float64(owned) * demoYield[k]
	}
}

// ResourcePool reports the player's stockpile and per-turn production.
func (u *DemoUniverse) ResourcePool(kind ResourceKind) (ResourcePool, bool) {
	if kind < 0 || kind >= resourceKindCount {
		return ResourcePool{}, false
	}
	return u.pools[kind], true
}

func (u *DemoUniverse) fleetIDs() []FleetID {
	ids := make([]FleetID, 0, len(u.fleets))
	for id := range u.fleets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// route is a breadth-first path over starlanes from one system to another,
// excluding the start.
func (u *DemoUniverse) route(from, to SystemID) ([]SystemID, bool) {
	if !u.validSystem(from) || !u.validSystem(to) || from == to {
		return nil, false
	}
	prev := map[SystemID]SystemID{from: from}
	queue := []SystemID{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == to {
			break
		}
		for _, next := range u.systems[cur].Lanes {
			if _, seen := prev[next]; !seen {
				prev[next] = cur
				queue = append(queue, next)
			}
		}
	}
	if _, ok := prev[to]; !ok {
		return nil, false
	}
	var path []SystemID
	for cur := to; cur != from; cur = prev[cur] {
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, true
}

func (u *DemoUniverse) validSystem(id SystemID) bool {
	return id >= 0 && int(id) < len(u.systems)
}

// Universe.

func (u *DemoUniverse) System(id SystemID) (System, bool) {
	if !u.validSystem(id) {
		return System{}, false
	}
	s := u.systems[id]
	s.Lanes = append([]SystemID(nil), s.Lanes...)
	return s, true
}

func (u *DemoUniverse) Fleet(id FleetID) (Fleet, bool) {
	f, ok := u.fleets[id]
	if !ok {
		return Fleet{}, false
	}
	out := f.Fleet
	out.Route = append([]SystemID(nil), f.Route...)
	return out, true
}

func (u *DemoUniverse) Systems() []System {
	out := make([]System, len(u.systems))
	copy(out, u.systems)
	return out
}

func (u *DemoUniverse) Fleets() []Fleet {
	ids := u.fleetIDs()
	out := make([]Fleet, 0, len(ids))
	for _, id := range ids {
		f, _ := u.Fleet(id)
		out = append(out, f)
	}
	return out
}

func (u *DemoUniverse) HomeSystem() (SystemID, bool) {
	return u.home, u.home != InvalidSystemID
}

func (u *DemoUniverse) Size() Vec2 { return u.size }

// FleetLocation is the system a fleet last reached.
func (u *DemoUniverse) FleetLocation(id FleetID) (SystemID, bool) {
	f, ok := u.fleets[id]
	if !ok {
		return InvalidSystemID, false
	}
	return f.at, true
}

// Navigator.

func (u *DemoUniverse) PlotRoute(fleet FleetID, dest SystemID) ([]SystemID, bool) {
	f, ok := u.fleets[fleet]
	if !ok {
		return nil, false
	}
	return u.route(f.at, dest)
}

// OrderMove accepts a route for an owned fleet if every hop follows a lane.
func (u *DemoUniverse) OrderMove(fleet FleetID, route []SystemID) bool {
	f, ok := u.fleets[fleet]
	if !ok || !f.Owned || len(route) == 0 {
		return false
	}
	cur := f.at
	for _, next := range route {
		if !u.validSystem(next) || !u.adjacent(cur, next) {
			return false
		}
		cur = next
	}
	f.Route = append([]SystemID(nil), route...)
	return true
}

func (u *DemoUniverse) adjacent(a, b SystemID) bool {
	for _, l := range u.systems[a].Lanes {
		if l == b {
			return true
		}
	}
	return false
}
