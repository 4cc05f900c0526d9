package game

import (
	"image/color"
	"sort"
)

// StarlaneEdge is an unordered pair of systems, stored with A < B.
type StarlaneEdge struct {
	A, B SystemID
}

func makeEdge(a, b SystemID) StarlaneEdge {
	if b < a {
		a, b = b, a
	}
	return StarlaneEdge{A: a, B: b}
}

// MovementPath is the line drawn for one fleet: from its position at the time
// the path was set through each system on its route.
type MovementPath struct {
	Fleet  FleetID
	Origin Vec2
	Route  []SystemID
	Color  color.RGBA
}

var defaultLineColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// MovementLines tracks the static starlanes and the per-fleet movement paths
// rendered on the map, plus the single projected path previewed while the
// player composes an order.
//
// Fleets are referenced by id only; positions come from the Universe at the
// time a path is set. A path is never kept for a fleet that has been removed.
type MovementLines struct {
	universe  Universe
	starlanes map[StarlaneEdge]struct{}
	paths     map[FleetID]MovementPath
	projected *MovementPath
}

// NewMovementLines creates an empty registry that resolves fleets through u.
func NewMovementLines(u Universe) *MovementLines {
	return &MovementLines{
		universe:  u,
		starlanes: make(map[StarlaneEdge]struct{}),
		paths:     make(map[FleetID]MovementPath),
	}
}

// AddStarlane stores the lane between a and b. Returns false for self-edges
// and for lanes already present.
func (ml *MovementLines) AddStarlane(a, b SystemID) bool {
	if a == b {
		return false
	}
	e := makeEdge(a, b)
	if _, ok := ml.starlanes[e]; ok {
		return false
	}
	ml.starlanes[e] = struct{}{}
	return true
}

// SetFleetMovement (re)builds the path for fleet through route. An empty
// route, or a fleet that no longer resolves, removes any existing path.
// Confirming an order for the fleet being previewed clears the preview.
func (ml *MovementLines) SetFleetMovement(fleet FleetID, route []SystemID) {
	if ml.projected != nil && ml.projected.Fleet == fleet {
		ml.projected = nil
	}
	p, ok := ml.buildPath(fleet, route)
	if !ok {
		delete(ml.paths, fleet)
		return
	}
	ml.paths[fleet] = p
}

// SetFleetButtonMovement sets lines for every fleet in a fleet button using
// each fleet's own current route. Calls are last-write-wins against
// SetFleetMovement for the same fleet.
func (ml *MovementLines) SetFleetButtonMovement(fleets []FleetID) {
	for _, id := range fleets {
		f, ok := ml.universe.Fleet(id)
		if !ok {
			ml.RemoveFleet(id)
			continue
		}
		ml.SetFleetMovement(id, f.Route)
	}
}

// SetProjectedMovement replaces the preview path. An empty route or an
// unresolvable fleet clears it.
func (ml *MovementLines) SetProjectedMovement(fleet FleetID, route []SystemID) {
	p, ok := ml.buildPath(fleet, route)
	if !ok {
		ml.projected = nil
		return
	}
	ml.projected = &p
}

// ClearProjectedMovement drops the preview (order cancelled or selection
// changed).
func (ml *MovementLines) ClearProjectedMovement() {
	ml.projected = nil
}

// RemoveFleet forgets everything referencing fleet. Must be called when the
// fleet is destroyed.
func (ml *MovementLines) RemoveFleet(fleet FleetID) {
	delete(ml.paths, fleet)
	if ml.projected != nil && ml.projected.Fleet == fleet {
		ml.projected = nil
	}
}

// PurgeUnresolved removes paths whose fleet no longer resolves and returns
// how many were dropped.
func (ml *MovementLines) PurgeUnresolved() int {
	n := 0
	for id := range ml.paths {
		if _, ok := ml.universe.Fleet(id); !ok {
			delete(ml.paths, id)
			n++
		}
	}
	if ml.projected != nil {
		if _, ok := ml.universe.Fleet(ml.projected.Fleet); !ok {
			ml.projected = nil
		}
	}
	return n
}

// Clear drops all lanes and paths.
func (ml *MovementLines) Clear() {
	clear(ml.starlanes)
	clear(ml.paths)
	ml.projected = nil
}

func (ml *MovementLines) buildPath(fleet FleetID, route []SystemID) (MovementPath, bool) {
	if len(route) == 0 {
		return MovementPath{}, false
	}
	f, ok := ml.universe.Fleet(fleet)
	if !ok {
		return MovementPath{}, false
	}
	c := f.Color
	if c.A == 0 {
		c = defaultLineColor
	}
	return MovementPath{
		Fleet:  fleet,
		Origin: f.Pos,
		Route:  append([]SystemID(nil), route...),
		Color:  c,
	}, true
}

// Starlanes returns all lanes sorted by (A, B).
func (ml *MovementLines) Starlanes() []StarlaneEdge {
	out := make([]StarlaneEdge, 0, len(ml.starlanes))
	for e := range ml.starlanes {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

// Paths returns copies of all fleet paths sorted by fleet id.
func (ml *MovementLines) Paths() []MovementPath {
	out := make([]MovementPath, 0, len(ml.paths))
	for _, p := range ml.paths {
		out = append(out, copyPath(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Fleet < out[j].Fleet })
	return out
}

// Path returns the path for fleet, if any.
func (ml *MovementLines) Path(fleet FleetID) (MovementPath, bool) {
	p, ok := ml.paths[fleet]
	if !ok {
		return MovementPath{}, false
	}
	return copyPath(p), true
}

// ProjectedPath returns the preview path, if any.
func (ml *MovementLines) ProjectedPath() (MovementPath, bool) {
	if ml.projected == nil {
		return MovementPath{}, false
	}
	return copyPath(*ml.projected), true
}

// Counts returns the number of starlanes and fleet paths held.
func (ml *MovementLines) Counts() (starlanes, paths int) {
	return len(ml.starlanes), len(ml.paths)
}

// Points resolves a path into map-space vertices, origin first. Systems that
// no longer resolve are skipped.
func (ml *MovementLines) Points(p MovementPath) []Vec2 {
	pts := make([]Vec2, 0, len(p.Route)+1)
	pts = append(pts, p.Origin)
	for _, id := range p.Route {
		s, ok := ml.universe.System(id)
		if !ok {
			continue
		}
		pts = append(pts, s.Pos)
	}
	return pts
}

func copyPath(p MovementPath) MovementPath {
	p.Route = append([]SystemID(nil), p.Route...)
	return p
}
