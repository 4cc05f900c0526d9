package game

import "testing"

func linesFixture() (*fakeUniverse, *MovementLines) {
	u := newFakeUniverse()
	u.addSystem(1, 100, 100, true)
	u.addSystem(2, 300, 100, false)
	u.addSystem(3, 300, 400, false)
	u.addFleet(7, Vec2{100, 100}, true)
	u.addFleet(8, Vec2{300, 100}, false)
	return u, NewMovementLines(u)
}

func TestMovementLines_StarlanesDeduplicated(t *testing.T) {
	_, ml := linesFixture()
	if !ml.AddStarlane(1, 2) {
		t.Fatal("first lane should be added")
	}
	if ml.AddStarlane(2, 1) {
		t.Fatal("reversed lane should be a duplicate")
	}
	if ml.AddStarlane(3, 3) {
		t.Fatal("self-lane should be rejected")
	}
	lanes := ml.Starlanes()
	if len(lanes) != 1 || lanes[0] != (StarlaneEdge{A: 1, B: 2}) {
		t.Fatalf("expected one lane 1-2, got %v", lanes)
	}
}

func TestMovementLines_EmptyRouteRemovesPath(t *testing.T) {
	_, ml := linesFixture()
	ml.SetFleetMovement(7, []SystemID{2, 3})
	if _, ok := ml.Path(7); !ok {
		t.Fatal("path should exist after SetFleetMovement")
	}
	ml.SetFleetMovement(7, nil)
	if _, ok := ml.Path(7); ok {
		t.Fatal("empty route should remove the path")
	}
}

func TestMovementLines_RemoveFleet(t *testing.T) {
	_, ml := linesFixture()
	ml.SetFleetMovement(7, []SystemID{2})
	ml.SetProjectedMovement(7, []SystemID{3})
	ml.RemoveFleet(7)
	if _, ok := ml.Path(7); ok {
		t.Fatal("RemoveFleet should delete the path")
	}
	if _, ok := ml.ProjectedPath(); ok {
		t.Fatal("RemoveFleet should drop a projection owned by the fleet")
	}
}

func TestMovementLines_ConfirmClearsProjection(t *testing.T) {
	_, ml := linesFixture()
	ml.SetProjectedMovement(7, []SystemID{1, 2, 3})
	ml.SetFleetMovement(7, []SystemID{1, 2})

	if _, ok := ml.ProjectedPath(); ok {
		t.Fatal("confirming the order should clear the projected path")
	}
	p, ok := ml.Path(7)
	if !ok || len(p.Route) != 2 || p.Route[0] != 1 || p.Route[1] != 2 {
		t.Fatalf("expected concrete path [1 2], got %v (ok=%v)", p.Route, ok)
	}
}

func TestMovementLines_OtherFleetKeepsProjection(t *testing.T) {
	_, ml := linesFixture()
	ml.SetProjectedMovement(7, []SystemID{3})
	ml.SetFleetMovement(8, []SystemID{3})
	if p, ok := ml.ProjectedPath(); !ok || p.Fleet != 7 {
		t.Fatal("an order for a different fleet must not clear the projection")
	}
}

func TestMovementLines_UnresolvedFleetGetsNoPath(t *testing.T) {
	_, ml := linesFixture()
	ml.SetFleetMovement(99, []SystemID{1})
	if _, ok := ml.Path(99); ok {
		t.Fatal("unknown fleet should not get a path")
	}
	ml.SetProjectedMovement(99, []SystemID{1})
	if _, ok := ml.ProjectedPath(); ok {
		t.Fatal("unknown fleet should not get a projection")
	}
}

func TestMovementLines_PurgeUnresolved(t *testing.T) {
	u, ml := linesFixture()
	ml.SetFleetMovement(7, []SystemID{2})
	ml.SetFleetMovement(8, []SystemID{1})
	ml.SetProjectedMovement(8, []SystemID{3})
	delete(u.fleets, 8)

	if n := ml.PurgeUnresolved(); n != 1 {
		t.Fatalf("expected 1 purged path, got %d", n)
	}
	if _, ok := ml.Path(8); ok {
		t.Fatal("vanished fleet still has a path")
	}
	if _, ok := ml.ProjectedPath(); ok {
		t.Fatal("vanished fleet still has a projection")
	}
	if _, ok := ml.Path(7); !ok {
		t.Fatal("live fleet lost its path")
	}
}

func TestMovementLines_FleetButtonUsesOwnRoutes(t *testing.T) {
	u, ml := linesFixture()
	u.addFleet(7, Vec2{100, 100}, true, 2, 3)
	u.addFleet(8, Vec2{300, 100}, false)
	ml.SetFleetMovement(8, []SystemID{1})

	ml.SetFleetButtonMovement([]FleetID{7, 8, 42})

	if p, ok := ml.Path(7); !ok || len(p.Route) != 2 {
		t.Fatalf("fleet 7 should follow its own route, got %v", p.Route)
	}
	if _, ok := ml.Path(8); ok {
		t.Fatal("fleet 8 is idle; the aggregate write should remove its earlier path")
	}
	if _, ok := ml.Path(42); ok {
		t.Fatal("unknown fleet should not get a path")
	}
}

func TestMovementLines_PathIsCopied(t *testing.T) {
	_, ml := linesFixture()
	route := []SystemID{2, 3}
	ml.SetFleetMovement(7, route)
	route[0] = 1

	p, _ := ml.Path(7)
	if p.Route[0] != 2 {
		t.Fatal("registry must not alias the caller's route")
	}
	p.Route[1] = 1
	if q, _ := ml.Path(7); q.Route[1] != 3 {
		t.Fatal("queries must return copies")
	}
}

func TestMovementLines_PointsSkipMissingSystems(t *testing.T) {
	u, ml := linesFixture()
	ml.SetFleetMovement(7, []SystemID{2, 5, 3})
	p, _ := ml.Path(7)
	pts := ml.Points(p)
	if len(pts) != 3 {
		t.Fatalf("expected origin plus two resolvable systems, got %d points", len(pts))
	}
	if pts[0] != (Vec2{100, 100}) || pts[2] != u.systems[3].Pos {
		t.Fatalf("unexpected points %v", pts)
	}
}

func TestMovementLines_DefaultColour(t *testing.T) {
	u, ml := linesFixture()
	f := u.fleets[7]
	f.Color.A = 0
	u.fleets[7] = f
	ml.SetFleetMovement(7, []SystemID{2})
	if p, _ := ml.Path(7); p.Color != defaultLineColor {
		t.Fatalf("transparent fleet colour should fall back to white, got %v", p.Color)
	}
}

func TestMovementLines_Clear(t *testing.T) {
	_, ml := linesFixture()
	ml.AddStarlane(1, 2)
	ml.SetFleetMovement(7, []SystemID{2})
	ml.SetProjectedMovement(8, []SystemID{1})
	ml.Clear()
	lanes, paths := ml.Counts()
	if lanes != 0 || paths != 0 {
		t.Fatalf("clear left %d lanes and %d paths", lanes, paths)
	}
	if _, ok := ml.ProjectedPath(); ok {
		t.Fatal("clear left a projection")
	}
}
