package main

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/Garsondee/Star-Map/internal/game"
	"github.com/Garsondee/Star-Map/internal/logging"
)

func TestRunSession_NoViolations(t *testing.T) {
	rs, err := runSession(1, 42, 600, 30, logging.Noop())
	if err != nil {
		t.Fatalf("runSession: %v", err)
	}
	if v := rs.violations(); len(v) != 0 {
		t.Fatalf("expected no invariant violations, got %v", v)
	}
	if rs.turns == 0 {
		t.Fatal("expected at least one turn to end in 600 steps")
	}
}

func TestRunSession_Deterministic(t *testing.T) {
	a, errA := runSession(1, 7, 300, 25, logging.Noop())
	b, errB := runSession(1, 7, 300, 25, logging.Noop())
	if errA != nil || errB != nil {
		t.Fatalf("runSession: %v, %v", errA, errB)
	}
	if formatCounts(a.actions) != formatCounts(b.actions) || a.turns != b.turns || a.orders != b.orders {
		t.Fatalf("same seed gave different sessions:\n%s\n%s", formatCounts(a.actions), formatCounts(b.actions))
	}
}

func TestVerdict_ListsViolations(t *testing.T) {
	rs := runStats{zoomViolations: 2, danglingPaths: 1}
	v := verdict(rs)
	if !strings.HasPrefix(v, "FAIL") || !strings.Contains(v, "zoom_out_of_range=2") || !strings.Contains(v, "dangling_paths=1") {
		t.Fatalf("unexpected verdict %q", v)
	}
	if verdict(runStats{maxRoundTripError: roundTripTolerance / 2}) != "ok" {
		t.Fatal("error within tolerance should pass")
	}
}

func TestRectsOverlap(t *testing.T) {
	m := game.Vec2{X: 100, Y: 100}
	if !rectsOverlap(game.Vec2{X: -50, Y: -50}, game.Vec2{X: 10, Y: 10}, game.Vec2{}, m) {
		t.Fatal("corner overlap should count")
	}
	if rectsOverlap(game.Vec2{X: 100, Y: 0}, game.Vec2{X: 200, Y: 50}, game.Vec2{}, m) {
		t.Fatal("touching edges should not count")
	}
}

func TestPickAction_CoversAll(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	seen := map[string]bool{}
	for i := 0; i < 5000; i++ {
		seen[pickAction(rng)] = true
	}
	for _, a := range actionWeights {
		if !seen[a.name] {
			t.Fatalf("action %q never picked", a.name)
		}
	}
}

func TestFormatCounts(t *testing.T) {
	if got := formatCounts(map[string]int{"b": 2, "a": 1}); got != "a=1 b=2" {
		t.Fatalf("got %q", got)
	}
	if formatCounts(nil) != "none" {
		t.Fatal("empty counts should print none")
	}
}
