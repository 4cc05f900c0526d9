package main

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Star-Map/internal/game"
	"github.com/Garsondee/Star-Map/internal/logging"
)

type runStats struct {
	runIndex int
	seed     int64
	steps    int
	turns    int

	actions map[string]int
	signals map[string]int
	orders  int

	zoomViolations       int
	visibilityViolations int
	danglingPaths        int
	restoreFailures      int
	corruptAccepted      int
	maxRoundTripError    float64
	maxPopups            int
}

// roundTripTolerance is the largest screen/map round-trip error accepted, in
// map units.
const roundTripTolerance = 1e-6

func main() {
	var runs int
	var steps int
	var seedBase int64
	var seedStep int64
	var systems int
	var verbose bool

	flag.IntVar(&runs, "runs", 5, "number of headless sessions")
	flag.IntVar(&steps, "steps", 2000, "random input actions per session")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.IntVar(&systems, "systems", 40, "star systems per universe")
	flag.BoolVar(&verbose, "v", false, "log map window debug output")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if steps <= 0 {
		fmt.Println("error: -steps must be > 0")
		return
	}
	if systems < 2 {
		fmt.Println("error: -systems must be >= 2")
		return
	}

	logger := logging.Noop()
	if verbose {
		logger = logging.New(logging.Config{Level: "debug"})
	}

	fmt.Printf("=== Headless Map Window Report ===\n")
	fmt.Printf("runs=%d steps=%d systems=%d seed_base=%d seed_step=%d\n\n", runs, steps, systems, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		rs, err := runSession(i+1, seed, steps, systems, logger)
		if err != nil {
			fmt.Printf("error: run %d: %v\n", i+1, err)
			return
		}
		all = append(all, rs)
		printRun(rs)
	}

	printAggregate(all)
}

// countingNavigator counts accepted move orders.
type countingNavigator struct {
	*game.DemoUniverse
	orders int
}

func (n *countingNavigator) OrderMove(fleet game.FleetID, route []game.SystemID) bool {
	ok := n.DemoUniverse.OrderMove(fleet, route)
	if ok {
		n.orders++
	}
	return ok
}

var sessionKeys = []struct {
	key  ebiten.Key
	mods game.KeyMods
}{
	{ebiten.KeyEscape, 0},
	{ebiten.KeyEnter, 0},
	{ebiten.KeyEnter, game.ModCtrl},
	{ebiten.KeyBackquote, 0},
	{ebiten.KeyF2, 0},
	{ebiten.KeyF3, 0},
	{ebiten.KeyF4, 0},
	{ebiten.KeyF10, 0},
	{ebiten.KeyEqual, 0},
	{ebiten.KeyMinus, 0},
	{ebiten.KeyH, 0},
	{ebiten.KeyComma, 0},
	{ebiten.KeyPeriod, 0},
	{ebiten.KeyF, 0},
	{ebiten.KeyF, game.ModShift},
	{ebiten.KeyN, 0},
	{ebiten.KeyN, game.ModShift},
	{ebiten.KeyBackspace, 0},
}

// runSession drives a map window over a generated universe with random
// input and checks the viewport and registry invariants after every step.
func runSession(runIndex int, seed int64, steps, systems int, logger logging.Logger) (runStats, error) {
	rng := rand.New(rand.NewSource(seed))
	cfg := game.DefaultConfig()
	universe := game.NewDemoUniverse(seed, systems, cfg.Viewport.MapSize)
	nav := &countingNavigator{DemoUniverse: universe}
	menu := &game.BasicMenu{}

	rs := runStats{
		runIndex: runIndex,
		seed:     seed,
		steps:    steps,
		actions:  map[string]int{},
		signals:  map[string]int{},
	}

	var w *game.MapWnd
	endTurn := func() {
		universe.AdvanceTurn()
		w.InitTurn(w.Turn() + 1)
		rs.turns++
		rs.danglingPaths += countDangling(w, universe)
	}
	w, err := game.NewMapWnd(cfg, game.Deps{
		Universe:  universe,
		Navigator: nav,
		Menu:      menu,
		Clipboard: &game.MemoryClipboard{},
		Logger:    logger,
		OnEndTurn: endTurn,
	})
	if err != nil {
		return rs, err
	}
	for _, s := range []*game.Signal[game.SystemID]{w.SystemLeftClicked, w.SystemRightClicked, w.SystemBrowsed} {
		name := s.Name()
		s.Connect(func(game.SystemID) { rs.signals[name]++ })
	}
	w.InitTurn(1)

	view := cfg.Viewport.ViewSize
	randPt := func() game.Vec2 {
		return game.Vec2{X: rng.Float64() * view.X, Y: rng.Float64() * view.Y}
	}

	for step := 0; step < steps; step++ {
		action := pickAction(rng)
		rs.actions[action]++
		switch action {
		case "wheel":
			w.HandleEvent(game.InputEvent{Kind: game.EventMouseWheel, Pt: randPt(), Wheel: rng.Float64()*4 - 2})
		case "drag":
			p := randPt()
			w.HandleEvent(game.InputEvent{Kind: game.EventLButtonDown, Pt: p})
			for i := rng.Intn(5); i >= 0; i-- {
				p = p.Add(game.Vec2{X: rng.Float64()*80 - 40, Y: rng.Float64()*80 - 40})
				w.HandleEvent(game.InputEvent{Kind: game.EventLDrag, Pt: p})
			}
			w.HandleEvent(game.InputEvent{Kind: game.EventLButtonUp, Pt: p})
			w.HandleEvent(game.InputEvent{Kind: game.EventLClick, Pt: p})
		case "click":
			p := randPt()
			w.HandleEvent(game.InputEvent{Kind: game.EventLButtonDown, Pt: p})
			w.HandleEvent(game.InputEvent{Kind: game.EventLButtonUp, Pt: p})
			w.HandleEvent(game.InputEvent{Kind: game.EventLClick, Pt: p})
		case "dclick":
			p := randPt()
			for i := 0; i < 2; i++ {
				w.HandleEvent(game.InputEvent{Kind: game.EventLButtonDown, Pt: p})
				w.HandleEvent(game.InputEvent{Kind: game.EventLButtonUp, Pt: p})
				w.HandleEvent(game.InputEvent{Kind: game.EventLClick, Pt: p})
			}
			w.HandleEvent(game.InputEvent{Kind: game.EventLDoubleClick, Pt: p})
		case "rclick":
			w.HandleEvent(game.InputEvent{Kind: game.EventRClick, Pt: randPt()})
		case "move":
			w.HandleEvent(game.InputEvent{Kind: game.EventMouseMove, Pt: randPt()})
		case "key":
			k := sessionKeys[rng.Intn(len(sessionKeys))]
			w.HandleEvent(game.InputEvent{Kind: game.EventKeyPress, Key: k.key, Mods: k.mods})
			if w.ViewState() == game.ViewMenuOpen && rng.Intn(2) == 0 {
				w.CloseMenu()
			}
		case "type":
			w.HandleEvent(game.InputEvent{Kind: game.EventTextInput, Text: "zoom 1.5"})
		case "destroy":
			fleets := universe.Fleets()
			if len(fleets) > 0 {
				id := fleets[rng.Intn(len(fleets))].ID
				universe.DestroyFleet(id)
				if rng.Intn(2) == 0 {
					w.FleetDeleted(id)
					if _, ok := w.MovementLines().Path(id); ok {
						rs.danglingPaths++
					}
				}
			}
		case "save":
			if err := checkSaveRestore(w, rng); err != nil {
				if errors.Is(err, errCorruptAccepted) {
					rs.corruptAccepted++
				} else {
					rs.restoreFailures++
				}
			}
		case "resize":
			w.Resize(game.Vec2{X: 400 + rng.Float64()*1200, Y: 300 + rng.Float64()*700})
		case "endturn":
			w.EndTurn()
		}

		v := w.Viewport()
		lo, hi := v.ZoomLimits()
		if z := v.ZoomFactor(); z < lo || z > hi || math.IsNaN(z) {
			rs.zoomViolations++
		}
		minV, maxV := v.VisibleRect()
		if !rectsOverlap(minV, maxV, game.Vec2{}, v.Config().MapSize) {
			rs.visibilityViolations++
		}
		if e := roundTripError(v, rng); e > rs.maxRoundTripError {
			rs.maxRoundTripError = e
		}
		if n := len(w.Popups()); n > rs.maxPopups {
			rs.maxPopups = n
		}
	}
	rs.orders = nav.orders
	return rs, nil
}

var actionWeights = []struct {
	name   string
	weight int
}{
	{"wheel", 12},
	{"drag", 14},
	{"click", 14},
	{"dclick", 3},
	{"rclick", 8},
	{"move", 20},
	{"key", 16},
	{"type", 4},
	{"destroy", 2},
	{"save", 4},
	{"resize", 2},
	{"endturn", 4},
}

func pickAction(rng *rand.Rand) string {
	total := 0
	for _, a := range actionWeights {
		total += a.weight
	}
	n := rng.Intn(total)
	for _, a := range actionWeights {
		if n < a.weight {
			return a.name
		}
		n -= a.weight
	}
	return actionWeights[len(actionWeights)-1].name
}

var errCorruptAccepted = errors.New("corrupt view state accepted")

// checkSaveRestore saves and restores the view state, and sometimes feeds a
// truncated document that must be rejected.
func checkSaveRestore(w *game.MapWnd, rng *rand.Rand) error {
	data, err := w.SaveGameData()
	if err != nil {
		return err
	}
	if rng.Intn(4) == 0 && len(data) > 1 {
		var fe *game.FormatError
		if err := w.RestoreFromSaveData(data[:rng.Intn(len(data)-1)+1]); !errors.As(err, &fe) {
			return errCorruptAccepted
		}
		return nil
	}
	zoom := w.Viewport().ZoomFactor()
	if err := w.RestoreFromSaveData(data); err != nil {
		return err
	}
	if w.Viewport().ZoomFactor() != zoom {
		return fmt.Errorf("zoom %.4f restored as %.4f", zoom, w.Viewport().ZoomFactor())
	}
	return nil
}

// countDangling counts movement paths whose fleet no longer exists.
func countDangling(w *game.MapWnd, u game.Universe) int {
	n := 0
	for _, p := range w.MovementLines().Paths() {
		if _, ok := u.Fleet(p.Fleet); !ok {
			n++
		}
	}
	return n
}

func rectsOverlap(aMin, aMax, bMin, bMax game.Vec2) bool {
	return aMin.X < bMax.X && bMin.X < aMax.X && aMin.Y < bMax.Y && bMin.Y < aMax.Y
}

// roundTripError maps a few random screen points to the map and back and
// returns the largest distance from where they started.
func roundTripError(v *game.Viewport, rng *rand.Rand) float64 {
	size := v.Config().ViewSize
	worst := 0.0
	for i := 0; i < 4; i++ {
		p := game.Vec2{X: rng.Float64() * size.X, Y: rng.Float64() * size.Y}
		back := v.MapToScreen(v.ScreenToMap(p))
		if d := math.Sqrt(back.Sub(p).Len2()); d > worst {
			worst = d
		}
	}
	return worst
}

func (rs runStats) violations() []string {
	var out []string
	if rs.zoomViolations > 0 {
		out = append(out, fmt.Sprintf("zoom_out_of_range=%d", rs.zoomViolations))
	}
	if rs.visibilityViolations > 0 {
		out = append(out, fmt.Sprintf("map_not_visible=%d", rs.visibilityViolations))
	}
	if rs.danglingPaths > 0 {
		out = append(out, fmt.Sprintf("dangling_paths=%d", rs.danglingPaths))
	}
	if rs.restoreFailures > 0 {
		out = append(out, fmt.Sprintf("restore_failures=%d", rs.restoreFailures))
	}
	if rs.corruptAccepted > 0 {
		out = append(out, fmt.Sprintf("corrupt_accepted=%d", rs.corruptAccepted))
	}
	if rs.maxRoundTripError > roundTripTolerance {
		out = append(out, fmt.Sprintf("round_trip_error=%.3g", rs.maxRoundTripError))
	}
	return out
}

func verdict(rs runStats) string {
	v := rs.violations()
	if len(v) == 0 {
		return "ok"
	}
	return "FAIL " + strings.Join(v, " ")
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("session: steps=%d turns=%d orders=%d max_popups=%d\n", rs.steps, rs.turns, rs.orders, rs.maxPopups)
	fmt.Printf("actions: %s\n", formatCounts(rs.actions))
	fmt.Printf("signals: %s\n", formatCounts(rs.signals))
	fmt.Printf("max_round_trip_error=%.3g\n", rs.maxRoundTripError)
	fmt.Printf("verdict: %s\n\n", verdict(rs))
}

func printAggregate(all []runStats) {
	totalSteps := 0
	totalTurns := 0
	totalOrders := 0
	failed := 0
	worst := 0.0
	actions := map[string]int{}
	for _, rs := range all {
		totalSteps += rs.steps
		totalTurns += rs.turns
		totalOrders += rs.orders
		if len(rs.violations()) > 0 {
			failed++
		}
		if rs.maxRoundTripError > worst {
			worst = rs.maxRoundTripError
		}
		for k, v := range rs.actions {
			actions[k] += v
		}
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d failed=%d\n", len(all), failed)
	fmt.Printf("avg_per_run: steps=%.1f turns=%.1f orders=%.1f\n",
		avg(totalSteps, len(all)), avg(totalTurns, len(all)), avg(totalOrders, len(all)))
	fmt.Printf("actions: %s\n", formatCounts(actions))
	fmt.Printf("worst_round_trip_error=%.3g\n", worst)
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func formatCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, counts[k])
	}
	return strings.Join(parts, " ")
}
