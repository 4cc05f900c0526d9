package game

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Star-Map/internal/logging"
)

// MetricsRecorder receives map window gauges and counters.
type MetricsRecorder interface {
	SetZoom(z float64)
	SetCounts(popups, starlanes, fleetPaths int)
	SignalEmitted(name string)
	PopupClosed()
	RestoreFailed()
}

// Navigator plots and issues fleet moves for the map window.
type Navigator interface {
	PlotRoute(fleet FleetID, dest SystemID) ([]SystemID, bool)
	OrderMove(fleet FleetID, route []SystemID) bool
}

// Deps are the collaborators of the map window. Only Universe is required;
// missing panels are replaced by invisible stand-ins.
type Deps struct {
	Universe   Universe
	Navigator  Navigator
	SidePanel  SidePanel
	Production Panel // a ProductionScreen also learns double-clicked systems
	Research   ResearchScreen
	SitRep     Panel
	Resources  ResourceSource
	Menu       Menu
	Chat       ChatTransport
	Clipboard  Clipboard
	Metrics    MetricsRecorder
	Logger     logging.Logger

	// OnEndTurn runs after EndTurn has cleaned up the window.
	OnEndTurn func()
}

type textInputKind int

const (
	inputNone textInputKind = iota
	inputChat
	inputConsole
)

// MapWnd is the main map window: it owns the viewport, the parallax layers,
// the movement line registry, the popups and the accelerator table, and
// translates input events into operations on them.
type MapWnd struct {
	cfg Config

	universe   Universe
	navigator  Navigator
	sidePanel  SidePanel
	production Panel
	research   ResearchScreen
	sitRep     Panel
	resources  ResourceSource
	menu       Menu
	chat       ChatTransport
	clipboard  Clipboard
	metrics    MetricsRecorder
	log        logging.Logger
	onEndTurn  func()

	viewport *Viewport
	parallax *ParallaxTracker
	lines    *MovementLines
	popups   *PopupManager
	views    *ViewMachine
	accels   *AcceleratorTable
	chatLog  *ChatLog

	SystemLeftClicked   *Signal[SystemID]
	SystemRightClicked  *Signal[SystemID]
	SystemBrowsed       *Signal[SystemID]
	SystemDoubleClicked *Signal[SystemID]

	filters      []installedFilter
	nextFilterID uint32

	turn           int
	selectedSystem SystemID
	selectedFleet  FleetID
	browsed        SystemID
	showNames      bool
	clickAccepted  bool // the last left click was not the end of a drag
	pools          [resourceKindCount]ResourceIndicator

	input       textInputKind
	inputLine   string
	inputFilter FilterHandle
}

// NewMapWnd builds a map window over deps.Universe. The viewport's map size
// is taken from the universe when it reports one.
func NewMapWnd(cfg Config, deps Deps) (*MapWnd, error) {
	if deps.Universe == nil {
		return nil, errors.New("map window needs a universe")
	}
	if size := deps.Universe.Size(); size.X > 0 && size.Y > 0 {
		cfg.Viewport.MapSize = size
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("map window config: %w", err)
	}

	w := &MapWnd{
		cfg:            cfg,
		universe:       deps.Universe,
		navigator:      deps.Navigator,
		sidePanel:      deps.SidePanel,
		production:     deps.Production,
		research:       deps.Research,
		sitRep:         deps.SitRep,
		resources:      deps.Resources,
		menu:           deps.Menu,
		chat:           deps.Chat,
		clipboard:      deps.Clipboard,
		metrics:        deps.Metrics,
		log:            deps.Logger,
		onEndTurn:      deps.OnEndTurn,
		viewport:       NewViewport(cfg.Viewport),
		parallax:       NewParallaxTracker(cfg.Backgrounds),
		lines:          NewMovementLines(deps.Universe),
		popups:         NewPopupManager(),
		accels:         NewAcceleratorTable(),
		chatLog:        NewChatLog(cfg.ChatLogSize, cfg.ChatWrapWidth),
		selectedSystem: InvalidSystemID,
		selectedFleet:  InvalidFleetID,
		browsed:        InvalidSystemID,
		showNames:      true,
	}
	if w.sidePanel == nil {
		w.sidePanel = NewBasicSidePanel()
	}
	if w.production == nil {
		w.production = NewBasicProductionScreen()
	}
	if w.research == nil {
		w.research = NewBasicResearchScreen()
	}
	if w.sitRep == nil {
		w.sitRep = NewBasicPanel("Situation Report")
	}
	if rs, ok := w.universe.(ResourceSource); ok && w.resources == nil {
		w.resources = rs
	}
	if w.menu == nil {
		w.menu = &BasicMenu{}
	}
	if w.clipboard == nil {
		w.clipboard = SystemClipboard{}
	}
	if w.log == nil {
		w.log = logging.Noop()
	}
	w.log = w.log.With(logging.String("component", "mapwnd"))

	w.views = NewViewMachine(ViewHooks{Enter: w.enterView, Leave: w.leaveView})

	w.SystemLeftClicked = w.newSignal("system_left_clicked")
	w.SystemRightClicked = w.newSignal("system_right_clicked")
	w.SystemBrowsed = w.newSignal("system_browsed")
	w.SystemDoubleClicked = w.newSignal("system_double_clicked")

	w.bindAccelerators()
	w.refreshMetrics()
	return w, nil
}

func (w *MapWnd) newSignal(name string) *Signal[SystemID] {
	s := NewSignal[SystemID](name)
	if w.metrics != nil {
		s.onEmit = w.metrics.SignalEmitted
	}
	return s
}

func (w *MapWnd) bindAccelerators() {
	a := w.accels
	a.Bind(ebiten.KeyEscape, 0, w.ReturnToMap)
	a.Bind(ebiten.KeyEnter, 0, w.OpenChatWindow)
	a.Bind(ebiten.KeyEnter, ModCtrl, w.EndTurn)
	a.Bind(ebiten.KeyBackquote, 0, w.OpenConsoleWindow)
	a.Bind(ebiten.KeyF2, 0, w.ToggleSitRep)
	a.Bind(ebiten.KeyF3, 0, w.ToggleResearch)
	a.Bind(ebiten.KeyF4, 0, w.ToggleProduction)
	a.Bind(ebiten.KeyF10, 0, w.ShowMenu)
	a.Bind(ebiten.KeyEqual, 0, w.KeyboardZoomIn)
	a.Bind(ebiten.KeyMinus, 0, w.KeyboardZoomOut)
	a.Bind(ebiten.KeyH, 0, w.ZoomToHomeSystem)
	a.Bind(ebiten.KeyComma, 0, w.ZoomToPrevOwnedSystem)
	a.Bind(ebiten.KeyPeriod, 0, w.ZoomToNextOwnedSystem)
	a.Bind(ebiten.KeyF, 0, w.ZoomToNextIdleFleet)
	a.Bind(ebiten.KeyF, ModShift, w.ZoomToPrevIdleFleet)
	a.Bind(ebiten.KeyN, 0, w.ZoomToNextFleet)
	a.Bind(ebiten.KeyN, ModShift, w.ZoomToPrevFleet)
	a.Bind(ebiten.KeyC, ModCtrl, w.CopyViewState)
}

// Component accessors.

func (w *MapWnd) Viewport() *Viewport             { return w.viewport }
func (w *MapWnd) Parallax() *ParallaxTracker      { return w.parallax }
func (w *MapWnd) MovementLines() *MovementLines   { return w.lines }
func (w *MapWnd) Accelerators() *AcceleratorTable { return w.accels }
func (w *MapWnd) ViewState() ViewState            { return w.views.State() }
func (w *MapWnd) Turn() int                       { return w.turn }
func (w *MapWnd) SelectedSystem() SystemID        { return w.selectedSystem }
func (w *MapWnd) SelectedFleet() FleetID          { return w.selectedFleet }
func (w *MapWnd) BrowsedSystem() SystemID         { return w.browsed }
func (w *MapWnd) SystemNamesShown() bool          { return w.showNames }
func (w *MapWnd) InProductionViewMode() bool      { return w.views.State() == ViewProduction }
func (w *MapWnd) Backgrounds() []BackgroundLayer  { return w.parallax.Layers() }
func (w *MapWnd) ChatLines(n int) []ChatEntry     { return w.chatLog.Recent(n) }
func (w *MapWnd) SidePanel() SidePanel            { return w.sidePanel }
func (w *MapWnd) Popups() []Popup                 { return w.popups.Popups() }

// DisableAlphaNumAccels suppresses typing keys while a text field has focus.
func (w *MapWnd) DisableAlphaNumAccels() { w.accels.DisableAlphaNumAccels() }

func (w *MapWnd) SetAccelerators()    { w.accels.SetAccelerators() }
func (w *MapWnd) RemoveAccelerators() { w.accels.RemoveAccelerators() }

// SetProjectedMovement previews a route for fleet without ordering it.
func (w *MapWnd) SetProjectedMovement(fleet FleetID, route []SystemID) {
	w.lines.SetProjectedMovement(fleet, route)
}

// ClearProjectedMovement drops the previewed route.
func (w *MapWnd) ClearProjectedMovement() { w.lines.ClearProjectedMovement() }

// EnableAlphaNumAccels pops one DisableAlphaNumAccels. An unmatched call is
// logged and ignored.
func (w *MapWnd) EnableAlphaNumAccels() {
	if !w.accels.EnableAlphaNumAccels() {
		w.log.Warn("enable alphanumeric accelerators without matching disable")
	}
}

// TextInput reports the open text overlay ("chat", "console" or "") and its
// current line.
func (w *MapWnd) TextInput() (string, string) {
	switch w.input {
	case inputChat:
		return "chat", w.inputLine
	case inputConsole:
		return "console", w.inputLine
	default:
		return "", ""
	}
}

// track runs fn and feeds the resulting movement of the map origin on screen
// to the parallax layers.
func (w *MapWnd) track(fn func()) {
	before := w.viewport.MapToScreen(Vec2{})
	fn()
	if d := w.viewport.MapToScreen(Vec2{}).Sub(before); d != (Vec2{}) {
		w.parallax.OnViewportMoved(d)
	}
}

func (w *MapWnd) refreshMetrics() {
	if w.metrics == nil {
		return
	}
	lanes, paths := w.lines.Counts()
	w.metrics.SetZoom(w.viewport.ZoomFactor())
	w.metrics.SetCounts(w.popups.Len(), lanes, paths)
}

// Viewport operations.

// Zoom zooms about the view centre by delta steps.
func (w *MapWnd) Zoom(delta float64) {
	w.track(func() { w.viewport.Zoom(delta) })
	w.refreshMetrics()
}

// Pan moves the map by a screen-space displacement.
func (w *MapWnd) Pan(d Vec2) {
	w.track(func() { w.viewport.Pan(d) })
}

// Resize tells the window its new size in pixels.
func (w *MapWnd) Resize(size Vec2) {
	w.track(func() { w.viewport.Resize(size) })
}

func (w *MapWnd) KeyboardZoomIn() bool {
	w.Zoom(1)
	return true
}

func (w *MapWnd) KeyboardZoomOut() bool {
	w.Zoom(-1)
	return true
}

// CenterOnMapCoord centres the view on a map position.
func (w *MapWnd) CenterOnMapCoord(p Vec2) {
	w.track(func() { w.viewport.CenterOn(p) })
}

// CenterOnSystem centres on a system. Returns false if it no longer exists.
func (w *MapWnd) CenterOnSystem(id SystemID) bool {
	sys, ok := w.universe.System(id)
	if !ok {
		return false
	}
	w.CenterOnMapCoord(sys.Pos)
	return true
}

// CenterOnFleet centres on a fleet. Returns false if it no longer exists.
func (w *MapWnd) CenterOnFleet(id FleetID) bool {
	f, ok := w.universe.Fleet(id)
	if !ok {
		return false
	}
	w.CenterOnMapCoord(f.Pos)
	return true
}

// Selection.

// SelectSystem selects id and shows it in the side panel. InvalidSystemID,
// or a system that no longer exists, clears the selection.
func (w *MapWnd) SelectSystem(id SystemID) {
	if _, ok := w.universe.System(id); !ok {
		id = InvalidSystemID
	}
	if id == w.selectedSystem {
		return
	}
	w.selectedSystem = id
	w.sidePanel.SetSystem(id)
	if id == InvalidSystemID {
		w.sidePanel.Hide()
		return
	}
	w.sidePanel.Show()
}

// SelectFleet selects a fleet. Changing the selection drops any projected
// path.
func (w *MapWnd) SelectFleet(id FleetID) {
	if _, ok := w.universe.Fleet(id); !ok {
		id = InvalidFleetID
	}
	if id == w.selectedFleet {
		return
	}
	w.selectedFleet = id
	w.lines.ClearProjectedMovement()
}

// FleetDeleted forgets everything the window holds about a fleet.
func (w *MapWnd) FleetDeleted(id FleetID) {
	w.lines.RemoveFleet(id)
	if w.selectedFleet == id {
		w.selectedFleet = InvalidFleetID
	}
	w.refreshMetrics()
}

// SetFleetMovement records a fleet's route.
func (w *MapWnd) SetFleetMovement(id FleetID, route []SystemID) {
	w.lines.SetFleetMovement(id, route)
	w.refreshMetrics()
}

// Cycling.

func (w *MapWnd) ZoomToHomeSystem() bool {
	home, ok := w.universe.HomeSystem()
	if !ok {
		return false
	}
	return w.zoomToSystem(home)
}

func (w *MapWnd) ZoomToPrevOwnedSystem() bool { return w.cycleOwnedSystem(-1) }
func (w *MapWnd) ZoomToNextOwnedSystem() bool { return w.cycleOwnedSystem(1) }
func (w *MapWnd) ZoomToPrevIdleFleet() bool   { return w.cycleFleet(-1, true) }
func (w *MapWnd) ZoomToNextIdleFleet() bool   { return w.cycleFleet(1, true) }
func (w *MapWnd) ZoomToPrevFleet() bool       { return w.cycleFleet(-1, false) }
func (w *MapWnd) ZoomToNextFleet() bool       { return w.cycleFleet(1, false) }

func (w *MapWnd) zoomToSystem(id SystemID) bool {
	if !w.CenterOnSystem(id) {
		return false
	}
	w.SelectSystem(id)
	return true
}

func (w *MapWnd) cycleOwnedSystem(step int) bool {
	var ids []SystemID
	for _, s := range w.universe.Systems() {
		if s.Owned {
			ids = append(ids, s.ID)
		}
	}
	next, ok := cycle(ids, w.selectedSystem, step)
	if !ok {
		return false
	}
	return w.zoomToSystem(next)
}

func (w *MapWnd) cycleFleet(step int, idleOnly bool) bool {
	var ids []FleetID
	for _, f := range w.universe.Fleets() {
		if !f.Owned || (idleOnly && len(f.Route) > 0) {
			continue
		}
		ids = append(ids, f.ID)
	}
	next, ok := cycle(ids, w.selectedFleet, step)
	if !ok {
		return false
	}
	w.SelectFleet(next)
	return w.CenterOnFleet(next)
}

// cycle returns the id step places after cur in ascending order, wrapping.
// When cur is not in ids the first (step > 0) or last id is returned.
func cycle[T ~int](ids []T, cur T, step int) (T, bool) {
	if len(ids) == 0 {
		return cur, false
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for i, id := range ids {
		if id == cur {
			n := len(ids)
			return ids[((i+step)%n+n)%n], true
		}
	}
	if step > 0 {
		return ids[0], true
	}
	return ids[len(ids)-1], true
}

// Screens.

func (w *MapWnd) enterView(s ViewState) {
	switch s {
	case ViewProduction:
		w.popups.HideAllPopups()
		w.production.Show()
	case ViewResearch:
		w.popups.HideAllPopups()
		w.research.Show()
	case ViewMenuOpen:
		w.menu.Show()
	}
	w.log.Debug("view entered", logging.String("view", s.String()))
}

func (w *MapWnd) leaveView(s ViewState) {
	switch s {
	case ViewProduction:
		w.production.Hide()
		w.popups.ShowAllPopups()
	case ViewResearch:
		w.research.Hide()
		w.popups.ShowAllPopups()
	case ViewMenuOpen:
		w.menu.Hide()
	}
}

func (w *MapWnd) ToggleProduction() bool {
	w.views.Toggle(ViewProduction)
	return true
}

func (w *MapWnd) ToggleResearch() bool {
	w.views.Toggle(ViewResearch)
	return true
}

func (w *MapWnd) ToggleSitRep() bool {
	if w.sitRep.Visible() {
		w.sitRep.Hide()
	} else {
		w.sitRep.Show()
	}
	return true
}

// ShowTech opens the research screen on the named tech.
func (w *MapWnd) ShowTech(name string) {
	if w.views.State() != ViewResearch {
		w.views.Enter(ViewResearch)
	}
	w.research.CenterOnTech(name)
}

// ShowMenu opens the in-game menu. A second call while it is open is
// rejected and returns false.
func (w *MapWnd) ShowMenu() bool {
	if !w.views.Enter(ViewMenuOpen) {
		w.log.Debug("menu already open")
		return false
	}
	return true
}

// CloseMenu is called when the menu is dismissed.
func (w *MapWnd) CloseMenu() { w.views.Exit(ViewMenuOpen) }

// ReturnToMap backs out of whatever is in front of the map, one layer per
// call, starting with an open text input and ending with the system view.
func (w *MapWnd) ReturnToMap() bool {
	switch {
	case w.input != inputNone:
		w.CloseTextInput()
	case w.views.State() != ViewNormal:
		w.views.Enter(ViewNormal)
	case w.hasProjection():
		w.lines.ClearProjectedMovement()
	case w.sitRep.Visible():
		w.sitRep.Hide()
	default:
		w.CloseSystemView()
	}
	return true
}

func (w *MapWnd) hasProjection() bool {
	_, ok := w.lines.ProjectedPath()
	return ok
}

// CloseSystemView hides the side panel and clears the system selection.
func (w *MapWnd) CloseSystemView() bool {
	w.SelectSystem(InvalidSystemID)
	w.sidePanel.Hide()
	return true
}

// ShowSystemNames and HideSystemNames toggle name labels on system markers.
func (w *MapWnd) ShowSystemNames() { w.showNames = true }
func (w *MapWnd) HideSystemNames() { w.showNames = false }

// Popups.

// RegisterPopup adds p to the popups closed by CloseAllPopups.
func (w *MapWnd) RegisterPopup(p Popup) {
	w.popups.RegisterPopup(p)
	w.refreshMetrics()
}

func (w *MapWnd) RemovePopup(p Popup) {
	w.popups.RemovePopup(p)
	w.refreshMetrics()
}

func (w *MapWnd) CloseAllPopups() {
	n := w.popups.CloseAllPopups()
	if w.metrics != nil {
		for range n {
			w.metrics.PopupClosed()
		}
	}
	w.refreshMetrics()
}

func (w *MapWnd) HideAllPopups() { w.popups.HideAllPopups() }
func (w *MapWnd) ShowAllPopups() { w.popups.ShowAllPopups() }

// Resource indicators.

// ResourceIndicator is one resource readout on the toolbar.
type ResourceIndicator struct {
	Kind  ResourceKind
	Pool  ResourcePool
	Known bool
}

// ResourcePoolChanged rereads one pool from the resource source.
func (w *MapWnd) ResourcePoolChanged(kind ResourceKind) {
	if kind < 0 || kind >= resourceKindCount {
		return
	}
	ind := ResourceIndicator{Kind: kind}
	if w.resources != nil {
		ind.Pool, ind.Known = w.resources.ResourcePool(kind)
	}
	w.pools[kind] = ind
}

func (w *MapWnd) refreshResources() {
	for k := ResourceKind(0); k < resourceKindCount; k++ {
		w.ResourcePoolChanged(k)
	}
}

// ResourceIndicators returns the known pools in toolbar order.
func (w *MapWnd) ResourceIndicators() []ResourceIndicator {
	var out []ResourceIndicator
	for _, ind := range w.pools {
		if ind.Known {
			out = append(out, ind)
		}
	}
	return out
}

// Turn lifecycle.

// InitTurn prepares the window for a new turn: dangling paths are dropped,
// starlanes and fleet routes are reloaded from the universe and accelerators
// come back on. The first turn centres on the home system.
func (w *MapWnd) InitTurn(turn int) {
	w.turn = turn
	if n := w.lines.PurgeUnresolved(); n > 0 {
		w.log.Debug("dropped paths of vanished fleets", logging.Int("count", n))
	}
	for _, s := range w.universe.Systems() {
		for _, other := range s.Lanes {
			w.lines.AddStarlane(s.ID, other)
		}
	}
	for _, f := range w.universe.Fleets() {
		w.lines.SetFleetMovement(f.ID, f.Route)
	}
	if _, ok := w.universe.Fleet(w.selectedFleet); !ok {
		w.selectedFleet = InvalidFleetID
	}
	if _, ok := w.universe.System(w.selectedSystem); !ok {
		w.SelectSystem(InvalidSystemID)
	}
	w.refreshResources()
	w.accels.SetAccelerators()
	if turn == 1 {
		w.ZoomToHomeSystem()
	}
	w.refreshMetrics()
	lanes, paths := w.lines.Counts()
	w.log.Info("turn started",
		logging.Int("turn", turn),
		logging.Int("starlanes", lanes),
		logging.Int("fleet_paths", paths),
	)
}

// Cleanup closes everything transient at the end of a turn.
func (w *MapWnd) Cleanup() {
	w.CloseAllPopups()
	w.CloseTextInput()
	w.views.Enter(ViewNormal)
	w.sitRep.Hide()
	w.lines.ClearProjectedMovement()
	w.viewport.EndDrag()
	w.accels.RemoveAccelerators()
	w.refreshMetrics()
}

// Sanitize returns the window to its freshly constructed state, for the end
// of a game.
func (w *MapWnd) Sanitize() {
	w.Cleanup()
	w.viewport.Reset()
	w.parallax.Reset()
	w.lines.Clear()
	w.SelectSystem(InvalidSystemID)
	w.sidePanel.Hide()
	w.selectedFleet = InvalidFleetID
	w.browsed = InvalidSystemID
	w.showNames = true
	w.pools = [resourceKindCount]ResourceIndicator{}
	w.chatLog.Clear()
	w.accels.ResetSuppression()
	w.turn = 0
	w.refreshMetrics()
}

// EndTurn cleans up and hands control to the end-turn callback.
func (w *MapWnd) EndTurn() bool {
	w.Cleanup()
	if w.onEndTurn == nil {
		w.log.Warn("end turn requested with no handler")
		return true
	}
	w.onEndTurn()
	return true
}

// CopyViewState puts the saved view state on the clipboard.
func (w *MapWnd) CopyViewState() bool {
	data, err := w.SaveGameData()
	if err != nil {
		w.log.Error("encode view state", logging.Err(err))
		return true
	}
	if err := w.clipboard.WriteAll(string(data)); err != nil {
		w.log.Warn("copy view state", logging.Err(err))
	}
	return true
}

// Picking.

// SystemAt returns the system whose marker is under screen point pt.
func (w *MapWnd) SystemAt(pt Vec2) (SystemID, bool) {
	mp := w.viewport.ScreenToMap(pt)
	r := w.cfg.PickRadius / w.viewport.ZoomFactor()
	best, bestD := InvalidSystemID, r*r
	for _, s := range w.universe.Systems() {
		if d := s.Pos.Sub(mp).Len2(); d <= bestD {
			best, bestD = s.ID, d
		}
	}
	return best, best != InvalidSystemID
}

// fleetMarkerOffset places fleet markers beside their system rather than on
// top of it, in screen pixels.
var fleetMarkerOffset = Vec2{X: -10, Y: -10}

// FleetAt returns the fleet whose marker is under screen point pt.
func (w *MapWnd) FleetAt(pt Vec2) (FleetID, bool) {
	r := w.cfg.PickRadius / 2
	best, bestD := InvalidFleetID, r*r
	for _, f := range w.universe.Fleets() {
		p := w.viewport.MapToScreen(f.Pos).Add(fleetMarkerOffset)
		if d := p.Sub(pt).Len2(); d <= bestD {
			best, bestD = f.ID, d
		}
	}
	return best, best != InvalidFleetID
}

// Event handlers, reached through HandleEvent.

func (w *MapWnd) lButtonDown(ev InputEvent) bool {
	w.viewport.BeginDrag(ev.Pt)
	return true
}

func (w *MapWnd) lDrag(ev InputEvent) bool {
	if !w.viewport.Dragging() {
		return false
	}
	if d := w.viewport.DragTo(ev.Pt); d != (Vec2{}) {
		w.parallax.OnViewportMoved(d)
	}
	return true
}

func (w *MapWnd) lButtonUp(InputEvent) bool {
	w.viewport.EndDrag()
	return true
}

func (w *MapWnd) lClick(ev InputEvent) bool {
	w.clickAccepted = w.viewport.ConsumeClick()
	if !w.clickAccepted {
		return true
	}
	if id, ok := w.FleetAt(ev.Pt); ok {
		w.SelectFleet(id)
		return true
	}
	id, ok := w.SystemAt(ev.Pt)
	if !ok {
		w.SelectSystem(InvalidSystemID)
		return true
	}
	w.SystemLeftClicked.Emit(id)
	w.SelectSystem(id)
	return true
}

// lDoubleClick opens the production screen on the system under the cursor.
func (w *MapWnd) lDoubleClick(ev InputEvent) bool {
	if !w.clickAccepted {
		return false
	}
	id, ok := w.SystemAt(ev.Pt)
	if !ok {
		return false
	}
	w.SelectSystem(id)
	w.SystemDoubleClicked.Emit(id)
	if ps, ok := w.production.(ProductionScreen); ok {
		ps.SetSystem(id)
	}
	if w.views.State() != ViewProduction {
		w.views.Enter(ViewProduction)
	}
	return true
}

func (w *MapWnd) rClick(ev InputEvent) bool {
	id, ok := w.SystemAt(ev.Pt)
	if !ok {
		return false
	}
	w.SystemRightClicked.Emit(id)
	w.orderSelectedFleet(id)
	return true
}

// orderSelectedFleet confirms the projected path to dest for the selected
// fleet.
func (w *MapWnd) orderSelectedFleet(dest SystemID) {
	if w.navigator == nil || w.selectedFleet == InvalidFleetID {
		return
	}
	proj, ok := w.lines.ProjectedPath()
	if !ok || proj.Fleet != w.selectedFleet || len(proj.Route) == 0 || proj.Route[len(proj.Route)-1] != dest {
		route, plotted := w.navigator.PlotRoute(w.selectedFleet, dest)
		if !plotted {
			return
		}
		proj.Route = route
	}
	if !w.navigator.OrderMove(w.selectedFleet, proj.Route) {
		w.log.Debug("move order rejected", logging.Int("fleet", int(w.selectedFleet)))
		return
	}
	w.SetFleetMovement(w.selectedFleet, proj.Route)
}

func (w *MapWnd) mouseMove(ev InputEvent) bool {
	id, _ := w.SystemAt(ev.Pt)
	if id == w.browsed {
		return false
	}
	w.browsed = id
	w.SystemBrowsed.Emit(id)
	w.projectSelectedFleet(id)
	return false
}

// projectSelectedFleet previews the route of the selected fleet to dest.
func (w *MapWnd) projectSelectedFleet(dest SystemID) {
	if w.navigator == nil || w.selectedFleet == InvalidFleetID {
		return
	}
	if dest == InvalidSystemID {
		w.lines.ClearProjectedMovement()
		return
	}
	route, ok := w.navigator.PlotRoute(w.selectedFleet, dest)
	if !ok {
		w.lines.ClearProjectedMovement()
		return
	}
	w.lines.SetProjectedMovement(w.selectedFleet, route)
}

func (w *MapWnd) mouseWheel(ev InputEvent) bool {
	if ev.Wheel == 0 {
		return false
	}
	w.track(func() { w.viewport.ZoomAt(ev.Wheel, ev.Pt) })
	w.refreshMetrics()
	return true
}

func (w *MapWnd) keyPress(ev InputEvent) bool {
	return w.accels.Dispatch(ev.Key, ev.Mods)
}

func (w *MapWnd) textInput(InputEvent) bool {
	return false
}

// Geometry for the renderer. All positions are in screen space.

// Segment is a line between two screen points.
type Segment struct {
	From, To Vec2
}

// StarlaneSegments returns the lanes whose endpoints both still resolve.
func (w *MapWnd) StarlaneSegments() []Segment {
	lanes := w.lines.Starlanes()
	out := make([]Segment, 0, len(lanes))
	for _, e := range lanes {
		a, okA := w.universe.System(e.A)
		b, okB := w.universe.System(e.B)
		if !okA || !okB {
			continue
		}
		out = append(out, Segment{From: w.viewport.MapToScreen(a.Pos), To: w.viewport.MapToScreen(b.Pos)})
	}
	return out
}

// FleetLine is a movement path as a polyline.
type FleetLine struct {
	Fleet     FleetID
	Points    []Vec2
	Color     color.RGBA
	Projected bool
}

// FleetLines returns every fleet path followed by the projected path.
func (w *MapWnd) FleetLines() []FleetLine {
	paths := w.lines.Paths()
	out := make([]FleetLine, 0, len(paths)+1)
	for _, p := range paths {
		out = append(out, w.fleetLine(p, false))
	}
	if p, ok := w.lines.ProjectedPath(); ok {
		out = append(out, w.fleetLine(p, true))
	}
	return out
}

func (w *MapWnd) fleetLine(p MovementPath, projected bool) FleetLine {
	pts := w.lines.Points(p)
	for i := range pts {
		pts[i] = w.viewport.MapToScreen(pts[i])
	}
	return FleetLine{Fleet: p.Fleet, Points: pts, Color: p.Color, Projected: projected}
}

// SystemMarker is a system as the renderer draws it.
type SystemMarker struct {
	ID       SystemID
	Name     string // empty while names are hidden
	Pos      Vec2
	Owned    bool
	Selected bool
	Browsed  bool
}

// SystemMarkers returns the systems inside the view, padded by the pick
// radius.
func (w *MapWnd) SystemMarkers() []SystemMarker {
	pad := w.cfg.PickRadius
	view := w.viewport.Config().ViewSize
	var out []SystemMarker
	for _, s := range w.universe.Systems() {
		p := w.viewport.MapToScreen(s.Pos)
		if p.X < -pad || p.Y < -pad || p.X > view.X+pad || p.Y > view.Y+pad {
			continue
		}
		m := SystemMarker{
			ID:       s.ID,
			Pos:      p,
			Owned:    s.Owned,
			Selected: s.ID == w.selectedSystem,
			Browsed:  s.ID == w.browsed,
		}
		if w.showNames {
			m.Name = s.Name
		}
		out = append(out, m)
	}
	return out
}

// FleetMarker is a fleet as the renderer draws it.
type FleetMarker struct {
	ID       FleetID
	Pos      Vec2
	Fleet    Fleet
	Selected bool
}

// FleetMarkers returns every fleet in screen space, offset beside its
// position.
func (w *MapWnd) FleetMarkers() []FleetMarker {
	fleets := w.universe.Fleets()
	out := make([]FleetMarker, 0, len(fleets))
	for _, f := range fleets {
		out = append(out, FleetMarker{
			ID:       f.ID,
			Pos:      w.viewport.MapToScreen(f.Pos).Add(fleetMarkerOffset),
			Fleet:    f,
			Selected: f.ID == w.selectedFleet,
		})
	}
	return out
}

// ZoomPercent is the zoom factor for display.
func (w *MapWnd) ZoomPercent() int {
	return int(math.Round(w.viewport.ZoomFactor() * 100))
}
