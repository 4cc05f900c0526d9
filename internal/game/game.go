package game

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Star-Map/internal/logging"
)

// panSpeed is the keyboard pan rate in pixels per frame.
const panSpeed = 8.0

// Options configure the ebiten front end.
type Options struct {
	Config    Config
	Seed      int64
	Systems   int
	Chat      ChatTransport
	Clipboard Clipboard
	Metrics   MetricsRecorder
	Logger    logging.Logger
}

// Game runs a MapWnd over a generated universe as an ebiten.Game.
type Game struct {
	wnd      *MapWnd
	universe *DemoUniverse
	renderer *Renderer
	input    InputPoller
	log      logging.Logger

	width, height int
}

// New builds the demo universe and its map window and starts turn 1.
func New(opts Options) (*Game, error) {
	if opts.Logger == nil {
		opts.Logger = logging.Noop()
	}
	if opts.Systems <= 0 {
		opts.Systems = 40
	}
	g := &Game{
		universe: NewDemoUniverse(opts.Seed, opts.Systems, opts.Config.Viewport.MapSize),
		renderer: NewRenderer(opts.Seed),
		log:      opts.Logger,
		width:    int(opts.Config.Viewport.ViewSize.X),
		height:   int(opts.Config.Viewport.ViewSize.Y),
	}
	wnd, err := NewMapWnd(opts.Config, Deps{
		Universe:   g.universe,
		Navigator:  g.universe,
		SidePanel:  NewBasicSidePanel(),
		Production: NewBasicProductionScreen(),
		Research:   NewBasicResearchScreen(),
		SitRep:     NewBasicPanel("Situation Report"),
		Menu:       &BasicMenu{},
		Chat:       opts.Chat,
		Clipboard:  opts.Clipboard,
		Metrics:    opts.Metrics,
		Logger:     opts.Logger,
		OnEndTurn:  g.endTurn,
	})
	if err != nil {
		return nil, err
	}
	g.wnd = wnd
	wnd.PushEventFilter(g.dismissPopup)
	wnd.InitTurn(1)
	return g, nil
}

// Window exposes the map window.
func (g *Game) Window() *MapWnd { return g.wnd }

func (g *Game) Update() error {
	for _, ev := range g.input.Poll() {
		g.wnd.HandleEvent(ev)
	}
	g.handleKeyboardPan()
	g.wnd.PollChat()
	return nil
}

// handleKeyboardPan pans while an arrow key is held.
func (g *Game) handleKeyboardPan() {
	var d Vec2
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		d.Y += panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		d.Y -= panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		d.X += panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		d.X -= panSpeed
	}
	if d != (Vec2{}) {
		g.wnd.Pan(d)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen, g.wnd)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 && (outsideWidth != g.width || outsideHeight != g.height) {
		g.width, g.height = outsideWidth, outsideHeight
		g.wnd.Resize(Vec2{X: float64(g.width), Y: float64(g.height)})
	}
	return g.width, g.height
}

// endTurn advances the universe and starts the next turn, posting a popup
// for every owned fleet that reached its destination.
func (g *Game) endTurn() {
	arrived := g.universe.AdvanceTurn()
	next := g.wnd.Turn() + 1
	g.wnd.InitTurn(next)
	for _, id := range arrived {
		f, ok := g.universe.Fleet(id)
		if !ok || !f.Owned {
			continue
		}
		at, _ := g.universe.FleetLocation(id)
		sys, _ := g.universe.System(at)
		p := NewMessagePopup(f.Name, fmt.Sprintf("arrived at %s", sys.Name))
		p.OnClose = func(p *MessagePopup) { g.wnd.RemovePopup(p) }
		g.wnd.RegisterPopup(p)
	}
	g.log.Debug("turn ended", logging.Int("turn", next), logging.Int("arrivals", len(arrived)))
}

// dismissPopup closes the popup under a click.
func (g *Game) dismissPopup(ev InputEvent) bool {
	if ev.Kind != EventLClick || g.wnd.Viewport().Dragged() {
		return false
	}
	view := g.wnd.Viewport().Config().ViewSize
	i := 0
	for _, p := range g.wnd.Popups() {
		if !p.Visible() {
			continue
		}
		lo, hi := popupRect(i, view)
		if ev.Pt.X >= lo.X && ev.Pt.X <= hi.X && ev.Pt.Y >= lo.Y && ev.Pt.Y <= hi.Y {
			p.Close()
			g.wnd.RemovePopup(p)
			return true
		}
		i++
	}
	return false
}
