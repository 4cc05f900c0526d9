package game

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

const (
	starTileSize    = 512
	systemRadius    = 6
	fleetRadius     = 3
	chatVisible     = 8
	chatLineHeight  = 15
	popupWidth      = 260
	popupHeight     = 56
	popupGap        = 8
	sidePanelWidth  = 240
	sidePanelHeight = 180
)

var (
	colBackground = color.RGBA{R: 4, G: 6, B: 14, A: 255}
	colStarlane   = color.RGBA{R: 70, G: 90, B: 140, A: 160}
	colSystem     = color.RGBA{R: 220, G: 220, B: 200, A: 255}
	colOwned      = color.RGBA{R: 90, G: 220, B: 120, A: 255}
	colSelected   = color.RGBA{R: 255, G: 240, B: 60, A: 255}
	colBrowsed    = color.RGBA{R: 255, G: 255, B: 255, A: 140}
	colPanel      = color.RGBA{R: 10, G: 12, B: 22, A: 235}
	colPanelEdge  = color.RGBA{R: 60, G: 80, B: 130, A: 255}
	colText       = color.RGBA{R: 210, G: 220, B: 235, A: 255}
	colDimText    = color.RGBA{R: 130, G: 140, B: 160, A: 255}
)

// Renderer draws a MapWnd with ebiten. It holds only drawing resources; all
// state comes from the window each frame.
type Renderer struct {
	face  text.Face
	seed  int64
	tiles []*ebiten.Image // one starfield tile per background layer
}

// NewRenderer creates a renderer whose starfields are generated from seed.
func NewRenderer(seed int64) *Renderer {
	return &Renderer{
		face: text.NewGoXFace(basicfont.Face7x13),
		seed: seed,
	}
}

// Draw renders the whole window.
func (r *Renderer) Draw(screen *ebiten.Image, w *MapWnd) {
	screen.Fill(colBackground)
	r.drawBackgrounds(screen, w.Backgrounds())

	for _, s := range w.StarlaneSegments() {
		vector.StrokeLine(screen, float32(s.From.X), float32(s.From.Y), float32(s.To.X), float32(s.To.Y), 1, colStarlane, true)
	}
	for _, l := range w.FleetLines() {
		drawPolyline(screen, l.Points, l.Color, l.Projected)
	}
	r.drawSystems(screen, w.SystemMarkers())
	r.drawFleets(screen, w.FleetMarkers())

	switch w.ViewState() {
	case ViewProduction:
		hint := "F4 or Esc to return to the map"
		if ps, ok := w.production.(*BasicProductionScreen); ok {
			if sys, found := w.universe.System(ps.System()); found {
				hint += "  system: " + sys.Name
			}
		}
		r.drawFullScreen(screen, "PRODUCTION", hint)
	case ViewResearch:
		tech := ""
		if rs, ok := w.research.(*BasicResearchScreen); ok && rs.Tech() != "" {
			tech = "  tech: " + rs.Tech()
		}
		r.drawFullScreen(screen, "RESEARCH", "F3 or Esc to return to the map"+tech)
	}

	if w.sidePanel.Visible() {
		r.drawSidePanel(screen, w)
	}
	if w.sitRep.Visible() {
		r.drawBox(screen, 12, 40, 320, 120, "SITUATION REPORT", []string{fmt.Sprintf("turn %d", w.Turn()), "F2 to close"})
	}
	r.drawPopups(screen, w)
	r.drawChat(screen, w)
	r.drawHUD(screen, w)

	if w.ViewState() == ViewMenuOpen {
		view := w.Viewport().Config().ViewSize
		r.drawBox(screen, view.X/2-120, view.Y/2-50, 240, 100, "MENU", []string{"Esc to resume", "Ctrl+Enter to end turn"})
	}
}

func (r *Renderer) drawBackgrounds(screen *ebiten.Image, layers []BackgroundLayer) {
	for len(r.tiles) < len(layers) {
		r.tiles = append(r.tiles, r.starTile(len(r.tiles)))
	}
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	for i, l := range layers {
		ox := math.Mod(l.Pos.X, starTileSize)
		oy := math.Mod(l.Pos.Y, starTileSize)
		if ox > 0 {
			ox -= starTileSize
		}
		if oy > 0 {
			oy -= starTileSize
		}
		for y := oy; y < float64(sh); y += starTileSize {
			for x := ox; x < float64(sw); x += starTileSize {
				var op ebiten.DrawImageOptions
				op.GeoM.Translate(x, y)
				screen.DrawImage(r.tiles[i], &op)
			}
		}
	}
}

// starTile pre-renders one tileable starfield. Layer 0 is the farthest and
// gets the most and dimmest stars.
func (r *Renderer) starTile(depth int) *ebiten.Image {
	rng := rand.New(rand.NewSource(r.seed + int64(depth)*7919))
	img := ebiten.NewImage(starTileSize, starTileSize)
	count := 220 - depth*60
	if count < 40 {
		count = 40
	}
	bright := uint8(90 + depth*60)
	size := float32(1 + depth/2)
	for i := 0; i < count; i++ {
		x := float32(rng.Intn(starTileSize))
		y := float32(rng.Intn(starTileSize))
		c := color.RGBA{R: bright, G: bright, B: bright + uint8(rng.Intn(40)), A: 255}
		vector.FillRect(img, x, y, size, size, c, false)
	}
	return img
}

// drawPolyline strokes pts, dashed when projected.
func drawPolyline(screen *ebiten.Image, pts []Vec2, col color.RGBA, dashed bool) {
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		if !dashed {
			vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 2, col, true)
			continue
		}
		drawDashedLine(screen, a, b, col)
	}
}

func drawDashedLine(screen *ebiten.Image, a, b Vec2, col color.RGBA) {
	dashLen := float32(8)
	gapLen := float32(6)
	d := b.Sub(a)
	total := float32(math.Sqrt(d.Len2()))
	if total < 1e-3 {
		return
	}
	ndx := float32(d.X) / total
	ndy := float32(d.Y) / total
	sx, sy := float32(a.X), float32(a.Y)
	for drawn := float32(0); drawn < total; drawn += dashLen + gapLen {
		end := drawn + dashLen
		if end > total {
			end = total
		}
		vector.StrokeLine(screen, sx+ndx*drawn, sy+ndy*drawn, sx+ndx*end, sy+ndy*end, 1.5, col, true)
	}
}

func (r *Renderer) drawSystems(screen *ebiten.Image, markers []SystemMarker) {
	for _, m := range markers {
		x, y := float32(m.Pos.X), float32(m.Pos.Y)
		col := colSystem
		if m.Owned {
			col = colOwned
		}
		vector.FillCircle(screen, x, y, systemRadius, col, true)
		if m.Selected {
			vector.StrokeCircle(screen, x, y, systemRadius+4, 2, colSelected, true)
		} else if m.Browsed {
			vector.StrokeCircle(screen, x, y, systemRadius+3, 1, colBrowsed, true)
		}
		if m.Name != "" {
			r.text(screen, m.Name, float64(x)+systemRadius+3, float64(y)-6, colDimText)
		}
	}
}

func (r *Renderer) drawFleets(screen *ebiten.Image, markers []FleetMarker) {
	for _, m := range markers {
		x, y := float32(m.Pos.X), float32(m.Pos.Y)
		vector.FillCircle(screen, x, y, fleetRadius, m.Fleet.Color, true)
		if m.Selected {
			vector.StrokeCircle(screen, x, y, fleetRadius+3, 1.5, colSelected, true)
		}
	}
}

func (r *Renderer) drawSidePanel(screen *ebiten.Image, w *MapWnd) {
	id := w.SelectedSystem()
	sys, ok := w.universe.System(id)
	if !ok {
		return
	}
	view := w.Viewport().Config().ViewSize
	owner := "unowned"
	if sys.Owned {
		owner = "yours"
	}
	lines := []string{
		owner,
		fmt.Sprintf("position %.0f, %.0f", sys.Pos.X, sys.Pos.Y),
		fmt.Sprintf("%d starlanes", len(sys.Lanes)),
	}
	for _, f := range w.universe.Fleets() {
		if f.Pos == sys.Pos {
			lines = append(lines, "  "+f.Name)
		}
	}
	r.drawBox(screen, view.X-sidePanelWidth-12, 40, sidePanelWidth, sidePanelHeight, sys.Name, lines)
}

// popupRect is the screen rectangle of the i-th popup, stacked down the
// right edge above the chat.
func popupRect(i int, view Vec2) (Vec2, Vec2) {
	x := view.X - popupWidth - 12
	y := 40 + sidePanelHeight + 12 + float64(i)*(popupHeight+popupGap)
	return Vec2{X: x, Y: y}, Vec2{X: x + popupWidth, Y: y + popupHeight}
}

func (r *Renderer) drawPopups(screen *ebiten.Image, w *MapWnd) {
	view := w.Viewport().Config().ViewSize
	i := 0
	for _, p := range w.Popups() {
		if !p.Visible() {
			continue
		}
		title, body := "Notice", ""
		if mp, ok := p.(*MessagePopup); ok {
			title, body = mp.Title, mp.Text
		}
		lo, _ := popupRect(i, view)
		r.drawBox(screen, lo.X, lo.Y, popupWidth, popupHeight, title, []string{body, "click to dismiss"})
		i++
	}
}

func (r *Renderer) drawChat(screen *ebiten.Image, w *MapWnd) {
	view := w.Viewport().Config().ViewSize
	lines := w.ChatLines(chatVisible)
	y := view.Y - 30 - float64(len(lines))*chatLineHeight
	for _, e := range lines {
		line := e.Text
		if e.Sender != "" {
			line = e.Sender + ": " + e.Text
		}
		r.text(screen, line, 12, y, colText)
		y += chatLineHeight
	}
	kind, input := w.TextInput()
	if kind == "" {
		return
	}
	vector.FillRect(screen, 8, float32(view.Y-26), 480, 18, colPanel, false)
	vector.StrokeRect(screen, 8, float32(view.Y-26), 480, 18, 1, colPanelEdge, false)
	r.text(screen, kind+"> "+input+"_", 12, view.Y-24, colText)
}

func (r *Renderer) drawHUD(screen *ebiten.Image, w *MapWnd) {
	status := fmt.Sprintf("turn %d  zoom %d%%  %s", w.Turn(), w.ZoomPercent(), w.ViewState())
	r.text(screen, status, 12, 10, colText)
	if inds := w.ResourceIndicators(); len(inds) > 0 {
		line := ""
		for _, ind := range inds {
			line += fmt.Sprintf("%s %.0f (%+.1f)  ", ind.Kind, ind.Pool.Stockpile, ind.Pool.Production)
		}
		view := w.Viewport().Config().ViewSize
		r.text(screen, line, view.X-float64(len(line))*7-12, 10, colText)
	}
	r.text(screen, "drag to pan  wheel to zoom  F2 sitrep  F3 research  F4 production  Enter chat  Ctrl+Enter end turn", 12, 24, colDimText)
}

func (r *Renderer) drawFullScreen(screen *ebiten.Image, title, hint string) {
	b := screen.Bounds()
	vector.FillRect(screen, 0, 0, float32(b.Dx()), float32(b.Dy()), colPanel, false)
	r.text(screen, title, float64(b.Dx())/2-40, float64(b.Dy())/2-20, colText)
	r.text(screen, hint, float64(b.Dx())/2-120, float64(b.Dy())/2, colDimText)
}

func (r *Renderer) drawBox(screen *ebiten.Image, x, y, w, h float64, title string, lines []string) {
	vector.FillRect(screen, float32(x), float32(y), float32(w), float32(h), colPanel, false)
	vector.StrokeRect(screen, float32(x), float32(y), float32(w), float32(h), 1, colPanelEdge, false)
	r.text(screen, title, x+8, y+4, colSelected)
	for i, l := range lines {
		r.text(screen, l, x+8, y+22+float64(i)*chatLineHeight, colText)
	}
}

func (r *Renderer) text(screen *ebiten.Image, s string, x, y float64, col color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(col)
	text.Draw(screen, s, r.face, op)
}
