// Command mars-gui renders a battle as a pixel map, one pixel block
// per core cell, colored by the warrior that last touched it.
package main

import (
	"fmt"
	"image/color"
	"log"
	"os"

	"github.com/hajimehoshi/bitmapfont/v3"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font"

	"go.creack.net/mars94/cli"
	"go.creack.net/mars94/vm"
)

const initialScreenWidth, initialScreenHeight = 1024, 768

// The HUD font comes straight from the bitmapfont face.
var hudFace font.Face = bitmapfont.Face

var fontFace = text.NewGoXFace(hudFace)

var warriorColors = []color.RGBA{
	{R: 0xe6, G: 0x43, B: 0x3c, A: 0xff},
	{R: 0x47, G: 0xc9, B: 0x59, A: 0xff},
	{R: 0x3c, G: 0x78, B: 0xe6, A: 0xff},
	{R: 0xe6, G: 0xd4, B: 0x3c, A: 0xff},
	{R: 0xc9, G: 0x47, B: 0xc9, A: 0xff},
	{R: 0x47, G: 0xc9, B: 0xc9, A: 0xff},
}

// Game implements ebiten.Game interface.
type Game struct {
	m *vm.Mars

	gridWidth  int
	gridHeight int
	coreImg    *ebiten.Image
	pixels     []byte

	paused bool
	speed  int // Instructions per frame.
	done   bool
}

func NewGame(m *vm.Mars) *Game {
	size := m.Core().Size()
	width := 100
	height := (size + width - 1) / width

	g := &Game{
		m:          m,
		gridWidth:  width,
		gridHeight: height,
		coreImg:    ebiten.NewImage(width, height),
		pixels:     make([]byte, 4*width*height),
		speed:      len(m.Warriors()),
		paused:     true,
	}
	for i := 0; i < size; i++ {
		g.setPixel(i, color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff})
	}
	m.SetListener(vm.ListenerFuncs{
		CoreAccess: func(as []vm.CoreAccess) {
			for _, a := range as {
				c := warriorColors[a.Warrior%len(warriorColors)]
				if a.Kind == vm.AccessRead {
					c.R, c.G, c.B = c.R/2, c.G/2, c.B/2
				}
				g.setPixel(a.Address, c)
			}
		},
		RoundEnd: func(vm.RoundEnd) { g.done = true },
	})
	return g
}

func (g *Game) setPixel(addr int, c color.RGBA) {
	i := 4 * addr
	g.pixels[i], g.pixels[i+1], g.pixels[i+2], g.pixels[i+3] = c.R, c.G, c.B, c.A
}

// Update proceeds the game state.
// Update is called every tick (1/60 [s] by default).
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		g.speed *= 2
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && g.speed > 1 {
		g.speed /= 2
	}

	steps := g.speed
	if inpututil.IsKeyJustPressed(ebiten.KeyN) && g.paused {
		steps = 1
	} else if g.paused || g.done {
		return nil
	}

	for i := 0; i < steps && !g.done; i++ {
		res, err := g.m.Step()
		if err != nil {
			return err
		}
		if res != nil {
			g.done = true
		}
	}
	return nil
}

// Draw draws the game screen.
// Draw is called every frame (typically 1/60[s] for 60Hz display).
func (g *Game) Draw(screen *ebiten.Image) {
	g.coreImg.WritePixels(g.pixels)

	geo := ebiten.GeoM{}
	scaleX := float64(initialScreenWidth) / float64(g.gridWidth)
	scaleY := float64(initialScreenHeight-64) / float64(g.gridHeight)
	geo.Scale(scaleX, scaleY)
	screen.DrawImage(g.coreImg, &ebiten.DrawImageOptions{GeoM: geo})

	hud := fmt.Sprintf("round %d  cycle %d  speed %d", g.m.RoundNum(), g.m.CycleNum(), g.speed)
	if g.paused {
		hud += "  [paused]"
	}
	for _, w := range g.m.Warriors() {
		state := fmt.Sprintf("  %s:%d", w.Name, w.Tasks)
		if !w.Alive {
			state = fmt.Sprintf("  %s:dead", w.Name)
		}
		hud += state
	}
	textOp := &text.DrawOptions{}
	textOp.GeoM.Translate(8, float64(initialScreenHeight-48))
	textOp.LineSpacing = fontFace.Metrics().HLineGap + fontFace.Metrics().HAscent + fontFace.Metrics().HDescent
	textOp.ColorScale.ScaleWithColor(color.White)
	text.Draw(screen, hud+"\nspace: pause  n: step  up/down: speed  q: quit", fontFace, textOp)
}

// Layout takes the outside size (e.g., the window size) and returns the (logical) screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return initialScreenWidth, initialScreenHeight
}

func main() {
	log.SetFlags(0)

	opts, err := cli.Parse(os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to parse command line: %s.", err)
	}
	warriors, err := opts.LoadWarriors()
	if err != nil {
		log.Fatalf("Failed to load warriors: %s.", err)
	}

	m := vm.NewMars(opts.Config)
	if err := m.LoadWarriors(warriors); err != nil {
		log.Fatalf("Failed to load core: %s.", err)
	}
	if err := m.SetupRound(); err != nil {
		log.Fatalf("Failed to set up round: %s.", err)
	}

	ebiten.SetWindowSize(initialScreenWidth, initialScreenHeight)
	ebiten.SetWindowTitle("MARS")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(NewGame(m)); err != nil {
		log.Fatal(err)
	}
}
