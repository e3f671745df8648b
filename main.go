package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/leonelquinteros/gotext"

	"tilescope/pkg/engine/world"
	"tilescope/pkg/game/config"
	"tilescope/pkg/game/devtools"
	"tilescope/pkg/game/mapview"
	"tilescope/pkg/game/worldmem"
)

func initGettext() {
	gotext.Configure("mo/", "en_GB", "default")
}

// Game wires the world store, the map view and the input handling together.
type Game struct {
	world  *worldmem.Map
	view   *mapview.MapView
	player *worldmem.Creature

	screenSize image.Point
}

// Update handles input: arrow keys walk the player, page up/down change
// floors, F2 dumps the visible cache to a file and F3 prints it.
func (g *Game) Update() error {
	if dir, ok := pressedDirection(); ok {
		g.walk(dir)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyPageUp) && g.player.Position().Z > 0 {
		g.world.MoveCreature(g.player, g.player.Position().Up(1))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPageDown) && g.player.Position().Z < world.MaxZ {
		g.world.MoveCreature(g.player, g.player.Position().Up(-1))
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF2) {
		path, err := devtools.DumpVisibleCache(g.view, g.world)
		if err != nil {
			slog.Error("visible cache dump failed", "error", err)
		} else {
			slog.Info("visible cache dumped", "path", path)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		devtools.PrintVisibleCache(g.view, g.world)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.world.AddAnimatedText(worldmem.NewAnimatedText(g.player.Position(), "12", 1.5))
		g.player.SetHealth(g.player.Health-7, g.player.MaxHealth)
	}

	g.world.ExpireAnimatedTexts()
	return nil
}

func pressedDirection() (world.Direction, bool) {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		return world.North, true
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		return world.East, true
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		return world.South, true
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		return world.West, true
	}
	return world.DirectionInvalid, false
}

func (g *Game) walk(dir world.Direction) {
	pos := g.player.Position()
	switch dir {
	case world.North:
		pos = pos.Translated(0, -1)
	case world.East:
		pos = pos.Translated(1, 0)
	case world.South:
		pos = pos.Translated(0, 1)
	case world.West:
		pos = pos.Translated(-1, 0)
	}
	g.player.SetDirection(dir)
	g.world.MoveCreature(g.player, pos)
}

// Draw renders the view full-screen with a small HUD on top.
func (g *Game) Draw(screen *ebiten.Image) {
	g.view.Draw(screen, screen.Bounds())

	camera := g.view.CameraPosition()
	first, last := g.view.VisibleFloorRange()
	hud := fmt.Sprintf("%s %d,%d,%d  %s %d..%d  %s %d  FPS %0.f",
		gotext.Get("POSITION"), camera.X, camera.Y, camera.Z,
		gotext.Get("FLOORS"), first, last,
		gotext.Get("TILE_SIZE"), g.view.TileSize(),
		ebiten.ActualFPS())
	ebitenutil.DebugPrintAt(screen, hud, 4, 4)
}

// Layout re-optimizes the view geometry whenever the window size changes.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	size := image.Pt(outsideWidth, outsideHeight)
	if size != g.screenSize {
		g.screenSize = size
		g.view.OptimizeForSize(size)
	}
	return outsideWidth, outsideHeight
}

// buildDemoWorld lays out a small scene exercising the visibility rules: a
// grass field on the surface, a roofed house, an upper tower floor and a
// torch-lit cave below.
func buildDemoWorld(m *worldmem.Map) *worldmem.Creature {
	var (
		grass = color.RGBA{0x3a, 0x6e, 0x3a, 0xff}
		dirt  = color.RGBA{0x6e, 0x52, 0x3a, 0xff}
		stone = color.RGBA{0x60, 0x60, 0x68, 0xff}
		wood  = color.RGBA{0x8a, 0x6a, 0x42, 0xff}
		rock  = color.RGBA{0x38, 0x34, 0x30, 0xff}
	)

	// surface
	for x := 0; x < 40; x++ {
		for y := 0; y < 30; y++ {
			m.CreateTile(world.Position{X: x, Y: y, Z: world.SeaFloor}).
				SetGround(&worldmem.Item{Color: grass, Opaque: true})
		}
	}

	// house with sight-blocking walls and a window
	for x := 10; x <= 16; x++ {
		for y := 10; y <= 15; y++ {
			onEdge := x == 10 || x == 16 || y == 10 || y == 15
			t := m.CreateTile(world.Position{X: x, Y: y, Z: world.SeaFloor})
			switch {
			case x == 13 && y == 15:
				// doorway stays open
			case x == 10 && y == 12:
				t.AddItem(&worldmem.Item{Color: stone, Window: true})
			case onEdge:
				t.AddItem(&worldmem.Item{Color: stone, BlocksSight: true, BlocksFloorView: true})
			}
		}
	}
	// roof one floor up
	for x := 10; x <= 16; x++ {
		for y := 10; y <= 15; y++ {
			m.CreateTile(world.Position{X: x, Y: y, Z: world.SeaFloor - 1}).
				SetGround(&worldmem.Item{Color: wood, Opaque: true})
		}
	}

	// open tower platform two floors up
	for x := 12; x <= 14; x++ {
		for y := 11; y <= 13; y++ {
			m.CreateTile(world.Position{X: x, Y: y, Z: world.SeaFloor - 2}).
				SetGround(&worldmem.Item{Color: stone, Opaque: true})
		}
	}

	// cave below the surface, lit by torches
	for x := 5; x < 35; x++ {
		for y := 5; y < 25; y++ {
			m.CreateTile(world.Position{X: x, Y: y, Z: world.UndergroundFloor}).
				SetGround(&worldmem.Item{Color: dirt, Opaque: true})
		}
	}
	for _, pos := range []world.Position{
		{X: 8, Y: 8, Z: world.UndergroundFloor},
		{X: 20, Y: 12, Z: world.UndergroundFloor},
		{X: 30, Y: 20, Z: world.UndergroundFloor},
	} {
		m.CreateTile(pos).AddItem(&worldmem.Item{
			Color: rock,
			Light: &world.Light{Color: 208, Intensity: 6},
		})
	}

	m.AddStaticText(worldmem.NewStaticText(world.Position{X: 13, Y: 16, Z: world.SeaFloor}, "Welcome", false))

	npc := worldmem.NewCreature("Guide", world.Position{X: 18, Y: 12, Z: world.SeaFloor})
	npc.SetHealth(64, 100)
	m.AddCreature(npc)

	player := worldmem.NewCreature("Player", world.Position{X: 20, Y: 15, Z: world.SeaFloor})
	player.Color = color.RGBA{0x4a, 0x9e, 0xd9, 0xff}
	m.AddCreature(player)
	return player
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	initGettext()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("loading configuration failed", "error", err)
		os.Exit(1)
	}

	m := worldmem.NewMap()
	player := buildDemoWorld(m)

	view := mapview.New(m)
	m.AddObserver(view)

	view.SetVisibleDimension(image.Pt(cfg.View.VisibleWidth, cfg.View.VisibleHeight))
	view.SetMultifloor(cfg.View.Multifloor)
	view.SetDrawLights(cfg.View.DrawLights)
	view.SetMinimumAmbientLight(cfg.View.MinimumAmbientLight)
	view.SetDrawFloorShadowing(cfg.View.FloorShadowing)
	view.SetDrawAllGroundFirst(cfg.View.AllGroundFirst)
	view.SetDrawTexts(cfg.Overlay.Texts)
	view.SetDrawNames(cfg.Overlay.Names)
	view.SetDrawHealthBars(cfg.Overlay.HealthBars)
	view.SetDrawManaBar(cfg.Overlay.ManaBar)
	if cfg.View.MaxTextureSize > 0 {
		view.SetMaxTextureSize(cfg.View.MaxTextureSize)
	}
	view.FollowCreature(player)

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	game := &Game{world: m, view: view, player: player}
	if err := ebiten.RunGame(game); err != nil {
		slog.Error("game loop ended", "error", err)
		os.Exit(1)
	}
}
