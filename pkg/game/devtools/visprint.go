package devtools

import (
	"fmt"
	"os"

	"github.com/gookit/color"
	"golang.org/x/term"

	"tilescope/pkg/engine/world"
	"tilescope/pkg/game/mapview"
)

const defaultTermWidth = 80

var (
	styleCamera  = color.Style{color.FgGreen, color.BgBlack, color.OpBold}
	styleVisible = color.Style{color.FgWhite}
	styleCulled  = color.Style{color.FgRed}
	styleEmpty   = color.Style{color.FgGray}
	styleHeader  = color.Style{color.FgMagenta, color.OpBold}
)

// termWidth returns the terminal width, falling back when stdout is not a
// terminal.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return defaultTermWidth
	}
	return width
}

// PrintVisibleCache prints the view's cached floors to stdout with one
// colored character per square, clipping rows to the terminal width.
func PrintVisibleCache(v *mapview.MapView, m world.Map) {
	camera := v.CameraPosition()
	if !camera.IsValid() {
		fmt.Println("no camera position")
		return
	}

	first, last := v.VisibleFloorRange()
	dim := v.DrawDimension()
	width := termWidth()

	for z := first; z <= last; z++ {
		styleHeader.Printf("floor %d  (%d tiles)\n", z, len(v.VisibleTiles(z)))

		visible := visibleSet(v, z)
		origin := camera.Translated(-dim.X/2+1, -dim.Y/2+1)
		for iy := 0; iy < dim.Y; iy++ {
			for ix := 0; ix < dim.X && ix < width; ix++ {
				pos := world.Position{X: origin.X + ix, Y: origin.Y + iy, Z: z}
				symbol := string(tileSymbol(m, pos, visible, camera))
				switch symbol {
				case "@":
					styleCamera.Print(symbol)
				case ".":
					styleVisible.Print(symbol)
				case "#":
					styleCulled.Print(symbol)
				default:
					styleEmpty.Print(symbol)
				}
			}
			fmt.Println()
		}
		fmt.Println()
	}
}
