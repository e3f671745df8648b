// Package devtools provides developer tools for inspecting the visibility
// pipeline: file dumps and terminal prints of the visible tile cache.
package devtools

import (
	"fmt"
	"os"
	"path/filepath"

	"tilescope/pkg/engine/world"
	"tilescope/pkg/game/mapview"
)

const visDumpFilename = "visible-tiles.txt"

// tileSymbol returns the single-character symbol for the square at pos on
// the visible tile grid.
func tileSymbol(m world.Map, pos world.Position, visible map[world.Position]bool, camera world.Position) rune {
	switch {
	case pos == camera:
		return '@'
	case visible[pos]:
		return '.'
	case m.Tile(pos) == nil:
		return ' '
	case m.Tile(pos).IsDrawable():
		return '#'
	default:
		return '-'
	}
}

// visibleSet indexes a floor's visible tile list by position.
func visibleSet(v *mapview.MapView, z int) map[world.Position]bool {
	tiles := v.VisibleTiles(z)
	set := make(map[world.Position]bool, len(tiles))
	for _, t := range tiles {
		set[t.Position()] = true
	}
	return set
}

// writeFloorGrid writes floor z of the view's draw window to f.
func writeFloorGrid(f *os.File, v *mapview.MapView, m world.Map, camera world.Position, z int) {
	dim := v.DrawDimension()
	visible := visibleSet(v, z)

	// the draw window is anchored one tile up-left of the visible center
	origin := camera.Translated(-dim.X/2+1, -dim.Y/2+1)
	for iy := 0; iy < dim.Y; iy++ {
		for ix := 0; ix < dim.X; ix++ {
			pos := world.Position{X: origin.X + ix, Y: origin.Y + iy, Z: z}
			fmt.Fprintf(f, "%c", tileSymbol(m, pos, visible, camera))
		}
		fmt.Fprintln(f)
	}
}

// DumpVisibleCache writes the view's visible tile cache to visible-tiles.txt
// in the working directory and returns the absolute path. The format is
// human- and LLM-readable (sections, key: value, consistent structure).
func DumpVisibleCache(v *mapview.MapView, m world.Map) (string, error) {
	camera := v.CameraPosition()
	if !camera.IsValid() {
		return "", fmt.Errorf("no camera position")
	}

	absPath, err := filepath.Abs(visDumpFilename)
	if err != nil {
		return "", err
	}

	f, err := os.Create(absPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	first, last := v.VisibleFloorRange()
	dim := v.DrawDimension()

	fmt.Fprintln(f, "=== VISIBLE TILE CACHE DEBUG (floors, culling, geometry) ===")
	fmt.Fprintln(f, "")
	fmt.Fprintln(f, "--- Metadata ---")
	fmt.Fprintf(f, "camera: %d,%d,%d\n", camera.X, camera.Y, camera.Z)
	fmt.Fprintf(f, "view_mode: %s\n", v.ViewMode())
	fmt.Fprintf(f, "multifloor: %v\n", v.IsMultifloor())
	fmt.Fprintf(f, "tile_size: %d\n", v.TileSize())
	fmt.Fprintf(f, "scale_factor: %.3f\n", v.ScaleFactor())
	fmt.Fprintf(f, "visible_dimension: %dx%d\n", v.VisibleDimension().X, v.VisibleDimension().Y)
	fmt.Fprintf(f, "draw_dimension: %dx%d\n", dim.X, dim.Y)
	fmt.Fprintf(f, "first_visible_floor: %d\n", v.FirstVisibleFloor())
	fmt.Fprintf(f, "last_visible_floor: %d\n", v.LastVisibleFloor())
	fmt.Fprintf(f, "cached_floor_range: %d..%d\n", first, last)
	fmt.Fprintln(f, "")

	fmt.Fprintln(f, "--- Legend (tile symbols) ---")
	fmt.Fprintln(f, ". = in visible cache  # = drawable but culled or covered  - = empty tile  blank = no tile  @ = camera")
	fmt.Fprintln(f, "")

	for z := first; z <= last; z++ {
		fmt.Fprintf(f, "--- Floor %d (%d tiles cached) ---\n", z, len(v.VisibleTiles(z)))
		writeFloorGrid(f, v, m, camera, z)
		fmt.Fprintln(f, "")
	}

	return absPath, nil
}
