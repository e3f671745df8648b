package world

// Map geometry constants. Floors stack downward: 0 is the highest floor,
// SeaFloor is ground level and everything below it is underground.
const (
	TilePixels = 32 // canonical tile size in pixels at 1:1 zoom

	MaxZ             = 15
	SeaFloor         = 7
	UndergroundFloor = SeaFloor + 1

	// AwareUndergroundFloorRange limits how many floors above and below the
	// camera are considered while underground.
	AwareUndergroundFloorRange = 2
)

// Position is a 3D world coordinate: horizontal X/Y plus a floor index Z.
type Position struct {
	X, Y, Z int
}

// InvalidPosition returns the canonical "unknown position" value, used for
// cameras whose followed creature is not known yet.
func InvalidPosition() Position {
	return Position{X: -1, Y: -1, Z: -1}
}

// IsValid reports whether the position lies inside the world grid.
func (p Position) IsValid() bool {
	return p.X >= 0 && p.Y >= 0 && p.Z >= 0 && p.Z <= MaxZ
}

// Translated returns the position shifted horizontally by (dx, dy).
func (p Position) Translated(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy, Z: p.Z}
}

// CoveredUp maps the position to the floor n levels above, applying the
// perspective shift: each floor up moves the apparent grid position one tile
// towards the south-east, so a tile directly above another appears offset
// when looking down through floors. Negative n shifts downward.
func (p Position) CoveredUp(n int) Position {
	return Position{X: p.X + n, Y: p.Y + n, Z: p.Z - n}
}

// Up returns the position n floors above without the perspective shift.
func (p Position) Up(n int) Position {
	return Position{X: p.X, Y: p.Y, Z: p.Z - n}
}

// IsInRange reports whether other lies within the given directional extents
// around p, on the same floor.
func (p Position) IsInRange(other Position, left, right, top, bottom int) bool {
	if p.Z != other.Z {
		return false
	}
	dx := other.X - p.X
	dy := other.Y - p.Y
	return dx >= -left && dx <= right && dy >= -top && dy <= bottom
}
