package world

// Direction represents a compass direction a creature can face or walk.
type Direction int

// Direction constants. DirectionInvalid is the neutral direction used when
// no creature is being followed or the followed creature stands still.
const (
	North Direction = iota
	East
	South
	West
	NorthEast
	SouthEast
	SouthWest
	NorthWest
	DirectionInvalid
)

// AllDirections returns every direction including DirectionInvalid, in
// declaration order, for iteration.
func AllDirections() []Direction {
	return []Direction{North, East, South, West, NorthEast, SouthEast, SouthWest, NorthWest, DirectionInvalid}
}

// String returns the string representation of a direction.
func (d Direction) String() string {
	switch d {
	case North:
		return "North"
	case East:
		return "East"
	case South:
		return "South"
	case West:
		return "West"
	case NorthEast:
		return "NorthEast"
	case SouthEast:
		return "SouthEast"
	case SouthWest:
		return "SouthWest"
	case NorthWest:
		return "NorthWest"
	default:
		return "Invalid"
	}
}

// IsValid reports whether the direction is a real compass direction.
func (d Direction) IsValid() bool {
	return d >= North && d <= NorthWest
}

// IsDiagonal reports whether the direction is one of the four diagonals.
func (d Direction) IsDiagonal() bool {
	return d >= NorthEast && d <= NorthWest
}
