package world

// Light describes a light emission: a palette color byte and an intensity.
// Intensity 255 is full daylight; 0 is complete darkness.
type Light struct {
	Color     uint8
	Intensity uint8
}

// AwareRange describes the four directional extents (in tiles) of the area
// the client is kept aware of around the camera. The range is asymmetric:
// the classic layout is one tile wider towards the bottom-right.
type AwareRange struct {
	Left, Top, Right, Bottom int
}

// DefaultAwareRange returns the classic 18x14 aware range.
func DefaultAwareRange() AwareRange {
	return AwareRange{Left: 8, Top: 6, Right: 9, Bottom: 7}
}

// Horizontal returns the total horizontal extent in tiles, camera included.
func (a AwareRange) Horizontal() int {
	return a.Left + a.Right + 1
}

// Vertical returns the total vertical extent in tiles, camera included.
func (a AwareRange) Vertical() int {
	return a.Top + a.Bottom + 1
}
