package canvas

import "math"

// Canvas limits in floor-plan units
const (
	MinScale = 0.2
	MaxScale = 3.0

	// EdgeInset is the minimum distance between a table and the canvas edge
	EdgeInset = 10.0
	// TableFootprint is reserved at the far edges so a table stays fully visible
	TableFootprint = 100.0
)

// Point is a position either in client (pointer) space or in logical floor-plan space
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p+q
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// ToLogical maps a client pointer position to floor-plan coordinates. origin is
// the top-left of the canvas in client space and offset is where inside the
// pressed object the pointer landed, so the object keeps its grip under the
// pointer at any zoom level.
func ToLogical(client, origin, offset Point, scale float64) Point {
	if scale <= 0 {
		scale = 1
	}
	return Point{
		X: (client.X - origin.X - offset.X) / scale,
		Y: (client.Y - origin.Y - offset.Y) / scale,
	}
}

// ClampPosition rounds p and keeps it inside the canvas. Applying it twice
// gives the same result as applying it once.
func ClampPosition(p Point, width, height float64) Point {
	return Point{X: clampAxis(p.X, width), Y: clampAxis(p.Y, height)}
}

func clampAxis(v, extent float64) float64 {
	upper := extent - TableFootprint
	if upper < EdgeInset {
		// canvas smaller than a table: pin to the inset
		upper = EdgeInset
	}
	return math.Min(math.Max(math.Round(v), EdgeInset), upper)
}

// zoomStep is finer below 1:1 where each step is visually larger
func zoomStep(scale float64) float64 {
	if scale < 1 {
		return 0.05
	}
	return 0.1
}

// ZoomIn returns the next larger scale
func ZoomIn(scale float64) float64 {
	return clampScale(scale + zoomStep(scale))
}

// ZoomOut returns the next smaller scale
func ZoomOut(scale float64) float64 {
	return clampScale(scale - zoomStep(scale))
}

func clampScale(scale float64) float64 {
	// drop float noise so repeated steps land on 0.95, 1.1, ...
	scale = math.Round(scale*100) / 100
	return math.Min(math.Max(scale, MinScale), MaxScale)
}
