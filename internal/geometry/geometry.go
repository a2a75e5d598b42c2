package geometry

import (
	"errors"
	"fmt"
	"math"
)

// ErrDegenerateMember is returned when two member end points coincide.
var ErrDegenerateMember = errors.New("degenerate member: zero length")

// Point represents a 2D coordinate
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// String formats the point as (x, y)
func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Length returns the Euclidean distance between two points
func Length(p1, p2 Point) float64 {
	return math.Hypot(p2.X-p1.X, p2.Y-p1.Y)
}

// DirectionCosines returns the unit vector components (cos x, cos y) of the
// line running from p1 to p2.
func DirectionCosines(p1, p2 Point) (c, s float64, err error) {
	l := Length(p1, p2)
	if l == 0 {
		return 0, 0, fmt.Errorf("%w: %v to %v", ErrDegenerateMember, p1, p2)
	}
	return (p2.X - p1.X) / l, (p2.Y - p1.Y) / l, nil
}

// Bounds returns the bounding box of a set of points
func Bounds(points []Point) (minX, maxX, minY, maxY float64) {
	if len(points) == 0 {
		return 0, 0, 0, 0
	}

	minX, maxX = points[0].X, points[0].X
	minY, maxY = points[0].Y, points[0].Y
	for _, p := range points {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return minX, maxX, minY, maxY
}
