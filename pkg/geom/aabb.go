package geom

import "math"

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min    Point   `json:"min"`
	Max    Point   `json:"max"`
	Center Point   `json:"center"`
	Length float64 `json:"length"` // length of the Min-Max diagonal
}

// Bounds computes the bounding box of points in a single scan.
func Bounds(points PointSet) (AABB, error) {
	if len(points) == 0 {
		return AABB{}, ErrEmptyInput
	}
	lo := Point{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi := Point{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, p := range points {
		lo = Point{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y), Z: math.Min(lo.Z, p.Z)}
		hi = Point{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y), Z: math.Max(hi.Z, p.Z)}
	}
	return AABB{
		Min: lo,
		Max: hi,
		Center: Point{
			X: (lo.X + hi.X) / 2,
			Y: (lo.Y + hi.Y) / 2,
			Z: (lo.Z + hi.Z) / 2,
		},
		Length: hi.Sub(lo).Norm(),
	}, nil
}

// Size returns the extent of the box along each axis.
func (b AABB) Size() Point {
	return b.Max.Sub(b.Min)
}
