package geom

import "github.com/golang/geo/r3"

// Point is a position in model space.
type Point = r3.Vector

// Normal is a direction, expected but not guaranteed to be unit length.
type Normal = r3.Vector

// PointSet is an ordered sequence of points. Its order is the index space
// referenced by triangles.
type PointSet []Point

// Triangle holds three indices into a PointSet.
type Triangle [3]uint32

// TriangleSet is an ordered sequence of triangles.
type TriangleSet []Triangle

// ScalarField holds one value per vertex or per unwrapped vertex slot.
type ScalarField []float64

// Clone returns a copy of ps that shares no memory with it.
func (ps PointSet) Clone() PointSet {
	if ps == nil {
		return nil
	}
	out := make(PointSet, len(ps))
	copy(out, ps)
	return out
}

// Flatten returns the coordinates of ps as [x0,y0,z0, x1,y1,z1, ...].
func (ps PointSet) Flatten() []float64 {
	out := make([]float64, 0, len(ps)*3)
	for _, p := range ps {
		out = append(out, p.X, p.Y, p.Z)
	}
	return out
}

// Indices returns the triangles as a flat index slice [i0,i1,i2, ...].
func (ts TriangleSet) Indices() []uint32 {
	out := make([]uint32, 0, len(ts)*3)
	for _, t := range ts {
		out = append(out, t[0], t[1], t[2])
	}
	return out
}

// FromFlat builds a PointSet from [x0,y0,z0, ...]. The length of coords
// must be a multiple of three.
func FromFlat(coords []float64) (PointSet, error) {
	if len(coords)%3 != 0 {
		return nil, &LengthError{What: "coordinate array", Got: len(coords), Multiple: 3}
	}
	out := make(PointSet, len(coords)/3)
	for i := range out {
		out[i] = Point{X: coords[3*i], Y: coords[3*i+1], Z: coords[3*i+2]}
	}
	return out, nil
}
