package triangulate

import (
	"fmt"

	"github.com/fogleman/delaunay"
	"gonum.org/v1/gonum/mat"

	"github.com/Nelarius/Morphoviewer/pkg/geom"
)

// Projection selects how 3-D points are flattened before triangulation.
type Projection int

const (
	// ProjectXY drops the Z coordinate.
	ProjectXY Projection = iota
	// ProjectPlane projects onto the least-squares plane through the
	// centroid, spanned by the two principal axes of the points.
	ProjectPlane
)

func (p Projection) String() string {
	switch p {
	case ProjectXY:
		return "xy"
	case ProjectPlane:
		return "plane"
	}
	return fmt.Sprintf("Projection(%d)", int(p))
}

// ParseProjection converts "xy" or "plane" to a Projection.
func ParseProjection(s string) (Projection, error) {
	switch s {
	case "xy", "":
		return ProjectXY, nil
	case "plane":
		return ProjectPlane, nil
	}
	return 0, fmt.Errorf("triangulate: unknown projection %q, expected xy or plane", s)
}

func (p Projection) project(points geom.PointSet) ([]delaunay.Point, error) {
	switch p {
	case ProjectXY:
		out := make([]delaunay.Point, len(points))
		for i, pt := range points {
			out[i] = delaunay.Point{X: pt.X, Y: pt.Y}
		}
		return out, nil
	case ProjectPlane:
		return projectPlane(points)
	}
	return nil, fmt.Errorf("triangulate: unsupported projection %v", p)
}

// projectPlane expresses each point in the basis of the two largest
// principal axes of the covariance of points.
func projectPlane(points geom.PointSet) ([]delaunay.Point, error) {
	c, err := geom.Centroid(points)
	if err != nil {
		return nil, err
	}

	var cov [9]float64 // 3x3 row-major
	for _, p := range points {
		d := [3]float64{p.X - c.X, p.Y - c.Y, p.Z - c.Z}
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				cov[3*i+j] += d[i] * d[j]
			}
		}
	}
	n := float64(len(points))
	for i := range cov {
		cov[i] /= n
	}

	var eigen mat.EigenSym
	if ok := eigen.Factorize(mat.NewSymDense(3, cov[:]), true); !ok {
		return nil, fmt.Errorf("triangulate: eigen decomposition of point covariance failed")
	}
	var vecs mat.Dense
	eigen.VectorsTo(&vecs)

	// Eigenvalues are ascending: column 0 is the plane normal, column 2 the
	// axis of largest spread. The normal is turned towards +Z and the frame
	// completed right-handed, so counter-clockwise in the plane faces +Z.
	w := geom.Point{X: vecs.At(0, 0), Y: vecs.At(1, 0), Z: vecs.At(2, 0)}
	if w.Z < 0 {
		w = w.Mul(-1)
	}
	u := geom.Point{X: vecs.At(0, 2), Y: vecs.At(1, 2), Z: vecs.At(2, 2)}
	v := w.Cross(u)

	out := make([]delaunay.Point, len(points))
	for i, p := range points {
		d := p.Sub(c)
		out[i] = delaunay.Point{X: d.Dot(u), Y: d.Dot(v)}
	}
	return out, nil
}
