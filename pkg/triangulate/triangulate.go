// Package triangulate builds triangle connectivity for scattered points by
// projecting them to a plane and running a 2-D Delaunay triangulation.
package triangulate

import (
	"errors"
	"fmt"

	"github.com/fogleman/delaunay"

	"github.com/Nelarius/Morphoviewer/pkg/geom"
)

// ErrTooFewPoints is returned when fewer than three points are given or the
// projected points are all collinear.
var ErrTooFewPoints = errors.New("triangulate: need at least three non-collinear points")

// Triangulator produces triangles covering a point set.
type Triangulator interface {
	Triangulate(points geom.PointSet) (geom.TriangleSet, error)
}

// Compile-time interface check.
var _ Triangulator = (*Delaunay)(nil)

// Delaunay triangulates points after projecting them with Projection.
// Output triangles are wound counter-clockwise in the projected frame.
type Delaunay struct {
	Projection Projection
}

// New returns a Delaunay triangulator using p.
func New(p Projection) *Delaunay {
	return &Delaunay{Projection: p}
}

// Triangulate projects points onto the XY plane and triangulates them.
func Triangulate(points geom.PointSet) (geom.TriangleSet, error) {
	return New(ProjectXY).Triangulate(points)
}

// Triangulate implements Triangulator.
func (d *Delaunay) Triangulate(points geom.PointSet) (geom.TriangleSet, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("triangulate: %w", geom.ErrEmptyInput)
	}
	if len(points) < 3 {
		return nil, ErrTooFewPoints
	}

	flat, err := d.Projection.project(points)
	if err != nil {
		return nil, err
	}

	tri, err := delaunay.Triangulate(flat)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTooFewPoints, err)
	}
	if len(tri.Triangles) == 0 {
		return nil, ErrTooFewPoints
	}

	out := make(geom.TriangleSet, 0, len(tri.Triangles)/3)
	for i := 0; i+2 < len(tri.Triangles); i += 3 {
		a, b, c := tri.Triangles[i], tri.Triangles[i+1], tri.Triangles[i+2]
		if orient(flat[a], flat[b], flat[c]) < 0 {
			b, c = c, b
		}
		out = append(out, geom.Triangle{uint32(a), uint32(b), uint32(c)})
	}
	return out, nil
}

// orient is twice the signed area of abc; positive when counter-clockwise.
func orient(a, b, c delaunay.Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}
