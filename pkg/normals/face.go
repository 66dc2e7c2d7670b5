// Package normals computes per-triangle and per-vertex normals of indexed
// triangle meshes.
package normals

import (
	"github.com/Nelarius/Morphoviewer/pkg/geom"
)

// RawFaceVectors returns the unnormalized face vector (b-a)×(c-a) of every
// triangle, written to each of the triangle's three slots. Slot 3*t+k belongs
// to corner k of triangle t. The magnitude of a vector is twice the area of
// its triangle.
func RawFaceVectors(points geom.PointSet, tris geom.TriangleSet) ([]geom.Normal, error) {
	if err := geom.CheckTriangles(len(points), tris); err != nil {
		return nil, err
	}
	out := make([]geom.Normal, 3*len(tris))
	for ti, t := range tris {
		n := cross(points, t)
		out[3*ti] = n
		out[3*ti+1] = n
		out[3*ti+2] = n
	}
	return out, nil
}

// FaceNormals returns one unit normal per point. Each triangle writes its
// normal to the slots of its three vertices, so a vertex shared by several
// triangles ends up with the normal of the last of them in iteration order.
// Points referenced by no triangle keep the zero vector.
//
// Zero-area triangles cannot be normalized; they write the zero vector and
// are listed in a *geom.DegenerateError returned alongside the full result.
func FaceNormals(points geom.PointSet, tris geom.TriangleSet) ([]geom.Normal, error) {
	if err := geom.CheckTriangles(len(points), tris); err != nil {
		return nil, err
	}
	out := make([]geom.Normal, len(points))
	var degenerate []int
	for ti, t := range tris {
		n := cross(points, t)
		if n.Norm2() == 0 {
			degenerate = append(degenerate, ti)
		}
		n = n.Normalize()
		out[t[0]] = n
		out[t[1]] = n
		out[t[2]] = n
	}
	if len(degenerate) > 0 {
		return out, &geom.DegenerateError{Stage: "face normals", Elements: degenerate}
	}
	return out, nil
}

func cross(points geom.PointSet, t geom.Triangle) geom.Normal {
	a := points[t[0]]
	u := points[t[1]].Sub(a)
	v := points[t[2]].Sub(a)
	return u.Cross(v)
}
