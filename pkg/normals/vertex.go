package normals

import (
	"github.com/Nelarius/Morphoviewer/pkg/geom"
)

// VertexNormals returns one unit normal per point: the normalized sum of the
// raw face vectors found through the vertex's adjacency entries. Every
// incident triangle contributes its raw vector twice, once per adjacency
// edge, so larger triangles weigh more.
//
// A vertex with no incident triangles, or whose face vectors cancel out,
// gets the zero vector and is listed in a *geom.DegenerateError returned
// alongside the full result.
func VertexNormals(points geom.PointSet, tris geom.TriangleSet) ([]geom.Normal, error) {
	raw, err := RawFaceVectors(points, tris)
	if err != nil {
		return nil, err
	}
	adj := buildAdjacency(len(points), tris)

	out := make([]geom.Normal, len(points))
	var degenerate []int
	for v := range points {
		var sum geom.Normal
		for _, slot := range adj.of(v) {
			sum = sum.Add(raw[slot])
		}
		if sum.Norm2() == 0 {
			degenerate = append(degenerate, v)
			continue
		}
		out[v] = sum.Normalize()
	}
	if len(degenerate) > 0 {
		return out, &geom.DegenerateError{Stage: "vertex normals", Elements: degenerate}
	}
	return out, nil
}
