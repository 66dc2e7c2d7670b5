package kernel

import (
	"math"

	"github.com/Nelarius/Morphoviewer/pkg/geom"
)

// Weld turns a triangle soup into an indexed mesh. Corners closer than
// tolerance (per axis, on a grid of that spacing) become one vertex; a
// triangle that loses a corner to the merge is dropped. Vertices keep the
// order in which they are first seen.
func Weld(soup [][3]geom.Point, tolerance float64) *Mesh {
	type key [3]int64
	quantize := func(p geom.Point) key {
		if tolerance <= 0 {
			return key{
				int64(math.Float64bits(p.X)),
				int64(math.Float64bits(p.Y)),
				int64(math.Float64bits(p.Z)),
			}
		}
		return key{
			int64(math.Round(p.X / tolerance)),
			int64(math.Round(p.Y / tolerance)),
			int64(math.Round(p.Z / tolerance)),
		}
	}

	index := make(map[key]uint32, len(soup))
	m := &Mesh{Triangles: make(geom.TriangleSet, 0, len(soup))}
	for _, tri := range soup {
		keys := [3]key{quantize(tri[0]), quantize(tri[1]), quantize(tri[2])}
		if keys[0] == keys[1] || keys[1] == keys[2] || keys[0] == keys[2] {
			continue
		}
		var t geom.Triangle
		for j, k := range keys {
			i, ok := index[k]
			if !ok {
				i = uint32(len(m.Points))
				index[k] = i
				m.Points = append(m.Points, tri[j])
			}
			t[j] = i
		}
		m.Triangles = append(m.Triangles, t)
	}
	return m
}
