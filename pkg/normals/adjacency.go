package normals

import "github.com/Nelarius/Morphoviewer/pkg/geom"

// adjacency is a compressed table mapping each vertex to the face-vector
// slots of the other two corners of every triangle incident to it. The
// entries of vertex v are slots[offsets[v]:offsets[v+1]].
type adjacency struct {
	offsets []int
	slots   []int
}

// buildAdjacency expects tris to be valid for n points.
func buildAdjacency(n int, tris geom.TriangleSet) *adjacency {
	offsets := make([]int, n+1)
	for _, t := range tris {
		for _, v := range t {
			offsets[v+1] += 2
		}
	}
	for i := 1; i <= n; i++ {
		offsets[i] += offsets[i-1]
	}

	slots := make([]int, offsets[n])
	next := make([]int, n)
	copy(next, offsets[:n])
	for ti, t := range tris {
		for k, v := range t {
			for j := 1; j <= 2; j++ {
				slots[next[v]] = 3*ti + (k+j)%3
				next[v]++
			}
		}
	}
	return &adjacency{offsets: offsets, slots: slots}
}

func (a *adjacency) of(v int) []int {
	return a.slots[a.offsets[v]:a.offsets[v+1]]
}

func (a *adjacency) degree(v int) int {
	return a.offsets[v+1] - a.offsets[v]
}
