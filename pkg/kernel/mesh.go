package kernel

import "github.com/Nelarius/Morphoviewer/pkg/geom"

// Mesh is an indexed triangle mesh. A mesh with points but no triangles is
// a scattered point cloud waiting to be triangulated.
type Mesh struct {
	Points    geom.PointSet
	Triangles geom.TriangleSet
	PartName  string // which scene part this came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Points)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Points) == 0
}

// IsCloud reports whether the mesh has points but no connectivity.
func (m *Mesh) IsCloud() bool {
	return len(m.Points) > 0 && len(m.Triangles) == 0
}
