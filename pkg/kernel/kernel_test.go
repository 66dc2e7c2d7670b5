package kernel

import (
	"testing"

	"github.com/Nelarius/Morphoviewer/pkg/geom"
)

// --- Mesh helper method tests ---

func TestMeshVertexCount(t *testing.T) {
	tests := []struct {
		name   string
		points geom.PointSet
		want   int
	}{
		{"empty", nil, 0},
		{"one vertex", geom.PointSet{{X: 1, Y: 2, Z: 3}}, 1},
		{"four vertices", geom.PointSet{{}, {X: 1}, {X: 1, Y: 1}, {Y: 1}}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Points: tt.points}
			if got := m.VertexCount(); got != tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshTriangleCount(t *testing.T) {
	tests := []struct {
		name string
		tris geom.TriangleSet
		want int
	}{
		{"empty", nil, 0},
		{"one triangle", geom.TriangleSet{{0, 1, 2}}, 1},
		{"two triangles", geom.TriangleSet{{0, 1, 2}, {2, 3, 0}}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Triangles: tt.tris}
			if got := m.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshIsEmptyAndCloud(t *testing.T) {
	t.Run("empty mesh", func(t *testing.T) {
		m := &Mesh{}
		if !m.IsEmpty() {
			t.Error("IsEmpty() = false for empty mesh, want true")
		}
		if m.IsCloud() {
			t.Error("IsCloud() = true for empty mesh, want false")
		}
	})
	t.Run("point cloud", func(t *testing.T) {
		m := &Mesh{Points: geom.PointSet{{X: 1, Y: 2, Z: 3}}}
		if m.IsEmpty() {
			t.Error("IsEmpty() = true for non-empty mesh, want false")
		}
		if !m.IsCloud() {
			t.Error("IsCloud() = false for mesh without triangles, want true")
		}
	})
	t.Run("triangle mesh", func(t *testing.T) {
		m := &Mesh{Points: geom.PointSet{{}, {X: 1}, {Y: 1}}, Triangles: geom.TriangleSet{{0, 1, 2}}}
		if m.IsCloud() {
			t.Error("IsCloud() = true for triangle mesh, want false")
		}
	})
}

// --- Weld ---

func TestWeldSharesCorners(t *testing.T) {
	a := geom.Point{X: 0, Y: 0, Z: 0}
	b := geom.Point{X: 1, Y: 0, Z: 0}
	c := geom.Point{X: 0, Y: 1, Z: 0}
	d := geom.Point{X: 1, Y: 1, Z: 0}
	// The second triangle's copy of b is off by less than the tolerance.
	soup := [][3]geom.Point{
		{a, b, c},
		{c, {X: 1 + 1e-9, Y: 0, Z: 0}, d},
	}
	m := Weld(soup, 1e-6)
	if m.VertexCount() != 4 {
		t.Fatalf("VertexCount() = %d, want 4", m.VertexCount())
	}
	want := geom.TriangleSet{{0, 1, 2}, {2, 1, 3}}
	if len(m.Triangles) != len(want) {
		t.Fatalf("got %d triangles, want %d", len(m.Triangles), len(want))
	}
	for i := range want {
		if m.Triangles[i] != want[i] {
			t.Errorf("triangle %d = %v, want %v", i, m.Triangles[i], want[i])
		}
	}
}

func TestWeldDropsCollapsedTriangles(t *testing.T) {
	a := geom.Point{X: 0, Y: 0, Z: 0}
	b := geom.Point{X: 1, Y: 0, Z: 0}
	c := geom.Point{X: 0, Y: 1, Z: 0}
	soup := [][3]geom.Point{
		{a, {X: 1e-9}, b}, // a and its near copy merge
		{a, b, c},
	}
	m := Weld(soup, 1e-6)
	if m.TriangleCount() != 1 {
		t.Fatalf("TriangleCount() = %d, want 1", m.TriangleCount())
	}
	if m.VertexCount() != 3 {
		t.Errorf("VertexCount() = %d, want 3 (no orphans from dropped triangles)", m.VertexCount())
	}
	if err := geom.CheckTriangles(m.VertexCount(), m.Triangles); err != nil {
		t.Errorf("welded mesh has invalid indices: %v", err)
	}
}

func TestWeldExact(t *testing.T) {
	a := geom.Point{X: 0, Y: 0, Z: 0}
	b := geom.Point{X: 1, Y: 0, Z: 0}
	c := geom.Point{X: 0, Y: 1, Z: 0}
	m := Weld([][3]geom.Point{{a, b, c}, {a, {X: 1 + 1e-12}, c}}, 0)
	if m.VertexCount() != 4 {
		t.Errorf("VertexCount() = %d, want 4 with exact matching", m.VertexCount())
	}
}

// --- Compile-time interface check with a stub kernel ---

// stubSolid is a minimal Solid implementation for testing.
type stubSolid struct {
	minBB, maxBB [3]float64
}

func (s *stubSolid) BoundingBox() (min, max [3]float64) {
	return s.minBB, s.maxBB
}

// stubKernel is a minimal Kernel implementation that proves the interface
// is satisfiable. All methods return trivial results.
type stubKernel struct{}

func (k *stubKernel) Box(x, y, z float64) (Solid, error) {
	return &stubSolid{
		minBB: [3]float64{0, 0, 0},
		maxBB: [3]float64{x, y, z},
	}, nil
}

func (k *stubKernel) Sphere(r float64) (Solid, error) {
	return &stubSolid{
		minBB: [3]float64{-r, -r, -r},
		maxBB: [3]float64{r, r, r},
	}, nil
}

func (k *stubKernel) Cylinder(height, radius float64) (Solid, error) {
	return &stubSolid{
		minBB: [3]float64{-radius, -radius, 0},
		maxBB: [3]float64{radius, radius, height},
	}, nil
}

func (k *stubKernel) Union(a Solid, _ ...Solid) Solid { return a }
func (k *stubKernel) Difference(a, _ Solid) Solid     { return a }
func (k *stubKernel) Intersection(a, _ Solid) Solid   { return a }

func (k *stubKernel) Translate(s Solid, _, _, _ float64) Solid { return s }
func (k *stubKernel) Rotate(s Solid, _, _, _ float64) Solid    { return s }

func (k *stubKernel) ToMesh(_ Solid) (*Mesh, error) {
	return &Mesh{}, nil
}

// Compile-time checks that the stubs implement the interfaces.
var _ Solid = (*stubSolid)(nil)
var _ Kernel = (*stubKernel)(nil)

func TestStubKernelBoxBoundingBox(t *testing.T) {
	var k Kernel = &stubKernel{}
	s, err := k.Box(10, 20, 30)
	if err != nil {
		t.Fatalf("Box() error = %v", err)
	}
	min, max := s.BoundingBox()
	if min != [3]float64{0, 0, 0} {
		t.Errorf("Box min = %v, want [0 0 0]", min)
	}
	if max != [3]float64{10, 20, 30} {
		t.Errorf("Box max = %v, want [10 20 30]", max)
	}
}
