package pipeline

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/Nelarius/Morphoviewer/pkg/config"
	"github.com/Nelarius/Morphoviewer/pkg/geom"
	"github.com/Nelarius/Morphoviewer/pkg/kernel"
	"github.com/Nelarius/Morphoviewer/pkg/kernel/sdfx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProcessor(t *testing.T, mutate func(*config.Pipeline)) *Processor {
	t.Helper()
	cfg := config.Default().Pipeline
	if mutate != nil {
		mutate(&cfg)
	}
	p, err := New(cfg, nil)
	require.NoError(t, err)
	return p
}

// tetrahedron returns a closed tetrahedron around offset with every face
// wound outward.
func tetrahedron(offset geom.Point) *kernel.Mesh {
	pts := geom.PointSet{{X: 1, Y: 1, Z: 1}, {X: 1, Y: -1, Z: -1}, {X: -1, Y: 1, Z: -1}, {X: -1, Y: -1, Z: 1}}
	tris := geom.TriangleSet{{0, 1, 2}, {0, 1, 3}, {0, 2, 3}, {1, 2, 3}}
	for i, tr := range tris {
		a, b, c := pts[tr[0]], pts[tr[1]], pts[tr[2]]
		if b.Sub(a).Cross(c.Sub(a)).Dot(a) < 0 {
			tris[i] = geom.Triangle{tr[0], tr[2], tr[1]}
		}
	}
	for i := range pts {
		pts[i] = pts[i].Add(offset)
	}
	return &kernel.Mesh{Points: pts, Triangles: tris, PartName: "tetra"}
}

func assertUnitRange(t *testing.T, field geom.ScalarField) {
	t.Helper()
	for i, v := range field {
		if v < 0 || v > 1 || math.IsNaN(v) {
			t.Fatalf("field[%d] = %v, want within [0,1]", i, v)
		}
	}
}

func TestProcessTetrahedron(t *testing.T) {
	offset := geom.Point{X: 5, Y: -3, Z: 2}
	m := tetrahedron(offset)
	orig := m.Points.Clone()

	res, err := newProcessor(t, nil).Process(m)
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	assert.False(t, res.Triangulated)
	assert.Equal(t, "tetra", res.PartName)
	assert.Equal(t, orig, m.Points, "input mesh must not change")

	assert.InDelta(t, offset.X, res.Offset.X, 1e-12)
	assert.InDelta(t, offset.Y, res.Offset.Y, 1e-12)
	assert.InDelta(t, offset.Z, res.Offset.Z, 1e-12)
	assert.InDelta(t, 0, res.Bounds.Center.Norm(), 1e-12)
	assert.InDelta(t, 2*math.Sqrt(3), res.Bounds.Length, 1e-12)

	n := 3 * len(m.Triangles)
	assert.Len(t, res.FaceNormals, len(m.Points))
	assert.Len(t, res.VertexNormals, len(m.Points))
	assert.Len(t, res.Vertices, n)
	assert.Len(t, res.Normals, n)
	assert.Len(t, res.Curvature, n)
	assert.Len(t, res.Orientation, n)
	assertUnitRange(t, res.Curvature)
	assertUnitRange(t, res.Orientation)

	// Symmetric solid: vertex normals point straight out of the centroid.
	for i, p := range res.Points {
		want := p.Normalize()
		assert.InDelta(t, 0, res.VertexNormals[i].Sub(want).Norm(), 1e-9, "vertex %d", i)
	}
	// Corner k of triangle t is point Triangles[t][k].
	for ti, tr := range res.Triangles {
		for k := range 3 {
			assert.Equal(t, res.Points[tr[k]], res.Vertices[3*ti+k])
			assert.Equal(t, res.VertexNormals[tr[k]], res.Normals[3*ti+k])
		}
	}
}

func TestProcessWithoutCentering(t *testing.T) {
	m := tetrahedron(geom.Point{X: 10})
	res, err := newProcessor(t, func(c *config.Pipeline) { c.Center = false }).Process(m)
	require.NoError(t, err)
	assert.Equal(t, geom.Point{}, res.Offset)
	assert.Equal(t, m.Points, res.Points)
	assert.InDelta(t, 10, res.Bounds.Center.X, 1e-12)
}

func TestProcessCloudIsTriangulated(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	var pts geom.PointSet
	for range 200 {
		x, y := rng.Float64()*4-2, rng.Float64()*4-2
		pts = append(pts, geom.Point{X: x, Y: y, Z: 0.3 * math.Sin(x) * math.Cos(y)})
	}
	m := &kernel.Mesh{Points: pts, PartName: "terrain"}

	res, err := newProcessor(t, nil).Process(m)
	require.NoError(t, err)
	assert.True(t, res.Triangulated)
	require.NotEmpty(t, res.Triangles)
	assert.Nil(t, m.Triangles, "input mesh keeps no connectivity")

	// A height field triangulated counter-clockwise in XY faces up.
	for i, n := range res.VertexNormals {
		assert.Greater(t, n.Z, 0.0, "vertex %d", i)
	}
	assertUnitRange(t, res.Curvature)
	assert.Len(t, res.Curvature, 3*len(res.Triangles))
}

func TestProcessCloudTooSmall(t *testing.T) {
	m := &kernel.Mesh{Points: geom.PointSet{{}, {X: 1}, {X: 2}}, PartName: "line"}
	_, err := newProcessor(t, nil).Process(m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "triangulate")
}

func flatSquare() *kernel.Mesh {
	return &kernel.Mesh{
		Points:    geom.PointSet{{}, {X: 1}, {X: 1, Y: 1}, {Y: 1}},
		Triangles: geom.TriangleSet{{0, 1, 2}, {0, 2, 3}},
		PartName:  "flat",
	}
}

func TestProcessFlatSurface(t *testing.T) {
	res, err := newProcessor(t, nil).Process(flatSquare())
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "zero normalization range")
	assert.Equal(t, make(geom.ScalarField, 6), res.Curvature)
	assert.Len(t, res.Orientation, 6)
}

func TestProcessFlatSurfaceStrict(t *testing.T) {
	_, err := newProcessor(t, func(c *config.Pipeline) { c.Strict = true }).Process(flatSquare())
	require.ErrorIs(t, err, geom.ErrZeroNormalizationRange)
	assert.Contains(t, err.Error(), `"flat"`)
}

func TestProcessCollinearTriangleListsDegenerates(t *testing.T) {
	m := &kernel.Mesh{
		Points:    geom.PointSet{{}, {X: 1}, {X: 2}},
		Triangles: geom.TriangleSet{{0, 1, 2}},
		PartName:  "needle",
	}
	res, err := newProcessor(t, nil).Process(m)
	require.NoError(t, err)
	assert.Equal(t, make(geom.ScalarField, 3), res.Curvature)
	assert.Contains(t, res.Warnings, "surface variation: 1 degenerate elements [0]")
	assert.Contains(t, res.Warnings, "surface variation: zero normalization range, curvature set to zero")
}

func withIsolatedVertex() *kernel.Mesh {
	m := tetrahedron(geom.Point{})
	m.Points = append(m.Points, geom.Point{X: 3, Y: 3, Z: 3})
	return m
}

func TestProcessDegenerateWarns(t *testing.T) {
	res, err := newProcessor(t, nil).Process(withIsolatedVertex())
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "vertex normals")
	assert.Equal(t, geom.Normal{}, res.VertexNormals[4])
	assertUnitRange(t, res.Curvature)
}

func TestProcessDegenerateStrict(t *testing.T) {
	_, err := newProcessor(t, func(c *config.Pipeline) { c.Strict = true }).Process(withIsolatedVertex())
	require.ErrorIs(t, err, geom.ErrDegenerateGeometry)

	var de *geom.DegenerateError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "vertex normals", de.Stage)
	assert.Equal(t, []int{4}, de.Elements)
}

func TestProcessRejects(t *testing.T) {
	p := newProcessor(t, nil)

	_, err := p.Process(nil)
	assert.ErrorIs(t, err, geom.ErrEmptyInput)

	_, err = p.Process(&kernel.Mesh{})
	assert.ErrorIs(t, err, geom.ErrEmptyInput)

	bad := tetrahedron(geom.Point{})
	bad.Triangles = append(bad.Triangles, geom.Triangle{0, 1, 9})
	_, err = p.Process(bad)
	require.ErrorIs(t, err, geom.ErrIndexOutOfRange)

	var ie *geom.IndexError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, 4, ie.Triangle)
	assert.Equal(t, 2, ie.Corner)
}

func TestProcessSphere(t *testing.T) {
	k := sdfx.New(sdfx.WithCells(24))
	s, err := k.Sphere(10)
	require.NoError(t, err)
	m, err := k.ToMesh(s)
	require.NoError(t, err)
	m.PartName = "ball"

	res, err := newProcessor(t, nil).Process(m)
	require.NoError(t, err)

	for i, n := range res.Normals {
		require.Greater(t, n.Dot(res.Vertices[i]), 0.0, "corner %d normal points inward", i)
	}
	assertUnitRange(t, res.Curvature)
	assertUnitRange(t, res.Orientation)
	assert.InDelta(t, 20*math.Sqrt(3), res.Bounds.Length, 1.5)
}

type fixedTriangulator geom.TriangleSet

func (f fixedTriangulator) Triangulate(geom.PointSet) (geom.TriangleSet, error) {
	return geom.TriangleSet(f), nil
}

func TestWithTriangulator(t *testing.T) {
	p, err := New(config.Default().Pipeline, nil, WithTriangulator(fixedTriangulator{{0, 1, 2}, {0, 2, 3}}))
	require.NoError(t, err)

	res, err := p.Process(&kernel.Mesh{Points: flatSquare().Points})
	require.NoError(t, err)
	assert.True(t, res.Triangulated)
	assert.Equal(t, geom.TriangleSet{{0, 1, 2}, {0, 2, 3}}, res.Triangles)
}

func TestNewRejectsProjection(t *testing.T) {
	cfg := config.Default().Pipeline
	cfg.Projection = "cylinder"
	_, err := New(cfg, nil)
	assert.Error(t, err)
}
