// Package pipeline runs the per-part processing chain: centering, bounds,
// triangulation of scattered points, face and vertex normals, unwrapping
// and the two per-corner scalar fields (surface variation and surface
// orientation).
//
// Degenerate elements are handled per Config.Strict. In strict mode they
// fail the part. Otherwise the substitute values computed by the stage
// stand and a warning is recorded on the Result.
package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Nelarius/Morphoviewer/pkg/config"
	"github.com/Nelarius/Morphoviewer/pkg/geom"
	"github.com/Nelarius/Morphoviewer/pkg/kernel"
	"github.com/Nelarius/Morphoviewer/pkg/normals"
	"github.com/Nelarius/Morphoviewer/pkg/surface"
	"github.com/Nelarius/Morphoviewer/pkg/triangulate"
)

// Result holds every array the pipeline produced for one part.
// Indexed arrays have one entry per point; unwrapped arrays have one entry
// per triangle corner (3 per triangle, in triangle order).
type Result struct {
	PartName string

	// Offset is the centroid that was subtracted, zero when centering is off.
	Offset geom.Point
	Bounds geom.AABB

	// Indexed
	Points        geom.PointSet
	Triangles     geom.TriangleSet
	FaceNormals   []geom.Normal
	VertexNormals []geom.Normal

	// Unwrapped
	Vertices    geom.PointSet
	Normals     []geom.Normal
	Curvature   geom.ScalarField
	Orientation geom.ScalarField

	// Triangulated is set when the part arrived as a point cloud.
	Triangulated bool
	Warnings     []string
}

// Processor runs the pipeline with a fixed configuration.
// It holds no per-part state and is safe for concurrent use.
type Processor struct {
	cfg    config.Pipeline
	tri    triangulate.Triangulator
	logger *slog.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithTriangulator replaces the Delaunay triangulator chosen from the config.
func WithTriangulator(t triangulate.Triangulator) Option {
	return func(p *Processor) { p.tri = t }
}

// New returns a Processor for cfg. A nil logger means slog.Default().
func New(cfg config.Pipeline, logger *slog.Logger, opts ...Option) (*Processor, error) {
	proj, err := triangulate.ParseProjection(cfg.Projection)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	p := &Processor{cfg: cfg, tri: triangulate.New(proj), logger: logger}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Process runs the full chain on m. The mesh is not modified.
func (p *Processor) Process(m *kernel.Mesh) (*Result, error) {
	if m == nil || m.IsEmpty() {
		return nil, fmt.Errorf("pipeline: %w", geom.ErrEmptyInput)
	}
	start := time.Now()
	log := p.logger.With("part", m.PartName)

	res := &Result{
		PartName:  m.PartName,
		Points:    m.Points.Clone(),
		Triangles: m.Triangles,
	}
	fail := func(stage string, err error) (*Result, error) {
		return nil, fmt.Errorf("pipeline: part %q: %s: %w", m.PartName, stage, err)
	}

	if p.cfg.Center {
		c, err := geom.Center(res.Points)
		if err != nil {
			return fail("center", err)
		}
		res.Offset = c
	}

	bounds, err := geom.Bounds(res.Points)
	if err != nil {
		return fail("bounds", err)
	}
	res.Bounds = bounds

	if len(res.Triangles) == 0 {
		tris, err := p.tri.Triangulate(res.Points)
		if err != nil {
			return fail("triangulate", err)
		}
		res.Triangles = tris
		res.Triangulated = true
		log.Debug("triangulated point cloud", "points", len(res.Points), "triangles", len(tris))
	}

	if err := geom.CheckTriangles(len(res.Points), res.Triangles); err != nil {
		return fail("validate", err)
	}

	res.FaceNormals, err = normals.FaceNormals(res.Points, res.Triangles)
	if err := p.tolerate(log, res, err); err != nil {
		return fail("face normals", err)
	}

	res.VertexNormals, err = normals.VertexNormals(res.Points, res.Triangles)
	if err := p.tolerate(log, res, err); err != nil {
		return fail("vertex normals", err)
	}

	if res.Vertices, err = geom.UnwrapPoints(res.Points, res.Triangles); err != nil {
		return fail("unwrap", err)
	}
	if res.Normals, err = geom.Unwrap(res.VertexNormals, res.Triangles); err != nil {
		return fail("unwrap", err)
	}

	res.Curvature, err = surface.Variation(res.Vertices, res.Normals)
	switch {
	case errors.Is(err, geom.ErrZeroNormalizationRange):
		if p.cfg.Strict {
			return fail("surface variation", err)
		}
		res.Curvature = make(geom.ScalarField, len(res.Vertices))
		res.Warnings = append(res.Warnings, "surface variation: "+geom.ErrZeroNormalizationRange.Error()+", curvature set to zero")
		log.Warn("flat surface, curvature set to zero", "stage", "surface variation")
		var de *geom.DegenerateError
		if errors.As(err, &de) {
			res.Warnings = append(res.Warnings, de.Error())
			log.Warn("degenerate elements", "stage", de.Stage, "count", len(de.Elements))
		}
	default:
		if err := p.tolerate(log, res, err); err != nil {
			return fail("surface variation", err)
		}
	}

	res.Orientation = surface.Orientation(res.Normals)

	log.Debug("part processed",
		"points", len(res.Points),
		"triangles", len(res.Triangles),
		"warnings", len(res.Warnings),
		"elapsed", time.Since(start))
	return res, nil
}

// tolerate decides what to do with a stage error. Degeneracies become
// warnings unless the processor is strict; any other error is returned.
func (p *Processor) tolerate(log *slog.Logger, res *Result, err error) error {
	if err == nil {
		return nil
	}
	var de *geom.DegenerateError
	if !errors.As(err, &de) || p.cfg.Strict {
		return err
	}
	res.Warnings = append(res.Warnings, de.Error())
	log.Warn("degenerate elements", "stage", de.Stage, "count", len(de.Elements))
	return nil
}
