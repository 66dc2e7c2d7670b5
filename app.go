package main

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/Nelarius/Morphoviewer/pkg/config"
	"github.com/Nelarius/Morphoviewer/pkg/engine"
	"github.com/Nelarius/Morphoviewer/pkg/geom"
	"github.com/Nelarius/Morphoviewer/pkg/kernel"
	"github.com/Nelarius/Morphoviewer/pkg/kernel/sdfx"
	"github.com/Nelarius/Morphoviewer/pkg/pipeline"
	"github.com/Nelarius/Morphoviewer/pkg/tessellate"
	"golang.org/x/sync/errgroup"
)

// colorPalette assigns distinct colors to parts in definition order.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App turns shape scripts into per-part render data. It is the hand-off
// point to the renderer, which consumes the JSON form of ViewResult.
type App struct {
	engine *engine.Engine
	kernel kernel.Kernel
	proc   *pipeline.Processor
	logger *slog.Logger
}

// MeshData is one part, unwrapped so that corner i of triangle t sits at
// slot 3t+i of every per-corner array.
type MeshData struct {
	PartName     string     `json:"partName"`
	Vertices     []float32  `json:"vertices"`    // xyz per corner
	Normals      []float32  `json:"normals"`     // xyz per corner, vertex normals
	Curvature    []float32  `json:"curvature"`   // surface variation per corner, [0,1]
	Orientation  []float32  `json:"orientation"` // azimuth bin per corner, [0,1]
	Indices      []uint32   `json:"indices"`     // 0..n-1, one per corner
	Bounds       geom.AABB  `json:"bounds"`
	Offset       [3]float64 `json:"offset"` // centroid removed by centering
	Triangulated bool       `json:"triangulated"`
	Color        string     `json:"color"`
}

// MessageData is an error or warning for the frontend.
type MessageData struct {
	Part    string `json:"part,omitempty"`
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// ViewResult is everything the renderer needs for one evaluation.
type ViewResult struct {
	Meshes   []MeshData    `json:"meshes"`
	Errors   []MessageData `json:"errors"`
	Warnings []MessageData `json:"warnings"`
}

// NewApp wires the engine, the sdfx kernel and the pipeline from cfg.
// A nil logger means slog.Default().
func NewApp(cfg config.Config, logger *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	k := sdfx.New(sdfx.WithCells(cfg.Kernel.Cells))
	proc, err := pipeline.New(cfg.Pipeline, logger)
	if err != nil {
		return nil, err
	}
	return &App{
		engine: engine.NewEngine(k),
		kernel: k,
		proc:   proc,
		logger: logger,
	}, nil
}

// Evaluate runs source through the engine, the kernel and the pipeline.
// Script errors stop evaluation. A part that fails the pipeline is reported
// in Errors and left out of Meshes; the other parts still render.
// All slices in the result are non-nil.
func (a *App) Evaluate(source string) ViewResult {
	result := ViewResult{
		Meshes:   []MeshData{},
		Errors:   []MessageData{},
		Warnings: []MessageData{},
	}

	sc, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		a.logger.Error("evaluate failed", "err", err)
		result.Errors = append(result.Errors, MessageData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, MessageData{Line: e.Line, Col: e.Col, Message: e.Message})
		}
		return result
	}

	ctx := context.Background()
	meshes, err := tessellate.Tessellate(ctx, sc, a.kernel)
	if err != nil {
		a.logger.Error("tessellate failed", "err", err)
		result.Errors = append(result.Errors, MessageData{Message: "tessellation failed: " + err.Error()})
		return result
	}

	results := make([]*pipeline.Result, len(meshes))
	failures := make([]error, len(meshes))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, m := range meshes {
		g.Go(func() error {
			results[i], failures[i] = a.proc.Process(m)
			return nil
		})
	}
	_ = g.Wait()

	for i, m := range meshes {
		if failures[i] != nil {
			a.logger.Warn("part dropped", "part", m.PartName, "err", failures[i])
			result.Errors = append(result.Errors, MessageData{Part: m.PartName, Message: failures[i].Error()})
			continue
		}
		res := results[i]
		for _, w := range res.Warnings {
			result.Warnings = append(result.Warnings, MessageData{Part: m.PartName, Message: w})
		}
		result.Meshes = append(result.Meshes, toMeshData(res, colorPalette[i%len(colorPalette)]))
	}
	return result
}

func toMeshData(res *pipeline.Result, color string) MeshData {
	indices := make([]uint32, len(res.Vertices))
	for i := range indices {
		indices[i] = uint32(i)
	}
	normals := make([]float32, 0, 3*len(res.Normals))
	for _, n := range res.Normals {
		normals = append(normals, float32(n.X), float32(n.Y), float32(n.Z))
	}
	return MeshData{
		PartName:     res.PartName,
		Vertices:     toFloat32(res.Vertices.Flatten()),
		Normals:      normals,
		Curvature:    toFloat32(res.Curvature),
		Orientation:  toFloat32(res.Orientation),
		Indices:      indices,
		Bounds:       res.Bounds,
		Offset:       [3]float64{res.Offset.X, res.Offset.Y, res.Offset.Z},
		Triangulated: res.Triangulated,
		Color:        color,
	}
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(f)
	}
	return out
}

// String summarizes a result for logs.
func (r ViewResult) String() string {
	corners := 0
	for _, m := range r.Meshes {
		corners += len(m.Indices)
	}
	return fmt.Sprintf("%d parts, %d triangles, %d errors, %d warnings",
		len(r.Meshes), corners/3, len(r.Errors), len(r.Warnings))
}
