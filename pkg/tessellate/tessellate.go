// Package tessellate turns a scene into indexed triangle meshes using a
// geometry kernel. One mesh is produced per part.
package tessellate

import (
	"context"
	"fmt"
	"runtime"

	"github.com/Nelarius/Morphoviewer/pkg/kernel"
	"github.com/Nelarius/Morphoviewer/pkg/scene"
	"golang.org/x/sync/errgroup"
)

// Tessellate meshes every part of s in definition order. Solid parts go
// through k.ToMesh; cloud parts come back as meshes with points and no
// triangles, to be triangulated downstream. Parts are meshed concurrently.
// The first failure cancels the parts that have not started yet.
// The scene is never mutated.
func Tessellate(ctx context.Context, s *scene.Scene, k kernel.Kernel) ([]*kernel.Mesh, error) {
	if s == nil || s.Len() == 0 {
		return nil, nil
	}

	parts := s.Parts()
	meshes := make([]*kernel.Mesh, len(parts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, p := range parts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m, err := tessellatePart(k, p)
			if err != nil {
				return err
			}
			meshes[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return meshes, nil
}

func tessellatePart(k kernel.Kernel, p *scene.Part) (*kernel.Mesh, error) {
	switch p.Kind {
	case scene.PartCloud:
		return &kernel.Mesh{Points: p.Points.Clone(), PartName: p.Name}, nil

	case scene.PartSolid:
		if k == nil {
			return nil, fmt.Errorf("tessellate: part %q: no geometry kernel", p.Name)
		}
		mesh, err := k.ToMesh(p.Solid)
		if err != nil {
			return nil, fmt.Errorf("tessellate: ToMesh failed for part %q: %w", p.Name, err)
		}
		mesh.PartName = p.Name
		return mesh, nil
	}
	return nil, fmt.Errorf("tessellate: part %q has unsupported kind %v", p.Name, p.Kind)
}
