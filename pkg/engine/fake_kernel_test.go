package engine

import (
	"fmt"

	"github.com/Nelarius/Morphoviewer/pkg/kernel"
)

// fakeSolid records the operation that produced it.
type fakeSolid struct {
	op       string
	args     []float64
	operands []kernel.Solid
}

func (s *fakeSolid) BoundingBox() (min, max [3]float64) { return }

// fakeKernel builds fakeSolids without doing any geometry.
type fakeKernel struct{}

var _ kernel.Kernel = fakeKernel{}

func (fakeKernel) Box(x, y, z float64) (kernel.Solid, error) {
	if x <= 0 || y <= 0 || z <= 0 {
		return nil, fmt.Errorf("box dimensions must be positive")
	}
	return &fakeSolid{op: "box", args: []float64{x, y, z}}, nil
}

func (fakeKernel) Sphere(r float64) (kernel.Solid, error) {
	if r <= 0 {
		return nil, fmt.Errorf("sphere radius must be positive")
	}
	return &fakeSolid{op: "sphere", args: []float64{r}}, nil
}

func (fakeKernel) Cylinder(h, r float64) (kernel.Solid, error) {
	return &fakeSolid{op: "cylinder", args: []float64{h, r}}, nil
}

func (fakeKernel) Union(a kernel.Solid, rest ...kernel.Solid) kernel.Solid {
	return &fakeSolid{op: "union", operands: append([]kernel.Solid{a}, rest...)}
}

func (fakeKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return &fakeSolid{op: "difference", operands: []kernel.Solid{a, b}}
}

func (fakeKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return &fakeSolid{op: "intersection", operands: []kernel.Solid{a, b}}
}

func (fakeKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return &fakeSolid{op: "translate", args: []float64{x, y, z}, operands: []kernel.Solid{s}}
}

func (fakeKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return &fakeSolid{op: "rotate", args: []float64{x, y, z}, operands: []kernel.Solid{s}}
}

func (fakeKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	return nil, fmt.Errorf("fake kernel does not mesh")
}
