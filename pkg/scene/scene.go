// Package scene holds the named parts a shape script defines, in
// definition order.
package scene

import (
	"fmt"

	"github.com/Nelarius/Morphoviewer/pkg/geom"
	"github.com/Nelarius/Morphoviewer/pkg/kernel"
)

// PartKind identifies what a part carries.
type PartKind int

const (
	// PartSolid is a kernel solid that is tessellated into a mesh.
	PartSolid PartKind = iota
	// PartCloud is a set of scattered points that is triangulated later.
	PartCloud
)

func (k PartKind) String() string {
	switch k {
	case PartSolid:
		return "solid"
	case PartCloud:
		return "cloud"
	}
	return fmt.Sprintf("PartKind(%d)", int(k))
}

// Part is one named piece of a scene.
type Part struct {
	Name   string
	Kind   PartKind
	Solid  kernel.Solid  // set for PartSolid
	Points geom.PointSet // set for PartCloud
}

// Scene is an ordered collection of uniquely named parts.
type Scene struct {
	parts  []*Part
	byName map[string]*Part
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{byName: make(map[string]*Part)}
}

// Add appends p. Names must be non-empty and unique.
func (s *Scene) Add(p *Part) error {
	if p.Name == "" {
		return fmt.Errorf("part name must not be empty")
	}
	if _, ok := s.byName[p.Name]; ok {
		return fmt.Errorf("duplicate part name %q", p.Name)
	}
	switch p.Kind {
	case PartSolid:
		if p.Solid == nil {
			return fmt.Errorf("solid part %q has no solid", p.Name)
		}
	case PartCloud:
		if len(p.Points) < 3 {
			return fmt.Errorf("cloud part %q needs at least 3 points, got %d", p.Name, len(p.Points))
		}
	default:
		return fmt.Errorf("part %q has unknown kind %v", p.Name, p.Kind)
	}
	s.parts = append(s.parts, p)
	s.byName[p.Name] = p
	return nil
}

// Lookup returns the part named name, or nil.
func (s *Scene) Lookup(name string) *Part {
	return s.byName[name]
}

// Parts returns the parts in definition order.
func (s *Scene) Parts() []*Part {
	return s.parts
}

// Len returns the number of parts.
func (s *Scene) Len() int {
	return len(s.parts)
}
