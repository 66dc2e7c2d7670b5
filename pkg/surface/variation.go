package surface

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/Nelarius/Morphoviewer/pkg/geom"
)

const (
	// MaxEnergy caps the energy of a single triangle. Near-degenerate
	// triangles have an ill-conditioned first fundamental form.
	MaxEnergy = 1000.0

	// contrastOffset and contrastSlope shape the mapping of normalized
	// energy e to 1 - exp(contrastOffset - contrastSlope*e)/20.
	contrastOffset = 2.99572315
	contrastSlope  = 15.0
	contrastScale  = 20.0
)

// Contrast maps a normalized energy in [0,1] to the displayed value.
func Contrast(e float64) float64 {
	return 1 - math.Exp(contrastOffset-contrastSlope*e)/contrastScale
}

// Variation computes the per-triangle Dirichlet energy trace(G⁻¹H) of an
// unwrapped mesh, where G is the first fundamental form of the triangle's
// edges and H the same form of its normal differences. Energies are capped
// at MaxEnergy, divided by the largest one and passed through Contrast.
// All three slots of a triangle get the same value.
//
// A triangle whose G cannot be inverted gets energy 0 and is listed in a
// *geom.DegenerateError returned with the full result. If the largest
// energy is zero the field cannot be normalized and
// geom.ErrZeroNormalizationRange is returned with no result, joined with
// the *geom.DegenerateError when some triangles were degenerate.
func Variation(points geom.PointSet, normals []geom.Normal) (geom.ScalarField, error) {
	if err := checkUnwrapped(len(points), len(normals)); err != nil {
		return nil, err
	}

	var (
		g, h       = mat.NewDense(2, 2, nil), mat.NewDense(2, 2, nil)
		inv, gh    mat.Dense
		energies   = make([]float64, len(points)/3)
		degenerate []int
		maxEnergy  float64
	)

	for ti := range energies {
		p0, p1, p2 := points[3*ti], points[3*ti+1], points[3*ti+2]
		n0, n1, n2 := normals[3*ti], normals[3*ti+1], normals[3*ti+2]

		u, v := p1.Sub(p0), p2.Sub(p0)
		setForm(g, u, v)
		nu, nv := n1.Sub(n0), n2.Sub(n0)
		setForm(h, nu, nv)

		if err := inv.Inverse(g); err != nil {
			degenerate = append(degenerate, ti)
			continue
		}
		gh.Mul(&inv, h)
		e := mat.Trace(&gh)
		if math.IsNaN(e) || math.IsInf(e, 0) {
			degenerate = append(degenerate, ti)
			continue
		}
		if e > MaxEnergy {
			e = MaxEnergy
		}
		energies[ti] = e
		maxEnergy = math.Max(maxEnergy, e)
	}

	if maxEnergy == 0 {
		if len(degenerate) > 0 {
			return nil, errors.Join(geom.ErrZeroNormalizationRange,
				&geom.DegenerateError{Stage: "surface variation", Elements: degenerate})
		}
		return nil, geom.ErrZeroNormalizationRange
	}

	out := make(geom.ScalarField, len(points))
	for ti, e := range energies {
		c := Contrast(e / maxEnergy)
		out[3*ti], out[3*ti+1], out[3*ti+2] = c, c, c
	}
	if len(degenerate) > 0 {
		return out, &geom.DegenerateError{Stage: "surface variation", Elements: degenerate}
	}
	return out, nil
}

// setForm writes the Gram matrix of a and b into m.
func setForm(m *mat.Dense, a, b geom.Normal) {
	ab := a.Dot(b)
	m.Set(0, 0, a.Dot(a))
	m.Set(0, 1, ab)
	m.Set(1, 0, ab)
	m.Set(1, 1, b.Dot(b))
}

func checkUnwrapped(points, normals int) error {
	if points == 0 {
		return geom.ErrEmptyInput
	}
	if points%3 != 0 {
		return &geom.LengthError{What: "unwrapped points", Got: points, Multiple: 3}
	}
	if normals != points {
		return &geom.LengthError{What: "unwrapped normals", Got: normals, Want: points}
	}
	return nil
}
