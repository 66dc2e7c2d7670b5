package geom

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when an operation needs at least one point.
	ErrEmptyInput = errors.New("empty input")

	// ErrIndexOutOfRange is returned when a triangle references a point that
	// does not exist.
	ErrIndexOutOfRange = errors.New("triangle index out of range")

	// ErrDegenerateGeometry marks per-element failures such as zero-area
	// triangles or vertices without incident triangles.
	ErrDegenerateGeometry = errors.New("degenerate geometry")

	// ErrZeroNormalizationRange is returned when a field cannot be normalized
	// because its maximum is zero.
	ErrZeroNormalizationRange = errors.New("zero normalization range")

	// ErrLengthMismatch is returned when parallel arrays disagree in length or
	// a flat array is not a whole number of tuples.
	ErrLengthMismatch = errors.New("length mismatch")
)

// IndexError reports the first triangle corner that points outside the
// point set.
type IndexError struct {
	Triangle int
	Corner   int
	Index    uint32
	Len      int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("triangle %d corner %d: index %d out of range [0,%d)", e.Triangle, e.Corner, e.Index, e.Len)
}

func (e *IndexError) Unwrap() error { return ErrIndexOutOfRange }

// DegenerateError lists the elements of one stage that could not be computed.
// The operation that returns it still returns a complete result with a
// substitute value in each listed slot.
type DegenerateError struct {
	Stage    string // e.g. "face normals", "vertex normals", "surface variation"
	Elements []int  // triangle or vertex indices, ascending
}

func (e *DegenerateError) Error() string {
	const maxListed = 8
	if len(e.Elements) <= maxListed {
		return fmt.Sprintf("%s: %d degenerate elements %v", e.Stage, len(e.Elements), e.Elements)
	}
	return fmt.Sprintf("%s: %d degenerate elements %v...", e.Stage, len(e.Elements), e.Elements[:maxListed])
}

func (e *DegenerateError) Unwrap() error { return ErrDegenerateGeometry }

// LengthError reports an array whose length is not what the operation needs.
type LengthError struct {
	What     string
	Got      int
	Want     int // exact length wanted, or 0
	Multiple int // required divisor, or 0
}

func (e *LengthError) Error() string {
	if e.Multiple > 0 {
		return fmt.Sprintf("%s: length %d is not a multiple of %d", e.What, e.Got, e.Multiple)
	}
	return fmt.Sprintf("%s: length %d, want %d", e.What, e.Got, e.Want)
}

func (e *LengthError) Unwrap() error { return ErrLengthMismatch }
