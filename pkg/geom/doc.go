// Package geom defines the point, triangle and scalar-field types shared by
// the mesh processing packages, plus the small whole-array operations on
// them: centering, bounding boxes and index unwrapping.
package geom
