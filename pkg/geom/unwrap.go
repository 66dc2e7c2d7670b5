package geom

// Unwrap expands an indexed per-vertex array into triangle-major order:
// for each triangle, the values at its three indices. A vertex shared by k
// triangles appears k times in the result.
func Unwrap[T any](values []T, tris TriangleSet) ([]T, error) {
	if err := CheckTriangles(len(values), tris); err != nil {
		return nil, err
	}
	out := make([]T, 0, 3*len(tris))
	for _, t := range tris {
		out = append(out, values[t[0]], values[t[1]], values[t[2]])
	}
	return out, nil
}

// UnwrapPoints is Unwrap for points.
func UnwrapPoints(points PointSet, tris TriangleSet) (PointSet, error) {
	return Unwrap(points, tris)
}

// UnwrapVectorArray unwraps points and flattens the result to nine
// coordinates per triangle.
func UnwrapVectorArray(points PointSet, tris TriangleSet) ([]float64, error) {
	u, err := UnwrapPoints(points, tris)
	if err != nil {
		return nil, err
	}
	return PointSet(u).Flatten(), nil
}

// UnwrapArray is Unwrap for per-vertex scalars.
func UnwrapArray(values []float64, tris TriangleSet) ([]float64, error) {
	return Unwrap(values, tris)
}
