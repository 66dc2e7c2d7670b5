package geom

// CheckTriangles verifies that every index in tris is below n.
// It returns the first offending corner as an *IndexError.
func CheckTriangles(n int, tris TriangleSet) error {
	for ti, t := range tris {
		for c, idx := range t {
			if int64(idx) >= int64(n) {
				return &IndexError{Triangle: ti, Corner: c, Index: idx, Len: n}
			}
		}
	}
	return nil
}
