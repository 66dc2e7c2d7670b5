package geom

// Centroid returns the arithmetic mean of points.
func Centroid(points PointSet) (Point, error) {
	if len(points) == 0 {
		return Point{}, ErrEmptyInput
	}
	var sum Point
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float64(len(points))), nil
}

// Center translates points in place so that their centroid is the origin
// and returns the centroid that was subtracted.
//
// The caller must own points exclusively for the duration of the call; no
// other goroutine may read or write the slice concurrently.
func Center(points PointSet) (Point, error) {
	c, err := Centroid(points)
	if err != nil {
		return Point{}, err
	}
	for i := range points {
		points[i] = points[i].Sub(c)
	}
	return c, nil
}
