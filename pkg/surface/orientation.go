package surface

import (
	"math"

	"github.com/Nelarius/Morphoviewer/pkg/geom"
)

// OrientationBins is the number of azimuth sectors.
const OrientationBins = 8

// Orientation bins the azimuth atan2(y, x) of each normal into
// OrientationBins equal sectors of [0, 2π) and maps sector i to
// i/(OrientationBins-1), so the last sector lands on exactly 1.
// Normals without an XY component, and normals whose X or Y is NaN or
// infinite, fall into sector 0.
func Orientation(normals []geom.Normal) geom.ScalarField {
	const sector = 2 * math.Pi / OrientationBins
	out := make(geom.ScalarField, len(normals))
	for i, n := range normals {
		x, y := n.X, n.Y
		if l := math.Hypot(x, y); l > 0 {
			x, y = x/l, y/l
		}
		theta := math.Atan2(y, x)
		if math.IsNaN(theta) {
			theta = 0
		}
		if theta < 0 {
			theta += 2 * math.Pi
		}
		region := int(math.Floor(theta / sector))
		switch {
		case region < 0:
			region = 0
		case region >= OrientationBins:
			// theta rounded up to 2π.
			region = OrientationBins - 1
		}
		out[i] = float64(region) / (OrientationBins - 1)
	}
	return out
}
