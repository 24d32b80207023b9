package footprint

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// ringCentroid is the arithmetic mean of a ring's points. For the small,
// mostly convex rings buildings produce this is a good interior proxy.
func ringCentroid(ring orb.Ring) orb.Point {
	if len(ring) == 0 {
		return orb.Point{}
	}
	var x, y float64
	for _, p := range ring {
		x += p[0]
		y += p[1]
	}
	n := float64(len(ring))
	return orb.Point{x / n, y / n}
}

// assignHoles distributes candidate hole rings over the outer rings of one
// relation. Each hole goes to the first outer ring that contains its
// centroid (even-odd ray cast) and is removed from the pool; holes matching
// no outer ring are dropped. Centroid-in-polygon instead of full
// polygon-in-polygon containment is a known approximation.
func assignHoles(outers []orb.Ring, holes []orb.Ring) [][]orb.Ring {
	assigned := make([][]orb.Ring, len(outers))
	remaining := holes

	for i, outer := range outers {
		var next []orb.Ring
		for _, hole := range remaining {
			if planar.RingContains(outer, ringCentroid(hole)) {
				assigned[i] = append(assigned[i], hole)
			} else {
				next = append(next, hole)
			}
		}
		remaining = next
	}
	return assigned
}
