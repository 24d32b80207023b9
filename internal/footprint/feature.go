// Package footprint reconstructs closed, hole-aware building footprints
// from the tag-graph: it stitches fragmented way boundaries into rings,
// classifies inner rings against their enclosing outer ring, and merges
// the attributes that travel with each footprint.
package footprint

import "github.com/paulmach/orb"

// Feature is a single extrudable footprint. Rings store points as
// orb.Point{lon, lat} in the geographic stage and {x, y} after projection.
// Features are value objects: transforms produce new Features rather than
// mutating in place.
type Feature struct {
	// SourceID identifies provenance, e.g. "way/42" or "relation/7".
	SourceID string
	// Outer is the closed boundary ring (first point equals last point,
	// at least 4 points). Winding is not fixed here; orientation is
	// normalized at the geometry-emission boundary.
	Outer orb.Ring
	// Holes are closed rings interior to Outer by centroid containment.
	Holes []orb.Ring
	// Tags are the merged attributes of the originating way or relation.
	Tags map[string]string
}

// Name returns the display name: the name tag if present, else SourceID.
func (f Feature) Name() string {
	if name, ok := f.Tags["name"]; ok && name != "" {
		return name
	}
	return f.SourceID
}

// Centroid returns the unweighted mean of the outer ring's points.
func (f Feature) Centroid() orb.Point {
	return ringCentroid(f.Outer)
}
