// Package solid is the geometry-emission boundary: it turns projected
// footprints into solid specifications and capped volume meshes. Winding
// is normalized here, and only here — outer rings counter-clockwise,
// holes clockwise.
package solid

import (
	"strings"

	"github.com/paulmach/orb"

	"osmvolume/internal/footprint"
)

// Kind selects how a footprint becomes a solid.
type Kind int

const (
	// KindExtrusion is a plain capped extrusion of a hole-free outer ring.
	KindExtrusion Kind = iota
	// KindPlanarWithHoles extrudes a planar face with interior rings.
	KindPlanarWithHoles
)

// Spec is a ready-to-extrude solid specification: a winding-normalized
// outer ring, optional holes, and a strictly positive vertical extent.
type Spec struct {
	Kind     Kind
	Name     string
	SourceID string

	Outer orb.Ring
	Holes []orb.Ring

	// Thickness is height - minHeight; Base is the elevation of the
	// bottom cap.
	Thickness float64
	Base      float64

	// Attributes is the filtered tag set attached to the emitted object.
	Attributes map[string]string
}

// Build resolves a projected footprint and its vertical extent into a
// Spec. It returns nil for degenerate geometry: non-positive extrusion
// thickness, or an outer ring with fewer than 4 points. Degenerate holes
// are dropped silently rather than failing the whole feature.
func Build(f footprint.Feature, height, minHeight float64) *Spec {
	thickness := height - minHeight
	if thickness <= 0 {
		return nil
	}

	outer, ok := normalizeRing(f.Outer, orb.CCW)
	if !ok {
		return nil
	}

	var holes []orb.Ring
	for _, hole := range f.Holes {
		if h, ok := normalizeRing(hole, orb.CW); ok {
			holes = append(holes, h)
		}
	}

	kind := KindExtrusion
	if len(holes) > 0 {
		kind = KindPlanarWithHoles
	}

	return &Spec{
		Kind:       kind,
		Name:       f.Name(),
		SourceID:   f.SourceID,
		Outer:      outer,
		Holes:      holes,
		Thickness:  thickness,
		Base:       minHeight,
		Attributes: filterAttributes(f),
	}
}

// normalizeRing closes the ring if needed, rejects rings with fewer than
// 4 points, and fixes the winding to the requested orientation.
func normalizeRing(ring orb.Ring, want orb.Orientation) (orb.Ring, bool) {
	if len(ring) < 4 {
		return nil, false
	}

	out := make(orb.Ring, len(ring), len(ring)+1)
	copy(out, ring)
	if out[0] != out[len(out)-1] {
		out = append(out, out[0])
	}
	if len(out) < 4 {
		return nil, false
	}

	if out.Orientation() != want {
		reverse(out)
	}
	return out, true
}

func reverse(ring orb.Ring) {
	for i, j := 0, len(ring)-1; i < j; i, j = i+1, j-1 {
		ring[i], ring[j] = ring[j], ring[i]
	}
}

// filterAttributes keeps every building-prefixed tag plus the height,
// min_height and name tags, and records provenance under osm:id.
func filterAttributes(f footprint.Feature) map[string]string {
	attrs := map[string]string{}
	for key, value := range f.Tags {
		if strings.HasPrefix(key, "building") ||
			key == "height" || key == "min_height" || key == "name" {
			attrs[key] = value
		}
	}
	attrs["osm:id"] = f.SourceID
	return attrs
}
