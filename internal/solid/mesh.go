package solid

import "github.com/paulmach/orb"

// Point3 is a point in the local metric coordinate system.
type Point3 struct {
	X, Y, Z float64
}

// Face is a planar polygon with an optional set of interior rings. Rings
// are closed: the first point equals the last.
type Face struct {
	Exterior  []Point3
	Interiors [][]Point3
}

// Solid is a capped volume: bottom cap, top cap and one wall quad per ring
// edge. It is the unit handed to the model writer.
type Solid struct {
	Name       string
	SourceID   string
	Faces      []Face
	Attributes map[string]string
}

// Solidify builds the capped solid for a spec. The bottom cap sits at the
// base elevation, the top cap at base + thickness, and every ring edge of
// the footprint, holes included, contributes a vertical wall quad.
func (s *Spec) Solidify() *Solid {
	top := s.Base + s.Thickness

	faces := make([]Face, 0, 2+wallCount(s))

	// Bottom cap, reversed so the normal points down.
	bottom := Face{Exterior: ringFace(reversed(s.Outer), s.Base)}
	for _, hole := range s.Holes {
		bottom.Interiors = append(bottom.Interiors, ringFace(reversed(hole), s.Base))
	}
	faces = append(faces, bottom)

	// Top cap keeps the normalized winding.
	topCap := Face{Exterior: ringFace(s.Outer, top)}
	for _, hole := range s.Holes {
		topCap.Interiors = append(topCap.Interiors, ringFace(hole, top))
	}
	faces = append(faces, topCap)

	faces = append(faces, walls(s.Outer, s.Base, top)...)
	for _, hole := range s.Holes {
		faces = append(faces, walls(hole, s.Base, top)...)
	}

	return &Solid{
		Name:       s.Name,
		SourceID:   s.SourceID,
		Faces:      faces,
		Attributes: s.Attributes,
	}
}

// walls emits one outward-facing quad per ring edge.
func walls(ring orb.Ring, base, top float64) []Face {
	faces := make([]Face, 0, len(ring)-1)
	for i := 0; i+1 < len(ring); i++ {
		a, b := ring[i], ring[i+1]
		faces = append(faces, Face{Exterior: []Point3{
			{a[0], a[1], base},
			{b[0], b[1], base},
			{b[0], b[1], top},
			{a[0], a[1], top},
			{a[0], a[1], base},
		}})
	}
	return faces
}

func ringFace(ring orb.Ring, z float64) []Point3 {
	pts := make([]Point3, 0, len(ring))
	for _, p := range ring {
		pts = append(pts, Point3{p[0], p[1], z})
	}
	return pts
}

func reversed(ring orb.Ring) orb.Ring {
	out := make(orb.Ring, len(ring))
	for i, p := range ring {
		out[len(ring)-1-i] = p
	}
	return out
}

func wallCount(s *Spec) int {
	n := len(s.Outer) - 1
	for _, hole := range s.Holes {
		n += len(hole) - 1
	}
	return n
}
