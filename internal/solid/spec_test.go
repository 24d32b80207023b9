package solid

import (
	"testing"

	"github.com/paulmach/orb"

	"osmvolume/internal/footprint"
)

func ccwSquare() orb.Ring {
	return orb.Ring{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}
}

func cwSquare() orb.Ring {
	return orb.Ring{{0, 0}, {0, 10}, {10, 10}, {10, 0}, {0, 0}}
}

func TestBuildNormalizesWinding(t *testing.T) {
	f := footprint.Feature{
		SourceID: "way/1",
		Outer:    cwSquare(),
		Holes: []orb.Ring{
			{{2, 2}, {4, 2}, {4, 4}, {2, 4}, {2, 2}}, // ccw, must flip
		},
		Tags: map[string]string{"building": "yes"},
	}

	spec := Build(f, 10, 0)
	if spec == nil {
		t.Fatal("Build returned nil for valid feature")
	}
	if spec.Outer.Orientation() != orb.CCW {
		t.Errorf("outer winding not normalized to CCW")
	}
	if spec.Holes[0].Orientation() != orb.CW {
		t.Errorf("hole winding not normalized to CW")
	}
	// The input rings keep their original winding.
	if f.Outer.Orientation() != orb.CW {
		t.Errorf("input outer ring was mutated")
	}
}

func TestBuildKinds(t *testing.T) {
	plain := footprint.Feature{SourceID: "way/1", Outer: ccwSquare()}
	if spec := Build(plain, 5, 0); spec == nil || spec.Kind != KindExtrusion {
		t.Errorf("hole-free footprint should build a KindExtrusion spec")
	}

	holed := footprint.Feature{
		SourceID: "way/2",
		Outer:    ccwSquare(),
		Holes:    []orb.Ring{{{2, 2}, {4, 2}, {4, 4}, {2, 4}, {2, 2}}},
	}
	if spec := Build(holed, 5, 0); spec == nil || spec.Kind != KindPlanarWithHoles {
		t.Errorf("holed footprint should build a KindPlanarWithHoles spec")
	}
}

func TestBuildRejectsDegenerateGeometry(t *testing.T) {
	f := footprint.Feature{SourceID: "way/1", Outer: ccwSquare()}

	if Build(f, 5, 5) != nil {
		t.Errorf("zero thickness should be rejected")
	}
	if Build(f, 3, 5) != nil {
		t.Errorf("negative thickness should be rejected")
	}

	tiny := footprint.Feature{SourceID: "way/2", Outer: orb.Ring{{0, 0}, {1, 0}, {0, 0}}}
	if Build(tiny, 5, 0) != nil {
		t.Errorf("outer ring with fewer than 4 points should be rejected")
	}
}

func TestBuildDropsDegenerateHolesOnly(t *testing.T) {
	f := footprint.Feature{
		SourceID: "way/1",
		Outer:    ccwSquare(),
		Holes: []orb.Ring{
			{{2, 2}, {3, 2}, {2, 2}}, // degenerate
			{{5, 5}, {6, 5}, {6, 6}, {5, 6}, {5, 5}},
		},
	}

	spec := Build(f, 5, 0)
	if spec == nil {
		t.Fatal("Build returned nil")
	}
	if len(spec.Holes) != 1 {
		t.Errorf("got %d holes, want 1 (degenerate dropped)", len(spec.Holes))
	}
}

func TestBuildClosesOpenRings(t *testing.T) {
	open := footprint.Feature{
		SourceID: "way/1",
		Outer:    orb.Ring{{0, 0}, {10, 0}, {10, 10}, {0, 10}},
	}

	spec := Build(open, 5, 0)
	if spec == nil {
		t.Fatal("Build returned nil")
	}
	if spec.Outer[0] != spec.Outer[len(spec.Outer)-1] {
		t.Errorf("outer ring was not closed: %v", spec.Outer)
	}
}

func TestBuildFiltersAttributes(t *testing.T) {
	f := footprint.Feature{
		SourceID: "relation/9",
		Outer:    ccwSquare(),
		Tags: map[string]string{
			"building":        "residential",
			"building:levels": "4",
			"height":          "12",
			"min_height":      "0",
			"name":            "Block A",
			"addr:street":     "Main St",
			"source":          "survey",
		},
	}

	spec := Build(f, 12, 0)
	if spec == nil {
		t.Fatal("Build returned nil")
	}

	for _, key := range []string{"building", "building:levels", "height", "min_height", "name"} {
		if _, ok := spec.Attributes[key]; !ok {
			t.Errorf("attribute %q missing", key)
		}
	}
	for _, key := range []string{"addr:street", "source"} {
		if _, ok := spec.Attributes[key]; ok {
			t.Errorf("attribute %q should have been filtered out", key)
		}
	}
	if spec.Attributes["osm:id"] != "relation/9" {
		t.Errorf("osm:id = %q, want relation/9", spec.Attributes["osm:id"])
	}
	if spec.Name != "Block A" {
		t.Errorf("Name = %q, want Block A", spec.Name)
	}
}

func TestSolidify(t *testing.T) {
	f := footprint.Feature{
		SourceID: "way/1",
		Outer:    ccwSquare(),
		Holes:    []orb.Ring{{{2, 2}, {2, 4}, {4, 4}, {4, 2}, {2, 2}}},
	}

	spec := Build(f, 12, 2)
	if spec == nil {
		t.Fatal("Build returned nil")
	}
	s := spec.Solidify()

	// Bottom cap + top cap + 4 outer walls + 4 hole walls.
	if len(s.Faces) != 10 {
		t.Fatalf("got %d faces, want 10", len(s.Faces))
	}

	bottom, top := s.Faces[0], s.Faces[1]
	if len(bottom.Interiors) != 1 || len(top.Interiors) != 1 {
		t.Errorf("caps should carry one interior ring each")
	}
	for _, p := range bottom.Exterior {
		if p.Z != 2 {
			t.Errorf("bottom cap at z=%v, want 2", p.Z)
		}
	}
	for _, p := range top.Exterior {
		if p.Z != 12 {
			t.Errorf("top cap at z=%v, want 12", p.Z)
		}
	}

	// Walls are closed quads spanning base to top.
	for _, wall := range s.Faces[2:] {
		if len(wall.Exterior) != 5 {
			t.Errorf("wall has %d points, want 5", len(wall.Exterior))
		}
		if wall.Exterior[0] != wall.Exterior[len(wall.Exterior)-1] {
			t.Errorf("wall ring is not closed")
		}
	}
}
