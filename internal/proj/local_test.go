package proj

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"

	"osmvolume/internal/footprint"
)

func TestOriginOf(t *testing.T) {
	features := []footprint.Feature{
		{
			Outer: orb.Ring{{7.0, 43.0}, {7.2, 43.0}, {7.2, 43.2}, {7.0, 43.2}},
			Holes: []orb.Ring{{{7.1, 43.1}, {7.1, 43.1}, {7.1, 43.1}, {7.1, 43.1}}},
		},
	}

	origin, err := OriginOf(features)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 4 corner points + 4 hole points, hole points all at (7.1, 43.1).
	if math.Abs(origin.Lon-7.1) > 1e-12 || math.Abs(origin.Lat-43.1) > 1e-12 {
		t.Errorf("origin = (%v, %v), want (43.1, 7.1)", origin.Lat, origin.Lon)
	}
}

func TestOriginOfEmpty(t *testing.T) {
	if _, err := OriginOf(nil); !errors.Is(err, ErrNoCoordinates) {
		t.Errorf("err = %v, want ErrNoCoordinates", err)
	}
	if _, err := OriginOf([]footprint.Feature{{}}); !errors.Is(err, ErrNoCoordinates) {
		t.Errorf("err = %v, want ErrNoCoordinates for feature without rings", err)
	}
}

func TestProjectOriginIsZero(t *testing.T) {
	origin := Origin{Lat: 43.7384, Lon: 7.4246}
	p := origin.Project(orb.Point{origin.Lon, origin.Lat})
	if p[0] != 0 || p[1] != 0 {
		t.Errorf("projected origin = %v, want (0, 0)", p)
	}
}

func TestProjectRoundTrip(t *testing.T) {
	origin := Origin{Lat: 43.7384, Lon: 7.4246}

	points := []orb.Point{
		{7.4246, 43.7384},
		{7.43, 43.74},
		{7.40, 43.72},
		{7.5, 43.8},
	}
	for _, p := range points {
		back := origin.Unproject(origin.Project(p))
		if math.Abs(back[0]-p[0]) > 1e-6 || math.Abs(back[1]-p[1]) > 1e-6 {
			t.Errorf("round trip of %v gave %v", p, back)
		}
	}
}

func TestProjectScale(t *testing.T) {
	// One degree of latitude is about 111 km on the sphere.
	origin := Origin{Lat: 0, Lon: 0}
	p := origin.Project(orb.Point{0, 1})
	wantY := EarthRadius * math.Pi / 180.0
	if math.Abs(p[1]-wantY) > 1e-6 {
		t.Errorf("y = %v, want %v", p[1], wantY)
	}
}

func TestProjectFeatureIsPure(t *testing.T) {
	origin := Origin{Lat: 43.0, Lon: 7.0}
	f := footprint.Feature{
		SourceID: "way/1",
		Outer:    orb.Ring{{7.0, 43.0}, {7.1, 43.0}, {7.1, 43.1}, {7.0, 43.0}},
		Holes:    []orb.Ring{{{7.02, 43.02}, {7.03, 43.02}, {7.03, 43.03}, {7.02, 43.02}}},
		Tags:     map[string]string{"building": "yes"},
	}

	projected := origin.ProjectFeature(f)

	if projected.SourceID != f.SourceID {
		t.Errorf("SourceID changed: %q", projected.SourceID)
	}
	if len(projected.Outer) != len(f.Outer) || len(projected.Holes) != 1 {
		t.Fatalf("ring shapes changed")
	}
	if f.Outer[0] != (orb.Point{7.0, 43.0}) {
		t.Errorf("input feature was mutated: %v", f.Outer[0])
	}
	if projected.Outer[0] != (orb.Point{0, 0}) {
		t.Errorf("first outer point = %v, want origin-relative (0, 0)", projected.Outer[0])
	}
}
