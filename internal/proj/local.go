// Package proj linearizes geographic coordinates into a local metric
// tangent plane around a single origin. The equirectangular approximation
// is valid near the origin, with distortion growing with distance; that is
// acceptable because footprints in one export are geographically clustered.
package proj

import (
	"errors"
	"math"

	"github.com/paulmach/orb"

	"osmvolume/internal/footprint"
)

// EarthRadius is the WGS84 semi-major axis in meters.
const EarthRadius = 6378137.0

// ErrNoCoordinates is returned when an origin cannot be derived because the
// feature set contains no coordinates. This is the one hard failure in the
// geometric pipeline: a projection needs a defined origin.
var ErrNoCoordinates = errors.New("no geographic coordinates in feature set")

// Origin is the single reference geographic point used to linearize all
// feature coordinates. It is computed once per conversion run and immutable
// afterward; it is also persisted alongside the output model so a consumer
// can invert the projection.
type Origin struct {
	Lat float64
	Lon float64
}

// OriginOf computes the unweighted mean of every coordinate, outer rings
// and holes alike, across every feature.
func OriginOf(features []footprint.Feature) (Origin, error) {
	var latSum, lonSum float64
	var count int

	add := func(ring orb.Ring) {
		for _, p := range ring {
			lonSum += p[0]
			latSum += p[1]
			count++
		}
	}

	for _, f := range features {
		add(f.Outer)
		for _, hole := range f.Holes {
			add(hole)
		}
	}

	if count == 0 {
		return Origin{}, ErrNoCoordinates
	}
	return Origin{
		Lat: latSum / float64(count),
		Lon: lonSum / float64(count),
	}, nil
}

// Project converts a geographic point {lon, lat} to local plane meters
// {x, y}.
func (o Origin) Project(p orb.Point) orb.Point {
	lat0 := radians(o.Lat)
	x := EarthRadius * radians(p[0]-o.Lon) * math.Cos(lat0)
	y := EarthRadius * (radians(p[1]) - lat0)
	return orb.Point{x, y}
}

// Unproject inverts Project, recovering the geographic point {lon, lat}
// from local plane meters.
func (o Origin) Unproject(p orb.Point) orb.Point {
	lat0 := radians(o.Lat)
	lon := o.Lon + degrees(p[0]/(EarthRadius*math.Cos(lat0)))
	lat := degrees(p[1]/EarthRadius + lat0)
	return orb.Point{lon, lat}
}

// ProjectFeature returns a new feature with all rings projected into the
// local plane. The input feature is not modified; the transform is a pure
// function with no aliasing between input and output rings.
func (o Origin) ProjectFeature(f footprint.Feature) footprint.Feature {
	out := footprint.Feature{
		SourceID: f.SourceID,
		Outer:    o.projectRing(f.Outer),
		Tags:     f.Tags,
	}
	if len(f.Holes) > 0 {
		out.Holes = make([]orb.Ring, 0, len(f.Holes))
		for _, hole := range f.Holes {
			out.Holes = append(out.Holes, o.projectRing(hole))
		}
	}
	return out
}

func (o Origin) projectRing(ring orb.Ring) orb.Ring {
	out := make(orb.Ring, 0, len(ring))
	for _, p := range ring {
		out = append(out, o.Project(p))
	}
	return out
}

func radians(deg float64) float64 { return deg * math.Pi / 180.0 }
func degrees(rad float64) float64 { return rad * 180.0 / math.Pi }
