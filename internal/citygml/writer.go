// Package citygml serializes the emitted solids as a CityGML 2.0 LOD1
// document. Every footprint becomes one bldg:Building with a gml:Solid
// whose cap polygons carry interior rings for holes; the projection origin
// is stored as model metadata so consumers can invert the local projection.
package citygml

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"osmvolume/internal/proj"
	"osmvolume/internal/solid"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// CityModel is the document root.
type CityModel struct {
	XMLName        xml.Name `xml:"core:CityModel"`
	GML            string   `xml:"xmlns:gml,attr"`
	Core           string   `xml:"xmlns:core,attr"`
	Bldg           string   `xml:"xmlns:bldg,attr"`
	Gen            string   `xml:"xmlns:gen,attr"`
	XSI            string   `xml:"xmlns:xsi,attr"`
	SchemaLocation string   `xml:"xsi:schemaLocation,attr"`

	Metadata         Metadata           `xml:"gml:metaDataProperty"`
	BoundedBy        BoundedBy          `xml:"gml:boundedBy"`
	CityObjectMember []CityObjectMember `xml:"core:cityObjectMember"`
}

// Metadata carries the geographic origin of the local projection.
type Metadata struct {
	Origin OriginMeta `xml:"gen:genericAttributeSet"`
}

// OriginMeta stores the origin as named string attributes.
type OriginMeta struct {
	Name       string       `xml:"name,attr"`
	Attributes []StringAttr `xml:"gen:stringAttribute"`
}

type BoundedBy struct {
	Envelope Envelope `xml:"gml:Envelope"`
}

type Envelope struct {
	SrsName      string `xml:"srsName,attr"`
	SrsDimension string `xml:"srsDimension,attr"`
	LowerCorner  string `xml:"gml:lowerCorner"`
	UpperCorner  string `xml:"gml:upperCorner"`
}

type CityObjectMember struct {
	Building Building `xml:"bldg:Building"`
}

type Building struct {
	ID         string       `xml:"gml:id,attr"`
	Name       string       `xml:"gml:name,omitempty"`
	Attributes []StringAttr `xml:"gen:stringAttribute"`
	Lod1Solid  Lod1Solid    `xml:"bldg:lod1Solid"`
}

// StringAttr is a CityGML generic string attribute.
type StringAttr struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"gen:value"`
}

type Lod1Solid struct {
	Solid GMLSolid `xml:"gml:Solid"`
}

type GMLSolid struct {
	Exterior SolidExterior `xml:"gml:exterior"`
}

type SolidExterior struct {
	CompositeSurface CompositeSurface `xml:"gml:CompositeSurface"`
}

type CompositeSurface struct {
	SurfaceMember []SurfaceMember `xml:"gml:surfaceMember"`
}

type SurfaceMember struct {
	Polygon Polygon `xml:"gml:Polygon"`
}

type Polygon struct {
	Exterior RingProperty   `xml:"gml:exterior"`
	Interior []RingProperty `xml:"gml:interior,omitempty"`
}

type RingProperty struct {
	LinearRing LinearRing `xml:"gml:LinearRing"`
}

type LinearRing struct {
	PosList string `xml:"gml:posList"`
}

// Write serializes the solids and origin metadata to w.
func Write(w io.Writer, solids []*solid.Solid, origin proj.Origin) error {
	model := CityModel{
		GML:            "http://www.opengis.net/gml",
		Core:           "http://www.opengis.net/citygml/2.0",
		Bldg:           "http://www.opengis.net/citygml/building/2.0",
		Gen:            "http://www.opengis.net/citygml/generics/2.0",
		XSI:            "http://www.w3.org/2001/XMLSchema-instance",
		SchemaLocation: "http://www.opengis.net/citygml/building/2.0 http://schemas.opengis.net/citygml/building/2.0/building.xsd",
		Metadata: Metadata{Origin: OriginMeta{
			Name: "projection_origin",
			Attributes: []StringAttr{
				{Name: "origin_lat", Value: strconv.FormatFloat(origin.Lat, 'f', -1, 64)},
				{Name: "origin_lon", Value: strconv.FormatFloat(origin.Lon, 'f', -1, 64)},
			},
		}},
		BoundedBy: envelope(solids),
	}

	for i, s := range solids {
		model.CityObjectMember = append(model.CityObjectMember, CityObjectMember{
			Building: building(s, i, origin),
		})
	}

	if _, err := io.WriteString(w, xmlHeader); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(model); err != nil {
		return fmt.Errorf("failed to encode CityGML model: %w", err)
	}
	return enc.Flush()
}

func building(s *solid.Solid, index int, origin proj.Origin) Building {
	b := Building{
		ID:   fmt.Sprintf("bldg_%d", index),
		Name: s.Name,
	}

	keys := make([]string, 0, len(s.Attributes))
	for k := range s.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.Attributes = append(b.Attributes, StringAttr{Name: k, Value: s.Attributes[k]})
	}

	surfaces := make([]SurfaceMember, 0, len(s.Faces))
	for _, face := range s.Faces {
		poly := Polygon{Exterior: ringProperty(face.Exterior)}
		for _, interior := range face.Interiors {
			poly.Interior = append(poly.Interior, ringProperty(interior))
		}
		surfaces = append(surfaces, SurfaceMember{Polygon: poly})
	}
	b.Lod1Solid = Lod1Solid{Solid: GMLSolid{
		Exterior: SolidExterior{CompositeSurface: CompositeSurface{SurfaceMember: surfaces}},
	}}
	return b
}

func ringProperty(ring []solid.Point3) RingProperty {
	parts := make([]string, 0, len(ring))
	for _, p := range ring {
		parts = append(parts, fmt.Sprintf("%.3f %.3f %.3f", p.X, p.Y, p.Z))
	}
	return RingProperty{LinearRing: LinearRing{PosList: strings.Join(parts, " ")}}
}

func envelope(solids []*solid.Solid) BoundedBy {
	min := solid.Point3{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	max := solid.Point3{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}

	for _, s := range solids {
		for _, face := range s.Faces {
			for _, p := range face.Exterior {
				min.X, max.X = math.Min(min.X, p.X), math.Max(max.X, p.X)
				min.Y, max.Y = math.Min(min.Y, p.Y), math.Max(max.Y, p.Y)
				min.Z, max.Z = math.Min(min.Z, p.Z), math.Max(max.Z, p.Z)
			}
		}
	}
	if len(solids) == 0 {
		min, max = solid.Point3{}, solid.Point3{}
	}

	return BoundedBy{Envelope: Envelope{
		SrsName:      "local",
		SrsDimension: "3",
		LowerCorner:  fmt.Sprintf("%.3f %.3f %.3f", min.X, min.Y, min.Z),
		UpperCorner:  fmt.Sprintf("%.3f %.3f %.3f", max.X, max.Y, max.Z),
	}}
}
