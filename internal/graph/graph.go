// Package graph holds the flat tag-graph extracted from an OSM document:
// node coordinates, ways as ordered node references, and relations as
// typed member lists. It is the input to footprint extraction.
package graph

import "io"

// Way is an ordered sequence of node references with attributes.
type Way struct {
	Refs []int64
	Tags map[string]string
}

// Member is a single relation member reference.
type Member struct {
	Type string // "node", "way" or "relation"
	Ref  int64
	Role string
}

// Relation is a tagged collection of members describing composite geometry.
type Relation struct {
	Members []Member
	Tags    map[string]string
}

// NodeSource resolves node ids to geographic coordinates. Implementations
// are an in-memory map (XML loads) or a memory-mapped coordinate cache
// (PBF loads).
type NodeSource interface {
	Coord(id int64) (lat, lon float64, ok bool)
}

// NodeMap is the in-memory NodeSource.
type NodeMap map[int64][2]float64

// Coord implements NodeSource. The array layout is [lat, lon].
func (m NodeMap) Coord(id int64) (lat, lon float64, ok bool) {
	c, ok := m[id]
	if !ok {
		return 0, 0, false
	}
	return c[0], c[1], true
}

// Graph is the parsed tag-graph.
type Graph struct {
	Nodes     NodeSource
	Ways      map[int64]Way
	Relations map[int64]Relation
}

// Close releases the node source if it holds external resources.
func (g *Graph) Close() error {
	if c, ok := g.Nodes.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
