package graph

import (
	"context"
	"io"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmxml"
)

// FromXML reads an OSM XML document into a Graph. The whole document is
// materialized in memory, which is fine for the city-scale exports this
// tool targets.
func FromXML(ctx context.Context, r io.Reader) (*Graph, error) {
	nodes := NodeMap{}
	ways := map[int64]Way{}
	relations := map[int64]Relation{}

	scanner := osmxml.New(ctx, r)
	defer scanner.Close()

	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			nodes[int64(o.ID)] = [2]float64{o.Lat, o.Lon}
		case *osm.Way:
			refs := make([]int64, 0, len(o.Nodes))
			for _, n := range o.Nodes {
				refs = append(refs, int64(n.ID))
			}
			ways[int64(o.ID)] = Way{Refs: refs, Tags: o.Tags.Map()}
		case *osm.Relation:
			members := make([]Member, 0, len(o.Members))
			for _, m := range o.Members {
				members = append(members, Member{
					Type: string(m.Type),
					Ref:  m.Ref,
					Role: m.Role,
				})
			}
			relations[int64(o.ID)] = Relation{Members: members, Tags: o.Tags.Map()}
		}
	}

	if err := scanner.Err(); err != nil && err != io.EOF {
		return nil, err
	}

	return &Graph{Nodes: nodes, Ways: ways, Relations: relations}, nil
}
