package footprint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/paulmach/orb"

	"osmvolume/internal/graph"
	"osmvolume/internal/policy"
)

// Collect extracts all building footprints from a tag-graph. Two paths
// produce Features: single closed building ways, and polygon-composition
// relations whose member ways are stitched into outer and inner rings.
//
// Relation filtering is strict: only relations declaring
// type=multipolygon or type=building (per policy) are considered. A way
// consumed as a member of a qualifying building relation is not also
// emitted standalone unless it is explicitly a building part, which keeps
// the same footprint from appearing twice.
func Collect(g *graph.Graph, pol *policy.Policy) []Feature {
	var features []Feature

	type candidate struct {
		id  int64
		rel graph.Relation
	}
	var candidates []candidate
	claimed := map[int64]bool{}

	for _, id := range sortedRelationIDs(g) {
		rel := g.Relations[id]
		if !pol.QualifiesRelation(rel.Tags) {
			continue
		}
		candidates = append(candidates, candidate{id: id, rel: rel})

		if pol.IsBuilding(rel.Tags) || anyMemberIsBuilding(g, rel, pol) {
			for _, m := range rel.Members {
				if m.Type == "way" {
					claimed[m.Ref] = true
				}
			}
		}
	}

	for _, id := range sortedWayIDs(g) {
		way := g.Ways[id]
		if !pol.IsBuilding(way.Tags) {
			continue
		}
		if _, isPart := way.Tags["building:part"]; claimed[id] && !isPart {
			// The relation takes care of the main outline.
			continue
		}
		if f, ok := wayFeature(g, id, way); ok {
			features = append(features, f)
		}
	}

	for _, c := range candidates {
		if !pol.IsBuilding(c.rel.Tags) && !anyMemberIsBuilding(g, c.rel, pol) {
			continue
		}
		features = append(features, relationFeatures(g, c.id, c.rel, pol)...)
	}

	return features
}

// wayFeature builds a Feature from a single closed way: at least 4 node
// references, first equal to last, all resolvable.
func wayFeature(g *graph.Graph, id int64, way graph.Way) (Feature, bool) {
	if len(way.Refs) < 4 || way.Refs[0] != way.Refs[len(way.Refs)-1] {
		return Feature{}, false
	}
	ring, ok := resolveRing(g, way.Refs)
	if !ok {
		return Feature{}, false
	}
	return Feature{
		SourceID: fmt.Sprintf("way/%d", id),
		Outer:    ring,
		Tags:     way.Tags,
	}, true
}

// relationFeatures builds one Feature per assembled outer ring of a
// relation, with inner rings assigned as holes by centroid containment.
func relationFeatures(g *graph.Graph, id int64, rel graph.Relation, pol *policy.Policy) []Feature {
	roleRefs := map[string][][]int64{}
	tags := copyTags(rel.Tags)

	for _, m := range rel.Members {
		if m.Type != "way" {
			continue
		}
		way, ok := g.Ways[m.Ref]
		if !ok {
			continue
		}
		role := normalizeRole(m.Role)
		roleRefs[role] = append(roleRefs[role], way.Refs)

		// A bare multipolygon inherits building semantics from the first
		// member way that carries them.
		if !pol.IsBuilding(tags) && pol.IsBuilding(way.Tags) {
			for k, v := range way.Tags {
				if pol.Mergeable(k) {
					tags[k] = v
				}
			}
		}
	}

	if len(roleRefs["outer"]) == 0 {
		return nil
	}

	outers := resolveRings(g, footprintRings(roleRefs["outer"]))
	if len(outers) == 0 {
		return nil
	}
	holes := resolveRings(g, footprintRings(roleRefs["inner"]))

	assigned := assignHoles(outers, holes)

	features := make([]Feature, 0, len(outers))
	for i, outer := range outers {
		features = append(features, Feature{
			SourceID: fmt.Sprintf("relation/%d", id),
			Outer:    outer,
			Holes:    assigned[i],
			Tags:     tags,
		})
	}
	return features
}

// footprintRings assembles fragments and keeps only rings that can form a
// real footprint: at least 3 distinct points plus the closing one.
func footprintRings(fragments [][]int64) [][]int64 {
	var kept [][]int64
	for _, ring := range AssembleRings(fragments) {
		if len(ring) >= 4 {
			kept = append(kept, ring)
		}
	}
	return kept
}

// resolveRings resolves node-id rings to coordinates, dropping any ring
// that references a node absent from the graph.
func resolveRings(g *graph.Graph, idRings [][]int64) []orb.Ring {
	var rings []orb.Ring
	for _, ids := range idRings {
		if ring, ok := resolveRing(g, ids); ok {
			rings = append(rings, ring)
		}
	}
	return rings
}

func resolveRing(g *graph.Graph, ids []int64) (orb.Ring, bool) {
	ring := make(orb.Ring, 0, len(ids))
	for _, id := range ids {
		lat, lon, ok := g.Nodes.Coord(id)
		if !ok {
			return nil, false
		}
		ring = append(ring, orb.Point{lon, lat})
	}
	return ring, true
}

// normalizeRole maps the role synonyms seen in the wild onto outer/inner.
// A missing or unrecognized role defaults to outer.
func normalizeRole(role string) string {
	switch strings.ToLower(role) {
	case "inner", "interior", "hole":
		return "inner"
	default:
		return "outer"
	}
}

func anyMemberIsBuilding(g *graph.Graph, rel graph.Relation, pol *policy.Policy) bool {
	for _, m := range rel.Members {
		if m.Type != "way" {
			continue
		}
		if way, ok := g.Ways[m.Ref]; ok && pol.IsBuilding(way.Tags) {
			return true
		}
	}
	return false
}

func copyTags(tags map[string]string) map[string]string {
	out := make(map[string]string, len(tags))
	for k, v := range tags {
		out[k] = v
	}
	return out
}

func sortedWayIDs(g *graph.Graph) []int64 {
	ids := make([]int64, 0, len(g.Ways))
	for id := range g.Ways {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func sortedRelationIDs(g *graph.Graph) []int64 {
	ids := make([]int64, 0, len(g.Relations))
	for id := range g.Relations {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
