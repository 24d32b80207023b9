package policy

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Policy defines which OSM elements count as buildings and which tag keys
// carry height information. The zero value is not usable; start from
// Default() or Load().
type Policy struct {
	// HeightKeys are tried in order; the first value that parses wins.
	HeightKeys []string `yaml:"height_keys"`
	// MinHeightKeys are tried in order for the base elevation.
	MinHeightKeys []string `yaml:"min_height_keys"`
	// LevelKeys are tried in order when no height key parses.
	LevelKeys []string `yaml:"level_keys"`

	// BuildingKeys mark an element as a building when any of them is present.
	BuildingKeys []string `yaml:"building_keys"`
	// RelationTypes lists the relation type tag values that qualify a
	// relation for footprint extraction.
	RelationTypes []string `yaml:"relation_types"`

	// MergePrefixes and MergeKeys select which tags are inherited from a
	// member way when a qualifying relation carries no building tags itself.
	MergePrefixes []string `yaml:"merge_prefixes"`
	MergeKeys     []string `yaml:"merge_keys"`
}

// Default returns the built-in extraction policy matching common OSM
// building mapping practice.
func Default() *Policy {
	return &Policy{
		HeightKeys:    []string{"height", "building:height"},
		MinHeightKeys: []string{"min_height", "building:min_height"},
		LevelKeys:     []string{"building:levels"},
		BuildingKeys:  []string{"building", "building:part"},
		RelationTypes: []string{"multipolygon", "building"},
		MergePrefixes: []string{"building"},
		MergeKeys:     []string{"height", "min_height"},
	}
}

// Load reads a policy from a YAML file. Empty fields fall back to the
// defaults so a file only needs to override what it changes.
func Load(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}

	p := Default()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse policy YAML: %w", err)
	}
	return p, nil
}

// IsBuilding reports whether the tag map carries building semantics.
func (p *Policy) IsBuilding(tags map[string]string) bool {
	for _, key := range p.BuildingKeys {
		if _, ok := tags[key]; ok {
			return true
		}
	}
	return false
}

// QualifiesRelation reports whether a relation's type tag marks it as a
// polygon-composition relation eligible for extraction.
func (p *Policy) QualifiesRelation(tags map[string]string) bool {
	typ := tags["type"]
	for _, t := range p.RelationTypes {
		if typ == t {
			return true
		}
	}
	return false
}

// Mergeable reports whether a tag key should be inherited from a member way.
func (p *Policy) Mergeable(key string) bool {
	for _, prefix := range p.MergePrefixes {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	for _, k := range p.MergeKeys {
		if key == k {
			return true
		}
	}
	return false
}
