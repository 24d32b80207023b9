// Package heights turns freeform OSM measurement tags into a vertical
// extent per footprint. Tag values in the wild carry units, locale decimal
// separators and multi-value lists; parsing is tolerant and never fails,
// it only falls back to more conservative defaults.
package heights

import (
	"strconv"
	"strings"
)

// ParseMeasure parses a freeform numeric attribute string such as "12.5m",
// "10,5" or "3;4". It returns false when the value is not usable, which is
// an expected outcome rather than an error.
func ParseMeasure(raw string) (float64, bool) {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	if cleaned == "" {
		return 0, false
	}

	// Locale tolerance: a lone comma is a decimal separator.
	if strings.Contains(cleaned, ",") && !strings.Contains(cleaned, ".") {
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	// Multi-value lists keep only the first alternative. This is a
	// deliberate simplification, not a full multi-value model.
	for _, sep := range []string{";", "|"} {
		if idx := strings.Index(cleaned, sep); idx >= 0 {
			cleaned = cleaned[:idx]
			break
		}
	}

	cleaned = strings.TrimSuffix(cleaned, "m")
	cleaned = strings.TrimSpace(cleaned)

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Resolver infers (height, minHeight) pairs from tag maps. Key lists are
// tried in order, most specific first; the first value that parses wins.
type Resolver struct {
	DefaultHeight float64
	LevelHeight   float64
	HeightKeys    []string
	MinHeightKeys []string
	LevelKeys     []string
}

// Resolve returns the total height and base elevation for a tag map. It
// cannot fail: missing or malformed values resolve through fallbacks, and
// the result always satisfies height > minHeight so the extrusion
// thickness stays strictly positive.
func (r Resolver) Resolve(tags map[string]string) (height, minHeight float64) {
	minHeight, _ = r.first(tags, r.MinHeightKeys)

	height, ok := r.first(tags, r.HeightKeys)
	if !ok {
		if levels, lok := r.first(tags, r.LevelKeys); lok {
			height, ok = levels*r.LevelHeight, true
		}
	}
	if !ok {
		height = r.DefaultHeight
	}

	if height <= minHeight {
		bump := r.DefaultHeight * 0.25
		if bump < 1.0 {
			bump = 1.0
		}
		height = minHeight + bump
	}

	return height, minHeight
}

// first returns the first successfully parsed value among keys.
func (r Resolver) first(tags map[string]string, keys []string) (float64, bool) {
	for _, key := range keys {
		raw, ok := tags[key]
		if !ok {
			continue
		}
		if v, parsed := ParseMeasure(raw); parsed {
			return v, true
		}
	}
	return 0, false
}
