// Package pipeline sequences footprint extraction, origin computation,
// local projection, height resolution and solid emission over a parsed
// tag-graph.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"osmvolume/internal/config"
	"osmvolume/internal/footprint"
	"osmvolume/internal/graph"
	"osmvolume/internal/heights"
	"osmvolume/internal/logger"
	"osmvolume/internal/policy"
	"osmvolume/internal/proj"
	"osmvolume/internal/solid"
)

// ErrNoFeatures is returned when extraction yields zero footprints. It is
// one of the two fatal pipeline conditions; everything else degrades to a
// per-feature skip.
var ErrNoFeatures = errors.New("no building features found in input")

// Stats summarizes a conversion run.
type Stats struct {
	Features int // footprints extracted
	Emitted  int // solids produced
	Skipped  int // footprints with degenerate output geometry
}

// Result is the output of a conversion run: the emitted solids and the
// origin needed to invert the projection.
type Result struct {
	Solids []*solid.Solid
	Origin proj.Origin
	Stats  Stats
}

// Converter runs the footprint-to-solid pipeline.
type Converter struct {
	cfg      *config.Config
	pol      *policy.Policy
	resolver heights.Resolver
	log      *zap.Logger
}

// New creates a converter from configuration and extraction policy.
func New(cfg *config.Config, pol *policy.Policy) *Converter {
	return &Converter{
		cfg: cfg,
		pol: pol,
		resolver: heights.Resolver{
			DefaultHeight: cfg.DefaultHeight,
			LevelHeight:   cfg.LevelHeight,
			HeightKeys:    pol.HeightKeys,
			MinHeightKeys: pol.MinHeightKeys,
			LevelKeys:     pol.LevelKeys,
		},
		log: logger.Get(),
	}
}

// Run converts a tag-graph into solids. Per-feature projection, height
// resolution and solid emission run on parallel workers; the origin is a
// sequential reduction over all features and is fixed before any worker
// starts. Features that cannot yield valid output geometry are skipped and
// logged, never fatal.
func (c *Converter) Run(ctx context.Context, g *graph.Graph) (*Result, error) {
	features := footprint.Collect(g, c.pol)
	features = c.filterBBox(features)
	if len(features) == 0 {
		return nil, ErrNoFeatures
	}

	origin, err := proj.OriginOf(features)
	if err != nil {
		return nil, fmt.Errorf("cannot derive projection origin: %w", err)
	}
	c.log.Info("Extracted footprints",
		zap.Int("features", len(features)),
		zap.Float64("origin_lat", origin.Lat),
		zap.Float64("origin_lon", origin.Lon))

	solids := make([]*solid.Solid, len(features))

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(c.cfg.Workers)
	for i, f := range features {
		i, f := i, f
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// Heights come from the original tags; projection only
			// touches coordinates.
			height, minHeight := c.resolver.Resolve(f.Tags)
			spec := solid.Build(origin.ProjectFeature(f), height, minHeight)
			if spec == nil {
				c.log.Debug("Skipping degenerate footprint",
					zap.String("source", f.SourceID))
				return nil
			}
			solids[i] = spec.Solidify()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	result := &Result{Origin: origin}
	result.Stats.Features = len(features)
	for _, s := range solids {
		if s == nil {
			result.Stats.Skipped++
			continue
		}
		result.Solids = append(result.Solids, s)
		result.Stats.Emitted++
	}

	return result, nil
}

// filterBBox drops footprints whose centroid falls outside the configured
// bounding box. An unset bbox keeps everything.
func (c *Converter) filterBBox(features []footprint.Feature) []footprint.Feature {
	if c.cfg.BBox == nil || !c.cfg.BBox.IsSet {
		return features
	}
	kept := features[:0]
	for _, f := range features {
		centroid := f.Centroid()
		if c.cfg.BBox.Contains(centroid[1], centroid[0]) {
			kept = append(kept, f)
		}
	}
	return kept
}
