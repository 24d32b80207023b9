package graph

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"

	"osmvolume/internal/logger"
	"osmvolume/internal/nodecache"
)

// FromPBF reads a PBF extract into a Graph using two passes over the file.
// Pass 1 writes every node coordinate into a sparse mmap cache so the node
// table never has to fit in memory; pass 2 collects ways and relations.
// The cache file lives in cacheDir and is removed when the Graph is closed
// via the returned cleanup-aware NodeSource.
func FromPBF(ctx context.Context, path string, cacheDir string) (*Graph, error) {
	log := logger.Get()

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if cacheDir == "" {
		cacheDir = os.TempDir()
	}
	cachePath := filepath.Join(cacheDir, "osmvolume_nodes.bin")

	start := time.Now()
	nodeCount, err := buildNodeCache(ctx, f, cachePath)
	if err != nil {
		return nil, err
	}
	log.Info("Node cache built",
		zap.Int64("nodes", nodeCount),
		zap.Duration("duration", time.Since(start).Round(time.Millisecond)))

	if _, err := f.Seek(0, 0); err != nil {
		return nil, err
	}

	cache, err := nodecache.Open(cachePath)
	if err != nil {
		return nil, err
	}

	ways := map[int64]Way{}
	relations := map[int64]Relation{}

	scanner := osmpbf.New(ctx, f, runtime.NumCPU())
	defer scanner.Close()

	for scanner.Scan() {
		switch o := scanner.Object().(type) {
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
		cache.Close()
		os.Remove(cachePath)
		return nil, err
	}

	log.Info("Tag-graph loaded",
		zap.Int("ways", len(ways)),
		zap.Int("relations", len(relations)))

	return &Graph{
		Nodes:     &cachedNodes{cache: cache, path: cachePath},
		Ways:      ways,
		Relations: relations,
	}, nil
}

// buildNodeCache is pass 1: stream nodes into the mmap cache, stopping at
// the first way since PBF files order nodes before ways.
func buildNodeCache(ctx context.Context, f *os.File, cachePath string) (int64, error) {
	cache, err := nodecache.Create(cachePath)
	if err != nil {
		return 0, err
	}
	defer cache.Close()

	scanner := osmpbf.New(ctx, f, runtime.NumCPU())
	defer scanner.Close()

	var count int64
	for scanner.Scan() {
		switch n := scanner.Object().(type) {
		case *osm.Node:
			cache.Put(int64(n.ID), n.Lat, n.Lon)
			count++
		case *osm.Way:
			return count, cache.Flush()
		}
	}

	if err := scanner.Err(); err != nil && err != io.EOF {
		return 0, err
	}
	return count, cache.Flush()
}

// cachedNodes wraps the mmap cache and removes its backing file on close.
type cachedNodes struct {
	cache *nodecache.Cache
	path  string
}

func (c *cachedNodes) Coord(id int64) (lat, lon float64, ok bool) {
	return c.cache.Coord(id)
}

func (c *cachedNodes) Close() error {
	err := c.cache.Close()
	os.Remove(c.path)
	return err
}

// Load reads an OSM file into a Graph, choosing the decoder by file
// extension: .pbf uses the two-pass PBF loader, everything else is parsed
// as OSM XML.
func Load(ctx context.Context, path string, cacheDir string) (*Graph, error) {
	if strings.HasSuffix(strings.ToLower(path), ".pbf") {
		return FromPBF(ctx, path, cacheDir)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return FromXML(ctx, f)
}
