package nodecache

import (
	"math"
	"path/filepath"
	"testing"
)

func TestCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodes.cache")

	cache, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	cache.Put(1, 43.7384, 7.4246)
	cache.Put(42, -33.8688, 151.2093)
	cache.Put(9_999_999_999, 51.5, -0.12)

	lat, lon, ok := cache.Coord(42)
	if !ok {
		t.Fatal("node 42 not found")
	}
	if math.Abs(lat+33.8688) > 1e-6 || math.Abs(lon-151.2093) > 1e-6 {
		t.Errorf("node 42 = (%v, %v)", lat, lon)
	}

	if err := cache.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := cache.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Reopen read-only and verify the entries survived.
	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer reopened.Close()

	lat, lon, ok = reopened.Coord(1)
	if !ok || math.Abs(lat-43.7384) > 1e-6 || math.Abs(lon-7.4246) > 1e-6 {
		t.Errorf("node 1 = (%v, %v, %v)", lat, lon, ok)
	}
	if _, _, ok := reopened.Coord(9_999_999_999); !ok {
		t.Error("node near the id ceiling not found")
	}
}

func TestCacheMissingAndOutOfRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodes.cache")

	cache, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer cache.Close()

	if _, _, ok := cache.Coord(123); ok {
		t.Error("unwritten entry resolved")
	}
	if _, _, ok := cache.Coord(-1); ok {
		t.Error("negative id resolved")
	}
	if _, _, ok := cache.Coord(maxNodeID); ok {
		t.Error("id past the ceiling resolved")
	}

	// Out-of-range writes are dropped, not panics.
	cache.Put(-1, 1, 2)
	cache.Put(maxNodeID, 1, 2)
}

func TestCacheFixedPointPrecision(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodes.cache")

	cache, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer cache.Close()

	// 1e7 fixed point keeps 7 decimal places, about 1cm of longitude.
	cache.Put(5, 43.1234567, 7.7654321)
	lat, lon, ok := cache.Coord(5)
	if !ok {
		t.Fatal("node 5 not found")
	}
	if math.Abs(lat-43.1234567) > 1e-7 || math.Abs(lon-7.7654321) > 1e-7 {
		t.Errorf("node 5 = (%.8f, %.8f)", lat, lon)
	}
}
