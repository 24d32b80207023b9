// Package nodecache stores node coordinates in a sparse memory-mapped file
// indexed by node id. It keeps planet-scale PBF extracts out of process
// memory while still giving O(1) coordinate lookups during geometry
// resolution.
package nodecache

import (
	"encoding/binary"
	"fmt"
	"os"

	mmap "github.com/edsrzf/mmap-go"
)

const (
	// Each entry: lat (int32) + lon (int32), fixed-point value*1e7.
	entrySize = 8
	// Highest node id supported. The backing file is sparse, so the 80GB
	// address range costs disk only for ids actually written.
	maxNodeID = 10_000_000_000
)

// Cache is a memory-mapped node coordinate index. It implements
// graph.NodeSource.
type Cache struct {
	file *os.File
	data mmap.MMap
	size int64
}

// Create creates a new cache file for writing.
func Create(path string) (*Cache, error) {
	size := int64(maxNodeID) * entrySize

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create node cache: %w", err)
	}
	if err := f.Truncate(size); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to size node cache: %w", err)
	}

	data, err := mmap.Map(f, mmap.RDWR, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to mmap node cache: %w", err)
	}

	return &Cache{file: f, data: data, size: size}, nil
}

// Open opens an existing cache file read-only.
func Open(path string) (*Cache, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open node cache: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat node cache: %w", err)
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to mmap node cache: %w", err)
	}

	return &Cache{file: f, data: data, size: info.Size()}, nil
}

// Put stores a node's coordinates. Out-of-range ids are ignored.
func (c *Cache) Put(id int64, lat, lon float64) {
	if id < 0 || id >= maxNodeID {
		return
	}

	offset := id * entrySize
	binary.LittleEndian.PutUint32(c.data[offset:], uint32(int32(lat*1e7)))
	binary.LittleEndian.PutUint32(c.data[offset+4:], uint32(int32(lon*1e7)))
}

// Coord retrieves a node's coordinates. A zero entry is treated as absent;
// the exact (0,0) location is vanishingly rare in real data.
func (c *Cache) Coord(id int64) (lat, lon float64, ok bool) {
	if id < 0 || id >= maxNodeID {
		return 0, 0, false
	}
	offset := id * entrySize
	if offset+entrySize > c.size {
		return 0, 0, false
	}

	latInt := int32(binary.LittleEndian.Uint32(c.data[offset:]))
	lonInt := int32(binary.LittleEndian.Uint32(c.data[offset+4:]))
	if latInt == 0 && lonInt == 0 {
		return 0, 0, false
	}

	return float64(latInt) / 1e7, float64(lonInt) / 1e7, true
}

// Flush forces written entries to disk.
func (c *Cache) Flush() error {
	return c.data.Flush()
}

// Close unmaps and closes the cache file.
func (c *Cache) Close() error {
	if err := c.data.Unmap(); err != nil {
		c.file.Close()
		return err
	}
	return c.file.Close()
}
