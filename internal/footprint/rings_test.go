package footprint

import (
	"testing"
)

// canonicalCycle normalizes a closed ring for comparison: the closing id is
// dropped, the cycle is rotated to start at its smallest id, and of the two
// directions the lexicographically smaller one is kept.
func canonicalCycle(ring []int64) []int64 {
	if len(ring) < 2 || ring[0] != ring[len(ring)-1] {
		return ring
	}
	cycle := ring[:len(ring)-1]
	n := len(cycle)

	best := make([]int64, 0, n)
	for start := 0; start < n; start++ {
		for dir := -1; dir <= 1; dir += 2 {
			cand := make([]int64, 0, n)
			for k := 0; k < n; k++ {
				cand = append(cand, cycle[((start+dir*k)%n+n)%n])
			}
			if len(best) == 0 || less(cand, best) {
				best = cand
			}
		}
	}
	return best
}

func less(a, b []int64) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func TestAssembleRingsJoinsFragments(t *testing.T) {
	want := canonicalCycle([]int64{1, 2, 3, 4, 1})

	// Every permutation and orientation of the two fragments must produce
	// the same cycle.
	variants := [][][]int64{
		{{1, 2, 3}, {3, 4, 1}},
		{{3, 4, 1}, {1, 2, 3}},
		{{3, 2, 1}, {3, 4, 1}},
		{{1, 2, 3}, {1, 4, 3}},
		{{3, 2, 1}, {1, 4, 3}},
	}

	for _, fragments := range variants {
		rings := AssembleRings(fragments)
		if len(rings) != 1 {
			t.Fatalf("fragments %v: got %d rings, want 1", fragments, len(rings))
		}
		ring := rings[0]
		if ring[0] != ring[len(ring)-1] {
			t.Errorf("fragments %v: ring %v is not closed", fragments, ring)
		}
		if got := canonicalCycle(ring); !equal(got, want) {
			t.Errorf("fragments %v: cycle %v, want %v", fragments, got, want)
		}
	}
}

func TestAssembleRingsIdempotentOnClosedRing(t *testing.T) {
	closed := []int64{7, 8, 9, 7}
	rings := AssembleRings([][]int64{closed})
	if len(rings) != 1 {
		t.Fatalf("got %d rings, want 1", len(rings))
	}
	if !equal(rings[0], closed) {
		t.Errorf("got %v, want %v unchanged", rings[0], closed)
	}
}

func TestAssembleRingsForceClosesOpenChain(t *testing.T) {
	rings := AssembleRings([][]int64{{1, 2}, {2, 3}})
	if len(rings) != 1 {
		t.Fatalf("got %d rings, want 1", len(rings))
	}
	ring := rings[0]
	if ring[0] != ring[len(ring)-1] {
		t.Errorf("ring %v is not closed", ring)
	}
	if len(ring) != 4 {
		t.Errorf("ring %v has %d ids, want 4", ring, len(ring))
	}
}

func TestAssembleRingsSeparatesDisjointLoops(t *testing.T) {
	rings := AssembleRings([][]int64{
		{1, 2, 3, 1},
		{10, 11},
		{11, 12, 10},
	})
	if len(rings) != 2 {
		t.Fatalf("got %d rings, want 2", len(rings))
	}
	for _, ring := range rings {
		if ring[0] != ring[len(ring)-1] {
			t.Errorf("ring %v is not closed", ring)
		}
	}
}

func TestAssembleRingsSkipsShortFragments(t *testing.T) {
	rings := AssembleRings([][]int64{{5}, {}})
	if len(rings) != 0 {
		t.Errorf("got %v, want no rings", rings)
	}
}

func TestAssembleRingsDoesNotMutateInput(t *testing.T) {
	a := []int64{1, 2, 3}
	b := []int64{3, 4, 1}
	AssembleRings([][]int64{a, b})
	if !equal(a, []int64{1, 2, 3}) || !equal(b, []int64{3, 4, 1}) {
		t.Errorf("input fragments were mutated: %v %v", a, b)
	}
}

func equal(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
