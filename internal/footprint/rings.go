package footprint

// AssembleRings stitches an unordered collection of node-id fragments into
// closed rings by greedy endpoint matching. Source data frequently splits
// one physical boundary across many way fragments with inconsistent
// direction, so both fragment order and orientation are arbitrary.
//
// A ring that cannot be extended further is force-closed by repeating its
// first id; partial boundaries degrade to small closed rings instead of
// being discarded.
func AssembleRings(fragments [][]int64) [][]int64 {
	pool := make([][]int64, 0, len(fragments))
	for _, frag := range fragments {
		if len(frag) < 2 {
			continue
		}
		pool = append(pool, append([]int64(nil), frag...))
	}

	var rings [][]int64
	for len(pool) > 0 {
		ring := pool[len(pool)-1]
		pool = pool[:len(pool)-1]

		for ring[0] != ring[len(ring)-1] && len(pool) > 0 {
			extended, rest, ok := extend(ring, pool)
			if !ok {
				break
			}
			ring, pool = extended, rest
		}

		if ring[0] != ring[len(ring)-1] {
			ring = append(ring, ring[0])
		}
		rings = append(rings, ring)
	}
	return rings
}

// extend scans the pool for a fragment sharing an endpoint with the ring
// and splices it in. First structural match wins; there is no geometric
// tie-break. The matched fragment is consumed from the pool.
func extend(ring []int64, pool [][]int64) ([]int64, [][]int64, bool) {
	head, tail := ring[0], ring[len(ring)-1]

	for i, cand := range pool {
		candHead, candTail := cand[0], cand[len(cand)-1]

		switch {
		case candHead == tail:
			// Extend forward.
			ring = append(ring, cand[1:]...)
		case candTail == tail:
			// Extend forward, candidate reversed.
			for j := len(cand) - 2; j >= 0; j-- {
				ring = append(ring, cand[j])
			}
		case candTail == head:
			// Extend backward, candidate prepended.
			ring = append(cand[:len(cand)-1:len(cand)-1], ring...)
		case candHead == head:
			// Extend backward, candidate reversed and prepended.
			prefix := make([]int64, 0, len(cand)-1)
			for j := len(cand) - 1; j >= 1; j-- {
				prefix = append(prefix, cand[j])
			}
			ring = append(prefix, ring...)
		default:
			continue
		}

		pool = append(pool[:i], pool[i+1:]...)
		return ring, pool, true
	}

	return ring, pool, false
}
