package distill

import (
	"database/sql"
	"sort"
)

// Pair is one row of the person equivalence table: PersonID and RelPersonID
// name the same real person.
type Pair struct {
	PersonID    sql.NullInt64
	RelPersonID sql.NullInt64
}

// Anomalies counts equivalence rows that did not contribute a merge.
type Anomalies struct {
	SelfPairs int // personID == relPersonID
	NullPairs int // either side NULL
	Redundant int // both sides already equivalent (duplicates, cycles)
}

// IdentityMap sends a merged-away person to its canonical survivor. Pairs are
// closed transitively: every member of a connected component maps to the
// smallest ID in that component, so chains such as 5774→5439→2192 resolve
// 5774 straight to 2192 regardless of pair order.
//
// An IdentityMap is immutable after BuildIdentityMap and safe for
// concurrent use.
type IdentityMap struct {
	canonical map[int64]int64 // superseded ID -> survivor
	anomalies Anomalies
}

// BuildIdentityMap runs union-find with path compression over pairs.
func BuildIdentityMap(pairs []Pair) *IdentityMap {
	parent := map[int64]int64{}
	var find func(int64) int64
	find = func(x int64) int64 {
		p, ok := parent[x]
		if !ok {
			parent[x] = x
			return x
		}
		if p == x {
			return x
		}
		root := find(p)
		parent[x] = root
		return root
	}

	m := &IdentityMap{canonical: map[int64]int64{}}
	for _, p := range pairs {
		if !p.PersonID.Valid || !p.RelPersonID.Valid {
			m.anomalies.NullPairs++
			continue
		}
		a, b := p.PersonID.Int64, p.RelPersonID.Int64
		if a == b {
			m.anomalies.SelfPairs++
			continue
		}
		ra, rb := find(a), find(b)
		if ra == rb {
			m.anomalies.Redundant++
			continue
		}
		// The smaller root survives, so every root is its component minimum.
		if rb < ra {
			ra, rb = rb, ra
		}
		parent[rb] = ra
	}

	for id := range parent {
		if root := find(id); root != id {
			m.canonical[id] = root
		}
	}
	return m
}

// Resolve returns the canonical ID for id; IDs that were never merged map to
// themselves.
func (m *IdentityMap) Resolve(id int64) int64 {
	if c, ok := m.canonical[id]; ok {
		return c
	}
	return id
}

// Superseded reports whether id was merged into another person.
func (m *IdentityMap) Superseded(id int64) bool {
	_, ok := m.canonical[id]
	return ok
}

// Len returns the number of superseded IDs.
func (m *IdentityMap) Len() int { return len(m.canonical) }

// Anomalies returns the counts of pairs that were skipped or redundant.
func (m *IdentityMap) Anomalies() Anomalies { return m.anomalies }

// SupersededIDs returns the superseded IDs in ascending order.
func (m *IdentityMap) SupersededIDs() []int64 {
	out := make([]int64, 0, len(m.canonical))
	for id := range m.canonical {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
