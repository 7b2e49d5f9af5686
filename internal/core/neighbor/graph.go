// Package neighbor builds the bounded Hamming-distance relation over a corpus
//
// Syllables are grouped by feature vector. Every syllable in a bucket has the
// same neighbors, so adjacency is stored once per bucket and shared.
package neighbor

import (
	"fmt"
	"slices"

	"sylwalk/internal/core/corpus"
)

// Edge is one directed adjacency entry
type Edge struct {
	Neighbor int32 `json:"neighbor"`
	Distance uint8 `json:"distance"`
}

// Graph is the immutable neighbor relation for one distance bound
type Graph struct {
	maxDistance int
	corpus      *corpus.Corpus

	slotOf  []int32           // syllable index -> bucket slot
	vectors []corpus.Features // bucket slot -> vector
	members [][]int32         // bucket slot -> syllable indices, ascending
	adj     [][]Edge          // bucket slot -> edges, ascending by neighbor
}

// MaxDistance is the bound the graph was built with
func (g *Graph) MaxDistance() int { return g.maxDistance }

// Len returns the number of syllables
func (g *Graph) Len() int { return len(g.slotOf) }

// Corpus returns the corpus the graph was built over
func (g *Graph) Corpus() *corpus.Corpus { return g.corpus }

// Neighbors returns the adjacency of syllable i sorted by neighbor index
// the slice is shared between every syllable with the same vector, do not modify it
func (g *Graph) Neighbors(i int) []Edge {
	if i < 0 || i >= len(g.slotOf) {
		return nil
	}
	return g.adj[g.slotOf[i]]
}

// Distance returns the edge distance between a and b, ok is false when no edge exists
func (g *Graph) Distance(a, b int) (int, bool) {
	edges := g.Neighbors(a)
	k, found := slices.BinarySearchFunc(edges, int32(b), func(e Edge, t int32) int { return int(e.Neighbor - t) })
	if !found {
		return 0, false
	}
	return int(edges[k].Distance), true
}

// Stats summarizes a built graph
type Stats struct {
	MaxDistance int `json:"max_neighbor_distance"`
	Syllables   int `json:"syllables"`
	Buckets     int `json:"buckets"`
	Edges       int `json:"edges"`
	MaxDegree   int `json:"max_degree"`
	Isolated    int `json:"isolated"`
}

// Stats walks the bucket table, O(B)
func (g *Graph) Stats() Stats {
	st := Stats{MaxDistance: g.maxDistance, Syllables: g.Len(), Buckets: len(g.vectors)}
	for slot, edges := range g.adj {
		n := len(g.members[slot])
		st.Edges += n * len(edges)
		if len(edges) > st.MaxDegree {
			st.MaxDegree = len(edges)
		}
		if len(edges) == 0 {
			st.Isolated += n
		}
	}
	return st
}

// Validate checks every edge: in range, no self edges, sorted, distance
// matches the vectors and the bound, reverse edge present with the same distance
func (g *Graph) Validate() error {
	n := g.Len()
	for a := 0; a < n; a++ {
		edges := g.Neighbors(a)
		for k, e := range edges {
			b := int(e.Neighbor)
			switch {
			case b < 0 || b >= n:
				return fmt.Errorf("edge %d->%d: neighbor out of range", a, b)
			case b == a:
				return fmt.Errorf("edge %d->%d: self edge", a, b)
			case k > 0 && edges[k-1].Neighbor >= e.Neighbor:
				return fmt.Errorf("edge %d->%d: adjacency not strictly ascending", a, b)
			case int(e.Distance) < MinDistance || int(e.Distance) > g.maxDistance:
				return fmt.Errorf("edge %d->%d: distance %d outside [1,%d]", a, b, e.Distance, g.maxDistance)
			case int(e.Distance) != g.corpus.Vector(a).Distance(g.corpus.Vector(b)):
				return fmt.Errorf("edge %d->%d: distance %d does not match vectors", a, b, e.Distance)
			}
			back, ok := g.Distance(b, a)
			if !ok || back != int(e.Distance) {
				return fmt.Errorf("edge %d->%d: reverse edge missing or mismatched", a, b)
			}
		}
	}
	return nil
}
