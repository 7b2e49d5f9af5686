package neighbor

import (
	"context"
	"runtime"
	"slices"

	"sylwalk/internal/core/corpus"
	"sylwalk/internal/core/errs"
	perr "sylwalk/internal/platform/errors"

	"golang.org/x/sync/errgroup"
)

// Options configures Build
type Options struct {
	Workers int // bucket goroutines in flight, defaults to GOMAXPROCS
}

// Option is a functional option for Build
type Option func(*Options)

// WithWorkers caps the number of buckets processed concurrently
// values below 1 fall back to GOMAXPROCS
func WithWorkers(n int) Option {
	return func(o *Options) { o.Workers = n }
}

// CheckDistance reports whether d is a supported max_neighbor_distance
func CheckDistance(d int) error {
	if d < MinDistance || d > MaxDistance {
		return errs.Configf("max_neighbor_distance", "must be in [%d,%d], got %d", MinDistance, MaxDistance, d)
	}
	return nil
}

// Build constructs the neighbor graph of c for maxDistance in {1,2,3}
//
// Syllables are bucketed by vector, each occupied bucket enumerates its
// related vectors through the flip masks and collects their members.
// Buckets are independent, so they are processed in parallel, each goroutine
// owning one slot of the result. Nothing is returned unless the whole build
// succeeds and passes the bucket-level invariant check.
func Build(ctx context.Context, c *corpus.Corpus, maxDistance int, opts ...Option) (*Graph, error) {
	if err := CheckDistance(maxDistance); err != nil {
		return nil, err
	}
	o := Options{}
	for _, fn := range opts {
		fn(&o)
	}
	if o.Workers < 1 {
		o.Workers = runtime.GOMAXPROCS(0)
	}

	g, slotByVec := bucketize(c, maxDistance)
	related := make([][]int32, len(g.vectors))
	g.adj = make([][]Edge, len(g.vectors))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(o.Workers)
	for slot := range g.vectors {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			related[slot], g.adj[slot] = g.bucketEdges(slot, slotByVec)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := checkBuckets(g, related, slotByVec); err != nil {
		return nil, err
	}
	return g, nil
}

// bucketize groups syllable indices by vector, slots ordered by first appearance
// the returned table maps every vector to its slot, -1 when unoccupied
func bucketize(c *corpus.Corpus, maxDistance int) (*Graph, *[corpus.VectorSpace]int32) {
	n := c.Len()
	g := &Graph{maxDistance: maxDistance, corpus: c, slotOf: make([]int32, n)}
	slotByVec := new([corpus.VectorSpace]int32)
	for i := range slotByVec {
		slotByVec[i] = -1
	}
	for i, v := range c.Vectors() {
		s := slotByVec[v]
		if s < 0 {
			s = int32(len(g.vectors))
			slotByVec[v] = s
			g.vectors = append(g.vectors, v)
			g.members = append(g.members, nil)
		}
		g.members[s] = append(g.members[s], int32(i))
		g.slotOf[i] = s
	}
	return g, slotByVec
}

// bucketEdges returns the related occupied slots and the merged adjacency for slot
func (g *Graph) bucketEdges(slot int, slotByVec *[corpus.VectorSpace]int32) ([]int32, []Edge) {
	v := g.vectors[slot]
	var rel []int32
	size := 0
	for k := 1; k <= g.maxDistance; k++ {
		for _, m := range flipMasks[k] {
			if s := slotByVec[v^m]; s >= 0 {
				rel = append(rel, s)
				size += len(g.members[s])
			}
		}
	}
	edges := make([]Edge, 0, size)
	for _, s := range rel {
		d := uint8(v.Distance(g.vectors[s]))
		for _, i := range g.members[s] {
			edges = append(edges, Edge{Neighbor: i, Distance: d})
		}
	}
	slices.SortFunc(edges, func(a, b Edge) int { return int(a.Neighbor - b.Neighbor) })
	slices.Sort(rel)
	return rel, edges
}

// checkBuckets verifies the relation at bucket granularity: no bucket relates
// to itself, distances respect the bound, and every relation is mutual
func checkBuckets(g *Graph, related [][]int32, slotByVec *[corpus.VectorSpace]int32) error {
	for slot, rel := range related {
		v := g.vectors[slot]
		for _, s := range rel {
			d := v.Distance(g.vectors[s])
			if int(s) == slot || d < MinDistance || d > g.maxDistance {
				return perr.Internalf("neighbor graph: bucket %s relates to %s at distance %d", v, g.vectors[s], d)
			}
			if _, ok := slices.BinarySearch(related[s], int32(slot)); !ok {
				return perr.Internalf("neighbor graph: relation %s -> %s is not symmetric", v, g.vectors[s])
			}
		}
		if slotByVec[v] != int32(slot) {
			return perr.Internalf("neighbor graph: bucket table out of sync at %s", v)
		}
	}
	return nil
}
