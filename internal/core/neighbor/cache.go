package neighbor

import (
	"context"
	"strconv"
	"sync"

	"sylwalk/internal/core/corpus"

	"golang.org/x/sync/singleflight"
)

// Cache holds at most one graph per distance bound over a single corpus
// concurrent Get calls for the same bound share one build, failed builds are retried
type Cache struct {
	corpus *corpus.Corpus
	opts   []Option
	build  func(context.Context, *corpus.Corpus, int, ...Option) (*Graph, error)

	mu     sync.RWMutex
	graphs map[int]*Graph
	group  singleflight.Group
}

// NewCache returns an empty cache, opts are passed to every Build
func NewCache(c *corpus.Corpus, opts ...Option) *Cache {
	return &Cache{corpus: c, opts: opts, build: Build, graphs: make(map[int]*Graph)}
}

// Corpus returns the corpus graphs are built over
func (c *Cache) Corpus() *corpus.Corpus { return c.corpus }

// Get returns the graph for maxDistance, building it on first use
// the shared build ignores the caller's cancellation, a canceled caller
// stops waiting while the others still get the graph
func (c *Cache) Get(ctx context.Context, maxDistance int) (*Graph, error) {
	if err := CheckDistance(maxDistance); err != nil {
		return nil, err
	}
	c.mu.RLock()
	g, ok := c.graphs[maxDistance]
	c.mu.RUnlock()
	if ok {
		return g, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bctx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(strconv.Itoa(maxDistance), func() (any, error) {
		c.mu.RLock()
		g, ok := c.graphs[maxDistance]
		c.mu.RUnlock()
		if ok {
			return g, nil
		}
		g, err := c.build(bctx, c.corpus, maxDistance, c.opts...)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.graphs[maxDistance] = g
		c.mu.Unlock()
		return g, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*Graph), nil
	}
}

// Built lists the bounds currently cached
func (c *Cache) Built() []int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]int, 0, len(c.graphs))
	for d := MinDistance; d <= MaxDistance; d++ {
		if _, ok := c.graphs[d]; ok {
			out = append(out, d)
		}
	}
	return out
}
