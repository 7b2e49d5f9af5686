package neighbor

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"testing"

	"sylwalk/internal/core/corpus"
	"sylwalk/internal/core/errs"
	perr "sylwalk/internal/platform/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vec(s string) corpus.FeatureList {
	out := make(corpus.FeatureList, 0, len(s))
	for _, r := range s {
		out = append(out, r == '1')
	}
	return out
}

func scenario(t *testing.T) *corpus.Corpus {
	t.Helper()
	c, err := corpus.Load([]corpus.RawRecord{
		{Syllable: "ka", Frequency: 20, Features: vec("000100010100")},
		{Syllable: "pai", Frequency: 9, Features: vec("000100001100")},
	})
	require.NoError(t, err)
	return c
}

func randomCorpus(t *testing.T, n int, seed uint64) *corpus.Corpus {
	t.Helper()
	r := rand.New(rand.NewPCG(seed, seed^0x5bd1e995))
	raw := make([]corpus.RawRecord, n)
	for i := range raw {
		f := corpus.Features(r.IntN(corpus.VectorSpace))
		raw[i] = corpus.RawRecord{
			Syllable:  fmt.Sprintf("s%d", i),
			Frequency: 1 + r.IntN(500),
			Features:  f.Bools(),
		}
	}
	c, err := corpus.Load(raw)
	require.NoError(t, err)
	return c
}

func TestFlipMaskCounts(t *testing.T) {
	assert.Equal(t, 12, RelatedCount(1))
	assert.Equal(t, 78, RelatedCount(2))
	assert.Equal(t, 298, RelatedCount(3))
}

func TestScenarioEdge(t *testing.T) {
	// ka and pai differ in short_vowel and long_vowel
	c := scenario(t)
	assert.Equal(t, 2, c.Vector(0).Distance(c.Vector(1)))

	g1, err := Build(context.Background(), c, 1)
	require.NoError(t, err)
	assert.Empty(t, g1.Neighbors(0))
	_, ok := g1.Distance(0, 1)
	assert.False(t, ok)

	g2, err := Build(context.Background(), c, 2)
	require.NoError(t, err)
	assert.Equal(t, []Edge{{Neighbor: 1, Distance: 2}}, g2.Neighbors(0))
	assert.Equal(t, []Edge{{Neighbor: 0, Distance: 2}}, g2.Neighbors(1))
	require.NoError(t, g2.Validate())
}

func TestSingleFlipEdge(t *testing.T) {
	c, err := corpus.Load([]corpus.RawRecord{
		{Syllable: "ka", Frequency: 20, Features: vec("000100010100")},
		{Syllable: "ki", Frequency: 9, Features: vec("000100000100")},
	})
	require.NoError(t, err)

	g, err := Build(context.Background(), c, 1)
	require.NoError(t, err)
	assert.Equal(t, []Edge{{Neighbor: 1, Distance: 1}}, g.Neighbors(0))
	assert.Equal(t, []Edge{{Neighbor: 0, Distance: 1}}, g.Neighbors(1))
	d, ok := g.Distance(0, 1)
	require.True(t, ok)
	assert.Equal(t, 1, d)
	require.NoError(t, g.Validate())
}

func TestBuildRejectsDistance(t *testing.T) {
	c := scenario(t)
	for _, d := range []int{-1, 0, 4, 12} {
		g, err := Build(context.Background(), c, d)
		assert.Nil(t, g)
		var ce *errs.ConfigError
		require.True(t, errors.As(err, &ce), "distance %d", d)
		assert.Equal(t, perr.ErrorCodeConfig, perr.CodeOf(err))
	}
}

func TestBuildMatchesBruteForce(t *testing.T) {
	c := randomCorpus(t, 400, 7)
	for d := MinDistance; d <= MaxDistance; d++ {
		t.Run(fmt.Sprintf("d=%d", d), func(t *testing.T) {
			g, err := Build(context.Background(), c, d, WithWorkers(3))
			require.NoError(t, err)
			require.NoError(t, g.Validate())

			for a := 0; a < c.Len(); a++ {
				var want []Edge
				for b := 0; b < c.Len(); b++ {
					h := c.Vector(a).Distance(c.Vector(b))
					if a != b && h >= 1 && h <= d {
						want = append(want, Edge{Neighbor: int32(b), Distance: uint8(h)})
					}
				}
				got := g.Neighbors(a)
				if len(want) == 0 {
					assert.Empty(t, got, "syllable %d", a)
					continue
				}
				assert.Equal(t, want, got, "syllable %d", a)
			}
		})
	}
}

func TestSameVectorIsNotAnEdge(t *testing.T) {
	c, err := corpus.Load([]corpus.RawRecord{
		{Syllable: "ka", Frequency: 2, Features: vec("000100010100")},
		{Syllable: "ka", Frequency: 5, Features: vec("000100010100")},
	})
	require.NoError(t, err)

	g, err := Build(context.Background(), c, 3)
	require.NoError(t, err)
	assert.Empty(t, g.Neighbors(0))
	assert.Empty(t, g.Neighbors(1))
	st := g.Stats()
	assert.Equal(t, 1, st.Buckets)
	assert.Equal(t, 2, st.Isolated)
	assert.Equal(t, 0, st.Edges)
}

func TestBuildIndependentOfWorkers(t *testing.T) {
	c := randomCorpus(t, 1000, 99)
	one, err := Build(context.Background(), c, 2, WithWorkers(1))
	require.NoError(t, err)
	many, err := Build(context.Background(), c, 2, WithWorkers(16))
	require.NoError(t, err)
	for i := 0; i < c.Len(); i++ {
		require.Equal(t, one.Neighbors(i), many.Neighbors(i))
	}
	assert.Equal(t, one.Stats(), many.Stats())
}

func TestBuildCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g, err := Build(ctx, randomCorpus(t, 50, 1), 1)
	assert.Nil(t, g)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStats(t *testing.T) {
	c, err := corpus.Load([]corpus.RawRecord{
		{Syllable: "a", Frequency: 1, Features: vec("000000000000")},
		{Syllable: "b", Frequency: 1, Features: vec("100000000000")},
		{Syllable: "c", Frequency: 1, Features: vec("100000000000")},
		{Syllable: "d", Frequency: 1, Features: vec("111100000000")},
	})
	require.NoError(t, err)

	g, err := Build(context.Background(), c, 1)
	require.NoError(t, err)
	st := g.Stats()
	assert.Equal(t, 1, st.MaxDistance)
	assert.Equal(t, 4, st.Syllables)
	assert.Equal(t, 3, st.Buckets)
	// a<->b, a<->c
	assert.Equal(t, 4, st.Edges)
	assert.Equal(t, 2, st.MaxDegree)
	assert.Equal(t, 1, st.Isolated)
}

func TestCacheBuildsOncePerDistance(t *testing.T) {
	cache := NewCache(randomCorpus(t, 300, 3))
	ctx := context.Background()

	var wg sync.WaitGroup
	got := make([]*Graph, 16)
	for i := range got {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g, err := cache.Get(ctx, 2)
			assert.NoError(t, err)
			got[i] = g
		}()
	}
	wg.Wait()
	for _, g := range got {
		assert.Same(t, got[0], g)
	}

	g1, err := cache.Get(ctx, 1)
	require.NoError(t, err)
	assert.NotSame(t, got[0], g1)
	assert.Equal(t, []int{1, 2}, cache.Built())

	_, err = cache.Get(ctx, 5)
	var ce *errs.ConfigError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, []int{1, 2}, cache.Built())
}

func TestCacheBuildOutlivesCanceledCaller(t *testing.T) {
	c := randomCorpus(t, 50, 5)
	cache := NewCache(c)

	started := make(chan struct{})
	release := make(chan struct{})
	var builds atomic.Int32
	cache.build = func(ctx context.Context, c *corpus.Corpus, d int, opts ...Option) (*Graph, error) {
		builds.Add(1)
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return Build(ctx, c, d, opts...)
	}

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := cache.Get(ctx, 2)
		first <- err
	}()
	<-started

	type result struct {
		g   *Graph
		err error
	}
	second := make(chan result, 1)
	go func() {
		g, err := cache.Get(context.Background(), 2)
		second <- result{g, err}
	}()

	cancel()
	require.ErrorIs(t, <-first, context.Canceled)

	close(release)
	r := <-second
	require.NoError(t, r.err)
	require.NotNil(t, r.g)
	assert.Equal(t, int32(1), builds.Load())
	assert.Equal(t, []int{2}, cache.Built())

	g, err := cache.Get(ctx, 2)
	require.NoError(t, err, "cached graphs are served without consulting ctx")
	assert.Same(t, r.g, g)
}
