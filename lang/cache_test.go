package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileCached(t *testing.T) {
	t.Cleanup(ClearCache)
	ClearCache()

	a, err := CompileCached(t.Context(), "0..100|*2|!*3")
	require.NoError(t, err)

	b, err := CompileCached(t.Context(), "0..100|*2|!*3", WithRetries(3), WithSeed(1))
	require.NoError(t, err)

	assert.Same(t, a.Tree(), b.Tree(), "evaluation options share a tree")
	assert.Equal(t, 3, b.opts.retries)

	c, err := CompileCached(t.Context(), "0..100|*2|!*3", WithPrecompute(false))
	require.NoError(t, err)

	assert.NotSame(t, a.Tree(), c.Tree(), "compile options select a tree")
	assert.Equal(t, KindPrecomputed, a.Tree().Kind)
	assert.Equal(t, KindRange, c.Tree().Kind)

	d, err := CompileCached(t.Context(), "0..100|*2|!*5")
	require.NoError(t, err)

	assert.NotSame(t, a.Tree(), d.Tree())
}

func TestCompileCached_Errors(t *testing.T) {
	t.Cleanup(ClearCache)
	ClearCache()

	for range 2 {
		p, err := CompileCached(t.Context(), "0..10|*2|!*2")

		assert.Nil(t, p)
		assert.ErrorIs(t, err, ErrUnsatisfiable)
	}
}

func TestClearCache(t *testing.T) {
	t.Cleanup(ClearCache)

	a, err := CompileCached(t.Context(), "[1, 2, 3]")
	require.NoError(t, err)

	ClearCache()

	b, err := CompileCached(t.Context(), "[1, 2, 3]")
	require.NoError(t, err)

	assert.NotSame(t, a.Tree(), b.Tree())
}

func TestCacheKey(t *testing.T) {
	defaults := makeOptions().compile

	assert.Equal(t, cacheKey("0..1", defaults), cacheKey("0..1", defaults))
	assert.NotEqual(t, cacheKey("0..1", defaults), cacheKey("0..2", defaults))
	assert.NotEqual(t,
		cacheKey("0..1", defaults),
		cacheKey("0..1", compileOptions{MemoryBudget: 1, Precompute: true}),
	)
}
