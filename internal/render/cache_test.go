package render

import (
	"context"
	"errors"
	"testing"

	"github.com/couchcryptid/sea-level-chart/internal/domain"
	"github.com/couchcryptid/sea-level-chart/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock for cache tests ---

type countingCharter struct {
	calls int
	img   []byte
	err   error
}

func (m *countingCharter) Chart(_ context.Context, _ Request) ([]byte, error) {
	m.calls++
	return m.img, m.err
}

func worldRequest() Request {
	return Request{
		Selection: domain.SelectionState{Primary: "World"},
		Width:     800, Height: 500, Format: FormatPNG,
	}
}

// --- CachedCharter tests ---

func TestCachedCharter_Hit(t *testing.T) {
	inner := &countingCharter{img: []byte("image")}
	m := observability.NewMetricsForTesting()
	cached := NewCachedCharter(inner, 10, m)

	img1, err := cached.Chart(context.Background(), worldRequest())
	require.NoError(t, err)
	img2, err := cached.Chart(context.Background(), worldRequest())
	require.NoError(t, err)

	assert.Equal(t, img1, img2)
	assert.Equal(t, 1, inner.calls, "should only call inner once")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RenderCache.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RenderCache.WithLabelValues("miss")))
}

func TestCachedCharter_DifferentKeysMiss(t *testing.T) {
	inner := &countingCharter{img: []byte("image")}
	cached := NewCachedCharter(inner, 10, observability.NewMetricsForTesting())

	req := worldRequest()
	_, _ = cached.Chart(context.Background(), req)
	req.Selection.Comparison = "Atlantic Ocean"
	_, _ = cached.Chart(context.Background(), req)

	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, 2, cached.Len())
}

func TestCachedCharter_ErrorsNotCached(t *testing.T) {
	inner := &countingCharter{err: errors.New("render failed")}
	cached := NewCachedCharter(inner, 10, observability.NewMetricsForTesting())

	_, err := cached.Chart(context.Background(), worldRequest())
	require.Error(t, err)
	_, err = cached.Chart(context.Background(), worldRequest())
	require.Error(t, err)

	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, 0, cached.Len())
}

func TestCachedCharter_Purge(t *testing.T) {
	inner := &countingCharter{img: []byte("image")}
	cached := NewCachedCharter(inner, 10, observability.NewMetricsForTesting())

	_, _ = cached.Chart(context.Background(), worldRequest())
	cached.Purge()
	assert.Equal(t, 0, cached.Len())

	_, _ = cached.Chart(context.Background(), worldRequest())
	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, 1, cached.Len())
}

// --- LRU cache unit tests ---

func TestLRUCache_BasicGetPut(t *testing.T) {
	c := newLRUCache(3)

	c.put("a", []byte("A"))
	c.put("b", []byte("B"))

	v, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, []byte("A"), v)

	_, ok = c.get("missing")
	assert.False(t, ok)
}

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", []byte("A"))
	c.put("b", []byte("B"))
	c.put("c", []byte("C")) // evicts "a"

	_, ok := c.get("a")
	assert.False(t, ok, "a should have been evicted")

	v, ok := c.get("c")
	assert.True(t, ok)
	assert.Equal(t, []byte("C"), v)
}

func TestLRUCache_AccessPromotesEntry(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", []byte("A"))
	c.put("b", []byte("B"))
	c.get("a")
	c.put("c", []byte("C"))

	_, ok := c.get("a")
	assert.True(t, ok, "a was accessed recently, should not be evicted")

	_, ok = c.get("b")
	assert.False(t, ok, "b should have been evicted")
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", []byte("A1"))
	c.put("a", []byte("A2"))

	v, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, []byte("A2"), v)
	assert.Len(t, c.entries, 1)
}
