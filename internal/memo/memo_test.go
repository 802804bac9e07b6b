package memo_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/lanterncalc/internal/memo"
)

type key struct {
	a, b int
}

func stores() map[string]func() memo.Store[key, uint64] {
	return map[string]func() memo.Store[key, uint64]{
		"Map":    func() memo.Store[key, uint64] { return memo.NewMap[key, uint64]() },
		"Shared": func() memo.Store[key, uint64] { return memo.NewShared[key, uint64]() },
	}
}

func TestStore_LoadMiss(t *testing.T) {
	for name, newStore := range stores() {
		t.Run(name, func(t *testing.T) {
			s := newStore()
			v, ok := s.Load(key{8, 10})
			assert.False(t, ok)
			assert.Zero(t, v)
			assert.Equal(t, memo.Stats{Misses: 1}, s.Stats())
		})
	}
}

func TestStore_WriteOnce(t *testing.T) {
	for name, newStore := range stores() {
		t.Run(name, func(t *testing.T) {
			s := newStore()

			actual, loaded := s.LoadOrStore(key{8, 20}, 42)
			assert.False(t, loaded)
			assert.Equal(t, uint64(42), actual)

			actual, loaded = s.LoadOrStore(key{8, 20}, 99)
			assert.True(t, loaded)
			assert.Equal(t, uint64(42), actual, "existing entry must not be overwritten")

			v, ok := s.Load(key{8, 20})
			require.True(t, ok)
			assert.Equal(t, uint64(42), v)
			assert.Equal(t, 1, s.Len())
		})
	}
}

func TestStore_Stats(t *testing.T) {
	for name, newStore := range stores() {
		t.Run(name, func(t *testing.T) {
			s := newStore()
			s.LoadOrStore(key{1, 1}, 1)
			s.Load(key{1, 1})
			s.Load(key{1, 1})
			s.Load(key{2, 2})

			stats := s.Stats()
			assert.Equal(t, uint64(2), stats.Hits)
			assert.Equal(t, uint64(1), stats.Misses)
			assert.Equal(t, 1, stats.Entries)
			assert.InDelta(t, 2.0/3.0, stats.HitRatio(), 1e-9)
		})
	}
}

func TestStats_HitRatioEmpty(t *testing.T) {
	assert.Zero(t, memo.Stats{}.HitRatio())
}

func TestShared_ConcurrentLoadOrStoreAgrees(t *testing.T) {
	s := memo.NewShared[key, uint64]()
	const workers = 32

	results := make([]uint64, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = s.LoadOrStore(key{8, 100}, uint64(i+1))
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		assert.Equal(t, results[0], results[i], "all callers must observe the same stored value")
	}
	assert.Equal(t, 1, s.Len())
}
