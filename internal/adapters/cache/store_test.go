package cache_test

import (
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/scout/internal/adapters/cache"
	"go.trai.ch/scout/internal/core/domain"
)

func TestStore_GetSet(t *testing.T) {
	s := cache.NewStore(0)
	defer s.Close()

	_, ok := s.Get("missing")
	assert.False(t, ok)

	s.Set("key", "value", 0)
	v, ok := s.Get("key")
	require.True(t, ok)
	assert.Equal(t, "value", v)
}

func TestStore_LastWriteWins(t *testing.T) {
	s := cache.NewStore(0)
	defer s.Close()

	s.Set("key", "first", 0)
	s.Set("key", "second", 0)

	v, ok := s.Get("key")
	require.True(t, ok)
	assert.Equal(t, "second", v)
	assert.Equal(t, 1, s.Stats().Entries)
}

func TestStore_TTLExpiry(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s := cache.NewStore(0)
		defer s.Close()

		s.Set("short", "v", 100*time.Millisecond)
		s.Set("long", "v", time.Hour)
		s.Set("forever", "v", 0)

		time.Sleep(150 * time.Millisecond)

		_, ok := s.Get("short")
		assert.False(t, ok, "expired entry must be treated as absent")
		_, ok = s.Get("long")
		assert.True(t, ok)
		_, ok = s.Get("forever")
		assert.True(t, ok, "zero ttl means the entry never expires")
	})
}

func TestStore_BackgroundPrune(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s := cache.NewStore(time.Second)
		defer s.Close()

		s.Set("short", "v", 100*time.Millisecond)
		s.Set("long", "v", time.Hour)

		// Past the entry's ttl and past one prune tick.
		time.Sleep(1100 * time.Millisecond)
		synctest.Wait()

		stats := s.Stats()
		assert.Equal(t, 1, stats.Entries, "prune loop should have removed the expired entry")
	})
}

func TestStore_Prune(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s := cache.NewStore(0)
		defer s.Close()

		s.Set("a", "v", 100*time.Millisecond)
		s.Set("b", "v", 100*time.Millisecond)
		s.Set("c", "v", time.Hour)

		time.Sleep(150 * time.Millisecond)

		assert.Equal(t, 2, s.Prune())
		assert.Equal(t, 1, s.Stats().Entries)
	})
}

func TestStore_Invalidate(t *testing.T) {
	s := cache.NewStore(0)
	defer s.Close()

	s.Set("key", "v", 0)

	assert.True(t, s.Invalidate("key"))
	assert.False(t, s.Invalidate("key"), "second invalidation finds nothing")
}

func TestStore_InvalidateAll(t *testing.T) {
	s := cache.NewStore(0)
	defer s.Close()

	s.Set("a", "v", 0)
	s.Set("b", "v", 0)

	assert.Equal(t, 2, s.InvalidateAll())
	assert.Equal(t, 0, s.Stats().Entries)
}

func TestStore_InvalidatePattern(t *testing.T) {
	s := cache.NewStore(0)
	defer s.Close()

	s.Set("/repos/alpha@0001", "v", 0)
	s.Set("/repos/alpha@0002", "v", 0)
	s.Set("/repos/beta@0003", "v", 0)
	s.Set("/other/alpha@0004", "v", 0)

	removed := s.InvalidatePattern("/repos/alpha@*")
	assert.Equal(t, 2, removed)

	_, ok := s.Get("/repos/beta@0003")
	assert.True(t, ok)
	_, ok = s.Get("/other/alpha@0004")
	assert.True(t, ok)
}

func TestStore_InvalidatePattern_EscapesRegexpMeta(t *testing.T) {
	s := cache.NewStore(0)
	defer s.Close()

	s.Set("a.b", "v", 0)
	s.Set("axb", "v", 0)

	// The dot must match literally, not as a regexp wildcard.
	assert.Equal(t, 1, s.InvalidatePattern("a.b"))
	_, ok := s.Get("axb")
	assert.True(t, ok)
}

func TestStore_Stats(t *testing.T) {
	s := cache.NewStore(0)
	defer s.Close()

	report := &domain.ScanReport{Repository: "/repo", Languages: map[string]int{"go": 3}}
	s.Set("key", report, 0)

	s.Get("key")
	s.Get("key")
	s.Get("missing")

	stats := s.Stats()
	assert.Equal(t, uint64(2), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, report.SizeHint(), stats.SizeHint)
}

func TestStore_CloseIdempotent(t *testing.T) {
	s := cache.NewStore(time.Second)
	s.Close()
	s.Close()
}
