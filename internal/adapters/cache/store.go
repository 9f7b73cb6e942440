// Package cache implements the in-memory result cache keyed by request
// fingerprint.
package cache

import (
	"regexp"
	"strings"
	"sync"
	"time"

	"go.trai.ch/scout/internal/core/ports"
)

// Sizer lets cached values report an approximate in-memory footprint for the
// cache's size accounting.
type Sizer interface {
	SizeHint() int64
}

type entry struct {
	value     any
	createdAt time.Time
	ttl       time.Duration
	sizeHint  int64
}

func (e entry) expired(now time.Time) bool {
	return e.ttl > 0 && now.Sub(e.createdAt) >= e.ttl
}

// Store implements ports.ResultCache. Entries live process-lifetime only;
// a restart is a cold start. Expiry is evaluated lazily on Get and eagerly
// by Prune, which also runs on a timer owned by the store.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	hits    uint64
	misses  uint64

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

var _ ports.ResultCache = (*Store)(nil)

// NewStore creates a Store. When pruneInterval is positive a background
// sweep prunes expired entries at that cadence until Close is called.
func NewStore(pruneInterval time.Duration) *Store {
	s := &Store{
		entries: make(map[string]entry),
		done:    make(chan struct{}),
	}

	if pruneInterval > 0 {
		s.wg.Add(1)
		go s.pruneLoop(pruneInterval)
	}
	return s
}

func (s *Store) pruneLoop(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Prune()
		case <-s.done:
			return
		}
	}
}

// Get returns the live value for key. An expired entry counts as a miss and
// is removed.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		s.misses++
		return nil, false
	}
	if e.expired(time.Now()) {
		delete(s.entries, key)
		s.misses++
		return nil, false
	}

	s.hits++
	return e.value, true
}

// Set stores value under key, replacing any previous entry. A non-positive
// ttl means the entry never expires.
func (s *Store) Set(key string, value any, ttl time.Duration) {
	var hint int64
	if sized, ok := value.(Sizer); ok {
		hint = sized.SizeHint()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{
		value:     value,
		createdAt: time.Now(),
		ttl:       ttl,
		sizeHint:  hint,
	}
}

// Invalidate removes the entry for key, reporting whether one existed.
func (s *Store) Invalidate(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.entries[key]
	delete(s.entries, key)
	return ok
}

// InvalidateAll removes every entry and returns the count removed.
func (s *Store) InvalidateAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := len(s.entries)
	s.entries = make(map[string]entry)
	return removed
}

// InvalidatePattern removes entries whose key matches pattern, where '*'
// matches any run of characters. This is a textual scan over the literal
// key strings, O(entries).
func (s *Store) InvalidatePattern(pattern string) int {
	re := compileWildcard(pattern)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key := range s.entries {
		if re.MatchString(key) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Prune eagerly removes all expired entries and returns the count removed.
func (s *Store) Prune() int {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range s.entries {
		if e.expired(now) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Stats returns current cache counters.
func (s *Store) Stats() ports.CacheStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	var hint int64
	for _, e := range s.entries {
		hint += e.sizeHint
	}
	return ports.CacheStats{
		Hits:     s.hits,
		Misses:   s.misses,
		Entries:  len(s.entries),
		SizeHint: hint,
	}
}

// Close stops the background prune sweep. Idempotent.
func (s *Store) Close() {
	s.closeOnce.Do(func() { close(s.done) })
	s.wg.Wait()
}

// compileWildcard translates a '*' wildcard pattern into an anchored regexp.
// Every other character matches literally.
func compileWildcard(pattern string) *regexp.Regexp {
	parts := strings.Split(pattern, "*")
	for i, part := range parts {
		parts[i] = regexp.QuoteMeta(part)
	}
	return regexp.MustCompile("^" + strings.Join(parts, ".*") + "$")
}
