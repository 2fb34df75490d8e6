package cache

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	defaultMemorySize = 1024
	sweepInterval     = time.Minute
)

type entry struct {
	value   []byte
	expires time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

// Memory is a bounded in-process LRU cache. Entries expire after their own
// ttl and never outlive maxTTL; expired entries are swept on write, and the
// least recently used entry is evicted once size is reached.
type Memory struct {
	mu        sync.Mutex
	lru       *expirable.LRU[string, entry]
	now       func() time.Time
	nextSweep time.Time
}

// NewMemory creates an empty cache holding at most size entries. A
// non-positive maxTTL leaves expiry to the per-entry ttl.
func NewMemory(size int, maxTTL time.Duration) *Memory {
	if size <= 0 {
		size = defaultMemorySize
	}
	return &Memory{
		lru: expirable.NewLRU[string, entry](size, nil, maxTTL),
		now: time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	e, ok := m.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	if e.expired(m.now()) {
		m.lru.Remove(key)
		return nil, false, nil
	}
	return e.value, true, nil
}

// Set stores value under key. A non-positive ttl only expires with maxTTL.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	now := m.now()
	e := entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expires = now.Add(ttl)
	}
	m.sweep(now)
	m.lru.Add(key, e)
	return nil
}

// sweep drops expired entries at most once per sweepInterval
func (m *Memory) sweep(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if now.Before(m.nextSweep) {
		return
	}
	m.nextSweep = now.Add(sweepInterval)
	for _, key := range m.lru.Keys() {
		if e, ok := m.lru.Peek(key); ok && e.expired(now) {
			m.lru.Remove(key)
		}
	}
}

// Len returns the number of stored entries, including expired ones not yet swept
func (m *Memory) Len() int { return m.lru.Len() }

func (m *Memory) Close() error {
	m.lru.Purge()
	return nil
}
