// Package cache provides a TTL cache for registry responses with optional
// durable persistence.
package cache

import (
	"sync"
	"time"
)

// DefaultTTL is used when Set is called without an explicit TTL.
const DefaultTTL = 3600 * time.Second

// Entry is a single cached payload with its lifetime bounds.
type Entry struct {
	Value     []byte    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the entry's lifetime has passed at the given time.
func (e Entry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// Store persists cache entries between runs. Implementations must be safe
// for use from a single Cache; the Cache serializes access.
type Store interface {
	// Load returns all persisted entries, including expired ones.
	Load() (map[string]Entry, error)
	Put(key string, e Entry) error
	Delete(key string) error
	Clear() error
	Close() error
}

// NopStore is a Store that persists nothing. It backs the disabled cache
// and keeps tests free of disk state.
type NopStore struct{}

func (NopStore) Load() (map[string]Entry, error) { return nil, nil }
func (NopStore) Put(string, Entry) error         { return nil }
func (NopStore) Delete(string) error             { return nil }
func (NopStore) Clear() error                    { return nil }
func (NopStore) Close() error                    { return nil }

// Cache is an in-memory TTL cache with write-through persistence. Expired
// entries are deleted lazily on access and swept once when the cache opens.
// There is no size bound; entries live until they expire or are cleared.
type Cache struct {
	mu       sync.Mutex
	entries  map[string]Entry
	store    Store
	ttl      time.Duration
	disabled bool

	now func() time.Time
}

// New builds a cache backed by store, sweeping entries that expired while
// the process was down. A nil store behaves like NopStore. ttl <= 0 falls
// back to DefaultTTL.
func New(store Store, ttl time.Duration) (*Cache, error) {
	if store == nil {
		store = NopStore{}
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c := &Cache{
		entries: make(map[string]Entry),
		store:   store,
		ttl:     ttl,
		now:     time.Now,
	}

	loaded, err := store.Load()
	if err != nil {
		return nil, err
	}
	now := c.now()
	for key, e := range loaded {
		if e.Expired(now) {
			_ = store.Delete(key)
			continue
		}
		c.entries[key] = e
	}
	return c, nil
}

// Disabled returns a cache that never stores anything: Get always misses
// and Set is a no-op.
func Disabled() *Cache {
	return &Cache{
		entries:  make(map[string]Entry),
		store:    NopStore{},
		ttl:      DefaultTTL,
		disabled: true,
		now:      time.Now,
	}
}

// Get returns the cached value for key, or false on a miss. An entry past
// its expiry is removed from memory and the store before reporting a miss.
func (c *Cache) Get(key string) ([]byte, bool) {
	if c.disabled {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if e.Expired(c.now()) {
		delete(c.entries, key)
		_ = c.store.Delete(key)
		return nil, false
	}
	return e.Value, true
}

// Set stores value under key with the cache's default TTL.
func (c *Cache) Set(key string, value []byte) error {
	return c.SetTTL(key, value, c.ttl)
}

// SetTTL stores value under key, expiring ttl from now. The entry is
// persisted immediately; a store failure leaves the in-memory entry in
// place and is returned to the caller.
func (c *Cache) SetTTL(key string, value []byte, ttl time.Duration) error {
	if c.disabled {
		return nil
	}
	if ttl <= 0 {
		ttl = c.ttl
	}

	now := c.now()
	e := Entry{
		Value:     value,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = e
	return c.store.Put(key, e)
}

// Has reports whether key holds an unexpired entry.
func (c *Cache) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Delete removes key from memory and the store.
func (c *Cache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	return c.store.Delete(key)
}

// Clear removes every entry.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]Entry)
	return c.store.Clear()
}

// Len returns the number of unexpired entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	n := 0
	for _, e := range c.entries {
		if !e.Expired(now) {
			n++
		}
	}
	return n
}

// Keys returns the keys of all unexpired entries, in no particular order.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	keys := make([]string, 0, len(c.entries))
	for key, e := range c.entries {
		if !e.Expired(now) {
			keys = append(keys, key)
		}
	}
	return keys
}

// Close releases the underlying store.
func (c *Cache) Close() error {
	return c.store.Close()
}
