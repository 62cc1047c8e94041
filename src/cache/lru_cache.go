package cache

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// Entry holds a cached response with its expiration. Values are plain
// strings so a dump/restore cycle returns exactly what was stored.
type Entry struct {
	Value     string
	ExpiresAt time.Time
}

// LRUCache is a thread-safe LRU response cache with TTL support.
type LRUCache struct {
	mu       sync.RWMutex
	capacity int
	ttl      time.Duration
	items    map[string]*list.Element
	lru      *list.List
}

type node struct {
	key   string
	value Entry
}

// NewLRUCache creates a cache with the given capacity and TTL.
func NewLRUCache(capacity int, ttl time.Duration) *LRUCache {
	return &LRUCache{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*list.Element, capacity),
		lru:      list.New(),
	}
}

// Get retrieves a response, dropping it if its TTL has passed.
func (c *LRUCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return "", false
	}

	ent := elem.Value.(*node)
	if time.Now().After(ent.value.ExpiresAt) {
		c.lru.Remove(elem)
		delete(c.items, key)
		return "", false
	}

	c.lru.MoveToFront(elem)
	return ent.value.Value, true
}

// Set adds or refreshes a response.
func (c *LRUCache) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := time.Now().Add(c.ttl)

	if elem, ok := c.items[key]; ok {
		c.lru.MoveToFront(elem)
		elem.Value.(*node).value = Entry{Value: value, ExpiresAt: expiresAt}
		return
	}

	elem := c.lru.PushFront(&node{key: key, value: Entry{Value: value, ExpiresAt: expiresAt}})
	c.items[key] = elem

	if c.lru.Len() > c.capacity {
		oldest := c.lru.Back()
		if oldest != nil {
			c.lru.Remove(oldest)
			delete(c.items, oldest.Value.(*node).key)
		}
	}
}

// Len returns the number of live entries.
func (c *LRUCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lru.Len()
}

// HashKey derives a stable cache key from a prompt string.
func HashKey(prompt string) string {
	h := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(h[:])
}

// Dump snapshots the cache for persistence.
func (c *LRUCache) Dump() map[string]Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	dump := make(map[string]Entry, len(c.items))
	for k, elem := range c.items {
		dump[k] = elem.Value.(*node).value
	}
	return dump
}

// Restore repopulates the cache from a dump, skipping expired entries and
// enforcing capacity.
func (c *LRUCache) Restore(dump map[string]Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru.Init()
	c.items = make(map[string]*list.Element, c.capacity)

	for k, v := range dump {
		if time.Now().After(v.ExpiresAt) {
			continue
		}
		elem := c.lru.PushFront(&node{key: k, value: v})
		c.items[k] = elem
	}

	for c.lru.Len() > c.capacity {
		oldest := c.lru.Back()
		if oldest != nil {
			c.lru.Remove(oldest)
			delete(c.items, oldest.Value.(*node).key)
		}
	}
}
