package cmap

import (
	"hash/maphash"
	"sync"
)

// DefaultShards is used when New is called or an invalid count is given.
const DefaultShards = 16

// Map is a concurrent map keyed by strings.
type Map[K ~string, V any] struct {
	shards []*bucket[K, V]
	mask   uint64
	seed   maphash.Seed
}

type bucket[K ~string, V any] struct {
	mu    sync.RWMutex
	items map[K]V
}

// New returns a map with DefaultShards shards.
func New[K ~string, V any]() *Map[K, V] {
	return NewWithShards[K, V](DefaultShards)
}

// NewWithShards returns a map with n shards. DefaultShards is used instead
// when n is not a positive power of two.
func NewWithShards[K ~string, V any](n int) *Map[K, V] {
	if n <= 0 || n&(n-1) != 0 {
		n = DefaultShards
	}
	m := &Map[K, V]{
		shards: make([]*bucket[K, V], n),
		mask:   uint64(n - 1),
		seed:   maphash.MakeSeed(),
	}
	for i := range m.shards {
		m.shards[i] = &bucket[K, V]{items: make(map[K]V)}
	}
	return m
}

func (m *Map[K, V]) bucketFor(key K) *bucket[K, V] {
	return m.shards[maphash.String(m.seed, string(key))&m.mask]
}

// Shards reports the shard count.
func (m *Map[K, V]) Shards() int {
	return len(m.shards)
}

// Get returns the value stored under key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	b := m.bucketFor(key)
	b.mu.RLock()
	v, ok := b.items[key]
	b.mu.RUnlock()
	return v, ok
}

// Set stores value under key, replacing any previous value.
func (m *Map[K, V]) Set(key K, value V) {
	b := m.bucketFor(key)
	b.mu.Lock()
	b.items[key] = value
	b.mu.Unlock()
}

// SetIfAbsent stores value only when key is unused and reports whether it
// did. The check and the write happen under one lock.
func (m *Map[K, V]) SetIfAbsent(key K, value V) bool {
	b := m.bucketFor(key)
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.items[key]; ok {
		return false
	}
	b.items[key] = value
	return true
}

// Delete removes key. Missing keys are ignored.
func (m *Map[K, V]) Delete(key K) {
	b := m.bucketFor(key)
	b.mu.Lock()
	delete(b.items, key)
	b.mu.Unlock()
}

// Count returns the number of entries across all shards.
func (m *Map[K, V]) Count() int {
	n := 0
	for _, b := range m.shards {
		b.mu.RLock()
		n += len(b.items)
		b.mu.RUnlock()
	}
	return n
}

// Range calls fn for each entry until fn returns false. Each shard is read
// locked while it is visited, so fn must not write to the map.
func (m *Map[K, V]) Range(fn func(key K, value V) bool) {
	for _, b := range m.shards {
		b.mu.RLock()
		for k, v := range b.items {
			if !fn(k, v) {
				b.mu.RUnlock()
				return
			}
		}
		b.mu.RUnlock()
	}
}
