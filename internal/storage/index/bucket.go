package index

import "slices"

type entry[K comparable, V any] struct {
	key   K
	value V
}

// bucket keeps pairs in insertion order. depth is the local depth.
type bucket[K comparable, V any] struct {
	items      []entry[K, V]
	depth      int
	overflowed bool // holds more than bucketSize pairs that no split can separate
}

func newBucket[K comparable, V any](capacity int, depth int) *bucket[K, V] {
	return &bucket[K, V]{
		items: make([]entry[K, V], 0, capacity),
		depth: depth,
	}
}

func (b *bucket[K, V]) indexOf(key K) int {
	for i := range b.items {
		if b.items[i].key == key {
			return i
		}
	}
	return -1
}

func (b *bucket[K, V]) find(key K) (V, bool) {
	if i := b.indexOf(key); i >= 0 {
		return b.items[i].value, true
	}
	var zero V
	return zero, false
}

func (b *bucket[K, V]) remove(key K) bool {
	i := b.indexOf(key)
	if i < 0 {
		return false
	}
	b.items = slices.Delete(b.items, i, i+1)
	return true
}

func (b *bucket[K, V]) isFull(capacity int) bool {
	return len(b.items) >= capacity
}

func (b *bucket[K, V]) append(key K, value V) {
	b.items = append(b.items, entry[K, V]{key: key, value: value})
}
