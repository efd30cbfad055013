// Package index implements an in-memory extendible hash table used as the
// page table of the buffer pool.
package index

import (
	"fmt"
	"log/slog"
	"sync"

	util "github.com/bietkhonhungvandi212/lruk-exhash/internal/utils"
)

// ExtendibleHashTable maps keys to values through a directory of 2^globalDepth
// slots. Each slot holds the index of a bucket in the buckets arena; several
// slots may share one bucket while its local depth is below the global depth.
// The directory only grows: buckets are never merged.
type ExtendibleHashTable[K comparable, V any] struct {
	mu          sync.Mutex
	dir         []int           // slot -> bucket index
	buckets     []*bucket[K, V] // bucket arena, append only
	globalDepth int
	bucketSize  int
	maxDepth    int
	size        int
	hash        Hasher[K]
	logger      *slog.Logger
	counters    tableCounters
}

// NewExtendibleHashTable creates a table with a single empty bucket at depth 0.
// It panics if bucketSize is not positive.
func NewExtendibleHashTable[K comparable, V any](bucketSize int, opts ...Option[K]) *ExtendibleHashTable[K, V] {
	if bucketSize <= 0 {
		panic(util.ErrInvalidBucketSize)
	}

	cfg := tableConfig[K]{
		logger:   slog.New(slog.DiscardHandler),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.hasher == nil {
		cfg.hasher = DefaultHasher[K]()
	}

	return &ExtendibleHashTable[K, V]{
		dir:        []int{0},
		buckets:    []*bucket[K, V]{newBucket[K, V](bucketSize, 0)},
		bucketSize: bucketSize,
		maxDepth:   cfg.maxDepth,
		hash:       cfg.hasher,
		logger:     cfg.logger,
	}
}

func (t *ExtendibleHashTable[K, V]) indexOf(key K) int {
	return int(util.LowBits(t.hash(key), t.globalDepth))
}

// Find returns the value stored for key.
func (t *ExtendibleHashTable[K, V]) Find(key K) (V, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.buckets[t.dir[t.indexOf(key)]].find(key)
}

// Insert stores value under key, overwriting an existing value. A full target
// bucket is split, doubling the directory first when its local depth equals
// the global depth, until the pair fits.
func (t *ExtendibleHashTable[K, V]) Insert(key K, value V) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.counters.inserts++
	for {
		bucketIdx := t.dir[t.indexOf(key)]
		b := t.buckets[bucketIdx]

		if i := b.indexOf(key); i >= 0 {
			b.items[i].value = value
			t.counters.overwrites++
			return
		}

		if !b.isFull(t.bucketSize) {
			b.append(key, value)
			t.size++
			return
		}

		if b.depth >= t.maxDepth || t.inseparable(b, key) {
			b.append(key, value)
			b.overflowed = true
			t.size++
			t.counters.overflows++
			t.logger.Warn("bucket overflow",
				slog.Int("bucket", bucketIdx),
				slog.Int("local_depth", b.depth),
				slog.Int("items", len(b.items)))
			return
		}

		if b.depth == t.globalDepth {
			t.expandDirectory()
		}
		t.splitBucket(bucketIdx)
	}
}

// Remove deletes key and reports whether it was present.
func (t *ExtendibleHashTable[K, V]) Remove(key K) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.buckets[t.dir[t.indexOf(key)]].remove(key) {
		return false
	}
	t.size--
	t.counters.removals++
	return true
}

func (t *ExtendibleHashTable[K, V]) GetGlobalDepth() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.globalDepth
}

// GetLocalDepth returns the local depth of the bucket behind slot, or -1 if
// slot is outside the directory.
func (t *ExtendibleHashTable[K, V]) GetLocalDepth(slot int) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if slot < 0 || slot >= len(t.dir) {
		return -1
	}
	return t.buckets[t.dir[slot]].depth
}

func (t *ExtendibleHashTable[K, V]) GetNumBuckets() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.buckets)
}

// Len returns the number of stored pairs.
func (t *ExtendibleHashTable[K, V]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.size
}

// Range calls fn for every pair until fn returns false. fn must not call
// back into the table.
func (t *ExtendibleHashTable[K, V]) Range(fn func(K, V) bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, b := range t.buckets {
		for _, e := range b.items {
			if !fn(e.key, e.value) {
				return
			}
		}
	}
}

// ===================== HELPER FUNCTION =====================

// expandDirectory doubles the directory; slot i+oldSize aliases slot i.
func (t *ExtendibleHashTable[K, V]) expandDirectory() {
	t.globalDepth++
	t.dir = append(t.dir, t.dir...)
	t.counters.doublings++

	t.logger.Debug("directory doubled",
		slog.Int("global_depth", t.globalDepth),
		slog.Int("slots", len(t.dir)))
}

// splitBucket raises the local depth of bucketIdx and moves every pair whose
// new significant bit is set into a fresh sibling. Only slots that pointed at
// bucketIdx and have that bit set are repointed.
func (t *ExtendibleHashTable[K, V]) splitBucket(bucketIdx int) {
	old := t.buckets[bucketIdx]
	old.depth++
	highBit := old.depth - 1

	sibling := newBucket[K, V](t.bucketSize, old.depth)
	t.buckets = append(t.buckets, sibling)
	siblingIdx := len(t.buckets) - 1

	kept := old.items[:0]
	for _, e := range old.items {
		if util.BitAt(t.indexOf(e.key), highBit) == 1 {
			sibling.items = append(sibling.items, e)
		} else {
			kept = append(kept, e)
		}
	}
	clear(old.items[len(kept):])
	old.items = kept
	old.overflowed = len(old.items) > t.bucketSize
	sibling.overflowed = len(sibling.items) > t.bucketSize

	for slot := range t.dir {
		if t.dir[slot] == bucketIdx && util.BitAt(slot, highBit) == 1 {
			t.dir[slot] = siblingIdx
		}
	}
	t.counters.splits++

	t.logger.Debug("bucket split",
		slog.Int("bucket", bucketIdx),
		slog.Int("sibling", siblingIdx),
		slog.Int("local_depth", old.depth),
		slog.Int("kept", len(old.items)),
		slog.Int("moved", len(sibling.items)))
}

// inseparable reports whether key and every pair in b share the full hash,
// in which case no number of splits can make room.
func (t *ExtendibleHashTable[K, V]) inseparable(b *bucket[K, V], key K) bool {
	h := t.hash(key)
	for _, e := range b.items {
		if t.hash(e.key) != h {
			return false
		}
	}
	return true
}

// checkInvariants verifies the directory/bucket relation. Callers hold no lock.
func (t *ExtendibleHashTable[K, V]) checkInvariants() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.dir) != 1<<t.globalDepth || !util.IsPowerOfTwo(len(t.dir)) {
		return fmt.Errorf("directory has %d slots at global depth %d", len(t.dir), t.globalDepth)
	}

	refs := make([]int, len(t.buckets))
	lowBits := make([]int, len(t.buckets))
	for slot, bucketIdx := range t.dir {
		b := t.buckets[bucketIdx]
		if b.depth > t.globalDepth {
			return fmt.Errorf("bucket %d local depth %d exceeds global depth %d", bucketIdx, b.depth, t.globalDepth)
		}
		low := int(util.LowBits(uint64(slot), b.depth))
		if refs[bucketIdx] == 0 {
			lowBits[bucketIdx] = low
		} else if lowBits[bucketIdx] != low {
			return fmt.Errorf("slot %d disagrees on low %d bits for bucket %d", slot, b.depth, bucketIdx)
		}
		refs[bucketIdx]++
	}

	total := 0
	for bucketIdx, b := range t.buckets {
		if want := 1 << (t.globalDepth - b.depth); refs[bucketIdx] != want {
			return fmt.Errorf("bucket %d referenced by %d slots, want %d", bucketIdx, refs[bucketIdx], want)
		}
		if len(b.items) > t.bucketSize && !b.overflowed {
			return fmt.Errorf("bucket %d holds %d pairs, capacity %d", bucketIdx, len(b.items), t.bucketSize)
		}
		for _, e := range b.items {
			if t.dir[t.indexOf(e.key)] != bucketIdx {
				return fmt.Errorf("key in bucket %d resolves to bucket %d", bucketIdx, t.dir[t.indexOf(e.key)])
			}
		}
		total += len(b.items)
	}
	if total != t.size {
		return fmt.Errorf("size %d but buckets hold %d pairs", t.size, total)
	}
	return nil
}
