package index

import "hash/maphash"

// Hasher maps a key to a 64-bit hash. Only the low bits are used for
// directory resolution, so they should be well distributed.
type Hasher[K comparable] func(K) uint64

// DefaultHasher returns a maphash based hasher with its own random seed.
func DefaultHasher[K comparable]() Hasher[K] {
	seed := maphash.MakeSeed()
	return func(key K) uint64 {
		return maphash.Comparable(seed, key)
	}
}
