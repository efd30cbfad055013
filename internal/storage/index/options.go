package index

import "log/slog"

// DefaultMaxDepth bounds the directory at 2^24 slots.
const DefaultMaxDepth = 24

type tableConfig[K comparable] struct {
	hasher   Hasher[K]
	logger   *slog.Logger
	maxDepth int
}

type Option[K comparable] func(*tableConfig[K])

// WithHasher replaces the default maphash hasher.
func WithHasher[K comparable](h Hasher[K]) Option[K] {
	return func(c *tableConfig[K]) {
		if h != nil {
			c.hasher = h
		}
	}
}

func WithLogger[K comparable](logger *slog.Logger) Option[K] {
	return func(c *tableConfig[K]) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMaxDepth caps the local depth a bucket may reach. A full bucket at the
// cap grows past bucketSize instead of splitting.
func WithMaxDepth[K comparable](depth int) Option[K] {
	return func(c *tableConfig[K]) {
		if depth > 0 && depth <= 63 {
			c.maxDepth = depth
		}
	}
}
