package util

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Options represents database configuration options
type Options struct {
	NumFrames     int    // Frames managed by the buffer pool / replacer
	ReplacerK     int    // K of the LRU-K policy
	BucketSize    int    // Max pairs per hash bucket
	LogLevel      string // debug, info, warn, error
	WorkloadOps   int    // Synthetic accesses issued by the driver
	WorkloadPages int    // Distinct pages touched by the driver
	WorkloadSeed  int64
}

// DefaultOptions returns default database options
func DefaultOptions() Options {
	return Options{
		NumFrames:     64,
		ReplacerK:     2,
		BucketSize:    4,
		LogLevel:      "info",
		WorkloadOps:   10000,
		WorkloadPages: 256,
		WorkloadSeed:  1,
	}
}

// LoadOptionsFromEnv overlays ARRAYDB_* environment variables on the defaults.
// Unparsable values are ignored.
func LoadOptionsFromEnv() Options {
	opts := DefaultOptions()

	envInt := func(name string, dst *int) {
		if val := os.Getenv(name); val != "" {
			if n, err := strconv.Atoi(val); err == nil {
				*dst = n
			}
		}
	}

	envInt("ARRAYDB_NUM_FRAMES", &opts.NumFrames)
	envInt("ARRAYDB_REPLACER_K", &opts.ReplacerK)
	envInt("ARRAYDB_BUCKET_SIZE", &opts.BucketSize)
	envInt("ARRAYDB_WORKLOAD_OPS", &opts.WorkloadOps)
	envInt("ARRAYDB_WORKLOAD_PAGES", &opts.WorkloadPages)

	if val := os.Getenv("ARRAYDB_WORKLOAD_SEED"); val != "" {
		if seed, err := strconv.ParseInt(val, 10, 64); err == nil {
			opts.WorkloadSeed = seed
		}
	}

	if val := os.Getenv("ARRAYDB_LOG_LEVEL"); val != "" {
		opts.LogLevel = strings.ToLower(val)
	}

	return opts
}

// Validate validates the options
func (o Options) Validate() error {
	if o.NumFrames <= 0 {
		return fmt.Errorf("num frames %d: %w", o.NumFrames, ErrInvalidPoolSize)
	}
	if o.ReplacerK < 1 {
		return fmt.Errorf("replacer k %d: %w", o.ReplacerK, ErrInvalidK)
	}
	if o.BucketSize <= 0 {
		return fmt.Errorf("bucket size %d: %w", o.BucketSize, ErrInvalidBucketSize)
	}
	if o.WorkloadOps < 0 || o.WorkloadPages <= 0 {
		return fmt.Errorf("workload must touch at least one page (ops=%d, pages=%d)", o.WorkloadOps, o.WorkloadPages)
	}
	if _, err := o.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel maps LogLevel to a slog level.
func (o Options) SlogLevel() (slog.Level, error) {
	switch o.LogLevel {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("%w: %s (must be debug, info, warn, or error)", ErrInvalidLogLevel, o.LogLevel)
}
