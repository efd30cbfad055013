package index

import "log/slog"

type tableCounters struct {
	inserts    uint64
	overwrites uint64
	removals   uint64
	doublings  uint64
	splits     uint64
	overflows  uint64
}

// TableStats is a point-in-time snapshot of an ExtendibleHashTable.
type TableStats struct {
	GlobalDepth int
	NumBuckets  int
	Slots       int
	Len         int
	Inserts     uint64
	Overwrites  uint64
	Removals    uint64
	Doublings   uint64
	Splits      uint64
	Overflows   uint64
}

// Stats returns a snapshot taken under the table lock.
func (t *ExtendibleHashTable[K, V]) Stats() TableStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	return TableStats{
		GlobalDepth: t.globalDepth,
		NumBuckets:  len(t.buckets),
		Slots:       len(t.dir),
		Len:         t.size,
		Inserts:     t.counters.inserts,
		Overwrites:  t.counters.overwrites,
		Removals:    t.counters.removals,
		Doublings:   t.counters.doublings,
		Splits:      t.counters.splits,
		Overflows:   t.counters.overflows,
	}
}

// LoadFactor is pairs per bucket slot of capacity.
func (s TableStats) LoadFactor(bucketSize int) float64 {
	if s.NumBuckets == 0 || bucketSize <= 0 {
		return 0
	}
	return float64(s.Len) / float64(s.NumBuckets*bucketSize)
}

// LogStats logs the snapshot using structured logging
func (s TableStats) LogStats(logger *slog.Logger, bucketSize int) {
	logger.Info("Extendible Hash Table Stats",
		slog.Group("directory",
			slog.Int("global_depth", s.GlobalDepth),
			slog.Int("slots", s.Slots),
			slog.Int("buckets", s.NumBuckets),
			slog.Float64("load_factor", s.LoadFactor(bucketSize)),
		),
		slog.Group("ops",
			slog.Int("len", s.Len),
			slog.Uint64("inserts", s.Inserts),
			slog.Uint64("overwrites", s.Overwrites),
			slog.Uint64("removals", s.Removals),
		),
		slog.Group("growth",
			slog.Uint64("doublings", s.Doublings),
			slog.Uint64("splits", s.Splits),
			slog.Uint64("overflows", s.Overflows),
		),
	)
}
