package buffer

import "log/slog"

type replacerCounters struct {
	accesses   uint64
	evictions  uint64
	removals   uint64
	promotions uint64
}

// ReplacerStats is a point-in-time snapshot of an LRUKReplacer.
type ReplacerStats struct {
	K          int
	NumFrames  int
	Tracked    int // records in either queue
	Evictable  int
	HistoryLen int
	CacheLen   int
	Accesses   uint64
	Evictions  uint64
	Removals   uint64
	Promotions uint64 // history -> cache moves
}

func (r *LRUKReplacer) Stats() ReplacerStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	return ReplacerStats{
		K:          r.k,
		NumFrames:  r.numFrames,
		Tracked:    len(r.frameToIdx),
		Evictable:  r.curSize,
		HistoryLen: r.history.length,
		CacheLen:   r.cache.length,
		Accesses:   r.counters.accesses,
		Evictions:  r.counters.evictions,
		Removals:   r.counters.removals,
		Promotions: r.counters.promotions,
	}
}

// LogStats logs the snapshot using structured logging
func (s ReplacerStats) LogStats(logger *slog.Logger) {
	logger.Info("LRU-K Replacer Stats",
		slog.Int("k", s.K),
		slog.Int("num_frames", s.NumFrames),
		slog.Group("queues",
			slog.Int("tracked", s.Tracked),
			slog.Int("evictable", s.Evictable),
			slog.Int("history", s.HistoryLen),
			slog.Int("cache", s.CacheLen),
		),
		slog.Group("ops",
			slog.Uint64("accesses", s.Accesses),
			slog.Uint64("evictions", s.Evictions),
			slog.Uint64("removals", s.Removals),
			slog.Uint64("promotions", s.Promotions),
		),
	)
}
