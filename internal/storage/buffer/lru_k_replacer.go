package buffer

import (
	"fmt"
	"log/slog"
	"sync"

	util "github.com/bietkhonhungvandi212/lruk-exhash/internal/utils"
)

// LRUKReplacer evicts the frame with the largest backward k-distance.
//
// Frames with fewer than k accesses live in the history queue and have an
// infinite k-distance, so they are always preferred over frames in the cache
// queue. Inside each queue the least recently accessed frame goes first.
// All methods are safe for concurrent use.
type LRUKReplacer struct {
	mu         sync.Mutex
	arena      *recordArena
	frameToIdx map[util.FrameID]int // Map FrameID to arena slot
	history    frameList
	cache      frameList
	k          int
	numFrames  int
	curSize    int // evictable records
	counters   replacerCounters
	logger     *slog.Logger
}

var _ Replacer = (*LRUKReplacer)(nil)

// NewLRUKReplacer creates a replacer sized for numFrames frames.
// It panics if numFrames is not positive or k is below 1.
func NewLRUKReplacer(numFrames int, k int, opts ...Option) *LRUKReplacer {
	if numFrames <= 0 {
		panic(util.ErrInvalidPoolSize)
	}
	if k < 1 {
		panic(util.ErrInvalidK)
	}
	cfg := newConfig(opts)

	return &LRUKReplacer{
		arena:      newRecordArena(numFrames),
		frameToIdx: make(map[util.FrameID]int, numFrames),
		history:    newFrameList(),
		cache:      newFrameList(),
		k:          k,
		numFrames:  numFrames,
		logger:     cfg.logger,
	}
}

func (r *LRUKReplacer) RecordAccess(frameID util.FrameID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.counters.accesses++
	if idx, exists := r.frameToIdx[frameID]; exists {
		rec := &r.arena.records[idx]
		rec.count++
		r.queueOf(rec.queue).removeByIndex(r.arena, idx)
		r.enqueue(idx)
		return
	}

	idx := r.arena.allocFromFree()
	r.arena.records[idx] = frameRecord{
		frameID: frameID,
		count:   1,
		queue:   historyQueue,
		prevIdx: -1,
		nextIdx: -1,
	}
	r.frameToIdx[frameID] = idx
	r.enqueue(idx)
}

func (r *LRUKReplacer) Evict() (util.FrameID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.history.firstEvictable(r.arena)
	if idx == -1 {
		idx = r.cache.firstEvictable(r.arena)
	}
	if idx == -1 {
		return util.InvalidFrameID, false
	}

	rec := r.arena.records[idx]
	r.drop(idx)
	r.counters.evictions++

	r.logger.Debug("frame evicted",
		slog.Int("frame_id", int(rec.frameID)),
		slog.String("queue", rec.queue.String()),
		slog.Int("accesses", rec.count))
	return rec.frameID, true
}

// SetEvictable returns an ErrTypeInvalidArgument error wrapping
// util.ErrFrameNotFound when frameID was never accessed.
func (r *LRUKReplacer) SetEvictable(frameID util.FrameID, evictable bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, exists := r.frameToIdx[frameID]
	if !exists {
		return util.NewDatabaseError(util.ErrTypeInvalidArgument,
			fmt.Sprintf("[LRUK] [SetEvictable] frame %d", frameID), util.ErrFrameNotFound).
			WithContext("frame_id", frameID)
	}

	rec := &r.arena.records[idx]
	switch {
	case !rec.evictable && evictable:
		rec.evictable = true
		r.curSize++
	case rec.evictable && !evictable:
		rec.evictable = false
		r.curSize--
	}
	return nil
}

// Remove forgets frameID. Unknown frames are ignored; a known frame that is
// not evictable yields an ErrTypeInvalidState error wrapping
// util.ErrFrameNotEvictable.
func (r *LRUKReplacer) Remove(frameID util.FrameID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, exists := r.frameToIdx[frameID]
	if !exists {
		return nil
	}
	if !r.arena.records[idx].evictable {
		return util.NewDatabaseError(util.ErrTypeInvalidState,
			fmt.Sprintf("[LRUK] [Remove] frame %d", frameID), util.ErrFrameNotEvictable).
			WithContext("frame_id", frameID)
	}

	r.drop(idx)
	r.counters.removals++
	return nil
}

func (r *LRUKReplacer) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.curSize
}

// K returns the k of the policy.
func (r *LRUKReplacer) K() int {
	return r.k
}

// ===================== HELPER FUNCTION =====================

func (r *LRUKReplacer) queueOf(q queueKind) *frameList {
	if q == cacheQueue {
		return &r.cache
	}
	return &r.history
}

// enqueue appends slot idx at the most recent end of the queue its access
// count belongs to. Promotion to the cache queue is one way.
func (r *LRUKReplacer) enqueue(idx int) {
	rec := &r.arena.records[idx]
	if rec.count >= r.k {
		if rec.queue == historyQueue && rec.count > 1 {
			r.counters.promotions++
		}
		rec.queue = cacheQueue
	} else {
		rec.queue = historyQueue
	}
	r.queueOf(rec.queue).addToTail(r.arena, idx)
}

// drop unlinks an evictable record and releases its slot.
func (r *LRUKReplacer) drop(idx int) {
	rec := r.arena.records[idx]
	r.queueOf(rec.queue).removeByIndex(r.arena, idx)
	delete(r.frameToIdx, rec.frameID)
	r.arena.returnFrameToFree(idx)
	r.curSize--
}
