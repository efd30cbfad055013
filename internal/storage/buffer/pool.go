package buffer

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/bietkhonhungvandi212/lruk-exhash/internal/storage/index"
	util "github.com/bietkhonhungvandi212/lruk-exhash/internal/utils"
)

// BufferPool tracks which page occupies which frame. It owns no page bytes:
// callers do the I/O, the pool decides placement and pinning.
type BufferPool struct {
	mu         sync.Mutex
	pageTable  *index.ExtendibleHashTable[util.PageID, util.FrameID]
	replacer   Replacer
	framePages []util.PageID // Page held by each frame
	pinCounts  []int32
	nextFree   []int // Free list for allocation
	freeHead   int   // Head of free list
	poolSize   int   // Total frames
	logger     *slog.Logger
}

// NewBufferPool creates a pool of size frames using replacer for eviction and
// a page table with the given bucket size.
func NewBufferPool(size int, replacer Replacer, bucketSize int, opts ...Option) *BufferPool {
	if size <= 0 {
		panic(util.ErrInvalidPoolSize)
	}
	cfg := newConfig(opts)

	bp := BufferPool{
		pageTable:  index.NewExtendibleHashTable[util.PageID, util.FrameID](bucketSize, index.WithLogger[util.PageID](cfg.logger)),
		replacer:   replacer,
		framePages: make([]util.PageID, size),
		pinCounts:  make([]int32, size),
		nextFree:   make([]int, size),
		freeHead:   0,
		poolSize:   size,
		logger:     cfg.logger,
	}

	for i := range size {
		bp.nextFree[i] = i + 1
	}
	bp.nextFree[size-1] = -1

	return &bp
}

// FetchPage pins pageID into a frame and returns it. On a miss the page takes
// a free frame or the replacer's victim; the caller loads the bytes.
func (bp *BufferPool) FetchPage(pageID util.PageID) (util.FrameID, error) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if frameID, exists := bp.pageTable.Find(pageID); exists {
		bp.pinCounts[frameID]++
		if err := bp.touch(frameID); err != nil {
			return util.InvalidFrameID, err
		}
		return frameID, nil
	}

	frameID, err := bp.requestFree()
	if err != nil {
		return util.InvalidFrameID, fmt.Errorf("[pool] [FetchPage] page %d: %w", pageID, err)
	}

	bp.framePages[frameID] = pageID
	bp.pinCounts[frameID] = 1
	bp.pageTable.Insert(pageID, frameID)
	if err := bp.touch(frameID); err != nil {
		return util.InvalidFrameID, err
	}
	return frameID, nil
}

// UnpinPage drops one pin; the frame becomes evictable at zero.
func (bp *BufferPool) UnpinPage(pageID util.PageID) error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	frameID, exists := bp.pageTable.Find(pageID)
	if !exists {
		return util.NewDatabaseError(util.ErrTypeNotFound,
			fmt.Sprintf("[pool] [UnpinPage] page %d", pageID), util.ErrPageNotFound)
	}
	if bp.pinCounts[frameID] <= 0 {
		return util.NewDatabaseError(util.ErrTypeInvalidState,
			fmt.Sprintf("[pool] [UnpinPage] page %d", pageID), util.ErrPageNotPinned)
	}

	bp.pinCounts[frameID]--
	if bp.pinCounts[frameID] == 0 {
		return bp.replacer.SetEvictable(frameID, true)
	}
	return nil
}

// DeletePage releases the frame of an unpinned page. Deleting a page that is
// not resident is a no-op.
func (bp *BufferPool) DeletePage(pageID util.PageID) error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	frameID, exists := bp.pageTable.Find(pageID)
	if !exists {
		return nil
	}
	if bp.pinCounts[frameID] > 0 {
		return util.NewDatabaseError(util.ErrTypeInvalidState,
			fmt.Sprintf("[pool] [DeletePage] page %d", pageID), util.ErrPagePinned).
			WithContext("pin_count", bp.pinCounts[frameID])
	}

	if err := bp.replacer.Remove(frameID); err != nil {
		return fmt.Errorf("[pool] [DeletePage] page %d: %w", pageID, err)
	}
	bp.pageTable.Remove(pageID)
	bp.returnFrameToFree(int(frameID))
	return nil
}

// PinCount returns the pin count of a resident page.
func (bp *BufferPool) PinCount(pageID util.PageID) (int32, bool) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	frameID, exists := bp.pageTable.Find(pageID)
	if !exists {
		return 0, false
	}
	return bp.pinCounts[frameID], true
}

// Size returns the number of frames.
func (bp *BufferPool) Size() int {
	return bp.poolSize
}

// Resident returns the number of pages currently mapped to frames.
func (bp *BufferPool) Resident() int {
	return bp.pageTable.Len()
}

func (bp *BufferPool) PageTableStats() index.TableStats {
	return bp.pageTable.Stats()
}

// ===================== HELPER FUNCTION =====================

// touch records an access and pins the frame in the replacer.
func (bp *BufferPool) touch(frameID util.FrameID) error {
	bp.replacer.RecordAccess(frameID)
	if err := bp.replacer.SetEvictable(frameID, false); err != nil {
		return fmt.Errorf("[pool] [touch] frame %d: %w", frameID, err)
	}
	return nil
}

// requestFree takes a frame from the free list, or evicts one.
func (bp *BufferPool) requestFree() (util.FrameID, error) {
	if freeIdx := bp.allocFromFree(); freeIdx != -1 {
		return util.FrameID(freeIdx), nil
	}

	victim, ok := bp.replacer.Evict()
	if !ok {
		return util.InvalidFrameID, util.NewDatabaseError(util.ErrTypeResourceExhausted,
			"every frame is pinned", util.ErrNoFreeFrame)
	}
	evicted := bp.framePages[victim]
	bp.pageTable.Remove(evicted)

	bp.logger.Debug("page evicted",
		slog.Uint64("page_id", uint64(evicted)),
		slog.Int("frame_id", int(victim)))
	return victim, nil
}

func (bp *BufferPool) allocFromFree() int {
	if bp.freeHead == -1 {
		return -1
	}

	freeIdx := bp.freeHead
	bp.freeHead = bp.nextFree[freeIdx]
	bp.nextFree[freeIdx] = -1

	return freeIdx
}

func (bp *BufferPool) returnFrameToFree(frameIdx int) {
	bp.pinCounts[frameIdx] = 0
	bp.nextFree[frameIdx] = bp.freeHead
	bp.freeHead = frameIdx
}
