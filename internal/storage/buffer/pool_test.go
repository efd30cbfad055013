package buffer

import (
	"errors"
	"testing"

	util "github.com/bietkhonhungvandi212/lruk-exhash/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPool(t *testing.T, size, k int) (*BufferPool, *LRUKReplacer) {
	t.Helper()
	logger := util.NewTestLogger(t)
	replacer := NewLRUKReplacer(size, k, WithLogger(logger))
	return NewBufferPool(size, replacer, 2, WithLogger(logger)), replacer
}

func TestNewBufferPool(t *testing.T) {
	t.Run("ValidSize", func(t *testing.T) {
		size := 100
		bp, replacer := newTestPool(t, size, 2)

		assert.Equal(t, size, bp.Size(), "pool size")
		assert.Equal(t, size, len(bp.pinCounts), "pinCounts length")
		assert.Equal(t, size, len(bp.nextFree), "nextFree length")
		assert.Equal(t, 0, bp.freeHead, "freeHead")
		assert.Equal(t, 0, bp.Resident(), "page table empty")
		assert.Equal(t, 0, replacer.Size(), "replacer empty")

		// Free list: 0→1→...→size-1→-1
		idx := bp.freeHead
		for i := 0; i < size; i++ {
			assert.Equal(t, i, idx, "free list at %d", i)
			idx = bp.nextFree[idx]
		}
		assert.Equal(t, -1, idx, "free list end")
	})

	t.Run("ZeroSize", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Fatal("expected panic for size=0")
			}
		}()
		NewBufferPool(0, nil, 2)
		t.Fatal("expected panic for size=0")
	})
}

func TestFetchPage(t *testing.T) {
	t.Run("FreeFrames", func(t *testing.T) {
		bp, replacer := newTestPool(t, 3, 2)
		for i := 0; i < 3; i++ {
			frameID, err := bp.FetchPage(util.PageID(i + 10))
			require.NoError(t, err, "fetch page %d", i+10)
			assert.Equal(t, util.FrameID(i), frameID, "frames handed out in order")
		}
		assert.Equal(t, -1, bp.freeHead, "free list drained")
		assert.Equal(t, 3, bp.Resident())
		assert.Equal(t, 0, replacer.Size(), "pinned frames are not evictable")
	})

	t.Run("CacheHit", func(t *testing.T) {
		bp, _ := newTestPool(t, 3, 2)
		first, err := bp.FetchPage(7)
		require.NoError(t, err)
		second, err := bp.FetchPage(7)
		require.NoError(t, err)

		assert.Equal(t, first, second, "same frame on hit")
		pins, ok := bp.PinCount(7)
		assert.True(t, ok)
		assert.Equal(t, int32(2), pins)
	})

	t.Run("EvictionRequired", func(t *testing.T) {
		bp, _ := newTestPool(t, 3, 2)
		for i := util.PageID(0); i < 3; i++ {
			_, err := bp.FetchPage(i)
			require.NoError(t, err)
			require.NoError(t, bp.UnpinPage(i))
		}

		frameID, err := bp.FetchPage(3)
		require.NoError(t, err)
		assert.Equal(t, util.FrameID(0), frameID, "page 0 was least recently used")

		_, resident := bp.PinCount(0)
		assert.False(t, resident, "page 0 evicted")
		_, resident = bp.PinCount(3)
		assert.True(t, resident, "page 3 resident")
	})

	t.Run("KDistancePreference", func(t *testing.T) {
		bp, _ := newTestPool(t, 3, 2)
		for _, p := range []util.PageID{0, 0, 1, 2} {
			_, err := bp.FetchPage(p)
			require.NoError(t, err)
			require.NoError(t, bp.UnpinPage(p))
		}

		_, err := bp.FetchPage(3)
		require.NoError(t, err)

		_, resident := bp.PinCount(0)
		assert.True(t, resident, "page 0 has k accesses and survives")
		_, resident = bp.PinCount(1)
		assert.False(t, resident, "page 1 is the oldest single-access page")
	})

	t.Run("AllPinned", func(t *testing.T) {
		bp, _ := newTestPool(t, 2, 2)
		for i := util.PageID(0); i < 2; i++ {
			_, err := bp.FetchPage(i)
			require.NoError(t, err)
		}

		frameID, err := bp.FetchPage(9)
		require.Error(t, err)
		assert.Equal(t, util.InvalidFrameID, frameID)
		assert.True(t, errors.Is(err, util.ErrNoFreeFrame))
		assert.True(t, util.IsErrorType(err, util.ErrTypeResourceExhausted))
		_, resident := bp.PinCount(9)
		assert.False(t, resident, "failed fetch maps nothing")
	})
}

func TestUnpinPage(t *testing.T) {
	bp, replacer := newTestPool(t, 2, 2)

	t.Run("UnknownPage", func(t *testing.T) {
		err := bp.UnpinPage(42)
		assert.ErrorIs(t, err, util.ErrPageNotFound)
		assert.True(t, util.IsErrorType(err, util.ErrTypeNotFound))
	})

	t.Run("PinCountDropsToZero", func(t *testing.T) {
		_, err := bp.FetchPage(1)
		require.NoError(t, err)
		_, err = bp.FetchPage(1)
		require.NoError(t, err)

		require.NoError(t, bp.UnpinPage(1))
		assert.Equal(t, 0, replacer.Size(), "still pinned once")
		require.NoError(t, bp.UnpinPage(1))
		assert.Equal(t, 1, replacer.Size(), "evictable at zero")
	})

	t.Run("NotPinned", func(t *testing.T) {
		err := bp.UnpinPage(1)
		assert.ErrorIs(t, err, util.ErrPageNotPinned)
		assert.True(t, util.IsErrorType(err, util.ErrTypeInvalidState))
	})
}

func TestDeletePage(t *testing.T) {
	t.Run("NotResident", func(t *testing.T) {
		bp, _ := newTestPool(t, 2, 2)
		assert.NoError(t, bp.DeletePage(5))
	})

	t.Run("Pinned", func(t *testing.T) {
		bp, _ := newTestPool(t, 2, 2)
		_, err := bp.FetchPage(5)
		require.NoError(t, err)

		err = bp.DeletePage(5)
		assert.ErrorIs(t, err, util.ErrPagePinned)
		_, resident := bp.PinCount(5)
		assert.True(t, resident, "pinned page stays")
	})

	t.Run("FrameReused", func(t *testing.T) {
		bp, replacer := newTestPool(t, 2, 2)
		frameID, err := bp.FetchPage(5)
		require.NoError(t, err)
		require.NoError(t, bp.UnpinPage(5))

		require.NoError(t, bp.DeletePage(5))
		assert.Equal(t, 0, replacer.Size(), "replacer forgot the frame")
		assert.Equal(t, 0, bp.Resident())
		assert.Equal(t, int(frameID), bp.freeHead, "frame back on free list")

		again, err := bp.FetchPage(6)
		require.NoError(t, err)
		assert.Equal(t, frameID, again, "freed frame reused")
		pins, _ := bp.PinCount(6)
		assert.Equal(t, int32(1), pins, "pin count reset")
	})
}

func TestPoolPageTableGrowth(t *testing.T) {
	bp, _ := newTestPool(t, 64, 2)
	for i := util.PageID(0); i < 64; i++ {
		_, err := bp.FetchPage(i)
		require.NoError(t, err)
	}
	stats := bp.PageTableStats()
	assert.Equal(t, 64, stats.Len)
	assert.Greater(t, stats.GlobalDepth, 0, "bucket size 2 forces splits")
	assert.Equal(t, stats.Splits, uint64(stats.NumBuckets-1))
}
