package buffer

import util "github.com/bietkhonhungvandi212/lruk-exhash/internal/utils"

// Replacer defines the contract for frame replacement policies.
type Replacer interface {
	// RecordAccess registers one access to frameID at the current time.
	RecordAccess(frameID util.FrameID)
	// Evict picks a victim among evictable frames and forgets it.
	// Returns false when no frame is evictable.
	Evict() (util.FrameID, bool)
	// SetEvictable toggles whether frameID may be chosen by Evict.
	SetEvictable(frameID util.FrameID, evictable bool) error
	// Remove forgets frameID regardless of its access history.
	Remove(frameID util.FrameID) error
	// Size returns the number of evictable frames.
	Size() int
}
