package util

import "errors"

var (
	ErrInvalidPoolSize   = errors.New("invalid pool size")
	ErrInvalidK          = errors.New("k must be at least 1")
	ErrInvalidBucketSize = errors.New("bucket size must be positive")
	ErrInvalidLogLevel   = errors.New("invalid log level")
	ErrFrameNotFound     = errors.New("frame not found in replacer")
	ErrFrameNotEvictable = errors.New("frame is not evictable")
	ErrNoFreeFrame       = errors.New("no free frames")
	ErrPageNotFound      = errors.New("page not found")
	ErrPagePinned        = errors.New("page is pinned")
	ErrPageNotPinned     = errors.New("page is not pinned")
)
