package buffer

import (
	"fmt"

	util "github.com/bietkhonhungvandi212/lruk-exhash/internal/utils"
)

type queueKind uint8

const (
	historyQueue queueKind = iota // fewer than k accesses
	cacheQueue                    // at least k accesses
)

func (q queueKind) String() string {
	if q == cacheQueue {
		return "cache"
	}
	return "history"
}

// frameRecord is the access history of one frame. prevIdx/nextIdx are arena
// slots, -1 marks the end of a queue.
type frameRecord struct {
	frameID   util.FrameID
	count     int
	evictable bool
	queue     queueKind
	prevIdx   int
	nextIdx   int
}

// recordArena stores frame records addressed by slot index and recycles
// slots through a free list.
type recordArena struct {
	records  []frameRecord
	nextFree []int // Free list for allocation
	freeHead int   // Head of free list
}

func newRecordArena(size int) *recordArena {
	if size <= 0 {
		panic(util.ErrInvalidPoolSize)
	}
	a := &recordArena{
		records:  make([]frameRecord, size),
		nextFree: make([]int, size),
		freeHead: 0,
	}
	for i := 0; i < size; i++ {
		a.nextFree[i] = i + 1
		a.records[i] = frameRecord{prevIdx: -1, nextIdx: -1}
	}
	a.nextFree[size-1] = -1
	return a
}

// allocFromFree hands out a free slot, growing the arena when none is left.
func (a *recordArena) allocFromFree() int {
	if a.freeHead == -1 {
		a.records = append(a.records, frameRecord{prevIdx: -1, nextIdx: -1})
		a.nextFree = append(a.nextFree, -1)
		return len(a.records) - 1
	}
	freeIdx := a.freeHead
	a.freeHead = a.nextFree[freeIdx]
	a.nextFree[freeIdx] = -1
	return freeIdx
}

// returnFrameToFree clears slot idx and returns it to the free list.
func (a *recordArena) returnFrameToFree(idx int) {
	a.records[idx] = frameRecord{prevIdx: -1, nextIdx: -1}
	a.nextFree[idx] = a.freeHead
	a.freeHead = idx
}

// frameList is a doubly linked queue threaded through the arena.
// head is the oldest access, tail the most recent.
type frameList struct {
	head   int
	tail   int
	length int
}

func newFrameList() frameList {
	return frameList{head: -1, tail: -1}
}

func (l *frameList) addToTail(a *recordArena, idx int) {
	if idx >= len(a.records) || idx < 0 {
		panic(fmt.Sprintf("[replacer] [addToTail] record index out of bound: %d", idx))
	}

	node := &a.records[idx]
	node.prevIdx = l.tail
	node.nextIdx = -1
	if l.tail != -1 {
		a.records[l.tail].nextIdx = idx
	}
	l.tail = idx
	if l.head == -1 {
		l.head = idx
	}
	l.length++
}

func (l *frameList) removeByIndex(a *recordArena, idx int) {
	if idx >= len(a.records) || idx < 0 {
		panic(fmt.Sprintf("[replacer] [removeByIndex] record index out of bound: %d", idx))
	}
	node := &a.records[idx]
	if l.head == -1 || (node.nextIdx == -1 && node.prevIdx == -1 && l.head != idx) {
		panic(fmt.Sprintf("[replacer] [removeByIndex] record %d is not linked", idx))
	}

	prev := node.prevIdx
	next := node.nextIdx
	isHead := prev == -1
	isTail := next == -1

	switch {
	case isHead && isTail:
		// Only one node in the list
		l.head = -1
		l.tail = -1
	case isHead && !isTail:
		// Removing head, next becomes new head
		l.head = next
		a.records[next].prevIdx = -1
	case !isHead && isTail:
		// Removing tail, prev becomes new tail
		l.tail = prev
		a.records[prev].nextIdx = -1
	case !isHead && !isTail:
		// Removing middle node, connect prev and next
		a.records[prev].nextIdx = next
		a.records[next].prevIdx = prev
	}

	node.nextIdx = -1
	node.prevIdx = -1
	l.length--
}

// firstEvictable walks from the oldest record and returns the first
// evictable slot, or -1.
func (l *frameList) firstEvictable(a *recordArena) int {
	for current := l.head; current != -1; current = a.records[current].nextIdx {
		if a.records[current].evictable {
			return current
		}
	}
	return -1
}

// frames lists the frame ids in queue order, oldest first.
func (l *frameList) frames(a *recordArena) []util.FrameID {
	out := make([]util.FrameID, 0, l.length)
	for current := l.head; current != -1; current = a.records[current].nextIdx {
		out = append(out, a.records[current].frameID)
	}
	return out
}
