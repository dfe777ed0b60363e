package server

import (
	"sync"
	"time"
)

// HistoryEntry stores an encoded mutation frame for replay.
type HistoryEntry struct {
	Seq    uint64    // Batch sequence number
	Frame  []byte    // Pre-encoded FrameMutations
	SentAt time.Time // When the batch was produced
}

// History is a thread-safe ring buffer of recent mutation frames. It
// overwrites the oldest entry when full, keeping a sliding window that
// late subscribers can replay.
//
// Sequence numbers must be added in increasing order without gaps.
type History struct {
	mu       sync.RWMutex
	entries  []*HistoryEntry
	head     int // Next write position (circular)
	count    int // Current number of entries
	capacity int // Max entries
	minSeq   uint64
	maxSeq   uint64
}

// NewHistory creates a history ring buffer with the given capacity.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = 100
	}
	return &History{
		entries:  make([]*HistoryEntry, capacity),
		capacity: capacity,
	}
}

// Add stores a frame. The bytes are not copied; callers must not reuse
// the slice.
func (h *History) Add(seq uint64, frame []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries[h.head] = &HistoryEntry{
		Seq:    seq,
		Frame:  frame,
		SentAt: time.Now(),
	}
	h.head = (h.head + 1) % h.capacity

	if h.count < h.capacity {
		h.count++
	}

	h.maxSeq = seq
	oldest := h.entries[(h.head-h.count+h.capacity)%h.capacity]
	h.minSeq = oldest.Seq
}

// Since returns the frames with sequence numbers after after, oldest
// first. ok is false when some of them have already been evicted.
func (h *History) Since(after uint64) (frames [][]byte, ok bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.count == 0 || after >= h.maxSeq {
		return nil, true
	}
	if after+1 < h.minSeq {
		return nil, false
	}

	start := int(after + 1 - h.minSeq)
	frames = make([][]byte, 0, h.count-start)
	for i := start; i < h.count; i++ {
		idx := (h.head - h.count + i + h.capacity) % h.capacity
		frames = append(frames, h.entries[idx].Frame)
	}
	return frames, true
}

// CanRecover reports whether every batch after lastSeq is still buffered.
func (h *History) CanRecover(lastSeq uint64) bool {
	_, ok := h.Since(lastSeq)
	return ok
}

// MinSeq returns the oldest buffered sequence number.
func (h *History) MinSeq() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.minSeq
}

// MaxSeq returns the newest buffered sequence number.
func (h *History) MaxSeq() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.maxSeq
}

// Count returns the number of entries in the buffer.
func (h *History) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}
