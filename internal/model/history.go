package model

import "time"

// DefaultCapacity bounds per-node message retention.
const DefaultCapacity = 512

// History is the bounded per-node message retention: a ring of messages
// plus a separately capped cache of their formatted rows, kept for cheap
// concatenation in the continuous listing. The two caps are enforced
// independently (message count vs row count), so the cache may still hold
// rows for messages already evicted from the ring.
type History struct {
	buf   []*Message
	start int
	size  int
	lines []Row
	lcap  int
	total uint64
}

func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &History{buf: make([]*Message, capacity), lcap: 2 * capacity}
}

// Append records the message, evicting the oldest when at capacity, and
// extends the line cache with the message's formatted rows, evicting oldest
// rows past the cache's own cap.
func (h *History) Append(m *Message) {
	if h.size < len(h.buf) {
		h.buf[(h.start+h.size)%len(h.buf)] = m
		h.size++
	} else {
		h.buf[h.start] = m
		h.start = (h.start + 1) % len(h.buf)
	}
	h.total++

	h.lines = append(h.lines, m.Lines()...)
	if over := len(h.lines) - h.lcap; over > 0 {
		copy(h.lines, h.lines[over:])
		h.lines = h.lines[:len(h.lines)-over]
	}
}

// Last returns the most recently appended message, nil when empty.
func (h *History) Last() *Message {
	if h.size == 0 {
		return nil
	}
	return h.buf[(h.start+h.size-1)%len(h.buf)]
}

// Len is the number of retained messages.
func (h *History) Len() int { return h.size }

// Cap is the retention bound.
func (h *History) Cap() int { return len(h.buf) }

// Total counts every message ever appended, eviction included.
func (h *History) Total() uint64 { return h.total }

// LastStamp is the receipt time of the newest message, zero when empty.
func (h *History) LastStamp() time.Time {
	if m := h.Last(); m != nil {
		return m.ReceivedAt
	}
	return time.Time{}
}

// Lines is the chronological formatted-row cache, oldest first. The slice
// is shared with the history; callers must not mutate it.
func (h *History) Lines() []Row { return h.lines }

// Messages copies out the retained messages, oldest first.
func (h *History) Messages() []*Message {
	out := make([]*Message, h.size)
	for i := 0; i < h.size; i++ {
		out[i] = h.buf[(h.start+i)%len(h.buf)]
	}
	return out
}
