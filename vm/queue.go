package vm

// Queue is a fixed-capacity FIFO of program counters, one per warrior.
// Pushing past capacity silently drops, matching how SPL behaves at
// the process limit.
type Queue struct {
	slots []int
	head  int
	tail  int
	count int
}

// NewQueue returns an empty queue holding up to capacity entries.
func NewQueue(capacity int) *Queue {
	return &Queue{slots: make([]int, capacity)}
}

// Push appends pc. It reports whether the value was stored.
func (q *Queue) Push(pc int) bool {
	if q.count == len(q.slots) {
		return false
	}
	q.slots[q.tail] = pc
	q.tail = (q.tail + 1) % len(q.slots)
	q.count++
	return true
}

// Pop removes and returns the oldest entry.
func (q *Queue) Pop() (int, bool) {
	if q.count == 0 {
		return 0, false
	}
	pc := q.slots[q.head]
	q.head = (q.head + 1) % len(q.slots)
	q.count--
	return pc, true
}

// Peek returns the oldest entry without removing it.
func (q *Queue) Peek() (int, bool) {
	if q.count == 0 {
		return 0, false
	}
	return q.slots[q.head], true
}

func (q *Queue) Len() int    { return q.count }
func (q *Queue) Empty() bool { return q.count == 0 }

// Clear drops every entry.
func (q *Queue) Clear() {
	q.head, q.tail, q.count = 0, 0, 0
}

// Snapshot returns the queued counters in pop order.
func (q *Queue) Snapshot() []int {
	out := make([]int, 0, q.count)
	for i := 0; i < q.count; i++ {
		out = append(out, q.slots[(q.head+i)%len(q.slots)])
	}
	return out
}
