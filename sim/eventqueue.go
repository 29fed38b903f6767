package sim

import (
	"container/heap"
	"sync"
)

// wakeEvent asks the engine to resume a process at a given time. Events at the
// same time are ordered by seq, which grows with every push.
type wakeEvent struct {
	time  VTime
	seq   uint64
	entry *procEntry
}

// wakeQueue is a thread safe queue of wake events ordered by time, then by
// insertion order.
type wakeQueue struct {
	sync.Mutex
	events wakeHeap
	seq    uint64
}

func newWakeQueue() *wakeQueue {
	q := &wakeQueue{}
	q.events = make([]*wakeEvent, 0)
	heap.Init(&q.events)

	return q
}

// Push adds a wake event for entry at time t.
func (q *wakeQueue) Push(t VTime, entry *procEntry) {
	q.Lock()
	q.seq++
	heap.Push(&q.events, &wakeEvent{time: t, seq: q.seq, entry: entry})
	q.Unlock()
}

// Pop removes and returns the earliest event, or nil if the queue is empty.
func (q *wakeQueue) Pop() *wakeEvent {
	q.Lock()
	defer q.Unlock()

	if q.events.Len() == 0 {
		return nil
	}

	return heap.Pop(&q.events).(*wakeEvent)
}

// PopAt removes and returns, in order, every event scheduled at time t that is
// at the front of the queue.
func (q *wakeQueue) PopAt(t VTime) []*wakeEvent {
	q.Lock()
	defer q.Unlock()

	var batch []*wakeEvent
	for q.events.Len() > 0 && q.events[0].time == t {
		batch = append(batch, heap.Pop(&q.events).(*wakeEvent))
	}

	return batch
}

// Len returns the number of events in the queue.
func (q *wakeQueue) Len() int {
	q.Lock()
	defer q.Unlock()

	return q.events.Len()
}

// Peek returns the earliest event without removing it, or nil if the queue is
// empty.
func (q *wakeQueue) Peek() *wakeEvent {
	q.Lock()
	defer q.Unlock()

	if q.events.Len() == 0 {
		return nil
	}

	return q.events[0]
}

type wakeHeap []*wakeEvent

func (h wakeHeap) Len() int { return len(h) }

func (h wakeHeap) Less(i, j int) bool {
	if h[i].time != h[j].time {
		return h[i].time < h[j].time
	}

	return h[i].seq < h[j].seq
}

func (h wakeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *wakeHeap) Push(x any) {
	evt := x.(*wakeEvent)
	*h = append(*h, evt)
}

func (h *wakeHeap) Pop() any {
	old := *h
	n := len(old)
	evt := old[n-1]
	*h = old[:n-1]

	return evt
}
