package ecs

import "sync"

// DestroyQueue defers entity destruction to the end of a tick. Entities may
// be marked from any goroutine; Flush runs on the simulation goroutine.
type DestroyQueue struct {
	mu      sync.Mutex
	pending []EntityID
	flush   []EntityID
}

func NewDestroyQueue() *DestroyQueue {
	return &DestroyQueue{pending: make([]EntityID, 0, 64)}
}

// Mark queues id for destruction at the next flush.
func (q *DestroyQueue) Mark(id EntityID) {
	q.mu.Lock()
	q.pending = append(q.pending, id)
	q.mu.Unlock()
}

// Flush calls fn for every queued ID in mark order and empties the queue.
// IDs marked while fn runs are kept for the next flush.
func (q *DestroyQueue) Flush(fn func(EntityID)) {
	q.mu.Lock()
	q.flush, q.pending = q.pending, q.flush[:0]
	q.mu.Unlock()

	for _, id := range q.flush {
		fn(id)
	}
	q.flush = q.flush[:0]
}
