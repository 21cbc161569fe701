package police

import "sync"

// Queue is a multi-producer FIFO buffer drained in full by a single consumer.
// Enqueue never waits on the consumer's work: DrainInto only swaps slices
// under the lock. Two backing arrays alternate between items and spare, so
// steady-state draining does not allocate.
type Queue[T any] struct {
	mu    sync.Mutex
	items []T
	spare []T // consumer only
}

// Enqueue appends v. Safe for concurrent use.
func (q *Queue[T]) Enqueue(v T) {
	q.mu.Lock()
	q.items = append(q.items, v)
	q.mu.Unlock()
}

// DrainInto appends every queued item to dst in arrival order and empties
// the queue. Items enqueued after the swap surface on the next drain.
func (q *Queue[T]) DrainInto(dst []T) []T {
	q.mu.Lock()
	drained := q.items
	q.items = q.spare[:0]
	q.mu.Unlock()

	dst = append(dst, drained...)
	clear(drained)
	q.spare = drained[:0]
	return dst
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
