// Package queue provides a blocking FIFO shared between the analyzer and its
// workers.
package queue

import "sync"

// Queue is a mutex-guarded FIFO with an optional capacity bound and a
// one-shot abort.
//
// Once aborted the queue never returns another item, even if items are still
// buffered, and every blocked Push or WaitAndPop returns immediately.
// Callers that need to drain must pop remaining items before calling Abort.
type Queue[T any] struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond
	items    []T
	capacity int
	aborted  bool
}

// New creates a queue. A capacity of 0 or less means unbounded.
func New[T any](capacity int) *Queue[T] {
	q := &Queue[T]{capacity: capacity}
	q.notEmpty = sync.NewCond(&q.mu)
	q.notFull = sync.NewCond(&q.mu)
	return q
}

// Push appends item to the tail and wakes one waiting consumer.
// It blocks while a bounded queue is full. It returns false without
// enqueueing when the queue is or becomes aborted.
func (q *Queue[T]) Push(item T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for !q.aborted && q.capacity > 0 && len(q.items) >= q.capacity {
		q.notFull.Wait()
	}
	if q.aborted {
		return false
	}

	q.items = append(q.items, item)
	q.notEmpty.Signal()
	return true
}

// WaitAndPop blocks until an item is available or the queue is aborted.
// The second return value is false on abort.
func (q *Queue[T]) WaitAndPop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for !q.aborted && len(q.items) == 0 {
		q.notEmpty.Wait()
	}
	if q.aborted {
		var zero T
		return zero, false
	}
	return q.popLocked(), true
}

// TryPop removes the head item without blocking.
func (q *Queue[T]) TryPop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.aborted || len(q.items) == 0 {
		var zero T
		return zero, false
	}
	return q.popLocked(), true
}

func (q *Queue[T]) popLocked() T {
	item := q.items[0]
	var zero T
	q.items[0] = zero
	q.items = q.items[1:]
	if len(q.items) == 0 {
		q.items = q.items[:0:0]
	}
	q.notFull.Signal()
	return item
}

// Empty reports whether no item is currently retrievable.
// An aborted queue is always empty.
func (q *Queue[T]) Empty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.aborted || len(q.items) == 0
}

// Len returns the number of buffered items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.aborted {
		return 0
	}
	return len(q.items)
}

// Abort permanently stops the queue and wakes every waiter.
// It is safe to call more than once.
func (q *Queue[T]) Abort() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.aborted {
		return
	}
	q.aborted = true
	q.items = nil
	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
}

// Aborted reports whether Abort has been called.
func (q *Queue[T]) Aborted() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.aborted
}
