package worker

import (
	"container/heap"
)

const (
	initialMailboxCapacity = 64
)

// Ordering selects the dequeue policy of the worker mailbox.
//
// The ordering is configured via Options.Ordering when creating a Worker.
type Ordering int

const (
	// PriorityOrder serves messages by ascending Priority value.
	// Messages with equal priority keep their arrival order.
	PriorityOrder Ordering = iota

	// ArrivalOrder ignores Priority and serves messages strictly
	// first-in-first-out.
	ArrivalOrder
)

func (o Ordering) String() string {
	switch o {
	case PriorityOrder:
		return "PriorityOrder"
	case ArrivalOrder:
		return "ArrivalOrder"
	default:
		return "Unknown"
	}
}

// mailbox stores pending messages for a single worker.
//
// Implementations are not safe for concurrent use on their own; the
// worker serializes all access under its gate mutex, held only for the
// duration of a push or pop, never across the process callback.
//
// The interface is intentionally small so ordering strategies can be
// swapped without touching the worker loop.
type mailbox[T any] interface {
	// push inserts a message. The mailbox is unbounded, push always
	// succeeds.
	push(msg Message[T])

	// pop removes and returns the next message to serve. The boolean
	// result reports whether a message was available.
	pop() (Message[T], bool)

	// len returns the number of pending messages.
	len() int
}

func newMailbox[T any](o Ordering) mailbox[T] {
	switch o {
	case ArrivalOrder:
		return newFifoMailbox[T](initialMailboxCapacity)
	default:
		return newPriorityMailbox[T](initialMailboxCapacity)
	}
}

// priorityMailbox is a min-heap keyed on (Priority, seq): the smallest
// priority value wins, and the enqueue sequence number keeps equal
// priorities in arrival order.
type priorityMailbox[T any] struct {
	h msgHeap[T]
}

func newPriorityMailbox[T any](capacity int) *priorityMailbox[T] {
	b := &priorityMailbox[T]{}
	b.h = make(msgHeap[T], 0, capacity) // preallocate
	heap.Init(&b.h)
	return b
}

func (b *priorityMailbox[T]) push(msg Message[T]) {
	heap.Push(&b.h, msg)
}

func (b *priorityMailbox[T]) pop() (Message[T], bool) {
	if b.h.Len() == 0 {
		return Message[T]{}, false
	}
	return heap.Pop(&b.h).(Message[T]), true
}

func (b *priorityMailbox[T]) len() int { return b.h.Len() }

type msgHeap[T any] []Message[T]

func (h msgHeap[T]) Len() int { return len(h) }
func (h msgHeap[T]) Less(i, j int) bool {
	if h[i].Priority != h[j].Priority {
		return h[i].Priority < h[j].Priority
	}
	return h[i].seq < h[j].seq
}
func (h msgHeap[T]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *msgHeap[T]) Push(x any) {
	*h = append(*h, x.(Message[T]))
}

func (h *msgHeap[T]) Pop() any {
	old := *h
	n := len(old)
	msg := old[n-1]
	var zero Message[T]
	old[n-1] = zero // release payload reference
	*h = old[:n-1]
	return msg
}

// fifoMailbox is a growable circular buffer serving messages strictly in
// arrival order. Priorities and sequence numbers are ignored.
type fifoMailbox[T any] struct {
	buf        []Message[T] // circular buffer
	head, tail int          // read/write indices
	size       int
}

func newFifoMailbox[T any](capacity int) *fifoMailbox[T] {
	return &fifoMailbox[T]{
		buf: make([]Message[T], capacity),
	}
}

func (b *fifoMailbox[T]) push(msg Message[T]) {
	if b.size == len(b.buf) {
		b.grow()
	}
	b.buf[b.tail] = msg
	b.tail++
	if b.tail == len(b.buf) {
		b.tail = 0
	}
	b.size++
}

func (b *fifoMailbox[T]) pop() (Message[T], bool) {
	if b.size == 0 {
		return Message[T]{}, false
	}
	msg := b.buf[b.head]
	var zero Message[T]
	b.buf[b.head] = zero
	b.head++
	if b.head == len(b.buf) {
		b.head = 0
	}
	b.size--
	return msg, true
}

func (b *fifoMailbox[T]) len() int { return b.size }

// grow doubles the buffer, unwrapping the circular layout so head
// restarts at zero.
func (b *fifoMailbox[T]) grow() {
	next := make([]Message[T], len(b.buf)*2)
	n := copy(next, b.buf[b.head:])
	copy(next[n:], b.buf[:b.head])
	b.buf = next
	b.head = 0
	b.tail = b.size
}
