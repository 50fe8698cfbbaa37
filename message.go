package worker

import (
	"time"
)

// Message is a single unit of work handed to a Worker.
//
// Priority orders dequeuing: lower values are served first. Kind is an
// opaque discriminator passed through to the process callback, which is
// free to interpret it however it likes. EnqueuedAt records when the
// message was built and is used to measure queueing delay.
//
// A Message is immutable once enqueued; the mailbox owns it until it is
// handed to the process callback for the duration of one call.
type Message[T any] struct {
	Priority   int
	Kind       int
	Payload    T
	EnqueuedAt time.Time

	// seq is assigned under the worker lock at enqueue time and breaks
	// priority ties in arrival order.
	seq uint64
}

// NewMessage builds a message with the enqueue timestamp taken now.
//
// Messages constructed as plain literals work too: Enqueue stamps a zero
// EnqueuedAt with the worker clock, which keeps timestamps consistent
// when a mock clock is injected.
func NewMessage[T any](priority, kind int, payload T) Message[T] {
	return Message[T]{
		Priority:   priority,
		Kind:       kind,
		Payload:    payload,
		EnqueuedAt: time.Now(),
	}
}
