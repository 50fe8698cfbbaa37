package worker

import (
	"sync/atomic"
	"time"
)

// Metrics defines hooks used by the worker to report mailbox and
// processing activity.
//
// Implementations must be safe for concurrent use. All methods are
// expected to be lightweight and non-blocking.
type Metrics interface {

	// Enqueued increments the queued messages counter.
	Enqueued()

	// Dequeued reports that a message left the mailbox after waiting
	// in it for the given duration.
	Dequeued(wait time.Duration)

	// Processed increments the processed messages counter.
	Processed()

	// Dropped reports n messages discarded at shutdown.
	Dropped(n int)
}

// AtomicMetrics is a lock-free Metrics implementation backed by atomics.
//
// Writes are optimized for hot paths.
// Reads are intended for cold-path observation.
type AtomicMetrics struct {
	// enqueued is the total number of messages accepted by Enqueue.
	enqueued atomic.Uint64

	_ [56]byte // padding to avoid false sharing

	// processed is the total number of messages handed to the callback.
	processed atomic.Uint64

	// dropped is the total number of messages discarded at shutdown.
	dropped atomic.Int64

	// maxWait is the longest observed mailbox wait, in nanoseconds.
	maxWait atomic.Int64
}

// EnqueuedTotal returns the total number of enqueued messages.
// Intended for cold-path observation.
func (m *AtomicMetrics) EnqueuedTotal() uint64 {
	return m.enqueued.Load()
}

// ProcessedTotal returns the total number of processed messages.
// Intended for cold-path observation.
func (m *AtomicMetrics) ProcessedTotal() uint64 {
	return m.processed.Load()
}

// DroppedTotal returns the total number of discarded messages.
func (m *AtomicMetrics) DroppedTotal() int64 {
	return m.dropped.Load()
}

// MaxWait returns the longest mailbox wait observed so far.
func (m *AtomicMetrics) MaxWait() time.Duration {
	return time.Duration(m.maxWait.Load())
}

// Enqueued increments the queued messages counter by one.
func (m *AtomicMetrics) Enqueued() {
	m.enqueued.Add(1)
}

// Dequeued records wait if it exceeds the current maximum.
func (m *AtomicMetrics) Dequeued(wait time.Duration) {
	for {
		cur := m.maxWait.Load()
		if int64(wait) <= cur || m.maxWait.CompareAndSwap(cur, int64(wait)) {
			return
		}
	}
}

// Processed increments the processed messages counter by one.
func (m *AtomicMetrics) Processed() {
	m.processed.Add(1)
}

// Dropped increments the discarded messages counter by n.
func (m *AtomicMetrics) Dropped(n int) {
	m.dropped.Add(int64(n))
}

//------------- NoopMetrics ----------------------------------

// NoopMetrics is a Metrics implementation that discards all updates.
//
// It can be used when metrics collection is disabled and zero overhead
// is desired.
type NoopMetrics struct{}

func (m *NoopMetrics) Enqueued()                   {}
func (m *NoopMetrics) Dequeued(wait time.Duration) {}
func (m *NoopMetrics) Processed()                  {}
func (m *NoopMetrics) Dropped(n int)               {}
