// Package worker provides a generic single-goroutine active object: a
// prioritized mailbox owned by one dedicated goroutine that waits on a
// condition gate, dequeues the most urgent message and dispatches it to
// a caller-supplied processing callback.
//
// Design goals
//
// The package is designed around the following principles:
//
//   - One goroutine per worker, any number of producers
//   - Event-driven wakeup, no fixed-interval polling
//   - Strict ascending-priority service, arrival order among equals
//   - All side effects live in the injected callback, never in the core
//
// Architecture overview
//
// A Worker composes four pieces:
//
//   1. Mailbox
//      An unbounded queue of pending messages. The default ordering is
//      a binary heap keyed on (priority, arrival); a plain FIFO ordering
//      can be selected instead. Access is serialized under a single
//      mutex held only for the push/pop window.
//
//   2. Control gate
//      A condition variable plus independent atomic flags (running,
//      suspended, sleeping, finished). Enqueue, Stop, Suspend, Resume
//      and RequestSleep all signal the gate; the loop re-checks its
//      predicate after every wakeup, so spurious wakeups are harmless.
//
//   3. Execution loop
//      The goroutine body: wait for work, honor suspend and one-shot
//      sleep requests before touching the mailbox, pop one message,
//      run the callback to completion, repeat. Optional hooks fire at
//      loop entry/exit and around each dequeue cycle.
//
//   4. Processing callback
//      The only piece that varies per use. It receives the message kind
//      discriminator and the message itself and runs synchronously on
//      the worker goroutine.
//
// Shutdown discipline
//
// Two named policies are supported and must be chosen explicitly:
//
//   - DrainOnStop: Stop blocks until every queued message has been
//     processed and the goroutine has exited.
//   - DiscardOnStop: Stop only requests termination; the loop exits at
//     its next gate check and queued messages are dropped.
//
// Error handling
//
// Failures of the processing callback are governed by a failure policy:
// RecoverFailures (default) logs the error or recovered panic and keeps
// going, FailFast terminates the loop early. An optional retry policy
// re-runs error returns with backoff before the failure policy applies.
// Lifecycle misuse is not an error: enqueueing after Stop simply queues
// a message that will never be processed.
//
// A slow or stuck callback delays the whole worker; combined with
// DrainOnStop it also delays the caller of Stop. No per-message timeout
// is enforced.
//
// Intended use cases
//
// worker is well suited for:
//
//   - Serializing access to a resource behind a message protocol
//   - Background processing with urgency classes
//   - Decoupling bursty producers from a strictly ordered consumer
//
// It is intentionally not a pool: there is no work stealing, no
// multi-consumer mode and no backpressure. Producers that need those
// should reach for a worker pool instead.
package worker
