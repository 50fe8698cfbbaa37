package worker

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	boff "github.com/Andrej220/go-utils/backoff"
	lg "github.com/Andrej220/go-utils/zlog"
	"github.com/benbjohnson/clock"
)

// ErrNilProcess is returned by New when no process callback is given.
var ErrNilProcess = errors.New("worker: process func is nil")

// ProcessFunc handles one dequeued message. kind is a copy of the
// message's Kind discriminator.
//
// The callback runs synchronously on the worker goroutine: it is never
// preempted and the next message is not dequeued before it returns. It
// must not call Stop on its own worker when the shutdown policy is
// DrainOnStop, since Stop would then wait for the callback to return.
type ProcessFunc[T any] func(kind int, msg Message[T]) error

// Worker is a single-goroutine active object. It owns a mailbox of
// pending messages and a dedicated goroutine that waits on a condition
// gate, dequeues one message at a time and dispatches it to the process
// callback. Producers share only the Worker reference; they never touch
// the mailbox directly.
//
// A Worker runs at most once: after Stop (or a FailFast failure) it
// stays finished and cannot be restarted.
type Worker[T any] struct {
	process ProcessFunc[T]
	opts    Options
	clock   clock.Clock

	mu   sync.Mutex // gate: guards box, seq and sleepFor
	cond *sync.Cond
	box  mailbox[T]
	seq  uint64

	sleepFor time.Duration // pending one-shot sleep request

	started   atomic.Bool
	stopped   atomic.Bool
	running   atomic.Bool
	suspended atomic.Bool
	sleeping  atomic.Bool
	finished  atomic.Bool

	done      chan struct{} // closed when the goroutine has exited
	lastDelay atomic.Int64  // enqueue-to-dequeue latency, nanoseconds
}

// New creates a worker that dispatches messages to process. The worker
// does not run until Start is called.
func New[T any](process ProcessFunc[T], opts Options) (*Worker[T], error) {
	if process == nil {
		return nil, ErrNilProcess
	}
	opts.FillDefaults()
	w := &Worker[T]{
		process: process,
		opts:    opts,
		clock:   opts.Clock,
		box:     newMailbox[T](opts.Ordering),
		done:    make(chan struct{}),
	}
	w.cond = sync.NewCond(&w.mu)
	return w, nil
}

// Start spawns the worker goroutine. Calling it again while the worker
// is running, or after it has stopped, is a no-op: exactly one goroutine
// is ever spawned per worker.
func (w *Worker[T]) Start() {
	if w.stopped.Load() {
		return
	}
	if !w.started.CompareAndSwap(false, true) {
		return
	}
	w.running.Store(true)
	lg.FromContext(w.opts.Ctx).Info("worker starting",
		lg.String("ordering", w.opts.Ordering.String()),
		lg.String("shutdown", w.opts.Shutdown.String()),
	)
	go w.run()
}

// Stop requests termination. Under DrainOnStop it wakes the worker and
// blocks until every queued message has been processed and the goroutine
// has exited; under DiscardOnStop it only flips the running flag and
// returns immediately. Safe to call multiple times. Stop before Start
// prevents the worker from ever running.
func (w *Worker[T]) Stop() {
	w.stopped.Store(true)
	w.mu.Lock()
	was := w.running.Load()
	w.running.Store(false)
	w.mu.Unlock()
	w.cond.Signal()

	if was {
		lg.FromContext(w.opts.Ctx).Info("worker stop requested",
			lg.String("policy", w.opts.Shutdown.String()))
	}
	if w.opts.Shutdown == DrainOnStop && w.started.Load() {
		<-w.done
	}
}

// Suspend pauses dequeuing without stopping the goroutine. While
// suspended the worker touches neither the mailbox nor the callback;
// enqueued messages pile up until Resume. Idempotent.
func (w *Worker[T]) Suspend() {
	w.mu.Lock()
	changed := w.suspended.CompareAndSwap(false, true)
	w.mu.Unlock()
	if changed {
		w.cond.Signal()
		lg.FromContext(w.opts.Ctx).Info("worker suspended")
	}
}

// Resume lifts a suspension and wakes the worker. Idempotent.
func (w *Worker[T]) Resume() {
	w.mu.Lock()
	changed := w.suspended.CompareAndSwap(true, false)
	w.mu.Unlock()
	if changed {
		w.cond.Signal()
		lg.FromContext(w.opts.Ctx).Info("worker resumed")
	}
}

// RequestSleep asks the worker to pause for d the next time it reaches
// the gate. The request is one-shot: it is cleared after the pause. A
// request made while a sleep is already pending or in progress is
// ignored and lost.
func (w *Worker[T]) RequestSleep(d time.Duration) {
	if d <= 0 {
		return
	}
	w.mu.Lock()
	if w.sleeping.Load() || w.sleepFor > 0 {
		w.mu.Unlock()
		return
	}
	w.sleepFor = d
	w.mu.Unlock()
	w.cond.Signal()
	lg.FromContext(w.opts.Ctx).Info("worker sleep requested",
		lg.String("duration", d.String()))
}

// Enqueue adds msg to the mailbox and wakes the worker. It never blocks
// beyond the gate lock window and never rejects: the mailbox is
// unbounded. Messages enqueued after Stop stay in the mailbox and are
// never processed; callers that need a guarantee should check IsRunning
// first.
func (w *Worker[T]) Enqueue(msg Message[T]) {
	if msg.EnqueuedAt.IsZero() {
		msg.EnqueuedAt = w.clock.Now()
	}
	w.mu.Lock()
	w.seq++
	msg.seq = w.seq
	w.box.push(msg)
	w.mu.Unlock()
	w.cond.Signal()
	w.opts.Metrics.Enqueued()
}

// IsRunning reports whether the worker accepts work for processing. It
// turns false as soon as termination is requested, before any draining.
func (w *Worker[T]) IsRunning() bool { return w.running.Load() }

// IsSuspended reports whether dequeuing is currently paused.
func (w *Worker[T]) IsSuspended() bool { return w.suspended.Load() }

// IsSleeping reports whether the worker is inside a requested sleep.
func (w *Worker[T]) IsSleeping() bool { return w.sleeping.Load() }

// IsFinished reports whether the worker goroutine has exited. Set
// exactly once and never cleared.
func (w *Worker[T]) IsFinished() bool { return w.finished.Load() }

// Len returns the number of messages waiting in the mailbox.
func (w *Worker[T]) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.box.len()
}

// LastDelay reports the enqueue-to-dequeue latency of the most recently
// dequeued message.
func (w *Worker[T]) LastDelay() time.Duration {
	return time.Duration(w.lastDelay.Load())
}

// Join blocks until the worker goroutine has exited on its own schedule.
// Unlike Stop it requests nothing; it only waits. Join on a worker that
// was never started returns immediately.
func (w *Worker[T]) Join() {
	if !w.started.Load() {
		return
	}
	<-w.done
}

// run is the worker goroutine body.
func (w *Worker[T]) run() {
	logger := lg.FromContext(w.opts.Ctx)
	logger.Info("worker started")

	if h := w.opts.Hooks.OnLoopEnter; h != nil {
		h()
	}

	fatal := false
	for {
		w.mu.Lock()
		for w.idle() {
			w.cond.Wait()
		}
		if !w.running.Load() {
			w.mu.Unlock()
			break
		}
		if d := w.sleepFor; d > 0 {
			w.sleepFor = 0
			w.sleeping.Store(true)
			w.mu.Unlock()
			logger.Info("worker sleeping", lg.String("duration", d.String()))
			w.clock.Sleep(d)
			w.sleeping.Store(false)
			continue
		}
		w.mu.Unlock()

		if h := w.opts.Hooks.BeforeDequeue; h != nil {
			h()
		}
		msg, ok := w.pop()
		if ok && !w.dispatch(msg) {
			fatal = true
		}
		if h := w.opts.Hooks.AfterDequeue; h != nil {
			h()
		}
		if fatal {
			w.mu.Lock()
			w.running.Store(false)
			w.mu.Unlock()
			break
		}
	}

	if !fatal && w.opts.Shutdown == DrainOnStop {
		w.drainMailbox()
	}
	if n := w.Len(); n > 0 {
		w.opts.Metrics.Dropped(n)
		logger.Info("worker dropped queued messages", lg.Int("count", n))
	}

	if h := w.opts.Hooks.OnLoopExit; h != nil {
		h()
	}
	w.finished.Store(true)
	close(w.done)
	logger.Info("worker finished")
}

// idle reports whether the loop has nothing to act on. Called with mu
// held; re-evaluated after every wakeup so a spurious wakeup with no
// pending stop, sleep or work re-enters the wait.
func (w *Worker[T]) idle() bool {
	if !w.running.Load() {
		return false
	}
	if w.sleepFor > 0 {
		return false
	}
	if w.suspended.Load() {
		return true
	}
	return w.box.len() == 0
}

func (w *Worker[T]) pop() (Message[T], bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.box.pop()
}

// drainMailbox processes everything left after the loop has exited. Only
// the worker goroutine pops here; concurrent enqueues are still possible
// and will be served until the mailbox is observed empty.
func (w *Worker[T]) drainMailbox() {
	n := 0
	for {
		msg, ok := w.pop()
		if !ok {
			break
		}
		if !w.dispatch(msg) {
			break
		}
		n++
	}
	if n > 0 {
		lg.FromContext(w.opts.Ctx).Info("worker drained mailbox", lg.Int("count", n))
	}
}

// dispatch runs the process callback for one message, applying the retry
// and failure policies. The result is false when the failure policy
// demands loop termination.
func (w *Worker[T]) dispatch(msg Message[T]) bool {
	wait := w.clock.Now().Sub(msg.EnqueuedAt)
	w.lastDelay.Store(int64(wait))
	w.opts.Metrics.Dequeued(wait)

	err := w.invoke(msg)
	if err == nil {
		w.opts.Metrics.Processed()
		return true
	}

	if w.opts.OnProcessError != nil {
		w.opts.OnProcessError(err)
	}
	lg.FromContext(w.opts.Ctx).Error("worker process failed",
		lg.Int("kind", msg.Kind),
		lg.Int("priority", msg.Priority),
		lg.Any("error", err),
	)
	return w.opts.Failure != FailFast
}

// invoke calls the process callback, retrying error returns per the
// retry policy. Panics are converted to errors but never retried.
func (w *Worker[T]) invoke(msg Message[T]) error {
	err := w.call(msg)
	if err == nil || w.opts.Retry == nil {
		return err
	}
	var pe *panicError
	if errors.As(err, &pe) {
		return err
	}

	pol := *w.opts.Retry
	bo := boff.New(pol.Initial, pol.Max, w.clock.Now().UnixNano())
	for attempt := 1; attempt < pol.Attempts; attempt++ {
		delay := bo.Next()
		lg.FromContext(w.opts.Ctx).Warn("process attempt failed; backing off",
			lg.Int("attempt", attempt),
			lg.String("sleep", delay.String()),
			lg.Any("error", err),
		)
		w.clock.Sleep(delay)
		if err = w.call(msg); err == nil {
			return nil
		}
		if errors.As(err, &pe) {
			return err
		}
	}
	return err
}

func (w *Worker[T]) call(msg Message[T]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &panicError{value: r}
		}
	}()
	return w.process(msg.Kind, msg)
}

// panicError wraps a value recovered from a panicking process callback.
type panicError struct {
	value any
}

func (e *panicError) Error() string {
	return fmt.Sprintf("worker: process panicked: %v", e.value)
}
