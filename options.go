package worker

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
)

const (
	defaultAttempts     = 3
	defaultInitialRetry = 200 * time.Millisecond
	defaultMaxRetry     = 5 * time.Second
)

// ShutdownPolicy defines what Stop does with messages still queued.
type ShutdownPolicy int

const (
	// DrainOnStop makes Stop block until the worker has processed every
	// queued message and the loop has exited.
	DrainOnStop ShutdownPolicy = iota

	// DiscardOnStop makes Stop only request termination. The loop exits
	// at its next gate check and queued messages are dropped unprocessed.
	DiscardOnStop
)

func (s ShutdownPolicy) String() string {
	switch s {
	case DrainOnStop:
		return "DrainOnStop"
	case DiscardOnStop:
		return "DiscardOnStop"
	default:
		return "Unknown"
	}
}

// FailurePolicy defines how the worker reacts when the process callback
// returns an error or panics.
type FailurePolicy int

const (
	// RecoverFailures logs the failure, reports it to OnProcessError and
	// keeps the loop running. Panics are recovered.
	RecoverFailures FailurePolicy = iota

	// FailFast terminates the loop on the first failure that survives the
	// retry policy. Remaining messages are dropped regardless of the
	// shutdown policy and IsFinished becomes true early.
	FailFast
)

func (f FailurePolicy) String() string {
	switch f {
	case RecoverFailures:
		return "RecoverFailures"
	case FailFast:
		return "FailFast"
	default:
		return "Unknown"
	}
}

// RetryPolicy describes how many times and how often a failing process
// callback is retried before the failure policy applies.
// Zero values are treated as "use defaults".
type RetryPolicy struct {
	// Attempts is the maximum number of tries for a message.
	Attempts int

	// Initial is the first backoff duration.
	Initial time.Duration

	// Max is the cap for backoff duration.
	Max time.Duration
}

// DefaultRetryPolicy returns a pointer to the retry policy used when a
// Retry option is set but left partially zero. Useful in tests or when
// constructing a worker with the same defaults.
func DefaultRetryPolicy() *RetryPolicy {
	rp := RetryPolicy{
		Attempts: defaultAttempts,
		Initial:  defaultInitialRetry,
		Max:      defaultMaxRetry,
	}
	return &rp
}

// Hooks are optional callbacks invoked on the worker goroutine around
// the loop and around each dequeue cycle. They are purely observational:
// the worker consumes no result from them. Nil hooks are skipped.
type Hooks struct {
	// OnLoopEnter runs once before the first gate wait.
	OnLoopEnter func()

	// OnLoopExit runs once after the loop has exited and, under
	// DrainOnStop, after the mailbox has been drained.
	OnLoopExit func()

	// BeforeDequeue runs before each attempt to pop a message.
	BeforeDequeue func()

	// AfterDequeue runs after the popped message has been processed.
	AfterDequeue func()
}

// Options configure a Worker.
//
// All zero values are replaced with sensible defaults in FillDefaults.
type Options struct {
	// Ctx carries the logger used for lifecycle and failure logging.
	// It does not control cancellation; Stop is the only cancellation
	// primitive.
	Ctx context.Context

	// Ordering selects the mailbox dequeue policy.
	Ordering Ordering

	// Shutdown selects what Stop does with queued messages.
	Shutdown ShutdownPolicy

	// Failure selects how process errors and panics are handled.
	Failure FailurePolicy

	// Retry, when non-nil, retries a failing process callback with
	// backoff before the failure policy applies. Panics are never
	// retried.
	Retry *RetryPolicy

	// Clock is the time source for enqueue timestamps, delay
	// measurement and sleep requests. Defaults to the wall clock.
	Clock clock.Clock

	// Metrics receives mailbox and processing activity. Defaults to
	// NoopMetrics.
	Metrics Metrics

	// Hooks are optional loop instrumentation callbacks.
	Hooks Hooks

	// OnProcessError, when set, receives every process failure that
	// survives the retry policy. Called on the worker goroutine.
	OnProcessError func(error)
}

func (o *Options) FillDefaults() {
	if o.Ctx == nil {
		o.Ctx = context.Background()
	}
	if o.Clock == nil {
		o.Clock = clock.New()
	}
	if o.Metrics == nil {
		o.Metrics = &NoopMetrics{}
	}
	if o.Retry != nil {
		if o.Retry.Attempts <= 0 {
			o.Retry.Attempts = defaultAttempts
		}
		if o.Retry.Initial <= 0 {
			o.Retry.Initial = defaultInitialRetry
		}
		if o.Retry.Max <= 0 {
			o.Retry.Max = defaultMaxRetry
		}
	}
}
