// Package retry runs side-effecting calls under a bounded backoff policy.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DefaultDelays is the pause before the second and third attempts.
var DefaultDelays = []time.Duration{5 * time.Second, 25 * time.Second}

// DefaultMaxAttempts is the total number of attempts, the first included.
const DefaultMaxAttempts = 3

// Sleeper pauses between attempts. It must return early with ctx.Err()
// when ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// ExhaustedError is returned when every attempt failed. Cause is the error
// from the last attempt.
type ExhaustedError struct {
	Attempts int
	Cause    error
}

// Error implements the error interface
func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("all %d attempts failed: %v", e.Attempts, e.Cause)
}

// Unwrap implements errors.Unwrap
func (e *ExhaustedError) Unwrap() error {
	return e.Cause
}

// Executor holds the backoff policy. It carries no per-call state and is
// safe for concurrent use.
type Executor struct {
	maxAttempts int
	delays      []time.Duration
	sleep       Sleeper
	logger      *zap.Logger
	onRetry     func(attempt int, delay time.Duration, err error)
}

// Option configures an Executor
type Option func(*Executor)

// WithSleeper replaces the timer-based pause, mainly for tests.
func WithSleeper(s Sleeper) Option {
	return func(e *Executor) { e.sleep = s }
}

// WithOnRetry registers a hook invoked before each backoff pause.
func WithOnRetry(fn func(attempt int, delay time.Duration, err error)) Option {
	return func(e *Executor) { e.onRetry = fn }
}

// NewExecutor creates an Executor making up to maxAttempts attempts.
// delays[i] is waited after attempt i+1 fails; when there are fewer delays
// than gaps the last one is reused. No jitter is applied.
func NewExecutor(maxAttempts int, delays []time.Duration, logger *zap.Logger, opts ...Option) *Executor {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Executor{
		maxAttempts: maxAttempts,
		delays:      append([]time.Duration(nil), delays...),
		sleep:       sleepContext,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MaxAttempts returns the attempt budget
func (e *Executor) MaxAttempts() int {
	return e.maxAttempts
}

// Delay returns the pause taken after the given (1-based) failed attempt.
func (e *Executor) Delay(attempt int) time.Duration {
	if len(e.delays) == 0 || attempt < 1 {
		return 0
	}
	if attempt > len(e.delays) {
		return e.delays[len(e.delays)-1]
	}
	return e.delays[attempt-1]
}

// Do calls action until it succeeds or the attempt budget is spent. Every
// error is treated as retryable. On exhaustion the last error is logged and
// returned inside an *ExhaustedError. A cancelled ctx stops the backoff and
// is reported the same way with ctx.Err() as the cause.
func Do[T any](ctx context.Context, e *Executor, action func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		result, err := action(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == e.maxAttempts {
			break
		}

		delay := e.Delay(attempt)
		e.logger.Warn("attempt failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err))
		if e.onRetry != nil {
			e.onRetry(attempt, delay, err)
		}

		if err := e.sleep(ctx, delay); err != nil {
			e.logger.Error("retry aborted", zap.Int("attempt", attempt), zap.Error(err))
			return zero, &ExhaustedError{Attempts: attempt, Cause: errors.Join(err, lastErr)}
		}
	}

	e.logger.Error("all retries exhausted",
		zap.Int("attempts", e.maxAttempts),
		zap.Error(lastErr))
	return zero, &ExhaustedError{Attempts: e.maxAttempts, Cause: lastErr}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
