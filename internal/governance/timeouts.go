package governance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/polisai/primecore/pkg/domain"
)

// TimeoutConfig defines the time budget for a single engine call.
type TimeoutConfig struct {
	// CallTimeout bounds one call. Zero disables the limit.
	CallTimeout time.Duration
}

// TimeoutManager applies a TimeoutConfig to calls.
type TimeoutManager struct {
	config TimeoutConfig
}

// NewTimeoutManager creates a timeout manager with the given configuration.
// Negative timeouts are treated as disabled.
func NewTimeoutManager(config TimeoutConfig) *TimeoutManager {
	if config.CallTimeout < 0 {
		config.CallTimeout = 0
	}
	return &TimeoutManager{config: config}
}

// Config returns a copy of the current timeout configuration.
func (tm *TimeoutManager) Config() TimeoutConfig {
	return tm.config
}

// Run executes fn under the configured call timeout.
func Run[T any](ctx context.Context, tm *TimeoutManager, fn func() (T, error)) (T, error) {
	var timeout time.Duration
	if tm != nil {
		timeout = tm.config.CallTimeout
	}
	return WithDeadline(ctx, timeout, fn)
}

type result[T any] struct {
	value T
	err   error
}

// WithDeadline runs fn and returns its result, or domain.ErrDeadlineExceeded
// when timeout elapses first. A cancelled parent context returns its error.
// With timeout <= 0 fn runs on the calling goroutine and only the parent
// context is checked before it starts.
//
// fn is not interrupted when the deadline passes: it finishes on its own
// goroutine and its result is dropped.
func WithDeadline[T any](ctx context.Context, timeout time.Duration, fn func() (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, contextError(err, timeout)
	}
	if timeout <= 0 {
		return fn()
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan result[T], 1)
	go func() {
		v, err := fn()
		done <- result[T]{value: v, err: err}
	}()

	select {
	case r := <-done:
		return r.value, r.err
	case <-callCtx.Done():
		return zero, contextError(callCtx.Err(), timeout)
	}
}

func contextError(err error, timeout time.Duration) error {
	if errors.Is(err, context.DeadlineExceeded) {
		if timeout > 0 {
			return fmt.Errorf("%w after %v", domain.ErrDeadlineExceeded, timeout)
		}
		return domain.ErrDeadlineExceeded
	}
	return err
}
