package httputil

import (
	"context"
	"errors"
	"time"
)

// Default retry settings for dataset downloads.
const (
	DefaultAttempts = 3
	DefaultDelay    = time.Second
	DefaultMaxDelay = 30 * time.Second
)

// RetryPolicy controls how [Retry] repeats a failing download.
type RetryPolicy struct {
	// Attempts is the total number of calls.
	Attempts int

	// Delay is the wait before the first retry. It doubles after each one.
	Delay time.Duration

	// MaxDelay caps every wait, including one requested by the server.
	MaxDelay time.Duration

	// OnRetry, if set, is called before each wait with the 1-based number
	// of the attempt that failed.
	OnRetry func(attempt int, err error, wait time.Duration)
}

// DefaultRetryPolicy returns the policy used when none is configured.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: DefaultAttempts, Delay: DefaultDelay, MaxDelay: DefaultMaxDelay}
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.Attempts <= 0 {
		p.Attempts = DefaultAttempts
	}
	if p.Delay <= 0 {
		p.Delay = DefaultDelay
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = DefaultMaxDelay
	}
	return p
}

// RetryableError marks a transient failure: a network error, a 5xx
// response, or a 429 whose Retry-After is carried in After.
type RetryableError struct {
	Err   error
	After time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry calls fn until it succeeds, fails with an error that is not a
// [RetryableError], or p.Attempts calls have been made. Each wait is the
// larger of the backoff delay and the error's After, capped at p.MaxDelay.
// It returns the last error, or ctx.Err() if cancelled while waiting.
func Retry(ctx context.Context, p RetryPolicy, fn func() error) error {
	p = p.withDefaults()
	delay := p.Delay

	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		var re *RetryableError
		if !errors.As(err, &re) || attempt >= p.Attempts {
			return err
		}

		wait := min(max(delay, re.After), p.MaxDelay)
		if p.OnRetry != nil {
			p.OnRetry(attempt, err, wait)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
			delay *= 2
		}
	}
}
