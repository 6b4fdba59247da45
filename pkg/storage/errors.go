package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by [Load] for a key that holds nothing.
var ErrNotFound = errors.New("snapshot not found")

// Load is Get with a missing key turned into ErrNotFound.
func Load(ctx context.Context, s Store, key string) ([]byte, error) {
	data, found, err := s.Get(ctx, key)
	switch {
	case err != nil:
		return nil, err
	case !found:
		return nil, ErrNotFound
	}
	return data, nil
}

// RetryableError marks a failure worth another attempt, such as a refused
// connection while a Redis or MongoDB server is still starting.
type RetryableError struct{ Err error }

// Retryable marks err as retryable. Retryable(nil) is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err was marked with Retryable.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

const connectAttempts = 3

// retryDelay is the wait before the second attempt; it doubles after that.
var retryDelay = 200 * time.Millisecond

// retryWithBackoff runs fn until it succeeds, returns an unmarked error, or
// connectAttempts is used up. The last cause is returned unwrapped.
func retryWithBackoff(ctx context.Context, fn func() error) error {
	wait := retryDelay
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if attempt == connectAttempts {
			return errors.Unwrap(err)
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		wait *= 2
	}
}
