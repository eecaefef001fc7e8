package gov

import (
	"context"
	"errors"
	"io"
	"net"
	"syscall"
	"time"
)

const (
	maxAttempts = 3
	baseBackoff = 500 * time.Millisecond
)

// withRetry runs fn up to maxAttempts times with exponential backoff.
// Only transient network-class failures are retried; authoritative API
// errors surface immediately.
func withRetry(ctx context.Context, fn func(context.Context) error) error {
	var err error
	backoff := baseBackoff
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = fn(ctx)
		if err == nil || !isTransient(err) {
			return err
		}
		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return err
}

// isTransient reports whether err looks like a timeout, abort, or reset
// rather than a real answer from the API.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}
