// Package retry wraps transport calls with exponential backoff for
// retryable failures, classifying errors by HTTP status code or transport
// error code in the style of the teacher's MCP recovery classifier.
package retry

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Config holds the retry parameters. Zero values fall back to the spec
// defaults in New.
type Config struct {
	MaxRetries          int
	InitialDelay        time.Duration
	MaxDelay            time.Duration
	BackoffFactor       float64
	RetryableStatusCode map[int]bool
	RetryableCode       map[string]bool
}

// DefaultConfig returns the spec-mandated retry parameters.
func DefaultConfig() Config {
	return Config{
		MaxRetries:    3,
		InitialDelay:  time.Second,
		MaxDelay:      30 * time.Second,
		BackoffFactor: 2,
		RetryableStatusCode: map[int]bool{
			429: true, 500: true, 502: true, 503: true, 504: true,
		},
		RetryableCode: map[string]bool{
			"ECONNRESET": true, "ETIMEDOUT": true, "ENOTFOUND": true, "ECONNREFUSED": true,
		},
	}
}

// Classifiable lets a caller-defined error report its HTTP status or
// transport code for classification, matching the spec's ".status"/".code"
// duck-typed check.
type Classifiable interface {
	StatusCode() int
}

// CodedError lets a caller-defined error report a transport error code.
type CodedError interface {
	ErrorCode() string
}

// newBackOff builds a cenkalti/backoff ExponentialBackOff matching cfg,
// with jitter disabled so the emitted delay is the spec's deterministic
// min(initial * factor^(attempt-1), max).
func newBackOff(cfg Config) *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.InitialDelay
	b.MaxInterval = cfg.MaxDelay
	b.Multiplier = cfg.BackoffFactor
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// Do runs op, retrying on classified-retryable failures per cfg. It blocks
// synchronously across the backoff sleeps, honoring ctx cancellation.
func Do(ctx context.Context, cfg Config, op func(context.Context) error) error {
	if cfg.MaxRetries <= 0 {
		cfg = DefaultConfig()
	}
	b := newBackOff(cfg)

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxRetries; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !isRetryable(err, cfg) || attempt == cfg.MaxRetries {
			return lastErr
		}

		delay := b.NextBackOff()
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}

// isRetryable classifies err by status code, transport error code, or a
// small set of well-known network failure signatures.
func isRetryable(err error, cfg Config) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var statusErr Classifiable
	if errors.As(err, &statusErr) {
		if cfg.RetryableStatusCode[statusErr.StatusCode()] {
			return true
		}
	}

	var codedErr CodedError
	if errors.As(err, &codedErr) {
		if cfg.RetryableCode[codedErr.ErrorCode()] {
			return true
		}
	}

	// A net.Error with Timeout() true is exactly the ETIMEDOUT case in
	// cfg.RetryableCode, so it retries regardless of code-based classification.
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	return false
}
