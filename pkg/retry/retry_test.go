package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusError struct{ code int }

func (e *statusError) Error() string  { return "status error" }
func (e *statusError) StatusCode() int { return e.code }

type fakeNetError struct {
	timeout bool
}

func (e *fakeNetError) Error() string   { return "net error" }
func (e *fakeNetError) Timeout() bool   { return e.timeout }
func (e *fakeNetError) Temporary() bool { return e.timeout }

func TestDoSucceedsFirstTry(t *testing.T) {
	calls := 0
	err := Do(context.Background(), DefaultConfig(), func(context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesRetryableStatus(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitialDelay = time.Millisecond
	cfg.MaxDelay = 2 * time.Millisecond

	calls := 0
	err := Do(context.Background(), cfg, func(context.Context) error {
		calls++
		if calls < 3 {
			return &statusError{code: 503}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnNonRetryableStatus(t *testing.T) {
	calls := 0
	err := Do(context.Background(), DefaultConfig(), func(context.Context) error {
		calls++
		return &statusError{code: 400}
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoStopsAtMaxRetries(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxRetries = 2
	cfg.InitialDelay = time.Millisecond
	cfg.MaxDelay = 2 * time.Millisecond

	calls := 0
	err := Do(context.Background(), cfg, func(context.Context) error {
		calls++
		return &statusError{code: 500}
	})

	require.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestIsRetryableClassifiesNetTimeoutAsRetryable(t *testing.T) {
	assert.True(t, isRetryable(&fakeNetError{timeout: true}, DefaultConfig()))
}

func TestIsRetryableClassifiesNonTimeoutNetErrorAsNonRetryable(t *testing.T) {
	assert.False(t, isRetryable(&fakeNetError{timeout: false}, DefaultConfig()))
}

func TestDoHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, DefaultConfig(), func(context.Context) error {
		return errors.New("boom")
	})

	require.Error(t, err)
}
