package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(attempts uint) *RetryConfig {
	return &RetryConfig{Attempts: attempts, Delay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func TestDo_SucceedsAfterFailures(t *testing.T) {
	calls := 0

	err := Do(context.Background(), fastConfig(5), "ping", func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("not ready")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_ReturnsLastError(t *testing.T) {
	calls := 0
	lastErr := errors.New("still down")

	err := Do(context.Background(), fastConfig(3), "ping", func(context.Context) error {
		calls++
		return lastErr
	})

	assert.ErrorIs(t, err, lastErr)
	assert.Equal(t, 3, calls)
}

func TestDo_StopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0

	err := Do(ctx, &RetryConfig{Attempts: 10, Delay: time.Second, MaxDelay: time.Second}, "ping", func(context.Context) error {
		calls++
		return errors.New("down")
	})

	assert.Error(t, err)
	assert.LessOrEqual(t, calls, 1)
}

func TestDefaultRetryConfig(t *testing.T) {
	rc := DefaultRetryConfig()

	assert.Equal(t, uint(defaultAttempts), rc.Attempts)
	assert.Less(t, rc.Delay, rc.MaxDelay)
	assert.Len(t, rc.ToRetryOptions(), 4)
}
