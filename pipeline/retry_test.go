package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/curio/ai"
)

func testPolicy(maxRetries int) RetryPolicy {
	return RetryPolicy{
		MaxRetries: maxRetries,
		BaseDelay:  5 * time.Millisecond,
		MaxDelay:   20 * time.Millisecond,
	}
}

func TestRetryPolicy_Success(t *testing.T) {
	attempts := 0
	operation := func() error {
		attempts++
		return nil
	}

	err := testPolicy(3).Do(context.Background(), operation)
	require.NoError(t, err)
	assert.Equal(t, 1, attempts, "should succeed on first try")
}

func TestRetryPolicy_EventualSuccess(t *testing.T) {
	attempts := 0
	operation := func() error {
		attempts++
		if attempts < 3 {
			return fmt.Errorf("model call: %w", ai.ErrTransient)
		}
		return nil
	}

	err := testPolicy(4).Do(context.Background(), operation)
	require.NoError(t, err)
	assert.Equal(t, 3, attempts, "should succeed on third attempt")
}

func TestRetryPolicy_AllAttemptsFail(t *testing.T) {
	attempts := 0
	operation := func() error {
		attempts++
		return ai.ErrTransient
	}

	err := testPolicy(3).Do(context.Background(), operation)
	require.Error(t, err)
	assert.ErrorIs(t, err, ai.ErrTransient, "should return the last error")
	assert.Equal(t, 4, attempts, "three retries mean four attempts in total")
}

func TestRetryPolicy_FatalFailsImmediately(t *testing.T) {
	attempts := 0
	fatal := errors.New("model not found")
	operation := func() error {
		attempts++
		return fatal
	}

	err := testPolicy(5).Do(context.Background(), operation)
	require.Error(t, err)
	assert.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, attempts, "fatal errors should not be retried")
}

func TestRetryPolicy_ConnectionRefusedIsFatal(t *testing.T) {
	attempts := 0
	operation := func() error {
		attempts++
		return errors.New("dial tcp 127.0.0.1:11434: connect: connection refused")
	}

	err := testPolicy(5).Do(context.Background(), operation)
	require.Error(t, err)
	assert.Equal(t, 1, attempts, "a host that is down should fail the record immediately")
}

func TestRetryPolicy_ZeroRetriesSingleAttempt(t *testing.T) {
	attempts := 0
	operation := func() error {
		attempts++
		return ai.ErrTransient
	}

	err := testPolicy(0).Do(context.Background(), operation)
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestRetryPolicy_NegativeRetriesRejected(t *testing.T) {
	err := testPolicy(-1).Do(context.Background(), func() error { return nil })
	assert.ErrorIs(t, err, ErrInvalidMaxRetries)
}

func TestRetryPolicy_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	operation := func() error {
		attempts++
		if attempts == 2 {
			cancel() // Cancel after second attempt
		}
		return ai.ErrTransient
	}

	err := testPolicy(10).Do(ctx, operation)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled, "should return context.Canceled")
	assert.LessOrEqual(t, attempts, 2, "should stop when context is canceled")
}

func TestRetryPolicy_DelayShapes(t *testing.T) {
	policy := RetryPolicy{
		MaxRetries: 5,
		BaseDelay:  10 * time.Millisecond,
		MaxDelay:   25 * time.Millisecond,
	}

	t.Run("rate limited doubles and caps", func(t *testing.T) {
		assert.Equal(t, 10*time.Millisecond, policy.delayFor(ai.FailureRateLimited, 0))
		assert.Equal(t, 20*time.Millisecond, policy.delayFor(ai.FailureRateLimited, 1))
		assert.Equal(t, 25*time.Millisecond, policy.delayFor(ai.FailureRateLimited, 2))
		assert.Equal(t, 25*time.Millisecond, policy.delayFor(ai.FailureRateLimited, 6))
	})

	t.Run("transient grows linearly", func(t *testing.T) {
		assert.Equal(t, 10*time.Millisecond, policy.delayFor(ai.FailureTransient, 0))
		assert.Equal(t, 20*time.Millisecond, policy.delayFor(ai.FailureTransient, 1))
		assert.Equal(t, 30*time.Millisecond, policy.delayFor(ai.FailureTransient, 2))
	})
}

func TestRetryPolicy_RateLimitedBacksOff(t *testing.T) {
	attempts := 0
	start := time.Now()
	operation := func() error {
		attempts++
		if attempts < 3 {
			return fmt.Errorf("api: %w", ai.ErrRateLimited)
		}
		return nil
	}

	policy := RetryPolicy{
		MaxRetries: 5,
		BaseDelay:  10 * time.Millisecond,
		MaxDelay:   time.Second,
	}
	err := policy.Do(context.Background(), operation)
	require.NoError(t, err)

	// Two sleeps: 10ms then 20ms.
	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 30*time.Millisecond, "should have backed off between attempts")
}

func TestDefaultRetryPolicy(t *testing.T) {
	policy := DefaultRetryPolicy()
	assert.Equal(t, 3, policy.MaxRetries)
	assert.Equal(t, 1*time.Second, policy.BaseDelay)
	assert.Equal(t, 30*time.Second, policy.MaxDelay)
}
