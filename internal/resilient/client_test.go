package resilient

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPolicy keeps delays tiny and counts how many waits occur.
func testPolicy(maxAttempts int, waits *int) Policy {
	return Policy{
		MaxAttempts: maxAttempts,
		Delay: func(int) time.Duration {
			*waits++
			return time.Millisecond
		},
	}
}

func TestExecuteSuccessFirstAttempt(t *testing.T) {
	waits := 0
	client := NewClient(testPolicy(3, &waits), nil)

	calls := 0
	got, err := Execute(context.Background(), client, func(context.Context) (string, error) {
		calls++
		return "payload", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "payload", got)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, waits)
}

func TestExecuteRetriesThenSucceeds(t *testing.T) {
	// Fails twice with a 503-like error, succeeds on the third call:
	// the payload comes back and exactly 2 waits happen.
	waits := 0
	client := NewClient(testPolicy(3, &waits), nil)

	calls := 0
	got, err := Execute(context.Background(), client, func(context.Context) (int, error) {
		calls++
		if calls <= 2 {
			return 0, &HTTPError{StatusCode: 503}
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, waits)
}

func TestExecuteDoesNotRetry4xx(t *testing.T) {
	waits := 0
	client := NewClient(testPolicy(3, &waits), nil)

	calls := 0
	_, err := Execute(context.Background(), client, func(context.Context) (string, error) {
		calls++
		return "", &HTTPError{StatusCode: 404}
	})

	require.Error(t, err)
	var ne *NormalizedError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, KindUpstreamAPI, ne.Kind)
	assert.Equal(t, 404, ne.Status)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, waits)
}

func TestExecuteExhaustsAttempts(t *testing.T) {
	waits := 0
	client := NewClient(testPolicy(2, &waits), nil)

	calls := 0
	_, err := Execute(context.Background(), client, func(context.Context) (string, error) {
		calls++
		return "", errors.New("network unreachable")
	})

	require.Error(t, err)
	var ne *NormalizedError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, KindNetwork, ne.Kind)
	// Initial attempt plus MaxAttempts retries.
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, waits)
	assert.Contains(t, ne.Message, "gave up after 3 attempts")
}

func TestExecuteAlwaysReturnsNormalizedError(t *testing.T) {
	client := NewClient(GenericProfile(), nil)

	_, err := Execute(context.Background(), client, func(context.Context) (string, error) {
		return "", errors.New("TypeError: something odd")
	})

	var ne *NormalizedError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, KindUnknown, ne.Kind)
	assert.Equal(t, "something odd", ne.Message)
}

func TestExecuteCancelledBeforeStart(t *testing.T) {
	client := NewClient(GenericProfile(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := Execute(ctx, client, func(context.Context) (string, error) {
		calls++
		return "never", nil
	})

	require.Error(t, err)
	assert.Equal(t, 0, calls)
}

func TestExecuteCancelledMidWait(t *testing.T) {
	// Cancellation during the backoff wait aborts without issuing
	// another attempt.
	client := NewClient(Policy{
		MaxAttempts: 5,
		Delay:       func(int) time.Duration { return time.Minute },
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	done := make(chan error, 1)
	go func() {
		_, err := Execute(ctx, client, func(context.Context) (string, error) {
			calls++
			return "", errors.New("network unreachable")
		})
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	case <-time.After(2 * time.Second):
		t.Fatal("execute did not abort after cancellation")
	}
}

func TestExecuteConcurrentCallsIndependent(t *testing.T) {
	// Concurrent executes share the client but not attempt state.
	waits := 0
	var mu sync.Mutex
	client := NewClient(Policy{
		MaxAttempts: 3,
		Delay: func(int) time.Duration {
			mu.Lock()
			waits++
			mu.Unlock()
			return time.Millisecond
		},
	}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			calls := 0
			got, err := Execute(context.Background(), client, func(context.Context) (int, error) {
				calls++
				if calls == 1 {
					return 0, &HTTPError{StatusCode: 500}
				}
				return calls, nil
			})
			assert.NoError(t, err)
			assert.Equal(t, 2, got)
		}()
	}
	wg.Wait()

	assert.Equal(t, 8, waits)
}
