package resilient

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Client executes request functions through a retry policy. Each call
// to Execute is an independent sequential state machine; the client
// itself holds no per-request state and is safe for concurrent use.
type Client struct {
	policy Policy
	logger *zap.Logger
}

// NewClient constructs a Client with the given policy. A nil logger
// disables logging.
func NewClient(policy Policy, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{policy: policy, logger: logger}
}

// Policy returns the client's retry policy.
func (c *Client) Policy() Policy {
	return c.policy
}

// Execute invokes fn, retrying per the client's policy. Attempts are
// strictly sequential: attempt N+1 never starts before attempt N has
// failed and the full backoff delay has elapsed. The wait is abortable
// through ctx; once ctx is cancelled no further attempts are issued.
// On success the payload is returned immediately. On terminal failure
// the returned error is always a *NormalizedError.
func Execute[T any](ctx context.Context, c *Client, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, Normalize(err)
		}

		payload, err := fn(ctx)
		if err == nil {
			return payload, nil
		}

		ne := Normalize(err)
		if !c.policy.ShouldRetry(ne, attempt) {
			// A retryable failure that ran out of attempts gets the
			// exhaustion recorded in its message.
			if retryableKind(ne) && attempt >= c.policy.MaxAttempts {
				ne.Message = fmt.Sprintf("%s (gave up after %d attempts)", ne.Message, attempt+1)
			}
			c.logger.Error("request failed",
				zap.String("kind", string(ne.Kind)),
				zap.Int("status", ne.Status),
				zap.Int("attempts", attempt+1),
				zap.Error(ne.Cause),
			)
			return zero, ne
		}

		delay := c.policy.DelayFor(attempt)
		c.logger.Warn("request failed, retrying",
			zap.String("kind", string(ne.Kind)),
			zap.Int("status", ne.Status),
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
		)

		if err := sleep(ctx, delay); err != nil {
			return zero, Normalize(err)
		}
	}
}

// sleep waits for the given duration or until ctx is cancelled,
// whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
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
