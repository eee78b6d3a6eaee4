package resilient

import "time"

// Policy decides whether a failed attempt is retried and how long to
// wait before the next one. Both decisions are pure functions of the
// normalized error and the attempt counter.
type Policy struct {
	// MaxAttempts is the number of retries allowed after the initial
	// attempt. Once attempt == MaxAttempts no retry happens regardless
	// of error kind.
	MaxAttempts int
	// Delay computes the backoff before retry number attempt (0-based).
	Delay func(attempt int) time.Duration
}

// ColdStartProfile tolerates a sleeping backend that can take up to
// ~50s to resume: a flat 5s delay for every retry, up to 10 attempts.
func ColdStartProfile() Policy {
	return Policy{
		MaxAttempts: 10,
		Delay: func(int) time.Duration {
			return 5 * time.Second
		},
	}
}

// GenericProfile is a conventional exponential backoff: 1s base doubled
// per attempt, up to 3 attempts.
func GenericProfile() Policy {
	return Policy{
		MaxAttempts: 3,
		Delay: func(attempt int) time.Duration {
			return time.Second << attempt
		},
	}
}

// ShouldRetry reports whether a failure may be retried at the given
// 0-based attempt. Network failures retry until attempts run out;
// upstream 5xx responses retry; upstream 4xx, validation, and unknown
// failures never retry.
func (p Policy) ShouldRetry(ne *NormalizedError, attempt int) bool {
	if ne == nil || attempt >= p.MaxAttempts {
		return false
	}

	switch ne.Kind {
	case KindNetwork:
		return true
	case KindUpstreamAPI:
		return ne.Status >= 500 && ne.Status < 600
	default:
		return false
	}
}

// DelayFor returns the backoff before retry number attempt.
func (p Policy) DelayFor(attempt int) time.Duration {
	if p.Delay == nil {
		return 0
	}
	return p.Delay(attempt)
}

// retryableKind reports whether the kind is ever eligible for retry.
// Used to annotate exhaustion on the final failure.
func retryableKind(ne *NormalizedError) bool {
	if ne == nil {
		return false
	}
	switch ne.Kind {
	case KindNetwork:
		return true
	case KindUpstreamAPI:
		return ne.Status >= 500 && ne.Status < 600
	}
	return false
}
