package resilient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShouldRetryNetwork(t *testing.T) {
	p := GenericProfile()
	ne := &NormalizedError{Kind: KindNetwork, Message: "network down"}

	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		assert.True(t, p.ShouldRetry(ne, attempt), "attempt %d", attempt)
	}
	assert.False(t, p.ShouldRetry(ne, p.MaxAttempts))
	assert.False(t, p.ShouldRetry(ne, p.MaxAttempts+5))
}

func TestShouldRetryUpstream(t *testing.T) {
	p := GenericProfile()

	tests := []struct {
		name   string
		status int
		want   bool
	}{
		{"500 retries", 500, true},
		{"502 retries", 502, true},
		{"503 retries", 503, true},
		{"400 never", 400, false},
		{"404 never", 404, false},
		{"429 never", 429, false},
		{"499 never", 499, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ne := &NormalizedError{Kind: KindUpstreamAPI, Status: tt.status}
			assert.Equal(t, tt.want, p.ShouldRetry(ne, 0))
		})
	}
}

func TestShouldRetryTerminalKinds(t *testing.T) {
	p := GenericProfile()
	assert.False(t, p.ShouldRetry(&NormalizedError{Kind: KindValidation}, 0))
	assert.False(t, p.ShouldRetry(&NormalizedError{Kind: KindUnknown}, 0))
	assert.False(t, p.ShouldRetry(nil, 0))
}

func TestColdStartProfile(t *testing.T) {
	p := ColdStartProfile()
	assert.Equal(t, 10, p.MaxAttempts)
	// Flat delay on every attempt, first retry included.
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		assert.Equal(t, 5*time.Second, p.DelayFor(attempt))
	}
}

func TestGenericProfileBackoff(t *testing.T) {
	p := GenericProfile()
	assert.Equal(t, 3, p.MaxAttempts)
	assert.Equal(t, 1*time.Second, p.DelayFor(0))
	assert.Equal(t, 2*time.Second, p.DelayFor(1))
	assert.Equal(t, 4*time.Second, p.DelayFor(2))
}

func TestDelayForNilDelay(t *testing.T) {
	p := Policy{MaxAttempts: 1}
	assert.Equal(t, time.Duration(0), p.DelayFor(0))
}
