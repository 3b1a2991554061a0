package scrape

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldRetryStatus(t *testing.T) {
	assert.True(t, ShouldRetryStatus(429))
	assert.True(t, ShouldRetryStatus(503))
	assert.True(t, ShouldRetryStatus(522))
	assert.False(t, ShouldRetryStatus(404))
	assert.False(t, ShouldRetryStatus(403))
	assert.False(t, ShouldRetryStatus(200))
}

func TestParseRetryAfter(t *testing.T) {
	assert.Equal(t, 30*time.Second, ParseRetryAfter("30"))
	assert.Equal(t, time.Duration(0), ParseRetryAfter(""))
	assert.Equal(t, time.Duration(0), ParseRetryAfter("Wed, 21 Oct 2026 07:28:00 GMT"))
}

func TestRetrierStopsOnPermanentError(t *testing.T) {
	r := NewRetrier(RetrierOptions{MaxRetries: 5, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond})

	calls := 0
	err := r.Retry(context.Background(), func() error {
		calls++
		return &FetchError{URL: "https://x.example", StatusCode: 404, Err: errors.New("HTTP 404")}
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetrierRetriesTransientErrors(t *testing.T) {
	r := NewRetrier(RetrierOptions{MaxRetries: 5, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond})

	calls := 0
	err := r.Retry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return &RetryableError{Err: errors.New("HTTP 503")}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&RetryableError{Err: errors.New("x")}))
	assert.False(t, IsRetryable(&FetchError{URL: "u", Err: errors.New("x")}))
	assert.False(t, IsRetryable(nil))
}
