package github

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultRateLimiterConfig(t *testing.T) {
	config := DefaultRateLimiterConfig()

	assert.Equal(t, time.Duration(0), config.BaseDelay)
	assert.Equal(t, 30*time.Second, config.MaxDelay)
	assert.Equal(t, 0.1, config.Jitter)
	assert.Equal(t, 100, config.MinRemainingRequests)
	assert.Equal(t, 2*time.Second, config.AggressiveThrottleDelay)
}

func TestRateLimiter_Wait(t *testing.T) {
	t.Run("no delay when rate limit is healthy", func(t *testing.T) {
		limiter := NewRateLimiter(nil)
		limiter.UpdateLimits(4000, int(time.Now().Add(time.Hour).Unix()))

		start := time.Now()
		err := limiter.Wait(context.Background())

		assert.NoError(t, err)
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("delay when remaining requests are low", func(t *testing.T) {
		config := &RateLimiterConfig{
			MaxDelay:                30 * time.Second,
			MinRemainingRequests:    100,
			AggressiveThrottleDelay: 200 * time.Millisecond,
		}
		limiter := NewRateLimiter(config)
		limiter.UpdateLimits(50, int(time.Now().Add(time.Hour).Unix()))

		start := time.Now()
		err := limiter.Wait(context.Background())

		assert.NoError(t, err)
		assert.Greater(t, time.Since(start), 50*time.Millisecond)
		assert.Equal(t, int64(1), limiter.GetStats().TotalWaits)
	})

	t.Run("context cancellation", func(t *testing.T) {
		config := &RateLimiterConfig{
			MaxDelay:                30 * time.Second,
			MinRemainingRequests:    100,
			AggressiveThrottleDelay: 10 * time.Second,
		}
		limiter := NewRateLimiter(config)
		limiter.UpdateLimits(10, int(time.Now().Add(time.Hour).Unix()))

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		start := time.Now()
		err := limiter.Wait(ctx)

		assert.Equal(t, context.DeadlineExceeded, err)
		assert.Less(t, time.Since(start), 500*time.Millisecond)
	})

	t.Run("no delay after reset time passed", func(t *testing.T) {
		limiter := NewRateLimiter(nil)
		limiter.UpdateLimits(0, int(time.Now().Add(-time.Minute).Unix()))

		assert.Equal(t, time.Duration(0), limiter.GetDelay())
	})

	t.Run("base delay spaces consecutive calls", func(t *testing.T) {
		config := &RateLimiterConfig{
			BaseDelay:            100 * time.Millisecond,
			MaxDelay:             time.Second,
			MinRemainingRequests: 10,
		}
		limiter := NewRateLimiter(config)
		limiter.UpdateLimits(4000, int(time.Now().Add(time.Hour).Unix()))

		assert.NoError(t, limiter.Wait(context.Background()))
		start := time.Now()
		assert.NoError(t, limiter.Wait(context.Background()))
		assert.Greater(t, time.Since(start), 50*time.Millisecond)
	})
}

func TestRateLimiter_MaxDelayCap(t *testing.T) {
	config := &RateLimiterConfig{
		MaxDelay:                time.Second,
		MinRemainingRequests:    100,
		AggressiveThrottleDelay: time.Minute,
	}
	limiter := NewRateLimiter(config)
	limiter.UpdateLimits(0, int(time.Now().Add(time.Hour).Unix()))

	assert.Equal(t, time.Second, limiter.GetDelay())
}

func TestRateLimiter_UpdateLimits(t *testing.T) {
	limiter := NewRateLimiter(nil)

	resetTime := int(time.Now().Add(time.Hour).Unix())
	limiter.UpdateLimits(1500, resetTime)

	stats := limiter.GetStats()
	assert.Equal(t, 1500, stats.RemainingRequests)
	assert.Equal(t, time.Unix(int64(resetTime), 0), stats.ResetTime)
	assert.Equal(t, time.Duration(0), stats.CurrentDelay)
}
