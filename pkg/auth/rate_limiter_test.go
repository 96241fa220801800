package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlidingWindowLimiter(t *testing.T) {
	limiter := NewSlidingWindowLimiter(3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := limiter.Allow(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, allowed)

	// Other keys are unaffected
	allowed, err = limiter.Allow(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestSlidingWindowLimiterWindowExpiry(t *testing.T) {
	limiter := NewSlidingWindowLimiter(1, 20*time.Millisecond)
	ctx := context.Background()

	allowed, err := limiter.Allow(ctx, "alice")
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, err = limiter.Allow(ctx, "alice")
	require.NoError(t, err)
	require.False(t, allowed)

	time.Sleep(30 * time.Millisecond)

	allowed, err = limiter.Allow(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestSlidingWindowLimiterReset(t *testing.T) {
	limiter := NewSlidingWindowLimiter(1, time.Minute)
	ctx := context.Background()

	_, err := limiter.Allow(ctx, "alice")
	require.NoError(t, err)

	require.NoError(t, limiter.Reset(ctx, "alice"))

	allowed, err := limiter.Allow(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestAskRateLimiterIsPerInbox(t *testing.T) {
	limiter := NewAskRateLimiter(1)
	ctx := context.Background()

	allowed, err := limiter.Allow(ctx, "bob")
	require.NoError(t, err)
	require.True(t, allowed)

	// Bob's inbox is full for the window, Carol's is not
	allowed, err = limiter.Allow(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = limiter.Allow(ctx, "carol")
	require.NoError(t, err)
	assert.True(t, allowed)
}
