package signal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameRateLimiterSlidingWindow(t *testing.T) {
	rl := NewFrameRateLimiter(2, time.Second)
	require.NotNil(t, rl)
	now := time.Unix(1_700_000_000, 0)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"), "limits are per member")

	now = now.Add(1100 * time.Millisecond)
	assert.True(t, rl.Allow("a"))
}

func TestFrameRateLimiterForget(t *testing.T) {
	rl := NewFrameRateLimiter(1, time.Minute)
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))

	rl.Forget("a")
	assert.True(t, rl.Allow("a"))
}

func TestFrameRateLimiterDisabled(t *testing.T) {
	assert.Nil(t, NewFrameRateLimiter(0, time.Second))
	assert.Nil(t, NewFrameRateLimiter(5, 0))
}
