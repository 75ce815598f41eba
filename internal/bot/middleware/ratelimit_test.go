package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time         { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(t *testing.T, limit int, window time.Duration) (*RateLimiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(limit, window)
	rl.now = clock.Now
	t.Cleanup(rl.Close)
	return rl, clock
}

func TestRateLimiter_Allow(t *testing.T) {
	t.Run("blocks over limit within window", func(t *testing.T) {
		rl, clock := newTestLimiter(t, 3, time.Minute)

		for i := 0; i < 3; i++ {
			require.True(t, rl.Allow(1), "request %d", i)
			clock.Advance(time.Second)
		}
		require.False(t, rl.Allow(1))
	})

	t.Run("window slides", func(t *testing.T) {
		rl, clock := newTestLimiter(t, 2, time.Minute)

		require.True(t, rl.Allow(1))
		clock.Advance(30 * time.Second)
		require.True(t, rl.Allow(1))
		require.False(t, rl.Allow(1))

		clock.Advance(31 * time.Second)
		require.True(t, rl.Allow(1), "first request left the window")
		require.False(t, rl.Allow(1))
	})

	t.Run("users are independent", func(t *testing.T) {
		rl, _ := newTestLimiter(t, 1, time.Minute)

		require.True(t, rl.Allow(1))
		require.False(t, rl.Allow(1))
		require.True(t, rl.Allow(2))
	})

	t.Run("rejected requests are not counted", func(t *testing.T) {
		rl, clock := newTestLimiter(t, 1, time.Minute)

		require.True(t, rl.Allow(1))
		for i := 0; i < 10; i++ {
			clock.Advance(5 * time.Second)
			require.False(t, rl.Allow(1))
		}
		clock.Advance(11 * time.Second)
		require.True(t, rl.Allow(1))
	})
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl, clock := newTestLimiter(t, 5, time.Minute)

	rl.Allow(1)
	clock.Advance(40 * time.Second)
	rl.Allow(2)
	require.Equal(t, 2, rl.Tracked())

	clock.Advance(30 * time.Second)
	rl.Cleanup()
	require.Equal(t, 1, rl.Tracked())

	clock.Advance(time.Minute)
	rl.Cleanup()
	require.Zero(t, rl.Tracked())
}

func TestRateLimiter_CloseIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(1, time.Second)
	rl.Close()
	rl.Close()
}
