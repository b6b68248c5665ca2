package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, max int, window time.Duration) *RateLimiter {
	t.Helper()
	rl := NewRateLimiter(RateLimitConfig{Max: max, Window: window, KeyFn: KeyByIP})
	t.Cleanup(rl.Close)
	return rl
}

func TestRateLimiter_AllowsUpToMax(t *testing.T) {
	rl := newTestLimiter(t, 5, time.Minute)

	for i := range 5 {
		require.True(t, rl.Allow("test-ip"), "request %d should be allowed", i+1)
	}
	assert.False(t, rl.Allow("test-ip"), "6th request should be blocked")
}

func TestRateLimiter_DifferentKeysIndependent(t *testing.T) {
	rl := newTestLimiter(t, 2, time.Minute)

	rl.Allow("ip-a")
	rl.Allow("ip-a")

	assert.False(t, rl.Allow("ip-a"))
	assert.True(t, rl.Allow("ip-b"), "ip-b has its own window")
}

func TestRateLimiter_WindowResets(t *testing.T) {
	rl := newTestLimiter(t, 2, time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.Allow("test")
	rl.Allow("test")
	require.False(t, rl.Allow("test"))

	now = now.Add(time.Minute + time.Second)
	assert.True(t, rl.Allow("test"), "a new window starts after expiry")
}

func TestRateLimiter_SweepDropsExpired(t *testing.T) {
	rl := newTestLimiter(t, 2, time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.Allow("old")
	now = now.Add(2 * time.Minute)
	rl.Allow("fresh")
	rl.sweep()

	assert.NotContains(t, rl.entries, "old")
	assert.Contains(t, rl.entries, "fresh")
}

func TestRateLimiter_CloseIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{Max: 1, Window: time.Second})
	rl.Close()
	rl.Close()
}

func TestRateLimiter_Handler(t *testing.T) {
	rl := newTestLimiter(t, 2, time.Minute)
	app := fiber.New()
	app.Get("/", rl.Handler(), func(c fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for i, want := range []int{fiber.StatusOK, fiber.StatusOK, fiber.StatusTooManyRequests} {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, "request %d", i+1)
		assert.Equal(t, "2", resp.Header.Get("X-RateLimit-Limit"))
		if want == fiber.StatusTooManyRequests {
			assert.Equal(t, "0", resp.Header.Get("X-RateLimit-Remaining"))
			assert.NotEmpty(t, resp.Header.Get(fiber.HeaderRetryAfter))
		}
	}
}

func TestRateLimiter_Presets(t *testing.T) {
	tests := []struct {
		name string
		rl   *RateLimiter
		max  int
	}{
		{"vote", NewVoteRateLimiter(), 30},
		{"insert", NewInsertRateLimiter(), 10},
		{"read", NewReadRateLimiter(), 120},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(tt.rl.Close)
			for i := range tt.max {
				require.True(t, tt.rl.Allow("ip:127.0.0.1"), "request %d should be allowed", i+1)
			}
			assert.False(t, tt.rl.Allow("ip:127.0.0.1"))
		})
	}
}
