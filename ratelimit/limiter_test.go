package ratelimit

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestLimiter(start time.Time) (*Limiter, *time.Time) {
	now := start
	l := New()
	l.now = func() time.Time { return now }
	return l, &now
}

func TestLimiter_Consume(t *testing.T) {
	preset := Preset{Window: 60 * time.Second, MaxRequests: 3}
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("allows up to max within window", func(t *testing.T) {
		l, _ := newTestLimiter(start)
		for i := 0; i < preset.MaxRequests; i++ {
			require.True(t, l.Consume("client-a", preset).Allowed, "request %d", i+1)
		}
	})

	t.Run("rejects request max+1 with retry-after", func(t *testing.T) {
		l, now := newTestLimiter(start)
		for i := 0; i < preset.MaxRequests; i++ {
			l.Consume("client-a", preset)
		}
		*now = start.Add(10 * time.Second)
		d := l.Consume("client-a", preset)
		require.False(t, d.Allowed)
		require.Equal(t, 50*time.Second, d.RetryAfter)
	})

	t.Run("resets after the window elapses", func(t *testing.T) {
		l, now := newTestLimiter(start)
		for i := 0; i <= preset.MaxRequests; i++ {
			l.Consume("client-a", preset)
		}
		*now = start.Add(preset.Window)
		require.True(t, l.Consume("client-a", preset).Allowed)
	})

	t.Run("keys are independent", func(t *testing.T) {
		l, _ := newTestLimiter(start)
		for i := 0; i <= preset.MaxRequests; i++ {
			l.Consume("client-a", preset)
		}
		require.False(t, l.Consume("client-a", preset).Allowed)
		require.True(t, l.Consume("client-b", preset).Allowed)
	})

	t.Run("relaxed preset allows 20 then rejects the 21st", func(t *testing.T) {
		l, _ := newTestLimiter(start)
		for i := 0; i < Relaxed.MaxRequests; i++ {
			require.True(t, l.Consume("client-a", Relaxed).Allowed, "request %d", i+1)
		}
		require.False(t, l.Consume("client-a", Relaxed).Allowed)
	})
}

func TestLimiter_ConcurrentConsume(t *testing.T) {
	preset := Preset{Window: 60 * time.Second, MaxRequests: 50}
	l := New()

	done := make(chan Decision, 100)
	for i := 0; i < 100; i++ {
		go func() { done <- l.Consume("shared", preset) }()
	}

	allowed := 0
	for i := 0; i < 100; i++ {
		if d := <-done; d.Allowed {
			allowed++
		}
	}
	require.Equal(t, preset.MaxRequests, allowed)
}

func TestLimiter_Prune(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l, now := newTestLimiter(start)
	preset := Preset{Window: time.Second, MaxRequests: 1}

	for i := 0; i < 1100; i++ {
		l.Consume(fmt.Sprintf("client-%d", i), preset)
	}
	*now = start.Add(time.Minute)
	l.Consume("fresh", preset)

	l.mu.Lock()
	remaining := len(l.windows)
	l.mu.Unlock()
	require.Less(t, remaining, 1100)
}
