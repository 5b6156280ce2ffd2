// Package ratelimit provides a fixed-window request throttle keyed by client
// identity. Windows reset at fixed boundaries rather than rolling; a counter
// that would exceed the preset ceiling within the current window rejects the
// request and reports how long the caller should wait.
package ratelimit

import (
	"sync"
	"time"
)

// Preset enumerates a window size and the number of requests it permits.
type Preset struct {
	Window      time.Duration
	MaxRequests int
}

// Presets used by the auth endpoints.
var (
	// Relaxed guards read-mostly endpoints such as developer-token issuance.
	Relaxed = Preset{Window: 60 * time.Second, MaxRequests: 20}
	// Strict guards state-changing endpoints such as token storage.
	Strict = Preset{Window: 60 * time.Second, MaxRequests: 5}
)

// Decision is the limiter's answer for one request. It is a value, never an
// error: the caller decides how a rejection reaches the client.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

type window struct {
	count int
	start time.Time
}

// Limiter tracks one fixed window per client key. All mutation happens under
// a single mutex, so a counter is never lost to a read-modify-write race.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

// New creates a Limiter with an empty window table.
func New() *Limiter {
	return &Limiter{
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Consume records one request for key under the given preset and decides
// whether it may proceed. The first request of a fresh or expired window is
// always allowed.
func (l *Limiter) Consume(key string, preset Preset) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= preset.Window {
		l.windows[key] = &window{count: 1, start: now}
		l.pruneLocked(now, preset.Window)
		return Decision{Allowed: true}
	}

	w.count++
	if w.count > preset.MaxRequests {
		return Decision{
			Allowed:    false,
			RetryAfter: preset.Window - now.Sub(w.start),
		}
	}
	return Decision{Allowed: true}
}

// pruneLocked drops windows that expired long ago so the table does not grow
// with one entry per client forever. Called opportunistically when a new
// window starts; l.mu must be held.
func (l *Limiter) pruneLocked(now time.Time, windowSize time.Duration) {
	if len(l.windows) < 1024 {
		return
	}
	for key, w := range l.windows {
		if now.Sub(w.start) >= 2*windowSize {
			delete(l.windows, key)
		}
	}
}
