package auth

import (
	"context"
	"time"
)

// MusicKitProvider abstracts the externally loaded MusicKit SDK. Authorize
// runs Apple's user-consent flow and returns the opaque user token.
type MusicKitProvider interface {
	Authorize(ctx context.Context) (string, error)
}

const (
	providerPollInterval = 100 * time.Millisecond
	providerPollTimeout  = 5 * time.Second
)

// waitForProvider polls probe on a fixed interval until it yields a provider
// or the deadline passes. The SDK arrives via an external script, so it may
// become available at any point after startup or never. A nil result flags
// the capability unavailable; it is not an error.
func waitForProvider(ctx context.Context, probe func() MusicKitProvider, interval, timeout time.Duration) MusicKitProvider {
	if p := probe(); p != nil {
		return p
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if p := probe(); p != nil {
				return p
			}
		}
	}
}
