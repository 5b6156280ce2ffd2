package auth

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/posterplay/auth-service/internal/errors"
)

// Controller owns the session state machine. Construct one at startup and
// hand it to consumers by reference; all mutation goes through CheckAuth,
// the login methods, and Logout.
type Controller struct {
	api    API
	logger zerolog.Logger

	group singleflight.Group

	mu       sync.RWMutex
	session  Session
	provider MusicKitProvider

	initOnce sync.Once
}

// NewController creates a Controller in the uninitialized state.
func NewController(api API, logger zerolog.Logger) *Controller {
	return &Controller{
		api:     api,
		logger:  logger,
		session: Session{State: StateUninitialized},
	}
}

// Session returns a snapshot of the current session.
func (c *Controller) Session() Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// InitMusicKit performs the one-time bounded poll for the MusicKit SDK.
// When the deadline passes without the SDK appearing, Apple Music login
// stays unavailable and Spotify login is unaffected. Safe to call more than
// once; only the first call polls.
func (c *Controller) InitMusicKit(ctx context.Context, probe func() MusicKitProvider) {
	c.initOnce.Do(func() {
		p := waitForProvider(ctx, probe, providerPollInterval, providerPollTimeout)
		c.mu.Lock()
		c.provider = p
		c.mu.Unlock()
		if p == nil {
			c.logger.Warn().Msg("musickit sdk did not become available, apple music login disabled")
		}
	})
}

// CheckAuth resolves the current session from the server. Concurrent calls
// share one underlying session read: at most one request is outstanding at
// any time, and every caller observes the same outcome. An unauthenticated
// answer is an expected state, not a failure; any other error degrades to
// anonymous and is logged here rather than re-thrown.
func (c *Controller) CheckAuth(ctx context.Context) Session {
	v, _, _ := c.group.Do("session-check", func() (interface{}, error) {
		c.setState(Session{State: StateChecking})

		info, err := c.api.CurrentSession(ctx)
		switch {
		case err == nil:
			session := Session{State: StateAuthenticated, Platform: info.Platform, User: info.User}
			c.setState(session)
			return session, nil
		case errors.Is(err, errors.ErrUnauthenticated):
			session := Session{State: StateAnonymous}
			c.setState(session)
			return session, nil
		default:
			c.logger.Err(err).Msg("session check failed")
			session := Session{State: StateAnonymous}
			c.setState(session)
			return session, nil
		}
	})
	return v.(Session)
}

// LoginWithSpotify returns the provider login URL for the browser to follow.
// Pure redirect: no local state changes until the callback lands and a
// subsequent CheckAuth observes the new cookies.
func (c *Controller) LoginWithSpotify() string {
	return c.api.LoginURL()
}

// LoginWithAppleMusic runs Apple's authorization flow, stores the resulting
// user token server-side, and re-checks the session so local state matches
// the new cookies.
func (c *Controller) LoginWithAppleMusic(ctx context.Context) (Session, error) {
	c.mu.RLock()
	provider := c.provider
	c.mu.RUnlock()

	if provider == nil {
		return c.Session(), errors.Wrapf(errors.ErrPlatformUnavailable, "musickit sdk not loaded")
	}

	userToken, err := provider.Authorize(ctx)
	if err != nil {
		return c.Session(), errors.Wrapf(errors.ErrAuthorizationDenied, "musickit authorize: %s", err.Error())
	}
	if userToken == "" {
		return c.Session(), errors.Wrapf(errors.ErrAuthorizationDenied, "musickit returned an empty user token")
	}

	if err := c.api.StoreAppleMusicToken(ctx, userToken); err != nil {
		return c.Session(), errors.Wrapf(err, "failed to store apple music token")
	}

	return c.CheckAuth(ctx), nil
}

// Logout calls the logout endpoint and resets local state. Local state is
// cleared even when the network call fails; the transport error is still
// returned so callers can surface it.
func (c *Controller) Logout(ctx context.Context) error {
	err := c.api.Logout(ctx)
	c.setState(Session{State: StateAnonymous})
	if err != nil {
		return errors.Wrapf(err, "logout request failed")
	}
	return nil
}

func (c *Controller) setState(s Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
}
