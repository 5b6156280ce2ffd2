// Package spotify exchanges and refreshes Spotify OAuth2 tokens and reads the
// current user's profile. It is the only part of the service that talks to
// Spotify; everything else sees TokenBundle values and UserProfile structs.
package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/posterplay/auth-service/internal/config"
	"github.com/posterplay/auth-service/internal/errors"
)

const (
	defaultAuthURL  = "https://accounts.spotify.com/authorize"
	defaultTokenURL = "https://accounts.spotify.com/api/token"
	defaultAPIURL   = "https://api.spotify.com/v1"

	// Spotify's Web API tolerates far more, but the auth service only ever
	// fetches profiles, so a small steady rate is plenty.
	apiRequestsPerSecond = 10
)

// TokenBundle pairs an access/refresh token with its expiry. ExpiresAt is
// always derived from issuance time plus the server-reported TTL.
type TokenBundle struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// ExpiresIn returns the bundle's remaining validity in whole seconds,
// clamped at zero.
func (b TokenBundle) ExpiresIn(now time.Time) int {
	secs := int(b.ExpiresAt.Sub(now).Seconds())
	if secs < 0 {
		return 0
	}
	return secs
}

// UserProfile is the Spotify profile subset the session endpoints expose.
type UserProfile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email,omitempty"`
}

// Client talks to Spotify's accounts service and Web API.
type Client struct {
	conf       *oauth2.Config
	apiURL     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option adjusts a Client. Used to point the client at test servers and to
// swap the transport.
type Option func(*Client)

// WithEndpoints overrides the accounts-service and Web API base URLs.
func WithEndpoints(authURL, tokenURL, apiURL string) Option {
	return func(c *Client) {
		c.conf.Endpoint = oauth2.Endpoint{AuthURL: authURL, TokenURL: tokenURL}
		c.apiURL = apiURL
	}
}

// WithHTTPClient overrides the HTTP client used for Web API calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a Spotify client from the configured OAuth2 credentials.
func New(cfg config.SpotifyConfig, opts ...Option) (*Client, error) {
	if cfg.GetSpotifyClientID() == "" || cfg.GetSpotifyClientSecret() == "" {
		return nil, errors.Wrapf(errors.ErrNotConfigured, "spotify client credentials")
	}

	c := &Client{
		conf: &oauth2.Config{
			ClientID:     cfg.GetSpotifyClientID(),
			ClientSecret: cfg.GetSpotifyClientSecret(),
			RedirectURL:  cfg.GetSpotifyRedirectURI(),
			Scopes:       cfg.GetSpotifyScopes(),
			Endpoint: oauth2.Endpoint{
				AuthURL:  defaultAuthURL,
				TokenURL: defaultTokenURL,
			},
		},
		apiURL:     defaultAPIURL,
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Limit(apiRequestsPerSecond), 1),
	}

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// AuthCodeURL returns the provider login URL for the authorization-code flow.
func (c *Client) AuthCodeURL(state string) string {
	return c.conf.AuthCodeURL(state)
}

// ExchangeCode swaps an authorization code for a token bundle. The exchange is
// at-most-once: an ambiguous network failure must not be retried blindly since
// a partial success could already have consumed the code.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*TokenBundle, error) {
	token, err := c.conf.Exchange(ctx, code)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrTokenExchange, "authorization code exchange: %s", err.Error())
	}
	return bundleFromToken(token, ""), nil
}

// Refresh obtains a fresh access token using a refresh grant. Spotify does not
// normally rotate refresh tokens; when the response omits one, the original is
// carried forward in the returned bundle.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenBundle, error) {
	if refreshToken == "" {
		return nil, errors.Wrapf(errors.ErrValidation, "refresh token is required")
	}
	ts := c.conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := ts.Token()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrTokenExchange, "refresh grant: %s", err.Error())
	}
	return bundleFromToken(token, refreshToken), nil
}

// CurrentUser fetches the profile of the user the access token belongs to.
// The token is not validated locally; Spotify's 401 is the trust decision.
func (c *Client) CurrentUser(ctx context.Context, accessToken string) (*UserProfile, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/me", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profile request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, errors.Wrapf(errors.ErrInvalidToken, "spotify rejected access token (status %d)", resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("spotify API error: status %d", resp.StatusCode)
	}

	var profile UserProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	return &profile, nil
}

func bundleFromToken(token *oauth2.Token, previousRefreshToken string) *TokenBundle {
	bundle := &TokenBundle{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}
	if bundle.RefreshToken == "" {
		bundle.RefreshToken = previousRefreshToken
	}
	return bundle
}
