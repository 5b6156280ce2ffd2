// Package sessions encodes platform tokens into httpOnly cookies and reads
// them back. Cookies are the only persisted session state: the server never
// keeps a session table, so every request is judged by what the browser
// presents.
package sessions

import (
	"net/http"
	"time"

	"github.com/posterplay/auth-service/auth"
	"github.com/posterplay/auth-service/internal/config"
)

const (
	spotifyAccessTokenCookie  = "spotify_access_token"
	spotifyRefreshTokenCookie = "spotify_refresh_token"
	appleMusicUserTokenCookie = "apple_music_user_token"
)

// Store writes and clears the per-platform auth cookies.
type Store struct {
	refreshMaxAge   time.Duration
	userTokenMaxAge time.Duration
}

// NewStore creates a cookie store with the configured long-lived cookie ages.
func NewStore(cfg config.SecurityConfig) *Store {
	return &Store{
		refreshMaxAge:   cfg.GetRefreshTokenMaxAge(),
		userTokenMaxAge: cfg.GetUserTokenMaxAge(),
	}
}

// SetSpotifyCookies persists a Spotify token pair. The access cookie expires
// with the token; the refresh cookie outlives it so the session can be
// refreshed transparently.
func (s *Store) SetSpotifyCookies(w http.ResponseWriter, r *http.Request, accessToken, refreshToken string, expiresInSeconds int) {
	setAuthCookie(w, r, spotifyAccessTokenCookie, accessToken, expiresInSeconds)
	if refreshToken != "" {
		setAuthCookie(w, r, spotifyRefreshTokenCookie, refreshToken, int(s.refreshMaxAge.Seconds()))
	}
}

// SetAppleMusicCookies persists the opaque MusicKit user token.
func (s *Store) SetAppleMusicCookies(w http.ResponseWriter, r *http.Request, userToken string) {
	setAuthCookie(w, r, appleMusicUserTokenCookie, userToken, int(s.userTokenMaxAge.Seconds()))
}

// AccessToken returns the current access token and its platform, regardless
// of which platform the user signed in with. Spotify wins when both
// platforms have live cookies. The token is not validated here; that is the
// downstream API's job when the token is used.
func (s *Store) AccessToken(r *http.Request) (string, auth.Platform) {
	if c, err := r.Cookie(spotifyAccessTokenCookie); err == nil && c.Value != "" {
		return c.Value, auth.PlatformSpotify
	}
	if c, err := r.Cookie(appleMusicUserTokenCookie); err == nil && c.Value != "" {
		return c.Value, auth.PlatformAppleMusic
	}
	return "", auth.PlatformNone
}

// RefreshToken returns the Spotify refresh token, or "" when absent.
func (s *Store) RefreshToken(r *http.Request) string {
	if c, err := r.Cookie(spotifyRefreshTokenCookie); err == nil {
		return c.Value
	}
	return ""
}

// ClearSpotify expires the Spotify cookies.
func (s *Store) ClearSpotify(w http.ResponseWriter, r *http.Request) {
	clearAuthCookie(w, r, spotifyAccessTokenCookie)
	clearAuthCookie(w, r, spotifyRefreshTokenCookie)
}

// ClearAppleMusic expires the Apple Music cookie.
func (s *Store) ClearAppleMusic(w http.ResponseWriter, r *http.Request) {
	clearAuthCookie(w, r, appleMusicUserTokenCookie)
}

// ClearAll expires every platform's cookies. Logout is unconditionally
// idempotent: clearing cookies that were never set produces the same
// response headers as clearing ones that were.
func (s *Store) ClearAll(w http.ResponseWriter, r *http.Request) {
	s.ClearSpotify(w, r)
	s.ClearAppleMusic(w, r)
}

func setAuthCookie(w http.ResponseWriter, r *http.Request, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

func clearAuthCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
}

func isSecure(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return r.Header.Get("X-Forwarded-Proto") == "https"
}
