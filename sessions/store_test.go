package sessions_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/posterplay/auth-service/auth"
	"github.com/posterplay/auth-service/internal/config"
	"github.com/posterplay/auth-service/sessions"
)

func newStore() *sessions.Store {
	return sessions.NewStore(config.Security{})
}

// requestWithCookies builds a request carrying whatever cookies the recorded
// response set, the way a browser would on its next call.
func requestWithCookies(t *testing.T, rec *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge >= 0 {
			req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
		}
	}
	return req
}

func TestStore_SpotifyRoundTrip(t *testing.T) {
	store := newStore()

	rec := httptest.NewRecorder()
	store.SetSpotifyCookies(rec, httptest.NewRequest(http.MethodGet, "/", nil), "access-123", "refresh-456", 3600)

	req := requestWithCookies(t, rec)
	token, platform := store.AccessToken(req)
	require.Equal(t, "access-123", token)
	require.Equal(t, auth.PlatformSpotify, platform)
	require.Equal(t, "refresh-456", store.RefreshToken(req))
}

func TestStore_AppleMusicRoundTrip(t *testing.T) {
	store := newStore()

	rec := httptest.NewRecorder()
	store.SetAppleMusicCookies(rec, httptest.NewRequest(http.MethodGet, "/", nil), "music-user-token-abc123")

	token, platform := store.AccessToken(requestWithCookies(t, rec))
	require.Equal(t, "music-user-token-abc123", token)
	require.Equal(t, auth.PlatformAppleMusic, platform)
}

func TestStore_AccessToken(t *testing.T) {
	store := newStore()

	t.Run("no cookies", func(t *testing.T) {
		token, platform := store.AccessToken(httptest.NewRequest(http.MethodGet, "/", nil))
		require.Empty(t, token)
		require.Equal(t, auth.PlatformNone, platform)
	})

	t.Run("spotify wins when both platforms are present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "spotify_access_token", Value: "spotify-token"})
		req.AddCookie(&http.Cookie{Name: "apple_music_user_token", Value: "apple-token-1234567890"})

		token, platform := store.AccessToken(req)
		require.Equal(t, "spotify-token", token)
		require.Equal(t, auth.PlatformSpotify, platform)
	})
}

func TestStore_CookieAttributes(t *testing.T) {
	store := newStore()

	t.Run("httpOnly with bounded max age", func(t *testing.T) {
		rec := httptest.NewRecorder()
		store.SetSpotifyCookies(rec, httptest.NewRequest(http.MethodGet, "/", nil), "a", "r", 3600)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 2)
		for _, c := range cookies {
			require.True(t, c.HttpOnly, "cookie %s must be httpOnly", c.Name)
			require.Equal(t, "/", c.Path)
			require.False(t, c.Secure)
		}
		require.Equal(t, 3600, cookies[0].MaxAge)
	})

	t.Run("secure behind TLS termination", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-Proto", "https")

		rec := httptest.NewRecorder()
		store.SetAppleMusicCookies(rec, req, "music-user-token-abc123")
		require.True(t, rec.Result().Cookies()[0].Secure)
	})
}

func TestStore_ClearAll(t *testing.T) {
	store := newStore()

	t.Run("expires every platform cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		store.ClearAll(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 3)
		for _, c := range cookies {
			require.Empty(t, c.Value)
			require.Negative(t, c.MaxAge)
		}
	})

	t.Run("idempotent whether or not cookies were ever set", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		never := httptest.NewRecorder()
		store.ClearAll(never, req)

		after := httptest.NewRecorder()
		store.SetSpotifyCookies(after, req, "a", "r", 3600)
		afterClear := httptest.NewRecorder()
		store.ClearAll(afterClear, req)

		require.Equal(t, never.Header()["Set-Cookie"], afterClear.Header()["Set-Cookie"])
	})
}

func TestStore_ClearSpotifyLeavesAppleMusic(t *testing.T) {
	store := newStore()

	rec := httptest.NewRecorder()
	store.ClearSpotify(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	for _, c := range rec.Result().Cookies() {
		require.NotEqual(t, "apple_music_user_token", c.Name)
	}
}
