package server

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/posterplay/auth-service/auth"
	"github.com/posterplay/auth-service/internal/errors"
)

const contentTypeJSON = "application/json; charset=utf-8"

// sessionResponse is the body of a successful session read.
type sessionResponse struct {
	Platform auth.Platform      `json:"platform"`
	User     *auth.UserIdentity `json:"user"`
}

// Login redirects the browser to Spotify's authorize endpoint to begin the
// authorization-code flow.
func (s *Server) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		state := generateRandomString(16)
		http.Redirect(w, r, s.spotify.AuthCodeURL(state), http.StatusFound)
	}
}

// SpotifyCallback lands the authorization-code flow: it exchanges the code
// for tokens, persists them as cookies, and sends the browser onward. Every
// failure becomes a query-parameter-driven message on the landing page; raw
// provider errors never reach the client.
func (s *Server) SpotifyCallback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if errorParam := r.URL.Query().Get("error"); errorParam != "" {
			s.redirectToApp(w, r, landingPath+"?error="+url.QueryEscape(errorParam))
			return
		}

		code := r.URL.Query().Get("code")
		if code == "" {
			s.redirectToApp(w, r, landingPath+"?error=missing_code")
			return
		}

		bundle, err := s.spotify.ExchangeCode(r.Context(), code)
		if err != nil {
			log.Err(err).Msg("spotify code exchange failed")
			s.redirectToApp(w, r, landingPath+"?error=auth_failed")
			return
		}

		s.cookies.SetSpotifyCookies(w, r, bundle.AccessToken, bundle.RefreshToken, bundle.ExpiresIn(time.Now()))
		s.redirectToApp(w, r, uploadPath)
	}
}

// Me reads the session the request's cookies represent. A Spotify session
// yields the user's profile; an expired access token is refreshed
// transparently when the refresh cookie survives. Apple Music exposes no
// profile API, so its sessions report the platform with a null user.
func (s *Server) Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		token, platform := s.cookies.AccessToken(r)
		if platform == auth.PlatformNone {
			refreshed, ok := s.refreshSpotifySession(w, r)
			if !ok {
				writeJSONError(w, "Not authenticated", http.StatusUnauthorized)
				return
			}
			token, platform = refreshed, auth.PlatformSpotify
		}

		switch platform {
		case auth.PlatformSpotify:
			profile, err := s.spotify.CurrentUser(r.Context(), token)
			if err != nil {
				if !errors.Is(err, errors.ErrInvalidToken) {
					log.Err(err).Msg("spotify profile fetch failed")
				}
				writeJSONError(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}
			writeJSON(w, sessionResponse{
				Platform: auth.PlatformSpotify,
				User:     &auth.UserIdentity{ID: profile.ID, DisplayName: profile.DisplayName},
			}, http.StatusOK)

		case auth.PlatformAppleMusic:
			writeJSON(w, sessionResponse{Platform: auth.PlatformAppleMusic}, http.StatusOK)
		}
	}
}

// refreshSpotifySession rotates an expired access token using the refresh
// cookie. Returns the new access token, or ok=false when no refresh cookie
// exists or the provider rejected the grant.
func (s *Server) refreshSpotifySession(w http.ResponseWriter, r *http.Request) (string, bool) {
	refreshToken := s.cookies.RefreshToken(r)
	if refreshToken == "" {
		return "", false
	}

	bundle, err := s.spotify.Refresh(r.Context(), refreshToken)
	if err != nil {
		log.Err(err).Msg("spotify token refresh failed")
		return "", false
	}

	s.cookies.SetSpotifyCookies(w, r, bundle.AccessToken, bundle.RefreshToken, bundle.ExpiresIn(time.Now()))
	return bundle.AccessToken, true
}

// Logout clears every platform's cookies. Idempotent: logging out twice, or
// without ever logging in, succeeds the same way.
func (s *Server) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		s.cookies.ClearAll(w, r)
		writeJSON(w, map[string]bool{"success": true}, http.StatusOK)
	}
}

// SpotifyLogout clears only the Spotify cookies, leaving an Apple Music
// session untouched.
func (s *Server) SpotifyLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		s.cookies.ClearSpotify(w, r)
		writeJSON(w, map[string]bool{"success": true}, http.StatusOK)
	}
}

// redirectToApp sends the browser to a path on the web application.
func (s *Server) redirectToApp(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, s.config.GetAppURL()+path, http.StatusFound)
}

// generateRandomString creates a random base64url string
func generateRandomString(length int) string {
	b := make([]byte, length)
	rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

func writeJSON(w http.ResponseWriter, v any, statusCode int) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONError writes an error response with a stable error key
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, map[string]string{"error": message}, statusCode)
}
