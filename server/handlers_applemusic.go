package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/posterplay/auth-service/internal/errors"
	"github.com/posterplay/auth-service/token/applemusic"
)

// DeveloperToken issues a signed MusicKit developer token. A missing signing
// identity surfaces as a generic "not configured" message; which variable is
// absent stays in the server log.
func (s *Server) DeveloperToken() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		token, err := s.appleTokens.GenerateDeveloperToken()
		if err != nil {
			log.Err(err).Msg("developer token generation failed")
			if errors.Is(err, errors.ErrNotConfigured) {
				writeJSONError(w, "Apple Music is not configured", http.StatusInternalServerError)
				return
			}
			writeJSONError(w, "Failed to generate developer token", http.StatusInternalServerError)
			return
		}

		writeJSON(w, map[string]string{"token": token}, http.StatusOK)
	}
}

// StoreToken persists the MusicKit user token the browser obtained from
// Apple's authorization flow. A mismatched Origin header is rejected before
// the body is read: the endpoint mutates cookies, so it only serves its own
// frontend.
func (s *Server) StoreToken() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if origin := r.Header.Get("Origin"); origin != "" && origin != s.config.GetStoreTokenOrigin() {
			writeJSONError(w, "Invalid origin", http.StatusForbidden)
			return
		}

		var body struct {
			MusicUserToken string `json:"musicUserToken"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.MusicUserToken == "" {
			writeJSONError(w, "Music user token is required", http.StatusBadRequest)
			return
		}

		if !applemusic.IsValidUserToken(body.MusicUserToken) {
			writeJSONError(w, "Invalid music user token", http.StatusBadRequest)
			return
		}

		s.cookies.SetAppleMusicCookies(w, r, body.MusicUserToken)
		writeJSON(w, map[string]bool{"success": true}, http.StatusOK)
	}
}
