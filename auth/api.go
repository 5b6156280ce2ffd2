package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/posterplay/auth-service/internal/errors"
)

// SessionInfo is the session-read endpoint's answer: which platform is
// active and, when the platform exposes one, the user's profile.
type SessionInfo struct {
	Platform Platform      `json:"platform"`
	User     *UserIdentity `json:"user"`
}

// API is the controller's view of the auth endpoints. Implementations return
// errors.ErrUnauthenticated for an expected "not signed in" answer and
// *APIError for anything else the server said.
type API interface {
	// CurrentSession reads the session the browser's cookies represent.
	CurrentSession(ctx context.Context) (*SessionInfo, error)
	// StoreAppleMusicToken forwards a MusicKit user token for cookie storage.
	StoreAppleMusicToken(ctx context.Context, userToken string) error
	// Logout clears every platform's cookies.
	Logout(ctx context.Context) error
	// LoginURL returns the browser entry point for the Spotify flow.
	LoginURL() string
}

// StatusClass buckets an HTTP failure so callers branch on a closed set of
// kinds instead of inspecting response shapes.
type StatusClass int

const (
	StatusClassClientError StatusClass = iota
	StatusClassServerError
)

// APIError is a non-2xx answer from the auth endpoints.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("auth api error: status %d: %s", e.StatusCode, e.Message)
}

// Class reports whether the server blamed the request or itself.
func (e *APIError) Class() StatusClass {
	if e.StatusCode >= 500 {
		return StatusClassServerError
	}
	return StatusClassClientError
}

// Is lets errors.Is treat a 401 as the expected unauthenticated outcome.
func (e *APIError) Is(target error) bool {
	return target == errors.ErrUnauthenticated && e.StatusCode == http.StatusUnauthorized
}

// HTTPAPI calls the auth endpoints over HTTP. It is the transport behind the
// Controller when the controller runs in a different process than the server.
type HTTPAPI struct {
	BaseURL    string
	HTTPClient *http.Client
}

var _ API = (*HTTPAPI)(nil)

// NewHTTPAPI creates an API client rooted at baseURL.
func NewHTTPAPI(baseURL string) *HTTPAPI {
	return &HTTPAPI{BaseURL: baseURL, HTTPClient: http.DefaultClient}
}

func (a *HTTPAPI) LoginURL() string {
	return a.BaseURL + "/api/auth/login"
}

func (a *HTTPAPI) CurrentSession(ctx context.Context) (*SessionInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.BaseURL+"/api/auth/me", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("session read failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiErrorFromResponse(resp)
	}

	var info SessionInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &info, nil
}

func (a *HTTPAPI) StoreAppleMusicToken(ctx context.Context, userToken string) error {
	body, err := json.Marshal(map[string]string{"musicUserToken": userToken})
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.BaseURL+"/api/auth/apple-music/store-token", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("store token failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiErrorFromResponse(resp)
	}
	return nil
}

func (a *HTTPAPI) Logout(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL+"/api/auth/logout", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiErrorFromResponse(resp)
	}
	return nil
}

func apiErrorFromResponse(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return &APIError{StatusCode: resp.StatusCode, Message: body.Error}
}
