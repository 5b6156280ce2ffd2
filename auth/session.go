// Package auth defines the cross-platform session model and the session
// controller that owns it. One Controller instance is the single source of
// truth for "who is the current user"; consumers receive it by reference and
// never mutate session state themselves.
package auth

// Platform identifies which streaming service a session belongs to.
type Platform string

const (
	PlatformNone       Platform = ""
	PlatformSpotify    Platform = "spotify"
	PlatformAppleMusic Platform = "apple_music"
)

// State is the controller's position in its session lifecycle.
type State int

const (
	StateUninitialized State = iota
	StateChecking
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateChecking:
		return "checking"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// UserIdentity is a platform-specific profile. It is immutable once fetched
// and replaced wholesale on re-check, never merged field by field. Apple Music
// exposes no profile API, so an authenticated Apple Music session carries a
// nil identity.
type UserIdentity struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Session is the authenticated identity as observed by the client. It lives
// only in process memory and is rehydrated from cookies through a session
// read on startup.
type Session struct {
	State    State
	Platform Platform
	User     *UserIdentity
}

// Authenticated reports whether the session currently carries an identity.
func (s Session) Authenticated() bool {
	return s.State == StateAuthenticated
}
