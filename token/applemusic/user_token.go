package applemusic

// minUserTokenLength rejects strings too short to be a MusicKit user token
// while staying well clear of Apple's (undocumented) real lengths.
const minUserTokenLength = 20

// IsValidUserToken reports whether a MusicKit user token looks well formed.
// This is a format check only: user tokens are opaque to the server, so any
// deeper trust decision is deferred to Apple Music's API when the token is
// used.
func IsValidUserToken(token string) bool {
	if len(token) < minUserTokenLength {
		return false
	}
	for _, r := range token {
		// Printable ASCII, no whitespace. MusicKit tokens are base64-ish
		// but the exact alphabet is not contractual.
		if r <= ' ' || r > '~' {
			return false
		}
	}
	return true
}
