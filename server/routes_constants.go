package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Spotify flow. RouteLogin is the legacy entry point kept for existing
	// frontend builds that still link to it.
	RouteLogin           = "/api/auth/login"
	RouteSpotifyCallback = "/api/auth/spotify/callback"

	// Session routes (platform-agnostic)
	RouteMe            = "/api/auth/me"
	RouteLogout        = "/api/auth/logout"
	RouteSpotifyLogout = "/api/auth/spotify/logout"

	// Apple Music flow
	RouteDeveloperToken = "/api/auth/apple-music/developer-token"
	RouteStoreToken     = "/api/auth/apple-music/store-token"
)

// Browser-facing redirect targets on the web application.
const (
	uploadPath  = "/upload"
	landingPath = "/"
)
