package config

type SpotifyConfig interface {
	GetSpotifyClientID() string
	GetSpotifyClientSecret() string
	GetSpotifyRedirectURI() string
	GetSpotifyScopes() []string
}

type Spotify struct{}

var _ SpotifyConfig = Spotify{}

func (Spotify) GetSpotifyClientID() string {
	return GetEnv("SPOTIFY_CLIENT_ID", "")
}

func (Spotify) GetSpotifyClientSecret() string {
	return GetEnv("SPOTIFY_CLIENT_SECRET", "")
}

func (Spotify) GetSpotifyRedirectURI() string {
	return GetEnv("SPOTIFY_REDIRECT_URI", "http://localhost:8080/api/auth/spotify/callback")
}

func (Spotify) GetSpotifyScopes() []string {
	return []string{
		"user-read-private",
		"user-read-email",
		"playlist-modify-public",
		"playlist-modify-private",
	}
}
