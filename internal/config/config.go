package config

type Config interface {
	EnvConfig
	CorsConfig
	SpotifyConfig
	AppleMusicConfig
	SecurityConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetAppURL() string
	GetEnv() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	Spotify
	AppleMusic
	Security
}

func New() Config {
	return mainConfig{}
}
