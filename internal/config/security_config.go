package config

import "time"

type SecurityConfig interface {
	GetStoreTokenOrigin() string
	GetRefreshTokenMaxAge() time.Duration
	GetUserTokenMaxAge() time.Duration
}

type Security struct{}

var _ SecurityConfig = Security{}

// GetStoreTokenOrigin returns the origin the store-token endpoint accepts.
// Requests carrying a different Origin header are rejected.
func (Security) GetStoreTokenOrigin() string {
	return GetEnv("STORE_TOKEN_ORIGIN", EnvVars{}.GetAppURL())
}

func (Security) GetRefreshTokenMaxAge() time.Duration {
	return 30 * 24 * time.Hour
}

// Apple Music user tokens stay valid for months; the cookie mirrors that.
func (Security) GetUserTokenMaxAge() time.Duration {
	return 180 * 24 * time.Hour
}
