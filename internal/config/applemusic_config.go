package config

import "time"

type AppleMusicConfig interface {
	GetAppleMusicPrivateKey() string
	GetAppleMusicKeyID() string
	GetAppleMusicTeamID() string
	GetDeveloperTokenTTL() time.Duration
}

type AppleMusic struct{}

var _ AppleMusicConfig = AppleMusic{}

// GetAppleMusicPrivateKey returns the PKCS#8 PEM-encoded ES256 signing key
// issued for the team's MusicKit identifier.
func (AppleMusic) GetAppleMusicPrivateKey() string {
	return GetEnv("APPLE_MUSIC_PRIVATE_KEY", "")
}

func (AppleMusic) GetAppleMusicKeyID() string {
	return GetEnv("APPLE_MUSIC_KEY_ID", "")
}

func (AppleMusic) GetAppleMusicTeamID() string {
	return GetEnv("APPLE_MUSIC_TEAM_ID", "")
}

func (AppleMusic) GetDeveloperTokenTTL() time.Duration {
	if ttl, err := time.ParseDuration(GetEnv("APPLE_MUSIC_TOKEN_TTL", "")); err == nil && ttl > 0 {
		return ttl
	}
	return 1 * time.Hour
}
