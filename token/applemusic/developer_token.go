// Package applemusic signs and validates the tokens MusicKit needs: the
// short-lived ES256 developer JWT the server issues, and the opaque user token
// the browser hands back after Apple's authorization flow.
package applemusic

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/posterplay/auth-service/internal/config"
	"github.com/posterplay/auth-service/internal/errors"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Creator builds and signs developer tokens for the configured team identity.
type Creator struct {
	config config.AppleMusicConfig
}

// NewCreator creates a new developer-token creator.
func NewCreator(cfg config.AppleMusicConfig) *Creator {
	return &Creator{config: cfg}
}

// GenerateDeveloperToken signs a developer JWT with issuer, issued-at, and
// expiry claims. It fails with errors.ErrNotConfigured when any of the signing
// key, key id, or team id is absent; callers map that to a generic response
// without naming the missing variable.
func (c *Creator) GenerateDeveloperToken() (string, error) {
	keyPEM := c.config.GetAppleMusicPrivateKey()
	keyID := c.config.GetAppleMusicKeyID()
	teamID := c.config.GetAppleMusicTeamID()
	if keyPEM == "" || keyID == "" || teamID == "" {
		return "", errors.Wrapf(errors.ErrNotConfigured, "apple music signing identity")
	}

	privateKey, err := LoadECPrivateKeyFromPEM(keyPEM)
	if err != nil {
		return "", fmt.Errorf("failed to load apple music signing key: %w", err)
	}

	now := NowTimeFunc()
	claims := jwtlib.MapClaims{
		"iss": teamID,
		"iat": now.Unix(),
		"exp": now.Add(c.config.GetDeveloperTokenTTL()).Unix(),
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodES256, claims)
	token.Header["kid"] = keyID

	signedToken, err := token.SignedString(privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign developer token: %w", err)
	}
	return signedToken, nil
}

// VerifyDeveloperToken parses a developer token against the team's public
// signing identity and checks the standard time claims. Used by tests and
// diagnostics; MusicKit performs its own verification on the client.
func (c *Creator) VerifyDeveloperToken(tokenString string) (jwtlib.MapClaims, error) {
	keyPEM := c.config.GetAppleMusicPrivateKey()
	if keyPEM == "" {
		return nil, errors.Wrapf(errors.ErrNotConfigured, "apple music signing identity")
	}
	privateKey, err := LoadECPrivateKeyFromPEM(keyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to load apple music signing key: %w", err)
	}

	claims := jwtlib.MapClaims{}
	_, err = jwtlib.ParseWithClaims(tokenString, claims, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodECDSA); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return &privateKey.PublicKey, nil
	}, jwtlib.WithIssuer(c.config.GetAppleMusicTeamID()), jwtlib.WithExpirationRequired())
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidToken, "developer token verification: %s", err.Error())
	}
	return claims, nil
}

// LoadECPrivateKeyFromPEM loads the PKCS#8 EC private key Apple issues for
// MusicKit (.p8 files are PKCS#8-wrapped P-256 keys).
func LoadECPrivateKeyFromPEM(pemData string) (*ecdsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(pemData))
	if block == nil {
		return nil, fmt.Errorf("failed to decode PEM block")
	}

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PKCS#8 private key: %w", err)
	}

	ecKey, ok := key.(*ecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("private key is not an EC key")
	}
	return ecKey, nil
}
