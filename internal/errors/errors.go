package errors

import (
	"errors"
	"fmt"
)

// Common error types for the auth service
var (
	// Configuration errors
	ErrNotConfigured = errors.New("not configured")

	// Token errors
	ErrTokenExchange = errors.New("token exchange failed")
	ErrInvalidToken  = errors.New("invalid token")
	ErrTokenExpired  = errors.New("token expired")

	// Session errors
	ErrUnauthenticated = errors.New("not authenticated")

	// Rate limiting
	ErrRateLimited = errors.New("rate limit exceeded")

	// Client-side platform errors
	ErrPlatformUnavailable = errors.New("platform unavailable")
	ErrAuthorizationDenied = errors.New("authorization denied")

	// Input errors
	ErrValidation    = errors.New("validation failed")
	ErrInvalidOrigin = errors.New("invalid origin")

	// General errors
	ErrNotFound = errors.New("not found")
	ErrInternal = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
