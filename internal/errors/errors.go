package errors

import (
	"errors"
	"fmt"
)

// Common error types for the calendar viewer
var (
	// Credential errors
	ErrMalformedCredential = errors.New("malformed credential")
	ErrInvalidCredential   = errors.New("invalid credential")
	ErrMissingEmailClaim   = errors.New("credential has no email claim")

	// Session errors
	ErrNotSignedIn     = errors.New("not signed in")
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")

	// Calendar client errors
	ErrClientNotReady  = errors.New("calendar client not ready")
	ErrClientBootstrap = errors.New("calendar client bootstrap failed")

	// Fetch errors
	ErrFetchInProgress = errors.New("fetch already in progress")
	ErrFetchSuperseded = errors.New("fetch superseded by another sign-in")
	ErrFetchFailed     = errors.New("no events found or an error occurred while fetching events")
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
