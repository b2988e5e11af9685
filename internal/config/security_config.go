package config

import (
	"strings"
	"time"
)

// TokenVerification selects how identity tokens posted by the sign-in widget are trusted.
type TokenVerification string

const (
	// VerifyOIDC checks signature, issuer, audience and expiry against the provider's keys.
	VerifyOIDC TokenVerification = "oidc"
	// VerifyNone only decodes the payload. The email claim is then cosmetic.
	VerifyNone TokenVerification = "unverified"
)

type Security struct{}

var _ SecurityConfig = Security{}

func (Security) GetMaxSessionAge() time.Duration {
	return GetDuration("SESSION_MAX_AGE", 12*time.Hour)
}

// GetTokenVerification returns the lower-cased TOKEN_VERIFICATION value. Values other than
// VerifyOIDC and VerifyNone are returned as-is and rejected when the decoder is built.
func (Security) GetTokenVerification() TokenVerification {
	return TokenVerification(strings.ToLower(strings.TrimSpace(GetEnv("TOKEN_VERIFICATION", string(VerifyOIDC)))))
}
