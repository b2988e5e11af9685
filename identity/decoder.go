package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-calendar-viewer/internal/errors"
)

// GoogleIssuer is the issuer of identity tokens minted by Google Identity Services.
const GoogleIssuer = "https://accounts.google.com"

// Claims are the identity claims the viewer uses.
type Claims struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// Decoder turns a raw identity token into claims.
type Decoder interface {
	Decode(ctx context.Context, raw string) (Claims, error)
	// Verified reports whether Decode checks the token signature.
	Verified() bool
}

func checkStructure(raw string) error {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return fmt.Errorf("%w: expected 3 segments, got %d", errors.ErrMalformedCredential, len(parts))
	}
	for _, p := range parts[:2] {
		if p == "" {
			return fmt.Errorf("%w: empty segment", errors.ErrMalformedCredential)
		}
	}
	return nil
}

func checkEmail(c Claims) (Claims, error) {
	if strings.TrimSpace(c.Email) == "" {
		return Claims{}, fmt.Errorf("%w: %w", errors.ErrMalformedCredential, errors.ErrMissingEmailClaim)
	}
	return c, nil
}

// OIDCDecoder verifies signature, issuer, audience and expiry before trusting any claim.
type OIDCDecoder struct {
	verifier *oidc.IDTokenVerifier
}

var _ Decoder = (*OIDCDecoder)(nil)

// NewOIDCDecoder discovers the issuer's keys. The discovery document is fetched once; keys
// are refreshed by the remote key set as they rotate.
func NewOIDCDecoder(ctx context.Context, issuer, clientID string) (*OIDCDecoder, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("[identity NewOIDCDecoder] discovering %s: %w", issuer, err)
	}
	return &OIDCDecoder{verifier: provider.Verifier(&oidc.Config{ClientID: clientID})}, nil
}

// NewOIDCDecoderWithKeys builds a decoder over a fixed key set. now may be nil.
func NewOIDCDecoderWithKeys(issuer, clientID string, keys oidc.KeySet, now func() time.Time) *OIDCDecoder {
	return &OIDCDecoder{verifier: oidc.NewVerifier(issuer, keys, &oidc.Config{ClientID: clientID, Now: now})}
}

func (d *OIDCDecoder) Decode(ctx context.Context, raw string) (Claims, error) {
	if err := checkStructure(raw); err != nil {
		return Claims{}, err
	}
	idToken, err := d.verifier.Verify(ctx, raw)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", errors.ErrInvalidCredential, err)
	}
	var c Claims
	if err := idToken.Claims(&c); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", errors.ErrMalformedCredential, err)
	}
	return checkEmail(c)
}

func (d *OIDCDecoder) Verified() bool { return true }

// UnverifiedDecoder only decodes the payload segment. Anyone can mint a token it accepts,
// so the email it yields is a display value, not an authenticated identity.
type UnverifiedDecoder struct {
	parser *jwtlib.Parser
}

var _ Decoder = (*UnverifiedDecoder)(nil)

func NewUnverifiedDecoder() *UnverifiedDecoder {
	return &UnverifiedDecoder{parser: jwtlib.NewParser()}
}

type tokenClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	jwtlib.RegisteredClaims
}

func (d *UnverifiedDecoder) Decode(_ context.Context, raw string) (Claims, error) {
	if err := checkStructure(raw); err != nil {
		return Claims{}, err
	}
	var tc tokenClaims
	if _, _, err := d.parser.ParseUnverified(raw, &tc); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", errors.ErrMalformedCredential, err)
	}
	return checkEmail(Claims{
		Subject:       tc.Subject,
		Email:         tc.Email,
		EmailVerified: tc.EmailVerified,
		Name:          tc.Name,
		Picture:       tc.Picture,
	})
}

func (d *UnverifiedDecoder) Verified() bool { return false }
