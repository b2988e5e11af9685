package identity_test

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"testing"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-calendar-viewer/identity"
	"github.com/jrsteele09/go-calendar-viewer/internal/errors"
	"github.com/stretchr/testify/require"
)

const (
	testClientID = "client-123.apps.googleusercontent.com"
	testEmail    = "jane.doe@example.com"
)

var testNow = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

func signToken(t *testing.T, key *rsa.PrivateKey, claims jwtlib.MapClaims) string {
	t.Helper()
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodRS256, claims)
	token.Header["kid"] = "test-key"
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func googleClaims() jwtlib.MapClaims {
	return jwtlib.MapClaims{
		"iss":            identity.GoogleIssuer,
		"aud":            testClientID,
		"sub":            "1234567890",
		"email":          testEmail,
		"email_verified": true,
		"name":           "Jane Doe",
		"iat":            testNow.Add(-time.Minute).Unix(),
		"exp":            testNow.Add(time.Hour).Unix(),
	}
}

func newKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func newOIDCDecoder(key *rsa.PrivateKey) *identity.OIDCDecoder {
	keys := &oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{&key.PublicKey}}
	return identity.NewOIDCDecoderWithKeys(identity.GoogleIssuer, testClientID, keys, func() time.Time { return testNow })
}

func TestOIDCDecoder_Decode(t *testing.T) {
	key := newKey(t)
	d := newOIDCDecoder(key)
	ctx := context.Background()
	require.True(t, d.Verified())

	t.Run("valid token yields its email", func(t *testing.T) {
		claims, err := d.Decode(ctx, signToken(t, key, googleClaims()))
		require.NoError(t, err)
		require.Equal(t, testEmail, claims.Email)
		require.Equal(t, "1234567890", claims.Subject)
		require.True(t, claims.EmailVerified)
	})

	t.Run("token signed by another key", func(t *testing.T) {
		_, err := d.Decode(ctx, signToken(t, newKey(t), googleClaims()))
		require.ErrorIs(t, err, errors.ErrInvalidCredential)
	})

	t.Run("wrong audience", func(t *testing.T) {
		c := googleClaims()
		c["aud"] = "someone-else"
		_, err := d.Decode(ctx, signToken(t, key, c))
		require.ErrorIs(t, err, errors.ErrInvalidCredential)
	})

	t.Run("expired", func(t *testing.T) {
		c := googleClaims()
		c["exp"] = testNow.Add(-time.Minute).Unix()
		_, err := d.Decode(ctx, signToken(t, key, c))
		require.ErrorIs(t, err, errors.ErrInvalidCredential)
	})

	t.Run("missing email", func(t *testing.T) {
		c := googleClaims()
		delete(c, "email")
		_, err := d.Decode(ctx, signToken(t, key, c))
		require.ErrorIs(t, err, errors.ErrMalformedCredential)
		require.ErrorIs(t, err, errors.ErrMissingEmailClaim)
	})

	t.Run("not a jwt", func(t *testing.T) {
		_, err := d.Decode(ctx, "not-a-token")
		require.ErrorIs(t, err, errors.ErrMalformedCredential)
	})
}

func TestUnverifiedDecoder_Decode(t *testing.T) {
	d := identity.NewUnverifiedDecoder()
	ctx := context.Background()
	require.False(t, d.Verified())

	t.Run("any signer is accepted", func(t *testing.T) {
		claims, err := d.Decode(ctx, signToken(t, newKey(t), googleClaims()))
		require.NoError(t, err)
		require.Equal(t, testEmail, claims.Email)
		require.Equal(t, "Jane Doe", claims.Name)
	})

	t.Run("hand built payload", func(t *testing.T) {
		header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"RS256","typ":"JWT"}`))
		payload := base64.RawURLEncoding.EncodeToString([]byte(`{"email":"a@b.c"}`))
		claims, err := d.Decode(ctx, header+"."+payload+".sig")
		require.NoError(t, err)
		require.Equal(t, "a@b.c", claims.Email)
	})

	for name, raw := range map[string]string{
		"empty":            "",
		"two segments":     "a.b",
		"bad base64":       "eyJhbGciOiJSUzI1NiJ9.!!!.sig",
		"payload not json": "eyJhbGciOiJSUzI1NiJ9." + base64.RawURLEncoding.EncodeToString([]byte("nope")) + ".sig",
		"no email":         "eyJhbGciOiJSUzI1NiJ9." + base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"x"}`)) + ".sig",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := d.Decode(ctx, raw)
			require.ErrorIs(t, err, errors.ErrMalformedCredential)
		})
	}
}
