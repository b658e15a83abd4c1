package service

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("super-secret", time.Hour)
	tok, err := issuer.Issue("user-123")
	require.NoError(t, err)

	id, err := issuer.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", id)
}

func TestTokenIssuer_ValidUntilExpiry(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("secret", 0)
	start := time.Now()
	issuer.now = func() time.Time { return start }

	tok, err := issuer.Issue("u1")
	require.NoError(t, err)

	issuer.now = func() time.Time { return start.Add(59 * time.Minute) }
	_, err = issuer.Verify(tok)
	assert.NoError(t, err)

	issuer.now = func() time.Time { return start.Add(61 * time.Minute) }
	_, err = issuer.Verify(tok)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestTokenIssuer_Rejects(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("right-secret", time.Hour)
	good, err := issuer.Issue("u2")
	require.NoError(t, err)

	other, err := NewTokenIssuer("wrong-secret", time.Hour).Issue("u2")
	require.NoError(t, err)

	parts := strings.Split(good, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"id":  "u2",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": "u2"}).
		SignedString([]byte("right-secret"))
	require.NoError(t, err)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("right-secret"))
	require.NoError(t, err)

	cases := map[string]string{
		"empty":        "",
		"malformed":    "not.a.jwt",
		"wrong secret": other,
		"tampered":     tampered,
		"alg none":     none,
		"no expiry":    noExpiry,
		"no user id":   noUser,
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := issuer.Verify(tok)
			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}
}

func TestTokenIssuer_IssueRequiresUserID(t *testing.T) {
	t.Parallel()

	_, err := NewTokenIssuer("secret", time.Hour).Issue("")
	assert.Error(t, err)
}
