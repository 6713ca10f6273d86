package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/api/internal/config"
)

func newIssuer() *TokenIssuer {
	return NewTokenIssuer(config.SecurityConfig{
		JWTAccessSecret:  "access-secret",
		JWTRefreshSecret: "refresh-secret",
		JWTAccessTTL:     time.Minute,
		JWTRefreshTTL:    time.Hour,
		Issuer:           "jobboard-test",
	})
}

var alice = Identity{
	UserID:      "u1",
	Name:        "Alice",
	Email:       "alice@example.com",
	RoleID:      "r1",
	Permissions: []string{"POST /api/v1/jobs"},
}

func TestAccessRoundTrip(t *testing.T) {
	issuer := newIssuer()
	token, err := issuer.IssueAccess(alice)
	require.NoError(t, err)

	claims, err := issuer.VerifyAccess(token)
	require.NoError(t, err)
	assert.Equal(t, alice, claims.Identity())
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "jobboard-test", claims.Issuer)
}

func TestRefreshCarriesNoPermissions(t *testing.T) {
	issuer := newIssuer()
	token, err := issuer.IssueRefresh(alice)
	require.NoError(t, err)

	claims, err := issuer.VerifyRefresh(token)
	require.NoError(t, err)
	assert.Empty(t, claims.Permissions)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	issuer := newIssuer()
	access, err := issuer.IssueAccess(alice)
	require.NoError(t, err)
	refresh, err := issuer.IssueRefresh(alice)
	require.NoError(t, err)

	_, err = issuer.VerifyRefresh(access)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	_, err = issuer.VerifyAccess(refresh)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestExpiredRefreshRejected(t *testing.T) {
	issuer := newIssuer()
	issued := time.Now().Add(-2 * time.Hour)
	issuer.now = func() time.Time { return issued }
	token, err := issuer.IssueRefresh(alice)
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.VerifyRefresh(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestWrongSecretRejected(t *testing.T) {
	token, err := newIssuer().IssueRefresh(alice)
	require.NoError(t, err)

	other := NewTokenIssuer(config.SecurityConfig{
		JWTAccessSecret:  "access-secret",
		JWTRefreshSecret: "another-secret",
		JWTAccessTTL:     time.Minute,
		JWTRefreshTTL:    time.Hour,
		Issuer:           "jobboard-test",
	})
	_, err = other.VerifyRefresh(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = other.VerifyRefresh("garbage")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestSuccessiveTokensDiffer(t *testing.T) {
	issuer := newIssuer()
	a, err := issuer.IssueRefresh(alice)
	require.NoError(t, err)
	b, err := issuer.IssueRefresh(alice)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, HashRefreshToken(a), HashRefreshToken(b))
}
