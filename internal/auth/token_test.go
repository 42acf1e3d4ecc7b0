package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micollege/elms/internal/domain"
)

func testUser() *domain.User {
	return &domain.User{
		ID:         42,
		Role:       domain.RoleHOD,
		Department: "Computer Science & Engineering (CSE)",
	}
}

func TestNewTokenIssuerRequiresSecret(t *testing.T) {
	_, err := NewTokenIssuer("", time.Hour)
	assert.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	signed, err := issuer.Issue(testUser())
	require.NoError(t, err)

	claims, err := issuer.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, domain.RoleHOD, claims.Role)
	assert.Equal(t, "Computer Science & Engineering (CSE)", claims.Department)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer, err := NewTokenIssuer("secret-one", time.Hour)
	require.NoError(t, err)
	other, err := NewTokenIssuer("secret-two", time.Hour)
	require.NoError(t, err)

	signed, err := issuer.Issue(testUser())
	require.NoError(t, err)

	_, err = other.Verify(signed)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	signed, err := issuer.Issue(testUser())
	require.NoError(t, err)

	_, err = issuer.Verify(signed + "x")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	_, err = issuer.Verify("not-a-token")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	issuer := &TokenIssuer{secret: []byte("test-secret"), expiry: -time.Minute}

	signed, err := issuer.Issue(testUser())
	require.NoError(t, err)

	_, err = issuer.Verify(signed)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
