package services

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"authapi/internal/authz"
	"authapi/internal/models"
)

func TestTokenIssueVerifyRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	user := &models.User{ID: 42, Role: authz.RoleAdmin, Blocked: true}
	token, err := svc.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	require.Equal(t, 42, claims.UserID)
	require.Equal(t, authz.RoleAdmin, claims.Role)
	require.True(t, claims.Blocked)
	require.Equal(t, strconv.Itoa(user.ID), claims.Subject)
}

func TestTokenVerifyRejectsTampered(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	token, err := svc.Issue(&models.User{ID: 1, Role: authz.RoleUser})
	require.NoError(t, err)

	_, err = svc.Verify(token + "x")
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Verify("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-a", time.Hour)
	verifier := NewTokenService("secret-b", time.Hour)

	token, err := issuer.Issue(&models.User{ID: 1, Role: authz.RoleUser})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenVerifyRejectsExpired(t *testing.T) {
	svc := NewTokenService("test-secret", -time.Minute)

	token, err := svc.Issue(&models.User{ID: 1, Role: authz.RoleUser})
	require.NoError(t, err)

	_, err = svc.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}
