package jwt

import (
	"testing"
	"time"

	"skill-pulse/internal/domain/org"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *HMACService {
	return NewHMACService("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestHMACService_AccessTokenRoundTrip(t *testing.T) {
	svc := newTestService()
	profileID := uuid.New()

	token, err := svc.GenerateAccessToken(profileID, "lead@example.com", org.RoleTechLead)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, profileID, claims.ProfileID)
	assert.Equal(t, "lead@example.com", claims.Email)
	assert.Equal(t, org.RoleTechLead, claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
}

func TestHMACService_RefreshTokenRejectedAsAccess(t *testing.T) {
	svc := newTestService()

	refresh, err := svc.GenerateRefreshToken(uuid.New(), org.RoleEmployee)
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(refresh)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestHMACService_ExpiredToken(t *testing.T) {
	svc := newTestService()
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := svc.GenerateAccessToken(uuid.New(), "", org.RoleAdmin)
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestHMACService_WrongSecret(t *testing.T) {
	svc := newTestService()
	other := NewHMACService("other-secret", "other-refresh", 15*time.Minute, time.Hour)

	token, err := svc.GenerateAccessToken(uuid.New(), "", org.RoleAdmin)
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestHMACService_InvalidRoleRejected(t *testing.T) {
	svc := newTestService()

	token, err := svc.GenerateAccessToken(uuid.New(), "", org.Role("SUPERUSER"))
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
