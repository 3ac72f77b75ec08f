package auth

import (
	"testing"
	"time"

	"donationtracker/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_Issue(t *testing.T) {
	secret := "test-secret"
	m := NewJWTManager(secret)

	token, err := m.Issue(42, domain.TokenTypeAccess, 5*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := jwt.ParseWithClaims(token, &jwtClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	claims, ok := parsed.Claims.(*jwtClaims)
	require.True(t, ok)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, domain.TokenTypeAccess, claims.TokenType)
}

func TestJWTManager_Verify(t *testing.T) {
	m := NewJWTManager("test-secret")
	access, err := m.Issue(7, domain.TokenTypeAccess, time.Minute)
	require.NoError(t, err)
	refresh, err := m.Issue(7, domain.TokenTypeRefresh, time.Hour)
	require.NoError(t, err)
	other, err := NewJWTManager("other-secret").Issue(7, domain.TokenTypeAccess, time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name      string
		token     string
		tokenType domain.TokenType
		wantID    int64
		wantErr   bool
	}{
		{"access token as access", access, domain.TokenTypeAccess, 7, false},
		{"refresh token as refresh", refresh, domain.TokenTypeRefresh, 7, false},
		{"refresh token as access", refresh, domain.TokenTypeAccess, 0, true},
		{"access token as refresh", access, domain.TokenTypeRefresh, 0, true},
		{"wrong secret", other, domain.TokenTypeAccess, 0, true},
		{"garbage", "not-a-jwt", domain.TokenTypeAccess, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := m.Verify(tt.token, tt.tokenType)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrInvalidToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestJWTManager_Verify_expired(t *testing.T) {
	m := NewJWTManager("test-secret")
	issuedAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issuedAt }
	token, err := m.Issue(1, domain.TokenTypeAccess, 5*time.Minute)
	require.NoError(t, err)

	m.now = func() time.Time { return issuedAt.Add(4 * time.Minute) }
	_, err = m.Verify(token, domain.TokenTypeAccess)
	require.NoError(t, err)

	m.now = func() time.Time { return issuedAt.Add(6 * time.Minute) }
	_, err = m.Verify(token, domain.TokenTypeAccess)
	require.ErrorIs(t, err, domain.ErrInvalidToken)
}
