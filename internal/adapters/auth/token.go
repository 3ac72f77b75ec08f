package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"donationtracker/internal/domain"
)

type jwtClaims struct {
	jwt.RegisteredClaims
	TokenType domain.TokenType `json:"token_type"`
}

// JWTManager issues and verifies HS256 tokens. The subject carries the user ID
// and token_type separates access from refresh tokens.
type JWTManager struct {
	secret []byte
	now    func() time.Time
}

// NewJWTManager returns a JWTManager that signs with the given secret.
func NewJWTManager(secret string) *JWTManager {
	return &JWTManager{secret: []byte(secret), now: time.Now}
}

var (
	_ domain.TokenIssuer   = (*JWTManager)(nil)
	_ domain.TokenVerifier = (*JWTManager)(nil)
)

func (m *JWTManager) Issue(userID int64, tokenType domain.TokenType, ttl time.Duration) (string, error) {
	now := m.now()
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenType: tokenType,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

func (m *JWTManager) Verify(tokenString string, tokenType domain.TokenType) (int64, error) {
	claims := &jwtClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if claims.TokenType != tokenType {
		return 0, fmt.Errorf("%w: expected %s token", domain.ErrInvalidToken, tokenType)
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, errors.Join(domain.ErrInvalidToken, err)
	}
	return userID, nil
}
