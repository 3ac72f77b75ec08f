package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"donationtracker/internal/domain"
)

type authService struct {
	userRepo        domain.UserRepository
	hasher          domain.PasswordHasher
	issuer          domain.TokenIssuer
	verifier        domain.TokenVerifier
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

// NewAuthService creates an AuthService that issues access and refresh tokens with the given lifetimes.
func NewAuthService(
	userRepo domain.UserRepository,
	hasher domain.PasswordHasher,
	issuer domain.TokenIssuer,
	verifier domain.TokenVerifier,
	accessTokenTTL, refreshTokenTTL time.Duration,
) domain.AuthService {
	return &authService{
		userRepo:        userRepo,
		hasher:          hasher,
		issuer:          issuer,
		verifier:        verifier,
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: refreshTokenTTL,
	}
}

// ObtainToken exchanges a username and password for a token pair. Unknown users, wrong
// passwords and inactive accounts all fail with ErrInvalidCredentials.
func (s *authService) ObtainToken(ctx context.Context, username, password string) (*domain.TokenPair, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, user.Salt, password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrInvalidCredentials
	}

	access, err := s.issuer.Issue(user.ID, domain.TokenTypeAccess, s.accessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.issuer.Issue(user.ID, domain.TokenTypeRefresh, s.refreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	return &domain.TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *authService) RefreshToken(ctx context.Context, refresh string) (string, error) {
	userID, err := s.verifier.Verify(refresh, domain.TokenTypeRefresh)
	if err != nil {
		return "", domain.ErrInvalidToken
	}
	if _, err := s.activeUser(ctx, userID); err != nil {
		return "", err
	}
	access, err := s.issuer.Issue(userID, domain.TokenTypeAccess, s.accessTokenTTL)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}
	return access, nil
}

// Authenticate resolves an access token to its active user.
func (s *authService) Authenticate(ctx context.Context, access string) (*domain.User, error) {
	userID, err := s.verifier.Verify(access, domain.TokenTypeAccess)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	return s.activeUser(ctx, userID)
}

func (s *authService) activeUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !user.IsActive {
		return nil, domain.ErrInvalidToken
	}
	return user, nil
}
