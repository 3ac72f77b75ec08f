package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"donationtracker/internal/domain"
)

type userService struct {
	userRepo domain.UserRepository
	hasher   domain.PasswordHasher
}

// NewUserService creates a UserService with the given repository and password hasher.
func NewUserService(userRepo domain.UserRepository, hasher domain.PasswordHasher) domain.UserService {
	return &userService{
		userRepo: userRepo,
		hasher:   hasher,
	}
}

// GetProfile returns the caller's profile with the derived role and lowercase group names.
func (s *userService) GetProfile(ctx context.Context, user *domain.User) (*domain.UserProfile, error) {
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	names, err := s.userRepo.ListGroupNames(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	groups := make([]string, 0, len(names))
	for _, name := range names {
		groups = append(groups, strings.ToLower(name))
	}
	return &domain.UserProfile{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     domain.RoleOf(user).Code(),
		Groups:   groups,
	}, nil
}

// CreateUser provisions an account. It backs the createuser command; the API has no signup.
func (s *userService) CreateUser(ctx context.Context, params domain.CreateUserParams) (*domain.User, error) {
	username := strings.TrimSpace(params.Username)
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if params.Password == "" {
		return nil, fmt.Errorf("password is required")
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, params.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := domain.NewUser(username, strings.TrimSpace(params.Email), params.IsStaff, params.IsSuperuser, time.Now())
	user.PasswordHash = hash
	user.Salt = salt
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			return nil, domain.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	for _, group := range params.Groups {
		group = strings.TrimSpace(group)
		if group == "" {
			continue
		}
		if err := s.userRepo.AddToGroup(ctx, user.ID, group); err != nil {
			return nil, fmt.Errorf("add user to group %q: %w", group, err)
		}
	}
	return user, nil
}
