package domain

import (
	"context"
	"time"
)

// User is an identity that can authenticate against the API. Users are managed
// out of band (see the createuser command); the API only reads them.
// swagger:model User
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	IsStaff      bool      `json:"is_staff"`
	IsSuperuser  bool      `json:"is_superuser"`
	IsActive     bool      `json:"-"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
}

// NewUser returns a new active User. ID is typically set by the repository on create.
func NewUser(username, email string, isStaff, isSuperuser bool, createdAt time.Time) *User {
	return &User{
		Username:    username,
		Email:       email,
		IsStaff:     isStaff,
		IsSuperuser: isSuperuser,
		IsActive:    true,
		CreatedAt:   createdAt,
	}
}

// UserProfile is the caller's view of their own account.
// swagger:model UserProfile
type UserProfile struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Role     string   `json:"role"`
	Groups   []string `json:"groups"`
}

// CreateUserParams holds the fields needed to provision a user account.
type CreateUserParams struct {
	Username    string
	Email       string
	Password    string
	IsStaff     bool
	IsSuperuser bool
	Groups      []string
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenType distinguishes short-lived access tokens from refresh tokens.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// TokenPair is the result of a successful credential exchange.
// swagger:model TokenPair
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// TokenIssuer issues signed tokens of the given type for a user.
type TokenIssuer interface {
	Issue(userID int64, tokenType TokenType, ttl time.Duration) (string, error)
}

// TokenVerifier verifies a token of the expected type and returns the user ID it was issued for.
type TokenVerifier interface {
	Verify(token string, tokenType TokenType) (userID int64, err error)
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	ListGroupNames(ctx context.Context, userID int64) ([]string, error)
	AddToGroup(ctx context.Context, userID int64, group string) error
}

// UserService exposes profile lookups and account provisioning.
type UserService interface {
	GetProfile(ctx context.Context, user *User) (*UserProfile, error)
	CreateUser(ctx context.Context, params CreateUserParams) (*User, error)
}

// AuthService exchanges credentials for tokens and resolves access tokens to users.
type AuthService interface {
	ObtainToken(ctx context.Context, username, password string) (*TokenPair, error)
	RefreshToken(ctx context.Context, refresh string) (access string, err error)
	Authenticate(ctx context.Context, access string) (*User, error)
}
