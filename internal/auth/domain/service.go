package domain

import (
	"context"
	"time"
)

type CreateUserRequest struct {
	Name       string
	Email      string
	Phone      string
	Password   string
	Role       Role
	CustomerID string
}

type LoginRequest struct {
	Email     string
	Password  string
	UserAgent string
	IPAddress string
}

type LoginResult struct {
	User      *User
	RawToken  string
	ExpiresAt time.Time
}

type ChangePasswordRequest struct {
	UserID          string
	CurrentPassword string
	NewPassword     string
}

// LoginLimiter throttles repeated failed sign-ins per email.
type LoginLimiter interface {
	Blocked(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) (int64, error)
	Reset(ctx context.Context, email string) error
	Threshold() int
}

type Service interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*User, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, rawToken string) error
	// Authenticate resolves a raw session token to its user, enforcing
	// expiry and revocation.
	Authenticate(ctx context.Context, rawToken string) (*User, *Session, error)
	ChangePassword(ctx context.Context, req ChangePasswordRequest) error
}
