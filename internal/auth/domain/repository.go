package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id snowflake.ID) (*User, error)
	UpdatePassword(ctx context.Context, id snowflake.ID, passwordHash string) error
}

type SessionRepository interface {
	CreateSession(ctx context.Context, session *Session) error
	FindByTokenHash(ctx context.Context, tokenHash string) (*Session, error)
	Revoke(ctx context.Context, id snowflake.ID) error
	Touch(ctx context.Context, id snowflake.ID) error
}
