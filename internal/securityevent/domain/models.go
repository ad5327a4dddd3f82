package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Event is an append-only record of an auth-relevant action.
type Event struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	UserEmail string       `gorm:"type:text;not null;index" json:"user_email"`
	Kind      string       `gorm:"type:text;not null" json:"kind"`
	IPAddress string       `gorm:"type:text" json:"ip_address,omitempty"`
	UserAgent string       `gorm:"type:text" json:"user_agent,omitempty"`
	Detail    string       `gorm:"type:text" json:"detail,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Event) TableName() string { return "security_events" }

const (
	KindLogin           = "login"
	KindLoginFailed     = "login_failed"
	KindLockout         = "lockout"
	KindPasswordChanged = "password_changed"
)

type RecordRequest struct {
	UserEmail string
	Kind      string
	IPAddress string
	UserAgent string
	Detail    string
}

type Service interface {
	// Record never fails the caller; persistence problems are logged.
	Record(ctx context.Context, req RecordRequest)
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
