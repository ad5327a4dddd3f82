// Package domain contains core types for the auth service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Role is the closed set of account roles. Dispatch on it exhaustively;
// there is no fallthrough role.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleSupport  Role = "support"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleSupport, RoleAdmin:
		return true
	default:
		return false
	}
}

// Staff reports whether the role may act on other customers' records.
func (r Role) Staff() bool {
	switch r {
	case RoleSupport, RoleAdmin:
		return true
	case RoleCustomer:
		return false
	default:
		return false
	}
}

// User represents a system user account.
type User struct {
	ID                  snowflake.ID  `gorm:"primaryKey" json:"id"`
	Name                string        `gorm:"type:text;not null" json:"name"`
	Email               string        `gorm:"type:text;not null;uniqueIndex" json:"email"`
	Phone               string        `gorm:"type:text" json:"phone,omitempty"`
	PasswordHash        *string       `gorm:"type:text" json:"-"`
	Role                Role          `gorm:"type:text;not null" json:"role"`
	CustomerID          *snowflake.ID `gorm:"index" json:"customer_id,omitempty"`
	LastPasswordChanged *time.Time    `gorm:"column:last_password_changed" json:"-"`
	CreatedAt           time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt           time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// Session represents a persisted login session.
type Session struct {
	ID               snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID           snowflake.ID `gorm:"column:user_id;not null;index" json:"user_id"`
	SessionTokenHash string       `gorm:"column:session_token_hash;type:text;not null;uniqueIndex" json:"-"`
	UserAgent        string       `gorm:"column:user_agent;type:text" json:"user_agent,omitempty"`
	IPAddress        string       `gorm:"column:ip_address;type:text" json:"ip_address,omitempty"`
	ExpiresAt        time.Time    `gorm:"column:expires_at;not null;index" json:"expires_at"`
	RevokedAt        *time.Time   `gorm:"column:revoked_at" json:"revoked_at,omitempty"`
	CreatedAt        time.Time    `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	LastSeenAt       time.Time    `gorm:"column:last_seen_at;not null;default:CURRENT_TIMESTAMP" json:"last_seen_at"`
}

func (Session) TableName() string { return "sessions" }
