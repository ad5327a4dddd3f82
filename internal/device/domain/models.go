package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Device struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	Name       string       `gorm:"type:text;not null" json:"name"`
	Kind       string       `gorm:"type:text;not null" json:"kind"`
	IPAddress  string       `gorm:"type:text" json:"ip_address"`
	Location   string       `gorm:"type:text" json:"location"`
	Status     string       `gorm:"type:text;not null;default:'offline'" json:"status"`
	LastSeenAt *time.Time   `json:"last_seen_at,omitempty"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Device) TableName() string { return "devices" }

const (
	StatusOnline   = "online"
	StatusOffline  = "offline"
	StatusDegraded = "degraded"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusOnline, StatusOffline, StatusDegraded:
		return true
	default:
		return false
	}
}
